package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/veslind/stratify/burden"
	"github.com/veslind/stratify/impute"
	"github.com/veslind/stratify/rollup"
	"github.com/veslind/stratify/split"
)

// Result is the complete output of one run: the terminal tables plus
// every data-quality warning raised along the way, stamped for the
// persistence/export collaborator.
type Result struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	Stratified  []burden.Stratified
	Rollups     []burden.RollupRow
	Warnings    []burden.Warning
}

// Run executes the full disaggregation over a validated dataset.
//
// Stages:
//  1. Precompute method selection from VR coverage.
//  2. Parallel per-country split (errgroup, bounded by Workers); each
//     country writes only its own slot, the dataset is read-only.
//  3. Deterministic concatenation in input country order; failed
//     countries are logged and queued for imputation.
//  4. Regional imputation of every country still missing, enforcing the
//     completeness invariant (every input country gets stratified rows).
//  5. Rollup tables and the reconciliation check.
//
// The only fatal conditions are a cancelled context and configuration
// errors (broken reference data, a region with no imputation donors).
func Run(ctx context.Context, ds *burden.Dataset, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}

	// 1) Routing is decided once, before any worker starts.
	sel := split.NewSelector(ds, cfg.Split)
	countries := ds.Countries()

	// 2) Parallel map. Splitter errors are captured per slot, not
	//    returned through the group: they are recoverable.
	type slot struct {
		rows  []burden.Stratified
		warns []burden.Warning
		err   error
	}
	slots := make([]slot, len(countries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, country := range countries {
		i, country := i, country
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, warns, err := sel.For(country).Split(ds, country)
			slots[i] = slot{rows: rows, warns: warns, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Only context cancellation reaches here.
		return nil, err
	}

	// 3) Concatenate in input order; collect fallbacks.
	var stratified []burden.Stratified
	var warnings []burden.Warning
	present := make(map[string]bool)
	for i, country := range countries {
		s := slots[i]
		if s.err != nil {
			cfg.Logger.Warn("splitter failed, routing country to regional imputation",
				zap.String("country", country),
				zap.Error(s.err),
			)
			warnings = append(warnings, burden.Warning{
				Kind:    burden.WarnSplitterFallback,
				Country: country,
				Detail:  s.err.Error(),
			})
			continue
		}
		if len(s.rows) > 0 {
			present[country] = true
		}
		stratified = append(stratified, s.rows...)
		warnings = append(warnings, s.warns...)
	}

	// 4) Impute every country without rows, in input order.
	var missing []string
	for _, country := range countries {
		if !present[country] {
			missing = append(missing, country)
		}
	}
	if len(missing) > 0 {
		imputed, err := impute.Regional(ds, stratified, missing)
		if err != nil {
			return nil, err
		}
		stratified = append(stratified, imputed...)
	}

	// 5) Rollups and reconciliation.
	rollups, rollWarns, err := rollup.Build(ds, stratified, cfg.Rollup)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, rollWarns...)

	logWarnings(cfg.Logger, warnings)

	return &Result{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Stratified:  stratified,
		Rollups:     rollups,
		Warnings:    warnings,
	}, nil
}

// logWarnings emits every data-quality warning through the configured
// logger with structured context.
func logWarnings(logger *zap.Logger, warns []burden.Warning) {
	var w burden.Warning
	for _, w = range warns {
		logger.Warn("data-quality warning",
			zap.String("kind", string(w.Kind)),
			zap.String("country", w.Country),
			zap.Int("year", w.Year),
			zap.Float64("value", w.Value),
			zap.Float64("limit", w.Limit),
			zap.String("detail", w.Detail),
		)
	}
}
