package rollup

import (
	"errors"
	"math"
	"sort"

	"github.com/veslind/stratify/burden"
)

// ErrNoRows indicates Build was called with no stratified input.
var ErrNoRows = errors.New("rollup: no stratified rows")

// zScore converts a standard error into a 95% confidence half-width.
const zScore = 1.959964

// Options tunes the aggregator.
//
//	ReconcileTolerance — maximum relative discrepancy between the
//	combined fine half-width and the upstream aggregate half-width
//	before a warning is emitted. Default 0.10.
type Options struct {
	ReconcileTolerance float64
}

// DefaultOptions returns the standard rollup tuning.
func DefaultOptions() Options {
	return Options{ReconcileTolerance: 0.10}
}

// GlobalName is the group name of global rollup rows.
const GlobalName = "global"

// cellKey identifies one output cell across all levels and granularities.
type cellKey struct {
	groupType burden.GroupType
	group     string
	year      int
	measure   burden.Measure
	age       burden.AgeGroup
	sex       burden.Sex
}

// cell accumulates a point estimate and a variance (Σ SE²) so each
// granularity is propagated independently from the fine rows.
type cell struct {
	best     float64
	variance float64
}

// Build aggregates stratified rows into rollup rows at all four
// granularities for country, WHO-region, and global levels, and runs the
// reconciliation check against the upstream aggregate standard errors.
func Build(ds *burden.Dataset, rows []burden.Stratified, opts Options) ([]burden.RollupRow, []burden.Warning, error) {
	if len(rows) == 0 {
		return nil, nil, ErrNoRows
	}

	// 1) Accumulate every fine row into its twelve destination cells:
	//    four granularities at each of three geographic levels.
	cells := make(map[cellKey]*cell)
	var r burden.Stratified
	for _, r = range rows {
		region, err := ds.Region(r.Country)
		if err != nil {
			return nil, nil, err
		}
		measure := measureOf(r.HIV)
		for _, g := range granularities(r.Age, r.Sex) {
			add(cells, cellKey{burden.GroupCountry, r.Country, r.Year, measure, g.age, g.sex}, r)
			add(cells, cellKey{burden.GroupRegion, region, r.Year, measure, g.age, g.sex}, r)
			add(cells, cellKey{burden.GroupGlobal, GlobalName, r.Year, measure, g.age, g.sex}, r)
		}
	}

	// 2) Reconciliation of fine half-widths against upstream aggregates.
	warns, err := reconcile(ds, rows, opts.ReconcileTolerance)
	if err != nil {
		return nil, nil, err
	}

	// 3) Emit rows in a fixed total order.
	keys := make([]cellKey, 0, len(cells))
	var k cellKey
	for k = range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	out := make([]burden.RollupRow, 0, len(keys))
	for _, k = range keys {
		c := cells[k]
		se := math.Sqrt(c.variance)
		out = append(out, burden.RollupRow{
			GroupType: k.groupType,
			GroupName: k.group,
			Year:      k.year,
			Measure:   k.measure,
			Unit:      burden.UnitNumber,
			Age:       k.age,
			Sex:       k.sex,
			Best:      c.best,
			Lo:        math.Max(0, c.best-zScore*se),
			Hi:        c.best + zScore*se,
		})
	}
	return out, warns, nil
}

// granularity is one (age, sex) destination for a fine row.
type granularity struct {
	age burden.AgeGroup
	sex burden.Sex
}

// granularities maps a fine stratum onto its four output granularities.
func granularities(age burden.AgeGroup, sex burden.Sex) [4]granularity {
	return [4]granularity{
		{age, sex},                     // full strata
		{burden.AgeAll, sex},           // sex only
		{burden.BroadBand(age), sex},   // broad bands
		{burden.AgeAll, burden.SexAll}, // all-ages all-sex total
	}
}

// add accumulates one fine row into one cell, summing point estimates
// and variances (cross-stratum independence at the rollup stage).
func add(cells map[cellKey]*cell, k cellKey, r burden.Stratified) {
	c, ok := cells[k]
	if !ok {
		c = &cell{}
		cells[k] = c
	}
	c.best += r.Best
	c.variance += r.SE * r.SE
}

// measureOf maps the HIV status of a stratified row to its rollup measure.
func measureOf(h burden.HIVStatus) burden.Measure {
	if h == burden.HIVPositive {
		return burden.MeasureMortalityHIVPos
	}
	return burden.MeasureMortalityHIVNeg
}

// reconcile compares, per (country, year, measure), the combined fine
// confidence half-width against the upstream aggregate half-width and
// flags relative discrepancies beyond tol.
func reconcile(ds *burden.Dataset, rows []burden.Stratified, tol float64) ([]burden.Warning, error) {
	type cym struct {
		country string
		year    int
		measure burden.Measure
	}
	varSums := make(map[cym]float64)
	var order []cym
	var r burden.Stratified
	for _, r = range rows {
		k := cym{r.Country, r.Year, measureOf(r.HIV)}
		if _, ok := varSums[k]; !ok {
			order = append(order, k)
		}
		varSums[k] += r.SE * r.SE
	}

	var warns []burden.Warning
	var k cym
	for _, k = range order {
		est, err := ds.AggregateFor(k.country, k.year)
		if err != nil {
			return nil, err
		}
		want := est.MortalityHIVNegSE
		if k.measure == burden.MeasureMortalityHIVPos {
			want = est.MortalityHIVPosSE
		}
		if want == 0 {
			// Nothing to reconcile against: a zero upstream SE means the
			// aggregate was published without uncertainty.
			continue
		}
		got := math.Sqrt(varSums[k])
		rel := math.Abs(got-want) / want
		if rel > tol {
			warns = append(warns, burden.Warning{
				Kind:    burden.WarnReconciliation,
				Country: k.country,
				Year:    k.year,
				Value:   rel,
				Limit:   tol,
				Detail:  "combined fine half-widths disagree with upstream aggregate (" + string(k.measure) + ")",
			})
		}
	}
	return warns, nil
}

// Fixed orderings for deterministic output.

var groupTypeRank = map[burden.GroupType]int{
	burden.GroupCountry: 0,
	burden.GroupRegion:  1,
	burden.GroupGlobal:  2,
}

var measureRank = map[burden.Measure]int{
	burden.MeasureMortalityHIVNeg: 0,
	burden.MeasureMortalityHIVPos: 1,
}

var ageRank = map[burden.AgeGroup]int{
	burden.Age0004: 0, burden.Age0514: 1, burden.Age1524: 2, burden.Age2534: 3,
	burden.Age3544: 4, burden.Age4554: 5, burden.Age5564: 6, burden.Age65Plus: 7,
	burden.AgeChild: 8, burden.AgeAdult: 9, burden.AgeAll: 10,
}

var sexRank = map[burden.Sex]int{
	burden.SexFemale: 0, burden.SexMale: 1, burden.SexAll: 2,
}

// less is the total output ordering: level, group, year, measure,
// age granularity, sex.
func less(a, b cellKey) bool {
	if groupTypeRank[a.groupType] != groupTypeRank[b.groupType] {
		return groupTypeRank[a.groupType] < groupTypeRank[b.groupType]
	}
	if a.group != b.group {
		return a.group < b.group
	}
	if a.year != b.year {
		return a.year < b.year
	}
	if measureRank[a.measure] != measureRank[b.measure] {
		return measureRank[a.measure] < measureRank[b.measure]
	}
	if ageRank[a.age] != ageRank[b.age] {
		return ageRank[a.age] < ageRank[b.age]
	}
	return sexRank[a.sex] < sexRank[b.sex]
}
