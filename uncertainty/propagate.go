package uncertainty

import (
	"errors"
	"math"

	"github.com/veslind/stratify/burden"
)

// Sentinel errors returned by Propagate.
var (
	// ErrNegativeSE indicates a negative aggregate standard error.
	ErrNegativeSE = errors.New("uncertainty: aggregate SE must be non-negative")

	// ErrEmptyPattern indicates a nil or empty weight pattern.
	ErrEmptyPattern = errors.New("uncertainty: pattern is empty")

	// ErrZeroPattern indicates a pattern whose weights are all zero, for
	// which no share of the variance can be attributed to any stratum.
	ErrZeroPattern = errors.New("uncertainty: pattern has zero mass")
)

// Propagate distributes an aggregate standard error across the strata of
// a weight pattern as SE_i = seTotal · p_i / sqrt(Σ p_j²).
//
// The pattern is expected to be normalized (weights summing to 1), but
// the formula itself only requires positive mass: shares of variance are
// attributed proportionally to squared weight regardless of scale.
//
// The returned per-stratum SEs satisfy Σ SE_i² == seTotal² exactly (up
// to floating-point rounding); this identity is asserted in tests and
// relied on by the rollup reconciliation check.
func Propagate(seTotal float64, p burden.Pattern) (burden.Pattern, error) {
	// 1) Validate the aggregate SE.
	if seTotal < 0 {
		return nil, ErrNegativeSE
	}

	// 2) Validate the pattern.
	if len(p) == 0 {
		return nil, ErrEmptyPattern
	}

	// 3) Sum of squared weights, in grid order.
	var sumSq float64
	var s burden.Stratum
	for _, s = range burden.Grid() {
		sumSq += p[s] * p[s]
	}
	if sumSq == 0 {
		return nil, ErrZeroPattern
	}

	// 4) Attribute: SE_i = seTotal · p_i / sqrt(Σ p_j²).
	norm := math.Sqrt(sumSq)
	out := burden.NewPattern()
	for _, s = range burden.Grid() {
		out[s] = seTotal * p[s] / norm
	}
	return out, nil
}
