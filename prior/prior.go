package prior

import (
	"errors"

	"github.com/veslind/stratify/burden"
)

// Sentinel errors returned by Correct.
var (
	// ErrEmptyPattern indicates a pattern with no mass: there is nothing
	// to redistribute between the child and non-child bands.
	ErrEmptyPattern = errors.New("prior: pattern has zero mass")

	// ErrBadStrength indicates a negative prior strength w.
	ErrBadStrength = errors.New("prior: strength must be non-negative")

	// ErrBadPrior indicates prior pseudo-counts from which no fraction can
	// be formed (negative, or summing to zero).
	ErrBadPrior = errors.New("prior: invalid pseudo-count parameters")
)

// FractionFloor is the floor applied to a degenerate child fraction
// (0 or 1) before the rescale ratio, so no division by zero occurs.
const FractionFloor = 1e-3

// DefaultStrength is the prior weight w used by the splitters unless
// overridden via their options.
const DefaultStrength = 1.0

// Correct returns a copy of p whose child/non-child mass split is pulled
// toward the country prior cp with strength w.
//
// Validation (in order):
//  1. w must be ≥ 0 (ErrBadStrength).
//  2. cp must have a ≥ 0, b ≥ 0 and a+b > 0 (ErrBadPrior).
//  3. p must have positive mass (ErrEmptyPattern).
//
// With w = 0, Correct returns an unmodified copy: the blend degenerates
// to the raw child fraction and both rescale ratios are exactly 1.
//
// Total mass is preserved exactly except when the raw child fraction had
// to be floored (a pattern with zero child mass stays at zero child mass,
// and the non-child rescale uses the floored fraction); callers that
// require a normalized pattern renormalize after correction.
func Correct(p burden.Pattern, cp burden.ChildPrior, w float64) (burden.Pattern, error) {
	// 1) Validate strength.
	if w < 0 {
		return nil, ErrBadStrength
	}

	// 2) Validate the prior's pseudo-counts.
	if cp.A < 0 || cp.B < 0 || cp.A+cp.B == 0 {
		return nil, ErrBadPrior
	}

	// 3) Validate pattern mass.
	total := p.Sum()
	if total <= 0 {
		return nil, ErrEmptyPattern
	}

	// 4) Raw child fraction, floored away from the 0 and 1 boundaries so
	//    the rescale ratios below are always finite.
	kf := p.ChildFraction()
	if kf < FractionFloor {
		kf = FractionFloor
	}
	if kf > 1-FractionFloor {
		kf = 1 - FractionFloor
	}

	// 5) Prior target fraction and blended target.
	pf := cp.A / (cp.A + cp.B)
	tf := (kf + pf*w) / (1 + w)

	// 6) Rescale child strata by tf/kf and non-child by (1-tf)/(1-kf).
	childScale := tf / kf
	adultScale := (1 - tf) / (1 - kf)
	out := p.Clone()
	var s burden.Stratum
	for _, s = range burden.Grid() {
		if burden.IsChild(s.Age) {
			out[s] *= childScale
		} else {
			out[s] *= adultScale
		}
	}
	return out, nil
}
