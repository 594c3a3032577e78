// Package prior implements prior-informed correction of a stratification
// pattern's child/non-child split.
//
// 🚀 Why correct at all?
//
//	Child deaths are sparse in most stratified sources: a handful of
//	registered or notified child cases makes the raw child share of a
//	pattern very noisy. Each country carries a Beta-like prior (two
//	pseudo-count parameters a, b) on the fraction of mortality occurring
//	in children. Correct blends the raw child fraction toward that prior,
//	shrinking noisy small-sample splits toward a plausible value without
//	discarding the data signal — the statistical core of the whole
//	disaggregation design.
//
// ⚙️ The blend:
//
//	kf = raw child fraction of the pattern
//	pf = a / (a + b)                       (prior target fraction)
//	tf = (kf + pf·w) / (1 + w)             (blended target, strength w)
//
// Child-stratum weights are rescaled by tf/kf and non-child weights by
// (1-tf)/(1-kf), preserving total pattern mass. A child fraction of 0
// (or 1) is floored to FractionFloor before the ratio so the rescale
// never divides by zero; in that degenerate case callers renormalize
// after correction.
//
// Strength w defaults to 1.0 elsewhere in the engine; w = 0 makes
// Correct the identity.
package prior
