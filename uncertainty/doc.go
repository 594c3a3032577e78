// Package uncertainty converts a national aggregate standard error into
// per-stratum standard errors, following the single-shared-factor model
// the upstream estimation methodology prescribes.
//
// The model: aggregate uncertainty is driven by one shared source of
// variation distributed proportionally to each stratum's share of the
// total, not by independent per-stratum sampling error. For a pattern of
// weights p_i (summing to 1) and aggregate standard error SE:
//
//	SE_i = SE · sqrt(p_i² / Σ_j p_j²)
//
// This makes Σ_i SE_i² = SE² an exact algebraic identity, which is what
// lets downstream rollups reconcile with the upstream confidence
// intervals. The assumption is strong and non-obvious, but it is part of
// the published estimate semantics: do not replace it with an
// independent-errors model.
package uncertainty
