// Package burden defines the data model shared by every stage of the
// stratify engine: national aggregate estimates, the auxiliary tables
// they are disaggregated with, and the stratified outputs the engine
// produces.
//
// 🚀 What lives here?
//
//	• The canonical age/sex grid (eight age groups × two sexes) that fixes
//	  the order of every per-stratum computation, so results are
//	  deterministic run to run.
//	• Input rows: CountryEstimate, VitalRegistrationRecord,
//	  NotificationRecord, CaseFatalityRatio, ChildPrior, HIVWeight.
//	• Output rows: Stratified and RollupRow, plus structured Warning
//	  diagnostics.
//	• Dataset — the validated, indexed bundle of all input tables.
//
// ✨ Design rules:
//
//   - All joins are explicit keyed lookups built once by NewDataset;
//     a lookup on a key that must exist returns a wrapped ErrMissingKey
//     (a configuration error) instead of silently dropping rows.
//   - Patterns (per-stratum weight vectors) are plain map[Stratum]float64
//     values; every loop over a pattern walks Grid() so iteration order,
//     and therefore floating-point accumulation, never varies.
//   - Nothing here mutates after NewDataset returns: the dataset is
//     shared read-only across concurrently processed countries.
//
// Loading and validating the raw tables from files is the job of an
// external collaborator; burden only checks structural invariants
// (known age groups and sexes, non-negative counts, non-empty inputs).
package burden
