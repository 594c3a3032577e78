// Package rollup aggregates stratified country estimates into country,
// WHO-region, and global summary tables.
//
// Four granularities are retained at every geographic level:
//
//	• full age×sex strata
//	• sex only (ages collapsed)
//	• broad age bands 0-14 / 15plus (sexes retained)
//	• all-ages all-sex totals
//
// Every granularity is independently uncertainty-propagated from the
// fine rows by summing best estimates and combining standard errors via
// sum of squares — collapsed rows are never derived from other already
// collapsed (and rounded) rows. The sum-of-squares combination assumes
// independence across countries and strata at the rollup stage; this is
// deliberately a weaker assumption than the within-country shared-factor
// model in package uncertainty, and the two are reconciled by the check
// below.
//
// Reconciliation: for each (country, year, measure) the combined fine
// half-width is compared against the upstream aggregate half-width; a
// relative discrepancy beyond tolerance is surfaced as a data-quality
// warning, never silently accepted.
package rollup
