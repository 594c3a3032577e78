// Package impute fills stratification gaps with WHO-region averages.
//
// Some countries appear in the aggregate estimates but in neither
// splitter's output — no vital registration, no notifications, or an
// isolated per-country failure upstream. For each such country, Regional
// computes a population-weighted average of the HIV-negative patterns of
// the sibling countries in its WHO region for which splitting succeeded,
// and applies that pattern to the country's own aggregate totals. The
// resulting rows carry the "regional average" method tag.
//
// This is the engine's completeness guarantee: after imputation, every
// country in the aggregate input set has a full stratified output. A
// region with no successfully split donors at all has no imputation
// source — that is ErrNoRegionalPattern, a configuration error rather
// than a recoverable gap.
package impute
