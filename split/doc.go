// Package split disaggregates a country's national mortality estimates
// across the age×sex grid, by one of two automatically selected methods.
//
// 🚀 The two methods:
//
//	• VR  — countries with vital-registration data. Registered death
//	  counts are clamped, averaged across the available years into one
//	  representative pattern, corrected toward the child prior, and
//	  broadcast over every estimate year.
//	• CFR — everyone else (the majority of countries). Notifications give
//	  a case-detection ratio per stratum; interpolating between the
//	  untreated and on-treatment reference case-fatality ratios turns
//	  detection into an effective CFR, and incidence × CFR becomes the
//	  mortality distribution. Case fatality is the implicit
//	  stratification driver when no direct death registration exists.
//
// Both methods share a tail: prior correction (package prior),
// normalization, multiplication by the aggregate mortality totals, and
// per-stratum standard errors (package uncertainty). HIV-positive strata
// reuse the HIV-negative pattern re-weighted by the country's
// HIV-positive population distribution when one is configured.
//
// ⚙️ Selection:
//
//	sel := split.NewSelector(ds, split.DefaultOptions())
//	rows, warns, err := sel.For(country).Split(ds, country)
//
// The choice is made once per country from a precomputed membership set
// and is binary and total: no mixed application within a country.
// Splitter errors (no usable data, missing prior) are recoverable — the
// pipeline routes such countries to the regional imputer.
package split
