package split

import (
	"math"

	"github.com/veslind/stratify/burden"
	"github.com/veslind/stratify/uncertainty"
)

// Assemble turns one year's normalized HIV-negative pattern into the
// full set of stratified rows for that (country, year): HIV-negative
// rows from the pattern itself, HIV-positive rows from the pattern
// re-weighted by the country's HIV-positive population distribution.
// The regional imputer shares this tail, so it is exported.
func Assemble(ds *burden.Dataset, est burden.CountryEstimate, pat burden.Pattern, method burden.Method) ([]burden.Stratified, error) {
	rows := make([]burden.Stratified, 0, 2*len(burden.Grid()))

	// HIV-negative series straight off the pattern.
	neg, err := seriesRows(est, pat, burden.HIVNegative, est.MortalityHIVNeg, est.MortalityHIVNegSE, method)
	if err != nil {
		return nil, err
	}
	rows = append(rows, neg...)

	// HIV-positive series off the re-weighted pattern.
	pos, err := seriesRows(est, hivReweighted(ds, est.Country, pat), burden.HIVPositive, est.MortalityHIVPos, est.MortalityHIVPosSE, method)
	if err != nil {
		return nil, err
	}
	return append(rows, pos...), nil
}

// seriesRows multiplies a normalized pattern by one mortality total and
// propagates the matching aggregate SE across the strata.
func seriesRows(est burden.CountryEstimate, pat burden.Pattern, hiv burden.HIVStatus, total, seTotal float64, method burden.Method) ([]burden.Stratified, error) {
	ses, err := uncertainty.Propagate(seTotal, pat)
	if err != nil {
		return nil, err
	}
	rows := make([]burden.Stratified, 0, len(burden.Grid()))
	var s burden.Stratum
	for _, s = range burden.Grid() {
		best := pat[s] * total
		se := ses[s]
		rows = append(rows, burden.Stratified{
			Country: est.Country,
			Year:    est.Year,
			Age:     s.Age,
			Sex:     s.Sex,
			HIV:     hiv,
			Best:    best,
			Lo:      math.Max(0, best-zScore*se),
			Hi:      best + zScore*se,
			SE:      se,
			Method:  method,
		})
	}
	return rows, nil
}

// hivReweighted multiplies the HIV-negative pattern by the country's
// HIV-positive population distribution and renormalizes. Countries with
// no distribution configured, or whose re-weighted pattern degenerates
// to zero mass, reuse the HIV-negative pattern unweighted.
func hivReweighted(ds *burden.Dataset, country string, pat burden.Pattern) burden.Pattern {
	hw, ok := ds.HIVPattern(country)
	if !ok {
		return pat
	}
	out := pat.Clone()
	var s burden.Stratum
	for _, s = range burden.Grid() {
		out[s] *= hw[s]
	}
	if out.Sum() == 0 {
		return pat
	}
	return out.Normalized()
}

// floorAndRenormalize raises weights below floor to floor, then rescales
// the pattern back to unit mass. This keeps degenerate near-zero strata
// from vanishing entirely while preserving a proper distribution.
func floorAndRenormalize(pat burden.Pattern, floor float64) burden.Pattern {
	out := pat.Clone()
	var s burden.Stratum
	for _, s = range burden.Grid() {
		if out[s] < floor {
			out[s] = floor
		}
	}
	return out.Normalized()
}
