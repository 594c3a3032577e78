package split

import (
	"math"
	"sort"

	"github.com/veslind/stratify/burden"
	"github.com/veslind/stratify/prior"
)

// VRSplitter derives a country's stratification pattern directly from
// registered-death data. Civil-registration stratification is assumed
// stable over the short historical window, so the available years are
// averaged into one representative pattern, which is then broadcast
// across every estimate year.
type VRSplitter struct {
	opts Options
}

// Method implements Splitter.
func (v *VRSplitter) Method() burden.Method { return burden.MethodVR }

// Split implements Splitter for the vital-registration method.
//
// Stages:
//  1. Accumulate per-year death-count patterns, clamping counts below
//     DeathFloor so near-zero cells cannot dominate the shares.
//  2. Average the per-year share patterns into one representative pattern.
//  3. Correct the child/non-child split toward the country prior.
//  4. Normalize and broadcast across all estimate years; multiply by the
//     mortality totals and propagate uncertainty (Assemble).
//  5. Flag any diagnostic case-fatality ratio above CFRWarnLimit — a
//     data-quality warning, never a failure.
func (v *VRSplitter) Split(ds *burden.Dataset, country string) ([]burden.Stratified, []burden.Warning, error) {
	// 1) Collect per-year clamped count patterns.
	recs := ds.VRFor(country)
	if len(recs) == 0 {
		return nil, nil, ErrNoVRData
	}
	byYear := make(map[int]burden.Pattern)
	var rec burden.VitalRegistrationRecord
	for _, rec = range recs {
		p, ok := byYear[rec.Year]
		if !ok {
			p = burden.NewPattern()
			byYear[rec.Year] = p
		}
		p[burden.Stratum{Age: rec.Age, Sex: rec.Sex}] += math.Max(rec.Deaths, v.opts.DeathFloor)
	}

	// 2) Average the yearly share patterns, iterating years in sorted
	//    order so accumulation is deterministic.
	years := make([]int, 0, len(byYear))
	var y int
	for y = range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	avg := burden.NewPattern()
	inv := 1.0 / float64(len(years))
	var s burden.Stratum
	for _, y = range years {
		share := byYear[y].Normalized()
		for _, s = range burden.Grid() {
			avg[s] += share[s] * inv
		}
	}

	// 3) Prior correction of the child/non-child split.
	cp, ok := ds.PriorFor(country)
	if !ok {
		return nil, nil, ErrNoPrior
	}
	corrected, err := prior.Correct(avg, cp, v.opts.PriorStrength)
	if err != nil {
		return nil, nil, err
	}
	pat := corrected.Normalized()

	// 4) Broadcast the single pattern across every estimate year.
	ests, err := ds.EstimatesFor(country)
	if err != nil {
		return nil, nil, err
	}
	var rows []burden.Stratified
	var warns []burden.Warning
	var est burden.CountryEstimate
	for _, est = range ests {
		yearRows, aErr := Assemble(ds, est, pat, burden.MethodVR)
		if aErr != nil {
			return nil, nil, aErr
		}
		rows = append(rows, yearRows...)

		// 5) Diagnostic CFR check: mortality share over an incidence share.
		//    Incidence exposure weights come from the notification shares
		//    when the country reports notifications for the year, else from
		//    the mortality pattern itself.
		warns = append(warns, v.cfrWarnings(ds, est, pat)...)
	}
	return rows, warns, nil
}

// cfrWarnings computes the diagnostic per-stratum case-fatality ratio
// mortality_i / incidence_i for one year and flags biologically
// implausible values. High CFRs indicate upstream data problems but must
// not halt the pipeline.
func (v *VRSplitter) cfrWarnings(ds *burden.Dataset, est burden.CountryEstimate, pat burden.Pattern) []burden.Warning {
	incShare := pat
	if notif, ok := ds.NotificationPattern(est.Country, est.Year); ok && notif.Sum() > 0 {
		incShare = notif.Normalized()
	}
	var warns []burden.Warning
	var s burden.Stratum
	for _, s = range burden.Grid() {
		inc := math.Max(est.Incidence*incShare[s], IncidenceFloor)
		cfr := pat[s] * est.MortalityHIVNeg / inc
		if cfr > v.opts.CFRWarnLimit {
			warns = append(warns, burden.Warning{
				Kind:    burden.WarnImplausibleCFR,
				Country: est.Country,
				Year:    est.Year,
				Age:     s.Age,
				Sex:     s.Sex,
				Value:   cfr,
				Limit:   v.opts.CFRWarnLimit,
				Detail:  "diagnostic case-fatality ratio above plausible ceiling",
			})
		}
	}
	return warns
}
