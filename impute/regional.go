package impute

import (
	"errors"
	"fmt"

	"github.com/veslind/stratify/burden"
	"github.com/veslind/stratify/split"
)

// ErrNoRegionalPattern indicates a WHO region with no successfully split
// countries to average over. With well-formed reference data this cannot
// happen; treat it as a configuration error, not a data gap.
var ErrNoRegionalPattern = errors.New("impute: region has no donor patterns")

// donor is one successfully split country's contribution to its region's
// average pattern.
type donor struct {
	country    string
	pattern    burden.Pattern // average of the country's per-year HIV-neg shares
	population float64
}

// Regional produces stratified rows for every country in missing, using
// the population-weighted average HIV-negative pattern of the split
// countries in the same WHO region, applied to the missing country's own
// aggregate totals. Rows are tagged burden.MethodRegional.
//
// done must hold the splitters' output; missing countries keep their
// input order in the returned rows.
func Regional(ds *burden.Dataset, done []burden.Stratified, missing []string) ([]burden.Stratified, error) {
	pools, err := regionPools(ds, done)
	if err != nil {
		return nil, err
	}

	var rows []burden.Stratified
	var country string
	for _, country = range missing {
		region, rErr := ds.Region(country)
		if rErr != nil {
			return nil, rErr
		}
		pat, ok := pools[region]
		if !ok {
			return nil, fmt.Errorf("%w: region %q (needed by %q)", ErrNoRegionalPattern, region, country)
		}
		ests, eErr := ds.EstimatesFor(country)
		if eErr != nil {
			return nil, eErr
		}
		var est burden.CountryEstimate
		for _, est = range ests {
			yearRows, aErr := split.Assemble(ds, est, pat, burden.MethodRegional)
			if aErr != nil {
				return nil, aErr
			}
			rows = append(rows, yearRows...)
		}
	}
	return rows, nil
}

// regionPools derives the population-weighted average pattern per WHO
// region from the splitters' HIV-negative output rows.
func regionPools(ds *burden.Dataset, done []burden.Stratified) (map[string]burden.Pattern, error) {
	donors, err := donorPatterns(ds, done)
	if err != nil {
		return nil, err
	}

	// Weighted accumulation per region, donors in first-seen order.
	sums := make(map[string]burden.Pattern)
	weights := make(map[string]float64)
	var d donor
	for _, d = range donors {
		region, rErr := ds.Region(d.country)
		if rErr != nil {
			return nil, rErr
		}
		if _, ok := sums[region]; !ok {
			sums[region] = burden.NewPattern()
		}
		acc := sums[region]
		var s burden.Stratum
		for _, s = range burden.Grid() {
			acc[s] += d.pattern[s] * d.population
		}
		weights[region] += d.population
	}

	pools := make(map[string]burden.Pattern, len(sums))
	var region string
	for region = range sums {
		if weights[region] <= 0 {
			return nil, fmt.Errorf("%w: region %q has zero donor population", ErrNoRegionalPattern, region)
		}
		pools[region] = sums[region].Normalized()
	}
	return pools, nil
}

// donorPatterns collapses the splitters' HIV-negative rows into one
// normalized average pattern per donor country, in first-seen row order.
func donorPatterns(ds *burden.Dataset, done []burden.Stratified) ([]donor, error) {
	type countryYear struct {
		country string
		year    int
	}
	perYear := make(map[countryYear]burden.Pattern)
	var order []string
	seen := make(map[string]bool)
	yearsOf := make(map[string][]int)

	var r burden.Stratified
	for _, r = range done {
		if r.HIV != burden.HIVNegative {
			continue
		}
		if !seen[r.Country] {
			seen[r.Country] = true
			order = append(order, r.Country)
		}
		key := countryYear{r.Country, r.Year}
		if _, ok := perYear[key]; !ok {
			perYear[key] = burden.NewPattern()
			yearsOf[r.Country] = append(yearsOf[r.Country], r.Year)
		}
		perYear[key][burden.Stratum{Age: r.Age, Sex: r.Sex}] += r.Best
	}

	donors := make([]donor, 0, len(order))
	var country string
	for _, country = range order {
		avg := burden.NewPattern()
		years := yearsOf[country]
		inv := 1.0 / float64(len(years))
		var y int
		var s burden.Stratum
		for _, y = range years {
			share := perYear[countryYear{country, y}].Normalized()
			for _, s = range burden.Grid() {
				avg[s] += share[s] * inv
			}
		}
		pop, err := ds.Population(country)
		if err != nil {
			return nil, err
		}
		donors = append(donors, donor{country: country, pattern: avg, population: pop})
	}
	return donors, nil
}
