package burden

import (
	"fmt"
	"sort"
)

// Inputs bundles the raw tables supplied by the external data-loading
// collaborator. Estimates and CFR are mandatory; the remaining tables
// may be empty (their absence routes countries to other methods).
type Inputs struct {
	Estimates     []CountryEstimate
	VR            []VitalRegistrationRecord
	Notifications []NotificationRecord
	CFR           []CaseFatalityRatio
	Priors        []ChildPrior
	HIVWeights    []HIVWeight
}

// countryYear keys per-year lookups.
type countryYear struct {
	country string
	year    int
}

// Dataset is the validated, indexed input bundle. It is built once by
// NewDataset and read-only thereafter, so it is safe to share across
// concurrently processed countries without locking.
type Dataset struct {
	countries []string // first-seen order from the estimate table

	estimates  map[string][]CountryEstimate // country → rows sorted by year
	aggregates map[countryYear]CountryEstimate
	regions    map[string]string // country → WHO region

	vr      map[string][]VitalRegistrationRecord
	notifs  map[countryYear]Pattern // raw case counts per stratum
	cfr     map[AgeGroup]CaseFatalityRatio
	priors  map[string]ChildPrior
	hivPats map[string]Pattern
}

// NewDataset validates the raw tables and builds every keyed index the
// engine needs. Validation order:
//  1. Estimate table must be non-empty (ErrNoEstimates).
//  2. Every stratified row must use a canonical age group and sex
//     (ErrUnknownAgeGroup, ErrUnknownSex).
//  3. Counts and estimates must be non-negative (ErrNegativeValue).
func NewDataset(in Inputs) (*Dataset, error) {
	// 1) There must be something to disaggregate.
	if len(in.Estimates) == 0 {
		return nil, ErrNoEstimates
	}

	ds := &Dataset{
		estimates:  make(map[string][]CountryEstimate),
		aggregates: make(map[countryYear]CountryEstimate),
		regions:    make(map[string]string),
		vr:         make(map[string][]VitalRegistrationRecord),
		notifs:     make(map[countryYear]Pattern),
		cfr:        make(map[AgeGroup]CaseFatalityRatio),
		priors:     make(map[string]ChildPrior),
		hivPats:    make(map[string]Pattern),
	}

	// 2) Index aggregate estimates; remember first-seen country order so
	//    downstream concatenation is deterministic.
	var est CountryEstimate
	for _, est = range in.Estimates {
		if est.Incidence < 0 || est.MortalityHIVNeg < 0 || est.MortalityHIVPos < 0 || est.Population < 0 {
			return nil, fmt.Errorf("%w: estimate %s/%d", ErrNegativeValue, est.Country, est.Year)
		}
		if _, seen := ds.estimates[est.Country]; !seen {
			ds.countries = append(ds.countries, est.Country)
		}
		ds.estimates[est.Country] = append(ds.estimates[est.Country], est)
		ds.aggregates[countryYear{est.Country, est.Year}] = est
		ds.regions[est.Country] = est.WHORegion
	}
	var c string
	for _, c = range ds.countries {
		rows := ds.estimates[c]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	}

	// 3) Index vital-registration rows by country.
	var vr VitalRegistrationRecord
	for _, vr = range in.VR {
		if !validAge(vr.Age) {
			return nil, fmt.Errorf("%w: VR %s/%d %q", ErrUnknownAgeGroup, vr.Country, vr.Year, vr.Age)
		}
		if !validSex(vr.Sex) {
			return nil, fmt.Errorf("%w: VR %s/%d %q", ErrUnknownSex, vr.Country, vr.Year, vr.Sex)
		}
		if vr.Deaths < 0 {
			return nil, fmt.Errorf("%w: VR %s/%d", ErrNegativeValue, vr.Country, vr.Year)
		}
		ds.vr[vr.Country] = append(ds.vr[vr.Country], vr)
	}

	// 4) Index notifications into per-(country,year) count patterns.
	var n NotificationRecord
	for _, n = range in.Notifications {
		if !validAge(n.Age) {
			return nil, fmt.Errorf("%w: notification %s/%d %q", ErrUnknownAgeGroup, n.Country, n.Year, n.Age)
		}
		if !validSex(n.Sex) {
			return nil, fmt.Errorf("%w: notification %s/%d %q", ErrUnknownSex, n.Country, n.Year, n.Sex)
		}
		if n.Cases < 0 {
			return nil, fmt.Errorf("%w: notification %s/%d", ErrNegativeValue, n.Country, n.Year)
		}
		key := countryYear{n.Country, n.Year}
		if _, ok := ds.notifs[key]; !ok {
			ds.notifs[key] = NewPattern()
		}
		ds.notifs[key][Stratum{n.Age, n.Sex}] += n.Cases
	}

	// 5) Index the static case-fatality reference table by age group.
	var cf CaseFatalityRatio
	for _, cf = range in.CFR {
		if !validAge(cf.Age) {
			return nil, fmt.Errorf("%w: CFR table %q", ErrUnknownAgeGroup, cf.Age)
		}
		if cf.NoTreatment < 0 || cf.OnTreatment < 0 {
			return nil, fmt.Errorf("%w: CFR table %q", ErrNegativeValue, cf.Age)
		}
		ds.cfr[cf.Age] = cf
	}

	// 6) Index child priors by country.
	var pr ChildPrior
	for _, pr = range in.Priors {
		ds.priors[pr.Country] = pr
	}

	// 7) Index optional HIV-positive population distributions.
	var hw HIVWeight
	for _, hw = range in.HIVWeights {
		if !validAge(hw.Age) {
			return nil, fmt.Errorf("%w: HIV weight %s %q", ErrUnknownAgeGroup, hw.Country, hw.Age)
		}
		if !validSex(hw.Sex) {
			return nil, fmt.Errorf("%w: HIV weight %s %q", ErrUnknownSex, hw.Country, hw.Sex)
		}
		if hw.Weight < 0 {
			return nil, fmt.Errorf("%w: HIV weight %s", ErrNegativeValue, hw.Country)
		}
		if _, ok := ds.hivPats[hw.Country]; !ok {
			ds.hivPats[hw.Country] = NewPattern()
		}
		ds.hivPats[hw.Country][Stratum{hw.Age, hw.Sex}] += hw.Weight
	}

	return ds, nil
}

// Countries returns every country in the aggregate table, in first-seen
// input order. The returned slice is a copy.
func (ds *Dataset) Countries() []string {
	out := make([]string, len(ds.countries))
	copy(out, ds.countries)
	return out
}

// EstimatesFor returns a country's aggregate rows sorted by year.
// A country absent from the aggregate table is ErrCountryNotFound.
func (ds *Dataset) EstimatesFor(country string) ([]CountryEstimate, error) {
	rows, ok := ds.estimates[country]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCountryNotFound, country)
	}
	return rows, nil
}

// AggregateFor returns the single aggregate row for (country, year).
// Absence is a configuration error (ErrMissingKey): every stratified
// output year must trace back to exactly one aggregate row.
func (ds *Dataset) AggregateFor(country string, year int) (CountryEstimate, error) {
	est, ok := ds.aggregates[countryYear{country, year}]
	if !ok {
		return CountryEstimate{}, fmt.Errorf("%w: aggregate %s/%d", ErrMissingKey, country, year)
	}
	return est, nil
}

// Region returns a country's WHO region.
func (ds *Dataset) Region(country string) (string, error) {
	r, ok := ds.regions[country]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrCountryNotFound, country)
	}
	return r, nil
}

// HasVR reports whether a country has any vital-registration rows.
// This is the method-selection predicate: the choice is binary and
// total, with no mixed application per country.
func (ds *Dataset) HasVR(country string) bool {
	return len(ds.vr[country]) > 0
}

// VRFor returns a country's vital-registration rows (possibly empty).
func (ds *Dataset) VRFor(country string) []VitalRegistrationRecord {
	return ds.vr[country]
}

// NotificationPattern returns the raw per-stratum case counts for
// (country, year), and whether any notifications exist for that key.
func (ds *Dataset) NotificationPattern(country string, year int) (Pattern, bool) {
	p, ok := ds.notifs[countryYear{country, year}]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// CFRFor returns the case-fatality reference row for an age group.
// The CFR table is static reference data covering the whole grid, so a
// miss is a configuration error (ErrMissingKey).
func (ds *Dataset) CFRFor(age AgeGroup) (CaseFatalityRatio, error) {
	cf, ok := ds.cfr[age]
	if !ok {
		return CaseFatalityRatio{}, fmt.Errorf("%w: CFR table %q", ErrMissingKey, age)
	}
	return cf, nil
}

// PriorFor returns a country's child prior, if one is configured.
func (ds *Dataset) PriorFor(country string) (ChildPrior, bool) {
	pr, ok := ds.priors[country]
	return pr, ok
}

// HIVPattern returns a country's HIV-positive population distribution,
// if one is configured, as a raw (unnormalized) pattern.
func (ds *Dataset) HIVPattern(country string) (Pattern, bool) {
	p, ok := ds.hivPats[country]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Population returns the country's most recent population count from
// the aggregate table, used for population-weighted regional averages.
func (ds *Dataset) Population(country string) (float64, error) {
	rows, err := ds.EstimatesFor(country)
	if err != nil {
		return 0, err
	}
	return rows[len(rows)-1].Population, nil
}
