// Package burden defines the shared data model for the stratify engine.
// See doc.go for the package overview.
package burden

import "errors"

// Sentinel errors shared across the engine.
var (
	// ErrNoEstimates indicates that the aggregate-estimate table is empty:
	// there is nothing to disaggregate.
	ErrNoEstimates = errors.New("burden: estimate table is empty")

	// ErrUnknownAgeGroup indicates an input row referenced an age group
	// outside the canonical grid.
	ErrUnknownAgeGroup = errors.New("burden: unknown age group")

	// ErrUnknownSex indicates an input row referenced a sex code outside
	// the canonical grid.
	ErrUnknownSex = errors.New("burden: unknown sex code")

	// ErrNegativeValue indicates a count or estimate that must be
	// non-negative was negative.
	ErrNegativeValue = errors.New("burden: negative value")

	// ErrMissingKey indicates a keyed lookup that the configuration
	// guarantees to succeed did not. This is a configuration error in the
	// reference data, not a recoverable per-country condition.
	ErrMissingKey = errors.New("burden: required key missing")

	// ErrCountryNotFound indicates a lookup for a country absent from the
	// aggregate-estimate table.
	ErrCountryNotFound = errors.New("burden: country not found")
)

// AgeGroup is one of the eight canonical age bands, or one of the two
// broad bands / the all-ages marker used in collapsed rollup rows.
type AgeGroup string

// Canonical fine age groups, in grid order.
const (
	Age0004   AgeGroup = "0-4"
	Age0514   AgeGroup = "5-14"
	Age1524   AgeGroup = "15-24"
	Age2534   AgeGroup = "25-34"
	Age3544   AgeGroup = "35-44"
	Age4554   AgeGroup = "45-54"
	Age5564   AgeGroup = "55-64"
	Age65Plus AgeGroup = "65plus"
)

// Collapsed age groupings used only in rollup output rows.
const (
	// AgeChild is the broad 0-14 band (the two child fine groups).
	AgeChild AgeGroup = "0-14"
	// AgeAdult is the broad 15-plus band (the six adult fine groups).
	AgeAdult AgeGroup = "15plus"
	// AgeAll marks an all-ages row.
	AgeAll AgeGroup = "all"
)

// Sex is a single-letter sex code, plus the all-sexes marker for
// collapsed rollup rows.
type Sex string

const (
	SexFemale Sex = "f"
	SexMale   Sex = "m"
	// SexAll marks a sexes-combined row.
	SexAll Sex = "a"
)

// HIVStatus distinguishes the two mortality series being disaggregated.
type HIVStatus string

const (
	HIVNegative HIVStatus = "hiv.neg"
	HIVPositive HIVStatus = "hiv.pos"
)

// Method tags the estimation method that produced a stratified row.
type Method string

const (
	// MethodVR: pattern derived from vital-registration death counts.
	MethodVR Method = "VR"
	// MethodCFR: pattern derived from notifications and case-fatality ratios.
	MethodCFR Method = "CFR"
	// MethodRegional: pattern imputed from the WHO-region average.
	MethodRegional Method = "regional average"
)

// Measure names the quantity a rollup row aggregates.
type Measure string

const (
	MeasureMortalityHIVNeg Measure = "mortality.hiv.neg"
	MeasureMortalityHIVPos Measure = "mortality.hiv.pos"
)

// GroupType is the geographic level of a rollup row.
type GroupType string

const (
	GroupCountry GroupType = "country"
	GroupRegion  GroupType = "who-region"
	GroupGlobal  GroupType = "global"
)

// UnitNumber is the unit of every rollup row this engine emits:
// absolute numbers of deaths, not rates.
const UnitNumber = "num"

// Stratum is one cell of the age×sex grid.
type Stratum struct {
	Age AgeGroup
	Sex Sex
}

// grid is the canonical stratum ordering. Every per-stratum loop in the
// engine walks this slice so floating-point accumulation order is fixed.
var grid = []Stratum{
	{Age0004, SexFemale}, {Age0004, SexMale},
	{Age0514, SexFemale}, {Age0514, SexMale},
	{Age1524, SexFemale}, {Age1524, SexMale},
	{Age2534, SexFemale}, {Age2534, SexMale},
	{Age3544, SexFemale}, {Age3544, SexMale},
	{Age4554, SexFemale}, {Age4554, SexMale},
	{Age5564, SexFemale}, {Age5564, SexMale},
	{Age65Plus, SexFemale}, {Age65Plus, SexMale},
}

// Grid returns the canonical ordered list of fine strata.
// The returned slice is a copy; callers may not assume otherwise.
func Grid() []Stratum {
	out := make([]Stratum, len(grid))
	copy(out, grid)
	return out
}

// FineAgeGroups returns the eight fine age groups in grid order.
func FineAgeGroups() []AgeGroup {
	return []AgeGroup{
		Age0004, Age0514, Age1524, Age2534,
		Age3544, Age4554, Age5564, Age65Plus,
	}
}

// Sexes returns the two sexes in grid order.
func Sexes() []Sex {
	return []Sex{SexFemale, SexMale}
}

// IsChild reports whether a fine age group falls in the 0-14 band.
func IsChild(a AgeGroup) bool {
	return a == Age0004 || a == Age0514
}

// BroadBand maps a fine age group onto its broad rollup band
// (AgeChild or AgeAdult).
func BroadBand(a AgeGroup) AgeGroup {
	if IsChild(a) {
		return AgeChild
	}
	return AgeAdult
}

// validAge reports whether a is one of the eight fine age groups.
func validAge(a AgeGroup) bool {
	switch a {
	case Age0004, Age0514, Age1524, Age2534, Age3544, Age4554, Age5564, Age65Plus:
		return true
	}
	return false
}

// validSex reports whether s is one of the two fine sex codes.
func validSex(s Sex) bool {
	return s == SexFemale || s == SexMale
}

// CountryEstimate is one national aggregate row: point estimates with
// confidence-interval-derived standard errors, split by HIV status.
// Owned by the external data loader; read-only inside the engine.
type CountryEstimate struct {
	Country           string
	Year              int
	Incidence         float64
	IncidenceSE       float64
	MortalityHIVNeg   float64
	MortalityHIVNegSE float64
	MortalityHIVPos   float64
	MortalityHIVPosSE float64
	Population        float64
	WHORegion         string
}

// VitalRegistrationRecord is one civil-registration death count for a
// (country, year, stratum) cell. Present only for VR-covered countries.
type VitalRegistrationRecord struct {
	Country string
	Year    int
	Age     AgeGroup
	Sex     Sex
	Deaths  float64
}

// NotificationRecord is one reported case count for a
// (country, year, stratum) cell.
type NotificationRecord struct {
	Country string
	Year    int
	Age     AgeGroup
	Sex     Sex
	Cases   float64
}

// CaseFatalityRatio is static reference data: the probability of death
// for an age group with and without treatment.
type CaseFatalityRatio struct {
	Age         AgeGroup
	NoTreatment float64
	OnTreatment float64
}

// ChildPrior carries a country's Beta-like prior on the fraction of
// mortality occurring in children, as two pseudo-count parameters.
type ChildPrior struct {
	Country string
	A       float64
	B       float64
}

// HIVWeight is one cell of an optional HIV-positive population age/sex
// distribution, used to re-weight patterns for the HIV-positive series.
type HIVWeight struct {
	Country string
	Age     AgeGroup
	Sex     Sex
	Weight  float64
}

// Stratified is the core output row: one (country, year, stratum,
// HIV status) estimate with uncertainty and the method that produced it.
type Stratified struct {
	Country string
	Year    int
	Age     AgeGroup
	Sex     Sex
	HIV     HIVStatus
	Best    float64
	Lo      float64
	Hi      float64
	SE      float64
	Method  Method
}

// RollupRow is one aggregated output row at one of the four retained
// granularities, for one geographic grouping level.
type RollupRow struct {
	GroupType GroupType
	GroupName string
	Year      int
	Measure   Measure
	Unit      string
	Age       AgeGroup
	Sex       Sex
	Best      float64
	Lo        float64
	Hi        float64
}
