package split

import (
	"math"
	"sort"

	"github.com/veslind/stratify/burden"
	"github.com/veslind/stratify/prior"
)

// CFRSplitter derives a country's stratification pattern from reported
// case counts and the static age-specific case-fatality reference table.
// This is the default method, used for the majority of countries: where
// no death registration exists, case fatality acts as the implicit
// stratification driver.
type CFRSplitter struct {
	opts Options
}

// Method implements Splitter.
func (c *CFRSplitter) Method() burden.Method { return burden.MethodCFR }

// Split implements Splitter for the case-fatality method.
//
// Stages, per estimate year:
//  1. Broadcast the national incidence across the grid using the year's
//     notification shares (the only stratified signal available).
//  2. Case-detection ratio per stratum: cdr = min(1, notifications/incidence).
//  3. Effective CFR per stratum by interpolating the reference table:
//     cfr = cfr_notx·(1-cdr) + cfr_ontx·cdr, with cdr as the
//     treatment-coverage proxy.
//  4. Mortality weight per stratum: incidence × cfr, normalized.
//  5. Numerical floor (WeightFloor) and renormalization.
//  6. Prior correction, normalization, assembly (totals + uncertainty).
//
// A year without notifications borrows the nearest notification year's
// counts; a country with no notifications at all is ErrNoNotifications.
func (c *CFRSplitter) Split(ds *burden.Dataset, country string) ([]burden.Stratified, []burden.Warning, error) {
	ests, err := ds.EstimatesFor(country)
	if err != nil {
		return nil, nil, err
	}

	// Notification years available for this country, for nearest-year
	// borrowing below.
	notifYears := notificationYears(ds, country, ests)
	if len(notifYears) == 0 {
		return nil, nil, ErrNoNotifications
	}

	cp, ok := ds.PriorFor(country)
	if !ok {
		return nil, nil, ErrNoPrior
	}

	var rows []burden.Stratified
	var est burden.CountryEstimate
	for _, est = range ests {
		notif, _ := ds.NotificationPattern(country, nearestYear(notifYears, est.Year))
		pat, pErr := c.yearPattern(ds, est, notif, cp)
		if pErr != nil {
			return nil, nil, pErr
		}
		yearRows, aErr := Assemble(ds, est, pat, burden.MethodCFR)
		if aErr != nil {
			return nil, nil, aErr
		}
		rows = append(rows, yearRows...)
	}
	return rows, nil, nil
}

// yearPattern runs stages 1-6 for a single estimate year, returning the
// normalized mortality-distribution pattern.
func (c *CFRSplitter) yearPattern(ds *burden.Dataset, est burden.CountryEstimate, notif burden.Pattern, cp burden.ChildPrior) (burden.Pattern, error) {
	// 1) Incidence broadcast over the grid by notification share.
	notifTotal := notif.Sum()
	if notifTotal == 0 {
		return nil, ErrNoNotifications
	}
	share := notif.Normalized()

	// 2-4) cdr → effective CFR → raw mortality weight, per stratum.
	weights := burden.NewPattern()
	var s burden.Stratum
	for _, s = range burden.Grid() {
		inc := est.Incidence * share[s]
		cdr := math.Min(1, notif[s]/math.Max(inc, IncidenceFloor))
		ref, err := ds.CFRFor(s.Age)
		if err != nil {
			// Missing reference row: configuration error, fail fast.
			return nil, err
		}
		cfr := ref.NoTreatment*(1-cdr) + ref.OnTreatment*cdr
		weights[s] = inc * cfr
	}
	if weights.Sum() == 0 {
		return nil, ErrNoNotifications
	}

	// 5) Floor near-zero weights, renormalize.
	floored := floorAndRenormalize(weights.Normalized(), c.opts.WeightFloor)

	// 6) Prior correction, final normalization.
	corrected, err := prior.Correct(floored, cp, c.opts.PriorStrength)
	if err != nil {
		return nil, err
	}
	return corrected.Normalized(), nil
}

// notificationYears lists, sorted ascending, the years for which the
// country has notifications with positive total counts, scanning the
// estimate years plus whatever the notification index holds for them.
func notificationYears(ds *burden.Dataset, country string, ests []burden.CountryEstimate) []int {
	seen := make(map[int]bool)
	var years []int
	var est burden.CountryEstimate
	for _, est = range ests {
		if seen[est.Year] {
			continue
		}
		seen[est.Year] = true
		if p, ok := ds.NotificationPattern(country, est.Year); ok && p.Sum() > 0 {
			years = append(years, est.Year)
		}
	}
	sort.Ints(years)
	return years
}

// nearestYear returns the element of years closest to target, preferring
// the earlier year on ties. years must be non-empty and sorted.
func nearestYear(years []int, target int) int {
	best := years[0]
	var y int
	for _, y = range years[1:] {
		if abs(y-target) < abs(best-target) {
			best = y
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
