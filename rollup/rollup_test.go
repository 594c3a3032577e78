package rollup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veslind/stratify/burden"
	"github.com/veslind/stratify/rollup"
	"github.com/veslind/stratify/split"
	"github.com/veslind/stratify/uncertainty"
)

// fixture builds a two-country dataset (same region plus one other
// region) and splits both via the CFR method, returning dataset and the
// stratified rows rollup will consume.
func fixture(t *testing.T) (*burden.Dataset, []burden.Stratified) {
	t.Helper()
	est := func(c, region string, mort, se float64) burden.CountryEstimate {
		return burden.CountryEstimate{
			Country: c, Year: 2023, WHORegion: region,
			Incidence: 10 * mort, IncidenceSE: mort,
			MortalityHIVNeg: mort, MortalityHIVNegSE: se,
			MortalityHIVPos: mort / 5, MortalityHIVPosSE: se / 5,
			Population: 1e6,
		}
	}
	var notifs []burden.NotificationRecord
	var cfr []burden.CaseFatalityRatio
	var a burden.AgeGroup
	for _, a = range burden.FineAgeGroups() {
		cfr = append(cfr, burden.CaseFatalityRatio{Age: a, NoTreatment: 0.45, OnTreatment: 0.12})
	}
	for _, c := range []string{"AAA", "BBB", "CCC"} {
		for i, s := range burden.Grid() {
			notifs = append(notifs, burden.NotificationRecord{
				Country: c, Year: 2023, Age: s.Age, Sex: s.Sex, Cases: float64(10 + 7*i),
			})
		}
	}
	ds, err := burden.NewDataset(burden.Inputs{
		Estimates: []burden.CountryEstimate{
			est("AAA", "AFR", 1000, 50),
			est("BBB", "AFR", 400, 30),
			est("CCC", "SEA", 2500, 120),
		},
		Notifications: notifs,
		CFR:           cfr,
		Priors: []burden.ChildPrior{
			{Country: "AAA", A: 1, B: 9}, {Country: "BBB", A: 1, B: 9}, {Country: "CCC", A: 2, B: 8},
		},
	})
	require.NoError(t, err)

	sel := split.NewSelector(ds, split.DefaultOptions())
	var rows []burden.Stratified
	for _, c := range ds.Countries() {
		r, _, sErr := sel.For(c).Split(ds, c)
		require.NoError(t, sErr)
		rows = append(rows, r...)
	}
	return ds, rows
}

// find returns the single rollup row matching the key fields.
func find(t *testing.T, rows []burden.RollupRow, gt burden.GroupType, name string, m burden.Measure, age burden.AgeGroup, sex burden.Sex) burden.RollupRow {
	t.Helper()
	for _, r := range rows {
		if r.GroupType == gt && r.GroupName == name && r.Measure == m && r.Age == age && r.Sex == sex {
			return r
		}
	}
	t.Fatalf("rollup row not found: %v %s %s %s/%s", gt, name, m, age, sex)
	return burden.RollupRow{}
}

// TestBuild_NoRows verifies empty input is rejected.
func TestBuild_NoRows(t *testing.T) {
	ds, _ := fixture(t)
	_, _, err := rollup.Build(ds, nil, rollup.DefaultOptions())
	assert.ErrorIs(t, err, rollup.ErrNoRows)
}

// TestBuild_CountryTotalsMatchAggregates verifies the all-ages-all-sex
// country rows reproduce the upstream mortality totals.
func TestBuild_CountryTotalsMatchAggregates(t *testing.T) {
	ds, rows := fixture(t)
	out, _, err := rollup.Build(ds, rows, rollup.DefaultOptions())
	require.NoError(t, err)

	total := find(t, out, burden.GroupCountry, "AAA", burden.MeasureMortalityHIVNeg, burden.AgeAll, burden.SexAll)
	assert.InDelta(t, 1000, total.Best, 1000*1e-6)

	pos := find(t, out, burden.GroupCountry, "AAA", burden.MeasureMortalityHIVPos, burden.AgeAll, burden.SexAll)
	assert.InDelta(t, 200, pos.Best, 200*1e-6)
}

// TestBuild_RegionalAndGlobalSums verifies geographic aggregation: the
// AFR region row sums its two countries, the global row sums all three.
func TestBuild_RegionalAndGlobalSums(t *testing.T) {
	ds, rows := fixture(t)
	out, _, err := rollup.Build(ds, rows, rollup.DefaultOptions())
	require.NoError(t, err)

	afr := find(t, out, burden.GroupRegion, "AFR", burden.MeasureMortalityHIVNeg, burden.AgeAll, burden.SexAll)
	assert.InDelta(t, 1400, afr.Best, 1400*1e-6, "AFR = AAA + BBB")

	global := find(t, out, burden.GroupGlobal, rollup.GlobalName, burden.MeasureMortalityHIVNeg, burden.AgeAll, burden.SexAll)
	assert.InDelta(t, 3900, global.Best, 3900*1e-6, "global = all three countries")
}

// TestBuild_Associativity verifies the associativity property: collapsing
// fine rows into the broad bands via the aggregator equals simple
// summation of the fine rows, and both paths agree on all-ages totals.
func TestBuild_Associativity(t *testing.T) {
	ds, rows := fixture(t)
	out, _, err := rollup.Build(ds, rows, rollup.DefaultOptions())
	require.NoError(t, err)

	// Path 1: aggregator's broad-band rows for AAA.
	var bandSum float64
	for _, band := range []burden.AgeGroup{burden.AgeChild, burden.AgeAdult} {
		for _, sex := range burden.Sexes() {
			bandSum += find(t, out, burden.GroupCountry, "AAA", burden.MeasureMortalityHIVNeg, band, sex).Best
		}
	}

	// Path 2: simple summation of the fine stratified rows.
	var fineSum float64
	for _, r := range rows {
		if r.Country == "AAA" && r.HIV == burden.HIVNegative {
			fineSum += r.Best
		}
	}

	assert.InDelta(t, fineSum, bandSum, 1e-9, "both collapse paths must agree")

	total := find(t, out, burden.GroupCountry, "AAA", burden.MeasureMortalityHIVNeg, burden.AgeAll, burden.SexAll)
	assert.InDelta(t, fineSum, total.Best, 1e-9, "all-ages total must agree with fine summation")
}

// TestBuild_GranularitiesIndependentUncertainty verifies each granularity
// is propagated from fine SEs, not from other collapsed rows: the
// all-ages half-width must equal the root-sum-square of fine SEs.
func TestBuild_GranularitiesIndependentUncertainty(t *testing.T) {
	ds, rows := fixture(t)
	out, _, err := rollup.Build(ds, rows, rollup.DefaultOptions())
	require.NoError(t, err)

	var varSum float64
	for _, r := range rows {
		if r.Country == "AAA" && r.HIV == burden.HIVNegative {
			varSum += r.SE * r.SE
		}
	}
	total := find(t, out, burden.GroupCountry, "AAA", burden.MeasureMortalityHIVNeg, burden.AgeAll, burden.SexAll)
	halfWidth := (total.Hi - total.Best)
	assert.InDelta(t, 1.959964*1.959964*varSum, halfWidth*halfWidth, 1e-6,
		"half-width must be z·sqrt(Σ fine SE²)")
}

// TestBuild_ReconciliationWarning verifies a deliberate SE mismatch is
// flagged, while the untampered fixture reconciles silently (the
// shared-factor propagation makes Σ SE² exact).
func TestBuild_ReconciliationWarning(t *testing.T) {
	ds, rows := fixture(t)

	_, warns, err := rollup.Build(ds, rows, rollup.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, warns, "exact propagation must reconcile within tolerance")

	// Tamper: inflate every fine SE for AAA's HIV-neg series by 50%.
	tampered := make([]burden.Stratified, len(rows))
	copy(tampered, rows)
	for i := range tampered {
		if tampered[i].Country == "AAA" && tampered[i].HIV == burden.HIVNegative {
			tampered[i].SE *= 1.5
		}
	}
	_, warns, err = rollup.Build(ds, tampered, rollup.DefaultOptions())
	require.NoError(t, err, "discrepancies warn, never fail")
	require.NotEmpty(t, warns)
	assert.Equal(t, burden.WarnReconciliation, warns[0].Kind)
	assert.Equal(t, "AAA", warns[0].Country)
}

// TestBuild_DeterministicOrder verifies two builds over the same input
// emit byte-identical row sequences.
func TestBuild_DeterministicOrder(t *testing.T) {
	ds, rows := fixture(t)
	a, _, err := rollup.Build(ds, rows, rollup.DefaultOptions())
	require.NoError(t, err)
	b, _, err := rollup.Build(ds, rows, rollup.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b, "output order must not depend on map iteration")
}

// TestPropagateThenBuild_RoundTrip ties the two independence models
// together: propagate an aggregate SE across a pattern, roll the strata
// back up, and recover the aggregate half-width.
func TestPropagateThenBuild_RoundTrip(t *testing.T) {
	p := burden.NewPattern()
	var s burden.Stratum
	w := 1.0
	for _, s = range burden.Grid() {
		p[s] = w
		w += 0.5
	}
	p = p.Normalized()

	ses, err := uncertainty.Propagate(42.0, p)
	require.NoError(t, err)

	var varSum float64
	for _, s = range burden.Grid() {
		varSum += ses[s] * ses[s]
	}
	assert.InDelta(t, 42.0*42.0, varSum, 1e-9, "rollup recovers the aggregate variance exactly")
}
