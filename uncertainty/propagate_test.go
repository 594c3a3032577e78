package uncertainty_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veslind/stratify/burden"
	"github.com/veslind/stratify/uncertainty"
)

// TestPropagate_NegativeSE verifies rejection of a negative aggregate SE.
func TestPropagate_NegativeSE(t *testing.T) {
	_, err := uncertainty.Propagate(-1, burden.NewPattern())
	assert.ErrorIs(t, err, uncertainty.ErrNegativeSE)
}

// TestPropagate_EmptyPattern verifies rejection of a nil pattern.
func TestPropagate_EmptyPattern(t *testing.T) {
	_, err := uncertainty.Propagate(10, nil)
	assert.ErrorIs(t, err, uncertainty.ErrEmptyPattern)
}

// TestPropagate_ZeroPattern verifies rejection of an all-zero pattern.
func TestPropagate_ZeroPattern(t *testing.T) {
	_, err := uncertainty.Propagate(10, burden.NewPattern())
	assert.ErrorIs(t, err, uncertainty.ErrZeroPattern)
}

// TestPropagate_SumOfSquaresIdentity asserts the algebraic identity
// Σ SE_i² == SE² for an arbitrary normalized pattern. This is exact by
// construction of the formula, not an approximation.
func TestPropagate_SumOfSquaresIdentity(t *testing.T) {
	p := burden.NewPattern()
	w := 1.0
	var s burden.Stratum
	for _, s = range burden.Grid() {
		p[s] = w
		w *= 1.7 // uneven weights exercise the formula harder than flat ones
	}
	p = p.Normalized()

	const seTotal = 123.4
	ses, err := uncertainty.Propagate(seTotal, p)
	require.NoError(t, err)

	var sumSq float64
	for _, s = range burden.Grid() {
		sumSq += ses[s] * ses[s]
	}
	assert.InDelta(t, seTotal*seTotal, sumSq, 1e-6, "Σ SE_i² must reproduce SE_total²")
}

// TestPropagate_ProportionalToWeight verifies that a stratum with twice
// the weight receives twice the standard error.
func TestPropagate_ProportionalToWeight(t *testing.T) {
	p := burden.NewPattern()
	a := burden.Stratum{Age: burden.Age1524, Sex: burden.SexFemale}
	b := burden.Stratum{Age: burden.Age2534, Sex: burden.SexMale}
	p[a] = 2.0 / 3.0
	p[b] = 1.0 / 3.0

	ses, err := uncertainty.Propagate(30, p)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ses[a]/ses[b], 1e-12, "SE must scale linearly with weight")
}

// TestPropagate_SingleStratum verifies the degenerate single-stratum
// case: all uncertainty lands on the only stratum with mass.
func TestPropagate_SingleStratum(t *testing.T) {
	p := burden.NewPattern()
	only := burden.Stratum{Age: burden.Age65Plus, Sex: burden.SexMale}
	p[only] = 1

	ses, err := uncertainty.Propagate(50, p)
	require.NoError(t, err)
	assert.InDelta(t, 50, ses[only], 1e-12, "sole stratum carries the full SE")

	var rest float64
	var s burden.Stratum
	for _, s = range burden.Grid() {
		if s != only {
			rest += math.Abs(ses[s])
		}
	}
	assert.Zero(t, rest, "zero-weight strata carry zero SE")
}
