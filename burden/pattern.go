package burden

// Pattern is a per-stratum weight vector over the fine age×sex grid.
// A pattern is "normalized" when its weights sum to 1; most engine
// stages produce and consume normalized patterns, but Pattern itself
// does not enforce it — callers normalize explicitly at the points the
// algorithm requires.
//
// All Pattern methods walk Grid() order, never map order, so results
// are bit-for-bit reproducible.
type Pattern map[Stratum]float64

// NewPattern returns a pattern with every grid stratum present at zero.
func NewPattern() Pattern {
	p := make(Pattern, len(grid))
	var s Stratum
	for _, s = range grid {
		p[s] = 0
	}
	return p
}

// Sum returns the total mass of the pattern, accumulated in grid order.
func (p Pattern) Sum() float64 {
	var total float64
	var s Stratum
	for _, s = range grid {
		total += p[s]
	}
	return total
}

// Clone returns an independent copy of the pattern.
func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	var s Stratum
	for _, s = range grid {
		out[s] = p[s]
	}
	return out
}

// Normalized returns a copy of p rescaled to sum to 1.
// A zero-mass pattern is returned unchanged (as a clone): the caller is
// responsible for treating zero mass as degenerate before this point.
func (p Pattern) Normalized() Pattern {
	total := p.Sum()
	out := p.Clone()
	if total == 0 {
		return out
	}
	var s Stratum
	for _, s = range grid {
		out[s] /= total
	}
	return out
}

// ChildFraction returns the share of the pattern's mass in the 0-14
// fine age groups, relative to total mass. Zero total yields zero.
func (p Pattern) ChildFraction() float64 {
	var child, total float64
	var s Stratum
	for _, s = range grid {
		total += p[s]
		if IsChild(s.Age) {
			child += p[s]
		}
	}
	if total == 0 {
		return 0
	}
	return child / total
}

// Scale returns a copy of p with every weight multiplied by f.
func (p Pattern) Scale(f float64) Pattern {
	out := p.Clone()
	var s Stratum
	for _, s = range grid {
		out[s] *= f
	}
	return out
}
