package domain

// Wave is a set of requirements that may run concurrently: no member depends
// on another member of the same wave.
type Wave []*Requirement

// Plan is the schedule derived from a graph for one root. Waves run in slice
// order, Waves[0] first, and every scheduled requirement sits in a strictly
// earlier wave than every requirement that depends on it. Empty waves are
// legal and mean no work at that depth.
type Plan struct {
	Waves []Wave
}

// IsEmpty reports whether no wave contains any work.
func (p *Plan) IsEmpty() bool {
	for _, w := range p.Waves {
		if len(w) > 0 {
			return false
		}
	}
	return true
}

// Units returns the total number of scheduled requirements.
func (p *Plan) Units() int {
	n := 0
	for _, w := range p.Waves {
		n += len(w)
	}
	return n
}
