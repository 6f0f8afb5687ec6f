package optimize

import (
	"math"
	"math/rand"
)

// Annealing is a simulated annealing minimizer with a normal
// proposal. For a fixed seed the search is deterministic.
type Annealing struct {
	BaseMinimizer
	// SD is the proposal standard deviation.
	SD         float64
	iterations int
	rng        *rand.Rand
}

// NewAnnealing creates a new annealing minimizer with a given seed.
func NewAnnealing(seed int64) (a *Annealing) {
	a = &Annealing{
		SD:         1e-1,
		iterations: 10000,
		rng:        rand.New(rand.NewSource(seed)),
	}
	a.repPeriod = 1000
	return
}

// reflect mirrors a proposal back into the search interval.
func (a *Annealing) reflect(x float64) float64 {
	for x < a.lb {
		x = a.lb + (a.lb - x)
	}
	return x
}

// Minimize returns the position of a local minimum of f starting
// from x0.
func (a *Annealing) Minimize(f Objective, x0 float64) float64 {
	obj := a.bounded(f)
	if x0 < a.lb {
		x0 = a.lb
	}
	x := x0
	fx := obj(x)
	bestX, bestF := x, fx
	for a.i = 0; a.i < a.iterations; a.i++ {
		t := math.Pow(0.9, float64(a.i)/float64(a.iterations)*100)
		y := a.reflect(x + a.rng.NormFloat64()*a.SD)
		fy := obj(y)
		if fy < fx || a.rng.Float64() < math.Exp((fx-fy)/t) {
			x, fx = y, fy
		}
		if fx < bestF {
			bestX, bestF = x, fx
		}
		if a.repPeriod > 0 && a.i > 0 && a.i%a.repPeriod == 0 {
			log.Debugf("%d: f=%f x=%v (T=%f)", a.i, fx, x, t)
		}
	}
	log.Debugf("finished annealing, x=%v, calls=%v", bestX, a.calls)
	return bestX
}
