package optimize

import (
	"math"
)

const (
	TINY = 1e-10
)

// DS is a downhill simplex minimizer in one dimension. The simplex
// degenerates to a pair of points; the worst point is reflected,
// expanded or contracted through the best one until the relative
// spread of the objective values falls below ftol.
type DS struct {
	BaseMinimizer
	delta   float64
	ftol    float64
	maxIter int
}

// NewDS creates a new downhill simplex minimizer.
func NewDS() (ds *DS) {
	ds = &DS{
		delta:   1,
		ftol:    TINY,
		maxIter: 1000,
	}
	ds.repPeriod = 100
	return
}

// Minimize returns the position of a local minimum of f starting
// from x0.
func (ds *DS) Minimize(f Objective, x0 float64) float64 {
	obj := ds.bounded(f)
	if x0 < ds.lb {
		x0 = ds.lb
	}
	a, b := x0, x0+ds.delta
	fa, fb := obj(a), obj(b)
	for ds.i = 1; ds.i <= ds.maxIter; ds.i++ {
		if fb < fa {
			a, b = b, a
			fa, fb = fb, fa
		}
		rtol := 2 * math.Abs(fb-fa) / (math.Abs(fa) + math.Abs(fb) + TINY)
		if rtol < ds.ftol {
			break
		}
		if ds.repPeriod > 0 && ds.i%ds.repPeriod == 0 {
			log.Debugf("%d: f=%f (%f)", ds.i, fa, fb-fa)
		}
		// reflect the worst point through the best one,
		// projecting onto the feasible region
		r := 2*a - b
		if r < ds.lb {
			r = ds.lb
		}
		fr := obj(r)
		switch {
		case fr < fa:
			// try expanding in the same direction
			e := 3*a - 2*b
			if e < ds.lb {
				e = ds.lb
			}
			fe := obj(e)
			if fe < fr {
				b, fb = e, fe
			} else {
				b, fb = r, fr
			}
		case fr < fb:
			b, fb = r, fr
		default:
			// contract towards the best point; the
			// interval halves, so this always terminates
			c := (a + b) / 2
			b, fb = c, obj(c)
		}
	}
	if ds.i > ds.maxIter {
		log.Warningf("simplex iterations exceeded (%d)", ds.maxIter)
	}
	if fb < fa {
		a = b
	}
	if a < ds.lb {
		a = ds.lb
	}
	log.Debugf("finished downhill simplex, x=%v, calls=%v", a, ds.calls)
	return a
}
