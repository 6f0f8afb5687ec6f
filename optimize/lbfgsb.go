package optimize

import (
	"math"

	lbfgsb "github.com/idavydov/go-lbfgsb"
)

// LBFGSB is a bounded quasi-Newton minimizer using numerical
// gradients.
type LBFGSB struct {
	BaseMinimizer
	dH    float64
	f     Objective
	best  float64
	bestX float64
}

// NewLBFGSB creates a new LBFGSB minimizer.
func NewLBFGSB() (l *LBFGSB) {
	l = &LBFGSB{
		dH: 1e-6,
	}
	l.repPeriod = 10
	return
}

// EvaluateFunction evaluates the objective; points below the lower
// bound evaluate to +Inf.
func (l *LBFGSB) EvaluateFunction(x []float64) float64 {
	if x[0] < l.lb {
		return math.Inf(+1)
	}
	l.calls++
	v := l.f(x[0])
	if v < l.best {
		l.best = v
		l.bestX = x[0]
	}
	return v
}

// EvaluateGradient computes a numerical gradient; a forward
// difference is used next to the boundary.
func (l *LBFGSB) EvaluateGradient(x []float64) []float64 {
	lo := x[0] - l.dH
	if lo < l.lb {
		lo = l.lb
	}
	hi := x[0] + l.dH
	f1 := l.f(lo)
	f2 := l.f(hi)
	l.calls += 2
	return []float64{(f2 - f1) / (hi - lo)}
}

// Logger reports optimization progress.
func (l *LBFGSB) Logger(info *lbfgsb.OptimizationIterationInformation) {
	l.i = info.Iteration
	if l.repPeriod > 0 && l.i%l.repPeriod == 0 {
		log.Debugf("%d: f=%f x=%v", info.Iteration, info.F, info.X)
	}
}

// Minimize returns the position of a local minimum of f starting
// from x0.
func (l *LBFGSB) Minimize(f Objective, x0 float64) float64 {
	l.f = f
	l.best = math.Inf(+1)
	if x0 < l.lb {
		x0 = l.lb
	}
	l.bestX = x0

	opt := new(lbfgsb.Lbfgsb)
	opt.SetApproximationSize(10)
	opt.SetFTolerance(1e-9)
	opt.SetGTolerance(1e-9)
	opt.SetBounds([][2]float64{{l.lb, math.Inf(+1)}})
	opt.SetLogger(l.Logger)

	min, exitStatus := opt.Minimize(l, []float64{x0})
	log.Debugf("lbfgsb exit status: %v", exitStatus)

	x := min.X[0]
	if math.IsNaN(x) || min.F > l.best {
		x = l.bestX
	}
	if x < l.lb {
		x = l.lb
	}
	log.Debugf("finished lbfgsb, x=%v, calls=%v", x, l.calls)
	return x
}
