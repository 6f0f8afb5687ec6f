// Package optimize implements scalar function minimization over a
// half-bounded interval [lb, +Inf).
package optimize

import (
	"fmt"
	"math"

	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("optimize")

// Objective is a scalar function to minimize.
type Objective func(x float64) float64

// Minimizer minimizes a scalar objective over [lb, +Inf). A
// minimizer converges to a local minimum and is deterministic for
// fixed inputs (and fixed seed for the stochastic methods).
type Minimizer interface {
	// SetLowerBound sets the lower boundary of the search
	// interval (zero by default).
	SetLowerBound(lb float64)
	// SetReportPeriod sets the number of iterations between
	// progress reports.
	SetReportPeriod(period int)
	// Minimize returns the position of a local minimum of f; the
	// search starts from x0.
	Minimize(f Objective, x0 float64) float64
	// Calls returns the number of objective calls performed.
	Calls() int
}

// BaseMinimizer contains the data and methods shared between the
// minimizers.
type BaseMinimizer struct {
	lb        float64
	i         int
	calls     int
	repPeriod int
}

// SetLowerBound sets the lower boundary of the search interval.
func (m *BaseMinimizer) SetLowerBound(lb float64) {
	m.lb = lb
}

// SetReportPeriod sets the number of iterations between progress
// reports.
func (m *BaseMinimizer) SetReportPeriod(period int) {
	m.repPeriod = period
}

// Calls returns the number of objective calls performed.
func (m *BaseMinimizer) Calls() int {
	return m.calls
}

// bounded wraps an objective so that points below the lower bound
// evaluate to +Inf and calls are counted.
func (m *BaseMinimizer) bounded(f Objective) Objective {
	return func(x float64) float64 {
		if x < m.lb {
			return math.Inf(+1)
		}
		m.calls++
		return f(x)
	}
}

// NewMinimizer returns a minimizer given a method name
// (simplex, lbfgsb or annealing).
func NewMinimizer(method string, seed int64) (Minimizer, error) {
	switch method {
	case "simplex":
		return NewDS(), nil
	case "lbfgsb":
		return NewLBFGSB(), nil
	case "annealing":
		return NewAnnealing(seed), nil
	}
	return nil, fmt.Errorf("unknown minimization method: %s", method)
}
