package mixture

import (
	"errors"
	"math"

	"bitbucket.org/mrrlab/sfbias/checkpoint"
)

// Iterate is a single entry of the optional estimation trace.
type Iterate struct {
	// Iter is the iteration counter.
	Iter int `json:"iter"`
	// Eps is the Euclidean norm of the parameter change.
	Eps float64 `json:"eps"`
	// Params is the accepted parameter estimate.
	Params Params `json:"params"`
}

// Result is the final output of an estimation run.
type Result struct {
	// Params is the last accepted estimate.
	Params Params `json:"params"`
	// Eps is the parameter change norm of the last iteration.
	Eps float64 `json:"eps"`
	// Iter is the number of iterations performed.
	Iter int `json:"iter"`
	// Converged is true if Eps fell below the tolerance.
	Converged bool `json:"converged"`
}

// Estimator runs expectation-maximization for the three-component
// mixture. Iterations alternate computing responsibilities with
// updating the parameters until the Euclidean norm of the parameter
// change falls below the tolerance or the iteration cap is reached.
type Estimator struct {
	obs, v0 []float64
	init    Params
	tol     float64
	maxIter int

	method    string
	seed      int64
	repPeriod int

	traceOn bool
	trace   []Iterate

	ckp *checkpoint.IO
}

// NewEstimator creates an estimator for an observation vector and its
// known variances. Both vectors must have the same positive length
// and every variance must be positive.
func NewEstimator(obs, v0 []float64, init Params, tol float64, maxIter int) (*Estimator, error) {
	if len(obs) != len(v0) {
		return nil, errors.New("observation and variance vectors of unequal length")
	}
	if len(obs) == 0 {
		return nil, errors.New("empty observation vector")
	}
	for _, v := range v0 {
		if v <= 0 || math.IsNaN(v) {
			return nil, errors.New("non-positive variance")
		}
	}
	if tol <= 0 {
		return nil, errors.New("non-positive tolerance")
	}
	if err := init.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{
		obs:       obs,
		v0:        v0,
		init:      init,
		tol:       tol,
		maxIter:   maxIter,
		method:    "simplex",
		repPeriod: 10,
	}, nil
}

// SetMethod selects the scalar minimization backend used for the
// extra variance updates.
func (e *Estimator) SetMethod(method string, seed int64) {
	e.method = method
	e.seed = seed
}

// SetReportPeriod sets the number of iterations between progress
// reports.
func (e *Estimator) SetReportPeriod(period int) {
	e.repPeriod = period
}

// SetTrace enables recording of all accepted iterates.
func (e *Estimator) SetTrace(on bool) {
	e.traceOn = on
}

// Trace returns the recorded iterates.
func (e *Estimator) Trace() []Iterate {
	return e.trace
}

// SetCheckpointIO attaches checkpoint storage; unfinished runs are
// resumed from the stored iterate.
func (e *Estimator) SetCheckpointIO(ckp *checkpoint.IO) {
	e.ckp = ckp
}

// Run performs the estimation and returns the last accepted
// estimate. If the iteration cap is not positive, the initial
// parameters are returned unchanged.
func (e *Estimator) Run() (*Result, error) {
	cur := e.init
	eps := math.Inf(+1)
	iter := 0

	if e.ckp != nil {
		rec, err := e.ckp.Load()
		if err != nil {
			log.Error("Error loading checkpoint:", err)
		} else if rec != nil {
			p, err := ParamsFromMap(rec.Parameters)
			if err != nil {
				log.Error("Error restoring checkpoint:", err)
			} else if rec.Final {
				log.Notice("Estimation already finished, returning checkpoint")
				return &Result{
					Params:    *p,
					Eps:       rec.Eps,
					Iter:      rec.Iter,
					Converged: rec.Eps <= e.tol,
				}, nil
			} else {
				cur = *p
				eps = rec.Eps
				iter = rec.Iter
				log.Noticef("Resuming from iteration %d", iter)
			}
		}
	}

	if e.maxIter <= 0 {
		log.Warning("Iteration cap reached before the first iteration, returning initial parameters")
		return &Result{Params: cur, Iter: iter}, nil
	}

	for eps > e.tol && iter < e.maxIter {
		r := Responsibilities(e.obs, e.v0, &cur)
		next, err := e.Update(&cur, r)
		if err != nil {
			return nil, err
		}
		eps = cur.Dist(next)
		cur = *next
		iter++
		if e.traceOn {
			e.trace = append(e.trace, Iterate{Iter: iter, Eps: eps, Params: cur})
		}
		if e.repPeriod > 0 && iter%e.repPeriod == 0 {
			log.Infof("%d: eps=%g %s", iter, eps, &cur)
		}
		if e.ckp != nil && e.ckp.Old() {
			e.ckp.Save(&checkpoint.Record{
				Parameters: cur.Map(),
				Eps:        eps,
				Iter:       iter,
			})
		}
	}

	converged := eps <= e.tol
	if !converged {
		log.Warningf("Iterations exceeded (%d)", e.maxIter)
	} else {
		log.Noticef("Converged after %d iterations, eps=%g", iter, eps)
	}
	if e.ckp != nil {
		e.ckp.Save(&checkpoint.Record{
			Parameters: cur.Map(),
			Eps:        eps,
			Iter:       iter,
			Final:      true,
		})
	}

	return &Result{
		Params:    cur,
		Eps:       eps,
		Iter:      iter,
		Converged: converged,
	}, nil
}
