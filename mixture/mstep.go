package mixture

import (
	"errors"
	"math"
	"sync"

	"github.com/gonum/matrix/mat64"

	"bitbucket.org/mrrlab/sfbias/optimize"
	"bitbucket.org/mrrlab/sfbias/stats"
)

// ErrDegenerate is returned when no taxon has defined
// responsibilities, e.g. for an empty observation vector.
var ErrDegenerate = errors.New("no taxon with defined responsibilities")

// Update computes the next parameter estimate from the current one
// and the responsibility matrix. Component weights, bias and shifts
// have closed-form updates; the two extra variances are found by
// scalar minimization of the weighted negative log-likelihood.
// Taxa with an all-zero responsibility row are excluded from every
// average.
func (e *Estimator) Update(p *Params, r *mat64.Dense) (*Params, error) {
	n := len(e.obs)
	var defined int
	var colSum [3]float64
	for i := 0; i < n; i++ {
		r0, r1, r2 := r.At(i, 0), r.At(i, 1), r.At(i, 2)
		if r0+r1+r2 <= 0 {
			continue
		}
		defined++
		colSum[0] += r0
		colSum[1] += r1
		colSum[2] += r2
	}
	if defined == 0 {
		return nil, ErrDegenerate
	}

	next := &Params{
		Pi0: colSum[0] / float64(defined),
		Pi1: colSum[1] / float64(defined),
		Pi2: colSum[2] / float64(defined),
	}

	// precision-weighted average of the component-centered
	// observations, using the current shifts and extra variances
	var num, den float64
	for i := 0; i < n; i++ {
		r0, r1, r2 := r.At(i, 0), r.At(i, 1), r.At(i, 2)
		if r0+r1+r2 <= 0 {
			continue
		}
		v1 := e.v0[i] + p.Kappa1
		v2 := e.v0[i] + p.Kappa2
		num += r0*e.obs[i]/e.v0[i] + r1*(e.obs[i]-p.L1)/v1 + r2*(e.obs[i]-p.L2)/v2
		den += r0/e.v0[i] + r1/v1 + r2/v2
	}
	next.Delta = num / den

	// shifts around the updated bias, projected onto their sign
	var num1, den1, num2, den2 float64
	for i := 0; i < n; i++ {
		r1, r2 := r.At(i, 1), r.At(i, 2)
		v1 := e.v0[i] + p.Kappa1
		v2 := e.v0[i] + p.Kappa2
		num1 += r1 * (e.obs[i] - next.Delta) / v1
		den1 += r1 / v1
		num2 += r2 * (e.obs[i] - next.Delta) / v2
		den2 += r2 / v2
	}
	// an empty component keeps its previous shift and variance
	next.L1 = p.L1
	next.L2 = p.L2
	if den1 > 0 {
		next.L1 = math.Min(num1/den1, 0)
	}
	if den2 > 0 {
		next.L2 = math.Max(num2/den2, 0)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	var err1, err2 error
	go func() {
		defer wg.Done()
		next.Kappa1, err1 = e.minimizeKappa(r, 1, next.Delta+next.L1, p.Kappa1)
	}()
	go func() {
		defer wg.Done()
		next.Kappa2, err2 = e.minimizeKappa(r, 2, next.Delta+next.L2, p.Kappa2)
	}()
	wg.Wait()
	if err1 != nil {
		return nil, err1
	}
	if err2 != nil {
		return nil, err2
	}

	return next, nil
}

// minimizeKappa finds the extra variance of an outlier component by
// minimizing the responsibility-weighted negative log-likelihood over
// [0, +Inf), starting from the current value. Taxa that are
// impossible under a candidate variance contribute zero instead of an
// infinite penalty.
func (e *Estimator) minimizeKappa(r *mat64.Dense, col int, mean, cur float64) (float64, error) {
	obj := func(x float64) (s float64) {
		for i := range e.obs {
			w := r.At(i, col)
			if w <= 0 {
				continue
			}
			ld := stats.NormLogDensity(e.obs[i], mean, e.v0[i]+x)
			if math.IsInf(ld, 0) || math.IsNaN(ld) {
				continue
			}
			s -= w * ld
		}
		return
	}

	m, err := optimize.NewMinimizer(e.method, e.seed)
	if err != nil {
		return 0, err
	}
	m.SetLowerBound(0)
	x := m.Minimize(obj, cur)
	if x < 0 {
		x = 0
	}
	return x, nil
}
