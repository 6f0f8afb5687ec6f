package mixture

import (
	"math"
	"testing"

	"github.com/gonum/matrix/mat64"
)

// checkSigns verifies the structural sign constraints of an estimate.
func checkSigns(tst *testing.T, p *Params) {
	if p.L1 > 0 {
		tst.Error("l1 > 0:", p.L1)
	}
	if p.L2 < 0 {
		tst.Error("l2 < 0:", p.L2)
	}
	if p.Kappa1 < 0 || p.Kappa2 < 0 {
		tst.Error("negative extra variance:", p.Kappa1, p.Kappa2)
	}
}

func TestSingleComponent(tst *testing.T) {
	// all taxa consistent with a single Gaussian; the null
	// component must absorb the most weight, the bias must vanish
	// and the outlier components collapse onto the null one
	obs := []float64{0, 0, 0, 0}
	v0 := []float64{1, 1, 1, 1}
	third := 1.0 / 3
	init := Params{Pi0: third, Pi1: third, Pi2: third, L1: -0.2, L2: 0.2, Kappa1: 0.1, Kappa2: 0.1}

	e, err := NewEstimator(obs, v0, init, 1e-5, 100)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	e.SetTrace(true)
	res, err := e.Run()
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if !res.Converged {
		tst.Fatal("Estimator did not converge")
	}
	if math.Abs(res.Params.Delta) > 1e-5 {
		tst.Error("Bias did not vanish:", res.Params.Delta)
	}
	if res.Params.Pi0 <= res.Params.Pi1 || res.Params.Pi0 <= res.Params.Pi2 {
		tst.Error("Null component should carry the most weight:", &res.Params)
	}
	if res.Params.L1 != 0 || res.Params.L2 != 0 {
		tst.Error("Shifts should collapse to zero:", res.Params.L1, res.Params.L2)
	}
	if res.Params.Kappa1 > 1e-3 || res.Params.Kappa2 > 1e-3 {
		tst.Error("Extra variances should collapse to zero:", res.Params.Kappa1, res.Params.Kappa2)
	}

	// sign constraints and metric bounds hold at every iteration
	for _, it := range e.Trace() {
		checkSigns(tst, &it.Params)
		if it.Eps < 0 || math.IsNaN(it.Eps) {
			tst.Error("Invalid parameter change norm:", it.Eps)
		}
	}
}

func TestConcreteScenario(tst *testing.T) {
	obs := []float64{0.5, 0.5, -0.5, -0.5}
	v0 := []float64{1, 1, 1, 1}
	init := Params{Pi0: 0.8, Pi1: 0.1, Pi2: 0.1, Delta: 0, L1: -0.2, L2: 0.2, Kappa1: 0.1, Kappa2: 0.1}

	e, err := NewEstimator(obs, v0, init, 1e-5, 100)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	res, err := e.Run()
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if res.Iter > 100 {
		tst.Error("Iteration cap exceeded:", res.Iter)
	}
	checkSigns(tst, &res.Params)
	if res.Eps > 1e-5 && res.Iter != 100 {
		tst.Error("Estimator stopped early:", res.Eps, res.Iter)
	}
}

func TestFixedPointIdempotence(tst *testing.T) {
	// a converged estimate is a fixed point: one extra iteration
	// stays within the tolerance
	obs := []float64{0, 0, 0, 0}
	v0 := []float64{1, 1, 1, 1}
	third := 1.0 / 3
	init := Params{Pi0: third, Pi1: third, Pi2: third, L1: -0.2, L2: 0.2, Kappa1: 0.1, Kappa2: 0.1}

	e, err := NewEstimator(obs, v0, init, 1e-5, 100)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	res, err := e.Run()
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if !res.Converged {
		tst.Fatal("Estimator did not converge")
	}

	e2, err := NewEstimator(obs, v0, res.Params, 1e-5, 1)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	res2, err := e2.Run()
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if res2.Eps > 1e-5 {
		tst.Error("Fixed point moved by more than the tolerance:", res2.Eps)
	}
}

func TestZeroIterations(tst *testing.T) {
	obs := []float64{0.5, -0.5}
	v0 := []float64{1, 1}
	init := Params{Pi0: 0.8, Pi1: 0.1, Pi2: 0.1, L1: -1, L2: 1, Kappa1: 1, Kappa2: 1}

	e, err := NewEstimator(obs, v0, init, 1e-5, 0)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	res, err := e.Run()
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if res.Params != init {
		tst.Error("Initial parameters should be returned unchanged:", &res.Params)
	}
	if res.Iter != 0 || res.Converged {
		tst.Error("No iterations should be performed:", res.Iter, res.Converged)
	}
}

func TestDegenerateInput(tst *testing.T) {
	// every row of the responsibility matrix underflows
	obs := []float64{1e8, 1e8}
	v0 := []float64{1e-6, 1e-6}
	init := Params{Pi0: 0.8, Pi1: 0.1, Pi2: 0.1, L1: -1, L2: 1, Kappa1: 1, Kappa2: 1}

	e, err := NewEstimator(obs, v0, init, 1e-5, 100)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if _, err = e.Run(); err != ErrDegenerate {
		tst.Error("Expected degenerate input error, got:", err)
	}
}

func TestNewEstimatorValidation(tst *testing.T) {
	good := Params{Pi0: 0.8, Pi1: 0.1, Pi2: 0.1, L1: -1, L2: 1, Kappa1: 1, Kappa2: 1}
	if _, err := NewEstimator([]float64{1}, []float64{1, 1}, good, 1e-5, 100); err == nil {
		tst.Error("Unequal lengths should be an error")
	}
	if _, err := NewEstimator(nil, nil, good, 1e-5, 100); err == nil {
		tst.Error("Empty input should be an error")
	}
	if _, err := NewEstimator([]float64{1}, []float64{0}, good, 1e-5, 100); err == nil {
		tst.Error("Non-positive variance should be an error")
	}
	if _, err := NewEstimator([]float64{1}, []float64{1}, good, 0, 100); err == nil {
		tst.Error("Non-positive tolerance should be an error")
	}
	bad := good
	bad.L1 = 1
	if _, err := NewEstimator([]float64{1}, []float64{1}, bad, 1e-5, 100); err == nil {
		tst.Error("Invalid initial parameters should be an error")
	}
}

func TestKappaWeightMonotonicity(tst *testing.T) {
	// increasing the responsibility of high-residual taxa in the
	// positive-outlier component moves its extra variance towards
	// the residual variance of those taxa
	obs := []float64{-3, 3, 0, 0}
	v0 := []float64{1, 1, 1, 1}
	valid := Params{Pi0: 0.5, Pi1: 0.25, Pi2: 0.25, L1: -1, L2: 1, Kappa1: 1, Kappa2: 1}
	e, err := NewEstimator(obs, v0, valid, 1e-5, 100)
	if err != nil {
		tst.Fatal("Error:", err)
	}

	p := Params{Pi0: 0.5, Pi1: 0, Pi2: 0.5, Delta: 0, L1: 0, L2: 0, Kappa1: 0.1, Kappa2: 0.1}
	update := func(w float64) *Params {
		r := mat64.NewDense(4, 3, []float64{
			1 - w, 0, w,
			1 - w, 0, w,
			0.5, 0, 0.5,
			0.5, 0, 0.5,
		})
		next, err := e.Update(&p, r)
		if err != nil {
			tst.Fatal("Error:", err)
		}
		return next
	}

	low := update(0.2)
	high := update(0.45)

	// analytic interior minima: kappa2 = 18w/(2w+1) - 1
	if math.Abs(low.Kappa2-1.571) > 0.3 {
		tst.Error("Unexpected extra variance for low weight:", low.Kappa2)
	}
	if math.Abs(high.Kappa2-3.263) > 0.3 {
		tst.Error("Unexpected extra variance for high weight:", high.Kappa2)
	}
	if high.Kappa2 <= low.Kappa2+0.5 {
		tst.Errorf("Extra variance should grow with the outlier weight: %v <= %v",
			high.Kappa2, low.Kappa2)
	}

	// the empty component keeps its current extra variance
	if !appreq(low.Kappa1, p.Kappa1) {
		tst.Error("Empty component should keep its extra variance:", low.Kappa1)
	}
	// symmetric residuals keep the bias and shift at zero
	if !appreq(low.Delta, 0) || !appreq(low.L2, 0) {
		tst.Error("Bias and shift should stay at zero:", low.Delta, low.L2)
	}
}
