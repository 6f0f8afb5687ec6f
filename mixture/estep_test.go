package mixture

import (
	"testing"
)

func TestResponsibilityRows(tst *testing.T) {
	obs := []float64{-2.1, -0.3, 0, 0.4, 1.7, 3.2}
	v0 := []float64{0.5, 1, 1.5, 1, 0.5, 2}
	p := Params{Pi0: 0.8, Pi1: 0.1, Pi2: 0.1, Delta: 0.1, L1: -1, L2: 1, Kappa1: 0.5, Kappa2: 0.5}

	r := Responsibilities(obs, v0, &p)
	rows, cols := r.Dims()
	if rows != len(obs) || cols != 3 {
		tst.Fatalf("Incorrect dimensions: %dx%d", rows, cols)
	}
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < 3; j++ {
			v := r.At(i, j)
			if v < 0 || v > 1 {
				tst.Errorf("Responsibility outside [0, 1]: %v", v)
			}
			sum += v
		}
		if !appreq(sum, 1) && sum != 0 {
			tst.Errorf("Row %d sums to %v, expected 1 or 0", i, sum)
		}
	}
}

func TestResponsibilityUnderflow(tst *testing.T) {
	// the mixture density underflows for a huge standardized
	// residual, the row must be all-zero
	obs := []float64{1e8, 0}
	v0 := []float64{1e-6, 1}
	p := Params{Pi0: 0.8, Pi1: 0.1, Pi2: 0.1, L1: -1, L2: 1, Kappa1: 0.5, Kappa2: 0.5}

	r := Responsibilities(obs, v0, &p)
	for j := 0; j < 3; j++ {
		if r.At(0, j) != 0 {
			tst.Errorf("Expected zero responsibility, got %v", r.At(0, j))
		}
	}
	sum := r.At(1, 0) + r.At(1, 1) + r.At(1, 2)
	if !appreq(sum, 1) {
		tst.Error("Second row should normalize to 1, got", sum)
	}
}

func TestResponsibilityWeights(tst *testing.T) {
	// zero weight excludes a component regardless of its density
	obs := []float64{0}
	v0 := []float64{1}
	p := Params{Pi0: 0, Pi1: 0.5, Pi2: 0.5, L1: 0, L2: 0, Kappa1: 1, Kappa2: 1}

	r := Responsibilities(obs, v0, &p)
	if r.At(0, 0) != 0 {
		tst.Error("Zero-weight component should have zero responsibility")
	}
	if !appreq(r.At(0, 1), 0.5) || !appreq(r.At(0, 2), 0.5) {
		tst.Error("Incorrect responsibilities:", r.At(0, 1), r.At(0, 2))
	}
}
