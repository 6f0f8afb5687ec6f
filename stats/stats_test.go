package stats

import (
	"math"
	"testing"
)

const smallDiff = 1e-6

// appreq tests if a and b are approximately equal.
func appreq(a, b float64) bool {
	return math.Abs(a-b) <= smallDiff
}

func TestNormLogDensity(tst *testing.T) {
	// standard normal at the mean
	ld := NormLogDensity(0, 0, 1)
	if !appreq(ld, -0.918938533204673) {
		tst.Error("Incorrect standard normal log-density:", ld)
	}
	d := NormDensity(0, 0, 1)
	if !appreq(d, 0.398942280401433) {
		tst.Error("Incorrect standard normal density:", d)
	}
	// symmetric
	if NormLogDensity(1.3, 0.3, 2.1) != NormLogDensity(-0.7, 0.3, 2.1) {
		tst.Error("Log-density is not symmetric around the mean")
	}
	// non-positive variance
	if !math.IsInf(NormLogDensity(0, 0, 0), -1) {
		tst.Error("Zero variance should give -Inf log-density")
	}
	// tail underflow
	if NormDensity(1e5, 0, 1) != 0 {
		tst.Error("Far tail density should underflow to zero")
	}
}

func TestQuantileNorm(tst *testing.T) {
	if !appreq(QuantileNorm(0.975), 1.959964) {
		tst.Error("Incorrect 0.975 normal quantile:", QuantileNorm(0.975))
	}
	if !appreq(QuantileNorm(0.5), 0) {
		tst.Error("Incorrect median:", QuantileNorm(0.5))
	}
}

func TestDist(tst *testing.T) {
	if !appreq(Dist([]float64{0, 0}, []float64{3, 4}), 5) {
		tst.Error("Incorrect Euclidean distance")
	}
	if Dist([]float64{1, 2, 3}, []float64{1, 2, 3}) != 0 {
		tst.Error("Distance of a vector to itself should be zero")
	}
}

func TestWLS(tst *testing.T) {
	res, err := WLS([]float64{1, 3}, []float64{1, 1}, 0.95)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if !appreq(res.Estimate, 2) {
		tst.Error("Incorrect estimate:", res.Estimate)
	}
	if !appreq(res.StdErr, math.Sqrt(0.5)) {
		tst.Error("Incorrect standard error:", res.StdErr)
	}
	z := QuantileNorm(0.975)
	if !appreq(res.Lower, 2-z*res.StdErr) || !appreq(res.Upper, 2+z*res.StdErr) {
		tst.Error("Incorrect confidence interval:", res.Lower, res.Upper)
	}

	// a low-variance observation dominates
	res, err = WLS([]float64{0, 10}, []float64{0.01, 100}, 0.95)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if res.Estimate > 0.1 {
		tst.Error("Low-variance observation should dominate:", res.Estimate)
	}
}

func TestWLSErrors(tst *testing.T) {
	if _, err := WLS(nil, nil, 0.95); err == nil {
		tst.Error("Empty input should be an error")
	}
	if _, err := WLS([]float64{1}, []float64{1, 2}, 0.95); err == nil {
		tst.Error("Unequal lengths should be an error")
	}
	if _, err := WLS([]float64{1}, []float64{0}, 0.95); err == nil {
		tst.Error("Non-positive variance should be an error")
	}
	if _, err := WLS([]float64{1}, []float64{1}, 1); err == nil {
		tst.Error("Confidence level of 1 should be an error")
	}
}
