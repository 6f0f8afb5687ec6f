// Package stats implements Gaussian density helpers and the weighted
// least-squares bias estimate used by the sampling-fraction correction.
package stats

import (
	"errors"
	"math"

	"github.com/gonum/mathext"
)

// lnSqrt2Pi is log(sqrt(2*pi)).
const lnSqrt2Pi = 0.918938533204672741780329736406

// NormLogDensity returns the log-density of N(mean, variance) at x.
// Non-positive variance gives -Inf.
func NormLogDensity(x, mean, variance float64) float64 {
	if variance <= 0 {
		return math.Inf(-1)
	}
	d := x - mean
	return -lnSqrt2Pi - math.Log(variance)/2 - d*d/(2*variance)
}

// NormDensity returns the density of N(mean, variance) at x. The
// density underflows to zero for observations far in the tail.
func NormDensity(x, mean, variance float64) float64 {
	return math.Exp(NormLogDensity(x, mean, variance))
}

// QuantileNorm returns z so that Prob{x<z}=prob for the standard
// normal distribution.
func QuantileNorm(prob float64) float64 {
	return mathext.NormalQuantile(prob)
}

// Dist returns the Euclidean distance between two vectors of equal
// length.
func Dist(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("vectors of unequal length")
	}
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

// WLSResult stores the weighted least-squares bias estimate together
// with its standard error and confidence interval.
type WLSResult struct {
	// Estimate is the inverse-variance weighted mean.
	Estimate float64 `json:"estimate"`
	// StdErr is the standard error of the estimate.
	StdErr float64 `json:"stdErr"`
	// Lower and Upper bound the confidence interval.
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	// Level is the confidence level of the interval.
	Level float64 `json:"level"`
}

// WLS computes the inverse-variance weighted mean of obs together
// with a two-sided confidence interval at the given level. Every
// variance must be positive.
func WLS(obs, variance []float64, level float64) (*WLSResult, error) {
	if len(obs) != len(variance) {
		return nil, errors.New("observation and variance vectors of unequal length")
	}
	if len(obs) == 0 {
		return nil, errors.New("empty observation vector")
	}
	if level <= 0 || level >= 1 {
		return nil, errors.New("confidence level outside (0, 1)")
	}
	var num, den float64
	for i, x := range obs {
		v := variance[i]
		if v <= 0 {
			return nil, errors.New("non-positive variance")
		}
		num += x / v
		den += 1 / v
	}
	est := num / den
	se := math.Sqrt(1 / den)
	z := QuantileNorm(1 - (1-level)/2)
	return &WLSResult{
		Estimate: est,
		StdErr:   se,
		Lower:    est - z*se,
		Upper:    est + z*se,
		Level:    level,
	}, nil
}
