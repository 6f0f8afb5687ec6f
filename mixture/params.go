// Package mixture estimates the parameters of a three-component
// Gaussian mixture separating unbiased taxa from two asymmetric
// classes of outliers. The global bias term of the null component is
// used downstream to correct systematic sampling-fraction differences
// between sample groups.
package mixture

import (
	"errors"
	"fmt"
	"math"

	"github.com/op/go-logging"

	"bitbucket.org/mrrlab/sfbias/stats"
)

// log is the global logging variable.
var log = logging.MustGetLogger("mixture")

// Params is the mixture parameter vector: three component weights, a
// global bias shared by all components, the mean shifts of the two
// outlier components relative to the bias and their extra variances.
type Params struct {
	// Pi0, Pi1 and Pi2 are the component weights of the null, the
	// negative-shift and the positive-shift components.
	Pi0 float64 `json:"pi0"`
	Pi1 float64 `json:"pi1"`
	Pi2 float64 `json:"pi2"`
	// Delta is the global bias (the mean of the null component).
	Delta float64 `json:"delta"`
	// L1 <= 0 and L2 >= 0 are the outlier mean shifts.
	L1 float64 `json:"l1"`
	L2 float64 `json:"l2"`
	// Kappa1 >= 0 and Kappa2 >= 0 are the extra outlier variances.
	Kappa1 float64 `json:"kappa1"`
	Kappa2 float64 `json:"kappa2"`
}

// paramNames lists the parameter names in vector order.
var paramNames = []string{"pi0", "pi1", "pi2", "delta", "l1", "l2", "kappa1", "kappa2"}

// Vector returns the parameters as a slice in a fixed order.
func (p *Params) Vector() []float64 {
	return []float64{p.Pi0, p.Pi1, p.Pi2, p.Delta, p.L1, p.L2, p.Kappa1, p.Kappa2}
}

// Dist returns the Euclidean norm of the difference between two
// parameter vectors.
func (p *Params) Dist(q *Params) float64 {
	return stats.Dist(p.Vector(), q.Vector())
}

// Map returns the parameters as a name-to-value map.
func (p *Params) Map() map[string]float64 {
	m := make(map[string]float64, len(paramNames))
	for i, v := range p.Vector() {
		m[paramNames[i]] = v
	}
	return m
}

// ParamsFromMap restores parameters from a name-to-value map.
func ParamsFromMap(m map[string]float64) (*Params, error) {
	v := make([]float64, len(paramNames))
	for i, name := range paramNames {
		x, ok := m[name]
		if !ok {
			return nil, fmt.Errorf("missing parameter: %s", name)
		}
		v[i] = x
	}
	return &Params{
		Pi0: v[0], Pi1: v[1], Pi2: v[2],
		Delta: v[3],
		L1:    v[4], L2: v[5],
		Kappa1: v[6], Kappa2: v[7],
	}, nil
}

// Validate checks the structural constraints on the parameters.
func (p *Params) Validate() error {
	for _, w := range []float64{p.Pi0, p.Pi1, p.Pi2} {
		if w < 0 || w > 1 || math.IsNaN(w) {
			return errors.New("component weight outside [0, 1]")
		}
	}
	if math.Abs(p.Pi0+p.Pi1+p.Pi2-1) > 1e-6 {
		return errors.New("component weights do not sum to 1")
	}
	if p.L1 > 0 {
		return errors.New("l1 > 0")
	}
	if p.L2 < 0 {
		return errors.New("l2 < 0")
	}
	if p.Kappa1 < 0 || p.Kappa2 < 0 {
		return errors.New("negative extra variance")
	}
	return nil
}

// String returns a short human-readable representation.
func (p *Params) String() string {
	return fmt.Sprintf("pi=(%.4f, %.4f, %.4f) delta=%.4f l=(%.4f, %.4f) kappa=(%.4f, %.4f)",
		p.Pi0, p.Pi1, p.Pi2, p.Delta, p.L1, p.L2, p.Kappa1, p.Kappa2)
}
