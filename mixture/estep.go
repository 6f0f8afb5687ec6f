package mixture

import (
	"math"
	"runtime"
	"sync"

	"github.com/gonum/matrix/mat64"

	"bitbucket.org/mrrlab/sfbias/stats"
)

// Responsibilities computes the posterior probability of every taxon
// belonging to each of the three components given the current
// parameters. Rows sum to one; if the mixture density of a taxon
// underflows to zero the whole row is zero, marking the taxon as
// carrying no usable information.
func Responsibilities(obs, v0 []float64, p *Params) *mat64.Dense {
	n := len(obs)
	r := mat64.NewDense(n, 3, nil)

	nWorkers := runtime.GOMAXPROCS(0)
	if nWorkers > n {
		nWorkers = n
	}
	tasks := make(chan int, n)
	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				f0 := p.Pi0 * stats.NormDensity(obs[i], p.Delta, v0[i])
				f1 := p.Pi1 * stats.NormDensity(obs[i], p.Delta+p.L1, v0[i]+p.Kappa1)
				f2 := p.Pi2 * stats.NormDensity(obs[i], p.Delta+p.L2, v0[i]+p.Kappa2)
				sum := f0 + f1 + f2
				if sum <= 0 || math.IsNaN(sum) {
					// the row stays zero
					continue
				}
				r.Set(i, 0, f0/sum)
				r.Set(i, 1, f1/sum)
				r.Set(i, 2, f2/sum)
			}
		}()
	}
	for i := 0; i < n; i++ {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	return r
}
