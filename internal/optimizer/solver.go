package optimizer

import (
	"fmt"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/optimize"
)

// minimizeOnSimplex minimizes f over the long-only, fully invested weights.
//
// The search runs unconstrained on x, evaluating f at the Euclidean projection
// of x onto the simplex plus the squared distance to it. The penalty vanishes
// only on the simplex, so the unconstrained minimizer is the constrained one.
func minimizeOnSimplex(f func(w []float64) float64, init []float64) ([]float64, error) {
	n := len(init)
	if n == 0 {
		return nil, fmt.Errorf("no assets to optimize")
	}

	proj := make([]float64, n)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			projectSimplex(proj, x)
			var dist float64
			for i := range x {
				d := x[i] - proj[i]
				dist += d * d
			}
			return f(proj) + dist
		},
	}

	x := make([]float64, n)
	copy(x, init)

	// A second pass restarts the simplex around the first optimum.
	for pass := 0; pass < 2; pass++ {
		settings := &optimize.Settings{
			Converger:       &optimize.FunctionConverge{Absolute: 1e-14, Iterations: 200},
			FuncEvaluations: 50000,
		}
		result, err := optimize.Minimize(problem, x, settings, &optimize.NelderMead{})
		if err != nil {
			return nil, fmt.Errorf("optimization failed: %w", err)
		}
		log.Debugf("optimizer pass %d: status=%v f=%g evals=%d", pass, result.Status, result.F, result.FuncEvaluations)
		copy(x, result.X)
	}

	w := make([]float64, n)
	projectSimplex(w, x)
	return w, nil
}

// projectSimplex writes into dst the closest point to v with dst >= 0 and sum(dst) = 1.
func projectSimplex(dst, v []float64) {
	u := make([]float64, len(v))
	copy(u, v)
	sort.Sort(sort.Reverse(sort.Float64Slice(u)))

	var cum, theta float64
	for i, ui := range u {
		cum += ui
		t := (cum - 1) / float64(i+1)
		if ui-t > 0 {
			theta = t
		}
	}
	for i := range v {
		dst[i] = math.Max(v[i]-theta, 0)
	}
}
