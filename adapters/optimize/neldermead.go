package optimize

import (
	"fmt"
	"math"

	gopt "gonum.org/v1/gonum/optimize"

	"golimit/ports"
)

// NelderMead adapts gonum's derivative-free simplex minimizer to the
// bounded Optimizer port. Box bounds are enforced exactly through a
// MINUIT-style sine transform to unconstrained internal coordinates.
type NelderMead struct {
	MaxEvals int // objective evaluation budget, 0 uses gonum defaults
}

// NewNelderMead creates the default bounded Nelder-Mead optimizer
func NewNelderMead() *NelderMead {
	return &NelderMead{}
}

// Minimize runs the simplex search from init within bounds
func (nm *NelderMead) Minimize(obj ports.Objective, init []float64, bounds [][2]float64) (ports.FitResult, error) {
	if len(init) == 0 {
		return ports.FitResult{}, fmt.Errorf("empty initial point")
	}
	if len(init) != len(bounds) {
		return ports.FitResult{}, fmt.Errorf("init has %d coordinates, bounds has %d", len(init), len(bounds))
	}
	for i, b := range bounds {
		if b[1] <= b[0] {
			return ports.FitResult{}, fmt.Errorf("coordinate %d: invalid bounds [%g, %g]", i, b[0], b[1])
		}
	}

	u0 := make([]float64, len(init))
	for i, x := range init {
		u0[i] = toInternal(x, bounds[i])
	}

	problem := gopt.Problem{
		Func: func(u []float64) float64 {
			return obj(toExternal(u, bounds))
		},
	}
	settings := &gopt.Settings{}
	if nm.MaxEvals > 0 {
		settings.FuncEvaluations = nm.MaxEvals
	}

	res, err := gopt.Minimize(problem, u0, settings, &gopt.NelderMead{})
	if err != nil {
		return ports.FitResult{}, fmt.Errorf("nelder-mead: %w", err)
	}
	if math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		return ports.FitResult{}, fmt.Errorf("nelder-mead: non-finite minimum %v", res.F)
	}

	return ports.FitResult{
		X:      toExternal(res.X, bounds),
		F:      res.F,
		Status: res.Status.String(),
		Evals:  res.Stats.FuncEvaluations,
	}, nil
}

// toInternal maps a bounded coordinate onto the unconstrained line
func toInternal(x float64, b [2]float64) float64 {
	lo, hi := b[0], b[1]
	// clamp before the transform so boundary-initialized fits stay finite
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return math.Asin(2*(x-lo)/(hi-lo) - 1)
}

// toExternal maps unconstrained internal coordinates back into the box
func toExternal(u []float64, bounds [][2]float64) []float64 {
	x := make([]float64, len(u))
	for i, ui := range u {
		lo, hi := bounds[i][0], bounds[i][1]
		x[i] = lo + (hi-lo)*(math.Sin(ui)+1)/2
	}
	return x
}
