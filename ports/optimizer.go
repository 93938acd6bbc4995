package ports

// Objective is a scalar function of a parameter vector, typically a
// negative log-likelihood.
type Objective func(pars []float64) float64

// FitResult carries the minimizer output and its diagnostics
type FitResult struct {
	X      []float64 // location of the minimum
	F      float64   // objective value at the minimum
	Status string    // backend convergence status
	Evals  int       // objective evaluations spent
}

// Optimizer defines the interface for bounded function minimization.
// Implementations must respect the [lo, hi] box per coordinate; the
// inference layer treats any returned error as a convergence failure.
type Optimizer interface {
	Minimize(obj Objective, init []float64, bounds [][2]float64) (FitResult, error)
}
