package inference

import (
	"fmt"

	"golimit/domain/core"
	"golimit/domain/model"
	"golimit/ports"
)

// Fitter runs maximum-likelihood fits of a model against a full observation
// vector through the optimizer port.
type Fitter struct {
	opt ports.Optimizer
}

// NewFitter creates a fitter backed by the given optimizer
func NewFitter(opt ports.Optimizer) *Fitter {
	return &Fitter{opt: opt}
}

// UnconditionalFit minimizes the NLL over all parameters and returns the
// best-fit parameter vector and the NLL value at the minimum.
func (f *Fitter) UnconditionalFit(m *model.Model, fullData []float64) ([]float64, float64, error) {
	obj := NLL(m, fullData)
	res, err := f.opt.Minimize(obj, m.SuggestedInit(), m.SuggestedBounds())
	if err != nil {
		return nil, 0, core.NewFitConvergenceError("unconditional", err)
	}
	return res.X, res.F, nil
}

// FixedPOIFit minimizes the NLL over the nuisance parameters with the
// parameter of interest held at poiValue (the conditional fit). The
// returned vector is the full parameter vector including the fixed POI.
func (f *Fitter) FixedPOIFit(m *model.Model, fullData []float64, poiValue float64) ([]float64, float64, error) {
	poi := m.POIIndex()
	obj := NLL(m, fullData)
	init := m.SuggestedInit()
	bounds := m.SuggestedBounds()

	free := make([]int, 0, m.NumParams()-1)
	for i := 0; i < m.NumParams(); i++ {
		if i != poi {
			free = append(free, i)
		}
	}

	full := make([]float64, m.NumParams())
	copy(full, init)
	full[poi] = poiValue

	// a single-parameter model has nothing left to profile
	if len(free) == 0 {
		return full, obj(full), nil
	}

	freeInit := make([]float64, len(free))
	freeBounds := make([][2]float64, len(free))
	for k, i := range free {
		freeInit[k] = init[i]
		freeBounds[k] = bounds[i]
	}

	embedded := func(pars []float64) float64 {
		for k, i := range free {
			full[i] = pars[k]
		}
		return obj(full)
	}

	res, err := f.opt.Minimize(embedded, freeInit, freeBounds)
	if err != nil {
		return nil, 0, core.NewFitConvergenceError(fmt.Sprintf("conditional (poi=%g)", poiValue), err)
	}

	out := make([]float64, m.NumParams())
	copy(out, full)
	for k, i := range free {
		out[i] = res.X[k]
	}
	out[poi] = poiValue
	return out, res.F, nil
}
