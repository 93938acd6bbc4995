package model

import (
	"math"

	"golimit/domain/core"
)

// Canonical names used by the counting-experiment builder
const (
	CountingChannel   = "singlechannel"
	SignalSample      = "signal"
	BackgroundSample  = "background"
	POIName           = "mu"
	BkgUncertaintyPar = "bkg_uncertainty"
)

// CountingSpec builds the single-bin counting-experiment specification:
// a signal sample scaled by the free signal strength "mu" and a background
// sample floating within its stated absolute uncertainty.
func CountingSpec(signal, background, bkgUncertainty float64) Spec {
	return Spec{
		Channels: []Channel{
			{
				Name: CountingChannel,
				Samples: []Sample{
					{
						Name: SignalSample,
						Data: []float64{signal},
						Modifiers: []Modifier{
							{Name: POIName, Type: NormFactor, Data: nil},
						},
					},
					{
						Name: BackgroundSample,
						Data: []float64{background},
						Modifiers: []Modifier{
							{Name: BkgUncertaintyPar, Type: StatError, Data: []float64{bkgUncertainty}},
						},
					},
				},
			},
		},
	}
}

// NewCounting validates the inputs, builds the counting-experiment
// specification and compiles it with "mu" as the parameter of interest.
func NewCounting(signal, background, bkgUncertainty float64) (*Model, error) {
	switch {
	case signal < 0 || math.IsNaN(signal):
		return nil, core.NewInvalidModelError("signal", "must be non-negative")
	case background < 0 || math.IsNaN(background):
		return nil, core.NewInvalidModelError("background", "must be non-negative")
	case bkgUncertainty < 0 || math.IsNaN(bkgUncertainty):
		return nil, core.NewInvalidModelError("bkg_uncertainty", "must be non-negative")
	case bkgUncertainty == 0:
		// a zero-width staterror constraint has a singular covariance
		return nil, core.NewInvalidModelError("bkg_uncertainty", "must be positive for a staterror constraint")
	}
	return Compile(CountingSpec(signal, background, bkgUncertainty), POIName)
}
