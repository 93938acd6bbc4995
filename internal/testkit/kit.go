package testkit

import (
	"golimit/app"
)

// Scenario is a canonical analysis configuration shared across test suites
type Scenario struct {
	Name           string
	Signal         float64
	Background     float64
	BkgUncertainty float64
	Observed       float64
}

// Request converts the scenario into an analysis request with the default
// scan settings
func (s Scenario) Request() app.AnalysisRequest {
	req := app.DefaultRequest()
	req.Signal = s.Signal
	req.Background = s.Background
	req.BkgUncertainty = s.BkgUncertainty
	req.Observed = s.Observed
	return req
}

// NotExcluded has the observation exactly at the background expectation, so
// the nominal signal cannot be excluded.
func NotExcluded() Scenario {
	return Scenario{Name: "not_excluded", Signal: 10, Background: 100, BkgUncertainty: 10, Observed: 100}
}

// StrongSignal has a large signal expectation; the nominal hypothesis is
// deep in the excluded region and the limit lands well inside [0, 10].
func StrongSignal() Scenario {
	return Scenario{Name: "strong_signal", Signal: 50, Background: 100, BkgUncertainty: 5, Observed: 100}
}

// OutOfRange pairs a negligible signal with a huge observed excess, so no
// scan point on the default grid reaches the exclusion level.
func OutOfRange() Scenario {
	return Scenario{Name: "out_of_range", Signal: 0.001, Background: 100, BkgUncertainty: 10, Observed: 1000}
}
