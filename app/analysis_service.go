package app

import (
	"context"
	"fmt"
	"time"

	"golimit/adapters/optimize"
	"golimit/domain/core"
	"golimit/domain/model"
	"golimit/internal"
	"golimit/internal/inference"
	"golimit/internal/scan"
	"golimit/ports"
)

// AnalysisRequest defines the inputs of one limit-setting analysis
type AnalysisRequest struct {
	Signal         float64 `json:"signal"`
	Background     float64 `json:"background"`
	BkgUncertainty float64 `json:"bkg_uncertainty"`
	Observed       float64 `json:"observed"`
	POITest        float64 `json:"poi_test"`
	ScanMin        float64 `json:"scan_min"`
	ScanMax        float64 `json:"scan_max"`
	ScanSteps      int     `json:"scan_steps"`
	Level          float64 `json:"level"`
	Workers        int     `json:"workers"`
}

// DefaultRequest returns a request populated with the standard settings:
// nominal signal strength, 21-point scan on [0, 10], 95% CL.
func DefaultRequest() AnalysisRequest {
	return AnalysisRequest{
		POITest:   1.0,
		ScanMin:   0.0,
		ScanMax:   10.0,
		ScanSteps: 21,
		Level:     0.05,
		Workers:   1,
	}
}

// AnalysisResult is the complete output of one analysis run
type AnalysisResult struct {
	AnalysisID   core.AnalysisID       `json:"analysis_id"`
	Request      AnalysisRequest       `json:"request"`
	Channels     int                   `json:"channels"`
	Parameters   []string              `json:"parameters"`
	Test         inference.TestResult  `json:"test"`
	Limit        *scan.LimitResult     `json:"limit,omitempty"`
	LimitInRange bool                  `json:"limit_in_range"`
	LimitNote    string                `json:"limit_note,omitempty"`
	RuntimeMs    int64                 `json:"runtime_ms"`
}

// AnalysisService orchestrates model building, the hypothesis test and the
// upper-limit scan
type AnalysisService struct {
	calc   *inference.AsymptoticCalculator
	logger *internal.Logger
}

// NewAnalysisService creates the service; a nil optimizer selects the
// default bounded Nelder-Mead backend.
func NewAnalysisService(opt ports.Optimizer) *AnalysisService {
	if opt == nil {
		opt = optimize.NewNelderMead()
	}
	return &AnalysisService{
		calc:   inference.NewAsymptoticCalculator(opt),
		logger: internal.DefaultLogger,
	}
}

// Run executes the full analysis. A scan grid too narrow to contain the
// limit is not fatal: the result then carries the hypothesis test with
// LimitInRange false and an explanatory note. All other errors propagate.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	start := time.Now()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	m, err := model.NewCounting(req.Signal, req.Background, req.BkgUncertainty)
	if err != nil {
		return nil, err
	}
	observations := []float64{req.Observed}

	s.logger.Debug("model compiled: %d channels, parameters %v", m.NumChannels(), m.ParamNames())

	test, err := s.calc.HypothesisTest(m, observations, req.POITest)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		AnalysisID: core.NewAnalysisID(),
		Request:    req,
		Channels:   m.NumChannels(),
		Parameters: m.ParamNames(),
		Test:       test,
	}

	grid := scan.Linspace(req.ScanMin, req.ScanMax, req.ScanSteps)
	limit, err := scan.UpperLimit(ctx, s.calc, m, observations, grid, req.Level, scan.Options{Workers: req.Workers})
	switch {
	case err == nil:
		result.Limit = limit
		result.LimitInRange = true
	case core.IsLimitOutOfRangeError(err):
		s.logger.Warn("upper limit outside scan range: %v", err)
		result.LimitNote = err.Error()
	default:
		return nil, err
	}

	result.RuntimeMs = time.Since(start).Milliseconds()
	return result, nil
}

func validateRequest(req AnalysisRequest) error {
	switch {
	case req.Observed < 0:
		return core.NewInvalidModelError("observed", "must be non-negative")
	case req.ScanMax <= req.ScanMin:
		return fmt.Errorf("scan range [%g, %g] is empty", req.ScanMin, req.ScanMax)
	case req.ScanSteps < 2:
		return fmt.Errorf("scan needs at least 2 steps, got %d", req.ScanSteps)
	}
	return nil
}
