package inference

import (
	"math"

	"golimit/domain/core"
	"golimit/domain/model"
	"golimit/ports"
)

// TestResult holds the outcome of one asymptotic CLs hypothesis test
type TestResult struct {
	POITest float64            `json:"poi_test"`
	CLsObs  float64            `json:"cls_obs"`
	CLsExp  [BandSize]float64  `json:"cls_exp"` // [-2sigma, -1sigma, median, +1sigma, +2sigma]
	CLsb    float64            `json:"clsb"`
	CLb     float64            `json:"clb"`
	MuHat   float64            `json:"mu_hat"`
}

// AsymptoticCalculator performs profile-likelihood hypothesis tests using
// the asymptotic (large-sample) distribution of the q-tilde test statistic,
// so no pseudo-experiment generation is needed.
type AsymptoticCalculator struct {
	fitter *Fitter
}

// NewAsymptoticCalculator creates a calculator backed by the given optimizer
func NewAsymptoticCalculator(opt ports.Optimizer) *AsymptoticCalculator {
	return &AsymptoticCalculator{fitter: NewFitter(opt)}
}

// HypothesisTest tests the signal-strength value poiTest against the
// observed primary bin counts. The auxiliary data implied by the model's
// constrained modifiers is appended internally.
func (c *AsymptoticCalculator) HypothesisTest(m *model.Model, observations []float64, poiTest float64) (TestResult, error) {
	if poiTest < 0 || math.IsNaN(poiTest) {
		return TestResult{}, core.NewInvalidModelError("poi_test", "must be non-negative")
	}
	if len(observations) != m.NumMainBins() {
		return TestResult{}, core.NewDimensionMismatchError(len(observations), m.NumMainBins())
	}

	fullData := make([]float64, 0, m.ExpectedDataSize())
	fullData = append(fullData, observations...)
	fullData = append(fullData, m.AuxData()...)

	qmu, muHat, err := c.qmu(m, fullData, poiTest)
	if err != nil {
		return TestResult{}, err
	}

	asimov, err := c.asimovData(m, fullData)
	if err != nil {
		return TestResult{}, err
	}
	qmuA, _, err := c.qmu(m, asimov, poiTest)
	if err != nil {
		return TestResult{}, err
	}

	sqrtQmu := math.Sqrt(qmu)
	sqrtQmuA := math.Sqrt(qmuA)
	teststat := qTildeTestStat(sqrtQmu, sqrtQmuA)
	clsb, clb, cls := pValues(teststat, sqrtQmuA)

	return TestResult{
		POITest: poiTest,
		CLsObs:  cls,
		CLsExp:  expectedSet(sqrtQmuA),
		CLsb:    clsb,
		CLb:     clb,
		MuHat:   muHat,
	}, nil
}

// qmu computes the one-sided profile likelihood ratio test statistic for
// poiTest on the given full data vector.
func (c *AsymptoticCalculator) qmu(m *model.Model, fullData []float64, poiTest float64) (float64, float64, error) {
	parsHat, nllHat, err := c.fitter.UnconditionalFit(m, fullData)
	if err != nil {
		return 0, 0, err
	}
	muHat := parsHat[m.POIIndex()]

	_, nllCond, err := c.fitter.FixedPOIFit(m, fullData, poiTest)
	if err != nil {
		return 0, muHat, err
	}

	// one-sided: an upward fluctuation past the tested value carries no
	// evidence against it
	if muHat > poiTest {
		return 0, muHat, nil
	}
	q := 2 * (nllCond - nllHat)
	if q < 0 {
		q = 0
	}
	return q, muHat, nil
}

// asimovData builds the background-only Asimov dataset: expected data
// evaluated at the conditional fit with the POI fixed to zero.
func (c *AsymptoticCalculator) asimovData(m *model.Model, fullData []float64) ([]float64, error) {
	pars, _, err := c.fitter.FixedPOIFit(m, fullData, 0)
	if err != nil {
		return nil, err
	}
	return m.ExpectedData(pars), nil
}
