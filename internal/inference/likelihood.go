package inference

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"golimit/domain/model"
	"golimit/ports"
)

// rate floor keeps the Poisson term finite when a fit drives a bin to zero
const minRate = 1e-10

// NLL builds the negative log-likelihood of the full observation vector
// (primary bins then auxiliary entries) as an objective over the flattened
// parameter vector. Primary bins are Poisson; staterror auxiliary
// measurements are Gaussian around the constrained parameter.
func NLL(m *model.Model, fullData []float64) ports.Objective {
	nMain := m.NumMainBins()
	constraints := m.Constraints()

	return func(pars []float64) float64 {
		nll := 0.0
		for i, lam := range m.MainExpected(pars) {
			nll -= poissonLogPDF(fullData[i], lam)
		}
		for k, ct := range constraints {
			aux := fullData[nMain+k]
			norm := distuv.Normal{Mu: pars[ct.Slot], Sigma: ct.Sigma}
			nll -= norm.LogProb(aux)
		}
		return nll
	}
}

// poissonLogPDF is the continuous extension of the Poisson log-density,
// n*log(lam) - lam - lgamma(n+1). The gamma-function form accepts the
// non-integer event counts of Asimov datasets.
func poissonLogPDF(n, lam float64) float64 {
	if lam < minRate {
		lam = minRate
	}
	lg, _ := math.Lgamma(n + 1)
	return n*math.Log(lam) - lam - lg
}
