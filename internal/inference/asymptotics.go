package inference

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Band indices of the expected CLs set
const (
	BandMinus2 = iota
	BandMinus1
	BandMedian
	BandPlus1
	BandPlus2
	BandSize
)

// qTildeTestStat maps sqrt(q_mu) onto the asymptotic test statistic of the
// bounded-POI profile likelihood ratio. Below the Asimov value the two
// coincide; above it the q-tilde distribution switches branch.
func qTildeTestStat(sqrtQmu, sqrtQmuA float64) float64 {
	if sqrtQmuA <= 0 {
		return sqrtQmu
	}
	if sqrtQmu <= sqrtQmuA {
		return sqrtQmu - sqrtQmuA
	}
	return (sqrtQmu*sqrtQmu - sqrtQmuA*sqrtQmuA) / (2 * sqrtQmuA)
}

// pValues converts the test statistic into the CLs+b, CLb and CLs tail
// probabilities under the asymptotic normal approximation. The
// signal-plus-background distribution sits at -sqrt(q_mu,A), the
// background-only distribution at zero.
func pValues(teststat, sqrtQmuA float64) (clsb, clb, cls float64) {
	clsb = 1 - distuv.UnitNormal.CDF(teststat+sqrtQmuA)
	clb = 1 - distuv.UnitNormal.CDF(teststat)
	if clb <= 0 {
		return clsb, clb, 0
	}
	cls = clamp01(clsb / clb)
	return clsb, clb, cls
}

// expectedSet evaluates CLs at the background-only quantiles, ordered
// [-2sigma, -1sigma, median, +1sigma, +2sigma].
func expectedSet(sqrtQmuA float64) [BandSize]float64 {
	var out [BandSize]float64
	for i, n := range [BandSize]float64{2, 1, 0, -1, -2} {
		_, _, cls := pValues(n, sqrtQmuA)
		out[i] = cls
	}
	return out
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
