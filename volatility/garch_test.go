package volatility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGARCH11LogLikelihoodPrefersTrueScale(t *testing.T) {
	h := synthetic(252, 0.02, 11)
	returns := h.LogReturns()

	// Unconditional variance near the sample variance should beat one that
	// is wildly off.
	near := GARCH11{Omega: 0.02 * 0.02 * 0.1, Alpha: 0.05, Beta: 0.85}
	far := GARCH11{Omega: 0.5, Alpha: 0.05, Beta: 0.85}
	assert.Greater(t, near.LogLikelihood(returns), far.LogLikelihood(returns))
}

func TestGARCH11ConditionalVolatility(t *testing.T) {
	g := GARCH11{Omega: 0.000004, Alpha: 0.1, Beta: 0.85}
	h := synthetic(252, 0.02, 13)

	v := g.ConditionalVolatility(h.LogReturns())
	assert.Greater(t, v, 0.0)
	assert.Less(t, v, 2.0)
}

func TestEstimateGARCH11ReturnsValidParameters(t *testing.T) {
	h := synthetic(252, 0.02, 17)
	g := EstimateGARCH11(h.LogReturns())

	assert.Greater(t, g.Omega, 0.0)
	assert.GreaterOrEqual(t, g.Alpha, 0.0)
	assert.GreaterOrEqual(t, g.Beta, 0.0)
	assert.Less(t, g.Alpha+g.Beta, 1.0)
}

func TestGARCHFallsBackOnShortHistory(t *testing.T) {
	h := synthetic(10, 0.02, 19)
	assert.Equal(t, CloseToClose(h), GARCH(h))
}

func TestGARCHEstimatesReasonableVol(t *testing.T) {
	h := synthetic(504, 0.02, 23)
	v := GARCH(h)

	// 2% daily is ~32% annualized; allow a wide band for the fit.
	assert.Greater(t, v, 0.10)
	assert.Less(t, v, 0.80)
}
