package performance

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/optquant/optcore/models"
)

func TestAttributePnL(t *testing.T) {
	greeks := models.GreeksCalculation{Delta: 50, Gamma: 2, Theta: -8, Vega: 30, Rho: 12}
	move := MarketMove{PriceChange: 3, VolChange: -2, Days: 5, RateChange: 0.25}

	a := AttributePnL(greeks, move, 100)

	assert.InDelta(t, 150, a.DeltaContribution, 1e-9)
	assert.InDelta(t, 9, a.GammaContribution, 1e-9) // 0.5 * 2 * 3^2
	assert.InDelta(t, -40, a.ThetaContribution, 1e-9)
	assert.InDelta(t, -60, a.VegaContribution, 1e-9)
	assert.InDelta(t, 3, a.RhoContribution, 1e-9)
	assert.InDelta(t, 38, a.ResidualContribution, 1e-9)
	assert.Equal(t, 100.0, a.TotalPnL)
}

func TestAttributionClosesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("contributions always sum to the total", prop.ForAll(
		func(delta, gamma, theta, vega, rho, dS, dVol, days, dRate, total float64) bool {
			greeks := models.GreeksCalculation{Delta: delta, Gamma: gamma, Theta: theta, Vega: vega, Rho: rho}
			move := MarketMove{PriceChange: dS, VolChange: dVol, Days: days, RateChange: dRate}

			a := AttributePnL(greeks, move, total)
			sum := a.DeltaContribution + a.GammaContribution + a.ThetaContribution +
				a.VegaContribution + a.RhoContribution + a.ResidualContribution
			return math.Abs(sum-total) < 1.0
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(-10, 10),
		gen.Float64Range(-50, 50),
		gen.Float64Range(-100, 100),
		gen.Float64Range(-50, 50),
		gen.Float64Range(-20, 20),
		gen.Float64Range(-10, 10),
		gen.Float64Range(0, 30),
		gen.Float64Range(-1, 1),
		gen.Float64Range(-5000, 5000),
	))

	properties.TestingRun(t)
}
