package pricing

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optquant/optcore/models"
)

func TestOptionGreeksKnownValues(t *testing.T) {
	c := contract(models.Call, 100, 365)
	g, err := OptionGreeks(c, 100, 0.20, 0.05, 0, asOf)
	require.NoError(t, err)

	assert.InDelta(t, 0.6368, g.Delta, 1e-3)
	assert.InDelta(t, 0.01876, g.Gamma, 1e-4)
	assert.InDelta(t, -6.414/365, g.Theta, 1e-4)
	assert.InDelta(t, 0.3752, g.Vega, 1e-3)
	assert.InDelta(t, 0.5323, g.Rho, 1e-3)
}

func TestOptionGreeksExpiredAreZero(t *testing.T) {
	c := contract(models.Call, 100, 0)
	g, err := OptionGreeks(c, 120, 0.20, 0.05, 0, asOf)
	require.NoError(t, err)
	assert.Equal(t, models.GreeksCalculation{}, g)
}

func TestGreekBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("greek bounds hold without dividends", prop.ForAll(
		func(s, k, sigma, r float64, days int) bool {
			call := contract(models.Call, k, days)
			put := contract(models.Put, k, days)

			cg, err := OptionGreeks(call, s, sigma, r, 0, asOf)
			if err != nil {
				return false
			}
			pg, err := OptionGreeks(put, s, sigma, r, 0, asOf)
			if err != nil {
				return false
			}

			if cg.Delta < 0 || cg.Delta > 1 {
				return false
			}
			if pg.Delta < -1 || pg.Delta > 0 {
				return false
			}
			// Gamma and vega are kind-independent and non-negative.
			if cg.Gamma < 0 || math.Abs(cg.Gamma-pg.Gamma) > 1e-12 {
				return false
			}
			if cg.Vega < 0 || math.Abs(cg.Vega-pg.Vega) > 1e-12 {
				return false
			}
			// A long call bleeds time value when rates are non-negative.
			return cg.Theta <= 1e-12
		},
		gen.Float64Range(50, 150),
		gen.Float64Range(50, 150),
		gen.Float64Range(0.05, 1.0),
		gen.Float64Range(0, 0.10),
		gen.IntRange(1, 730),
	))

	properties.TestingRun(t)
}

func TestShadowGammaNearPlainGammaATM(t *testing.T) {
	c := contract(models.Call, 100, 365)
	g, err := OptionGreeks(c, 100, 0.20, 0.05, 0, asOf)
	require.NoError(t, err)

	up, down, err := ShadowGamma(c, 100, 0.20, 0.05, 0, asOf)
	require.NoError(t, err)

	// The joint price/vol bump perturbs but should not swamp plain gamma.
	assert.InDelta(t, g.Gamma, up, g.Gamma*0.5)
	assert.InDelta(t, g.Gamma, down, g.Gamma*0.5)
}

func TestVolgaSignAwayFromMoney(t *testing.T) {
	// OTM options gain convexity in vol; ATM volga is near zero.
	otm := contract(models.Call, 130, 180)
	v, err := Volga(otm, 100, 0.20, 0.05, 0, asOf)
	require.NoError(t, err)
	assert.Greater(t, v, 0.0)

	atm := contract(models.Call, 100, 365)
	v, err = Volga(atm, 100, 0.20, 0.05, 0, asOf)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v, 30.0)
}
