package pricing

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optquant/optcore/models"
)

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	c := contract(models.Call, 105, 180)
	price, err := OptionPrice(c, 100, 0.30, 0.05, 0, asOf)
	require.NoError(t, err)

	iv, err := ImpliedVolatility(c, 100, price, 0.05, 0, asOf)
	require.NoError(t, err)
	assert.InDelta(t, 0.30, iv, 1e-4)
}

func TestImpliedVolatilityRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("solving the model price recovers a matching vol", prop.ForAll(
		func(s, k, sigma float64, days int, isPut bool) bool {
			kind := models.Call
			if isPut {
				kind = models.Put
			}
			c := contract(kind, k, days)

			price, err := OptionPrice(c, s, sigma, 0.05, 0, asOf)
			if err != nil || price <= 0 {
				return true // worthless contract, nothing to solve
			}

			iv, err := ImpliedVolatility(c, s, price, 0.05, 0, asOf)
			if err != nil {
				return false
			}
			// Require price agreement, not vol agreement: deep ITM strikes
			// admit a wide band of vols within the price tolerance.
			back, err := OptionPrice(c, s, iv, 0.05, 0, asOf)
			if err != nil {
				return false
			}
			return back-price < 1e-4 && price-back < 1e-4
		},
		gen.Float64Range(80, 120),
		gen.Float64Range(80, 120),
		gen.Float64Range(0.05, 1.5),
		gen.IntRange(7, 365),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestImpliedVolatilityDeepITMFallsBackToBisection(t *testing.T) {
	// Vega is tiny here, so Newton from 0.3 hands off to bisection.
	c := contract(models.Call, 10, 30)
	price, err := OptionPrice(c, 100, 1.2, 0.05, 0, asOf)
	require.NoError(t, err)

	iv, err := ImpliedVolatility(c, 100, price, 0.05, 0, asOf)
	require.NoError(t, err)
	assert.Greater(t, iv, 0.0)
}

func TestImpliedVolatilityUnreachablePrice(t *testing.T) {
	// No vol can price a call below discounted intrinsic.
	c := contract(models.Call, 50, 90)
	_, err := ImpliedVolatility(c, 100, 45, 0.05, 0, asOf)

	var convErr *models.ConvergenceError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, maxIterations, convErr.Iterations)
}

func TestImpliedVolatilityInputValidation(t *testing.T) {
	var domainErr *models.DomainRangeError

	c := contract(models.Call, 100, 180)
	_, err := ImpliedVolatility(c, 100, -1, 0.05, 0, asOf)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "marketPrice", domainErr.Param)

	expired := contract(models.Call, 100, 0)
	_, err = ImpliedVolatility(expired, 100, 5, 0.05, 0, asOf)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "timeToExpiry", domainErr.Param)
}
