package probability

import (
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optquant/optcore/models"
	"github.com/optquant/optcore/strategy"
)

var asOf = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func series(kind models.OptionKind, strike float64) models.OptionContract {
	return models.OptionContract{
		Underlying: "SPY",
		Kind:       kind,
		Strike:     strike,
		Expiration: asOf.AddDate(0, 0, 45),
		Multiplier: models.DefaultMultiplier,
	}
}

func scenarios() map[string]float64 {
	return map[string]float64{"base": 0.25, "stressed": 0.40}
}

func TestProbabilityOfProfitBounds(t *testing.T) {
	s, err := strategy.LongCall(series(models.Call, 100), 1, 3.00)
	require.NoError(t, err)

	result, err := ProbabilityOfProfit(s, 100, 0.05, scenarios(), 45)
	require.NoError(t, err)

	// One entry per scenario/model pair.
	require.Len(t, result.Probabilities, 4)
	require.Contains(t, result.Probabilities, "base_GBM")
	require.Contains(t, result.Probabilities, "base_Heston")
	require.Contains(t, result.Probabilities, "stressed_GBM")
	require.Contains(t, result.Probabilities, "stressed_Heston")

	for name, p := range result.Probabilities {
		assert.GreaterOrEqual(t, p, 0.0, name)
		assert.LessOrEqual(t, p, 1.0, name)
	}
	assert.GreaterOrEqual(t, result.AverageProbability, 0.0)
	assert.LessOrEqual(t, result.AverageProbability, 1.0)
}

func TestProbabilityOfProfitSurePositions(t *testing.T) {
	c := series(models.Call, 100)

	// A short position with a huge recorded credit profits on every path.
	sure := models.OptionsStrategy{
		Type:       models.Custom,
		Underlying: "SPY",
		Legs: []models.OptionsLeg{
			{Contract: c, Side: models.Long, Action: models.BuyToOpen, Quantity: 1, EntryPrice: 0.01},
		},
		NetCredit: 1_000_000,
	}
	result, err := ProbabilityOfProfit(sure, 100, 0.05, scenarios(), 45)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.AverageProbability)

	// The mirror image loses on every path.
	doomed := sure
	doomed.Legs = []models.OptionsLeg{
		{Contract: c, Side: models.Short, Action: models.SellToOpen, Quantity: 1, EntryPrice: 0.01},
	}
	doomed.NetCredit = -1_000_000
	result, err = ProbabilityOfProfit(doomed, 100, 0.05, scenarios(), 45)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.AverageProbability)
}

func TestProbabilityOfProfitAtExpiration(t *testing.T) {
	// Zero days left: every path returns the spot unchanged.
	s, err := strategy.LongCall(series(models.Call, 100), 1, 3.00)
	require.NoError(t, err)

	// Spot 110: intrinsic 1000 beats the 300 debit on every "path".
	result, err := ProbabilityOfProfit(s, 110, 0.05, scenarios(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.AverageProbability)

	// Spot at the strike: the premium is gone on every path.
	result, err = ProbabilityOfProfit(s, 100, 0.05, scenarios(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.AverageProbability)
}

func TestProbabilityOfProfitValidation(t *testing.T) {
	s, err := strategy.LongCall(series(models.Call, 100), 1, 3.00)
	require.NoError(t, err)

	var domainErr *models.DomainRangeError

	_, err = ProbabilityOfProfit(s, 0, 0.05, scenarios(), 45)
	require.ErrorAs(t, err, &domainErr)

	_, err = ProbabilityOfProfit(s, 100, 0.05, scenarios(), -1)
	require.ErrorAs(t, err, &domainErr)

	_, err = ProbabilityOfProfit(s, 100, 0.05, map[string]float64{"bad": -0.2}, 45)
	require.ErrorAs(t, err, &domainErr)

	_, err = ProbabilityOfProfit(s, 100, 0.05, nil, 45)
	require.ErrorAs(t, err, &domainErr)
}

func TestSimulatorsTerminalPrice(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Zero time to expiry is the identity.
	assert.Equal(t, 100.0, simulateGBM(100, 0.05, 0.25, 0, rng))
	assert.Equal(t, 100.0, simulateHeston(100, 0.05, 0.25, 0, rng))

	for i := 0; i < 100; i++ {
		assert.Greater(t, simulateGBM(100, 0.05, 0.25, 0.25, rng), 0.0)
		assert.Greater(t, simulateHeston(100, 0.05, 0.25, 0.25, rng), 0.0)
	}
}

func TestHestonVarianceStaysNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	h := DefaultHeston(0.6) // high vol-of-vol pressure on the variance floor

	for i := 0; i < 100; i++ {
		p := h.SimulatePrice(100, 0.05, 1.0, 252, rng)
		assert.False(t, p <= 0 || p != p, "path produced invalid price %v", p)
	}
}
