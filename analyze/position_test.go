package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optquant/optcore/models"
	"github.com/optquant/optcore/strategy"
)

func TestOpenPosition(t *testing.T) {
	s, err := strategy.LongCall(series(models.Call, 100), 1, 3.00)
	require.NoError(t, err)

	p, err := OpenPosition(s, snapshot())
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.PositionOpen, p.Status)
	assert.Equal(t, 300.0, p.CostBasis)
	assert.Equal(t, 45, p.DaysToExpiration)
	assert.InDelta(t, p.CurrentValue-300, p.UnrealizedPnL, 1e-9)
	assert.False(t, p.Terminal())
}

func TestOpenPositionIncludesStockBasis(t *testing.T) {
	s, err := strategy.CoveredCall(series(models.Call, 105), 1, 2.00, 100)
	require.NoError(t, err)

	p, err := OpenPosition(s, snapshot())
	require.NoError(t, err)
	// 100 shares at 100 minus the 200 premium collected.
	assert.Equal(t, 9800.0, p.CostBasis)
}

func TestRevaluePosition(t *testing.T) {
	s, err := strategy.LongCall(series(models.Call, 100), 1, 3.00)
	require.NoError(t, err)
	p, err := OpenPosition(s, snapshot())
	require.NoError(t, err)

	up := snapshot()
	up.UnderlyingPrice = 110
	up.AsOf = asOf.AddDate(0, 0, 10)

	next, err := RevaluePosition(p, up)
	require.NoError(t, err)

	assert.Greater(t, next.CurrentValue, p.CurrentValue)
	assert.InDelta(t, next.CurrentValue-p.CurrentValue, next.DayChange, 1e-9)
	assert.InDelta(t, next.CurrentValue-p.CostBasis, next.UnrealizedPnL, 1e-9)
	assert.Equal(t, 35, next.DaysToExpiration)
	assert.Equal(t, models.PositionOpen, next.Status)
	// Input untouched.
	assert.Equal(t, models.PositionOpen, p.Status)
}

func TestRevaluePositionExpires(t *testing.T) {
	s, err := strategy.LongCall(series(models.Call, 100), 1, 3.00)
	require.NoError(t, err)
	p, err := OpenPosition(s, snapshot())
	require.NoError(t, err)

	at := snapshot()
	at.UnderlyingPrice = 112
	at.AsOf = asOf.AddDate(0, 0, 45)

	next, err := RevaluePosition(p, at)
	require.NoError(t, err)
	assert.Equal(t, models.PositionExpired, next.Status)
	// Settles at intrinsic value.
	assert.InDelta(t, 1200, next.CurrentValue, 1e-9)
	assert.True(t, next.Terminal())

	// Terminal positions pass through unchanged.
	later := at
	later.UnderlyingPrice = 90
	same, err := RevaluePosition(next, later)
	require.NoError(t, err)
	assert.Equal(t, next, same)
}

func TestClosePosition(t *testing.T) {
	s, err := strategy.LongCall(series(models.Call, 100), 1, 3.00)
	require.NoError(t, err)
	p, err := OpenPosition(s, snapshot())
	require.NoError(t, err)

	exit := snapshot()
	exit.AsOf = asOf.AddDate(0, 0, 20)

	closed, trade, err := ClosePosition(p, 450, exit)
	require.NoError(t, err)

	assert.Equal(t, models.PositionClosed, closed.Status)
	assert.Equal(t, 450.0, closed.CurrentValue)
	assert.Equal(t, 0.0, closed.UnrealizedPnL)

	assert.Equal(t, models.LongCall, trade.Strategy)
	assert.Equal(t, 150.0, trade.RealizedPnL)
	assert.Equal(t, exit.AsOf, trade.ClosedAt)
	assert.InDelta(t, 0.5, trade.Return(), 1e-9)

	_, _, err = ClosePosition(closed, 450, exit)
	var defErr *models.StrategyDefinitionError
	require.ErrorAs(t, err, &defErr)
}
