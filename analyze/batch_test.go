package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optquant/optcore/models"
	"github.com/optquant/optcore/strategy"
)

func TestAnalyzeBookKeepsOrder(t *testing.T) {
	var positions []models.OptionsPosition
	for _, strike := range []float64{95, 100, 105, 110} {
		s, err := strategy.LongCall(series(models.Call, strike), 1, 3.00)
		require.NoError(t, err)
		p, err := OpenPosition(s, snapshot())
		require.NoError(t, err)
		positions = append(positions, p)
	}

	reports := AnalyzeBook(positions, map[string]MarketSnapshot{"SPY": snapshot()}, false)
	require.Len(t, reports, 4)
	for i, r := range reports {
		assert.Empty(t, r.Err)
		require.NotNil(t, r.Analysis)
		assert.Equal(t, positions[i].ID, r.Position.ID)
	}
}

func TestAnalyzeBookMissingSnapshot(t *testing.T) {
	s, err := strategy.LongCall(series(models.Call, 100), 1, 3.00)
	require.NoError(t, err)
	p, err := OpenPosition(s, snapshot())
	require.NoError(t, err)

	reports := AnalyzeBook([]models.OptionsPosition{p}, map[string]MarketSnapshot{}, false)
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Err, "no market snapshot")
	assert.Nil(t, reports[0].Analysis)
}

func TestAnalyzeBookEmpty(t *testing.T) {
	assert.Nil(t, AnalyzeBook(nil, nil, false))
}
