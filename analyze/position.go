package analyze

import (
	"github.com/google/uuid"
	"github.com/optquant/optcore/models"
	"github.com/optquant/optcore/strategy"
)

// OpenPosition executes a built strategy into a live position valued against
// the snapshot. Cost basis is the option premium paid (or collected) plus the
// cost of any covered stock.
func OpenPosition(s models.OptionsStrategy, market MarketSnapshot) (models.OptionsPosition, error) {
	value, err := StrategyValue(s, market)
	if err != nil {
		return models.OptionsPosition{}, err
	}
	greeks, err := PortfolioGreeks(s, market)
	if err != nil {
		return models.OptionsPosition{}, err
	}

	costBasis := strategy.EntryCost(s) + s.StockQuantity*s.StockCostBasis
	return models.OptionsPosition{
		ID:               uuid.NewString(),
		Strategy:         s,
		OpenedAt:         market.AsOf,
		CostBasis:        costBasis,
		CurrentValue:     value,
		UnrealizedPnL:    value - costBasis,
		Greeks:           greeks,
		DaysToExpiration: strategy.DaysToExpiration(s, market.AsOf),
		Status:           models.PositionOpen,
	}, nil
}

// RevaluePosition marks an open position against a fresh snapshot, returning
// a new position value; the input is never mutated. Closed and expired
// positions pass through unchanged. When the nearest leg expiration has
// passed, the position transitions terminally to expired at its settlement
// value.
func RevaluePosition(p models.OptionsPosition, market MarketSnapshot) (models.OptionsPosition, error) {
	if p.Terminal() {
		return p, nil
	}

	value, err := StrategyValue(p.Strategy, market)
	if err != nil {
		return models.OptionsPosition{}, err
	}
	greeks, err := PortfolioGreeks(p.Strategy, market)
	if err != nil {
		return models.OptionsPosition{}, err
	}

	next := p
	next.CurrentValue = value
	next.UnrealizedPnL = value - p.CostBasis
	next.DayChange = value - p.CurrentValue
	next.Greeks = greeks
	next.DaysToExpiration = strategy.DaysToExpiration(p.Strategy, market.AsOf)

	if expired(p.Strategy, market) {
		next.Status = models.PositionExpired
	}
	return next, nil
}

// ClosePosition settles an open position at the given proceeds and returns
// the terminal position plus its historical trade record.
func ClosePosition(p models.OptionsPosition, proceeds float64, market MarketSnapshot) (models.OptionsPosition, models.HistoricalTrade, error) {
	if p.Terminal() {
		return p, models.HistoricalTrade{}, &models.StrategyDefinitionError{
			Strategy: p.Strategy.Type,
			Reason:   "position is already " + string(p.Status),
		}
	}

	next := p
	next.CurrentValue = proceeds
	next.UnrealizedPnL = 0
	next.Status = models.PositionClosed

	trade := models.HistoricalTrade{
		Strategy:    p.Strategy.Type,
		Underlying:  p.Strategy.Underlying,
		OpenedAt:    p.OpenedAt,
		ClosedAt:    market.AsOf,
		RealizedPnL: proceeds - p.CostBasis,
		CostBasis:   p.CostBasis,
	}
	return next, trade, nil
}

func expired(s models.OptionsStrategy, market MarketSnapshot) bool {
	for _, leg := range s.Legs {
		if !market.AsOf.Before(leg.Contract.Expiration) {
			return true
		}
	}
	return false
}
