package models

import "time"

// PositionStatus is the lifecycle state of an opened strategy.
type PositionStatus string

const (
	PositionOpen    PositionStatus = "open"
	PositionClosed  PositionStatus = "closed"
	PositionExpired PositionStatus = "expired"
)

// OptionsPosition is a strategy that has been executed. It is mutated only by
// revaluation against fresh market inputs; the closed and expired states are
// terminal.
type OptionsPosition struct {
	ID               string            `json:"id"`
	Strategy         OptionsStrategy   `json:"strategy"`
	OpenedAt         time.Time         `json:"openedAt"`
	CostBasis        float64           `json:"costBasis"`
	CurrentValue     float64           `json:"currentValue"`
	UnrealizedPnL    float64           `json:"unrealizedPnl"`
	DayChange        float64           `json:"dayChange"`
	Greeks           GreeksCalculation `json:"greeks"`
	DaysToExpiration int               `json:"daysToExpiration"`
	Status           PositionStatus    `json:"status"`
}

// Terminal reports whether the position can no longer be revalued.
func (p OptionsPosition) Terminal() bool {
	return p.Status == PositionClosed || p.Status == PositionExpired
}

// HistoricalTrade is a closed trade record, the unit consumed by performance
// analytics. Immutable once recorded.
type HistoricalTrade struct {
	Strategy    StrategyType `json:"strategy"`
	Underlying  string       `json:"underlying"`
	OpenedAt    time.Time    `json:"openedAt"`
	ClosedAt    time.Time    `json:"closedAt"`
	RealizedPnL float64      `json:"realizedPnl"`
	CostBasis   float64      `json:"costBasis"`
}

// Return is the trade's realized P&L as a fraction of cost basis, 0 when the
// cost basis is 0.
func (t HistoricalTrade) Return() float64 {
	if t.CostBasis == 0 {
		return 0
	}
	return t.RealizedPnL / t.CostBasis
}
