package performance

import (
	"time"

	"github.com/optquant/optcore/models"
)

// PerformanceReport is the assembled analytics output for a trade history:
// overall and per-strategy trade statistics plus risk metrics over the
// per-trade return series. Plain values, safe to serialize.
type PerformanceReport struct {
	GeneratedAt time.Time                          `json:"generatedAt"`
	Trades      TradeStats                         `json:"trades"`
	Risk        RiskMetrics                        `json:"risk"`
	ByStrategy  map[models.StrategyType]TradeStats `json:"byStrategy"`
}

// BuildReport computes the full report from a trade history. The return
// series feeding the risk metrics is each trade's realized P&L over its cost
// basis, in close-date order.
func BuildReport(trades []models.HistoricalTrade, riskFreeRate float64) (PerformanceReport, error) {
	report := PerformanceReport{
		GeneratedAt: time.Now().UTC(),
		Trades:      ComputeTradeStats(trades),
		ByStrategy:  make(map[models.StrategyType]TradeStats),
	}

	byStrategy := make(map[models.StrategyType][]models.HistoricalTrade)
	returns := make([]float64, 0, len(trades))
	for _, trade := range trades {
		byStrategy[trade.Strategy] = append(byStrategy[trade.Strategy], trade)
		returns = append(returns, trade.Return())
	}
	for st, group := range byStrategy {
		report.ByStrategy[st] = ComputeTradeStats(group)
	}

	if len(returns) > 0 {
		risk, err := ComputeRiskMetrics(returns, riskFreeRate)
		if err != nil {
			return PerformanceReport{}, err
		}
		report.Risk = risk
	}

	return report, nil
}
