package performance

import (
	"math"
	"sort"

	"github.com/optquant/optcore/models"
)

// TradeStats summarizes closed trades: hit rate, average outcomes, streaks
// and the Calmar ratio over the cumulative realized P&L curve.
type TradeStats struct {
	TotalTrades       int     `json:"totalTrades"`
	Winners           int     `json:"winners"`
	Losers            int     `json:"losers"`
	WinRate           float64 `json:"winRate"`
	AverageWin        float64 `json:"averageWin"`
	AverageLoss       float64 `json:"averageLoss"`
	ProfitFactor      float64 `json:"profitFactor"`
	Expectancy        float64 `json:"expectancy"`
	LongestWinStreak  int     `json:"longestWinStreak"`
	LongestLossStreak int     `json:"longestLossStreak"`
	TotalPnL          float64 `json:"totalPnl"`
	MaxDrawdown       float64 `json:"maxDrawdown"`
	CalmarRatio       float64 `json:"calmarRatio"`
}

// ComputeTradeStats folds the closed trades, in close-date order, into their
// summary statistics. An empty input yields zero stats.
func ComputeTradeStats(trades []models.HistoricalTrade) TradeStats {
	if len(trades) == 0 {
		return TradeStats{}
	}

	ordered := append([]models.HistoricalTrade(nil), trades...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ClosedAt.Before(ordered[j].ClosedAt)
	})

	var s TradeStats
	s.TotalTrades = len(ordered)

	var grossWin, grossLoss float64
	var winStreak, lossStreak int
	cumulative := make([]float64, len(ordered))
	sum := 0.0

	for i, trade := range ordered {
		pnl := trade.RealizedPnL
		sum += pnl
		cumulative[i] = sum

		switch {
		case pnl > 0:
			s.Winners++
			grossWin += pnl
			winStreak++
			lossStreak = 0
		case pnl < 0:
			s.Losers++
			grossLoss += pnl
			lossStreak++
			winStreak = 0
		default:
			winStreak = 0
			lossStreak = 0
		}
		if winStreak > s.LongestWinStreak {
			s.LongestWinStreak = winStreak
		}
		if lossStreak > s.LongestLossStreak {
			s.LongestLossStreak = lossStreak
		}
	}

	s.TotalPnL = sum
	s.WinRate = float64(s.Winners) / float64(s.TotalTrades)
	if s.Winners > 0 {
		s.AverageWin = grossWin / float64(s.Winners)
	}
	if s.Losers > 0 {
		s.AverageLoss = grossLoss / float64(s.Losers)
	}

	switch {
	case s.Losers == 0 && grossWin > 0:
		s.ProfitFactor = math.Inf(1)
	case s.Losers > 0:
		s.ProfitFactor = grossWin / math.Abs(grossLoss)
	}

	s.Expectancy = s.WinRate*s.AverageWin + (1-s.WinRate)*s.AverageLoss

	s.MaxDrawdown, _ = MaxDrawdown(cumulative)
	// Floor the drawdown at 1 so an untouched equity curve does not divide
	// by zero.
	s.CalmarRatio = s.TotalPnL / math.Max(s.MaxDrawdown, 1)

	return s
}
