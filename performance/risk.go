package performance

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/optquant/optcore/models"
)

// RiskMetrics summarizes a return series. VaR and expected shortfall are
// reported as returns (negative = loss); drawdown is over the cumulative sum
// of the series.
type RiskMetrics struct {
	VaR95                float64 `json:"var95"`
	VaR99                float64 `json:"var99"`
	ExpectedShortfall95  float64 `json:"expectedShortfall95"`
	AnnualizedVolatility float64 `json:"annualizedVolatility"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	SortinoRatio         float64 `json:"sortinoRatio"`
	MaxDrawdown          float64 `json:"maxDrawdown"`
	MaxDrawdownPercent   float64 `json:"maxDrawdownPercent"`
}

// ValueAtRisk is the (1-confidence) empirical percentile of the sorted
// return series: the loss threshold not exceeded with the given confidence.
func ValueAtRisk(returns []float64, confidence float64) (float64, error) {
	if len(returns) == 0 {
		return 0, &models.DomainRangeError{Param: "returns", Value: 0, Require: "non-empty series"}
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, &models.DomainRangeError{Param: "confidence", Value: confidence, Require: "in (0, 1)"}
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	index := int(float64(len(sorted)) * (1 - confidence))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index], nil
}

// ExpectedShortfall is the mean of the returns below the VaR percentile, the
// answer to "how bad is it when the VaR threshold breaks".
func ExpectedShortfall(returns []float64, confidence float64) (float64, error) {
	if _, err := ValueAtRisk(returns, confidence); err != nil {
		return 0, err
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	index := int(float64(len(sorted)) * (1 - confidence))
	if index == 0 {
		return sorted[0], nil
	}
	return stats.Mean(sorted[:index])
}

// MaxDrawdown tracks the running peak of a cumulative P&L series and returns
// the largest peak-to-trough gap, as an amount and as a percent of the peak.
func MaxDrawdown(cumulative []float64) (amount, percent float64) {
	peak := math.Inf(-1)
	for _, v := range cumulative {
		if v > peak {
			peak = v
		}
		gap := peak - v
		if gap > amount {
			amount = gap
			if peak > 0 {
				percent = gap / peak * 100
			}
		}
	}
	return amount, percent
}

// ComputeRiskMetrics derives the full metric set from a daily return series.
// Sharpe is 0 when the series has no variance; Sortino is +Inf when there are
// no negative returns.
func ComputeRiskMetrics(returns []float64, riskFreeRate float64) (RiskMetrics, error) {
	if len(returns) == 0 {
		return RiskMetrics{}, &models.DomainRangeError{Param: "returns", Value: 0, Require: "non-empty series"}
	}

	var m RiskMetrics
	var err error
	if m.VaR95, err = ValueAtRisk(returns, 0.95); err != nil {
		return RiskMetrics{}, err
	}
	if m.VaR99, err = ValueAtRisk(returns, 0.99); err != nil {
		return RiskMetrics{}, err
	}
	if m.ExpectedShortfall95, err = ExpectedShortfall(returns, 0.95); err != nil {
		return RiskMetrics{}, err
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return RiskMetrics{}, err
	}
	stdev := 0.0
	if len(returns) > 1 {
		if stdev, err = stats.StandardDeviationSample(returns); err != nil {
			return RiskMetrics{}, err
		}
	}
	m.AnnualizedVolatility = stdev * math.Sqrt(252)

	if m.AnnualizedVolatility > 0 {
		m.SharpeRatio = (mean*252 - riskFreeRate) / m.AnnualizedVolatility
	}
	m.SortinoRatio = sortino(returns, mean, riskFreeRate)

	cumulative := make([]float64, len(returns))
	sum := 0.0
	for i, r := range returns {
		sum += r
		cumulative[i] = sum
	}
	m.MaxDrawdown, m.MaxDrawdownPercent = MaxDrawdown(cumulative)

	return m, nil
}

// sortino replaces total volatility with downside deviation: the standard
// deviation of negative returns only. No negative returns means no measured
// downside, reported as +Inf.
func sortino(returns []float64, mean, riskFreeRate float64) float64 {
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return math.Inf(1)
	}

	var stdev float64
	if len(downside) == 1 {
		stdev = 0
	} else {
		stdev, _ = stats.StandardDeviationSample(downside)
	}
	annualized := stdev * math.Sqrt(252)
	if annualized == 0 {
		return 0
	}
	return (mean*252 - riskFreeRate) / annualized
}
