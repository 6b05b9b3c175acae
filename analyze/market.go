// Package analyze evaluates option strategies against market inputs:
// portfolio Greek aggregation, P&L / time-decay / volatility sweeps,
// constraint validation and position revaluation. All computation is pure and
// synchronous; AnalyzeBook fans the same pure map out across a position book.
package analyze

import (
	"time"

	"github.com/optquant/optcore/models"
	"github.com/optquant/optcore/pricing"
)

// MarketSnapshot carries the market inputs consumed from a data collaborator.
// The core performs no I/O; whoever fetched these owns staleness and retries.
type MarketSnapshot struct {
	UnderlyingPrice float64   `json:"underlyingPrice"`
	Volatility      float64   `json:"volatility"`
	RiskFreeRate    float64   `json:"riskFreeRate"`
	DividendYield   float64   `json:"dividendYield"`
	AsOf            time.Time `json:"asOf"`
}

func (m MarketSnapshot) validate() error {
	if m.UnderlyingPrice <= 0 {
		return &models.DomainRangeError{Param: "underlyingPrice", Value: m.UnderlyingPrice, Require: "> 0"}
	}
	if m.Volatility <= 0 {
		return &models.DomainRangeError{Param: "volatility", Value: m.Volatility, Require: "> 0"}
	}
	if m.DividendYield < 0 {
		return &models.DomainRangeError{Param: "dividendYield", Value: m.DividendYield, Require: ">= 0"}
	}
	return nil
}

// StrategyValue returns the current theoretical value of the strategy in
// currency: signed sum of leg prices plus the marked stock position.
func StrategyValue(s models.OptionsStrategy, market MarketSnapshot) (float64, error) {
	if err := market.validate(); err != nil {
		return 0, err
	}
	value := 0.0
	for _, leg := range s.Legs {
		price, err := pricing.OptionPrice(leg.Contract, market.UnderlyingPrice, market.Volatility, market.RiskFreeRate, market.DividendYield, market.AsOf)
		if err != nil {
			return 0, err
		}
		value += leg.Sign() * float64(leg.Quantity) * leg.Contract.Multiplier * price
	}
	value += s.StockQuantity * market.UnderlyingPrice
	return value, nil
}

// PortfolioGreeks folds per-contract Greeks across the legs: sign times
// quantity times multiplier, summed, plus one delta per share of any covered
// stock position. A pure reduction over the immutable leg slice.
func PortfolioGreeks(s models.OptionsStrategy, market MarketSnapshot) (models.GreeksCalculation, error) {
	if err := market.validate(); err != nil {
		return models.GreeksCalculation{}, err
	}
	total := models.GreeksCalculation{}
	for _, leg := range s.Legs {
		g, err := pricing.OptionGreeks(leg.Contract, market.UnderlyingPrice, market.Volatility, market.RiskFreeRate, market.DividendYield, market.AsOf)
		if err != nil {
			return models.GreeksCalculation{}, err
		}
		total = total.Add(g.Scale(leg.Sign() * float64(leg.Quantity) * leg.Contract.Multiplier))
	}
	total.Delta += s.StockQuantity
	return total.Sanitize(), nil
}
