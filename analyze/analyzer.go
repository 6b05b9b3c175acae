package analyze

import (
	"fmt"
	"math"

	"github.com/optquant/optcore/models"
	"github.com/optquant/optcore/pricing"
	"github.com/optquant/optcore/strategy"
)

const (
	pnlGridSteps   = 60   // 61 samples across [0.7S, 1.3S]
	pnlGridLow     = 0.70 //
	pnlGridHigh    = 1.30 //
	volSweepSteps  = 20   // 21 samples across [0.5sigma, 1.5sigma]
	decayStepDays  = 5
	directionalCut = 0.5 // per-contract-equivalent net delta
	decayRiskCut   = -50.0
)

// PricePoint is one sample of the at-expiration P&L profile.
type PricePoint struct {
	Price float64 `json:"price"`
	PnL   float64 `json:"pnl"`
}

// DecayPoint is one sample of the time-decay profile: the strategy's current
// theoretical value and portfolio theta at a given days-to-expiration.
type DecayPoint struct {
	DaysRemaining int     `json:"daysRemaining"`
	Value         float64 `json:"value"`
	Theta         float64 `json:"theta"`
}

// VolPoint is one sample of the volatility-sensitivity profile.
type VolPoint struct {
	Volatility float64 `json:"volatility"`
	Value      float64 `json:"value"`
}

// StrategyAnalysis is the analyzer's published result. Plain values, safe to
// serialize; nothing in it reaches back into the pricing engine.
type StrategyAnalysis struct {
	Type             models.StrategyType      `json:"type"`
	Underlying       string                   `json:"underlying"`
	CurrentValue     float64                  `json:"currentValue"`
	Greeks           models.GreeksCalculation `json:"greeks"`
	ShadowUpGamma    float64                  `json:"shadowUpGamma"`
	ShadowDownGamma  float64                  `json:"shadowDownGamma"`
	Volga            float64                  `json:"volga"`
	PnLProfile       []PricePoint             `json:"pnlProfile"`
	TimeDecay        []DecayPoint             `json:"timeDecay"`
	VolSensitivity   []VolPoint               `json:"volSensitivity"`
	Recommendations  []string                 `json:"recommendations"`
	DaysToExpiration int                      `json:"daysToExpiration"`
}

// AnalyzeStrategy prices the strategy against the snapshot and produces the
// full analysis: aggregated Greeks, the at-expiration P&L grid, the
// time-decay and volatility sweeps and advisory recommendations.
func AnalyzeStrategy(s models.OptionsStrategy, market MarketSnapshot) (*StrategyAnalysis, error) {
	if err := market.validate(); err != nil {
		return nil, err
	}
	if len(s.Legs) == 0 {
		return nil, &models.StrategyDefinitionError{Strategy: s.Type, Reason: "no legs to analyze"}
	}

	value, err := StrategyValue(s, market)
	if err != nil {
		return nil, err
	}
	greeks, err := PortfolioGreeks(s, market)
	if err != nil {
		return nil, err
	}

	shadowUp, shadowDown, volga := scenarioGreeks(s, market)

	analysis := &StrategyAnalysis{
		Type:             s.Type,
		Underlying:       s.Underlying,
		CurrentValue:     value,
		Greeks:           greeks,
		ShadowUpGamma:    shadowUp,
		ShadowDownGamma:  shadowDown,
		Volga:            volga,
		PnLProfile:       expirationProfile(s, market.UnderlyingPrice),
		DaysToExpiration: strategy.DaysToExpiration(s, market.AsOf),
	}
	analysis.TimeDecay, err = decayProfile(s, market, analysis.DaysToExpiration)
	if err != nil {
		return nil, err
	}
	analysis.VolSensitivity, err = volProfile(s, market)
	if err != nil {
		return nil, err
	}
	analysis.Recommendations = recommendations(s, greeks)
	return analysis, nil
}

// expirationProfile evaluates the strategy's expiration payoff over a price
// grid spanning [0.7S, 1.3S]. This is the at-expiration profile, distinct
// from the current theoretical value.
func expirationProfile(s models.OptionsStrategy, underlying float64) []PricePoint {
	lo := pnlGridLow * underlying
	step := (pnlGridHigh - pnlGridLow) * underlying / pnlGridSteps

	points := make([]PricePoint, pnlGridSteps+1)
	for i := range points {
		price := lo + float64(i)*step
		points[i] = PricePoint{Price: price, PnL: s.ExpirationPnL(price)}
	}
	return points
}

// decayProfile revalues the current strategy at decreasing days-to-expiration
// holding price and volatility fixed, every 5 days down to 0. At 0 days the
// value is the expiration payoff and theta is spent.
func decayProfile(s models.OptionsStrategy, market MarketSnapshot, daysToExpiration int) ([]DecayPoint, error) {
	var points []DecayPoint
	for days := daysToExpiration; ; days -= decayStepDays {
		if days < 0 {
			days = 0
		}
		shifted := market
		shifted.AsOf = market.AsOf.AddDate(0, 0, daysToExpiration-days)

		value, err := StrategyValue(s, shifted)
		if err != nil {
			return nil, err
		}
		greeks, err := PortfolioGreeks(s, shifted)
		if err != nil {
			return nil, err
		}
		points = append(points, DecayPoint{DaysRemaining: days, Value: value, Theta: greeks.Theta})
		if days == 0 {
			break
		}
	}
	return points, nil
}

// volProfile revalues the current strategy across [0.5sigma, 1.5sigma],
// holding price and time fixed.
func volProfile(s models.OptionsStrategy, market MarketSnapshot) ([]VolPoint, error) {
	base := market.Volatility
	lo := 0.5 * base
	step := base / volSweepSteps

	points := make([]VolPoint, volSweepSteps+1)
	for i := range points {
		shifted := market
		shifted.Volatility = lo + float64(i)*step
		value, err := StrategyValue(s, shifted)
		if err != nil {
			return nil, err
		}
		points[i] = VolPoint{Volatility: shifted.Volatility, Value: value}
	}
	return points, nil
}

// scenarioGreeks sums the per-leg shadow gammas and volga, sign-adjusted the
// same way as the first-order fold. Errors collapse to zero contributions;
// these are advisory diagnostics, not valuation inputs.
func scenarioGreeks(s models.OptionsStrategy, market MarketSnapshot) (up, down, volga float64) {
	for _, leg := range s.Legs {
		w := leg.Sign() * float64(leg.Quantity) * leg.Contract.Multiplier
		u, d, err := pricing.ShadowGamma(leg.Contract, market.UnderlyingPrice, market.Volatility, market.RiskFreeRate, market.DividendYield, market.AsOf)
		if err == nil {
			up += w * u
			down += w * d
		}
		v, err := pricing.Volga(leg.Contract, market.UnderlyingPrice, market.Volatility, market.RiskFreeRate, market.DividendYield, market.AsOf)
		if err == nil {
			volga += w * v
		}
	}
	return up, down, volga
}

// recommendations applies deterministic threshold rules. Advisory text only;
// validation pass/fail never consults these.
func recommendations(s models.OptionsStrategy, greeks models.GreeksCalculation) []string {
	var recs []string

	// Per-contract-equivalent delta: strip multiplier and net quantity so the
	// threshold reads in option-delta units.
	contracts := 0.0
	for _, leg := range s.Legs {
		contracts += float64(leg.Quantity) * leg.Contract.Multiplier
	}
	if contracts > 0 {
		netDelta := (greeks.Delta - s.StockQuantity) / contracts
		if math.Abs(netDelta) > directionalCut {
			direction := "bullish"
			if netDelta < 0 {
				direction = "bearish"
			}
			recs = append(recs, fmt.Sprintf("strong %s directional exposure: net delta %.2f per contract", direction, netDelta))
		}
	}

	if greeks.Theta < decayRiskCut {
		recs = append(recs, fmt.Sprintf("high time-decay risk: losing %.2f per calendar day", -greeks.Theta))
	}

	if s.MaxLoss.Unlimited {
		recs = append(recs, "maximum loss is unlimited: consider a protective leg")
	}

	return recs
}
