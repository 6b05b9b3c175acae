// Package performance aggregates closed trades and return series into
// portfolio statistics: P&L attribution by Greek, VaR and expected shortfall,
// risk-adjusted ratios, drawdowns and per-strategy trade statistics.
package performance

import "github.com/optquant/optcore/models"

// MarketMove is the observed change in market inputs between two valuations.
// VolChange and RateChange are in percentage points to match the vega/rho
// unit convention; Days is calendar days elapsed.
type MarketMove struct {
	PriceChange float64 `json:"priceChange"`
	VolChange   float64 `json:"volChange"`
	Days        float64 `json:"days"`
	RateChange  float64 `json:"rateChange"`
}

// PnLAttribution decomposes a P&L move into first and second order Greek
// contributions. The residual absorbs higher-order and cross terms, so the
// components always sum back to the total.
type PnLAttribution struct {
	DeltaContribution    float64 `json:"deltaContribution"`
	GammaContribution    float64 `json:"gammaContribution"`
	ThetaContribution    float64 `json:"thetaContribution"`
	VegaContribution     float64 `json:"vegaContribution"`
	RhoContribution      float64 `json:"rhoContribution"`
	ResidualContribution float64 `json:"residualContribution"`
	TotalPnL             float64 `json:"totalPnl"`
}

// AttributePnL explains totalPnL with the position's portfolio Greeks taken
// at the start of the move: delta*dS + gamma*dS^2/2 + theta*days +
// vega*dVol + rho*dRate, remainder to the residual.
func AttributePnL(greeks models.GreeksCalculation, move MarketMove, totalPnL float64) PnLAttribution {
	a := PnLAttribution{
		DeltaContribution: greeks.Delta * move.PriceChange,
		GammaContribution: 0.5 * greeks.Gamma * move.PriceChange * move.PriceChange,
		ThetaContribution: greeks.Theta * move.Days,
		VegaContribution:  greeks.Vega * move.VolChange,
		RhoContribution:   greeks.Rho * move.RateChange,
		TotalPnL:          totalPnL,
	}
	explained := a.DeltaContribution + a.GammaContribution + a.ThetaContribution + a.VegaContribution + a.RhoContribution
	a.ResidualContribution = totalPnL - explained
	return a
}
