// Package pricing implements Black-Scholes-Merton valuation, analytic Greeks
// and implied-volatility solving for European-style option contracts.
//
// Unit conventions, applied uniformly: theta is value lost per calendar day
// (annualized theta / 365), vega is value per 1 percentage-point volatility
// move (annualized / 100), rho is value per 1 percentage-point rate move
// (annualized / 100). Time to expiration is calendar days / 365.
package pricing

import (
	"math"
	"time"

	"github.com/optquant/optcore/models"
)

// OptionPrice returns the Black-Scholes-Merton theoretical value of the
// contract with continuous dividend yield q at the asOf valuation time.
// At or past expiration the price is intrinsic value; with zero volatility it
// collapses to discounted intrinsic value.
func OptionPrice(c models.OptionContract, s, sigma, r, q float64, asOf time.Time) (float64, error) {
	if err := validateMarket(c, s, sigma); err != nil {
		return 0, err
	}
	t := c.TimeToExpiry(asOf)
	return bsmPrice(s, c.Strike, t, r, q, sigma, c.Kind == models.Call), nil
}

func validateMarket(c models.OptionContract, s, sigma float64) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if s <= 0 {
		return &models.DomainRangeError{Param: "underlyingPrice", Value: s, Require: "> 0"}
	}
	if sigma < 0 {
		return &models.DomainRangeError{Param: "volatility", Value: sigma, Require: ">= 0"}
	}
	return nil
}

func bsmPrice(s, k, t, r, q, sigma float64, isCall bool) float64 {
	if t <= 0 {
		if isCall {
			return math.Max(0, s-k)
		}
		return math.Max(0, k-s)
	}
	if sigma <= 0 {
		// No time value: discounted intrinsic.
		fwd := s*math.Exp(-q*t) - k*math.Exp(-r*t)
		if isCall {
			return math.Max(0, fwd)
		}
		return math.Max(0, -fwd)
	}

	d1, d2 := dValues(s, k, t, r, q, sigma)
	if isCall {
		return s*math.Exp(-q*t)*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
	}
	return k*math.Exp(-r*t)*normCDF(-d2) - s*math.Exp(-q*t)*normCDF(-d1)
}

func dValues(s, k, t, r, q, sigma float64) (float64, float64) {
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r-q+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	return d1, d1 - sigma*sqrtT
}

// bsmVega is the raw sensitivity to a 1.00 volatility move, the Newton
// derivative for the implied-volatility solver.
func bsmVega(s, k, t, r, q, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		return 0
	}
	d1, _ := dValues(s, k, t, r, q, sigma)
	return s * math.Exp(-q*t) * normPDF(d1) * math.Sqrt(t)
}

// normCDF calculates the cumulative distribution function of the standard
// normal distribution.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPDF calculates the probability density function of the standard normal
// distribution.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
