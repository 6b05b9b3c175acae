package pricing

import (
	"math"
	"time"

	"github.com/optquant/optcore/models"
)

const (
	maxIterations = 100
	priceTol      = 1e-4
	newtonSeed    = 0.3
	sigmaFloor    = 0.001
	sigmaCeil     = 5.0
)

// ImpliedVolatility solves for the volatility at which the theoretical price
// matches marketPrice. Newton-Raphson seeded at 0.3 with vega as the
// derivative; falls back to bisection over [0.001, 5.0] when Newton diverges
// or vega collapses (deep ITM/OTM). Returns a ConvergenceError when the
// iteration cap is hit; it never silently returns a guess.
func ImpliedVolatility(c models.OptionContract, s, marketPrice, r, q float64, asOf time.Time) (float64, error) {
	if err := validateMarket(c, s, 0); err != nil {
		return 0, err
	}
	if marketPrice <= 0 {
		return 0, &models.DomainRangeError{Param: "marketPrice", Value: marketPrice, Require: "> 0"}
	}
	t := c.TimeToExpiry(asOf)
	if t <= 0 {
		return 0, &models.DomainRangeError{Param: "timeToExpiry", Value: t, Require: "> 0"}
	}

	isCall := c.Kind == models.Call
	k := c.Strike

	sigma := newtonSeed
	for i := 0; i < maxIterations; i++ {
		price := bsmPrice(s, k, t, r, q, sigma, isCall)
		diff := price - marketPrice
		if math.Abs(diff) < priceTol {
			return sigma, nil
		}

		vega := bsmVega(s, k, t, r, q, sigma)
		if vega < 1e-10 {
			// Near-zero vega: Newton step is degenerate.
			return bisectImpliedVol(s, k, t, r, q, marketPrice, isCall)
		}

		sigma -= diff / vega
		if sigma < sigmaFloor || sigma > sigmaCeil || math.IsNaN(sigma) {
			return bisectImpliedVol(s, k, t, r, q, marketPrice, isCall)
		}
	}

	return bisectImpliedVol(s, k, t, r, q, marketPrice, isCall)
}

func bisectImpliedVol(s, k, t, r, q, marketPrice float64, isCall bool) (float64, error) {
	lo, hi := sigmaFloor, sigmaCeil
	sigma := 0.5 * (lo + hi)
	diff := 0.0

	for i := 0; i < maxIterations; i++ {
		sigma = 0.5 * (lo + hi)
		diff = bsmPrice(s, k, t, r, q, sigma, isCall) - marketPrice
		if math.Abs(diff) < priceTol {
			return sigma, nil
		}
		// Price is monotonically increasing in volatility.
		if diff > 0 {
			hi = sigma
		} else {
			lo = sigma
		}
	}

	return 0, &models.ConvergenceError{
		Method:     "implied volatility",
		Iterations: maxIterations,
		LastValue:  sigma,
		PriceError: math.Abs(diff),
	}
}
