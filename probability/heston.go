package probability

import (
	"math"

	"golang.org/x/exp/rand"
)

// HestonModel simulates prices under stochastic variance.
type HestonModel struct {
	V0    float64 // initial variance
	Kappa float64 // mean reversion speed of variance
	Theta float64 // long-term variance
	Xi    float64 // volatility of variance
	Rho   float64 // correlation between returns and variance
}

// DefaultHeston returns a conservative parameterization seeded from the
// given annualized volatility.
func DefaultHeston(sigma float64) HestonModel {
	v := sigma * sigma
	return HestonModel{V0: v, Kappa: 2, Theta: v, Xi: 0.4, Rho: -0.5}
}

// SimulatePrice evolves one Euler path of steps increments over t years and
// returns the terminal price.
func (h HestonModel) SimulatePrice(s0, r, t float64, steps int, rng *rand.Rand) float64 {
	dt := t / float64(steps)
	sqrtDt := math.Sqrt(dt)

	s := s0
	v := h.V0

	for i := 0; i < steps; i++ {
		z1 := rng.NormFloat64()
		z2 := h.Rho*z1 + math.Sqrt(1-h.Rho*h.Rho)*rng.NormFloat64()

		s *= math.Exp((r-0.5*v)*dt + math.Sqrt(v)*sqrtDt*z1)
		v += h.Kappa*(h.Theta-v)*dt + h.Xi*math.Sqrt(v)*sqrtDt*z2
		v = math.Max(0, v)
	}

	return s
}
