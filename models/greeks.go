package models

import "math"

// GreeksCalculation holds the five first-order sensitivities for a single
// contract or an aggregated portfolio. Units: delta and gamma per 1.00 move
// in the underlying, theta in value per calendar day, vega and rho in value
// per 1 percentage-point move in volatility and rate respectively.
type GreeksCalculation struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// Add returns the component-wise sum of g and o.
func (g GreeksCalculation) Add(o GreeksCalculation) GreeksCalculation {
	return GreeksCalculation{
		Delta: g.Delta + o.Delta,
		Gamma: g.Gamma + o.Gamma,
		Theta: g.Theta + o.Theta,
		Vega:  g.Vega + o.Vega,
		Rho:   g.Rho + o.Rho,
	}
}

// Scale returns g with every component multiplied by k.
func (g GreeksCalculation) Scale(k float64) GreeksCalculation {
	return GreeksCalculation{
		Delta: k * g.Delta,
		Gamma: k * g.Gamma,
		Theta: k * g.Theta,
		Vega:  k * g.Vega,
		Rho:   k * g.Rho,
	}
}

// Sanitize replaces NaN and Inf components with 0.
func (g GreeksCalculation) Sanitize() GreeksCalculation {
	return GreeksCalculation{
		Delta: sanitizeFloat(g.Delta),
		Gamma: sanitizeFloat(g.Gamma),
		Theta: sanitizeFloat(g.Theta),
		Vega:  sanitizeFloat(g.Vega),
		Rho:   sanitizeFloat(g.Rho),
	}
}

func sanitizeFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
