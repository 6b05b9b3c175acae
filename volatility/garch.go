package volatility

import (
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// GARCH11 holds the parameters of a GARCH(1,1) conditional variance process.
type GARCH11 struct {
	Omega float64
	Alpha float64
	Beta  float64
}

// LogLikelihood evaluates the Gaussian log-likelihood of the returns under g.
func (g GARCH11) LogLikelihood(returns []float64) float64 {
	n := len(returns)
	logLik := 0.0
	variance := g.Omega / (1 - g.Alpha - g.Beta)

	for i := 1; i < n; i++ {
		variance = g.Omega + g.Alpha*returns[i-1]*returns[i-1] + g.Beta*variance
		logLik += -0.5*math.Log(2*math.Pi) - 0.5*math.Log(variance) - 0.5*returns[i]*returns[i]/variance
	}

	return logLik
}

// ConditionalVolatility runs the variance recursion over the returns and
// annualizes the terminal conditional volatility.
func (g GARCH11) ConditionalVolatility(returns []float64) float64 {
	variance := g.Omega / (1 - g.Alpha - g.Beta)
	for i := 1; i < len(returns); i++ {
		variance = g.Omega + g.Alpha*returns[i-1]*returns[i-1] + g.Beta*variance
	}
	return math.Sqrt(variance * tradingDaysPerYear)
}

func (g GARCH11) valid() bool {
	return g.Omega > 0 && g.Alpha >= 0 && g.Beta >= 0 && g.Alpha+g.Beta < 1
}

// EstimateGARCH11 fits GARCH(1,1) by maximum likelihood: a short MCMC chain
// locates the high-likelihood region, then Nelder-Mead polishes from the
// post-burn-in average. On optimizer failure the MCMC average is returned.
func EstimateGARCH11(returns []float64) GARCH11 {
	initial := GARCH11{Omega: 0.000001, Alpha: 0.1, Beta: 0.8}
	if len(returns) < 3 {
		return initial
	}

	const (
		numIterations = 2000
		burnIn        = 200
		stepSize      = 0.01
	)

	step := distuv.Normal{Mu: 0, Sigma: stepSize}
	uniform := distuv.Uniform{Min: 0, Max: 1}

	chain := make([]GARCH11, numIterations)
	chain[0] = initial

	for i := 1; i < numIterations; i++ {
		proposal := GARCH11{
			Omega: chain[i-1].Omega + step.Rand(),
			Alpha: chain[i-1].Alpha + step.Rand(),
			Beta:  chain[i-1].Beta + step.Rand(),
		}
		if !proposal.valid() {
			chain[i] = chain[i-1]
			continue
		}

		logAcceptProb := proposal.LogLikelihood(returns) - chain[i-1].LogLikelihood(returns)
		if math.Log(uniform.Rand()) < logAcceptProb {
			chain[i] = proposal
		} else {
			chain[i] = chain[i-1]
		}
	}

	avg := GARCH11{}
	for i := burnIn; i < numIterations; i++ {
		avg.Omega += chain[i].Omega
		avg.Alpha += chain[i].Alpha
		avg.Beta += chain[i].Beta
	}
	avg.Omega /= float64(numIterations - burnIn)
	avg.Alpha /= float64(numIterations - burnIn)
	avg.Beta /= float64(numIterations - burnIn)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			g := GARCH11{Omega: x[0], Alpha: x[1], Beta: x[2]}
			if !g.valid() {
				return math.Inf(1)
			}
			return -g.LogLikelihood(returns)
		},
	}

	result, err := optimize.Minimize(problem, []float64{avg.Omega, avg.Alpha, avg.Beta}, nil, &optimize.NelderMead{})
	if err != nil {
		return avg
	}

	fitted := GARCH11{Omega: result.X[0], Alpha: result.X[1], Beta: result.X[2]}
	if !fitted.valid() {
		return avg
	}
	return fitted
}

// GARCH estimates the annualized GARCH(1,1) conditional volatility of the
// history, falling back to close-to-close when there is too little data.
func GARCH(h History) float64 {
	returns := h.LogReturns()
	if len(returns) < 30 {
		return CloseToClose(h)
	}
	return EstimateGARCH11(returns).ConditionalVolatility(returns)
}
