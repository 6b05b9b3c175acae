// Package probability estimates the chance a strategy finishes profitable at
// expiration by Monte Carlo simulation of the underlying. Advisory output
// only: validation and risk classification never consult it.
package probability

import (
	"math"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/optquant/optcore/models"
)

const (
	numSimulations = 1000
	timeSteps      = 252 // daily steps over one trading year
	numWorkers     = 8
)

var rngPool = sync.Pool{
	New: func() interface{} {
		return rand.New(rand.NewSource(uint64(rand.Int63())))
	},
}

// Result is the simulated probability of profit per scenario plus their
// average.
type Result struct {
	AverageProbability float64            `json:"averageProbability"`
	Probabilities      map[string]float64 `json:"probabilities"`
}

// simulator evolves one terminal price over tau years.
type simulator func(s0, r, sigma, tau float64, rng *rand.Rand) float64

// ProbabilityOfProfit simulates the underlying to expiration for every
// volatility scenario under both a GBM and a Heston model, counting paths
// where the strategy's expiration P&L is positive. Scenarios run in parallel
// against a bounded worker semaphore; every simulation shares the pooled RNG
// sources.
func ProbabilityOfProfit(s models.OptionsStrategy, underlyingPrice, riskFreeRate float64, volScenarios map[string]float64, daysToExpiration int) (Result, error) {
	if underlyingPrice <= 0 {
		return Result{}, &models.DomainRangeError{Param: "underlyingPrice", Value: underlyingPrice, Require: "> 0"}
	}
	if daysToExpiration < 0 {
		return Result{}, &models.DomainRangeError{Param: "daysToExpiration", Value: float64(daysToExpiration), Require: ">= 0"}
	}
	tau := float64(daysToExpiration) / 365.0

	sims := []struct {
		name string
		fn   simulator
	}{
		{name: "GBM", fn: simulateGBM},
		{name: "Heston", fn: simulateHeston},
	}

	results := make(map[string]float64, len(volScenarios)*len(sims))
	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, numWorkers)

	for volName, sigma := range volScenarios {
		if sigma <= 0 {
			return Result{}, &models.DomainRangeError{Param: "volatility[" + volName + "]", Value: sigma, Require: "> 0"}
		}
		for _, sim := range sims {
			wg.Add(1)
			go func(volName, simName string, sigma float64, fn simulator) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				rng := rngPool.Get().(*rand.Rand)
				defer rngPool.Put(rng)

				p := estimate(s, underlyingPrice, riskFreeRate, sigma, tau, fn, rng)

				mu.Lock()
				results[volName+"_"+simName] = p
				mu.Unlock()
			}(volName, sim.name, sigma, sim.fn)
		}
	}

	wg.Wait()

	if len(results) == 0 {
		return Result{}, &models.DomainRangeError{Param: "volScenarios", Value: 0, Require: "at least one scenario"}
	}

	sum := 0.0
	for _, p := range results {
		sum += p
	}
	return Result{
		AverageProbability: sum / float64(len(results)),
		Probabilities:      results,
	}, nil
}

func estimate(s models.OptionsStrategy, s0, r, sigma, tau float64, fn simulator, rng *rand.Rand) float64 {
	profitable := 0
	for i := 0; i < numSimulations; i++ {
		finalPrice := fn(s0, r, sigma, tau, rng)
		if s.ExpirationPnL(finalPrice) > 0 {
			profitable++
		}
	}
	return float64(profitable) / float64(numSimulations)
}

func simulateGBM(s0, r, sigma, tau float64, rng *rand.Rand) float64 {
	if tau <= 0 {
		return s0
	}
	steps := int(math.Max(1, tau*timeSteps))
	dt := tau / float64(steps)
	sqrtDt := math.Sqrt(dt)

	s := s0
	for i := 0; i < steps; i++ {
		s *= math.Exp((r-0.5*sigma*sigma)*dt + sigma*sqrtDt*rng.NormFloat64())
	}
	return s
}

func simulateHeston(s0, r, sigma, tau float64, rng *rand.Rand) float64 {
	if tau <= 0 {
		return s0
	}
	steps := int(math.Max(1, tau*timeSteps))
	return DefaultHeston(sigma).SimulatePrice(s0, r, tau, steps, rng)
}
