package strategy

import (
	"math"
	"sort"

	"github.com/optquant/optcore/models"
)

const slopeEps = 1e-9

// payoffBounds derives max profit, max loss and breakevens for a strategy
// whose expiration P&L is piecewise linear in the underlying price. The kinks
// all sit at leg strikes, so evaluating at 0, every strike and the tail slopes
// is exact; breakevens between samples fall on a linear segment and linear
// interpolation recovers them exactly.
func payoffBounds(s models.OptionsStrategy) (maxProfit, maxLoss models.ProfitBound, breakevens []float64) {
	kinks := strikeSet(s.Legs)

	// Right tail slope of the P&L in currency per 1.00 underlying move. The
	// left tail needs no slope: prices stop at zero and zero is sampled.
	slopeRight := s.StockQuantity
	for _, leg := range s.Legs {
		if leg.Contract.Kind == models.Call {
			slopeRight += leg.Sign() * float64(leg.Quantity) * leg.Contract.Multiplier
		}
	}

	samples := append([]float64{0}, kinks...)
	pnls := make([]float64, len(samples))
	for i, price := range samples {
		pnls[i] = s.ExpirationPnL(price)
	}

	best := math.Inf(-1)
	worst := math.Inf(1)
	for _, pnl := range pnls {
		best = math.Max(best, pnl)
		worst = math.Min(worst, pnl)
	}

	if slopeRight > slopeEps {
		maxProfit = models.UnlimitedBound()
	} else {
		maxProfit = models.Bounded(best)
	}
	if slopeRight < -slopeEps {
		maxLoss = models.UnlimitedBound()
	} else {
		maxLoss = models.Bounded(math.Max(-worst, 0))
	}

	breakevens = findBreakevens(samples, pnls, slopeRight)
	return maxProfit, maxLoss, breakevens
}

func strikeSet(legs []models.OptionsLeg) []float64 {
	seen := make(map[float64]struct{}, len(legs))
	var strikes []float64
	for _, leg := range legs {
		if _, ok := seen[leg.Contract.Strike]; !ok {
			seen[leg.Contract.Strike] = struct{}{}
			strikes = append(strikes, leg.Contract.Strike)
		}
	}
	sort.Float64s(strikes)
	return strikes
}

func findBreakevens(samples, pnls []float64, slopeRight float64) []float64 {
	var roots []float64

	addRoot := func(x float64) {
		for _, r := range roots {
			if math.Abs(r-x) < 1e-9 {
				return
			}
		}
		roots = append(roots, x)
	}

	for i := 1; i < len(samples); i++ {
		lo, hi := pnls[i-1], pnls[i]
		if lo == 0 {
			addRoot(samples[i-1])
		}
		if hi == 0 {
			addRoot(samples[i])
			continue
		}
		if lo*hi < 0 {
			x := samples[i-1] + (samples[i]-samples[i-1])*lo/(lo-hi)
			addRoot(x)
		}
	}

	// Root beyond the highest strike if the tail crosses zero.
	last := len(samples) - 1
	if pnls[last]*slopeRight < 0 {
		addRoot(samples[last] - pnls[last]/slopeRight)
	}

	sort.Float64s(roots)
	return roots
}
