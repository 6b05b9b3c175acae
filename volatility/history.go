// Package volatility estimates annualized historical volatility from OHLC
// bars: close-to-close, Parkinson, Garman-Klass, Rogers-Satchell, Yang-Zhang
// and a GARCH(1,1) fit. Pure input transforms; nothing here fetches data.
package volatility

import (
	"math"
	"time"
)

// PriceBar is one daily OHLC observation supplied by a market-data
// collaborator.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// History is a chronologically ordered series of bars, oldest first.
type History []PriceBar

// Window returns the trailing n bars, or the whole history when shorter.
func (h History) Window(n int) History {
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// LogReturns returns the close-to-close log return series.
func (h History) LogReturns() []float64 {
	if len(h) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(h)-1)
	for i := 1; i < len(h); i++ {
		if h[i-1].Close <= 0 || h[i].Close <= 0 {
			continue
		}
		returns = append(returns, math.Log(h[i].Close/h[i-1].Close))
	}
	return returns
}

// tradingDaysPerYear is the annualization base for daily bars.
const tradingDaysPerYear = 252

// periods are the trailing windows the per-period estimators report,
// matching common screener horizons.
var periods = []struct {
	Name string
	Days int
}{
	{"1w", 5},
	{"1m", 21},
	{"3m", 63},
	{"6m", 126},
	{"1y", 252},
}
