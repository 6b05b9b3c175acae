package volatility

import "math"

// CloseToClose is the annualized sample standard deviation of daily log
// returns.
func CloseToClose(h History) float64 {
	returns := h.LogReturns()
	n := len(returns)
	if n < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(n)

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(n - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}

// Parkinson estimates volatility from the daily high-low range.
func Parkinson(h History) float64 {
	if len(h) == 0 {
		return 0
	}
	sum := 0.0
	for _, bar := range h {
		if bar.Low <= 0 {
			return 0
		}
		logRatio := math.Log(bar.High / bar.Low)
		sum += logRatio * logRatio
	}
	daily := math.Sqrt(sum / (4 * float64(len(h)) * math.Log(2)))
	return daily * math.Sqrt(tradingDaysPerYear)
}

// GarmanKlass combines the high-low range with the open-close move.
func GarmanKlass(h History) float64 {
	if len(h) == 0 {
		return 0
	}
	sum := 0.0
	for _, bar := range h {
		if bar.Low <= 0 || bar.Open <= 0 {
			return 0
		}
		hl := 0.5 * math.Pow(math.Log(bar.High/bar.Low), 2)
		co := (2*math.Log(2) - 1) * math.Pow(math.Log(bar.Close/bar.Open), 2)
		sum += hl - co
	}
	return math.Sqrt(sum / float64(len(h)) * tradingDaysPerYear)
}

// RogersSatchell is drift-independent, built from high/low relative to open
// and close. Returns the daily variance, used as a Yang-Zhang component.
func rogersSatchellVariance(h History) float64 {
	if len(h) == 0 {
		return 0
	}
	sum := 0.0
	for _, bar := range h {
		sum += math.Log(bar.High/bar.Close)*math.Log(bar.High/bar.Open) +
			math.Log(bar.Low/bar.Close)*math.Log(bar.Low/bar.Open)
	}
	return sum / float64(len(h))
}

// RogersSatchell is the annualized drift-independent range estimator.
func RogersSatchell(h History) float64 {
	v := rogersSatchellVariance(h)
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v * tradingDaysPerYear)
}

// YangZhang combines overnight, open-to-close and Rogers-Satchell variance
// with the drift-correction weight k.
func YangZhang(h History) float64 {
	n := len(h)
	if n < 2 {
		return 0
	}

	k := 0.34 / (1.34 + (float64(n)+1)/(float64(n)-1))
	overnight := overnightVariance(h)
	openClose := openCloseVariance(h)
	rs := rogersSatchellVariance(h)

	v := overnight + k*openClose + (1-k)*rs
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v) * math.Sqrt(tradingDaysPerYear)
}

func overnightVariance(h History) float64 {
	n := len(h)
	sum, mean := 0.0, 0.0
	for i := 1; i < n; i++ {
		logReturn := math.Log(h[i].Open / h[i-1].Close)
		mean += logReturn
		sum += logReturn * logReturn
	}
	mean /= float64(n - 1)
	return (sum/float64(n-1) - mean*mean) * float64(n) / float64(n-1)
}

func openCloseVariance(h History) float64 {
	n := len(h)
	sum, mean := 0.0, 0.0
	for i := 0; i < n; i++ {
		logReturn := math.Log(h[i].Close / h[i].Open)
		mean += logReturn
		sum += logReturn * logReturn
	}
	mean /= float64(n)
	return (sum/float64(n) - mean*mean) * float64(n) / float64(n-1)
}

// ByPeriod evaluates an estimator over the standard trailing windows,
// skipping windows the history cannot fill.
func ByPeriod(h History, estimate func(History) float64) map[string]float64 {
	results := make(map[string]float64)
	for _, period := range periods {
		if len(h) < period.Days {
			continue
		}
		if v := estimate(h.Window(period.Days)); v != 0 {
			results[period.Name] = v
		}
	}
	return results
}

// Rank places current within the history of values as a 0..100 percentile:
// 0 at the historical low, 100 at the high. With no history it returns 50.
func Rank(current float64, history []float64) float64 {
	if len(history) == 0 {
		return 50
	}
	lo, hi := history[0], history[0]
	for _, v := range history[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return 50
	}
	rank := (current - lo) / (hi - lo) * 100
	return math.Max(0, math.Min(100, rank))
}
