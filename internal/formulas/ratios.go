package formulas

import "math"

// TradingDaysPerYear is the annualization base for daily return series.
const TradingDaysPerYear = 252

// SharpeRatio calculates the annualized Sharpe ratio of a periodic return
// series against an annual risk-free rate.
//
//	Sharpe = (mean return - periodic risk-free) / stddev, annualized by
//	sqrt(periodsPerYear)
//
// ok is false with fewer than 2 samples or zero deviation.
func SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) (float64, bool) {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return 0, false
	}
	stdDev := StdDev(returns)
	if stdDev == 0 {
		return 0, false
	}
	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sharpe := (Mean(returns) - periodicRiskFree) / stdDev
	return sharpe * math.Sqrt(float64(periodsPerYear)), true
}

// SortinoRatio is the downside-deviation variant of Sharpe: only returns
// below the minimum acceptable return contribute to the denominator.
// ok is false with fewer than 2 samples or no downside deviation.
func SortinoRatio(returns []float64, riskFreeRate, targetReturn float64, periodsPerYear int) (float64, bool) {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return 0, false
	}

	periodicTarget := targetReturn / float64(periodsPerYear)
	downside := 0.0
	for _, r := range returns {
		if r < periodicTarget {
			d := r - periodicTarget
			downside += d * d
		}
	}
	downsideDev := math.Sqrt(downside / float64(len(returns)))
	if downsideDev == 0 {
		return 0, false
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sortino := (Mean(returns) - periodicRiskFree) / downsideDev
	return sortino * math.Sqrt(float64(periodsPerYear)), true
}
