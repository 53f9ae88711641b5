package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Percentile returns the pct-th percentile of data (pct in [0,100]) using
// linear interpolation between order statistics. This is the interpolation
// convention the VaR proxy is defined against; gonum's quantile kinds use
// different conventions, so it is computed directly. Returns 0 for empty
// input.
func Percentile(data []float64, pct float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := pct / 100 * float64(len(sorted)-1)
	lo := math.Floor(rank)
	hi := math.Ceil(rank)
	if lo == hi {
		return sorted[int(rank)]
	}
	return sorted[int(lo)]*(hi-rank) + sorted[int(hi)]*(rank-lo)
}

// Returns converts a price or NAV series to periodic fractional returns.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}
	return returns
}

// Beta estimates portfolio beta against a benchmark return series:
// Cov(portfolio, benchmark) / Var(benchmark). ok is false when the series
// lengths differ, there are fewer than 2 samples, or the benchmark has no
// variance.
func Beta(portfolio, benchmark []float64) (float64, bool) {
	if len(portfolio) != len(benchmark) || len(portfolio) < 2 {
		return 0, false
	}
	benchVar := stat.Variance(benchmark, nil)
	if benchVar == 0 {
		return 0, false
	}
	return stat.Covariance(portfolio, benchmark, nil) / benchVar, true
}

// AnnualizedVolatility annualizes the standard deviation of daily returns
// over 252 trading days.
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}
	return StdDev(dailyReturns) * math.Sqrt(252)
}
