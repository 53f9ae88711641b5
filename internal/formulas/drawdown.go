package formulas

// MaxDrawdown calculates the maximum peak-to-trough decline implied by a
// periodic return series, as a positive fraction (0.25 = 25% loss from
// peak). The NAV path is rebuilt from a unit base by compounding the
// returns. ok is false with fewer than 2 samples.
func MaxDrawdown(returns []float64) (float64, bool) {
	if len(returns) < 2 {
		return 0, false
	}

	nav := 1.0
	peak := 1.0
	maxDrawdown := 0.0
	for _, r := range returns {
		nav *= 1 + r
		if nav > peak {
			peak = nav
		}
		if peak > 0 {
			if dd := (peak - nav) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown, true
}

// MaxDrawdownFromNAV calculates maximum drawdown directly from a NAV or
// price series.
func MaxDrawdownFromNAV(series []float64) (float64, bool) {
	if len(series) < 2 {
		return 0, false
	}

	peak := series[0]
	maxDrawdown := 0.0
	for _, v := range series {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown, true
}
