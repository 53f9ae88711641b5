package formulas

import (
	"math"
	"testing"
)

func TestSharpeRatio(t *testing.T) {
	// mean 0.02, sample stddev 0.01, rf 0 -> 2 * sqrt(252)
	sharpe, ok := SharpeRatio([]float64{0.01, 0.02, 0.03}, 0, 252)
	if !ok {
		t.Fatal("Sharpe should be computable")
	}
	want := 2 * math.Sqrt(252)
	if !almostEqual(sharpe, want, 1e-9) {
		t.Errorf("Sharpe = %v, want %v", sharpe, want)
	}
}

func TestSharpeRatioGuards(t *testing.T) {
	if _, ok := SharpeRatio([]float64{0.01}, 0, 252); ok {
		t.Error("one sample should not be computable")
	}
	if _, ok := SharpeRatio([]float64{0.02, 0.02, 0.02}, 0, 252); ok {
		t.Error("zero deviation should not be computable")
	}
}

func TestSortinoRatio(t *testing.T) {
	sortino, ok := SortinoRatio([]float64{0.2, -0.1, 0.05}, 0, 0, 252)
	if !ok {
		t.Fatal("Sortino should be computable with downside returns")
	}
	if sortino <= 0 {
		t.Errorf("Sortino should be positive for a net-positive series, got %v", sortino)
	}
}

func TestSortinoRatioNoDownside(t *testing.T) {
	if _, ok := SortinoRatio([]float64{0.01, 0.02, 0.03}, 0, 0, 252); ok {
		t.Error("all-positive returns have no downside deviation")
	}
}

func TestMaxDrawdown(t *testing.T) {
	// NAV path 1.0 -> 1.1 -> 0.55 -> 0.6875; worst decline is 50% off the 1.1 peak
	dd, ok := MaxDrawdown([]float64{0.1, -0.5, 0.25})
	if !ok {
		t.Fatal("drawdown should be computable")
	}
	if !almostEqual(dd, 0.5, 1e-9) {
		t.Errorf("MaxDrawdown = %v, want 0.5", dd)
	}

	if _, ok := MaxDrawdown([]float64{0.1}); ok {
		t.Error("one sample should not be computable")
	}
}

func TestMaxDrawdownFromNAV(t *testing.T) {
	dd, ok := MaxDrawdownFromNAV([]float64{100, 110, 55, 68.75})
	if !ok {
		t.Fatal("drawdown should be computable")
	}
	if !almostEqual(dd, 0.5, 1e-9) {
		t.Errorf("MaxDrawdownFromNAV = %v, want 0.5", dd)
	}
}
