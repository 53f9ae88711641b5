package formulas

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPercentile(t *testing.T) {
	cases := []struct {
		name string
		data []float64
		pct  float64
		want float64
	}{
		{name: "empty", data: nil, pct: 50, want: 0},
		{name: "single_value", data: []float64{42}, pct: 5, want: 42},
		{name: "p0_is_min", data: []float64{3, 1, 2}, pct: 0, want: 1},
		{name: "p100_is_max", data: []float64{3, 1, 2}, pct: 100, want: 3},
		{name: "median_interpolates", data: []float64{1, 2, 3, 4}, pct: 50, want: 2.5},
		{name: "p5_interpolates", data: []float64{-0.5, -0.2, 0.05, 0.1}, pct: 5, want: -0.455},
		{name: "p1_interpolates", data: []float64{-0.5, -0.2, 0.05, 0.1}, pct: 1, want: -0.491},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Percentile(tc.data, tc.pct)
			if !almostEqual(got, tc.want, 1e-9) {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tc.data, tc.pct, got, tc.want)
			}
		})
	}
}

func TestPercentileOrderInvariant(t *testing.T) {
	a := Percentile([]float64{0.1, -0.5, 0.05, -0.2}, 5)
	b := Percentile([]float64{-0.5, -0.2, 0.05, 0.1}, 5)
	if a != b {
		t.Errorf("percentile should not depend on input order: %v != %v", a, b)
	}
}

func TestReturns(t *testing.T) {
	got := Returns([]float64{100, 110, 99})
	want := []float64{0.1, -0.1}
	if len(got) != len(want) {
		t.Fatalf("Returns length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Errorf("Returns[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if len(Returns([]float64{100})) != 0 {
		t.Error("single price should yield no returns")
	}
}

func TestBeta(t *testing.T) {
	benchmark := []float64{0.01, -0.005, 0.015, 0.005}
	portfolio := make([]float64, len(benchmark))
	for i, r := range benchmark {
		portfolio[i] = 2 * r
	}

	beta, ok := Beta(portfolio, benchmark)
	if !ok {
		t.Fatal("Beta should be computable")
	}
	if !almostEqual(beta, 2.0, 1e-9) {
		t.Errorf("Beta = %v, want 2.0", beta)
	}

	if _, ok := Beta([]float64{0.01}, []float64{0.01}); ok {
		t.Error("Beta should not be computable from one sample")
	}
	if _, ok := Beta(portfolio, []float64{0.01}); ok {
		t.Error("Beta should reject mismatched lengths")
	}
	if _, ok := Beta([]float64{0.1, 0.2}, []float64{0.01, 0.01}); ok {
		t.Error("Beta should reject a zero-variance benchmark")
	}
}

func TestStdDevGuards(t *testing.T) {
	if StdDev(nil) != 0 {
		t.Error("StdDev of empty should be 0")
	}
	if StdDev([]float64{5}) != 0 {
		t.Error("StdDev of one sample should be 0")
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	returns := []float64{0.01, 0.02, 0.03}
	want := StdDev(returns) * math.Sqrt(252)
	if got := AnnualizedVolatility(returns); !almostEqual(got, want, 1e-12) {
		t.Errorf("AnnualizedVolatility = %v, want %v", got, want)
	}
	if AnnualizedVolatility([]float64{0.01}) != 0 {
		t.Error("insufficient data should yield 0")
	}
}
