package risk

import (
	"context"
	"testing"

	"github.com/meridianhq/risk-engine/internal/execsource"
)

func greeksEngine(positions []execsource.Position) *Engine {
	source := execsource.NewMockSource()
	source.SetAccount(testAccount())
	source.SetPositions(positions)
	return newTestEngine(source)
}

func TestPortfolioGreeksAggregation(t *testing.T) {
	engine := greeksEngine([]execsource.Position{
		{Symbol: "AAPL240119C", Qty: 10}, // OCC-style, no explicit type
		{Symbol: "MSFT", Qty: 5},
	})

	g := engine.CalculatePortfolioGreeks(context.Background(), "u1")
	want := Greeks{Delta: 5.0, Gamma: 0.5, Theta: -0.2, Vega: 1.0, Rho: 0}
	if !almostEqual(g.Delta, want.Delta, 1e-9) ||
		!almostEqual(g.Gamma, want.Gamma, 1e-9) ||
		!almostEqual(g.Theta, want.Theta, 1e-9) ||
		!almostEqual(g.Vega, want.Vega, 1e-9) ||
		g.Rho != 0 {
		t.Errorf("greeks = %+v, want %+v", g, want)
	}
}

func TestPortfolioGreeksShortPosition(t *testing.T) {
	engine := greeksEngine([]execsource.Position{
		{Symbol: "SPY240621P00450000", Qty: -10},
	})

	g := engine.CalculatePortfolioGreeks(context.Background(), "u1")
	if !almostEqual(g.Delta, -5.0, 1e-9) {
		t.Errorf("Delta = %v, want -5.0 for a short 10-lot", g.Delta)
	}
	if !almostEqual(g.Theta, 0.2, 1e-9) {
		t.Errorf("Theta = %v, want 0.2 for a short 10-lot", g.Theta)
	}
}

func TestPortfolioGreeksExplicitAssetType(t *testing.T) {
	// explicit type wins over the symbol pattern
	engine := greeksEngine([]execsource.Position{
		{Symbol: "SOME_OPTION_LEG", Qty: 2, AssetType: execsource.AssetOption},
		{Symbol: "AAPL", Qty: 100, AssetType: execsource.AssetStock},
	})

	g := engine.CalculatePortfolioGreeks(context.Background(), "u1")
	if !almostEqual(g.Delta, 1.0, 1e-9) {
		t.Errorf("Delta = %v, want 1.0 from the single 2-lot option", g.Delta)
	}
}

func TestPortfolioGreeksEmptyBook(t *testing.T) {
	engine := greeksEngine(nil)
	if g := engine.CalculatePortfolioGreeks(context.Background(), "u1"); g != (Greeks{}) {
		t.Errorf("greeks should be zero for an empty book, got %+v", g)
	}
}
