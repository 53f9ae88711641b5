package risk

import (
	"context"
	"strings"
	"testing"

	"github.com/meridianhq/risk-engine/internal/execsource"
)

func TestCheckRiskLimitsPositionSizeViolation(t *testing.T) {
	source := execsource.NewMockSource()
	source.SetAccount(testAccount())
	source.SetPositions(nil)
	engine := NewEngine(source, EngineConfig{
		Policy: LimitPolicy{MaxPositionSize: 10000, MaxPortfolioRisk: 1.0},
	})

	decision := engine.CheckRiskLimits(context.Background(), "u1", OrderRequest{
		Symbol: "NVDA", Qty: 200, LimitPrice: 100,
	})
	if decision.Approved {
		t.Error("20000 order against a 10000 size limit must not be approved")
	}
	if len(decision.Violations) != 1 {
		t.Fatalf("want exactly 1 violation, got %v", decision.Violations)
	}
	if !strings.Contains(decision.Violations[0], "max position size") {
		t.Errorf("violation should name the size limit: %q", decision.Violations[0])
	}
	if !almostEqual(decision.RiskScore, 0.2, 1e-9) {
		t.Errorf("RiskScore = %v, want 0.2", decision.RiskScore)
	}
}

func TestCheckRiskLimitsPortfolioRiskViolation(t *testing.T) {
	source := execsource.NewMockSource()
	source.SetAccount(testAccount())
	source.SetPositions(nil)
	engine := newTestEngine(source) // default policy: 0.02 portfolio risk

	decision := engine.CheckRiskLimits(context.Background(), "u1", OrderRequest{
		Symbol: "AAPL", Qty: 50, LimitPrice: 100,
	})
	if decision.Approved {
		t.Error("5% of portfolio against a 2% risk limit must not be approved")
	}
	if len(decision.Violations) != 1 {
		t.Fatalf("want exactly 1 violation, got %v", decision.Violations)
	}
	if !strings.Contains(decision.Violations[0], "portfolio risk") {
		t.Errorf("violation should name portfolio risk: %q", decision.Violations[0])
	}
	if !almostEqual(decision.RiskScore, 0.05, 1e-9) {
		t.Errorf("RiskScore = %v, want 0.05", decision.RiskScore)
	}
}

func TestCheckRiskLimitsCollectsAllViolations(t *testing.T) {
	source := execsource.NewMockSource()
	source.SetAccount(testAccount())
	source.SetPositions(nil)
	engine := newTestEngine(source)

	decision := engine.CheckRiskLimits(context.Background(), "u1", OrderRequest{
		Symbol: "NVDA", Qty: 200, LimitPrice: 100,
	})
	if len(decision.Violations) != 2 {
		t.Fatalf("want both violations reported, got %v", decision.Violations)
	}
	if !strings.Contains(decision.Violations[0], "max position size") {
		t.Errorf("size violation should come first: %v", decision.Violations)
	}
	if !strings.Contains(decision.Violations[1], "portfolio risk") {
		t.Errorf("risk violation should come second: %v", decision.Violations)
	}
}

func TestCheckRiskLimitsApprovedWithReferencePrice(t *testing.T) {
	source := execsource.NewMockSource()
	source.SetAccount(testAccount())
	source.SetPositions(nil)
	engine := newTestEngine(source)

	// no limit price: valued at the default reference price of 100
	decision := engine.CheckRiskLimits(context.Background(), "u1", OrderRequest{
		Symbol: "AAPL", Qty: 1,
	})
	if !decision.Approved {
		t.Errorf("small order should be approved, violations: %v", decision.Violations)
	}
	if len(decision.Violations) != 0 {
		t.Errorf("approved decision must carry no violations, got %v", decision.Violations)
	}
	if !almostEqual(decision.RiskScore, 0.001, 1e-9) {
		t.Errorf("RiskScore = %v, want 0.001", decision.RiskScore)
	}
}

func TestCheckRiskLimitsExistingExposure(t *testing.T) {
	source := execsource.NewMockSource()
	source.SetAccount(testAccount())
	source.SetPositions([]execsource.Position{
		{Symbol: "AAPL", MarketValue: 900},
	})
	engine := newTestEngine(source)

	decision := engine.CheckRiskLimits(context.Background(), "u1", OrderRequest{
		Symbol: "MSFT", Qty: 10, LimitPrice: 100,
	})
	// (900 + 1000) / 100000 = 0.019, under the 0.02 default
	if !decision.Approved {
		t.Errorf("order should be approved, violations: %v", decision.Violations)
	}
	if !almostEqual(decision.RiskScore, 0.019, 1e-9) {
		t.Errorf("RiskScore = %v, want 0.019", decision.RiskScore)
	}
}

func TestCheckRiskLimitsFailsClosedOnZeroPortfolioValue(t *testing.T) {
	account := testAccount()
	account.PortfolioValue = 0
	source := execsource.NewMockSource()
	source.SetAccount(account)
	source.SetPositions(nil)
	engine := newTestEngine(source)

	decision := engine.CheckRiskLimits(context.Background(), "u1", OrderRequest{
		Symbol: "AAPL", Qty: 1, LimitPrice: 100,
	})
	if decision.Approved {
		t.Error("gate must fail closed when the portfolio cannot be valued")
	}
	if len(decision.Violations) != 1 || !strings.Contains(decision.Violations[0], "not positive") {
		t.Errorf("want the unvalued-portfolio violation, got %v", decision.Violations)
	}
	if decision.RiskScore != 0 {
		t.Errorf("RiskScore = %v, want 0 when the ratio is unassessable", decision.RiskScore)
	}
}

func TestCheckRiskLimitsDecisionID(t *testing.T) {
	source := execsource.NewMockSource()
	source.SetAccount(testAccount())
	source.SetPositions(nil)
	engine := newTestEngine(source)

	a := engine.CheckRiskLimits(context.Background(), "u1", OrderRequest{Symbol: "AAPL", Qty: 1})
	b := engine.CheckRiskLimits(context.Background(), "u1", OrderRequest{Symbol: "AAPL", Qty: 1})
	if a.ID == "" || b.ID == "" {
		t.Error("decisions must carry IDs")
	}
	if a.ID == b.ID {
		t.Error("decision IDs must be unique per evaluation")
	}
}
