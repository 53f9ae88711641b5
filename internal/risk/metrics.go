package risk

import (
	"context"
	"math"

	"github.com/meridianhq/risk-engine/internal/execsource"
	"github.com/meridianhq/risk-engine/internal/formulas"
)

// esMultiplier scales VaR99 into the Expected Shortfall proxy. A fixed
// multiple, not a tail-conditional expectation; replacing it with a real ES
// estimator needs a historical return distribution this core does not get
// from the Execution Source.
const esMultiplier = 1.2

// RiskMetrics is the portfolio risk view. VaR and Expected Shortfall are
// percent magnitudes; Leverage is a fraction.
type RiskMetrics struct {
	PortfolioValue    float64 `json:"portfolio_value"`
	CashPercent       float64 `json:"cash_percent"`
	Leverage          float64 `json:"leverage"`
	VaR95             float64 `json:"var_95"`
	VaR99             float64 `json:"var_99"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	Volatility        float64 `json:"volatility"`
	Beta              float64 `json:"beta"`
}

// CalculateRiskMetrics derives the risk view from a fresh snapshot. With a
// non-positive portfolio value the book is treated as all cash and
// unlevered rather than dividing by zero.
func (e *Engine) CalculateRiskMetrics(ctx context.Context, userID string) RiskMetrics {
	account := e.GetAccountInfo(ctx, userID)
	positions := e.positions(ctx, userID, "risk_metrics")

	portfolioValue := account.PortfolioValue
	cashPercent := 100.0
	leverage := 0.0
	if portfolioValue > 0 {
		cashPercent = account.Cash / portfolioValue * 100
		leverage = (portfolioValue - account.Cash) / portfolioValue
	}

	var95 := valueAtRisk(positions, 0.95)
	var99 := valueAtRisk(positions, 0.99)
	hist := e.historical(ctx, userID)

	return RiskMetrics{
		PortfolioValue:    portfolioValue,
		CashPercent:       cashPercent,
		Leverage:          leverage,
		VaR95:             var95,
		VaR99:             var99,
		ExpectedShortfall: var99 * esMultiplier,
		MaxDrawdown:       hist.MaxDrawdown,
		Volatility:        hist.Volatility,
		Beta:              hist.Beta,
	}
}

// valueAtRisk approximates VaR at the given confidence as the magnitude of
// the (1-confidence) percentile of per-position unrealized P/L fractions,
// scaled to percent. This substitutes cross-sectional position dispersion
// for a time-series return distribution: a documented proxy, not rigorous
// VaR, and VaR99 >= VaR95 is not guaranteed for all inputs. 0 with no
// positions.
func valueAtRisk(positions []execsource.Position, confidence float64) float64 {
	if len(positions) == 0 {
		return 0
	}
	returns := make([]float64, 0, len(positions))
	for _, p := range positions {
		returns = append(returns, p.UnrealizedPLPC)
	}
	return math.Abs(formulas.Percentile(returns, (1-confidence)*100)) * 100
}
