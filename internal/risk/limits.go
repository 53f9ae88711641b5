package risk

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianhq/risk-engine/internal/observ"
)

// LimitPolicy is the fixed risk-limit configuration. Read-only to the
// engine; size limits are in currency units, risk limits are fractions of
// portfolio value.
type LimitPolicy struct {
	MaxPositionSize  float64 `yaml:"max_position_size" json:"max_position_size"`
	MaxPortfolioRisk float64 `yaml:"max_portfolio_risk" json:"max_portfolio_risk"`
	MaxPositionRisk  float64 `yaml:"max_position_risk" json:"max_position_risk"`
	MaxDailyLoss     float64 `yaml:"max_daily_loss" json:"max_daily_loss"`
	MaxDrawdown      float64 `yaml:"max_drawdown" json:"max_drawdown"`
}

// DefaultLimitPolicy returns the policy the engine ships with.
func DefaultLimitPolicy() LimitPolicy {
	return LimitPolicy{
		MaxPositionSize:  10000,
		MaxPortfolioRisk: 0.02,
		MaxPositionRisk:  0.01,
		MaxDailyLoss:     1000,
		MaxDrawdown:      0.15,
	}
}

// OrderRequest is the proposed order evaluated by the pre-trade gate.
// LimitPrice <= 0 means no limit price was supplied; the engine's reference
// price is used to value the order instead.
type OrderRequest struct {
	Symbol     string  `json:"symbol"`
	Qty        float64 `json:"qty"`
	LimitPrice float64 `json:"limit_price,omitempty"`
}

// Decision is the pre-trade gate outcome. Violations itemize every breached
// limit with the computed value and the threshold; RiskScore is the
// computed portfolio risk fraction even when approved.
type Decision struct {
	ID         string   `json:"decision_id"`
	Approved   bool     `json:"approved"`
	Violations []string `json:"violations"`
	RiskScore  float64  `json:"risk_score"`
}

// CheckRiskLimits evaluates a proposed order against the limit policy over
// a fresh snapshot. Checks run independently: every breached limit produces
// its own violation, not just the first. A non-positive portfolio value is
// itself a violation; the portfolio-risk ratio is never computed against a
// non-positive denominator.
func (e *Engine) CheckRiskLimits(ctx context.Context, userID string, order OrderRequest) Decision {
	account := e.GetAccountInfo(ctx, userID)
	positions := e.positions(ctx, userID, "check_risk_limits")

	price := order.LimitPrice
	if price <= 0 {
		price = e.refPrice
	}
	orderValue := order.Qty * price

	violations := []string{}
	if orderValue > e.policy.MaxPositionSize {
		violations = append(violations, fmt.Sprintf(
			"order value %.2f exceeds max position size %.2f",
			orderValue, e.policy.MaxPositionSize))
	}

	riskScore := 0.0
	if account.PortfolioValue <= 0 {
		// Fail closed: an unvalued book cannot be risk-assessed.
		violations = append(violations, fmt.Sprintf(
			"portfolio value %.2f is not positive; portfolio risk cannot be assessed",
			account.PortfolioValue))
	} else {
		exposure := 0.0
		for _, p := range positions {
			exposure += p.MarketValue
		}
		riskScore = (exposure + orderValue) / account.PortfolioValue
		if riskScore > e.policy.MaxPortfolioRisk {
			violations = append(violations, fmt.Sprintf(
				"portfolio risk %.2f%% exceeds max %.2f%%",
				riskScore*100, e.policy.MaxPortfolioRisk*100))
		}
	}

	decision := Decision{
		ID:         uuid.NewString(),
		Approved:   len(violations) == 0,
		Violations: violations,
		RiskScore:  riskScore,
	}

	observ.IncCounter("risk_decisions_total", map[string]string{
		"approved": fmt.Sprintf("%t", decision.Approved),
	})
	observ.Log("risk_decision", map[string]any{
		"decision_id": decision.ID,
		"user_id":     userID,
		"symbol":      order.Symbol,
		"order_value": orderValue,
		"approved":    decision.Approved,
		"violations":  decision.Violations,
		"risk_score":  decision.RiskScore,
	})

	return decision
}
