package risk

import (
	"context"

	"github.com/meridianhq/risk-engine/internal/execsource"
)

// Per-contract sensitivity coefficients for the coarse Greeks model. True
// Greeks need strike, expiry, underlying price and implied volatility;
// until an options-pricing feed supplies those, each option position
// contributes these fixed sensitivities per unit of signed quantity, and
// rho stays 0.
const (
	deltaPerContract = 0.5
	gammaPerContract = 0.05
	thetaPerContract = -0.02
	vegaPerContract  = 0.1
)

// Greeks is the aggregate option-sensitivity view.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// CalculatePortfolioGreeks accumulates sensitivities over option positions.
// Non-option positions are excluded; short quantities contribute negative
// sensitivities.
func (e *Engine) CalculatePortfolioGreeks(ctx context.Context, userID string) Greeks {
	positions := e.positions(ctx, userID, "portfolio_greeks")

	var g Greeks
	for _, p := range positions {
		if assetTypeOf(p) != execsource.AssetOption {
			continue
		}
		g.Delta += p.Qty * deltaPerContract
		g.Gamma += p.Qty * gammaPerContract
		g.Theta += p.Qty * thetaPerContract
		g.Vega += p.Qty * vegaPerContract
	}
	return g
}
