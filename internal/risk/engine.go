package risk

import (
	"context"

	"github.com/meridianhq/risk-engine/internal/execsource"
	"github.com/meridianhq/risk-engine/internal/formulas"
	"github.com/meridianhq/risk-engine/internal/observ"
)

// ReturnsProvider supplies historical daily return series. When configured
// on the engine, beta, Sharpe, Sortino, max drawdown and volatility are
// estimated from the supplied series; without one they stay at the
// documented placeholder constants. The two modes never mix within a call.
type ReturnsProvider interface {
	PortfolioReturns(ctx context.Context, userID string) ([]float64, error)
	BenchmarkReturns(ctx context.Context) ([]float64, error)
}

// Engine computes per-call portfolio analytics and pre-trade risk decisions
// over fresh Execution Source snapshots. It holds no mutable state between
// calls; the limit policy and sector map are read-only after construction,
// so concurrent calls need no coordination.
type Engine struct {
	source   execsource.Source
	policy   LimitPolicy
	sectors  *SectorMap
	returns  ReturnsProvider
	refPrice float64
	riskFree float64
}

// EngineConfig configures an Engine. Zero values fall back to defaults.
type EngineConfig struct {
	Policy  LimitPolicy
	Sectors *SectorMap
	Returns ReturnsProvider // optional; nil keeps placeholder analytics

	// ReferencePrice values orders that carry no limit price. Default 100.
	ReferencePrice float64
	// RiskFreeRate is the annual rate for Sharpe/Sortino. Default 0.02.
	RiskFreeRate float64
}

// NewEngine creates an engine over an injected Execution Source.
func NewEngine(source execsource.Source, config EngineConfig) *Engine {
	if config.Sectors == nil {
		config.Sectors = DefaultSectorMap()
	}
	if config.Policy == (LimitPolicy{}) {
		config.Policy = DefaultLimitPolicy()
	}
	if config.ReferencePrice <= 0 {
		config.ReferencePrice = 100
	}
	if config.RiskFreeRate == 0 {
		config.RiskFreeRate = 0.02
	}

	return &Engine{
		source:   source,
		policy:   config.Policy,
		sectors:  config.Sectors,
		returns:  config.Returns,
		refPrice: config.ReferencePrice,
		riskFree: config.RiskFreeRate,
	}
}

// Policy returns the read-only limit policy the engine enforces.
func (e *Engine) Policy() LimitPolicy { return e.policy }

// GetAccountInfo fetches a fresh account snapshot. It never fails: on any
// source error it logs, counts the substitution, and returns the synthetic
// paper snapshot (distinguishable via Account.Source / IsPaper).
func (e *Engine) GetAccountInfo(ctx context.Context, userID string) *execsource.Account {
	account, err := e.source.GetAccount(ctx, userID)
	if err != nil || account == nil {
		observ.IncCounter("engine_fallback_total", map[string]string{"op": "account"})
		observ.LogError("execution_source_unavailable", map[string]any{
			"op":      "account",
			"user_id": userID,
			"error":   errString(err),
		})
		return execsource.PaperAccount()
	}
	return account
}

// positions fetches fresh position data. An unavailable source degrades to
// an empty book so read-only analytics resolve to their documented
// zero-defaults instead of erroring.
func (e *Engine) positions(ctx context.Context, userID, op string) []execsource.Position {
	positions, err := e.source.GetPositions(ctx, userID)
	if err != nil {
		observ.IncCounter("engine_fallback_total", map[string]string{"op": op})
		observ.LogError("execution_source_unavailable", map[string]any{
			"op":      op,
			"user_id": userID,
			"error":   errString(err),
		})
		return nil
	}
	return positions
}

// PortfolioSummary is the aggregate account + position view.
type PortfolioSummary struct {
	AccountValue    float64 `json:"account_value"`
	BuyingPower     float64 `json:"buying_power"`
	Cash            float64 `json:"cash"`
	PositionsValue  float64 `json:"positions_value"`
	TotalPL         float64 `json:"total_pl"`
	TotalPLPercent  float64 `json:"total_pl_percent"`
	DayPL           float64 `json:"day_pl"`
	PositionsCount  int     `json:"positions_count"`
	MarginUsed      float64 `json:"margin_used"`
	MarginAvailable float64 `json:"margin_available"`
}

// GetPortfolioSummary aggregates unrealized P/L and market value across the
// current book. TotalPLPercent is 0 when last equity is not positive.
func (e *Engine) GetPortfolioSummary(ctx context.Context, userID string) PortfolioSummary {
	account := e.GetAccountInfo(ctx, userID)
	positions := e.positions(ctx, userID, "portfolio_summary")

	totalPL := 0.0
	positionsValue := 0.0
	for _, p := range positions {
		totalPL += p.UnrealizedPL
		positionsValue += p.MarketValue
	}

	totalPLPercent := 0.0
	if account.LastEquity > 0 {
		totalPLPercent = totalPL / account.LastEquity * 100
	}

	return PortfolioSummary{
		AccountValue:    account.PortfolioValue,
		BuyingPower:     account.BuyingPower,
		Cash:            account.Cash,
		PositionsValue:  positionsValue,
		TotalPL:         totalPL,
		TotalPLPercent:  totalPLPercent,
		DayPL:           totalPL, // no intraday boundary tracking yet; identical to total P/L
		PositionsCount:  len(positions),
		MarginUsed:      account.InitialMargin,
		MarginAvailable: account.BuyingPower,
	}
}

// PortfolioAnalytics is the exposure and concentration view.
type PortfolioAnalytics struct {
	ExposureBySector    map[string]float64 `json:"exposure_by_sector"`
	ExposureByAssetType map[string]float64 `json:"exposure_by_asset_type"`
	ConcentrationRisk   float64            `json:"concentration_risk"`
	Beta                float64            `json:"beta"`
	SharpeRatio         float64            `json:"sharpe_ratio"`
	SortinoRatio        float64            `json:"sortino_ratio"`
}

// GetPortfolioAnalytics groups position market value by sector and by
// classified asset type. The four asset buckets are always present.
func (e *Engine) GetPortfolioAnalytics(ctx context.Context, userID string) PortfolioAnalytics {
	positions := e.positions(ctx, userID, "portfolio_analytics")

	bySector := map[string]float64{}
	byAssetType := map[string]float64{
		string(execsource.AssetStock):  0,
		string(execsource.AssetOption): 0,
		string(execsource.AssetFuture): 0,
		string(execsource.AssetCrypto): 0,
	}
	for _, p := range positions {
		bySector[e.sectors.Sector(p.Symbol)] += p.MarketValue
		byAssetType[string(assetTypeOf(p))] += p.MarketValue
	}

	hist := e.historical(ctx, userID)

	return PortfolioAnalytics{
		ExposureBySector:    bySector,
		ExposureByAssetType: byAssetType,
		ConcentrationRisk:   concentrationRisk(positions),
		Beta:                hist.Beta,
		SharpeRatio:         hist.Sharpe,
		SortinoRatio:        hist.Sortino,
	}
}

// concentrationRisk is the largest single position's share of total
// position value, in percent. 0 for an empty or zero-value book.
func concentrationRisk(positions []execsource.Position) float64 {
	if len(positions) == 0 {
		return 0
	}
	total := 0.0
	largest := 0.0
	for _, p := range positions {
		total += p.MarketValue
		if p.MarketValue > largest {
			largest = p.MarketValue
		}
	}
	if total == 0 {
		return 0
	}
	return largest / total * 100
}

// assetTypeOf prefers the source-supplied asset type, falling back to
// symbol-pattern classification.
func assetTypeOf(p execsource.Position) execsource.AssetType {
	if p.AssetType != "" {
		return p.AssetType
	}
	return execsource.ClassifyAsset(p.Symbol)
}

// Placeholder values reported until a ReturnsProvider is configured.
const (
	placeholderBeta        = 1.0
	placeholderSharpe      = 1.5
	placeholderSortino     = 2.0
	placeholderMaxDrawdown = 0.05
	placeholderVolatility  = 0.15
)

// historicalMetrics carries the five analytics that need a return series.
type historicalMetrics struct {
	Beta        float64
	Sharpe      float64
	Sortino     float64
	MaxDrawdown float64
	Volatility  float64
}

func placeholderMetrics() historicalMetrics {
	return historicalMetrics{
		Beta:        placeholderBeta,
		Sharpe:      placeholderSharpe,
		Sortino:     placeholderSortino,
		MaxDrawdown: placeholderMaxDrawdown,
		Volatility:  placeholderVolatility,
	}
}

// historical resolves the return-series analytics. All five come from the
// estimators or all five stay placeholders; a partially computable series
// falls back wholly to placeholders so the two modes never mix.
func (e *Engine) historical(ctx context.Context, userID string) historicalMetrics {
	if e.returns == nil {
		return placeholderMetrics()
	}

	portfolio, err := e.returns.PortfolioReturns(ctx, userID)
	if err != nil {
		observ.LogError("returns_provider_unavailable", map[string]any{"user_id": userID, "error": err.Error()})
		return placeholderMetrics()
	}
	benchmark, err := e.returns.BenchmarkReturns(ctx)
	if err != nil {
		observ.LogError("returns_provider_unavailable", map[string]any{"user_id": userID, "error": err.Error()})
		return placeholderMetrics()
	}

	sharpe, okSharpe := formulas.SharpeRatio(portfolio, e.riskFree, formulas.TradingDaysPerYear)
	sortino, okSortino := formulas.SortinoRatio(portfolio, e.riskFree, 0, formulas.TradingDaysPerYear)
	beta, okBeta := formulas.Beta(portfolio, benchmark)
	maxDD, okDD := formulas.MaxDrawdown(portfolio)
	if !okSharpe || !okSortino || !okBeta || !okDD {
		observ.IncCounter("engine_historical_insufficient_total", nil)
		return placeholderMetrics()
	}

	return historicalMetrics{
		Beta:        beta,
		Sharpe:      sharpe,
		Sortino:     sortino,
		MaxDrawdown: maxDD,
		Volatility:  formulas.AnnualizedVolatility(portfolio),
	}
}

func errString(err error) string {
	if err == nil {
		return "nil snapshot"
	}
	return err.Error()
}
