package execsource

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Source supplies brokerage account and position data for a user identity.
// An empty position slice is a valid result, never an error. Implementations
// must honor context cancellation on in-flight requests.
type Source interface {
	GetAccount(ctx context.Context, userID string) (*Account, error)
	GetPositions(ctx context.Context, userID string) ([]Position, error)
}

// Provenance tags carried on Account.Source so callers can tell real data
// from the synthetic fallback.
const (
	SourceAlpaca = "alpaca"
	SourceMock   = "mock"
	SourcePaper  = "paper"
)

// AccountStatus is the normalized account state.
type AccountStatus string

const (
	StatusActive     AccountStatus = "ACTIVE"
	StatusRestricted AccountStatus = "RESTRICTED"
	StatusOther      AccountStatus = "OTHER"
)

// Account is a normalized snapshot of a brokerage account at fetch time.
// Immutable per call; amounts are in the account currency.
type Account struct {
	AccountNumber  string        `json:"account_number"`
	Status         AccountStatus `json:"status"`
	Currency       string        `json:"currency"`
	BuyingPower    float64       `json:"buying_power"`
	Cash           float64       `json:"cash"`
	PortfolioValue float64       `json:"portfolio_value"`
	Equity         float64       `json:"equity"`
	LastEquity     float64       `json:"last_equity"`

	Multiplier            int     `json:"multiplier,omitempty"`
	InitialMargin         float64 `json:"initial_margin,omitempty"`
	MaintenanceMargin     float64 `json:"maintenance_margin,omitempty"`
	DaytradeCount         int     `json:"daytrade_count,omitempty"`
	DaytradingBuyingPower float64 `json:"daytrading_buying_power,omitempty"`
	RegTBuyingPower       float64 `json:"regt_buying_power,omitempty"`

	Source string `json:"source"`
}

// IsPaper reports whether this snapshot is the synthetic fallback rather
// than real brokerage data.
func (a *Account) IsPaper() bool { return a.Source == SourcePaper }

// PaperAccount returns the deterministic fallback snapshot substituted when
// the Execution Source is unavailable.
func PaperAccount() *Account {
	return &Account{
		AccountNumber:  "PAPER001",
		Status:         StatusActive,
		Currency:       "USD",
		BuyingPower:    100000.0,
		Cash:           100000.0,
		PortfolioValue: 100000.0,
		Equity:         100000.0,
		LastEquity:     100000.0,
		Source:         SourcePaper,
	}
}

// AssetType classifies what kind of instrument a position holds. Values
// double as the exposure-breakdown bucket keys.
type AssetType string

const (
	AssetStock  AssetType = "stocks"
	AssetOption AssetType = "options"
	AssetFuture AssetType = "futures"
	AssetCrypto AssetType = "crypto"
)

// Position is one open position. Qty and the value fields are signed;
// negative quantity means short. UnrealizedPLPC is a fraction (0.05 = +5%).
type Position struct {
	Symbol         string    `json:"symbol"`
	Qty            float64   `json:"qty"`
	MarketValue    float64   `json:"market_value"`
	UnrealizedPL   float64   `json:"unrealized_pl"`
	UnrealizedPLPC float64   `json:"unrealized_plpc"`
	AssetType      AssetType `json:"asset_type,omitempty"`
}

// occSymbol matches OCC-style option symbols: root, YYMMDD expiry, C/P,
// optional strike digits (e.g. AAPL240119C, SPY240621P00450000).
var occSymbol = regexp.MustCompile(`^[A-Z]{1,6}\d{6}[CP]\d*$`)

var cryptoBases = map[string]bool{
	"BTC": true, "ETH": true, "SOL": true, "DOGE": true,
	"LTC": true, "AVAX": true, "ADA": true, "XRP": true,
}

// ClassifyAsset infers the asset type from a symbol. Total over symbols:
// anything unrecognized classifies as a stock.
func ClassifyAsset(symbol string) AssetType {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return AssetStock
	}
	if strings.Contains(strings.ToLower(symbol), "option") || occSymbol.MatchString(s) {
		return AssetOption
	}
	if strings.HasPrefix(s, "/") || strings.HasSuffix(s, "=F") {
		return AssetFuture
	}
	if base, _, found := strings.Cut(s, "/"); found {
		if cryptoBases[base] {
			return AssetCrypto
		}
		return AssetStock
	}
	if base, found := strings.CutSuffix(s, "USD"); found && cryptoBases[base] {
		return AssetCrypto
	}
	return AssetStock
}

// SourceError classifies Execution Source failures.
type SourceError struct {
	Type    string // "network", "auth", "provider", "decode"
	Op      string // endpoint or operation
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error on %s: %s (%v)", e.Type, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error on %s: %s", e.Type, e.Op, e.Message)
}

func (e *SourceError) Unwrap() error { return e.Cause }

func NewNetworkError(op, message string, cause error) *SourceError {
	return &SourceError{Type: "network", Op: op, Message: message, Cause: cause}
}

func NewAuthError(op, message string) *SourceError {
	return &SourceError{Type: "auth", Op: op, Message: message}
}

func NewProviderError(op, message string) *SourceError {
	return &SourceError{Type: "provider", Op: op, Message: message}
}

func NewDecodeError(op, message string, cause error) *SourceError {
	return &SourceError{Type: "decode", Op: op, Message: message, Cause: cause}
}
