package execsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/meridianhq/risk-engine/internal/observ"
)

// AlpacaConfig holds configuration for the Alpaca-shaped REST adapter.
// Credentials come from the environment, never from config files.
type AlpacaConfig struct {
	BaseURL            string
	KeyID              string
	SecretKey          string
	TimeoutMs          int
	RateLimitPerMinute int
	MaxRetries         int
	BackoffBaseMs      int
}

// AlpacaSource fetches account and position data over the Alpaca trading
// API contract. Stateless apart from the shared HTTP client and limiter.
type AlpacaSource struct {
	config     AlpacaConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAlpacaSource creates an adapter with bounded timeout, client-side rate
// limiting, and capped retry backoff.
func NewAlpacaSource(config AlpacaConfig) (*AlpacaSource, error) {
	if config.KeyID == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("alpaca key id and secret key are required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://paper-api.alpaca.markets"
	}
	if config.TimeoutMs <= 0 {
		config.TimeoutMs = 5000
	}
	if config.RateLimitPerMinute <= 0 {
		config.RateLimitPerMinute = 200
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.BackoffBaseMs <= 0 {
		config.BackoffBaseMs = 100
	}

	return &AlpacaSource{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutMs) * time.Millisecond,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(config.RateLimitPerMinute)/60), 2),
	}, nil
}

// alpacaAccount mirrors the wire shape. Alpaca returns numerics as strings.
type alpacaAccount struct {
	AccountNumber         string `json:"account_number"`
	Status                string `json:"status"`
	Currency              string `json:"currency"`
	BuyingPower           string `json:"buying_power"`
	Cash                  string `json:"cash"`
	PortfolioValue        string `json:"portfolio_value"`
	Equity                string `json:"equity"`
	LastEquity            string `json:"last_equity"`
	Multiplier            string `json:"multiplier"`
	InitialMargin         string `json:"initial_margin"`
	MaintenanceMargin     string `json:"maintenance_margin"`
	DaytradeCount         int    `json:"daytrade_count"`
	DaytradingBuyingPower string `json:"daytrading_buying_power"`
	RegTBuyingPower       string `json:"regt_buying_power"`
}

type alpacaPosition struct {
	Symbol         string `json:"symbol"`
	Qty            string `json:"qty"`
	MarketValue    string `json:"market_value"`
	UnrealizedPL   string `json:"unrealized_pl"`
	UnrealizedPLPC string `json:"unrealized_plpc"`
	AssetClass     string `json:"asset_class"`
}

// GetAccount fetches and normalizes the account snapshot.
func (a *AlpacaSource) GetAccount(ctx context.Context, userID string) (*Account, error) {
	var wire alpacaAccount
	if err := a.getJSON(ctx, "/v2/account", &wire); err != nil {
		return nil, err
	}
	return mapAccount(&wire), nil
}

// GetPositions fetches all open positions. No open positions is an empty
// slice, not an error.
func (a *AlpacaSource) GetPositions(ctx context.Context, userID string) ([]Position, error) {
	var wire []alpacaPosition
	if err := a.getJSON(ctx, "/v2/positions", &wire); err != nil {
		return nil, err
	}
	positions := make([]Position, 0, len(wire))
	for i := range wire {
		positions = append(positions, mapPosition(&wire[i]))
	}
	return positions, nil
}

func (a *AlpacaSource) getJSON(ctx context.Context, path string, dst any) error {
	var lastErr error
	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(a.config.BackoffBaseMs*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-ctx.Done():
				return NewNetworkError(path, "cancelled during backoff", ctx.Err())
			case <-time.After(backoff):
			}
		}

		if err := a.limiter.Wait(ctx); err != nil {
			return NewNetworkError(path, "rate limiter wait", err)
		}

		lastErr = a.fetchOnce(ctx, path, dst)
		if lastErr == nil {
			return nil
		}

		observ.IncCounter("execsource_request_errors_total", map[string]string{"endpoint": path})

		// Credential failures won't heal with retries.
		var se *SourceError
		if errors.As(lastErr, &se) && se.Type == "auth" {
			return lastErr
		}
	}
	return lastErr
}

func (a *AlpacaSource) fetchOnce(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+path, nil)
	if err != nil {
		return NewNetworkError(path, "build request", err)
	}
	req.Header.Set("APCA-API-KEY-ID", a.config.KeyID)
	req.Header.Set("APCA-API-SECRET-KEY", a.config.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return NewNetworkError(path, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewAuthError(path, fmt.Sprintf("credentials rejected (status %d)", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return NewProviderError(path, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return NewNetworkError(path, "read body", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return NewDecodeError(path, "decode response", err)
	}
	return nil
}

// coerceFloat parses a string-typed numeric field. Missing or malformed
// values coerce to 0 so a single bad record cannot fail a whole snapshot;
// malformed values are counted for observability.
func coerceFloat(field, raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		observ.IncCounter("execsource_coerce_failures_total", map[string]string{"field": field})
		return 0
	}
	return v
}

func coerceInt(field, raw string) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		observ.IncCounter("execsource_coerce_failures_total", map[string]string{"field": field})
		return 0
	}
	return v
}

func mapAccount(wire *alpacaAccount) *Account {
	status := StatusOther
	switch wire.Status {
	case "ACTIVE":
		status = StatusActive
	case "RESTRICTED":
		status = StatusRestricted
	}

	return &Account{
		AccountNumber:         wire.AccountNumber,
		Status:                status,
		Currency:              wire.Currency,
		BuyingPower:           coerceFloat("buying_power", wire.BuyingPower),
		Cash:                  coerceFloat("cash", wire.Cash),
		PortfolioValue:        coerceFloat("portfolio_value", wire.PortfolioValue),
		Equity:                coerceFloat("equity", wire.Equity),
		LastEquity:            coerceFloat("last_equity", wire.LastEquity),
		Multiplier:            coerceInt("multiplier", wire.Multiplier),
		InitialMargin:         coerceFloat("initial_margin", wire.InitialMargin),
		MaintenanceMargin:     coerceFloat("maintenance_margin", wire.MaintenanceMargin),
		DaytradeCount:         wire.DaytradeCount,
		DaytradingBuyingPower: coerceFloat("daytrading_buying_power", wire.DaytradingBuyingPower),
		RegTBuyingPower:       coerceFloat("regt_buying_power", wire.RegTBuyingPower),
		Source:                SourceAlpaca,
	}
}

func mapPosition(wire *alpacaPosition) Position {
	assetType := AssetType("")
	switch wire.AssetClass {
	case "us_equity":
		assetType = AssetStock
	case "us_option":
		assetType = AssetOption
	case "crypto":
		assetType = AssetCrypto
	}
	if assetType == "" {
		assetType = ClassifyAsset(wire.Symbol)
	}

	return Position{
		Symbol:         wire.Symbol,
		Qty:            coerceFloat("qty", wire.Qty),
		MarketValue:    coerceFloat("market_value", wire.MarketValue),
		UnrealizedPL:   coerceFloat("unrealized_pl", wire.UnrealizedPL),
		UnrealizedPLPC: coerceFloat("unrealized_plpc", wire.UnrealizedPLPC),
		AssetType:      assetType,
	}
}
