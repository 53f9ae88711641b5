package stubs

import (
	"encoding/json"
	"net/http"
	"sync"
)

// ---- payload shapes (match the Alpaca wire contract: numerics as strings) ----

type AccountPayload struct {
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

type PositionPayload struct {
	Symbol         string `json:"symbol"`
	Qty            string `json:"qty"`
	MarketValue    string `json:"market_value"`
	UnrealizedPL   string `json:"unrealized_pl"`
	UnrealizedPLPC string `json:"unrealized_plpc"`
	AssetClass     string `json:"asset_class"`
}

// SourceServer serves a stub Execution Source over the Alpaca REST shape,
// for developing and integration-testing the adapter without credentials.
type SourceServer struct {
	mu        sync.RWMutex
	account   AccountPayload
	positions []PositionPayload
	failing   bool
}

// NewSourceServer creates a stub with fixture data.
func NewSourceServer() *SourceServer {
	return &SourceServer{
		account: AccountPayload{
			AccountNumber:         "STUB000123",
			Status:                "ACTIVE",
			Currency:              "USD",
			BuyingPower:           "200000",
			Cash:                  "55000",
			PortfolioValue:        "100000",
			Equity:                "100000",
			LastEquity:            "98500",
			Multiplier:            "2",
			InitialMargin:         "12500",
			MaintenanceMargin:     "7500",
			DaytradeCount:         1,
			DaytradingBuyingPower: "400000",
			RegTBuyingPower:       "200000",
		},
		positions: []PositionPayload{
			{Symbol: "AAPL", Qty: "50", MarketValue: "10340", UnrealizedPL: "420", UnrealizedPLPC: "0.0424", AssetClass: "us_equity"},
			{Symbol: "MSFT", Qty: "25", MarketValue: "10393.75", UnrealizedPL: "-155", UnrealizedPLPC: "-0.0147", AssetClass: "us_equity"},
			{Symbol: "AAPL240119C", Qty: "10", MarketValue: "4250", UnrealizedPL: "320", UnrealizedPLPC: "0.0814", AssetClass: "us_option"},
			{Symbol: "BTC/USD", Qty: "0.25", MarketValue: "10066.25", UnrealizedPL: "980", UnrealizedPLPC: "0.1079", AssetClass: "crypto"},
		},
	}
}

// SetFailing toggles failure injection: every data endpoint returns 500
// while failing is true.
func (s *SourceServer) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

// SetAccount replaces the account fixture.
func (s *SourceServer) SetAccount(account AccountPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
}

// SetPositions replaces the position fixtures.
func (s *SourceServer) SetPositions(positions []PositionPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = append([]PositionPayload(nil), positions...)
}

// Routes returns the stub's HTTP mux.
func (s *SourceServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v2/account", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		failing, account := s.failing, s.account
		s.mu.RUnlock()
		if failing {
			http.Error(w, "stub failure injected", http.StatusInternalServerError)
			return
		}
		writeJSON(w, account)
	})
	mux.HandleFunc("/v2/positions", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		failing := s.failing
		positions := append([]PositionPayload(nil), s.positions...)
		s.mu.RUnlock()
		if failing {
			http.Error(w, "stub failure injected", http.StatusInternalServerError)
			return
		}
		writeJSON(w, positions)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
