package execsource

import (
	"context"
	"sync"
)

// MockSource provides deterministic account and position data for tests and
// the demo binary, with failure injection.
type MockSource struct {
	mu        sync.RWMutex
	account   Account
	positions []Position
	failWith  error
}

// NewMockSource creates a mock source with a small realistic book.
func NewMockSource() *MockSource {
	return &MockSource{
		account: Account{
			AccountNumber:  "MOCK001",
			Status:         StatusActive,
			Currency:       "USD",
			BuyingPower:    200000.0,
			Cash:           55000.0,
			PortfolioValue: 100000.0,
			Equity:         100000.0,
			LastEquity:     98500.0,
			Multiplier:     2,
			InitialMargin:  12500.0,
			Source:         SourceMock,
		},
		positions: []Position{
			{Symbol: "AAPL", Qty: 50, MarketValue: 10340.0, UnrealizedPL: 420.0, UnrealizedPLPC: 0.0424, AssetType: AssetStock},
			{Symbol: "MSFT", Qty: 25, MarketValue: 10393.75, UnrealizedPL: -155.0, UnrealizedPLPC: -0.0147, AssetType: AssetStock},
			{Symbol: "TSLA", Qty: 40, MarketValue: 9940.0, UnrealizedPL: 610.0, UnrealizedPLPC: 0.0654, AssetType: AssetStock},
			{Symbol: "AAPL240119C", Qty: 10, MarketValue: 4250.0, UnrealizedPL: 320.0, UnrealizedPLPC: 0.0814, AssetType: AssetOption},
			{Symbol: "BTC/USD", Qty: 0.25, MarketValue: 10066.25, UnrealizedPL: 980.0, UnrealizedPLPC: 0.1079, AssetType: AssetCrypto},
		},
	}
}

// SetAccount replaces the mock account snapshot.
func (m *MockSource) SetAccount(account Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = account
}

// SetPositions replaces the mock position book.
func (m *MockSource) SetPositions(positions []Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = append([]Position(nil), positions...)
}

// FailWith makes every call return err until cleared with FailWith(nil).
func (m *MockSource) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

func (m *MockSource) GetAccount(ctx context.Context, userID string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	account := m.account
	return &account, nil
}

func (m *MockSource) GetPositions(ctx context.Context, userID string) ([]Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]Position(nil), m.positions...), nil
}
