package execsource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAsset(t *testing.T) {
	cases := []struct {
		symbol string
		want   AssetType
	}{
		{"AAPL", AssetStock},
		{"BRK/B", AssetStock},
		{"", AssetStock},
		{"XYZ123", AssetStock},
		{"AAPL240119C", AssetOption},
		{"SPY240621P00450000", AssetOption},
		{"aapl_option_leg", AssetOption},
		{"BTC/USD", AssetCrypto},
		{"ETHUSD", AssetCrypto},
		{"DOGE/USD", AssetCrypto},
		{"/ESZ5", AssetFuture},
		{"CL=F", AssetFuture},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyAsset(tc.symbol), "symbol %q", tc.symbol)
	}
}

func TestPaperAccount(t *testing.T) {
	account := PaperAccount()

	assert.Equal(t, "PAPER001", account.AccountNumber)
	assert.Equal(t, StatusActive, account.Status)
	assert.Equal(t, "USD", account.Currency)
	assert.Equal(t, 100000.0, account.BuyingPower)
	assert.Equal(t, 100000.0, account.Cash)
	assert.Equal(t, 100000.0, account.PortfolioValue)
	assert.Equal(t, 100000.0, account.Equity)
	assert.Equal(t, 100000.0, account.LastEquity)
	assert.True(t, account.IsPaper())
}

func TestMockSourceDefaults(t *testing.T) {
	source := NewMockSource()
	ctx := context.Background()

	account, err := source.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "MOCK001", account.AccountNumber)
	assert.Equal(t, SourceMock, account.Source)
	assert.False(t, account.IsPaper())

	positions, err := source.GetPositions(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, positions)
}

func TestMockSourceFailWith(t *testing.T) {
	source := NewMockSource()
	boom := errors.New("injected outage")
	source.FailWith(boom)

	_, err := source.GetAccount(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	_, err = source.GetPositions(context.Background(), "u1")
	require.Error(t, err)

	source.FailWith(nil)
	_, err = source.GetAccount(context.Background(), "u1")
	assert.NoError(t, err)
}

func TestSourceErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewNetworkError("/v2/account", "request failed", cause)

	assert.ErrorIs(t, err, cause)

	var se *SourceError
	require.True(t, errors.As(error(err), &se))
	assert.Equal(t, "network", se.Type)
	assert.Equal(t, "/v2/account", se.Op)
}
