package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(t *testing.T, code, ask, date string) *Rate {
	t.Helper()
	d, err := ParseDate(date)
	require.NoError(t, err)
	return &Rate{Code: code, Ask: decimal.RequireFromString(ask), Date: d}
}

func balance(code, amount string) Balance {
	return Balance{UserID: 123, Code: code, Amount: decimal.RequireFromString(amount)}
}

func TestNewWalletView_SkipsEntriesWithoutRate(t *testing.T) {
	entries := []CurrencyView{
		NewCurrencyView(balance("USD", "1234.56"), rate(t, "USD", "4.1856", "2025-01-07")),
		NewCurrencyView(balance("AUD", "15"), rate(t, "AUD", "2.6021", "2025-01-03")),
		NewCurrencyView(balance("AED", "3000"), nil),
	}

	view := NewWalletView(entries)

	require.NotNil(t, view.Wallet[0].PLNAmount)
	assert.Equal(t, "5167.3743", view.Wallet[0].PLNAmount.String())
	assert.Equal(t, "39.0315", view.Wallet[1].PLNAmount.String())
	assert.Nil(t, view.Wallet[2].PLNAmount)
	assert.Nil(t, view.Wallet[2].Rate)
	assert.Nil(t, view.Wallet[2].Date)
	assert.Equal(t, "5206.4058", view.PLNTotal.String())
}

func TestWalletView_JSON(t *testing.T) {
	view := NewWalletView([]CurrencyView{
		NewCurrencyView(balance("USD", "1234.56"), rate(t, "USD", "4.1856", "2025-01-07")),
		NewCurrencyView(balance("AED", "3000.00"), nil),
	})

	b, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"wallet": [
			{"code": "USD", "amount": 1234.56, "rate": 4.1856, "date": "2025-01-07", "pln_amount": 5167.3743},
			{"code": "AED", "amount": 3000, "rate": null, "date": null, "pln_amount": null}
		],
		"pln_total": 5167.3743
	}`, string(b))
}

func TestNewWalletView_Empty(t *testing.T) {
	b, err := json.Marshal(NewWalletView(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"wallet": [], "pln_total": 0}`, string(b))
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(decimal.RequireFromString("0.01")))
	assert.True(t, ValidAmount(decimal.RequireFromString("15.50")))
	assert.False(t, ValidAmount(decimal.Zero))
	assert.False(t, ValidAmount(decimal.RequireFromString("-1")))
	assert.False(t, ValidAmount(decimal.RequireFromString("1.001")))
	assert.True(t, ValidAmount(decimal.RequireFromString("9999999999999999.99")))
	assert.False(t, ValidAmount(decimal.RequireFromString("10000000000000000")))
}

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-01-03"`), &d))
	assert.Equal(t, "2025-01-03", d.String())
	assert.Error(t, json.Unmarshal([]byte(`20250103`), &d))
}
