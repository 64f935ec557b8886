package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// amounts and rates go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// CurrencyView is one wallet entry. Rate, Date and PLNAmount are nil when no
// rate could be obtained for the currency.
type CurrencyView struct {
	Code      string           `json:"code"`
	Amount    decimal.Decimal  `json:"amount"`
	Rate      *decimal.Decimal `json:"rate"`
	Date      *Date            `json:"date"`
	PLNAmount *decimal.Decimal `json:"pln_amount"`
}

// NewCurrencyView combines a stored balance with an optional rate.
func NewCurrencyView(b Balance, rate *Rate) CurrencyView {
	v := CurrencyView{Code: b.Code, Amount: b.Amount}
	if rate == nil {
		return v
	}
	ask := rate.Ask
	date := rate.Date
	pln := b.Amount.Mul(ask).Round(RatePlaces)
	v.Rate = &ask
	v.Date = &date
	v.PLNAmount = &pln
	return v
}

// WalletView is the whole wallet with the PLN total of entries that have a rate.
type WalletView struct {
	Wallet   []CurrencyView  `json:"wallet"`
	PLNTotal decimal.Decimal `json:"pln_total"`
}

// NewWalletView sums PLN amounts of entries with a known rate. Entries without
// a rate are left out of the total, not counted as zero.
func NewWalletView(entries []CurrencyView) WalletView {
	total := decimal.Zero
	for _, e := range entries {
		if e.PLNAmount != nil {
			total = total.Add(*e.PLNAmount)
		}
	}
	if entries == nil {
		entries = []CurrencyView{}
	}
	return WalletView{Wallet: entries, PLNTotal: total.Round(RatePlaces)}
}
