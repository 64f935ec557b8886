package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RatePlaces is the precision of rates and PLN amounts.
const RatePlaces = 4

// Rate is an ask rate against PLN published for one effective date.
type Rate struct {
	Code string          `json:"code"`
	Ask  decimal.Decimal `json:"ask"`
	Date Date            `json:"date"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct{ time.Time }

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("date: expected quoted string, got %s", b)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
