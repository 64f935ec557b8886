package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/wallet-api/internal/models"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

var v = validator.New(validator.WithRequiredStructEnabled())

// Currency checks a path currency code and returns it upper-cased.
func Currency(field, value string) (string, *ErrField) {
	if err := v.Var(value, "required,len=3,alpha"); err != nil {
		return "", &ErrField{Field: field, Msg: "must be a 3-letter currency code"}
	}
	return strings.ToUpper(value), nil
}

// Amount parses a positive decimal with at most two fractional digits.
func Amount(field, value string) (decimal.Decimal, *ErrField) {
	if err := v.Var(value, "required,numeric"); err != nil {
		return decimal.Decimal{}, &ErrField{Field: field, Msg: "must be a decimal number"}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, &ErrField{Field: field, Msg: "must be a decimal number"}
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, &ErrField{Field: field, Msg: "must be greater than 0"}
	}
	if !d.Equal(d.Truncate(models.AmountPlaces)) {
		return decimal.Decimal{}, &ErrField{Field: field, Msg: "must have no more than 2 decimal places"}
	}
	if !d.LessThan(models.MaxAmount) {
		return decimal.Decimal{}, &ErrField{Field: field, Msg: "must be less than " + models.MaxAmount.String()}
	}
	return d, nil
}
