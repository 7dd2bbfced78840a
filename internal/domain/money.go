package domain

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// CleanMoney parses an amount as entered on a form. Currency symbols,
// whitespace and thousands separators are stripped; the result must be positive.
func CleanMoney(amount string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' || r == '-' {
			return r
		}
		return -1
	}, amount)

	if cleaned == "" {
		return decimal.Zero, NewDomainError(ErrorCodeValidationAmountInvalid, "amount is required").
			WithDetail("amount", amount)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, WrapError(ErrorCodeValidationAmountInvalid, "amount is not a number", err).
			WithDetail("amount", amount)
	}
	if !d.IsPositive() {
		return decimal.Zero, NewDomainError(ErrorCodeValidationAmountInvalid, "amount must be positive").
			WithDetail("amount", amount)
	}
	return d, nil
}

// FormatTotal renders a cleaned amount with two decimals, rounding half away from zero
func FormatTotal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// AmountCents returns the amount in minor units, rounded like FormatTotal
func AmountCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}
