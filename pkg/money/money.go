package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Hundred is the divisor for percentage arithmetic.
var Hundred = decimal.NewFromInt(100)

// Round2 rounds a monetary value to 2 fractional digits using round-half-up
// (decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts flowing through the sale pipeline). Every intermediate
// figure in the cart arithmetic is passed through Round2 before it feeds the
// next step, so receipts reproduce cart totals exactly.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentOf returns percent% of amount, rounded to 2 fractional digits.
func PercentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(percent).Div(Hundred))
}

// Parse converts a decimal string such as "2.50" into an amount.
func Parse(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	return d, nil
}

// Format renders an amount with a currency sign and 2 fractional digits.
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
