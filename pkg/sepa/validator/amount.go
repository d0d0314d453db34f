package validator

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// MinAmount and MaxAmount bound InstdAmt.
	MinAmount = decimal.RequireFromString("0.01")
	MaxAmount = decimal.RequireFromString("999999999.99")

	// A plain or comma-grouped number with '.' as decimal point and an
	// optional exponent. Grouped thousands must have exactly three digits.
	amountPattern = regexp.MustCompile(`^[+-]?(\d{1,3}(,\d{3})+|\d*)(\.\d+)?([eE][+-]?\d+)?$`)
	mantissaDigit = regexp.MustCompile(`^[+-]?[,\d]*\.?\d`)

	separatorSwap = strings.NewReplacer(",", ".", ".", ",")
)

// MaxExponent bounds the decimal exponent of numeric input. Comparing,
// rounding or printing a decimal costs time in the size of its exponent.
const MaxExponent = 32

// BoundedExponent reports whether the exponent of d lies within
// [-MaxExponent, MaxExponent].
func BoundedExponent(d decimal.Decimal) bool {
	e := d.Exponent()
	return e >= -MaxExponent && e <= MaxExponent
}

// CheckAmount parses an instructed amount. Either '.' or ',' may be the
// decimal separator with the other one grouping thousands, so 1234.56,
// 1,234.56, 1234,56 and 1.234,56 are all 1234.56. The result must lie within
// [MinAmount, MaxAmount] and have at most two decimal places.
func CheckAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	d, ok := parseAmount(s)
	if !ok {
		d, ok = parseAmount(separatorSwap.Replace(s))
	}
	if !ok {
		return decimal.Decimal{}, invalid("instdamt", "not a number")
	}
	return CheckAmountDecimal(d)
}

// CheckAmountDecimal applies the amount bounds and the two decimal places
// rule to an already numeric amount.
func CheckAmountDecimal(d decimal.Decimal) (decimal.Decimal, error) {
	if !BoundedExponent(d) || d.LessThan(MinAmount) || d.GreaterThan(MaxAmount) {
		return decimal.Decimal{}, invalid("instdamt", "amount out of range")
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, invalid("instdamt", "more than two decimal places")
	}
	return d, nil
}

func parseAmount(s string) (decimal.Decimal, bool) {
	if !amountPattern.MatchString(s) || !mantissaDigit.MatchString(s) {
		return decimal.Decimal{}, false
	}
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "+")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
