// internal/wizard/validate/money.go
package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyStrip removes locale thousands-separators and currency glyphs so
// a displayed amount like "₹ 10,00,000" compares as a plain number.
var currencyReplacer = strings.NewReplacer(
	"₹", "",
	"$", "",
	",", "",
	" ", "",
	" ", "",
)

// ParseAmount converts a possibly currency-formatted string to a decimal.
// The empty string is reported distinctly so required/optional handling stays
// with the caller.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := currencyReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	return d, nil
}
