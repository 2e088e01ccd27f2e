// Package pricing holds the money helpers shared by catalog and cart
// screens: parsing wizard input, rendering prices, and line totals.
package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativePrice rejects prices below zero.
	ErrNegativePrice = errors.New("pricing: price cannot be negative")
	// ErrNegativeQuantity rejects quantities below zero.
	ErrNegativeQuantity = errors.New("pricing: quantity cannot be negative")
	// ErrBothNegative rejects calls where both operands are below zero.
	ErrBothNegative = errors.New("pricing: price and quantity cannot be negative")
	// ErrNotANumber rejects input that does not parse as a number.
	ErrNotANumber = errors.New("pricing: not a number")
)

const currencySign = "₽"

// FormatPrice renders a non-negative amount as a space-grouped two-decimal
// string with the currency sign, e.g. " 1 234.56 ₽".
func FormatPrice(price decimal.Decimal) (string, error) {
	if price.IsNegative() {
		return "", ErrNegativePrice
	}
	fixed := price.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return " " + groupThousands(intPart) + "." + frac + " " + currencySign, nil
}

// ParsePrice validates free-text price input from the product wizard.
func ParsePrice(input string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrNotANumber, input)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, ErrNegativePrice
	}
	return d, nil
}

// ParseQuantity validates free-text quantity input from the product wizard.
func ParseQuantity(input string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, input)
	}
	if n < 0 {
		return 0, ErrNegativeQuantity
	}
	return n, nil
}

// Multiply returns quantity × price for cart line totals. The three negative
// cases fail with distinct errors so callers can report them precisely.
func Multiply(quantity int64, price decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case quantity < 0 && price.IsNegative():
		return decimal.Decimal{}, ErrBothNegative
	case price.IsNegative():
		return decimal.Decimal{}, ErrNegativePrice
	case quantity < 0:
		return decimal.Decimal{}, ErrNegativeQuantity
	}
	return price.Mul(decimal.NewFromInt(quantity)), nil
}

// groupThousands inserts a space between every three digits of the integer
// part, matching the storefront's price layout.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
