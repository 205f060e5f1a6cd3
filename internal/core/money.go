// Package core provides money parsing and handling utilities.
//
// This file contains the Amount type used for every monetary value. Amounts
// keep the precision the user entered; two decimals are applied only when
// rendering.
package core

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Bounds on accepted amounts, in decimal digits.
const (
	maxIntegerDigits  = 12
	maxFractionDigits = 8
)

// amountPattern admits plain digits with an optional fraction. Exponent
// notation is rejected before it reaches the decimal parser.
var amountPattern = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)$`)

// Amount is a decimal currency value. It serialises as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromFloat builds an Amount from a float, mostly for tests and fixtures.
func AmountFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

// ParseAmount converts user input to an Amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs and
// exponents are rejected, the result must be strictly positive, and at most
// 12 integer and 8 fraction digits are allowed.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,5")  -> 12.5, nil
//	ParseAmount("0")     -> ErrInvalidAmount
//	ParseAmount("1e3")   -> ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if !amountPattern.MatchString(s) {
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	a := Amount{Decimal: d}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// Validate requires a positive amount within the digit bounds. The bounds are
// checked on the exponent and coefficient so huge values are never expanded.
func (a Amount) Validate() error {
	if !a.IsPositive() {
		return ErrInvalidAmount
	}
	exp := int(a.Exponent())
	if exp < -maxFractionDigits || exp+a.NumDigits() > maxIntegerDigits {
		return ErrInvalidAmount
	}
	return nil
}

// Plus returns a + b.
func (a Amount) Plus(b Amount) Amount {
	return Amount{Decimal: a.Add(b.Decimal)}
}

// Fixed renders the amount with exactly two decimal places.
func (a Amount) Fixed() string {
	return a.StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// FormatCurrency renders an amount as US dollars with thousands separators,
// e.g. "$1,234.50". Grouping works on the integer digits so no precision is
// lost to a float conversion.
func FormatCurrency(a Amount) string {
	sign := ""
	if a.IsNegative() {
		sign = "-"
	}
	whole, frac, _ := strings.Cut(a.Abs().StringFixed(2), ".")
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return sign + "$" + whole + "." + frac
	}
	return sign + "$" + humanize.BigComma(n) + "." + frac
}
