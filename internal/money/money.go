// Package money provides exact fixed-point currency arithmetic.
//
// Monetary values are held as int64 hundredths of the currency unit so
// that sums and differences stay exact. Binary floating point is never
// used, not even for parsing or formatting.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned for amounts that cannot be parsed or are
// out of range.
var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a currency value in hundredths (e.g. 1234 == "12.34").
// Derived values such as a remaining budget may be negative.
type Amount int64

// Zero is the additive identity.
const Zero Amount = 0

// Parse converts a decimal string like "12.34" to an Amount.
//
// Input amounts must be non-negative. A third decimal digit rounds
// half-up. Examples:
//
//	Parse("12.34")  -> 1234
//	Parse("12.345") -> 1234
//	Parse("12.346") -> 1235
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	// A lone "." has no digits at all; "12." and ".5" are fine.
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Guard the *100 below, leaving headroom for the fractional part
	// (at most 99, plus one from rounding).
	const maxSafe = (1<<63 - 1 - 100) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}

	return Amount(iv*100 + frac), nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return a + b }

// Sub returns a - b. The result may be negative.
func (a Amount) Sub(b Amount) Amount { return a - b }

// String formats the amount with exactly two decimal places.
func (a Amount) String() string {
	n := int64(a)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return fmt.Sprintf("%s%d.%02d", sign, n/100, n%100)
}

// MarshalJSON renders the amount as a two-decimal JSON string so clients
// never see a binary float.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON accepts either a JSON string ("12.34") or a bare number
// literal (12.34). The number literal is parsed from its decimal text,
// never routed through float64.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		return ErrInvalidAmount
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
