// Package amount parses, validates and formats the payment amount shown on
// the sheet. Amounts are held as integer hundredths so a value round-trips
// through display without float drift.
package amount

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidAmount is returned when an amount is empty, non-numeric,
// non-finite or negative.
var ErrInvalidAmount = errors.New("invalid amount")

// maxCents keeps the value inside the range where float64 is exact.
const maxCents = 1 << 53

// Amount is a non-negative decimal with two-digit precision.
type Amount struct {
	cents int64
}

// Zero is the amount a fresh sheet displays.
var Zero = Amount{}

// FromCents builds an amount from hundredths. Negative input clamps to zero.
func FromCents(c int64) Amount {
	if c < 0 {
		c = 0
	}
	return Amount{cents: c}
}

// Parse accepts Go numeric types, json.Number and text.
func Parse(v any) (Amount, error) {
	switch x := v.(type) {
	case Amount:
		return x, nil
	case string:
		return ParseString(x)
	case json.Number:
		return ParseString(x.String())
	case float64:
		return fromFloat(x, strconv.FormatFloat(x, 'g', -1, 64))
	case float32:
		return fromFloat(float64(x), strconv.FormatFloat(float64(x), 'g', -1, 32))
	case int:
		return fromInt(int64(x))
	case int8:
		return fromInt(int64(x))
	case int16:
		return fromInt(int64(x))
	case int32:
		return fromInt(int64(x))
	case int64:
		return fromInt(x)
	case uint:
		return fromFloat(float64(x), strconv.FormatUint(uint64(x), 10))
	case uint8:
		return fromInt(int64(x))
	case uint16:
		return fromInt(int64(x))
	case uint32:
		return fromInt(int64(x))
	case uint64:
		return fromFloat(float64(x), strconv.FormatUint(x, 10))
	case nil:
		return Amount{}, fmt.Errorf("%w: missing value", ErrInvalidAmount)
	default:
		return Amount{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}
}

// ParseString parses a textual decimal such as "12", "12.5" or " 0.99 ".
func ParseString(s string) (Amount, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Amount{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if !isDecimal(t) {
		return Amount{}, fmt.Errorf("%w: %q is not a decimal", ErrInvalidAmount, s)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return fromFloat(f, s)
}

// isDecimal reports whether s is a plain decimal literal: an optional sign,
// digits with at most one '.', and an optional exponent. It rejects the Go
// forms ParseFloat also takes (underscores, hex, Inf, NaN).
func isDecimal(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits, dot := 0, false
	for ; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits++
			continue
		}
		if c == '.' && !dot {
			dot = true
			continue
		}
		break
	}
	if digits == 0 {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != 'e' && s[i] != 'E' {
		return false
	}
	i++
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i > start && i == len(s)
}
