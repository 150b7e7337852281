// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package decimal implements a fixed-point signed decimal value sufficient
// to represent monetary amounts at four fractional digits of display
// precision, with checked addition and subtraction that signal overflow
// instead of wrapping.
//
// The standard library has no arbitrary-precision decimal with signaled
// overflow, so the type uses a signed integer mantissa scaled by a fixed
// power of ten, with explicit overflow detection on every checked
// operation, the same way this codebase's other checked-arithmetic
// helpers return ok=false on overflow instead of wrapping silently.
package decimal

import (
	"fmt"
	"strings"
)

// Scale is the number of fractional digits a Decimal renders with.
const Scale = 4

// internalScale extends Scale with extra fractional digits of headroom so
// that input carrying more than four fractional digits is retained at full
// working precision rather than truncated on parse; only String() rounds
// down to Scale.
const internalScale = 12

const scaleGap = internalScale - Scale

var pow10 = [...]int64{
	1, 10, 100, 1000, 10000, 100000, 1000000,
	10000000, 100000000, 1000000000, 10000000000,
	100000000000, 1000000000000,
}

// Decimal is an immutable fixed-point value: unscaled / 10^internalScale.
// The zero value is 0.0000.
type Decimal struct {
	unscaled int64
}

// Zero is the additive identity.
var Zero = Decimal{}

// Parse reads a decimal literal such as "10", "-80.5", "1.23456789012345".
// Fractional digits beyond internalScale are rounded toward zero; digits up
// to internalScale are preserved exactly.
func Parse(s string) (Decimal, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Decimal{}, fmt.Errorf("decimal: empty value")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return Decimal{}, fmt.Errorf("decimal: invalid value %q", orig)
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return Decimal{}, fmt.Errorf("decimal: invalid value %q", orig)
	}

	if len(fracPart) > internalScale {
		fracPart = fracPart[:internalScale]
	}
	for len(fracPart) < internalScale {
		fracPart += "0"
	}

	const maxInt64 = 1<<63 - 1
	var unscaled int64
	for _, r := range intPart + fracPart {
		d := int64(r - '0')
		if unscaled > (maxInt64-d)/10 {
			return Decimal{}, fmt.Errorf("decimal: value out of range %q", orig)
		}
		unscaled = unscaled*10 + d
	}
	if neg {
		unscaled = -unscaled
	}
	return Decimal{unscaled: unscaled}, nil
}

// MustParse is Parse, panicking on error; used for fixture literals whose
// validity is known at the call site.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Add returns a+b and true on success, or the zero value and false if the
// sum overflows the representable range (every arithmetic step is
// checked; overflow must leave the operands' owner unmodified).
func (a Decimal) Add(b Decimal) (Decimal, bool) {
	sum := a.unscaled + b.unscaled
	if (b.unscaled > 0 && sum < a.unscaled) || (b.unscaled < 0 && sum > a.unscaled) {
		return Decimal{}, false
	}
	return Decimal{unscaled: sum}, true
}

// Sub returns a-b and true on success, under the same overflow contract as
// Add.
func (a Decimal) Sub(b Decimal) (Decimal, bool) {
	diff := a.unscaled - b.unscaled
	if (b.unscaled > 0 && diff > a.unscaled) || (b.unscaled < 0 && diff < a.unscaled) {
		return Decimal{}, false
	}
	return Decimal{unscaled: diff}, true
}

// Cmp returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func (a Decimal) Cmp(b Decimal) int {
	switch {
	case a.unscaled < b.unscaled:
		return -1
	case a.unscaled > b.unscaled:
		return 1
	default:
		return 0
	}
}

// LessThan reports whether a < b.
func (a Decimal) LessThan(b Decimal) bool { return a.unscaled < b.unscaled }

// IsNegative reports whether a < 0.
func (a Decimal) IsNegative() bool { return a.unscaled < 0 }

// IsZero reports whether a == 0.
func (a Decimal) IsZero() bool { return a.unscaled == 0 }

// String renders a with exactly Scale fractional digits, zero-padded, using
// '.' as the separator and no thousands separator, per the account
// snapshot format.
func (a Decimal) String() string {
	neg := a.unscaled < 0
	mag := a.unscaled
	if neg {
		mag = -mag
	}
	// Round toward zero from internalScale down to Scale.
	display := mag / pow10[scaleGap]

	whole := display / pow10[Scale]
	frac := display % pow10[Scale]

	sign := ""
	if neg && display != 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%0*d", sign, whole, Scale, frac)
}
