package domain

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits an Amount carries.
const AmountPlaces = 6

// amountScale is 10^AmountPlaces.
const amountScale = 1_000_000

// Epsilon is the smallest distinguishable difference between two amounts.
// Sums are exact integer additions, so any difference below Epsilon is zero.
const Epsilon Amount = 1

// MaxAbsValue bounds the magnitude of a single loaded value so that sums of
// several hundred entries cannot overflow.
var MaxAbsValue = decimal.New(1, 10)

// MaxPoolMagnitude bounds the total of a pool's positive values, and of
// its negative values. Any subset sum then fits in an Amount with room
// left for target and tolerance arithmetic. At MaxAbsValue per entry this
// admits 461 entries of the same sign.
const MaxPoolMagnitude Amount = math.MaxInt64 / 2

var (
	// ErrAmountOutOfRange is returned when a value exceeds MaxAbsValue.
	ErrAmountOutOfRange = errors.New("value out of range")

	// ErrPoolOutOfRange is returned when a load exceeds MaxPoolMagnitude.
	ErrPoolOutOfRange = errors.New("pool total out of range")
)

// Amount is a signed fixed-point decimal with AmountPlaces fractional digits.
// The zero value is 0.
type Amount int64

// ParseAmount parses numeric text into an Amount.
//
// Thousands separators (",", "_", spaces), a leading "+", and accounting
// negatives such as "(12.50)" are accepted. Digits beyond AmountPlaces are
// rounded half away from zero.
func ParseAmount(text string) (Amount, error) {
	s := strings.TrimSpace(text)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.NewReplacer(",", "", "_", "", " ", "", "\u00a0", "").Replace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, errors.New("empty value")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if negative {
		d = d.Neg()
	}
	if d.Abs().GreaterThan(MaxAbsValue) {
		return 0, ErrAmountOutOfRange
	}
	return Amount(d.Shift(AmountPlaces).Round(0).IntPart()), nil
}

// MustParseAmount is like ParseAmount but panics on error.
// Intended for constants and tests.
func MustParseAmount(text string) Amount {
	a, err := ParseAmount(text)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromInt converts a whole number to an Amount.
func AmountFromInt(v int64) Amount {
	return Amount(v * amountScale)
}

// AmountFromFloat converts a float to the nearest Amount.
func AmountFromFloat(f float64) Amount {
	return Amount(decimal.NewFromFloat(f).Shift(AmountPlaces).Round(0).IntPart())
}

// Round rounds the amount to the given number of decimal places.
func (a Amount) Round(places int) Amount {
	if places >= AmountPlaces {
		return a
	}
	return Amount(a.decimal().Round(int32(places)).Shift(AmountPlaces).IntPart())
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return a + b
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return a - b
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// IsZero reports whether the amount is within Epsilon of zero.
func (a Amount) IsZero() bool {
	return a.Abs() < Epsilon
}

// Float64 returns the nearest float64. Display and JSON only.
func (a Amount) Float64() float64 {
	f, _ := a.decimal().Float64()
	return f
}

// String returns the value with trailing zeros trimmed, e.g. "12.5".
func (a Amount) String() string {
	return a.decimal().String()
}

// StringFixed returns the value with exactly places decimals.
func (a Amount) StringFixed(places int) string {
	return a.decimal().StringFixed(int32(places))
}

func (a Amount) decimal() decimal.Decimal {
	return decimal.New(int64(a), -AmountPlaces)
}

// SumAmounts returns the total of values.
func SumAmounts(values []Amount) Amount {
	var total Amount
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// PoolTotals accumulates the positive and negative totals of a pool.
type PoolTotals struct {
	Positive Amount
	Negative Amount
}

// Add counts v. It returns ErrPoolOutOfRange, leaving the totals
// unchanged, when v would take either total past MaxPoolMagnitude.
func (t *PoolTotals) Add(v Amount) error {
	if v >= 0 {
		if v > MaxPoolMagnitude-t.Positive {
			return ErrPoolOutOfRange
		}
		t.Positive += v
		return nil
	}
	if -v > MaxPoolMagnitude+t.Negative {
		return ErrPoolOutOfRange
	}
	t.Negative += v
	return nil
}
