package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an optional decimal value. The zero Amount is unset, which means
// "no value supplied" and is never the same thing as an explicit zero.
type Amount struct {
	value decimal.Decimal
	set   bool
}

// Unset returns an Amount carrying no value.
func Unset() Amount { return Amount{} }

// NewAmount returns a set Amount holding d.
func NewAmount(d decimal.Decimal) Amount { return Amount{value: d, set: true} }

// AmountFromInt returns a set Amount holding v.
func AmountFromInt(v int64) Amount { return NewAmount(decimal.NewFromInt(v)) }

// ParseAmount parses s leniently. Blank input and anything that is not a
// number yield an unset Amount instead of an error. Thousands separators and
// a leading currency sign are tolerated.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unset()
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Unset()
	}
	return NewAmount(d)
}

// IsSet reports whether a value was supplied.
func (a Amount) IsSet() bool { return a.set }

// Value returns the decimal and whether it is set.
func (a Amount) Value() (decimal.Decimal, bool) { return a.value, a.set }

// OrZero returns the value, or zero when unset.
func (a Amount) OrZero() decimal.Decimal {
	if !a.set {
		return decimal.Zero
	}
	return a.value
}

// Add returns the sum of two amounts. The result is set if either side is.
func (a Amount) Add(b Amount) Amount {
	if !a.set && !b.set {
		return Unset()
	}
	return NewAmount(a.OrZero().Add(b.OrZero()))
}

// Equal reports whether both amounts are unset or hold equal values.
func (a Amount) Equal(b Amount) bool {
	if a.set != b.set {
		return false
	}
	return !a.set || a.value.Equal(b.value)
}

func (a Amount) String() string {
	if !a.set {
		return ""
	}
	return a.value.String()
}

// MarshalJSON encodes unset as null and values as bare JSON numbers.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return []byte(a.value.String()), nil
}

// UnmarshalJSON collapses null, "" and unparseable strings to unset.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Unset()
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = Unset()
			return nil
		}
		*a = ParseAmount(s)
		return nil
	}
	*a = ParseAmount(string(data))
	return nil
}
