package feestructure

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric is an optional number that accepts a JSON number or a numeric
// string. Decoding never fails: malformed input is kept and reported by
// validation, so a single bad field can be attributed to its rule or tier.
type Numeric struct {
	value decimal.Decimal
	set   bool
	null  bool
	raw   string
}

// NewNumeric returns a set Numeric.
func NewNumeric(f float64) Numeric {
	return Numeric{value: decimal.NewFromFloat(f), set: true}
}

// ParseNumeric parses s, returning an invalid Numeric when s is not a number.
func ParseNumeric(s string) Numeric {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Numeric{raw: s}
	}
	return Numeric{value: d, set: true}
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Numeric{null: true}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = Numeric{raw: string(b)}
			return nil
		}
		if strings.TrimSpace(s) == "" {
			*n = Numeric{null: true}
			return nil
		}
		*n = ParseNumeric(s)
		return nil
	}
	*n = ParseNumeric(string(b))
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return []byte(n.value.String()), nil
}

// IsSet reports whether a valid number was supplied.
func (n Numeric) IsSet() bool { return n.set }

// IsNull reports whether the field was explicitly null or an empty string.
func (n Numeric) IsNull() bool { return n.null }

// IsInvalid reports whether a non-numeric value was supplied.
func (n Numeric) IsInvalid() bool { return !n.set && !n.null && n.raw != "" }

func (n Numeric) Float64() float64 { return n.value.InexactFloat64() }

// Ptr returns the value, or nil when not set.
func (n Numeric) Ptr() *float64 {
	if !n.set {
		return nil
	}
	f := n.value.InexactFloat64()
	return &f
}
