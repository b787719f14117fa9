package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric is a loosely typed number as received from clients: it accepts a
// JSON number, a JSON string or null and keeps the raw text.
type Numeric string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	// Booleans, objects and arrays keep their raw text and parse as malformed.
	*n = Numeric(data)
	return nil
}

// MarshalJSON emits the raw text as a JSON string.
func (n Numeric) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// Decimal parses the value, coercing malformed input to zero.
func (n Numeric) Decimal() decimal.Decimal {
	return ParseDecimal(string(n))
}

// Strict parses the value and reports malformed input.
func (n Numeric) Strict() (decimal.Decimal, error) {
	return ParseDecimalStrict(string(n))
}

// NumericOf wraps a decimal.
func NumericOf(d decimal.Decimal) Numeric {
	return Numeric(d.String())
}

// ParseDecimal parses s leniently. Empty, missing or unparsable values yield zero.
func ParseDecimal(s string) decimal.Decimal {
	d, err := ParseDecimalStrict(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Bounds on accepted numbers. Values outside them are treated as malformed.
const (
	maxExponent = 20
	maxDigits   = 30
)

// ParseDecimalStrict parses s and returns ErrInvalidNumber when it is not a
// number or when its exponent or digit count is out of range.
// An empty value is zero.
func ParseDecimalStrict(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, fmt.Errorf("%w: %q out of range", ErrInvalidNumber, s)
	}
	if d.NumDigits() > maxDigits {
		return decimal.Zero, fmt.Errorf("%w: %q has too many digits", ErrInvalidNumber, s)
	}
	return d, nil
}
