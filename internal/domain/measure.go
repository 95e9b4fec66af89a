package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxMeasure is the first magnitude, in hundredths, that no longer fits a
// DECIMAL(6,2) column.
const maxMeasure = 1_000_000

// Measure is a weight value with exactly two fractional digits, held as
// hundredths.
type Measure int64

// NewMeasure rounds v half away from zero to two fractional digits.
func NewMeasure(v float64) (Measure, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidValue
	}
	// Shortest decimal form, so 72.345 rounds like the literal rather than its binary approximation.
	return ParseMeasure(strconv.FormatFloat(v, 'f', -1, 64))
}

// ParseMeasure reads a plain decimal string such as "72.5" or "-0.125".
func ParseMeasure(s string) (Measure, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrInvalidValue
		}
		return NewMeasure(f)
	}

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "" && frac == "" {
		return 0, ErrInvalidValue
	}
	if !isDigits(intPart) || !isDigits(frac) {
		return 0, ErrInvalidValue
	}

	intPart = strings.TrimLeft(intPart, "0")
	if len(intPart) > 4 {
		return 0, ErrInvalidValue
	}
	for len(frac) < 3 {
		frac += "0"
	}

	var n int64
	for _, c := range intPart + frac[:2] {
		n = n*10 + int64(c-'0')
	}
	if frac[2] >= '5' {
		n++
	}
	if n >= maxMeasure {
		return 0, ErrInvalidValue
	}
	if neg {
		n = -n
	}
	return Measure(n), nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Float64 returns the value as a float.
func (m Measure) Float64() float64 {
	return float64(m) / 100
}

// String renders the value with two fractional digits.
func (m Measure) String() string {
	n := int64(m)
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	return fmt.Sprintf("%s%d.%02d", sign, n/100, n%100)
}

// MarshalJSON encodes the value as a quoted decimal, the way DECIMAL columns
// travel over JSON.
func (m Measure) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Measure) UnmarshalJSON(data []byte) error {
	v, err := MeasureFromJSON(data)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MeasureFromJSON reads a raw JSON number or numeric string. null, booleans
// and anything else are rejected.
func MeasureFromJSON(data []byte) (Measure, error) {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return 0, ErrInvalidValue
		}
		return ParseMeasure(s)
	}
	if raw == "" || raw == "null" || raw == "true" || raw == "false" {
		return 0, ErrInvalidValue
	}
	return ParseMeasure(raw)
}

// Scan implements sql.Scanner for DECIMAL/NUMERIC columns.
func (m *Measure) Scan(src any) error {
	var (
		v   Measure
		err error
	)
	switch x := src.(type) {
	case []byte:
		v, err = ParseMeasure(string(x))
	case string:
		v, err = ParseMeasure(x)
	case float64:
		v, err = NewMeasure(x)
	case int64:
		v = Measure(x * 100)
	default:
		return fmt.Errorf("measure: cannot scan %T", src)
	}
	if err != nil {
		return fmt.Errorf("measure: scan %v: %w", src, err)
	}
	*m = v
	return nil
}

// Value implements driver.Valuer; the decimal text keeps both drivers exact.
func (m Measure) Value() (driver.Value, error) {
	return m.String(), nil
}
