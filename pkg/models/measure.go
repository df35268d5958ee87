package models

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Measure is a numeric supplier value that is either known or unknown.
// A supplier that never published a value, published text that does not
// parse, or published zero all produce Unknown: zero is never a measurement.
type Measure struct {
	value float64
	known bool
}

// Known wraps v. Non-positive and non-finite values collapse to Unknown.
func Known(v float64) Measure {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Measure{}
	}
	return Measure{value: v, known: true}
}

// Unknown returns the unknown measure.
func Unknown() Measure { return Measure{} }

// IsKnown reports whether the measure carries a value.
func (m Measure) IsKnown() bool { return m.known }

// Value returns the value and whether it is known.
func (m Measure) Value() (float64, bool) { return m.value, m.known }

// Float returns the value, or 0 when unknown.
func (m Measure) Float() float64 {
	if !m.known {
		return 0
	}
	return m.value
}

func (m Measure) String() string {
	if !m.known {
		return ""
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// MarshalJSON writes known values as numbers and unknown as 0.
func (m Measure) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers, numeric strings ("4.5 %") and null.
// Anything that cannot be read degrades to Unknown instead of failing.
func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Unknown()
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*m = Unknown()
			return nil
		}
		*m = ParseMeasure(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*m = Unknown()
		return nil
	}
	*m = Known(f)
	return nil
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?|[.,]\d+`)

// ParseMeasure extracts the first decimal number in s.
func ParseMeasure(s string) Measure {
	match := numberPattern.FindString(s)
	if match == "" {
		return Unknown()
	}
	match = strings.ReplaceAll(match, ",", ".")
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return Unknown()
	}
	return Known(f)
}

var (
	rangeNoise     = strings.NewReplacer("%", "", "ml/100g", "", "&lt;", "<", "&gt;", ">", "\u00a0", " ")
	rangeSeparator = regexp.MustCompile(`\s*(?:-|–|—|\bto\b)\s*`)
)

// ParseRange reads supplier range text such as "12.5 - 14.5 %", "< 1",
// "> 2" or "3.5" into a from/to pair. A single value is both ends of the
// range and a reversed pair is swapped.
func ParseRange(s string) (Measure, Measure) {
	text := strings.TrimSpace(rangeNoise.Replace(strings.ToLower(s)))
	if text == "" {
		return Unknown(), Unknown()
	}

	switch {
	case strings.HasPrefix(text, "<"):
		return Unknown(), ParseMeasure(text)
	case strings.HasPrefix(text, ">"):
		return ParseMeasure(text), Unknown()
	}

	parts := rangeSeparator.Split(text, 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return OrderedRange(ParseMeasure(parts[0]), ParseMeasure(parts[1]))
	}

	v := ParseMeasure(text)
	return v, v
}

// OrderedRange returns from and to with from <= to when both are known.
func OrderedRange(from, to Measure) (Measure, Measure) {
	if from.known && to.known && from.value > to.value {
		return to, from
	}
	return from, to
}
