package models

import (
	"math"
	"strconv"
	"strings"
)

// ParseRealOrZero reads the longest decimal prefix of text, the way form input
// is read. Blank, non-numeric or non-finite input yields 0.
func ParseRealOrZero(text string) float64 {
	prefix := realPrefix(strings.TrimSpace(text))
	if prefix == "" {
		return 0
	}

	value, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0
	}
	return value
}

// ParseIntOrZero reads an optional sign followed by digits, ignoring anything
// after them ("12.7" reads as 12). Blank or non-numeric input yields 0.
func ParseIntOrZero(text string) int64 {
	s := strings.TrimSpace(text)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == digits {
		return 0
	}

	value, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func realPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}

	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			fracDigits++
		}
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		return ""
	}

	// exponent only counts when at least one digit follows it
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}

	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// NumericText is form or JSON input destined for ParseRealOrZero/ParseIntOrZero.
// It accepts a JSON string, a bare JSON number or null.
type NumericText string

// UnmarshalJSON keeps numbers in their literal text form.
func (n *NumericText) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*n = ""
	case strings.HasPrefix(raw, `"`):
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		*n = NumericText(unquoted)
	default:
		*n = NumericText(raw)
	}
	return nil
}
