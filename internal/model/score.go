package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Score is a score as the tracker stores it: a JSON number, a numeric string,
// or missing. The raw text is kept so corrupt values can be reported later.
type Score string

// NewScore builds a Score from an integer.
func NewScore(v int) Score {
	return Score(strconv.Itoa(v))
}

// UnmarshalJSON accepts numbers, strings and null.
func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("decode score: %w", err)
		}
		*s = Score(str)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("decode score: %w", err)
		}
		*s = Score(n.String())
	}
	return nil
}

// MarshalJSON writes clean integers as numbers and anything else as a string.
func (s Score) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("0"), nil
	}
	if v, err := strconv.Atoi(string(s)); err == nil {
		return []byte(strconv.Itoa(v)), nil
	}
	return json.Marshal(string(s))
}

// Int returns the parsed score, 0 when it could not be parsed.
func (s Score) Int() int {
	v, _ := ParseScore(string(s))
	return v
}

// Defaulted reports whether the score fell back to 0 because it was unusable.
func (s Score) Defaulted() bool {
	_, d := ParseScore(string(s))
	return d
}

// ParseScore reads the leading integer of raw, ignoring surrounding spaces and
// any trailing garbage ("3 goals" -> 3). Empty, non-numeric and negative input
// yields (0, true); an explicit zero yields (0, false).
func ParseScore(raw string) (value int, defaulted bool) {
	s := strings.TrimSpace(raw)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, true
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, true
	}
	if neg && v != 0 {
		return 0, true
	}
	return v, false
}
