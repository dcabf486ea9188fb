// Package input normalizes and validates raw calculator inputs
package input

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseNumber interprets v as a finite number. Numeric Go types and
// numeric-looking strings qualify; booleans and everything else do not.
func ParseNumber(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(val)
		if s == "" || !looksNumeric(s) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// looksNumeric rejects forms strconv accepts but users do not type as
// numbers, such as "Inf", "NaN" and hexadecimal
func looksNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.', c == '-', c == '+', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}

// Normalize returns a copy of values with numeric-looking strings parsed
// to float64. Other values pass through unchanged.
func Normalize(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok {
			if f, ok := ParseNumber(s); ok {
				out[k] = f
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Overlay returns defaults with every key of values laid over them
func Overlay(defaults, values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(defaults)+len(values))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range values {
		out[k] = v
	}
	return out
}

// isEmpty reports whether a value counts as not supplied
func isEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}
