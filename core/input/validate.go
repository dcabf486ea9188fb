package input

import (
	"sort"
	"strconv"

	"calcengine/core/schema"
)

// FieldError is one validation failure
type FieldError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ValidationResult collects every failure of a validation pass
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// FieldErrors returns the failures sorted by input id
func (r ValidationResult) FieldErrors() []FieldError {
	out := make([]FieldError, 0, len(r.Errors))
	for id, msg := range r.Errors {
		out = append(out, FieldError{ID: id, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks values against the required fields. Each field is checked
// on its own, so one failure never hides another. Optional fields and
// fields hidden by their condition are not checked.
func Validate(fields []schema.InputField, values map[string]interface{}) ValidationResult {
	result := ValidationResult{IsValid: true, Errors: make(map[string]string)}

	for _, f := range fields {
		if !f.Required || !schema.IsInputVisible(f, values) {
			continue
		}
		if msg := checkField(f, values[f.ID]); msg != "" {
			result.Errors[f.ID] = msg
		}
	}
	result.IsValid = len(result.Errors) == 0
	return result
}

func checkField(f schema.InputField, v interface{}) string {
	label := f.DisplayLabel()
	if isEmpty(v) {
		return label + " is required"
	}
	if f.Type != schema.TypeNumber {
		return ""
	}

	n, ok := ParseNumber(v)
	if !ok {
		return label + " must be a number"
	}
	if f.Min != nil && n < *f.Min {
		return label + " must be at least " + formatBound(*f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return label + " must be at most " + formatBound(*f.Max)
	}
	return ""
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
