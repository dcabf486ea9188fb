package input

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"calcengine/core/schema"
)

func TestParseNumber(t *testing.T) {
	for _, tt := range []struct {
		in   interface{}
		want float64
		ok   bool
	}{
		{12.5, 12.5, true},
		{int64(7), 7, true},
		{"42", 42, true},
		{"  3.5 ", 3.5, true},
		{"-1e3", -1000, true},
		{json.Number("8"), 8, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"Inf", 0, false},
		{"NaN", 0, false},
		{"0x10", 0, false},
		{true, 0, false},
		{nil, 0, false},
	} {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "%#v", tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
	}
}

func TestNormalize(t *testing.T) {
	in := map[string]interface{}{
		"hourlyRate":   "20",
		"hoursPerWeek": 40,
		"status":       "single",
		"hasPension":   true,
		"blank":        "",
	}
	got := Normalize(in)

	assert.Equal(t, map[string]interface{}{
		"hourlyRate":   20.0,
		"hoursPerWeek": 40,
		"status":       "single",
		"hasPension":   true,
		"blank":        "",
	}, got)
	assert.Equal(t, "20", in["hourlyRate"], "input map is not modified")
}

func TestOverlay(t *testing.T) {
	got := Overlay(map[string]interface{}{"a": 1, "b": 2}, map[string]interface{}{"b": 3, "c": 4})
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 3, "c": 4}, got)
}

func numberField(id string, required bool, min, max *float64) schema.InputField {
	return schema.InputField{ID: id, Label: id, Type: schema.TypeNumber, Required: required, Min: min, Max: max}
}

func TestValidateCollectsEveryFailure(t *testing.T) {
	fields := []schema.InputField{
		numberField("hourlyRate", true, nil, nil),
		numberField("hoursPerWeek", true, nil, nil),
	}

	result := Validate(fields, map[string]interface{}{})
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, "hourlyRate is required", result.Errors["hourlyRate"])
	assert.Equal(t, "hoursPerWeek is required", result.Errors["hoursPerWeek"])
	assert.Equal(t, []FieldError{
		{ID: "hourlyRate", Message: "hourlyRate is required"},
		{ID: "hoursPerWeek", Message: "hoursPerWeek is required"},
	}, result.FieldErrors())
}

func TestValidateRange(t *testing.T) {
	fields := []schema.InputField{numberField("percent", true, schema.Float(0), schema.Float(100))}

	result := Validate(fields, map[string]interface{}{"percent": 150})
	assert.False(t, result.IsValid)
	assert.Equal(t, "percent must be at most 100", result.Errors["percent"])

	result = Validate(fields, map[string]interface{}{"percent": "-0.5"})
	assert.Equal(t, "percent must be at least 0", result.Errors["percent"])

	for _, ok := range []interface{}{0, 100, "55.5"} {
		assert.True(t, Validate(fields, map[string]interface{}{"percent": ok}).IsValid, "%v", ok)
	}
}

func TestValidateOnlyDeclaredBounds(t *testing.T) {
	fields := []schema.InputField{numberField("n", true, schema.Float(1), nil)}
	assert.True(t, Validate(fields, map[string]interface{}{"n": 1e9}).IsValid)
	assert.False(t, Validate(fields, map[string]interface{}{"n": 0}).IsValid)
}

func TestValidateMessages(t *testing.T) {
	fields := []schema.InputField{
		{ID: "rate", Label: "Hourly rate", Type: schema.TypeNumber, Required: true},
		{ID: "status", Label: "Filing status", Type: schema.TypeSelect, Required: true},
		{ID: "note", Type: schema.TypeText, Required: false},
		{ID: "bonus", Type: schema.TypeNumber, Required: false},
	}

	result := Validate(fields, map[string]interface{}{"rate": "twenty", "status": "  ", "bonus": "lots"})
	assert.Equal(t, map[string]string{
		"rate":   "Hourly rate must be a number",
		"status": "Filing status is required",
	}, result.Errors, "optional fields are never validated")
}

func TestValidateNonNumericTypesAcceptAnyValue(t *testing.T) {
	fields := []schema.InputField{
		{ID: "agree", Type: schema.TypeCheckbox, Required: true},
		{ID: "name", Type: schema.TypeText, Required: true},
	}
	result := Validate(fields, map[string]interface{}{"agree": false, "name": "x"})
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidateSkipsHiddenFields(t *testing.T) {
	fields := []schema.InputField{
		{ID: "hasPension", Type: schema.TypeCheckbox},
		{ID: "pensionPercent", Type: schema.TypeNumber, Required: true, Conditional: "hasPension"},
	}

	assert.True(t, Validate(fields, map[string]interface{}{"hasPension": false}).IsValid)

	result := Validate(fields, map[string]interface{}{"hasPension": true})
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "pensionPercent")
}
