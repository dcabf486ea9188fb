// Package expression provides a restricted formula language for calculator
// outputs: arithmetic, comparison, logical and conditional operators over
// numbers, strings and booleans, plus calls into a closed set of functions.
// Nothing outside that grammar is interpreted.
package expression

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind represents the type of a value
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is a formula value with type information
type Value struct {
	kind      ValueKind
	boolVal   bool
	numberVal float64
	stringVal string
}

// Null creates a null value
func Null() Value {
	return Value{kind: KindNull}
}

// Bool creates a boolean value
func Bool(v bool) Value {
	return Value{kind: KindBool, boolVal: v}
}

// Number creates a numeric value
func Number(v float64) Value {
	return Value{kind: KindNumber, numberVal: v}
}

// String creates a string value
func String(v string) Value {
	return Value{kind: KindString, stringVal: v}
}

// FromGo converts a Go value to a Value. Anything that is not a bool,
// number or string is bound by its printed form.
func FromGo(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case bool:
		return Bool(val)
	case float64:
		return Number(val)
	case float32:
		return Number(float64(val))
	case int:
		return Number(float64(val))
	case int8:
		return Number(float64(val))
	case int16:
		return Number(float64(val))
	case int32:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case uint:
		return Number(float64(val))
	case uint8:
		return Number(float64(val))
	case uint16:
		return Number(float64(val))
	case uint32:
		return Number(float64(val))
	case uint64:
		return Number(float64(val))
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return Number(f)
		}
		return String(val.String())
	case string:
		return String(val)
	case fmt.Stringer:
		return String(val.String())
	default:
		return String(fmt.Sprintf("%v", v))
	}
}

// Kind returns the value kind
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull returns true if value is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean value
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, fmt.Errorf("value is %v, not bool", v.kind)
	}
	return v.boolVal, nil
}

// AsNumber returns the numeric value
func (v Value) AsNumber() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("value is %v, not number", v.kind)
	}
	return v.numberVal, nil
}

// AsString returns the string value
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("value is %v, not string", v.kind)
	}
	return v.stringVal, nil
}

// ToNumber coerces the value for arithmetic. Booleans become 1 or 0,
// numeric strings their number, null 0, anything else NaN.
func (v Value) ToNumber() float64 {
	switch v.kind {
	case KindNumber:
		return v.numberVal
	case KindBool:
		if v.boolVal {
			return 1
		}
		return 0
	case KindString:
		s := strings.TrimSpace(v.stringVal)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return 0
	}
}

// Truthy reports the value's truthiness: false, 0, NaN, "" and null are
// falsy, everything else is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindNumber:
		return v.numberVal != 0 && !math.IsNaN(v.numberVal)
	case KindString:
		return v.stringVal != ""
	default:
		return false
	}
}

// Equals compares values for strict equality (kinds must match)
func (v Value) Equals(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindNumber:
		return v.numberVal == other.numberVal
	case KindString:
		return v.stringVal == other.stringVal
	default:
		return false
	}
}

// LooseEquals compares values allowing number/string/bool coercion, so a
// numeric string equals the number it spells.
func (v Value) LooseEquals(other Value) bool {
	if v.kind == other.kind {
		return v.Equals(other)
	}
	if v.kind == KindNull || other.kind == KindNull {
		return false
	}
	return v.ToNumber() == other.ToNumber()
}

// ToGo converts the value to a Go interface{}
func (v Value) ToGo() interface{} {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindNumber:
		return v.numberVal
	case KindString:
		return v.stringVal
	default:
		return nil
	}
}

// String returns a string representation
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.numberVal, 'f', -1, 64)
	case KindString:
		return strconv.Quote(v.stringVal)
	default:
		return "(invalid)"
	}
}

// text is the value as it appears when concatenated with a string
func (v Value) text() string {
	if v.kind == KindString {
		return v.stringVal
	}
	return v.String()
}

// Truthy reports the truthiness of a Go value using formula semantics.
// The string "false" is treated as falsy so checkbox values that arrive as
// text behave like their boolean form.
func Truthy(v interface{}) bool {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "false") {
		return false
	}
	return FromGo(v).Truthy()
}
