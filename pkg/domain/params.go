package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Parameter values arrive as a bool/number/string union, and the concrete Go
// type depends on which adapter decoded the program (yaml, json, literal Go).
// These helpers give the runtime one total coercion path for each shape.

// Number extracts a numeric parameter. It accepts any Go numeric type,
// json.Number, and strings that parse as floats. ok is false for anything
// else, including a missing key. NaN and infinities are rejected so range
// clamps and duration conversions downstream always see an orderable value.
func Number(params map[string]any, key string) (float64, bool) {
	v, found := params[key]
	if !found {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	}
	return 0, false
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Bool extracts a boolean parameter. Literal bools pass through; the strings
// "true" and "false" (any case) are accepted because shared programs survive
// a round-trip through string-typed form fields. ok is false otherwise.
func Bool(params map[string]any, key string) (bool, bool) {
	v, found := params[key]
	if !found {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// String extracts a string parameter without coercing other types.
func String(params map[string]any, key string) (string, bool) {
	v, found := params[key]
	if !found {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
