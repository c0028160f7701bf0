package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/armature/pkg/domain"
)

func TestNumber(t *testing.T) {
	params := map[string]any{
		"float":     42.5,
		"int":       7,
		"int64":     int64(9),
		"json":      json.Number("3.25"),
		"string":    " 12.5 ",
		"garbage":   "twelve",
		"bool":      true,
		"nan":       math.NaN(),
		"nanString": "NaN",
		"posInf":    math.Inf(1),
		"negInf":    "-Inf",
	}

	cases := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"float", 42.5, true},
		{"int", 7, true},
		{"int64", 9, true},
		{"json", 3.25, true},
		{"string", 12.5, true},
		{"garbage", 0, false},
		{"bool", 0, false},
		{"missing", 0, false},
		// Non-finite values are rejected in every source form: they defeat
		// range clamps because NaN compares false against both bounds.
		{"nan", 0, false},
		{"nanString", 0, false},
		{"posInf", 0, false},
		{"negInf", 0, false},
	}

	for _, tc := range cases {
		got, ok := domain.Number(params, tc.key)
		assert.Equal(t, tc.ok, ok, tc.key)
		assert.Equal(t, tc.want, got, tc.key)
	}
}

func TestBool(t *testing.T) {
	params := map[string]any{
		"yes":     true,
		"no":      false,
		"strTrue": "True",
		"strNo":   "false",
		"word":    "maybe",
		"number":  1,
	}

	v, ok := domain.Bool(params, "yes")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = domain.Bool(params, "no")
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = domain.Bool(params, "strTrue")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = domain.Bool(params, "strNo")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = domain.Bool(params, "word")
	assert.False(t, ok)

	// Numbers are not coerced; the union is bool|number|string and a
	// numeric condition is a modelling error, not a truthy value.
	_, ok = domain.Bool(params, "number")
	assert.False(t, ok)

	_, ok = domain.Bool(params, "missing")
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	params := map[string]any{"s": "base", "n": 4}

	s, ok := domain.String(params, "s")
	assert.True(t, ok)
	assert.Equal(t, "base", s)

	_, ok = domain.String(params, "n")
	assert.False(t, ok)
}
