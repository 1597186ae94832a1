package reactive

import (
	"math"
	"testing"
)

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{true, "true"},
		{float64(5), "5"},
		{1.5, "1.5"},
		{42, "42"},
		{int64(-3), "-3"},
		{1e21, "1e+21"},
		{-1.5e300, "-1.5e+300"},
		{1e20, "100000000000000000000"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
		{math.Copysign(0, -1), "0"},
		{float32(0.5), "0.5"},
		{NewArray(1, "a", nil), "1,a,"},
		{ObjectOf("a", 1), "[object Object]"},
	}
	for _, tt := range tests {
		if got := ToString(tt.in); got != tt.want {
			t.Errorf("ToString(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToStringCyclicArray(t *testing.T) {
	arr := NewArray(1)
	arr.Push(NewArray(arr, 2))

	if got := ToString(arr); got != "1,,2" {
		t.Errorf("ToString = %q, want %q", got, "1,,2")
	}
}
