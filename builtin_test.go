package tinakit

import (
	"math"
	"testing"
)

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		in   Primitive
		want float64
	}{
		{42.0, 42},
		{true, 1},
		{false, 0},
		{"3.14", 3.14},
		{" 10 ", 10},
		{nil, 0},
	}

	for _, tc := range cases {
		got, err := coerceNumber(tc.in)
		if err != nil {
			t.Errorf("coerceNumber(%v) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("coerceNumber(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := coerceNumber("abc"); err == nil {
		t.Error("coerceNumber(abc) should fail")
	}
	if _, err := coerceNumber(""); err == nil {
		t.Error("coerceNumber of empty string should fail")
	}
}

func TestNumericValue(t *testing.T) {
	if num, ok := numericValue("12.5"); !ok || num != 12.5 {
		t.Errorf("numericValue(12.5 text) = %v, %v", num, ok)
	}
	if _, ok := numericValue("hello"); ok {
		t.Error("numericValue(hello) should not be numeric")
	}
	if _, ok := numericValue(nil); ok {
		t.Error("numericValue(nil) should not be numeric")
	}
	if num, ok := numericValue(true); !ok || num != 1 {
		t.Errorf("numericValue(true) = %v, %v", num, ok)
	}
}

func TestToString(t *testing.T) {
	cases := []struct {
		in   Primitive
		want string
	}{
		{"text", "text"},
		{42.0, "42"},
		{3.5, "3.5"},
		{true, "TRUE"},
		{false, "FALSE"},
		{nil, ""},
	}

	for _, tc := range cases {
		if got := toString(tc.in); got != tc.want {
			t.Errorf("toString(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToBoolean(t *testing.T) {
	truthy := []Primitive{true, 1.0, -1.0, "TRUE", "true", "yes", "anything"}
	for _, v := range truthy {
		if !toBoolean(v) {
			t.Errorf("toBoolean(%v) = false, want true", v)
		}
	}

	falsy := []Primitive{false, 0.0, "FALSE", "false", "", nil}
	for _, v := range falsy {
		if toBoolean(v) {
			t.Errorf("toBoolean(%v) = true, want false", v)
		}
	}
}

func TestComparePrimitives(t *testing.T) {
	// both numeric-looking: compare as numbers
	if comparePrimitives("10", "9") <= 0 {
		t.Error("10 vs 9 should compare numerically")
	}
	// mixed: compare as text
	if comparePrimitives("10", "abc") >= 0 {
		t.Error("10 vs abc should compare lexicographically")
	}
	if comparePrimitives(5.0, 5.0) != 0 {
		t.Error("equal numbers should compare 0")
	}
	if comparePrimitives(nil, 0.0) >= 0 {
		t.Error("empty should sort before values")
	}
}

func TestBuiltinSum(t *testing.T) {
	result, err := builtinSum([]Primitive{1.0, 2.0, 3.0})
	if err != nil {
		t.Fatal(err)
	}
	if result != 6.0 {
		t.Errorf("got %v, want 6", result)
	}

	// text and empty cells skipped, not errors
	result, err = builtinSum([]Primitive{1.0, "skip me", nil, 2.0})
	if err != nil {
		t.Fatal(err)
	}
	if result != 3.0 {
		t.Errorf("got %v, want 3", result)
	}

	result, err = builtinSum(nil)
	if err != nil {
		t.Fatal(err)
	}
	if result != 0.0 {
		t.Errorf("empty SUM: got %v, want 0", result)
	}
}

func TestBuiltinAverage(t *testing.T) {
	result, err := builtinAverage([]Primitive{10.0, 20.0, 30.0})
	if err != nil {
		t.Fatal(err)
	}
	if result != 20.0 {
		t.Errorf("got %v, want 20", result)
	}

	// divisor counts only numeric values
	result, err = builtinAverage([]Primitive{10.0, nil, "text", 20.0})
	if err != nil {
		t.Fatal(err)
	}
	if result != 15.0 {
		t.Errorf("got %v, want 15", result)
	}

	if _, err := builtinAverage([]Primitive{nil, "text"}); err == nil {
		t.Error("AVERAGE with no numeric values should fail")
	}
}

func TestBuiltinCount(t *testing.T) {
	result, err := builtinCount([]Primitive{1.0, "text", true, nil, nil})
	if err != nil {
		t.Fatal(err)
	}
	if result != 3.0 {
		t.Errorf("got %v, want 3", result)
	}
}

func TestBuiltinMaxMin(t *testing.T) {
	values := []Primitive{3.0, 15.0, nil, "x", 7.0}

	maxResult, err := builtinMax(values)
	if err != nil {
		t.Fatal(err)
	}
	if maxResult != 15.0 {
		t.Errorf("MAX: got %v, want 15", maxResult)
	}

	minResult, err := builtinMin(values)
	if err != nil {
		t.Fatal(err)
	}
	if minResult != 3.0 {
		t.Errorf("MIN: got %v, want 3", minResult)
	}

	if _, err := builtinMax([]Primitive{nil, "x"}); err == nil {
		t.Error("MAX with no numeric values should fail")
	}
	if _, err := builtinMin(nil); err == nil {
		t.Error("MIN of nothing should fail")
	}

	negatives := []Primitive{-5.0, -2.0}
	if maxResult, _ = builtinMax(negatives); maxResult != -2.0 {
		t.Errorf("MAX of negatives: got %v, want -2", maxResult)
	}
}

func TestBuiltinIf(t *testing.T) {
	result, err := builtinIf([]Primitive{true, "yes", "no"})
	if err != nil {
		t.Fatal(err)
	}
	if result != "yes" {
		t.Errorf("got %v, want yes", result)
	}

	result, err = builtinIf([]Primitive{false, "yes", "no"})
	if err != nil {
		t.Fatal(err)
	}
	if result != "no" {
		t.Errorf("got %v, want no", result)
	}

	// branches return unchanged, with their original type
	result, err = builtinIf([]Primitive{1.0, 42.0, "other"})
	if err != nil {
		t.Fatal(err)
	}
	if result != 42.0 {
		t.Errorf("got %v, want 42.0", result)
	}

	if _, err := builtinIf([]Primitive{true, "only two"}); err == nil {
		t.Error("IF with 2 arguments should fail")
	}
	if _, err := builtinIf([]Primitive{true, 1.0, 2.0, 3.0}); err == nil {
		t.Error("IF with 4 arguments should fail")
	}
}

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()

	if _, ok := registry.Lookup("SUM"); !ok {
		t.Error("SUM should be registered")
	}
	if _, ok := registry.Lookup("sum"); !ok {
		t.Error("lookup should be case-insensitive")
	}
	if _, ok := registry.Lookup("NOPE"); ok {
		t.Error("NOPE should not be registered")
	}

	registry.Register("double", func(args []Primitive) (Primitive, error) {
		num, err := coerceNumber(args[0])
		if err != nil {
			return nil, err
		}
		return num * 2, nil
	})

	fn, ok := registry.Lookup("DOUBLE")
	if !ok {
		t.Fatal("DOUBLE should be registered")
	}
	result, err := fn([]Primitive{21.0})
	if err != nil {
		t.Fatal(err)
	}
	if result != 42.0 {
		t.Errorf("got %v, want 42", result)
	}

	// re-registering replaces, built-ins included
	registry.Register("SUM", func(args []Primitive) (Primitive, error) {
		return math.Pi, nil
	})
	fn, _ = registry.Lookup("sum")
	result, _ = fn(nil)
	if result != math.Pi {
		t.Error("Register should overwrite existing functions")
	}
}
