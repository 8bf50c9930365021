package tinakit

import (
	"math"
	"strconv"
	"strings"
)

// FormulaFunction is a registered spreadsheet function. It receives the
// flattened, ordered argument values (ranges already expanded row-major)
// and returns a single result.
type FormulaFunction func(args []Primitive) (Primitive, error)

// FunctionRegistry maps uppercase function names to callables. It is
// engine-instance state, never a process-wide singleton, so engines with
// different registered functions can coexist.
type FunctionRegistry struct {
	functions map[string]FormulaFunction
}

// NewFunctionRegistry creates a registry preloaded with the built-in
// functions.
func NewFunctionRegistry() *FunctionRegistry {
	r := &FunctionRegistry{functions: make(map[string]FormulaFunction)}
	r.Register("SUM", builtinSum)
	r.Register("AVERAGE", builtinAverage)
	r.Register("COUNT", builtinCount)
	r.Register("MAX", builtinMax)
	r.Register("MIN", builtinMin)
	r.Register("IF", builtinIf)
	return r
}

// Register installs a function under the uppercase form of name,
// overwriting any previous entry of the same name.
func (r *FunctionRegistry) Register(name string, fn FormulaFunction) {
	r.functions[strings.ToUpper(name)] = fn
}

// Lookup finds a function by case-insensitive name.
func (r *FunctionRegistry) Lookup(name string) (FormulaFunction, bool) {
	fn, ok := r.functions[strings.ToUpper(name)]
	return fn, ok
}

// Count returns the number of registered functions.
func (r *FunctionRegistry) Count() int {
	return len(r.functions)
}

// built-in functions

func builtinSum(args []Primitive) (Primitive, error) {
	sum := 0.0
	for _, arg := range args {
		// non-numeric and empty values are skipped, not errors
		if num, ok := numericValue(arg); ok {
			sum += num
		}
	}
	return sum, nil
}

func builtinAverage(args []Primitive) (Primitive, error) {
	sum := 0.0
	count := 0
	for _, arg := range args {
		if num, ok := numericValue(arg); ok {
			sum += num
			count++
		}
	}

	if count == 0 {
		return nil, NewRuntimeError("AVERAGE: no numeric values")
	}

	return sum / float64(count), nil
}

func builtinCount(args []Primitive) (Primitive, error) {
	count := 0
	for _, arg := range args {
		// everything except empty cells counts, regardless of type
		if arg != nil {
			count++
		}
	}
	return float64(count), nil
}

func builtinMax(args []Primitive) (Primitive, error) {
	best := math.Inf(-1)
	hasValues := false

	for _, arg := range args {
		if num, ok := numericValue(arg); ok {
			if num > best {
				best = num
			}
			hasValues = true
		}
	}

	if !hasValues {
		return nil, NewRuntimeError("MAX: no numeric values")
	}
	return best, nil
}

func builtinMin(args []Primitive) (Primitive, error) {
	best := math.Inf(1)
	hasValues := false

	for _, arg := range args {
		if num, ok := numericValue(arg); ok {
			if num < best {
				best = num
			}
			hasValues = true
		}
	}

	if !hasValues {
		return nil, NewRuntimeError("MIN: no numeric values")
	}
	return best, nil
}

func builtinIf(args []Primitive) (Primitive, error) {
	if len(args) != 3 {
		return nil, NewRuntimeError("IF requires exactly 3 arguments, got %d", len(args))
	}

	if toBoolean(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}

// coercion helpers

// coerceNumber converts a value to a number for operators and conditions:
// booleans map to 1/0, empty to 0, text must parse as a decimal literal.
func coerceNumber(value Primitive) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		num, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, NewRuntimeError("cannot convert %q to a number", v)
		}
		return num, nil
	case nil:
		return 0, nil
	default:
		return 0, NewRuntimeError("cannot convert %v to a number", v)
	}
}

// numericValue reports a value's numeric interpretation for aggregate
// functions. Empty cells and non-numeric text are not numeric (ok=false)
// rather than errors.
func numericValue(value Primitive) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		num, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(num) {
			return 0, false
		}
		return num, true
	default:
		return 0, false
	}
}

// toString converts a value to text. Numbers render locale-free without
// trailing decimals for integral values.
func toString(value Primitive) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case nil:
		return ""
	default:
		return ""
	}
}

// toBoolean converts a value to a boolean. Text recognizes "TRUE"/"FALSE"
// case-insensitively; any other non-empty text is true.
func toBoolean(value Primitive) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case "", "FALSE":
			return false
		case "TRUE":
			return true
		default:
			return true
		}
	case nil:
		return false
	default:
		return false
	}
}

// comparePrimitives compares two values: numerically when both sides have a
// numeric interpretation, lexicographically as text otherwise. Empty sorts
// before everything non-empty.
func comparePrimitives(left, right Primitive) int {
	if left == nil && right == nil {
		return 0
	}
	if left == nil {
		return -1
	}
	if right == nil {
		return 1
	}

	leftNum, leftIsNum := numericValue(left)
	rightNum, rightIsNum := numericValue(right)

	if leftIsNum && rightIsNum {
		if leftNum < rightNum {
			return -1
		} else if leftNum > rightNum {
			return 1
		}
		return 0
	}

	leftStr := toString(left)
	rightStr := toString(right)

	if leftStr < rightStr {
		return -1
	} else if leftStr > rightStr {
		return 1
	}
	return 0
}
