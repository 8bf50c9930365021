package tinakit

import "fmt"

// Primitive represents basic spreadsheet value types.
// types:
//   - float64: numeric values (integers are converted to float64)
//   - string: text values
//   - bool: boolean values (TRUE/FALSE)
//   - nil: empty/null cells
type Primitive any

// ErrorKind classifies formula failures into the two tiers the engine
// distinguishes: errors detected while reading the formula text, and errors
// detected while evaluating a well-formed formula against cell data.
type ErrorKind uint8

const (
	// ErrSyntax - malformed token stream or grammar violation: unexpected
	// token, unmatched parenthesis, unterminated string, incomplete call.
	ErrSyntax ErrorKind = iota + 1

	// ErrRuntime - valid syntax, invalid semantics at evaluation time:
	// division by zero, unknown function, bad reference, wrong argument
	// count or type, unparsable numeric coercion, empty aggregate domain.
	ErrRuntime
)

// errorKindNames maps error kinds to their display names
var errorKindNames = map[ErrorKind]string{
	ErrSyntax:  "syntax error",
	ErrRuntime: "runtime error",
}

// FormulaError is the single error type surfaced by Evaluate. The rendered
// message carries the #ERROR prefix so a host that stores err.Error() as a
// cell's display value satisfies the error-marker contract without extra
// formatting.
type FormulaError struct {
	Kind    ErrorKind
	Message string
	Pos     int // rune offset in the formula text, -1 when not applicable
}

func (e *FormulaError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("#ERROR: %s at position %d: %s", errorKindNames[e.Kind], e.Pos, e.Message)
	}
	return fmt.Sprintf("#ERROR: %s: %s", errorKindNames[e.Kind], e.Message)
}

// NewSyntaxError creates a FormulaError for a lexical or grammar failure at
// the given rune offset.
func NewSyntaxError(pos int, format string, args ...any) *FormulaError {
	return &FormulaError{
		Kind:    ErrSyntax,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// NewRuntimeError creates a FormulaError for an evaluation-time failure.
func NewRuntimeError(format string, args ...any) *FormulaError {
	return &FormulaError{
		Kind:    ErrRuntime,
		Message: fmt.Sprintf(format, args...),
		Pos:     -1,
	}
}

// Cell represents a stored spreadsheet cell: a raw value, or a formula plus
// the value produced by the last recalculation pass.
type Cell struct {
	Value   Primitive // current value - raw for plain cells, last result for formula cells
	Formula string    // formula text without the leading '=', empty for plain cells
}

// HasFormula reports whether the cell carries a formula.
func (c *Cell) HasFormula() bool {
	return c != nil && c.Formula != ""
}
