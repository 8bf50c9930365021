package tinakit

// DataSource resolves cell and range references during evaluation. The
// engine never stores cell data itself; a Workbook (or any other backing
// store) provides it through this interface.
type DataSource interface {
	// GetCellValue returns the value at a single-cell reference like "A1".
	// Absent cells resolve to nil.
	GetCellValue(sheet, ref string) (Primitive, error)

	// GetRangeValues returns the values of a rectangular range like
	// "A1:B3" in row-major order, including nil entries for absent cells.
	GetRangeValues(sheet, ref string) ([]Primitive, error)
}

// Engine evaluates spreadsheet formulas against a DataSource. Each engine
// carries its own function registry and AST cache, so two engines never
// share registered functions.
type Engine struct {
	data      DataSource
	functions *FunctionRegistry
	formulas  *FormulaTable
}

// NewEngine creates an engine backed by data, with the built-in functions
// registered.
func NewEngine(data DataSource) *Engine {
	return &Engine{
		data:      data,
		functions: NewFunctionRegistry(),
		formulas:  NewFormulaTable(),
	}
}

// Evaluate parses and evaluates a formula against the named sheet. The
// formula text carries no leading "=". Parsed ASTs are cached, so
// re-evaluating the same text skips the parse.
func (e *Engine) Evaluate(formula string, sheet string) (Primitive, error) {
	ast, err := e.formulas.Intern(formula)
	if err != nil {
		return nil, err
	}
	return e.evalNode(ast, sheet)
}

// ValidateFormula reports whether formula is syntactically well formed. It
// never touches cell data, so formulas referencing absent cells or sheets
// still validate.
func (e *Engine) ValidateFormula(formula string) bool {
	_, err := ParseFormula(formula)
	return err == nil
}

// RegisterFunction installs fn under name (case-insensitive), replacing any
// existing function of the same name, built-ins included.
func (e *Engine) RegisterFunction(name string, fn FormulaFunction) {
	e.functions.Register(name, fn)
}

// Formulas exposes the engine's AST cache.
func (e *Engine) Formulas() *FormulaTable {
	return e.formulas
}
