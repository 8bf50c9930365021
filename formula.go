package tinakit

// FormulaTable stores parsed formulas centrally, keyed by their literal
// source text, so a formula shared by many cells is parsed once and its AST
// reused. Reference counts track how many cells currently carry each
// formula; an AST is dropped when its last reference goes away.
type FormulaTable struct {
	astCache  map[string]ASTNode
	refCounts map[string]int
}

// NewFormulaTable creates an empty formula table.
func NewFormulaTable() *FormulaTable {
	return &FormulaTable{
		astCache:  make(map[string]ASTNode),
		refCounts: make(map[string]int),
	}
}

// Intern parses formula (or returns the cached AST if the same text was
// interned before) without taking a reference. Callers that attach the
// formula to a cell follow up with AddReference.
func (ft *FormulaTable) Intern(formula string) (ASTNode, error) {
	if ast, exists := ft.astCache[formula]; exists {
		return ast, nil
	}

	ast, err := ParseFormula(formula)
	if err != nil {
		return nil, err
	}

	ft.astCache[formula] = ast
	return ast, nil
}

// Get retrieves the cached AST for a formula text.
func (ft *FormulaTable) Get(formula string) (ASTNode, bool) {
	ast, exists := ft.astCache[formula]
	return ast, exists
}

// AddReference records one more cell carrying the formula.
func (ft *FormulaTable) AddReference(formula string) {
	ft.refCounts[formula]++
}

// RemoveReference releases one cell's use of the formula. The cached AST is
// removed when the last reference goes away, but an unreferenced interned
// AST (as Evaluate produces for one-off formulas) is kept until Clear.
func (ft *FormulaTable) RemoveReference(formula string) {
	if _, exists := ft.refCounts[formula]; !exists {
		return
	}

	ft.refCounts[formula]--
	if ft.refCounts[formula] <= 0 {
		delete(ft.refCounts, formula)
		delete(ft.astCache, formula)
	}
}

// ReferenceCount returns how many cells currently carry the formula.
func (ft *FormulaTable) ReferenceCount(formula string) int {
	return ft.refCounts[formula]
}

// Count returns the number of cached formulas.
func (ft *FormulaTable) Count() int {
	return len(ft.astCache)
}

// TotalReferences returns the total number of references across all formulas.
func (ft *FormulaTable) TotalReferences() int {
	total := 0
	for _, count := range ft.refCounts {
		total += count
	}
	return total
}

// Clear removes all formulas from the table.
func (ft *FormulaTable) Clear() {
	ft.astCache = make(map[string]ASTNode)
	ft.refCounts = make(map[string]int)
}
