package tinakit

import (
	"sort"
)

// Worksheet is a sparse grid of cells. Only cells that have been written
// occupy memory; everything else reads back as empty.
type Worksheet struct {
	name  string
	cells map[CellAddress]*Cell
}

func newWorksheet(name string) *Worksheet {
	return &Worksheet{
		name:  name,
		cells: make(map[CellAddress]*Cell),
	}
}

// Name returns the worksheet's name.
func (ws *Worksheet) Name() string {
	return ws.name
}

// CellAt returns the cell at addr, or nil if the cell has never been set.
func (ws *Worksheet) CellAt(addr CellAddress) *Cell {
	return ws.cells[addr]
}

// CellCount returns the number of occupied cells.
func (ws *Worksheet) CellCount() int {
	return len(ws.cells)
}

// cellOrCreate returns the cell at addr, allocating it if absent.
func (ws *Worksheet) cellOrCreate(addr CellAddress) *Cell {
	cell, exists := ws.cells[addr]
	if !exists {
		cell = &Cell{}
		ws.cells[addr] = cell
	}
	return cell
}

// formulaAddresses returns the addresses of all formula cells in row-major
// order (top to bottom, left to right).
func (ws *Worksheet) formulaAddresses() []CellAddress {
	addrs := make([]CellAddress, 0)
	for addr, cell := range ws.cells {
		if cell.HasFormula() {
			addrs = append(addrs, addr)
		}
	}
	sort.Slice(addrs, func(i, j int) bool {
		if addrs[i].Row != addrs[j].Row {
			return addrs[i].Row < addrs[j].Row
		}
		return addrs[i].Column < addrs[j].Column
	})
	return addrs
}

// Workbook holds named worksheets and the engine that evaluates their
// formulas. It is the engine's DataSource: cell references in formulas
// resolve against the workbook's own cells.
type Workbook struct {
	sheets     map[string]*Worksheet
	sheetOrder []string
	engine     *Engine
}

// NewWorkbook creates an empty workbook with no worksheets.
func NewWorkbook() *Workbook {
	wb := &Workbook{
		sheets: make(map[string]*Worksheet),
	}
	wb.engine = NewEngine(wb)
	return wb
}

// Engine returns the workbook's formula engine.
func (wb *Workbook) Engine() *Engine {
	return wb.engine
}

// AddWorksheet creates a worksheet with the given name.
func (wb *Workbook) AddWorksheet(name string) error {
	if name == "" {
		return NewRuntimeError("worksheet name cannot be empty")
	}
	if _, exists := wb.sheets[name]; exists {
		return NewRuntimeError("worksheet %s already exists", name)
	}

	wb.sheets[name] = newWorksheet(name)
	wb.sheetOrder = append(wb.sheetOrder, name)
	return nil
}

// RemoveWorksheet deletes a worksheet and all of its cells.
func (wb *Workbook) RemoveWorksheet(name string) error {
	ws, exists := wb.sheets[name]
	if !exists {
		return NewRuntimeError("worksheet %s does not exist", name)
	}

	// release formula cache references held by the sheet's cells
	for _, cell := range ws.cells {
		if cell.HasFormula() {
			wb.engine.formulas.RemoveReference(cell.Formula)
		}
	}

	delete(wb.sheets, name)
	for i, n := range wb.sheetOrder {
		if n == name {
			wb.sheetOrder = append(wb.sheetOrder[:i], wb.sheetOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ListWorksheets returns worksheet names in the order they were added.
func (wb *Workbook) ListWorksheets() []string {
	names := make([]string, len(wb.sheetOrder))
	copy(names, wb.sheetOrder)
	return names
}

// Worksheet returns the named worksheet.
func (wb *Workbook) Worksheet(name string) (*Worksheet, bool) {
	ws, exists := wb.sheets[name]
	return ws, exists
}

func (wb *Workbook) resolve(sheet, ref string) (*Worksheet, CellAddress, error) {
	ws, exists := wb.sheets[sheet]
	if !exists {
		return nil, CellAddress{}, NewRuntimeError("worksheet %s does not exist", sheet)
	}

	addr, err := ParseCellAddress(ref)
	if err != nil {
		return nil, CellAddress{}, err
	}
	return ws, addr, nil
}

// SetValue writes a literal value to a cell, replacing any formula the
// cell previously carried.
func (wb *Workbook) SetValue(sheet, ref string, value Primitive) error {
	ws, addr, err := wb.resolve(sheet, ref)
	if err != nil {
		return err
	}

	cell := ws.cellOrCreate(addr)
	if cell.HasFormula() {
		wb.engine.formulas.RemoveReference(cell.Formula)
		cell.Formula = ""
	}
	cell.Value = value
	return nil
}

// SetFormula attaches a formula (without leading "=") to a cell. The
// formula is not evaluated here; Recalculate computes and stores its
// result. Malformed formulas are rejected immediately.
func (wb *Workbook) SetFormula(sheet, ref string, formula string) error {
	ws, addr, err := wb.resolve(sheet, ref)
	if err != nil {
		return err
	}

	if _, err := wb.engine.formulas.Intern(formula); err != nil {
		return err
	}

	cell := ws.cellOrCreate(addr)
	if cell.HasFormula() {
		wb.engine.formulas.RemoveReference(cell.Formula)
	}
	cell.Formula = formula
	cell.Value = nil
	wb.engine.formulas.AddReference(formula)
	return nil
}

// ClearCell removes a cell entirely, value and formula both.
func (wb *Workbook) ClearCell(sheet, ref string) error {
	ws, addr, err := wb.resolve(sheet, ref)
	if err != nil {
		return err
	}

	if cell, exists := ws.cells[addr]; exists {
		if cell.HasFormula() {
			wb.engine.formulas.RemoveReference(cell.Formula)
		}
		delete(ws.cells, addr)
	}
	return nil
}

// CellValue returns the current stored value of a cell. For formula cells
// this is the result of the last Recalculate, not a fresh evaluation.
func (wb *Workbook) CellValue(sheet, ref string) (Primitive, error) {
	ws, addr, err := wb.resolve(sheet, ref)
	if err != nil {
		return nil, err
	}

	cell := ws.CellAt(addr)
	if cell == nil {
		return nil, nil
	}
	return cell.Value, nil
}

// CellFormula returns the formula text attached to a cell, or "" if the
// cell holds a plain value.
func (wb *Workbook) CellFormula(sheet, ref string) (string, error) {
	ws, addr, err := wb.resolve(sheet, ref)
	if err != nil {
		return "", err
	}

	cell := ws.CellAt(addr)
	if cell == nil {
		return "", nil
	}
	return cell.Formula, nil
}

// Recalculate evaluates every formula cell in the named worksheet in
// row-major order and stores each result in its cell. A formula that fails
// stores its error text (the "#ERROR: ..." form) as the cell value instead
// of aborting the pass. Later cells in the pass see the freshly computed
// values of earlier ones.
func (wb *Workbook) Recalculate(sheet string) error {
	ws, exists := wb.sheets[sheet]
	if !exists {
		return NewRuntimeError("worksheet %s does not exist", sheet)
	}

	for _, addr := range ws.formulaAddresses() {
		cell := ws.cells[addr]
		result, err := wb.engine.Evaluate(cell.Formula, sheet)
		if err != nil {
			cell.Value = err.Error()
			continue
		}
		cell.Value = result
	}
	return nil
}

// RecalculateAll runs Recalculate over every worksheet in order.
func (wb *Workbook) RecalculateAll() error {
	for _, name := range wb.sheetOrder {
		if err := wb.Recalculate(name); err != nil {
			return err
		}
	}
	return nil
}

// DataSource implementation

// GetCellValue resolves a single-cell reference for the engine. Absent
// cells read as nil.
func (wb *Workbook) GetCellValue(sheet, ref string) (Primitive, error) {
	return wb.CellValue(sheet, ref)
}

// GetRangeValues resolves a range reference for the engine, yielding values
// in row-major order with nil for absent cells.
func (wb *Workbook) GetRangeValues(sheet, ref string) ([]Primitive, error) {
	ws, exists := wb.sheets[sheet]
	if !exists {
		return nil, NewRuntimeError("worksheet %s does not exist", sheet)
	}

	rng, err := ParseRangeAddress(ref)
	if err != nil {
		return nil, err
	}

	values := make([]Primitive, 0, rng.Size())
	for addr := range rng.Cells() {
		if cell := ws.CellAt(addr); cell != nil {
			values = append(values, cell.Value)
		} else {
			values = append(values, nil)
		}
	}
	return values, nil
}
