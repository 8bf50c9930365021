package tinakit

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// CellAddress identifies a single cell by 0-based row and column indices.
type CellAddress struct {
	Row    uint32
	Column uint32
}

// RangeAddress represents a rectangular block of cells. Corners are
// normalized so start is always less than or equal to end on both axes.
type RangeAddress struct {
	StartRow    uint32
	StartColumn uint32
	EndRow      uint32
	EndColumn   uint32
}

// ParseCellAddress parses a cell address like "A1" or "ab10" into 0-based
// row and column indices. Matching is case-insensitive.
func ParseCellAddress(cell string) (CellAddress, error) {
	if len(cell) < 2 {
		return CellAddress{}, NewRuntimeError("invalid cell reference: %s", cell)
	}

	// find where letters end and numbers begin
	letterEnd := 0
	for i, ch := range cell {
		if ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' {
			letterEnd = i + 1
		} else {
			break
		}
	}

	if letterEnd == 0 || letterEnd == len(cell) {
		return CellAddress{}, NewRuntimeError("invalid cell reference: %s", cell)
	}

	// parse column (A=0, B=1, ..., Z=25, AA=26, AB=27, ...)
	colStr := strings.ToUpper(cell[:letterEnd])
	col := uint32(0)
	for i, ch := range colStr {
		col = col*26 + uint32(ch-'A')
		if i < len(colStr)-1 {
			col++ // account for positional notation
		}
	}

	// parse row (1-based in notation, but we want 0-based)
	rowStr := cell[letterEnd:]
	rowNum, err := strconv.ParseInt(rowStr, 10, 32)
	if err != nil {
		return CellAddress{}, NewRuntimeError("invalid row number: %s", rowStr)
	}
	if rowNum < 1 {
		return CellAddress{}, NewRuntimeError("row number must be positive: %d", rowNum)
	}

	return CellAddress{Row: uint32(rowNum - 1), Column: col}, nil
}

// ParseRangeAddress parses a range address like "A1:B2" into a normalized
// RangeAddress.
func ParseRangeAddress(rangeRef string) (RangeAddress, error) {
	parts := strings.Split(rangeRef, ":")
	if len(parts) != 2 {
		return RangeAddress{}, NewRuntimeError("invalid range format: %s", rangeRef)
	}

	start, err := ParseCellAddress(parts[0])
	if err != nil {
		return RangeAddress{}, NewRuntimeError("invalid start cell in range: %s", parts[0])
	}

	end, err := ParseCellAddress(parts[1])
	if err != nil {
		return RangeAddress{}, NewRuntimeError("invalid end cell in range: %s", parts[1])
	}

	// normalize the range so start is always less than or equal to end
	return RangeAddress{
		StartRow:    min(start.Row, end.Row),
		StartColumn: min(start.Column, end.Column),
		EndRow:      max(start.Row, end.Row),
		EndColumn:   max(start.Column, end.Column),
	}, nil
}

// Cells returns an iterator over the addresses covered by the range in
// row-major order: left to right within a row, top row first.
func (r RangeAddress) Cells() iter.Seq[CellAddress] {
	return func(yield func(CellAddress) bool) {
		for row := r.StartRow; row <= r.EndRow; row++ {
			for col := r.StartColumn; col <= r.EndColumn; col++ {
				if !yield(CellAddress{Row: row, Column: col}) {
					return
				}
			}
		}
	}
}

// Size returns the number of cells covered by the range.
func (r RangeAddress) Size() int {
	rows := int(r.EndRow-r.StartRow) + 1
	cols := int(r.EndColumn-r.StartColumn) + 1
	return rows * cols
}

// String renders the address in A1 notation.
func (a CellAddress) String() string {
	return columnName(a.Column) + strconv.FormatUint(uint64(a.Row)+1, 10)
}

// String renders the range in A1:B2 notation.
func (r RangeAddress) String() string {
	start := CellAddress{Row: r.StartRow, Column: r.StartColumn}
	end := CellAddress{Row: r.EndRow, Column: r.EndColumn}
	return fmt.Sprintf("%s:%s", start, end)
}

// columnName converts a 0-based column index to its letter form
// (0 -> A, 25 -> Z, 26 -> AA).
func columnName(col uint32) string {
	name := ""
	for {
		name = string(rune('A'+col%26)) + name
		if col < 26 {
			break
		}
		col = col/26 - 1
	}
	return name
}
