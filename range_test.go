package tinakit

import (
	"testing"
)

func TestParseCellAddress(t *testing.T) {
	cases := []struct {
		input string
		row   uint32
		col   uint32
	}{
		{"A1", 0, 0},
		{"B2", 1, 1},
		{"Z1", 0, 25},
		{"AA1", 0, 26},
		{"AB10", 9, 27},
		{"a1", 0, 0},
		{"zz100", 99, 701},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			addr, err := ParseCellAddress(tc.input)
			if err != nil {
				t.Fatalf("ParseCellAddress(%q) failed: %v", tc.input, err)
			}
			if addr.Row != tc.row || addr.Column != tc.col {
				t.Errorf("got (%d,%d), want (%d,%d)", addr.Row, addr.Column, tc.row, tc.col)
			}
		})
	}
}

func TestParseCellAddressInvalid(t *testing.T) {
	invalid := []string{"", "A", "1", "1A", "A0", "A-1", "A1B", "!!"}
	for _, input := range invalid {
		if _, err := ParseCellAddress(input); err == nil {
			t.Errorf("ParseCellAddress(%q) should fail", input)
		}
	}
}

func TestParseRangeAddressNormalization(t *testing.T) {
	// corners normalize so B2:A1 covers the same cells as A1:B2
	forward, err := ParseRangeAddress("A1:B2")
	if err != nil {
		t.Fatal(err)
	}
	backward, err := ParseRangeAddress("B2:A1")
	if err != nil {
		t.Fatal(err)
	}
	if forward != backward {
		t.Errorf("B2:A1 normalized to %+v, want %+v", backward, forward)
	}
}

func TestParseRangeAddressInvalid(t *testing.T) {
	invalid := []string{"A1", "A1:", ":B2", "A1:B2:C3", "A1:XX", ""}
	for _, input := range invalid {
		if _, err := ParseRangeAddress(input); err == nil {
			t.Errorf("ParseRangeAddress(%q) should fail", input)
		}
	}
}

func TestRangeCellsRowMajor(t *testing.T) {
	rng, err := ParseRangeAddress("A1:B2")
	if err != nil {
		t.Fatal(err)
	}

	want := []CellAddress{
		{Row: 0, Column: 0},
		{Row: 0, Column: 1},
		{Row: 1, Column: 0},
		{Row: 1, Column: 1},
	}

	got := make([]CellAddress, 0, 4)
	for addr := range rng.Cells() {
		got = append(got, addr)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d addresses, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("address %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRangeSize(t *testing.T) {
	cases := map[string]int{
		"A1:A1":   1,
		"A1:A5":   5,
		"A1:B2":   4,
		"A1:C3":   9,
		"A1:Z100": 2600,
	}

	for input, want := range cases {
		rng, err := ParseRangeAddress(input)
		if err != nil {
			t.Fatal(err)
		}
		if got := rng.Size(); got != want {
			t.Errorf("%s: got size %d, want %d", input, got, want)
		}
	}
}

func TestCellAddressString(t *testing.T) {
	cases := map[CellAddress]string{
		{Row: 0, Column: 0}:   "A1",
		{Row: 9, Column: 27}:  "AB10",
		{Row: 99, Column: 25}: "Z100",
	}

	for addr, want := range cases {
		if got := addr.String(); got != want {
			t.Errorf("%+v: got %q, want %q", addr, got, want)
		}
	}
}
