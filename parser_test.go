package tinakit

import (
	"testing"
)

func parseOK(formula string) bool {
	_, err := ParseFormula(formula)
	return err == nil
}

func TestParserValidFormulas(t *testing.T) {
	validFormulas := []string{
		"1+2",
		"A1",
		"SUM(A1:A10)",
		"SUM(B2:A1)",
		"SUM(A1:A1)",
		"SUM(A1:Z1000)",
		"SUM(A1,A3,A5)",
		"SUM()",
		"IF(A1>10,\"big\",\"small\")",
		"AVERAGE(A1:A5)*2",
		"-A1",
		"--1",
		"1++2",
		"2^3^2",
		"(1+2)*3",
		"\"hello\"&\" \"&\"world\"",
		"A1<>B1",
		"A1<=B1",
		"sum(a1:a5)",
	}

	for _, formula := range validFormulas {
		t.Run(formula, func(t *testing.T) {
			if !parseOK(formula) {
				t.Errorf("Failed to parse valid formula: %s", formula)
			}
		})
	}
}

func TestParserInvalidFormulas(t *testing.T) {
	invalidFormulas := []string{
		"",
		"1 + * 2",
		"SUM(",
		"SUM(A1,",
		"(1+2",
		"1+2)",
		"1 2",
		`"hello`,
		"A1:",
		"+",
		"1+",
		"SUM A1",
		"INVALID_NAME",
	}

	for _, formula := range invalidFormulas {
		t.Run(formula, func(t *testing.T) {
			if parseOK(formula) {
				t.Errorf("Expected formula to fail but it succeeded: %s", formula)
			}
		})
	}
}

func TestParserPrecedence(t *testing.T) {
	// ToString parenthesizes every binary node, exposing the tree shape
	cases := map[string]string{
		"1+2*3":     "(1+(2*3))",
		"1*2+3":     "((1*2)+3)",
		"1+2-3":     "((1+2)-3)",
		"8/4/2":     "((8/4)/2)",
		"2^3^2":     "(2^(3^2))",
		"-2^2":      "(-2^2)",
		"1+2=3":     "((1+2)=3)",
		"1&2+3":     "(1&(2+3))",
		"(1+2)*3":   "((1+2)*3)",
	}

	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			ast, err := ParseFormula(input)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if got := ast.ToString(); got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestParserFunctionNameCasePreserved(t *testing.T) {
	ast, err := ParseFormula("sum(a1)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	call, ok := ast.(*FunctionCallNode)
	if !ok {
		t.Fatalf("got %T, want *FunctionCallNode", ast)
	}
	// lookup is case-insensitive so the raw name survives in the node
	if call.Name != "sum" {
		t.Errorf("got name %q, want sum", call.Name)
	}
	if call.ToString() != "SUM(A1)" {
		t.Errorf("got %q, want SUM(A1)", call.ToString())
	}
}

func TestParserSyntaxErrorKind(t *testing.T) {
	_, err := ParseFormula("1 + * 2")
	if err == nil {
		t.Fatal("expected error")
	}

	formulaErr, ok := err.(*FormulaError)
	if !ok {
		t.Fatalf("got %T, want *FormulaError", err)
	}
	if formulaErr.Kind != ErrSyntax {
		t.Errorf("got kind %v, want ErrSyntax", formulaErr.Kind)
	}
}

func TestParserRangeOnlyInsideFunctions(t *testing.T) {
	// the grammar accepts a bare range; rejecting it outside a function
	// argument is the evaluator's job
	ast, err := ParseFormula("A1:B2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, ok := ast.(*RangeRefNode); !ok {
		t.Errorf("got %T, want *RangeRefNode", ast)
	}
}

func TestParserNestedCalls(t *testing.T) {
	ast, err := ParseFormula("IF(SUM(A1:A3)>10,MAX(B1,B2),MIN(B1,B2))")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := "IF((SUM(A1:A3)>10),MAX(B1,B2),MIN(B1,B2))"
	if got := ast.ToString(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
