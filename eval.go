package tinakit

import (
	"math"
)

// evalNode evaluates an AST node against sheet. Evaluation is a type switch
// over the closed node set rather than a method per node, so the language
// semantics live in one place.
func (e *Engine) evalNode(node ASTNode, sheet string) (Primitive, error) {
	switch n := node.(type) {
	case *NumberNode:
		return n.Value, nil

	case *StringNode:
		return n.Value, nil

	case *CellRefNode:
		return e.data.GetCellValue(sheet, n.Ref)

	case *RangeRefNode:
		// ranges only flatten inside function argument lists
		return nil, NewRuntimeError("range %s is not valid outside a function call", n.Ref)

	case *UnaryOpNode:
		return e.evalUnaryOp(n, sheet)

	case *BinaryOpNode:
		return e.evalBinaryOp(n, sheet)

	case *FunctionCallNode:
		return e.evalFunctionCall(n, sheet)

	default:
		return nil, NewRuntimeError("unsupported expression node %T", node)
	}
}

func (e *Engine) evalUnaryOp(node *UnaryOpNode, sheet string) (Primitive, error) {
	operand, err := e.evalNode(node.Operand, sheet)
	if err != nil {
		return nil, err
	}

	num, err := coerceNumber(operand)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case "-":
		return -num, nil
	case "+":
		return num, nil
	default:
		return nil, NewRuntimeError("unknown unary operator %q", node.Op)
	}
}

func (e *Engine) evalBinaryOp(node *BinaryOpNode, sheet string) (Primitive, error) {
	left, err := e.evalNode(node.Left, sheet)
	if err != nil {
		return nil, err
	}
	right, err := e.evalNode(node.Right, sheet)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case "+", "-", "*", "/", "^":
		return evalArithmetic(node.Op, left, right)
	case "&":
		return toString(left) + toString(right), nil
	case "=":
		return comparePrimitives(left, right) == 0, nil
	case "<>":
		return comparePrimitives(left, right) != 0, nil
	case "<":
		return comparePrimitives(left, right) < 0, nil
	case "<=":
		return comparePrimitives(left, right) <= 0, nil
	case ">":
		return comparePrimitives(left, right) > 0, nil
	case ">=":
		return comparePrimitives(left, right) >= 0, nil
	default:
		return nil, NewRuntimeError("unknown operator %q", node.Op)
	}
}

func evalArithmetic(op string, left, right Primitive) (Primitive, error) {
	leftNum, err := coerceNumber(left)
	if err != nil {
		return nil, err
	}
	rightNum, err := coerceNumber(right)
	if err != nil {
		return nil, err
	}

	switch op {
	case "+":
		return leftNum + rightNum, nil
	case "-":
		return leftNum - rightNum, nil
	case "*":
		return leftNum * rightNum, nil
	case "/":
		if rightNum == 0 {
			return nil, NewRuntimeError("division by zero")
		}
		return leftNum / rightNum, nil
	case "^":
		result := math.Pow(leftNum, rightNum)
		if math.IsNaN(result) || math.IsInf(result, 0) {
			return nil, NewRuntimeError("%g^%g is not a finite number", leftNum, rightNum)
		}
		return result, nil
	default:
		return nil, NewRuntimeError("unknown arithmetic operator %q", op)
	}
}

func (e *Engine) evalFunctionCall(node *FunctionCallNode, sheet string) (Primitive, error) {
	fn, ok := e.functions.Lookup(node.Name)
	if !ok {
		return nil, NewRuntimeError("unknown function: %s", node.Name)
	}

	args, err := e.collectArgs(node.Args, sheet)
	if err != nil {
		return nil, err
	}

	return fn(args)
}

// collectArgs evaluates argument expressions in order. A range argument
// expands to all of its cell values in row-major order; every other
// expression contributes exactly one value.
func (e *Engine) collectArgs(exprs []ASTNode, sheet string) ([]Primitive, error) {
	args := make([]Primitive, 0, len(exprs))
	for _, expr := range exprs {
		if rangeRef, ok := expr.(*RangeRefNode); ok {
			values, err := e.data.GetRangeValues(sheet, rangeRef.Ref)
			if err != nil {
				return nil, err
			}
			args = append(args, values...)
			continue
		}

		value, err := e.evalNode(expr, sheet)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	return args, nil
}
