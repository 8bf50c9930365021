package tinakit

import (
	"fmt"
	"strconv"
	"strings"
)

type NodePosition struct {
	Start int
	End   int
}

// ASTNode is the closed set of expression nodes the parser produces. Nodes
// carry no behavior beyond position and debug rendering; evaluation is a
// type switch in the engine so the tree stays a plain, serializable value.
type ASTNode interface {
	GetPosition() NodePosition
	ToString() string
	exprNode()
}

// StringNode represents a string literal
type StringNode struct {
	Value    string
	Position NodePosition
}

func (n *StringNode) GetPosition() NodePosition { return n.Position }

func (n *StringNode) ToString() string {
	escaped := strings.ReplaceAll(n.Value, "\"", "\"\"")
	return fmt.Sprintf("\"%s\"", escaped)
}

// NumberNode represents a numeric literal
type NumberNode struct {
	Value    float64
	Position NodePosition
}

func (n *NumberNode) GetPosition() NodePosition { return n.Position }

func (n *NumberNode) ToString() string {
	// format without unnecessary decimals
	if n.Value == float64(int64(n.Value)) {
		return fmt.Sprintf("%d", int64(n.Value))
	}
	return fmt.Sprintf("%g", n.Value)
}

// CellRefNode represents a single-cell reference such as A1. Ref holds the
// uppercase address text; resolution happens at evaluation time.
type CellRefNode struct {
	Ref      string
	Position NodePosition
}

func (n *CellRefNode) GetPosition() NodePosition { return n.Position }

func (n *CellRefNode) ToString() string { return n.Ref }

// RangeRefNode represents a rectangular range reference such as A1:B2. Only
// valid as a direct function argument.
type RangeRefNode struct {
	Ref      string
	Position NodePosition
}

func (n *RangeRefNode) GetPosition() NodePosition { return n.Position }

func (n *RangeRefNode) ToString() string { return n.Ref }

// BinaryOpNode represents a binary operation
type BinaryOpNode struct {
	Op       string
	Left     ASTNode
	Right    ASTNode
	Position NodePosition
}

func (n *BinaryOpNode) GetPosition() NodePosition { return n.Position }

func (n *BinaryOpNode) ToString() string {
	return fmt.Sprintf("(%s%s%s)", n.Left.ToString(), n.Op, n.Right.ToString())
}

// UnaryOpNode represents a unary prefix operation
type UnaryOpNode struct {
	Op       string
	Operand  ASTNode
	Position NodePosition
}

func (n *UnaryOpNode) GetPosition() NodePosition { return n.Position }

func (n *UnaryOpNode) ToString() string {
	return fmt.Sprintf("%s%s", n.Op, n.Operand.ToString())
}

// FunctionCallNode represents a function call with ordered arguments
type FunctionCallNode struct {
	Name     string
	Args     []ASTNode
	Position NodePosition
}

func (n *FunctionCallNode) GetPosition() NodePosition { return n.Position }

func (n *FunctionCallNode) ToString() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.ToString()
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(n.Name), strings.Join(args, ","))
}

func (n *StringNode) exprNode()       {}
func (n *NumberNode) exprNode()       {}
func (n *CellRefNode) exprNode()      {}
func (n *RangeRefNode) exprNode()     {}
func (n *BinaryOpNode) exprNode()     {}
func (n *UnaryOpNode) exprNode()      {}
func (n *FunctionCallNode) exprNode() {}

// Parser parses a token sequence into an AST via recursive descent with an
// explicit position cursor shared across precedence levels.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser for the given tokens
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseFormula tokenizes and parses a formula string (without the leading
// '=') into an AST.
func ParseFormula(formula string) (ASTNode, error) {
	lexer := NewLexer(formula)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse parses the tokens into an AST. Trailing tokens after a complete
// expression are a syntax error; the partially built tree is discarded.
func (p *Parser) Parse() (ASTNode, error) {
	if len(p.tokens) == 0 || p.tokens[0].Type == TokenEOF {
		return nil, NewSyntaxError(0, "empty formula")
	}

	node, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, NewSyntaxError(tok.Pos, "unexpected token after expression: %s", tok.Value)
	}

	return node, nil
}

// current returns the token at the cursor without consuming it. The EOF
// token is never consumed, so the cursor always points at a valid token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Pos: p.pos}
	}
	return p.tokens[p.pos]
}

// parseComparison handles comparison operators (lowest precedence)
func (p *Parser) parseComparison() (ASTNode, error) {
	left, err := p.parseAddition()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenOperator {
			break
		}
		switch tok.Value {
		case "=", "<>", "<", "<=", ">", ">=":
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseAddition()
		if err != nil {
			return nil, err
		}

		left = &BinaryOpNode{
			Op:       tok.Value,
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}
	}

	return left, nil
}

// parseAddition handles addition, subtraction, and string concatenation,
// which share a precedence tier.
func (p *Parser) parseAddition() (ASTNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenOperator || (tok.Value != "+" && tok.Value != "-" && tok.Value != "&") {
			break
		}

		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		left = &BinaryOpNode{
			Op:       tok.Value,
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}
	}

	return left, nil
}

// parseTerm handles multiplication and division
func (p *Parser) parseTerm() (ASTNode, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenOperator || (tok.Value != "*" && tok.Value != "/") {
			break
		}

		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}

		left = &BinaryOpNode{
			Op:       tok.Value,
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}
	}

	return left, nil
}

// parsePower handles exponentiation
func (p *Parser) parsePower() (ASTNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	// right-associative
	if tok := p.current(); tok.Type == TokenOperator && tok.Value == "^" {
		p.pos++
		right, err := p.parsePower() // recursive for right-associativity
		if err != nil {
			return nil, err
		}

		return &BinaryOpNode{
			Op:       "^",
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}, nil
	}

	return left, nil
}

// parseUnary handles unary prefix operators
func (p *Parser) parseUnary() (ASTNode, error) {
	tok := p.current()

	if tok.Type == TokenOperator && (tok.Value == "+" || tok.Value == "-") {
		p.pos++
		operand, err := p.parseUnary() // recurse for chained unary operators
		if err != nil {
			return nil, err
		}

		return &UnaryOpNode{
			Op:       tok.Value,
			Operand:  operand,
			Position: NodePosition{Start: tok.Pos, End: operand.GetPosition().End},
		}, nil
	}

	return p.parsePrimary()
}

// parsePrimary handles primary expressions: literals, references, function
// calls, and parenthesized expressions.
func (p *Parser) parsePrimary() (ASTNode, error) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.pos++
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, NewSyntaxError(tok.Pos, "invalid number: %s", tok.Value)
		}
		return &NumberNode{
			Value:    val,
			Position: NodePosition{Start: tok.Pos, End: tok.Pos + len(tok.Value)},
		}, nil

	case TokenString:
		p.pos++
		return &StringNode{
			Value:    tok.Value,
			Position: NodePosition{Start: tok.Pos, End: tok.Pos + len(tok.Value) + 2}, // +2 for quotes
		}, nil

	case TokenCell:
		p.pos++
		return &CellRefNode{
			Ref:      tok.Value,
			Position: NodePosition{Start: tok.Pos, End: tok.Pos + len(tok.Value)},
		}, nil

	case TokenRange:
		p.pos++
		return &RangeRefNode{
			Ref:      tok.Value,
			Position: NodePosition{Start: tok.Pos, End: tok.Pos + len(tok.Value)},
		}, nil

	case TokenIdentifier:
		// an identifier is only meaningful as a function name
		if p.peekType(1) != TokenLeftParen {
			return nil, NewSyntaxError(tok.Pos, "expected '(' after identifier %s", tok.Value)
		}
		return p.parseFunctionCall()

	case TokenLeftParen:
		p.pos++
		node, err := p.parseComparison()
		if err != nil {
			return nil, err
		}

		closing := p.current()
		if closing.Type != TokenRightParen {
			return nil, NewSyntaxError(closing.Pos, "expected closing parenthesis, found %s", tokenDescription(closing))
		}
		p.pos++

		return node, nil

	case TokenEOF:
		return nil, NewSyntaxError(tok.Pos, "unexpected end of expression")

	default:
		return nil, NewSyntaxError(tok.Pos, "unexpected token: %s", tok.Value)
	}
}

// parseFunctionCall parses Identifier '(' args ')'
func (p *Parser) parseFunctionCall() (ASTNode, error) {
	funcTok := p.current()
	funcName := funcTok.Value
	startPos := funcTok.Pos
	p.pos++ // consume identifier
	p.pos++ // consume '(' - verified by the caller

	args := []ASTNode{}

	// empty argument list
	if tok := p.current(); tok.Type == TokenRightParen {
		p.pos++
		return &FunctionCallNode{
			Name:     funcName,
			Args:     args,
			Position: NodePosition{Start: startPos, End: tok.Pos + 1},
		}, nil
	}

	for {
		arg, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok := p.current()
		if tok.Type == TokenRightParen {
			p.pos++
			return &FunctionCallNode{
				Name:     funcName,
				Args:     args,
				Position: NodePosition{Start: startPos, End: tok.Pos + 1},
			}, nil
		}

		if tok.Type != TokenComma {
			return nil, NewSyntaxError(tok.Pos, "expected ',' or ')' in function arguments, found %s", tokenDescription(tok))
		}
		p.pos++
	}
}

// peekType returns the type of the token at the given offset from the cursor
func (p *Parser) peekType(offset int) TokenType {
	pos := p.pos + offset
	if pos >= len(p.tokens) {
		return TokenEOF
	}
	return p.tokens[pos].Type
}

// tokenDescription renders a token for error messages
func tokenDescription(tok Token) string {
	if tok.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Value)
}
