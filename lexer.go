package tinakit

// TokenType represents different types of tokens in formulas
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenString
	TokenCell
	TokenRange
	TokenIdentifier
	TokenOperator
	TokenLeftParen
	TokenRightParen
	TokenComma
)

// character classification constants. slightly easier to read.
const (
	charNull       = 0
	charTab        = '\t'
	charNewline    = '\n'
	charReturn     = '\r'
	charSpace      = ' '
	charQuote      = '"'
	charAmpersand  = '&'
	charLParen     = '('
	charRParen     = ')'
	charAsterisk   = '*'
	charPlus       = '+'
	charComma      = ','
	charMinus      = '-'
	charPeriod     = '.'
	charSlash      = '/'
	charColon      = ':'
	charLess       = '<'
	charEqual      = '='
	charGreater    = '>'
	charCaret      = '^'
	charUnderscore = '_'
)

// Token represents a lexical token with position information
type Token struct {
	Type  TokenType
	Value string
	Pos   int // rune position in input
}

// Lexer tokenizes spreadsheet formula expressions. The input is the formula
// text without a leading '='. The lexer is context-free: '+' and '-' are
// always emitted as Operator tokens and the parser decides unary vs. binary
// by position.
type Lexer struct {
	input string
	runes []rune // UTF-8 aware representation
	pos   int
}

// NewLexer creates a new lexer for the given formula input
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		runes: []rune(input), // runes for UTF-8 support. could do without but a real pain
		pos:   0,
	}
}

// Tokenize scans the entire input and returns the full token sequence,
// terminated by exactly one EOF token. On a lexical error no tokens are
// returned.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := []Token{}

	for {
		l.skipWhitespace()
		if l.pos >= len(l.runes) {
			break
		}
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	tokens = append(tokens, Token{Type: TokenEOF, Pos: l.pos})
	return tokens, nil
}

// nextToken returns the next token from the input. whitespace has already
// been skipped and at least one rune remains.
func (l *Lexer) nextToken() (Token, error) {
	startPos := l.pos
	ch := l.current()

	// string literals
	if ch == charQuote {
		return l.scanString()
	}

	// numbers, including a leading decimal point as in ".5"
	if l.isDigit(ch) || (ch == charPeriod && l.isDigit(l.peek(1))) {
		return l.scanNumber(), nil
	}

	// identifiers, cells, and ranges
	if l.isAlpha(ch) || ch == charUnderscore {
		return l.scanIdentifierOrCell(), nil
	}

	// structural characters
	switch ch {
	case charLParen:
		l.pos++
		return Token{Type: TokenLeftParen, Value: "(", Pos: startPos}, nil
	case charRParen:
		l.pos++
		return Token{Type: TokenRightParen, Value: ")", Pos: startPos}, nil
	case charComma:
		l.pos++
		return Token{Type: TokenComma, Value: ",", Pos: startPos}, nil
	case charPlus, charMinus, charAsterisk, charSlash, charCaret, charAmpersand, charEqual:
		l.pos++
		return Token{Type: TokenOperator, Value: string(ch), Pos: startPos}, nil
	case charLess, charGreater:
		return l.scanComparisonOp(), nil
	}

	// unknown character
	return Token{}, NewSyntaxError(startPos, "unexpected character %q", string(ch))
}

// helper methods for character navigation and classification

// substring returns a substring of the original input based on rune positions
func (l *Lexer) substring(start, end int) string {
	if start < 0 || end > len(l.runes) || start > end {
		return ""
	}
	return string(l.runes[start:end])
}

func (l *Lexer) current() rune {
	if l.pos >= len(l.runes) {
		return charNull
	}
	return l.runes[l.pos]
}

func (l *Lexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos >= len(l.runes) || pos < 0 {
		return charNull
	}
	return l.runes[pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.runes) {
		ch := l.current()
		if ch == charSpace || ch == charTab || ch == charNewline || ch == charReturn {
			l.pos++
		} else {
			break
		}
	}
}

func (l *Lexer) isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func (l *Lexer) isAlphaNumeric(ch rune) bool {
	return l.isAlpha(ch) || l.isDigit(ch)
}

// scanNumber scans a number token: contiguous digits with at most one
// decimal point.
func (l *Lexer) scanNumber() Token {
	startPos := l.pos

	for l.pos < len(l.runes) && l.isDigit(l.current()) {
		l.pos++
	}

	if l.current() == charPeriod && l.isDigit(l.peek(1)) {
		l.pos++ // consume '.'
		for l.pos < len(l.runes) && l.isDigit(l.current()) {
			l.pos++
		}
	}

	value := l.substring(startPos, l.pos)
	return Token{Type: TokenNumber, Value: value, Pos: startPos}
}

// scanString scans a double-quoted string literal. No escape sequences are
// interpreted; the first closing quote ends the literal.
func (l *Lexer) scanString() (Token, error) {
	startPos := l.pos
	l.pos++ // consume opening quote

	contentStart := l.pos
	for l.pos < len(l.runes) {
		if l.current() == charQuote {
			value := l.substring(contentStart, l.pos)
			l.pos++ // consume closing quote
			return Token{Type: TokenString, Value: value, Pos: startPos}, nil
		}
		l.pos++
	}

	return Token{}, NewSyntaxError(startPos, "unterminated string literal")
}

// scanIdentifierOrCell scans a run of identifier characters and classifies
// it as a cell reference, a range reference, or a plain identifier. Cell and
// range token text is normalized to uppercase.
func (l *Lexer) scanIdentifierOrCell() Token {
	startPos := l.pos

	for l.pos < len(l.runes) && (l.isAlphaNumeric(l.current()) || l.current() == charUnderscore) {
		l.pos++
	}

	value := l.substring(startPos, l.pos)

	if isCellText(value) {
		// check for range (A1:B2)
		if l.current() == charColon && l.isAlpha(l.peek(1)) {
			savedPos := l.pos
			l.pos++ // consume ':'

			secondStart := l.pos
			for l.pos < len(l.runes) && l.isAlphaNumeric(l.current()) {
				l.pos++
			}

			secondCell := l.substring(secondStart, l.pos)
			if isCellText(secondCell) {
				rangeValue := upperASCII(value) + ":" + upperASCII(secondCell)
				return Token{Type: TokenRange, Value: rangeValue, Pos: startPos}
			}
			// not a valid range, restore position and return just the cell
			l.pos = savedPos
		}
		return Token{Type: TokenCell, Value: upperASCII(value), Pos: startPos}
	}

	// function-name candidate or other identifier; the parser decides
	return Token{Type: TokenIdentifier, Value: value, Pos: startPos}
}

// isCellText checks if a string is a valid cell reference (e.g. A1, b12,
// AA10): one or more letters followed by one or more digits.
func isCellText(s string) bool {
	if len(s) < 2 {
		return false
	}

	// find where letters end and numbers begin
	letterEnd := 0
	for i, ch := range s {
		if ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' {
			letterEnd = i + 1
		} else {
			break
		}
	}

	// must have at least one letter and one digit
	if letterEnd == 0 || letterEnd == len(s) {
		return false
	}

	// check remaining characters are all digits
	for i := letterEnd; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// upperASCII converts a string to uppercase
func upperASCII(s string) string {
	result := make([]rune, len(s))
	for i, ch := range s {
		if ch >= 'a' && ch <= 'z' {
			result[i] = ch - 32
		} else {
			result[i] = ch
		}
	}
	return string(result)
}

// scanComparisonOp scans < <= <> > >=, matching two-character operators
// greedily before one-character ones.
func (l *Lexer) scanComparisonOp() Token {
	startPos := l.pos
	ch := l.current()

	if ch == charLess {
		l.pos++
		if l.current() == charEqual {
			l.pos++
			return Token{Type: TokenOperator, Value: "<=", Pos: startPos}
		} else if l.current() == charGreater {
			l.pos++
			return Token{Type: TokenOperator, Value: "<>", Pos: startPos}
		}
		return Token{Type: TokenOperator, Value: "<", Pos: startPos}
	}

	l.pos++
	if l.current() == charEqual {
		l.pos++
		return Token{Type: TokenOperator, Value: ">=", Pos: startPos}
	}
	return Token{Type: TokenOperator, Value: ">", Pos: startPos}
}
