package chain

import (
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes chain expression source text.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  int
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, 16),
	}
}

// Tokenize returns all tokens from the source.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.pos
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	startLine, startColumn := l.line, l.column
	r := l.advance()

	switch r {
	case '(':
		l.addToken(TokenLeftParen, startLine, startColumn)
	case ')':
		l.addToken(TokenRightParen, startLine, startColumn)
	case ',':
		l.addToken(TokenComma, startLine, startColumn)
	case '.':
		// A dot starting a fractional number (".5") belongs to the
		// number; a dot followed by anything else is the chain operator.
		if isDigit(rune(l.peek())) {
			l.number()
			l.addToken(TokenNumber, startLine, startColumn)
		} else {
			l.addToken(TokenDot, startLine, startColumn)
		}
	case '+', '-':
		if isDigit(rune(l.peek())) || (l.peek() == '.' && isDigit(rune(l.peekNext()))) {
			l.number()
			l.addToken(TokenNumber, startLine, startColumn)
		} else {
			return l.errorToken(startLine, startColumn)
		}

	// Whitespace (newlines are insignificant in chain text)
	case ' ', '\r', '\t':
	case '\n':
		l.line++
		l.column = 1

	default:
		switch {
		case isDigit(r):
			l.number()
			l.addToken(TokenNumber, startLine, startColumn)
		case isAlpha(r) || r == '_':
			l.identifier()
			l.addToken(TokenIdent, startLine, startColumn)
		default:
			return l.errorToken(startLine, startColumn)
		}
	}

	return nil
}

func (l *Lexer) number() {
	for isDigit(rune(l.peek())) {
		l.advance()
	}

	// Fractional part
	if l.peek() == '.' && isDigit(rune(l.peekNext())) {
		l.advance()
		for isDigit(rune(l.peek())) {
			l.advance()
		}
	}

	// Exponent
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekNext()
		if isDigit(rune(next)) || next == '+' || next == '-' {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(rune(l.peek())) {
				l.advance()
			}
		}
	}
}

func (l *Lexer) identifier() {
	for isAlpha(rune(l.peek())) || isDigit(rune(l.peek())) || l.peek() == '_' {
		l.advance()
	}
}

func (l *Lexer) errorToken(line, column int) error {
	return &SyntaxError{
		Message: "unexpected character " + quoteRune(l.source[l.start:l.pos]),
		Span: Span{
			Start: Position{Line: line, Column: column},
			End:   Position{Line: l.line, Column: l.column},
		},
		Source: l.source,
	}
}

func (l *Lexer) addToken(kind TokenKind, line, column int) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Line:   line,
		Column: column,
	})
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	l.column++
	return r
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func quoteRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return "'?'"
	}
	if unicode.IsPrint(r) {
		return "'" + string(r) + "'"
	}
	return "'?'"
}
