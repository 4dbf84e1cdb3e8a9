// Package chain provides parsing for hydra chain expressions.
//
// A chain expression is a generator call followed by zero or more
// modifier calls, for example:
//
//	noise(4).color(0,1,0,1)
//
// The package only recognizes the syntactic shape (identifiers,
// numeric arguments, dots, parentheses); the operation catalog and
// generator/modifier distinction live in the graph package.
package chain

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota

	TokenIdent
	TokenNumber

	TokenDot        // .
	TokenComma      // ,
	TokenLeftParen  // (
	TokenRightParen // )
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenDot:
		return "'.'"
	case TokenComma:
		return "','"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	}
	return "unknown token"
}

// Token represents a single lexical token.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
}

// Position represents a location in the source text.
type Position struct {
	Line   int
	Column int
}

// Span represents a source range.
type Span struct {
	Start Position
	End   Position
}

func (t Token) span() Span {
	return Span{
		Start: Position{Line: t.Line, Column: t.Column},
		End:   Position{Line: t.Line, Column: t.Column + len(t.Lexeme)},
	}
}
