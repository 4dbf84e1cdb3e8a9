package chain

import (
	"fmt"
	"strconv"
)

// Parser parses chain tokens into a Chain.
type Parser struct {
	tokens  []Token
	source  string
	current int
}

// NewParser creates a new parser for the given tokens.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse is a convenience that lexes and parses source in one step.
func Parse(source string) (*Chain, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens)
	p.source = source
	return p.Parse()
}

// Parse parses the tokens and returns a Chain.
//
// Grammar:
//
//	chain := call ('.' call)*
//	call  := ident '(' (number (',' number)*)? ')'
func (p *Parser) Parse() (*Chain, error) {
	if p.check(TokenEOF) {
		return nil, ErrEmptyChain
	}

	c := &Chain{}

	call, err := p.call()
	if err != nil {
		return nil, err
	}
	c.Calls = append(c.Calls, call)

	for p.match(TokenDot) {
		call, err := p.call()
		if err != nil {
			return nil, err
		}
		c.Calls = append(c.Calls, call)
	}

	if !p.check(TokenEOF) {
		return nil, p.errorf(p.peek(), "trailing %s %q after chain", p.peek().Kind, p.peek().Lexeme)
	}

	return c, nil
}

func (p *Parser) call() (Call, error) {
	name := p.peek()
	if name.Kind != TokenIdent {
		return Call{}, p.errorf(name, "expected identifier, found %s", name.Kind)
	}
	p.advance()

	if !p.match(TokenLeftParen) {
		return Call{}, p.errorf(p.peek(), "expected '(' after %q", name.Lexeme)
	}

	call := Call{Name: name.Lexeme, Span: name.span()}

	if !p.check(TokenRightParen) {
		for {
			arg, err := p.number()
			if err != nil {
				return Call{}, err
			}
			call.Args = append(call.Args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}

	if !p.match(TokenRightParen) {
		tok := p.peek()
		if tok.Kind == TokenEOF {
			return Call{}, p.errorf(tok, "unmatched '(' in call to %q", name.Lexeme)
		}
		return Call{}, p.errorf(tok, "expected ')' or ',' in call to %q, found %s", name.Lexeme, tok.Kind)
	}

	call.Span.End = Position{
		Line:   p.previous().Line,
		Column: p.previous().Column + len(p.previous().Lexeme),
	}
	return call, nil
}

func (p *Parser) number() (float32, error) {
	tok := p.peek()
	if tok.Kind != TokenNumber {
		if tok.Kind == TokenEOF {
			return 0, p.errorf(tok, "unexpected end of input in argument list")
		}
		return 0, p.errorf(tok, "expected number, found %s %q", tok.Kind, tok.Lexeme)
	}
	p.advance()

	v, err := strconv.ParseFloat(tok.Lexeme, 32)
	if err != nil {
		return 0, p.errorf(tok, "invalid number %q", tok.Lexeme)
	}
	return float32(v), nil
}

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Span:    tok.span(),
		Source:  p.source,
	}
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() Token {
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return p.previous()
}
