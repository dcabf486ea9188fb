package expression

import (
	"fmt"
	"strconv"
)

const (
	// DefaultMaxLength bounds the size of a single formula
	DefaultMaxLength = 4096

	// DefaultMaxDepth bounds operator nesting
	DefaultMaxDepth = 64
)

// ParseError represents a syntax error with position information
type ParseError struct {
	Message  string
	Position int
	Token    Token
}

func (pe *ParseError) Error() string {
	if pe.Token.Type == TokenEOF {
		return fmt.Sprintf("syntax error at position %d: %s (at end of expression)", pe.Position, pe.Message)
	}
	return fmt.Sprintf("syntax error at position %d: %s (near '%s')", pe.Position, pe.Message, pe.Token.Value)
}

// Parser is a recursive descent parser for formulas
type Parser struct {
	lexer    *Lexer
	current  Token
	depth    int
	maxDepth int
}

// Parse parses a complete formula into a syntax tree
func Parse(input string) (Node, error) {
	if len(input) > DefaultMaxLength {
		return nil, fmt.Errorf("expression exceeds maximum length: %d > %d", len(input), DefaultMaxLength)
	}

	p := &Parser{lexer: NewLexer(input), maxDepth: DefaultMaxDepth}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.current.Type == TokenEOF {
		return nil, p.errorf("empty expression")
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenEOF {
		return nil, p.errorf("unexpected token after expression")
	}
	return node, nil
}

func (p *Parser) advance() error {
	p.current = p.lexer.NextToken()
	if p.current.Type == TokenIllegal {
		return &ParseError{
			Message:  "illegal character",
			Position: p.current.Position,
			Token:    p.current,
		}
	}
	return nil
}

func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.errorf("expected '%s'", tt)
	}
	return p.advance()
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: p.current.Position,
		Token:    p.current,
	}
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf("expression nested deeper than %d levels", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// parseExpression is the grammar entry point
func (p *Parser) parseExpression() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseConditional()
}

// conditional := or ( "?" conditional ":" conditional )?
func (p *Parser) parseConditional() (Node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenQuestion {
		return cond, nil
	}

	pos := p.current.Position
	if err := p.advance(); err != nil {
		return nil, err
	}
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	otherwise, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Conditional{Cond: cond, Then: then, Otherwise: otherwise, Offset: pos}, nil
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenOr {
		op := p.current
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: op.Type, Left: left, Right: right, Offset: op.Position}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenAnd {
		op := p.current
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: op.Type, Left: left, Right: right, Offset: op.Position}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Node, error) {
	return p.parseBinaryLevel(p.parseComparison, TokenEq, TokenNotEq, TokenStrictEq, TokenStrictNeq)
}

func (p *Parser) parseComparison() (Node, error) {
	return p.parseBinaryLevel(p.parseAdditive, TokenLess, TokenLessEq, TokenGreater, TokenGreaterEq)
}

func (p *Parser) parseAdditive() (Node, error) {
	return p.parseBinaryLevel(p.parseMultiplicative, TokenPlus, TokenMinus)
}

func (p *Parser) parseMultiplicative() (Node, error) {
	return p.parseBinaryLevel(p.parseUnary, TokenStar, TokenSlash, TokenPercent)
}

// parseBinaryLevel parses a left-associative chain of the given operators
func (p *Parser) parseBinaryLevel(next func() (Node, error), ops ...TokenType) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for matches(p.current.Type, ops) {
		op := p.current
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op.Type, Left: left, Right: right, Offset: op.Position}
	}
	return left, nil
}

// unary := ("-" | "+" | "!") unary | power
func (p *Parser) parseUnary() (Node, error) {
	switch p.current.Type {
	case TokenMinus, TokenPlus, TokenNot:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		op := p.current
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op.Type, Operand: operand, Offset: op.Position}, nil
	}
	return p.parsePower()
}

// power := call ( "**" unary )?   (right associative)
func (p *Parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenPower {
		return base, nil
	}

	op := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}
	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: TokenPower, Left: base, Right: exponent, Offset: op.Position}, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current

	switch tok.Type {
	case TokenNumber:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorf("invalid number literal")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NumberLit{Value: f, Offset: tok.Position}, nil

	case TokenString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StringLit{Value: tok.Value, Offset: tok.Position}, nil

	case TokenTrue, TokenFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &BoolLit{Value: tok.Type == TokenTrue, Offset: tok.Position}, nil

	case TokenIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.Type == TokenLeftParen {
			return p.parseCall(tok)
		}
		return &Ident{Name: tok.Value, Offset: tok.Position}, nil

	case TokenLeftParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenEOF:
		return nil, p.errorf("unexpected end of expression")

	default:
		return nil, p.errorf("unexpected token")
	}
}

// parseCall parses the argument list after a function name
func (p *Parser) parseCall(name Token) (Node, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}

	call := &Call{Name: name.Value, Offset: name.Position}
	if p.current.Type == TokenRightParen {
		return call, p.advance()
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		if p.current.Type == TokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return call, nil
	}
}

func matches(tt TokenType, ops []TokenType) bool {
	for _, op := range ops {
		if tt == op {
			return true
		}
	}
	return false
}
