package expression

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	// Identifiers and literals
	TokenIdentifier // grossAnnual, Math.max
	TokenNumber     // 12, 0.5, 1e3
	TokenString     // "single", 'married'
	TokenTrue       // true
	TokenFalse      // false

	// Arithmetic
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
	TokenPower   // **

	// Comparison
	TokenEq        // ==
	TokenNotEq     // !=
	TokenStrictEq  // ===
	TokenStrictNeq // !==
	TokenLess      // <
	TokenLessEq    // <=
	TokenGreater   // >
	TokenGreaterEq // >=

	// Logical
	TokenAnd // &&
	TokenOr  // ||
	TokenNot // !

	// Delimiters
	TokenQuestion   // ?
	TokenColon      // :
	TokenLeftParen  // (
	TokenRightParen // )
	TokenComma      // ,
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenIllegal:    "ILLEGAL",
	TokenIdentifier: "IDENTIFIER",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenTrue:       "TRUE",
	TokenFalse:      "FALSE",
	TokenPlus:       "+",
	TokenMinus:      "-",
	TokenStar:       "*",
	TokenSlash:      "/",
	TokenPercent:    "%",
	TokenPower:      "**",
	TokenEq:         "==",
	TokenNotEq:      "!=",
	TokenStrictEq:   "===",
	TokenStrictNeq:  "!==",
	TokenLess:       "<",
	TokenLessEq:     "<=",
	TokenGreater:    ">",
	TokenGreaterEq:  ">=",
	TokenAnd:        "&&",
	TokenOr:         "||",
	TokenNot:        "!",
	TokenQuestion:   "?",
	TokenColon:      ":",
	TokenLeftParen:  "(",
	TokenRightParen: ")",
	TokenComma:      ",",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token with position information
type Token struct {
	Type     TokenType
	Value    string
	Position int // byte offset in the expression
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return fmt.Sprintf("ILLEGAL(%s)", t.Value)
	case TokenIdentifier, TokenNumber, TokenString:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	default:
		return t.Type.String()
	}
}

// Lexer converts a formula into tokens. It accepts only the characters the
// grammar uses; anything else becomes TokenIllegal.
type Lexer struct {
	input    string
	position int  // current position in input (points to current char)
	readPos  int  // current reading position (after current char)
	ch       byte // current char under examination
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	pos := l.position
	if l.atEOF() {
		return Token{Type: TokenEOF, Position: pos}
	}

	switch l.ch {
	case '+':
		return l.single(TokenPlus)
	case '-':
		return l.single(TokenMinus)
	case '*':
		if l.peekChar() == '*' {
			return l.double(TokenPower)
		}
		return l.single(TokenStar)
	case '/':
		return l.single(TokenSlash)
	case '%':
		return l.single(TokenPercent)
	case '?':
		return l.single(TokenQuestion)
	case ':':
		return l.single(TokenColon)
	case '(':
		return l.single(TokenLeftParen)
	case ')':
		return l.single(TokenRightParen)
	case ',':
		return l.single(TokenComma)
	case '=':
		if l.peekChar() != '=' {
			// assignment is not part of the language
			return l.single(TokenIllegal)
		}
		if l.peekAt(2) == '=' {
			return l.triple(TokenStrictEq)
		}
		return l.double(TokenEq)
	case '!':
		if l.peekChar() == '=' {
			if l.peekAt(2) == '=' {
				return l.triple(TokenStrictNeq)
			}
			return l.double(TokenNotEq)
		}
		return l.single(TokenNot)
	case '<':
		if l.peekChar() == '=' {
			return l.double(TokenLessEq)
		}
		return l.single(TokenLess)
	case '>':
		if l.peekChar() == '=' {
			return l.double(TokenGreaterEq)
		}
		return l.single(TokenGreater)
	case '&':
		if l.peekChar() == '&' {
			return l.double(TokenAnd)
		}
		return l.single(TokenIllegal)
	case '|':
		if l.peekChar() == '|' {
			return l.double(TokenOr)
		}
		return l.single(TokenIllegal)
	case '"', '\'':
		value, ok := l.readString(l.ch)
		if !ok {
			return Token{Type: TokenIllegal, Value: "unterminated string", Position: pos}
		}
		return Token{Type: TokenString, Value: value, Position: pos}
	}

	if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		return Token{Type: TokenNumber, Value: l.readNumber(), Position: pos}
	}
	if isLetter(l.ch) {
		ident := l.readIdentifier()
		switch ident {
		case "true":
			return Token{Type: TokenTrue, Value: ident, Position: pos}
		case "false":
			return Token{Type: TokenFalse, Value: ident, Position: pos}
		}
		return Token{Type: TokenIdentifier, Value: ident, Position: pos}
	}

	return l.single(TokenIllegal)
}

// Tokenize returns all tokens from the input as a slice
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
		if tok.Type == TokenIllegal {
			return tokens, fmt.Errorf("illegal token %q at position %d", tok.Value, tok.Position)
		}
	}
}

func (l *Lexer) single(tt TokenType) Token {
	tok := Token{Type: tt, Value: string(l.ch), Position: l.position}
	l.readChar()
	return tok
}

func (l *Lexer) double(tt TokenType) Token {
	tok := Token{Type: tt, Value: l.input[l.position : l.position+2], Position: l.position}
	l.readChar()
	l.readChar()
	return tok
}

func (l *Lexer) triple(tt TokenType) Token {
	tok := Token{Type: tt, Value: l.input[l.position : l.position+3], Position: l.position}
	l.readChar()
	l.readChar()
	l.readChar()
	return tok
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.position = l.readPos
	l.readPos++
}

// atEOF reports whether the whole input has been consumed. A NUL byte
// inside the input is a character, not the end.
func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) peekChar() byte {
	return l.peekAt(1)
}

// peekAt returns the character n positions after the current one
func (l *Lexer) peekAt(n int) byte {
	idx := l.position + n
	if idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

// readIdentifier reads a dotted identifier such as Math.max. A dot must be
// followed by a letter to belong to the name.
func (l *Lexer) readIdentifier() string {
	start := l.position
	for {
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '.' && isLetter(l.peekChar()) {
			l.readChar()
			continue
		}
		return l.input[start:l.position]
	}
}

// readNumber reads an integer, decimal or exponent literal
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[start:l.position]
}

// readString reads a quoted literal, handling backslash escapes of the
// quote character and the backslash itself
func (l *Lexer) readString(quote byte) (string, bool) {
	var sb strings.Builder
	for {
		l.readChar()
		if l.atEOF() {
			return "", false
		}
		switch l.ch {
		case quote:
			l.readChar()
			return sb.String(), true
		case '\\':
			l.readChar()
			if l.atEOF() {
				return "", false
			}
			sb.WriteByte(l.ch)
		default:
			sb.WriteByte(l.ch)
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
