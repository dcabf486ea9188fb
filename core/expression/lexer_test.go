package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens, err := NewLexer(`Math.max(a, 2) >= 1e3 ? 'x' : "y"`).Tokenize()
	require.NoError(t, err)

	want := []struct {
		typ   TokenType
		value string
	}{
		{TokenIdentifier, "Math.max"},
		{TokenLeftParen, "("},
		{TokenIdentifier, "a"},
		{TokenComma, ","},
		{TokenNumber, "2"},
		{TokenRightParen, ")"},
		{TokenGreaterEq, ">="},
		{TokenNumber, "1e3"},
		{TokenQuestion, "?"},
		{TokenString, "x"},
		{TokenColon, ":"},
		{TokenString, "y"},
		{TokenEOF, ""},
	}
	require.Len(t, tokens, len(want))
	for i, w := range want {
		assert.Equal(t, w.typ, tokens[i].Type, "token %d", i)
		assert.Equal(t, w.value, tokens[i].Value, "token %d", i)
	}
}

func TestTokenizeOperators(t *testing.T) {
	tokens, err := NewLexer("== != === !== < <= > >= && || ! ** * / % + -").Tokenize()
	require.NoError(t, err)

	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		TokenEq, TokenNotEq, TokenStrictEq, TokenStrictNeq,
		TokenLess, TokenLessEq, TokenGreater, TokenGreaterEq,
		TokenAnd, TokenOr, TokenNot, TokenPower,
		TokenStar, TokenSlash, TokenPercent, TokenPlus, TokenMinus,
		TokenEOF,
	}, types)
}

func TestTokenizeNumbers(t *testing.T) {
	for input, want := range map[string]string{
		"42":     "42",
		"3.14":   "3.14",
		".5":     ".5",
		"2.5e-3": "2.5e-3",
		"7E+2":   "7E+2",
	} {
		tok := NewLexer(input).NextToken()
		assert.Equal(t, TokenNumber, tok.Type, input)
		assert.Equal(t, want, tok.Value, input)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	tok := NewLexer(`'it\'s'`).NextToken()
	assert.Equal(t, TokenString, tok.Type)
	assert.Equal(t, "it's", tok.Value)
}

func TestTokenizeIllegal(t *testing.T) {
	for _, input := range []string{
		"a = 1",
		"a & b",
		"a | b",
		"x; y",
		"`cmd`",
		"'unterminated",
		"a[0]",
		"{}",
	} {
		_, err := NewLexer(input).Tokenize()
		assert.Error(t, err, input)
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := NewLexer("ab + 12").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, 0, tokens[0].Position)
	assert.Equal(t, 3, tokens[1].Position)
	assert.Equal(t, 5, tokens[2].Position)
}

func TestTokenizeEmbeddedNUL(t *testing.T) {
	tokens, err := NewLexer("1 + 1\x00 system('rm')").Tokenize()
	require.Error(t, err)
	last := tokens[len(tokens)-1]
	assert.Equal(t, TokenIllegal, last.Type)
	assert.Equal(t, 5, last.Position)

	_, err = NewLexer("'a\x00b'").Tokenize()
	assert.NoError(t, err, "a NUL inside a string literal is part of the string")

	_, err = EvaluateStrict("1 + 1\x00 system('rm')", NewContext(nil))
	assert.Error(t, err)
}
