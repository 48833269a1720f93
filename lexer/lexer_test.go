package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graviton/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanArithmeticExpression(t *testing.T) {
	toks, err := New("1 + 2 * 3").Scan()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.Number, token.Plus, token.Number, token.Star, token.Number, token.Eof,
	}, kinds(toks))
}

func TestScanKeywordsAndComparisons(t *testing.T) {
	toks, err := New("let mut x = 1; while x <= 3 { x }").Scan()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.Let, token.Mut, token.Identifier, token.Assign, token.Number, token.Semicolon,
		token.While, token.Identifier, token.LessEqual, token.Number,
		token.LBrace, token.Identifier, token.RBrace, token.Eof,
	}, kinds(toks))
}

func TestScanStringLiteral(t *testing.T) {
	toks, err := New(`"hello"`).Scan()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello", toks[0].Text)
}

func TestScanUnclosedStringIsError(t *testing.T) {
	_, err := New(`"hello`).Scan()
	assert.Error(t, err)
}

func TestScanCommentIsSkipped(t *testing.T) {
	toks, err := New("1 # a comment\n+ 2").Scan()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.Number, token.Plus, token.Number, token.Eof}, kinds(toks))
}

func TestLooksBalanced(t *testing.T) {
	assert.False(t, LooksBalanced("{ let x = 1"))
	assert.True(t, LooksBalanced("{ let x = 1 }"))
}
