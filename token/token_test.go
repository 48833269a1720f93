package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordsCoverSpecSet(t *testing.T) {
	want := []string{"and", "or", "self", "struct", "return", "import",
		"let", "def", "mut", "if", "else", "while", "for", "break",
		"true", "false", "nil"}
	for _, w := range want {
		_, ok := Keywords[w]
		assert.Truef(t, ok, "keyword %q missing from Keywords table", w)
	}
	assert.Len(t, Keywords, len(want))
}

func TestKindIsDenseAndOrdinal(t *testing.T) {
	assert.Equal(t, Kind(0), LParen)
	assert.True(t, int(Eof) < NumKinds)
}

func TestStreamNextExhausts(t *testing.T) {
	s := NewStream([]Token{New(Plus, "+", Position{1, 1})})
	tok, ok := s.Next()
	assert.True(t, ok)
	assert.Equal(t, Plus, tok.Kind)

	_, ok = s.Next()
	assert.False(t, ok)
}

func TestSyntheticPositionSentinel(t *testing.T) {
	assert.Equal(t, int32(-1), Synthetic.Line)
	assert.Equal(t, int32(-1), Synthetic.Column)
}
