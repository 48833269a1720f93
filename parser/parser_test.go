package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graviton/ast"
	"graviton/lexer"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	stream, err := lexer.ScanToStream(src)
	require.NoError(t, err)
	root, err := Parse(stream)
	require.NoError(t, err)
	return root
}

func TestPrecedenceMultiplyBeforeAdd(t *testing.T) {
	root := parse(t, "1 + 2 * 3")
	bin, ok := root.Kind.(ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
	_, leftIsNumber := bin.Left.Kind.(ast.Number)
	assert.True(t, leftIsNumber)
	rightBin, ok := bin.Right.Kind.(ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Multiply, rightBin.Op)
}

func TestNoAssociativityBiasOnSubtraction(t *testing.T) {
	// a - b - c should parse as (a - (b - c)), i.e. the right child of
	// the outer Subtract is itself a Subtract, not the left child.
	root := parse(t, "a - b - c")
	outer, ok := root.Kind.(ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Subtract, outer.Op)
	_, leftIsIdent := outer.Left.Kind.(ast.Identifier)
	assert.True(t, leftIsIdent)
	_, rightIsBinary := outer.Right.Kind.(ast.Binary)
	assert.True(t, rightIsBinary, "expected right-nested Subtract (no +1 bias)")
}

func TestBlockWithLetAndTrailingExpr(t *testing.T) {
	root := parse(t, "{ let x = 10; let y = 20; x + y }")
	block, ok := root.Kind.(ast.Block)
	require.True(t, ok)
	require.Len(t, block.Items, 3)

	stmt1, ok := block.Items[0].Kind.(ast.Statement)
	require.True(t, ok)
	_, ok = stmt1.Expr.Kind.(ast.Let)
	assert.True(t, ok)

	_, ok = block.Items[2].Kind.(ast.Binary)
	assert.True(t, ok, "trailing item should be the bare x + y expression")
}

func TestWhileStatementInBlockConsumesSemicolon(t *testing.T) {
	root := parse(t, "{ let mut x = 0; while x < 3 { x = x + 1 }; x }")
	block, ok := root.Kind.(ast.Block)
	require.True(t, ok)
	require.Len(t, block.Items, 3)

	stmt, ok := block.Items[1].Kind.(ast.Statement)
	require.True(t, ok, "while-expr followed by ';' should be wrapped in Statement")
	_, ok = stmt.Expr.Kind.(ast.While)
	assert.True(t, ok)

	_, ok = block.Items[2].Kind.(ast.Identifier)
	assert.True(t, ok, "trailing bare x should be the last item")
}

func TestIfElseIfElseChain(t *testing.T) {
	root := parse(t, "if false { 1 } else if true { 2 } else { 3 }")
	ie, ok := root.Kind.(ast.IfElse)
	require.True(t, ok)
	require.Len(t, ie.ElseIfs, 1)
	require.NotNil(t, ie.Else)
}

func TestAssignmentIsLowestPrecedence(t *testing.T) {
	root := parse(t, "x = 1 + 2")
	bin, ok := root.Kind.(ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Assign, bin.Op)
	_, ok = bin.Right.Kind.(ast.Binary)
	assert.True(t, ok)
}

func TestUnexpectedTokenIsSyntaxError(t *testing.T) {
	stream, err := lexer.ScanToStream("1 +")
	require.NoError(t, err)
	_, err = Parse(stream)
	require.Error(t, err)
	var syn *SyntaxError
	assert.ErrorAs(t, err, &syn)
}
