// Package parser implements the precedence-climbing (Pratt) expression
// parser: a fixed table indexed by token kind, each entry holding
// {prefix, infix, precedence}.
package parser

import (
	"graviton/ast"
	"graviton/token"
)

// Precedence levels, low to high.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type prefixFn func(p *Parser) (*ast.Node, error)
type infixFn func(p *Parser, left *ast.Node) (*ast.Node, error)

type rule struct {
	prefix     prefixFn
	infix      infixFn
	precedence Precedence
}

// ruleTable is indexed directly by token kind ordinal, per spec: a
// dense array, not a dispatch map, kept in lockstep with token.Kind.
// It is filled from ruleTableEntries in init, because the rule functions
// listed there read ruleTable themselves.
var ruleTable [token.NumKinds]rule

func init() { ruleTable = ruleTableEntries }

var ruleTableEntries = [token.NumKinds]rule{
	token.LParen: {prefix: grouping, precedence: PrecCall},
	token.LBrace: {prefix: block},

	token.Plus:  {infix: binary, precedence: PrecTerm},
	token.Minus: {prefix: unary, infix: binary, precedence: PrecTerm},
	token.Star:  {infix: binary, precedence: PrecFactor},
	token.Slash: {infix: binary, precedence: PrecFactor},

	token.Bang: {prefix: unary},

	token.EqualEqual:   {infix: binary, precedence: PrecEquality},
	token.Assign:       {infix: binary, precedence: PrecAssignment},
	token.Less:         {infix: binary, precedence: PrecComparison},
	token.LessEqual:    {infix: binary, precedence: PrecComparison},
	token.Greater:      {infix: binary, precedence: PrecComparison},
	token.GreaterEqual: {infix: binary, precedence: PrecComparison},

	token.Identifier: {prefix: literal},
	token.Number:      {prefix: literal},
	token.String:      {prefix: literal},
	token.True:        {prefix: literal},
	token.False:       {prefix: literal},
	token.Nil:         {prefix: literal},

	token.Let:   {prefix: letExpr},
	token.If:    {prefix: ifElse},
	token.While: {prefix: whileExpr},
}

// Parser pulls tokens one at a time from a token.Source with a single
// token of lookahead (current) plus the last consumed token (previous,
// used for error positions).
type Parser struct {
	src      token.Source
	current  token.Token
	previous token.Token
}

func syntheticEOF() token.Token {
	return token.New(token.Eof, "", token.Synthetic)
}

// New builds a Parser and advances it to the first token.
func New(src token.Source) *Parser {
	p := &Parser{src: src, current: syntheticEOF(), previous: syntheticEOF()}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.previous = p.current
	if tok, ok := p.src.Next(); ok {
		p.current = tok
	} else {
		p.current = syntheticEOF()
	}
}

func (p *Parser) expect(kind token.Kind, message string) error {
	if p.current.Kind != kind {
		return p.errorAtPrevious(message)
	}
	p.advance()
	return nil
}

func (p *Parser) errorAtPrevious(message string) error {
	return &SyntaxError{Line: p.previous.Position.Line, Column: p.previous.Position.Column, Message: message}
}

// Parse runs the full contract: parse(source) → AstRoot | ParseError.
func Parse(src token.Source) (*ast.Node, error) {
	p := New(src)
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Eof, "Expected end of input"); err != nil {
		return nil, err
	}
	return root, nil
}

func (p *Parser) parseExpression() (*ast.Node, error) {
	return p.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the canonical Pratt loop: consume, run prefix,
// then keep consuming infix operators whose precedence is at least p.
func (p *Parser) parsePrecedence(prec Precedence) (*ast.Node, error) {
	p.advance()
	prefix := ruleTable[p.previous.Kind].prefix
	if prefix == nil {
		return nil, p.errorAtPrevious("Expected prefix expression")
	}
	left, err := prefix(p)
	if err != nil {
		return nil, err
	}

	for prec <= ruleTable[p.current.Kind].precedence {
		p.advance()
		infix := ruleTable[p.previous.Kind].infix
		if infix == nil {
			return nil, p.errorAtPrevious("Expected infix expression")
		}
		left, err = infix(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// literal covers Number/String/True/False/Nil, per spec's prefix-rule
// table, plus Identifier: the original rule table this was distilled
// from leaves Identifier's prefix slot empty, which would make a bare
// variable reference like `x + y` unparseable and contradicts this
// language's own worked examples, so identifiers are folded into the
// same literal-leaf dispatch.
func literal(p *Parser) (*ast.Node, error) {
	t := p.previous
	switch t.Kind {
	case token.Number:
		return ast.Wrap(ast.Number{Value: t.Number}, t.Position), nil
	case token.String:
		return ast.Wrap(ast.String{Value: t.Text}, t.Position), nil
	case token.True:
		return ast.Wrap(ast.Bool{Value: true}, t.Position), nil
	case token.False:
		return ast.Wrap(ast.Bool{Value: false}, t.Position), nil
	case token.Nil:
		return ast.Wrap(ast.NilLit{}, t.Position), nil
	case token.Identifier:
		return ast.Wrap(ast.Identifier{Name: t.Lexeme}, t.Position), nil
	default:
		return nil, p.errorAtPrevious("Expected literal")
	}
}

func grouping(p *Parser) (*ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RParen, "Expected closing ')'"); err != nil {
		return nil, err
	}
	return expr, nil
}

func unary(p *Parser) (*ast.Node, error) {
	opTok := p.previous
	operand, err := p.parsePrecedence(PrecUnary)
	if err != nil {
		return nil, err
	}
	var op ast.UnaryOp
	switch opTok.Kind {
	case token.Minus:
		op = ast.Negate
	case token.Bang:
		op = ast.Not
	default:
		return nil, p.errorAtPrevious("Invalid unary operator")
	}
	return ast.Wrap(ast.Unary{Op: op, Operand: operand}, opTok.Position), nil
}

// block parses `{ (expr ';'?)* '}'`. Per spec.md §4.2's lowering
// rules, any item followed by a `;` is a discarded Statement, and only
// the final, bare item may carry a value forward — so any expression
// (not just `let`) immediately followed by `;` is wrapped here. `let`
// additionally self-wraps on its own trailing `;` (see letExpr) for
// when it appears outside of a block; the two never double-wrap since
// letExpr already consumes its semicolon before returning.
func block(p *Parser) (*ast.Node, error) {
	pos := p.previous.Position
	var items []*ast.Node
	for p.current.Kind != token.RBrace && p.current.Kind != token.Eof {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current.Kind == token.Semicolon {
			p.advance()
			expr = ast.Wrap(ast.Statement{Expr: expr}, expr.Position)
		}
		items = append(items, expr)
	}
	if err := p.expect(token.RBrace, "Expected closing '}'"); err != nil {
		return nil, err
	}
	return ast.Wrap(ast.Block{Items: items}, pos), nil
}

func ifElse(p *Parser) (*ast.Node, error) {
	pos := p.previous.Position
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	var elifs []ast.ElseIf
	var elseBody *ast.Node
	for p.current.Kind == token.Else {
		p.advance()
		if p.current.Kind == token.If {
			p.advance()
			elifCond, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elifBody, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elifs = append(elifs, ast.ElseIf{Cond: elifCond, Body: elifBody})
			continue
		}
		elseBody, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
		break
	}
	return ast.Wrap(ast.IfElse{Cond: cond, Then: then, ElseIfs: elifs, Else: elseBody}, pos), nil
}

func whileExpr(p *Parser) (*ast.Node, error) {
	pos := p.previous.Position
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.Wrap(ast.While{Cond: cond, Body: body}, pos), nil
}

func letExpr(p *Parser) (*ast.Node, error) {
	pos := p.previous.Position
	mutable := false
	if p.current.Kind == token.Mut {
		mutable = true
		p.advance()
	}
	if p.current.Kind != token.Identifier {
		return nil, p.errorAtPrevious("Expected identifier for variable name")
	}
	name := p.current.Lexeme
	p.advance()

	var init *ast.Node
	if p.current.Kind == token.Assign {
		p.advance()
		var err error
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	node := ast.Wrap(ast.Let{Name: name, Signature: ast.VariableSignature{Mutable: mutable}, Init: init}, pos)
	if p.current.Kind == token.Semicolon {
		p.advance()
		return ast.Wrap(ast.Statement{Expr: node}, pos), nil
	}
	return node, nil
}

// binary's right-hand recursion uses the operator's OWN precedence,
// not precedence+1. That makes `a - b - c` parse as `(a - (b - c))` —
// the no-bias shape is preserved deliberately; see DESIGN.md.
func binary(p *Parser, left *ast.Node) (*ast.Node, error) {
	opTok := p.previous
	opRule := ruleTable[opTok.Kind]
	right, err := p.parsePrecedence(opRule.precedence)
	if err != nil {
		return nil, err
	}

	var op ast.BinaryOp
	switch opTok.Kind {
	case token.Plus:
		op = ast.Add
	case token.Minus:
		op = ast.Subtract
	case token.Star:
		op = ast.Multiply
	case token.Slash:
		op = ast.Divide
	case token.Less:
		op = ast.Less
	case token.LessEqual:
		op = ast.LessEqual
	case token.Greater:
		op = ast.Greater
	case token.GreaterEqual:
		op = ast.GreaterEqual
	case token.EqualEqual:
		op = ast.Equal
	case token.Assign:
		op = ast.Assign
	default:
		return nil, p.errorAtPrevious("Invalid binary operator")
	}
	return ast.Wrap(ast.Binary{Op: op, Left: left, Right: right}, opTok.Position), nil
}
