// Package compiler lowers an ast.Node tree into vm.Bytecode: a single
// recursive pass emitting into a shared buffer, deduplicating Number
// constants, and back-patching relative jump offsets after each arm of
// a branch or loop is emitted.
package compiler

import (
	"hash/fnv"
	"math"

	"graviton/ast"
	"graviton/vm"
)

type lowerer struct {
	bc vm.Bytecode
}

// Lower runs the full contract: lower(ast) → Bytecode | LoweringError.
// Errors are raised as panics of LoweringError deep in the recursive
// descent and converted back to a normal error at this boundary, the
// same defer/recover shape the original AST compiler used to avoid
// threading an error return through every recursive call.
func Lower(root *ast.Node) (bc vm.Bytecode, err error) {
	l := &lowerer{}
	defer func() {
		if r := recover(); r != nil {
			if lerr, ok := r.(LoweringError); ok {
				err = lerr
				return
			}
			panic(r)
		}
	}()
	l.lower(root)
	return l.bc, nil
}

func fail(message string) {
	panic(LoweringError{Message: message})
}

func hashName(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

func (l *lowerer) emit(code vm.Opcode, operand int64) int {
	l.bc.Ops = append(l.bc.Ops, vm.Op{Code: code, Operand: operand})
	return len(l.bc.Ops) - 1
}

// checkedDelta validates that a backpatched jump distance fits in a
// signed 16-bit field, per the Jump/JumpFalse/JumpTrue operand width.
func checkedDelta(delta int) int64 {
	if delta > math.MaxInt16 || delta < math.MinInt16 {
		fail("Jump offset does not fit in a 16-bit delta")
	}
	return int64(delta)
}

func (l *lowerer) patchJump(idx int, delta int) {
	l.bc.Ops[idx].Operand = checkedDelta(delta)
}

func (l *lowerer) loadNumber(n float64) {
	for i, c := range l.bc.Constants {
		if c.Kind == vm.KindNumber && c.Number == n {
			l.emit(vm.OpLoad, int64(i))
			return
		}
	}
	l.bc.Constants = append(l.bc.Constants, vm.NumberValue(n))
	l.emit(vm.OpLoad, int64(len(l.bc.Constants)-1))
}

func (l *lowerer) lower(node *ast.Node) {
	switch n := node.Kind.(type) {
	case ast.Identifier:
		l.emit(vm.OpGetVar, int64(hashName(n.Name)))

	case ast.Number:
		l.loadNumber(n.Value)

	case ast.Bool:
		if n.Value {
			l.emit(vm.OpTrue, 0)
		} else {
			l.emit(vm.OpFalse, 0)
		}

	case ast.NilLit:
		l.emit(vm.OpNil, 0)

	case ast.Statement:
		l.lower(n.Expr)
		l.emit(vm.OpPop, 0)

	case ast.Binary:
		l.lowerBinary(n)

	case ast.Unary:
		l.lower(n.Operand)
		switch n.Op {
		case ast.Negate:
			l.emit(vm.OpNegate, 0)
		case ast.Not:
			l.emit(vm.OpNot, 0)
		}

	case ast.Return:
		l.lower(n.Expr)
		l.emit(vm.OpReturn, 0)

	case ast.Block:
		l.lowerBlock(n)

	case ast.IfElse:
		l.lowerIfElse(n)

	case ast.While:
		l.lowerWhile(n)

	case ast.Let:
		if n.Init != nil {
			l.lower(n.Init)
		}
		l.emit(vm.OpDefVar, int64(hashName(n.Name)))

	default:
		fail("Non-implemented AST node")
	}
}

func (l *lowerer) lowerBinary(n ast.Binary) {
	if n.Op == ast.Assign {
		ident, ok := n.Left.Kind.(ast.Identifier)
		if !ok {
			fail("Assign must assign to variable")
		}
		l.lower(n.Right)
		l.emit(vm.OpSetVar, int64(hashName(ident.Name)))
		return
	}

	l.lower(n.Left)
	l.lower(n.Right)
	switch n.Op {
	case ast.Add:
		l.emit(vm.OpAdd, 0)
	case ast.Subtract:
		l.emit(vm.OpSub, 0)
	case ast.Multiply:
		l.emit(vm.OpMul, 0)
	case ast.Divide:
		l.emit(vm.OpDiv, 0)
	case ast.Less:
		l.emit(vm.OpLess, 0)
	case ast.LessEqual:
		l.emit(vm.OpGreater, 0)
		l.emit(vm.OpNot, 0)
	case ast.Greater:
		l.emit(vm.OpGreater, 0)
	case ast.GreaterEqual:
		l.emit(vm.OpLess, 0)
		l.emit(vm.OpNot, 0)
	case ast.Equal:
		l.emit(vm.OpEqual, 0)
	default:
		fail("Non-implemented AST node")
	}
}

func (l *lowerer) lowerBlock(n ast.Block) {
	l.emit(vm.OpScopeOpen, 0)
	last := len(n.Items) - 1
	endedInReturn := false
	for i, item := range n.Items {
		endedInReturn = false
		if stmt, ok := item.Kind.(ast.Statement); ok {
			if _, isBlock := stmt.Expr.Kind.(ast.Block); isBlock {
				l.lower(stmt.Expr)
			} else {
				l.lower(item)
			}
			continue
		}
		if i != last {
			fail("Only the last element in a block may be an expression")
		}
		l.lower(item)
		l.emit(vm.OpReturn, 0)
		endedInReturn = true
	}
	// Return already unwinds the scope this Block opened, so a trailing
	// ScopeClose here would pop an extra, enclosing frame. Only emit it
	// when the block didn't just fall out through a terminal Return.
	if !endedInReturn {
		l.emit(vm.OpScopeClose, 0)
	}
}

func (l *lowerer) lowerIfElse(n ast.IfElse) {
	hasElse := n.Else != nil

	l.lower(n.Cond)
	condJump := l.emit(vm.OpJumpFalse, 1)
	l.lower(n.Then)
	l.patchJump(condJump, len(l.bc.Ops)-condJump+1)

	var convergeJumps []int
	if hasElse {
		convergeJumps = append(convergeJumps, l.emit(vm.OpJump, 1))
	}

	for _, elif := range n.ElseIfs {
		l.lower(elif.Cond)
		elifJump := l.emit(vm.OpJumpFalse, 1)
		l.lower(elif.Body)
		l.patchJump(elifJump, len(l.bc.Ops)-elifJump+1)
		if hasElse {
			convergeJumps = append(convergeJumps, l.emit(vm.OpJump, 1))
		}
	}

	if n.Else != nil {
		l.lower(n.Else)
	}

	for _, idx := range convergeJumps {
		l.patchJump(idx, len(l.bc.Ops)-idx)
	}
}

func (l *lowerer) lowerWhile(n ast.While) {
	begin := len(l.bc.Ops)
	l.lower(n.Cond)
	condJump := l.emit(vm.OpJumpFalse, 1)
	l.lower(n.Body)
	delta := checkedDelta(begin - len(l.bc.Ops))
	l.emit(vm.OpJump, delta)
	l.patchJump(condJump, len(l.bc.Ops)-condJump)
}
