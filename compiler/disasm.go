package compiler

import (
	"fmt"
	"strings"

	"graviton/vm"
)

// Disassemble renders bc as one line per op, annotating the operand's
// meaning by opcode. Grounded on the original AST compiler's
// disassembler, simplified: each Op already carries its own operand, so
// there is no byte-offset bookkeeping to reconstruct.
func Disassemble(bc vm.Bytecode) string {
	var b strings.Builder
	for idx, op := range bc.Ops {
		fmt.Fprintf(&b, "%04d %s", idx, op.Code)
		switch op.Code {
		case vm.OpLoad:
			fmt.Fprintf(&b, " %d (%s)", op.Operand, bc.Constants[op.Operand])
		case vm.OpDefVar, vm.OpSetVar, vm.OpGetVar:
			fmt.Fprintf(&b, " #%d", op.Operand)
		case vm.OpJump, vm.OpJumpFalse, vm.OpJumpTrue:
			fmt.Fprintf(&b, " %+d -> %04d", op.Operand, int64(idx)+op.Operand)
		}
		b.WriteString("\n")
	}
	return b.String()
}
