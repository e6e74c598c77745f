package classfile

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestDisassembleHelloWorld(t *testing.T) {
	c := NewCodeBuilder()
	c.EmitInsn(OpIconst1, 1)
	c.EmitVarOp(OpIstore, OpIstore0, 0, -1)
	c.EmitVarOp(OpIload, OpIload0, 0, 1)
	c.EmitReturn(OpIreturn, -1)

	var sb strings.Builder
	NewDisassembler(c.Code(), &sb).Disassemble()

	snaps.MatchSnapshot(t, "disasm_hello_world", sb.String())
}

func TestDisassembleBranch(t *testing.T) {
	c := NewCodeBuilder()
	elseLbl := c.NewLabel()
	endLbl := c.NewLabel()

	c.EmitVarOp(OpIload, OpIload0, 0, 1)
	c.EmitJump(OpIfeq, elseLbl, -1)
	c.EmitInsn(OpIconst1, 1)
	c.EmitJump(OpGoto, endLbl, 0)
	c.MarkLabel(elseLbl)
	c.EmitInsn(OpIconst0, 1)
	c.MarkLabel(endLbl)
	c.EmitReturn(OpIreturn, -1)

	var sb strings.Builder
	NewDisassembler(c.Code(), &sb).Disassemble()

	snaps.MatchSnapshot(t, "disasm_branch", sb.String())
}
