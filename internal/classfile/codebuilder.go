package classfile

import (
	"encoding/binary"
)

// Label is an opaque forward/backward jump target within one method's
// code stream, resolved by Patch/Mark — the same discipline used for
// break/continue targets, generalized to every jump site rather than
// just loop exits.
type Label int

// CodeBuilder accumulates one method's instruction stream, tracks local
// variable slots and stack depth, and patches forward jumps once their
// target is known — emit a placeholder offset, keep going, and fix it up
// once the branch target's real position is known.
type CodeBuilder struct {
	code []byte

	maxStack  int
	curStack  int
	maxLocals int

	lineNumbers []lineEntry // (bytecode offset, source line)
	curLine     int

	labels        []int // label id -> resolved offset, -1 if unresolved
	pendingPatches map[int][]patchSite // label id -> offsets needing a 2-byte patch

	// Reachable tracks whether the current code position is reachable:
	// flipped false after return/throw/goto, suppressing dead joins that
	// would confuse the verifier. EmitInsn and friends are no-ops while
	// false, except MarkLabel which always resets it to true (a join
	// point is always reachable once anything branches to it).
	Reachable bool
}

type lineEntry struct {
	offset int
	line   int
}

type patchSite struct {
	offset int // offset of the two-byte branch operand to patch
	from   int // offset of the opcode itself, branch target is relative to this
}

// NewCodeBuilder starts a fresh method body.
func NewCodeBuilder() *CodeBuilder {
	return &CodeBuilder{Reachable: true}
}

// Offset returns the current bytecode offset (next instruction's
// position).
func (c *CodeBuilder) Offset() int { return len(c.code) }

// SetLine records the source line for subsequent instructions, building
// the LineNumberTable attribute. Line numbers are the only debug info
// tracked; there is no column or local-variable table.
func (c *CodeBuilder) SetLine(line int) {
	if line == c.curLine {
		return
	}
	c.curLine = line
	c.lineNumbers = append(c.lineNumbers, lineEntry{offset: len(c.code), line: line})
}

// touchStack adjusts the tracked stack depth by delta and updates
// maxStack; used by every Emit* helper so callers never hand-track depth.
func (c *CodeBuilder) touchStack(delta int) {
	c.curStack += delta
	if c.curStack > c.maxStack {
		c.maxStack = c.curStack
	}
	if c.curStack < 0 {
		c.curStack = 0
	}
}

// ReserveLocal claims the next free local-variable slot(s); wide reports
// whether the value needs two slots (LONG/DOUBLE categories).
func (c *CodeBuilder) ReserveLocal(wide bool) int {
	slot := c.maxLocals
	if wide {
		c.maxLocals += 2
	} else {
		c.maxLocals += 1
	}
	return slot
}

// op0 emits a zero-operand opcode.
func (c *CodeBuilder) op0(op Op) {
	if !c.Reachable {
		return
	}
	c.code = append(c.code, byte(op))
}

// EmitInsn emits a zero-operand instruction and applies stackDelta to the
// tracked operand-stack depth.
func (c *CodeBuilder) EmitInsn(op Op, stackDelta int) {
	if !c.Reachable {
		return
	}
	c.op0(op)
	c.touchStack(stackDelta)
}

// EmitByteArg emits [op][signed byte] (BIPUSH, local-var fast forms don't
// use this, but NEWARRAY's atype and RET do).
func (c *CodeBuilder) EmitByteArg(op Op, arg byte, stackDelta int) {
	if !c.Reachable {
		return
	}
	c.op0(op)
	c.code = append(c.code, arg)
	c.touchStack(stackDelta)
}

// EmitShortArg emits [op][big-endian uint16] — the common indexed-load,
// field/method-ref, and SIPUSH/LDC_W encoding.
func (c *CodeBuilder) EmitShortArg(op Op, arg uint16, stackDelta int) {
	if !c.Reachable {
		return
	}
	c.op0(op)
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], arg)
	c.code = append(c.code, buf[:]...)
	c.touchStack(stackDelta)
}

// EmitVarOp emits a local-variable load/store, preferring the dedicated
// zero-operand fast forms for slots 0-3 exactly as javac itself does,
// falling back to the indexed form (one index byte) above slot 3. No
// wide-prefix form is emitted, so slots above 255 are not supported;
// slots stay below 256 for any method a human-scale Firefly source file
// produces.
func (c *CodeBuilder) EmitVarOp(base Op, fastBase Op, slot int, stackDelta int) {
	if !c.Reachable {
		return
	}
	if slot >= 0 && slot <= 3 {
		c.op0(Op(byte(fastBase) + byte(slot)))
	} else {
		c.op0(base)
		c.code = append(c.code, byte(slot))
	}
	c.touchStack(stackDelta)
}

// EmitInvokeInterface emits INVOKEINTERFACE, whose encoding uniquely
// carries an explicit argument-slot count and a reserved zero byte
// alongside the usual two-byte constant-pool index (JVM spec §6.5
// invokeinterface) — argSlots is the summed parameter width, not
// counting the receiver.
func (c *CodeBuilder) EmitInvokeInterface(methodrefIdx uint16, argSlots int, stackDelta int) {
	if !c.Reachable {
		return
	}
	c.op0(OpInvokeinterface)
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], methodrefIdx)
	c.code = append(c.code, buf[0], buf[1], byte(argSlots+1), 0)
	c.touchStack(stackDelta)
}

// EmitInvokeDynamic emits INVOKEDYNAMIC, whose encoding carries two
// reserved zero bytes after the two-byte constant-pool index (JVM spec
// §6.5 invokedynamic) — used for every lambda/closure call site.
func (c *CodeBuilder) EmitInvokeDynamic(indyIdx uint16, stackDelta int) {
	if !c.Reachable {
		return
	}
	c.op0(OpInvokedynamic)
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], indyIdx)
	c.code = append(c.code, buf[0], buf[1], 0, 0)
	c.touchStack(stackDelta)
}

// NewLabel allocates an unresolved jump target.
func (c *CodeBuilder) NewLabel() Label {
	c.labels = append(c.labels, -1)
	if c.pendingPatches == nil {
		c.pendingPatches = make(map[int][]patchSite)
	}
	return Label(len(c.labels) - 1)
}

// MarkLabel resolves lbl to the current offset and patches every branch
// that already referenced it. A label mark always restores Reachable: a
// join point is reachable if anything branches to it, which is exactly
// when a label exists to mark.
func (c *CodeBuilder) MarkLabel(lbl Label) {
	c.labels[lbl] = len(c.code)
	c.Reachable = true
	for _, site := range c.pendingPatches[int(lbl)] {
		rel := int16(c.labels[lbl] - site.from)
		binary.BigEndian.PutUint16(c.code[site.offset:site.offset+2], uint16(rel))
	}
	delete(c.pendingPatches, int(lbl))
}

// EmitJump emits a branch opcode to lbl, patching immediately if lbl is
// already resolved (a backward jump) or registering a pending patch for
// MarkLabel to fill in later (a forward jump).
func (c *CodeBuilder) EmitJump(op Op, lbl Label, stackDelta int) {
	if !c.Reachable {
		return
	}
	from := len(c.code)
	c.op0(op)
	operandOffset := len(c.code)
	c.code = append(c.code, 0, 0)
	c.touchStack(stackDelta)

	if target := c.labels[lbl]; target >= 0 {
		rel := int16(target - from)
		binary.BigEndian.PutUint16(c.code[operandOffset:operandOffset+2], uint16(rel))
	} else {
		c.pendingPatches[int(lbl)] = append(c.pendingPatches[int(lbl)], patchSite{offset: operandOffset, from: from})
	}

	if op == OpGoto {
		c.Reachable = false
	}
}

// EmitReturn emits a typed return and marks the rest of the block dead.
func (c *CodeBuilder) EmitReturn(op Op, stackDelta int) {
	if !c.Reachable {
		return
	}
	c.op0(op)
	c.touchStack(stackDelta)
	c.Reachable = false
}

// EmitThrow emits ATHROW and marks the rest of the block dead.
func (c *CodeBuilder) EmitThrow() {
	if !c.Reachable {
		return
	}
	c.op0(OpAthrow)
	c.touchStack(-1)
	c.Reachable = false
}

// Code returns the finished instruction bytes. Callers must have marked
// every label used by EmitJump.
func (c *CodeBuilder) Code() []byte { return c.code }

// MaxStack / MaxLocals report the computed Code attribute bounds; the
// class writer derives these from tracked stack depth and local slot
// usage rather than requiring the caller to precompute them.
func (c *CodeBuilder) MaxStack() int  { return c.maxStack }
func (c *CodeBuilder) MaxLocals() int { return c.maxLocals }

// LineNumbers exposes the recorded (offset, line) table for the
// LineNumberTable attribute.
func (c *CodeBuilder) LineNumbers() []lineEntry { return c.lineNumbers }
