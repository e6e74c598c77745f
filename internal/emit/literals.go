package emit

import (
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// width reports the local-variable/operand-stack slot width of a value
// category: 2 for LONG/DOUBLE/FLOAT (Firefly Float is JVM double), 1
// otherwise.
func width(vt vartype.VarType) int {
	if vt.IsWide() {
		return 2
	}
	return 1
}

// pushIntConst emits the smallest encoding for an int literal: ICONST_M1..5,
// then BIPUSH, then SIPUSH, then an LDC from the constant pool for anything
// wider.
func pushIntConst(code *classfile.CodeBuilder, pool *classfile.ConstantPool, v int) {
	switch {
	case v >= -1 && v <= 5:
		code.EmitInsn(classfile.OpIconstM1+classfile.Op(v+1), 1)
	case v >= -128 && v <= 127:
		code.EmitByteArg(classfile.OpBipush, byte(v), 1)
	case v >= -32768 && v <= 32767:
		code.EmitShortArg(classfile.OpSipush, uint16(uint32(int32(v))&0xFFFF), 1)
	default:
		code.EmitByteArg(classfile.OpLdc, byte(pool.Integer(int32(v))), 1)
	}
}

// pushStringConst emits an LDC of an interned string constant.
func pushStringConst(code *classfile.CodeBuilder, pool *classfile.ConstantPool, s string) {
	code.EmitByteArg(classfile.OpLdc, byte(pool.String(s)), 1)
}

// pushDoubleConst emits an LDC2_W of an interned double constant, using
// DCONST_0/1 for the two values that have a dedicated opcode.
func pushDoubleConst(code *classfile.CodeBuilder, pool *classfile.ConstantPool, v float64) {
	switch v {
	case 0:
		code.EmitInsn(classfile.OpDconst0, 2)
	case 1:
		code.EmitInsn(classfile.OpDconst1, 2)
	default:
		code.EmitShortArg(classfile.OpLdc2W, pool.Double(v), 2)
	}
}

// pushLongConst emits an LDC2_W of an interned long constant, using
// LCONST_0/1 for the two values that have a dedicated opcode.
func pushLongConst(code *classfile.CodeBuilder, pool *classfile.ConstantPool, v int64) {
	switch v {
	case 0:
		code.EmitInsn(classfile.OpLconst0, 2)
	case 1:
		code.EmitInsn(classfile.OpLconst1, 2)
	default:
		code.EmitShortArg(classfile.OpLdc2W, pool.Long(v), 2)
	}
}

// boxValue wraps the primitive on top of the stack in its boxed wrapper
// via `X.valueOf(prim)`. No-op for reference categories.
func (m *methodCtx) boxValue(vt vartype.VarType) {
	if !vt.IsPrimitive() {
		return
	}
	m.code.EmitShortArg(classfile.OpInvokestatic,
		m.cw.Pool.Methodref(vt.BoxedClass(), "valueOf", vt.ValueOfDescriptor()),
		1-width(vt))
}

// unboxValue replaces a boxed wrapper reference on top of the stack with
// its primitive value via the category-appropriate `xValue()` accessor.
func (m *methodCtx) unboxValue(vt vartype.VarType) {
	if !vt.IsPrimitive() {
		return
	}
	m.code.EmitShortArg(classfile.OpCheckcast, m.cw.Pool.Class(vt.BoxedClass()), 0)
	m.code.EmitShortArg(classfile.OpInvokevirtual,
		m.cw.Pool.Methodref(vt.BoxedClass(), vt.UnboxMethod(), vt.UnboxDescriptor()),
		width(vt)-1)
}

// widenPrimitive emits the primitive-widening conversion opcode for a
// methodresolve.WideningPrimitive candidate. Firefly's three numeric
// surface categories only ever widen along int->long->double, so only
// those three conversions are reachable.
func (m *methodCtx) widenPrimitive(from, to vartype.VarType) {
	switch {
	case from == vartype.INT && to == vartype.LONG:
		m.code.EmitInsn(classfile.OpI2l, 1)
	case from == vartype.INT && to == vartype.DOUBLE:
		m.code.EmitInsn(classfile.OpI2d, 1)
	case from == vartype.LONG && to == vartype.DOUBLE:
		m.code.EmitInsn(classfile.OpL2d, 0)
	}
}
