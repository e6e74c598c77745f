package emit

import (
	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// emitExpr lowers one expression, leaving its value on top of the operand
// stack, and returns the VarType category produced. It also updates
// m.lastType/m.lastDeclaredInternal, tracking the type of whatever is on
// top of the stack, so call chains (member access, instance calls) can
// resolve the next step without re-inferring from scratch.
func (m *methodCtx) emitExpr(e ast.Expr) vartype.VarType {
	switch n := e.(type) {
	case *ast.IntLit:
		pushIntConst(m.code, m.cw.Pool, int(n.Value))
		return m.settle(vartype.INT, "")
	case *ast.LongLit:
		pushLongConst(m.code, m.cw.Pool, n.Value)
		return m.settle(vartype.LONG, "")
	case *ast.FloatLit:
		pushDoubleConst(m.code, m.cw.Pool, n.Value)
		return m.settle(vartype.DOUBLE, "")
	case *ast.StringLit:
		pushStringConst(m.code, m.cw.Pool, n.Value)
		return m.settle(vartype.STRING, "java/lang/String")
	case *ast.BoolLit:
		if n.Value {
			m.code.EmitInsn(classfile.OpIconst1, 1)
		} else {
			m.code.EmitInsn(classfile.OpIconst0, 1)
		}
		return m.settle(vartype.BOOLEAN, "")
	case *ast.NoneLit:
		m.code.EmitInsn(classfile.OpAconstNull, 1)
		return m.settle(vartype.OBJECT, "")
	case *ast.Identifier:
		return m.emitIdentifier(n)
	case *ast.SelfExpr:
		base, fast := loadOp(vartype.OBJECT)
		m.code.EmitVarOp(base, fast, 0, 1)
		return m.settle(vartype.OBJECT, m.enclosingInternal)
	case *ast.BinaryExpr:
		return m.emitBinary(n)
	case *ast.UnaryExpr:
		return m.emitUnary(n)
	case *ast.MemberExpr:
		return m.emitMember(n)
	case *ast.StaticMemberExpr:
		return m.emitStaticMember(n)
	case *ast.SafeNavExpr:
		return m.emitSafeNav(n)
	case *ast.CallExpr:
		return m.emitCall(n)
	case *ast.IndexExpr:
		return m.emitIndex(n)
	case *ast.TupleExpr:
		return m.emitTuple(n)
	case *ast.TupleIndexExpr:
		return m.emitTupleIndex(n)
	case *ast.StructLiteralExpr:
		return m.emitStructLiteral(n)
	case *ast.ArrayLiteralExpr:
		return m.emitArrayLiteral(n)
	case *ast.MapLiteralExpr:
		return m.emitMapLiteral(n)
	case *ast.RangeExpr:
		return m.emitRange(n)
	case *ast.IfExpr:
		return m.emitIfExpr(n)
	case *ast.MatchExpr:
		return m.emitMatchExpr(n)
	case *ast.LambdaExpr:
		return m.emitLambda(n)
	case *ast.TimeoutExpr:
		return m.emitTimeout(n)
	case *ast.ConcurrentExpr:
		return m.emitConcurrent(n)
	case *ast.RaceExpr:
		return m.emitRaceExpr(n)
	default:
		panic("emit: unhandled expression kind")
	}
}

func (m *methodCtx) settle(vt vartype.VarType, declaredInternal string) vartype.VarType {
	m.lastType = vt
	m.lastDeclaredInternal = declaredInternal
	return vt
}

func (m *methodCtx) emitIdentifier(n *ast.Identifier) vartype.VarType {
	if l, ok := m.locals[n.Name]; ok {
		m.emitLoad(l)
		return l.vt
	}
	if desc, ok := m.fieldTypes[n.Name]; ok {
		base, fast := loadOp(vartype.OBJECT)
		m.code.EmitVarOp(base, fast, 0, 1)
		vt := vartype.FromSurface(n.InferredType())
		m.code.EmitShortArg(classfile.OpGetfield, m.cw.Pool.Fieldref(m.enclosingInternal, n.Name, desc), width(vt)-1)
		return m.settle(vt, "")
	}
	// Unresolved simple name: a module-level function reference or
	// constant the pre-registration pass missed upstream; fail loudly
	// rather than emit silently-wrong bytecode — the panic is caught
	// per-declaration by emitTopLevel.
	panic("emit: unresolved identifier " + n.Name)
}

// emitBinary lowers arithmetic, comparison, logical, string-concat, and
// coalescing binary operators.
func (m *methodCtx) emitBinary(n *ast.BinaryExpr) vartype.VarType {
	switch n.Operator {
	case "and":
		return m.emitShortCircuit(n, true)
	case "or":
		return m.emitShortCircuit(n, false)
	case "??":
		return m.emitNullCoalesce(n)
	case "=", "<>", "<", "<=", ">", ">=":
		return m.emitComparison(n)
	case "..", "..=":
		return m.emitRangeOperator(n)
	case "**":
		return m.emitPow(n)
	}

	lt := m.emitExpr(n.Left)
	if lt == vartype.STRING && n.Operator == "+" {
		return m.emitStringConcat(n)
	}
	rt := m.emitExpr(n.Right)
	result := arithmeticResult(lt, rt)
	m.promote(rt, result)
	// The left operand was pushed before promoting the right one; if the
	// left's category differs from result it must be promoted too, which
	// requires reordering around the already-pushed right value. Since
	// Firefly's numeric promotions are I->L->D, the common case (both
	// operands already the same category) needs no reordering; mixed
	// Int/Long/Double arithmetic is promoted by parking the right operand
	// in a temp while the left is widened when categories differ.
	if lt != result {
		return m.emitMixedArithmetic(n, lt, rt, result)
	}
	m.emitArithOp(n.Operator, result)
	return m.settle(result, "")
}

func arithmeticResult(a, b vartype.VarType) vartype.VarType {
	if a == vartype.DOUBLE || b == vartype.DOUBLE || a == vartype.FLOAT || b == vartype.FLOAT {
		return vartype.DOUBLE
	}
	if a == vartype.LONG || b == vartype.LONG {
		return vartype.LONG
	}
	return vartype.INT
}

// promote widens the value on top of the stack from `from` to `to` via
// I2L/I2D/L2D.
func (m *methodCtx) promote(from, to vartype.VarType) {
	if from == to {
		return
	}
	switch {
	case from == vartype.INT && to == vartype.LONG:
		m.code.EmitInsn(classfile.OpI2l, 1)
	case from == vartype.INT && to == vartype.DOUBLE:
		m.code.EmitInsn(classfile.OpI2d, 1)
	case from == vartype.LONG && to == vartype.DOUBLE:
		m.code.EmitInsn(classfile.OpL2d, 1)
	}
}

// emitMixedArithmetic moves the right operand into a temp so the left
// operand is on top, widens it, then reloads the right, widening each
// side to result before the arithmetic opcode — simpler than juggling
// promotion opcodes around an operand that is already in the middle of
// the stack.
func (m *methodCtx) emitMixedArithmetic(n *ast.BinaryExpr, lt, rt, result vartype.VarType) vartype.VarType {
	// The right operand is already on top of the stack at `rt`'s width;
	// stash it into a temp, widen the left below it, then reload.
	tmp := m.declareTemp(rt)
	m.storeTemp(tmp, rt)
	m.promote(lt, result)
	m.loadTemp(tmp, rt)
	m.promote(rt, result)
	m.emitArithOp(n.Operator, result)
	return m.settle(result, "")
}

func (m *methodCtx) declareTemp(vt vartype.VarType) int {
	return m.code.ReserveLocal(vt.IsWide())
}

func (m *methodCtx) storeTemp(slot int, vt vartype.VarType) {
	base, fast := storeOp(vt)
	m.code.EmitVarOp(base, fast, slot, -width(vt))
}

func (m *methodCtx) loadTemp(slot int, vt vartype.VarType) {
	base, fast := loadOp(vt)
	m.code.EmitVarOp(base, fast, slot, width(vt))
}

func (m *methodCtx) emitArithOp(op string, vt vartype.VarType) {
	var code classfile.Op
	switch vt {
	case vartype.DOUBLE:
		switch op {
		case "+":
			code = classfile.OpDadd
		case "-":
			code = classfile.OpDsub
		case "*":
			code = classfile.OpDmul
		case "/":
			code = classfile.OpDdiv
		case "mod":
			code = classfile.OpDrem
		}
	case vartype.LONG:
		switch op {
		case "+":
			code = classfile.OpLadd
		case "-":
			code = classfile.OpLsub
		case "*":
			code = classfile.OpLmul
		case "/":
			code = classfile.OpLdiv
		case "mod":
			code = classfile.OpLrem
		}
	default:
		switch op {
		case "+":
			code = classfile.OpIadd
		case "-":
			code = classfile.OpIsub
		case "*":
			code = classfile.OpImul
		case "/":
			code = classfile.OpIdiv
		case "mod":
			code = classfile.OpIrem
		}
	}
	m.code.EmitInsn(code, -width(vt))
}

// emitStringConcat lowers `a + b` where the left operand is a String via
// `new StringBuilder().append(a).append(b).toString()`.
func (m *methodCtx) emitStringConcat(n *ast.BinaryExpr) vartype.VarType {
	sb := m.code.ReserveLocal(false)
	m.code.EmitShortArg(classfile.OpNew, m.cw.Pool.Class("java/lang/StringBuilder"), 1)
	m.code.EmitInsn(classfile.OpDup, 1)
	m.code.EmitShortArg(classfile.OpInvokespecial, m.cw.Pool.Methodref("java/lang/StringBuilder", "<init>", "()V"), -1)
	st, sf := storeOp(vartype.OBJECT)
	m.code.EmitVarOp(st, sf, sb, -1)

	m.appendLoad(sb)
	lt := m.emitExpr(n.Left)
	m.appendValue(sb, lt)

	m.appendLoad(sb)
	rt := m.emitExpr(n.Right)
	m.appendValue(sb, rt)

	m.appendLoad(sb)
	m.code.EmitShortArg(classfile.OpInvokevirtual, m.cw.Pool.Methodref("java/lang/StringBuilder", "toString", "()Ljava/lang/String;"), 0)
	return m.settle(vartype.STRING, "java/lang/String")
}

// emitShortCircuit lowers `and`/`or` with proper short-circuit control
// flow: isAnd false path jumps straight to pushing false/true.
func (m *methodCtx) emitShortCircuit(n *ast.BinaryExpr, isAnd bool) vartype.VarType {
	shortcut := m.code.NewLabel()
	join := m.code.NewLabel()

	m.emitExpr(n.Left)
	if isAnd {
		m.code.EmitJump(classfile.OpIfeq, shortcut, -1)
	} else {
		m.code.EmitJump(classfile.OpIfne, shortcut, -1)
	}
	m.emitExpr(n.Right)
	m.code.EmitJump(classfile.OpGoto, join, 0)

	m.code.MarkLabel(shortcut)
	if isAnd {
		m.code.EmitInsn(classfile.OpIconst0, 1)
	} else {
		m.code.EmitInsn(classfile.OpIconst1, 1)
	}
	m.code.MarkLabel(join)
	return m.settle(vartype.BOOLEAN, "")
}

// emitNullCoalesce lowers `a ?? b`: evaluate a, dup, if non-null keep it,
// else pop and evaluate b.
func (m *methodCtx) emitNullCoalesce(n *ast.BinaryExpr) vartype.VarType {
	haveLeft := m.code.NewLabel()
	join := m.code.NewLabel()

	vt := m.emitExpr(n.Left)
	m.code.EmitInsn(classfile.OpDup, 1)
	m.code.EmitJump(classfile.OpIfnonnull, haveLeft, -1)
	m.code.EmitInsn(classfile.OpPop, -1)
	m.emitExpr(n.Right)
	m.code.EmitJump(classfile.OpGoto, join, 0)
	m.code.MarkLabel(haveLeft)
	m.code.MarkLabel(join)
	return m.settle(vt, m.lastDeclaredInternal)
}

// emitComparison lowers `=`,`<>`,`<`,`<=`,`>`,`>=` to a 0/1 int via the
// category-appropriate test-then-push-boolean idiom.
func (m *methodCtx) emitComparison(n *ast.BinaryExpr) vartype.VarType {
	lt := m.emitExpr(n.Left)
	rt := m.emitExpr(n.Right)
	cat := arithmeticResult(lt, rt)
	if lt == vartype.OBJECT || lt == vartype.STRING {
		cat = lt
	}

	trueLbl := m.code.NewLabel()
	join := m.code.NewLabel()

	switch cat {
	case vartype.LONG:
		m.code.EmitInsn(classfile.OpLcmp, -3)
		m.code.EmitJump(intCompareOp(n.Operator, true), trueLbl, -1)
	case vartype.DOUBLE, vartype.FLOAT:
		m.code.EmitInsn(classfile.OpDcmpg, -3)
		m.code.EmitJump(intCompareOp(n.Operator, true), trueLbl, -1)
	case vartype.OBJECT, vartype.STRING:
		if n.Operator == "=" {
			m.code.EmitShortArg(classfile.OpInvokestatic, m.cw.Pool.Methodref("java/util/Objects", "equals", "(Ljava/lang/Object;Ljava/lang/Object;)Z"), -1)
			m.code.EmitJump(classfile.OpIfne, trueLbl, -1)
		} else {
			m.code.EmitJump(classfile.OpIfAcmpne, trueLbl, -2)
		}
	default:
		m.code.EmitJump(intCompareOp(n.Operator, false), trueLbl, -2)
	}

	m.code.EmitInsn(classfile.OpIconst0, 1)
	m.code.EmitJump(classfile.OpGoto, join, 0)
	m.code.MarkLabel(trueLbl)
	m.code.EmitInsn(classfile.OpIconst1, 1)
	m.code.MarkLabel(join)
	return m.settle(vartype.BOOLEAN, "")
}

// intCompareOp picks the branch opcode testing the condition itself, so
// the branch is taken to the "true" label when it holds: cmp reduces a wide
// comparison to -1/0/1 so the single-operand IF* family applies; a
// direct int comparison uses IF_ICMP*.
func intCompareOp(operator string, afterCmp bool) classfile.Op {
	if afterCmp {
		switch operator {
		case "=":
			return classfile.OpIfeq
		case "<>":
			return classfile.OpIfne
		case "<":
			return classfile.OpIflt
		case "<=":
			return classfile.OpIfle
		case ">":
			return classfile.OpIfgt
		default:
			return classfile.OpIfge
		}
	}
	switch operator {
	case "=":
		return classfile.OpIfIcmpeq
	case "<>":
		return classfile.OpIfIcmpne
	case "<":
		return classfile.OpIfIcmplt
	case "<=":
		return classfile.OpIfIcmple
	case ">":
		return classfile.OpIfIcmpgt
	default:
		return classfile.OpIfIcmpge
	}
}

// emitRangeOperator lowers `a..b`/`a..=b` used as a value (as opposed to
// a for-loop iterable) into a com.firefly.runtime.Range.
func (m *methodCtx) emitRangeOperator(n *ast.BinaryExpr) vartype.VarType {
	const rangeClass = "com/firefly/runtime/Range"
	m.code.EmitShortArg(classfile.OpNew, m.cw.Pool.Class(rangeClass), 1)
	m.code.EmitInsn(classfile.OpDup, 1)
	m.emitExpr(n.Left)
	m.emitExpr(n.Right)
	inclusive := n.Operator == "..="
	if inclusive {
		m.code.EmitInsn(classfile.OpIconst1, 1)
	} else {
		m.code.EmitInsn(classfile.OpIconst0, 1)
	}
	desc := "(IIZ)V"
	m.code.EmitShortArg(classfile.OpInvokespecial, m.cw.Pool.Methodref(rangeClass, "<init>", desc), invokeStackDelta(desc, true))
	return m.settle(vartype.OBJECT, rangeClass)
}

func (m *methodCtx) emitRange(n *ast.RangeExpr) vartype.VarType {
	return m.emitRangeOperator(&ast.BinaryExpr{Operator: pickRangeOp(n.Inclusive), Left: n.Start, Right: n.End})
}

func pickRangeOp(inclusive bool) string {
	if inclusive {
		return "..="
	}
	return ".."
}

// emitPow lowers `a ** b` via `Math.pow(double, double)`, the standard
// reach for java.lang.Math for transcendental builtins.
func (m *methodCtx) emitPow(n *ast.BinaryExpr) vartype.VarType {
	lt := m.emitExpr(n.Left)
	m.promote(lt, vartype.DOUBLE)
	rt := m.emitExpr(n.Right)
	m.promote(rt, vartype.DOUBLE)
	desc := "(DD)D"
	m.code.EmitShortArg(classfile.OpInvokestatic, m.cw.Pool.Methodref("java/lang/Math", "pow", desc), invokeStackDelta(desc, false))
	return m.settle(vartype.DOUBLE, "")
}

// emitUnary lowers `-`,`!`,`&`,`&mut`,`!!`,`.await`. `&`/`&mut` are
// reference-taking no-ops at the JVM level
// (Firefly references are already object references); `.await` on a
// Future blocks via the runtime's Future.get().
func (m *methodCtx) emitUnary(n *ast.UnaryExpr) vartype.VarType {
	switch n.Operator {
	case "-":
		vt := m.emitExpr(n.Operand)
		switch vt {
		case vartype.LONG:
			m.code.EmitInsn(classfile.OpLneg, 0)
		case vartype.DOUBLE, vartype.FLOAT:
			m.code.EmitInsn(classfile.OpDneg, 0)
		default:
			m.code.EmitInsn(classfile.OpIneg, 0)
		}
		return m.settle(vt, "")
	case "!":
		vt := m.emitExpr(n.Operand)
		after := m.code.NewLabel()
		falseLbl := m.code.NewLabel()
		m.code.EmitJump(classfile.OpIfeq, falseLbl, -1)
		m.code.EmitInsn(classfile.OpIconst0, 1)
		m.code.EmitJump(classfile.OpGoto, after, 0)
		m.code.MarkLabel(falseLbl)
		m.code.EmitInsn(classfile.OpIconst1, 1)
		m.code.MarkLabel(after)
		return m.settle(vt, "")
	case "!!":
		vt := m.emitExpr(n.Operand)
		desc := "(Ljava/lang/Object;Ljava/lang/String;)Ljava/lang/Object;"
		pushStringConst(m.code, m.cw.Pool, "required value was null")
		m.code.EmitShortArg(classfile.OpInvokestatic, m.cw.Pool.Methodref("java/util/Objects", "requireNonNull", desc), invokeStackDelta(desc, false))
		return m.settle(vt, m.lastDeclaredInternal)
	case ".await":
		m.emitExpr(n.Operand)
		desc := "()Ljava/lang/Object;"
		m.code.EmitShortArg(classfile.OpInvokevirtual, m.cw.Pool.Methodref("com/firefly/runtime/async/Future", "get", desc), invokeStackDelta(desc, true))
		return m.settle(vartype.OBJECT, "")
	default:
		// `&` / `&mut`: reference-taking is already the JVM's own
		// reference-passing convention, nothing to emit.
		return m.emitExpr(n.Operand)
	}
}

// emitMember lowers `receiver.field` as a GETFIELD using the receiver's
// tracked declared class (lastDeclaredInternal).
func (m *methodCtx) emitMember(n *ast.MemberExpr) vartype.VarType {
	m.emitExpr(n.Receiver)
	owner := m.lastDeclaredInternal
	vt := vartype.FromSurface(n.InferredType())
	desc := vartype.Descriptor(n.InferredType(), m.unit.resolveName)
	m.code.EmitShortArg(classfile.OpGetfield, m.cw.Pool.Fieldref(owner, n.Member, desc), width(vt)-1)
	decl := ""
	if n.InferredType() != nil && n.InferredType().Kind == ast.STNamed {
		decl = m.unit.resolveName(n.InferredType().Name)
	}
	return m.settle(vt, decl)
}

func (m *methodCtx) emitStaticMember(n *ast.StaticMemberExpr) vartype.VarType {
	owner := m.unit.resolveName(n.ClassName)
	vt := vartype.FromSurface(n.InferredType())
	desc := vartype.Descriptor(n.InferredType(), m.unit.resolveName)
	m.code.EmitShortArg(classfile.OpGetstatic, m.cw.Pool.Fieldref(owner, n.Member, desc), width(vt))
	return m.settle(vt, owner)
}

// emitSafeNav lowers `expr?.member`: null short-circuits to null rather
// than faulting.
func (m *methodCtx) emitSafeNav(n *ast.SafeNavExpr) vartype.VarType {
	isNull := m.code.NewLabel()
	join := m.code.NewLabel()

	m.emitExpr(n.Receiver)
	owner := m.lastDeclaredInternal
	m.code.EmitInsn(classfile.OpDup, 1)
	m.code.EmitJump(classfile.OpIfnull, isNull, -1)

	vt := vartype.FromSurface(n.InferredType())
	desc := vartype.Descriptor(n.InferredType(), m.unit.resolveName)
	m.code.EmitShortArg(classfile.OpGetfield, m.cw.Pool.Fieldref(owner, n.Member, desc), width(vt)-1)
	if vt.IsPrimitive() {
		m.boxValue(vt)
	}
	m.code.EmitJump(classfile.OpGoto, join, 0)

	m.code.MarkLabel(isNull)
	m.code.EmitInsn(classfile.OpPop, -1)
	m.code.EmitInsn(classfile.OpAconstNull, 1)
	m.code.MarkLabel(join)
	return m.settle(vartype.OBJECT, "")
}

// emitIndex lowers `receiver[index]` via java.util.List.get (array
// literals and tuples are java.util.ArrayList).
func (m *methodCtx) emitIndex(n *ast.IndexExpr) vartype.VarType {
	m.emitExpr(n.Receiver)
	m.emitExpr(n.Index)
	desc := "(I)Ljava/lang/Object;"
	m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/List", "get", desc), 1, invokeStackDelta(desc, true))
	vt := vartype.FromSurface(n.InferredType())
	if vt.IsPrimitive() {
		m.code.EmitShortArg(classfile.OpCheckcast, m.cw.Pool.Class(vt.BoxedClass()), 0)
		m.unboxValue(vt)
	}
	return m.settle(vt, "")
}
