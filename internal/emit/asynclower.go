package emit

import (
	"sort"
	"strings"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// Lambda and async-block lowering lives alongside the rest of emit rather
// than in its own package: building a closure's synthetic helper method
// needs the same locals/code/fieldTypes surface methodCtx already exposes
// for everything else.
//
// Every closure crosses the call boundary fully erased to
// java.lang.Object, both for captured variables and for the functional
// interface's own parameters: the invokedynamic call site's descriptor,
// the interface method's descriptor, and the synthetic implementation
// method's descriptor are therefore identical modulo the leading
// captured-value parameters. This sidesteps LambdaMetafactory's
// samMethodType/instantiatedMethodType bridging machinery entirely - a
// deliberate simplification over precise primitive-specialized
// functional interfaces.
//
// Capture is conservative: every local live in the enclosing method at
// the closure's source position is captured, rather than a precise
// free-variable walk of the body. Over-capturing a few unused locals is
// harmless (they just become unused synthetic parameters); it avoids a
// second AST traversal whose only job would be trimming that set.

// closureInterface names the standard library functional interface used
// for a given captured/lambda parameter arity, plus the abstract method
// this back end targets. Arities beyond 3 are a known limitation (no
// lambda needs more captured parameters than this in Firefly's standard
// library surface); emitLambda panics past it rather than silently
// miscompiling.
func closureInterface(arity int) (owner, method, desc string) {
	switch arity {
	case 0:
		return "java/util/function/Supplier", "get", "()Ljava/lang/Object;"
	case 1:
		return "java/util/function/Function", "apply", "(Ljava/lang/Object;)Ljava/lang/Object;"
	case 2:
		return "java/util/function/BiFunction", "apply", "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;"
	case 3:
		return "com/firefly/runtime/TriFunction", "apply", "(Ljava/lang/Object;Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;"
	default:
		panic("emit: lambda/closure parameter arity beyond 3 is not supported")
	}
}

// capturedSnapshot returns every local currently bound in m, ordered by
// slot for determinism, naming the conservative over-capture set every
// closure built from m closes over.
func (m *methodCtx) capturedSnapshot() ([]string, []*local) {
	names := make([]string, 0, len(m.locals))
	for name := range m.locals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return m.locals[names[i]].slot < m.locals[names[j]].slot })
	locals := make([]*local, len(names))
	for i, n := range names {
		locals[i] = m.locals[n]
	}
	return names, locals
}

// buildClosureMethod synthesizes a private static helper on the enclosing
// class implementing one closure body: capturedNames/capturedLocals come
// first in the parameter list (erased to Object), then paramNames (the
// functional interface's own parameters, also erased to Object). emitBody
// runs against the fresh methodCtx with every name already bound and must
// leave nothing extra on the stack; it is responsible for its own
// areturn.
func (m *methodCtx) buildClosureMethod(prefix string, capturedNames []string, capturedLocals []*local, paramNames []string, paramTypes []*ast.SurfaceType, emitBody func(mc2 *methodCtx)) (name, implDesc string) {
	name = m.unit.nextClosureName(prefix)
	mc2 := newMethodCtx(m.unit, m.cw, m.enclosingInternal, true, m.fieldTypes)

	for i, cname := range capturedNames {
		objSlot := mc2.code.ReserveLocal(false)
		origVt := capturedLocals[i].vt
		if origVt.IsPrimitive() {
			mc2.code.EmitVarOp(classfile.OpAload, classfile.OpAload0, objSlot, 1)
			mc2.unboxValue(origVt)
			realSlot := mc2.code.ReserveLocal(origVt.IsWide())
			sbase, sfast := storeOp(origVt)
			mc2.code.EmitVarOp(sbase, sfast, realSlot, -width(origVt))
			mc2.locals[cname] = &local{slot: realSlot, vt: origVt}
		} else {
			mc2.locals[cname] = &local{slot: objSlot, vt: vartype.OBJECT, declaredInternal: capturedLocals[i].declaredInternal}
		}
	}

	for i, pname := range paramNames {
		objSlot := mc2.code.ReserveLocal(false)
		vt := vartype.FromSurface(paramTypes[i])
		if vt.IsPrimitive() {
			mc2.code.EmitVarOp(classfile.OpAload, classfile.OpAload0, objSlot, 1)
			mc2.unboxValue(vt)
			realSlot := mc2.code.ReserveLocal(vt.IsWide())
			sbase, sfast := storeOp(vt)
			mc2.code.EmitVarOp(sbase, sfast, realSlot, -width(vt))
			mc2.locals[pname] = &local{slot: realSlot, vt: vt}
		} else {
			decl := ""
			if paramTypes[i] != nil && paramTypes[i].Kind == ast.STNamed {
				decl = m.unit.resolveName(paramTypes[i].Name)
			}
			mc2.locals[pname] = &local{slot: objSlot, vt: vartype.OBJECT, declaredInternal: decl}
		}
	}

	emitBody(mc2)

	implDesc = "(" + strings.Repeat("Ljava/lang/Object;", len(capturedNames)+len(paramNames)) + ")Ljava/lang/Object;"
	mc2.finishMethod(classfile.AccPrivate|classfile.AccStatic, name, implDesc)
	return name, implDesc
}

// emitIndy registers the LambdaMetafactory bootstrap for samDesc/implName
// (once per call site) and emits the invokedynamic instruction, pushing
// the captured values beforehand. Returns the functional interface's
// internal name, the value now on the caller's stack.
func (m *methodCtx) emitIndy(capturedNames []string, capturedLocals []*local, funcIfaceOwner, funcIfaceMethod, samDesc, implName, implDesc string) string {
	bootstrapHandle := m.cw.Pool.MethodHandle(
		"java/lang/invoke/LambdaMetafactory", "metafactory",
		"(Ljava/lang/invoke/MethodHandles$Lookup;Ljava/lang/String;Ljava/lang/invoke/MethodType;"+
			"Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodHandle;Ljava/lang/invoke/MethodType;)"+
			"Ljava/lang/invoke/CallSite;")
	implHandle := m.cw.Pool.MethodHandle(m.enclosingInternal, implName, implDesc)
	samType := m.cw.Pool.MethodType(samDesc)
	bm := classfile.BootstrapMethod{
		MethodHandleIndex: bootstrapHandle,
		Arguments:         []uint16{samType, implHandle, samType},
	}
	bmIdx := m.cw.AddBootstrapMethod(bm)

	indyDesc := "(" + strings.Repeat("Ljava/lang/Object;", len(capturedNames)) + ")L" + funcIfaceOwner + ";"
	indyIdx := m.cw.Pool.InvokeDynamic(bmIdx, funcIfaceMethod, indyDesc)

	for _, cname := range capturedNames {
		l := m.locals[cname]
		base, fast := loadOp(l.vt)
		m.code.EmitVarOp(base, fast, l.slot, width(l.vt))
		if l.vt.IsPrimitive() {
			m.boxValue(l.vt)
		}
	}
	delta := 1 - len(capturedNames)
	m.code.EmitInvokeDynamic(indyIdx, delta)
	return funcIfaceOwner
}

// emitLambda lowers an Expr-bodied closure literal to a real
// invokedynamic call site.
func (m *methodCtx) emitLambda(n *ast.LambdaExpr) vartype.VarType {
	capturedNames, capturedLocals := m.capturedSnapshot()
	paramNames := make([]string, len(n.Params))
	paramTypes := make([]*ast.SurfaceType, len(n.Params))
	for i, p := range n.Params {
		paramNames[i] = p.PName
		paramTypes[i] = p.Type
	}
	ifaceOwner, ifaceMethod, samDesc := closureInterface(len(n.Params))

	implName, implDesc := m.buildClosureMethod("lambda", capturedNames, capturedLocals, paramNames, paramTypes, func(mc2 *methodCtx) {
		vt := mc2.emitExpr(n.Body)
		if vt.IsPrimitive() {
			mc2.boxValue(vt)
		}
		mc2.code.EmitReturn(classfile.OpAreturn, -1)
	})

	owner := m.emitIndy(capturedNames, capturedLocals, ifaceOwner, ifaceMethod, samDesc, implName, implDesc)
	return m.settle(vartype.OBJECT, owner)
}

// emitTimeout lowers `timeout(ms) { body }` to a zero-arg Supplier
// closure over the block, dispatched through the async runtime. The
// block's statements run for effect; the timeout expression's
// value is the runtime call's own return (null if nothing else is
// produced - Firefly's `timeout` is primarily used for its side effects
// and cancellation semantics, not as a value producer).
func (m *methodCtx) emitTimeout(n *ast.TimeoutExpr) vartype.VarType {
	capturedNames, capturedLocals := m.capturedSnapshot()
	ifaceOwner, ifaceMethod, samDesc := closureInterface(0)

	implName, implDesc := m.buildClosureMethod("timeout", capturedNames, capturedLocals, nil, nil, func(mc2 *methodCtx) {
		mc2.emitBlock(n.Body)
		mc2.code.EmitInsn(classfile.OpAconstNull, 1)
		mc2.code.EmitReturn(classfile.OpAreturn, -1)
	})

	m.emitIndy(capturedNames, capturedLocals, ifaceOwner, ifaceMethod, samDesc, implName, implDesc)

	millisVt := m.emitExpr(n.MillisExpr)
	if millisVt != vartype.LONG {
		m.promote(millisVt, vartype.LONG)
	}
	desc := "(JLjava/util/function/Supplier;)Ljava/lang/Object;"
	m.code.EmitShortArg(classfile.OpInvokestatic,
		m.cw.Pool.Methodref("com/firefly/runtime/async/Async", "timeout", desc),
		invokeStackDelta(desc, false))
	return m.settle(vartype.OBJECT, "")
}

// emitConcurrent lowers `concurrent { a: e1, b: e2, ... }`: each binding
// becomes a zero-arg Supplier closure, collected into a
// java.util.List and dispatched to the async runtime, which runs them
// concurrently and returns their results in binding order.
func (m *methodCtx) emitConcurrent(n *ast.ConcurrentExpr) vartype.VarType {
	m.newArrayList(len(n.Bindings))
	for _, b := range n.Bindings {
		m.code.EmitInsn(classfile.OpDup, 1)

		capturedNames, capturedLocals := m.capturedSnapshot()
		ifaceOwner, ifaceMethod, samDesc := closureInterface(0)
		bindingExpr := b.Expr
		implName, implDesc := m.buildClosureMethod("concurrent", capturedNames, capturedLocals, nil, nil, func(mc2 *methodCtx) {
			vt := mc2.emitExpr(bindingExpr)
			if vt.IsPrimitive() {
				mc2.boxValue(vt)
			}
			mc2.code.EmitReturn(classfile.OpAreturn, -1)
		})
		m.emitIndy(capturedNames, capturedLocals, ifaceOwner, ifaceMethod, samDesc, implName, implDesc)

		addDesc := "(Ljava/lang/Object;)Z"
		m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/List", "add", addDesc), 1, invokeStackDelta(addDesc, true))
		m.code.EmitInsn(classfile.OpPop, -1)
	}
	desc := "(Ljava/util/List;)Ljava/util/List;"
	m.code.EmitShortArg(classfile.OpInvokestatic,
		m.cw.Pool.Methodref("com/firefly/runtime/async/Async", "concurrent", desc),
		invokeStackDelta(desc, false))
	return m.settle(vartype.OBJECT, "java/util/List")
}

// emitRaceExpr lowers `race { f1, f2, ... }`: each future
// expression is collected into a java.util.List and handed to the async
// runtime, which returns the first one to complete.
func (m *methodCtx) emitRaceExpr(n *ast.RaceExpr) vartype.VarType {
	m.newArrayList(len(n.Futures))
	for _, f := range n.Futures {
		m.code.EmitInsn(classfile.OpDup, 1)
		vt := m.emitExpr(f)
		if vt.IsPrimitive() {
			m.boxValue(vt)
		}
		addDesc := "(Ljava/lang/Object;)Z"
		m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/List", "add", addDesc), 1, invokeStackDelta(addDesc, true))
		m.code.EmitInsn(classfile.OpPop, -1)
	}
	desc := "(Ljava/util/List;)Ljava/lang/Object;"
	m.code.EmitShortArg(classfile.OpInvokestatic,
		m.cw.Pool.Methodref("com/firefly/runtime/async/Async", "race", desc),
		invokeStackDelta(desc, false))
	return m.settle(vartype.OBJECT, "")
}
