package emit

import (
	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classpath"
	"github.com/firefly-oss/firefly-lang-sub000/internal/methodresolve"
	"github.com/firefly-oss/firefly-lang-sub000/internal/registry"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// builtinNames is the bare-identifier call surface that lowers directly
// to a fixed JDK/runtime call rather than resolving as a self/static
// method, since none of println/print/format/spawn are declared
// anywhere in a compilation unit.
var builtinNames = map[string]bool{
	"println": true,
	"print":   true,
	"format":  true,
	"spawn":   true,
}

// emitCall lowers the four call-site shapes distinguished by the
// callee's AST shape: self/bare-name (Identifier), static
// (StaticMemberExpr), instance (MemberExpr), and ADT-variant / struct
// factory calls (an Identifier whose name matches a registered type).
func (m *methodCtx) emitCall(n *ast.CallExpr) vartype.VarType {
	switch callee := n.Callee.(type) {
	case *ast.StaticMemberExpr:
		owner := m.unit.resolveName(callee.ClassName)
		return m.emitInvoke(owner, callee.Member, n.Args, n.InferredType(), true, false)

	case *ast.MemberExpr:
		m.emitExpr(callee.Receiver)
		owner := m.lastDeclaredInternal
		return m.emitInvoke(owner, callee.Member, n.Args, n.InferredType(), false, true)

	case *ast.SafeNavExpr:
		m.emitExpr(callee.Receiver)
		owner := m.lastDeclaredInternal
		return m.emitInvoke(owner, callee.Member, n.Args, n.InferredType(), false, true)

	case *ast.Identifier:
		if adt, variant, ok := m.unit.Reg.LookupVariant(callee.Name); ok {
			return m.emitVariantConstruction(variant, adt, n.Args)
		}
		if meta, ok := m.unit.Reg.LookupStruct(callee.Name); ok {
			return m.emitStructConstruction(meta, n.Args)
		}
		if internal, ok := m.unit.Reg.LookupException(callee.Name); ok {
			return m.emitExceptionConstruction(internal)
		}
		if _, ok := m.unit.Reg.LookupFunction(m.enclosingInternal, callee.Name); !ok && builtinNames[callee.Name] {
			if vt, ok := m.emitBuiltinCall(callee.Name, n.Args); ok {
				return vt
			}
		}
		if !m.isStatic {
			base, fast := loadOp(vartype.OBJECT)
			m.code.EmitVarOp(base, fast, 0, 1)
			return m.emitInvoke(m.enclosingInternal, callee.Name, n.Args, n.InferredType(), false, true)
		}
		return m.emitInvoke(m.enclosingInternal, callee.Name, n.Args, n.InferredType(), true, false)

	default:
		panic("emit: unsupported call-site shape")
	}
}

// emitBuiltinCall lowers the fixed built-in names:
//
//	println(x) / print(x)  -> System.out.print[ln](x), overload picked by x's VarType
//	format(fmt, args...)   -> String.format(String, Object[])
//	spawn(actor)           -> ActorSystemHolder.getInstance().spawn(actor)
//
// Returns ok=false for a name this function doesn't recognize so the caller
// falls back to ordinary self-call resolution (a unit-local method happens
// to share the name but isn't callable as such, an unlikely but possible
// shadow).
func (m *methodCtx) emitBuiltinCall(name string, args []ast.Expr) (vartype.VarType, bool) {
	switch name {
	case "println", "print":
		return m.emitPrintCall(name, args), true
	case "format":
		return m.emitFormatCall(args), true
	case "spawn":
		return m.emitSpawnCall(args), true
	default:
		return vartype.OBJECT, false
	}
}

// printDescriptor picks the PrintStream.print[ln] overload matching a
// single argument's value category, from java.io.PrintStream's own
// overload set.
func printDescriptor(vt vartype.VarType) string {
	switch vt {
	case vartype.INT:
		return "(I)V"
	case vartype.LONG:
		return "(J)V"
	case vartype.DOUBLE, vartype.FLOAT:
		return "(D)V"
	case vartype.BOOLEAN:
		return "(Z)V"
	case vartype.STRING:
		return "(Ljava/lang/String;)V"
	default:
		return "(Ljava/lang/Object;)V"
	}
}

func (m *methodCtx) emitPrintCall(name string, args []ast.Expr) vartype.VarType {
	m.code.EmitShortArg(classfile.OpGetstatic,
		m.cw.Pool.Fieldref("java/lang/System", "out", "Ljava/io/PrintStream;"), 1)

	desc := "()V"
	if len(args) > 0 {
		m.emitExpr(args[0])
		desc = printDescriptor(m.lastType)
	}
	m.code.EmitShortArg(classfile.OpInvokevirtual,
		m.cw.Pool.Methodref("java/io/PrintStream", name, desc), invokeStackDelta(desc, true))
	return m.settle(vartype.OBJECT, "")
}

func (m *methodCtx) emitFormatCall(args []ast.Expr) vartype.VarType {
	const desc = "(Ljava/lang/String;[Ljava/lang/Object;)Ljava/lang/String;"

	if len(args) > 0 {
		m.emitExpr(args[0])
	}

	varargs := args[1:]
	pushIntConst(m.code, m.cw.Pool, len(varargs))
	m.code.EmitShortArg(classfile.OpAnewarray, m.cw.Pool.Class("java/lang/Object"), 0)
	for i, a := range varargs {
		m.code.EmitInsn(classfile.OpDup, 1)
		pushIntConst(m.code, m.cw.Pool, i)
		m.emitExpr(a)
		m.boxValue(m.lastType)
		m.code.EmitInsn(classfile.OpAastore, -3)
	}

	m.code.EmitShortArg(classfile.OpInvokestatic,
		m.cw.Pool.Methodref("java/lang/String", "format", desc), invokeStackDelta(desc, false))
	return m.settle(vartype.STRING, "")
}

func (m *methodCtx) emitSpawnCall(args []ast.Expr) vartype.VarType {
	const holder = "com/firefly/runtime/actor/ActorSystemHolder"
	const system = "com/firefly/runtime/actor/ActorSystem"
	const getInstanceDesc = "()Lcom/firefly/runtime/actor/ActorSystem;"
	const spawnDesc = "(Lcom/firefly/runtime/actor/Actor;)Lcom/firefly/runtime/actor/ActorRef;"

	m.code.EmitShortArg(classfile.OpInvokestatic,
		m.cw.Pool.Methodref(holder, "getInstance", getInstanceDesc), invokeStackDelta(getInstanceDesc, false))
	if len(args) > 0 {
		m.emitExpr(args[0])
	}
	m.code.EmitShortArg(classfile.OpInvokevirtual,
		m.cw.Pool.Methodref(system, "spawn", spawnDesc), invokeStackDelta(spawnDesc, true))
	return m.settle(vartype.OBJECT, "com/firefly/runtime/actor/ActorRef")
}

// emitInvoke pushes each argument, then invokes owner.name. hasReceiver
// expects the receiver to already be on the stack (pushed by the
// caller); static expects no receiver at all. The pre-registered
// function signature is preferred for descriptor accuracy (it reflects
// the declared parameter/return types exactly); failing that, a real
// external-classpath call is resolved via the method resolver against
// the embedded classpath snapshot, applying whatever box/unbox/widen
// conversions the winning candidate requires; only once both of those
// miss does this fall back to inferring a descriptor directly from the
// call-site's own typed sub-trees.
func (m *methodCtx) emitInvoke(owner, name string, args []ast.Expr, ret *ast.SurfaceType, static, hasReceiver bool) vartype.VarType {
	if sig, ok := m.unit.Reg.LookupFunction(owner, name); ok {
		if sig.Async {
			return m.emitInvokeDescriptor(sig.Owner, name, sig.Descriptor, args, nil, nil, static, hasReceiver, vartype.OBJECT, "com/firefly/runtime/async/Future")
		}
		return m.emitInvokeDescriptor(sig.Owner, name, sig.Descriptor, args, nil, nil, static, hasReceiver, vartype.FromSurface(sig.ReturnType), declaredInternalOf(m, sig.ReturnType))
	}

	if cand, ok := m.resolveExternal(owner, name, args, static); ok {
		retVt := vartype.FromJavaType(cand.Method.Return)
		declared := ""
		if retVt == vartype.OBJECT {
			declared = classpath.DottedToInternal(cand.Method.Return)
		}
		params := cand.Method.Params
		if cand.IsVarargs {
			// A resolved varargs candidate's Conversions array is already
			// aligned to argTypes, not Params; conversions beyond the fixed
			// arity apply against the array's component type uniformly, and
			// by construction (methodresolve.tryVarargs) are Identity unless
			// boxing was required, which boxValue handles without needing
			// the exact target type.
			params = nil
		}
		return m.emitInvokeDescriptor(classpath.DottedToInternal(cand.Owner), name, cand.Method.Descriptor(), args, cand.Conversions, params, static, hasReceiver, retVt, declared)
	}

	paramTypes := make([]*ast.SurfaceType, len(args))
	for i, a := range args {
		paramTypes[i] = a.InferredType()
	}
	desc := vartype.MethodDescriptor(paramTypes, ret, m.unit.resolveName)
	return m.emitInvokeDescriptor(owner, name, desc, args, nil, nil, static, hasReceiver, vartype.FromSurface(ret), declaredInternalOf(m, ret))
}

func declaredInternalOf(m *methodCtx, t *ast.SurfaceType) string {
	if t != nil && t.Kind == ast.STNamed {
		return m.unit.resolveName(t.Name)
	}
	return ""
}

// resolveExternal runs the method resolver against the embedded
// classpath snapshot for a call whose owner isn't a function this unit
// declared — a genuine `java.lang.String.valueOf(...)`-shaped external
// call.
func (m *methodCtx) resolveExternal(owner, name string, args []ast.Expr, static bool) (*methodresolve.Candidate, bool) {
	ownerDotted := classpath.InternalToDotted(owner)
	argTypes := make([]string, len(args))
	for i, a := range args {
		argTypes[i] = vartype.DottedJavaType(a.InferredType(), m.unit.resolveName)
	}
	return methodresolve.Resolve(m.unit.Idx, ownerDotted, name, static, argTypes)
}

// emitInvokeDescriptor is the common tail of emitInvoke's three resolution
// paths: push each argument (applying any resolved conversion), emit the
// INVOKE*, and settle the resulting value category. params, when non-nil,
// gives each argument's resolved formal parameter as a dotted Java type,
// used only to pick a widening target; it may be shorter than args (or
// nil) for the varargs/no-resolution paths, which never need it since
// their conversions are always Identity or simple boxing.
func (m *methodCtx) emitInvokeDescriptor(owner, name, desc string, args []ast.Expr, convs []methodresolve.Conversion, params []string, static, hasReceiver bool, retVt vartype.VarType, retDeclared string) vartype.VarType {
	for i, a := range args {
		m.emitExpr(a)
		if convs != nil && i < len(convs) {
			var paramJavaType string
			if i < len(params) {
				paramJavaType = params[i]
			}
			m.applyArgConversion(convs[i], m.lastType, paramJavaType)
		}
	}

	op := classfile.OpInvokevirtual
	if static {
		op = classfile.OpInvokestatic
	}
	m.code.EmitShortArg(op, m.cw.Pool.Methodref(owner, name, desc), invokeStackDelta(desc, hasReceiver))
	return m.settle(retVt, retDeclared)
}

// applyArgConversion emits whatever bytecode a resolved Conversion
// requires beyond simply pushing the argument: boxing, unboxing, or
// primitive widening. Identity/WideningReference/StringConversion/
// NotApplicable need no extra instructions.
func (m *methodCtx) applyArgConversion(conv methodresolve.Conversion, argVt vartype.VarType, paramJavaType string) {
	switch conv {
	case methodresolve.BoxingUnboxing, methodresolve.BoxingWidening:
		if argVt.IsPrimitive() {
			m.boxValue(argVt)
		} else if paramJavaType != "" {
			m.unboxValue(vartype.FromJavaType(paramJavaType))
		}
	case methodresolve.WideningPrimitive:
		if paramJavaType != "" {
			m.widenPrimitive(argVt, vartype.FromJavaType(paramJavaType))
		}
	}
}

// emitExceptionConstruction lowers a bare `MyError()`-shaped exception
// construction call as `new MyError()`. Exception declarations always
// get the JVM-mandated no-arg constructor chaining to their super
// (emitException/emitDefaultOrChainedConstructor), so the call site
// never carries constructor arguments.
func (m *methodCtx) emitExceptionConstruction(internal string) vartype.VarType {
	m.code.EmitShortArg(classfile.OpNew, m.cw.Pool.Class(internal), 1)
	m.code.EmitInsn(classfile.OpDup, 1)
	m.code.EmitShortArg(classfile.OpInvokespecial, m.cw.Pool.Methodref(internal, "<init>", "()V"), -1)
	return m.settle(vartype.OBJECT, internal)
}

// emitVariantConstruction lowers a bare `Some(x)`/`None()`-shaped ADT
// variant-factory call as `new Base$Variant(args)`.
func (m *methodCtx) emitVariantConstruction(variant *registry.ADTVariant, adt *registry.ADTMeta, args []ast.Expr) vartype.VarType {
	m.code.EmitShortArg(classfile.OpNew, m.cw.Pool.Class(variant.InternalName), 1)
	m.code.EmitInsn(classfile.OpDup, 1)

	paramTypes := make([]*ast.SurfaceType, len(variant.Fields))
	for i, f := range variant.Fields {
		paramTypes[i] = f.Type
	}
	for _, a := range args {
		m.emitExpr(a)
	}
	desc := vartype.MethodDescriptor(paramTypes, nil, m.unit.resolveName)
	m.code.EmitShortArg(classfile.OpInvokespecial, m.cw.Pool.Methodref(variant.InternalName, "<init>", desc), invokeStackDelta(desc, true))
	return m.settle(vartype.OBJECT, variant.InternalName)
}

// emitStructConstruction lowers a bare `Point(x, y)`-shaped struct/spark
// constructor call.
func (m *methodCtx) emitStructConstruction(meta *registry.StructMeta, args []ast.Expr) vartype.VarType {
	m.code.EmitShortArg(classfile.OpNew, m.cw.Pool.Class(meta.InternalName), 1)
	m.code.EmitInsn(classfile.OpDup, 1)

	paramTypes := make([]*ast.SurfaceType, len(meta.Fields))
	for i, f := range meta.Fields {
		paramTypes[i] = f.Type
	}
	for _, a := range args {
		m.emitExpr(a)
	}
	desc := vartype.MethodDescriptor(paramTypes, nil, m.unit.resolveName)
	m.code.EmitShortArg(classfile.OpInvokespecial, m.cw.Pool.Methodref(meta.InternalName, "<init>", desc), invokeStackDelta(desc, true))
	return m.settle(vartype.OBJECT, meta.InternalName)
}
