package emit

import (
	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

func fieldTypesOf(u *Unit, fields []*ast.FieldDecl) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.FName] = u.Descriptor(f.Type)
	}
	return out
}

// emitTopLevelFunction emits a bare top-level function as a public static
// method on the compilation unit's synthetic module class. Firefly's
// module-level functions have no natural JVM home; this back end gives
// every module one class named after the module's package path.
func (u *Unit) emitTopLevelFunction(decl *ast.FunctionDecl) {
	moduleClass := ast.PackageInternalName(u.Tree.Module)
	if moduleClass == "" {
		moduleClass = "Module"
	}
	cw, ok := u.moduleWriters[moduleClass]
	if !ok {
		cw = classfile.NewClassWriter(moduleClass, "java/lang/Object", classfile.AccPublic|classfile.AccSuper)
		u.registerModuleWriter(moduleClass, cw)
	}
	u.emitFunction(cw, moduleClass, decl, true, nil)
	if decl.IsEntryPoint {
		u.emitMainTrampoline(cw, moduleClass, decl)
	}
}

// registerModuleWriter lets multiple top-level functions in the same
// module share one synthetic class writer, published once at the end of
// Emit.
func (u *Unit) registerModuleWriter(internalName string, cw *classfile.ClassWriter) {
	if u.moduleWriters == nil {
		u.moduleWriters = make(map[string]*classfile.ClassWriter)
	}
	u.moduleWriters[internalName] = cw
	u.moduleOrder = append(u.moduleOrder, internalName)
}

// flushModuleWriters publishes every synthetic module class once every
// top-level function has been emitted into it.
func (u *Unit) flushModuleWriters() {
	for _, name := range u.moduleOrder {
		u.publish(name, u.moduleWriters[name])
	}
}

func (u *Unit) emitFunction(cw *classfile.ClassWriter, enclosingInternal string, decl *ast.FunctionDecl, static bool, fieldTypes map[string]string) {
	if decl.Body == nil {
		access := accessFlags(decl.Visibility(), static, false) | classfile.AccAbstract
		cw.AddMethod(classfile.MethodSpec{Access: access, Name: decl.Name(), Descriptor: u.methodDescriptorOf(decl)})
		return
	}

	mc := newMethodCtx(u, cw, enclosingInternal, static, fieldTypes)
	mc.isAsync = decl.IsAsync
	mc.bindParams(decl.Params)
	mc.emitBlock(decl.Body)
	if mc.code.Reachable {
		if mc.isAsync {
			mc.code.EmitInsn(classfile.OpAconstNull, 1)
			mc.lastType = vartype.OBJECT
			mc.wrapAsyncReturn()
		} else {
			mc.code.EmitReturn(classfile.OpReturn, 0)
		}
	}

	access := accessFlags(decl.Visibility(), static, false)
	mc.finishMethod(access, decl.Name(), u.methodDescriptorOf(decl))
}

// futureDescriptor is the JVM descriptor for the runtime's type-erased
// async handle `com/firefly/runtime/async/Future`, the return type every
// `async fn` actually has at the JVM level regardless of its declared
// surface return type.
const futureDescriptor = "Lcom/firefly/runtime/async/Future;"

// wrapAsyncReturn boxes the value currently on top of the operand stack
// (if primitive) and wraps it into a completed Future before returning,
// the async counterpart of a plain value return. Mirrors
// java.util.concurrent.CompletableFuture.completedFuture's well-known
// single-factory-method shape.
func (m *methodCtx) wrapAsyncReturn() {
	if m.lastType.IsPrimitive() {
		m.boxValue(m.lastType)
	}
	desc := "(Ljava/lang/Object;)Lcom/firefly/runtime/async/Future;"
	m.code.EmitShortArg(classfile.OpInvokestatic, m.cw.Pool.Methodref("com/firefly/runtime/async/Future", "completed", desc), invokeStackDelta(desc, false))
	m.code.EmitReturn(classfile.OpAreturn, -1)
}

func (u *Unit) methodDescriptorOf(decl *ast.FunctionDecl) string {
	if decl.IsAsync {
		return "(" + paramsDescriptor(decl.Params, u.resolveName) + ")" + futureDescriptor
	}
	return vartype.MethodDescriptor(paramTypesOf(decl.Params), decl.Return, u.resolveName)
}

func paramsDescriptor(params []*ast.Param, resolve vartype.NameResolver) string {
	s := ""
	for _, p := range params {
		s += vartype.Descriptor(p.Type, resolve)
	}
	return s
}

func paramTypesOf(params []*ast.Param) []*ast.SurfaceType {
	out := make([]*ast.SurfaceType, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// emitMainTrampoline synthesizes `public static void main(String[])` for
// a class or module declaring the distinguished `fly(args: String[])`
// entry method.
func (u *Unit) emitMainTrampoline(cw *classfile.ClassWriter, internalName string, fly *ast.FunctionDecl) {
	mc := newMethodCtx(u, cw, internalName, true, nil)
	args := mc.code.ReserveLocal(false)
	flyDesc := u.methodDescriptorOf(fly)

	if fly.IsStatic {
		base, fast := loadOp(vartype.OBJECT)
		mc.code.EmitVarOp(base, fast, args, 1)
		mc.code.EmitShortArg(classfile.OpInvokestatic, cw.Pool.Methodref(internalName, fly.Name(), flyDesc), invokeStackDelta(flyDesc, false))
	} else {
		mc.code.EmitShortArg(classfile.OpNew, cw.Pool.Class(internalName), 1)
		mc.code.EmitInsn(classfile.OpDup, 1)
		mc.code.EmitShortArg(classfile.OpInvokespecial, cw.Pool.Methodref(internalName, "<init>", "()V"), -1)

		base, fast := loadOp(vartype.OBJECT)
		mc.code.EmitVarOp(base, fast, args, 1)
		mc.code.EmitShortArg(classfile.OpInvokevirtual, cw.Pool.Methodref(internalName, fly.Name(), flyDesc), invokeStackDelta(flyDesc, true))
	}

	mc.code.EmitReturn(classfile.OpReturn, 0)
	mc.finishMethod(classfile.AccPublic|classfile.AccStatic, "main", "([Ljava/lang/String;)V")
}

// --- Struct / Spark ---------------------------------------------------

func (u *Unit) emitStruct(enclosingInternal string, decl *ast.StructDecl) {
	internal := internalOf(enclosingInternal, decl.Name())
	cw := classfile.NewClassWriter(internal, "java/lang/Object", classfile.AccPublic|classfile.AccFinal|classfile.AccSuper)
	u.emitStructLike(cw, internal, decl.Fields, nil, nil, false, false)
	u.publish(internal, cw)
}

func (u *Unit) emitSpark(enclosingInternal string, decl *ast.SparkDecl) {
	internal := internalOf(enclosingInternal, decl.Name())
	cw := classfile.NewClassWriter(internal, "java/lang/Object", classfile.AccPublic|classfile.AccFinal|classfile.AccSuper)
	u.emitStructLike(cw, internal, decl.Fields, decl.Computed, decl.Validate, true, decl.Travelable)
	u.publish(internal, cw)
}

// emitStructLike is shared by struct and spark emission: a spark is a
// struct plus copy-with, computed properties, and validate. Emits fields,
// constructor, getters, equals/hashCode/toString, and (spark only)
// per-field with-copy methods and computed-property methods.
func (u *Unit) emitStructLike(cw *classfile.ClassWriter, internal string, fields []*ast.FieldDecl, computed []*ast.ComputedProperty, validate *ast.BlockStmt, isSpark, travelable bool) {
	fieldTypes := fieldTypesOf(u, fields)

	for _, f := range fields {
		cw.AddField(classfile.FieldSpec{Access: classfile.AccPrivate | classfile.AccFinal, Name: f.FName, Descriptor: fieldTypes[f.FName]})
	}

	u.emitStructConstructor(cw, internal, fields, fieldTypes, validate)

	for _, f := range fields {
		u.emitGetter(cw, internal, f, fieldTypes)
	}

	u.emitStructEquals(cw, internal, fields, fieldTypes)
	u.emitStructHashCode(cw, internal, fields, fieldTypes)
	u.emitStructToString(cw, internal, fields, fieldTypes)

	if isSpark {
		u.emitWithCopy(cw, internal, fields, fieldTypes)
		for _, c := range computed {
			u.emitComputedProperty(cw, internal, c, fieldTypes)
		}
	}
}

func (u *Unit) emitStructConstructor(cw *classfile.ClassWriter, internal string, fields []*ast.FieldDecl, fieldTypes map[string]string, validate *ast.BlockStmt) {
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	for _, f := range fields {
		vt := vartype.FromSurface(f.Type)
		decl := ""
		if f.Type != nil && f.Type.Kind == ast.STNamed {
			decl = u.resolveName(f.Type.Name)
		}
		mc.declareLocal(f.FName, vt, decl)
	}

	base, fast := loadOp(vartype.OBJECT)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitShortArg(classfile.OpInvokespecial, cw.Pool.Methodref("java/lang/Object", "<init>", "()V"), -1)

	for _, f := range fields {
		vt := vartype.FromSurface(f.Type)
		l := mc.locals[f.FName]
		base, fast = loadOp(vartype.OBJECT)
		mc.code.EmitVarOp(base, fast, 0, 1)
		mc.emitLoad(l)
		mc.code.EmitShortArg(classfile.OpPutfield, cw.Pool.Fieldref(internal, f.FName, fieldTypes[f.FName]), -1-width(vt))
	}

	if validate != nil {
		mc.emitBlock(validate)
	}

	mc.code.EmitReturn(classfile.OpReturn, 0)

	paramTypes := make([]*ast.SurfaceType, len(fields))
	for i, f := range fields {
		paramTypes[i] = f.Type
	}
	desc := vartype.MethodDescriptor(paramTypes, nil, u.resolveName)
	mc.finishMethod(classfile.AccPublic, "<init>", desc)
}

// beanGetterName implements the JavaBean naming rule: getX, or isX for
// booleans.
func beanGetterName(field *ast.FieldDecl) string {
	cap := field.FName
	if len(cap) > 0 {
		cap = string(cap[0]-'a'+'A') + cap[1:]
	}
	if field.Type != nil && field.Type.Kind == ast.STPrimitive && field.Type.Primitive == ast.PrimBool {
		return "is" + cap
	}
	return "get" + cap
}

func (u *Unit) emitGetter(cw *classfile.ClassWriter, internal string, f *ast.FieldDecl, fieldTypes map[string]string) {
	vt := vartype.FromSurface(f.Type)
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	base, fast := loadOp(vartype.OBJECT)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitShortArg(classfile.OpGetfield, cw.Pool.Fieldref(internal, f.FName, fieldTypes[f.FName]), width(vt)-1)
	mc.code.EmitReturn(returnOp(vt), 0)
	mc.finishMethod(classfile.AccPublic, beanGetterName(f), "()"+fieldTypes[f.FName])
}

// emitStructEquals implements structural equals: identity fast path, null
// check, getClass check, per-field comparison.
func (u *Unit) emitStructEquals(cw *classfile.ClassWriter, internal string, fields []*ast.FieldDecl, fieldTypes map[string]string) {
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	other := mc.code.ReserveLocal(false)

	identical := mc.code.NewLabel()
	notEqual := mc.code.NewLabel()

	selfLoad := func() { b, f := loadOp(vartype.OBJECT); mc.code.EmitVarOp(b, f, 0, 1) }
	otherLoad := func() { b, f := loadOp(vartype.OBJECT); mc.code.EmitVarOp(b, f, other, 1) }

	selfLoad()
	otherLoad()
	mc.code.EmitJump(classfile.OpIfAcmpeq, identical, -2)

	otherLoad()
	mc.code.EmitJump(classfile.OpIfnull, notEqual, -1)

	selfLoad()
	mc.code.EmitShortArg(classfile.OpInvokevirtual, cw.Pool.Methodref("java/lang/Object", "getClass", "()Ljava/lang/Class;"), 0)
	otherLoad()
	mc.code.EmitShortArg(classfile.OpInvokevirtual, cw.Pool.Methodref("java/lang/Object", "getClass", "()Ljava/lang/Class;"), 0)
	mc.code.EmitJump(classfile.OpIfAcmpne, notEqual, -2)

	for _, f := range fields {
		vt := vartype.FromSurface(f.Type)
		desc := fieldTypes[f.FName]
		selfLoad()
		mc.code.EmitShortArg(classfile.OpGetfield, cw.Pool.Fieldref(internal, f.FName, desc), width(vt)-1)
		otherLoad()
		mc.code.EmitShortArg(classfile.OpGetfield, cw.Pool.Fieldref(internal, f.FName, desc), width(vt)-1)
		mc.emitFieldEqualityTest(vt, notEqual)
	}

	mc.code.MarkLabel(identical)
	mc.code.EmitInsn(classfile.OpIconst1, 1)
	mc.code.EmitReturn(classfile.OpIreturn, 0)

	mc.code.MarkLabel(notEqual)
	mc.code.EmitInsn(classfile.OpIconst0, 1)
	mc.code.EmitReturn(classfile.OpIreturn, 0)

	mc.finishMethod(classfile.AccPublic, "equals", "(Ljava/lang/Object;)Z")
}

// emitFieldEqualityTest compares the two values already on the stack,
// jumping to fail on inequality, using the category-appropriate
// instruction: IF_ICMPNE (int/bool), LCMP+IFNE (long), DCMPL+IFNE
// (double), Objects.equals (reference).
func (m *methodCtx) emitFieldEqualityTest(vt vartype.VarType, fail classfile.Label) {
	switch vt {
	case vartype.INT, vartype.BOOLEAN:
		m.code.EmitJump(classfile.OpIfIcmpne, fail, -2)
	case vartype.LONG:
		m.code.EmitInsn(classfile.OpLcmp, -3)
		m.code.EmitJump(classfile.OpIfne, fail, -1)
	case vartype.DOUBLE, vartype.FLOAT:
		m.code.EmitInsn(classfile.OpDcmpl, -3)
		m.code.EmitJump(classfile.OpIfne, fail, -1)
	default:
		m.code.EmitShortArg(classfile.OpInvokestatic, m.cw.Pool.Methodref("java/util/Objects", "equals", "(Ljava/lang/Object;Ljava/lang/Object;)Z"), -1)
		m.code.EmitJump(classfile.OpIfeq, fail, -1)
	}
}

// emitStructHashCode implements `Objects.hash` with per-field boxing.
func (u *Unit) emitStructHashCode(cw *classfile.ClassWriter, internal string, fields []*ast.FieldDecl, fieldTypes map[string]string) {
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)

	pushIntConst(mc.code, cw.Pool, len(fields))
	mc.code.EmitShortArg(classfile.OpAnewarray, cw.Pool.Class("java/lang/Object"), 0)

	for i, f := range fields {
		vt := vartype.FromSurface(f.Type)
		desc := fieldTypes[f.FName]
		mc.code.EmitInsn(classfile.OpDup, 1)
		pushIntConst(mc.code, cw.Pool, i)
		base, fast := loadOp(vartype.OBJECT)
		mc.code.EmitVarOp(base, fast, 0, 1)
		mc.code.EmitShortArg(classfile.OpGetfield, cw.Pool.Fieldref(internal, f.FName, desc), width(vt)-1)
		mc.boxValue(vt)
		mc.code.EmitInsn(classfile.OpAastore, -3)
	}
	mc.code.EmitShortArg(classfile.OpInvokestatic, cw.Pool.Methodref("java/util/Objects", "hash", "([Ljava/lang/Object;)I"), 0)
	mc.code.EmitReturn(classfile.OpIreturn, 0)

	mc.finishMethod(classfile.AccPublic, "hashCode", "()I")
}

// emitStructToString implements a StringBuilder-based toString with
// per-type append descriptor. Each append's chained
// StringBuilder return value is stored back into sbSlot rather than kept
// on the stack, keeping the operand stack shallow between statements.
func (u *Unit) emitStructToString(cw *classfile.ClassWriter, internal string, fields []*ast.FieldDecl, fieldTypes map[string]string) {
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)

	sbSlot := mc.code.ReserveLocal(false)
	mc.code.EmitShortArg(classfile.OpNew, cw.Pool.Class("java/lang/StringBuilder"), 1)
	mc.code.EmitInsn(classfile.OpDup, 1)
	mc.code.EmitShortArg(classfile.OpInvokespecial, cw.Pool.Methodref("java/lang/StringBuilder", "<init>", "()V"), -1)
	st, sf := storeOp(vartype.OBJECT)
	mc.code.EmitVarOp(st, sf, sbSlot, -1)

	simpleName := internal
	if idx := lastSlash(internal); idx >= 0 {
		simpleName = internal[idx+1:]
	}
	mc.appendStringLiteral(sbSlot, simpleName+"(")

	for i, f := range fields {
		if i > 0 {
			mc.appendStringLiteral(sbSlot, ", ")
		}
		mc.appendStringLiteral(sbSlot, f.FName+"=")

		vt := vartype.FromSurface(f.Type)
		mc.appendLoad(sbSlot)
		base, fast := loadOp(vartype.OBJECT)
		mc.code.EmitVarOp(base, fast, 0, 1)
		mc.code.EmitShortArg(classfile.OpGetfield, cw.Pool.Fieldref(internal, f.FName, fieldTypes[f.FName]), width(vt)-1)
		mc.appendValue(sbSlot, vt)
	}
	mc.appendStringLiteral(sbSlot, ")")

	mc.appendLoad(sbSlot)
	mc.code.EmitShortArg(classfile.OpInvokevirtual, cw.Pool.Methodref("java/lang/StringBuilder", "toString", "()Ljava/lang/String;"), 0)
	mc.code.EmitReturn(classfile.OpAreturn, 0)

	mc.finishMethod(classfile.AccPublic, "toString", "()Ljava/lang/String;")
}

// appendLoad pushes the StringBuilder local back onto the stack ahead of
// a chained append call.
func (m *methodCtx) appendLoad(sbSlot int) {
	base, fast := loadOp(vartype.OBJECT)
	m.code.EmitVarOp(base, fast, sbSlot, 1)
}

// appendStringLiteral emits `sb = sb.append("literal")`.
func (m *methodCtx) appendStringLiteral(sbSlot int, s string) {
	m.appendLoad(sbSlot)
	pushStringConst(m.code, m.cw.Pool, s)
	desc := "(Ljava/lang/String;)Ljava/lang/StringBuilder;"
	m.code.EmitShortArg(classfile.OpInvokevirtual, m.cw.Pool.Methodref("java/lang/StringBuilder", "append", desc), invokeStackDelta(desc, true))
	st, sf := storeOp(vartype.OBJECT)
	m.code.EmitVarOp(st, sf, sbSlot, -1)
}

// appendValue emits `sb = sb.append(<value already on the stack, pushed
// after the StringBuilder receiver>)`, selecting the overload matching
// vt's category.
func (m *methodCtx) appendValue(sbSlot int, vt vartype.VarType) {
	var desc string
	switch vt {
	case vartype.BOOLEAN:
		desc = "(Z)Ljava/lang/StringBuilder;"
	case vartype.INT:
		desc = "(I)Ljava/lang/StringBuilder;"
	case vartype.LONG:
		desc = "(J)Ljava/lang/StringBuilder;"
	case vartype.DOUBLE, vartype.FLOAT:
		desc = "(D)Ljava/lang/StringBuilder;"
	default:
		desc = "(Ljava/lang/Object;)Ljava/lang/StringBuilder;"
	}
	m.code.EmitShortArg(classfile.OpInvokevirtual, m.cw.Pool.Methodref("java/lang/StringBuilder", "append", desc), invokeStackDelta(desc, true))
	st, sf := storeOp(vartype.OBJECT)
	m.code.EmitVarOp(st, sf, sbSlot, -1)
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' || s[i] == '$' {
			return i
		}
	}
	return -1
}

// emitWithCopy implements a spark's `with(field: v)` copy surface as one
// `withX(T)` method per field, each rebuilding the record with that field
// replaced.
func (u *Unit) emitWithCopy(cw *classfile.ClassWriter, internal string, fields []*ast.FieldDecl, fieldTypes map[string]string) {
	paramTypes := make([]*ast.SurfaceType, len(fields))
	for i, f := range fields {
		paramTypes[i] = f.Type
	}
	ctorDesc := vartype.MethodDescriptor(paramTypes, nil, u.resolveName)

	for _, target := range fields {
		mc := newMethodCtx(u, cw, internal, false, fieldTypes)
		vt := vartype.FromSurface(target.Type)
		argSlot := mc.code.ReserveLocal(vt.IsWide())

		mc.code.EmitShortArg(classfile.OpNew, cw.Pool.Class(internal), 1)
		mc.code.EmitInsn(classfile.OpDup, 1)

		for _, f := range fields {
			if f.FName == target.FName {
				base, fast := loadOp(vt)
				mc.code.EmitVarOp(base, fast, argSlot, width(vt))
				continue
			}
			fvt := vartype.FromSurface(f.Type)
			base, fast := loadOp(vartype.OBJECT)
			mc.code.EmitVarOp(base, fast, 0, 1)
			mc.code.EmitShortArg(classfile.OpGetfield, cw.Pool.Fieldref(internal, f.FName, fieldTypes[f.FName]), width(fvt)-1)
		}

		mc.code.EmitShortArg(classfile.OpInvokespecial, cw.Pool.Methodref(internal, "<init>", ctorDesc), invokeStackDelta(ctorDesc, true))
		mc.code.EmitReturn(classfile.OpAreturn, 0)

		cap := target.FName
		if len(cap) > 0 {
			cap = string(cap[0]-'a'+'A') + cap[1:]
		}
		mc.finishMethod(classfile.AccPublic, "with"+cap, "("+fieldTypes[target.FName]+")L"+internal+";")
	}
}

func (u *Unit) emitComputedProperty(cw *classfile.ClassWriter, internal string, c *ast.ComputedProperty, fieldTypes map[string]string) {
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	mc.emitBlock(c.Body)
	if mc.code.Reachable {
		mc.code.EmitReturn(classfile.OpReturn, 0)
	}
	mc.finishMethod(classfile.AccPublic, c.PName, "()"+u.Descriptor(c.Type))
}

// --- Data ADT -----------------------------------------------------------

// emitDataADT lowers a `data Name { Variant(fields), ... }` declaration to
// a sealed-shaped hierarchy: an abstract base class (the type
// instanceof/checkcast targets when matching is not variant-specific) and
// one final subclass per variant, each carrying its own fields,
// constructor, componentN() positional getters (matching the
// constructor-pattern lowering in patterns.go), and structural
// equals/hashCode/toString - the same value-type shape emitStructLike
// gives a plain struct, minus the `with`/computed-property spark extras
// no ADT variant needs.
func (u *Unit) emitDataADT(enclosingInternal string, decl *ast.DataADTDecl) {
	base := internalOf(enclosingInternal, decl.Name())
	baseCW := classfile.NewClassWriter(base, "java/lang/Object", classfile.AccPublic|classfile.AccAbstract|classfile.AccSuper)
	u.emitAbstractBaseConstructor(baseCW, base)
	u.publish(base, baseCW)

	for _, v := range decl.Variants {
		variantInternal := base + "$" + v.VName
		cw := classfile.NewClassWriter(variantInternal, base, classfile.AccPublic|classfile.AccFinal|classfile.AccSuper)
		fieldTypes := fieldTypesOf(u, v.Fields)
		for _, f := range v.Fields {
			cw.AddField(classfile.FieldSpec{Access: classfile.AccPrivate | classfile.AccFinal, Name: f.FName, Descriptor: fieldTypes[f.FName]})
		}
		u.emitVariantConstructor(cw, variantInternal, base, v.Fields, fieldTypes)
		for i, f := range v.Fields {
			u.emitComponentGetter(cw, variantInternal, f, fieldTypes, i)
		}
		u.emitStructEquals(cw, variantInternal, v.Fields, fieldTypes)
		u.emitStructHashCode(cw, variantInternal, v.Fields, fieldTypes)
		u.emitStructToString(cw, variantInternal, v.Fields, fieldTypes)
		u.publish(variantInternal, cw)
	}
}

func (u *Unit) emitAbstractBaseConstructor(cw *classfile.ClassWriter, internal string) {
	mc := newMethodCtx(u, cw, internal, false, nil)
	base, fast := loadOp(vartype.OBJECT)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitShortArg(classfile.OpInvokespecial, cw.Pool.Methodref("java/lang/Object", "<init>", "()V"), -1)
	mc.code.EmitReturn(classfile.OpReturn, 0)
	mc.finishMethod(classfile.AccProtected, "<init>", "()V")
}

func (u *Unit) emitVariantConstructor(cw *classfile.ClassWriter, internal, super string, fields []*ast.FieldDecl, fieldTypes map[string]string) {
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	for _, f := range fields {
		vt := vartype.FromSurface(f.Type)
		decl := ""
		if f.Type != nil && f.Type.Kind == ast.STNamed {
			decl = u.resolveName(f.Type.Name)
		}
		mc.declareLocal(f.FName, vt, decl)
	}

	base, fast := loadOp(vartype.OBJECT)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitShortArg(classfile.OpInvokespecial, cw.Pool.Methodref(super, "<init>", "()V"), -1)

	for _, f := range fields {
		vt := vartype.FromSurface(f.Type)
		l := mc.locals[f.FName]
		base, fast = loadOp(vartype.OBJECT)
		mc.code.EmitVarOp(base, fast, 0, 1)
		mc.emitLoad(l)
		mc.code.EmitShortArg(classfile.OpPutfield, cw.Pool.Fieldref(internal, f.FName, fieldTypes[f.FName]), -1-width(vt))
	}
	mc.code.EmitReturn(classfile.OpReturn, 0)

	paramTypes := make([]*ast.SurfaceType, len(fields))
	for i, f := range fields {
		paramTypes[i] = f.Type
	}
	desc := vartype.MethodDescriptor(paramTypes, nil, u.resolveName)
	mc.finishMethod(classfile.AccPublic, "<init>", desc)
}

// emitComponentGetter names the accessor componentN (1-indexed), matching
// the positional pattern lowering in patterns.go rather than the JavaBean
// getX name a struct field getter uses.
func (u *Unit) emitComponentGetter(cw *classfile.ClassWriter, internal string, f *ast.FieldDecl, fieldTypes map[string]string, index int) {
	vt := vartype.FromSurface(f.Type)
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	base, fast := loadOp(vartype.OBJECT)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitShortArg(classfile.OpGetfield, cw.Pool.Fieldref(internal, f.FName, fieldTypes[f.FName]), width(vt)-1)
	mc.code.EmitReturn(returnOp(vt), 0)
	mc.finishMethod(classfile.AccPublic, "component"+itoa(index+1), "()"+fieldTypes[f.FName])
}

// --- Class / Interface / Trait / Impl / Exception / Actor --------------

func (u *Unit) emitClass(enclosingInternal string, decl *ast.ClassDecl) {
	internal := internalOf(enclosingInternal, decl.Name())
	super := "java/lang/Object"
	if decl.Parent != "" {
		super = u.resolveName(decl.Parent)
	}
	access := classfile.AccPublic | classfile.AccSuper
	if decl.IsFinal {
		access |= classfile.AccFinal
	}
	cw := classfile.NewClassWriter(internal, super, access)
	for _, iface := range decl.Interfaces {
		cw.AddInterface(u.resolveName(iface))
	}

	fieldTypes := fieldTypesOf(u, decl.Fields)
	for _, f := range decl.Fields {
		facc := accessFlags(f.Vis, false, !f.Mutable)
		cw.AddField(classfile.FieldSpec{Access: facc, Name: f.FName, Descriptor: fieldTypes[f.FName]})
	}

	u.emitDefaultOrChainedConstructor(cw, internal, super, fieldTypes)

	for _, m := range decl.Methods {
		u.emitFunction(cw, internal, m, m.IsStatic, fieldTypes)
		if m.IsEntryPoint {
			u.emitMainTrampoline(cw, internal, m)
		}
	}

	u.publish(internal, cw)

	for _, nested := range decl.Nested {
		u.emitTopLevel(internal, nested)
	}
}

// emitDefaultOrChainedConstructor emits the JVM-mandated no-arg
// constructor chaining to super(); Firefly classes with declared
// constructors are represented as regular methods upstream of this back
// end, so this is always the shape the emitter sees for a class's <init>.
func (u *Unit) emitDefaultOrChainedConstructor(cw *classfile.ClassWriter, internal, super string, fieldTypes map[string]string) {
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	base, fast := loadOp(vartype.OBJECT)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitShortArg(classfile.OpInvokespecial, cw.Pool.Methodref(super, "<init>", "()V"), -1)
	mc.code.EmitReturn(classfile.OpReturn, 0)
	mc.finishMethod(classfile.AccPublic, "<init>", "()V")
}

// emitInterface / emitTrait: a trait is identical to an interface in JVM
// shape.
func (u *Unit) emitInterface(enclosingInternal string, decl *ast.InterfaceDecl) {
	internal := internalOf(enclosingInternal, decl.Name())
	cw := classfile.NewClassWriter(internal, "java/lang/Object", classfile.AccPublic|classfile.AccInterface|classfile.AccAbstract)
	for _, s := range decl.Supers {
		cw.AddInterface(u.resolveName(s))
	}
	for _, m := range decl.Methods {
		u.emitFunction(cw, internal, m, false, nil)
	}
	u.publish(internal, cw)
}

func (u *Unit) emitTrait(enclosingInternal string, decl *ast.TraitDecl) {
	internal := internalOf(enclosingInternal, decl.Name())
	cw := classfile.NewClassWriter(internal, "java/lang/Object", classfile.AccPublic|classfile.AccInterface|classfile.AccAbstract)
	for _, s := range decl.Supers {
		cw.AddInterface(u.resolveName(s))
	}
	for _, m := range decl.Methods {
		u.emitFunction(cw, internal, m, false, nil)
	}
	u.publish(internal, cw)
}

// emitImpl: `impl Trait for Type` emits a synthetic adapter
// `Type$TraitImpl` forwarding to a `target: Type` field; inherent
// `impl Type` emits `TypeExtensions` holding static helpers.
func (u *Unit) emitImpl(enclosingInternal string, decl *ast.ImplDecl) {
	targetInternal := u.resolveName(decl.Target)
	if decl.Trait == "" {
		internal := internalOf(enclosingInternal, simpleNameOf(decl.Target)+"Extensions")
		cw := classfile.NewClassWriter(internal, "java/lang/Object", classfile.AccPublic|classfile.AccFinal|classfile.AccSuper)
		for _, m := range decl.Methods {
			u.emitFunction(cw, internal, m, true, nil)
		}
		u.publish(internal, cw)
		return
	}

	traitInternal := u.resolveName(decl.Trait)
	internal := internalOf(enclosingInternal, simpleNameOf(decl.Target)+"$"+simpleNameOf(decl.Trait)+"Impl")
	cw := classfile.NewClassWriter(internal, "java/lang/Object", classfile.AccPublic|classfile.AccFinal|classfile.AccSuper)
	cw.AddInterface(traitInternal)

	targetDesc := "L" + targetInternal + ";"
	fieldTypes := map[string]string{"target": targetDesc}
	cw.AddField(classfile.FieldSpec{Access: classfile.AccPrivate | classfile.AccFinal, Name: "target", Descriptor: targetDesc})

	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	ts := mc.code.ReserveLocal(false)
	base, fast := loadOp(vartype.OBJECT)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitShortArg(classfile.OpInvokespecial, cw.Pool.Methodref("java/lang/Object", "<init>", "()V"), -1)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitVarOp(base, fast, ts, 1)
	mc.code.EmitShortArg(classfile.OpPutfield, cw.Pool.Fieldref(internal, "target", targetDesc), -2)
	mc.code.EmitReturn(classfile.OpReturn, 0)
	mc.finishMethod(classfile.AccPublic, "<init>", "("+targetDesc+")V")

	for _, m := range decl.Methods {
		u.emitFunction(cw, internal, m, false, fieldTypes)
	}

	u.publish(internal, cw)
}

func simpleNameOf(dottedOrSimple string) string {
	for i := len(dottedOrSimple) - 1; i >= 0; i-- {
		if dottedOrSimple[i] == '.' {
			return dottedOrSimple[i+1:]
		}
	}
	return dottedOrSimple
}

func (u *Unit) emitException(enclosingInternal string, decl *ast.ExceptionDecl) {
	internal := internalOf(enclosingInternal, decl.Name())
	super := "com/firefly/runtime/exceptions/FlyException"
	if decl.Parent != "" {
		super = u.resolveName(decl.Parent)
	}
	cw := classfile.NewClassWriter(internal, super, classfile.AccPublic|classfile.AccSuper)

	fieldTypes := fieldTypesOf(u, decl.Fields)
	for _, f := range decl.Fields {
		cw.AddField(classfile.FieldSpec{Access: accessFlags(f.Vis, false, !f.Mutable), Name: f.FName, Descriptor: fieldTypes[f.FName]})
	}
	u.emitDefaultOrChainedConstructor(cw, internal, super, fieldTypes)
	for _, m := range decl.Methods {
		u.emitFunction(cw, internal, m, m.IsStatic, fieldTypes)
	}
	u.publish(internal, cw)
}

// emitActor implements the runtime Actor<State,Message> interface:
// init() returns this; handle(message, state) dispatches on receive
// cases via the pattern-match lowering.
func (u *Unit) emitActor(enclosingInternal string, decl *ast.ActorDecl) {
	internal := internalOf(enclosingInternal, decl.Name())
	cw := classfile.NewClassWriter(internal, "java/lang/Object", classfile.AccPublic|classfile.AccSuper)
	cw.AddInterface("com/firefly/runtime/actor/Actor")

	fieldTypes := fieldTypesOf(u, decl.Fields)
	for _, f := range decl.Fields {
		cw.AddField(classfile.FieldSpec{Access: accessFlags(f.Vis, false, !f.Mutable), Name: f.FName, Descriptor: fieldTypes[f.FName]})
	}
	u.emitDefaultOrChainedConstructor(cw, internal, "java/lang/Object", fieldTypes)

	u.emitActorInit(cw, internal, fieldTypes)
	u.emitActorHandle(cw, internal, decl.Receive, fieldTypes)

	for _, m := range decl.Methods {
		u.emitFunction(cw, internal, m, false, fieldTypes)
	}

	u.publish(internal, cw)
}

func (u *Unit) emitActorInit(cw *classfile.ClassWriter, internal string, fieldTypes map[string]string) {
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	base, fast := loadOp(vartype.OBJECT)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitReturn(classfile.OpAreturn, 0)
	mc.finishMethod(classfile.AccPublic, "init", "()Ljava/lang/Object;")
}

func (u *Unit) emitActorHandle(cw *classfile.ClassWriter, internal string, cases []*ast.ReceiveCase, fieldTypes map[string]string) {
	mc := newMethodCtx(u, cw, internal, false, fieldTypes)
	msgSlot := mc.code.ReserveLocal(false)
	mc.code.ReserveLocal(false) // state, unused: actor state is `this`

	mc.emitReceiveCases(msgSlot, cases)

	base, fast := loadOp(vartype.OBJECT)
	mc.code.EmitVarOp(base, fast, 0, 1)
	mc.code.EmitReturn(classfile.OpAreturn, 0)

	mc.finishMethod(classfile.AccPublic, "handle", "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;")
}
