package emit

import (
	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// local is one entry of the current-method local-variable table: slot,
// value category, and (for Firefly class instances) the declared class
// internal name, used to pick an instance-method's reflected owner at a
// call site without re-inferring it from scratch.
type local struct {
	slot             int
	vt               vartype.VarType
	declaredInternal string
}

// methodCtx is the mutable state one method-body lowering pass owns:
// the class writer it is contributing to, the code builder, the
// local-variable table, the last-produced value category, and the
// break/continue label stacks. Nested emission (a lambda body, an async
// helper) constructs a fresh methodCtx and never shares one across
// methods, since two method bodies can never safely interleave their
// locals or label stacks.
type methodCtx struct {
	unit              *Unit
	cw                *classfile.ClassWriter
	code              *classfile.CodeBuilder
	enclosingInternal string
	isStatic          bool
	// isAsync marks an `async fn` body: its JVM return type is always the
	// runtime's Future, so every `return` (explicit or implicit
	// fall-through) wraps the produced value instead of returning it
	// directly.
	isAsync bool

	locals   map[string]*local
	lastType vartype.VarType
	lastDeclaredInternal string // "" unless lastType == OBJECT and a Firefly class

	breakLabels    []classfile.Label
	continueLabels []classfile.Label

	handlers []classfile.ExceptionHandler

	// fieldTypes holds field descriptors for the class currently being
	// emitted, used by GETFIELD/PUTFIELD.
	fieldTypes map[string]string
}

func newMethodCtx(u *Unit, cw *classfile.ClassWriter, enclosingInternal string, isStatic bool, fieldTypes map[string]string) *methodCtx {
	return &methodCtx{
		unit:              u,
		cw:                cw,
		code:              classfile.NewCodeBuilder(),
		enclosingInternal: enclosingInternal,
		isStatic:          isStatic,
		locals:            make(map[string]*local),
		fieldTypes:        fieldTypes,
	}
}

// bindParams allocates slots for an instance `this` (if non-static) and
// each declared parameter, in order, matching the JVM's own local-slot
// allocation convention.
func (m *methodCtx) bindParams(params []*ast.Param) {
	if !m.isStatic {
		m.locals["self"] = &local{slot: m.code.ReserveLocal(false), vt: vartype.OBJECT, declaredInternal: m.enclosingInternal}
	}
	for _, p := range params {
		vt := vartype.FromSurface(p.Type)
		slot := m.code.ReserveLocal(vt.IsWide())
		decl := ""
		if p.Type != nil && p.Type.Kind == ast.STNamed {
			decl = m.unit.resolveName(p.Type.Name)
		}
		m.locals[p.PName] = &local{slot: slot, vt: vt, declaredInternal: decl}
	}
}

// declareLocal allocates a fresh slot for `let` bindings and loop/match
// pattern bindings.
func (m *methodCtx) declareLocal(name string, vt vartype.VarType, declaredInternal string) *local {
	l := &local{slot: m.code.ReserveLocal(vt.IsWide()), vt: vt, declaredInternal: declaredInternal}
	m.locals[name] = l
	return l
}

// methodDescriptor renders this unit's surface types to a JVM descriptor.
func (m *methodCtx) methodDescriptor(params []*ast.Param, ret *ast.SurfaceType) string {
	var paramTypes []*ast.SurfaceType
	for _, p := range params {
		paramTypes = append(paramTypes, p.Type)
	}
	return vartype.MethodDescriptor(paramTypes, ret, m.unit.resolveName)
}

// finishMethod assembles the Code attribute (and LineNumberTable, when
// any line was recorded) and appends the finished method_info to cw.
func (m *methodCtx) finishMethod(access int, name, descriptor string) {
	var nested []classfile.Attribute
	if lines := m.code.LineNumbers(); len(lines) > 0 {
		nested = append(nested, classfile.LineNumberTableAttribute(m.cw.Pool, lines))
	}
	code := classfile.CodeAttribute(m.cw.Pool, m.code.MaxStack(), m.code.MaxLocals(), m.code.Code(), m.handlers, nested)
	m.cw.AddMethod(classfile.MethodSpec{Access: access, Name: name, Descriptor: descriptor, Attrs: []classfile.Attribute{code}})
}

// returnOp picks the category-appropriate *RETURN opcode.
func returnOp(vt vartype.VarType) classfile.Op {
	switch vt {
	case vartype.INT, vartype.BOOLEAN:
		return classfile.OpIreturn
	case vartype.LONG:
		return classfile.OpLreturn
	case vartype.DOUBLE, vartype.FLOAT:
		return classfile.OpDreturn
	default:
		return classfile.OpAreturn
	}
}

func loadOp(vt vartype.VarType) (base, fast classfile.Op) {
	switch vt {
	case vartype.LONG:
		return classfile.OpLload, classfile.OpLload0
	case vartype.DOUBLE, vartype.FLOAT:
		return classfile.OpDload, classfile.OpDload0
	case vartype.INT, vartype.BOOLEAN:
		return classfile.OpIload, classfile.OpIload0
	default:
		return classfile.OpAload, classfile.OpAload0
	}
}

func storeOp(vt vartype.VarType) (base, fast classfile.Op) {
	switch vt {
	case vartype.LONG:
		return classfile.OpLstore, classfile.OpLstore0
	case vartype.DOUBLE, vartype.FLOAT:
		return classfile.OpDstore, classfile.OpDstore0
	case vartype.INT, vartype.BOOLEAN:
		return classfile.OpIstore, classfile.OpIstore0
	default:
		return classfile.OpAstore, classfile.OpAstore0
	}
}

// emitLoad/emitStore apply the category-correct stack delta (2 for a
// wide load push, etc.) via EmitVarOp.
func (m *methodCtx) emitLoad(l *local) {
	base, fast := loadOp(l.vt)
	delta := 1
	if l.vt.IsWide() {
		delta = 2
	}
	m.code.EmitVarOp(base, fast, l.slot, delta)
	m.lastType = l.vt
	m.lastDeclaredInternal = l.declaredInternal
}

func (m *methodCtx) emitStore(l *local) {
	base, fast := storeOp(l.vt)
	delta := -1
	if l.vt.IsWide() {
		delta = -2
	}
	m.code.EmitVarOp(base, fast, l.slot, delta)
}
