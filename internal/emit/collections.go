package emit

import (
	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// emitTuple lowers `(e1, e2, ...)` as a java.util.ArrayList, matching
// TupleIndexExpr's List.get(i) / TuplePattern's same access.
func (m *methodCtx) emitTuple(n *ast.TupleExpr) vartype.VarType {
	m.newArrayList(len(n.Elems))
	for _, e := range n.Elems {
		m.code.EmitInsn(classfile.OpDup, 1)
		vt := m.emitExpr(e)
		if vt.IsPrimitive() {
			m.boxValue(vt)
		}
		addDesc := "(Ljava/lang/Object;)Z"
		m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/List", "add", addDesc), 1, invokeStackDelta(addDesc, true))
		m.code.EmitInsn(classfile.OpPop, -1)
	}
	return m.settle(vartype.OBJECT, "java/util/ArrayList")
}

func (m *methodCtx) emitTupleIndex(n *ast.TupleIndexExpr) vartype.VarType {
	m.emitExpr(n.Receiver)
	desc := "(I)Ljava/lang/Object;"
	pushIntConst(m.code, m.cw.Pool, n.Index)
	m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/List", "get", desc), 1, invokeStackDelta(desc, true))
	vt := vartype.FromSurface(n.InferredType())
	if vt.IsPrimitive() {
		m.code.EmitShortArg(classfile.OpCheckcast, m.cw.Pool.Class(vt.BoxedClass()), 0)
		m.unboxValue(vt)
	}
	return m.settle(vt, "")
}

// emitArrayLiteral lowers `[e1, e2, ...]` via an ArrayList, the same
// ArrayList/List collection family the rest of this back end leans on
// for indexable sequences.
func (m *methodCtx) emitArrayLiteral(n *ast.ArrayLiteralExpr) vartype.VarType {
	m.newArrayList(len(n.Elems))
	for _, e := range n.Elems {
		m.code.EmitInsn(classfile.OpDup, 1)
		vt := m.emitExpr(e)
		if vt.IsPrimitive() {
			m.boxValue(vt)
		}
		addDesc := "(Ljava/lang/Object;)Z"
		m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/List", "add", addDesc), 1, invokeStackDelta(addDesc, true))
		m.code.EmitInsn(classfile.OpPop, -1)
	}
	return m.settle(vartype.OBJECT, "java/util/ArrayList")
}

func (m *methodCtx) newArrayList(capacityHint int) {
	m.code.EmitShortArg(classfile.OpNew, m.cw.Pool.Class("java/util/ArrayList"), 1)
	m.code.EmitInsn(classfile.OpDup, 1)
	m.code.EmitShortArg(classfile.OpInvokespecial, m.cw.Pool.Methodref("java/util/ArrayList", "<init>", "()V"), -1)
}

// emitMapLiteral lowers `{k1: v1, ...}` via java.util.HashMap.
func (m *methodCtx) emitMapLiteral(n *ast.MapLiteralExpr) vartype.VarType {
	m.code.EmitShortArg(classfile.OpNew, m.cw.Pool.Class("java/util/HashMap"), 1)
	m.code.EmitInsn(classfile.OpDup, 1)
	m.code.EmitShortArg(classfile.OpInvokespecial, m.cw.Pool.Methodref("java/util/HashMap", "<init>", "()V"), -1)

	for i, k := range n.Keys {
		m.code.EmitInsn(classfile.OpDup, 1)
		kvt := m.emitExpr(k)
		if kvt.IsPrimitive() {
			m.boxValue(kvt)
		}
		vvt := m.emitExpr(n.Values[i])
		if vvt.IsPrimitive() {
			m.boxValue(vvt)
		}
		putDesc := "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;"
		m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/Map", "put", putDesc), 2, invokeStackDelta(putDesc, true))
		m.code.EmitInsn(classfile.OpPop, -1)
	}
	return m.settle(vartype.OBJECT, "java/util/HashMap")
}

// emitStructLiteral lowers `Name { f1: e1, ... }`, reordering the
// written fields to the registered constructor parameter order: field
// order always equals constructor parameter order.
func (m *methodCtx) emitStructLiteral(n *ast.StructLiteralExpr) vartype.VarType {
	meta, ok := m.unit.Reg.LookupStruct(n.TypeName)
	if !ok {
		panic("emit: unregistered struct literal " + n.TypeName)
	}
	byName := make(map[string]ast.Expr, len(n.Fields))
	for _, f := range n.Fields {
		byName[f.Name] = f.Value
	}

	m.code.EmitShortArg(classfile.OpNew, m.cw.Pool.Class(meta.InternalName), 1)
	m.code.EmitInsn(classfile.OpDup, 1)

	paramTypes := make([]*ast.SurfaceType, len(meta.Fields))
	for i, f := range meta.Fields {
		paramTypes[i] = f.Type
		m.emitExpr(byName[f.Name])
	}
	desc := vartype.MethodDescriptor(paramTypes, nil, m.unit.resolveName)
	m.code.EmitShortArg(classfile.OpInvokespecial, m.cw.Pool.Methodref(meta.InternalName, "<init>", desc), invokeStackDelta(desc, true))
	return m.settle(vartype.OBJECT, meta.InternalName)
}

// emitIfExpr lowers `if cond { then } else { alt }` used as a value:
// both branches box to a common Object representation so the join
// point's stack shape is uniform, then unbox back to the expression's
// own inferred category if primitive.
func (m *methodCtx) emitIfExpr(n *ast.IfExpr) vartype.VarType {
	elseLbl := m.code.NewLabel()
	join := m.code.NewLabel()
	resultVt := vartype.FromSurface(n.InferredType())

	m.emitExpr(n.Cond)
	m.code.EmitJump(classfile.OpIfeq, elseLbl, -1)

	thenVt := m.emitExpr(n.Then)
	if thenVt.IsPrimitive() {
		m.boxValue(thenVt)
	}
	m.code.EmitJump(classfile.OpGoto, join, 0)

	m.code.MarkLabel(elseLbl)
	if n.Else != nil {
		elseVt := m.emitExpr(n.Else)
		if elseVt.IsPrimitive() {
			m.boxValue(elseVt)
		}
	} else {
		m.code.EmitInsn(classfile.OpAconstNull, 1)
	}
	m.code.MarkLabel(join)

	if resultVt.IsPrimitive() {
		m.unboxValue(resultVt)
	}
	return m.settle(resultVt, "")
}
