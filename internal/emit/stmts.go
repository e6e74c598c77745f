package emit

import (
	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// emitBlock lowers a `{ stmt; stmt; ... }` block, the central dispatch
// every method/getter/computed-property body goes through.
func (m *methodCtx) emitBlock(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		m.emitStmt(s)
	}
}

func (m *methodCtx) emitStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.BlockStmt:
		m.emitBlock(n)
	case *ast.LetStmt:
		m.emitLet(n)
	case *ast.AssignStmt:
		m.emitAssign(n)
	case *ast.ExprStmt:
		m.emitExprStmt(n)
	case *ast.IfStmt:
		m.emitIfStmt(n)
	case *ast.WhileStmt:
		m.emitWhileStmt(n)
	case *ast.ForStmt:
		m.emitForStmt(n)
	case *ast.BreakStmt:
		m.emitBreak(n)
	case *ast.ContinueStmt:
		m.emitContinue(n)
	case *ast.ReturnStmt:
		m.emitReturn(n)
	case *ast.ThrowStmt:
		m.emitThrowStmt(n)
	case *ast.TryStmt:
		m.emitTryStmt(n)
	default:
		panic("emit: unhandled statement kind")
	}
}

func (m *methodCtx) emitLet(n *ast.LetStmt) {
	vt := m.emitExpr(n.Value)
	decl := m.lastDeclaredInternal
	if n.Declared != nil {
		vt = vartype.FromSurface(n.Declared)
		if n.Declared.Kind == ast.STNamed {
			decl = m.unit.resolveName(n.Declared.Name)
		}
	}
	l := m.declareLocal(n.Name, vt, decl)
	m.emitStore(l)
}

// emitAssign lowers `target = value` for the three assignable target
// shapes: a plain identifier (local store), `self.field`/`obj.field`
// (PUTFIELD), and `recv[idx]` (List.set).
func (m *methodCtx) emitAssign(n *ast.AssignStmt) {
	switch t := n.Target.(type) {
	case *ast.Identifier:
		if l, ok := m.locals[t.Name]; ok {
			m.emitExpr(n.Value)
			m.emitStore(l)
			return
		}
		// Assignment to a field referenced bare (within an instance
		// method, `self` is implicit).
		vt := vartype.FromSurface(t.InferredType())
		desc, ok := m.fieldTypes[t.Name]
		if !ok {
			panic("emit: unresolved assignment target " + t.Name)
		}
		base, fast := loadOp(vartype.OBJECT)
		m.code.EmitVarOp(base, fast, 0, 1)
		m.emitExpr(n.Value)
		m.code.EmitShortArg(classfile.OpPutfield, m.cw.Pool.Fieldref(m.enclosingInternal, t.Name, desc), -1-width(vt))
	case *ast.MemberExpr:
		m.emitExpr(t.Receiver)
		owner := m.lastDeclaredInternal
		vt := vartype.FromSurface(t.InferredType())
		desc := vartype.Descriptor(t.InferredType(), m.unit.resolveName)
		m.emitExpr(n.Value)
		m.code.EmitShortArg(classfile.OpPutfield, m.cw.Pool.Fieldref(owner, t.Member, desc), -1-width(vt))
	case *ast.IndexExpr:
		m.emitExpr(t.Receiver)
		m.emitExpr(t.Index)
		vt := m.emitExpr(n.Value)
		if vt.IsPrimitive() {
			m.boxValue(vt)
		}
		desc := "(ILjava/lang/Object;)Ljava/lang/Object;"
		m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/List", "set", desc), 2, invokeStackDelta(desc, true))
		m.code.EmitInsn(classfile.OpPop, -1)
	default:
		panic("emit: unsupported assignment target")
	}
}

// emitExprStmt evaluates an expression for effect, popping its result
// per its category's slot width: POP2 for a discarded wide value (long
// or double), POP for a narrow one, nothing for void.
func (m *methodCtx) emitExprStmt(n *ast.ExprStmt) {
	vt := m.emitExpr(n.Expression)
	if _, isCall := n.Expression.(*ast.CallExpr); isCall && n.Expression.InferredType() == nil {
		return // void call: nothing was pushed
	}
	if vt.IsWide() {
		m.code.EmitInsn(classfile.OpPop2, -2)
	} else {
		m.code.EmitInsn(classfile.OpPop, -1)
	}
}

func (m *methodCtx) emitIfStmt(n *ast.IfStmt) {
	elseLbl := m.code.NewLabel()
	m.emitExpr(n.Cond)
	m.code.EmitJump(classfile.OpIfeq, elseLbl, -1)
	m.emitStmt(n.Consequence)

	if n.Alternative == nil {
		m.code.MarkLabel(elseLbl)
		return
	}
	join := m.code.NewLabel()
	thenReachable := m.code.Reachable
	if thenReachable {
		m.code.EmitJump(classfile.OpGoto, join, 0)
	}
	m.code.MarkLabel(elseLbl)
	m.emitStmt(n.Alternative)
	m.code.MarkLabel(join)
}

func (m *methodCtx) emitWhileStmt(n *ast.WhileStmt) {
	top := m.code.NewLabel()
	exit := m.code.NewLabel()

	m.breakLabels = append(m.breakLabels, exit)
	m.continueLabels = append(m.continueLabels, top)
	defer func() {
		m.breakLabels = m.breakLabels[:len(m.breakLabels)-1]
		m.continueLabels = m.continueLabels[:len(m.continueLabels)-1]
	}()

	m.code.MarkLabel(top)
	m.emitExpr(n.Cond)
	m.code.EmitJump(classfile.OpIfeq, exit, -1)
	m.emitStmt(n.Body)
	m.code.EmitJump(classfile.OpGoto, top, 0)
	m.code.MarkLabel(exit)
}

// emitForStmt lowers `for pat in iterable { body }` via the
// java.util.Iterator protocol, reached through java.lang.Iterable, so a
// single hasNext/next loop covers ranges and lists (array literals are
// ArrayLists). A java.util.Map is not Iterable and is not handled.
func (m *methodCtx) emitForStmt(n *ast.ForStmt) {
	m.emitExpr(n.Iterable)
	iterDesc := "()Ljava/util/Iterator;"
	m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/lang/Iterable", "iterator", iterDesc), 0, invokeStackDelta(iterDesc, true))
	iterSlot := m.code.ReserveLocal(false)
	st, sf := storeOp(vartype.OBJECT)
	m.code.EmitVarOp(st, sf, iterSlot, -1)

	top := m.code.NewLabel()
	exit := m.code.NewLabel()
	m.breakLabels = append(m.breakLabels, exit)
	m.continueLabels = append(m.continueLabels, top)
	defer func() {
		m.breakLabels = m.breakLabels[:len(m.breakLabels)-1]
		m.continueLabels = m.continueLabels[:len(m.continueLabels)-1]
	}()

	m.code.MarkLabel(top)
	ld, lf := loadOp(vartype.OBJECT)
	m.code.EmitVarOp(ld, lf, iterSlot, 1)
	hasNextDesc := "()Z"
	m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/Iterator", "hasNext", hasNextDesc), 0, invokeStackDelta(hasNextDesc, true))
	m.code.EmitJump(classfile.OpIfeq, exit, -1)

	m.code.EmitVarOp(ld, lf, iterSlot, 1)
	nextDesc := "()Ljava/lang/Object;"
	m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/Iterator", "next", nextDesc), 0, invokeStackDelta(nextDesc, true))
	m.bindForPattern(n.Binding)

	m.emitStmt(n.Body)
	m.code.EmitJump(classfile.OpGoto, top, 0)
	m.code.MarkLabel(exit)
}

// bindForPattern binds the loop's per-iteration value (already on top of
// the stack, boxed Object) to the loop pattern. A plain VarPattern is the
// common case; other pattern shapes delegate to the general pattern
// binder used by match/receive.
func (m *methodCtx) bindForPattern(p ast.Pattern) {
	if vp, ok := p.(*ast.VarPattern); ok {
		vt := vartype.OBJECT
		decl := ""
		if vp.Declared != nil {
			vt = vartype.FromSurface(vp.Declared)
			if vp.Declared.Kind == ast.STNamed {
				decl = m.unit.resolveName(vp.Declared.Name)
			}
		}
		if vt.IsPrimitive() {
			m.unboxValue(vt)
		}
		l := m.declareLocal(vp.Name, vt, decl)
		m.emitStore(l)
		return
	}
	tmp := m.declareLocal(forTempName(), vartype.OBJECT, "")
	m.emitStore(tmp)
	m.bindPattern(p, tmp.slot)
}

var forTempCounter int

func forTempName() string {
	forTempCounter++
	return "$for_tmp"
}

func (m *methodCtx) emitBreak(n *ast.BreakStmt) {
	if len(m.breakLabels) == 0 {
		panic("emit: break outside loop")
	}
	m.code.EmitJump(classfile.OpGoto, m.breakLabels[len(m.breakLabels)-1], 0)
}

func (m *methodCtx) emitContinue(n *ast.ContinueStmt) {
	if len(m.continueLabels) == 0 {
		panic("emit: continue outside loop")
	}
	m.code.EmitJump(classfile.OpGoto, m.continueLabels[len(m.continueLabels)-1], 0)
}

func (m *methodCtx) emitReturn(n *ast.ReturnStmt) {
	if n.Value == nil {
		if m.isAsync {
			m.code.EmitInsn(classfile.OpAconstNull, 1)
			m.lastType = vartype.OBJECT
			m.wrapAsyncReturn()
			return
		}
		m.code.EmitReturn(classfile.OpReturn, 0)
		return
	}
	vt := m.emitExpr(n.Value)
	if m.isAsync {
		m.wrapAsyncReturn()
		return
	}
	m.code.EmitReturn(returnOp(vt), -width(vt))
}

func (m *methodCtx) emitThrowStmt(n *ast.ThrowStmt) {
	m.emitExpr(n.Value)
	m.code.EmitThrow()
}

// emitTryStmt lowers `try { } catch (name: T) { } ... finally { }`.
// Each catch clause becomes one exception-table entry whose CatchType
// is the caught type's Class pool entry; `finally` is duplicated inline
// where the try body and each catch body complete normally, since the
// JVM's bytecode instruction set has no finally primitive to lean on. No
// catch-all handler is emitted, so `finally` does not run when an
// exception no clause catches leaves the region, nor on a return, break
// or continue out of the try or a catch.
func (m *methodCtx) emitTryStmt(n *ast.TryStmt) {
	start := m.code.Offset()
	m.emitBlock(n.Body)
	bodyReachable := m.code.Reachable
	end := m.code.Offset()

	join := m.code.NewLabel()
	if bodyReachable {
		if n.Finally != nil {
			m.emitBlock(n.Finally)
		}
		if m.code.Reachable {
			m.code.EmitJump(classfile.OpGoto, join, 0)
		}
	}

	for _, c := range n.Catches {
		handlerPC := m.code.Offset()
		vt := vartype.OBJECT
		decl := ""
		if c.Declared != nil {
			vt = vartype.FromSurface(c.Declared)
			if c.Declared.Kind == ast.STNamed {
				decl = m.unit.resolveName(c.Declared.Name)
			}
		}
		catchType := uint16(0)
		if decl != "" {
			catchType = m.cw.Pool.Class(decl)
		}
		m.handlers = append(m.handlers, classfile.ExceptionHandler{
			StartPC: uint16(start), EndPC: uint16(end), HandlerPC: uint16(handlerPC), CatchType: catchType,
		})

		m.code.Reachable = true
		l := m.declareLocal(c.Name, vt, decl)
		st, sf := storeOp(vartype.OBJECT)
		m.code.EmitVarOp(st, sf, l.slot, -1)
		m.emitBlock(c.Body)
		if n.Finally != nil && m.code.Reachable {
			m.emitBlock(n.Finally)
		}
		if m.code.Reachable {
			m.code.EmitJump(classfile.OpGoto, join, 0)
		}
	}

	m.code.MarkLabel(join)
}
