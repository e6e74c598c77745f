package emit

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/diagnostic"
	"github.com/firefly-oss/firefly-lang-sub000/internal/registry"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// Pattern-match lowering lives alongside the rest of emit rather than in
// its own package: every pattern test needs direct access to methodCtx's
// locals/code/fieldTypes, and a separate package would need the same
// surface area methodCtx already exposes.

// bindPattern tests (and, for an irrefutable pattern, always succeeds)
// and binds the value held in local slot `slot` against pat, jumping to
// fail on a refutable mismatch. Used by for-loop destructuring (always
// irrefutable at the surface-syntax level, so fail is never reached
// there) and by match/receive dispatch (genuinely refutable).
func (m *methodCtx) bindPattern(pat ast.Pattern, slot int) {
	m.testPattern(pat, slot, classfile.Label(-1))
}

// testPattern is bindPattern generalized with an explicit fail label; -1
// means "this pattern cannot fail" (the caller must guarantee that, e.g.
// for-loop bindings).
func (m *methodCtx) testPattern(pat ast.Pattern, slot int, fail classfile.Label) {
	ld, lf := loadOp(vartype.OBJECT)
	load := func() { m.code.EmitVarOp(ld, lf, slot, 1) }

	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return

	case *ast.VarPattern:
		vt := vartype.OBJECT
		decl := ""
		if p.Declared != nil {
			vt = vartype.FromSurface(p.Declared)
			if p.Declared.Kind == ast.STNamed {
				decl = m.unit.resolveName(p.Declared.Name)
				load()
				m.code.EmitShortArg(classfile.OpInstanceof, m.cw.Pool.Class(decl), 0)
				if fail >= 0 {
					m.code.EmitJump(classfile.OpIfeq, fail, -1)
				} else {
					m.code.EmitInsn(classfile.OpPop, -1)
				}
			}
		}
		load()
		if vt.IsPrimitive() {
			m.unboxValue(vt)
		} else if decl != "" {
			m.code.EmitShortArg(classfile.OpCheckcast, m.cw.Pool.Class(decl), 0)
		}
		l := m.declareLocal(p.Name, vt, decl)
		m.emitStore(l)

	case *ast.LiteralPattern:
		load()
		m.emitLiteralEquality(p.Value, fail)

	case *ast.RangePattern:
		load()
		m.unboxValue(vartype.INT)
		lo := m.declareLocal(rangeTempName(), vartype.INT, "")
		m.emitStore(lo)
		m.loadTemp(lo.slot, vartype.INT)
		m.emitExpr(p.Start)
		m.code.EmitJump(classfile.OpIfIcmplt, orFail(fail, m.code), -2)
		m.loadTemp(lo.slot, vartype.INT)
		m.emitExpr(p.End)
		if p.Inclusive {
			m.code.EmitJump(classfile.OpIfIcmpgt, orFail(fail, m.code), -2)
		} else {
			m.code.EmitJump(classfile.OpIfIcmpge, orFail(fail, m.code), -2)
		}

	case *ast.TuplePattern:
		for i, elem := range p.Elems {
			load()
			desc := "(I)Ljava/lang/Object;"
			pushIntConst(m.code, m.cw.Pool, i)
			m.code.EmitInvokeInterface(m.cw.Pool.InterfaceMethodref("java/util/List", "get", desc), 1, invokeStackDelta(desc, true))
			elemSlot := m.declareLocal(tupleTempName(i), vartype.OBJECT, "")
			m.emitStore(elemSlot)
			m.testPattern(elem, elemSlot.slot, fail)
		}

	case *ast.StructPattern:
		internal := m.unit.resolveName(p.TypeName)
		meta, _ := m.unit.Reg.LookupStruct(p.TypeName)
		load()
		m.code.EmitShortArg(classfile.OpInstanceof, m.cw.Pool.Class(internal), 0)
		if fail >= 0 {
			m.code.EmitJump(classfile.OpIfeq, fail, -1)
		} else {
			m.code.EmitInsn(classfile.OpPop, -1)
		}
		for _, f := range p.Fields {
			sub := f.Pat
			name := f.FieldName
			if sub == nil {
				sub = &ast.VarPattern{Name: name}
			}
			fieldVt, fieldDesc := fieldAccessorShape(meta, name, m.unit.resolveName)
			load()
			m.code.EmitShortArg(classfile.OpCheckcast, m.cw.Pool.Class(internal), 0)
			getter := "get" + capitalize(name)
			if fieldVt == vartype.BOOLEAN {
				getter = "is" + capitalize(name)
			}
			m.code.EmitShortArg(classfile.OpInvokevirtual, m.cw.Pool.Methodref(internal, getter, fieldDesc), width(fieldVt)-1)
			if fieldVt.IsPrimitive() {
				m.boxValue(fieldVt)
			}
			fieldSlot := m.declareLocal(tupleTempName(0)+name, vartype.OBJECT, "")
			m.emitStore(fieldSlot)
			m.testPattern(sub, fieldSlot.slot, fail)
		}

	case *ast.ConstructorPattern:
		internal := m.unit.resolveName(p.TypeName)
		_, variant, _ := m.unit.Reg.LookupVariant(p.TypeName)
		load()
		m.code.EmitShortArg(classfile.OpInstanceof, m.cw.Pool.Class(internal), 0)
		if fail >= 0 {
			m.code.EmitJump(classfile.OpIfeq, fail, -1)
		} else {
			m.code.EmitInsn(classfile.OpPop, -1)
		}
		for i, elem := range p.Elems {
			elemVt, elemDesc := indexedAccessorShape(variant, i, m.unit.resolveName)
			load()
			m.code.EmitShortArg(classfile.OpCheckcast, m.cw.Pool.Class(internal), 0)
			getter := "component" + itoa(i+1)
			m.code.EmitShortArg(classfile.OpInvokevirtual, m.cw.Pool.Methodref(internal, getter, elemDesc), width(elemVt)-1)
			if elemVt.IsPrimitive() {
				m.boxValue(elemVt)
			}
			elemSlot := m.declareLocal(tupleTempName(i)+"$ctor", vartype.OBJECT, "")
			m.emitStore(elemSlot)
			m.testPattern(elem, elemSlot.slot, fail)
		}

	default:
		panic("emit: unhandled pattern kind")
	}
}

// emitLiteralEquality compares the Object value already on top of the
// stack against a literal, consuming it and branching to fail on
// mismatch.
func (m *methodCtx) emitLiteralEquality(lit ast.Expr, fail classfile.Label) {
	switch l := lit.(type) {
	case *ast.IntLit:
		m.unboxValue(vartype.INT)
		pushIntConst(m.code, m.cw.Pool, int(l.Value))
		m.code.EmitJump(classfile.OpIfIcmpne, orFail(fail, m.code), -2)
	case *ast.LongLit:
		m.unboxValue(vartype.LONG)
		pushLongConst(m.code, m.cw.Pool, l.Value)
		m.code.EmitInsn(classfile.OpLcmp, -3)
		m.code.EmitJump(classfile.OpIfne, orFail(fail, m.code), -1)
	case *ast.FloatLit:
		m.unboxValue(vartype.DOUBLE)
		pushDoubleConst(m.code, m.cw.Pool, l.Value)
		m.code.EmitInsn(classfile.OpDcmpl, -3)
		m.code.EmitJump(classfile.OpIfne, orFail(fail, m.code), -1)
	case *ast.BoolLit:
		m.unboxValue(vartype.BOOLEAN)
		if l.Value {
			m.code.EmitInsn(classfile.OpIconst1, 1)
		} else {
			m.code.EmitInsn(classfile.OpIconst0, 1)
		}
		m.code.EmitJump(classfile.OpIfIcmpne, orFail(fail, m.code), -2)
	case *ast.StringLit:
		pushStringConst(m.code, m.cw.Pool, l.Value)
		desc := "(Ljava/lang/Object;)Z"
		m.code.EmitShortArg(classfile.OpInvokevirtual, m.cw.Pool.Methodref("java/lang/String", "equals", desc), -1)
		m.code.EmitJump(classfile.OpIfeq, orFail(fail, m.code), -1)
	default:
		panic("emit: unhandled literal pattern kind")
	}
}

// fieldAccessorShape reports a struct field's real getter return category
// and descriptor, so StructPattern's getter call matches what emitGetter
// actually generated: the JavaBean getter keeps its real primitive return
// type, and only the pattern-matching temp that receives it needs boxing.
func fieldAccessorShape(meta *registry.StructMeta, name string, resolve vartype.NameResolver) (vartype.VarType, string) {
	if meta != nil {
		for _, f := range meta.Fields {
			if f.Name == name {
				return vartype.FromSurface(f.Type), "()" + vartype.Descriptor(f.Type, resolve)
			}
		}
	}
	return vartype.OBJECT, "()Ljava/lang/Object;"
}

// indexedAccessorShape is fieldAccessorShape for an ADT variant's
// positional componentN() getters.
func indexedAccessorShape(variant *registry.ADTVariant, index int, resolve vartype.NameResolver) (vartype.VarType, string) {
	if variant != nil && index < len(variant.Fields) {
		f := variant.Fields[index]
		return vartype.FromSurface(f.Type), "()" + vartype.Descriptor(f.Type, resolve)
	}
	return vartype.OBJECT, "()Ljava/lang/Object;"
}

// orFail supplies a throwaway label when a pattern is known irrefutable
// (fail == -1): the test is still emitted (for e.g. for-loop guard
// sanity) but branches to a label immediately marked, i.e. a no-op jump.
func orFail(fail classfile.Label, code *classfile.CodeBuilder) classfile.Label {
	if fail >= 0 {
		return fail
	}
	l := code.NewLabel()
	code.MarkLabel(l)
	return l
}

var tupleTempCounter int

func tupleTempName(i int) string {
	tupleTempCounter++
	return "$tuple_elem" + itoa(i) + "_" + itoa(tupleTempCounter)
}

var rangeTempCounter int

func rangeTempName() string {
	rangeTempCounter++
	return "$range_tmp" + itoa(rangeTempCounter)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// emitMatchExpr lowers `match scrutinee { arm, ... }`: the scrutinee is
// evaluated once into a temp local, each arm's pattern
// is tested in order, and every arm's value is boxed to a common Object
// representation so the join point sees one stack shape regardless of
// which arm ran — then unboxed back to the match's own inferred category
// if that category is a primitive.
func (m *methodCtx) emitMatchExpr(n *ast.MatchExpr) vartype.VarType {
	m.reportDuplicateLiteralArms(n)

	scrutVt := m.emitExpr(n.Scrutinee)
	if scrutVt.IsPrimitive() {
		m.boxValue(scrutVt)
	}
	scrutSlot := m.declareLocal(matchTempName(), vartype.OBJECT, "")
	m.emitStore(scrutSlot)

	join := m.code.NewLabel()
	resultVt := vartype.FromSurface(n.InferredType())

	for i, arm := range n.Arms {
		next := m.code.NewLabel()
		isLast := i == len(n.Arms)-1
		failLbl := next
		if isLast {
			failLbl = -1 // unconditional: an exhaustive match's last arm never needs a guard-free fail branch
		}
		m.testPattern(arm.Pat, scrutSlot.slot, failLbl)
		if arm.Guard != nil {
			m.emitExpr(arm.Guard)
			m.code.EmitJump(classfile.OpIfeq, orFail(next, m.code), -1)
		}

		vt := m.emitExpr(arm.Body)
		if vt.IsPrimitive() {
			m.boxValue(vt)
		}
		m.code.EmitJump(classfile.OpGoto, join, 0)

		if !isLast {
			m.code.MarkLabel(next)
		}
	}

	m.code.MarkLabel(join)
	if resultVt.IsPrimitive() {
		m.unboxValue(resultVt)
	}
	return m.settle(resultVt, "")
}

var matchTempCounter int

func matchTempName() string {
	matchTempCounter++
	return "$match_scrutinee" + itoa(matchTempCounter)
}

// literalCollator ranks duplicate string-literal match arms for
// deterministic diagnostic ordering: which arm "wins" a genuine
// source-order tie is still decided by arm order in emitMatchExpr, this
// only orders the *diagnostic text* when more than one string collides,
// using locale-aware but stable string comparison.
var literalCollator = collate.New(language.Und, collate.Loose)

// reportDuplicateLiteralArms warns when two string-literal patterns in
// the same match collide: the later arm is dead code, since the earlier
// identical literal always matches first. Reported here rather than
// silently accepted because an unreachable arm is almost always a typo,
// not an intentional default.
func (m *methodCtx) reportDuplicateLiteralArms(n *ast.MatchExpr) {
	seen := make(map[string]bool)
	var dupes []string
	for _, arm := range n.Arms {
		lit, ok := arm.Pat.(*ast.LiteralPattern)
		if !ok {
			continue
		}
		s, ok := lit.Value.(*ast.StringLit)
		if !ok {
			continue
		}
		if seen[s.Value] {
			dupes = append(dupes, s.Value)
		}
		seen[s.Value] = true
	}
	if len(dupes) == 0 {
		return
	}
	sort.Slice(dupes, func(i, j int) bool { return literalCollator.CompareString(dupes[i], dupes[j]) < 0 })
	for _, v := range dupes {
		m.unit.Diags.Add(diagnostic.New(diagnostic.KindPatternCodegen, n.Pos(),
			"duplicate string literal pattern %q: later arm is unreachable", v))
	}
}

// emitReceiveCases lowers an actor's `receive { case pat => body, ... }`
// arms: statement-bodied, no value produced; the first matching case's
// body runs and control falls through to emitActorHandle's trailing
// `return self`.
func (m *methodCtx) emitReceiveCases(msgSlot int, cases []*ast.ReceiveCase) {
	if len(cases) == 0 {
		return
	}
	done := m.code.NewLabel()

	for i, c := range cases {
		next := m.code.NewLabel()
		isLast := i == len(cases)-1
		failLbl := next
		if isLast {
			failLbl = -1
		}
		m.testPattern(c.Pat, msgSlot, failLbl)
		if c.Guard != nil {
			m.emitExpr(c.Guard)
			m.code.EmitJump(classfile.OpIfeq, orFail(next, m.code), -1)
		}
		m.emitBlock(c.Body)
		if m.code.Reachable {
			m.code.EmitJump(classfile.OpGoto, done, 0)
		}
		if !isLast {
			m.code.MarkLabel(next)
		}
	}

	m.code.MarkLabel(done)
}
