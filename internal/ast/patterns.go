package ast

type patternBase struct{ NodePos Position }

func (p patternBase) Pos() Position { return p.NodePos }
func (p patternBase) patternNode()  {}

// WildcardPattern is `_`.
type WildcardPattern struct{ patternBase }

func (w *WildcardPattern) String() string { return "_" }

// VarPattern binds the matched value to a new name, optionally asserting
// a declared type.
type VarPattern struct {
	patternBase
	Name     string
	Declared *SurfaceType // nil if untyped
}

func (v *VarPattern) String() string { return v.Name }

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	patternBase
	Value Expr // one of the *Lit expression nodes
}

func (l *LiteralPattern) String() string { return "literal" }

// RangePattern matches `a..b` / `a..=b`.
type RangePattern struct {
	patternBase
	Start, End Expr
	Inclusive  bool
}

func (r *RangePattern) String() string { return "range-pattern" }

// TuplePattern matches `(p1, p2, ...)`.
type TuplePattern struct {
	patternBase
	Elems []Pattern
}

func (t *TuplePattern) String() string { return "tuple-pattern" }

// StructFieldPattern is one `name: pattern` or shorthand `{ name }` entry.
type StructFieldPattern struct {
	FieldName string
	Pat       Pattern // nil for shorthand (binds FieldName directly)
}

// StructPattern matches `Name { f1: p1, ... }`.
type StructPattern struct {
	patternBase
	TypeName string
	Fields   []StructFieldPattern
}

func (s *StructPattern) String() string { return s.TypeName + "{...}" }

// ConstructorPattern matches an ADT variant / tuple-struct, e.g.
// `Some(x)`, `Point(x, y)`.
type ConstructorPattern struct {
	patternBase
	TypeName string
	Elems    []Pattern
}

func (c *ConstructorPattern) String() string { return c.TypeName + "(...)" }

// patbase builds the unexported patternBase embedded field for the
// exported NewXxxPattern constructors below (see exprs.go's base()).
func patbase(pos Position) patternBase { return patternBase{NodePos: pos} }

func NewWildcardPattern(pos Position) *WildcardPattern { return &WildcardPattern{patbase(pos)} }
func NewVarPattern(pos Position, name string, declared *SurfaceType) *VarPattern {
	return &VarPattern{patbase(pos), name, declared}
}
func NewLiteralPattern(pos Position, value Expr) *LiteralPattern {
	return &LiteralPattern{patbase(pos), value}
}
func NewRangePattern(pos Position, start, end Expr, inclusive bool) *RangePattern {
	return &RangePattern{patbase(pos), start, end, inclusive}
}
func NewTuplePattern(pos Position, elems []Pattern) *TuplePattern {
	return &TuplePattern{patbase(pos), elems}
}
func NewStructPattern(pos Position, typeName string, fields []StructFieldPattern) *StructPattern {
	return &StructPattern{patbase(pos), typeName, fields}
}
func NewConstructorPattern(pos Position, typeName string, elems []Pattern) *ConstructorPattern {
	return &ConstructorPattern{patbase(pos), typeName, elems}
}

var (
	_ Pattern = (*WildcardPattern)(nil)
	_ Pattern = (*VarPattern)(nil)
	_ Pattern = (*LiteralPattern)(nil)
	_ Pattern = (*RangePattern)(nil)
	_ Pattern = (*TuplePattern)(nil)
	_ Pattern = (*StructPattern)(nil)
	_ Pattern = (*ConstructorPattern)(nil)
)
