package ast

// exprBase carries the inferred type every typed sub-tree has, so the
// emitter can read back a value category without re-deriving it.
type exprBase struct {
	NodePos Position
	Type    *SurfaceType
}

func (e exprBase) Pos() Position            { return e.NodePos }
func (e exprBase) InferredType() *SurfaceType { return e.Type }
func (e exprBase) exprNode()                {}

type IntLit struct {
	exprBase
	Value int64
}

func (n *IntLit) String() string { return "<int>" }

type LongLit struct {
	exprBase
	Value int64
}

func (n *LongLit) String() string { return "<long>" }

type FloatLit struct {
	exprBase
	Value float64
}

func (n *FloatLit) String() string { return "<float>" }

type StringLit struct {
	exprBase
	Value string
}

func (n *StringLit) String() string { return "<string>" }

type BoolLit struct {
	exprBase
	Value bool
}

func (n *BoolLit) String() string { return "<bool>" }

// NoneLit is the literal `None`/null expression.
type NoneLit struct{ exprBase }

func (n *NoneLit) String() string { return "None" }

type Identifier struct {
	exprBase
	Name string
}

func (n *Identifier) String() string { return n.Name }

type BinaryExpr struct {
	exprBase
	Operator string // "+","-","*","/","div","mod","=","<>","<","<=",">",">=","and","or","..","..=","??","?:","**"
	Left     Expr
	Right    Expr
}

func (n *BinaryExpr) String() string { return "(" + n.Operator + ")" }

type UnaryExpr struct {
	exprBase
	Operator string // "-","!","&","&mut","!!",".await"
	Operand  Expr
}

func (n *UnaryExpr) String() string { return n.Operator }

// SafeNavExpr is `expr?.member`.
type SafeNavExpr struct {
	exprBase
	Receiver Expr
	Member   string
}

func (n *SafeNavExpr) String() string { return "?." + n.Member }

// CallExpr covers self.m(...), Class.m(...) static, recv.m(...) instance,
// and bare-name calls (built-ins / ADT variant factories); the emitter
// disambiguates by inspecting Callee's shape.
type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func (n *CallExpr) String() string { return "call" }

// SelfExpr is the `self` receiver.
type SelfExpr struct{ exprBase }

func (n *SelfExpr) String() string { return "self" }

// MemberExpr is `object.field`.
type MemberExpr struct {
	exprBase
	Receiver Expr
	Member   string
}

func (n *MemberExpr) String() string { return "." + n.Member }

// StaticMemberExpr is `ClassName.FIELD` or `ClassName.method` used as a
// callee/value rather than invoked directly.
type StaticMemberExpr struct {
	exprBase
	ClassName string
	Member    string
}

func (n *StaticMemberExpr) String() string { return n.ClassName + "." + n.Member }

// IndexExpr is `receiver[index]`.
type IndexExpr struct {
	exprBase
	Receiver Expr
	Index    Expr
}

func (n *IndexExpr) String() string { return "index" }

// TupleExpr is `(e1, e2, ...)`.
type TupleExpr struct {
	exprBase
	Elems []Expr
}

func (n *TupleExpr) String() string { return "tuple" }

// TupleIndexExpr is `t.0`, `t.1`, ...
type TupleIndexExpr struct {
	exprBase
	Receiver Expr
	Index    int
}

func (n *TupleIndexExpr) String() string { return "tuple-index" }

// StructLiteralExpr is `Name { f1: e1, ... }`.
type StructLiteralExpr struct {
	exprBase
	TypeName string
	Fields   []StructLiteralField
}

func (n *StructLiteralExpr) String() string { return n.TypeName + "{...}" }

type StructLiteralField struct {
	Name  string
	Value Expr
}

// ArrayLiteralExpr is `[e1, e2, ...]`, lowered to a java.util.ArrayList;
// no PersistentVector is built.
type ArrayLiteralExpr struct {
	exprBase
	Elems []Expr
}

func (n *ArrayLiteralExpr) String() string { return "array-literal" }

// MapLiteralExpr is `{k1: v1, ...}`, lowered via HashMap.
type MapLiteralExpr struct {
	exprBase
	Keys   []Expr
	Values []Expr
}

func (n *MapLiteralExpr) String() string { return "map-literal" }

// RangeExpr is `a..b` / `a..=b`.
type RangeExpr struct {
	exprBase
	Start, End Expr
	Inclusive  bool
}

func (n *RangeExpr) String() string { return "range" }

// LambdaExpr is a closure literal, lowered by the Async/Lambda Lowerer.
type LambdaExpr struct {
	exprBase
	Params []*Param
	Body   Expr // expression-bodied; statement bodies are wrapped upstream
}

func (n *LambdaExpr) String() string { return "lambda" }

// MatchArm is one arm of a MatchExpr.
type MatchArm struct {
	NodePos Position
	Pat     Pattern
	Guard   Expr // optional
	Body    Expr
}

func (m *MatchArm) Pos() Position  { return m.NodePos }
func (m *MatchArm) String() string { return "case " + m.Pat.String() }

// MatchExpr is `match scrutinee { arm, arm, ... }`.
type MatchExpr struct {
	exprBase
	Scrutinee Expr
	Arms      []*MatchArm
}

func (n *MatchExpr) String() string { return "match" }

// IfExpr is `if cond { then } else { alt }` used in expression context.
type IfExpr struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr // nil if absent
}

func (n *IfExpr) String() string { return "if-expr" }

// TimeoutExpr is `timeout(ms) { body }`.
type TimeoutExpr struct {
	exprBase
	MillisExpr Expr
	Body       *BlockStmt
}

func (n *TimeoutExpr) String() string { return "timeout" }

// ConcurrentBinding is one `let name = expr` inside a concurrent block.
type ConcurrentBinding struct {
	Name string
	Expr Expr
}

// ConcurrentExpr is `concurrent { let x = ea, let y = eb }`.
type ConcurrentExpr struct {
	exprBase
	Bindings []ConcurrentBinding
}

func (n *ConcurrentExpr) String() string { return "concurrent" }

// RaceExpr is `race { f1; f2; ... }`.
type RaceExpr struct {
	exprBase
	Futures []Expr
}

func (n *RaceExpr) String() string { return "race" }

// base builds the unexported exprBase embedded field. It is itself
// unexported; internal/astio (outside this package) assembles each Expr
// variant through the exported New* constructors below, which call it.
func base(pos Position, t *SurfaceType) exprBase { return exprBase{NodePos: pos, Type: t} }

func NewIntLit(pos Position, t *SurfaceType, v int64) *IntLit       { return &IntLit{base(pos, t), v} }
func NewLongLit(pos Position, t *SurfaceType, v int64) *LongLit     { return &LongLit{base(pos, t), v} }
func NewFloatLit(pos Position, t *SurfaceType, v float64) *FloatLit { return &FloatLit{base(pos, t), v} }
func NewStringLit(pos Position, t *SurfaceType, v string) *StringLit {
	return &StringLit{base(pos, t), v}
}
func NewBoolLit(pos Position, t *SurfaceType, v bool) *BoolLit { return &BoolLit{base(pos, t), v} }
func NewNoneLit(pos Position, t *SurfaceType) *NoneLit         { return &NoneLit{base(pos, t)} }
func NewIdentifier(pos Position, t *SurfaceType, name string) *Identifier {
	return &Identifier{base(pos, t), name}
}
func NewBinaryExpr(pos Position, t *SurfaceType, op string, left, right Expr) *BinaryExpr {
	return &BinaryExpr{base(pos, t), op, left, right}
}
func NewUnaryExpr(pos Position, t *SurfaceType, op string, operand Expr) *UnaryExpr {
	return &UnaryExpr{base(pos, t), op, operand}
}
func NewSafeNavExpr(pos Position, t *SurfaceType, recv Expr, member string) *SafeNavExpr {
	return &SafeNavExpr{base(pos, t), recv, member}
}
func NewCallExpr(pos Position, t *SurfaceType, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{base(pos, t), callee, args}
}
func NewSelfExpr(pos Position, t *SurfaceType) *SelfExpr { return &SelfExpr{base(pos, t)} }
func NewMemberExpr(pos Position, t *SurfaceType, recv Expr, member string) *MemberExpr {
	return &MemberExpr{base(pos, t), recv, member}
}
func NewStaticMemberExpr(pos Position, t *SurfaceType, className, member string) *StaticMemberExpr {
	return &StaticMemberExpr{base(pos, t), className, member}
}
func NewIndexExpr(pos Position, t *SurfaceType, recv, index Expr) *IndexExpr {
	return &IndexExpr{base(pos, t), recv, index}
}
func NewTupleExpr(pos Position, t *SurfaceType, elems []Expr) *TupleExpr {
	return &TupleExpr{base(pos, t), elems}
}
func NewTupleIndexExpr(pos Position, t *SurfaceType, recv Expr, index int) *TupleIndexExpr {
	return &TupleIndexExpr{base(pos, t), recv, index}
}
func NewStructLiteralExpr(pos Position, t *SurfaceType, typeName string, fields []StructLiteralField) *StructLiteralExpr {
	return &StructLiteralExpr{base(pos, t), typeName, fields}
}
func NewArrayLiteralExpr(pos Position, t *SurfaceType, elems []Expr) *ArrayLiteralExpr {
	return &ArrayLiteralExpr{base(pos, t), elems}
}
func NewMapLiteralExpr(pos Position, t *SurfaceType, keys, values []Expr) *MapLiteralExpr {
	return &MapLiteralExpr{base(pos, t), keys, values}
}
func NewRangeExpr(pos Position, t *SurfaceType, start, end Expr, inclusive bool) *RangeExpr {
	return &RangeExpr{base(pos, t), start, end, inclusive}
}
func NewLambdaExpr(pos Position, t *SurfaceType, params []*Param, body Expr) *LambdaExpr {
	return &LambdaExpr{base(pos, t), params, body}
}
func NewMatchExpr(pos Position, t *SurfaceType, scrutinee Expr, arms []*MatchArm) *MatchExpr {
	return &MatchExpr{base(pos, t), scrutinee, arms}
}
func NewIfExpr(pos Position, t *SurfaceType, cond, then, els Expr) *IfExpr {
	return &IfExpr{base(pos, t), cond, then, els}
}
func NewTimeoutExpr(pos Position, t *SurfaceType, millis Expr, body *BlockStmt) *TimeoutExpr {
	return &TimeoutExpr{base(pos, t), millis, body}
}
func NewConcurrentExpr(pos Position, t *SurfaceType, bindings []ConcurrentBinding) *ConcurrentExpr {
	return &ConcurrentExpr{base(pos, t), bindings}
}
func NewRaceExpr(pos Position, t *SurfaceType, futures []Expr) *RaceExpr {
	return &RaceExpr{base(pos, t), futures}
}

var (
	_ Expr = (*IntLit)(nil)
	_ Expr = (*LongLit)(nil)
	_ Expr = (*FloatLit)(nil)
	_ Expr = (*StringLit)(nil)
	_ Expr = (*BoolLit)(nil)
	_ Expr = (*NoneLit)(nil)
	_ Expr = (*Identifier)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*SafeNavExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*SelfExpr)(nil)
	_ Expr = (*MemberExpr)(nil)
	_ Expr = (*StaticMemberExpr)(nil)
	_ Expr = (*IndexExpr)(nil)
	_ Expr = (*TupleExpr)(nil)
	_ Expr = (*TupleIndexExpr)(nil)
	_ Expr = (*StructLiteralExpr)(nil)
	_ Expr = (*ArrayLiteralExpr)(nil)
	_ Expr = (*MapLiteralExpr)(nil)
	_ Expr = (*RangeExpr)(nil)
	_ Expr = (*LambdaExpr)(nil)
	_ Expr = (*MatchExpr)(nil)
	_ Expr = (*IfExpr)(nil)
	_ Expr = (*TimeoutExpr)(nil)
	_ Expr = (*ConcurrentExpr)(nil)
	_ Expr = (*RaceExpr)(nil)
)
