package ast

type stmtBase struct{ NodePos Position }

func (s stmtBase) Pos() Position { return s.NodePos }
func (s stmtBase) stmtNode()     {}

// BlockStmt is `{ stmt; stmt; ... }`.
type BlockStmt struct {
	stmtBase
	Statements []Stmt
}

func (b *BlockStmt) String() string { return "block" }

// LetStmt is `let p = e` / `let p: T = e`.
type LetStmt struct {
	stmtBase
	Name     string
	Declared *SurfaceType // nil if inferred
	Value    Expr
	Mutable  bool
}

func (l *LetStmt) String() string { return "let " + l.Name }

// AssignStmt is `target = value`.
type AssignStmt struct {
	stmtBase
	Target Expr
	Value  Expr
}

func (a *AssignStmt) String() string { return "assign" }

// ExprStmt is an expression used in statement position; its value (if
// any) is popped, branching on the last-expression VarType category —
// a long/double result leaves two stack slots to discard instead of one.
type ExprStmt struct {
	stmtBase
	Expression Expr
}

func (e *ExprStmt) String() string { return "expr-stmt" }

// IfStmt is `if cond { then } else { alt }` in statement context.
type IfStmt struct {
	stmtBase
	Cond        Expr
	Consequence Stmt
	Alternative Stmt // nil if absent
}

func (i *IfStmt) String() string { return "if" }

// WhileStmt is a pre-check loop.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body Stmt
}

func (w *WhileStmt) String() string { return "while" }

// ForStmt is `for pat in iterable { body }`.
type ForStmt struct {
	stmtBase
	Binding  Pattern
	Iterable Expr
	Body     Stmt
}

func (f *ForStmt) String() string { return "for" }

// BreakStmt / ContinueStmt target the innermost enclosing loop.
type BreakStmt struct{ stmtBase }

func (b *BreakStmt) String() string { return "break" }

type ContinueStmt struct{ stmtBase }

func (c *ContinueStmt) String() string { return "continue" }

// ReturnStmt returns an optional value from the enclosing method.
type ReturnStmt struct {
	stmtBase
	Value Expr // nil for `return` with no value
}

func (r *ReturnStmt) String() string { return "return" }

// ThrowStmt is `throw e`.
type ThrowStmt struct {
	stmtBase
	Value Expr
}

func (t *ThrowStmt) String() string { return "throw" }

// CatchClause is one `catch (name: Type) { body }` arm.
type CatchClause struct {
	NodePos  Position
	Name     string
	Declared *SurfaceType
	Body     *BlockStmt
}

func (c *CatchClause) Pos() Position  { return c.NodePos }
func (c *CatchClause) String() string { return "catch " + c.Declared.String() }

// TryStmt is `try { } catch (...) { } ... finally { }`.
type TryStmt struct {
	stmtBase
	Body    *BlockStmt
	Catches []*CatchClause
	Finally *BlockStmt // nil if absent
}

func (t *TryStmt) String() string { return "try" }

// stbase builds the unexported stmtBase embedded field for the exported
// NewXxxStmt constructors below (see exprs.go's base() for the reason
// these exist: stmtBase's field name is inaccessible from internal/astio).
func stbase(pos Position) stmtBase { return stmtBase{NodePos: pos} }

func NewBlockStmt(pos Position, stmts []Stmt) *BlockStmt { return &BlockStmt{stbase(pos), stmts} }
func NewLetStmt(pos Position, name string, declared *SurfaceType, value Expr, mutable bool) *LetStmt {
	return &LetStmt{stbase(pos), name, declared, value, mutable}
}
func NewAssignStmt(pos Position, target, value Expr) *AssignStmt {
	return &AssignStmt{stbase(pos), target, value}
}
func NewExprStmt(pos Position, expr Expr) *ExprStmt { return &ExprStmt{stbase(pos), expr} }
func NewIfStmt(pos Position, cond Expr, cons, alt Stmt) *IfStmt {
	return &IfStmt{stbase(pos), cond, cons, alt}
}
func NewWhileStmt(pos Position, cond Expr, body Stmt) *WhileStmt {
	return &WhileStmt{stbase(pos), cond, body}
}
func NewForStmt(pos Position, binding Pattern, iterable Expr, body Stmt) *ForStmt {
	return &ForStmt{stbase(pos), binding, iterable, body}
}
func NewBreakStmt(pos Position) *BreakStmt       { return &BreakStmt{stbase(pos)} }
func NewContinueStmt(pos Position) *ContinueStmt { return &ContinueStmt{stbase(pos)} }
func NewReturnStmt(pos Position, value Expr) *ReturnStmt {
	return &ReturnStmt{stbase(pos), value}
}
func NewThrowStmt(pos Position, value Expr) *ThrowStmt { return &ThrowStmt{stbase(pos), value} }
func NewTryStmt(pos Position, body *BlockStmt, catches []*CatchClause, finally *BlockStmt) *TryStmt {
	return &TryStmt{stbase(pos), body, catches, finally}
}

var (
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*LetStmt)(nil)
	_ Stmt = (*AssignStmt)(nil)
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*BreakStmt)(nil)
	_ Stmt = (*ContinueStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)
	_ Stmt = (*ThrowStmt)(nil)
	_ Stmt = (*TryStmt)(nil)
)
