// Package ast defines the read-only input contract for the Firefly
// code-generation back end: the shape of a fully parsed, annotated
// compilation unit as produced by the (out of scope) lexer, parser,
// semantic analyzer, and type inferencer.
//
// Nothing in this package parses source text. It only describes the
// tree the back end walks.
package ast

import "fmt"

// Position is a source location carried by every node for diagnostics.
// It is intentionally self-contained (it does not depend on a lexer
// token type) since the front end that produces positions is external.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is the base interface implemented by every AST node.
type Node interface {
	// Pos returns the node's source location for diagnostics.
	Pos() Position
	// String returns a debug representation, not a pretty-printer.
	String() string
}

// Decl is a top-level or nested declaration.
type Decl interface {
	Node
	declNode()
	Name() string
	Annotations() []Annotation
	Visibility() Visibility
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
	InferredType() *SurfaceType
}

// Stmt is any node that performs an action.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is a match-arm or catch-clause pattern, consumed by the
// Pattern-Match Lowerer (C7).
type Pattern interface {
	Node
	patternNode()
}

// Visibility mirrors the three Firefly access levels.
type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityProtected
	VisibilityPublic
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	default:
		return "public"
	}
}

// Annotation is a named annotation attached to a declaration. Values
// holds its arguments in source order, one AnnotationArg each.
type Annotation struct {
	Name   string
	Values []AnnotationArg
	NodePos Position
}

func (a Annotation) Pos() Position { return a.NodePos }

// AnnotationArg is one element of an annotation's argument list, e.g.
// `@derive(Show, Eq)` has two AnnotationArg entries, each with Name=="".
// `@Route(path: "/x")` has one entry with Name=="path".
type AnnotationArg struct {
	Name  string
	Value any // string | int64 | float64 | bool
}

// UseDecl is a `use` (import) declaration.
type UseDecl struct {
	NodePos  Position
	Path     string // dotted path, e.g. "java.util.ArrayList"
	Wildcard bool   // `use java.util.*`
	Alias    string // optional `use X as Y`
}

func (u *UseDecl) Pos() Position { return u.NodePos }
func (u *UseDecl) String() string {
	if u.Wildcard {
		return "use " + u.Path + ".*"
	}
	return "use " + u.Path
}

// CompilationUnit is the root of the input tree: one module's worth of
// declarations plus its imports.
type CompilationUnit struct {
	Module string // dotted module/package name
	Uses   []*UseDecl
	Decls  []Decl
}

func (c *CompilationUnit) Pos() Position {
	if len(c.Decls) > 0 {
		return c.Decls[0].Pos()
	}
	return Position{Line: 1, Column: 1}
}

func (c *CompilationUnit) String() string {
	return fmt.Sprintf("module %s (%d decls)", c.Module, len(c.Decls))
}

// PackageInternalName converts a dotted module name to a slash-separated
// JVM internal name prefix, e.g. "app.util" -> "app/util".
func PackageInternalName(module string) string {
	out := make([]byte, len(module))
	for i := 0; i < len(module); i++ {
		if module[i] == '.' {
			out[i] = '/'
		} else {
			out[i] = module[i]
		}
	}
	return string(out)
}
