package ast

// declBase factors the fields every Decl variant shares (position, name,
// annotations, visibility, type parameters) into one embedded struct
// rather than repeating them per declaration kind.
type declBase struct {
	NodePos    Position
	DeclName   string
	Anns       []Annotation
	Vis        Visibility
	TypeParams []*SurfaceType // STTypeParam entries; empty if not generic
}

func (d declBase) Pos() Position            { return d.NodePos }
func (d declBase) Name() string             { return d.DeclName }
func (d declBase) Annotations() []Annotation { return d.Anns }
func (d declBase) Visibility() Visibility    { return d.Vis }
func (d declBase) declNode()                {}

// Param is a function/method parameter.
type Param struct {
	NodePos Position
	PName   string
	Type    *SurfaceType
	Variadic bool // trailing `...T` parameter
}

func (p *Param) Pos() Position { return p.NodePos }
func (p *Param) String() string { return p.PName + ": " + p.Type.String() }

// FunctionDecl is a top-level or nested function/method.
type FunctionDecl struct {
	declBase
	Params    []*Param
	Return    *SurfaceType
	Body      *BlockStmt // nil for abstract/interface methods
	IsStatic  bool
	IsAsync   bool
	IsAbstract bool
	// IsEntryPoint marks the distinguished `fly(args: String[])` method
	// that becomes the class's public static void main(String[]).
	IsEntryPoint bool
}

func (f *FunctionDecl) String() string { return "fn " + f.DeclName }

// FieldDecl is a struct/spark/class field.
type FieldDecl struct {
	NodePos Position
	FName   string
	Type    *SurfaceType
	Vis     Visibility
	Mutable bool
	Default Expr // optional initializer
}

func (f *FieldDecl) Pos() Position  { return f.NodePos }
func (f *FieldDecl) String() string { return f.FName + ": " + f.Type.String() }

// ClassDecl is a reference-type class with fields, methods, an optional
// parent, and implemented interfaces/traits.
type ClassDecl struct {
	declBase
	Parent     string // simple/dotted name, "" if none
	Interfaces []string
	Fields     []*FieldDecl
	Methods    []*FunctionDecl
	Nested     []Decl
	IsFinal    bool
}

func (c *ClassDecl) String() string { return "class " + c.DeclName }

// InterfaceDecl / TraitDecl share identical JVM shape.
type InterfaceDecl struct {
	declBase
	Supers  []string
	Methods []*FunctionDecl
}

func (i *InterfaceDecl) String() string { return "interface " + i.DeclName }

type TraitDecl struct {
	declBase
	Supers  []string
	Methods []*FunctionDecl
}

func (t *TraitDecl) String() string { return "trait " + t.DeclName }

// ImplDecl is `impl Trait for Type { ... }` or inherent `impl Type { ... }`
// (Trait == "" selects the inherent form).
type ImplDecl struct {
	declBase
	Trait   string // "" for inherent impl
	Target  string
	Methods []*FunctionDecl
}

func (i *ImplDecl) String() string {
	if i.Trait == "" {
		return "impl " + i.Target
	}
	return "impl " + i.Trait + " for " + i.Target
}

// StructDecl is a plain immutable-by-default value type.
type StructDecl struct {
	declBase
	Fields []*FieldDecl
}

func (s *StructDecl) String() string { return "struct " + s.DeclName }

// SparkDecl is an immutable record with structural equality, copy-with,
// computed properties, optional @derive and @travelable support.
type SparkDecl struct {
	declBase
	Fields     []*FieldDecl
	Computed   []*ComputedProperty
	Validate   *BlockStmt // optional `validate { ... }` block
	Travelable bool
}

func (s *SparkDecl) String() string { return "spark " + s.DeclName }

// ComputedProperty is a zero-arg method compiled from a spark's computed
// property block.
type ComputedProperty struct {
	NodePos Position
	PName   string
	Type    *SurfaceType
	Body    *BlockStmt
}

func (c *ComputedProperty) Pos() Position { return c.NodePos }
func (c *ComputedProperty) String() string { return c.PName }

// DataVariant is one alternative of a DataADTDecl.
type DataVariant struct {
	NodePos Position
	VName   string
	Fields  []*FieldDecl // empty for nullary variants
}

func (d *DataVariant) Pos() Position  { return d.NodePos }
func (d *DataVariant) String() string { return d.VName }
func (d *DataVariant) IsNullary() bool { return len(d.Fields) == 0 }

// DataADTDecl is a sealed base class with a fixed set of variants.
type DataADTDecl struct {
	declBase
	Variants []*DataVariant
}

func (d *DataADTDecl) String() string { return "data " + d.DeclName }

// ExceptionDecl is a user exception type, ultimately descending from the
// runtime's FlyException.
type ExceptionDecl struct {
	declBase
	Parent  string // "" defaults to FlyException
	Fields  []*FieldDecl
	Methods []*FunctionDecl
}

func (e *ExceptionDecl) String() string { return "exception " + e.DeclName }

// ActorDecl implements the runtime Actor<State,Message> interface.
type ActorDecl struct {
	declBase
	StateType   *SurfaceType
	MessageType *SurfaceType
	Fields      []*FieldDecl
	Receive     []*ReceiveCase
	Methods     []*FunctionDecl
}

func (a *ActorDecl) String() string { return "actor " + a.DeclName }

// ReceiveCase is one `receive` arm inside an actor's message handler.
type ReceiveCase struct {
	NodePos Position
	Pat     Pattern
	Guard   Expr // optional
	Body    *BlockStmt
}

func (r *ReceiveCase) Pos() Position  { return r.NodePos }
func (r *ReceiveCase) String() string { return "case " + r.Pat.String() }

// TypeAliasDecl records a name -> SurfaceType mapping; emits no bytecode.
type TypeAliasDecl struct {
	declBase
	Target *SurfaceType
}

func (t *TypeAliasDecl) String() string { return "type " + t.DeclName + " = " + t.Target.String() }

// UseDeclAsDecl adapts UseDecl (already a top-level construct) so that
// `Use` participates in the tagged Decl union alongside every other
// top-level declaration kind.
type UseDeclAsDecl struct {
	*UseDecl
}

func (u UseDeclAsDecl) Name() string             { return u.Path }
func (u UseDeclAsDecl) Annotations() []Annotation { return nil }
func (u UseDeclAsDecl) Visibility() Visibility    { return VisibilityPublic }
func (u UseDeclAsDecl) declNode()                {}

var (
	_ Decl = (*FunctionDecl)(nil)
	_ Decl = (*ClassDecl)(nil)
	_ Decl = (*InterfaceDecl)(nil)
	_ Decl = (*TraitDecl)(nil)
	_ Decl = (*ImplDecl)(nil)
	_ Decl = (*StructDecl)(nil)
	_ Decl = (*SparkDecl)(nil)
	_ Decl = (*DataADTDecl)(nil)
	_ Decl = (*ExceptionDecl)(nil)
	_ Decl = (*ActorDecl)(nil)
	_ Decl = (*TypeAliasDecl)(nil)
	_ Decl = UseDeclAsDecl{}
)

// DeclHeader carries the fields every Decl variant shares. It is the
// exported mirror of declBase, needed because declBase itself is
// unexported: a decoder living outside this package (internal/astio)
// can't write a `declBase: ...` composite-literal key, so each
// NewXxxDecl constructor below accepts a DeclHeader and folds it into
// the unexported embedded field internally.
type DeclHeader struct {
	Pos         Position
	Name        string
	Annotations []Annotation
	Visibility  Visibility
	TypeParams  []*SurfaceType
}

func (h DeclHeader) base() declBase {
	return declBase{NodePos: h.Pos, DeclName: h.Name, Anns: h.Annotations, Vis: h.Visibility, TypeParams: h.TypeParams}
}

// NewFunctionDecl builds a FunctionDecl from a decoded document, for use
// by internal/astio.
func NewFunctionDecl(h DeclHeader, params []*Param, ret *SurfaceType, body *BlockStmt, isStatic, isAsync, isAbstract, isEntryPoint bool) *FunctionDecl {
	return &FunctionDecl{
		declBase:     h.base(),
		Params:       params,
		Return:       ret,
		Body:         body,
		IsStatic:     isStatic,
		IsAsync:      isAsync,
		IsAbstract:   isAbstract,
		IsEntryPoint: isEntryPoint,
	}
}

// NewClassDecl builds a ClassDecl from a decoded document.
func NewClassDecl(h DeclHeader, parent string, interfaces []string, fields []*FieldDecl, methods []*FunctionDecl, nested []Decl, isFinal bool) *ClassDecl {
	return &ClassDecl{
		declBase:   h.base(),
		Parent:     parent,
		Interfaces: interfaces,
		Fields:     fields,
		Methods:    methods,
		Nested:     nested,
		IsFinal:    isFinal,
	}
}

// NewInterfaceDecl builds an InterfaceDecl from a decoded document.
func NewInterfaceDecl(h DeclHeader, supers []string, methods []*FunctionDecl) *InterfaceDecl {
	return &InterfaceDecl{declBase: h.base(), Supers: supers, Methods: methods}
}

// NewTraitDecl builds a TraitDecl from a decoded document.
func NewTraitDecl(h DeclHeader, supers []string, methods []*FunctionDecl) *TraitDecl {
	return &TraitDecl{declBase: h.base(), Supers: supers, Methods: methods}
}

// NewImplDecl builds an ImplDecl from a decoded document.
func NewImplDecl(h DeclHeader, trait, target string, methods []*FunctionDecl) *ImplDecl {
	return &ImplDecl{declBase: h.base(), Trait: trait, Target: target, Methods: methods}
}

// NewStructDecl builds a StructDecl from a decoded document.
func NewStructDecl(h DeclHeader, fields []*FieldDecl) *StructDecl {
	return &StructDecl{declBase: h.base(), Fields: fields}
}

// NewSparkDecl builds a SparkDecl from a decoded document.
func NewSparkDecl(h DeclHeader, fields []*FieldDecl, computed []*ComputedProperty, validate *BlockStmt, travelable bool) *SparkDecl {
	return &SparkDecl{declBase: h.base(), Fields: fields, Computed: computed, Validate: validate, Travelable: travelable}
}

// NewDataADTDecl builds a DataADTDecl from a decoded document.
func NewDataADTDecl(h DeclHeader, variants []*DataVariant) *DataADTDecl {
	return &DataADTDecl{declBase: h.base(), Variants: variants}
}

// NewExceptionDecl builds an ExceptionDecl from a decoded document.
func NewExceptionDecl(h DeclHeader, parent string, fields []*FieldDecl, methods []*FunctionDecl) *ExceptionDecl {
	return &ExceptionDecl{declBase: h.base(), Parent: parent, Fields: fields, Methods: methods}
}

// NewActorDecl builds an ActorDecl from a decoded document.
func NewActorDecl(h DeclHeader, stateType, messageType *SurfaceType, fields []*FieldDecl, receive []*ReceiveCase, methods []*FunctionDecl) *ActorDecl {
	return &ActorDecl{declBase: h.base(), StateType: stateType, MessageType: messageType, Fields: fields, Receive: receive, Methods: methods}
}

// NewTypeAliasDecl builds a TypeAliasDecl from a decoded document.
func NewTypeAliasDecl(h DeclHeader, target *SurfaceType) *TypeAliasDecl {
	return &TypeAliasDecl{declBase: h.base(), Target: target}
}
