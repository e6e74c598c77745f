// Package registry runs a first pass over a compilation unit that records
// struct/spark/data-variant metadata and function signatures ahead of
// lowering, so that emission never depends on source declaration order: a
// pre-pass populates a symbol table before any body is walked, so mutually
// recursive functions resolve.
package registry

import (
	"fmt"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// FieldMeta is one ordered field of a struct/spark/variant: field order
// equals constructor parameter order and the toString/equals/hashCode
// emission order.
type FieldMeta struct {
	Name string
	Type *ast.SurfaceType
}

// StructMeta is the registered shape of a struct or spark.
type StructMeta struct {
	SimpleName   string
	InternalName string
	Fields       []FieldMeta
	IsSpark      bool
	Computed     []string // names of computed properties, in declaration order
}

// ADTVariant is one variant of a registered data declaration.
type ADTVariant struct {
	SimpleName   string // e.g. "Some"
	InternalName string // e.g. "app/Option$Some"
	Fields       []FieldMeta
	Nullary      bool
}

// ADTMeta is the registered shape of a `data` declaration.
type ADTMeta struct {
	SimpleName       string
	BaseInternalName string
	Variants         []ADTVariant
}

// FunctionSig is a pre-registered function/method descriptor, keyed so
// forward and mutually-recursive self-calls resolve before their bodies
// are lowered.
type FunctionSig struct {
	Name       string
	Owner      string // internal name of the class this function is actually emitted on
	Descriptor string
	Static     bool
	Async      bool // JVM return type is always Future, regardless of ReturnType below
	ReturnType *ast.SurfaceType
	ParamTypes []*ast.SurfaceType
}

// Registry is the Type Pre-Registration result for one compilation unit.
type Registry struct {
	Structs    map[string]*StructMeta // keyed by simple name
	ADTs       map[string]*ADTMeta    // keyed by simple name
	Functions  map[string]*FunctionSig
	Exceptions map[string]string // simple name -> internal name, for bare `MyError()` construction

	resolve     vartype.NameResolver
	moduleClass string // internal name of the synthetic class top-level functions are emitted on
}

// New creates an empty Registry. resolve is the Type Resolver's name
// resolution function, used to turn Named surface types into internal
// names while registering fields and signatures. moduleClass is the
// internal name of the synthetic per-module class top-level functions are
// emitted on (emit.emitTopLevelFunction), needed so a FunctionSig for a
// bare top-level function records the class it actually lives on rather
// than whichever class happens to be calling it.
func New(resolve vartype.NameResolver, moduleClass string) *Registry {
	return &Registry{
		Structs:     make(map[string]*StructMeta),
		ADTs:        make(map[string]*ADTMeta),
		Functions:   make(map[string]*FunctionSig),
		Exceptions:  make(map[string]string),
		resolve:     resolve,
		moduleClass: moduleClass,
	}
}

// PreRegister walks every top-level declaration of unit and populates the
// Registry before any body is emitted.
func (r *Registry) PreRegister(unit *ast.CompilationUnit) {
	for _, d := range unit.Decls {
		r.registerDecl("", d)
	}
}

func (r *Registry) registerDecl(enclosingInternal string, d ast.Decl) {
	switch decl := d.(type) {
	case *ast.StructDecl:
		r.registerStruct(enclosingInternal, decl)
	case *ast.SparkDecl:
		r.registerSpark(enclosingInternal, decl)
	case *ast.DataADTDecl:
		r.registerADT(enclosingInternal, decl)
	case *ast.FunctionDecl:
		r.registerFunction(enclosingInternal, decl, enclosingInternal == "")
	case *ast.ClassDecl:
		internal := joinInternal(enclosingInternal, decl.Name())
		for _, m := range decl.Methods {
			r.registerFunction(internal, m, false)
		}
		for _, nested := range decl.Nested {
			r.registerDecl(internal, nested)
		}
	case *ast.ExceptionDecl:
		internal := joinInternal(enclosingInternal, decl.Name())
		r.Exceptions[decl.Name()] = internal
		for _, m := range decl.Methods {
			r.registerFunction(internal, m, false)
		}
	case *ast.ActorDecl:
		internal := joinInternal(enclosingInternal, decl.Name())
		for _, m := range decl.Methods {
			r.registerFunction(internal, m, false)
		}
	}
}

func (r *Registry) registerStruct(enclosingInternal string, decl *ast.StructDecl) {
	internal := joinInternal(enclosingInternal, decl.Name())
	meta := &StructMeta{SimpleName: decl.Name(), InternalName: internal}
	for _, f := range decl.Fields {
		meta.Fields = append(meta.Fields, FieldMeta{Name: f.FName, Type: f.Type})
	}
	r.Structs[decl.Name()] = meta
}

func (r *Registry) registerSpark(enclosingInternal string, decl *ast.SparkDecl) {
	internal := joinInternal(enclosingInternal, decl.Name())
	meta := &StructMeta{SimpleName: decl.Name(), InternalName: internal, IsSpark: true}
	for _, f := range decl.Fields {
		meta.Fields = append(meta.Fields, FieldMeta{Name: f.FName, Type: f.Type})
	}
	for _, c := range decl.Computed {
		meta.Computed = append(meta.Computed, c.PName)
	}
	r.Structs[decl.Name()] = meta
}

func (r *Registry) registerADT(enclosingInternal string, decl *ast.DataADTDecl) {
	base := joinInternal(enclosingInternal, decl.Name())
	meta := &ADTMeta{SimpleName: decl.Name(), BaseInternalName: base}
	for _, v := range decl.Variants {
		variant := ADTVariant{
			SimpleName:   v.VName,
			InternalName: base + "$" + v.VName,
			Nullary:      v.IsNullary(),
		}
		for _, f := range v.Fields {
			variant.Fields = append(variant.Fields, FieldMeta{Name: f.FName, Type: f.Type})
		}
		meta.Variants = append(meta.Variants, variant)
	}
	r.ADTs[decl.Name()] = meta
}

func (r *Registry) registerFunction(enclosingInternal string, decl *ast.FunctionDecl, static bool) {
	owner := enclosingInternal
	if owner == "" {
		owner = r.moduleClass
	}
	sig := &FunctionSig{
		Name:       decl.Name(),
		Owner:      owner,
		Static:     static || decl.IsStatic,
		Async:      decl.IsAsync,
		ReturnType: decl.Return,
	}
	for _, p := range decl.Params {
		sig.ParamTypes = append(sig.ParamTypes, p.Type)
	}
	if decl.IsAsync {
		// An async function's JVM return type is always the runtime's
		// Future, regardless of its declared surface return type, so a
		// call site's resolved descriptor always matches the method
		// actually emitted.
		paramsDesc := ""
		for _, p := range sig.ParamTypes {
			paramsDesc += vartype.Descriptor(p, r.resolve)
		}
		sig.Descriptor = "(" + paramsDesc + ")Lcom/firefly/runtime/async/Future;"
	} else {
		sig.Descriptor = vartype.MethodDescriptor(sig.ParamTypes, sig.ReturnType, r.resolve)
	}
	key := decl.Name()
	if enclosingInternal != "" {
		key = enclosingInternal + "#" + decl.Name()
	}
	r.Functions[key] = sig
}

// LookupStruct returns the registered struct/spark metadata for a simple
// name, used by struct-literal and destructuring-pattern lowering.
func (r *Registry) LookupStruct(simpleName string) (*StructMeta, bool) {
	m, ok := r.Structs[simpleName]
	return m, ok
}

// LookupADT returns the registered ADT metadata for a simple name, used
// by pattern-match and variant-factory-call lowering.
func (r *Registry) LookupADT(simpleName string) (*ADTMeta, bool) {
	m, ok := r.ADTs[simpleName]
	return m, ok
}

// LookupVariant finds the owning ADT and the variant metadata for a bare
// variant name, e.g. resolving `Some` without qualification.
func (r *Registry) LookupVariant(variantName string) (*ADTMeta, *ADTVariant, bool) {
	for _, adt := range r.ADTs {
		for i := range adt.Variants {
			if adt.Variants[i].SimpleName == variantName {
				return adt, &adt.Variants[i], true
			}
		}
	}
	return nil, nil, false
}

// LookupException returns the internal name registered for a bare
// exception-type simple name, used by bare `MyError()`-shaped construction
// calls.
func (r *Registry) LookupException(simpleName string) (string, bool) {
	internal, ok := r.Exceptions[simpleName]
	return internal, ok
}

// LookupFunction resolves a pre-registered function signature, trying the
// qualified key first (method on a class) and falling back to the bare
// top-level name, used by self-call lowering.
func (r *Registry) LookupFunction(enclosingInternal, name string) (*FunctionSig, bool) {
	if enclosingInternal != "" {
		if sig, ok := r.Functions[enclosingInternal+"#"+name]; ok {
			return sig, true
		}
	}
	sig, ok := r.Functions[name]
	return sig, ok
}

func joinInternal(enclosing, name string) string {
	if enclosing == "" {
		return name
	}
	return fmt.Sprintf("%s$%s", enclosing, name)
}
