// Package emit walks a CompilationUnit's declarations and expressions in
// a single pass, lowering each to a map of internal class name to
// class-file bytes. A shared mutable Unit carries the current
// compilation's registry, name resolver, and in-progress class writers
// across the per-declaration-kind and per-expression-kind dispatch.
package emit

import (
	"fmt"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classpath"
	"github.com/firefly-oss/firefly-lang-sub000/internal/diagnostic"
	"github.com/firefly-oss/firefly-lang-sub000/internal/registry"
	"github.com/firefly-oss/firefly-lang-sub000/internal/vartype"
)

// Unit drives emission of one CompilationUnit end to end, owning the
// long-lived state constructed per compilation unit and discarded after
// emission: the registry, the name resolver, and the output class map.
type Unit struct {
	Tree     *ast.CompilationUnit
	Idx      *classpath.ClasspathIndex
	Reg      *registry.Registry
	Resolver *classpath.Resolver

	Classes map[string][]byte // internal class name -> bytes, the sole output
	Diags   diagnostic.Bag

	// moduleWriters/moduleOrder aggregate top-level functions belonging to
	// the same module into one synthetic class, published once by
	// flushModuleWriters after every declaration has been visited.
	moduleWriters map[string]*classfile.ClassWriter
	moduleOrder   []string

	// lambdaCounter numbers the synthetic lambda$N/timeout$N/concurrent$N helper methods
	// attached to whichever class encloses the closure, guaranteeing
	// unique names across the whole compilation unit.
	lambdaCounter int
}

// nextClosureName returns a fresh, unit-wide unique synthetic method name
// for a lambda or async-block helper.
func (u *Unit) nextClosureName(prefix string) string {
	u.lambdaCounter++
	return fmt.Sprintf("%s$%d", prefix, u.lambdaCounter)
}

// NewUnit builds an emission driver for one compilation unit: wildcard
// and explicit `use` paths are split out for the Resolver, and the
// registry is pre-populated (C4) before anything is lowered.
func NewUnit(tree *ast.CompilationUnit, idx *classpath.ClasspathIndex) *Unit {
	var explicit, wildcard []string
	for _, u := range tree.Uses {
		if u.Wildcard {
			wildcard = append(wildcard, u.Path)
		} else {
			explicit = append(explicit, u.Path)
		}
	}
	resolver := classpath.NewResolver(idx, tree.Module, explicit, wildcard)

	u := &Unit{
		Tree:     tree,
		Idx:      idx,
		Resolver: resolver,
		Classes:  make(map[string][]byte),
	}
	moduleClass := ast.PackageInternalName(tree.Module)
	if moduleClass == "" {
		moduleClass = "Module"
	}
	u.Reg = registry.New(u.resolveName, moduleClass)
	u.Reg.PreRegister(tree)
	return u
}

// resolveName adapts the Resolver to vartype.NameResolver: unresolved
// simple names fall back to themselves under the current package, on the
// assumption that the type is declared elsewhere in this same module.
func (u *Unit) resolveName(simple string) string {
	if fqn, ok := u.Resolver.ResolveClassName(simple); ok {
		return classpath.DottedToInternal(fqn)
	}
	pkg := ast.PackageInternalName(u.Tree.Module)
	if pkg == "" {
		return simple
	}
	return pkg + "/" + simple
}

// Descriptor renders a surface type using this unit's name resolver.
func (u *Unit) Descriptor(t *ast.SurfaceType) string {
	return vartype.Descriptor(t, u.resolveName)
}

// Emit lowers every top-level declaration, collecting a diagnostic per
// failed declaration while letting siblings continue.
func (u *Unit) Emit() error {
	for _, d := range u.Tree.Decls {
		u.emitTopLevel("", d)
	}
	u.flushModuleWriters()
	if !u.Diags.Empty() {
		return &u.Diags
	}
	return nil
}

func (u *Unit) emitTopLevel(enclosingInternal string, d ast.Decl) {
	defer func() {
		if r := recover(); r != nil {
			u.Diags.Add(diagnostic.New(diagnostic.KindVerifierFailure, d.Pos(),
				"internal error emitting %s: %v", d.Name(), r))
		}
	}()

	switch decl := d.(type) {
	case *ast.FunctionDecl:
		u.emitTopLevelFunction(decl)
	case *ast.ClassDecl:
		u.emitClass(enclosingInternal, decl)
	case *ast.InterfaceDecl:
		u.emitInterface(enclosingInternal, decl)
	case *ast.TraitDecl:
		u.emitTrait(enclosingInternal, decl)
	case *ast.ImplDecl:
		u.emitImpl(enclosingInternal, decl)
	case *ast.StructDecl:
		u.emitStruct(enclosingInternal, decl)
	case *ast.SparkDecl:
		u.emitSpark(enclosingInternal, decl)
	case *ast.DataADTDecl:
		u.emitDataADT(enclosingInternal, decl)
	case *ast.ExceptionDecl:
		u.emitException(enclosingInternal, decl)
	case *ast.ActorDecl:
		u.emitActor(enclosingInternal, decl)
	case *ast.TypeAliasDecl:
		// Recorded in the registry only; no bytecode to emit.
	case ast.UseDeclAsDecl:
		// Resolved ahead of time by NewUnit; nothing to emit.
	default:
		u.Diags.Add(diagnostic.New(diagnostic.KindPatternCodegen, d.Pos(),
			"unhandled declaration kind %T", d))
	}
}

// publish moves a finished class writer's bytes into the output map. A
// failed emission must not publish a partial class; callers only call
// publish after an emitDecl path completes without panicking.
func (u *Unit) publish(internalName string, cw *classfile.ClassWriter) {
	u.Classes[internalName] = cw.Bytes()
}

func accessFlags(vis ast.Visibility, static, final bool) int {
	flags := 0
	switch vis {
	case ast.VisibilityPublic:
		flags |= classfile.AccPublic
	case ast.VisibilityProtected:
		flags |= classfile.AccProtected
	case ast.VisibilityPrivate:
		flags |= classfile.AccPrivate
	}
	if static {
		flags |= classfile.AccStatic
	}
	if final {
		flags |= classfile.AccFinal
	}
	return flags
}

func internalOf(enclosing, name string) string {
	if enclosing == "" {
		return name
	}
	return fmt.Sprintf("%s$%s", enclosing, name)
}
