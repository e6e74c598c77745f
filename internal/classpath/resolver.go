package classpath

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// wellKnownJDKNames backs resolveClassName step (d): common JDK classes
// resolvable by short name alone, without requiring an explicit `use`.
var wellKnownJDKNames = map[string]string{
	"Object":           "java.lang.Object",
	"String":           "java.lang.String",
	"StringBuilder":    "java.lang.StringBuilder",
	"Math":             "java.lang.Math",
	"System":           "java.lang.System",
	"Integer":          "java.lang.Integer",
	"Long":             "java.lang.Long",
	"Double":           "java.lang.Double",
	"Boolean":          "java.lang.Boolean",
	"Comparable":       "java.lang.Comparable",
	"Runnable":         "java.lang.Runnable",
	"ArrayList":        "java.util.ArrayList",
	"HashMap":          "java.util.HashMap",
	"List":             "java.util.List",
	"Iterator":         "java.util.Iterator",
	"Objects":          "java.util.Objects",
	"Callable":         "java.util.concurrent.Callable",
	"Executor":         "java.util.concurrent.Executor",
	"ForkJoinPool":     "java.util.concurrent.ForkJoinPool",
	"ByteArrayOutputStream": "java.io.ByteArrayOutputStream",
	"DataOutputStream": "java.io.DataOutputStream",
	"ByteArrayInputStream":  "java.io.ByteArrayInputStream",
	"DataInputStream":  "java.io.DataInputStream",
}

// firelyStdlibHints backs resolveClassName step (e): built-in Firefly
// standard-library types resolvable by short name alone.
var firelyStdlibHints = map[string]string{
	"Option":           "firefly.std.option.Option",
	"Result":           "firefly.std.result.Result",
	"Future":           "com.firefly.runtime.async.Future",
	"PersistentVector": "com.firefly.runtime.collections.PersistentVector",
	"Range":            "com.firefly.runtime.Range",
	"ActorSystem":      "com.firefly.runtime.actor.ActorSystem",
	"FlyException":     "com.firefly.runtime.exceptions.FlyException",
}

// resolution is a cached class-name lookup outcome, positive or negative.
type resolution struct {
	fqn   string
	found bool
}

// Resolver resolves simple class names to fully-qualified names for one
// compilation unit's import scope. It is not safe for concurrent use; the
// emitter resolves names on a single goroutine.
type Resolver struct {
	idx *ClasspathIndex

	explicitImports []string // dotted FQNs named by an explicit `use`
	wildcardImports []string // dotted package prefixes named by `use pkg.*`
	currentPackage  string   // dotted, "" for the default package

	cache map[string]resolution
}

// NewResolver builds a Resolver for one compilation unit's `use` clauses.
func NewResolver(idx *ClasspathIndex, currentPackage string, explicitImports, wildcardImports []string) *Resolver {
	return &Resolver{
		idx:             idx,
		explicitImports: explicitImports,
		wildcardImports: wildcardImports,
		currentPackage:  currentPackage,
		cache:           make(map[string]resolution),
	}
}

// ResolveClassName resolves a simple name to its fully-qualified class
// name. Search order: (a) exact match in explicit imports, (b)
// current-module-package + "." + simple, (c) match under any wildcard
// import, (d) known JDK short names, (e) Firefly stdlib hints, (f)
// heuristic: if dotted, return as-is. Ties resolve by the order listed.
// Positive and negative results are both cached.
func (r *Resolver) ResolveClassName(simple string) (string, bool) {
	simple = norm.NFC.String(simple)

	if cached, ok := r.cache[simple]; ok {
		return cached.fqn, cached.found
	}

	fqn, found := r.resolveClassNameUncached(simple)
	r.cache[simple] = resolution{fqn: fqn, found: found}
	return fqn, found
}

func (r *Resolver) resolveClassNameUncached(simple string) (string, bool) {
	// (a) exact match in explicit imports: an import names a class whose
	// final segment equals simple.
	for _, imp := range r.explicitImports {
		if lastSegment(imp) == simple {
			return imp, true
		}
	}

	// (b) current-module-package + "." + simple.
	if r.currentPackage != "" {
		candidate := r.currentPackage + "." + simple
		if c, ok := r.idx.ClassByFQN(candidate); ok {
			return c.FQN, true
		}
	}

	// (c) match under any wildcard import.
	for _, pkg := range r.wildcardImports {
		candidate := pkg + "." + simple
		if c, ok := r.idx.ClassByFQN(candidate); ok {
			return c.FQN, true
		}
	}

	// (d) known JDK short names.
	if fqn, ok := wellKnownJDKNames[simple]; ok {
		return fqn, true
	}

	// (e) built-in Firefly standard-library hints.
	if fqn, ok := firelyStdlibHints[simple]; ok {
		return fqn, true
	}

	// (f) heuristic: if dotted, return as-is.
	if strings.Contains(simple, ".") {
		return simple, true
	}

	return "", false
}

// ResolveVariantNestedClass resolves a nested-class reference by trying
// each explicit import as an enclosing class and probing for a nested
// `Enclosing$simple`.
func (r *Resolver) ResolveVariantNestedClass(simple string) (string, bool) {
	simple = norm.NFC.String(simple)
	for _, enclosing := range r.explicitImports {
		nested := enclosing + "$" + simple
		if c, ok := r.idx.ClassByFQN(dollarToDotted(nested)); ok {
			return c.FQN, true
		}
		// Also accept the literal "$"-joined dotted form, since nested
		// classes are not always pre-registered under a dotted alias in
		// the snapshot.
		if _, ok := r.idx.ClassByFQN(nested); ok {
			return nested, true
		}
	}
	return "", false
}

func lastSegment(dotted string) string {
	if i := strings.LastIndexByte(dotted, '.'); i >= 0 {
		return dotted[i+1:]
	}
	return dotted
}

func dollarToDotted(s string) string {
	return strings.ReplaceAll(s, "$", ".")
}

// GetClass resolves a simple name to its ReflectedClass, composing
// ResolveClassName with a ClasspathIndex lookup.
func (r *Resolver) GetClass(simple string) (*ReflectedClass, bool) {
	fqn, ok := r.ResolveClassName(simple)
	if !ok {
		return nil, false
	}
	return r.idx.ClassByFQN(fqn)
}
