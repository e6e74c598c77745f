// Package methodresolve implements a faithful subset of JLS §15.12
// overload resolution, picking the most specific applicable reflected
// method for a call site: an applicability phase (can each candidate's
// parameters accept the call's argument types at all) followed by a
// specificity phase (rank the applicable candidates by conversion cost).
package methodresolve

import "github.com/firefly-oss/firefly-lang-sub000/internal/classpath"

// Conversion classifies how one argument converts to one formal parameter,
// ranked by specificity score.
type Conversion int

const (
	NotApplicable Conversion = iota
	StringConversion
	BoxingWidening
	BoxingUnboxing
	WideningReference
	WideningPrimitive
	Identity
)

// Score assigns a specificity score to this conversion kind; higher is
// more specific.
func (c Conversion) Score() int {
	switch c {
	case Identity:
		return 100
	case WideningPrimitive:
		return 90
	case WideningReference:
		return 85
	case BoxingUnboxing:
		return 80
	case BoxingWidening:
		return 70
	case StringConversion:
		return 50
	default:
		return -1
	}
}

// widensTo is the transitive primitive widening table (JLS §5.1.2):
// byte→short→int→long→float→double, char→int→…, short→int→…,
// int→long→float→double, long→float→double, float→double.
var widensTo = map[string][]string{
	"byte":  {"short", "int", "long", "float", "double"},
	"short": {"int", "long", "float", "double"},
	"char":  {"int", "long", "float", "double"},
	"int":   {"long", "float", "double"},
	"long":  {"float", "double"},
	"float": {"double"},
}

var primitiveKinds = map[string]bool{
	"byte": true, "short": true, "char": true, "int": true,
	"long": true, "float": true, "double": true, "boolean": true,
}

var boxedOf = map[string]string{
	"byte": "java.lang.Byte", "short": "java.lang.Short", "char": "java.lang.Character",
	"int": "java.lang.Integer", "long": "java.lang.Long", "float": "java.lang.Float",
	"double": "java.lang.Double", "boolean": "java.lang.Boolean",
}

func isPrimitive(t string) bool { return primitiveKinds[t] }

func primitiveWidensTo(from, to string) bool {
	if from == to {
		return true
	}
	for _, t := range widensTo[from] {
		if t == to {
			return true
		}
	}
	return false
}

// referenceAssignable reports whether source is target or a (transitive)
// subtype/implementor of target, per the embedded classpath's class
// hierarchy. java.lang.Object is assignable-from-everything.
func referenceAssignable(idx *classpath.ClasspathIndex, source, target string) bool {
	if target == "java.lang.Object" || source == target {
		return true
	}
	c, ok := idx.ClassByFQN(source)
	if !ok {
		return false
	}
	if c.Super != "" && referenceAssignable(idx, c.Super, target) {
		return true
	}
	for _, iface := range c.Interfaces {
		if referenceAssignable(idx, iface, target) {
			return true
		}
	}
	return false
}

// classify classifies one (argument, parameter) pair.
func classify(idx *classpath.ClasspathIndex, argType, paramType string) Conversion {
	if argType == paramType {
		return Identity
	}

	argPrim, paramPrim := isPrimitive(argType), isPrimitive(paramType)

	switch {
	case argPrim && paramPrim:
		if primitiveWidensTo(argType, paramType) {
			return WideningPrimitive
		}
	case !argPrim && !paramPrim:
		if referenceAssignable(idx, argType, paramType) {
			return WideningReference
		}
	case argPrim && !paramPrim:
		// boxing: box argType, then it must equal or widen-assign to paramType.
		boxed := boxedOf[argType]
		if boxed == paramType {
			return BoxingUnboxing
		}
		if boxed != "" && referenceAssignable(idx, boxed, paramType) {
			return BoxingWidening
		}
	case !argPrim && paramPrim:
		// unboxing: argType must be exactly the wrapper for paramType.
		if boxedOf[paramType] == argType {
			return BoxingUnboxing
		}
	}

	if paramType == "java.lang.String" {
		return StringConversion
	}
	return NotApplicable
}

// Candidate is one applicable reflected method, ranked by specificity.
type Candidate struct {
	Method      classpath.ReflectedMethod
	Owner       string // dotted FQN of the declaring class
	Conversions []Conversion
	IsVarargs   bool // true if matched via the varargs arm
	score       int
}

// Resolve picks the most specific applicable method named name on class
// owner (dotted FQN) for the given dotted-Java argument types, requiring
// static == wantStatic. Returns (nil, false) on "no applicable method"
// rather than erroring.
func Resolve(idx *classpath.ClasspathIndex, owner string, name string, wantStatic bool, argTypes []string) (*Candidate, bool) {
	class, ok := idx.ClassByFQN(owner)
	if !ok {
		return nil, false
	}

	var applicable []*Candidate
	for _, m := range class.MethodsNamed(name) {
		if m.Static != wantStatic {
			continue
		}
		if cand := tryFixedArity(idx, owner, m, argTypes); cand != nil {
			applicable = append(applicable, cand)
			continue
		}
		if m.Varargs {
			if cand := tryVarargs(idx, owner, m, argTypes); cand != nil {
				applicable = append(applicable, cand)
			}
		}
	}

	if len(applicable) == 0 {
		return nil, false
	}

	best := rank(applicable)
	return best, true
}

func tryFixedArity(idx *classpath.ClasspathIndex, owner string, m classpath.ReflectedMethod, argTypes []string) *Candidate {
	if m.Varargs || len(m.Params) != len(argTypes) {
		return nil
	}
	convs := make([]Conversion, len(argTypes))
	total := 0
	for i, p := range m.Params {
		c := classify(idx, argTypes[i], p)
		if c == NotApplicable {
			return nil
		}
		convs[i] = c
		total += c.Score()
	}
	return &Candidate{Method: m, Owner: owner, Conversions: convs, score: total}
}

func tryVarargs(idx *classpath.ClasspathIndex, owner string, m classpath.ReflectedMethod, argTypes []string) *Candidate {
	fixed := len(m.Params) - 1
	if fixed < 0 || len(argTypes) < fixed {
		return nil
	}
	component := arrayComponent(m.Params[fixed])

	convs := make([]Conversion, 0, len(argTypes))
	total := 0
	for i := 0; i < fixed; i++ {
		c := classify(idx, argTypes[i], m.Params[i])
		if c == NotApplicable {
			return nil
		}
		convs = append(convs, c)
		total += c.Score()
	}

	// Single trailing argument whose type is array-assignable to the
	// varargs array type matches without wrapping.
	if len(argTypes) == fixed+1 && argTypes[fixed] == m.Params[fixed] {
		convs = append(convs, Identity)
		total += Identity.Score()
		return &Candidate{Method: m, Owner: owner, Conversions: convs, IsVarargs: true, score: total}
	}

	for i := fixed; i < len(argTypes); i++ {
		c := classify(idx, argTypes[i], component)
		if c == NotApplicable {
			return nil
		}
		convs = append(convs, c)
		total += c.Score()
	}
	return &Candidate{Method: m, Owner: owner, Conversions: convs, IsVarargs: true, score: total}
}

func arrayComponent(t string) string {
	if len(t) >= 2 && t[len(t)-2:] == "[]" {
		return t[:len(t)-2]
	}
	return t
}

// rank picks the most specific candidate: non-varargs beats varargs;
// higher total score wins; then fewer total boxing conversions; then
// declaration (source/enumeration) order.
func rank(candidates []*Candidate) *Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best) {
			best = c
		}
	}
	return best
}

func better(a, b *Candidate) bool {
	if a.IsVarargs != b.IsVarargs {
		return !a.IsVarargs // non-varargs beats varargs
	}
	if a.score != b.score {
		return a.score > b.score
	}
	if ab, bb := boxingCount(a), boxingCount(b); ab != bb {
		return ab < bb
	}
	return false // declaration order: first-seen (b) wins ties
}

func boxingCount(c *Candidate) int {
	n := 0
	for _, conv := range c.Conversions {
		if conv == BoxingUnboxing || conv == BoxingWidening {
			n++
		}
	}
	return n
}
