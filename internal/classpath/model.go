// Package classpath resolves simple class names to fully-qualified class
// names, backed by a reflection-shaped snapshot of the classes the
// generated code is allowed to call into, since the back end runs without
// a live JVM attached.
//
// Lookups are cached with both positive and negative entries, the same
// map-cache shape used for class metadata keyed by internal name
// elsewhere in this back end.
package classpath

import "strings"

// ReflectedMethod is the subset of java.lang.reflect.Method the Method
// Resolver (C2) needs: name, parameter Java type names (not JVM
// descriptors — conversion classification needs the Java type, e.g.
// "int" vs "java.lang.Integer"), return type, staticness, and varargs.
type ReflectedMethod struct {
	Name       string   `json:"name"`
	Params     []string `json:"params"` // Java type names, source order
	Varargs    bool     `json:"varargs"`
	Static     bool     `json:"static"`
	Return     string   `json:"return"`
}

// ReflectedField is the subset of java.lang.reflect.Field needed for
// static-field access lowering.
type ReflectedField struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Static bool   `json:"static"`
	Final  bool   `json:"final"`
}

// ReflectedClass is a classpath-backed stand-in for java.lang.Class.
type ReflectedClass struct {
	FQN        string            `json:"fqn"`        // dotted, e.g. "java.lang.String"
	Super      string            `json:"super"`       // dotted, "" for java.lang.Object itself
	Interfaces []string          `json:"interfaces"`
	Methods    []ReflectedMethod `json:"methods"`
	Fields     []ReflectedField  `json:"fields"`
	IsAnnotation bool            `json:"isAnnotation"`
}

// InternalName converts FQN's dots to JVM-internal slashes.
func (c *ReflectedClass) InternalName() string {
	return DottedToInternal(c.FQN)
}

// DottedToInternal converts "java.util.ArrayList" to "java/util/ArrayList".
func DottedToInternal(dotted string) string {
	out := []byte(dotted)
	for i, b := range out {
		if b == '.' {
			out[i] = '/'
		}
	}
	return string(out)
}

// InternalToDotted converts "java/util/ArrayList" to "java.util.ArrayList" —
// the reverse of DottedToInternal, needed wherever the emitter only has an
// owner's JVM-internal name but the method resolver requires a dotted FQN
// to look the class up in the classpath index.
func InternalToDotted(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// JavaTypeDescriptor converts a dotted Java type name as stored in
// ReflectedMethod.Params/Return (source-order Java type names, not JVM
// descriptors) into the JVM descriptor for that type.
func JavaTypeDescriptor(javaType string) string {
	if strings.HasSuffix(javaType, "[]") {
		return "[" + JavaTypeDescriptor(javaType[:len(javaType)-2])
	}
	switch javaType {
	case "void":
		return "V"
	case "int":
		return "I"
	case "long":
		return "J"
	case "double":
		return "D"
	case "float":
		return "F"
	case "boolean":
		return "Z"
	case "byte":
		return "B"
	case "short":
		return "S"
	case "char":
		return "C"
	default:
		return "L" + DottedToInternal(javaType) + ";"
	}
}

// Descriptor assembles this reflected method's full JVM method descriptor
// from its dotted Java param/return types, for use at a call site once the
// method resolver has picked this method as the candidate.
func (m ReflectedMethod) Descriptor() string {
	d := "("
	for _, p := range m.Params {
		d += JavaTypeDescriptor(p)
	}
	d += ")" + JavaTypeDescriptor(m.Return)
	return d
}

// MethodsNamed returns every reflected method on c with the given name,
// the candidate set overload resolution narrows from.
func (c *ReflectedClass) MethodsNamed(name string) []ReflectedMethod {
	var out []ReflectedMethod
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// FieldNamed looks up a field by name.
func (c *ReflectedClass) FieldNamed(name string) (ReflectedField, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ReflectedField{}, false
}
