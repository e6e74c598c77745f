// Package vartype provides a bidirectional mapping between Firefly
// surface types, the internal VarType value category, JVM descriptors,
// and the boxed wrapper class used whenever a primitive must live in an
// Object-typed slot.
package vartype

import (
	"strings"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

// VarType is the internal value category every lowering step tracks as
// "the type of whatever is currently on top of the operand stack".
type VarType int

const (
	INT VarType = iota
	LONG
	FLOAT // Firefly Float maps to JVM double; there is no single-precision surface type
	DOUBLE
	BOOLEAN
	STRING
	OBJECT
	STRING_ARRAY
)

var names = [...]string{
	INT:          "INT",
	LONG:         "LONG",
	FLOAT:        "FLOAT",
	DOUBLE:       "DOUBLE",
	BOOLEAN:      "BOOLEAN",
	STRING:       "STRING",
	OBJECT:       "OBJECT",
	STRING_ARRAY: "STRING_ARRAY",
}

func (v VarType) String() string {
	if int(v) < len(names) {
		return names[v]
	}
	return "UNKNOWN"
}

// SlotSize returns how many JVM local-variable slots a value of this
// category occupies: 2 for LONG/DOUBLE/FLOAT (which is JVM double), 1
// otherwise.
func (v VarType) SlotSize() int {
	switch v {
	case LONG, DOUBLE, FLOAT:
		return 2
	default:
		return 1
	}
}

// IsWide is a readability alias for SlotSize() == 2.
func (v VarType) IsWide() bool { return v.SlotSize() == 2 }

// IsPrimitive reports whether v denotes a JVM primitive (as opposed to a
// reference type living on the operand stack as a boxed/plain Object).
func (v VarType) IsPrimitive() bool {
	switch v {
	case INT, LONG, FLOAT, DOUBLE, BOOLEAN:
		return true
	default:
		return false
	}
}

// BoxedClass returns the internal name of the java.lang wrapper class
// used whenever a primitive of this category is stored into an
// Object-typed location.
func (v VarType) BoxedClass() string {
	switch v {
	case INT:
		return "java/lang/Integer"
	case LONG:
		return "java/lang/Long"
	case FLOAT, DOUBLE:
		return "java/lang/Double"
	case BOOLEAN:
		return "java/lang/Boolean"
	default:
		return "java/lang/Object"
	}
}

// ValueOfDescriptor is the descriptor of `java.lang.X.valueOf(prim)` used
// to box a value of this category.
func (v VarType) ValueOfDescriptor() string {
	return "(" + v.PrimitiveDescriptor() + ")L" + v.BoxedClass() + ";"
}

// UnboxMethod is the instance method name used to unbox a boxed value of
// this category back to its primitive (e.g. "intValue").
func (v VarType) UnboxMethod() string {
	switch v {
	case INT:
		return "intValue"
	case LONG:
		return "longValue"
	case FLOAT, DOUBLE:
		return "doubleValue"
	case BOOLEAN:
		return "booleanValue"
	default:
		return ""
	}
}

// UnboxDescriptor is the descriptor of the unbox accessor, e.g. "()I".
func (v VarType) UnboxDescriptor() string {
	return "()" + v.PrimitiveDescriptor()
}

// PrimitiveDescriptor returns the one-letter JVM primitive descriptor for
// categories that have one, or "" for STRING/OBJECT/STRING_ARRAY.
func (v VarType) PrimitiveDescriptor() string {
	switch v {
	case INT:
		return "I"
	case LONG:
		return "J"
	case FLOAT, DOUBLE:
		return "D"
	case BOOLEAN:
		return "Z"
	default:
		return ""
	}
}

// NameResolver resolves a simple/dotted surface-type name to a JVM
// internal name (slash-separated), delegating to the Type Resolver (C1).
type NameResolver func(simpleOrDotted string) string

// FromSurface maps a Firefly surface type to its VarType category.
// Named/Generic/Optional/Function/Tuple types are all OBJECT-category at
// the JVM level; arrays of String are the one specialised array category
// this back end tracks (STRING_ARRAY, used for `fly(args: String[])`).
func FromSurface(t *ast.SurfaceType) VarType {
	if t == nil {
		return OBJECT
	}
	switch t.Kind {
	case ast.STPrimitive:
		switch t.Primitive {
		case ast.PrimInt:
			return INT
		case ast.PrimLong:
			return LONG
		case ast.PrimFloat, ast.PrimDouble:
			return DOUBLE
		case ast.PrimBool:
			return BOOLEAN
		case ast.PrimString:
			return STRING
		default:
			return OBJECT
		}
	case ast.STArray:
		if t.ArrayElem != nil && t.ArrayElem.Kind == ast.STPrimitive && t.ArrayElem.Primitive == ast.PrimString {
			return STRING_ARRAY
		}
		return OBJECT
	default:
		return OBJECT
	}
}

// Descriptor returns the JVM field/parameter descriptor for a surface
// type. resolve is used to turn a Named/Generic type's simple name into a
// fully qualified internal name; it may be nil for primitives/arrays
// where it is never consulted.
func Descriptor(t *ast.SurfaceType, resolve NameResolver) string {
	if t == nil {
		return "V"
	}
	switch t.Kind {
	case ast.STPrimitive:
		switch t.Primitive {
		case ast.PrimInt:
			return "I"
		case ast.PrimLong:
			return "J"
		case ast.PrimFloat, ast.PrimDouble:
			return "D"
		case ast.PrimBool:
			return "Z"
		case ast.PrimString:
			return "Ljava/lang/String;"
		default:
			return "V"
		}
	case ast.STArray:
		return "[" + Descriptor(t.ArrayElem, resolve)
	case ast.STOptional:
		return Descriptor(t.OptionalInner, resolve)
	case ast.STNamed:
		internal := t.Name
		if resolve != nil {
			internal = resolve(t.Name)
		}
		return "L" + internal + ";"
	case ast.STGeneric:
		// Generics are erased; the descriptor is that of the raw base type.
		return Descriptor(t.GenericBase, resolve)
	case ast.STFunction:
		return "Ljava/lang/Object;" // erased to whatever functional-interface the lambda lowerer picks
	case ast.STTuple:
		return "Ljava/util/List;"
	case ast.STTypeParam:
		if len(t.TypeParamBounds) > 0 {
			return Descriptor(t.TypeParamBounds[0], resolve)
		}
		return "Ljava/lang/Object;"
	default:
		return "Ljava/lang/Object;"
	}
}

// ReturnDescriptor is Descriptor, but Void surface types map to "V"
// (already the default above); kept as a named alias for call sites that
// want to make the return-position intent explicit.
func ReturnDescriptor(t *ast.SurfaceType, resolve NameResolver) string { return Descriptor(t, resolve) }

// MethodDescriptor assembles a full JVM method descriptor from parameter
// and return surface types.
func MethodDescriptor(params []*ast.SurfaceType, ret *ast.SurfaceType, resolve NameResolver) string {
	d := "("
	for _, p := range params {
		d += Descriptor(p, resolve)
	}
	d += ")" + Descriptor(ret, resolve)
	return d
}

// DottedJavaType renders a surface type as the dotted Java type name the
// method resolver classifies argument types against — "int",
// "java.lang.String", "java.lang.Object", never a JVM descriptor.
func DottedJavaType(t *ast.SurfaceType, resolve NameResolver) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case ast.STPrimitive:
		switch t.Primitive {
		case ast.PrimInt:
			return "int"
		case ast.PrimLong:
			return "long"
		case ast.PrimFloat, ast.PrimDouble:
			return "double"
		case ast.PrimBool:
			return "boolean"
		case ast.PrimString:
			return "java.lang.String"
		case ast.PrimVoid:
			return "void"
		default:
			return "java.lang.Object"
		}
	case ast.STArray:
		return DottedJavaType(t.ArrayElem, resolve) + "[]"
	case ast.STOptional:
		return DottedJavaType(t.OptionalInner, resolve)
	case ast.STNamed:
		internal := t.Name
		if resolve != nil {
			internal = resolve(t.Name)
		}
		return strings.ReplaceAll(internal, "/", ".")
	case ast.STGeneric:
		return DottedJavaType(t.GenericBase, resolve)
	default:
		return "java.lang.Object"
	}
}

// FromJavaType maps a dotted Java type name (as found in a ReflectedMethod's
// Params/Return) to its VarType category — the inverse direction of
// DottedJavaType, used once the method resolver has picked a candidate and
// its parameter types must drive box/unbox/widen conversions at the call
// site.
func FromJavaType(t string) VarType {
	switch t {
	case "int":
		return INT
	case "long":
		return LONG
	case "float", "double":
		return DOUBLE
	case "boolean":
		return BOOLEAN
	case "java.lang.String":
		return STRING
	default:
		return OBJECT
	}
}

// IsFloatCategory / IsStringCategory classify a category for picking the
// arithmetic/concat opcode family.
func IsFloatCategory(v VarType) bool  { return v == FLOAT || v == DOUBLE }
func IsStringCategory(v VarType) bool { return v == STRING }
func IsWideCategory(v VarType) bool   { return v == LONG || v == DOUBLE || v == FLOAT }
