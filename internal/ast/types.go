package ast

import "strings"

// PrimitiveKind enumerates Firefly's built-in scalar types.
type PrimitiveKind int

const (
	PrimInt PrimitiveKind = iota
	PrimLong
	PrimFloat // source Float, maps to JVM double (no single-precision surface type)
	PrimDouble
	PrimBool
	PrimString
	PrimVoid
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimInt:
		return "Int"
	case PrimLong:
		return "Long"
	case PrimFloat:
		return "Float"
	case PrimDouble:
		return "Double"
	case PrimBool:
		return "Bool"
	case PrimString:
		return "String"
	default:
		return "Void"
	}
}

// SurfaceType is the closed sum type of Firefly surface-level types.
// Exactly one of the embedded fields is meaningful, selected by Kind.
type SurfaceType struct {
	Kind SurfaceTypeKind

	Primitive PrimitiveKind // Kind == STPrimitive

	Name string // Kind == STNamed: simple or dotted class name

	GenericBase *SurfaceType   // Kind == STGeneric
	GenericArgs []*SurfaceType // Kind == STGeneric

	OptionalInner *SurfaceType // Kind == STOptional

	ArrayElem *SurfaceType // Kind == STArray

	FuncParams []*SurfaceType // Kind == STFunction
	FuncReturn *SurfaceType   // Kind == STFunction

	TupleParts []*SurfaceType // Kind == STTuple

	TypeParamName   string         // Kind == STTypeParam
	TypeParamBounds []*SurfaceType // Kind == STTypeParam
}

// SurfaceTypeKind tags the SurfaceType union.
type SurfaceTypeKind int

const (
	STPrimitive SurfaceTypeKind = iota
	STNamed
	STGeneric
	STOptional
	STArray
	STFunction
	STTuple
	STTypeParam
)

func (t *SurfaceType) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case STPrimitive:
		return t.Primitive.String()
	case STNamed:
		return t.Name
	case STGeneric:
		parts := make([]string, len(t.GenericArgs))
		for i, a := range t.GenericArgs {
			parts[i] = a.String()
		}
		return t.GenericBase.String() + "<" + strings.Join(parts, ", ") + ">"
	case STOptional:
		return t.OptionalInner.String() + "?"
	case STArray:
		return "[" + t.ArrayElem.String() + "]"
	case STFunction:
		parts := make([]string, len(t.FuncParams))
		for i, p := range t.FuncParams {
			parts[i] = p.String()
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + t.FuncReturn.String()
	case STTuple:
		parts := make([]string, len(t.TupleParts))
		for i, p := range t.TupleParts {
			parts[i] = p.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case STTypeParam:
		return t.TypeParamName
	default:
		return "?"
	}
}

// Convenience constructors, one per SurfaceType variant.

func PrimitiveType(k PrimitiveKind) *SurfaceType { return &SurfaceType{Kind: STPrimitive, Primitive: k} }
func NamedType(name string) *SurfaceType         { return &SurfaceType{Kind: STNamed, Name: name} }
func OptionalType(inner *SurfaceType) *SurfaceType {
	return &SurfaceType{Kind: STOptional, OptionalInner: inner}
}
func ArrayType(elem *SurfaceType) *SurfaceType { return &SurfaceType{Kind: STArray, ArrayElem: elem} }
func GenericType(base *SurfaceType, args ...*SurfaceType) *SurfaceType {
	return &SurfaceType{Kind: STGeneric, GenericBase: base, GenericArgs: args}
}
func TupleType(parts ...*SurfaceType) *SurfaceType { return &SurfaceType{Kind: STTuple, TupleParts: parts} }
func FuncType(ret *SurfaceType, params ...*SurfaceType) *SurfaceType {
	return &SurfaceType{Kind: STFunction, FuncParams: params, FuncReturn: ret}
}
func TypeParamType(name string, bounds ...*SurfaceType) *SurfaceType {
	return &SurfaceType{Kind: STTypeParam, TypeParamName: name, TypeParamBounds: bounds}
}

var (
	IntType    = PrimitiveType(PrimInt)
	LongType   = PrimitiveType(PrimLong)
	FloatType  = PrimitiveType(PrimFloat)
	DoubleType = PrimitiveType(PrimDouble)
	BoolType   = PrimitiveType(PrimBool)
	StringType = PrimitiveType(PrimString)
	VoidType   = PrimitiveType(PrimVoid)
)

// IsPrimitive reports whether t is a non-void primitive.
func (t *SurfaceType) IsPrimitive() bool {
	return t != nil && t.Kind == STPrimitive && t.Primitive != PrimVoid
}
