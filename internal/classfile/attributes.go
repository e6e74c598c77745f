package classfile

import (
	"bytes"
	"encoding/binary"
)

// Attribute is a generic class-file attribute: a name-index-tagged blob
// whose internal layout is attribute-specific (JVM spec §4.7).
type Attribute struct {
	NameIndex uint16
	Data      []byte
}

func (a Attribute) write(w *bytes.Buffer) {
	_ = binary.Write(w, binary.BigEndian, a.NameIndex)
	_ = binary.Write(w, binary.BigEndian, uint32(len(a.Data)))
	w.Write(a.Data)
}

func writeAttributes(w *bytes.Buffer, attrs []Attribute) {
	_ = binary.Write(w, binary.BigEndian, uint16(len(attrs)))
	for _, a := range attrs {
		a.write(w)
	}
}

// ExceptionHandler is one entry of a Code attribute's exception table,
// used for try/catch lowering.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16 // 0 for a finally's catch-all
}

// CodeAttribute assembles the JVM Code attribute body (JVM spec §4.7.3):
// max_stack, max_locals, code, exception table, and nested attributes
// (LineNumberTable, StackMapTable).
func CodeAttribute(pool *ConstantPool, maxStack, maxLocals int, code []byte, handlers []ExceptionHandler, nested []Attribute) Attribute {
	var body bytes.Buffer
	_ = binary.Write(&body, binary.BigEndian, uint16(maxStack))
	_ = binary.Write(&body, binary.BigEndian, uint16(maxLocals))
	_ = binary.Write(&body, binary.BigEndian, uint32(len(code)))
	body.Write(code)

	_ = binary.Write(&body, binary.BigEndian, uint16(len(handlers)))
	for _, h := range handlers {
		_ = binary.Write(&body, binary.BigEndian, h.StartPC)
		_ = binary.Write(&body, binary.BigEndian, h.EndPC)
		_ = binary.Write(&body, binary.BigEndian, h.HandlerPC)
		_ = binary.Write(&body, binary.BigEndian, h.CatchType)
	}

	writeAttributes(&body, nested)

	return Attribute{NameIndex: pool.Utf8("Code"), Data: body.Bytes()}
}

// LineNumberTableAttribute encodes the (offset, line) pairs a CodeBuilder
// recorded while emitting a method body. Only line numbers are tracked;
// there is no column or local-variable debug info attribute.
func LineNumberTableAttribute(pool *ConstantPool, lines []lineEntry) Attribute {
	var body bytes.Buffer
	_ = binary.Write(&body, binary.BigEndian, uint16(len(lines)))
	for _, l := range lines {
		_ = binary.Write(&body, binary.BigEndian, uint16(l.offset))
		_ = binary.Write(&body, binary.BigEndian, uint16(l.line))
	}
	return Attribute{NameIndex: pool.Utf8("LineNumberTable"), Data: body.Bytes()}
}

// VerificationType tags a StackMapTable frame's locals/stack entries
// (JVM spec §4.7.4 Table 4.7.4-A), restricted to the tags this back end's
// VarType categories ever need.
type VerificationType struct {
	Tag   byte
	Class uint16 // only meaningful for Tag == VTObject
}

const (
	VTTop     = 0
	VTInteger = 1
	VTFloat   = 2
	VTDouble  = 3
	VTLong    = 4
	VTNull    = 5
	VTObject  = 7
)

func (v VerificationType) write(w *bytes.Buffer) {
	w.WriteByte(v.Tag)
	if v.Tag == VTObject {
		_ = binary.Write(w, binary.BigEndian, v.Class)
	}
}

// StackMapFrame is a full_frame entry: StackMapTableAttribute writes
// every frame as full_frame (tag 255) rather than the compressed
// same_frame/chop/append forms. Nothing in this module builds frames or
// calls StackMapTableAttribute: CodeBuilder does not track local or
// stack types, and the classes ClassWriter produces carry no
// StackMapTable.
type StackMapFrame struct {
	OffsetDelta int
	Locals      []VerificationType
	Stack       []VerificationType
}

// StackMapTableAttribute assembles the verifier frame table the JVM
// requires for class file version 50+ from frames the caller supplies.
// Every frame is written as a full_frame (tag 255); the compact
// delta-encoded frame kinds are not produced.
func StackMapTableAttribute(pool *ConstantPool, frames []StackMapFrame) Attribute {
	var body bytes.Buffer
	_ = binary.Write(&body, binary.BigEndian, uint16(len(frames)))
	for _, f := range frames {
		body.WriteByte(255) // full_frame tag
		_ = binary.Write(&body, binary.BigEndian, uint16(f.OffsetDelta))
		_ = binary.Write(&body, binary.BigEndian, uint16(len(f.Locals)))
		for _, l := range f.Locals {
			l.write(&body)
		}
		_ = binary.Write(&body, binary.BigEndian, uint16(len(f.Stack)))
		for _, s := range f.Stack {
			s.write(&body)
		}
	}
	return Attribute{NameIndex: pool.Utf8("StackMapTable"), Data: body.Bytes()}
}

// BootstrapMethod is one entry of a class's BootstrapMethods attribute
// (JVM spec §4.7.23), referenced by an invokedynamic instruction's
// constant-pool index.
type BootstrapMethod struct {
	MethodHandleIndex uint16
	Arguments         []uint16
}

// BootstrapMethodsAttribute assembles the class-level attribute every
// class using invokedynamic must carry.
func BootstrapMethodsAttribute(pool *ConstantPool, methods []BootstrapMethod) Attribute {
	var body bytes.Buffer
	_ = binary.Write(&body, binary.BigEndian, uint16(len(methods)))
	for _, bm := range methods {
		_ = binary.Write(&body, binary.BigEndian, bm.MethodHandleIndex)
		_ = binary.Write(&body, binary.BigEndian, uint16(len(bm.Arguments)))
		for _, a := range bm.Arguments {
			_ = binary.Write(&body, binary.BigEndian, a)
		}
	}
	return Attribute{NameIndex: pool.Utf8("BootstrapMethods"), Data: body.Bytes()}
}

// AnnotationElementValue is one element of a runtime-visible annotation.
// Tag follows JVM spec §4.7.16.1 element_value; the scalar tags below
// and the '[' array tag are supported. write encodes exactly the tag it
// is given: a scalar value is never wrapped in an array here.
type AnnotationElementValue struct {
	Tag      byte // 's' string, 'I' int, 'Z' bool, 'D' double, '[' array
	Str      uint16
	Int      int32
	Bool     bool
	Double   float64
	Elements []AnnotationElementValue // for Tag == '['
}

func (v AnnotationElementValue) write(pool *ConstantPool, w *bytes.Buffer) {
	w.WriteByte(v.Tag)
	switch v.Tag {
	case 's':
		_ = binary.Write(w, binary.BigEndian, v.Str)
	case 'I':
		idx := pool.Integer(v.Int)
		_ = binary.Write(w, binary.BigEndian, idx)
	case 'Z':
		b := int32(0)
		if v.Bool {
			b = 1
		}
		idx := pool.Integer(b)
		_ = binary.Write(w, binary.BigEndian, idx)
	case 'D':
		idx := pool.Double(v.Double)
		_ = binary.Write(w, binary.BigEndian, idx)
	case '[':
		_ = binary.Write(w, binary.BigEndian, uint16(len(v.Elements)))
		for _, e := range v.Elements {
			e.write(pool, w)
		}
	}
}

// AnnotationElement is one (name, value) pair of an annotation.
type AnnotationElement struct {
	Name  string
	Value AnnotationElementValue
}

// RuntimeAnnotation is one `@Foo(bar: 1)`-shaped annotation instance.
type RuntimeAnnotation struct {
	TypeDescriptor string
	Elements       []AnnotationElement
}

// RuntimeVisibleAnnotationsAttribute emits the class-file encoding for a
// declaration's annotations.
func RuntimeVisibleAnnotationsAttribute(pool *ConstantPool, annotations []RuntimeAnnotation) Attribute {
	var body bytes.Buffer
	_ = binary.Write(&body, binary.BigEndian, uint16(len(annotations)))
	for _, a := range annotations {
		typeIdx := pool.Utf8(a.TypeDescriptor)
		_ = binary.Write(&body, binary.BigEndian, typeIdx)
		_ = binary.Write(&body, binary.BigEndian, uint16(len(a.Elements)))
		for _, e := range a.Elements {
			nameIdx := pool.Utf8(e.Name)
			_ = binary.Write(&body, binary.BigEndian, nameIdx)
			e.Value.write(pool, &body)
		}
	}
	return Attribute{NameIndex: pool.Utf8("RuntimeVisibleAnnotations"), Data: body.Bytes()}
}
