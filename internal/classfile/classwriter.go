package classfile

import (
	"bytes"
	"encoding/binary"
)

// Access flags (JVM spec §4.1 Table 4.1-A and per-member tables).
const (
	AccPublic     = 0x0001
	AccPrivate    = 0x0002
	AccProtected  = 0x0004
	AccStatic     = 0x0008
	AccFinal      = 0x0010
	AccSuper      = 0x0020
	AccInterface  = 0x0200
	AccAbstract   = 0x0400
)

// ClassFileMajorVersion is 52 (Java 8), the version targeted throughout.
const ClassFileMajorVersion = 52

// FieldSpec describes one field_info entry before serialization.
type FieldSpec struct {
	Access     int
	Name       string
	Descriptor string
	Attrs      []Attribute
}

// MethodSpec describes one method_info entry before serialization.
type MethodSpec struct {
	Access     int
	Name       string
	Descriptor string
	Attrs      []Attribute
}

// ClassWriter builds one class file's worth of structure: this/super,
// interfaces, fields, methods, and the constant pool they all share.
// Every declaration that needs to write a class opens one ClassWriter.
type ClassWriter struct {
	Pool *ConstantPool

	access     int
	thisClass  string
	superClass string
	interfaces []string
	fields     []FieldSpec
	methods    []MethodSpec
	attrs      []Attribute

	bootstrapMethods []BootstrapMethod
}

// NewClassWriter starts a class file for internalName, extending
// superInternalName (use "java/lang/Object" for none) with the given
// access flags.
func NewClassWriter(internalName, superInternalName string, access int) *ClassWriter {
	pool := NewConstantPool()
	return &ClassWriter{
		Pool:       pool,
		access:     access,
		thisClass:  internalName,
		superClass: superInternalName,
	}
}

// AddInterface records an implemented interface's internal name.
func (cw *ClassWriter) AddInterface(internalName string) {
	cw.interfaces = append(cw.interfaces, internalName)
}

// AddField appends one field_info.
func (cw *ClassWriter) AddField(f FieldSpec) {
	cw.fields = append(cw.fields, f)
}

// AddMethod appends one method_info.
func (cw *ClassWriter) AddMethod(m MethodSpec) {
	cw.methods = append(cw.methods, m)
}

// AddAttribute appends a class-level attribute (e.g. RuntimeVisibleAnnotations).
func (cw *ClassWriter) AddAttribute(a Attribute) {
	cw.attrs = append(cw.attrs, a)
}

// AddBootstrapMethod registers one BootstrapMethods entry (used by every
// invokedynamic call site this class emits) and returns its index within
// this class's bootstrap method table.
func (cw *ClassWriter) AddBootstrapMethod(bm BootstrapMethod) uint16 {
	cw.bootstrapMethods = append(cw.bootstrapMethods, bm)
	return uint16(len(cw.bootstrapMethods) - 1)
}

// Bytes serializes the finished class file (JVM spec §4.1).
//
// u4 magic = 0xCAFEBABE
// u2 minor, major
// constant pool
// u2 access_flags
// u2 this_class, super_class
// u2 interfaces_count, interfaces[]
// fields_count, fields[]
// methods_count, methods[]
// attributes_count, attributes[]
func (cw *ClassWriter) Bytes() []byte {
	var w bytes.Buffer

	_ = binary.Write(&w, binary.BigEndian, uint32(0xCAFEBABE))
	_ = binary.Write(&w, binary.BigEndian, uint16(0))
	_ = binary.Write(&w, binary.BigEndian, uint16(ClassFileMajorVersion))

	thisIdx := cw.Pool.Class(cw.thisClass)
	superIdx := uint16(0)
	if cw.superClass != "" {
		superIdx = cw.Pool.Class(cw.superClass)
	}
	interfaceIdxs := make([]uint16, len(cw.interfaces))
	for i, iface := range cw.interfaces {
		interfaceIdxs[i] = cw.Pool.Class(iface)
	}
	// Every pool entry must exist before the pool is serialized.
	for _, f := range cw.fields {
		cw.Pool.Utf8(f.Name)
		cw.Pool.Utf8(f.Descriptor)
	}
	for _, m := range cw.methods {
		cw.Pool.Utf8(m.Name)
		cw.Pool.Utf8(m.Descriptor)
	}
	attrs := cw.attrs
	if len(cw.bootstrapMethods) > 0 {
		attrs = append(attrs, BootstrapMethodsAttribute(cw.Pool, cw.bootstrapMethods))
	}

	cw.Pool.Write(&w)

	_ = binary.Write(&w, binary.BigEndian, uint16(cw.access))
	_ = binary.Write(&w, binary.BigEndian, thisIdx)
	_ = binary.Write(&w, binary.BigEndian, superIdx)

	_ = binary.Write(&w, binary.BigEndian, uint16(len(interfaceIdxs)))
	for _, idx := range interfaceIdxs {
		_ = binary.Write(&w, binary.BigEndian, idx)
	}

	_ = binary.Write(&w, binary.BigEndian, uint16(len(cw.fields)))
	for _, f := range cw.fields {
		cw.writeMember(&w, f.Access, f.Name, f.Descriptor, f.Attrs)
	}

	_ = binary.Write(&w, binary.BigEndian, uint16(len(cw.methods)))
	for _, m := range cw.methods {
		cw.writeMember(&w, m.Access, m.Name, m.Descriptor, m.Attrs)
	}

	writeAttributes(&w, attrs)

	return w.Bytes()
}

func (cw *ClassWriter) writeMember(w *bytes.Buffer, access int, name, descriptor string, attrs []Attribute) {
	_ = binary.Write(w, binary.BigEndian, uint16(access))
	_ = binary.Write(w, binary.BigEndian, cw.Pool.Utf8(name))
	_ = binary.Write(w, binary.BigEndian, cw.Pool.Utf8(descriptor))
	writeAttributes(w, attrs)
}
