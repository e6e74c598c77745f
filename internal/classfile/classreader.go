package classfile

import (
	"encoding/binary"
	"fmt"
)

// MethodDump is one method_info entry pulled back out of a class file,
// with its Code attribute's raw instruction bytes isolated for
// Disassembler — just enough of JVM spec §4.6/§4.7.3 to drive `flyc
// disasm`, not a general-purpose class-file reader.
type MethodDump struct {
	Name       string
	Descriptor string
	Access     int
	Code       []byte // nil for abstract/native methods (no Code attribute)
}

// FieldDump is one field_info entry pulled back out of a class file.
type FieldDump struct {
	Name       string
	Descriptor string
	Access     int
}

// ClassDump is the subset of a parsed class file ReadClass exposes.
type ClassDump struct {
	ThisClass  string
	SuperClass string
	Fields     []FieldDump
	Methods    []MethodDump
}

// poolReader walks the constant pool this package itself writes
// (constantpool.go's tag set), resolving the two reference kinds a
// reader needs: UTF8 strings and Class names.
type poolReader struct {
	utf8    map[uint16]string
	classes map[uint16]uint16 // class index -> name utf8 index
}

// ReadClass parses just enough of a class file written by ClassWriter to
// recover method names, descriptors, and code bytes for disassembly.
func ReadClass(data []byte) (*ClassDump, error) {
	r := &byteReader{data: data}

	magic := r.u4()
	if magic != 0xCAFEBABE {
		return nil, fmt.Errorf("classfile: bad magic %#x", magic)
	}
	r.u2() // minor
	r.u2() // major

	pool, err := readPool(r)
	if err != nil {
		return nil, err
	}

	r.u2() // access_flags
	thisIdx := r.u2()
	superIdx := r.u2()

	ifaceCount := r.u2()
	for i := 0; i < int(ifaceCount); i++ {
		r.u2()
	}

	fieldCount := r.u2()
	fields := make([]FieldDump, 0, fieldCount)
	for i := 0; i < int(fieldCount); i++ {
		access := int(r.u2())
		nameIdx := r.u2()
		descIdx := r.u2()
		skipAttributes(r)
		fields = append(fields, FieldDump{
			Name:       pool.utf8[nameIdx],
			Descriptor: pool.utf8[descIdx],
			Access:     access,
		})
	}

	methodCount := r.u2()
	methods := make([]MethodDump, 0, methodCount)
	for i := 0; i < int(methodCount); i++ {
		access := int(r.u2())
		nameIdx := r.u2()
		descIdx := r.u2()
		attrCount := r.u2()
		var code []byte
		for j := 0; j < int(attrCount); j++ {
			attrNameIdx := r.u2()
			attrLen := r.u4()
			body := r.bytes(int(attrLen))
			if pool.utf8[attrNameIdx] == "Code" {
				code = decodeCodeAttribute(body)
			}
		}
		methods = append(methods, MethodDump{
			Name:       pool.utf8[nameIdx],
			Descriptor: pool.utf8[descIdx],
			Access:     access,
			Code:       code,
		})
	}

	skipAttributes(r) // class-level attributes

	if r.err != nil {
		return nil, r.err
	}

	return &ClassDump{
		ThisClass:  pool.className(thisIdx),
		SuperClass: pool.className(superIdx),
		Fields:     fields,
		Methods:    methods,
	}, nil
}

// decodeCodeAttribute strips a Code attribute's max_stack/max_locals
// header, exception table, and nested attributes, returning only the
// code[] instruction array (JVM spec §4.7.3).
func decodeCodeAttribute(body []byte) []byte {
	r := &byteReader{data: body}
	r.u2() // max_stack
	r.u2() // max_locals
	codeLen := r.u4()
	return r.bytes(int(codeLen))
}

func skipAttributes(r *byteReader) {
	count := r.u2()
	for i := 0; i < int(count); i++ {
		r.u2() // name index
		length := r.u4()
		r.bytes(int(length))
	}
}

func readPool(r *byteReader) (*poolReader, error) {
	count := r.u2()
	pool := &poolReader{utf8: make(map[uint16]string), classes: make(map[uint16]uint16)}

	for i := uint16(1); i < count; i++ {
		tag := r.u1()
		switch tag {
		case tagUtf8:
			length := r.u2()
			pool.utf8[i] = string(r.bytes(int(length)))
		case tagClass:
			pool.classes[i] = r.u2()
		case tagString, tagMethodType:
			r.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagInvokeDynamic:
			r.u2()
			r.u2()
		case tagInteger, tagFloat:
			r.u4()
		case tagLong, tagDouble:
			r.u4()
			r.u4()
			i++ // wide entry occupies the following index too
		case tagMethodHandle:
			r.u1()
			r.u2()
		default:
			return nil, fmt.Errorf("classfile: unknown constant pool tag %d", tag)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return pool, nil
}

func (p *poolReader) className(classIdx uint16) string {
	return p.utf8[p.classes[classIdx]]
}

// byteReader is a tiny big-endian cursor; it records the first error and
// becomes a no-op afterward so call sites don't need to check every read.
type byteReader struct {
	data []byte
	pos  int
	err  error
}

func (r *byteReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.data) {
		r.err = fmt.Errorf("classfile: truncated class file")
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *byteReader) u1() byte {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *byteReader) u2() uint16 {
	b := r.bytes(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *byteReader) u4() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}
