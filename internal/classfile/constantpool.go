// Package classfile writes real JVM class file version 52 (Java 8)
// binaries: the constant pool, class/field/method structures, the Code
// attribute (with jump patching; no StackMapTable is written), and a disassembler
// for golden-file testing.
//
// The on-disk format is big-endian and length-prefixed with a flat
// constant pool addressed by back-reference index, matching the binary
// layout the JVM spec itself defines; it is built with a staged encoder
// over `encoding/binary`+`bytes.Buffer` rather than hand-rolled byte
// shuffling.
package classfile

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Constant pool tag bytes (JVM spec §4.4).
const (
	tagUtf8              = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagInvokeDynamic      = 18
)

// MethodHandle reference kinds (JVM spec §5.4.3.5), only the one this
// back end ever emits: invokestatic, used for every LambdaMetafactory
// bootstrap.
const RefInvokeStatic = 6

// ConstantPool accumulates class-file constant-pool entries and
// deduplicates by value, mirroring javac's own pool builder: re-adding an
// identical UTF8/Class/NameAndType/ref entry returns the existing index
// rather than growing the pool.
type ConstantPool struct {
	entries []poolEntry
	utf8    map[string]uint16
	class   map[string]uint16
	nat     map[[2]string]uint16
	fieldr  map[[3]string]uint16
	methodr map[[3]string]uint16
	imethr  map[[3]string]uint16
	strs    map[string]uint16
	ints    map[int32]uint16
	longs   map[int64]uint16
	doubles map[float64]uint16
}

type poolEntry struct {
	tag  byte
	wide bool // Long/Double occupy two pool slots (JVM spec §4.4.5)
	data []byte
}

// NewConstantPool returns an empty pool. Index 0 is reserved by the JVM
// spec and is never assigned; the first real entry is index 1.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		utf8:    make(map[string]uint16),
		class:   make(map[string]uint16),
		nat:     make(map[[2]string]uint16),
		fieldr:  make(map[[3]string]uint16),
		methodr: make(map[[3]string]uint16),
		imethr:  make(map[[3]string]uint16),
		strs:    make(map[string]uint16),
		ints:    make(map[int32]uint16),
		longs:   make(map[int64]uint16),
		doubles: make(map[float64]uint16),
	}
}

func (p *ConstantPool) add(tag byte, wide bool, data []byte) uint16 {
	p.entries = append(p.entries, poolEntry{tag: tag, wide: wide, data: data})
	idx := uint16(len(p.entries))
	if wide {
		// A Long/Double entry occupies its own index plus a skipped
		// following index (JVM spec §4.4.5); push a placeholder so
		// subsequent indices stay correct.
		p.entries = append(p.entries, poolEntry{})
	}
	return idx
}

// Utf8 interns a UTF8 constant and returns its pool index.
func (p *ConstantPool) Utf8(s string) uint16 {
	if idx, ok := p.utf8[s]; ok {
		return idx
	}
	data := make([]byte, 2+len(s))
	binary.BigEndian.PutUint16(data, uint16(len(s)))
	copy(data[2:], s)
	idx := p.add(tagUtf8, false, data)
	p.utf8[s] = idx
	return idx
}

// Class interns a CONSTANT_Class_info for an internal (slash-separated)
// class name and returns its pool index.
func (p *ConstantPool) Class(internalName string) uint16 {
	if idx, ok := p.class[internalName]; ok {
		return idx
	}
	nameIdx := p.Utf8(internalName)
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, nameIdx)
	idx := p.add(tagClass, false, buf)
	p.class[internalName] = idx
	return idx
}

// NameAndType interns a CONSTANT_NameAndType_info.
func (p *ConstantPool) NameAndType(name, descriptor string) uint16 {
	key := [2]string{name, descriptor}
	if idx, ok := p.nat[key]; ok {
		return idx
	}
	nameIdx, descIdx := p.Utf8(name), p.Utf8(descriptor)
	buf := make([]byte, 4)
	binary.BigEndian.PutUint16(buf[0:2], nameIdx)
	binary.BigEndian.PutUint16(buf[2:4], descIdx)
	idx := p.add(tagNameAndType, false, buf)
	p.nat[key] = idx
	return idx
}

func (p *ConstantPool) ref(tag byte, cache map[[3]string]uint16, owner, name, descriptor string) uint16 {
	key := [3]string{owner, name, descriptor}
	if idx, ok := cache[key]; ok {
		return idx
	}
	classIdx := p.Class(owner)
	natIdx := p.NameAndType(name, descriptor)
	buf := make([]byte, 4)
	binary.BigEndian.PutUint16(buf[0:2], classIdx)
	binary.BigEndian.PutUint16(buf[2:4], natIdx)
	idx := p.add(tag, false, buf)
	cache[key] = idx
	return idx
}

// Fieldref, Methodref, InterfaceMethodref intern CONSTANT_*ref_info
// entries keyed by (owner internal name, member name, descriptor).
func (p *ConstantPool) Fieldref(owner, name, descriptor string) uint16 {
	return p.ref(tagFieldref, p.fieldr, owner, name, descriptor)
}
func (p *ConstantPool) Methodref(owner, name, descriptor string) uint16 {
	return p.ref(tagMethodref, p.methodr, owner, name, descriptor)
}
func (p *ConstantPool) InterfaceMethodref(owner, name, descriptor string) uint16 {
	return p.ref(tagInterfaceMethodref, p.imethr, owner, name, descriptor)
}

// String interns a CONSTANT_String_info, used by LDC for string literals.
func (p *ConstantPool) String(s string) uint16 {
	if idx, ok := p.strs[s]; ok {
		return idx
	}
	utfIdx := p.Utf8(s)
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, utfIdx)
	idx := p.add(tagString, false, buf)
	p.strs[s] = idx
	return idx
}

// Integer interns a CONSTANT_Integer_info, used by LDC for int literals
// too wide for ICONST/BIPUSH/SIPUSH.
func (p *ConstantPool) Integer(v int32) uint16 {
	if idx, ok := p.ints[v]; ok {
		return idx
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(v))
	idx := p.add(tagInteger, false, buf)
	p.ints[v] = idx
	return idx
}

// Long interns a CONSTANT_Long_info (wide: consumes two pool indices).
func (p *ConstantPool) Long(v int64) uint16 {
	if idx, ok := p.longs[v]; ok {
		return idx
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	idx := p.add(tagLong, true, buf)
	p.longs[v] = idx
	return idx
}

// Double interns a CONSTANT_Double_info (wide: consumes two pool
// indices). Firefly's Float maps to JVM double, so this is the sole
// floating-point literal constant kind this back end emits.
func (p *ConstantPool) Double(v float64) uint16 {
	if idx, ok := p.doubles[v]; ok {
		return idx
	}
	bits := doubleBits(v)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, bits)
	idx := p.add(tagDouble, true, buf)
	p.doubles[v] = idx
	return idx
}

// MethodType interns a CONSTANT_MethodType_info, used by invokedynamic
// bootstrap arguments.
func (p *ConstantPool) MethodType(descriptor string) uint16 {
	descIdx := p.Utf8(descriptor)
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, descIdx)
	return p.add(tagMethodType, false, buf)
}

// MethodHandle interns a CONSTANT_MethodHandle_info referencing a static
// method (the only kind LambdaMetafactory bootstrapping needs here).
func (p *ConstantPool) MethodHandle(owner, name, descriptor string) uint16 {
	methodrefIdx := p.Methodref(owner, name, descriptor)
	buf := make([]byte, 3)
	buf[0] = RefInvokeStatic
	binary.BigEndian.PutUint16(buf[1:3], methodrefIdx)
	return p.add(tagMethodHandle, false, buf)
}

// InvokeDynamic interns a CONSTANT_InvokeDynamic_info referencing a
// bootstrap method table entry by index.
func (p *ConstantPool) InvokeDynamic(bootstrapMethodIndex uint16, name, descriptor string) uint16 {
	natIdx := p.NameAndType(name, descriptor)
	buf := make([]byte, 4)
	binary.BigEndian.PutUint16(buf[0:2], bootstrapMethodIndex)
	binary.BigEndian.PutUint16(buf[2:4], natIdx)
	return p.add(tagInvokeDynamic, false, buf)
}

// Write serializes the pool in class-file order: a uint16 count (entries
// + 1, per JVM spec) followed by each tag+data in index order, skipping
// the placeholder slot that follows every wide entry.
func (p *ConstantPool) Write(w *bytes.Buffer) {
	_ = binary.Write(w, binary.BigEndian, uint16(len(p.entries)+1))
	for i := 0; i < len(p.entries); i++ {
		e := p.entries[i]
		if e.tag == 0 {
			continue // the placeholder slot following a wide entry
		}
		w.WriteByte(e.tag)
		w.Write(e.data)
	}
}

func doubleBits(f float64) uint64 {
	return math.Float64bits(f)
}
