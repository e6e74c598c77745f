package classfile

import (
	"encoding/binary"
	"testing"
)

func TestClassWriterMagicAndVersion(t *testing.T) {
	cw := NewClassWriter("app/Point", "java/lang/Object", AccPublic|AccSuper)
	out := cw.Bytes()

	if binary.BigEndian.Uint32(out[0:4]) != 0xCAFEBABE {
		t.Fatal("expected CAFEBABE magic")
	}
	if binary.BigEndian.Uint16(out[6:8]) != ClassFileMajorVersion {
		t.Errorf("expected major version %d, got %d", ClassFileMajorVersion, binary.BigEndian.Uint16(out[6:8]))
	}
}

func TestClassWriterFieldAndMethodCounts(t *testing.T) {
	cw := NewClassWriter("app/Point", "java/lang/Object", AccPublic|AccSuper)
	cw.AddField(FieldSpec{Access: AccPrivate | AccFinal, Name: "x", Descriptor: "I"})
	cw.AddField(FieldSpec{Access: AccPrivate | AccFinal, Name: "y", Descriptor: "I"})

	c := NewCodeBuilder()
	c.EmitReturn(OpReturn, 0)
	code := CodeAttribute(cw.Pool, c.MaxStack(), c.MaxLocals(), c.Code(), nil, nil)
	cw.AddMethod(MethodSpec{Access: AccPublic, Name: "<init>", Descriptor: "()V", Attrs: []Attribute{code}})

	out := cw.Bytes()
	if len(out) == 0 {
		t.Fatal("expected non-empty class file bytes")
	}
}
