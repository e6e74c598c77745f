package classfile

import "testing"

func TestReadClassBadMagic(t *testing.T) {
	if _, err := ReadClass([]byte{0, 1, 2, 3}); err == nil {
		t.Fatal("expected an error for bad magic")
	}
}

func TestReadClassTruncated(t *testing.T) {
	cw := NewClassWriter("app/Point", "java/lang/Object", AccPublic|AccSuper)
	data := cw.Bytes()
	if _, err := ReadClass(data[:len(data)-2]); err == nil {
		t.Fatal("expected an error for a truncated class file")
	}
}

func TestReadClassRoundTripThisSuper(t *testing.T) {
	cw := NewClassWriter("app/Point", "java/lang/Object", AccPublic|AccSuper)
	dump, err := ReadClass(cw.Bytes())
	if err != nil {
		t.Fatalf("ReadClass: %v", err)
	}
	if dump.ThisClass != "app/Point" {
		t.Errorf("ThisClass = %q, want app/Point", dump.ThisClass)
	}
	if dump.SuperClass != "java/lang/Object" {
		t.Errorf("SuperClass = %q, want java/lang/Object", dump.SuperClass)
	}
}

func TestReadClassFieldsAndMethods(t *testing.T) {
	cw := NewClassWriter("app/Point", "java/lang/Object", AccPublic|AccSuper)
	cw.AddField(FieldSpec{Access: AccPrivate | AccFinal, Name: "x", Descriptor: "I"})
	cw.AddField(FieldSpec{Access: AccPrivate | AccFinal, Name: "y", Descriptor: "I"})

	c := NewCodeBuilder()
	c.EmitReturn(OpReturn, 0)
	code := CodeAttribute(cw.Pool, c.MaxStack(), c.MaxLocals(), c.Code(), nil, nil)
	cw.AddMethod(MethodSpec{Access: AccPublic, Name: "<init>", Descriptor: "()V", Attrs: []Attribute{code}})

	dump, err := ReadClass(cw.Bytes())
	if err != nil {
		t.Fatalf("ReadClass: %v", err)
	}

	if len(dump.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(dump.Fields))
	}
	if dump.Fields[0].Name != "x" || dump.Fields[0].Descriptor != "I" {
		t.Errorf("Fields[0] = %+v", dump.Fields[0])
	}
	if dump.Fields[1].Name != "y" || dump.Fields[1].Descriptor != "I" {
		t.Errorf("Fields[1] = %+v", dump.Fields[1])
	}

	if len(dump.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(dump.Methods))
	}
	m := dump.Methods[0]
	if m.Name != "<init>" || m.Descriptor != "()V" {
		t.Errorf("Methods[0] name/descriptor = %q %q", m.Name, m.Descriptor)
	}
	if m.Access != AccPublic {
		t.Errorf("Methods[0].Access = %#x, want %#x", m.Access, AccPublic)
	}
	if len(m.Code) == 0 {
		t.Fatal("expected a non-empty Code attribute")
	}
	if Op(m.Code[0]) != OpReturn {
		t.Errorf("Code[0] = %#x, want OpReturn %#x", m.Code[0], OpReturn)
	}
}

func TestReadClassAbstractMethodHasNoCode(t *testing.T) {
	cw := NewClassWriter("app/Shape", "java/lang/Object", AccPublic|AccSuper|AccAbstract)
	cw.AddMethod(MethodSpec{Access: AccPublic | AccAbstract, Name: "area", Descriptor: "()D"})

	dump, err := ReadClass(cw.Bytes())
	if err != nil {
		t.Fatalf("ReadClass: %v", err)
	}
	if len(dump.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(dump.Methods))
	}
	if dump.Methods[0].Code != nil {
		t.Errorf("expected nil Code for an abstract method, got %v", dump.Methods[0].Code)
	}
}

// ClassDump carries no interface list, so this checks that a class
// implementing an interface still reads back with the right name.
func TestReadClassInterfaces(t *testing.T) {
	cw := NewClassWriter("app/Main", "java/lang/Object", AccPublic|AccSuper)
	cw.AddInterface("java/lang/Runnable")

	dump, err := ReadClass(cw.Bytes())
	if err != nil {
		t.Fatalf("ReadClass: %v", err)
	}
	if dump.ThisClass != "app/Main" {
		t.Errorf("ThisClass = %q, want app/Main", dump.ThisClass)
	}
}
