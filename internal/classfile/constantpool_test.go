package classfile

import "testing"

func TestConstantPoolDeduplicates(t *testing.T) {
	p := NewConstantPool()
	a := p.Utf8("java/lang/Object")
	b := p.Utf8("java/lang/Object")
	if a != b {
		t.Errorf("expected Utf8 dedup, got %d and %d", a, b)
	}
}

func TestConstantPoolClassUsesUtf8(t *testing.T) {
	p := NewConstantPool()
	idx := p.Class("java/lang/String")
	if idx == 0 {
		t.Fatal("expected non-zero class index")
	}
	if len(p.entries) < 2 {
		t.Fatalf("expected at least a Utf8 + Class entry, got %d", len(p.entries))
	}
}

func TestConstantPoolWideEntrySkipsSlot(t *testing.T) {
	p := NewConstantPool()
	p.Utf8("before")
	longIdx := p.Long(42)
	after := p.Utf8("after")
	if after != longIdx+2 {
		t.Errorf("expected wide Long entry to consume two slots, got longIdx=%d after=%d", longIdx, after)
	}
}

func TestConstantPoolMethodrefDedup(t *testing.T) {
	p := NewConstantPool()
	a := p.Methodref("java/lang/Math", "abs", "(I)I")
	b := p.Methodref("java/lang/Math", "abs", "(I)I")
	if a != b {
		t.Errorf("expected Methodref dedup")
	}
}
