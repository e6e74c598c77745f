package classpath

import "testing"

func TestInternalToDotted(t *testing.T) {
	if got := InternalToDotted("java/util/ArrayList"); got != "java.util.ArrayList" {
		t.Errorf("InternalToDotted(java/util/ArrayList) = %q", got)
	}
	if got := InternalToDotted("Main"); got != "Main" {
		t.Errorf("InternalToDotted(Main) = %q", got)
	}
}

func TestDottedToInternalRoundTrip(t *testing.T) {
	dotted := "java.lang.String"
	if got := InternalToDotted(DottedToInternal(dotted)); got != dotted {
		t.Errorf("round trip = %q, want %q", got, dotted)
	}
}

func TestJavaTypeDescriptor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"void", "V"},
		{"int", "I"},
		{"long", "J"},
		{"double", "D"},
		{"float", "F"},
		{"boolean", "Z"},
		{"byte", "B"},
		{"short", "S"},
		{"char", "C"},
		{"java.lang.String", "Ljava/lang/String;"},
		{"java.lang.Object", "Ljava/lang/Object;"},
		{"int[]", "[I"},
		{"java.lang.String[]", "[Ljava/lang/String;"},
	}
	for _, tt := range tests {
		if got := JavaTypeDescriptor(tt.in); got != tt.want {
			t.Errorf("JavaTypeDescriptor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReflectedMethodDescriptor(t *testing.T) {
	m := ReflectedMethod{
		Params: []string{"int", "java.lang.String"},
		Return: "boolean",
	}
	want := "(ILjava/lang/String;)Z"
	if got := m.Descriptor(); got != want {
		t.Errorf("Descriptor() = %q, want %q", got, want)
	}
}

func TestReflectedMethodDescriptorNoArgs(t *testing.T) {
	m := ReflectedMethod{Return: "void"}
	if got := m.Descriptor(); got != "()V" {
		t.Errorf("Descriptor() = %q, want ()V", got)
	}
}
