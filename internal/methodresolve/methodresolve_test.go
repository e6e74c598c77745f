package methodresolve

import (
	"testing"

	"github.com/firefly-oss/firefly-lang-sub000/internal/classpath"
)

func TestResolveIdentity(t *testing.T) {
	idx := classpath.Load()
	cand, ok := Resolve(idx, "java.lang.Math", "abs", true, []string{"int"})
	if !ok {
		t.Fatal("expected Math.abs(int) to resolve")
	}
	if cand.Conversions[0] != Identity {
		t.Errorf("expected identity conversion, got %v", cand.Conversions[0])
	}
}

func TestResolveOverloadByArgType(t *testing.T) {
	idx := classpath.Load()
	cand, ok := Resolve(idx, "java.lang.Math", "abs", true, []string{"double"})
	if !ok {
		t.Fatal("expected Math.abs(double) to resolve")
	}
	if cand.Method.Return != "double" {
		t.Errorf("expected double-returning abs, got %q", cand.Method.Return)
	}
}

func TestResolveWidening(t *testing.T) {
	idx := classpath.Load()
	// StringBuilder.append(long) should be reachable by widening an int arg
	// only if no exact int overload existed; here it exists, so exercise
	// widening against Math.pow(double,double) with one int argument.
	cand, ok := Resolve(idx, "java.lang.Math", "pow", true, []string{"int", "double"})
	if !ok {
		t.Fatal("expected Math.pow(int, double) to resolve via widening")
	}
	if cand.Conversions[0] != WideningPrimitive {
		t.Errorf("expected widening-primitive conversion, got %v", cand.Conversions[0])
	}
}

func TestResolveNoApplicableMethod(t *testing.T) {
	idx := classpath.Load()
	if _, ok := Resolve(idx, "java.lang.Math", "frobnicate", true, nil); ok {
		t.Fatal("expected no applicable method")
	}
}

func TestResolveVarargs(t *testing.T) {
	idx := classpath.Load()
	cand, ok := Resolve(idx, "java.util.Objects", "hash", true, []string{"int", "int"})
	if !ok {
		t.Fatal("expected Objects.hash(Object...) to resolve via varargs boxing")
	}
	if !cand.IsVarargs {
		t.Errorf("expected varargs match")
	}
}
