package classpath

import "testing"

func TestResolveClassNameWellKnown(t *testing.T) {
	idx := Load()
	r := NewResolver(idx, "", nil, nil)

	fqn, ok := r.ResolveClassName("ArrayList")
	if !ok || fqn != "java.util.ArrayList" {
		t.Fatalf("ResolveClassName(ArrayList) = %q, %v", fqn, ok)
	}
}

func TestResolveClassNameExplicitImportWins(t *testing.T) {
	idx := Load()
	r := NewResolver(idx, "", []string{"com.example.Widget"}, nil)

	fqn, ok := r.ResolveClassName("Widget")
	if !ok || fqn != "com.example.Widget" {
		t.Fatalf("ResolveClassName(Widget) = %q, %v", fqn, ok)
	}
}

func TestResolveClassNameCurrentPackage(t *testing.T) {
	idx := Load()
	r := NewResolver(idx, "java.util", nil, nil)

	fqn, ok := r.ResolveClassName("HashMap")
	if !ok || fqn != "java.util.HashMap" {
		t.Fatalf("ResolveClassName(HashMap) = %q, %v", fqn, ok)
	}
}

func TestResolveClassNameDottedHeuristic(t *testing.T) {
	idx := Load()
	r := NewResolver(idx, "", nil, nil)

	fqn, ok := r.ResolveClassName("org.example.Unknown")
	if !ok || fqn != "org.example.Unknown" {
		t.Fatalf("ResolveClassName(org.example.Unknown) = %q, %v", fqn, ok)
	}
}

func TestResolveClassNameNotFound(t *testing.T) {
	idx := Load()
	r := NewResolver(idx, "", nil, nil)

	if _, ok := r.ResolveClassName("Zorblax"); ok {
		t.Fatalf("expected Zorblax to be unresolved")
	}
}

func TestResolveClassNameCaches(t *testing.T) {
	idx := Load()
	r := NewResolver(idx, "", nil, nil)

	r.ResolveClassName("String")
	if _, ok := r.cache["String"]; !ok {
		t.Fatalf("expected cache entry for String")
	}
}

func TestStdlibHints(t *testing.T) {
	idx := Load()
	r := NewResolver(idx, "", nil, nil)

	fqn, ok := r.ResolveClassName("Future")
	if !ok || fqn != "com.firefly.runtime.async.Future" {
		t.Fatalf("ResolveClassName(Future) = %q, %v", fqn, ok)
	}
}
