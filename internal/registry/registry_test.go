package registry

import (
	"testing"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

func noResolve(s string) string { return "app/" + s }

func TestPreRegisterEmptyUnit(t *testing.T) {
	unit := &ast.CompilationUnit{Module: "app"}
	r := New(noResolve, "app")
	r.PreRegister(unit)
	if len(r.Structs) != 0 || len(r.ADTs) != 0 || len(r.Functions) != 0 {
		t.Fatalf("expected empty registry from an empty unit")
	}
}

func TestLookupMissing(t *testing.T) {
	r := New(noResolve, "app")
	if _, ok := r.LookupStruct("Nope"); ok {
		t.Fatal("expected LookupStruct miss")
	}
	if _, ok := r.LookupFunction("", "nope"); ok {
		t.Fatal("expected LookupFunction miss")
	}
}

func TestFunctionSigOwner(t *testing.T) {
	workDecl := &ast.FunctionDecl{Return: ast.IntType}
	workDecl.DeclName = "work"
	runDecl := &ast.FunctionDecl{Return: ast.IntType}
	runDecl.DeclName = "run"
	mainDecl := &ast.ClassDecl{Methods: []*ast.FunctionDecl{runDecl}}
	mainDecl.DeclName = "Main"

	unit := &ast.CompilationUnit{
		Module: "app",
		Decls:  []ast.Decl{workDecl, mainDecl},
	}
	r := New(noResolve, "app")
	r.PreRegister(unit)

	top, ok := r.LookupFunction("", "work")
	if !ok {
		t.Fatal("expected top-level function work to be registered")
	}
	if top.Owner != "app" {
		t.Errorf("top-level function Owner = %q, want %q (the module class)", top.Owner, "app")
	}

	method, ok := r.LookupFunction("Main", "run")
	if !ok {
		t.Fatal("expected method run to be registered")
	}
	if method.Owner != "Main" {
		t.Errorf("method Owner = %q, want %q (the enclosing class)", method.Owner, "Main")
	}
}

func TestLookupException(t *testing.T) {
	errDecl := &ast.ExceptionDecl{}
	errDecl.DeclName = "MyError"

	unit := &ast.CompilationUnit{Module: "app", Decls: []ast.Decl{errDecl}}
	r := New(noResolve, "app")
	r.PreRegister(unit)

	internal, ok := r.LookupException("MyError")
	if !ok || internal != "MyError" {
		t.Fatalf("LookupException(MyError) = %q, %v", internal, ok)
	}
	if _, ok := r.LookupException("Nope"); ok {
		t.Fatal("expected LookupException miss")
	}
}

func TestJoinInternal(t *testing.T) {
	if got := joinInternal("", "Foo"); got != "Foo" {
		t.Errorf("joinInternal(\"\", Foo) = %q", got)
	}
	if got := joinInternal("Outer", "Inner"); got != "Outer$Inner" {
		t.Errorf("joinInternal(Outer, Inner) = %q", got)
	}
}
