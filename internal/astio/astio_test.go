package astio

import (
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

func TestDecodeBytesEmptyUnit(t *testing.T) {
	unit, err := DecodeBytes([]byte(`module: app`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit.Module != "app" {
		t.Errorf("Module = %q, want %q", unit.Module, "app")
	}
	if len(unit.Decls) != 0 {
		t.Errorf("expected no decls, got %d", len(unit.Decls))
	}
}

func TestDecodeBytesNotAMapping(t *testing.T) {
	if _, err := DecodeBytes([]byte(`- 1`)); err == nil {
		t.Fatal("expected error decoding a non-mapping document")
	}
}

func TestDecodeBytesUses(t *testing.T) {
	src := `
module: app
uses:
  - path: std/io
    wildcard: true
  - path: std/collections
    alias: coll
`
	unit, err := DecodeBytes([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unit.Uses) != 2 {
		t.Fatalf("expected 2 uses, got %d", len(unit.Uses))
	}
	if unit.Uses[0].Path != "std/io" || !unit.Uses[0].Wildcard {
		t.Errorf("uses[0] = %+v", unit.Uses[0])
	}
	if unit.Uses[1].Alias != "coll" {
		t.Errorf("uses[1].Alias = %q, want coll", unit.Uses[1].Alias)
	}
}

func TestDecodeFunctionDecl(t *testing.T) {
	src := `
module: app
decls:
  - kind: function
    name: add
    visibility: public
    params:
      - name: a
        type: { kind: primitive, name: Int }
      - name: b
        type: { kind: primitive, name: Int }
    return: { kind: primitive, name: Int }
    body:
      statements:
        - kind: return
          value:
            kind: binary
            type: { kind: primitive, name: Int }
            operator: "+"
            left: { kind: ident, name: a, type: { kind: primitive, name: Int } }
            right: { kind: ident, name: b, type: { kind: primitive, name: Int } }
`
	unit, err := DecodeBytes([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unit.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(unit.Decls))
	}
	fn, ok := unit.Decls[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("decl is %T, want *ast.FunctionDecl", unit.Decls[0])
	}
	if fn.Name() != "add" {
		t.Errorf("Name() = %q, want add", fn.Name())
	}
	if len(fn.Params) != 2 || fn.Params[0].PName != "a" || fn.Params[1].PName != "b" {
		t.Fatalf("Params = %+v", fn.Params)
	}
	if fn.Body == nil || len(fn.Body.Statements) != 1 {
		t.Fatalf("expected a single-statement body, got %+v", fn.Body)
	}
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ReturnStmt", fn.Body.Statements[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("return value is %T, want *ast.BinaryExpr", ret.Value)
	}
	if bin.Operator != "+" {
		t.Errorf("Operator = %q, want +", bin.Operator)
	}
	left, ok := bin.Left.(*ast.Identifier)
	if !ok || left.Name != "a" {
		t.Errorf("Left = %+v, want ident a", bin.Left)
	}
}

func TestDecodeAsyncFunctionDecl(t *testing.T) {
	src := `
module: app
decls:
  - kind: function
    name: work
    async: true
    return: { kind: primitive, name: Int }
    body:
      statements:
        - kind: return
          value: { kind: int, value: 1, type: { kind: primitive, name: Int } }
`
	unit, err := DecodeBytes([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn := unit.Decls[0].(*ast.FunctionDecl)
	if !fn.IsAsync {
		t.Error("expected IsAsync = true")
	}
}

func TestDecodeStructDecl(t *testing.T) {
	src := `
module: app
decls:
  - kind: struct
    name: Point
    visibility: public
    fields:
      - name: x
        type: { kind: primitive, name: Int }
      - name: y
        type: { kind: primitive, name: Int }
`
	unit, err := DecodeBytes([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, ok := unit.Decls[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("decl is %T, want *ast.StructDecl", unit.Decls[0])
	}
	if st.Name() != "Point" {
		t.Errorf("Name() = %q, want Point", st.Name())
	}
	if len(st.Fields) != 2 || st.Fields[0].FName != "x" || st.Fields[1].FName != "y" {
		t.Fatalf("Fields = %+v", st.Fields)
	}
}

func TestDecodeExceptionDecl(t *testing.T) {
	src := `
module: app
decls:
  - kind: exception
    name: MyError
    visibility: public
`
	unit, err := DecodeBytes([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exc, ok := unit.Decls[0].(*ast.ExceptionDecl)
	if !ok {
		t.Fatalf("decl is %T, want *ast.ExceptionDecl", unit.Decls[0])
	}
	if exc.Name() != "MyError" {
		t.Errorf("Name() = %q, want MyError", exc.Name())
	}
}

func TestDecodeClassDeclWithMethods(t *testing.T) {
	src := `
module: app
decls:
  - kind: class
    name: Main
    visibility: public
    methods:
      - kind: function
        name: run
        visibility: public
        return: { kind: primitive, name: Void }
        body:
          statements: []
`
	unit, err := DecodeBytes([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cls, ok := unit.Decls[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("decl is %T, want *ast.ClassDecl", unit.Decls[0])
	}
	if cls.Name() != "Main" {
		t.Errorf("Name() = %q, want Main", cls.Name())
	}
	if len(cls.Methods) != 1 || cls.Methods[0].Name() != "run" {
		t.Fatalf("Methods = %+v", cls.Methods)
	}
}

func TestDecodeUnknownDeclKind(t *testing.T) {
	src := `
module: app
decls:
  - kind: bogus
    name: X
`
	if _, err := DecodeBytes([]byte(src)); err == nil {
		t.Fatal("expected error for unknown decl kind")
	}
}

func TestDecodeTryCatchFinally(t *testing.T) {
	src := `
module: app
decls:
  - kind: function
    name: describeFailure
    return: { kind: primitive, name: String }
    body:
      statements:
        - kind: try
          body:
            statements:
              - kind: throw
                value:
                  kind: call
                  type: { kind: named, name: MyError }
                  callee: { kind: ident, name: MyError }
                  args: []
          catches:
            - name: e
              declared: { kind: named, name: FlyException }
              body:
                statements:
                  - kind: return
                    value: { kind: string, value: "caught", type: { kind: primitive, name: String } }
          finally:
            statements:
              - kind: exprStmt
                expression:
                  kind: call
                  callee: { kind: ident, name: println }
                  args:
                    - kind: string
                      value: cleanup
`
	unit, err := DecodeBytes([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn := unit.Decls[0].(*ast.FunctionDecl)
	tryStmt, ok := fn.Body.Statements[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.TryStmt", fn.Body.Statements[0])
	}
	if len(tryStmt.Catches) != 1 {
		t.Fatalf("expected 1 catch clause, got %d", len(tryStmt.Catches))
	}
	if tryStmt.Catches[0].Name != "e" {
		t.Errorf("catch name = %q, want e", tryStmt.Catches[0].Name)
	}
	if tryStmt.Finally == nil || len(tryStmt.Finally.Statements) != 1 {
		t.Fatalf("expected a single-statement finally block, got %+v", tryStmt.Finally)
	}
}

func TestDecodeSurfaceTypeKinds(t *testing.T) {
	d := &decoder{}

	tests := []struct {
		name string
		src  string
	}{
		{"primitive", `{kind: primitive, name: Int}`},
		{"named", `{kind: named, name: Point}`},
		{"optional", `{kind: optional, inner: {kind: primitive, name: Int}}`},
		{"array", `{kind: array, elem: {kind: primitive, name: String}}`},
		{"generic", `{kind: generic, base: {kind: named, name: Option}, args: [{kind: primitive, name: Int}]}`},
		{"tuple", `{kind: tuple, parts: [{kind: primitive, name: Int}, {kind: primitive, name: String}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := decodeNode(tt.src)
			if err != nil {
				t.Fatalf("decoding node: %v", err)
			}
			typ, err := d.surfaceType(node)
			if err != nil {
				t.Fatalf("surfaceType: %v", err)
			}
			if typ == nil {
				t.Fatal("expected a non-nil SurfaceType")
			}
		})
	}
}

func TestDecodeSurfaceTypeUnknownKind(t *testing.T) {
	d := &decoder{}
	node, err := decodeNode(`{kind: bogus}`)
	if err != nil {
		t.Fatalf("decoding node: %v", err)
	}
	if _, err := d.surfaceType(node); err == nil {
		t.Fatal("expected error for unknown surface-type kind")
	}
}

func TestDecodePatternKinds(t *testing.T) {
	src := `
module: app
decls:
  - kind: function
    name: describe
    params:
      - name: opt
        type: { kind: named, name: Option }
    return: { kind: primitive, name: String }
    body:
      statements:
        - kind: exprStmt
          expression:
            kind: match
            type: { kind: primitive, name: String }
            scrutinee: { kind: ident, name: opt, type: { kind: named, name: Option } }
            arms:
              - pattern: { kind: constructor, typeName: Some, elems: [{ kind: var, name: v }] }
                body: { kind: string, value: some, type: { kind: primitive, name: String } }
              - pattern: { kind: wildcard }
                body: { kind: string, value: none, type: { kind: primitive, name: String } }
`
	unit, err := DecodeBytes([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn := unit.Decls[0].(*ast.FunctionDecl)
	exprStmt, ok := fn.Body.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExprStmt", fn.Body.Statements[0])
	}
	match, ok := exprStmt.Expression.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expression is %T, want *ast.MatchExpr", exprStmt.Expression)
	}
	if len(match.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(match.Arms))
	}
}

// decodeNode is a small test helper that parses a standalone YAML mapping
// document into a yNode, for exercising per-kind decode methods directly
// without wrapping them in a full CompilationUnit document.
func decodeNode(src string) (yNode, error) {
	var raw yNode
	if err := yaml.Unmarshal([]byte(src), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
