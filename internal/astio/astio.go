// Package astio decodes a CompilationUnit from its on-disk YAML document
// form, the document `flyc emit` reads in lieu of an embedded front end.
//
// Nothing in this package is specific to any one front end: it is a
// generic tagged-union decoder over internal/ast's closed Decl/Expr/
// Stmt/Pattern/SurfaceType sums, keyed by a "kind" string field on every
// node map that selects the Go type to decode into.
package astio

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

// yNode is one decoded YAML mapping, keyed by field name. goccy/go-yaml
// decodes arbitrary YAML into map[string]any/[]any/scalars exactly like
// the standard library's encoding/json does for interface{}.
type yNode map[string]any

// Decode reads one CompilationUnit document from r.
func Decode(r io.Reader) (*ast.CompilationUnit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("astio: reading document: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes one CompilationUnit document already read into
// memory.
func DecodeBytes(data []byte) (*ast.CompilationUnit, error) {
	var raw yNode
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astio: parsing YAML: %w", err)
	}
	d := &decoder{}
	return d.compilationUnit(raw)
}

// decoder carries no state of its own today; it exists so the per-kind
// decode methods read as a cohesive unit, and so a future front-end-
// specific quirk (e.g. a legacy field name) has somewhere to hang a
// lookup table without threading it through every free function.
type decoder struct{}

func asNode(v any) (yNode, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("astio: expected a mapping, got %T", v)
	}
	return yNode(m), nil
}

func asList(v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("astio: expected a sequence, got %T", v)
	}
	return l, nil
}

func (n yNode) kind() string {
	s, _ := n["kind"].(string)
	return s
}

func (n yNode) str(key string) string {
	s, _ := n[key].(string)
	return s
}

func (n yNode) boolean(key string) bool {
	b, _ := n[key].(bool)
	return b
}

func (n yNode) integer(key string) int64 {
	switch v := n[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func (n yNode) float(key string) float64 {
	switch v := n[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (n yNode) node(key string) (yNode, bool, error) {
	v, ok := n[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	child, err := asNode(v)
	if err != nil {
		return nil, false, fmt.Errorf("astio: field %q: %w", key, err)
	}
	return child, true, nil
}

func (n yNode) list(key string) ([]any, error) {
	l, err := asList(n[key])
	if err != nil {
		return nil, fmt.Errorf("astio: field %q: %w", key, err)
	}
	return l, nil
}

func (d *decoder) position(n yNode) ast.Position {
	p, ok, _ := n.node("pos")
	if !ok {
		return ast.Position{}
	}
	return ast.Position{
		File:   p.str("file"),
		Line:   int(p.integer("line")),
		Column: int(p.integer("column")),
	}
}

func (d *decoder) visibility(s string) ast.Visibility {
	switch s {
	case "protected":
		return ast.VisibilityProtected
	case "private":
		return ast.VisibilityPrivate
	default:
		return ast.VisibilityPublic
	}
}
