package astio

import (
	"fmt"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

func (d *decoder) patternList(n yNode, key string) ([]ast.Pattern, error) {
	items, err := n.list(key)
	if err != nil {
		return nil, err
	}
	var out []ast.Pattern
	for _, item := range items {
		pn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: field %q entry: %w", key, err)
		}
		p, err := d.pattern(pn)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *decoder) pattern(n yNode) (ast.Pattern, error) {
	pos := d.position(n)
	switch n.kind() {
	case "wildcard":
		return ast.NewWildcardPattern(pos), nil
	case "var":
		declared, err := d.surfaceTypeField(n, "declared")
		if err != nil {
			return nil, err
		}
		return ast.NewVarPattern(pos, n.str("name"), declared), nil
	case "literal":
		vn, ok, err := n.node("value")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("astio: literal pattern missing value")
		}
		value, err := d.expr(vn)
		if err != nil {
			return nil, err
		}
		return ast.NewLiteralPattern(pos, value), nil
	case "range":
		start, err := d.exprField(n, "start")
		if err != nil {
			return nil, err
		}
		end, err := d.exprField(n, "end")
		if err != nil {
			return nil, err
		}
		return ast.NewRangePattern(pos, start, end, n.boolean("inclusive")), nil
	case "tuple":
		elems, err := d.patternList(n, "elems")
		if err != nil {
			return nil, err
		}
		return ast.NewTuplePattern(pos, elems), nil
	case "struct":
		fieldItems, err := n.list("fields")
		if err != nil {
			return nil, err
		}
		var fields []ast.StructFieldPattern
		for _, item := range fieldItems {
			fn, err := asNode(item)
			if err != nil {
				return nil, fmt.Errorf("astio: struct pattern field entry: %w", err)
			}
			var sub ast.Pattern
			if pn, ok, err := fn.node("pattern"); err != nil {
				return nil, err
			} else if ok {
				sub, err = d.pattern(pn)
				if err != nil {
					return nil, err
				}
			}
			fields = append(fields, ast.StructFieldPattern{FieldName: fn.str("name"), Pat: sub})
		}
		return ast.NewStructPattern(pos, n.str("typeName"), fields), nil
	case "constructor":
		elems, err := d.patternList(n, "elems")
		if err != nil {
			return nil, err
		}
		return ast.NewConstructorPattern(pos, n.str("typeName"), elems), nil
	default:
		return nil, fmt.Errorf("astio: unknown pattern kind %q", n.kind())
	}
}
