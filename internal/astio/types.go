package astio

import (
	"fmt"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

var primitiveByName = map[string]ast.PrimitiveKind{
	"Int":    ast.PrimInt,
	"Long":   ast.PrimLong,
	"Float":  ast.PrimFloat,
	"Double": ast.PrimDouble,
	"Bool":   ast.PrimBool,
	"String": ast.PrimString,
	"Void":   ast.PrimVoid,
}

func (d *decoder) surfaceTypeField(n yNode, key string) (*ast.SurfaceType, error) {
	tn, ok, err := n.node(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return d.surfaceType(tn)
}

func (d *decoder) surfaceTypeList(n yNode, key string) ([]*ast.SurfaceType, error) {
	items, err := n.list(key)
	if err != nil {
		return nil, err
	}
	var out []*ast.SurfaceType
	for _, item := range items {
		tn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: field %q entry: %w", key, err)
		}
		t, err := d.surfaceType(tn)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (d *decoder) surfaceType(n yNode) (*ast.SurfaceType, error) {
	switch n.kind() {
	case "primitive":
		prim, ok := primitiveByName[n.str("name")]
		if !ok {
			return nil, fmt.Errorf("astio: unknown primitive type %q", n.str("name"))
		}
		return ast.PrimitiveType(prim), nil
	case "named":
		return ast.NamedType(n.str("name")), nil
	case "generic":
		base, err := d.surfaceTypeField(n, "base")
		if err != nil {
			return nil, err
		}
		args, err := d.surfaceTypeList(n, "args")
		if err != nil {
			return nil, err
		}
		return ast.GenericType(base, args...), nil
	case "optional":
		inner, err := d.surfaceTypeField(n, "inner")
		if err != nil {
			return nil, err
		}
		return ast.OptionalType(inner), nil
	case "array":
		elem, err := d.surfaceTypeField(n, "elem")
		if err != nil {
			return nil, err
		}
		return ast.ArrayType(elem), nil
	case "function":
		params, err := d.surfaceTypeList(n, "params")
		if err != nil {
			return nil, err
		}
		ret, err := d.surfaceTypeField(n, "return")
		if err != nil {
			return nil, err
		}
		return ast.FuncType(ret, params...), nil
	case "tuple":
		parts, err := d.surfaceTypeList(n, "parts")
		if err != nil {
			return nil, err
		}
		return ast.TupleType(parts...), nil
	case "typeParam":
		bounds, err := d.surfaceTypeList(n, "bounds")
		if err != nil {
			return nil, err
		}
		return ast.TypeParamType(n.str("name"), bounds...), nil
	default:
		return nil, fmt.Errorf("astio: unknown surface-type kind %q", n.kind())
	}
}
