package astio

import (
	"fmt"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

func (d *decoder) exprField(n yNode, key string) (ast.Expr, error) {
	en, ok, err := n.node(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return d.expr(en)
}

func (d *decoder) exprList(n yNode, key string) ([]ast.Expr, error) {
	items, err := n.list(key)
	if err != nil {
		return nil, err
	}
	var out []ast.Expr
	for _, item := range items {
		en, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: field %q entry: %w", key, err)
		}
		e, err := d.expr(en)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) expr(n yNode) (ast.Expr, error) {
	pos := d.position(n)
	t, err := d.surfaceTypeField(n, "type")
	if err != nil {
		return nil, err
	}

	switch n.kind() {
	case "int":
		return ast.NewIntLit(pos, t, n.integer("value")), nil
	case "long":
		return ast.NewLongLit(pos, t, n.integer("value")), nil
	case "float":
		return ast.NewFloatLit(pos, t, n.float("value")), nil
	case "string":
		return ast.NewStringLit(pos, t, n.str("value")), nil
	case "bool":
		return ast.NewBoolLit(pos, t, n.boolean("value")), nil
	case "none":
		return ast.NewNoneLit(pos, t), nil
	case "ident":
		return ast.NewIdentifier(pos, t, n.str("name")), nil
	case "binary":
		left, err := d.exprField(n, "left")
		if err != nil {
			return nil, err
		}
		right, err := d.exprField(n, "right")
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpr(pos, t, n.str("operator"), left, right), nil
	case "unary":
		operand, err := d.exprField(n, "operand")
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(pos, t, n.str("operator"), operand), nil
	case "safeNav":
		recv, err := d.exprField(n, "receiver")
		if err != nil {
			return nil, err
		}
		return ast.NewSafeNavExpr(pos, t, recv, n.str("member")), nil
	case "call":
		callee, err := d.exprField(n, "callee")
		if err != nil {
			return nil, err
		}
		args, err := d.exprList(n, "args")
		if err != nil {
			return nil, err
		}
		return ast.NewCallExpr(pos, t, callee, args), nil
	case "self":
		return ast.NewSelfExpr(pos, t), nil
	case "member":
		recv, err := d.exprField(n, "receiver")
		if err != nil {
			return nil, err
		}
		return ast.NewMemberExpr(pos, t, recv, n.str("member")), nil
	case "staticMember":
		return ast.NewStaticMemberExpr(pos, t, n.str("className"), n.str("member")), nil
	case "index":
		recv, err := d.exprField(n, "receiver")
		if err != nil {
			return nil, err
		}
		idx, err := d.exprField(n, "index")
		if err != nil {
			return nil, err
		}
		return ast.NewIndexExpr(pos, t, recv, idx), nil
	case "tuple":
		elems, err := d.exprList(n, "elems")
		if err != nil {
			return nil, err
		}
		return ast.NewTupleExpr(pos, t, elems), nil
	case "tupleIndex":
		recv, err := d.exprField(n, "receiver")
		if err != nil {
			return nil, err
		}
		return ast.NewTupleIndexExpr(pos, t, recv, int(n.integer("index"))), nil
	case "structLiteral":
		fieldItems, err := n.list("fields")
		if err != nil {
			return nil, err
		}
		var fields []ast.StructLiteralField
		for _, item := range fieldItems {
			fn, err := asNode(item)
			if err != nil {
				return nil, fmt.Errorf("astio: struct literal field entry: %w", err)
			}
			valExpr, err := d.exprField(fn, "value")
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.StructLiteralField{Name: fn.str("name"), Value: valExpr})
		}
		return ast.NewStructLiteralExpr(pos, t, n.str("typeName"), fields), nil
	case "arrayLiteral":
		elems, err := d.exprList(n, "elems")
		if err != nil {
			return nil, err
		}
		return ast.NewArrayLiteralExpr(pos, t, elems), nil
	case "mapLiteral":
		keys, err := d.exprList(n, "keys")
		if err != nil {
			return nil, err
		}
		values, err := d.exprList(n, "values")
		if err != nil {
			return nil, err
		}
		return ast.NewMapLiteralExpr(pos, t, keys, values), nil
	case "range":
		start, err := d.exprField(n, "start")
		if err != nil {
			return nil, err
		}
		end, err := d.exprField(n, "end")
		if err != nil {
			return nil, err
		}
		return ast.NewRangeExpr(pos, t, start, end, n.boolean("inclusive")), nil
	case "lambda":
		params, err := d.paramList(n, "params")
		if err != nil {
			return nil, err
		}
		body, err := d.exprField(n, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewLambdaExpr(pos, t, params, body), nil
	case "match":
		scrutinee, err := d.exprField(n, "scrutinee")
		if err != nil {
			return nil, err
		}
		armItems, err := n.list("arms")
		if err != nil {
			return nil, err
		}
		var arms []*ast.MatchArm
		for _, item := range armItems {
			an, err := asNode(item)
			if err != nil {
				return nil, fmt.Errorf("astio: match arm entry: %w", err)
			}
			pn, ok, err := an.node("pattern")
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("astio: match arm missing pattern")
			}
			pat, err := d.pattern(pn)
			if err != nil {
				return nil, err
			}
			guard, err := d.exprField(an, "guard")
			if err != nil {
				return nil, err
			}
			body, err := d.exprField(an, "body")
			if err != nil {
				return nil, err
			}
			arms = append(arms, &ast.MatchArm{NodePos: d.position(an), Pat: pat, Guard: guard, Body: body})
		}
		return ast.NewMatchExpr(pos, t, scrutinee, arms), nil
	case "ifExpr":
		cond, err := d.exprField(n, "cond")
		if err != nil {
			return nil, err
		}
		then, err := d.exprField(n, "then")
		if err != nil {
			return nil, err
		}
		els, err := d.exprField(n, "else")
		if err != nil {
			return nil, err
		}
		return ast.NewIfExpr(pos, t, cond, then, els), nil
	case "timeout":
		millis, err := d.exprField(n, "millis")
		if err != nil {
			return nil, err
		}
		body, err := d.blockField(n, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewTimeoutExpr(pos, t, millis, body), nil
	case "concurrent":
		bindingItems, err := n.list("bindings")
		if err != nil {
			return nil, err
		}
		var bindings []ast.ConcurrentBinding
		for _, item := range bindingItems {
			bn, err := asNode(item)
			if err != nil {
				return nil, fmt.Errorf("astio: concurrent binding entry: %w", err)
			}
			e, err := d.exprField(bn, "expr")
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, ast.ConcurrentBinding{Name: bn.str("name"), Expr: e})
		}
		return ast.NewConcurrentExpr(pos, t, bindings), nil
	case "race":
		futures, err := d.exprList(n, "futures")
		if err != nil {
			return nil, err
		}
		return ast.NewRaceExpr(pos, t, futures), nil
	default:
		return nil, fmt.Errorf("astio: unknown expression kind %q", n.kind())
	}
}
