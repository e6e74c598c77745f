package astio

import (
	"fmt"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

func (d *decoder) blockField(n yNode, key string) (*ast.BlockStmt, error) {
	bn, ok, err := n.node(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return d.block(bn)
}

func (d *decoder) block(n yNode) (*ast.BlockStmt, error) {
	items, err := n.list("statements")
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for _, item := range items {
		sn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: statement entry: %w", err)
		}
		s, err := d.stmt(sn)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return ast.NewBlockStmt(d.position(n), stmts), nil
}

func (d *decoder) stmtField(n yNode, key string) (ast.Stmt, error) {
	sn, ok, err := n.node(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return d.stmt(sn)
}

func (d *decoder) stmt(n yNode) (ast.Stmt, error) {
	pos := d.position(n)
	switch n.kind() {
	case "block":
		return d.block(n)
	case "let":
		declared, err := d.surfaceTypeField(n, "declared")
		if err != nil {
			return nil, err
		}
		value, err := d.exprField(n, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewLetStmt(pos, n.str("name"), declared, value, n.boolean("mutable")), nil
	case "assign":
		target, err := d.exprField(n, "target")
		if err != nil {
			return nil, err
		}
		value, err := d.exprField(n, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewAssignStmt(pos, target, value), nil
	case "exprStmt":
		e, err := d.exprField(n, "expression")
		if err != nil {
			return nil, err
		}
		return ast.NewExprStmt(pos, e), nil
	case "if":
		cond, err := d.exprField(n, "cond")
		if err != nil {
			return nil, err
		}
		cons, err := d.stmtField(n, "consequence")
		if err != nil {
			return nil, err
		}
		alt, err := d.stmtField(n, "alternative")
		if err != nil {
			return nil, err
		}
		return ast.NewIfStmt(pos, cond, cons, alt), nil
	case "while":
		cond, err := d.exprField(n, "cond")
		if err != nil {
			return nil, err
		}
		body, err := d.stmtField(n, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewWhileStmt(pos, cond, body), nil
	case "for":
		pn, ok, err := n.node("binding")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("astio: for statement missing binding pattern")
		}
		binding, err := d.pattern(pn)
		if err != nil {
			return nil, err
		}
		iterable, err := d.exprField(n, "iterable")
		if err != nil {
			return nil, err
		}
		body, err := d.stmtField(n, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewForStmt(pos, binding, iterable, body), nil
	case "break":
		return ast.NewBreakStmt(pos), nil
	case "continue":
		return ast.NewContinueStmt(pos), nil
	case "return":
		value, err := d.exprField(n, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewReturnStmt(pos, value), nil
	case "throw":
		value, err := d.exprField(n, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewThrowStmt(pos, value), nil
	case "try":
		body, err := d.blockField(n, "body")
		if err != nil {
			return nil, err
		}
		catchItems, err := n.list("catches")
		if err != nil {
			return nil, err
		}
		var catches []*ast.CatchClause
		for _, item := range catchItems {
			cn, err := asNode(item)
			if err != nil {
				return nil, fmt.Errorf("astio: catch clause entry: %w", err)
			}
			declared, err := d.surfaceTypeField(cn, "declared")
			if err != nil {
				return nil, err
			}
			cbody, err := d.blockField(cn, "body")
			if err != nil {
				return nil, err
			}
			catches = append(catches, &ast.CatchClause{
				NodePos:  d.position(cn),
				Name:     cn.str("name"),
				Declared: declared,
				Body:     cbody,
			})
		}
		finally, err := d.blockField(n, "finally")
		if err != nil {
			return nil, err
		}
		return ast.NewTryStmt(pos, body, catches, finally), nil
	default:
		return nil, fmt.Errorf("astio: unknown statement kind %q", n.kind())
	}
}
