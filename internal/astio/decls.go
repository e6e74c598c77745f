package astio

import (
	"fmt"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

func (d *decoder) compilationUnit(n yNode) (*ast.CompilationUnit, error) {
	cu := &ast.CompilationUnit{Module: n.str("module")}

	uses, err := n.list("uses")
	if err != nil {
		return nil, err
	}
	for _, u := range uses {
		un, err := asNode(u)
		if err != nil {
			return nil, fmt.Errorf("astio: use entry: %w", err)
		}
		cu.Uses = append(cu.Uses, &ast.UseDecl{
			NodePos:  d.position(un),
			Path:     un.str("path"),
			Wildcard: un.boolean("wildcard"),
			Alias:    un.str("alias"),
		})
	}

	decls, err := n.list("decls")
	if err != nil {
		return nil, err
	}
	for _, item := range decls {
		dn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: decl entry: %w", err)
		}
		decl, err := d.decl(dn)
		if err != nil {
			return nil, err
		}
		cu.Decls = append(cu.Decls, decl)
	}
	return cu, nil
}

func (d *decoder) declHeader(n yNode) (ast.DeclHeader, error) {
	anns, err := d.annotations(n)
	if err != nil {
		return ast.DeclHeader{}, err
	}
	typeParams, err := d.typeParamList(n)
	if err != nil {
		return ast.DeclHeader{}, err
	}
	return ast.DeclHeader{
		Pos:         d.position(n),
		Name:        n.str("name"),
		Annotations: anns,
		Visibility:  d.visibility(n.str("visibility")),
		TypeParams:  typeParams,
	}, nil
}

func (d *decoder) typeParamList(n yNode) ([]*ast.SurfaceType, error) {
	items, err := n.list("typeParams")
	if err != nil {
		return nil, err
	}
	var out []*ast.SurfaceType
	for _, item := range items {
		tn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: typeParams entry: %w", err)
		}
		t, err := d.surfaceType(tn)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (d *decoder) annotations(n yNode) ([]ast.Annotation, error) {
	items, err := n.list("annotations")
	if err != nil {
		return nil, err
	}
	var out []ast.Annotation
	for _, item := range items {
		an, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: annotation entry: %w", err)
		}
		argItems, err := an.list("values")
		if err != nil {
			return nil, err
		}
		var vals []ast.AnnotationArg
		for _, v := range argItems {
			vn, err := asNode(v)
			if err != nil {
				return nil, fmt.Errorf("astio: annotation value: %w", err)
			}
			vals = append(vals, ast.AnnotationArg{Name: vn.str("name"), Value: vn["value"]})
		}
		out = append(out, ast.Annotation{Name: an.str("name"), Values: vals, NodePos: d.position(an)})
	}
	return out, nil
}

func (d *decoder) stringList(n yNode, key string) ([]string, error) {
	items, err := n.list(key)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("astio: field %q: expected string entries", key)
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) param(n yNode) (*ast.Param, error) {
	t, err := d.surfaceTypeField(n, "type")
	if err != nil {
		return nil, err
	}
	return &ast.Param{
		NodePos:  d.position(n),
		PName:    n.str("name"),
		Type:     t,
		Variadic: n.boolean("variadic"),
	}, nil
}

func (d *decoder) paramList(n yNode, key string) ([]*ast.Param, error) {
	items, err := n.list(key)
	if err != nil {
		return nil, err
	}
	var out []*ast.Param
	for _, item := range items {
		pn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: param entry: %w", err)
		}
		p, err := d.param(pn)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *decoder) field(n yNode) (*ast.FieldDecl, error) {
	t, err := d.surfaceTypeField(n, "type")
	if err != nil {
		return nil, err
	}
	var def ast.Expr
	if fn, ok, err := n.node("default"); err != nil {
		return nil, err
	} else if ok {
		def, err = d.expr(fn)
		if err != nil {
			return nil, err
		}
	}
	return &ast.FieldDecl{
		NodePos: d.position(n),
		FName:   n.str("name"),
		Type:    t,
		Vis:     d.visibility(n.str("visibility")),
		Mutable: n.boolean("mutable"),
		Default: def,
	}, nil
}

func (d *decoder) fieldList(n yNode, key string) ([]*ast.FieldDecl, error) {
	items, err := n.list(key)
	if err != nil {
		return nil, err
	}
	var out []*ast.FieldDecl
	for _, item := range items {
		fn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: field entry: %w", err)
		}
		f, err := d.field(fn)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (d *decoder) functionDecl(n yNode) (*ast.FunctionDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	params, err := d.paramList(n, "params")
	if err != nil {
		return nil, err
	}
	ret, err := d.surfaceTypeField(n, "return")
	if err != nil {
		return nil, err
	}
	var body *ast.BlockStmt
	if bn, ok, err := n.node("body"); err != nil {
		return nil, err
	} else if ok {
		b, err := d.block(bn)
		if err != nil {
			return nil, err
		}
		body = b
	}
	return ast.NewFunctionDecl(h, params, ret, body, n.boolean("static"), n.boolean("async"), n.boolean("abstract"), n.boolean("entryPoint")), nil
}

func (d *decoder) functionList(n yNode, key string) ([]*ast.FunctionDecl, error) {
	items, err := n.list(key)
	if err != nil {
		return nil, err
	}
	var out []*ast.FunctionDecl
	for _, item := range items {
		fn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: method entry: %w", err)
		}
		f, err := d.functionDecl(fn)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (d *decoder) decl(n yNode) (ast.Decl, error) {
	switch n.kind() {
	case "function":
		return d.functionDecl(n)
	case "class":
		return d.classDecl(n)
	case "interface":
		return d.interfaceDecl(n)
	case "trait":
		return d.traitDecl(n)
	case "impl":
		return d.implDecl(n)
	case "struct":
		return d.structDecl(n)
	case "spark":
		return d.sparkDecl(n)
	case "data":
		return d.dataADTDecl(n)
	case "exception":
		return d.exceptionDecl(n)
	case "actor":
		return d.actorDecl(n)
	case "typeAlias":
		return d.typeAliasDecl(n)
	case "use":
		return ast.UseDeclAsDecl{UseDecl: &ast.UseDecl{
			NodePos:  d.position(n),
			Path:     n.str("path"),
			Wildcard: n.boolean("wildcard"),
			Alias:    n.str("alias"),
		}}, nil
	default:
		return nil, fmt.Errorf("astio: unknown declaration kind %q", n.kind())
	}
}

func (d *decoder) declList(n yNode, key string) ([]ast.Decl, error) {
	items, err := n.list(key)
	if err != nil {
		return nil, err
	}
	var out []ast.Decl
	for _, item := range items {
		dn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: nested decl entry: %w", err)
		}
		decl, err := d.decl(dn)
		if err != nil {
			return nil, err
		}
		out = append(out, decl)
	}
	return out, nil
}

func (d *decoder) classDecl(n yNode) (*ast.ClassDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	ifaces, err := d.stringList(n, "interfaces")
	if err != nil {
		return nil, err
	}
	fields, err := d.fieldList(n, "fields")
	if err != nil {
		return nil, err
	}
	methods, err := d.functionList(n, "methods")
	if err != nil {
		return nil, err
	}
	nested, err := d.declList(n, "nested")
	if err != nil {
		return nil, err
	}
	return ast.NewClassDecl(h, n.str("parent"), ifaces, fields, methods, nested, n.boolean("final")), nil
}

func (d *decoder) interfaceDecl(n yNode) (*ast.InterfaceDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	supers, err := d.stringList(n, "supers")
	if err != nil {
		return nil, err
	}
	methods, err := d.functionList(n, "methods")
	if err != nil {
		return nil, err
	}
	return ast.NewInterfaceDecl(h, supers, methods), nil
}

func (d *decoder) traitDecl(n yNode) (*ast.TraitDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	supers, err := d.stringList(n, "supers")
	if err != nil {
		return nil, err
	}
	methods, err := d.functionList(n, "methods")
	if err != nil {
		return nil, err
	}
	return ast.NewTraitDecl(h, supers, methods), nil
}

func (d *decoder) implDecl(n yNode) (*ast.ImplDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	methods, err := d.functionList(n, "methods")
	if err != nil {
		return nil, err
	}
	return ast.NewImplDecl(h, n.str("trait"), n.str("target"), methods), nil
}

func (d *decoder) structDecl(n yNode) (*ast.StructDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	fields, err := d.fieldList(n, "fields")
	if err != nil {
		return nil, err
	}
	return ast.NewStructDecl(h, fields), nil
}

func (d *decoder) sparkDecl(n yNode) (*ast.SparkDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	fields, err := d.fieldList(n, "fields")
	if err != nil {
		return nil, err
	}
	computedItems, err := n.list("computed")
	if err != nil {
		return nil, err
	}
	var computed []*ast.ComputedProperty
	for _, item := range computedItems {
		cn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: computed property entry: %w", err)
		}
		t, err := d.surfaceTypeField(cn, "type")
		if err != nil {
			return nil, err
		}
		body, err := d.blockField(cn, "body")
		if err != nil {
			return nil, err
		}
		computed = append(computed, &ast.ComputedProperty{
			NodePos: d.position(cn),
			PName:   cn.str("name"),
			Type:    t,
			Body:    body,
		})
	}
	validate, err := d.blockField(n, "validate")
	if err != nil {
		return nil, err
	}
	return ast.NewSparkDecl(h, fields, computed, validate, n.boolean("travelable")), nil
}

func (d *decoder) dataADTDecl(n yNode) (*ast.DataADTDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	variantItems, err := n.list("variants")
	if err != nil {
		return nil, err
	}
	var variants []*ast.DataVariant
	for _, item := range variantItems {
		vn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: variant entry: %w", err)
		}
		fields, err := d.fieldList(vn, "fields")
		if err != nil {
			return nil, err
		}
		variants = append(variants, &ast.DataVariant{
			NodePos: d.position(vn),
			VName:   vn.str("name"),
			Fields:  fields,
		})
	}
	return ast.NewDataADTDecl(h, variants), nil
}

func (d *decoder) exceptionDecl(n yNode) (*ast.ExceptionDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	fields, err := d.fieldList(n, "fields")
	if err != nil {
		return nil, err
	}
	methods, err := d.functionList(n, "methods")
	if err != nil {
		return nil, err
	}
	return ast.NewExceptionDecl(h, n.str("parent"), fields, methods), nil
}

func (d *decoder) actorDecl(n yNode) (*ast.ActorDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	stateType, err := d.surfaceTypeField(n, "stateType")
	if err != nil {
		return nil, err
	}
	msgType, err := d.surfaceTypeField(n, "messageType")
	if err != nil {
		return nil, err
	}
	fields, err := d.fieldList(n, "fields")
	if err != nil {
		return nil, err
	}
	methods, err := d.functionList(n, "methods")
	if err != nil {
		return nil, err
	}
	receiveItems, err := n.list("receive")
	if err != nil {
		return nil, err
	}
	var receive []*ast.ReceiveCase
	for _, item := range receiveItems {
		rn, err := asNode(item)
		if err != nil {
			return nil, fmt.Errorf("astio: receive case entry: %w", err)
		}
		pn, ok, err := rn.node("pattern")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("astio: receive case missing pattern")
		}
		pat, err := d.pattern(pn)
		if err != nil {
			return nil, err
		}
		var guard ast.Expr
		if gn, ok, err := rn.node("guard"); err != nil {
			return nil, err
		} else if ok {
			guard, err = d.expr(gn)
			if err != nil {
				return nil, err
			}
		}
		body, err := d.blockField(rn, "body")
		if err != nil {
			return nil, err
		}
		receive = append(receive, &ast.ReceiveCase{NodePos: d.position(rn), Pat: pat, Guard: guard, Body: body})
	}
	return ast.NewActorDecl(h, stateType, msgType, fields, receive, methods), nil
}

func (d *decoder) typeAliasDecl(n yNode) (*ast.TypeAliasDecl, error) {
	h, err := d.declHeader(n)
	if err != nil {
		return nil, err
	}
	target, err := d.surfaceTypeField(n, "target")
	if err != nil {
		return nil, err
	}
	return ast.NewTypeAliasDecl(h, target), nil
}
