package descriptor

import (
	"go/ast"

	"github.com/teranos/ctorgen/diag"
	"github.com/teranos/ctorgen/naming"
)

// FromStruct synthesizes the descriptor of a trivial constructor for a
// struct type: one parameter per field, in field order, returning a pointer
// to the struct. Field comments become parameter docs. Blank fields are
// skipped and embedded fields are named after their type.
//
// doc is the comment group attached to the declaration, which for an
// ungrouped type declaration sits on the GenDecl rather than the TypeSpec.
func FromStruct(src Source, spec *ast.TypeSpec, doc *ast.CommentGroup, cfg Config) (*Factory, error) {
	pos := src.position(spec.Pos())
	st, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, diag.Newf(pos, diag.KindExtract, "%s is not a struct type; //ctorgen:derive needs a struct", spec.Name.Name)
	}

	target := spec.Name.Name
	exported := spec.Name.IsExported()
	name := naming.Recase("New", exported) + naming.Pascal(target)

	f := &Factory{
		Pos:        pos,
		Target:     target,
		Name:       name,
		TypeParams: typeParams(spec.TypeParams),
		Exported:   exported,
		Config:     cfg,
		Doc:        docLines(doc),
		Literal:    &Literal{},
		Imports:    src.imports(),
	}

	seen := make(map[string]string)
	for _, field := range st.Fields.List {
		names := field.Names
		if len(names) == 0 {
			embedded := BaseName(field.Type)
			if embedded == "" {
				return nil, diag.New(src.position(field.Pos()), diag.KindExtract, "cannot name embedded field")
			}
			names = []*ast.Ident{ast.NewIdent(embedded)}
		}

		fieldDoc := docLines(field.Doc)
		if len(fieldDoc) == 0 {
			fieldDoc = docLines(field.Comment)
		}

		for _, n := range names {
			if n.Name == "_" {
				continue
			}
			param := naming.Camel(n.Name)
			if other, dup := seen[param]; dup {
				return nil, diag.Newf(src.position(n.Pos()), diag.KindExtract,
					"fields %s and %s both map to parameter %q", other, n.Name, param)
			}
			seen[param] = n.Name

			f.Params = append(f.Params, Param{Name: param, Type: field.Type, Doc: fieldDoc})
			f.Literal.Fields = append(f.Literal.Fields, n.Name)
		}
	}

	f.Results = []ast.Expr{&ast.StarExpr{X: instantiate(target, f.TypeParams)}}
	f.Return = ReturnDirect
	return f, nil
}

// instantiate builds the expression Name[P1, P2, ...] for a generic type
// declared with the given parameters.
func instantiate(name string, params []TypeParam) ast.Expr {
	ident := ast.NewIdent(name)
	switch len(params) {
	case 0:
		return ident
	case 1:
		return &ast.IndexExpr{X: ident, Index: ast.NewIdent(params[0].Name)}
	default:
		indices := make([]ast.Expr, len(params))
		for i, p := range params {
			indices[i] = ast.NewIdent(p.Name)
		}
		return &ast.IndexListExpr{X: ident, Indices: indices}
	}
}
