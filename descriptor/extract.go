package descriptor

import (
	"go/ast"
	"go/token"
	"path"
	"strconv"
	"strings"

	"github.com/teranos/ctorgen/diag"
)

// Source is the file-level context a declaration is extracted from.
type Source struct {
	Fset *token.FileSet
	File *ast.File

	// PackageName resolves an import path to the imported package's name.
	// When nil, or when it returns "", the name is guessed from the path.
	PackageName func(importPath string) string

	// LookupType finds a type declaration of the current package by name.
	// Generic receivers need it to recover their type parameter constraints.
	LookupType func(name string) *ast.TypeSpec
}

func (s Source) position(p token.Pos) token.Position {
	if s.Fset == nil {
		return token.Position{}
	}
	return s.Fset.Position(p)
}

// imports lists the file's imports with the names they are referenced by.
// Blank and dot imports cannot be referenced by a qualifier and are skipped.
func (s Source) imports() []Import {
	if s.File == nil {
		return nil
	}
	var out []Import
	for _, spec := range s.File.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			out = append(out, Import{Name: spec.Name.Name, Path: p, Alias: true})
			continue
		}
		name := ""
		if s.PackageName != nil {
			name = s.PackageName(p)
		}
		if name == "" {
			name = guessPackageName(p)
		}
		out = append(out, Import{Name: name, Path: p})
	}
	return out
}

// guessPackageName applies the usual convention: the last path element,
// without a major-version element or a gopkg.in style ".vN" suffix, with
// dashes removed.
func guessPackageName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && isDigits(base[1:]) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(base, ".v"); i > 0 && isDigits(base[i+2:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FromFunc builds a Factory from a function or method declaration.
func FromFunc(src Source, decl *ast.FuncDecl, cfg Config) (*Factory, error) {
	pos := src.position(decl.Pos())
	f := &Factory{
		Pos:      pos,
		Name:     decl.Name.Name,
		Exported: decl.Name.IsExported(),
		Config:   cfg,
		Doc:      docLines(decl.Doc),
		Imports:  src.imports(),
	}

	f.TypeParams = typeParams(decl.Type.TypeParams)

	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		if err := extractReceiver(src, decl.Recv.List[0], f); err != nil {
			return nil, err
		}
	}

	params, err := extractParams(src, decl.Type.Params, f)
	if err != nil {
		return nil, err
	}
	f.Params = params

	f.Results = flattenResults(decl.Type.Results)
	f.Return = returnMode(f.Results)

	if f.Target == "" {
		if len(f.Results) > 0 {
			f.Target = BaseName(f.Results[0])
		}
		if f.Target == "" {
			f.Target = f.Name
		}
	}
	return f, nil
}

func extractReceiver(src Source, field *ast.Field, f *Factory) error {
	base := field.Type
	mode := ReceiverByValue
	if star, ok := base.(*ast.StarExpr); ok {
		base = star.X
		mode = ReceiverByMutableBorrow
	}

	name := "recv"
	if len(field.Names) > 0 && field.Names[0].Name != "_" {
		name = field.Names[0].Name
	}

	f.Receiver = Receiver{Mode: mode, Name: name, Type: base}
	f.Target = BaseName(base)

	args := TypeArgs(base)
	if len(args) == 0 {
		return nil
	}

	// Receiver type parameters only name the type's parameters; their
	// constraints live on the type declaration.
	var spec *ast.TypeSpec
	if src.LookupType != nil {
		spec = src.LookupType(f.Target)
	}
	if spec == nil || spec.TypeParams == nil {
		return diag.Newf(src.position(field.Pos()), diag.KindExtract,
			"cannot find the declaration of generic receiver type %s", f.Target)
	}
	declared := typeParams(spec.TypeParams)
	if len(declared) != len(args) {
		return diag.Newf(src.position(field.Pos()), diag.KindExtract,
			"receiver %s has %d type parameters, declaration has %d", f.Target, len(args), len(declared))
	}
	for i, arg := range args {
		ident, ok := arg.(*ast.Ident)
		if !ok {
			return diag.Newf(src.position(arg.Pos()), diag.KindExtract, "receiver type parameter must be an identifier")
		}
		f.TargetTypeParams = append(f.TargetTypeParams, TypeParam{Name: ident.Name, Constraint: declared[i].Constraint})
	}
	return nil
}

func extractParams(src Source, list *ast.FieldList, f *Factory) ([]Param, error) {
	if list == nil {
		return nil, nil
	}

	var params []Param
	index := 0
	for _, field := range list.List {
		names := field.Names
		if len(names) == 0 {
			return nil, diag.Newf(src.position(field.Pos()), diag.KindExtract,
				"parameter %d of %s has no name; builder setters are named after parameters", index+1, f.Name)
		}
		for _, name := range names {
			if index == 0 && isContext(f.Imports, field.Type) {
				f.Async = true
				f.AsyncType = field.Type
				index++
				continue
			}
			if name.Name == "_" {
				return nil, diag.Newf(src.position(name.Pos()), diag.KindExtract,
					"parameter %d of %s is blank; builder setters are named after parameters", index+1, f.Name)
			}

			p := Param{Name: name.Name, Type: field.Type}
			if ell, ok := field.Type.(*ast.Ellipsis); ok {
				p.Type = &ast.ArrayType{Lbrack: ell.Pos(), Elt: ell.Elt}
				p.Variadic = true
			}
			p.Doc = docLines(field.Doc)
			if len(p.Doc) == 0 {
				p.Doc = docLines(field.Comment)
			}
			params = append(params, p)
			index++
		}
	}
	return params, nil
}

// isContext reports whether expr is context.Context under whatever name
// the file imports the context package as.
func isContext(imports []Import, expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Context" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	for _, imp := range imports {
		if imp.Name == pkg.Name {
			return imp.Path == "context"
		}
	}
	return false
}

func typeParams(list *ast.FieldList) []TypeParam {
	if list == nil {
		return nil
	}
	var out []TypeParam
	for _, field := range list.List {
		for _, name := range field.Names {
			out = append(out, TypeParam{Name: name.Name, Constraint: field.Type})
		}
	}
	return out
}

func flattenResults(list *ast.FieldList) []ast.Expr {
	if list == nil {
		return nil
	}
	var out []ast.Expr
	for _, field := range list.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, field.Type)
		}
	}
	return out
}

func returnMode(results []ast.Expr) ReturnMode {
	if len(results) == 0 {
		return ReturnDirect
	}
	last, ok := results[len(results)-1].(*ast.Ident)
	if !ok {
		return ReturnDirect
	}
	switch {
	case last.Name == "error":
		return ReturnFallible
	case last.Name == "bool" && len(results) == 2:
		return ReturnOptional
	default:
		return ReturnDirect
	}
}

// docLines returns the comment text as lines. Directive comments are
// dropped by ast.CommentGroup.Text.
func docLines(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	text := strings.TrimRight(doc.Text(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
