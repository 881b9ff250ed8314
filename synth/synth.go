// Package synth renders builder plans as Go source.
//
// Every builder is a generic struct with one phantom type parameter per
// factory parameter recording the slot's state. Two zero-size shapes are
// emitted once per file:
//
//	type ctorOptional[T any] struct{}
//	type ctorSet[T any] struct{}
//
// An unset required slot has the argument type itself as its state, and an
// unset optional slot the type it points to. Their setters take a value of
// the state's type. Setting a slot moves it to ctorSet[T], where T is the
// argument type, after which the setter no longer accepts a value. The exit
// only accepts builders whose required slots are all ctorSet, so a missing
// required argument and a twice-set argument are both compile errors in the
// caller. Collection slots stay at ctorOptional[T] and may be extended any
// number of times.
//
// Setters never wrap their own state parameter in a larger type: a method
// of T[S] mentioning T[ctorSet[S]] is an instantiation cycle.
package synth

import (
	"fmt"
	"go/ast"
	"path"
	"sort"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/teranos/ctorgen/diag"
	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/lower"
)

// Header is the first line of every generated file. Tools recognize
// generated files by it.
const Header = "// Code generated by ctorgen. DO NOT EDIT."

// State shape names. They are unexported so callers outside the package can
// chain a builder without being able to name or forge its states.
const (
	StateOptional = "ctorOptional"
	StateSet      = "ctorSet"
)

// Reserved lists the package-level identifiers every generated file declares
// regardless of its plans.
func Reserved() []string {
	return []string{StateOptional, StateSet}
}

// File renders the generated file of one package. Plans are emitted in the
// order given and must resolve to one import block; see Resolve.
func File(pkg string, plans []*lower.Plan) ([]byte, error) {
	specs, err := collectImports(plans)
	if err != nil {
		return nil, err
	}

	w := NewWriter()
	w.line(Header)
	w.blank()
	w.line("package %s", pkg)
	w.blank()
	if len(specs) > 0 {
		w.line("import (")
		for _, imp := range specs {
			if imp.Name != path.Base(imp.Path) {
				w.line("\t%s %q", imp.Name, imp.Path)
			} else {
				w.line("\t%q", imp.Path)
			}
		}
		w.line(")")
		w.blank()
	}

	w.line("// %s marks a collection argument.", StateOptional)
	w.line("type %s[T any] struct{}", StateOptional)
	w.blank()
	w.line("// %s marks an argument that has been set.", StateSet)
	w.line("type %s[T any] struct{}", StateSet)

	for _, p := range plans {
		w.blank()
		Emit(w, p)
	}

	src := w.Bytes()
	out, err := imports.Process("", src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to format generated source for package %s", pkg)
	}
	return out, nil
}

type importSpec struct {
	Name string
	Path string
}

// importSet maps the package names used by generated signatures to the
// import paths they resolve to.
type importSet map[string]string

// add records the imports plan p refers to, resolved against the imports of
// its declaring file. Nothing is recorded when p cannot be resolved.
func (s importSet) add(p *lower.Plan) error {
	known := make(map[string]string, len(p.Imports))
	for _, imp := range p.Imports {
		known[imp.Name] = imp.Path
	}
	resolved := make(map[string]string)
	for _, name := range qualifiers(p) {
		importPath, ok := known[name]
		if !ok {
			return diag.Newf(p.Pos, diag.KindExtract, "%s refers to package %s, which its file does not import", p.Delegate, name)
		}
		if prev, dup := s[name]; dup && prev != importPath {
			return diag.Newf(p.Pos, diag.KindCollision, "package name %s refers to both %q and %q", name, prev, importPath).
				WithSuggestion("alias one of the imports so the name is unambiguous across the package")
		}
		resolved[name] = importPath
	}
	for name, importPath := range resolved {
		s[name] = importPath
	}
	return nil
}

func (s importSet) specs() []importSpec {
	specs := make([]importSpec, 0, len(s))
	for name, importPath := range s {
		specs = append(specs, importSpec{Name: name, Path: importPath})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Path < specs[j].Path })
	return specs
}

// Resolve keeps the plans whose signatures can share one import block. A
// plan naming a package its file does not import, or a package name an
// earlier plan resolved to another path, is dropped and reported. Plans are
// expected in source order, so the first resolution wins.
func Resolve(plans []*lower.Plan) ([]*lower.Plan, []error) {
	set := make(importSet)
	var kept []*lower.Plan
	var errs []error
	for _, p := range plans {
		if err := set.add(p); err != nil {
			errs = append(errs, err)
			continue
		}
		kept = append(kept, p)
	}
	return kept, errs
}

// collectImports returns the imports referenced by the type expressions of
// the plans.
func collectImports(plans []*lower.Plan) ([]importSpec, error) {
	set := make(importSet)
	for _, p := range plans {
		if err := set.add(p); err != nil {
			return nil, err
		}
	}
	return set.specs(), nil
}

// qualifiers lists the package names used by the type expressions of a plan.
func qualifiers(p *lower.Plan) []string {
	var exprs []ast.Expr
	for _, tp := range p.Generics() {
		exprs = append(exprs, tp.Constraint)
	}
	for _, f := range p.Fields {
		exprs = append(exprs, f.Type)
	}
	exprs = append(exprs, p.Results...)
	exprs = append(exprs, p.AsyncType, p.Receiver.Type)

	seen := make(map[string]bool)
	var out []string
	for _, e := range exprs {
		if e == nil {
			continue
		}
		ast.Inspect(e, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if id, ok := sel.X.(*ast.Ident); ok && !seen[id.Name] {
				seen[id.Name] = true
				out = append(out, id.Name)
			}
			return false
		})
	}
	return out
}

// Writer accumulates generated source.
type Writer struct {
	sb strings.Builder
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the source written so far.
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

// String returns the source written so far.
func (w *Writer) String() string {
	return w.sb.String()
}

func (w *Writer) line(format string, args ...interface{}) {
	if len(args) == 0 {
		w.sb.WriteString(format)
	} else {
		w.sb.WriteString(fmt.Sprintf(format, args...))
	}
	w.sb.WriteByte('\n')
}

func (w *Writer) blank() {
	w.sb.WriteByte('\n')
}

func (w *Writer) doc(lines []string) {
	for _, l := range lines {
		if l == "" {
			w.line("//")
			continue
		}
		w.line("// %s", l)
	}
}
