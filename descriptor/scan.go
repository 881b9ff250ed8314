package descriptor

import (
	"go/ast"
	"go/token"

	"github.com/teranos/ctorgen/naming"
)

// ScanOptions controls which declarations Scan collects.
type ScanOptions struct {
	// AutoDetect treats receiverless functions named New, new, NewXxx or
	// newXxx as factories without a directive.
	AutoDetect bool
	// Defaults seeds every Config before directive options apply.
	Defaults Config
}

// Scan collects the factory descriptors of one file. A declaration whose
// directive or shape is invalid contributes an error instead of a
// descriptor; the remaining declarations are still scanned.
func Scan(src Source, opts ScanOptions) ([]*Factory, []error) {
	var (
		factories []*Factory
		errs      []error
	)

	add := func(f *Factory, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		factories = append(factories, f)
	}

	for _, decl := range src.File.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if c, ok := FindDirective(d.Doc, BuilderDirective); ok {
				cfg, err := ParseDirective(c.Text, src.position(c.Pos()), opts.Defaults)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				add(FromFunc(src, d, cfg))
				continue
			}
			if opts.AutoDetect && isConventionalConstructor(d) {
				cfg := opts.Defaults
				cfg.Pos = src.position(d.Pos())
				add(FromFunc(src, d, cfg))
			}

		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				c, ok := FindDirective(doc, DeriveDirective)
				if !ok {
					continue
				}
				cfg, err := ParseDirective(c.Text, src.position(c.Pos()), opts.Defaults)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				add(FromStruct(src, ts, doc, cfg))
			}
		}
	}
	return factories, errs
}

func isConventionalConstructor(d *ast.FuncDecl) bool {
	if d.Recv != nil || d.Body == nil {
		return false
	}
	if naming.IsConstructorKeyword(d.Name.Name) {
		return true
	}
	_, ok := naming.HasConstructorPrefix(d.Name.Name)
	return ok
}
