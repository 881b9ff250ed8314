package generate

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/tools/go/packages"

	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/logger"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedModule

// Load parses the packages matched by opts.Patterns. Type information is not
// requested: extraction is purely syntactic, so a package whose generated
// file is stale or missing still loads. Existing generated files are
// replaced by an empty file in an overlay so that a corrupt one cannot block
// its own regeneration.
func Load(ctx context.Context, opts Options) ([]*packages.Package, error) {
	overlay, err := outputOverlay(ctx, opts)
	if err != nil {
		return nil, err
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     opts.Dir,
		Tests:   false,
		Overlay: overlay,
	}

	pkgs, err := packages.Load(cfg, opts.Patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %v", opts.Patterns)
	}

	var out []*packages.Package
	for _, pkg := range pkgs {
		if len(pkg.Syntax) == 0 && len(pkg.Errors) == 0 {
			continue
		}
		out = append(out, pkg)
	}
	if len(out) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrNoPackages, "patterns %v", opts.Patterns),
			"run ctorgen inside a Go module, or pass package patterns such as ./...")
	}

	opts.Log.Debugw("loaded packages", "count", len(out), logger.FieldPattern, opts.Patterns)
	return out, nil
}

// outputOverlay lists the generated files of the matched packages.
func outputOverlay(ctx context.Context, opts Options) (map[string][]byte, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
		Dir:     opts.Dir,
	}
	pkgs, err := packages.Load(cfg, opts.Patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list packages %v", opts.Patterns)
	}

	overlay := make(map[string][]byte)
	for _, pkg := range pkgs {
		for _, f := range pkg.GoFiles {
			if filepath.Base(f) == opts.Output && pkg.Name != "" {
				overlay[f] = []byte("package " + pkg.Name + "\n")
			}
		}
	}
	return overlay, nil
}

// packageNames resolves the package name of every non-aliased import of the
// loaded packages. Import paths whose last element differs from the package
// name (gopkg.in/yaml.v3, github.com/x/go-foo) need this to qualify types in
// the generated file correctly. Failure only costs precision: the name is
// then guessed from the path.
func packageNames(ctx context.Context, opts Options, pkgs []*packages.Package) map[string]string {
	seen := make(map[string]bool)
	var paths []string
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			for _, spec := range file.Imports {
				if spec.Name != nil {
					continue
				}
				p, err := strconv.Unquote(spec.Path.Value)
				if err != nil || seen[p] {
					continue
				}
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	names := make(map[string]string, len(paths))
	if len(paths) == 0 {
		return names
	}
	sort.Strings(paths)

	cfg := &packages.Config{Context: ctx, Mode: packages.NeedName, Dir: opts.Dir}
	imported, err := packages.Load(cfg, paths...)
	if err != nil {
		opts.Log.Warnw("failed to resolve imported package names", logger.FieldError, err)
		return names
	}
	for _, p := range imported {
		if p.Name != "" {
			names[p.PkgPath] = p.Name
		}
	}
	return names
}
