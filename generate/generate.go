// Package generate drives builder generation over Go packages.
//
// Run loads the packages matched by a set of patterns, scans every file for
// annotated declarations, lowers them into builder plans, rejects plans whose
// names collide with each other or with the package, and renders one
// generated file per package. Packages are processed concurrently; within a
// package the pipeline is sequential and every problem is collected in the
// package's diag.Handler instead of aborting the run.
package generate

import (
	"context"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/ctorgen/config"
	"github.com/teranos/ctorgen/diag"
	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/logger"
	"github.com/teranos/ctorgen/lower"
)

// Options controls one generation run.
type Options struct {
	// Dir is the directory patterns are resolved in; "" means the working
	// directory.
	Dir      string
	Patterns []string

	Output     string
	AutoDetect bool
	WithInto   bool
	Exclude    []string
	Jobs       int
	MinGo      *semver.Version

	Log *zap.SugaredLogger
}

// OptionsFromConfig maps the [generate] section of cfg onto Options.
func OptionsFromConfig(cfg *config.Config, dir string, patterns []string) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	minGo, err := cfg.MinGoVersion()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Dir:        dir,
		Patterns:   patterns,
		Output:     cfg.Generate.Output,
		AutoDetect: cfg.Generate.AutoDetect,
		WithInto:   cfg.Generate.WithInto,
		Exclude:    cfg.Generate.Exclude,
		Jobs:       cfg.Generate.Jobs,
		MinGo:      minGo,
	}, nil
}

func (o *Options) setDefaults() {
	if len(o.Patterns) == 0 {
		o.Patterns = []string{"."}
	}
	if o.Output == "" {
		o.Output = config.DefaultOutput
	}
	if o.Jobs < 1 {
		o.Jobs = 1
	}
	if o.Log == nil {
		o.Log = logger.Named("generate")
	}
}

// Result is the outcome of generation for one package.
type Result struct {
	PkgPath string
	Name    string
	Dir     string
	// Output is the absolute path of the generated file.
	Output string
	// Source is the generated file, or nil when the package has no builders.
	Source []byte
	Plans  []*lower.Plan
	Diags  *diag.Handler
	// Skipped is set when the package could not be processed at all; its
	// existing generated file is left alone.
	Skipped bool
}

// Run generates builders in memory for every matched package. The returned
// error covers loading failures only; per-declaration problems are in each
// Result's Diags.
func Run(ctx context.Context, opts Options) ([]*Result, error) {
	opts.setDefaults()
	start := time.Now()

	pkgs, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	names := packageNames(ctx, opts, pkgs)

	results := make([]*Result, len(pkgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pc := newContext(pkg, opts, names)
			results[i] = pc.process()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "generation cancelled")
	}

	sort.Slice(results, func(i, j int) bool { return results[i].PkgPath < results[j].PkgPath })

	builders, diags := 0, 0
	for _, r := range results {
		builders += len(r.Plans)
		diags += r.Diags.Len()
	}
	opts.Log.Infow("generated builders",
		logger.FieldBuilders, builders,
		logger.FieldDiags, diags,
		"packages", len(results),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return results, nil
}

// Diagnostics returns every diagnostic of results, errors first.
func Diagnostics(results []*Result) (errs, warnings []*diag.Error) {
	for _, r := range results {
		errs = append(errs, r.Diags.Errors()...)
		warnings = append(warnings, r.Diags.Warnings()...)
	}
	return errs, warnings
}
