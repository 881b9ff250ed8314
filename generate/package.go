package generate

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/ctorgen/descriptor"
	"github.com/teranos/ctorgen/diag"
	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/logger"
	"github.com/teranos/ctorgen/lower"
	"github.com/teranos/ctorgen/synth"
)

// Context carries the state of one package through extraction, lowering and
// synthesis.
type Context struct {
	Pkg   *packages.Package
	Opts  Options
	Diags *diag.Handler

	names map[string]string
	dir   string
}

func newContext(pkg *packages.Package, opts Options, names map[string]string) *Context {
	dir := pkg.Dir
	if dir == "" && len(pkg.GoFiles) > 0 {
		dir = filepath.Dir(pkg.GoFiles[0])
	}
	return &Context{
		Pkg:   pkg,
		Opts:  opts,
		Diags: diag.NewHandler(),
		names: names,
		dir:   dir,
	}
}

type sourceFile struct {
	path string
	file *ast.File
}

func (c *Context) process() *Result {
	r := &Result{
		PkgPath: c.Pkg.PkgPath,
		Name:    c.Pkg.Name,
		Dir:     c.dir,
		Output:  filepath.Join(c.dir, c.Opts.Output),
		Diags:   c.Diags,
	}
	log := c.Opts.Log.With(logger.FieldPackage, c.Pkg.PkgPath)

	if len(c.Pkg.Errors) > 0 {
		for _, e := range c.Pkg.Errors {
			c.Diags.Report(diag.New(parsePos(e.Pos), diag.KindLoad, e.Msg))
		}
		r.Skipped = true
		return r
	}
	if !c.supportedGo() {
		r.Skipped = true
		return r
	}

	files := c.files()
	sc := newScope(files)

	var plans []*lower.Plan
	for _, sf := range files {
		if c.excluded(sf.path) {
			log.Debugw("skipping excluded file", logger.FieldFile, sf.path)
			continue
		}
		src := descriptor.Source{
			Fset:        c.Pkg.Fset,
			File:        sf.file,
			PackageName: c.packageName,
			LookupType:  sc.lookupType,
		}
		factories, errs := descriptor.Scan(src, descriptor.ScanOptions{
			AutoDetect: c.Opts.AutoDetect,
			Defaults:   descriptor.Config{WithInto: c.Opts.WithInto},
		})
		for _, err := range errs {
			c.Diags.Report(err)
		}
		for _, f := range factories {
			p, err := lower.Lower(f)
			if err != nil {
				c.Diags.Report(err)
				continue
			}
			if logger.ShouldLogTrace(logger.Verbosity) {
				log.Debugw("lowered factory", logger.FieldFactory, f.Name, logger.FieldFile, sf.path, "type", p.TypeName)
			}
			plans = append(plans, p)
		}
	}

	sort.SliceStable(plans, func(i, j int) bool { return positionLess(plans[i].Pos, plans[j].Pos) })
	plans = c.claim(plans, sc)
	plans, errs := synth.Resolve(plans)
	for _, err := range errs {
		c.Diags.Report(err)
	}
	if len(plans) == 0 {
		return r
	}

	out, err := synth.File(c.Pkg.Name, plans)
	if err != nil {
		c.Diags.Report(err)
		return r
	}
	r.Plans = plans
	r.Source = out

	log.Debugw("package generated", logger.FieldBuilders, len(plans), logger.FieldDiags, c.Diags.Len())
	return r
}

// files returns the parsed files of the package, without the generated
// output file.
func (c *Context) files() []sourceFile {
	var out []sourceFile
	for _, f := range c.Pkg.Syntax {
		path := c.Pkg.Fset.File(f.Pos()).Name()
		if filepath.Base(path) == c.Opts.Output {
			continue
		}
		out = append(out, sourceFile{path: path, file: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

func (c *Context) excluded(path string) bool {
	if len(c.Opts.Exclude) == 0 {
		return false
	}
	base := c.Opts.Dir
	if base == "" {
		base = "."
	}
	abs, err := filepath.Abs(base)
	if err == nil {
		if rel, err := filepath.Rel(abs, path); err == nil {
			path = rel
		}
	}
	path = filepath.ToSlash(path)
	for _, pattern := range c.Opts.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func (c *Context) packageName(importPath string) string {
	return c.names[importPath]
}

// supportedGo reports whether the module's go directive allows generics.
func (c *Context) supportedGo() bool {
	mod := c.Pkg.Module
	if mod == nil || mod.GoVersion == "" || c.Opts.MinGo == nil {
		return true
	}
	v, err := semver.NewVersion(mod.GoVersion)
	if err != nil {
		c.Opts.Log.Debugw("unparsable go directive", "go", mod.GoVersion, logger.FieldError, err)
		return true
	}
	if !v.LessThan(c.Opts.MinGo) {
		return true
	}
	pos := token.Position{Filename: mod.GoMod}
	c.Diags.Report(diag.Newf(pos, diag.KindLoad,
		"module %s declares go %s; builders need go %s or later", mod.Path, mod.GoVersion, c.Opts.MinGo.Original()).
		WithSuggestion("raise the go directive in go.mod").
		WithUnderlying(errors.ErrUnsupportedGo))
	return false
}

// scope indexes the identifiers a package already declares outside the
// generated file.
type scope struct {
	types   map[string]*ast.TypeSpec
	top     map[string]token.Pos
	members map[string]map[string]token.Pos // type name -> fields and methods
}

func newScope(files []sourceFile) *scope {
	s := &scope{
		types:   make(map[string]*ast.TypeSpec),
		top:     make(map[string]token.Pos),
		members: make(map[string]map[string]token.Pos),
	}
	for _, sf := range files {
		for _, decl := range sf.file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) == 0 {
					if d.Name.Name != "init" {
						s.top[d.Name.Name] = d.Name.Pos()
					}
					continue
				}
				recv := d.Recv.List[0].Type
				if star, ok := recv.(*ast.StarExpr); ok {
					recv = star.X
				}
				s.member(descriptor.BaseName(recv), d.Name.Name, d.Name.Pos())

			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch sp := spec.(type) {
					case *ast.TypeSpec:
						s.top[sp.Name.Name] = sp.Name.Pos()
						s.types[sp.Name.Name] = sp
						if st, ok := sp.Type.(*ast.StructType); ok {
							for _, field := range st.Fields.List {
								for _, n := range field.Names {
									s.member(sp.Name.Name, n.Name, n.Pos())
								}
								if len(field.Names) == 0 {
									s.member(sp.Name.Name, descriptor.BaseName(field.Type), field.Pos())
								}
							}
						}
					case *ast.ValueSpec:
						for _, n := range sp.Names {
							s.top[n.Name] = n.Pos()
						}
					}
				}
			}
		}
	}
	return s
}

func (s *scope) member(typeName, name string, pos token.Pos) {
	if name == "_" || name == "" {
		return
	}
	m, ok := s.members[typeName]
	if !ok {
		m = make(map[string]token.Pos)
		s.members[typeName] = m
	}
	m[name] = pos
}

func (s *scope) lookupType(name string) *ast.TypeSpec {
	return s.types[name]
}

// claimName is one identifier a plan adds to the package. Owner is "" for
// package-level identifiers and the receiver type for methods.
type claimName struct {
	Owner string
	Name  string
	What  string
}

func claims(p *lower.Plan) []claimName {
	out := []claimName{
		{Name: p.TypeName, What: "builder type"},
		{Name: p.Exit, What: "builder exit"},
	}
	if p.Receiver.Mode == descriptor.ReceiverNone {
		out = append(out, claimName{Name: p.Entry, What: "builder entry"})
	} else {
		out = append(out, claimName{Owner: p.Target, Name: p.Entry, What: "builder entry method"})
	}
	if p.Literal != nil {
		out = append(out, claimName{Name: p.Delegate, What: "derived constructor"})
	}
	return out
}

// claim drops every plan that would declare an identifier the package
// already has, or one an earlier plan has claimed. Plans are expected in
// source order, so the first declaration wins.
func (c *Context) claim(plans []*lower.Plan, sc *scope) []*lower.Plan {
	fset := c.Pkg.Fset
	reserved := make(map[string]bool)
	for _, name := range synth.Reserved() {
		reserved[name] = true
	}
	taken := make(map[claimName]*lower.Plan)

	var kept []*lower.Plan
	for _, p := range plans {
		var conflict string
		for _, cl := range claims(p) {
			key := claimName{Owner: cl.Owner, Name: cl.Name}
			switch {
			case reserved[cl.Name] && cl.Owner == "":
				conflict = fmt.Sprintf("%s %s of %s uses a name reserved for generated state types", cl.What, cl.Name, p.Delegate)
			case cl.Owner == "" && sc.top[cl.Name].IsValid():
				conflict = fmt.Sprintf("%s %s of %s collides with %s declared at %s", cl.What, cl.Name, p.Delegate, cl.Name, fset.Position(sc.top[cl.Name]))
			case cl.Owner != "" && sc.members[cl.Owner][cl.Name].IsValid():
				conflict = fmt.Sprintf("%s %s of %s collides with %s.%s declared at %s", cl.What, cl.Name, p.Delegate, cl.Owner, cl.Name, fset.Position(sc.members[cl.Owner][cl.Name]))
			case taken[key] != nil:
				other := taken[key]
				conflict = fmt.Sprintf("%s %s of %s is also generated for %s at %s", cl.What, cl.Name, p.Delegate, other.Delegate, other.Pos)
			}
			if conflict != "" {
				break
			}
		}
		if conflict != "" {
			c.Diags.Report(diag.New(p.Pos, diag.KindCollision, conflict).
				WithSuggestion("rename it with entry=Name or exit=Name in the directive"))
			continue
		}
		for _, cl := range claims(p) {
			taken[claimName{Owner: cl.Owner, Name: cl.Name}] = p
		}
		kept = append(kept, p)
	}
	return kept
}

func positionLess(a, b token.Position) bool {
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// parsePos parses the "file:line:col" form go/packages uses for error
// positions.
func parsePos(s string) token.Position {
	var pos token.Position
	rest := s
	var nums []int
	for len(nums) < 2 {
		i := strings.LastIndex(rest, ":")
		if i < 0 {
			break
		}
		n, err := strconv.Atoi(rest[i+1:])
		if err != nil {
			break
		}
		nums = append(nums, n)
		rest = rest[:i]
	}
	switch len(nums) {
	case 2:
		pos.Line, pos.Column = nums[1], nums[0]
	case 1:
		pos.Line = nums[0]
	}
	if rest != "-" {
		pos.Filename = rest
	}
	return pos
}
