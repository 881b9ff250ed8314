// Package lower turns factory descriptors into builder plans.
//
// Lowering classifies every parameter, derives setter, entry, exit and
// builder type names, resolves visibility and lays out the generic
// parameter list of the builder: the target's and the delegate's own type
// parameters followed by one phantom state parameter per field.
package lower

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/teranos/ctorgen/descriptor"
	"github.com/teranos/ctorgen/diag"
	"github.com/teranos/ctorgen/naming"
)

// Into records which type positions of a field get a conversion setter.
type Into struct {
	Type  bool // Required field type, Optional pointee
	Elem  bool // Sequence or Set element
	Key   bool
	Value bool
}

// Any reports whether any position is eligible.
func (i Into) Any() bool {
	return i.Type || i.Elem || i.Key || i.Value
}

// Field is one classified factory parameter.
type Field struct {
	Index int
	// Name is the parameter name with a leading underscore removed.
	Name string
	// Param is a safe local identifier for setter parameters.
	Param    string
	Type     ast.Expr
	Variadic bool
	Shape
	Into Into

	// Setter is the direct or bulk setter; Singular is the per-element
	// setter of collection fields.
	Setter   string
	Singular string
	// State is the name of the field's phantom type parameter.
	State string
	Doc   []string
}

// Plan is everything synthesis needs to emit one builder.
type Plan struct {
	Pos token.Position

	Delegate string
	Target   string
	TypeName string
	Entry    string
	Exit     string

	TargetTypeParams   []descriptor.TypeParam
	DelegateTypeParams []descriptor.TypeParam
	Fields             []Field

	Receiver  descriptor.Receiver
	Async     bool
	AsyncType ast.Expr
	Results   []ast.Expr
	Return    descriptor.ReturnMode

	Literal        *descriptor.Literal
	ConstructorDoc []string
	Doc            []string
	Imports        []descriptor.Import
}

// Generics returns the non-phantom type parameters of the builder: the
// target's followed by the delegate's.
func (p *Plan) Generics() []descriptor.TypeParam {
	out := make([]descriptor.TypeParam, 0, len(p.TargetTypeParams)+len(p.DelegateTypeParams))
	out = append(out, p.TargetTypeParams...)
	return append(out, p.DelegateTypeParams...)
}

// Methods lists every setter method name the builder will carry.
func (p *Plan) Methods() []string {
	var out []string
	for _, f := range p.Fields {
		out = append(out, f.Methods()...)
	}
	return out
}

// Methods lists the setter names of one field.
func (f Field) Methods() []string {
	switch f.Kind {
	case KindRequired:
		if f.Into.Type {
			return []string{f.Setter, f.Setter + "From"}
		}
		return []string{f.Setter}
	case KindOptional:
		out := []string{f.Setter, "And" + f.Setter}
		if f.Into.Type {
			out = append(out, f.Setter+"From")
		}
		return out
	case KindSequence, KindSet, KindMap:
		out := []string{f.Setter, f.Singular}
		if f.Into.Any() {
			out = append(out, f.Singular+"From")
		}
		return out
	default:
		return nil
	}
}

// Lower produces the builder plan of a factory.
func Lower(f *descriptor.Factory) (*Plan, error) {
	p := &Plan{
		Pos:                f.Pos,
		Delegate:           f.Name,
		Target:             f.Target,
		TargetTypeParams:   f.TargetTypeParams,
		DelegateTypeParams: f.TypeParams,
		Receiver:           f.Receiver,
		Async:              f.Async,
		AsyncType:          f.AsyncType,
		Results:            f.Results,
		Return:             f.Return,
		Literal:            f.Literal,
		Doc:                f.Doc,
		Imports:            f.Imports,
	}

	generics := make(map[string]bool)
	for _, tp := range p.Generics() {
		generics[tp.Name] = true
	}
	used := mentioned(f)

	for i, param := range f.Params {
		field := Field{
			Index:    i,
			Name:     naming.StripPrivate(param.Name),
			Type:     param.Type,
			Variadic: param.Variadic,
			Shape:    Classify(param.Type),
			Doc:      param.Doc,
		}
		field.Param = naming.SafeParam(field.Name, "b")
		field.Setter = naming.Pascal(field.Name)
		if field.Kind.Collection() {
			field.Singular = naming.Singular(field.Name)
		}
		if f.Config.WithInto {
			field.Into = eligibility(field.Shape, param.Type, generics)
		}
		field.State = phantomName(i, used)
		p.Fields = append(p.Fields, field)
	}

	if err := checkMethods(p); err != nil {
		return nil, err
	}

	if err := resolveNames(f, p); err != nil {
		return nil, err
	}

	if p.Literal != nil {
		p.ConstructorDoc = constructorDoc(p)
	}
	return p, nil
}

func eligibility(s Shape, declared ast.Expr, generics map[string]bool) Into {
	switch s.Kind {
	case KindRequired:
		return Into{Type: Eligible(declared, generics)}
	case KindOptional:
		return Into{Type: Eligible(s.Elem, generics)}
	case KindSequence, KindSet:
		return Into{Elem: Eligible(s.Elem, generics)}
	case KindMap:
		return Into{Key: Eligible(s.Key, generics), Value: Eligible(s.Value, generics)}
	default:
		return Into{}
	}
}

// phantomName names the state parameter of field i, avoiding every
// identifier in used.
func phantomName(i int, used map[string]bool) string {
	name := fmt.Sprintf("S%d", i)
	for used[name] {
		name += "_"
	}
	return name
}

// mentioned collects the identifiers the generated declarations of f refer
// to: type parameter names and every name in its type expressions. A state
// parameter sharing one of them would shadow it.
func mentioned(f *descriptor.Factory) map[string]bool {
	var exprs []ast.Expr
	for _, list := range [][]descriptor.TypeParam{f.TargetTypeParams, f.TypeParams} {
		for _, tp := range list {
			exprs = append(exprs, ast.NewIdent(tp.Name), tp.Constraint)
		}
	}
	for _, p := range f.Params {
		exprs = append(exprs, p.Type)
	}
	exprs = append(exprs, f.Results...)
	exprs = append(exprs, f.AsyncType, f.Receiver.Type, ast.NewIdent(f.Name), ast.NewIdent(f.Target))

	out := make(map[string]bool)
	for _, e := range exprs {
		if e == nil {
			continue
		}
		ast.Inspect(e, func(n ast.Node) bool {
			if id, ok := n.(*ast.Ident); ok {
				out[id.Name] = true
			}
			return true
		})
	}
	return out
}

func checkMethods(p *Plan) error {
	owner := make(map[string]string)
	for _, f := range p.Fields {
		for _, m := range f.Methods() {
			if other, dup := owner[m]; dup {
				return diag.Newf(p.Pos, diag.KindCollision,
					"parameters %s and %s of %s both produce setter %s", other, f.Name, p.Delegate, m).
					WithSuggestion("rename one of the parameters")
			}
			owner[m] = f.Name
		}
	}
	return nil
}

// resolveNames fills Entry, Exit and TypeName.
//
//	New            -> NewBuilder,     Build,        <target>Builder
//	NewXxx         -> NewXxxBuilder,  BuildXxx,     xxxBuilder
//	method         -> entry required, Call<Entry>,  <recv><Entry>Builder
//	entry=E given  -> E,              Build<stem>,  <stem>Builder
//
// Lower-case factories get lower-case entry and exit names. A visibility
// override recases entry, exit and type name alike.
func resolveNames(f *descriptor.Factory, p *Plan) error {
	cfg := f.Config
	exported := f.Exported
	var stem string

	switch {
	case f.Receiver.Mode != descriptor.ReceiverNone:
		if cfg.Entry == "" {
			return diag.Newf(p.Pos, diag.KindNaming,
				"builder entry name cannot be defaulted for method %s.%s and must be given with entry=Name", f.Target, f.Name).
				WithSuggestion(fmt.Sprintf("//ctorgen:builder entry=%s", f.Name+"Builder"))
		}
		p.Entry = cfg.Entry
		stem = naming.Pascal(f.Target) + naming.Pascal(cfg.Entry)
		p.Exit = naming.Recase("Call", exported) + naming.Pascal(cfg.Entry)

	case cfg.Entry != "":
		p.Entry = cfg.Entry
		stem = entryStem(cfg.Entry)
		if stem == "" {
			stem = naming.Pascal(f.Target)
		}
		p.Exit = naming.Recase("Build", exported) + stem

	case naming.IsConstructorKeyword(f.Name):
		p.Entry = f.Name + "Builder"
		stem = naming.Pascal(f.Target)
		p.Exit = naming.Recase("Build", exported)

	default:
		rest, ok := naming.HasConstructorPrefix(f.Name)
		if !ok {
			return diag.Newf(p.Pos, diag.KindNaming,
				"builder entry name cannot be defaulted for func %s and must be given with entry=Name", f.Name).
				WithSuggestion("name the factory New or NewXxx, or add entry=Name to the //ctorgen:builder directive")
		}
		p.Entry = f.Name + "Builder"
		stem = rest
		p.Exit = naming.Recase("Build", exported) + rest
	}

	if cfg.Exit != "" {
		p.Exit = cfg.Exit
	}
	p.TypeName = naming.Recase(stem+"Builder", false)

	switch cfg.Visibility {
	case descriptor.VisibilityExported:
		p.Entry = naming.Recase(p.Entry, true)
		p.Exit = naming.Recase(p.Exit, true)
		p.TypeName = naming.Recase(p.TypeName, true)
	case descriptor.VisibilityUnexported:
		p.Entry = naming.Recase(p.Entry, false)
		p.Exit = naming.Recase(p.Exit, false)
		p.TypeName = naming.Recase(p.TypeName, false)
	}

	if p.Entry == p.Exit {
		return diag.Newf(p.Pos, diag.KindCollision, "entry and exit of %s are both named %s", f.Name, p.Entry).
			WithSuggestion("set exit=Name to a different identifier")
	}
	return nil
}

// entryStem removes a constructor prefix and a Builder suffix from an
// entry override: NewCartBuilder -> Cart, OrderBuilder -> Order.
func entryStem(entry string) string {
	stem := naming.Pascal(entry)
	if rest, ok := naming.HasConstructorPrefix(stem); ok {
		stem = rest
	}
	return strings.TrimSuffix(stem, "Builder")
}

func constructorDoc(p *Plan) []string {
	doc := []string{
		fmt.Sprintf("%s creates a new %s.", p.Delegate, p.Target),
		"",
		"Arguments:",
	}
	for _, f := range p.Fields {
		line := "  - " + f.Name
		if len(f.Doc) > 0 {
			line += ": " + strings.Join(f.Doc, " ")
		}
		if f.Kind == KindOptional {
			line += " (optional)"
		}
		doc = append(doc, line)
	}
	return doc
}
