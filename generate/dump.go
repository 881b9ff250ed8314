package generate

import (
	"encoding/json"
	"go/types"

	"gopkg.in/yaml.v3"

	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/lower"
)

// PackagePlans is the inspectable form of one package's builder plans.
type PackagePlans struct {
	Package  string        `json:"package" yaml:"package"`
	Output   string        `json:"output" yaml:"output"`
	Builders []BuilderPlan `json:"builders" yaml:"builders"`
}

// BuilderPlan summarizes one lowered plan.
type BuilderPlan struct {
	Delegate string      `json:"delegate" yaml:"delegate"`
	Position string      `json:"position" yaml:"position"`
	Type     string      `json:"type" yaml:"type"`
	Entry    string      `json:"entry" yaml:"entry"`
	Exit     string      `json:"exit" yaml:"exit"`
	Receiver string      `json:"receiver,omitempty" yaml:"receiver,omitempty"`
	Return   string      `json:"return" yaml:"return"`
	Async    bool        `json:"async,omitempty" yaml:"async,omitempty"`
	Derived  bool        `json:"derived,omitempty" yaml:"derived,omitempty"`
	Fields   []FieldPlan `json:"fields" yaml:"fields"`
}

// FieldPlan summarizes one classified parameter.
type FieldPlan struct {
	Name    string     `json:"name" yaml:"name"`
	Type    string     `json:"type" yaml:"type"`
	Kind    lower.Kind `json:"kind" yaml:"kind"`
	Methods []string   `json:"methods" yaml:"methods,flow"`
}

// Plans converts results into their inspectable form. Packages without
// builders are omitted.
func Plans(results []*Result) []PackagePlans {
	var out []PackagePlans
	for _, r := range results {
		if len(r.Plans) == 0 {
			continue
		}
		pp := PackagePlans{Package: r.PkgPath, Output: r.Output}
		for _, p := range r.Plans {
			bp := BuilderPlan{
				Delegate: p.Delegate,
				Position: p.Pos.String(),
				Type:     p.TypeName,
				Entry:    p.Entry,
				Exit:     p.Exit,
				Return:   p.Return.String(),
				Async:    p.Async,
				Derived:  p.Literal != nil,
			}
			if p.Receiver.Type != nil {
				bp.Receiver = p.Receiver.Mode.String() + " " + types.ExprString(p.Receiver.Type)
			}
			for _, f := range p.Fields {
				bp.Fields = append(bp.Fields, FieldPlan{
					Name:    f.Name,
					Type:    types.ExprString(f.Type),
					Kind:    f.Kind,
					Methods: f.Methods(),
				})
			}
			pp.Builders = append(pp.Builders, bp)
		}
		out = append(out, pp)
	}
	return out
}

// MarshalPlans renders plans as "yaml" or "json".
func MarshalPlans(plans []PackagePlans, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		out, err := yaml.Marshal(plans)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal plans as yaml")
		}
		return out, nil
	case "json":
		out, err := json.MarshalIndent(plans, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal plans as json")
		}
		return append(out, '\n'), nil
	default:
		return nil, errors.WithHint(errors.Newf("unknown plan format %q", format), "use yaml or json")
	}
}
