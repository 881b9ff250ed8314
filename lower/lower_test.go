package lower

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ctorgen/descriptor"
	"github.com/teranos/ctorgen/diag"
	"github.com/teranos/ctorgen/errors"
)

func expr(t *testing.T, s string) ast.Expr {
	t.Helper()
	e, err := parser.ParseExpr(s)
	require.NoError(t, err, s)
	return e
}

func str(e ast.Expr) string {
	if e == nil {
		return ""
	}
	return types.ExprString(e)
}

// factory builds a receiverless descriptor from "name type" pairs.
func factory(t *testing.T, name string, params ...string) *descriptor.Factory {
	t.Helper()
	f := &descriptor.Factory{
		Pos:      token.Position{Filename: "shop.go", Line: 10, Column: 1},
		Name:     name,
		Target:   "Server",
		Exported: token.IsExported(name),
		Config:   descriptor.Config{WithInto: true},
		Results:  []ast.Expr{expr(t, "*Server")},
	}
	for i := 0; i+1 < len(params); i += 2 {
		f.Params = append(f.Params, descriptor.Param{Name: params[i], Type: expr(t, params[i+1])})
	}
	return f
}

func TestClassify(t *testing.T) {
	tests := []struct {
		typ   string
		kind  Kind
		elem  string
		key   string
		value string
	}{
		{"string", KindRequired, "", "", ""},
		{"*time.Duration", KindOptional, "time.Duration", "", ""},
		{"(*int)", KindOptional, "int", "", ""},
		{"[]string", KindSequence, "string", "", ""},
		{"[4]byte", KindRequired, "", "", ""},
		{"map[string]struct{}", KindSet, "string", "", ""},
		{"map[string]int", KindMap, "", "string", "int"},
		{"sets.Set[string]", KindSet, "string", "", ""},
		{"TagSet[Tag]", KindSet, "Tag", "", ""},
		{"OrderedMap[string, []int]", KindMap, "", "string", "[]int"},
		{"Stack[int]", KindSequence, "int", "", ""},
		{"ring.RingBuffer[byte]", KindSequence, "byte", "", ""},
		{"TaskQueue[Task]", KindSequence, "Task", "", ""},
		{"IntSet", KindRequired, "", "", ""},
		{"sync.Map", KindRequired, "", "", ""},
		{"Pair[K, V]", KindRequired, "", "", ""},
		{"chan int", KindRequired, "", "", ""},
		{"func() error", KindRequired, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			s := Classify(expr(t, tt.typ))
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.elem, str(s.Elem))
			assert.Equal(t, tt.key, str(s.Key))
			assert.Equal(t, tt.value, str(s.Value))
		})
	}
}

func TestEligible(t *testing.T) {
	generics := map[string]bool{"T": true}
	tests := map[string]bool{
		"Address":     true,
		"net.IP":      true,
		"(Address)":   true,
		"string":      false,
		"int64":       false,
		"bool":        false,
		"any":         false,
		"error":       false,
		"T":           false,
		"Box[int]":    false,
		"[]Address":   false,
		"map[int]int": false,
		"func()":      false,
		"interface{}": false,
	}
	for typ, want := range tests {
		assert.Equal(t, want, Eligible(expr(t, typ), generics), typ)
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "sequence", KindSequence.String())
	assert.True(t, KindMap.Collection())
	assert.False(t, KindOptional.Collection())
	b, err := KindSet.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "set", string(b))
}

type names struct {
	Entry, Exit, Type string
}

func namesOf(p *Plan) names {
	return names{p.Entry, p.Exit, p.TypeName}
}

func TestLowerDefaultNames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*descriptor.Factory)
		want   names
	}{
		{"New", nil, names{"NewBuilder", "Build", "serverBuilder"}},
		{"new", nil, names{"newBuilder", "build", "serverBuilder"}},
		{"NewHTTPServer", nil, names{"NewHTTPServerBuilder", "BuildHTTPServer", "httpServerBuilder"}},
		{"newServer", nil, names{"newServerBuilder", "buildServer", "serverBuilder"}},
		{"MakeServer", func(f *descriptor.Factory) { f.Config.Entry = "NewCartBuilder" },
			names{"NewCartBuilder", "BuildCart", "cartBuilder"}},
		{"MakeServer", func(f *descriptor.Factory) { f.Config.Entry = "Builder" },
			names{"Builder", "BuildServer", "serverBuilder"}},
		{"NewServer", func(f *descriptor.Factory) { f.Config.Exit = "Launch" },
			names{"NewServerBuilder", "Launch", "serverBuilder"}},
		{"newServer", func(f *descriptor.Factory) { f.Config.Visibility = descriptor.VisibilityExported },
			names{"NewServerBuilder", "BuildServer", "ServerBuilder"}},
		{"NewServer", func(f *descriptor.Factory) { f.Config.Visibility = descriptor.VisibilityUnexported },
			names{"newServerBuilder", "buildServer", "serverBuilder"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := factory(t, tt.name, "addr", "string")
			if tt.mutate != nil {
				tt.mutate(f)
			}
			p, err := Lower(f)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, namesOf(p)); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLowerReceiverNames(t *testing.T) {
	f := factory(t, "Send", "to", "string")
	f.Target = "Client"
	f.Receiver = descriptor.Receiver{Mode: descriptor.ReceiverByMutableBorrow, Name: "c", Type: expr(t, "Client")}

	_, err := Lower(f)
	require.Error(t, err)
	var d *diag.Error
	require.True(t, errors.As(err, &d))
	assert.Equal(t, diag.KindNaming, d.Kind)
	assert.Equal(t, 10, d.Pos.Line)
	assert.Contains(t, d.Message, "cannot be defaulted for method Client.Send")

	f.Config.Entry = "Message"
	p, err := Lower(f)
	require.NoError(t, err)
	assert.Equal(t, names{"Message", "CallMessage", "clientMessageBuilder"}, namesOf(p))
	assert.Equal(t, descriptor.ReceiverByMutableBorrow, p.Receiver.Mode)
}

func TestLowerUnresolvableEntry(t *testing.T) {
	_, err := Lower(factory(t, "MakeServer", "addr", "string"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shop.go:10:1: builder entry name cannot be defaulted for func MakeServer")
}

func TestLowerEntryEqualsExit(t *testing.T) {
	f := factory(t, "NewServer", "addr", "string")
	f.Config.Exit = "NewServerBuilder"
	_, err := Lower(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry and exit of NewServer are both named NewServerBuilder")
}

func TestLowerFields(t *testing.T) {
	f := factory(t, "NewServer",
		"_name", "string",
		"home", "Address",
		"timeout", "*time.Duration",
		"addresses", "[]Address",
		"sheep", "map[string]struct{}",
		"ages", "map[Name]int",
		"type", "string",
	)
	p, err := Lower(f)
	require.NoError(t, err)
	require.Len(t, p.Fields, 7)

	name := p.Fields[0]
	assert.Equal(t, "name", name.Name)
	assert.Equal(t, "Name", name.Setter)
	assert.Equal(t, KindRequired, name.Kind)
	assert.False(t, name.Into.Any())
	assert.Equal(t, "S0", name.State)

	home := p.Fields[1]
	assert.True(t, home.Into.Type)
	assert.Equal(t, []string{"Home", "HomeFrom"}, home.Methods())

	timeout := p.Fields[2]
	assert.Equal(t, KindOptional, timeout.Kind)
	assert.True(t, timeout.Into.Type)
	assert.Equal(t, []string{"Timeout", "AndTimeout", "TimeoutFrom"}, timeout.Methods())

	addresses := p.Fields[3]
	assert.Equal(t, "Address", addresses.Singular)
	assert.True(t, addresses.Into.Elem)
	assert.Equal(t, []string{"Addresses", "Address", "AddressFrom"}, addresses.Methods())

	sheep := p.Fields[4]
	assert.Equal(t, KindSet, sheep.Kind)
	assert.Equal(t, "SheepEntry", sheep.Singular)
	assert.Equal(t, []string{"Sheep", "SheepEntry"}, sheep.Methods())

	ages := p.Fields[5]
	assert.Equal(t, "Age", ages.Singular)
	assert.Equal(t, Into{Key: true}, ages.Into)

	typ := p.Fields[6]
	assert.Equal(t, "type_", typ.Param)
	assert.Equal(t, "Type", typ.Setter)
}

func TestLowerWithIntoDisabled(t *testing.T) {
	f := factory(t, "NewServer", "home", "Address", "others", "[]Address")
	f.Config.WithInto = false
	p, err := Lower(f)
	require.NoError(t, err)
	for _, field := range p.Fields {
		assert.False(t, field.Into.Any(), field.Name)
	}
	assert.Equal(t, []string{"Home", "Others", "Other"}, p.Methods())
}

func TestLowerSetterCollision(t *testing.T) {
	_, err := Lower(factory(t, "NewServer", "tag", "string", "tags", "[]string"))
	require.Error(t, err)
	var d *diag.Error
	require.True(t, errors.As(err, &d))
	assert.Equal(t, diag.KindCollision, d.Kind)
	assert.Contains(t, d.Message, "parameters tag and tags of NewServer both produce setter Tag")
}

func TestLowerGenerics(t *testing.T) {
	f := factory(t, "NewBox", "item", "T", "extra", "S0", "others", "[]T")
	f.TypeParams = []descriptor.TypeParam{
		{Name: "T", Constraint: expr(t, "any")},
		{Name: "S0", Constraint: expr(t, "comparable")},
	}
	p, err := Lower(f)
	require.NoError(t, err)

	assert.Equal(t, "S0_", p.Fields[0].State)
	assert.Equal(t, "S1", p.Fields[1].State)
	assert.False(t, p.Fields[0].Into.Type, "type parameters are never conversion targets")
	assert.False(t, p.Fields[2].Into.Elem)
	require.Len(t, p.Generics(), 2)
}

func TestLowerStateAvoidsPackageTypes(t *testing.T) {
	f := factory(t, "NewServer", "first", "S1", "second", "map[string]S0_", "third", "string")
	p, err := Lower(f)
	require.NoError(t, err)

	assert.Equal(t, "S0", p.Fields[0].State)
	assert.Equal(t, "S1_", p.Fields[1].State)
	assert.Equal(t, "S2", p.Fields[2].State)
}

func TestLowerStateAvoidsResultTypes(t *testing.T) {
	f := factory(t, "NewServer", "addr", "string")
	f.Results = []ast.Expr{expr(t, "S0"), expr(t, "error")}
	p, err := Lower(f)
	require.NoError(t, err)
	assert.Equal(t, "S0_", p.Fields[0].State)
}

func TestLowerConstructorDoc(t *testing.T) {
	f := factory(t, "NewOptions", "currency", "string", "timeout", "*time.Duration", "coupons", "[]string")
	f.Target = "Options"
	f.Params[0].Doc = []string{"ISO 4217 code."}
	f.Params[1].Doc = []string{"Give up after", "this long."}
	f.Literal = &descriptor.Literal{Fields: []string{"Currency", "Timeout", "Coupons"}}

	p, err := Lower(f)
	require.NoError(t, err)
	want := []string{
		"NewOptions creates a new Options.",
		"",
		"Arguments:",
		"  - currency: ISO 4217 code.",
		"  - timeout: Give up after this long. (optional)",
		"  - coupons",
	}
	assert.Equal(t, want, p.ConstructorDoc)
	assert.Equal(t, names{"NewOptionsBuilder", "BuildOptions", "optionsBuilder"}, namesOf(p))
}
