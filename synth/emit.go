package synth

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"github.com/teranos/ctorgen/descriptor"
	"github.com/teranos/ctorgen/lower"
)

// Emit writes the declarations of one builder: the derived constructor for
// struct plans, the builder type, its setters, the entry and the exit.
func Emit(w *Writer, p *lower.Plan) {
	e := emitter{w: w, p: p}
	if p.Literal != nil {
		e.constructor()
		w.blank()
	}
	e.builderType()
	for _, f := range p.Fields {
		e.setters(f)
	}
	w.blank()
	e.entry()
	w.blank()
	e.exit()
}

type emitter struct {
	w *Writer
	p *lower.Plan
}

func typeString(expr ast.Expr) string {
	if expr == nil {
		return "any"
	}
	return types.ExprString(expr)
}

func typeParamDecl(params []descriptor.TypeParam) []string {
	out := make([]string, 0, len(params))
	for _, tp := range params {
		out = append(out, tp.Name+" "+typeString(tp.Constraint))
	}
	return out
}

func typeParamNames(params []descriptor.TypeParam) []string {
	out := make([]string, 0, len(params))
	for _, tp := range params {
		out = append(out, tp.Name)
	}
	return out
}

func bracket(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return "[" + strings.Join(list, ", ") + "]"
}

// instance renders the builder type with the given slot states.
func (e emitter) instance(states []string) string {
	args := append(typeParamNames(e.p.Generics()), states...)
	return e.p.TypeName + bracket(args)
}

func (e emitter) phantoms() []string {
	out := make([]string, len(e.p.Fields))
	for i, f := range e.p.Fields {
		out[i] = f.State
	}
	return out
}

// initialStates are the states a fresh builder starts in. An unset
// required slot is the argument type itself and an unset optional slot is
// its pointee: the setter takes a value of the slot's state, which stops
// accepting arguments once the slot is set.
func (e emitter) initialStates() []string {
	out := make([]string, len(e.p.Fields))
	for i, f := range e.p.Fields {
		switch f.Kind {
		case lower.KindRequired:
			out[i] = typeString(f.Type)
		case lower.KindOptional:
			out[i] = typeString(f.Elem)
		default:
			out[i] = fmt.Sprintf("%s[%s]", StateOptional, typeString(f.Type))
		}
	}
	return out
}

// setState is the state a required or optional slot moves to once set.
func setState(f lower.Field) string {
	return fmt.Sprintf("%s[%s]", StateSet, typeString(f.Type))
}

func (e emitter) recvType() string {
	t := typeString(e.p.Receiver.Type)
	if e.p.Receiver.Mode.Borrowed() {
		return "*" + t
	}
	return t
}

func fieldName(f lower.Field) string {
	return fmt.Sprintf("f%d", f.Index)
}

func (e emitter) constructor() {
	p := e.p
	e.w.doc(p.ConstructorDoc)

	params := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		params[i] = f.Param + " " + typeString(f.Type)
	}
	result := p.Results[0]
	e.w.line("func %s%s(%s) %s {", p.Delegate, bracket(typeParamDecl(p.DelegateTypeParams)),
		strings.Join(params, ", "), typeString(result))

	literal := typeString(result)
	if star, ok := result.(*ast.StarExpr); ok {
		literal = "&" + typeString(star.X)
	}
	e.w.line("\treturn %s{", literal)
	for i, f := range p.Fields {
		e.w.line("\t\t%s: %s,", p.Literal.Fields[i], f.Param)
	}
	e.w.line("\t}")
	e.w.line("}")
}

func (e emitter) builderType() {
	p := e.p
	decl := typeParamDecl(p.Generics())
	if len(p.Fields) > 0 {
		decl = append(decl, strings.Join(e.phantoms(), ", ")+" any")
	}

	e.w.line("// %s collects the arguments of %s. Each setter returns a new", p.TypeName, p.Delegate)
	e.w.line("// value; a builder must not be used again after one of its setters ran.")
	e.w.line("type %s%s struct {", p.TypeName, bracket(decl))
	if p.Receiver.Mode != descriptor.ReceiverNone {
		e.w.line("\trecv %s", e.recvType())
	}
	for _, f := range p.Fields {
		e.w.line("\t%s %s", fieldName(f), typeString(f.Type))
	}
	e.w.line("}")
}

// method opens a setter declaration. next is the result state list.
func (e emitter) method(name, params string, next []string) {
	e.w.line("func (b %s) %s(%s) %s {", e.instance(e.phantoms()), name, params, e.instance(next))
}

func (e emitter) setters(f lower.Field) {
	self := e.phantoms()
	set := e.phantoms()
	set[f.Index] = setState(f)
	field := fieldName(f)
	typ := typeString(f.Type)

	convert := func(elem ast.Expr) string {
		return fmt.Sprintf("interface{ Convert() %s }", typeString(elem))
	}

	switch f.Kind {
	case lower.KindRequired:
		e.w.blank()
		e.setterDoc(f, fmt.Sprintf("%s sets %s. It accepts a value only while %s is unset.", f.Setter, f.Name, f.Name))
		e.method(f.Setter, "v "+f.State, set)
		e.w.line("\tb.%s, _ = any(v).(%s)", field, typ)
		e.w.line("\treturn %s(b)", e.instance(set))
		e.w.line("}")
		if f.Into.Type {
			e.w.blank()
			e.w.line("// %sFrom sets %s from a value that converts to %s.", f.Setter, f.Name, typ)
			e.method(f.Setter+"From", fmt.Sprintf("v interface{ Convert() %s }", f.State), set)
			e.w.line("\treturn b.%s(v.Convert())", f.Setter)
			e.w.line("}")
		}

	case lower.KindOptional:
		elem := typeString(f.Elem)
		e.w.blank()
		e.setterDoc(f, fmt.Sprintf("%s sets %s. It accepts a value only while %s is unset.", f.Setter, f.Name, f.Name))
		e.method(f.Setter, "v "+f.State, set)
		e.w.line("\tx, _ := any(v).(%s)", elem)
		e.w.line("\tb.%s = &x", field)
		e.w.line("\treturn %s(b)", e.instance(set))
		e.w.line("}")
		e.w.blank()
		e.w.line("// And%s sets %s from a pointer, which may be nil.", f.Setter, f.Name)
		e.method("And"+f.Setter, "v *"+f.State, set)
		e.w.line("\tb.%s, _ = any(v).(%s)", field, typ)
		e.w.line("\treturn %s(b)", e.instance(set))
		e.w.line("}")
		if f.Into.Type {
			e.w.blank()
			e.w.line("// %sFrom sets %s from a value that converts to %s.", f.Setter, f.Name, elem)
			e.method(f.Setter+"From", fmt.Sprintf("v interface{ Convert() %s }", f.State), set)
			e.w.line("\treturn b.%s(v.Convert())", f.Setter)
			e.w.line("}")
		}

	case lower.KindSequence:
		e.w.blank()
		e.setterDoc(f, fmt.Sprintf("%s appends all of v to %s.", f.Setter, f.Name))
		e.method(f.Setter, "v "+typ, self)
		e.w.line("\tb.%s = append(b.%s, v...)", field, field)
		e.w.line("\treturn b")
		e.w.line("}")
		e.w.blank()
		e.w.line("// %s appends one value to %s.", f.Singular, f.Name)
		e.method(f.Singular, "v "+typeString(f.Elem), self)
		e.w.line("\tb.%s = append(b.%s, v)", field, field)
		e.w.line("\treturn b")
		e.w.line("}")
		if f.Into.Elem {
			e.w.blank()
			e.w.line("// %sFrom appends a value that converts to %s.", f.Singular, typeString(f.Elem))
			e.method(f.Singular+"From", "v "+convert(f.Elem), self)
			e.w.line("\treturn b.%s(v.Convert())", f.Singular)
			e.w.line("}")
		}

	case lower.KindSet:
		e.w.blank()
		e.setterDoc(f, fmt.Sprintf("%s adds every member of v to %s.", f.Setter, f.Name))
		e.method(f.Setter, "v "+typ, self)
		e.alloc(field, typ)
		e.w.line("\tfor k := range v {")
		e.w.line("\t\tb.%s[k] = struct{}{}", field)
		e.w.line("\t}")
		e.w.line("\treturn b")
		e.w.line("}")
		e.w.blank()
		e.w.line("// %s adds one member to %s.", f.Singular, f.Name)
		e.method(f.Singular, "v "+typeString(f.Elem), self)
		e.alloc(field, typ)
		e.w.line("\tb.%s[v] = struct{}{}", field)
		e.w.line("\treturn b")
		e.w.line("}")
		if f.Into.Elem {
			e.w.blank()
			e.w.line("// %sFrom adds a member that converts to %s.", f.Singular, typeString(f.Elem))
			e.method(f.Singular+"From", "v "+convert(f.Elem), self)
			e.w.line("\treturn b.%s(v.Convert())", f.Singular)
			e.w.line("}")
		}

	case lower.KindMap:
		e.w.blank()
		e.setterDoc(f, fmt.Sprintf("%s copies every entry of v into %s.", f.Setter, f.Name))
		e.method(f.Setter, "v "+typ, self)
		e.alloc(field, typ)
		e.w.line("\tfor k, x := range v {")
		e.w.line("\t\tb.%s[k] = x", field)
		e.w.line("\t}")
		e.w.line("\treturn b")
		e.w.line("}")
		e.w.blank()
		e.w.line("// %s inserts or overwrites one entry of %s.", f.Singular, f.Name)
		e.method(f.Singular, fmt.Sprintf("k %s, v %s", typeString(f.Key), typeString(f.Value)), self)
		e.alloc(field, typ)
		e.w.line("\tb.%s[k] = v", field)
		e.w.line("\treturn b")
		e.w.line("}")
		if f.Into.Key || f.Into.Value {
			key, keyArg := "k "+typeString(f.Key), "k"
			if f.Into.Key {
				key, keyArg = "k "+convert(f.Key), "k.Convert()"
			}
			val, valArg := "v "+typeString(f.Value), "v"
			if f.Into.Value {
				val, valArg = "v "+convert(f.Value), "v.Convert()"
			}
			e.w.blank()
			e.w.line("// %sFrom inserts an entry from convertible values.", f.Singular)
			e.method(f.Singular+"From", key+", "+val, self)
			e.w.line("\treturn b.%s(%s, %s)", f.Singular, keyArg, valArg)
			e.w.line("}")
		}
	}
}

func (e emitter) setterDoc(f lower.Field, first string) {
	e.w.line("// %s", first)
	if len(f.Doc) > 0 {
		e.w.line("//")
		e.w.doc(f.Doc)
	}
}

func (e emitter) alloc(field, typ string) {
	e.w.line("\tif b.%s == nil {", field)
	e.w.line("\t\tb.%s = make(%s)", field, typ)
	e.w.line("\t}")
}

func (e emitter) entry() {
	p := e.p
	initial := e.instance(e.initialStates())

	e.w.line("// %s starts a builder for %s.", p.Entry, p.Delegate)
	if len(p.Doc) > 0 {
		e.w.line("//")
		e.w.doc(p.Doc)
	}

	if p.Receiver.Mode == descriptor.ReceiverNone {
		e.w.line("func %s%s() %s {", p.Entry, bracket(typeParamDecl(p.Generics())), initial)
		e.w.line("\treturn %s{}", initial)
		e.w.line("}")
		return
	}

	recv := p.Receiver.Name
	e.w.line("func (%s %s) %s() %s {", recv, e.recvType(), p.Entry, initial)
	e.w.line("\treturn %s{recv: %s}", initial, recv)
	e.w.line("}")
}

// finalStates pins every slot to the state the exit accepts. Optional slots
// become unconstrained type parameters: only the entry and the setters
// produce their states, and both set and unset are accepted.
func (e emitter) finalStates() (states, optional []string) {
	states = make([]string, len(e.p.Fields))
	for i, f := range e.p.Fields {
		switch f.Kind {
		case lower.KindRequired:
			states[i] = setState(f)
		case lower.KindOptional:
			states[i] = f.State
			optional = append(optional, f.State+" any")
		default:
			states[i] = fmt.Sprintf("%s[%s]", StateOptional, typeString(f.Type))
		}
	}
	return states, optional
}

func (e emitter) exit() {
	p := e.p
	states, optional := e.finalStates()
	tparams := append(typeParamDecl(p.Generics()), optional...)

	params := []string{}
	if p.Async {
		params = append(params, "ctx "+typeString(p.AsyncType))
	}
	params = append(params, "b "+e.instance(states))

	e.w.line("// %s calls %s with the arguments collected by b.", p.Exit, p.Delegate)
	e.w.line("func %s%s(%s)%s {", p.Exit, bracket(tparams), strings.Join(params, ", "), results(p.Results))

	for _, f := range p.Fields {
		if !f.Kind.Collection() {
			continue
		}
		e.w.line("\tif b.%s == nil {", fieldName(f))
		e.w.line("\t\tb.%s = %s{}", fieldName(f), typeString(f.Type))
		e.w.line("\t}")
	}

	var args []string
	if p.Async {
		args = append(args, "ctx")
	}
	for _, f := range p.Fields {
		arg := "b." + fieldName(f)
		if f.Variadic {
			arg += "..."
		}
		args = append(args, arg)
	}

	callee := p.Delegate + bracket(typeParamNames(p.DelegateTypeParams))
	if p.Receiver.Mode != descriptor.ReceiverNone {
		callee = "b.recv." + p.Delegate
	}
	call := fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", "))
	if len(p.Results) == 0 {
		e.w.line("\t%s", call)
	} else {
		e.w.line("\treturn %s", call)
	}
	e.w.line("}")
}

func results(list []ast.Expr) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return " " + typeString(list[0])
	default:
		out := make([]string, len(list))
		for i, r := range list {
			out[i] = typeString(r)
		}
		return " (" + strings.Join(out, ", ") + ")"
	}
}
