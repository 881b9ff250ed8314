package lower

import (
	"go/ast"
	"strings"

	"github.com/teranos/ctorgen/descriptor"
)

// Name suffixes recognized on instantiated named types. Matching is on the
// simple name only, so an unrelated type that happens to end in "Set" is
// treated as a set. The generated code then relies on the type's core type
// being a slice or map; a false match fails to compile in the generated
// file rather than misbehaving at run time.
var (
	sequenceSuffixes = []string{"List", "Seq", "Queue", "Deque", "Stack", "Heap", "Buffer"}
	setSuffixes      = []string{"Set"}
	mapSuffixes      = []string{"Map"}
)

// Shape is the result of classifying one declared type.
type Shape struct {
	Kind  Kind
	Elem  ast.Expr // Optional pointee, Sequence or Set element
	Key   ast.Expr // Map key
	Value ast.Expr // Map value
}

// Classify matches a declared type against the fixed decision table:
//
//	*T                         Optional(T)
//	[]E                        Sequence(E)
//	map[K]struct{}             Set(K)
//	map[K]V                    Map(K, V)
//	X[E]     X ends in List, Seq, Queue, Deque, Stack, Heap, Buffer  Sequence(E)
//	X[E]     X ends in Set     Set(E)
//	X[K, V]  X ends in Map     Map(K, V)
//	anything else              Required
//
// Named types need the right number of type arguments to match; a plain
// sync.Map or a non-generic IntSet is Required.
func Classify(expr ast.Expr) Shape {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return Classify(t.X)
	case *ast.StarExpr:
		return Shape{Kind: KindOptional, Elem: t.X}
	case *ast.ArrayType:
		if t.Len == nil {
			return Shape{Kind: KindSequence, Elem: t.Elt}
		}
		return Shape{Kind: KindRequired}
	case *ast.MapType:
		if isEmptyStruct(t.Value) {
			return Shape{Kind: KindSet, Elem: t.Key}
		}
		return Shape{Kind: KindMap, Key: t.Key, Value: t.Value}
	}

	name := descriptor.BaseName(expr)
	args := descriptor.TypeArgs(expr)
	switch {
	case len(args) == 1 && hasSuffix(name, sequenceSuffixes):
		return Shape{Kind: KindSequence, Elem: args[0]}
	case len(args) == 1 && hasSuffix(name, setSuffixes):
		return Shape{Kind: KindSet, Elem: args[0]}
	case len(args) == 2 && hasSuffix(name, mapSuffixes):
		return Shape{Kind: KindMap, Key: args[0], Value: args[1]}
	default:
		return Shape{Kind: KindRequired}
	}
}

func hasSuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func isEmptyStruct(expr ast.Expr) bool {
	st, ok := expr.(*ast.StructType)
	return ok && (st.Fields == nil || len(st.Fields.List) == 0)
}

// predeclared scalar and built-in interface types; none of them can gain
// methods, so a conversion setter for them would never be satisfiable by
// anything but wrapper types.
var predeclared = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"byte": true, "rune": true, "comparable": true,
}

// Eligible reports whether a type position gets a conversion setter. The
// type must be a named type without type arguments, must not be a
// predeclared type, and must not be one of the enclosing type parameters.
func Eligible(expr ast.Expr, generics map[string]bool) bool {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return Eligible(t.X, generics)
	case *ast.Ident:
		return !predeclared[t.Name] && !generics[t.Name]
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	default:
		return false
	}
}
