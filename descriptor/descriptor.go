// Package descriptor extracts factory descriptors from Go declarations.
//
// A Factory is the structured shape of one constructor-like function: its
// name, generics, ordered parameters, results, receiver and the options
// given in its //ctorgen:builder directive. Descriptors are built once per
// declaration and never mutated afterwards; the lower package turns them
// into builder plans.
//
// Two directives select declarations:
//
//	//ctorgen:builder [entry=Name] [exit=Name] [visibility=exported|unexported] [with_into=bool]
//	func NewServer(addr string, timeout *time.Duration) (*Server, error)
//
//	//ctorgen:derive [same options]
//	type Options struct { ... }
//
// The derive form synthesizes a trivial constructor whose parameters are the
// struct's fields, carrying field comments through as parameter docs.
package descriptor

import (
	"go/ast"
	"go/token"
)

// ReceiverMode describes how a factory's receiver is captured by its builder.
type ReceiverMode int

const (
	ReceiverNone ReceiverMode = iota
	ReceiverByValue
	ReceiverByImmutableBorrow
	ReceiverByMutableBorrow
)

func (m ReceiverMode) String() string {
	switch m {
	case ReceiverNone:
		return "none"
	case ReceiverByValue:
		return "by-value"
	case ReceiverByImmutableBorrow:
		return "by-immutable-borrow"
	case ReceiverByMutableBorrow:
		return "by-mutable-borrow"
	default:
		return "unknown"
	}
}

// Borrowed reports whether the receiver is captured through a pointer.
func (m ReceiverMode) Borrowed() bool {
	return m == ReceiverByImmutableBorrow || m == ReceiverByMutableBorrow
}

// ReturnMode describes the shape of a factory's results.
type ReturnMode int

const (
	ReturnDirect   ReturnMode = iota // zero results, or results without a trailing error/ok
	ReturnFallible                   // last result is error
	ReturnOptional                   // (T, bool) comma-ok
)

func (m ReturnMode) String() string {
	switch m {
	case ReturnDirect:
		return "direct"
	case ReturnFallible:
		return "fallible"
	case ReturnOptional:
		return "optional"
	default:
		return "unknown"
	}
}

// TypeParam is one declared type parameter.
type TypeParam struct {
	Name       string
	Constraint ast.Expr
}

// Param is one factory parameter in declaration order.
type Param struct {
	Name string
	// Type is the declared type. A variadic parameter ...E is recorded as []E
	// with Variadic set.
	Type     ast.Expr
	Variadic bool
	Doc      []string
}

// Receiver is the factory's receiver, if any.
type Receiver struct {
	Mode ReceiverMode
	Name string
	// Type is the receiver's base type without the pointer, e.g. Repo[T].
	Type ast.Expr
}

// Config holds the options of a //ctorgen:builder or //ctorgen:derive directive.
type Config struct {
	Entry      string
	Exit       string
	Visibility string
	WithInto   bool
	Pos        token.Position
}

// Visibility override values.
const (
	VisibilityExported   = "exported"
	VisibilityUnexported = "unexported"
)

// Literal marks a factory synthesized from a struct. Fields are the struct
// field names, index-aligned with Factory.Params.
type Literal struct {
	Fields []string
}

// Import is one import of the declaring file, keyed by the name it is
// referenced by in source.
type Import struct {
	Name  string // local name (alias or package name)
	Path  string
	Alias bool // Name was written explicitly in the import spec
}

// Factory is the structured descriptor of one annotated declaration.
type Factory struct {
	Pos token.Position

	// Target is the simple name of the type the factory builds or acts on.
	Target           string
	TargetTypeParams []TypeParam

	// Name is the delegate function or method name.
	Name       string
	TypeParams []TypeParam

	Params  []Param
	Results []ast.Expr
	Return  ReturnMode

	// Async is set when the first non-receiver parameter is a
	// context.Context; that parameter is not in Params and AsyncType holds
	// its type expression as written.
	Async     bool
	AsyncType ast.Expr

	Receiver Receiver
	Exported bool
	Config   Config
	Doc      []string
	Literal  *Literal
	Imports  []Import
}

// BaseName returns the simple name of a type expression: the identifier
// left after stripping pointers, parentheses, type arguments and package
// qualifiers. It returns "" for unnamed types.
func BaseName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return BaseName(t.X)
	case *ast.ParenExpr:
		return BaseName(t.X)
	case *ast.IndexExpr:
		return BaseName(t.X)
	case *ast.IndexListExpr:
		return BaseName(t.X)
	default:
		return ""
	}
}

// TypeArgs returns the type arguments of an instantiated type expression
// (X[A] or X[A, B]) and nil for anything else.
func TypeArgs(expr ast.Expr) []ast.Expr {
	switch t := expr.(type) {
	case *ast.IndexExpr:
		return []ast.Expr{t.Index}
	case *ast.IndexListExpr:
		return t.Indices
	case *ast.ParenExpr:
		return TypeArgs(t.X)
	default:
		return nil
	}
}
