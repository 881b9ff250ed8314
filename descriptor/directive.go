package descriptor

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/ctorgen/diag"
	"github.com/teranos/ctorgen/naming"
)

// Directive prefixes recognized in doc comments.
const (
	BuilderDirective = "//ctorgen:builder"
	DeriveDirective  = "//ctorgen:derive"
)

const allowedOptions = "only 'entry' (string), 'exit' (string), 'visibility' (string) and 'with_into' (bool) are allowed"

// FindDirective returns the first comment in doc carrying the given
// directive prefix. The prefix must be followed by whitespace or the end of
// the comment, so //ctorgen:builders does not match //ctorgen:builder.
func FindDirective(doc *ast.CommentGroup, prefix string) (*ast.Comment, bool) {
	if doc == nil {
		return nil, false
	}
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, prefix)
		if !ok {
			continue
		}
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			return c, true
		}
	}
	return nil, false
}

// ParseDirective parses the options following a directive prefix.
//
// Options are whitespace separated key=value pairs; values may be quoted
// with shell quoting rules. A bare with_into means with_into=true. The
// returned Config starts from defaults (WithInto enabled) before options
// are applied.
func ParseDirective(text string, pos token.Position, defaults Config) (Config, error) {
	cfg := defaults
	cfg.Pos = pos

	args := text
	for _, prefix := range []string{BuilderDirective, DeriveDirective} {
		if rest, ok := strings.CutPrefix(text, prefix); ok {
			args = rest
			break
		}
	}

	words, err := shellquote.Split(args)
	if err != nil {
		return cfg, diag.Newf(pos, diag.KindConfig, "malformed directive options: %v", err).WithUnderlying(err)
	}

	seen := make(map[string]bool, len(words))
	for _, word := range words {
		key, value, hasValue := strings.Cut(word, "=")
		if seen[key] {
			return cfg, diag.Newf(pos, diag.KindConfig, "builder option '%s' given more than once", key)
		}
		seen[key] = true

		switch key {
		case "entry", "exit":
			if !hasValue {
				return cfg, diag.Newf(pos, diag.KindConfig, "builder option '%s' expects a string value", key).
					WithSuggestion(key + "=Name")
			}
			if !naming.IsIdent(value) {
				return cfg, diag.Newf(pos, diag.KindConfig, "builder option '%s' must be a Go identifier, got %q", key, value)
			}
			if key == "entry" {
				cfg.Entry = value
			} else {
				cfg.Exit = value
			}
		case "visibility":
			if !hasValue {
				return cfg, diag.New(pos, diag.KindConfig, "builder option 'visibility' expects a string value").
					WithSuggestion("visibility=exported or visibility=unexported")
			}
			if value != VisibilityExported && value != VisibilityUnexported {
				return cfg, diag.Newf(pos, diag.KindConfig, "builder option 'visibility' must be %q or %q, got %q",
					VisibilityExported, VisibilityUnexported, value)
			}
			cfg.Visibility = value
		case "with_into":
			if !hasValue {
				cfg.WithInto = true
				continue
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return cfg, diag.Newf(pos, diag.KindConfig, "builder option 'with_into' expects a bool, got %q", value).
					WithUnderlying(err)
			}
			cfg.WithInto = b
		default:
			return cfg, diag.Newf(pos, diag.KindConfig, "invalid builder option '%s', %s", key, allowedOptions)
		}
	}
	return cfg, nil
}
