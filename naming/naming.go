// Package naming derives Go identifiers for generated builders: setter
// names from parameter names, singular forms for collection setters, and
// exported/unexported variants of entry, exit and type names.
package naming

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// EntrySuffix is appended to a plural name that singularizes to itself.
const EntrySuffix = "Entry"

// Pascal converts a parameter name to an exported method name.
// camelCase input keeps its acronyms ("userID" -> "UserID"); snake_case and
// kebab-case input is converted with strcase ("max_retries" -> "MaxRetries").
func Pascal(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsAny(s, "_- ") {
		return strcase.ToCamel(s)
	}
	return upperFirst(s)
}

// Camel converts an identifier to an unexported form, lowering a leading
// acronym as a whole ("URL" -> "url", "HTTPClient" -> "httpClient").
func Camel(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsAny(s, "_- ") {
		return strcase.ToLowerCamel(s)
	}

	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == 1 || n == len(runes):
		// "Name" -> "name", "ID" -> "id"
	default:
		// "HTTPClient": keep the C that starts the next word
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// Recase returns name cased for the requested visibility. Unexporting
// lowers a whole leading acronym: HTTPServerBuilder -> httpServerBuilder.
func Recase(name string, exported bool) string {
	if exported {
		return upperFirst(name)
	}
	if strings.ContainsAny(name, "_- ") {
		return lowerFirst(name)
	}
	return Camel(name)
}

// Singular returns the singular setter name for a plural parameter name.
// When singularization leaves the name unchanged ("sheep", "data") the
// result is the plural plus EntrySuffix, so the bulk and singular setters
// never share a name.
func Singular(plural string) string {
	single := inflection.Singular(plural)
	if single == plural || single == "" {
		return Pascal(plural) + EntrySuffix
	}
	return Pascal(single)
}

// StripPrivate removes one leading underscore, the marker for a parameter
// that is intentionally unused by the factory body.
func StripPrivate(name string) string {
	if strings.HasPrefix(name, "_") && len(name) > 1 {
		return name[1:]
	}
	return name
}

// IsIdent reports whether s is a valid, non-keyword Go identifier.
func IsIdent(s string) bool {
	return token.IsIdentifier(s)
}

// SafeParam returns a usable local name for a parameter: keywords, the
// blank identifier and any reserved name get a suffix until they are free.
func SafeParam(name string, reserved ...string) string {
	if name == "" || name == "_" {
		name = "v"
	}
	taken := func(s string) bool {
		if token.IsKeyword(s) {
			return true
		}
		for _, r := range reserved {
			if r == s {
				return true
			}
		}
		return false
	}
	for taken(name) {
		name += "_"
	}
	return name
}

// HasConstructorPrefix reports whether name is "New"/"new" followed by an
// upper-case rune, the Go constructor convention ("NewServer" but not
// "Newton"). It returns the remainder after the prefix.
func HasConstructorPrefix(name string) (string, bool) {
	for _, prefix := range []string{"New", "new"} {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsUpper(r) {
			return rest, true
		}
	}
	return "", false
}

// IsConstructorKeyword reports whether name is exactly "New" or "new".
func IsConstructorKeyword(name string) bool {
	return name == "New" || name == "new"
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
