package diag

import (
	"go/token"
	"sort"
	"sync"

	"github.com/teranos/ctorgen/errors"
)

// Handler collects diagnostics for one generation run. It is safe for
// concurrent use; packages processed in parallel may share one Handler.
type Handler struct {
	mu       sync.Mutex
	errs     []*Error
	warnings []*Error
}

// NewHandler returns an empty Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Report records err. A *Error anywhere in the chain keeps its position and
// severity; any other error becomes an unlocated load diagnostic.
func (h *Handler) Report(err error) {
	if err == nil {
		return
	}
	var d *Error
	if !errors.As(err, &d) {
		d = New(token.Position{}, KindLoad, err.Error()).WithUnderlying(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if d.IsWarning() {
		h.warnings = append(h.warnings, d)
		return
	}
	h.errs = append(h.errs, d)
}

// Errors returns the error-severity diagnostics ordered by position.
func (h *Handler) Errors() []*Error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return sorted(h.errs)
}

// Warnings returns the warning-severity diagnostics ordered by position.
func (h *Handler) Warnings() []*Error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return sorted(h.warnings)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (h *Handler) HasErrors() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.errs) > 0
}

// Len returns the number of error-severity diagnostics.
func (h *Handler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.errs)
}

func sorted(in []*Error) []*Error {
	out := make([]*Error, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}
