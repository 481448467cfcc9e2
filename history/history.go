// Package history keeps the recently used values of each form field so the
// form can offer them again as suggestions.
package history

import (
	"context"
	"strings"
)

const (
	// MaxEntries bounds the values kept per field.
	MaxEntries = 10
	// StorageKey names the single document holding a visitor's history.
	StorageKey = "reelIdeaGeneratorHistory"
)

// History maps a field name to its values, most recent first.
type History map[string][]string

// Add moves value to the front of field's list, dropping an older copy and
// anything past MaxEntries. Blank values are ignored; it reports whether the
// history changed.
func (h History) Add(field, value string) bool {
	value = strings.TrimSpace(value)
	if field == "" || value == "" {
		return false
	}
	prev := h[field]
	if len(prev) > 0 && prev[0] == value {
		return false
	}
	next := make([]string, 0, MaxEntries)
	next = append(next, value)
	for _, v := range prev {
		if v == value {
			continue
		}
		if len(next) == MaxEntries {
			break
		}
		next = append(next, v)
	}
	h[field] = next
	return true
}

// Values returns a copy of field's list.
func (h History) Values(field string) []string {
	vals := h[field]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Clone deep-copies the history.
func (h History) Clone() History {
	out := make(History, len(h))
	for k := range h {
		out[k] = h.Values(k)
	}
	return out
}

// normalize enforces the invariants on data read back from a store that may
// have been written by something else.
func (h History) normalize() History {
	out := make(History, len(h))
	for field, vals := range h {
		// Replay oldest first so the stored order survives.
		for i := len(vals) - 1; i >= 0; i-- {
			out.Add(field, vals[i])
		}
	}
	return out
}

// Store persists one History document per owner.
type Store interface {
	Load(ctx context.Context, owner string) (History, error)
	Save(ctx context.Context, owner string, h History) error
}
