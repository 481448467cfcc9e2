package history

import (
	"context"
	"sync"
)

// Field is one named form value to record.
type Field struct {
	Name  string
	Value string
}

// Recorder owns the in-memory History of one owner: loaded once at creation,
// saved after each Record that changes it.
type Recorder struct {
	store Store
	owner string

	mu   sync.Mutex
	hist History
}

// NewRecorder loads owner's history from store.
func NewRecorder(ctx context.Context, store Store, owner string) (*Recorder, error) {
	h, err := store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if h == nil {
		h = History{}
	}
	return &Recorder{store: store, owner: owner, hist: h}, nil
}

// Record adds every non-blank field value, in order, and persists the result.
// The in-memory history is updated even when saving fails.
func (r *Recorder) Record(ctx context.Context, fields ...Field) error {
	r.mu.Lock()
	changed := false
	for _, f := range fields {
		if r.hist.Add(f.Name, f.Value) {
			changed = true
		}
	}
	if !changed {
		r.mu.Unlock()
		return nil
	}
	snapshot := r.hist.Clone()
	r.mu.Unlock()

	return r.store.Save(ctx, r.owner, snapshot)
}

// Snapshot returns a copy of the current history.
func (r *Recorder) Snapshot() History {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hist.Clone()
}

// Owner is the id the history is stored under.
func (r *Recorder) Owner() string {
	return r.owner
}
