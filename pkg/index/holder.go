package index

import "sync/atomic"

// Holder owns the current snapshot. Readers call Load and keep the returned
// Index for the duration of one operation; writers replace it whole.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder returns a holder seeded with ix, or with an empty index when ix is nil.
func NewHolder(ix *Index) *Holder {
	h := &Holder{}
	h.Store(ix)
	return h
}

// Load returns the current snapshot. It never returns nil.
func (h *Holder) Load() *Index {
	if ix := h.current.Load(); ix != nil {
		return ix
	}
	return Empty()
}

// Store replaces the current snapshot.
func (h *Holder) Store(ix *Index) {
	if ix == nil {
		ix = Empty()
	}
	h.current.Store(ix)
}

// Swap replaces the current snapshot and returns the previous one.
func (h *Holder) Swap(ix *Index) *Index {
	if ix == nil {
		ix = Empty()
	}
	old := h.current.Swap(ix)
	if old == nil {
		return Empty()
	}
	return old
}
