package catalog

import "sync/atomic"

// Holder publishes the current snapshot. Readers take the pointer once per resolution and
// keep using it even if a newer snapshot is swapped in meanwhile.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a holder serving the given snapshot.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Current returns the snapshot in service.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Swap installs a new snapshot and returns the one it replaced.
func (h *Holder) Swap(s *Snapshot) *Snapshot {
	return h.current.Swap(s)
}
