package directory

import "sync"

// View is an in-memory copy of the directory owned by one consumer. Fetches
// are tagged with a generation so that a slow, older response can never
// overwrite state set by a newer fetch or by a confirmed write.
type View struct {
	mu      sync.RWMutex
	records []Doctor
	issued  uint64
	applied uint64
}

// NewView returns an empty view.
func NewView() *View {
	return &View{}
}

// BeginFetch hands out the generation for a fetch about to start.
func (v *View) BeginFetch() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.issued++
	return v.issued
}

// Apply installs the result of fetch gen. It returns false, leaving the view
// untouched, when a newer fetch or a local write has already been applied.
func (v *View) Apply(gen uint64, doctors []Doctor) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen <= v.applied {
		return false
	}
	v.applied = gen
	v.records = append([]Doctor(nil), doctors...)
	return true
}

// Records returns a copy of the current list.
func (v *View) Records() []Doctor {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Doctor(nil), v.records...)
}

// Len returns the number of records held.
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records)
}

// Find returns the record with the given id.
func (v *View) Find(id string) (Doctor, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, d := range v.records {
		if d.ID == id {
			return d, true
		}
	}
	return Doctor{}, false
}

// Upsert replaces the record with d.ID or appends d. Callers only use it
// after the store confirmed the write.
func (v *View) Upsert(d Doctor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.invalidateLocked()
	for i := range v.records {
		if v.records[i].ID == d.ID {
			v.records[i] = d
			return
		}
	}
	v.records = append(v.records, d)
}

// SetSuspended records a confirmed suspension change. It reports whether the
// record was present.
func (v *View) SetSuspended(id string, suspended bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.invalidateLocked()
	for i := range v.records {
		if v.records[i].ID == id {
			v.records[i].Suspended = suspended
			return true
		}
	}
	return false
}

// Remove drops a deleted record. It reports whether the record was present.
func (v *View) Remove(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.invalidateLocked()
	for i := range v.records {
		if v.records[i].ID == id {
			v.records = append(v.records[:i], v.records[i+1:]...)
			return true
		}
	}
	return false
}

// invalidateLocked makes every fetch issued so far stale: their results were
// read before this write and would undo it.
func (v *View) invalidateLocked() {
	v.applied = v.issued
}
