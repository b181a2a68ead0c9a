// Package storetest provides an in-memory DoctorStore for tests.
package storetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/store"
)

// Memory is a DoctorStore backed by a map. The Err fields make the matching
// operation fail; Calls counts every operation that reached the store.
type Memory struct {
	mu    sync.Mutex
	docs  map[string]directory.RawRecord
	order []string
	next  int

	ListErr   error
	GetErr    error
	AddErr    error
	UpdateErr error
	DeleteErr error

	Calls map[string]int
}

func NewMemory(records ...directory.RawRecord) *Memory {
	m := &Memory{docs: map[string]directory.RawRecord{}, Calls: map[string]int{}}
	for _, rec := range records {
		id, _ := rec[directory.FieldID].(string)
		if id == "" {
			id = m.newID()
		}
		m.docs[id] = copyRecord(rec)
		m.order = append(m.order, id)
	}
	return m
}

func (m *Memory) List(ctx context.Context) ([]directory.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["list"]++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]directory.RawRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.withID(id))
	}
	return out, nil
}

func (m *Memory) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.order)), nil
}

func (m *Memory) Get(ctx context.Context, id string) (directory.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["get"]++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if _, ok := m.docs[id]; !ok {
		return nil, store.ErrNotFound
	}
	return m.withID(id), nil
}

func (m *Memory) Add(ctx context.Context, data directory.RawRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["add"]++
	if m.AddErr != nil {
		return "", m.AddErr
	}
	id := m.newID()
	rec := copyRecord(data)
	delete(rec, directory.FieldID)
	m.docs[id] = rec
	m.order = append(m.order, id)
	return id, nil
}

func (m *Memory) Update(ctx context.Context, id string, patch directory.RawRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["update"]++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	doc, ok := m.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range patch {
		if k == directory.FieldID {
			continue
		}
		doc[k] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["delete"]++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.docs, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Raw returns the stored document without going through the counters.
func (m *Memory) Raw(id string) (directory.RawRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return nil, false
	}
	return m.withID(id), true
}

// RemoveBehindBack deletes a document without counting a call, as another
// admin would.
func (m *Memory) RemoveBehindBack(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Memory) newID() string {
	for {
		m.next++
		id := fmt.Sprintf("doc%d", m.next)
		if _, taken := m.docs[id]; !taken {
			return id
		}
	}
}

func (m *Memory) withID(id string) directory.RawRecord {
	rec := copyRecord(m.docs[id])
	rec[directory.FieldID] = id
	return rec
}

func copyRecord(rec directory.RawRecord) directory.RawRecord {
	out := make(directory.RawRecord, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

var _ store.DoctorStore = (*Memory)(nil)
