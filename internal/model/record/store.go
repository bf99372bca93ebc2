package record

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrDuplicateID   = errors.New("record id already exists")
)

// Record is implemented by every entity kept in a Store. WithRecordID returns
// a copy carrying the given id so stores never mutate caller values.
type Record[T any] interface {
	RecordID() string
	WithRecordID(id string) T
	Validate() error
}

// Store exposes record lifecycle operations to tools and HTTP handlers.
type Store[T Record[T]] interface {
	Create(rec T) (T, error)
	List() []T
	Get(id string) (T, bool)
	Delete(id string) bool
	DeleteMany(ids []string) int
}

// MemoryStore implements Store with an insertion-ordered slice.
type MemoryStore[T Record[T]] struct {
	mu    sync.RWMutex
	items []T
	newID func() string
}

// NewMemoryStore returns a MemoryStore preloaded with seed. newID assigns ids
// to records created without one; nil falls back to random UUIDs.
func NewMemoryStore[T Record[T]](seed []T, newID func() string) *MemoryStore[T] {
	if newID == nil {
		newID = uuid.NewString
	}
	return &MemoryStore[T]{
		items: append([]T(nil), seed...),
		newID: newID,
	}
}

// Create validates rec, assigns an id when absent and appends it.
func (s *MemoryStore[T]) Create(rec T) (T, error) {
	var zero T
	if err := rec.Validate(); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.RecordID() == "" {
		rec = rec.WithRecordID(s.newID())
	}
	if s.indexOf(rec.RecordID()) != -1 {
		return zero, fmt.Errorf("%w: %s", ErrDuplicateID, rec.RecordID())
	}

	s.items = append(s.items, rec)
	return rec, nil
}

// List returns a snapshot of all records in insertion order.
func (s *MemoryStore[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get looks up a record by identifier.
func (s *MemoryStore[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx != -1 {
		return s.items[idx], true
	}
	var zero T
	return zero, false
}

// Delete removes a single record and reports whether it existed.
func (s *MemoryStore[T]) Delete(id string) bool {
	return s.DeleteMany([]string{id}) == 1
}

// DeleteMany removes every record whose id is listed and returns how many
// were removed. Unknown ids are ignored.
func (s *MemoryStore[T]) DeleteMany(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for _, id := range ids {
		idx := s.indexOf(id)
		if idx == -1 {
			continue
		}
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		deleted++
	}
	return deleted
}

// Len reports the number of stored records.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore[T]) indexOf(id string) int {
	for i, item := range s.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}
