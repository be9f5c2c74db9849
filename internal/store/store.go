// Package store provides the persisted slot that holds the serialized
// service list, and the sources the list is bootstrapped from.
//
// A slot is a single named entry: it is read whole and overwritten whole.
// Backends differ only in where the bytes live (memory, a file, a Redis
// key, a PostgreSQL or SQLite row).
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrEmpty is returned by Slot.Get when nothing has been persisted yet.
var ErrEmpty = errors.New("slot is empty")

// Slot is one named storage entry.
type Slot interface {
	// Get returns the persisted bytes or ErrEmpty.
	Get(ctx context.Context) ([]byte, error)

	// Put overwrites the entry.
	Put(ctx context.Context, data []byte) error

	// Clear removes the entry. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources owned by the slot.
	Close() error
}

// Ensure MemorySlot implements the interface.
var _ Slot = (*MemorySlot)(nil)

// MemorySlot keeps the entry in process memory.
type MemorySlot struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Get(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return nil, ErrEmpty
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemorySlot) Put(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data[:0:0], data...)
	s.set = true
	return nil
}

func (s *MemorySlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.set = false
	return nil
}

func (s *MemorySlot) Ping(ctx context.Context) error {
	return nil
}

func (s *MemorySlot) Close() error {
	return nil
}
