package storage

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemorySlot is a process-local Slot, used by tests and throwaway sessions.
type MemorySlot struct {
	mu      sync.Mutex
	data    []byte
	present bool
	updated time.Time
	writes  int
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return nil, ErrNotFound
	}
	return slices.Clone(m.data), nil
}

func (m *MemorySlot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = slices.Clone(data)
	m.present = true
	m.updated = time.Now().UTC()
	m.writes++
	return nil
}

func (m *MemorySlot) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return ErrNotFound
	}
	m.data = nil
	m.present = false
	return nil
}

func (m *MemorySlot) Stat(ctx context.Context) (SlotInfo, error) {
	if err := ctx.Err(); err != nil {
		return SlotInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return SlotInfo{}, ErrNotFound
	}
	return SlotInfo{Key: DefaultSlotKey, Size: len(m.data), UpdatedAt: m.updated}, nil
}

func (m *MemorySlot) Close() error { return nil }

// Writes counts successful writes.
func (m *MemorySlot) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
