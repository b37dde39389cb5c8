package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// DefaultSlotKey names the slot the chore document lives in.
const DefaultSlotKey = "fridgeChoreApp_v1"

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Slot is a single durable value. Writes replace the whole value.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
	Stat(ctx context.Context) (SlotInfo, error)
	Close() error
}

type SlotInfo struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

// Open builds the slot for backend. path is a database file for sqlite and a
// JSON file for file; memory ignores it.
func Open(backend, path string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		slot, err := OpenSQLite(path, DefaultSlotKey)
		if err != nil {
			return nil, err
		}
		return slot, nil
	case BackendFile:
		slot, err := NewFileSlot(path)
		if err != nil {
			return nil, err
		}
		return slot, nil
	case BackendMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}
