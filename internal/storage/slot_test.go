package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupSQLiteSlot(t *testing.T) *SQLiteSlot {
	t.Helper()
	slot, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "chores-test.db"), DefaultSlotKey)
	if err != nil {
		t.Fatalf("open sqlite slot: %v", err)
	}
	t.Cleanup(func() { _ = slot.Close() })
	return slot
}

func exerciseSlot(t *testing.T, slot Slot) {
	t.Helper()
	ctx := context.Background()

	if _, err := slot.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty slot, got %v", err)
	}
	if _, err := slot.Stat(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound stat on empty slot, got %v", err)
	}

	if err := slot.Write(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := slot.Write(ctx, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := slot.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Fatalf("read = %q, want last write", got)
	}

	info, err := slot.Stat(ctx)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size != len(`{"v":2}`) || info.UpdatedAt.IsZero() {
		t.Fatalf("unexpected stat: %+v", info)
	}

	if err := slot.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := slot.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := slot.Delete(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSQLiteSlot(t *testing.T) {
	exerciseSlot(t, setupSQLiteSlot(t))
}

func TestFileSlot(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "state", "chores.json"))
	if err != nil {
		t.Fatalf("new file slot: %v", err)
	}
	exerciseSlot(t, slot)
}

func TestMemorySlot(t *testing.T) {
	slot := NewMemorySlot()
	exerciseSlot(t, slot)
	if slot.Writes() != 2 {
		t.Fatalf("writes = %d, want 2", slot.Writes())
	}
}

func TestSQLiteSlotKeysAreIndependent(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "keys.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	a, _ := NewSQLiteSlot(db, "a")
	b, _ := NewSQLiteSlot(db, "b")
	ctx := t.Context()
	if err := a.Write(ctx, []byte("alpha")); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if _, err := b.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("slot b should be empty, got %v", err)
	}
}

func TestSQLiteSlotStampsUpdatedAt(t *testing.T) {
	slot := setupSQLiteSlot(t)
	fixed := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	slot.now = func() time.Time { return fixed }
	if err := slot.Write(t.Context(), []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err := slot.Stat(t.Context())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.UpdatedAt.Equal(fixed) || info.Key != DefaultSlotKey {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestFileSlotLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chores.json")
	slot, err := NewFileSlot(path)
	if err != nil {
		t.Fatalf("new file slot: %v", err)
	}
	if err := slot.Write(t.Context(), []byte("{}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should be renamed away, stat err = %v", err)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open("redis", "x"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	slot, err := Open(BackendMemory, "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := slot.(*MemorySlot); !ok {
		t.Fatalf("expected memory slot, got %T", slot)
	}
}
