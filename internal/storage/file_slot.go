package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FileSlot keeps the value in a single file, replaced atomically on write.
type FileSlot struct {
	path string
}

func NewFileSlot(path string) (*FileSlot, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: file path is required")
	}
	return &FileSlot{path: trimmed}, nil
}

func (f *FileSlot) Path() string { return f.path }

func (f *FileSlot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (f *FileSlot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteFileAtomic(f.path, data)
}

func (f *FileSlot) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (f *FileSlot) Stat(ctx context.Context) (SlotInfo, error) {
	if err := ctx.Err(); err != nil {
		return SlotInfo{}, err
	}
	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return SlotInfo{}, ErrNotFound
		}
		return SlotInfo{}, err
	}
	return SlotInfo{Key: filepath.Base(f.path), Size: int(info.Size()), UpdatedAt: info.ModTime().UTC()}, nil
}

func (f *FileSlot) Close() error { return nil }

// WriteFileAtomic writes data next to path and renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
