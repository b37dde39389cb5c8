package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteSlot struct {
	db  *sql.DB
	key string
	now func() time.Time
}

func NewSQLiteSlot(db *sql.DB, key string) (*SQLiteSlot, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("storage: slot key is required")
	}
	return &SQLiteSlot{db: db, key: key, now: time.Now}, nil
}

// OpenSQLite opens (creating if missing) the database at path, applies the
// migrations and returns the slot stored under key.
func OpenSQLite(path, key string) (*SQLiteSlot, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	slot, err := NewSQLiteSlot(db, key)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return slot, nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

func (s *SQLiteSlot) Read(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQLiteSlot) Write(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(data), mustTime(s.now()),
	)
	return err
}

func (s *SQLiteSlot) Delete(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, s.key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (s *SQLiteSlot) Stat(ctx context.Context) (SlotInfo, error) {
	var size int
	var updated string
	err := s.db.QueryRowContext(ctx, `SELECT length(CAST(value AS BLOB)), updated_at FROM slots WHERE key = ?`, s.key).Scan(&size, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SlotInfo{}, ErrNotFound
		}
		return SlotInfo{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return SlotInfo{}, err
	}
	return SlotInfo{Key: s.key, Size: size, UpdatedAt: updatedAt}, nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
