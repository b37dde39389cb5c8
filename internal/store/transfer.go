package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/chorechart/internal/model"
	"github.com/sandeepkv93/chorechart/internal/storage"
)

// ExportFileName is the fixed name of a downloaded backup.
const ExportFileName = "fridgeChoreApp-data.json"

// Export renders the current document as indented JSON.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, ErrNotLoaded
	}
	return s.state.Encode(true)
}

// ExportToFile writes the export into dir and returns the file path.
func (s *Store) ExportToFile(dir string) (string, error) {
	data, err := s.Export()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, ExportFileName)
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	s.logger.Info("store_event", "event", "state_exported", "path", path, "bytes", len(data))
	return path, nil
}

// Import shallow-merges doc into the current document. Top-level fields in
// doc replace the current ones; anything doc omits is kept. A document that
// fails validation changes nothing.
func (s *Store) Import(ctx context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fallbackPIN, err := s.encodeSecret(s.defaultPIN)
	if err != nil {
		return err
	}
	today := s.todayLocked()
	err = s.mutateLocked(ctx, func(st *model.AppState) error {
		if err := st.Merge(doc); err != nil {
			return err
		}
		if strings.TrimSpace(st.PIN) == "" {
			st.PIN = fallbackPIN
		}
		st.EnsureDay(today)
		return nil
	})
	if err != nil {
		s.logger.Warn("store_event", "event", "import_rejected", "error", err.Error())
		return err
	}
	s.logger.Info("store_event", "event", "state_imported", "bytes", len(doc))
	_, err = s.checkAutoResetLocked(ctx)
	return err
}

func (s *Store) ImportFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	return s.Import(ctx, data)
}
