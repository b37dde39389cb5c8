// Package store owns the chore document: it loads it from a storage slot,
// applies every mutation to a copy, persists the copy and only then makes it
// current. A failed write leaves the in-memory state as it was.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/chorechart/internal/model"
	"github.com/sandeepkv93/chorechart/internal/storage"
)

var (
	ErrNotLoaded = errors.New("store: not loaded")
	ErrPersist   = errors.New("store: persist failed")

	errNoChange = errors.New("store: no change")
)

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone used for both day keys and period resolution.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithRoster sets the participants a fresh document is seeded with and the
// display order.
func WithRoster(roster []string) Option {
	return func(s *Store) {
		if len(roster) > 0 {
			s.roster = append([]string(nil), roster...)
		}
	}
}

func WithDefaultPIN(pin string) Option {
	return func(s *Store) {
		if strings.TrimSpace(pin) != "" {
			s.defaultPIN = strings.TrimSpace(pin)
		}
	}
}

// WithHashedPIN makes SetSecret and seeding store a bcrypt hash.
func WithHashedPIN(enabled bool) Option {
	return func(s *Store) { s.hashPIN = enabled }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type Store struct {
	mu         sync.Mutex
	slot       storage.Slot
	state      *model.AppState
	now        func() time.Time
	loc        *time.Location
	roster     []string
	defaultPIN string
	hashPIN    bool
	logger     *slog.Logger
}

func New(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:       slot,
		now:        time.Now,
		loc:        time.Local,
		roster:     append([]string(nil), model.DefaultRoster...),
		defaultPIN: model.DefaultPIN,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the document. A missing or unreadable document is replaced by
// freshly seeded defaults; only slot failures are returned. Today's ledger
// entry is guaranteed and the day rollover check runs before returning.
func (s *Store) Load(ctx context.Context) (*model.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.slot.Read(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if err := s.seedLocked(ctx, "missing"); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read slot: %w", err)
	default:
		st, decErr := model.Decode(raw)
		if decErr != nil {
			s.logger.Warn("store_event", "event", "state_corrupt", "error", decErr.Error(), "bytes", len(raw))
			if err := s.seedLocked(ctx, "corrupt"); err != nil {
				return nil, err
			}
		} else {
			s.state = st
			if err := s.repairLocked(ctx); err != nil {
				return nil, err
			}
			s.logger.Debug("store_event", "event", "state_loaded", "participants", len(st.Kids), "days", len(st.Completed))
		}
	}

	if err := s.ensureDayLocked(ctx, s.todayLocked()); err != nil {
		return nil, err
	}
	if _, err := s.checkAutoResetLocked(ctx); err != nil {
		return nil, err
	}
	return s.state.Clone(), nil
}

func (s *Store) seedLocked(ctx context.Context, reason string) error {
	pin, err := s.encodeSecret(s.defaultPIN)
	if err != nil {
		return err
	}
	st := model.DefaultState(s.roster, s.now(), pin)
	if err := s.persist(ctx, st); err != nil {
		return err
	}
	s.state = st
	s.logger.Info("store_event", "event", "state_seeded", "reason", reason, "participants", len(st.Kids))
	return nil
}

// repairLocked restores a usable secret when a document carries none.
func (s *Store) repairLocked(ctx context.Context) error {
	if strings.TrimSpace(s.state.PIN) != "" {
		return nil
	}
	pin, err := s.encodeSecret(s.defaultPIN)
	if err != nil {
		return err
	}
	s.logger.Warn("store_event", "event", "pin_restored_to_default")
	return s.mutateLocked(ctx, func(st *model.AppState) error {
		st.PIN = pin
		return nil
	})
}

// mutateLocked applies fn to a copy, persists it and swaps it in. fn may
// return errNoChange to skip the write.
func (s *Store) mutateLocked(ctx context.Context, fn func(st *model.AppState) error) error {
	if s.state == nil {
		return ErrNotLoaded
	}
	next := s.state.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) persist(ctx context.Context, st *model.AppState) error {
	raw, err := st.Encode(false)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}
	if err := s.slot.Write(ctx, raw); err != nil {
		s.logger.Error("store_event", "event", "persist_failed", "error", err.Error())
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Wipe deletes the persisted document. The store is unusable until the
// next Load, which seeds a fresh document.
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.slot.Delete(ctx); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete slot: %w", err)
	}
	s.state = nil
	s.logger.Warn("store_event", "event", "state_wiped")
	return nil
}

func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != nil
}

// Info reports where and when the document was last written.
func (s *Store) Info(ctx context.Context) (storage.SlotInfo, error) {
	return s.slot.Stat(ctx)
}
