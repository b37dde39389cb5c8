package store

import (
	"context"
	"time"

	"github.com/sandeepkv93/chorechart/internal/model"
)

// EnsureDay creates empty completion sets for every participant on day and
// persists only when something was missing.
func (s *Store) EnsureDay(ctx context.Context, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureDayLocked(ctx, day)
}

func (s *Store) ensureDayLocked(ctx context.Context, day string) error {
	return s.mutateLocked(ctx, func(st *model.AppState) error {
		if !st.EnsureDay(day) {
			return errNoChange
		}
		return nil
	})
}

// CheckAutoReset moves the reset marker to now when it falls on an earlier
// day. Older ledger entries are left alone.
func (s *Store) CheckAutoReset(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkAutoResetLocked(ctx)
}

func (s *Store) checkAutoResetLocked(ctx context.Context) (bool, error) {
	if s.state == nil {
		return false, ErrNotLoaded
	}
	now := s.now()
	today := model.DayKey(now, s.loc)
	last, ok := s.state.LastResetTime()
	if ok && model.DayKey(last, s.loc) == today {
		return false, nil
	}
	from := ""
	if ok {
		from = model.DayKey(last, s.loc)
	}
	err := s.mutateLocked(ctx, func(st *model.AppState) error {
		st.LastReset = model.FormatTimestamp(now)
		st.EnsureDay(today)
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.Info("store_event", "event", "day_rolled", "from", from, "to", today)
	return true, nil
}

// rolloverLocked runs the day check ahead of a read of today's ledger. A
// failed write is logged and the read goes ahead.
func (s *Store) rolloverLocked() {
	if _, err := s.checkAutoResetLocked(context.Background()); err != nil {
		s.logger.Warn("store_event", "event", "rollover_check_failed", "error", err.Error())
	}
}

// ResetNow moves the day marker to now. Ticks already recorded today stay.
func (s *Store) ResetNow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	today := model.DayKey(now, s.loc)
	err := s.mutateLocked(ctx, func(st *model.AppState) error {
		st.LastReset = model.FormatTimestamp(now)
		st.EnsureDay(today)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("store_event", "event", "manual_reset", "day", today)
	return nil
}

// Toggle flips one of today's tasks for participant.
func (s *Store) Toggle(ctx context.Context, participant string, period model.Period, index int) (model.ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.checkAutoResetLocked(ctx); err != nil {
		return model.ToggleResult{}, err
	}
	today := s.todayLocked()
	var res model.ToggleResult
	err := s.mutateLocked(ctx, func(st *model.AppState) error {
		var err error
		res, err = st.Toggle(participant, period, index, today)
		return err
	})
	if err != nil {
		return model.ToggleResult{}, err
	}
	s.logger.Debug("store_event", "event", "task_toggled", "participant", participant, "period", string(period), "index", index, "completed", res.Completed)
	if res.AllDone {
		s.logger.Info("store_event", "event", "period_completed", "participant", participant, "period", string(period), "day", today)
	}
	return res, nil
}

func (s *Store) AddTask(ctx context.Context, participant string, period model.Period, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.mutateLocked(ctx, func(st *model.AppState) error {
		return st.AddTask(participant, period, text)
	})
	if err != nil {
		return err
	}
	s.logger.Info("store_event", "event", "task_added", "participant", participant, "period", string(period))
	return nil
}

// RemoveTask deletes the task at index and shifts recorded completions on
// every day so they keep pointing at the same task text.
func (s *Store) RemoveTask(ctx context.Context, participant string, period model.Period, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.mutateLocked(ctx, func(st *model.AppState) error {
		return st.RemoveTask(participant, period, index)
	})
	if err != nil {
		return err
	}
	s.logger.Info("store_event", "event", "task_removed", "participant", participant, "period", string(period), "index", index)
	return nil
}

// State returns a copy of the current document, or nil before Load.
func (s *Store) State() *model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Participants lists participants in roster order followed by any others
// alphabetically.
func (s *Store) Participants() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil
	}
	return s.state.Participants(s.roster)
}

func (s *Store) Tasks(participant string, period model.Period) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, ErrNotLoaded
	}
	return s.state.Tasks(participant, period)
}

// CompletedToday returns today's completion indices for participant.
func (s *Store) CompletedToday(participant string, period model.Period) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return []int{}
	}
	s.rolloverLocked()
	return s.state.CompletedSet(participant, period, s.todayLocked())
}

func (s *Store) Progress(participant string, period model.Period) (done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return 0, 0
	}
	s.rolloverLocked()
	return s.state.Progress(participant, period, s.todayLocked())
}

// LastReset reports the stored reset marker in the store's zone.
func (s *Store) LastReset() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return time.Time{}, false
	}
	t, ok := s.state.LastResetTime()
	if !ok {
		return time.Time{}, false
	}
	return t.In(s.loc), true
}

func (s *Store) Today() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todayLocked()
}

func (s *Store) todayLocked() string {
	return model.DayKey(s.now(), s.loc)
}

// CurrentPeriod resolves the active period from the clock unless override is
// set.
func (s *Store) CurrentPeriod(override *model.Period) model.Period {
	return model.CurrentPeriod(s.Now(), override)
}

// Now is the store clock in the store's zone.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Store) Location() *time.Location {
	return s.loc
}
