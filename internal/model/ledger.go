package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Ledger maps a day key to each participant's completed task indices.
type Ledger map[string]map[string]PeriodSet

type PeriodSet struct {
	Morning   []int `json:"morning"`
	Afternoon []int `json:"afternoon"`
}

func (ps PeriodSet) List(p Period) []int {
	if p == PeriodAfternoon {
		return ps.Afternoon
	}
	return ps.Morning
}

func (ps *PeriodSet) set(p Period, idx []int) {
	if p == PeriodAfternoon {
		ps.Afternoon = idx
		return
	}
	ps.Morning = idx
}

func (ps *PeriodSet) normalize() bool {
	changed := false
	if ps.Morning == nil {
		ps.Morning = []int{}
		changed = true
	}
	if ps.Afternoon == nil {
		ps.Afternoon = []int{}
		changed = true
	}
	var dup bool
	if ps.Morning, dup = uniqueIndices(ps.Morning); dup {
		changed = true
	}
	if ps.Afternoon, dup = uniqueIndices(ps.Afternoon); dup {
		changed = true
	}
	return changed
}

// uniqueIndices drops repeated indices, keeping the first of each in order.
func uniqueIndices(set []int) ([]int, bool) {
	for i := 1; i < len(set); i++ {
		if !slices.Contains(set[:i], set[i]) {
			continue
		}
		out := make([]int, 0, len(set))
		for _, idx := range set {
			if !slices.Contains(out, idx) {
				out = append(out, idx)
			}
		}
		return out, true
	}
	return set, false
}

// UnmarshalJSON mirrors PeriodTasks: a flat array is a morning-only record.
func (ps *PeriodSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var flat []int
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return err
		}
		ps.Morning = flat
		ps.Afternoon = []int{}
		ps.normalize()
		return nil
	}
	type plain PeriodSet
	var out plain
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*ps = PeriodSet(out)
	ps.normalize()
	return nil
}

type ToggleResult struct {
	// Completed is the task's state after the toggle.
	Completed bool
	// AllDone reports that this toggle finished the participant's period.
	AllDone bool
}

// EnsureDay backfills an empty completion set for every known participant
// and period on day. It reports whether anything was created.
func (s *AppState) EnsureDay(day string) bool {
	changed := false
	if s.Completed == nil {
		s.Completed = make(Ledger)
		changed = true
	}
	entry, ok := s.Completed[day]
	if !ok || entry == nil {
		entry = make(map[string]PeriodSet, len(s.Kids))
		s.Completed[day] = entry
		changed = true
	}
	for name := range s.Kids {
		set, ok := entry[name]
		if !ok {
			entry[name] = PeriodSet{Morning: []int{}, Afternoon: []int{}}
			changed = true
			continue
		}
		if set.normalize() {
			entry[name] = set
			changed = true
		}
	}
	return changed
}

// Toggle flips the completion of one task on day.
func (s *AppState) Toggle(participant string, period Period, index int, day string) (ToggleResult, error) {
	tasks, err := s.taskList(participant, period)
	if err != nil {
		return ToggleResult{}, err
	}
	if index < 0 || index >= len(tasks) {
		return ToggleResult{}, fmt.Errorf("%w: task index %d out of range [0,%d)", ErrInvalidReference, index, len(tasks))
	}
	s.EnsureDay(day)

	entry := s.Completed[day][participant]
	current := entry.List(period)
	before := allDone(current, len(tasks))

	var res ToggleResult
	if pos := slices.Index(current, index); pos >= 0 {
		current = slices.Delete(slices.Clone(current), pos, pos+1)
	} else {
		current = append(slices.Clone(current), index)
		res.Completed = true
	}
	entry.set(period, current)
	s.Completed[day][participant] = entry

	res.AllDone = !before && allDone(current, len(tasks))
	return res, nil
}

// CompletedSet returns a copy of the completion set, or an empty set when the
// day has not been touched yet.
func (s *AppState) CompletedSet(participant string, period Period, day string) []int {
	entry, ok := s.Completed[day]
	if !ok {
		return []int{}
	}
	set, ok := entry[participant]
	if !ok {
		return []int{}
	}
	out := slices.Clone(set.List(period))
	if out == nil {
		return []int{}
	}
	return out
}

func (s *AppState) IsCompleted(participant string, period Period, day string, index int) bool {
	return slices.Contains(s.CompletedSet(participant, period, day), index)
}

// Progress counts completed tasks that still exist against the list length.
func (s *AppState) Progress(participant string, period Period, day string) (done int, total int) {
	tasks, err := s.taskList(participant, period)
	if err != nil {
		return 0, 0
	}
	total = len(tasks)
	for _, idx := range s.CompletedSet(participant, period, day) {
		if idx >= 0 && idx < total {
			done++
		}
	}
	return done, total
}

func allDone(set []int, n int) bool {
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if !slices.Contains(set, i) {
			return false
		}
	}
	return true
}
