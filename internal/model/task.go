package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// PeriodTasks holds a participant's task texts. A task's position in its
// list is the only reference the ledger keeps to it.
type PeriodTasks struct {
	Morning   []string `json:"morning"`
	Afternoon []string `json:"afternoon"`
}

func (pt PeriodTasks) List(p Period) []string {
	if p == PeriodAfternoon {
		return pt.Afternoon
	}
	return pt.Morning
}

func (pt *PeriodTasks) set(p Period, tasks []string) {
	if p == PeriodAfternoon {
		pt.Afternoon = tasks
		return
	}
	pt.Morning = tasks
}

// UnmarshalJSON accepts the older flat-array shape, which predates periods,
// and backfills it as the morning list.
func (pt *PeriodTasks) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var flat []string
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return err
		}
		pt.Morning = flat
		pt.Afternoon = []string{}
		return nil
	}
	type plain PeriodTasks
	var out plain
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*pt = PeriodTasks(out)
	pt.normalize()
	return nil
}

func (pt *PeriodTasks) normalize() {
	if pt.Morning == nil {
		pt.Morning = []string{}
	}
	if pt.Afternoon == nil {
		pt.Afternoon = []string{}
	}
}

func (s *AppState) taskList(participant string, period Period) ([]string, error) {
	if !period.IsValid() {
		return nil, fmt.Errorf("%w: period %q", ErrInvalidReference, period)
	}
	tasks, ok := s.Kids[participant]
	if !ok {
		return nil, fmt.Errorf("%w: participant %q", ErrInvalidReference, participant)
	}
	return tasks.List(period), nil
}

// Tasks returns a copy of the task list for participant and period.
func (s *AppState) Tasks(participant string, period Period) ([]string, error) {
	tasks, err := s.taskList(participant, period)
	if err != nil {
		return nil, err
	}
	return slices.Clone(tasks), nil
}

// AddTask appends text to the list. The ledger needs no repair since the
// new task takes the next free index.
func (s *AppState) AddTask(participant string, period Period, text string) error {
	tasks, err := s.taskList(participant, period)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: task text is required", ErrInvalidInput)
	}
	entry := s.Kids[participant]
	entry.set(period, append(slices.Clone(tasks), text))
	s.Kids[participant] = entry
	return nil
}

// RemoveTask deletes the task at index and repairs every day of the ledger
// for the same participant and period.
func (s *AppState) RemoveTask(participant string, period Period, index int) error {
	tasks, err := s.taskList(participant, period)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(tasks) {
		return fmt.Errorf("%w: task index %d out of range [0,%d)", ErrInvalidReference, index, len(tasks))
	}
	entry := s.Kids[participant]
	entry.set(period, slices.Delete(slices.Clone(tasks), index, index+1))
	s.Kids[participant] = entry

	for _, day := range s.Completed {
		set, ok := day[participant]
		if !ok {
			continue
		}
		set.set(period, Reindex(set.List(period), index))
		day[participant] = set
	}
	return nil
}

// Reindex drops removed from set and shifts every larger index down by one.
// Relative order is kept.
func Reindex(set []int, removed int) []int {
	out := make([]int, 0, len(set))
	for _, idx := range set {
		switch {
		case idx == removed:
			continue
		case idx > removed:
			out = append(out, idx-1)
		default:
			out = append(out, idx)
		}
	}
	return out
}
