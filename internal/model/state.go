package model

import (
	"maps"
	"slices"
	"sort"
	"strings"
	"time"
)

const (
	DefaultPIN = "1234"
	// lastResetLayout matches the millisecond ISO-8601 form older documents use.
	lastResetLayout = "2006-01-02T15:04:05.000Z07:00"
)

// DefaultRoster is the participant list a fresh state is seeded with.
var DefaultRoster = []string{"Angus", "Flynn", "Ashton", "Logan"}

var (
	defaultMorningChores   = []string{"Make bed", "Brush teeth", "Get dressed", "Tidy room", "Feed pet"}
	defaultAfternoonChores = []string{"Unpack school bag", "Homework", "Set the table", "Put away toys", "Brush teeth"}
)

// AppState is the whole persisted document.
type AppState struct {
	Kids      map[string]PeriodTasks
	Completed Ledger
	LastReset string
	PIN       string
	// Extra keeps top-level fields this version does not know about, so an
	// import followed by an export hands them back unchanged.
	Extra map[string][]byte
}

// DefaultState seeds every roster member with the default chore lists and
// an empty ledger.
func DefaultState(roster []string, now time.Time, pin string) *AppState {
	if len(roster) == 0 {
		roster = DefaultRoster
	}
	if strings.TrimSpace(pin) == "" {
		pin = DefaultPIN
	}
	kids := make(map[string]PeriodTasks, len(roster))
	for _, name := range roster {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		kids[name] = PeriodTasks{
			Morning:   slices.Clone(defaultMorningChores),
			Afternoon: slices.Clone(defaultAfternoonChores),
		}
	}
	return &AppState{
		Kids:      kids,
		Completed: make(Ledger),
		LastReset: FormatTimestamp(now),
		PIN:       pin,
	}
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(lastResetLayout)
}

// LastResetTime parses LastReset. Both the millisecond form and plain
// RFC 3339 are accepted.
func (s *AppState) LastResetTime() (time.Time, bool) {
	raw := strings.TrimSpace(s.LastReset)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Participants lists the known participants. Names found in order come
// first in that order; the rest follow alphabetically.
func (s *AppState) Participants(order []string) []string {
	out := make([]string, 0, len(s.Kids))
	seen := make(map[string]bool, len(s.Kids))
	for _, name := range order {
		if _, ok := s.Kids[name]; ok && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0)
	for name := range s.Kids {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (s *AppState) HasParticipant(name string) bool {
	_, ok := s.Kids[name]
	return ok
}

// Clone returns a deep copy.
func (s *AppState) Clone() *AppState {
	if s == nil {
		return nil
	}
	out := &AppState{
		LastReset: s.LastReset,
		PIN:       s.PIN,
	}
	if s.Kids != nil {
		out.Kids = make(map[string]PeriodTasks, len(s.Kids))
		for name, tasks := range s.Kids {
			out.Kids[name] = PeriodTasks{
				Morning:   slices.Clone(tasks.Morning),
				Afternoon: slices.Clone(tasks.Afternoon),
			}
		}
	}
	if s.Completed != nil {
		out.Completed = make(Ledger, len(s.Completed))
		for day, entry := range s.Completed {
			if entry == nil {
				out.Completed[day] = nil
				continue
			}
			copied := make(map[string]PeriodSet, len(entry))
			for name, set := range entry {
				copied[name] = PeriodSet{
					Morning:   slices.Clone(set.Morning),
					Afternoon: slices.Clone(set.Afternoon),
				}
			}
			out.Completed[day] = copied
		}
	}
	if s.Extra != nil {
		out.Extra = make(map[string][]byte, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = slices.Clone(v)
		}
	}
	return out
}

// Days returns the ledger's day keys in ascending order.
func (s *AppState) Days() []string {
	return slices.Sorted(maps.Keys(s.Completed))
}

func (s *AppState) normalize() {
	if s.Kids == nil {
		s.Kids = make(map[string]PeriodTasks)
	}
	for name, tasks := range s.Kids {
		tasks.normalize()
		s.Kids[name] = tasks
	}
	if s.Completed == nil {
		s.Completed = make(Ledger)
	}
	for day, entry := range s.Completed {
		if entry == nil {
			s.Completed[day] = make(map[string]PeriodSet)
			continue
		}
		for name, set := range entry {
			if set.normalize() {
				entry[name] = set
			}
		}
	}
}
