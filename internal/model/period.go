package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidReference = errors.New("model: invalid reference")
	ErrInvalidInput     = errors.New("model: invalid input")
	ErrInvalidFormat    = errors.New("model: invalid format")
)

type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
)

// Periods lists every period in display order.
var Periods = []Period{PeriodMorning, PeriodAfternoon}

func (p Period) IsValid() bool {
	switch p {
	case PeriodMorning, PeriodAfternoon:
		return true
	default:
		return false
	}
}

func (p Period) Label() string {
	switch p {
	case PeriodMorning:
		return "Morning"
	case PeriodAfternoon:
		return "Afternoon"
	default:
		return string(p)
	}
}

// Other returns the opposite period.
func (p Period) Other() Period {
	if p == PeriodMorning {
		return PeriodAfternoon
	}
	return PeriodMorning
}

func ParsePeriod(raw string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "morning", "am":
		return PeriodMorning, nil
	case "afternoon", "pm":
		return PeriodAfternoon, nil
	default:
		return "", fmt.Errorf("%w: unknown period %q", ErrInvalidReference, raw)
	}
}

// CurrentPeriod returns the override when set, otherwise Morning before noon
// and Afternoon from noon on. The hour is read in now's location.
func CurrentPeriod(now time.Time, override *Period) Period {
	if override != nil && override.IsValid() {
		return *override
	}
	if now.Hour() < 12 {
		return PeriodMorning
	}
	return PeriodAfternoon
}

const dayKeyLayout = "2006-01-02"

// DayKey formats the calendar day of t in loc. A nil loc keeps t's own location.
func DayKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dayKeyLayout)
}

func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dayKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day key %q", ErrInvalidFormat, key)
	}
	return t, nil
}
