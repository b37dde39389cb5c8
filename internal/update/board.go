package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/chorechart/internal/store"
)

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.participants()
	switch msg.String() {
	case "h", "left", "shift+tab":
		m.Cursor.Participant = wrap(m.Cursor.Participant-1, len(names))
		m.Cursor.Task = 0
	case "l", "right", "tab":
		m.Cursor.Participant = wrap(m.Cursor.Participant+1, len(names))
		m.Cursor.Task = 0
	case "j", "down":
		m.Cursor.Task++
	case "k", "up":
		m.Cursor.Task--
	case " ", "space", "enter":
		m.clampCursors()
		return m.toggleSelected()
	case "m":
		if m.PeriodOverride == nil {
			next := m.DisplayPeriod().Other()
			m.PeriodOverride = &next
		} else {
			m.PeriodOverride = nil
		}
		m.Cursor.Task = 0
		m.Status = StatusBar{Text: fmt.Sprintf("showing %s chores", m.DisplayPeriod())}
	case "r":
		if err := m.Store.ResetNow(context.Background()); err != nil {
			m.LastError = err
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			break
		}
		m.Now = m.Store.Now()
		m.boardDay = m.Store.Today()
		m.scheduleRollover()
		m.Status = StatusBar{Text: "today marked as reset, ticks kept"}
	}
	m.clampCursors()
	return m, nil
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	name, ok := m.selectedParticipant()
	if !ok {
		return m, nil
	}
	period := m.DisplayPeriod()
	tasks, err := m.Store.Tasks(name, period)
	if err != nil || len(tasks) == 0 {
		m.Status = StatusBar{Text: fmt.Sprintf("%s has no %s chores", name, period)}
		return m, nil
	}

	res, err := m.Store.Toggle(context.Background(), name, period, m.Cursor.Task)
	if err != nil {
		m.LastError = err
		text := err.Error()
		if errors.Is(err, store.ErrPersist) {
			text = "could not save: " + err.Error()
		}
		m.Status = StatusBar{Text: text, IsError: true}
		return m, nil
	}

	task := tasks[m.Cursor.Task]
	if res.Completed {
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s done", name, task)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s not done", name, task)}
	}
	if !res.AllDone {
		return m, nil
	}

	m.bannerSeq++
	id := m.bannerSeq
	m.Banner = &Banner{ID: id, Participant: name, Period: period}
	m.notify(fmt.Sprintf("%s finished the %s chores", name, period), "info")
	return m, tea.Tick(m.bannerDuration, func(time.Time) tea.Msg {
		return BannerExpiredMsg{ID: id}
	})
}
