package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/chorechart/internal/scheduler"
)

const eventLogLimit = 20

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SchedulerEventMsg{Event: ev}
	}
}

// scheduleRollover queues the next midnight event, replacing the one queued
// before it.
func (m *Model) scheduleRollover() {
	if m.Scheduler == nil || m.Store == nil {
		return
	}
	if m.timers.rolloverID != "" {
		m.Scheduler.Cancel(m.timers.rolloverID)
		m.timers.rolloverID = ""
	}
	ev, err := m.Scheduler.ScheduleRollover(m.Store.Now(), m.Store.Location())
	if err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("rollover schedule failed: %v", err), IsError: true}
		return
	}
	m.timers.rolloverID = ev.ID
	m.logger.Debug("ui_event", "event", "rollover_scheduled", "event_id", ev.ID, "at", ev.At)
}

func (m *Model) scheduleClockTick() {
	if m.Scheduler == nil || m.Store == nil {
		return
	}
	at := m.Store.Now().Add(m.clockRefresh)
	if err := m.Scheduler.Schedule(scheduler.NewEvent(scheduler.KindClockTick, at)); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("clock schedule failed: %v", err), IsError: true}
	}
}

// onSchedulerEvent refreshes the clock and runs the day rollover check on
// every delivery, then queues the next event of the same kind. A rollover
// that was replaced before it fired is recorded but not rescheduled.
func (m Model) onSchedulerEvent(ev scheduler.Event) (tea.Model, tea.Cmd) {
	m.EventLog = append(m.EventLog, ev)
	if len(m.EventLog) > eventLogLimit {
		m.EventLog = m.EventLog[len(m.EventLog)-eventLogLimit:]
	}
	m.logger.Debug("ui_event", "event", "scheduler_event", "event_id", ev.ID, "kind", string(ev.Kind), "at", ev.At)
	if m.Store == nil {
		return m, nil
	}
	m.Now = m.Store.Now()

	_, err := m.Store.CheckAutoReset(context.Background())
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
	// Any store read may already have rolled the day, so compare against
	// the day the board last showed.
	if today := m.Store.Today(); err == nil && today != m.boardDay {
		m.boardDay = today
		m.PeriodOverride = nil
		m.Banner = nil
		m.Cursor.Task = 0
		m.Status = StatusBar{Text: fmt.Sprintf("new day: %s", today)}
		m.notify(m.Status.Text, "info")
		m.logger.Info("ui_event", "event", "board_rolled", "day", today, "trigger", string(ev.Kind), "event_id", ev.ID)
	}
	m.clampCursors()

	switch ev.Kind {
	case scheduler.KindDayRollover:
		if m.timers.rolloverID == "" || ev.ID == m.timers.rolloverID {
			m.scheduleRollover()
		} else {
			m.logger.Debug("ui_event", "event", "stale_rollover", "event_id", ev.ID, "pending_id", m.timers.rolloverID)
		}
	case scheduler.KindClockTick:
		m.scheduleClockTick()
	}
	if m.Scheduler == nil {
		return m, nil
	}
	return m, waitForEventCmd(m.Scheduler.C())
}

// recentEvents formats the newest scheduler deliveries, newest first.
func (m Model) recentEvents(n int) []string {
	out := make([]string, 0, n)
	for i := len(m.EventLog) - 1; i >= 0 && len(out) < n; i-- {
		ev := m.EventLog[i]
		id := ev.ID
		if len(id) > 8 {
			id = id[:8]
		}
		at := ev.At
		if m.Store != nil {
			at = at.In(m.Store.Location())
		}
		out = append(out, fmt.Sprintf("%s %s %s", at.Format("15:04:05"), ev.Kind, id))
	}
	return out
}
