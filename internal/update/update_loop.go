package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/chorechart/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler == nil {
		return nil
	}
	m.scheduleRollover()
	m.scheduleClockTick()
	return waitForEventCmd(m.Scheduler.C())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.CurrentView == ViewAdmin && !m.Admin.Unlocked {
			return m.handlePINKey(typed), nil
		}

		switch keyStr {
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		case m.Keys.Board:
			m = m.lockAdmin()
			m.CurrentView = ViewBoard
			return m, nil
		case m.Keys.Admin:
			if m.CurrentView != ViewAdmin {
				m = m.openAdmin()
				return m, nil
			}
		}
		if m.CurrentView == ViewAdmin {
			return m.handleAdminKey(typed)
		}
		return m.handleBoardKey(typed)
	case SwitchViewMsg:
		switch typed.View {
		case ViewBoard:
			m = m.lockAdmin()
			m.CurrentView = ViewBoard
		case ViewAdmin:
			m = m.openAdmin()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify(typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify(typed.Err.Error(), "error")
		}
		return m, nil
	case SchedulerEventMsg:
		return m.onSchedulerEvent(typed.Event)
	case BannerExpiredMsg:
		if m.Banner != nil && m.Banner.ID == typed.ID {
			m.Banner = nil
		}
		return m, nil
	case ReloadMsg:
		m.PeriodOverride = nil
		m.Banner = nil
		m.Cursor = BoardCursor{}
		if m.Store != nil {
			m.boardDay = m.Store.Today()
		}
		m.scheduleRollover()
		m.clampCursors()
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	body := ""
	switch m.CurrentView {
	case ViewAdmin:
		body = m.renderAdminView()
	default:
		body = m.renderBoardView()
	}

	notification := strings.TrimSpace(strings.Join([]string{
		m.renderBanner(),
		m.renderNotificationsView(),
	}, "\n"))

	period := m.DisplayPeriod()
	mode := period.Label()
	if m.PeriodOverride != nil {
		mode += " (manual)"
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("chorechart | %s | %s | view: %s", m.Now.Format("Mon 2 Jan 15:04"), mode, m.CurrentView),
		Body:         body,
		Side:         m.renderHelpIfVisible(),
		StatusLine:   status,
		Notification: notification,
		Footer:       m.footer(),
	})
}

func (m Model) footer() string {
	if m.CurrentView == ViewAdmin {
		return fmt.Sprintf("keys: %s board | / cmd | %s help | %s quit", m.Keys.Board, m.Keys.Help, m.Keys.Quit)
	}
	return fmt.Sprintf("keys: h/l kid | j/k chore | space tick | m period | r reset | %s admin | %s help | %s quit",
		m.Keys.Admin, m.Keys.Help, m.Keys.Quit)
}
