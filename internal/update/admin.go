package update

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) openAdmin() Model {
	m.CurrentView = ViewAdmin
	m.Admin.Unlocked = false
	m.Admin.Participant = m.Cursor.Participant
	m.Admin.Period = m.DisplayPeriod()
	m.pinInput.SetValue("")
	m.pinInput.Focus()
	m.Status = StatusBar{Text: "enter PIN"}
	return m
}

func (m Model) lockAdmin() Model {
	m.Admin.Unlocked = false
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	m.pinInput.SetValue("")
	m.pinInput.Blur()
	return m
}

func (m Model) handlePINKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m = m.lockAdmin()
		m.CurrentView = ViewBoard
		m.Status = StatusBar{}
	case "enter":
		candidate := m.pinInput.Value()
		m.pinInput.SetValue("")
		if m.Store != nil && m.Store.VerifySecret(candidate) {
			m.Admin.Unlocked = true
			m.Admin.Failures = 0
			m.pinInput.Blur()
			m.Status = StatusBar{Text: "admin unlocked"}
			m.logger.Info("ui_event", "event", "admin_unlocked")
			return m
		}
		m.Admin.Failures++
		m.Status = StatusBar{Text: "incorrect PIN", IsError: true}
		m.logger.Warn("ui_event", "event", "admin_pin_rejected", "failures", m.Admin.Failures)
	case "backspace":
		v := []rune(m.pinInput.Value())
		if len(v) > 0 {
			m.pinInput.SetValue(string(v[:len(v)-1]))
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.pinInput.SetValue(m.pinInput.Value() + string(msg.Runes))
		}
	}
	return m
}

func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.participants()
	switch msg.String() {
	case "/", ":":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.Focus()
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active"}
	case "h", "left":
		m.Admin.Participant = wrap(m.Admin.Participant-1, len(names))
	case "l", "right", "tab":
		m.Admin.Participant = wrap(m.Admin.Participant+1, len(names))
	case "p":
		m.Admin.Period = m.Admin.Period.Other()
	case "L":
		m = m.lockAdmin()
		m.pinInput.Focus()
		m.Status = StatusBar{Text: "admin locked"}
	case "esc":
		m = m.lockAdmin()
		m.CurrentView = ViewBoard
		m.Status = StatusBar{}
	}
	return m, nil
}
