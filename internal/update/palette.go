package update

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/chorechart/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	case "backspace":
		v := []rune(m.commandInput.Value())
		if len(v) > 0 {
			m.commandInput.SetValue(string(v[:len(v)-1]))
		}
		m.Palette.Input = m.commandInput.Value()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if !m.Admin.Unlocked || m.Store == nil {
		m.Status = StatusBar{Text: "admin is locked", IsError: true}
		return m, nil
	}

	res, err := commands.Execute(cmd, commands.StoreHandlers(context.Background(), m.Store, m.exportDir))
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify(err.Error(), "error")
		return m, nil
	}

	m.Status = StatusBar{Text: res.Message}
	m.notify(res.Message, "info")
	m.logger.Info("ui_event", "event", "admin_command", "command", string(cmd.Type))
	if cmd.Type == commands.TypeWipe {
		m = m.lockAdmin()
		m.pinInput.Focus()
	}
	if res.Reload {
		m.Now = m.Store.Now()
		return m, func() tea.Msg { return ReloadMsg{} }
	}
	m.clampCursors()
	return m, nil
}
