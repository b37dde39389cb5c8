package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/chorechart/internal/commands"
	"github.com/sandeepkv93/chorechart/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

const helpGuide = `## How it works

- Each kid has a **morning** and an **afternoon** list.
- Before noon the board shows morning chores, after noon the afternoon ones.
- Ticks are kept per day. At midnight the board starts fresh; old days stay in the backup.
- Grown-ups unlock **admin** with the PIN to edit chores, change the PIN or back up the data.
`

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		Events: m.recentEvents(5),
		Guide:  views.RenderMarkdown(helpGuide),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Board, Action: "show the board"},
		{Key: m.Keys.Admin, Action: "open admin"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewBoard:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next kid"},
			{Key: "j/k", Action: "move between chores"},
			{Key: "space", Action: "tick or untick chore"},
			{Key: "m", Action: "switch morning/afternoon"},
			{Key: "r", Action: "mark today as reset (keeps ticks)"},
		}
	case ViewAdmin:
		out := []KeyBinding{
			{Key: "h/l", Action: "previous/next kid"},
			{Key: "p", Action: "switch period"},
			{Key: "/", Action: "open command palette"},
			{Key: "L", Action: "lock admin"},
		}
		for _, t := range commands.Types {
			out = append(out, KeyBinding{Key: "/" + string(t), Action: commands.Usage(t)})
		}
		return out
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
