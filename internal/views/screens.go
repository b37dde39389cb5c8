package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	Text     string
	Done     bool
	Selected bool
}

type CardData struct {
	Participant  string
	Tasks        []TaskRowData
	Done         int
	Total        int
	ProgressView string
	Active       bool
}

type BoardData struct {
	Cards []CardData
	Width int
}

type BannerData struct {
	Participant string
	Period      string
}

type AdminData struct {
	Locked      bool
	PINView     string
	Participant string
	Period      string
	Tasks       []string
	PaletteView string
	Usage       []string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
	Events      []string
	Guide       string
}

const defaultCardWidth = 30

// RenderCard draws one participant's checklist for a single period.
func RenderCard(card CardData, width int) string {
	if width <= 0 {
		width = defaultCardWidth
	}
	var b strings.Builder
	name := H2.Render(card.Participant)
	if card.Active {
		name = Title.Render("> " + card.Participant)
	}
	b.WriteString(name + "\n")
	progress := card.ProgressView
	if progress == "" {
		progress = ProgressText(card.Done, card.Total, 10)
	}
	b.WriteString(fmt.Sprintf("%s %d/%d\n", progress, card.Done, card.Total))
	if len(card.Tasks) == 0 {
		b.WriteString(Muted.Render("(no chores)"))
	}
	for i, task := range card.Tasks {
		mark := IconTodo
		text := task.Text
		if task.Done {
			mark = IconDone
			text = Muted.Render(text)
		}
		cursor := " "
		if task.Selected {
			cursor = ">"
			text = SelectedRow.Render(task.Text)
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, mark, text))
		if i < len(card.Tasks)-1 {
			b.WriteString("\n")
		}
	}
	style := Panel
	if card.Active {
		style = ActivePanel
	}
	return style.Width(width).Render(b.String())
}

func RenderBoard(data BoardData) string {
	if len(data.Cards) == 0 {
		return Muted.Render("no participants yet: open admin with [a] to add chores")
	}
	cards := make([]string, 0, len(data.Cards))
	for _, card := range data.Cards {
		cards = append(cards, RenderCard(card, data.Width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// RenderBanner is the celebration shown when a participant finishes a period.
func RenderBanner(data BannerData) string {
	if strings.TrimSpace(data.Participant) == "" {
		return ""
	}
	msg := fmt.Sprintf("%s %s finished every %s chore! %s", IconStar, data.Participant, strings.ToLower(data.Period), IconStar)
	return ActivePanel.Render(Gold.Render(msg))
}

func RenderAdmin(data AdminData) string {
	var b strings.Builder
	if data.Locked {
		b.WriteString(Heading(IconLock, "Admin") + "\n")
		b.WriteString("enter the PIN to unlock\n")
		b.WriteString(data.PINView + "\n")
		b.WriteString(Muted.Render("[enter] unlock [esc] back"))
		return Panel.Render(b.String())
	}

	b.WriteString(Heading(IconKey, "Admin") + "\n")
	b.WriteString(LabelValue("participant", data.Participant) + "  " + LabelValue("period", data.Period) + "\n")
	if len(data.Tasks) == 0 {
		b.WriteString(Muted.Render("(no chores)") + "\n")
	}
	for i, task := range data.Tasks {
		b.WriteString(fmt.Sprintf("%2d. %s\n", i+1, task))
	}
	b.WriteString("\n")
	if data.PaletteView != "" {
		b.WriteString(data.PaletteView + "\n")
	} else {
		b.WriteString(Muted.Render("[h/l] participant [p] period [/] command [L] lock [esc] back") + "\n")
	}
	if len(data.Usage) > 0 {
		b.WriteString(Muted.Render("commands:") + "\n")
		for _, u := range data.Usage {
			b.WriteString(Muted.Render("  "+u) + "\n")
		}
	}
	return Panel.Render(strings.TrimSuffix(b.String(), "\n"))
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("help: %s view\n", strings.ToLower(data.CurrentView)))
	b.WriteString(strings.Join(data.Bindings, "\n"))
	if data.HelpView != "" {
		b.WriteString("\n" + data.HelpView)
	}
	if len(data.Events) > 0 {
		b.WriteString("\n\nrecent events:\n")
		b.WriteString(strings.Join(data.Events, "\n"))
	}
	if data.Guide != "" {
		b.WriteString("\n\n" + data.Guide)
	}
	return b.String()
}

// RenderChecklist is the plain text form of a card for terminal output.
func RenderChecklist(card CardData) string {
	var b strings.Builder
	b.WriteString(H2.Render(card.Participant))
	b.WriteString(fmt.Sprintf(" %s %d/%d\n", ProgressText(card.Done, card.Total, 10), card.Done, card.Total))
	for i, task := range card.Tasks {
		mark := IconTodo
		if task.Done {
			mark = IconDone
		}
		b.WriteString(fmt.Sprintf("  %d. %s %s\n", i+1, mark, task.Text))
	}
	return b.String()
}
