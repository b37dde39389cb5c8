package update

import (
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/chorechart/internal/commands"
	"github.com/sandeepkv93/chorechart/internal/views"
)

const notificationLimit = 40

func (m Model) renderBoardView() string {
	names := m.participants()
	period := m.DisplayPeriod()
	cards := make([]views.CardData, 0, len(names))
	for i, name := range names {
		tasks, err := m.Store.Tasks(name, period)
		if err != nil {
			continue
		}
		completed := m.Store.CompletedToday(name, period)
		done, total := m.Store.Progress(name, period)
		active := i == m.Cursor.Participant
		rows := make([]views.TaskRowData, 0, len(tasks))
		for j, text := range tasks {
			rows = append(rows, views.TaskRowData{
				Text:     text,
				Done:     slices.Contains(completed, j),
				Selected: active && j == m.Cursor.Task,
			})
		}
		pct := 0.0
		if total > 0 {
			pct = float64(done) / float64(total)
		}
		cards = append(cards, views.CardData{
			Participant:  name,
			Tasks:        rows,
			Done:         done,
			Total:        total,
			ProgressView: m.bars.ViewAs(pct),
			Active:       active,
		})
	}
	return views.RenderBoard(views.BoardData{Cards: cards})
}

func (m Model) renderAdminView() string {
	data := views.AdminData{
		Locked:  !m.Admin.Unlocked,
		PINView: m.pinInput.View(),
		Period:  m.Admin.Period.Label(),
	}
	if data.Locked {
		return views.RenderAdmin(data)
	}
	if name, ok := m.adminParticipant(); ok {
		data.Participant = name
		data.Tasks, _ = m.Store.Tasks(name, m.Admin.Period)
	}
	if m.Palette.Active {
		data.PaletteView = m.renderCommandPalette()
	}
	for _, t := range commands.Types {
		data.Usage = append(data.Usage, commands.Usage(t))
	}
	return views.RenderAdmin(data)
}

func (m Model) renderBanner() string {
	if m.Banner == nil {
		return ""
	}
	return views.RenderBanner(views.BannerData{
		Participant: m.Banner.Participant,
		Period:      m.Banner.Period.Label(),
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m *Model) notify(body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Body:  body,
		Level: level,
		At:    time.Now(),
	})
	if len(m.Notifications) > notificationLimit {
		m.Notifications = m.Notifications[len(m.Notifications)-notificationLimit:]
	}
}
