package update

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/chorechart/internal/model"
	"github.com/sandeepkv93/chorechart/internal/scheduler"
	"github.com/sandeepkv93/chorechart/internal/storage"
	"github.com/sandeepkv93/chorechart/internal/store"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestModel(t *testing.T) (Model, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 2, 9, 8, 30, 0, 0, time.UTC)}
	st := store.New(storage.NewMemorySlot(),
		store.WithClock(clock.Now),
		store.WithLocation(time.UTC),
		store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if _, err := st.Load(context.Background()); err != nil {
		t.Fatalf("load store: %v", err)
	}
	m := NewModel(st)
	m.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return m, clock
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func unlockAdmin(t *testing.T, m Model) Model {
	t.Helper()
	m = press(t, m, "a", "1234", "enter")
	if !m.Admin.Unlocked {
		t.Fatalf("admin should unlock with the default pin, status=%+v", m.Status)
	}
	return m
}

func runCommand(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m = press(t, m, "/", line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.CurrentView != ViewBoard {
		t.Fatalf("expected default view %q, got %q", ViewBoard, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.DisplayPeriod() != model.PeriodMorning {
		t.Fatalf("08:30 should show morning, got %s", m.DisplayPeriod())
	}
	if m.Init() != nil {
		t.Fatal("model without scheduler should not start commands")
	}
}

func TestBoardNavigationWraps(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "l")
	if m.Cursor.Participant != 1 {
		t.Fatalf("expected participant 1, got %d", m.Cursor.Participant)
	}
	m = press(t, m, "h", "h")
	if m.Cursor.Participant != len(model.DefaultRoster)-1 {
		t.Fatalf("expected wrap to last participant, got %d", m.Cursor.Participant)
	}
	m = press(t, m, "j", "j", "k")
	if m.Cursor.Task != 1 {
		t.Fatalf("expected task cursor 1, got %d", m.Cursor.Task)
	}
	m = press(t, m, "j", "j", "j", "j", "j", "j")
	if m.Cursor.Task != 4 {
		t.Fatalf("task cursor should stop at the last chore, got %d", m.Cursor.Task)
	}
}

func TestBoardToggleRecordsCompletion(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "j", "enter")
	if got := m.Store.CompletedToday("Angus", model.PeriodMorning); !slices.Equal(got, []int{1}) {
		t.Fatalf("completed = %v, want [1]", got)
	}
	if !strings.Contains(m.Status.Text, "Brush teeth done") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m = press(t, m, "enter")
	if got := m.Store.CompletedToday("Angus", model.PeriodMorning); len(got) != 0 {
		t.Fatalf("second toggle should clear, got %v", got)
	}
}

func TestAllDoneShowsBannerUntilExpired(t *testing.T) {
	m, _ := newTestModel(t)
	tasks, _ := m.Store.Tasks("Angus", model.PeriodMorning)

	var cmd tea.Cmd
	for i := range tasks {
		m.Cursor.Task = i
		updated, c := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m, cmd = updated.(Model), c
		if i < len(tasks)-1 && m.Banner != nil {
			t.Fatalf("banner shown before the last chore (i=%d)", i)
		}
	}
	if m.Banner == nil || m.Banner.Participant != "Angus" {
		t.Fatalf("expected banner for Angus, got %+v", m.Banner)
	}
	if cmd == nil {
		t.Fatal("expected a tick command to clear the banner")
	}
	if !strings.Contains(m.View(), "Angus finished every morning chore") {
		t.Fatalf("banner missing from view:\n%s", m.View())
	}

	updated, _ := m.Update(BannerExpiredMsg{ID: m.Banner.ID + 1})
	m = updated.(Model)
	if m.Banner == nil {
		t.Fatal("stale expiry must not clear a newer banner")
	}
	updated, _ = m.Update(BannerExpiredMsg{ID: m.Banner.ID})
	m = updated.(Model)
	if m.Banner != nil {
		t.Fatal("banner should clear on its own expiry")
	}
}

func TestPeriodOverrideKey(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "m")
	if m.DisplayPeriod() != model.PeriodAfternoon || m.PeriodOverride == nil {
		t.Fatalf("expected manual afternoon, got %s", m.DisplayPeriod())
	}
	if !strings.Contains(m.View(), "Afternoon (manual)") {
		t.Fatal("header should mark the manual period")
	}
	m = press(t, m, "enter")
	if got := m.Store.CompletedToday("Angus", model.PeriodAfternoon); !slices.Equal(got, []int{0}) {
		t.Fatalf("toggle should land in the afternoon list, got %v", got)
	}
	m = press(t, m, "m")
	if m.PeriodOverride != nil || m.DisplayPeriod() != model.PeriodMorning {
		t.Fatal("second press should return to the clock period")
	}
}

func TestAdminRequiresPIN(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "a")
	if m.CurrentView != ViewAdmin || m.Admin.Unlocked {
		t.Fatalf("expected locked admin view, got %q unlocked=%v", m.CurrentView, m.Admin.Unlocked)
	}
	if strings.Contains(m.View(), "Make bed") {
		t.Fatal("locked admin must not show the board")
	}

	m = press(t, m, "9999", "enter")
	if m.Admin.Unlocked || m.Admin.Failures != 1 || !m.Status.IsError {
		t.Fatalf("wrong pin should be rejected: %+v %+v", m.Admin, m.Status)
	}
	m = press(t, m, "12345", "backspace", "enter")
	if !m.Admin.Unlocked {
		t.Fatalf("expected unlock after backspace correction, status=%+v", m.Status)
	}

	m = press(t, m, "esc")
	if m.CurrentView != ViewBoard || m.Admin.Unlocked {
		t.Fatal("leaving admin should lock it again")
	}
}

func TestPaletteAddAndRemove(t *testing.T) {
	m, _ := newTestModel(t)
	m = unlockAdmin(t, m)

	m, _ = runCommand(t, m, "add flynn pm Walk the dog")
	if m.Status.IsError {
		t.Fatalf("add failed: %+v", m.Status)
	}
	tasks, _ := m.Store.Tasks("Flynn", model.PeriodAfternoon)
	if tasks[len(tasks)-1] != "Walk the dog" {
		t.Fatalf("expected new chore at the end, got %v", tasks)
	}

	m, _ = runCommand(t, m, "remove Flynn afternoon 1")
	tasks, _ = m.Store.Tasks("Flynn", model.PeriodAfternoon)
	if tasks[0] == "Unpack school bag" {
		t.Fatalf("first chore should be removed, got %v", tasks)
	}

	m, _ = runCommand(t, m, "remove Flynn afternoon 99")
	if !m.Status.IsError {
		t.Fatalf("out of range remove should fail: %+v", m.Status)
	}
	if !errors.Is(m.LastError, model.ErrInvalidReference) {
		t.Fatalf("expected invalid reference, got %v", m.LastError)
	}
}

func TestPalettePINChange(t *testing.T) {
	m, _ := newTestModel(t)
	m = unlockAdmin(t, m)
	m, _ = runCommand(t, m, "pin 2468")
	if m.Status.Text != "PIN updated" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if m.Store.VerifySecret("1234") || !m.Store.VerifySecret("2468") {
		t.Fatal("pin change not applied")
	}
}

func TestPaletteExportImport(t *testing.T) {
	m, _ := newTestModel(t)
	m = unlockAdmin(t, m)
	dir := t.TempDir()

	m, _ = runCommand(t, m, "export "+dir)
	path := filepath.Join(dir, store.ExportFileName)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing: %v (status %+v)", err, m.Status)
	}

	doc := `{"kids":{"Zed":{"morning":["Water plants"],"afternoon":[]}}}`
	importPath := filepath.Join(dir, "in.json")
	if err := os.WriteFile(importPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("write import: %v", err)
	}
	m.Cursor.Participant = 3
	m, cmd := runCommand(t, m, "import "+importPath)
	if cmd == nil {
		t.Fatal("import should request a reload")
	}
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	if m.Cursor.Participant != 0 {
		t.Fatalf("reload should reset the cursor, got %d", m.Cursor.Participant)
	}
	if got := m.Store.Participants(); !slices.Equal(got, []string{"Zed"}) {
		t.Fatalf("participants = %v", got)
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"pin":"1"}`), 0o644)
	m, _ = runCommand(t, m, "import "+bad)
	if !errors.Is(m.LastError, model.ErrInvalidFormat) {
		t.Fatalf("expected invalid format, got %v", m.LastError)
	}
}

func TestPaletteWipeRestoresDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "enter")
	m = unlockAdmin(t, m)

	m, _ = runCommand(t, m, "wipe")
	if !m.Status.IsError {
		t.Fatal("wipe without confirm should be rejected")
	}
	m, cmd := runCommand(t, m, "wipe confirm")
	if cmd == nil {
		t.Fatal("wipe should request a reload")
	}
	if m.Admin.Unlocked {
		t.Fatal("wipe should lock admin")
	}
	if got := m.Store.CompletedToday("Angus", model.PeriodMorning); len(got) != 0 {
		t.Fatalf("wipe should clear completions, got %v", got)
	}
	if len(m.Store.Participants()) != len(model.DefaultRoster) {
		t.Fatal("wipe should reseed the default roster")
	}
}

func TestSchedulerRolloverStartsNewDay(t *testing.T) {
	m, clock := newTestModel(t)
	m = press(t, m, "enter")

	clock.now = time.Date(2026, 2, 10, 0, 0, 1, 0, time.UTC)
	updated, cmd := m.Update(SchedulerEventMsg{Event: scheduler.NewEvent(scheduler.KindDayRollover, clock.now)})
	m = updated.(Model)
	if cmd != nil {
		t.Fatal("no scheduler attached, nothing to wait on")
	}
	if !strings.Contains(m.Status.Text, "new day: 2026-02-10") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if got := m.Store.CompletedToday("Angus", model.PeriodMorning); len(got) != 0 {
		t.Fatalf("new day should start empty, got %v", got)
	}
	if len(m.EventLog) != 1 {
		t.Fatalf("event log = %d entries", len(m.EventLog))
	}

	updated, _ = m.Update(SchedulerEventMsg{Event: scheduler.NewEvent(scheduler.KindClockTick, clock.now)})
	m = updated.(Model)
	if strings.Contains(m.Status.Text, "new day") && len(m.Notifications) > 1 {
		t.Fatal("a tick on the same day must not roll over again")
	}
}

func TestInitSchedulesRolloverAndTick(t *testing.T) {
	m, _ := newTestModel(t)
	engine := scheduler.NewEngine(4)
	m.Scheduler = engine
	if m.Init() == nil {
		t.Fatal("expected a wait command")
	}
	if engine.Pending() != 2 {
		t.Fatalf("pending = %d, want rollover and tick", engine.Pending())
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "ready", IsError: false})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsBoard(t *testing.T) {
	m, _ := newTestModel(t)
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"chorechart", "Mon 9 Feb", "Morning", "Angus", "Logan", "Make bed", "status: all good"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "?")
	if !m.HelpVisible {
		t.Fatal("help should be visible")
	}
	if !strings.Contains(m.View(), "tick or untick chore") {
		t.Fatal("board bindings missing from help")
	}
	m = press(t, m, "?")
	if m.HelpVisible {
		t.Fatal("help should hide on second press")
	}
}

func TestRolloverIsReplacedNotDuplicated(t *testing.T) {
	m, _ := newTestModel(t)
	engine := scheduler.NewEngine(8)
	m.Scheduler = engine
	m.Init()
	first := m.timers.rolloverID
	if first == "" || engine.Pending() != 2 {
		t.Fatalf("init: rollover=%q pending=%d", first, engine.Pending())
	}

	m = press(t, m, "r")
	second := m.timers.rolloverID
	if second == "" || second == first {
		t.Fatalf("reset should queue a fresh rollover, got %q", second)
	}
	if engine.Pending() != 2 {
		t.Fatalf("pending = %d, the old rollover should be cancelled", engine.Pending())
	}

	updated, _ := m.Update(SchedulerEventMsg{Event: scheduler.Event{ID: first, Kind: scheduler.KindDayRollover, At: m.Now}})
	m = updated.(Model)
	if m.timers.rolloverID != second || engine.Pending() != 2 {
		t.Fatalf("replaced rollover must not reschedule: id=%q pending=%d", m.timers.rolloverID, engine.Pending())
	}

	updated, _ = m.Update(SchedulerEventMsg{Event: scheduler.Event{ID: second, Kind: scheduler.KindDayRollover, At: m.Now}})
	m = updated.(Model)
	if m.timers.rolloverID == second || engine.Pending() != 2 {
		t.Fatalf("current rollover should requeue: id=%q pending=%d", m.timers.rolloverID, engine.Pending())
	}
	if len(m.EventLog) != 2 || m.EventLog[0].ID != first || m.EventLog[1].ID != second {
		t.Fatalf("event log = %+v", m.EventLog)
	}
}

func TestBoardNoticesDayRolledByStoreRead(t *testing.T) {
	m, clock := newTestModel(t)
	m = press(t, m, "m")
	if m.PeriodOverride == nil {
		t.Fatal("expected a period override")
	}

	clock.now = time.Date(2026, 2, 10, 7, 0, 0, 0, time.UTC)
	if done, _ := m.Store.Progress("Angus", model.PeriodMorning); done != 0 {
		t.Fatalf("new day progress = %d", done)
	}
	updated, _ := m.Update(SchedulerEventMsg{Event: scheduler.NewEvent(scheduler.KindClockTick, clock.now)})
	m = updated.(Model)
	if !strings.Contains(m.Status.Text, "new day: 2026-02-10") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if m.PeriodOverride != nil {
		t.Fatal("override should clear on a new day")
	}
}

func TestHelpListsRecentEvents(t *testing.T) {
	m, clock := newTestModel(t)
	ev := scheduler.NewEvent(scheduler.KindClockTick, clock.now)
	updated, _ := m.Update(SchedulerEventMsg{Event: ev})
	m = updated.(Model)
	m = press(t, m, "?")
	out := m.View()
	for _, want := range []string{"recent events", "clock_tick", ev.ID[:8]} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in help:\n%s", want, out)
		}
	}
}
