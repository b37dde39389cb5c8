package update

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/chorechart/internal/config"
	"github.com/sandeepkv93/chorechart/internal/model"
	"github.com/sandeepkv93/chorechart/internal/scheduler"
	"github.com/sandeepkv93/chorechart/internal/store"
)

type View string

const (
	ViewBoard View = "Board"
	ViewAdmin View = "Admin"
)

const defaultBannerDuration = 4 * time.Second

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Board string
	Admin string
	Help  string
	Quit  string
}

// BoardCursor points at a participant card and a task inside it.
type BoardCursor struct {
	Participant int
	Task        int
}

// Banner is the celebration shown after a participant finishes a period.
type Banner struct {
	ID          int
	Participant string
	Period      model.Period
}

type AdminState struct {
	Unlocked    bool
	Participant int
	Period      model.Period
	Failures    int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	CurrentView    View
	Store          *store.Store
	Scheduler      *scheduler.Engine
	Cursor         BoardCursor
	PeriodOverride *model.Period
	Banner         *Banner
	Admin          AdminState
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	EventLog       []scheduler.Event
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	Now            time.Time

	exportDir      string
	boardDay       string
	timers         *timerState
	clockRefresh   time.Duration
	bannerDuration time.Duration
	bannerSeq      int
	logger         *slog.Logger

	pinInput     textinput.Model
	commandInput textinput.Model
	bars         progress.Model
	helpModel    help.Model
}

// timerState is shared by every copy of the model so Init can record the
// rollover it queued.
type timerState struct {
	rolloverID string
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// SchedulerEventMsg carries an event delivered by the scheduler engine.
type SchedulerEventMsg struct {
	Event scheduler.Event
}

type BannerExpiredMsg struct {
	ID int
}

// ReloadMsg rebuilds the cursors after the document was replaced.
type ReloadMsg struct{}

func NewModel(st *store.Store) Model {
	return NewModelWithConfig(st, nil, config.DefaultRuntimeConfig())
}

func NewModelWithConfig(st *store.Store, engine *scheduler.Engine, cfg config.RuntimeConfig) Model {
	m := Model{
		CurrentView:    ViewBoard,
		Store:          st,
		Scheduler:      engine,
		Admin:          AdminState{Period: model.PeriodMorning},
		exportDir:      cfg.ExportDir,
		clockRefresh:   cfg.ClockRefresh(),
		bannerDuration: defaultBannerDuration,
		timers:         &timerState{},
		logger:         slog.Default(),
		Keys: GlobalKeyMap{
			Board: "b",
			Admin: "a",
			Help:  "?",
			Quit:  "q",
		},
	}
	if st != nil {
		m.Now = st.Now()
		m.boardDay = st.Today()
		m.Admin.Period = st.CurrentPeriod(nil)
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.pinInput = textinput.New()
	m.pinInput.Prompt = "PIN> "
	m.pinInput.CharLimit = 32
	m.pinInput.Width = 16
	m.pinInput.EchoMode = textinput.EchoPassword
	m.pinInput.EchoCharacter = '•'

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.bars = progress.New(progress.WithDefaultGradient(), progress.WithWidth(16))
	m.helpModel = help.New()
}

func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// DisplayPeriod is the period the board shows: the override when set,
// otherwise the one implied by the clock.
func (m Model) DisplayPeriod() model.Period {
	if m.Store == nil {
		return model.CurrentPeriod(m.Now, m.PeriodOverride)
	}
	return m.Store.CurrentPeriod(m.PeriodOverride)
}

func (m Model) participants() []string {
	if m.Store == nil {
		return nil
	}
	return m.Store.Participants()
}

func (m Model) selectedParticipant() (string, bool) {
	names := m.participants()
	if len(names) == 0 {
		return "", false
	}
	idx := clamp(m.Cursor.Participant, 0, len(names)-1)
	return names[idx], true
}

func (m Model) adminParticipant() (string, bool) {
	names := m.participants()
	if len(names) == 0 {
		return "", false
	}
	idx := clamp(m.Admin.Participant, 0, len(names)-1)
	return names[idx], true
}

// clampCursors keeps both cursors inside the current roster and task list.
func (m *Model) clampCursors() {
	names := m.participants()
	if len(names) == 0 {
		m.Cursor = BoardCursor{}
		m.Admin.Participant = 0
		return
	}
	m.Cursor.Participant = clamp(m.Cursor.Participant, 0, len(names)-1)
	m.Admin.Participant = clamp(m.Admin.Participant, 0, len(names)-1)
	tasks, err := m.Store.Tasks(names[m.Cursor.Participant], m.DisplayPeriod())
	if err != nil || len(tasks) == 0 {
		m.Cursor.Task = 0
		return
	}
	m.Cursor.Task = clamp(m.Cursor.Task, 0, len(tasks)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrap(v, n int) int {
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}
