package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/primecalc/internal/calc"
	"github.com/sandeepkv93/primecalc/internal/insight"
	"github.com/sandeepkv93/primecalc/internal/model"
	"github.com/sandeepkv93/primecalc/internal/scheduler"
	"github.com/sandeepkv93/primecalc/internal/storage"
	"github.com/sandeepkv93/primecalc/internal/system"
	"github.com/sandeepkv93/primecalc/internal/telemetry"
	"go.uber.org/zap"
)

type Tab string

const (
	TabHistory  Tab = "History"
	TabCalendar Tab = "Calendar"
	TabAlarm    Tab = "Alarm"
	TabSystem   Tab = "System"
)

var tabOrder = []Tab{TabHistory, TabCalendar, TabAlarm, TabSystem}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Palette   string
	NextTab   string
	PrevTab   string
	Theme     string
	Undo      string
	Redo      string
	Help      string
	Quit      string
	ForceQuit string
}

type DialogKind string

const (
	DialogNone         DialogKind = ""
	DialogAlarmTime    DialogKind = "alarm_time"
	DialogLogin        DialogKind = "login"
	DialogClearHistory DialogKind = "clear_history"
	DialogShutdown     DialogKind = "shutdown"
)

type DialogState struct {
	Kind DialogKind
	Err  string
}

func (d DialogState) Active() bool { return d.Kind != DialogNone }

func (d DialogState) Confirming() bool {
	return d.Kind == DialogClearHistory || d.Kind == DialogShutdown
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type CalendarState struct {
	// Month is the first day of the displayed month.
	Month time.Time
}

type AlarmState struct {
	Items   []model.Alarm
	Cursor  int
	Ringing *model.Alarm
}

type InsightState struct {
	Text    string
	Loading bool
	seq     uint64
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type Model struct {
	Session        *calc.Session
	Scheduler      *scheduler.Engine
	Insight        InsightState
	Alarms         AlarmState
	Calendar       CalendarState
	Theme          model.Theme
	UserName       string
	CurrentTab     Tab
	HistoryCursor  int
	Diagnostics    system.Diagnostics
	Dialog         DialogState
	Palette        CommandPaletteState
	HelpVisible    bool
	ShuttingDown   bool
	Now            time.Time
	Status         StatusBar
	Notifications  []Notification
	DesktopEnabled bool
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	insightSvc    insight.Service
	settings      storage.Repository
	metrics       *telemetry.Metrics
	probe         *system.Probe
	notifier      DesktopNotifier
	logger        *zap.Logger
	clock         func() time.Time
	newID         func() string
	shutdownDelay time.Duration
	defaultTheme  model.Theme

	// Bubble components used for rich TUI controls
	dialogInput    textinput.Model
	commandInput   textinput.Model
	insightSpinner spinner.Model
	powerBar       progress.Model
	helpModel      help.Model
	helpViewport   viewport.Model
}

type Deps struct {
	Session   *calc.Session
	Scheduler *scheduler.Engine
	Insight   insight.Service
	Settings  storage.Repository
	Metrics   *telemetry.Metrics
	Notifier  DesktopNotifier
	Probe     *system.Probe
	Logger    *zap.Logger
	Clock     func() time.Time
	NewID     func() string
}

type SwitchTabMsg struct {
	Tab Tab
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ClockTickMsg struct {
	At time.Time
}

type AlarmDueMsg struct {
	Event scheduler.AlarmEvent
}

type InsightMsg struct {
	Seq  uint64
	Text string
}

type ShutdownCompleteMsg struct{}

func NewModel() Model {
	return NewModelWithConfig(Deps{}, DefaultRuntimeConfig())
}

func NewModelWithConfig(deps Deps, cfg RuntimeConfig) Model {
	m := Model{
		Session:        deps.Session,
		Scheduler:      deps.Scheduler,
		CurrentTab:     TabHistory,
		DesktopEnabled: cfg.DesktopNotifications,
		Insight:        InsightState{Text: insight.ReadyText},
		insightSvc:     deps.Insight,
		settings:       deps.Settings,
		metrics:        deps.Metrics,
		probe:          deps.Probe,
		notifier:       deps.Notifier,
		logger:         deps.Logger,
		clock:          deps.Clock,
		newID:          deps.NewID,
		shutdownDelay:  cfg.ShutdownDelay,
		Keys: GlobalKeyMap{
			Palette:   ":",
			NextTab:   "tab",
			PrevTab:   "shift+tab",
			Theme:     "t",
			Undo:      "ctrl+z",
			Redo:      "ctrl+y",
			Help:      "?",
			Quit:      "q",
			ForceQuit: "ctrl+c",
		},
	}
	if m.Session == nil {
		m.Session = calc.NewSession()
	}
	if m.insightSvc == nil {
		m.insightSvc = insight.New(nil)
	}
	if m.probe == nil {
		m.probe = system.NewProbe()
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.newID == nil {
		m.newID = defaultAlarmID
	}
	if m.shutdownDelay <= 0 {
		m.shutdownDelay = DefaultRuntimeConfig().ShutdownDelay
	}

	m.defaultTheme = model.Themes[0]
	if theme, ok := model.ThemeByName(cfg.ThemeName); ok {
		m.defaultTheme = theme
	}
	m.Theme = m.defaultTheme
	m.Now = m.clock()
	m.Calendar.Month = firstOfMonth(m.Now)
	m.Diagnostics = m.probe.Collect()

	if name, err := loadUserName(context.Background(), m.settings); err != nil {
		m.logger.Warn("load user name", zap.Error(err))
	} else {
		m.UserName = name
	}

	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.dialogInput = textinput.New()
	m.dialogInput.CharLimit = 64
	m.dialogInput.Width = 32

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.insightSpinner = spinner.New()
	m.insightSpinner.Spinner = spinner.Dot

	m.powerBar = progress.New(progress.WithSolidFill(m.Theme.Accent), progress.WithoutPercentage())
	m.powerBar.Width = 30

	m.helpModel = help.New()
	m.helpViewport = viewport.New(56, 14)
}

func (m *Model) applyTheme(theme model.Theme) {
	m.Theme = theme
	m.powerBar = progress.New(progress.WithSolidFill(theme.Accent), progress.WithoutPercentage())
	m.powerBar.Width = 30
}

// Greeting is the header salutation for the stored user.
func (m Model) Greeting() string {
	if strings.TrimSpace(m.UserName) == "" {
		return "Guest Mode"
	}
	return "Hello " + m.UserName
}

func (m Model) FooterText() string {
	if strings.TrimSpace(m.UserName) == "" {
		return "Please login via System Tab for personalized insights."
	}
	return fmt.Sprintf("Welcome back, %s. Ready for Prime processing.", m.UserName)
}
