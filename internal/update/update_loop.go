package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/primecalc/internal/model"
	"github.com/sandeepkv93/primecalc/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{clockTickCmd()}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForAlarmCmd(m.Scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func clockTickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return ClockTickMsg{At: t} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.Insight.Loading {
			var cmd tea.Cmd
			m.insightSpinner, cmd = m.insightSpinner.Update(typed)
			return m, cmd
		}
	case ClockTickMsg:
		m.Now = typed.At
		m = m.checkAlarms(typed.At)
		return m, clockTickCmd()
	case AlarmDueMsg:
		m = m.onAlarmDue(typed.Event)
		if m.Scheduler != nil {
			return m, waitForAlarmCmd(m.Scheduler.C())
		}
		return m, nil
	case InsightMsg:
		return m.applyInsight(typed), nil
	case ShutdownCompleteMsg:
		return m.reload(), nil
	case SwitchTabMsg:
		if isKnownTab(typed.Tab) {
			m.CurrentTab = typed.Tab
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

// handleKey routes a key press. Overlays take priority over global keys,
// which take priority over the keypad and the active tab.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	if key == m.Keys.ForceQuit {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.ShuttingDown {
		return m, nil
	}
	if m.Alarms.Ringing != nil {
		switch key {
		case "enter", "esc", " ", "space", "s":
			return m.stopAlarm(), nil
		}
		return m, nil
	}
	if m.Dialog.Active() {
		return m.handleDialogKey(msg)
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}

	switch key {
	case m.Keys.Palette:
		return m.openPalette(), nil
	case m.Keys.NextTab:
		m.CurrentTab = nextTab(m.CurrentTab, 1)
		return m, nil
	case m.Keys.PrevTab:
		m.CurrentTab = nextTab(m.CurrentTab, -1)
		return m, nil
	case m.Keys.Theme:
		m.applyTheme(model.NextTheme(m.Theme.Name))
		m.Status = StatusBar{Text: "theme: " + m.Theme.Name}
		return m, nil
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
	}

	if next, cmd, ok := m.handleCalculatorKey(key); ok {
		return next, cmd
	}

	switch m.CurrentTab {
	case TabHistory:
		return m.handleHistoryKey(key)
	case TabCalendar:
		return m.handleCalendarKey(key), nil
	case TabAlarm:
		return m.handleAlarmKey(key), nil
	case TabSystem:
		return m.handleSystemKey(key)
	}
	return m, nil
}

func (m Model) handleHistoryKey(key string) (Model, tea.Cmd) {
	entries := m.Session.Entries()
	switch key {
	case "up", "k":
		if m.HistoryCursor > 0 {
			m.HistoryCursor--
		}
	case "down", "j":
		if m.HistoryCursor < len(entries)-1 {
			m.HistoryCursor++
		}
	case "r":
		if len(entries) > 0 {
			m = m.recall(entries[clampCursor(m.HistoryCursor, len(entries))])
		}
	case "x":
		if len(entries) > 0 {
			return m.openDialog(DialogClearHistory), nil
		}
	}
	return m, nil
}

func (m Model) View() string {
	header := fmt.Sprintf("PRIME CALC | %s | %s | %s", m.Greeting(), m.Theme.Name, formatClock(m.Now))
	if m.ShuttingDown {
		return views.RenderApp(views.AppData{Theme: m.Theme, Header: header, Overlay: views.RenderShutdown()})
	}
	if m.Alarms.Ringing != nil {
		return views.RenderApp(views.AppData{
			Theme:   m.Theme,
			Header:  header,
			Overlay: views.RenderRinging(m.Alarms.Ringing.Label, m.Alarms.Ringing.Time),
			Footer:  m.FooterText(),
		})
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	content := m.renderTabContent()
	if m.Dialog.Active() {
		content = m.renderDialogView()
	}
	content = strings.TrimSpace(strings.Join([]string{content, m.renderHelpIfVisible()}, "\n\n"))

	notification := strings.TrimSpace(strings.Join([]string{
		m.renderCommandPalette(),
		m.renderNotificationsView(),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Theme:        m.Theme,
		Header:       header,
		Calculator:   m.renderCalculatorView(),
		TabBar:       m.renderTabBar(),
		TabContent:   content,
		Insight:      m.renderInsightView(),
		StatusLine:   status,
		Notification: notification,
		Footer: fmt.Sprintf("%s | keys: %s cmd | %s/%s tabs | %s theme | %s help | %s quit",
			m.FooterText(), m.Keys.Palette, m.Keys.NextTab, m.Keys.PrevTab, m.Keys.Theme, m.Keys.Help, m.Keys.Quit),
	})
}
