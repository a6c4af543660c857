package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/primecalc/internal/insight"
	"go.uber.org/zap"
)

func (m Model) handleSystemKey(key string) (Model, tea.Cmd) {
	switch key {
	case "L":
		return m.openDialog(DialogLogin), nil
	case "S":
		return m.openDialog(DialogShutdown), nil
	case "O":
		next, err := m.logout()
		if err != nil {
			next.Status = StatusBar{Text: err.Error(), IsError: true}
		}
		return next, nil
	case "p":
		m.Diagnostics = m.probe.Collect()
		m.Status = StatusBar{Text: "diagnostics refreshed"}
	}
	return m, nil
}

func (m Model) login(name string) (Model, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return m, fmt.Errorf("name is required")
	}
	if err := persistUserName(context.Background(), m.settings, name, m.clock()); err != nil {
		m.logger.Error("persist user name", zap.Error(err))
		return m, err
	}
	m.UserName = name
	m.Status = StatusBar{Text: "logged in as " + name}
	return m, nil
}

func (m Model) logout() (Model, error) {
	if err := forgetUserName(context.Background(), m.settings); err != nil {
		m.logger.Error("forget user name", zap.Error(err))
		return m, err
	}
	m.UserName = ""
	m.Status = StatusBar{Text: "logged out"}
	return m, nil
}

// beginShutdown suspends the session and schedules the reload.
func (m Model) beginShutdown() (Model, tea.Cmd) {
	if m.ShuttingDown {
		return m, nil
	}
	m.Session.Suspend()
	m.ShuttingDown = true
	m.Alarms.Ringing = nil
	m.Status = StatusBar{Text: "shutting down"}
	m.logger.Info("shutdown requested", zap.Duration("delay", m.shutdownDelay))
	return m, tea.Tick(m.shutdownDelay, func(time.Time) tea.Msg { return ShutdownCompleteMsg{} })
}

// reload restores the freshly started widget. Only the stored user name
// survives.
func (m Model) reload() Model {
	m.Session.Reset()
	if m.Scheduler != nil {
		m.Scheduler.Reset()
	}
	m.Alarms = AlarmState{}
	m.applyTheme(m.defaultTheme)
	m.CurrentTab = TabHistory
	m.HistoryCursor = 0
	m.Dialog = DialogState{}
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	m.dialogInput.SetValue("")
	m.dialogInput.Blur()
	m.HelpVisible = false
	m.Insight = InsightState{Text: insight.ReadyText, seq: m.Insight.seq + 1}
	m.Calendar.Month = firstOfMonth(m.Now)
	m.Diagnostics = m.probe.Collect()
	m.Notifications = nil
	m.ShuttingDown = false
	m.Status = StatusBar{Text: "system restarted"}
	m.logger.Info("session reloaded")
	return m
}
