package update

import (
	"strings"

	"github.com/sandeepkv93/primecalc/internal/views"
	"go.uber.org/zap"
)

func (m Model) renderCalculatorView() string {
	state := m.Session.State()
	return views.RenderCalculator(views.CalculatorData{
		Theme:      m.Theme,
		Display:    state.Display,
		Expression: state.Expression,
		IsError:    state.IsError(),
		CanUndo:    m.Session.CanUndo(),
		CanRedo:    m.Session.CanRedo(),
		Suspended:  m.Session.IsSuspended(),
	})
}

func (m Model) renderTabBar() string {
	names := make([]string, 0, len(tabOrder))
	for _, t := range tabOrder {
		names = append(names, string(t))
	}
	return views.RenderTabBar(names, string(m.CurrentTab), m.Theme)
}

func (m Model) renderTabContent() string {
	switch m.CurrentTab {
	case TabCalendar:
		return m.renderCalendarView()
	case TabAlarm:
		return m.renderAlarmView()
	case TabSystem:
		return m.renderSystemView()
	default:
		return m.renderHistoryView()
	}
}

func (m Model) renderHistoryView() string {
	entries := m.Session.Entries()
	rows := make([]views.HistoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, views.HistoryRow{
			Expression: e.Expression,
			Result:     e.Result,
			Time:       e.Timestamp.Format("15:04"),
		})
	}
	return views.RenderHistoryPanel(views.HistoryPanelData{
		Rows:   rows,
		Cursor: clampCursor(m.HistoryCursor, len(rows)),
	})
}

func (m Model) renderCalendarView() string {
	month := m.Calendar.Month
	if month.IsZero() {
		month = firstOfMonth(m.Now)
	}
	today := 0
	if month.Year() == m.Now.Year() && month.Month() == m.Now.Month() {
		today = m.Now.Day()
	}
	return views.RenderCalendarPanel(views.CalendarPanelData{
		Theme:  m.Theme,
		Title:  month.Format("January 2006"),
		Weeks:  MonthGrid(month),
		Today:  today,
		Footer: m.Now.Format("Monday, January 2"),
	})
}

func (m Model) renderAlarmView() string {
	rows := make([]views.AlarmRow, 0, len(m.Alarms.Items))
	for _, a := range m.Alarms.Items {
		rows = append(rows, views.AlarmRow{Time: a.Time, Label: a.Label, Active: a.Active})
	}
	return views.RenderAlarmPanel(views.AlarmPanelData{
		Rows:   rows,
		Cursor: clampCursor(m.Alarms.Cursor, len(rows)),
		Now:    formatClock(m.Now),
	})
}

func (m Model) renderSystemView() string {
	d := m.Diagnostics
	return views.RenderSystemPanel(views.SystemPanelData{
		Greeting:    m.Greeting(),
		Cores:       d.Cores,
		MemoryGB:    d.MemoryGB,
		PowerLabel:  d.PowerLabel(),
		PowerBar:    m.powerBar.ViewAs(d.Fraction()),
		Environment: d.Environment,
		Engine:      d.Engine,
	})
}

func (m Model) renderInsightView() string {
	return views.RenderInsightPanel(views.InsightPanelData{
		Text:        m.Insight.Text,
		Loading:     m.Insight.Loading,
		SpinnerView: m.insightSpinner.View(),
	})
}

func (m Model) renderDialogView() string {
	data := views.DialogData{Error: m.Dialog.Err, Confirm: m.Dialog.Confirming()}
	switch m.Dialog.Kind {
	case DialogAlarmTime:
		data.Title = "Set alarm"
		data.InputView = m.dialogInput.View()
	case DialogLogin:
		data.Title = "Login"
		data.InputView = m.dialogInput.View()
	case DialogClearHistory:
		data.Title = "Clear history"
		data.Body = "Remove every logged calculation?"
	case DialogShutdown:
		data.Title = "Shutdown"
		data.Body = "Shut down and restart the system?"
	default:
		return ""
	}
	return views.RenderDialog(data)
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.clock().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Debug("desktop notification failed", zap.Error(err))
		}
	}
}
