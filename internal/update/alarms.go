package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/primecalc/internal/model"
	"github.com/sandeepkv93/primecalc/internal/scheduler"
	"go.uber.org/zap"
)

func (m Model) handleAlarmKey(key string) Model {
	switch key {
	case "a":
		return m.openDialog(DialogAlarmTime)
	case "up", "k":
		if m.Alarms.Cursor > 0 {
			m.Alarms.Cursor--
		}
	case "down", "j":
		if m.Alarms.Cursor < len(m.Alarms.Items)-1 {
			m.Alarms.Cursor++
		}
	case " ", "space":
		if a, ok := m.currentAlarm(); ok {
			m, _ = m.toggleAlarm(a.ID)
		}
	case "d", "delete":
		if a, ok := m.currentAlarm(); ok {
			m, _ = m.deleteAlarm(a.ID)
		}
	}
	return m
}

func (m Model) currentAlarm() (model.Alarm, bool) {
	if len(m.Alarms.Items) == 0 {
		return model.Alarm{}, false
	}
	return m.Alarms.Items[clampCursor(m.Alarms.Cursor, len(m.Alarms.Items))], true
}

func (m Model) addAlarm(clock, label string) (Model, error) {
	normalized, err := model.NormalizeClock(clock)
	if err != nil {
		return m, err
	}
	if strings.TrimSpace(label) == "" {
		label = model.DefaultAlarmLabel
	}
	alarm := model.Alarm{ID: m.newID(), Time: normalized, Active: true, Label: label}
	if err := alarm.Validate(); err != nil {
		return m, err
	}
	m.Alarms.Items = append(append([]model.Alarm(nil), m.Alarms.Items...), alarm)
	m.Alarms.Cursor = len(m.Alarms.Items) - 1
	m.scheduleAlarm(alarm)
	m.Status = StatusBar{Text: fmt.Sprintf("alarm set for %s", alarm.Time)}
	return m, nil
}

func (m Model) toggleAlarm(id string) (Model, error) {
	idx := m.alarmIndex(id)
	if idx < 0 {
		return m, fmt.Errorf("alarm not found: %s", id)
	}
	items := append([]model.Alarm(nil), m.Alarms.Items...)
	items[idx].Active = !items[idx].Active
	m.Alarms.Items = items
	if m.Scheduler != nil {
		m.Scheduler.Cancel(id)
	}
	if items[idx].Active {
		m.scheduleAlarm(items[idx])
		m.Status = StatusBar{Text: fmt.Sprintf("alarm %s on", items[idx].Time)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("alarm %s off", items[idx].Time)}
	}
	return m, nil
}

func (m Model) deleteAlarm(id string) (Model, error) {
	idx := m.alarmIndex(id)
	if idx < 0 {
		return m, fmt.Errorf("alarm not found: %s", id)
	}
	removed := m.Alarms.Items[idx]
	items := make([]model.Alarm, 0, len(m.Alarms.Items)-1)
	items = append(items, m.Alarms.Items[:idx]...)
	items = append(items, m.Alarms.Items[idx+1:]...)
	m.Alarms.Items = items
	m.Alarms.Cursor = clampCursor(m.Alarms.Cursor, len(items))
	if m.Scheduler != nil {
		m.Scheduler.Cancel(id)
	}
	if m.Alarms.Ringing != nil && m.Alarms.Ringing.ID == id {
		m.Alarms.Ringing = nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("alarm %s deleted", removed.Time)}
	return m, nil
}

// resolveAlarm accepts an alarm id or a 1-based list position.
func (m Model) resolveAlarm(target string) (model.Alarm, bool) {
	if idx := m.alarmIndex(target); idx >= 0 {
		return m.Alarms.Items[idx], true
	}
	pos, err := strconv.Atoi(target)
	if err != nil || pos < 1 || pos > len(m.Alarms.Items) {
		return model.Alarm{}, false
	}
	return m.Alarms.Items[pos-1], true
}

func (m Model) alarmIndex(id string) int {
	for i, a := range m.Alarms.Items {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) scheduleAlarm(alarm model.Alarm) {
	if m.Scheduler == nil {
		return
	}
	if err := m.Scheduler.ScheduleAlarm(alarm, m.clock()); err != nil {
		m.logger.Warn("schedule alarm", zap.String("alarm_id", alarm.ID), zap.Error(err))
		m.Status = StatusBar{Text: fmt.Sprintf("alarm schedule failed: %v", err), IsError: true}
	}
}

// onAlarmDue handles a firing from the scheduler and queues the next day's
// occurrence.
func (m Model) onAlarmDue(ev scheduler.AlarmEvent) Model {
	idx := m.alarmIndex(ev.AlarmID)
	if idx < 0 || !m.Alarms.Items[idx].Active {
		return m
	}
	alarm := m.Alarms.Items[idx]
	m.ring(alarm)
	if m.Scheduler != nil {
		next := ev
		next.TriggerAt = ev.TriggerAt.Add(24 * time.Hour)
		if err := m.Scheduler.Schedule(next); err != nil {
			m.logger.Warn("reschedule alarm", zap.String("alarm_id", alarm.ID), zap.Error(err))
		}
	}
	return m
}

// checkAlarms is the scheduler-less path: ring any active alarm whose HH:mm
// matches now at second zero.
func (m Model) checkAlarms(now time.Time) Model {
	if m.Scheduler != nil {
		return m
	}
	for _, a := range m.Alarms.Items {
		if a.Matches(now) {
			m.ring(a)
			break
		}
	}
	return m
}

// ring starts the ringing overlay unless an alarm is already ringing.
func (m *Model) ring(alarm model.Alarm) {
	if m.Alarms.Ringing != nil || m.ShuttingDown {
		return
	}
	ringing := alarm
	m.Alarms.Ringing = &ringing
	if m.metrics != nil {
		m.metrics.AlarmFired()
	}
	m.logger.Info("alarm ringing", zap.String("alarm_id", alarm.ID), zap.String("time", alarm.Time))
	m.notify(alarm.Label, fmt.Sprintf("Alarm %s", alarm.Time), "alarm")
}

func (m Model) stopAlarm() Model {
	if m.Alarms.Ringing == nil {
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("alarm %s stopped", m.Alarms.Ringing.Time)}
	m.Alarms.Ringing = nil
	return m
}

func waitForAlarmCmd(ch <-chan scheduler.AlarmEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AlarmDueMsg{Event: ev}
	}
}
