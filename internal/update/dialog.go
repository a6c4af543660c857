package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) openDialog(kind DialogKind) Model {
	m.Dialog = DialogState{Kind: kind}
	m.dialogInput.SetValue("")
	switch kind {
	case DialogAlarmTime:
		m.dialogInput.Prompt = "time (HH:mm)> "
		m.dialogInput.Placeholder = "07:30"
		m.dialogInput.Focus()
	case DialogLogin:
		m.dialogInput.Prompt = "name> "
		m.dialogInput.Placeholder = "Enter your name"
		m.dialogInput.Focus()
	default:
		m.dialogInput.Blur()
	}
	return m
}

func (m Model) closeDialog() Model {
	m.Dialog = DialogState{}
	m.dialogInput.SetValue("")
	m.dialogInput.Blur()
	return m
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	if m.Dialog.Confirming() {
		switch key {
		case "y", "Y", "enter":
			return m.confirmDialog()
		case "n", "N", "esc":
			m.Status = StatusBar{Text: "cancelled"}
			return m.closeDialog(), nil
		}
		return m, nil
	}

	switch key {
	case "esc":
		return m.closeDialog(), nil
	case "enter":
		return m.submitDialog()
	}
	if msg.Type == tea.KeyRunes {
		m.dialogInput.SetValue(m.dialogInput.Value() + string(msg.Runes))
		m.dialogInput.CursorEnd()
		return m, nil
	}
	var cmd tea.Cmd
	m.dialogInput, cmd = m.dialogInput.Update(msg)
	return m, cmd
}

func (m Model) confirmDialog() (Model, tea.Cmd) {
	kind := m.Dialog.Kind
	m = m.closeDialog()
	switch kind {
	case DialogClearHistory:
		m.Session.ClearLog()
		m.HistoryCursor = 0
		m.Status = StatusBar{Text: "history cleared"}
	case DialogShutdown:
		return m.beginShutdown()
	}
	return m, nil
}

func (m Model) submitDialog() (Model, tea.Cmd) {
	value := strings.TrimSpace(m.dialogInput.Value())
	switch m.Dialog.Kind {
	case DialogAlarmTime:
		next, err := m.addAlarm(value, "")
		if err != nil {
			m.Dialog.Err = err.Error()
			return m, nil
		}
		return next.closeDialog(), nil
	case DialogLogin:
		next, err := m.login(value)
		if err != nil {
			m.Dialog.Err = err.Error()
			return m, nil
		}
		return next.closeDialog(), nil
	}
	return m.closeDialog(), nil
}
