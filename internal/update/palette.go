package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/primecalc/internal/arith"
	"github.com/sandeepkv93/primecalc/internal/calc"
	"github.com/sandeepkv93/primecalc/internal/commands"
	"github.com/sandeepkv93/primecalc/internal/model"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.Focus()
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active", IsError: false}
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.commandInput.CursorEnd()
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Login: func(a commands.LoginArgs) (commands.Result, error) {
			next, err := m.login(a.Name)
			if err != nil {
				return commands.Result{}, err
			}
			m = next
			return commands.Result{Message: "logged in as " + a.Name}, nil
		},
		Logout: func() (commands.Result, error) {
			next, err := m.logout()
			if err != nil {
				return commands.Result{}, err
			}
			m = next
			return commands.Result{Message: "logged out"}, nil
		},
		Theme: func(a commands.ThemeArgs) (commands.Result, error) {
			theme := model.NextTheme(m.Theme.Name)
			if strings.TrimSpace(a.Name) != "" {
				named, ok := model.ThemeByName(a.Name)
				if !ok {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown theme: %s", a.Name)}
				}
				theme = named
			}
			m.applyTheme(theme)
			return commands.Result{Message: "theme: " + theme.Name}, nil
		},
		Alarm: func(a commands.AlarmArgs) (commands.Result, error) {
			if a.Action == commands.AlarmAdd {
				next, err := m.addAlarm(a.Time, a.Label)
				if err != nil {
					return commands.Result{}, err
				}
				m = next
				m.CurrentTab = TabAlarm
				return commands.Result{Message: fmt.Sprintf("alarm set for %s (%s)", a.Time, a.Label)}, nil
			}
			target, ok := m.resolveAlarm(a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no alarm %s", a.Target)}
			}
			var next Model
			var err error
			if a.Action == commands.AlarmToggle {
				next, err = m.toggleAlarm(target.ID)
			} else {
				next, err = m.deleteAlarm(target.ID)
			}
			if err != nil {
				return commands.Result{}, err
			}
			m = next
			return commands.Result{Message: m.Status.Text}, nil
		},
		History: func(a commands.HistoryArgs) (commands.Result, error) {
			if a.Action == commands.HistoryClear {
				m = m.openDialog(DialogClearHistory)
				return commands.Result{Message: "confirm clearing history"}, nil
			}
			entries := m.Session.Entries()
			if a.Index > len(entries) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("history has %d entries", len(entries))}
			}
			entry := entries[a.Index-1]
			m = m.recall(entry)
			return commands.Result{Message: fmt.Sprintf("recalled %s = %s", entry.Expression, entry.Result)}, nil
		},
		Shutdown: func() (commands.Result, error) {
			m = m.openDialog(DialogShutdown)
			return commands.Result{Message: "confirm shutdown"}, nil
		},
		Undo: func() (commands.Result, error) {
			if !m.Session.Undo() {
				return commands.Result{Message: "nothing to undo"}, nil
			}
			return commands.Result{Message: "undone"}, nil
		},
		Redo: func() (commands.Result, error) {
			if !m.Session.Redo() {
				return commands.Result{Message: "nothing to redo"}, nil
			}
			return commands.Result{Message: "redone"}, nil
		},
		Calc: func(a commands.CalcArgs) (commands.Result, error) {
			v, err := arith.Evaluate(calc.Translate(a.Expression))
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("%s = %s", a.Expression, arith.FormatNumber(v))}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
	}
	return m, nil
}
