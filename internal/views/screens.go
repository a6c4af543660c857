package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/primecalc/internal/model"
)

type CalculatorData struct {
	Theme      model.Theme
	Display    string
	Expression string
	IsError    bool
	CanUndo    bool
	CanRedo    bool
	Suspended  bool
}

type HistoryRow struct {
	Expression string
	Result     string
	Time       string
}

type HistoryPanelData struct {
	Rows   []HistoryRow
	Cursor int
}

type CalendarPanelData struct {
	Theme  model.Theme
	Title  string
	Weeks  [][]int
	Today  int
	Footer string
}

type AlarmRow struct {
	Time   string
	Label  string
	Active bool
}

type AlarmPanelData struct {
	Rows   []AlarmRow
	Cursor int
	Now    string
}

type SystemPanelData struct {
	Greeting    string
	Cores       int
	MemoryGB    int
	PowerLabel  string
	PowerBar    string
	Environment string
	Engine      string
}

type InsightPanelData struct {
	Text        string
	Loading     bool
	SpinnerView string
}

type DialogData struct {
	Title     string
	Body      string
	InputView string
	Error     string
	Confirm   bool
}

type HelpPanelData struct {
	CurrentTab string
	Markdown   string
	HelpView   string
}

func RenderCalculator(data CalculatorData) string {
	p := paletteFor(data.Theme)
	var b strings.Builder
	expr := data.Expression
	if expr == "" {
		expr = " "
	}
	b.WriteString(p.muted.Render(fmt.Sprintf("%32s", expr)) + "\n")
	display := fmt.Sprintf("%32s", data.Display)
	if data.IsError {
		b.WriteString(errorStyle.Bold(true).Render(display))
	} else {
		b.WriteString(p.accent.Render(display))
	}
	b.WriteString("\n\n")
	b.WriteString(" C  ⌫  %  ÷\n 7  8  9  ×\n 4  5  6  -\n 1  2  3  +\n 0  .  ^  =\n")
	undo, redo := "-", "-"
	if data.CanUndo {
		undo = "undo"
	}
	if data.CanRedo {
		redo = "redo"
	}
	b.WriteString(fmt.Sprintf("\n[%s] [%s]", undo, redo))
	if data.Suspended {
		b.WriteString("  (suspended)")
	}
	return b.String()
}

func RenderTabBar(tabs []string, current string, theme model.Theme) string {
	p := paletteFor(theme)
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == current {
			parts = append(parts, p.accent.Render("["+t+"]"))
		} else {
			parts = append(parts, " "+t+" ")
		}
	}
	return strings.Join(parts, " ")
}

func RenderHistoryPanel(data HistoryPanelData) string {
	var b strings.Builder
	b.WriteString("history:\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no calculations yet)")
		return b.String()
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s  %s = %s\n", cursor, row.Time, row.Expression, row.Result))
	}
	b.WriteString("actions: [r]recall [x]clear")
	return b.String()
}

func RenderCalendarPanel(data CalendarPanelData) string {
	p := paletteFor(data.Theme)
	var b strings.Builder
	b.WriteString(p.accent.Render(data.Title) + "\n")
	b.WriteString("Su Mo Tu We Th Fr Sa\n")
	for _, week := range data.Weeks {
		cells := make([]string, 0, len(week))
		for _, day := range week {
			switch {
			case day == 0:
				cells = append(cells, "  ")
			case day == data.Today:
				cells = append(cells, lipgloss.NewStyle().Reverse(true).Render(fmt.Sprintf("%2d", day)))
			default:
				cells = append(cells, fmt.Sprintf("%2d", day))
			}
		}
		b.WriteString(strings.Join(cells, " ") + "\n")
	}
	b.WriteString("actions: [h/l]month [g]today")
	if data.Footer != "" {
		b.WriteString("\n" + data.Footer)
	}
	return b.String()
}

func RenderAlarmPanel(data AlarmPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("alarms (now %s):\n", data.Now))
	if len(data.Rows) == 0 {
		b.WriteString("(no alarms)\n")
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		state := "off"
		if row.Active {
			state = "on "
		}
		b.WriteString(fmt.Sprintf("%s %d. %s [%s] %s\n", cursor, i+1, row.Time, state, row.Label))
	}
	b.WriteString("actions: [a]add [space]toggle [d]delete")
	return b.String()
}

func RenderSystemPanel(data SystemPanelData) string {
	var b strings.Builder
	b.WriteString("system diagnostics:\n")
	b.WriteString(fmt.Sprintf("user: %s\n", data.Greeting))
	b.WriteString(fmt.Sprintf("cores: %d | memory: %d GB\n", data.Cores, data.MemoryGB))
	b.WriteString(fmt.Sprintf("RAM processing power: %s\n", data.PowerLabel))
	b.WriteString(data.PowerBar + "\n")
	b.WriteString(fmt.Sprintf("OS environment: %s\n", data.Environment))
	b.WriteString(fmt.Sprintf("engine: %s\n", data.Engine))
	b.WriteString("actions: [L]login [O]logout [S]shutdown [p]refresh")
	return b.String()
}

func RenderInsightPanel(data InsightPanelData) string {
	if data.Loading {
		return fmt.Sprintf("insight:\n%s thinking...", data.SpinnerView)
	}
	return "insight:\n" + data.Text
}

func RenderDialog(data DialogData) string {
	var b strings.Builder
	b.WriteString(data.Title + "\n")
	if data.Body != "" {
		b.WriteString(data.Body + "\n")
	}
	if data.InputView != "" {
		b.WriteString(data.InputView + "\n")
	}
	if data.Error != "" {
		b.WriteString(errorStyle.Render("error: "+data.Error) + "\n")
	}
	if data.Confirm {
		b.WriteString("[y]es / [n]o")
	} else {
		b.WriteString("[enter] save  [esc] cancel")
	}
	return b.String()
}

func RenderShutdown() string {
	return "SYSTEM SHUTDOWN\n\nSaving state... rebooting shortly."
}

func RenderRinging(label, clock string) string {
	return fmt.Sprintf("ALARM  %s\n\n%s\n\npress [enter] to stop", clock, label)
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.CurrentTab),
		data.Markdown,
		data.HelpView,
	)
}
