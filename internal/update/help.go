package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/primecalc/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	vp := m.helpViewport
	vp.SetContent(views.RenderMarkdown(m.helpMarkdown()))
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentTab: string(m.CurrentTab),
		Markdown:   vp.View(),
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("## Keypad\n\n")
	for _, kb := range m.calculatorBindings() {
		fmt.Fprintf(&b, "- `%s` %s\n", kb.Key, kb.Action)
	}
	fmt.Fprintf(&b, "\n## %s tab\n\n", m.CurrentTab)
	for _, kb := range m.tabBindings() {
		fmt.Fprintf(&b, "- `%s` %s\n", kb.Key, kb.Action)
	}
	b.WriteString("\n## Commands\n\n")
	b.WriteString("`login <name>` · `logout` · `theme [name]` · `alarm add HH:mm [label]` · `alarm toggle|delete <n>` · ")
	b.WriteString("`history clear` · `history recall <n>` · `undo` · `redo` · `calc <expr>` · `shutdown`\n")
	return b.String()
}

func (m Model) calculatorBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "0-9 .", Action: "enter digits"},
		{Key: "+ - * / ^", Action: "apply operator"},
		{Key: "enter =", Action: "compute"},
		{Key: "%", Action: "percent"},
		{Key: "backspace", Action: "delete last digit"},
		{Key: "esc", Action: "clear"},
		{Key: m.Keys.Undo, Action: "undo"},
		{Key: m.Keys.Redo, Action: "redo"},
	}
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.NextTab, Action: "next tab"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Theme, Action: "shuffle theme"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) tabBindings() []KeyBinding {
	switch m.CurrentTab {
	case TabHistory:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "r", Action: "recall selected calculation"},
			{Key: "x", Action: "clear history"},
		}
	case TabCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next month"},
			{Key: "g", Action: "jump to current month"},
		}
	case TabAlarm:
		return []KeyBinding{
			{Key: "a", Action: "add alarm"},
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "toggle alarm"},
			{Key: "d", Action: "delete alarm"},
		}
	case TabSystem:
		return []KeyBinding{
			{Key: "L", Action: "login"},
			{Key: "O", Action: "logout"},
			{Key: "S", Action: "shutdown"},
			{Key: "p", Action: "refresh diagnostics"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	global := m.globalBindings()
	tab := m.tabBindings()
	out := make([]key.Binding, 0, len(global)+len(tab))
	for _, kb := range global {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range tab {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
