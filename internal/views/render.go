package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/primecalc/internal/model"
)

type AppData struct {
	Theme        model.Theme
	Header       string
	Calculator   string
	TabBar       string
	TabContent   string
	Insight      string
	StatusLine   string
	Notification string
	Footer       string
	Overlay      string
}

type palette struct {
	header  lipgloss.Style
	panel   lipgloss.Style
	accent  lipgloss.Style
	muted   lipgloss.Style
	status  lipgloss.Style
	errText lipgloss.Style
}

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func paletteFor(theme model.Theme) palette {
	accent := lipgloss.Color(theme.Accent)
	card := lipgloss.Color(theme.Card)
	secondary := lipgloss.Color(theme.Secondary)
	return palette{
		header:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondary).Padding(0, 1),
		accent:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		muted:   lipgloss.NewStyle().Foreground(card),
		status:  lipgloss.NewStyle().Foreground(accent),
		errText: errorStyle,
	}
}

func RenderApp(data AppData) string {
	p := paletteFor(data.Theme)
	if data.Overlay != "" {
		return strings.Join([]string{
			p.header.Render(data.Header),
			p.panel.Width(60).Render(data.Overlay),
			footerStyle.Render(data.Footer),
		}, "\n")
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		p.panel.Width(34).Render(data.Calculator),
		p.panel.Width(34).Render(data.Insight),
	)
	right := p.panel.Width(58).Render(data.TabBar + "\n\n" + data.TabContent)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := p.status.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = p.errText.Render(data.StatusLine)
	}

	lines := []string{
		p.header.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, p.panel.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
