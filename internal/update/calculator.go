package update

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/primecalc/internal/calc"
	"github.com/sandeepkv93/primecalc/internal/insight"
	"github.com/sandeepkv93/primecalc/internal/model"
)

// handleCalculatorKey maps a key to a session operation. The second result
// reports whether the key belonged to the calculator keypad.
func (m Model) handleCalculatorKey(key string) (Model, tea.Cmd, bool) {
	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.Session.AppendDigit(key)
	case ".", ",":
		m.Session.AppendDigit(".")
	case "+", "-", "*", "/", "^", "×", "÷":
		m.Session.ApplyOperator(key)
	case "%":
		m.Session.Percent()
	case "backspace":
		m.Session.Backspace()
	case "esc":
		m.Session.Clear()
	case "enter", "=":
		next, cmd := m.compute()
		return next, cmd, true
	case m.Keys.Undo:
		m.Session.Undo()
	case m.Keys.Redo, "ctrl+shift+z":
		m.Session.Redo()
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m Model) compute() (Model, tea.Cmd) {
	entry, err := m.Session.Compute()
	switch {
	case err == nil:
		m.Insight.seq++
		m.Insight.Loading = true
		m.HistoryCursor = 0
		return m, tea.Batch(
			fetchInsightCmd(m.insightSvc, m.Insight.seq, insight.Request{Expression: entry.Expression, Result: entry.Result}),
			m.insightSpinner.Tick,
		)
	case errors.Is(err, calc.ErrEvaluation):
		m.Insight.seq++
		m.Insight.Loading = false
		m.Insight.Text = insight.ComplexText
		return m, nil
	default:
		// Empty expression or suspended session: nothing to report.
		return m, nil
	}
}

// recall loads a logged calculation back into the display.
func (m Model) recall(entry model.CalculationEntry) Model {
	if !m.Session.LoadEntry(entry) {
		return m
	}
	m.Insight.seq++
	m.Insight.Loading = false
	m.Insight.Text = insight.RecallText(entry.Expression, entry.Result)
	return m
}

func (m Model) applyInsight(msg InsightMsg) Model {
	if msg.Seq != m.Insight.seq {
		return m
	}
	m.Insight.Loading = false
	m.Insight.Text = msg.Text
	if m.metrics != nil {
		m.metrics.InsightOutcome(insightOutcome(msg.Text))
	}
	return m
}

func fetchInsightCmd(svc insight.Service, seq uint64, req insight.Request) tea.Cmd {
	return func() tea.Msg {
		return InsightMsg{Seq: seq, Text: svc.Insight(context.Background(), req)}
	}
}

func insightOutcome(text string) string {
	switch text {
	case insight.FallbackText:
		return "fallback"
	case insight.EmptyReplyText:
		return "empty"
	default:
		return "reply"
	}
}
