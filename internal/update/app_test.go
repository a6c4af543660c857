package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/primecalc/internal/calc"
	"github.com/sandeepkv93/primecalc/internal/insight"
	"github.com/sandeepkv93/primecalc/internal/model"
	"github.com/sandeepkv93/primecalc/internal/scheduler"
	"github.com/sandeepkv93/primecalc/internal/storage"
	"github.com/sandeepkv93/primecalc/internal/system"
	"github.com/sandeepkv93/primecalc/internal/telemetry"
)

var testNow = time.Date(2026, time.October, 1, 7, 4, 30, 0, time.UTC)

type memSettings struct {
	mu   sync.Mutex
	data map[string]storage.Setting
}

func newMemSettings() *memSettings {
	return &memSettings{data: map[string]storage.Setting{}}
}

func (r *memSettings) GetSetting(_ context.Context, key string) (storage.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[key]
	if !ok {
		return storage.Setting{}, storage.ErrNotFound
	}
	return s, nil
}

func (r *memSettings) PutSetting(_ context.Context, in storage.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[in.Key] = in
	return nil
}

func (r *memSettings) DeleteSetting(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *memSettings) ListSettings(context.Context, storage.SettingListFilter) ([]storage.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]storage.Setting, 0, len(r.data))
	for _, s := range r.data {
		out = append(out, s)
	}
	return out, nil
}

type stubInsight struct {
	text string
}

func (s stubInsight) Insight(context.Context, insight.Request) string { return s.text }

type recordingNotifier struct {
	sent []Notification
}

func (n *recordingNotifier) Send(in Notification) error {
	n.sent = append(n.sent, in)
	return nil
}

func newTestModel(t *testing.T, mutate ...func(*Deps)) Model {
	t.Helper()
	ids := 0
	deps := Deps{
		Session:  calc.NewSession(calc.WithClock(func() time.Time { return testNow })),
		Insight:  stubInsight{text: "Primes are lonely."},
		Settings: newMemSettings(),
		Metrics:  telemetry.NewMetrics(),
		Probe: system.NewProbe(
			system.WithCores(func() int { return 4 }),
			system.WithMemoryGB(8),
			system.WithJitter(func(int) int { return 0 }),
			system.WithEnvironment("linux/amd64"),
		),
		Clock: func() time.Time { return testNow },
		NewID: func() string {
			ids++
			return fmt.Sprintf("alarm-%d", ids)
		},
	}
	for _, fn := range mutate {
		fn(&deps)
	}
	return NewModelWithConfig(deps, DefaultRuntimeConfig())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.CurrentTab != TabHistory {
		t.Fatalf("expected default tab %q, got %q", TabHistory, m.CurrentTab)
	}
	if m.Theme.Name != model.Themes[0].Name {
		t.Fatalf("expected default theme %q, got %q", model.Themes[0].Name, m.Theme.Name)
	}
	if m.Insight.Text != insight.ReadyText {
		t.Fatalf("expected ready insight, got %q", m.Insight.Text)
	}
	if m.Greeting() != "Guest Mode" {
		t.Fatalf("expected guest greeting, got %q", m.Greeting())
	}
	if m.Keys.Quit != "q" || m.Keys.Palette != ":" {
		t.Fatalf("unexpected key map: %+v", m.Keys)
	}
	if m.Diagnostics.ProcessingPower != 4*250+8*512 {
		t.Fatalf("unexpected diagnostics: %+v", m.Diagnostics)
	}
}

func TestNewModelLoadsStoredUserName(t *testing.T) {
	repo := newMemSettings()
	repo.data[storage.UserNameKey] = storage.Setting{Key: storage.UserNameKey, Value: "Ada", UpdatedAt: testNow}
	m := newTestModel(t, func(d *Deps) { d.Settings = repo })
	if m.UserName != "Ada" || m.Greeting() != "Hello Ada" {
		t.Fatalf("expected stored user, got %q / %q", m.UserName, m.Greeting())
	}
	if !strings.Contains(m.FooterText(), "Ada") {
		t.Fatalf("expected footer to greet user, got %q", m.FooterText())
	}
}

func TestKeypadComputeAndInsight(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("2"), runes("+"), runes("3"))
	if got := m.Session.State(); got.Display != "3" || got.Expression != "2 + " {
		t.Fatalf("unexpected state before compute: %+v", got)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd == nil {
		t.Fatalf("expected insight command after compute")
	}
	if got := m.Session.State().Display; got != "5" {
		t.Fatalf("expected display 5, got %q", got)
	}
	if !m.Insight.Loading {
		t.Fatalf("expected insight to be loading")
	}
	if len(m.Session.Entries()) != 1 {
		t.Fatalf("expected one log entry, got %d", len(m.Session.Entries()))
	}

	updated, _ = m.Update(InsightMsg{Seq: m.Insight.seq - 1, Text: "stale"})
	m = updated.(Model)
	if !m.Insight.Loading {
		t.Fatalf("stale insight must be ignored")
	}

	updated, _ = m.Update(InsightMsg{Seq: m.Insight.seq, Text: "Five is prime."})
	m = updated.(Model)
	if m.Insight.Loading || m.Insight.Text != "Five is prime." {
		t.Fatalf("unexpected insight state: %+v", m.Insight)
	}
}

func TestFetchInsightCmdCarriesSequence(t *testing.T) {
	cmd := fetchInsightCmd(stubInsight{text: "witty"}, 7, insight.Request{Expression: "1 + 1", Result: "2"})
	msg, ok := cmd().(InsightMsg)
	if !ok || msg.Seq != 7 || msg.Text != "witty" {
		t.Fatalf("unexpected insight msg: %#v", msg)
	}
}

func TestComputeErrorShowsComplexInsight(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("5"), runes("/"), runes("0"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Session.State().IsError() {
		t.Fatalf("expected error display, got %+v", m.Session.State())
	}
	if m.Insight.Text != insight.ComplexText || m.Insight.Loading {
		t.Fatalf("unexpected insight: %+v", m.Insight)
	}
	if len(m.Session.Entries()) != 0 {
		t.Fatalf("failed computation must not be logged")
	}
}

func TestUndoRedoKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("1"), runes("2"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got := m.Session.State().Display; got != "1" {
		t.Fatalf("expected undo to restore 1, got %q", got)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if got := m.Session.State().Display; got != "12" {
		t.Fatalf("expected redo to restore 12, got %q", got)
	}
}

func TestTabCycling(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.CurrentTab != TabCalendar {
		t.Fatalf("expected calendar tab, got %q", m.CurrentTab)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.CurrentTab != TabSystem {
		t.Fatalf("expected wrap to system tab, got %q", m.CurrentTab)
	}

	updated, _ := m.Update(SwitchTabMsg{Tab: TabAlarm})
	m = updated.(Model)
	if m.CurrentTab != TabAlarm {
		t.Fatalf("expected alarm tab, got %q", m.CurrentTab)
	}
	updated, _ = m.Update(SwitchTabMsg{Tab: Tab("Unknown")})
	m = updated.(Model)
	if m.CurrentTab != TabAlarm {
		t.Fatalf("expected tab unchanged for unknown tab, got %q", m.CurrentTab)
	}
}

func TestThemeKeyCycles(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("t"))
	if m.Theme.Name != model.Themes[1].Name {
		t.Fatalf("expected %q, got %q", model.Themes[1].Name, m.Theme.Name)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if !next.Status.IsError || next.LastError == nil {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
	if len(next.Notifications) != 2 || next.Notifications[1].Level != "error" {
		t.Fatalf("unexpected notifications: %+v", next.Notifications)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" {
		t.Fatalf("expected status cleared, got %+v", next.Status)
	}
}

func TestDesktopNotifierReceivesNotifications(t *testing.T) {
	notifier := &recordingNotifier{}
	cfg := DefaultRuntimeConfig()
	cfg.DesktopNotifications = true
	m := NewModelWithConfig(Deps{Notifier: notifier, Clock: func() time.Time { return testNow }}, cfg)
	updated, _ := m.Update(SetStatusMsg{Text: "hello"})
	_ = updated.(Model)
	if len(notifier.sent) != 1 || notifier.sent[0].Body != "hello" {
		t.Fatalf("unexpected desktop notifications: %+v", notifier.sent)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(runes("q"))
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatalf("expected quit")
	}
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatalf("expected force quit")
	}
}

func TestHistoryRecallAndClear(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("6"), runes("*"), runes("7"), tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("1"), runes("+"), runes("1"), tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.Session.Entries()) != 2 {
		t.Fatalf("expected two entries, got %d", len(m.Session.Entries()))
	}

	m = press(t, m, runes("j"), runes("r"))
	entry := m.Session.Entries()[1]
	if got := m.Session.State().Display; got != entry.Result {
		t.Fatalf("expected recalled %q, got %q", entry.Result, got)
	}
	if m.Insight.Text != insight.RecallText(entry.Expression, entry.Result) {
		t.Fatalf("unexpected recall insight %q", m.Insight.Text)
	}

	m = press(t, m, runes("x"))
	if m.Dialog.Kind != DialogClearHistory {
		t.Fatalf("expected clear-history dialog, got %q", m.Dialog.Kind)
	}
	m = press(t, m, runes("n"))
	if m.Dialog.Active() || len(m.Session.Entries()) != 2 {
		t.Fatalf("expected cancel to keep history")
	}
	m = press(t, m, runes("x"), runes("y"))
	if len(m.Session.Entries()) != 0 {
		t.Fatalf("expected history cleared, got %d", len(m.Session.Entries()))
	}
}

func TestPaletteLoginPersistsName(t *testing.T) {
	repo := newMemSettings()
	m := newTestModel(t, func(d *Deps) { d.Settings = repo })
	m = press(t, m, runes(":"))
	if !m.Palette.Active {
		t.Fatalf("expected palette active")
	}
	m = press(t, m, runes("login Ada"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Palette.Active {
		t.Fatalf("expected palette closed after enter")
	}
	if m.UserName != "Ada" || m.Status.IsError {
		t.Fatalf("unexpected login result: user=%q status=%+v", m.UserName, m.Status)
	}
	if got := repo.data[storage.UserNameKey].Value; got != "Ada" {
		t.Fatalf("expected persisted name, got %q", got)
	}
}

func TestLogoutForgetsStoredName(t *testing.T) {
	repo := newMemSettings()
	repo.data[storage.UserNameKey] = storage.Setting{Key: storage.UserNameKey, Value: "Ada", UpdatedAt: testNow}
	m := newTestModel(t, func(d *Deps) { d.Settings = repo })
	if m.Greeting() != "Hello Ada" {
		t.Fatalf("expected stored user, got %q", m.Greeting())
	}

	m = press(t, m, runes(":"), runes("logout"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Status.IsError || m.UserName != "" || m.Greeting() != "Guest Mode" {
		t.Fatalf("unexpected logout result: user=%q status=%+v", m.UserName, m.Status)
	}
	if _, ok := repo.data[storage.UserNameKey]; ok {
		t.Fatalf("expected stored name deleted")
	}

	m = press(t, m, runes(":"), runes("login Grace"), tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ := m.Update(SwitchTabMsg{Tab: TabSystem})
	m = updated.(Model)
	m = press(t, m, runes("O"))
	if m.UserName != "" || m.Status.Text != "logged out" {
		t.Fatalf("expected system tab logout, got user=%q status=%+v", m.UserName, m.Status)
	}
	if _, ok := repo.data[storage.UserNameKey]; ok {
		t.Fatalf("expected stored name deleted by system tab logout")
	}
}

func TestPaletteErrorsAndCalc(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes(":"), runes("bogus"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError {
		t.Fatalf("expected error for unknown command, got %+v", m.Status)
	}

	m = press(t, m, runes(":"), runes("theme nope"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || m.Theme.Name != model.Themes[0].Name {
		t.Fatalf("expected unknown theme error, got %+v", m.Status)
	}

	m = press(t, m, runes(":"), runes("calc 2^10"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Status.IsError || m.Status.Text != "2^10 = 1024" {
		t.Fatalf("unexpected calc status: %+v", m.Status)
	}
	if len(m.Session.Entries()) != 0 {
		t.Fatalf("calc command must not touch the session log")
	}

	m = press(t, m, runes(":"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Palette.Active {
		t.Fatalf("expected esc to close palette")
	}
}

func TestAlarmAddedByPaletteRingsOnTick(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes(":"), runes("alarm add 7:05 Coffee"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.CurrentTab != TabAlarm || len(m.Alarms.Items) != 1 {
		t.Fatalf("expected one alarm on alarm tab, got %+v", m.Alarms)
	}
	if a := m.Alarms.Items[0]; a.Time != "07:05" || a.Label != "Coffee" || !a.Active {
		t.Fatalf("unexpected alarm: %+v", a)
	}

	updated, cmd := m.Update(ClockTickMsg{At: testNow.Add(10 * time.Second)})
	m = updated.(Model)
	if cmd == nil || m.Alarms.Ringing != nil {
		t.Fatalf("expected clock to keep ticking without ringing")
	}

	updated, _ = m.Update(ClockTickMsg{At: time.Date(2026, time.October, 1, 7, 5, 0, 0, time.UTC)})
	m = updated.(Model)
	if m.Alarms.Ringing == nil || m.Alarms.Ringing.Label != "Coffee" {
		t.Fatalf("expected ringing alarm, got %+v", m.Alarms.Ringing)
	}
	if !strings.Contains(m.View(), "Coffee") {
		t.Fatalf("expected ringing overlay in view")
	}

	m = press(t, m, runes("7"))
	if m.Alarms.Ringing == nil || m.Session.State().Display != "0" {
		t.Fatalf("keys other than stop must be ignored while ringing")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Alarms.Ringing != nil {
		t.Fatalf("expected enter to stop the alarm")
	}
}

func TestAlarmTabKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes(":"), runes("alarm add 06:00"), tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("a"), runes("22:30"), tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.Alarms.Items) != 2 || m.Alarms.Items[1].Label != model.DefaultAlarmLabel {
		t.Fatalf("unexpected alarms: %+v", m.Alarms.Items)
	}

	m = press(t, m, runes("a"), runes("25:00"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Dialog.Err == "" || len(m.Alarms.Items) != 2 {
		t.Fatalf("expected invalid time to stay in dialog with error, got %+v", m.Dialog)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m = press(t, m, runes("k"), tea.KeyMsg{Type: tea.KeySpace})
	if m.Alarms.Items[0].Active {
		t.Fatalf("expected first alarm toggled off")
	}
	m = press(t, m, runes("d"))
	if len(m.Alarms.Items) != 1 || m.Alarms.Items[0].Time != "22:30" {
		t.Fatalf("unexpected alarms after delete: %+v", m.Alarms.Items)
	}
}

func TestAlarmDueFromSchedulerRearms(t *testing.T) {
	engine := scheduler.NewEngine(4)
	m := newTestModel(t, func(d *Deps) { d.Scheduler = engine })
	if m.Init() == nil {
		t.Fatalf("expected init command")
	}

	m = press(t, m, runes(":"), runes("alarm add 07:05 Run"), tea.KeyMsg{Type: tea.KeyEnter})
	if engine.Pending() != 1 {
		t.Fatalf("expected alarm scheduled, pending=%d", engine.Pending())
	}
	alarm := m.Alarms.Items[0]
	ev := scheduler.AlarmEvent{
		AlarmID:   alarm.ID,
		Label:     alarm.Label,
		Clock:     alarm.Time,
		TriggerAt: time.Date(2026, time.October, 1, 7, 5, 0, 0, time.UTC),
	}
	engine.Cancel(alarm.ID)

	updated, cmd := m.Update(AlarmDueMsg{Event: ev})
	m = updated.(Model)
	if m.Alarms.Ringing == nil || cmd == nil {
		t.Fatalf("expected ringing alarm and re-armed wait")
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected next day's firing queued, pending=%d", engine.Pending())
	}
}

func TestShutdownAndReload(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes(":"), runes("login Ada"), tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("t"), runes("4"), runes("2"))
	m = press(t, m, runes(":"), runes("alarm add 09:00"), tea.KeyMsg{Type: tea.KeyEnter})

	updated, _ := m.Update(SwitchTabMsg{Tab: TabSystem})
	m = updated.(Model)
	m = press(t, m, runes("S"))
	if m.Dialog.Kind != DialogShutdown {
		t.Fatalf("expected shutdown dialog, got %q", m.Dialog.Kind)
	}
	updated, cmd := m.Update(runes("y"))
	m = updated.(Model)
	if !m.ShuttingDown || cmd == nil || !m.Session.IsSuspended() {
		t.Fatalf("expected shutdown in progress")
	}
	if !strings.Contains(m.View(), "SHUTDOWN") {
		t.Fatalf("expected shutdown screen")
	}

	m = press(t, m, runes("9"))
	if m.Session.State().Display != "42" {
		t.Fatalf("input must be ignored while shutting down, got %q", m.Session.State().Display)
	}

	updated, _ = m.Update(ShutdownCompleteMsg{})
	m = updated.(Model)
	if m.ShuttingDown || m.Session.IsSuspended() {
		t.Fatalf("expected reload to finish shutdown")
	}
	if m.Session.State().Display != "0" || len(m.Session.Entries()) != 0 {
		t.Fatalf("expected fresh session, got %+v", m.Session.State())
	}
	if len(m.Alarms.Items) != 0 || m.Theme.Name != model.Themes[0].Name || m.CurrentTab != TabHistory {
		t.Fatalf("expected defaults restored")
	}
	if m.UserName != "Ada" {
		t.Fatalf("expected user name to survive reload, got %q", m.UserName)
	}
	if m.Insight.Text != insight.ReadyText {
		t.Fatalf("expected ready insight, got %q", m.Insight.Text)
	}
}

func TestSystemLoginDialogRequiresName(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SwitchTabMsg{Tab: TabSystem})
	m = updated.(Model)
	m = press(t, m, runes("L"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Dialog.Kind != DialogLogin || m.Dialog.Err == "" {
		t.Fatalf("expected login error, got %+v", m.Dialog)
	}
	m = press(t, m, runes("Grace"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Dialog.Active() || m.UserName != "Grace" {
		t.Fatalf("expected login to succeed, got dialog=%+v user=%q", m.Dialog, m.UserName)
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("8"))
	out := m.View()
	for _, want := range []string{"PRIME CALC", "Guest Mode", "07:04:30", "History", "Please login"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}

	m = press(t, m, runes("?"))
	if !m.HelpVisible {
		t.Fatalf("expected help visible")
	}
	if !strings.Contains(m.View(), "help (history)") {
		t.Fatalf("expected help panel in view")
	}
}
