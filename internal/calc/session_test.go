package calc

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sandeepkv93/primecalc/internal/model"
)

func newTestSession() *Session {
	base := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	tick := 0
	ids := 0
	return NewSession(
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("calc-%d", ids)
		}),
	)
}

func press(t *testing.T, s *Session, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var ok bool
		switch k {
		case "+", "-", "*", "/", "×", "÷", "^", "**":
			ok = s.ApplyOperator(k)
		default:
			ok = s.AppendDigit(k)
		}
		if !ok {
			t.Fatalf("key %q was rejected", k)
		}
	}
}

func TestSessionInitialState(t *testing.T) {
	s := newTestSession()
	if got := s.State(); got != (State{Display: "0", Expression: ""}) {
		t.Fatalf("unexpected initial state: %+v", got)
	}
	if s.CanUndo() || s.CanRedo() || len(s.Entries()) != 0 || s.IsSuspended() {
		t.Fatal("expected empty history, empty log and not suspended")
	}
}

func TestSessionComputeCommitsEntry(t *testing.T) {
	s := newTestSession()
	press(t, s, "2", "+", "3")

	entry, err := s.Compute()
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if entry.Expression != "2 + 3" || entry.Result != "5" || entry.ID != "calc-1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if got := s.State(); got != (State{Display: "5"}) {
		t.Fatalf("unexpected state after compute: %+v", got)
	}
	entries := s.Entries()
	if len(entries) != 1 || entries[0] != entry {
		t.Fatalf("expected one logged entry, got %+v", entries)
	}
	if got, ok := s.Entry(entry.ID); !ok || got != entry {
		t.Fatalf("entry lookup failed: %+v ok=%v", got, ok)
	}
}

func TestSessionMultiplyChain(t *testing.T) {
	s := newTestSession()
	press(t, s, "7", "*")
	if got := s.State(); got != (State{Display: "0", Expression: "7 * "}) {
		t.Fatalf("unexpected pending state: %+v", got)
	}
	press(t, s, "3")
	entry, err := s.Compute()
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if entry.Expression != "7 * 3" || entry.Result != "21" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestSessionDivisionByZero(t *testing.T) {
	s := newTestSession()
	press(t, s, "1", "0", "/", "0")
	depth := s.UndoDepth()

	_, err := s.Compute()
	if !errors.Is(err, ErrEvaluation) {
		t.Fatalf("expected ErrEvaluation, got %v", err)
	}
	if got := s.State(); got.Display != ErrorMarker {
		t.Fatalf("expected error marker, got %+v", got)
	}
	if len(s.Entries()) != 0 {
		t.Fatal("failed evaluation must not be logged")
	}
	if s.UndoDepth() != depth {
		t.Fatalf("failed evaluation changed undo depth: %d -> %d", depth, s.UndoDepth())
	}

	// The marker behaves as "0" for the next digit.
	press(t, s, "4")
	if got := s.State().Display; got != "4" {
		t.Fatalf("expected digit to replace error marker, got %q", got)
	}
}

func TestSessionComputeWithoutOperatorIsNoOp(t *testing.T) {
	s := newTestSession()
	press(t, s, "4", "2")
	before := s.State()
	depth := s.UndoDepth()

	if _, err := s.Compute(); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
	if s.State() != before || s.UndoDepth() != depth || len(s.Entries()) != 0 {
		t.Fatal("empty compute must not change anything")
	}
}

func TestSessionPercent(t *testing.T) {
	s := newTestSession()
	press(t, s, "5", "0")
	if !s.Percent() {
		t.Fatal("percent rejected")
	}
	if got := s.State().Display; got != "0.5" {
		t.Fatalf("unexpected percent display %q", got)
	}

	press(t, s, "/")
	s.Compute()
	depth := s.UndoDepth()
	if s.Percent() {
		t.Fatal("percent on error marker should be rejected")
	}
	if s.State().Display != ErrorMarker || s.UndoDepth() != depth {
		t.Fatal("rejected percent changed state")
	}
}

func TestSessionUndoRedoRoundTrip(t *testing.T) {
	s := newTestSession()
	press(t, s, "1", "2", "+")
	afterOperator := s.State()

	if !s.Undo() {
		t.Fatal("undo rejected")
	}
	if got := s.State(); got != (State{Display: "12"}) {
		t.Fatalf("unexpected state after undo: %+v", got)
	}
	if !s.Redo() {
		t.Fatal("redo rejected")
	}
	if got := s.State(); got != afterOperator {
		t.Fatalf("redo did not restore state: %+v", got)
	}
	if s.Redo() {
		t.Fatal("redo with empty redo stack should be a no-op")
	}

	// A new edit after undo discards the redo branch.
	s.Undo()
	press(t, s, "5")
	if s.CanRedo() {
		t.Fatal("expected redo stack cleared by new edit")
	}
}

func TestSessionUndoRestoresComputedState(t *testing.T) {
	s := newTestSession()
	press(t, s, "2", "+", "3")
	if _, err := s.Compute(); err != nil {
		t.Fatalf("compute: %v", err)
	}
	s.Undo()
	if got := s.State(); got != (State{Display: "3", Expression: "2 + "}) {
		t.Fatalf("unexpected state after undoing compute: %+v", got)
	}
	if len(s.Entries()) != 1 {
		t.Fatal("undo must not remove log entries")
	}
}

func TestSessionUndoDepthIsBounded(t *testing.T) {
	s := newTestSession()
	for i := 0; i < 60; i++ {
		press(t, s, "1")
		if s.UndoDepth() > UndoCapacity {
			t.Fatalf("undo depth %d exceeds %d", s.UndoDepth(), UndoCapacity)
		}
	}
	if s.UndoDepth() != UndoCapacity {
		t.Fatalf("expected undo depth %d, got %d", UndoCapacity, s.UndoDepth())
	}
}

func TestSessionLogIsBounded(t *testing.T) {
	s := newTestSession()
	for i := 1; i <= 13; i++ {
		s.Clear()
		press(t, s, fmt.Sprint(i%10), "+", "1")
		if _, err := s.Compute(); err != nil {
			t.Fatalf("compute %d: %v", i, err)
		}
	}
	entries := s.Entries()
	if len(entries) != LogCapacity {
		t.Fatalf("expected %d entries, got %d", LogCapacity, len(entries))
	}
	if entries[0].ID != "calc-13" || entries[LogCapacity-1].ID != "calc-4" {
		t.Fatalf("unexpected log order: first=%s last=%s", entries[0].ID, entries[LogCapacity-1].ID)
	}
	for i := 1; i < len(entries); i++ {
		if !entries[i].Timestamp.Before(entries[i-1].Timestamp) {
			t.Fatalf("log not ordered most recent first at %d", i)
		}
	}
}

func TestSessionLoadEntry(t *testing.T) {
	s := newTestSession()
	press(t, s, "1", "2", "+", "5")
	entry, err := s.Compute()
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	s.Clear()
	if !s.LoadEntry(entry) {
		t.Fatal("load entry rejected")
	}
	if got := s.State(); got != (State{Display: "17", Expression: "12 + 5"}) {
		t.Fatalf("unexpected loaded state: %+v", got)
	}
}

func TestSessionLoadEntryRejectsInvalidEntry(t *testing.T) {
	s := newTestSession()
	press(t, s, "7")
	cases := []model.CalculationEntry{
		{Expression: "1 + 1", Result: "2", Timestamp: time.Now()},
		{ID: "e1", Result: "2", Timestamp: time.Now()},
		{ID: "e1", Expression: "1 + 1", Timestamp: time.Now()},
		{ID: "e1", Expression: "1 + 1", Result: "2"},
	}
	for _, entry := range cases {
		if s.LoadEntry(entry) {
			t.Fatalf("expected entry %+v to be rejected", entry)
		}
	}
	if got := s.State(); got != (State{Display: "7"}) {
		t.Fatalf("state changed by rejected entries: %+v", got)
	}
	if got := s.UndoDepth(); got != 1 {
		t.Fatalf("rejected entries must not record history, depth=%d", got)
	}
}

func TestSessionSuspensionFreezesEverything(t *testing.T) {
	s := newTestSession()
	press(t, s, "9", "-", "4")
	s.Undo()
	s.Suspend()

	beforeState := s.State()
	beforeUndo, beforeRedo := s.history.snapshot()
	beforeLog := s.Entries()

	if s.AppendDigit("1") || s.ApplyOperator("+") || s.Backspace() || s.Clear() ||
		s.Percent() || s.Undo() || s.Redo() {
		t.Fatal("edits must be rejected while suspended")
	}
	if _, err := s.Compute(); !errors.Is(err, ErrSuspended) {
		t.Fatalf("expected ErrSuspended, got %v", err)
	}

	afterUndo, afterRedo := s.history.snapshot()
	if diff := cmp.Diff(beforeState, s.State()); diff != "" {
		t.Fatalf("state changed while suspended (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(beforeUndo, afterUndo); diff != "" {
		t.Fatalf("undo stack changed while suspended (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(beforeRedo, afterRedo); diff != "" {
		t.Fatalf("redo stack changed while suspended (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(beforeLog, s.Entries()); diff != "" {
		t.Fatalf("log changed while suspended (-want +got):\n%s", diff)
	}

	s.Resume()
	if !s.AppendDigit("1") {
		t.Fatal("edits should be accepted after resume")
	}
}

func TestSessionReset(t *testing.T) {
	s := newTestSession()
	press(t, s, "3", "+", "3")
	s.Compute()
	s.Suspend()
	s.Reset()

	if s.State() != InitialState() || s.CanUndo() || s.CanRedo() || len(s.Entries()) != 0 || s.IsSuspended() {
		t.Fatal("reset did not restore a fresh session")
	}
}

func TestSessionClearLog(t *testing.T) {
	s := newTestSession()
	press(t, s, "1", "+", "1")
	s.Compute()
	s.ClearLog()
	if len(s.Entries()) != 0 {
		t.Fatal("expected empty log")
	}
	if s.State().Display != "2" {
		t.Fatalf("clearing the log must not touch the display, got %q", s.State().Display)
	}
}

func TestSessionSubscribe(t *testing.T) {
	s := newTestSession()
	var kinds []EventKind
	var committed string
	cancel := s.Subscribe(func(ev Event) {
		kinds = append(kinds, ev.Kind)
		if ev.Entry != nil {
			committed = ev.Entry.Result
		}
	})

	press(t, s, "6", "/")
	s.AppendDigit(".") // accepted: "0."
	s.AppendDigit(".") // rejected: no event
	press(t, s, "5")
	s.Compute()
	cancel()
	s.Clear()

	want := []EventKind{EventDigit, EventOperator, EventDigit, EventDigit, EventComputed}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
	if committed != "12" {
		t.Fatalf("expected committed result 12, got %q", committed)
	}
}

func TestSessionSubscriberMayCallBack(t *testing.T) {
	s := newTestSession()
	var seen State
	s.Subscribe(func(ev Event) {
		seen = s.State()
	})
	press(t, s, "8")
	if seen.Display != "8" {
		t.Fatalf("subscriber saw %+v", seen)
	}
}

func TestSessionConcurrentEditsSerialize(t *testing.T) {
	s := newTestSession()
	const workers, perWorker = 8, 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s.AppendDigit("1")
			}
		}()
	}
	wg.Wait()

	display := s.State().Display
	if len(display) != workers*perWorker || strings.Trim(display, "1") != "" {
		t.Fatalf("lost or interleaved edits: len=%d", len(display))
	}
	if s.UndoDepth() != UndoCapacity {
		t.Fatalf("expected undo depth %d, got %d", UndoCapacity, s.UndoDepth())
	}
}
