package calc

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/primecalc/internal/model"
	"go.uber.org/zap"
)

var ErrSuspended = errors.New("calc: session suspended")

type EventKind string

const (
	EventDigit         EventKind = "digit"
	EventOperator      EventKind = "operator"
	EventBackspace     EventKind = "backspace"
	EventClear         EventKind = "clear"
	EventPercent       EventKind = "percent"
	EventLoadEntry     EventKind = "load_entry"
	EventUndo          EventKind = "undo"
	EventRedo          EventKind = "redo"
	EventComputed      EventKind = "computed"
	EventComputeFailed EventKind = "compute_failed"
	EventLogCleared    EventKind = "log_cleared"
	EventSuspended     EventKind = "suspended"
	EventResumed       EventKind = "resumed"
	EventReset         EventKind = "reset"
)

type Event struct {
	Kind  EventKind
	State State
	Entry *model.CalculationEntry
	Err   error
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Session) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session owns one calculator's state, history and log. Every operation
// reads the current state, computes the next one and replaces it under a
// single lock, so concurrent callers serialize instead of interleaving.
type Session struct {
	mu          sync.Mutex
	state       State
	history     *History
	log         *Log
	suspended   bool
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
	subscribers map[int]func(Event)
	nextSubID   int
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		state:       InitialState(),
		history:     NewHistory(UndoCapacity),
		log:         NewLog(LogCapacity),
		now:         time.Now,
		newID:       uuid.NewString,
		logger:      zap.NewNop(),
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for every accepted transition. Callbacks run after
// the session lock is released. The returned func removes the subscription.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Entries() []model.CalculationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Entries()
}

func (s *Session) Entry(id string) (model.CalculationEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Find(id)
}

func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.UndoDepth()
}

func (s *Session) RedoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.RedoDepth()
}

func (s *Session) CanUndo() bool { return s.UndoDepth() > 0 }
func (s *Session) CanRedo() bool { return s.RedoDepth() > 0 }

func (s *Session) AppendDigit(token string) bool {
	return s.mutate(EventDigit, func(st State) (State, error) { return AppendDigit(st, token) })
}

func (s *Session) ApplyOperator(op string) bool {
	return s.mutate(EventOperator, func(st State) (State, error) { return ApplyOperator(st, op) })
}

func (s *Session) Backspace() bool {
	return s.mutate(EventBackspace, func(st State) (State, error) { return Backspace(st), nil })
}

func (s *Session) Clear() bool {
	return s.mutate(EventClear, func(State) (State, error) { return Clear(), nil })
}

func (s *Session) Percent() bool {
	return s.mutate(EventPercent, Percent)
}

// LoadEntry ignores entries that fail validation.
func (s *Session) LoadEntry(entry model.CalculationEntry) bool {
	return s.mutate(EventLoadEntry, func(State) (State, error) {
		if err := entry.Validate(); err != nil {
			return State{}, err
		}
		return LoadEntry(entry), nil
	})
}

func (s *Session) Undo() bool {
	return s.travel(EventUndo, s.history.Undo)
}

func (s *Session) Redo() bool {
	return s.travel(EventRedo, s.history.Redo)
}

// Compute finalizes expression+display. On success the result replaces the
// display, the expression is emptied and a log entry is created. On an
// evaluation failure the display becomes ErrorMarker without touching the
// history or the log. ErrEmptyExpression and ErrSuspended leave everything
// unchanged.
func (s *Session) Compute() (model.CalculationEntry, error) {
	s.mu.Lock()
	if s.suspended {
		s.mu.Unlock()
		return model.CalculationEntry{}, ErrSuspended
	}
	pre := s.state
	result, err := Evaluate(pre.Expression, pre.Display)
	if errors.Is(err, ErrEmptyExpression) {
		s.mu.Unlock()
		return model.CalculationEntry{}, err
	}
	if err != nil {
		s.state = State{Display: ErrorMarker, Expression: pre.Expression}
		ev := Event{Kind: EventComputeFailed, State: s.state, Err: err}
		subs := s.subscriberList()
		s.mu.Unlock()
		s.logger.Debug("evaluation failed",
			zap.String("expression", Finalize(pre.Expression, pre.Display)),
			zap.Error(err),
		)
		publish(subs, ev)
		return model.CalculationEntry{}, err
	}

	entry := model.CalculationEntry{
		ID:         s.newID(),
		Expression: Finalize(pre.Expression, pre.Display),
		Result:     result,
		Timestamp:  s.now(),
	}
	s.history.Record(pre)
	s.state = State{Display: result}
	s.log.Append(entry)
	ev := Event{Kind: EventComputed, State: s.state, Entry: &entry}
	subs := s.subscriberList()
	s.mu.Unlock()

	s.logger.Debug("calculation committed",
		zap.String("id", entry.ID),
		zap.String("expression", entry.Expression),
		zap.String("result", entry.Result),
	)
	publish(subs, ev)
	return entry, nil
}

func (s *Session) ClearLog() {
	s.mu.Lock()
	s.log.Clear()
	ev := Event{Kind: EventLogCleared, State: s.state}
	subs := s.subscriberList()
	s.mu.Unlock()
	publish(subs, ev)
}

func (s *Session) Suspend() {
	s.setSuspended(true, EventSuspended)
}

func (s *Session) Resume() {
	s.setSuspended(false, EventResumed)
}

func (s *Session) IsSuspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspended
}

// Reset returns the session to its freshly constructed state: initial
// display, empty history and log, not suspended.
func (s *Session) Reset() {
	s.mu.Lock()
	s.state = InitialState()
	s.history.Reset()
	s.log.Clear()
	s.suspended = false
	ev := Event{Kind: EventReset, State: s.state}
	subs := s.subscriberList()
	s.mu.Unlock()
	publish(subs, ev)
}

func (s *Session) mutate(kind EventKind, fn func(State) (State, error)) bool {
	s.mu.Lock()
	if s.suspended {
		s.mu.Unlock()
		return false
	}
	next, err := fn(s.state)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("input ignored", zap.String("event", string(kind)), zap.Error(err))
		return false
	}
	s.history.Record(s.state)
	s.state = next
	ev := Event{Kind: kind, State: next}
	subs := s.subscriberList()
	s.mu.Unlock()
	publish(subs, ev)
	return true
}

func (s *Session) travel(kind EventKind, step func(State) (State, bool)) bool {
	s.mu.Lock()
	if s.suspended {
		s.mu.Unlock()
		return false
	}
	next, ok := step(s.state)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.state = next
	ev := Event{Kind: kind, State: next}
	subs := s.subscriberList()
	s.mu.Unlock()
	publish(subs, ev)
	return true
}

func (s *Session) setSuspended(v bool, kind EventKind) {
	s.mu.Lock()
	if s.suspended == v {
		s.mu.Unlock()
		return
	}
	s.suspended = v
	ev := Event{Kind: kind, State: s.state}
	subs := s.subscriberList()
	s.mu.Unlock()
	s.logger.Info("session suspension changed", zap.Bool("suspended", v))
	publish(subs, ev)
}

func (s *Session) subscriberList() []func(Event) {
	if len(s.subscribers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subscribers[id])
	}
	return out
}

func publish(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
