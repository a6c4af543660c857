package calc

const UndoCapacity = 20

// History is a linear undo/redo history of State snapshots. Undo holds at
// most capacity entries, evicting the oldest first; redo is emptied by every
// new Record.
type History struct {
	undo     []State
	redo     []State
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = UndoCapacity
	}
	return &History{
		undo:     make([]State, 0, capacity),
		redo:     make([]State, 0),
		capacity: capacity,
	}
}

func (h *History) Record(pre State) {
	h.pushUndo(pre)
	h.redo = h.redo[:0]
}

func (h *History) Undo(current State) (State, bool) {
	if len(h.undo) == 0 {
		return current, false
	}
	previous := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return previous, true
}

func (h *History) Redo(current State) (State, bool) {
	if len(h.redo) == 0 {
		return current, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.pushUndo(current)
	return next, true
}

func (h *History) UndoDepth() int { return len(h.undo) }
func (h *History) RedoDepth() int { return len(h.redo) }
func (h *History) CanUndo() bool  { return len(h.undo) > 0 }
func (h *History) CanRedo() bool  { return len(h.redo) > 0 }

func (h *History) Reset() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

func (h *History) snapshot() ([]State, []State) {
	return append([]State(nil), h.undo...), append([]State(nil), h.redo...)
}

func (h *History) pushUndo(s State) {
	if len(h.undo) >= h.capacity {
		copy(h.undo, h.undo[1:])
		h.undo = h.undo[:len(h.undo)-1]
	}
	h.undo = append(h.undo, s)
}
