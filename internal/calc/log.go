package calc

import "github.com/sandeepkv93/primecalc/internal/model"

const LogCapacity = 10

// Log keeps finalized calculations most-recent-first, bounded by capacity.
type Log struct {
	entries  []model.CalculationEntry
	capacity int
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = LogCapacity
	}
	return &Log{entries: make([]model.CalculationEntry, 0, capacity+1), capacity: capacity}
}

func (l *Log) Append(entry model.CalculationEntry) {
	l.entries = append(l.entries, model.CalculationEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
}

// Clear drops every entry. Callers obtain user confirmation first.
func (l *Log) Clear() {
	l.entries = l.entries[:0]
}

func (l *Log) Len() int {
	return len(l.entries)
}

func (l *Log) Entries() []model.CalculationEntry {
	return append([]model.CalculationEntry(nil), l.entries...)
}

func (l *Log) Find(id string) (model.CalculationEntry, bool) {
	for _, entry := range l.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return model.CalculationEntry{}, false
}
