package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func defaultAlarmID() string {
	return "alarm-" + uuid.NewString()[:8]
}

func firstOfMonth(t time.Time) time.Time {
	y, mo, _ := t.Date()
	return time.Date(y, mo, 1, 0, 0, 0, 0, t.Location())
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func nextTab(current Tab, delta int) Tab {
	idx := 0
	for i, t := range tabOrder {
		if t == current {
			idx = i
			break
		}
	}
	n := len(tabOrder)
	return tabOrder[((idx+delta)%n+n)%n]
}

func isKnownTab(t Tab) bool {
	for _, known := range tabOrder {
		if known == t {
			return true
		}
	}
	return false
}

func formatClock(t time.Time) string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}
