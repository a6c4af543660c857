package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidAlarmTime = errors.New("model: invalid alarm time")

const DefaultAlarmLabel = "Wake Up"

type Alarm struct {
	ID     string
	Time   string // HH:mm, 24h
	Active bool
	Label  string
}

func (a Alarm) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: alarm id is required")
	}
	if _, _, err := ParseClock(a.Time); err != nil {
		return err
	}
	return nil
}

// ParseClock accepts "H:mm" or "HH:mm" in 24h form.
func ParseClock(raw string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAlarmTime, raw)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAlarmTime, raw)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAlarmTime, raw)
	}
	return hour, minute, nil
}

// NormalizeClock returns the canonical zero-padded "HH:mm" form.
func NormalizeClock(raw string) (string, error) {
	hour, minute, err := ParseClock(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// NextTrigger returns the first HH:mm:00 instant strictly after now, in now's
// location.
func (a Alarm) NextTrigger(now time.Time) (time.Time, error) {
	hour, minute, err := ParseClock(a.Time)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := now.Date()
	candidate := time.Date(y, mo, d, hour, minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = time.Date(y, mo, d+1, hour, minute, 0, 0, now.Location())
	}
	return candidate, nil
}

// Matches reports whether the alarm should ring at now: it is active and now
// falls on second zero of its minute.
func (a Alarm) Matches(now time.Time) bool {
	if !a.Active || now.Second() != 0 {
		return false
	}
	hour, minute, err := ParseClock(a.Time)
	if err != nil {
		return false
	}
	return now.Hour() == hour && now.Minute() == minute
}
