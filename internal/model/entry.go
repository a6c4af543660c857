package model

import (
	"errors"
	"strings"
	"time"
)

type CalculationEntry struct {
	ID         string
	Expression string
	Result     string
	Timestamp  time.Time
}

func (e CalculationEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: entry id is required")
	}
	if strings.TrimSpace(e.Expression) == "" {
		return errors.New("model: entry expression is required")
	}
	if strings.TrimSpace(e.Result) == "" {
		return errors.New("model: entry result is required")
	}
	if e.Timestamp.IsZero() {
		return errors.New("model: entry timestamp is required")
	}
	return nil
}
