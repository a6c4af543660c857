package calc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/primecalc/internal/arith"
)

var (
	ErrEmptyExpression = errors.New("calc: empty expression")
	ErrEvaluation      = errors.New("calc: evaluation error")
)

var glyphReplacer = strings.NewReplacer("×", "*", "÷", "/", "^", "**")

// Finalize joins the pending expression and the display into the text that
// gets evaluated and logged, e.g. "12 + " and "5" give "12 + 5".
func Finalize(expression, display string) string {
	return expression + display
}

// Translate rewrites the display glyphs for multiply, divide and power into
// the arithmetic grammar's operators.
func Translate(text string) string {
	return glyphReplacer.Replace(text)
}

// Evaluate computes expression+display and returns the canonical result text.
func Evaluate(expression, display string) (string, error) {
	full := Finalize(expression, display)
	if full == "" || strings.TrimSpace(full) == display {
		return "", ErrEmptyExpression
	}
	value, err := arith.Evaluate(Translate(full))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEvaluation, err)
	}
	return arith.FormatNumber(value), nil
}
