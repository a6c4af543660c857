// Package calc holds the calculator session engine: the display/expression
// state, the pure input reducer, bounded undo/redo history, the calculation
// log and the Session that serializes them.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/primecalc/internal/arith"
	"github.com/sandeepkv93/primecalc/internal/model"
)

const ErrorMarker = "Error"

var (
	ErrDuplicateDecimalPoint = errors.New("calc: duplicate decimal point")
	ErrUnparsablePercent     = errors.New("calc: unparsable percent input")
	ErrInvalidDigit          = errors.New("calc: invalid digit")
	ErrUnknownOperator       = errors.New("calc: unknown operator")
)

type State struct {
	Display    string
	Expression string
}

func InitialState() State {
	return State{Display: "0"}
}

func (s State) IsError() bool {
	return s.Display == ErrorMarker
}

// operand is the display value an edit builds on; the error marker counts as
// a fresh "0".
func (s State) operand() string {
	if s.IsError() || s.Display == "" {
		return "0"
	}
	return s.Display
}

func AppendDigit(s State, token string) (State, error) {
	if !isDigitToken(token) {
		return s, fmt.Errorf("%w: %q", ErrInvalidDigit, token)
	}
	display := s.operand()
	// A formatted result in exponent form cannot take a decimal point.
	if token == "." && strings.ContainsAny(display, ".eE") {
		return s, ErrDuplicateDecimalPoint
	}
	if display == "0" && token != "." {
		display = token
	} else {
		display += token
	}
	return State{Display: display, Expression: s.Expression}, nil
}

func ApplyOperator(s State, op string) (State, error) {
	normalized, err := NormalizeOperator(op)
	if err != nil {
		return s, err
	}
	return State{Display: "0", Expression: s.operand() + " " + normalized + " "}, nil
}

// NormalizeOperator maps an operator token to the symbol shown in the
// expression line. The power token "**" becomes "^".
func NormalizeOperator(op string) (string, error) {
	switch strings.TrimSpace(op) {
	case "+":
		return "+", nil
	case "-":
		return "-", nil
	case "*":
		return "*", nil
	case "/":
		return "/", nil
	case "×":
		return "×", nil
	case "÷":
		return "÷", nil
	case "**", "^":
		return "^", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
}

func Backspace(s State) State {
	display := s.operand()
	display = display[:len(display)-1]
	display = strings.TrimRight(display, "e+-")
	if display == "" {
		display = "0"
	}
	return State{Display: display, Expression: s.Expression}
}

func Clear() State {
	return InitialState()
}

func Percent(s State) (State, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s.Display), 64)
	if err != nil {
		return s, fmt.Errorf("%w: %q", ErrUnparsablePercent, s.Display)
	}
	return State{Display: arith.FormatNumber(value / 100), Expression: s.Expression}, nil
}

func LoadEntry(entry model.CalculationEntry) State {
	return State{Display: entry.Result, Expression: entry.Expression}
}

func isDigitToken(token string) bool {
	if len(token) != 1 {
		return false
	}
	c := token[0]
	return c == '.' || (c >= '0' && c <= '9')
}
