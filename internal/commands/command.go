package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/primecalc/internal/model"
)

type Type string

const (
	TypeLogin    Type = "login"
	TypeLogout   Type = "logout"
	TypeTheme    Type = "theme"
	TypeAlarm    Type = "alarm"
	TypeHistory  Type = "history"
	TypeShutdown Type = "shutdown"
	TypeUndo     Type = "undo"
	TypeRedo     Type = "redo"
	TypeCalc     Type = "calc"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type LoginArgs struct {
	Name string
}

// ThemeArgs names a theme; an empty Name means cycle to the next one.
type ThemeArgs struct {
	Name string
}

type AlarmAction string

const (
	AlarmAdd    AlarmAction = "add"
	AlarmToggle AlarmAction = "toggle"
	AlarmDelete AlarmAction = "delete"
)

type AlarmArgs struct {
	Action AlarmAction
	Time   string
	Label  string
	// Target is an alarm id or a 1-based position in the alarm list.
	Target string
}

type HistoryAction string

const (
	HistoryClear  HistoryAction = "clear"
	HistoryRecall HistoryAction = "recall"
)

type HistoryArgs struct {
	Action HistoryAction
	// Index is 1-based, most recent first.
	Index int
}

type CalcArgs struct {
	Expression string
}

type Command struct {
	Type    Type
	Raw     string
	Login   *LoginArgs
	Theme   *ThemeArgs
	Alarm   *AlarmArgs
	History *HistoryArgs
	Calc    *CalcArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, ":") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, ":"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeLogin:
		return parseLogin(input, args)
	case TypeTheme:
		return Command{Type: TypeTheme, Raw: input, Theme: &ThemeArgs{Name: strings.Join(args, " ")}}, nil
	case TypeAlarm:
		return parseAlarm(input, args)
	case TypeHistory:
		return parseHistory(input, args)
	case TypeLogout, TypeShutdown, TypeUndo, TypeRedo:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: Type(head), Raw: input}, nil
	case TypeCalc:
		expr := strings.TrimSpace(strings.Join(args, " "))
		if expr == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "calc requires an expression"}
		}
		return Command{Type: TypeCalc, Raw: input, Calc: &CalcArgs{Expression: expr}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseLogin(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "login requires a name"}
	}
	return Command{Type: TypeLogin, Raw: raw, Login: &LoginArgs{Name: name}}, nil
}

func parseAlarm(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "alarm requires add, toggle or delete"}
	}
	action := AlarmAction(strings.ToLower(args[0]))
	rest := args[1:]
	switch action {
	case AlarmAdd:
		if len(rest) == 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "alarm add requires a time (HH:mm)"}
		}
		clock, err := model.NormalizeClock(rest[0])
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid alarm time %q", rest[0])}
		}
		label := strings.TrimSpace(strings.Join(rest[1:], " "))
		if label == "" {
			label = model.DefaultAlarmLabel
		}
		return Command{Type: TypeAlarm, Raw: raw, Alarm: &AlarmArgs{Action: AlarmAdd, Time: clock, Label: label}}, nil
	case AlarmToggle, AlarmDelete:
		if len(rest) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("alarm %s requires one target", action)}
		}
		return Command{Type: TypeAlarm, Raw: raw, Alarm: &AlarmArgs{Action: action, Target: rest[0]}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown alarm action: %s", action)}
	}
}

func parseHistory(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "history requires clear or recall"}
	}
	switch HistoryAction(strings.ToLower(args[0])) {
	case HistoryClear:
		return Command{Type: TypeHistory, Raw: raw, History: &HistoryArgs{Action: HistoryClear}}, nil
	case HistoryRecall:
		if len(args) != 2 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "history recall requires a position"}
		}
		idx, err := strconv.Atoi(args[1])
		if err != nil || idx < 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid history position %q", args[1])}
		}
		return Command{Type: TypeHistory, Raw: raw, History: &HistoryArgs{Action: HistoryRecall, Index: idx}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown history action: %s", args[0])}
	}
}
