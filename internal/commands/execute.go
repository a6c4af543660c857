package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Login    func(LoginArgs) (Result, error)
	Logout   func() (Result, error)
	Theme    func(ThemeArgs) (Result, error)
	Alarm    func(AlarmArgs) (Result, error)
	History  func(HistoryArgs) (Result, error)
	Shutdown func() (Result, error)
	Undo     func() (Result, error)
	Redo     func() (Result, error)
	Calc     func(CalcArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeLogin:
		if handlers.Login == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Login(*cmd.Login)
	case TypeLogout:
		if handlers.Logout == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Logout()
	case TypeTheme:
		if handlers.Theme == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Theme(*cmd.Theme)
	case TypeAlarm:
		if handlers.Alarm == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Alarm(*cmd.Alarm)
	case TypeHistory:
		if handlers.History == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.History(*cmd.History)
	case TypeShutdown:
		if handlers.Shutdown == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Shutdown()
	case TypeUndo:
		if handlers.Undo == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Undo()
	case TypeRedo:
		if handlers.Redo == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Redo()
	case TypeCalc:
		if handlers.Calc == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Calc(*cmd.Calc)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
