package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add   func(AddArgs) (Result, error)
	Done  func(DoneArgs) (Result, error)
	Log   func(LogArgs) (Result, error)
	Time  func(TimeArgs) (Result, error)
	Check func(CheckArgs) (Result, error)
	Flex  func(FlexArgs) (Result, error)
	Date  func(DateArgs) (Result, error)
	Show  func(ShowArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missingHandler("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missingHandler("done")
		}
		return handlers.Done(*cmd.Done)
	case TypeLog:
		if handlers.Log == nil {
			return Result{}, missingHandler("log")
		}
		return handlers.Log(*cmd.Log)
	case TypeTime:
		if handlers.Time == nil {
			return Result{}, missingHandler("time")
		}
		return handlers.Time(*cmd.Time)
	case TypeCheck:
		if handlers.Check == nil {
			return Result{}, missingHandler("check")
		}
		return handlers.Check(*cmd.Check)
	case TypeFlex:
		if handlers.Flex == nil {
			return Result{}, missingHandler("flex")
		}
		return handlers.Flex(*cmd.Flex)
	case TypeDate:
		if handlers.Date == nil {
			return Result{}, missingHandler("date")
		}
		return handlers.Date(*cmd.Date)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missingHandler("show")
		}
		return handlers.Show(*cmd.Show)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missingHandler(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}
