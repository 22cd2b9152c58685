// Package commands parses the palette's slash commands into typed
// arguments and dispatches them to handler functions supplied by the
// UI layer. Parsing never touches the store; handlers do the work.
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grovehq/grove/internal/datekey"
)

type Type string

const (
	TypeAdd   Type = "add"
	TypeDone  Type = "done"
	TypeLog   Type = "log"
	TypeTime  Type = "time"
	TypeCheck Type = "check"
	TypeFlex  Type = "flex"
	TypeDate  Type = "date"
	TypeShow  Type = "show"
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

// AddArgs opens the wizard pre-filled with a name.
type AddArgs struct {
	Name string
}

// DoneArgs toggles completion for the selected goal. DateKey is empty
// when the command targets the selected date.
type DoneArgs struct {
	DateKey string
}

type LogArgs struct {
	Value   int
	DateKey string
}

type TimeArgs struct {
	Minutes int
	DateKey string
}

// CheckArgs toggles a checklist item by its 1-based position.
type CheckArgs struct {
	Item    int
	DateKey string
}

type FlexArgs struct {
	Delta   int
	DateKey string
}

// DateArgs moves the selected date. When is "today", "prev", "next",
// or an explicit date key.
type DateArgs struct {
	When string
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type  Type
	Raw   string
	Add   *AddArgs
	Done  *DoneArgs
	Log   *LogArgs
	Time  *TimeArgs
	Check *CheckArgs
	Flex  *FlexArgs
	Date  *DateArgs
	Show  *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeLog:
		return parseLog(input, args)
	case TypeTime:
		return parseTime(input, args)
	case TypeCheck:
		return parseCheck(input, args)
	case TypeFlex:
		return parseFlex(input, args)
	case TypeDate:
		return parseDate(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	// A bare "add" is fine; the wizard fills in a default name.
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	key, err := optionalDateKey(args, 0, "done")
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{DateKey: key}}, nil
}

func parseLog(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "log requires a value"}
	}
	value, err := parseInt(args[0], "log value")
	if err != nil {
		return Command{}, err
	}
	key, err := optionalDateKey(args, 1, "log")
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeLog, Raw: raw, Log: &LogArgs{Value: value, DateKey: key}}, nil
}

func parseTime(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "time requires minutes"}
	}
	minutes, err := parseInt(args[0], "minutes")
	if err != nil {
		return Command{}, err
	}
	key, err := optionalDateKey(args, 1, "time")
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeTime, Raw: raw, Time: &TimeArgs{Minutes: minutes, DateKey: key}}, nil
}

func parseCheck(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "check requires an item number"}
	}
	item, err := parseInt(args[0], "item number")
	if err != nil {
		return Command{}, err
	}
	if item < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "item numbers start at 1"}
	}
	key, err := optionalDateKey(args, 1, "check")
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeCheck, Raw: raw, Check: &CheckArgs{Item: item, DateKey: key}}, nil
}

func parseFlex(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "flex requires a progress delta"}
	}
	delta, err := parseInt(args[0], "progress delta")
	if err != nil {
		return Command{}, err
	}
	key, err := optionalDateKey(args, 1, "flex")
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeFlex, Raw: raw, Flex: &FlexArgs{Delta: delta, DateKey: key}}, nil
}

func parseDate(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "date requires today, prev, next, or a date"}
	}
	when := strings.ToLower(args[0])
	switch when {
	case "today", "prev", "next":
	default:
		if !datekey.IsValid(when) {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("not a date: %s", args[0])}
		}
	}
	return Command{Type: TypeDate, Raw: raw, Date: &DateArgs{When: when}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "streak", "week", "warning":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject: %s", subject)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}

func parseInt(s, what string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s must be a number: %s", what, s)}
	}
	return v, nil
}

// optionalDateKey reads args[idx] as a date key when present.
func optionalDateKey(args []string, idx int, verb string) (string, error) {
	if len(args) <= idx {
		return "", nil
	}
	key := args[idx]
	if !datekey.IsValid(key) {
		return "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s: not a date: %s", verb, key)}
	}
	return key, nil
}
