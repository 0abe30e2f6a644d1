// Package commands parses and dispatches the palette commands typed into the
// UI. Parsing never touches storage; Execute hands validated arguments to the
// handlers the caller wires in.
package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeImport Type = "import"
	TypeShow   Type = "show"
	TypeRemove Type = "remove"
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

// AddArgs carries "add <date> <title...>". Date stays a string; the handler
// owns date parsing so errors surface where the user can fix them.
type AddArgs struct {
	Date  string
	Title string
}

// ImportArgs carries "import <course> <path>".
type ImportArgs struct {
	Course string
	Path   string
}

// ShowArgs carries "show <subject> [course:NAME]".
type ShowArgs struct {
	Subject string
	Course  string
}

type RemoveArgs struct {
	ID string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Import *ImportArgs
	Show   *ShowArgs
	Remove *RemoveArgs
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
	case TypeImport:
		return parseImport(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeRemove:
		return parseRemove(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a date and a title"}
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Date: args[0], Title: title}}, nil
}

func parseImport(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "import requires a course and a file path"}
	}
	return Command{Type: TypeImport, Raw: raw, Import: &ImportArgs{Course: args[0], Path: strings.Join(args[1:], " ")}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	course := ""
	for _, arg := range args[1:] {
		if strings.HasPrefix(strings.ToLower(arg), "course:") {
			course = strings.TrimSpace(arg[len("course:"):])
		}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject, Course: course}}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remove requires exactly one event id"}
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{ID: args[0]}}, nil
}
