package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/chorechart/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeRemove Type = "remove"
	TypePIN    Type = "pin"
	TypeExport Type = "export"
	TypeImport Type = "import"
	TypeWipe   Type = "wipe"
	TypeReset  Type = "reset"
)

// Types lists every command in the order the palette suggests them.
var Types = []Type{TypeAdd, TypeRemove, TypePIN, TypeExport, TypeImport, TypeReset, TypeWipe}

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

type AddArgs struct {
	Participant string
	Period      model.Period
	Text        string
}

type RemoveArgs struct {
	Participant string
	Period      model.Period
	// Index is zero-based; the command line takes the 1-based position
	// shown in the admin list.
	Index int
}

type PINArgs struct {
	PIN string
}

type ExportArgs struct {
	Dir string
}

type ImportArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Remove *RemoveArgs
	PIN    *PINArgs
	Export *ExportArgs
	Import *ImportArgs
}

// Usage returns the one-line syntax of t.
func Usage(t Type) string {
	switch t {
	case TypeAdd:
		return "add <participant> <morning|afternoon> <task text>"
	case TypeRemove:
		return "remove <participant> <morning|afternoon> <position>"
	case TypePIN:
		return "pin <new pin>"
	case TypeExport:
		return "export [dir]"
	case TypeImport:
		return "import <file>"
	case TypeWipe:
		return "wipe confirm"
	case TypeReset:
		return "reset"
	default:
		return string(t)
	}
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
	case TypeRemove, "rm":
		return parseRemove(input, args)
	case TypePIN:
		return parsePIN(input, args)
	case TypeExport:
		return parseExport(input, args)
	case TypeImport:
		return parseImport(input, args)
	case TypeWipe:
		return parseWipe(input, args)
	case TypeReset:
		return Command{Type: TypeReset, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func parseTarget(t Type, args []string) (string, model.Period, error) {
	if len(args) < 2 {
		return "", "", invalid("usage: %s", Usage(t))
	}
	period, err := model.ParsePeriod(args[1])
	if err != nil {
		return "", "", invalid("unknown period %q", args[1])
	}
	return args[0], period, nil
}

func parseAdd(raw string, args []string) (Command, error) {
	participant, period, err := parseTarget(TypeAdd, args)
	if err != nil {
		return Command{}, err
	}
	text := strings.TrimSpace(strings.Join(args[2:], " "))
	if text == "" {
		return Command{}, invalid("add requires task text")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Participant: participant, Period: period, Text: text}}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	participant, period, err := parseTarget(TypeRemove, args)
	if err != nil {
		return Command{}, err
	}
	if len(args) != 3 {
		return Command{}, invalid("usage: %s", Usage(TypeRemove))
	}
	pos, err := strconv.Atoi(args[2])
	if err != nil || pos < 1 {
		return Command{}, invalid("position must be a number from 1, got %q", args[2])
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{Participant: participant, Period: period, Index: pos - 1}}, nil
}

func parsePIN(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("usage: %s", Usage(TypePIN))
	}
	return Command{Type: TypePIN, Raw: raw, PIN: &PINArgs{PIN: args[0]}}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	dir := strings.TrimSpace(strings.Join(args, " "))
	return Command{Type: TypeExport, Raw: raw, Export: &ExportArgs{Dir: dir}}, nil
}

func parseImport(raw string, args []string) (Command, error) {
	path := strings.TrimSpace(strings.Join(args, " "))
	if path == "" {
		return Command{}, invalid("usage: %s", Usage(TypeImport))
	}
	return Command{Type: TypeImport, Raw: raw, Import: &ImportArgs{Path: path}}, nil
}

// parseWipe insists on the literal "confirm" so a stray keystroke cannot
// erase the document.
func parseWipe(raw string, args []string) (Command, error) {
	if len(args) != 1 || strings.ToLower(args[0]) != "confirm" {
		return Command{}, invalid("usage: %s", Usage(TypeWipe))
	}
	return Command{Type: TypeWipe, Raw: raw}, nil
}
