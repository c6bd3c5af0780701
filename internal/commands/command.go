package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/ya3yoni/internal/model"
)

type Type string

const (
	TypeStart     Type = "start"
	TypeStop      Type = "stop"
	TypeInterval  Type = "interval"
	TypeCountdown Type = "countdown"
	TypeColor     Type = "color"
	TypeShow      Type = "show"
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

// Panel names accepted by show.
const (
	PanelMain     = "main"
	PanelSettings = "settings"
	PanelInfo     = "info"
)

type IntervalArgs struct {
	Every time.Duration
}

type CountdownArgs struct {
	Seconds int
}

type ColorArgs struct {
	Color model.EyeColor
}

type ShowArgs struct {
	Panel string
}

type Command struct {
	Type      Type
	Raw       string
	Interval  *IntervalArgs
	Countdown *CountdownArgs
	Color     *ColorArgs
	Show      *ShowArgs
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
	case TypeStart, TypeStop:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: Type(head), Raw: input}, nil
	case TypeInterval:
		return parseInterval(input, args)
	case TypeCountdown:
		return parseCountdown(input, args)
	case TypeColor:
		return parseColor(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

const maxSeconds = math.MaxInt64 / int64(time.Second)

// ParseDuration accepts a Go duration ("90s", "2m") or bare integer seconds.
func ParseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		if secs > maxSeconds || secs < -maxSeconds {
			return 0, fmt.Errorf("duration %q out of range", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func parseInterval(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "interval requires a duration"}
	}
	d, err := ParseDuration(args[0])
	if err != nil || d <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid interval %q", args[0])}
	}
	return Command{Type: TypeInterval, Raw: raw, Interval: &IntervalArgs{Every: d}}, nil
}

func parseCountdown(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "countdown requires seconds"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid countdown %q", args[0])}
	}
	return Command{Type: TypeCountdown, Raw: raw, Countdown: &CountdownArgs{Seconds: n}}, nil
}

func parseColor(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "color requires an eye color"}
	}
	c, err := model.ParseEyeColor(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypeColor, Raw: raw, Color: &ColorArgs{Color: c}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a panel"}
	}
	panel := strings.ToLower(args[0])
	switch panel {
	case PanelMain, PanelSettings, PanelInfo:
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown panel %q", panel)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Panel: panel}}, nil
}
