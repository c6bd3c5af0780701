package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidBreakOutcome = errors.New("model: invalid break outcome")

type BreakOutcome string

const (
	BreakCompleted BreakOutcome = "completed"
	BreakCancelled BreakOutcome = "cancelled"
)

func (o BreakOutcome) IsValid() bool {
	switch o {
	case BreakCompleted, BreakCancelled:
		return true
	default:
		return false
	}
}

// Break is one closed eye-break popup.
type Break struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Countdown int
	Outcome   BreakOutcome
	EyeColor  EyeColor
}

func (b Break) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return errors.New("model: break id is required")
	}
	if b.StartedAt.IsZero() {
		return errors.New("model: break started_at is required")
	}
	if b.EndedAt.Before(b.StartedAt) {
		return errors.New("model: break ended before it started")
	}
	if !b.Outcome.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidBreakOutcome, b.Outcome)
	}
	return nil
}

func (b Break) Duration() time.Duration {
	return b.EndedAt.Sub(b.StartedAt)
}
