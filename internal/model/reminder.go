package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidReminderConfig = errors.New("model: invalid reminder config")

const (
	DefaultReminderInterval  = 10 * time.Second
	DefaultCountdownSeconds  = 3
	DefaultReminderWaitSlice = 100 * time.Millisecond
)

// ReminderConfig is fixed for one armed session; changes apply on the next arm.
type ReminderConfig struct {
	Interval         time.Duration
	CountdownSeconds int
}

func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Interval:         DefaultReminderInterval,
		CountdownSeconds: DefaultCountdownSeconds,
	}
}

func (c ReminderConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidReminderConfig, c.Interval)
	}
	if c.CountdownSeconds < 0 {
		return fmt.Errorf("%w: countdown must be non-negative, got %d", ErrInvalidReminderConfig, c.CountdownSeconds)
	}
	return nil
}
