package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("storage: not found")

// Repository records closed eye-break popups.
type Repository interface {
	RecordBreak(ctx context.Context, in Break) error
	GetBreak(ctx context.Context, id string) (Break, error)
	ListBreaks(ctx context.Context, filter BreakListFilter) ([]Break, error)
	BreakStats(ctx context.Context, since time.Time) (BreakStats, error)
	PruneBefore(ctx context.Context, before time.Time) (int64, error)
}

func NewID() string {
	return uuid.NewString()
}
