package storage

import "time"

type Break struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Countdown int
	Outcome   string
	EyeColor  string
	CreatedAt time.Time
}

type BreakListFilter struct {
	Outcome string
	Since   *time.Time
	Limit   int
	Offset  int
}

type BreakStats struct {
	Completed int
	Cancelled int
	LastEnded *time.Time
}

func (s BreakStats) Total() int {
	return s.Completed + s.Cancelled
}
