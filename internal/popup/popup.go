package popup

import (
	"time"

	"github.com/sandeepkv93/ya3yoni/internal/model"
)

type State int

const (
	StateShowing State = iota
	StateClosed
)

func (s State) String() string {
	if s == StateClosed {
		return "closed"
	}
	return "showing"
}

// Step tells the UI loop what to do after a tick.
type Step struct {
	Reschedule bool
	Closed     bool
	PlayCue    bool
}

// Popup is the countdown dialog. It is owned by the UI loop and never touched
// from another goroutine.
type Popup struct {
	id        uint64
	countdown int
	remaining int
	state     State
	outcome   model.BreakOutcome
	openedAt  time.Time
	closedAt  time.Time
}

func New(id uint64, countdown int, now time.Time) *Popup {
	if countdown < 0 {
		countdown = 0
	}
	return &Popup{
		id:        id,
		countdown: countdown,
		remaining: countdown,
		state:     StateShowing,
		openedAt:  now,
	}
}

func (p *Popup) ID() uint64                  { return p.id }
func (p *Popup) Countdown() int              { return p.countdown }
func (p *Popup) Remaining() int              { return p.remaining }
func (p *Popup) State() State                { return p.state }
func (p *Popup) Closed() bool                { return p.state == StateClosed }
func (p *Popup) Outcome() model.BreakOutcome { return p.outcome }
func (p *Popup) OpenedAt() time.Time         { return p.openedAt }
func (p *Popup) ClosedAt() time.Time         { return p.closedAt }

// Tick advances the countdown by one second. cancelled is checked before
// anything else so a stopped session never reaches the completion cue.
func (p *Popup) Tick(cancelled bool, now time.Time) Step {
	if p.state == StateClosed {
		return Step{}
	}
	if cancelled {
		p.close(model.BreakCancelled, now)
		return Step{Closed: true}
	}
	p.remaining--
	if p.remaining >= 0 {
		return Step{Reschedule: true}
	}
	p.close(model.BreakCompleted, now)
	return Step{Closed: true, PlayCue: true}
}

// Cancel closes the popup early. It reports whether this call did the close.
func (p *Popup) Cancel(now time.Time) bool {
	return p.close(model.BreakCancelled, now)
}

// Progress is the elapsed fraction of the countdown in [0,1].
func (p *Popup) Progress() float64 {
	if p.countdown <= 0 {
		return 1
	}
	shown := p.remaining
	if shown < 0 {
		shown = 0
	}
	return float64(p.countdown-shown) / float64(p.countdown)
}

func (p *Popup) close(outcome model.BreakOutcome, now time.Time) bool {
	if p.state == StateClosed {
		return false
	}
	p.state = StateClosed
	p.outcome = outcome
	p.closedAt = now
	return true
}
