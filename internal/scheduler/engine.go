package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidInterval = errors.New("scheduler: invalid interval")
	ErrAlreadyArmed    = errors.New("scheduler: already armed")
	ErrNilFireFunc     = errors.New("scheduler: nil fire func")
)

const DefaultWaitSlice = 100 * time.Millisecond

// Fire is emitted once per elapsed interval. Gen is the arm generation of
// the loop that produced it.
type Fire struct {
	Seq uint64
	Gen uint64
	At  time.Time
}

type FireFunc func(Fire)

// Engine runs at most one interval wait-loop at a time. The loop sleeps in
// slices and checks its stop channel between slices, so Disarm takes effect
// within one slice.
type Engine struct {
	mu     sync.Mutex
	slice  time.Duration
	stopCh chan struct{}
	doneCh chan struct{}
	armed  bool
	gen    atomic.Uint64
	fired  atomic.Uint64
	log    zerolog.Logger
}

func NewEngine(slice time.Duration, log zerolog.Logger) *Engine {
	if slice <= 0 {
		slice = DefaultWaitSlice
	}
	done := make(chan struct{})
	close(done)
	return &Engine{
		slice:  slice,
		doneCh: done,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

func (e *Engine) Slice() time.Duration {
	return e.slice
}

// Arm starts a new wait-loop. If a previous loop is still winding down after
// Disarm, Arm waits for it first.
func (e *Engine) Arm(interval time.Duration, onFire FireFunc) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	if onFire == nil {
		return ErrNilFireFunc
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.armed {
		return ErrAlreadyArmed
	}
	<-e.doneCh

	e.armed = true
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})
	gen := e.gen.Add(1)
	go e.loop(interval, gen, onFire, e.stopCh, e.doneCh)
	e.log.Debug().Dur("interval", interval).Dur("slice", e.slice).Uint64("gen", gen).Msg("armed")
	return nil
}

// Disarm signals the loop to exit and returns without waiting. Calling it
// while unarmed is a no-op.
func (e *Engine) Disarm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.armed {
		return
	}
	e.armed = false
	close(e.stopCh)
	e.log.Debug().Msg("disarm requested")
}

// Stop disarms and waits for the loop to exit.
func (e *Engine) Stop() {
	e.Disarm()
	<-e.Done()
}

// Done is closed once the most recent loop has exited.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doneCh
}

func (e *Engine) Armed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.armed
}

func (e *Engine) Fired() uint64 {
	return e.fired.Load()
}

// Generation is the arm generation of the most recent loop, zero before the
// first arm.
func (e *Engine) Generation() uint64 {
	return e.gen.Load()
}

func (e *Engine) loop(interval time.Duration, gen uint64, onFire FireFunc, stop <-chan struct{}, done chan struct{}) {
	defer close(done)
	defer e.log.Debug().Msg("loop exited")

	ticker := time.NewTicker(e.slice)
	defer ticker.Stop()

	var elapsed time.Duration
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		elapsed += e.slice
		if elapsed < interval {
			continue
		}
		elapsed = 0

		select {
		case <-stop:
			return
		default:
		}
		seq := e.fired.Add(1)
		onFire(Fire{Seq: seq, Gen: gen, At: time.Now().UTC()})
	}
}
