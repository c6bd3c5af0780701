package session

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/ya3yoni/internal/model"
	"github.com/sandeepkv93/ya3yoni/internal/scheduler"
)

type State int

const (
	StateIdle State = iota
	StateArmed
)

func (s State) String() string {
	if s == StateArmed {
		return "armed"
	}
	return "idle"
}

// Session owns the armed/idle state, the cancellation flag and the
// scheduler. Everything except Cancelled must be called from the UI loop.
type Session struct {
	state     State
	cfg       model.ReminderConfig
	engine    *scheduler.Engine
	fire      scheduler.FireFunc
	cancelled atomic.Bool
	log       zerolog.Logger
}

func New(engine *scheduler.Engine, fire scheduler.FireFunc, cfg model.ReminderConfig, log zerolog.Logger) (*Session, error) {
	if engine == nil {
		return nil, errors.New("session: nil scheduler engine")
	}
	if fire == nil {
		return nil, scheduler.ErrNilFireFunc
	}
	if err := checkConfig(engine, cfg); err != nil {
		return nil, err
	}
	return &Session{
		engine: engine,
		fire:   fire,
		cfg:    cfg,
		log:    log.With().Str("component", "session").Logger(),
	}, nil
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Armed() bool {
	return s.state == StateArmed
}

// Cancelled is safe to call from any goroutine.
func (s *Session) Cancelled() bool {
	return s.cancelled.Load()
}

// Current reports whether f came from the loop armed now. Fires left in the
// hand-off by an earlier arm are stale.
func (s *Session) Current(f scheduler.Fire) bool {
	return s.state == StateArmed && !s.cancelled.Load() && f.Gen == s.engine.Generation()
}

func (s *Session) Config() model.ReminderConfig {
	return s.cfg
}

// SetConfig stores cfg for the next arm; a running loop keeps its interval.
func (s *Session) SetConfig(cfg model.ReminderConfig) error {
	if err := checkConfig(s.engine, cfg); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

func (s *Session) Toggle() (State, error) {
	if s.state == StateArmed {
		s.Disarm()
		return s.state, nil
	}
	if err := s.Arm(); err != nil {
		return s.state, err
	}
	return s.state, nil
}

func (s *Session) Arm() error {
	if s.state == StateArmed {
		return nil
	}
	s.cancelled.Store(false)
	if err := s.engine.Arm(s.cfg.Interval, s.fire); err != nil {
		s.cancelled.Store(true)
		return fmt.Errorf("arm reminder: %w", err)
	}
	s.state = StateArmed
	s.log.Info().
		Dur("interval", s.cfg.Interval).
		Int("countdown", s.cfg.CountdownSeconds).
		Msg("session armed")
	return nil
}

func (s *Session) Disarm() {
	s.cancelled.Store(true)
	s.engine.Disarm()
	if s.state == StateArmed {
		s.log.Info().Msg("session disarmed")
	}
	s.state = StateIdle
}

// Close disarms and waits for the scheduler loop to exit.
func (s *Session) Close() {
	s.Disarm()
	<-s.engine.Done()
}

// checkConfig holds the interval to at least one wait slice, the granularity
// the scheduler can measure.
func checkConfig(engine *scheduler.Engine, cfg model.ReminderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Interval < engine.Slice() {
		return fmt.Errorf("%w: interval %s is shorter than wait slice %s", model.ErrInvalidReminderConfig, cfg.Interval, engine.Slice())
	}
	return nil
}
