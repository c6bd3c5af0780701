package scheduler

import (
	"sync"
	"sync/atomic"
)

// Handoff carries fire events from the wait-loop to the UI loop. Post never
// blocks: when the buffer is full or the handoff is closed the event is
// dropped and counted.
type Handoff struct {
	mu      sync.RWMutex
	out     chan Fire
	closed  bool
	dropped atomic.Uint64
}

func NewHandoff(bufferSize int) *Handoff {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Handoff{out: make(chan Fire, bufferSize)}
}

func (h *Handoff) C() <-chan Fire {
	return h.out
}

func (h *Handoff) Post(f Fire) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.out <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Handoff) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Handoff) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.out)
}
