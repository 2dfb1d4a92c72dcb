package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/rp-bot/AbletonBuddy/internal/types"
)

var (
	// ErrActiveRun means the thread already has a registered streamed
	// turn; a second one is rejected, never queued or overwritten.
	ErrActiveRun = errors.New("thread already has an active run")
	// ErrNoActiveRun means there is nothing to cancel for the thread.
	ErrNoActiveRun = errors.New("no active run for thread")
)

// RunHandle is one registered streamed turn: its run id for log
// correlation, its relay, its cancel function, and a channel closed
// when the background run returns.
type RunHandle struct {
	ID       types.RunID
	ThreadID types.ThreadID
	Relay    *Relay

	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel requests cooperative cancellation of the background run. It
// does not wait for the run to finish; Done signals that.
func (h *RunHandle) Cancel() { h.cancel() }

func (h *RunHandle) Done() <-chan struct{} { return h.done }

// Streams maps thread ids to their active streamed turns, enabling
// out-of-band cancellation.
type Streams struct {
	mu     sync.Mutex
	active map[types.ThreadID]*RunHandle
}

func NewStreams() *Streams {
	return &Streams{active: make(map[types.ThreadID]*RunHandle)}
}

func (s *Streams) Register(h *RunHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[h.ThreadID]; ok {
		return ErrActiveRun
	}
	s.active[h.ThreadID] = h
	return nil
}

// Cancel removes the registry entry immediately and cancels the run
// without waiting for it to acknowledge. The consumer keeps reading
// from its own relay reference, so the vanished entry is harmless.
func (s *Streams) Cancel(id types.ThreadID) error {
	s.mu.Lock()
	h, ok := s.active[id]
	if ok {
		delete(s.active, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNoActiveRun
	}
	h.Cancel()
	return nil
}

// Remove drops the registry entry once the consumer is finished with
// it. Removing an already-removed entry is a no-op.
func (s *Streams) Remove(id types.ThreadID) {
	s.mu.Lock()
	delete(s.active, id)
	s.mu.Unlock()
}

func (s *Streams) Active(id types.ThreadID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[id]
	return ok
}
