package pipeline

import (
	"context"

	"github.com/rp-bot/AbletonBuddy/internal/types"
)

const relayBuffer = 64

// Relay carries pipeline events from the orchestrator to a single
// streaming consumer. The orchestrator is its only producer.
type Relay struct {
	ch chan types.Event
}

func NewRelay() *Relay {
	return &Relay{ch: make(chan types.Event, relayBuffer)}
}

// Emit delivers one event. If the buffer is full the send blocks until
// the consumer catches up or ctx is cancelled; a cancelled send drops
// the event.
func (r *Relay) Emit(ctx context.Context, e types.Event) {
	select {
	case r.ch <- e:
	case <-ctx.Done():
	}
}

func (r *Relay) Events() <-chan types.Event { return r.ch }
