// Package delivery routes automation results to their configured
// channels. A channel key names a channel and a channel-local address
// separated by a colon: "telegram:42", "log:nightly-report". The
// registry owns parsing the key; handlers only see the bare address.
package delivery

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Handler sends one message to an address on its channel: a chat id
// for telegram, a label for log.
type Handler func(address, message string) error

// Registry maps channel names to their handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates a registry carrying the built-in "log" channel,
// which writes the message to logger under the key's address as label.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register("log", func(address, message string) error {
		logger.Info("automation result", "automation", address, "result", message)
		return nil
	})
	return r
}

// Register adds the handler for a channel name ("telegram"). A second
// registration for the same name replaces the first.
func (r *Registry) Register(channel string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[channel] = handler
}

// Deliver parses a "channel:address" key and hands the message to the
// channel's handler.
func (r *Registry) Deliver(channelKey, message string) error {
	channel, address, ok := strings.Cut(channelKey, ":")
	if !ok || channel == "" || address == "" {
		return fmt.Errorf("malformed channel key %q, want \"channel:address\"", channelKey)
	}

	r.mu.RLock()
	handler, ok := r.handlers[channel]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no delivery channel %q for key %q", channel, channelKey)
	}
	return handler(address, message)
}
