// Package osc is the duplex UDP transport to a running Ableton Live
// session speaking the AbletonOSC protocol.
//
// The wire carries no request identifier: a request is one datagram with a
// hierarchical address and scalar arguments, and a reply is whatever
// datagram comes back. SendAndWait therefore correlates replies by address:
// a reply whose address matches a pending call wakes that call, and a reply
// on an unrelated address wakes the most recently issued call. The second
// rule is a documented contract, not an accident; concurrent callers on
// unrelated addresses can still steal each other's replies.
package osc

import (
	"fmt"
	"net"
	"sync"
	"time"

	goosc "github.com/hypebeast/go-osc/osc"
)

// Ack is returned when the session replies with an empty payload.
const Ack = "OK"

type Config struct {
	Host        string
	SendPort    int
	ReceivePort int
	// Live enables real socket I/O. When false every SendAndWait returns a
	// deterministic placeholder describing what would have been sent.
	Live bool
}

// Transport owns one outbound client and one inbound listener. Construct it
// explicitly and pass it to whoever needs it; there is no package-level
// instance.
type Transport struct {
	cfg    Config
	client *goosc.Client
	conn   net.PacketConn

	mu      sync.Mutex
	waiters []*waiter
}

type waiter struct {
	address string
	ch      chan []any
}

func New(cfg Config) *Transport {
	t := &Transport{cfg: cfg}
	if cfg.Live {
		t.client = goosc.NewClient(cfg.Host, cfg.SendPort)
	}
	return t
}

// Start binds the inbound listener. A no-op in simulation mode.
func (t *Transport) Start() error {
	if !t.cfg.Live {
		return nil
	}
	conn, err := net.ListenPacket("udp", fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.ReceivePort))
	if err != nil {
		return fmt.Errorf("listen udp %d: %w", t.cfg.ReceivePort, err)
	}
	t.conn = conn

	server := &goosc.Server{Dispatcher: t}
	go func() {
		// Serve returns when the connection is closed.
		_ = server.Serve(conn)
	}()
	return nil
}

// Close stops the inbound listener.
func (t *Transport) Close() error {
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}

// Live reports whether real socket I/O is enabled.
func (t *Transport) Live() bool {
	return t.cfg.Live
}

// Dispatch implements goosc.Dispatcher; it feeds every inbound message to
// the waiting caller, descending into bundles.
func (t *Transport) Dispatch(packet goosc.Packet) {
	switch p := packet.(type) {
	case *goosc.Message:
		t.deliver(p.Address, p.Arguments)
	case *goosc.Bundle:
		for _, msg := range p.Messages {
			t.deliver(msg.Address, msg.Arguments)
		}
		for _, b := range p.Bundles {
			t.Dispatch(b)
		}
	}
}

// deliver hands a reply to the pending call with a matching address, or to
// the most recent pending call when no address matches.
func (t *Transport) deliver(address string, values []any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i := len(t.waiters) - 1; i >= 0; i-- {
		if t.waiters[i].address == address {
			idx = i
			break
		}
	}
	if idx == -1 {
		if len(t.waiters) == 0 {
			return
		}
		idx = len(t.waiters) - 1
	}

	w := t.waiters[idx]
	t.waiters = append(t.waiters[:idx], t.waiters[idx+1:]...)
	w.ch <- values
}

func (t *Transport) addWaiter(address string) *waiter {
	w := &waiter{address: address, ch: make(chan []any, 1)}
	t.mu.Lock()
	t.waiters = append(t.waiters, w)
	t.mu.Unlock()
	return w
}

func (t *Transport) removeWaiter(w *waiter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, other := range t.waiters {
		if other == w {
			t.waiters = append(t.waiters[:i], t.waiters[i+1:]...)
			return
		}
	}
}

// SendAndWait sends one addressed request and waits up to timeout for a
// reply. An empty reply payload yields Ack, a single value is returned
// unwrapped, and multiple values come back as a slice. No reply within the
// timeout returns (nil, nil): not hearing back is a valid outcome on this
// wire, not an error. Only a send failure is an error.
func (t *Transport) SendAndWait(address string, args []any, timeout time.Duration) (any, error) {
	if !t.cfg.Live {
		if args == nil {
			args = []any{}
		}
		return fmt.Sprintf("[SIMULATION MODE] Would send OSC: %s %v", address, args), nil
	}

	w := t.addWaiter(address)

	msg := goosc.NewMessage(address)
	for _, arg := range args {
		msg.Append(normalizeArg(arg))
	}
	if err := t.client.Send(msg); err != nil {
		t.removeWaiter(w)
		return nil, fmt.Errorf("send %s: %w", address, err)
	}

	select {
	case values := <-w.ch:
		return convertReply(values), nil
	case <-time.After(timeout):
		t.removeWaiter(w)
		return nil, nil
	}
}

func convertReply(values []any) any {
	switch len(values) {
	case 0:
		return Ack
	case 1:
		return values[0]
	default:
		return values
	}
}

// normalizeArg maps plain Go scalars onto the OSC type set.
func normalizeArg(arg any) any {
	switch v := arg.(type) {
	case int:
		return int32(v)
	case int64:
		return v
	case float64:
		return float32(v)
	default:
		return arg
	}
}
