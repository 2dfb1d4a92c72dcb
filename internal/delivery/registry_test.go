package delivery

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistryDeliverStripsChannel(t *testing.T) {
	reg := newTestRegistry()

	var gotAddress, gotMsg string
	reg.Register("telegram", func(address, message string) error {
		gotAddress = address
		gotMsg = message
		return nil
	})

	if err := reg.Deliver("telegram:42", "tempo is now 120"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddress != "42" {
		t.Errorf("handler should get the bare address, got %q", gotAddress)
	}
	if gotMsg != "tempo is now 120" {
		t.Errorf("message = %q", gotMsg)
	}
}

func TestRegistryUnknownChannel(t *testing.T) {
	reg := newTestRegistry()

	err := reg.Deliver("slack:general", "hello")
	if err == nil {
		t.Fatal("expected error for unregistered channel, got nil")
	}
	if !strings.Contains(err.Error(), "slack") {
		t.Errorf("error should name the channel: %v", err)
	}
}

func TestRegistryMalformedKey(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("telegram", func(address, message string) error { return nil })

	for _, key := range []string{"telegram", "telegram:", ":42", ""} {
		if err := reg.Deliver(key, "msg"); err == nil {
			t.Errorf("Deliver(%q) should fail", key)
		}
	}
}

func TestRegistryBuiltinLogChannel(t *testing.T) {
	reg := newTestRegistry()

	if err := reg.Deliver("log:nightly-report", "all quiet"); err != nil {
		t.Fatalf("log channel should be built in: %v", err)
	}
}

func TestRegistryAddressMayContainColons(t *testing.T) {
	reg := newTestRegistry()

	var gotAddress string
	reg.Register("webhook", func(address, message string) error {
		gotAddress = address
		return nil
	})

	if err := reg.Deliver("webhook:https://example.com/hook", "msg"); err != nil {
		t.Fatal(err)
	}
	if gotAddress != "https://example.com/hook" {
		t.Errorf("address = %q", gotAddress)
	}
}
