package telegram

import (
	"strings"
	"testing"
)

func TestSplitMessage(t *testing.T) {
	short := "Hello world"
	parts := splitMessage(short)
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0] != short {
		t.Errorf("expected %q, got %q", short, parts[0])
	}
}

func TestSplitMessageLong(t *testing.T) {
	long := strings.Repeat("a", 5000)
	parts := splitMessage(long)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if len(parts[0]) != maxTelegramMessage {
		t.Errorf("expected first part length %d, got %d", maxTelegramMessage, len(parts[0]))
	}
}

func TestDeliverRejectsBadAddress(t *testing.T) {
	a := &Adapter{}
	if err := a.Deliver("not-a-number", "hi"); err == nil {
		t.Error("expected error for non-numeric chat id")
	}
}

func TestBuildChannelKey(t *testing.T) {
	key := buildChannelKey(67890)
	if string(key) != "telegram:67890" {
		t.Errorf("expected 'telegram:67890', got %q", key)
	}
}
