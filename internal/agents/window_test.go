package agents

import (
	"strings"
	"testing"

	"github.com/rp-bot/AbletonBuddy/internal/types"
)

func TestWindowClampKeepsNewest(t *testing.T) {
	w, err := NewWindow("gpt-4", 50, 10)
	if err != nil {
		t.Fatal(err)
	}

	long := strings.Repeat("mute track two please ", 20)
	history := []*types.Message{
		{Role: types.RoleUser, Content: long},
		{Role: types.RoleResult, Content: "done"},
		{Role: types.RoleUser, Content: "set tempo to 120"},
	}

	clamped := w.Clamp(history)
	if len(clamped) == 0 {
		t.Fatal("clamped history is empty")
	}
	if len(clamped) == len(history) {
		t.Fatal("oversized history should have been trimmed")
	}
	if clamped[len(clamped)-1].Content != "set tempo to 120" {
		t.Errorf("newest message must survive clamping, got %q", clamped[len(clamped)-1].Content)
	}
}

func TestWindowClampFitsAll(t *testing.T) {
	w, err := NewWindow("gpt-4", 1000, 100)
	if err != nil {
		t.Fatal(err)
	}

	history := []*types.Message{
		{Role: types.RoleUser, Content: "set tempo to 120"},
		{Role: types.RoleResult, Content: "Command executed: set_tempo with value 120"},
	}
	if got := w.Clamp(history); len(got) != len(history) {
		t.Errorf("short history should fit entirely, got %d of %d", len(got), len(history))
	}
}
