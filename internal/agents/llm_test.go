package agents

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rp-bot/AbletonBuddy/internal/catalog"
	"github.com/rp-bot/AbletonBuddy/pkg/llm"
)

// fakeProvider returns canned responses in order.
type fakeProvider struct {
	responses []*llm.Response
	calls     [][]llm.Message
}

func (f *fakeProvider) Complete(_ context.Context, messages []llm.Message, _ []llm.Tool) (*llm.Response, error) {
	f.calls = append(f.calls, messages)
	if len(f.responses) == 0 {
		return &llm.Response{}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func newTestLLM(t *testing.T, provider llm.Provider) *LLM {
	t.Helper()
	w, err := NewWindow("gpt-4", 1000, 100)
	if err != nil {
		t.Fatal(err)
	}
	return NewLLM(provider, w, 5, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLLMClassifyParsesLabels(t *testing.T) {
	provider := &fakeProvider{responses: []*llm.Response{
		{Content: "SONG, TRACK"},
	}}
	l := newTestLLM(t, provider)

	cats, err := l.Classify(context.Background(), "set tempo to 120 and mute track 2")
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0] != catalog.Song || cats[1] != catalog.Track {
		t.Errorf("cats = %v", cats)
	}
}

func TestLLMClassifyCompoundLabels(t *testing.T) {
	// DEVICE_LOADER contains DEVICE and CLIP_SLOT contains CLIP; label
	// matching must not pick up the embedded names.
	provider := &fakeProvider{responses: []*llm.Response{
		{Content: "DEVICE_LOADER, CLIP_SLOT"},
	}}
	l := newTestLLM(t, provider)

	cats, err := l.Classify(context.Background(), "load a piano into an empty clip slot")
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0] != catalog.ClipSlot || cats[1] != catalog.DeviceLoader {
		t.Errorf("cats = %v", cats)
	}
}

func TestLLMClassifyFallsBack(t *testing.T) {
	provider := &fakeProvider{responses: []*llm.Response{
		{Content: "no idea"},
	}}
	l := newTestLLM(t, provider)

	cats, err := l.Classify(context.Background(), "do something")
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 1 || cats[0] != catalog.Song {
		t.Errorf("cats = %v", cats)
	}
}

func TestLLMExtractParsesJSON(t *testing.T) {
	provider := &fakeProvider{responses: []*llm.Response{
		{Content: `["set tempo to 120"]`},
	}}
	l := newTestLLM(t, provider)

	out, err := l.Extract(context.Background(), "set tempo to 120", []catalog.Category{catalog.Song})
	if err != nil {
		t.Fatal(err)
	}
	if got := out[catalog.Song]; len(got) != 1 || got[0] != "set tempo to 120" {
		t.Errorf("spans = %v", got)
	}
}

func TestParseSpansFallback(t *testing.T) {
	spans := parseSpans("- set tempo to 120\n- mute track 2\n")
	if len(spans) != 2 || spans[0] != "set tempo to 120" || spans[1] != "mute track 2" {
		t.Errorf("spans = %v", spans)
	}
}

func TestLLMExecuteTaskToolLoop(t *testing.T) {
	tr := &fakeTransport{reply: "OK"}
	cat, err := catalog.New(tr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	tools, err := cat.ToolsFor(catalog.Song)
	if err != nil {
		t.Fatal(err)
	}

	args, _ := json.Marshal(map[string]any{"command_type": "set_tempo", "value": "120"})
	provider := &fakeProvider{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{
			ID:   "call_1",
			Type: "function",
			Function: llm.FunctionCall{
				Name:      "control_ableton",
				Arguments: args,
			},
		}}},
		{Content: "I set the tempo to 120 BPM."},
	}}
	l := newTestLLM(t, provider)

	result, skipped, err := l.ExecuteTask(context.Background(), "set tempo to 120", "instructions", tools)
	if err != nil {
		t.Fatal(err)
	}
	if skipped {
		t.Fatal("should not be skipped")
	}
	if result != "I set the tempo to 120 BPM." {
		t.Errorf("result = %q", result)
	}
	if tr.address != "/live/song/set/tempo" {
		t.Errorf("address = %q", tr.address)
	}

	// the second call must carry the tool result back to the model
	last := provider.calls[len(provider.calls)-1]
	var sawToolResult bool
	for _, m := range last {
		if m.Role == "tool" && strings.Contains(m.Content, "set_tempo") {
			sawToolResult = true
		}
	}
	if !sawToolResult {
		t.Error("tool result was not fed back into the conversation")
	}
}

func TestLLMExecuteTaskMaxRounds(t *testing.T) {
	args, _ := json.Marshal(map[string]any{"query_type": "tempo"})
	call := llm.ToolCall{
		ID:       "loop",
		Type:     "function",
		Function: llm.FunctionCall{Name: "missing_tool", Arguments: args},
	}
	provider := &fakeProvider{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{call}},
		{ToolCalls: []llm.ToolCall{call}},
		{ToolCalls: []llm.ToolCall{call}},
		{ToolCalls: []llm.ToolCall{call}},
		{ToolCalls: []llm.ToolCall{call}},
		{ToolCalls: []llm.ToolCall{call}},
	}}
	l := newTestLLM(t, provider)

	if _, _, err := l.ExecuteTask(context.Background(), "loop forever", "instructions", nil); err == nil {
		t.Fatal("expected max rounds error")
	}
}
