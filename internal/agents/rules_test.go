package agents

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rp-bot/AbletonBuddy/internal/catalog"
	"github.com/rp-bot/AbletonBuddy/internal/types"
)

func TestDisambiguateFixedPoint(t *testing.T) {
	r := NewRules()
	ctx := context.Background()

	inputs := []string{
		"mute track 2",
		"set tempo to 120",
		"launch scene 3",
	}
	for _, input := range inputs {
		out, err := r.Disambiguate(ctx, input)
		if err != nil {
			t.Fatal(err)
		}
		if out != input {
			t.Errorf("Disambiguate(%q) = %q, want unchanged", input, out)
		}
		// applying it again must not change the result
		again, err := r.Disambiguate(ctx, out)
		if err != nil {
			t.Fatal(err)
		}
		if again != out {
			t.Errorf("Disambiguate not idempotent on %q: got %q", out, again)
		}
	}
}

func TestDisambiguateIncomplete(t *testing.T) {
	r := NewRules()
	ctx := context.Background()

	for _, input := range []string{"mute track", "change the tempo", "play", "launch scene"} {
		out, err := r.Disambiguate(ctx, input)
		if err != nil {
			t.Fatal(err)
		}
		if !NeedsClarification(out) {
			t.Errorf("Disambiguate(%q) = %q, want clarification", input, out)
		}
		if !strings.Contains(out, "Original: "+input) {
			t.Errorf("clarification for %q should carry the original input: %q", input, out)
		}
	}
}

func TestClarificationMessage(t *testing.T) {
	marked := "NEED_MORE_CONTEXT: Which track? Original: mute track"
	msg := ClarificationMessage(marked)
	if !strings.Contains(msg, "I need more information to help you. Which track?") {
		t.Errorf("unexpected message: %q", msg)
	}
	if !strings.Contains(msg, "Your original request: 'mute track'") {
		t.Errorf("message should quote the original request: %q", msg)
	}

	plain := "mute track 2"
	if got := ClarificationMessage(plain); got != plain {
		t.Errorf("non-clarification input should pass through, got %q", got)
	}
}

func TestClassify(t *testing.T) {
	r := NewRules()
	ctx := context.Background()

	tests := []struct {
		input string
		want  []catalog.Category
	}{
		{"set tempo to 120", []catalog.Category{catalog.Song}},
		{"mute track 2", []catalog.Category{catalog.Track}},
		{"launch scene 3", []catalog.Category{catalog.Scene}},
		{"set tempo to 120 and mute track 2", []catalog.Category{catalog.Song, catalog.Track}},
		{"hello there", []catalog.Category{catalog.Song}},
	}
	for _, tt := range tests {
		got, err := r.Classify(ctx, tt.input)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}

func TestExtractSingleCategory(t *testing.T) {
	r := NewRules()
	input := "set tempo to 120"

	out, err := r.Extract(context.Background(), input, []catalog.Category{catalog.Song})
	if err != nil {
		t.Fatal(err)
	}
	spans := out[catalog.Song]
	if len(spans) != 1 || spans[0] != input {
		t.Errorf("single-category extraction should yield the whole input, got %v", spans)
	}
}

func TestExtractMultiClause(t *testing.T) {
	r := NewRules()
	input := "set tempo to 120 and mute track 2"
	cats := []catalog.Category{catalog.Song, catalog.Track}

	out, err := r.Extract(context.Background(), input, cats)
	if err != nil {
		t.Fatal(err)
	}
	if got := out[catalog.Song]; len(got) != 1 || got[0] != "set tempo to 120" {
		t.Errorf("Song spans = %v", got)
	}
	if got := out[catalog.Track]; len(got) != 1 || got[0] != "mute track 2" {
		t.Errorf("Track spans = %v", got)
	}
}

type fakeTransport struct {
	address string
	args    []any
	reply   any
}

func (f *fakeTransport) SendAndWait(address string, args []any, _ time.Duration) (any, error) {
	f.address = address
	f.args = args
	return f.reply, nil
}

func TestExecuteTaskSetTempo(t *testing.T) {
	tr := &fakeTransport{reply: "OK"}
	cat, err := catalog.New(tr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	tools, err := cat.ToolsFor(catalog.Song)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRules()
	result, skipped, err := r.ExecuteTask(context.Background(), "set tempo to 120", "", tools)
	if err != nil {
		t.Fatal(err)
	}
	if skipped {
		t.Fatal("tempo command should not be skipped")
	}
	if tr.address != "/live/song/set/tempo" {
		t.Errorf("address = %q", tr.address)
	}
	if len(tr.args) != 1 || tr.args[0] != 120 {
		t.Errorf("args = %v", tr.args)
	}
	if !strings.Contains(result, "set_tempo") {
		t.Errorf("result = %q", result)
	}
}

func TestExecuteTaskMuteTrack(t *testing.T) {
	tr := &fakeTransport{reply: "OK"}
	cat, err := catalog.New(tr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	tools, err := cat.ToolsFor(catalog.Track)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRules()
	_, skipped, err := r.ExecuteTask(context.Background(), "mute track 2", "", tools)
	if err != nil {
		t.Fatal(err)
	}
	if skipped {
		t.Fatal("mute command should not be skipped")
	}
	if tr.address != "/live/track/set/mute" {
		t.Errorf("address = %q", tr.address)
	}
	if len(tr.args) != 2 || tr.args[0] != 2 || tr.args[1] != 1 {
		t.Errorf("args = %v", tr.args)
	}
}

func TestExecuteTaskUnmuteTrack(t *testing.T) {
	tr := &fakeTransport{reply: "OK"}
	cat, err := catalog.New(tr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	tools, err := cat.ToolsFor(catalog.Track)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRules()
	tests := []struct {
		input   string
		address string
		value   int
	}{
		{"unmute track 2", "/live/track/set/mute", 0},
		{"mute track 2", "/live/track/set/mute", 1},
		{"unsolo track 3", "/live/track/set/solo", 0},
		{"solo track 3", "/live/track/set/solo", 1},
		{"disarm track 1", "/live/track/set/arm", 0},
		{"arm track 1", "/live/track/set/arm", 1},
	}
	for _, tt := range tests {
		_, skipped, err := r.ExecuteTask(context.Background(), tt.input, "", tools)
		if err != nil {
			t.Fatal(err)
		}
		if skipped {
			t.Fatalf("%q should not be skipped", tt.input)
		}
		if tr.address != tt.address {
			t.Errorf("%q: address = %q, want %q", tt.input, tr.address, tt.address)
		}
		if len(tr.args) != 2 || tr.args[1] != tt.value {
			t.Errorf("%q: args = %v, want value %d", tt.input, tr.args, tt.value)
		}
	}
}

func TestClassifyCompositionAndLoader(t *testing.T) {
	r := NewRules()
	ctx := context.Background()

	got, err := r.Classify(ctx, "compose a chord progression")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != catalog.Composition {
		t.Errorf("Classify = %v, want [COMPOSITION]", got)
	}

	got, err = r.Classify(ctx, "load a piano from the browser")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != catalog.DeviceLoader {
		t.Errorf("Classify = %v, want [DEVICE_LOADER]", got)
	}
}

func TestExecuteTaskMelody(t *testing.T) {
	tr := &fakeTransport{reply: "OK"}
	cat, err := catalog.New(tr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	tools, err := cat.ToolsFor(catalog.Composition)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRules()
	result, skipped, err := r.ExecuteTask(context.Background(), "create a melody in c major on track 1", "", tools)
	if err != nil {
		t.Fatal(err)
	}
	if skipped {
		t.Fatal("melody command should not be skipped")
	}
	if tr.address != "/live/clip/add/notes" {
		t.Errorf("last address = %q", tr.address)
	}
	if !strings.Contains(result, "Successfully created melody clip on track 1") {
		t.Errorf("result = %q", result)
	}
	if !strings.Contains(result, "c major") {
		t.Errorf("result should name the scale: %q", result)
	}
}

func TestExecuteTaskLoadDevice(t *testing.T) {
	tr := &fakeTransport{reply: "OK"}
	cat, err := catalog.New(tr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	tools, err := cat.ToolsFor(catalog.DeviceLoader)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRules()
	result, skipped, err := r.ExecuteTask(context.Background(), "load an operator", "", tools)
	if err != nil {
		t.Fatal(err)
	}
	if skipped {
		t.Fatal("load command should not be skipped")
	}
	if tr.address != "/live/device_loader/load" {
		t.Errorf("address = %q", tr.address)
	}
	if len(tr.args) != 1 || tr.args[0] != "operator" {
		t.Errorf("args = %v", tr.args)
	}
	if !strings.Contains(result, "load: OK") {
		t.Errorf("result = %q", result)
	}
}

func TestExecuteTaskUnmatched(t *testing.T) {
	r := NewRules()
	result, skipped, err := r.ExecuteTask(context.Background(), "paint the studio purple", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !skipped {
		t.Errorf("unmatched request should be skipped, got result %q", result)
	}
}

func TestSummarize(t *testing.T) {
	r := NewRules()
	history := []*types.Message{
		{Role: types.RoleUser, Content: "set tempo to 120"},
		{Role: types.RoleStatus, Content: "Processing your request..."},
		{Role: types.RoleStatus, Content: "Task 'SONG Task' completed: Command executed: set_tempo with value 120"},
	}

	summary, err := r.Summarize(context.Background(), history)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(summary, "You asked: set tempo to 120") {
		t.Errorf("summary missing request: %q", summary)
	}
	if !strings.Contains(summary, "Task 'SONG Task' completed") {
		t.Errorf("summary missing task outcome: %q", summary)
	}
	if !strings.HasSuffix(summary, "Do you need me to do anything else?") {
		t.Errorf("summary missing closing line: %q", summary)
	}
}

func TestTitleTruncates(t *testing.T) {
	r := NewRules()

	title, err := r.Title(context.Background(), "set tempo to 120")
	if err != nil {
		t.Fatal(err)
	}
	if title != "set tempo to 120" {
		t.Errorf("title = %q", title)
	}

	long := strings.Repeat("mute track 2 ", 10)
	title, err = r.Title(context.Background(), long)
	if err != nil {
		t.Fatal(err)
	}
	if len([]rune(title)) > maxTitleRunes+3 {
		t.Errorf("title too long: %q", title)
	}
	if !strings.HasSuffix(title, "...") {
		t.Errorf("truncated title should end with ellipsis: %q", title)
	}
}
