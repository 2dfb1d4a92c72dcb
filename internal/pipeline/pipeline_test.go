package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rp-bot/AbletonBuddy/internal/agents"
	"github.com/rp-bot/AbletonBuddy/internal/catalog"
	"github.com/rp-bot/AbletonBuddy/internal/store"
	"github.com/rp-bot/AbletonBuddy/internal/types"
)

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

type fixture struct {
	orch    *Orchestrator
	streams *Streams
	store   *store.Store
	tr      *fakeTransport
}

func newFixture(t *testing.T, interp agents.Interpreter, exec agents.Executor) *fixture {
	t.Helper()

	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	tr := &fakeTransport{reply: "OK"}
	cat, err := catalog.New(tr, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	streams := NewStreams()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		orch:    New(st, cat, interp, exec, streams, logger),
		streams: streams,
		store:   st,
		tr:      tr,
	}
}

func newRulesFixture(t *testing.T) *fixture {
	r := agents.NewRules()
	return newFixture(t, r, r)
}

// drainEvents waits for the run to finish, then reads every buffered
// event off the relay.
func drainEvents(t *testing.T, h *RunHandle) []types.Event {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}

	var events []types.Event
	for {
		select {
		case e := <-h.Relay.Events():
			events = append(events, e)
		default:
			return events
		}
	}
}

func countKind(events []types.Event, kind types.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func findKind(events []types.Event, kind types.EventKind) (types.Event, bool) {
	for _, e := range events {
		if e.Kind == kind {
			return e, true
		}
	}
	return types.Event{}, false
}

func TestCompleteCommandTurn(t *testing.T) {
	f := newRulesFixture(t)
	ctx := context.Background()

	th, err := f.store.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	h, err := f.orch.StartTurn(ctx, th.ID, "set tempo to 120")
	if err != nil {
		t.Fatal(err)
	}
	if h.ID == "" {
		t.Error("run handle has no run id")
	}
	events := drainEvents(t, h)
	f.orch.Release(h)

	cls, ok := findKind(events, types.EventClassification)
	if !ok || !strings.Contains(cls.Data, "SONG") {
		t.Errorf("classification = %+v", cls)
	}
	ext, ok := findKind(events, types.EventExtraction)
	if !ok || !strings.Contains(ext.Data, "set tempo to 120") {
		t.Errorf("extraction = %+v", ext)
	}
	success, ok := findKind(events, types.EventTaskSuccess)
	if !ok {
		t.Fatal("no task_success event")
	}
	if !strings.Contains(success.Data, "control_ableton") {
		t.Errorf("task_success should name the tempo tool: %s", success.Data)
	}
	if _, ok := findKind(events, types.EventAssistant); !ok {
		t.Error("no assistant event")
	}
	if n := countKind(events, types.EventDone); n != 1 {
		t.Errorf("done events = %d, want 1", n)
	}
	if f.tr.address != "/live/song/set/tempo" {
		t.Errorf("transport address = %q", f.tr.address)
	}

	// first full exchange triggers one-shot title generation
	if _, ok := findKind(events, types.EventTitle); !ok {
		t.Error("no title event after first exchange")
	}
	got, err := f.store.Get(ctx, th.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title == "" {
		t.Error("title not stored")
	}
	if got.MessageCount != 2 {
		t.Errorf("message_count = %d, want 2", got.MessageCount)
	}

	// a second turn gets its own run id
	h2, err := f.orch.StartTurn(ctx, th.ID, "stop playback")
	if err != nil {
		t.Fatal(err)
	}
	if h2.ID == "" || h2.ID == h.ID {
		t.Errorf("second run id = %q, first = %q", h2.ID, h.ID)
	}
	drainEvents(t, h2)
	f.orch.Release(h2)
}

func TestClarificationShortCircuit(t *testing.T) {
	f := newRulesFixture(t)
	ctx := context.Background()

	th, _ := f.store.Create(ctx)
	h, err := f.orch.StartTurn(ctx, th.ID, "mute track")
	if err != nil {
		t.Fatal(err)
	}
	events := drainEvents(t, h)
	f.orch.Release(h)

	if n := countKind(events, types.EventAssistant); n != 1 {
		t.Errorf("assistant events = %d, want 1", n)
	}
	if n := countKind(events, types.EventDone); n != 1 {
		t.Errorf("done events = %d, want 1", n)
	}
	for _, kind := range []types.EventKind{
		types.EventClassification, types.EventExtraction,
		types.EventTaskSuccess, types.EventTaskSkipped, types.EventTaskFailed,
	} {
		if n := countKind(events, kind); n != 0 {
			t.Errorf("%s events = %d, want 0", kind, n)
		}
	}

	assistant, _ := findKind(events, types.EventAssistant)
	if !strings.Contains(assistant.Data, "I need more information to help you.") {
		t.Errorf("assistant = %q", assistant.Data)
	}

	msgs, err := f.store.Messages(ctx, th.ID)
	if err != nil {
		t.Fatal(err)
	}
	last := msgs[len(msgs)-1]
	if last.Role != types.RoleResult || !strings.Contains(last.Content, "I need more information") {
		t.Errorf("clarification not persisted as agent-result: %s %q", last.Role, last.Content)
	}
}

func TestNoResponseKeepsLoopAlive(t *testing.T) {
	f := newRulesFixture(t)
	f.tr.reply = nil // unreachable session: every call times out
	ctx := context.Background()

	th, _ := f.store.Create(ctx)
	h, err := f.orch.StartTurn(ctx, th.ID, "what is the tempo")
	if err != nil {
		t.Fatal(err)
	}
	events := drainEvents(t, h)
	f.orch.Release(h)

	success, ok := findKind(events, types.EventTaskSuccess)
	if !ok {
		t.Fatal("task should still reach a terminal state")
	}
	if !strings.Contains(success.Data, "No response for query: tempo") {
		t.Errorf("task result = %s", success.Data)
	}
	if n := countKind(events, types.EventDone); n != 1 {
		t.Errorf("done events = %d, want 1", n)
	}
}

// blockingExec parks inside task execution until its context dies.
type blockingExec struct {
	started chan struct{}
}

func (b *blockingExec) ExecuteTask(ctx context.Context, _, _ string, _ []catalog.Tool) (string, bool, error) {
	close(b.started)
	<-ctx.Done()
	return "", false, ctx.Err()
}

func TestCancelMidExecution(t *testing.T) {
	exec := &blockingExec{started: make(chan struct{})}
	f := newFixture(t, agents.NewRules(), exec)
	ctx := context.Background()

	th, _ := f.store.Create(ctx)
	h, err := f.orch.StartTurn(ctx, th.ID, "set tempo to 120")
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-exec.started:
	case <-time.After(5 * time.Second):
		t.Fatal("task never started")
	}

	// cancel endpoint semantics: entry removed immediately, no join
	if err := f.streams.Cancel(th.ID); err != nil {
		t.Fatal(err)
	}
	if f.streams.Active(th.ID) {
		t.Error("registry entry should be gone right after cancel")
	}

	// the consumer still holds its own relay reference and reads the
	// epilogue despite the vanished registry entry
	events := drainEvents(t, h)

	if n := countKind(events, types.EventCancelled); n != 1 {
		t.Errorf("cancelled events = %d, want 1", n)
	}
	if n := countKind(events, types.EventDone); n != 1 {
		t.Errorf("done events = %d, want 1", n)
	}
	assistant, ok := findKind(events, types.EventAssistant)
	if !ok || assistant.Data != "Generation stopped by user" {
		t.Errorf("assistant = %+v", assistant)
	}

	msgs, err := f.store.Messages(ctx, th.ID)
	if err != nil {
		t.Fatal(err)
	}
	var sawStopped bool
	for _, m := range msgs {
		if m.Role == types.RoleResult && m.Content == "Generation stopped by user" {
			sawStopped = true
		}
	}
	if !sawStopped {
		t.Error("stopped-by-user entry not persisted")
	}
}

func TestCancelWithoutActiveRun(t *testing.T) {
	f := newRulesFixture(t)
	if err := f.streams.Cancel(types.NewThreadID()); !errors.Is(err, ErrNoActiveRun) {
		t.Errorf("err = %v, want ErrNoActiveRun", err)
	}
}

func TestDuplicateRunRejected(t *testing.T) {
	exec := &blockingExec{started: make(chan struct{})}
	f := newFixture(t, agents.NewRules(), exec)
	ctx := context.Background()

	th, _ := f.store.Create(ctx)
	h, err := f.orch.StartTurn(ctx, th.ID, "set tempo to 120")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.orch.StartTurn(ctx, th.ID, "set tempo to 90"); !errors.Is(err, ErrActiveRun) {
		t.Errorf("second turn err = %v, want ErrActiveRun", err)
	}

	f.streams.Cancel(th.ID)
	drainEvents(t, h)
}

// failingInterp errors out of disambiguation.
type failingInterp struct {
	*agents.Rules
}

func (f *failingInterp) Disambiguate(context.Context, string) (string, error) {
	return "", errors.New("model unavailable")
}

func TestStageErrorEndsWithoutDone(t *testing.T) {
	r := agents.NewRules()
	f := newFixture(t, &failingInterp{Rules: r}, r)
	ctx := context.Background()

	th, _ := f.store.Create(ctx)
	h, err := f.orch.StartTurn(ctx, th.ID, "set tempo to 120")
	if err != nil {
		t.Fatal(err)
	}
	events := drainEvents(t, h)
	f.orch.Release(h)

	if n := countKind(events, types.EventError); n != 1 {
		t.Errorf("error events = %d, want 1", n)
	}
	if n := countKind(events, types.EventDone); n != 0 {
		t.Errorf("done events = %d, want 0", n)
	}
	last := events[len(events)-1]
	if last.Kind != types.EventError {
		t.Errorf("last event = %s, want error", last.Kind)
	}
}

func TestStartTurnUnknownThread(t *testing.T) {
	f := newRulesFixture(t)
	if _, err := f.orch.StartTurn(context.Background(), types.NewThreadID(), "hi"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCollectAssistant(t *testing.T) {
	f := newRulesFixture(t)
	ctx := context.Background()

	th, _ := f.store.Create(ctx)
	h, err := f.orch.StartTurn(ctx, th.ID, "set tempo to 120")
	if err != nil {
		t.Fatal(err)
	}
	defer f.orch.Release(h)

	text, err := CollectAssistant(ctx, h)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Do you need me to do anything else?") {
		t.Errorf("assistant text = %q", text)
	}
}
