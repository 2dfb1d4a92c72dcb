// Package pipeline drives one user turn through the fixed stage
// sequence: disambiguate, classify, extract, build tasks, execute
// tasks strictly in order, summarize. Every step is persisted to the
// thread transcript and relayed to the streaming consumer.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rp-bot/AbletonBuddy/internal/agents"
	"github.com/rp-bot/AbletonBuddy/internal/catalog"
	"github.com/rp-bot/AbletonBuddy/internal/types"
)

const stoppedByUser = "Generation stopped by user"

// Orchestrator runs streamed turns. One instance serves all threads;
// each turn is an independent background run.
type Orchestrator struct {
	store   types.ThreadStore
	catalog *catalog.Catalog
	interp  agents.Interpreter
	exec    agents.Executor
	streams *Streams
	logger  *slog.Logger
}

func New(
	store types.ThreadStore,
	cat *catalog.Catalog,
	interp agents.Interpreter,
	exec agents.Executor,
	streams *Streams,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:   store,
		catalog: cat,
		interp:  interp,
		exec:    exec,
		streams: streams,
		logger:  logger,
	}
}

// StartTurn registers and launches one streamed turn for message on an
// existing thread. The caller owns consuming the handle's relay until a
// terminal event and must call Release when done. A thread with an
// active run rejects a second turn with ErrActiveRun.
func (o *Orchestrator) StartTurn(ctx context.Context, id types.ThreadID, message string) (*RunHandle, error) {
	if _, err := o.store.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	h := &RunHandle{
		ID:       types.NewRunID(),
		ThreadID: id,
		Relay:    NewRelay(),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if err := o.streams.Register(h); err != nil {
		cancel()
		return nil, err
	}

	o.logger.Debug("turn started", "run", h.ID, "thread", id)
	go o.run(runCtx, h, message)
	return h, nil
}

// Release drops the turn's registry entry after its consumer finished.
func (o *Orchestrator) Release(h *RunHandle) {
	o.streams.Remove(h.ThreadID)
}

// CancelTurn cancels the thread's active run, if any.
func (o *Orchestrator) CancelTurn(id types.ThreadID) error {
	return o.streams.Cancel(id)
}

func (o *Orchestrator) run(ctx context.Context, h *RunHandle, message string) {
	defer close(h.done)

	err := o.turn(ctx, h, message)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		o.logger.Info("turn cancelled", "run", h.ID, "thread", h.ThreadID)
	default:
		// one error event, no done
		o.logger.Error("turn failed", "run", h.ID, "thread", h.ThreadID, "error", err)
		h.Relay.Emit(context.Background(), types.Event{Kind: types.EventError, Data: err.Error()})
	}
}

func (o *Orchestrator) turn(ctx context.Context, h *RunHandle, message string) error {
	id := h.ThreadID

	status := func(text string) error {
		h.Relay.Emit(ctx, types.Event{Kind: types.EventStatus, Data: text})
		if err := o.store.AppendMessage(ctx, id, types.RoleStatus, text); err != nil {
			return fmt.Errorf("persist status: %w", err)
		}
		return nil
	}

	// Ingest
	if err := o.store.AppendMessage(ctx, id, types.RoleUser, message); err != nil {
		return fmt.Errorf("append user message: %w", err)
	}
	if err := status("Processing your request..."); err != nil {
		return err
	}

	// Disambiguate
	if err := status("Understanding your command..."); err != nil {
		return err
	}
	resolved, err := o.interp.Disambiguate(ctx, message)
	if err != nil {
		return o.stageErr(ctx, h, "disambiguate", err)
	}
	h.Relay.Emit(ctx, types.Event{Kind: types.EventDisambiguation, Data: resolved})
	if err := o.store.AppendMessage(ctx, id, types.RoleStatus, "Disambiguated input: "+resolved); err != nil {
		return fmt.Errorf("persist disambiguation: %w", err)
	}
	if err := o.checkCancelled(ctx, h); err != nil {
		return err
	}

	if agents.NeedsClarification(resolved) {
		return o.clarify(ctx, h, resolved)
	}

	// Classify
	if err := status("Identifying operations..."); err != nil {
		return err
	}
	cats, err := o.interp.Classify(ctx, resolved)
	if err != nil {
		return o.stageErr(ctx, h, "classify", err)
	}
	labels := make([]string, 0, len(cats))
	for _, c := range cats {
		labels = append(labels, c.String())
	}
	labelsJSON, _ := json.Marshal(labels)
	h.Relay.Emit(ctx, types.Event{Kind: types.EventClassification, Data: string(labelsJSON)})
	if err := o.store.AppendMessage(ctx, id, types.RoleStatus, "Classified categories: "+string(labelsJSON)); err != nil {
		return fmt.Errorf("persist classification: %w", err)
	}
	if err := o.checkCancelled(ctx, h); err != nil {
		return err
	}

	// Extract
	if err := status("Extracting operations..."); err != nil {
		return err
	}
	spans, err := o.interp.Extract(ctx, resolved, cats)
	if err != nil {
		return o.stageErr(ctx, h, "extract", err)
	}
	byLabel := make(map[string][]string, len(spans))
	for cat, ss := range spans {
		byLabel[cat.String()] = ss
	}
	spansJSON, _ := json.Marshal(byLabel)
	h.Relay.Emit(ctx, types.Event{Kind: types.EventExtraction, Data: string(spansJSON)})
	if err := o.store.AppendMessage(ctx, id, types.RoleStatus, "Extracted operations: "+string(spansJSON)); err != nil {
		return fmt.Errorf("persist extraction: %w", err)
	}
	if err := o.checkCancelled(ctx, h); err != nil {
		return err
	}

	// Build tasks in canonical category order
	if err := status("Creating tasks..."); err != nil {
		return err
	}
	var tasks []*Task
	for _, cat := range cats {
		tools, err := o.catalog.ToolsFor(cat)
		if err != nil {
			return fmt.Errorf("build tasks: %w", err)
		}
		for _, span := range spans[cat] {
			tasks = append(tasks, NewTask(cat, span, tools))
		}
	}

	// Execute strictly sequentially; the shared transport cannot serve
	// concurrent callers.
	if err := status(fmt.Sprintf("Executing %d task(s)...", len(tasks))); err != nil {
		return err
	}
	for i, task := range tasks {
		if err := o.checkCancelled(ctx, h); err != nil {
			return err
		}
		if err := status(fmt.Sprintf("Running task %d/%d: %s", i+1, len(tasks), task.Name)); err != nil {
			return err
		}

		outcome, result := task.Run(ctx, o.exec)
		if err := o.checkCancelled(ctx, h); err != nil {
			return err
		}

		var kind types.EventKind
		var verb string
		switch outcome {
		case OutcomeComplete:
			kind, verb = types.EventTaskSuccess, "completed"
		case OutcomeSkipped:
			kind, verb = types.EventTaskSkipped, "skipped"
		case OutcomeFailed:
			kind, verb = types.EventTaskFailed, "failed"
		}
		payload, _ := json.Marshal(map[string]any{
			"name":   task.Name,
			"result": result,
			"tools":  task.ToolNames(),
		})
		h.Relay.Emit(ctx, types.Event{Kind: kind, Data: string(payload)})
		if err := o.store.AppendMessage(ctx, id, types.RoleStatus,
			fmt.Sprintf("Task '%s' %s: %s", task.Name, verb, result)); err != nil {
			return fmt.Errorf("persist task outcome: %w", err)
		}
	}

	// Summarize
	if err := status("Preparing response..."); err != nil {
		return err
	}
	history, err := o.store.Messages(ctx, id)
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}
	summary, err := o.interp.Summarize(ctx, history)
	if err != nil {
		return o.stageErr(ctx, h, "summarize", err)
	}
	if err := o.store.AppendMessage(ctx, id, types.RoleResult, summary); err != nil {
		return fmt.Errorf("persist summary: %w", err)
	}
	h.Relay.Emit(ctx, types.Event{Kind: types.EventAssistant, Data: summary})

	// Finalize
	o.finalize(ctx, h, summary)
	h.Relay.Emit(ctx, types.Event{Kind: types.EventDone})
	return nil
}

// clarify short-circuits the turn with a clarification request; no
// classification, extraction or task stages run.
func (o *Orchestrator) clarify(ctx context.Context, h *RunHandle, resolved string) error {
	msg := agents.ClarificationMessage(resolved)
	if err := o.store.AppendMessage(ctx, h.ThreadID, types.RoleResult, msg); err != nil {
		return fmt.Errorf("persist clarification: %w", err)
	}
	o.finalize(ctx, h, msg)
	h.Relay.Emit(ctx, types.Event{Kind: types.EventAssistant, Data: msg})
	h.Relay.Emit(ctx, types.Event{Kind: types.EventDone})
	return nil
}

// checkCancelled turns a pending cancellation into the cancelled
// epilogue. Cancellation is only observed here, at suspension points.
func (o *Orchestrator) checkCancelled(ctx context.Context, h *RunHandle) error {
	if ctx.Err() == nil {
		return nil
	}
	return o.cancelledTurn(h)
}

// stageErr distinguishes a stage failure from a cancellation that
// surfaced through the stage's external call.
func (o *Orchestrator) stageErr(ctx context.Context, h *RunHandle, stage string, err error) error {
	if ctx.Err() != nil {
		return o.cancelledTurn(h)
	}
	return fmt.Errorf("%s: %w", stage, err)
}

// cancelledTurn runs the cancellation epilogue on a fresh context: the
// run's own context is already dead but the farewell still has to be
// persisted and delivered.
func (o *Orchestrator) cancelledTurn(h *RunHandle) error {
	ctx := context.Background()
	if err := o.store.AppendMessage(ctx, h.ThreadID, types.RoleResult, stoppedByUser); err != nil {
		o.logger.Warn("persist cancellation note failed", "thread", h.ThreadID, "error", err)
	}
	h.Relay.Emit(ctx, types.Event{Kind: types.EventAssistant, Data: stoppedByUser})
	h.Relay.Emit(ctx, types.Event{Kind: types.EventCancelled, Data: stoppedByUser})
	o.finalize(ctx, h, stoppedByUser)
	h.Relay.Emit(ctx, types.Event{Kind: types.EventDone})
	return context.Canceled
}

// finalize recomputes thread metadata and, after the first full
// exchange, attempts one-shot title generation. Title failures are
// swallowed; they never fail the turn.
func (o *Orchestrator) finalize(ctx context.Context, h *RunHandle, lastMessage string) {
	id := h.ThreadID
	count, err := o.store.MessageCount(ctx, id)
	if err != nil {
		o.logger.Warn("recount messages failed", "thread", id, "error", err)
		return
	}
	if err := o.store.UpdateMeta(ctx, id, count, lastMessage); err != nil {
		o.logger.Warn("update thread metadata failed", "thread", id, "error", err)
	}

	if count != 2 {
		return
	}
	th, err := o.store.Get(ctx, id)
	if err != nil {
		return
	}
	title, err := o.interp.Title(ctx, th.Preview)
	if err != nil {
		o.logger.Warn("title generation failed", "thread", id, "error", err)
		return
	}
	if err := o.store.SetTitle(ctx, id, title); err != nil {
		o.logger.Warn("store title failed", "thread", id, "error", err)
		return
	}
	h.Relay.Emit(ctx, types.Event{Kind: types.EventTitle, Data: title})
}

// CollectAssistant consumes a handle's relay until the terminal event
// and returns the final assistant text. It serves non-streaming
// front ends (automation runs, chat adapters).
func CollectAssistant(ctx context.Context, h *RunHandle) (string, error) {
	var assistant string
	handle := func(e types.Event) (bool, error) {
		switch e.Kind {
		case types.EventAssistant:
			assistant = e.Data
		case types.EventError:
			return true, errors.New(e.Data)
		}
		return e.Terminal(), nil
	}

	for {
		select {
		case e := <-h.Relay.Events():
			done, err := handle(e)
			if err != nil || done {
				return assistant, err
			}
		case <-h.Done():
			// run finished; drain whatever is still buffered
			for {
				select {
				case e := <-h.Relay.Events():
					done, err := handle(e)
					if err != nil || done {
						return assistant, err
					}
				default:
					return assistant, nil
				}
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
