package pipeline

import (
	"context"
	"fmt"

	"github.com/rp-bot/AbletonBuddy/internal/agents"
	"github.com/rp-bot/AbletonBuddy/internal/catalog"
)

// Outcome is a task's terminal state. Failure is a state, not an error;
// a failed task never stops the tasks after it.
type Outcome int

const (
	OutcomeComplete Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// Task is one bound unit of work: an extracted request span plus the
// category's instruction template and tool set.
type Task struct {
	Name         string
	Category     catalog.Category
	Request      string
	Instructions string
	Tools        []catalog.Tool
}

func NewTask(cat catalog.Category, request string, tools []catalog.Tool) *Task {
	return &Task{
		Name:         fmt.Sprintf("%s Task", cat),
		Category:     cat,
		Request:      request,
		Instructions: agents.TaskInstructions(cat, request),
		Tools:        tools,
	}
}

// Run drives the task to a terminal outcome. Executor errors become a
// failed outcome; cancellation is the caller's to observe via ctx.
func (t *Task) Run(ctx context.Context, exec agents.Executor) (Outcome, string) {
	result, skipped, err := exec.ExecuteTask(ctx, t.Request, t.Instructions, t.Tools)
	switch {
	case err != nil:
		return OutcomeFailed, err.Error()
	case skipped:
		return OutcomeSkipped, result
	default:
		return OutcomeComplete, result
	}
}

func (t *Task) ToolNames() []string {
	names := make([]string, 0, len(t.Tools))
	for _, tool := range t.Tools {
		names = append(names, tool.Name())
	}
	return names
}
