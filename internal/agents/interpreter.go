// Package agents holds the natural-language side of the pipeline: the
// Interpreter turns a user's request into categories and spans, the
// Executor drives one bound task against its tool set. Both have an
// LLM-backed implementation and a deterministic rule-based one.
package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rp-bot/AbletonBuddy/internal/catalog"
	"github.com/rp-bot/AbletonBuddy/internal/types"
)

// Interpreter is the language-understanding boundary of the pipeline.
// Disambiguate returns its input unchanged when nothing is ambiguous;
// otherwise it returns a message starting with ClarificationPrefix.
type Interpreter interface {
	Disambiguate(ctx context.Context, input string) (string, error)
	Classify(ctx context.Context, input string) ([]catalog.Category, error)
	Extract(ctx context.Context, input string, categories []catalog.Category) (map[catalog.Category][]string, error)
	Summarize(ctx context.Context, history []*types.Message) (string, error)
	Title(ctx context.Context, firstMessage string) (string, error)
}

// Executor runs one bound task. request is the extracted span,
// instructions the category template built around it. A skipped result
// means the executor could not act on the request; it is not an error.
type Executor interface {
	ExecuteTask(ctx context.Context, request, instructions string, tools []catalog.Tool) (result string, skipped bool, err error)
}

// ClarificationPrefix marks a disambiguation result that needs more
// input from the user before the pipeline can proceed.
const ClarificationPrefix = "NEED_MORE_CONTEXT:"

// NeedsClarification reports whether a disambiguation result is a
// clarification request rather than a resolved command.
func NeedsClarification(s string) bool {
	return strings.HasPrefix(s, ClarificationPrefix)
}

// ClarificationMessage renders a clarification-marked disambiguation
// result as the user-facing question. Non-clarification input is
// returned unchanged.
func ClarificationMessage(s string) string {
	if !NeedsClarification(s) {
		return s
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, ClarificationPrefix))
	if i := strings.Index(rest, "Original:"); i >= 0 {
		request := strings.TrimSpace(rest[:i])
		original := strings.TrimSpace(rest[i+len("Original:"):])
		return fmt.Sprintf(
			"I need more information to help you. %s\n\nYour original request: '%s'\n\nPlease provide more specific details and I'll be happy to help!",
			request, original)
	}

	return fmt.Sprintf(
		"I need more information to help you. %s\n\nPlease provide more specific details and I'll be happy to help!",
		rest)
}
