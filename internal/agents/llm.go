package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rp-bot/AbletonBuddy/internal/catalog"
	"github.com/rp-bot/AbletonBuddy/internal/types"
	"github.com/rp-bot/AbletonBuddy/pkg/llm"
)

// LLM implements Interpreter and Executor over a chat-completions
// provider. Each stage is a focused one-shot prompt; task execution is
// an agentic tool loop bounded by maxToolRounds.
type LLM struct {
	provider      llm.Provider
	window        *Window
	maxToolRounds int
	logger        *slog.Logger
}

func NewLLM(provider llm.Provider, window *Window, maxToolRounds int, logger *slog.Logger) *LLM {
	return &LLM{
		provider:      provider,
		window:        window,
		maxToolRounds: maxToolRounds,
		logger:        logger,
	}
}

var _ Interpreter = (*LLM)(nil)
var _ Executor = (*LLM)(nil)

func (l *LLM) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := l.provider.Complete(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("LLM call: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

func (l *LLM) Disambiguate(ctx context.Context, input string) (string, error) {
	return l.complete(ctx, disambiguateSystem, input)
}

func (l *LLM) Classify(ctx context.Context, input string) ([]catalog.Category, error) {
	content, err := l.complete(ctx, classifySystem, input)
	if err != nil {
		return nil, err
	}

	// Exact-match label tokens; compound labels like CLIP_SLOT and
	// DEVICE_LOADER contain other labels as substrings. Keep canonical
	// order, dedupe.
	seen := make(map[catalog.Category]bool)
	for _, tok := range strings.FieldsFunc(strings.ToUpper(content), func(r rune) bool {
		return (r < 'A' || r > 'Z') && r != '_'
	}) {
		if cat, err := catalog.Parse(tok); err == nil {
			seen[cat] = true
		}
	}
	var cats []catalog.Category
	for _, cat := range catalog.Categories() {
		if seen[cat] {
			cats = append(cats, cat)
		}
	}
	if len(cats) == 0 {
		l.logger.Warn("classification returned no known category", "response", content)
		cats = []catalog.Category{catalog.Song}
	}
	return cats, nil
}

func (l *LLM) Extract(ctx context.Context, input string, categories []catalog.Category) (map[catalog.Category][]string, error) {
	out := make(map[catalog.Category][]string, len(categories))
	for _, cat := range categories {
		system := fmt.Sprintf(extractSystem, cat, cat.Describe())
		content, err := l.complete(ctx, system, input)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", cat, err)
		}
		out[cat] = parseSpans(content)
	}
	return out, nil
}

// parseSpans reads a JSON string array, falling back to one span per
// non-empty line with list markers stripped.
func parseSpans(content string) []string {
	var spans []string
	if err := json.Unmarshal([]byte(content), &spans); err == nil {
		return nonEmpty(spans)
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		line = strings.Trim(line, `"`)
		if line != "" && line != "[]" {
			spans = append(spans, line)
		}
	}
	return spans
}

func nonEmpty(spans []string) []string {
	out := spans[:0]
	for _, s := range spans {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (l *LLM) Summarize(ctx context.Context, history []*types.Message) (string, error) {
	clamped := l.window.Clamp(history)
	var b strings.Builder
	for _, m := range clamped {
		fmt.Fprintf(&b, "[%s] %s\n", m.Role, m.Content)
	}
	return l.complete(ctx, summarizeSystem, b.String())
}

func (l *LLM) Title(ctx context.Context, firstMessage string) (string, error) {
	title, err := l.complete(ctx, titleSystem, firstMessage)
	if err != nil {
		return "", err
	}
	return strings.Trim(title, `"`), nil
}

// ExecuteTask drives the agentic tool loop for one bound task.
func (l *LLM) ExecuteTask(ctx context.Context, request, instructions string, tools []catalog.Tool) (string, bool, error) {
	messages := []llm.Message{
		{Role: "system", Content: instructions},
		{Role: "user", Content: request},
	}
	llmTools := asLLMTools(tools)

	for round := 0; round < l.maxToolRounds; round++ {
		resp, err := l.provider.Complete(ctx, messages, llmTools)
		if err != nil {
			return "", false, fmt.Errorf("LLM call: %w", err)
		}

		if len(resp.ToolCalls) > 0 {
			messages = append(messages, llm.Message{Role: "assistant", Tools: resp.ToolCalls})
			for _, tc := range resp.ToolCalls {
				result := l.executeToolCall(ctx, tc, tools)
				messages = append(messages, llm.Message{
					Role:    "tool",
					Content: result,
					Tools:   []llm.ToolCall{{ID: tc.ID}},
				})
			}
			continue
		}

		if resp.Content != "" {
			return strings.TrimSpace(resp.Content), false, nil
		}
		// no content and no tool calls: nothing actionable
		return "The request did not map to any operation.", true, nil
	}

	return "", false, fmt.Errorf("max tool rounds (%d) exceeded", l.maxToolRounds)
}

func (l *LLM) executeToolCall(ctx context.Context, tc llm.ToolCall, tools []catalog.Tool) string {
	tool := findTool(tools, tc.Function.Name)
	if tool == nil {
		return fmt.Sprintf("error: unknown tool %q", tc.Function.Name)
	}
	result, err := tool.Execute(ctx, tc.Function.Arguments)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	l.logger.Debug("tool executed", "tool", tc.Function.Name, "result", result)
	return result
}

func asLLMTools(tools []catalog.Tool) []llm.Tool {
	out := make([]llm.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, llm.Tool{
			Type: "function",
			Function: llm.Function{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return out
}
