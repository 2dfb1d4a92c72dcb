package agents

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/rp-bot/AbletonBuddy/internal/types"
)

// Window clamps transcript history to a model's context budget.
type Window struct {
	tokenizer *tiktoken.Tiktoken
	maxTokens int
	reserve   int
}

// NewWindow creates a window for the given model. maxTokens is the
// model's context size, reserve the tokens kept free for the response.
func NewWindow(model string, maxTokens, reserve int) (*Window, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Fallback to cl100k_base for unknown models
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Window{
		tokenizer: enc,
		maxTokens: maxTokens,
		reserve:   reserve,
	}, nil
}

func (w *Window) countTokens(text string) int {
	return len(w.tokenizer.Encode(text, nil, nil))
}

// Clamp returns the newest suffix of history that fits the input
// budget, preserving chronological order.
func (w *Window) Clamp(history []*types.Message) []*types.Message {
	budget := w.maxTokens - w.reserve
	used := 0
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		n := w.countTokens(history[i].Content)
		if used+n > budget {
			break
		}
		used += n
		start = i
	}
	return history[start:]
}
