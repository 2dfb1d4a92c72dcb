package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rp-bot/AbletonBuddy/pkg/llm"
)

func TestClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("missing or invalid auth header")
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
		}
		if req["model"] != "gpt-4o-mini" {
			t.Errorf("unexpected model: %v", req["model"])
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{
					"message": map[string]any{
						"role":    "assistant",
						"content": "set tempo to 120",
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(&llm.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
	})

	resp, err := client.Complete(context.Background(), []llm.Message{
		{Role: "user", Content: "hello"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "set tempo to 120" {
		t.Errorf("unexpected content: %s", resp.Content)
	}
}

func TestClientToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{
					"message": map[string]any{
						"role": "assistant",
						"tool_calls": []map[string]any{
							{
								"id":   "call_1",
								"type": "function",
								"function": map[string]any{
									"name":      "control_ableton",
									"arguments": `{"command_type":"set_tempo","value":"120"}`,
								},
							},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(&llm.Config{BaseURL: server.URL, APIKey: "k", Model: "m"})

	resp, err := client.Complete(context.Background(), []llm.Message{
		{Role: "user", Content: "set tempo to 120"},
	}, []llm.Tool{{Type: "function", Function: llm.Function{Name: "control_ableton"}}})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	if resp.ToolCalls[0].Function.Name != "control_ableton" {
		t.Errorf("unexpected tool name: %s", resp.ToolCalls[0].Function.Name)
	}

	statusErr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer statusErr.Close()

	bad := New(&llm.Config{BaseURL: statusErr.URL, APIKey: "k", Model: "m"})
	if _, err := bad.Complete(context.Background(), nil, nil); err == nil {
		t.Error("expected error for non-200 response")
	}
}
