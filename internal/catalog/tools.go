package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Transport is the call-like interface over the wire; satisfied by
// *osc.Transport and by test fakes.
type Transport interface {
	SendAndWait(address string, args []any, timeout time.Duration) (any, error)
}

// Tool is an executable operation exposed to a work item's tool set.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// queryTool reads one property per call from a fixed operation→address map.
type queryTool struct {
	name      string
	desc      string
	label     string
	addresses map[string]string
	indexArgs []string
	tr        Transport
	timeout   time.Duration
}

func (t *queryTool) Name() string        { return t.name }
func (t *queryTool) Description() string { return t.desc }

func (t *queryTool) Parameters() json.RawMessage {
	props := map[string]any{
		"query_type": map[string]any{
			"type":        "string",
			"description": "One of: " + strings.Join(operationNames(t.addresses), ", "),
		},
		"params": map[string]any{
			"type":        "string",
			"description": "Optional comma-separated params for the query",
		},
	}
	required := []string{"query_type"}
	for _, idx := range t.indexArgs {
		props[idx] = map[string]any{"type": "integer", "description": idx + " (0-based)"}
		required = append(required, idx)
	}
	schema, _ := json.Marshal(map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	})
	return schema
}

func (t *queryTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("parse args: %w", err)
	}
	queryType := strings.ToLower(stringArg(args, "query_type"))

	address, ok := t.addresses[queryType]
	if !ok {
		return fmt.Sprintf("Unknown query type: %s. Available: %s",
			queryType, strings.Join(operationNames(t.addresses), ", ")), nil
	}

	wire, err := t.wireArgs(args, "")
	if err != nil {
		return err.Error(), nil
	}

	result, err := t.tr.SendAndWait(address, wire, t.timeout)
	if err != nil {
		return fmt.Sprintf("Error sending OSC message: %v", err), nil
	}
	if result == nil {
		return fmt.Sprintf("No response for query: %s", queryType), nil
	}
	return fmt.Sprintf("%s %s: %v", t.label, queryType, result), nil
}

// wireArgs assembles index args, an optional leading value, then params.
func (t *queryTool) wireArgs(args map[string]any, value string) ([]any, error) {
	var wire []any
	for _, idx := range t.indexArgs {
		n, ok := intArg(args, idx)
		if !ok {
			return nil, fmt.Errorf("%s is required and must be an integer", idx)
		}
		wire = append(wire, n)
	}
	if value != "" {
		wire = append(wire, coerceScalar(value))
	}
	if params := stringArg(args, "params"); params != "" {
		for _, p := range strings.Split(params, ",") {
			wire = append(wire, coerceScalar(strings.TrimSpace(p)))
		}
	}
	return wire, nil
}

// controlTool issues one command per call from a fixed operation→address map.
type controlTool struct {
	name      string
	desc      string
	label     string
	addresses map[string]string
	indexArgs []string
	tr        Transport
	timeout   time.Duration
}

func (t *controlTool) Name() string        { return t.name }
func (t *controlTool) Description() string { return t.desc }

func (t *controlTool) Parameters() json.RawMessage {
	props := map[string]any{
		"command_type": map[string]any{
			"type":        "string",
			"description": "One of: " + strings.Join(operationNames(t.addresses), ", "),
		},
		"value": map[string]any{
			"type":        "string",
			"description": "Value for the command (e.g. tempo)",
		},
		"additional_params": map[string]any{
			"type":        "string",
			"description": "Additional comma-separated params if needed",
		},
	}
	required := []string{"command_type"}
	for _, idx := range t.indexArgs {
		props[idx] = map[string]any{"type": "integer", "description": idx + " (0-based)"}
		required = append(required, idx)
	}
	schema, _ := json.Marshal(map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	})
	return schema
}

func (t *controlTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("parse args: %w", err)
	}
	commandType := strings.ToLower(stringArg(args, "command_type"))

	address, ok := t.addresses[commandType]
	if !ok {
		return fmt.Sprintf("Unknown command type: %s. Available: %s",
			commandType, strings.Join(operationNames(t.addresses), ", ")), nil
	}

	var wire []any
	for _, idx := range t.indexArgs {
		n, ok := intArg(args, idx)
		if !ok {
			return fmt.Sprintf("%s is required and must be an integer", idx), nil
		}
		wire = append(wire, n)
	}
	value := stringArg(args, "value")
	if value != "" {
		wire = append(wire, coerceScalar(value))
	}
	if params := stringArg(args, "additional_params"); params != "" {
		for _, p := range strings.Split(params, ",") {
			wire = append(wire, coerceScalar(strings.TrimSpace(p)))
		}
	}

	result, err := t.tr.SendAndWait(address, wire, t.timeout)
	if err != nil {
		return fmt.Sprintf("Error sending OSC message: %v", err), nil
	}
	if result == nil || result == "OK" {
		s := fmt.Sprintf("Command executed: %s", commandType)
		if value != "" {
			s += fmt.Sprintf(" with value %s", value)
		}
		return s, nil
	}
	return fmt.Sprintf("Command %s result: %v", commandType, result), nil
}

// connectionTool probes /live/test to verify the session is reachable.
type connectionTool struct {
	tr      Transport
	timeout time.Duration
}

func (t *connectionTool) Name() string { return "test_connection" }
func (t *connectionTool) Description() string {
	return "Test the AbletonOSC connection by calling /live/test"
}
func (t *connectionTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *connectionTool) Execute(ctx context.Context, _ json.RawMessage) (string, error) {
	result, err := t.tr.SendAndWait("/live/test", nil, t.timeout)
	if err != nil {
		return fmt.Sprintf("Error sending OSC message: %v", err), nil
	}
	if result == nil {
		return "No response from Ableton Live. Ensure Live is running and AbletonOSC is enabled in Preferences > Link/Tempo/MIDI.", nil
	}
	return fmt.Sprintf("Connected to Ableton Live: %v", result), nil
}

func operationNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

// coerceScalar turns a textual argument into the most specific wire scalar.
func coerceScalar(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
