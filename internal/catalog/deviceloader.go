package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// deviceLoaderTool issues one Device Loader API request. Loads always
// land on the currently selected track, so the set carries the View
// tools alongside for changing the selection.
type deviceLoaderTool struct {
	name     string
	desc     string
	address  string
	wantName bool
	tr       Transport
	timeout  time.Duration
}

func (t *deviceLoaderTool) Name() string        { return t.name }
func (t *deviceLoaderTool) Description() string { return t.desc }

func (t *deviceLoaderTool) Parameters() json.RawMessage {
	if !t.wantName {
		return json.RawMessage(`{"type": "object", "properties": {}}`)
	}
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"device_name": map[string]any{
				"type":        "string",
				"description": "Device name, or partial name for searches",
			},
		},
	}
	if t.name != "test_load_device" {
		schema["required"] = []string{"device_name"}
	}
	raw, _ := json.Marshal(schema)
	return raw
}

func (t *deviceLoaderTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var wire []any
	if t.wantName {
		var args map[string]any
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", fmt.Errorf("parse args: %w", err)
		}
		if name := stringArg(args, "device_name"); name != "" {
			wire = append(wire, name)
		} else if t.name != "test_load_device" {
			return "device_name is required", nil
		}
	}

	result, err := t.tr.SendAndWait(t.address, wire, t.timeout)
	if err != nil {
		return fmt.Sprintf("Error sending OSC message: %v", err), nil
	}
	if result == nil {
		return fmt.Sprintf("No response from %s", t.address), nil
	}
	op := t.address[strings.LastIndex(t.address, "/")+1:]
	return fmt.Sprintf("%s: %v", op, result), nil
}

func deviceLoaderTools(tr Transport, timeout time.Duration) []Tool {
	loader := []Tool{
		&deviceLoaderTool{
			name:     "load_device",
			desc:     "Load a device from Ableton's browser onto the currently selected track.",
			address:  "/live/device_loader/load",
			wantName: true,
			tr:       tr,
			timeout:  timeout,
		},
		&deviceLoaderTool{
			name:     "search_device",
			desc:     "Search the Device Loader cache for a device by name or partial name.",
			address:  "/live/device_loader/search",
			wantName: true,
			tr:       tr,
			timeout:  timeout,
		},
		&deviceLoaderTool{
			name:    "rebuild_device_cache",
			desc:    "Rebuild the Device Loader cache by rescanning Ableton's browser.",
			address: "/live/device_loader/rebuild_cache",
			tr:      tr,
			timeout: timeout,
		},
		&deviceLoaderTool{
			name:    "get_device_cache_size",
			desc:    "Get the number of devices currently cached by the Device Loader.",
			address: "/live/device_loader/get_cache_size",
			tr:      tr,
			timeout: timeout,
		},
		&deviceLoaderTool{
			name:     "test_load_device",
			desc:     "Perform a test load without altering the Live set. Device name optional.",
			address:  "/live/device_loader/test_load",
			wantName: true,
			tr:       tr,
			timeout:  timeout,
		},
	}
	return append(loader, viewTools(tr, timeout)...)
}
