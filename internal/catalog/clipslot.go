package catalog

import "time"

var clipSlotQueries = map[string]string{
	"has_clip":        "/live/clip_slot/get/has_clip",
	"has_stop_button": "/live/clip_slot/get/has_stop_button",
}

var clipSlotCommands = map[string]string{
	"create_clip":         "/live/clip_slot/create_clip",
	"delete_clip":         "/live/clip_slot/delete_clip",
	"duplicate_clip_to":   "/live/clip_slot/duplicate_clip_to",
	"fire":                "/live/clip_slot/fire",
	"set_has_stop_button": "/live/clip_slot/set/has_stop_button",
}

func clipSlotTools(tr Transport, timeout time.Duration) []Tool {
	return []Tool{
		&queryTool{
			name:      "query_clip_slot",
			desc:      "Query Clip Slot API state for one slot: whether it holds a clip, stop button state.",
			label:     "Clip slot",
			addresses: clipSlotQueries,
			indexArgs: []string{"track_id", "scene_id"},
			tr:        tr,
			timeout:   timeout,
		},
		&controlTool{
			name:      "control_clip_slot",
			desc:      "Execute Clip Slot API commands for one slot: create/delete/duplicate a clip, fire the slot.",
			label:     "Clip slot",
			addresses: clipSlotCommands,
			indexArgs: []string{"track_id", "scene_id"},
			tr:        tr,
			timeout:   timeout,
		},
	}
}
