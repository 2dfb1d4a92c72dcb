package catalog

import "time"

var viewQueries = map[string]string{
	"selected_scene":  "/live/view/get/selected_scene",
	"selected_track":  "/live/view/get/selected_track",
	"selected_clip":   "/live/view/get/selected_clip",
	"selected_device": "/live/view/get/selected_device",
}

var viewCommands = map[string]string{
	"set_selected_scene":          "/live/view/set/selected_scene",
	"set_selected_track":          "/live/view/set/selected_track",
	"set_selected_clip":           "/live/view/set/selected_clip",
	"set_selected_device":         "/live/view/set/selected_device",
	"start_listen_selected_scene": "/live/view/start_listen/selected_scene",
	"stop_listen_selected_scene":  "/live/view/stop_listen/selected_scene",
	"start_listen_selected_track": "/live/view/start_listen/selected_track",
	"stop_listen_selected_track":  "/live/view/stop_listen/selected_track",
}

func viewTools(tr Transport, timeout time.Duration) []Tool {
	return []Tool{
		&queryTool{
			name:      "query_view",
			desc:      "Query View API selection state: selected scene, track, clip or device.",
			label:     "View",
			addresses: viewQueries,
			tr:        tr,
			timeout:   timeout,
		},
		&controlTool{
			name:      "control_view",
			desc:      "Execute View API commands: change the selection or listen to selection changes.",
			label:     "View",
			addresses: viewCommands,
			tr:        tr,
			timeout:   timeout,
		},
	}
}
