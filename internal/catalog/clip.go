package catalog

import "time"

var clipQueries = map[string]string{
	"name":             "/live/clip/get/name",
	"color":            "/live/clip/get/color",
	"gain":             "/live/clip/get/gain",
	"length":           "/live/clip/get/length",
	"file_path":        "/live/clip/get/file_path",
	"is_audio_clip":    "/live/clip/get/is_audio_clip",
	"is_midi_clip":     "/live/clip/get/is_midi_clip",
	"is_playing":       "/live/clip/get/is_playing",
	"is_recording":     "/live/clip/get/is_recording",
	"playing_position": "/live/clip/get/playing_position",
	"loop_start":       "/live/clip/get/loop_start",
	"loop_end":         "/live/clip/get/loop_end",
	"start_marker":     "/live/clip/get/start_marker",
	"end_marker":       "/live/clip/get/end_marker",
	"warping":          "/live/clip/get/warping",
	"pitch_coarse":     "/live/clip/get/pitch_coarse",
	"pitch_fine":       "/live/clip/get/pitch_fine",
	"notes":            "/live/clip/get/notes",
}

var clipCommands = map[string]string{
	"fire":             "/live/clip/fire",
	"stop":             "/live/clip/stop",
	"duplicate_loop":   "/live/clip/duplicate_loop",
	"add_notes":        "/live/clip/add/notes",
	"remove_notes":     "/live/clip/remove/notes",
	"set_name":         "/live/clip/set/name",
	"set_color":        "/live/clip/set/color",
	"set_gain":         "/live/clip/set/gain",
	"set_loop_start":   "/live/clip/set/loop_start",
	"set_loop_end":     "/live/clip/set/loop_end",
	"set_start_marker": "/live/clip/set/start_marker",
	"set_end_marker":   "/live/clip/set/end_marker",
	"set_warping":      "/live/clip/set/warping",
	"set_pitch_coarse": "/live/clip/set/pitch_coarse",
	"set_pitch_fine":   "/live/clip/set/pitch_fine",
}

func clipTools(tr Transport, timeout time.Duration) []Tool {
	return []Tool{
		&queryTool{
			name:      "query_clip",
			desc:      "Query Clip API properties for one clip: name, length, loop points, playback state, notes.",
			label:     "Clip",
			addresses: clipQueries,
			indexArgs: []string{"track_id", "clip_id"},
			tr:        tr,
			timeout:   timeout,
		},
		&controlTool{
			name:      "control_clip",
			desc:      "Execute Clip API commands for one clip: fire/stop, looping, markers, notes, naming.",
			label:     "Clip",
			addresses: clipCommands,
			indexArgs: []string{"track_id", "clip_id"},
			tr:        tr,
			timeout:   timeout,
		},
	}
}
