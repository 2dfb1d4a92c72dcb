package catalog

import "time"

var songQueries = map[string]string{
	// Core session properties
	"tempo":             "/live/song/get/tempo",
	"is_playing":        "/live/song/get/is_playing",
	"current_song_time": "/live/song/get/current_song_time",
	"song_length":       "/live/song/get/song_length",
	// Track and scene info
	"track_names": "/live/song/get/track_names",
	"num_tracks":  "/live/song/get/num_tracks",
	"num_scenes":  "/live/song/get/num_scenes",
	// Time signature
	"signature_numerator":   "/live/song/get/signature_numerator",
	"signature_denominator": "/live/song/get/signature_denominator",
	// Loop and groove
	"loop":          "/live/song/get/loop",
	"loop_start":    "/live/song/get/loop_start",
	"loop_length":   "/live/song/get/loop_length",
	"groove_amount": "/live/song/get/groove_amount",
	// Recording and overdub
	"session_record":        "/live/song/get/session_record",
	"session_record_status": "/live/song/get/session_record_status",
	"arrangement_overdub":   "/live/song/get/arrangement_overdub",
	"record_mode":           "/live/song/get/record_mode",
	// Metronome and quantization
	"metronome":                   "/live/song/get/metronome",
	"clip_trigger_quantization":   "/live/song/get/clip_trigger_quantization",
	"midi_recording_quantization": "/live/song/get/midi_recording_quantization",
	// History and navigation
	"can_undo":         "/live/song/get/can_undo",
	"can_redo":         "/live/song/get/can_redo",
	"back_to_arranger": "/live/song/get/back_to_arranger",
	// Punch and nudge
	"punch_in":   "/live/song/get/punch_in",
	"punch_out":  "/live/song/get/punch_out",
	"nudge_down": "/live/song/get/nudge_down",
	"nudge_up":   "/live/song/get/nudge_up",
}

var songCommands = map[string]string{
	// Playback control
	"start_playing":    "/live/song/start_playing",
	"stop_playing":     "/live/song/stop_playing",
	"continue_playing": "/live/song/continue_playing",
	"stop_all_clips":   "/live/song/stop_all_clips",
	// Tempo and time
	"set_tempo":             "/live/song/set/tempo",
	"set_current_song_time": "/live/song/set/current_song_time",
	"tap_tempo":             "/live/song/tap_tempo",
	// Time signature
	"set_signature_numerator":   "/live/song/set/signature_numerator",
	"set_signature_denominator": "/live/song/set/signature_denominator",
	// Recording and overdub
	"trigger_session_record":  "/live/song/trigger_session_record",
	"set_session_record":      "/live/song/set/session_record",
	"set_arrangement_overdub": "/live/song/set/arrangement_overdub",
	"set_record_mode":         "/live/song/set/record_mode",
	"capture_midi":            "/live/song/capture_midi",
	// Metronome and loop
	"set_metronome":   "/live/song/set/metronome",
	"set_loop":        "/live/song/set/loop",
	"set_loop_start":  "/live/song/set/loop_start",
	"set_loop_length": "/live/song/set/loop_length",
	// Groove and quantization
	"set_groove_amount":               "/live/song/set/groove_amount",
	"set_clip_trigger_quantization":   "/live/song/set/clip_trigger_quantization",
	"set_midi_recording_quantization": "/live/song/set/midi_recording_quantization",
	// Navigation and history
	"undo":                 "/live/song/undo",
	"redo":                 "/live/song/redo",
	"set_back_to_arranger": "/live/song/set/back_to_arranger",
	"jump_by":              "/live/song/jump_by",
	"jump_to_next_cue":     "/live/song/jump_to_next_cue",
	"jump_to_prev_cue":     "/live/song/jump_to_prev_cue",
	// Punch and nudge
	"set_punch_in":   "/live/song/set/punch_in",
	"set_punch_out":  "/live/song/set/punch_out",
	"set_nudge_down": "/live/song/set/nudge_down",
	"set_nudge_up":   "/live/song/set/nudge_up",
	// Track and scene management
	"create_midi_track":   "/live/song/create_midi_track",
	"create_audio_track":  "/live/song/create_audio_track",
	"create_return_track": "/live/song/create_return_track",
	"create_scene":        "/live/song/create_scene",
	"delete_track":        "/live/song/delete_track",
	"delete_return_track": "/live/song/delete_return_track",
	"delete_scene":        "/live/song/delete_scene",
	"duplicate_track":     "/live/song/duplicate_track",
	"duplicate_scene":     "/live/song/duplicate_scene",
}

func songTools(tr Transport, timeout time.Duration) []Tool {
	return []Tool{
		&queryTool{
			name:      "query_ableton",
			desc:      "Query Song API information from Ableton Live: tempo, playback state, track names, loop, recording, quantization.",
			label:     "Song",
			addresses: songQueries,
			tr:        tr,
			timeout:   timeout,
		},
		&controlTool{
			name:      "control_ableton",
			desc:      "Execute Song API commands: transport, tempo, recording, loop, navigation and global track/scene management.",
			label:     "Song",
			addresses: songCommands,
			tr:        tr,
			timeout:   timeout,
		},
		&connectionTool{tr: tr, timeout: timeout},
	}
}
