package catalog

import "time"

var trackQueries = map[string]string{
	// Basic properties
	"arm":         "/live/track/get/arm",
	"name":        "/live/track/get/name",
	"color":       "/live/track/get/color",
	"color_index": "/live/track/get/color_index",
	"mute":        "/live/track/get/mute",
	"solo":        "/live/track/get/solo",
	"volume":      "/live/track/get/volume",
	"panning":     "/live/track/get/panning",
	"send":        "/live/track/get/send",
	// Routing
	"available_input_routing_channels":  "/live/track/get/available_input_routing_channels",
	"available_input_routing_types":     "/live/track/get/available_input_routing_types",
	"available_output_routing_channels": "/live/track/get/available_output_routing_channels",
	"available_output_routing_types":    "/live/track/get/available_output_routing_types",
	"input_routing_channel":             "/live/track/get/input_routing_channel",
	"input_routing_type":                "/live/track/get/input_routing_type",
	"output_routing_channel":            "/live/track/get/output_routing_channel",
	"output_routing_type":               "/live/track/get/output_routing_type",
	// State and capabilities
	"can_be_armed":             "/live/track/get/can_be_armed",
	"current_monitoring_state": "/live/track/get/current_monitoring_state",
	"fired_slot_index":         "/live/track/get/fired_slot_index",
	"playing_slot_index":       "/live/track/get/playing_slot_index",
	"fold_state":               "/live/track/get/fold_state",
	"is_foldable":              "/live/track/get/is_foldable",
	"is_grouped":               "/live/track/get/is_grouped",
	"is_visible":               "/live/track/get/is_visible",
	// Audio/MIDI capabilities
	"has_audio_input":  "/live/track/get/has_audio_input",
	"has_audio_output": "/live/track/get/has_audio_output",
	"has_midi_input":   "/live/track/get/has_midi_input",
	"has_midi_output":  "/live/track/get/has_midi_output",
	// Meters
	"output_meter_left":  "/live/track/get/output_meter_left",
	"output_meter_right": "/live/track/get/output_meter_right",
	"output_meter_level": "/live/track/get/output_meter_level",
	// Devices and clips
	"num_devices":        "/live/track/get/num_devices",
	"devices_name":       "/live/track/get/devices/name",
	"devices_type":       "/live/track/get/devices/type",
	"devices_class_name": "/live/track/get/devices/class_name",
	"clips_name":         "/live/track/get/clips/name",
	"clips_length":       "/live/track/get/clips/length",
	"clips_color":        "/live/track/get/clips/color",
	"arrangement_clips_name":       "/live/track/get/arrangement_clips/name",
	"arrangement_clips_length":     "/live/track/get/arrangement_clips/length",
	"arrangement_clips_start_time": "/live/track/get/arrangement_clips/start_time",
}

var trackCommands = map[string]string{
	"set_arm":                      "/live/track/set/arm",
	"set_mute":                     "/live/track/set/mute",
	"set_solo":                     "/live/track/set/solo",
	"set_volume":                   "/live/track/set/volume",
	"set_panning":                  "/live/track/set/panning",
	"set_send":                     "/live/track/set/send",
	"set_name":                     "/live/track/set/name",
	"set_color":                    "/live/track/set/color",
	"set_color_index":              "/live/track/set/color_index",
	"set_current_monitoring_state": "/live/track/set/current_monitoring_state",
	"set_fold_state":               "/live/track/set/fold_state",
	"set_input_routing_channel":    "/live/track/set/input_routing_channel",
	"set_input_routing_type":       "/live/track/set/input_routing_type",
	"set_output_routing_channel":   "/live/track/set/output_routing_channel",
	"set_output_routing_type":      "/live/track/set/output_routing_type",
	"stop_all_clips":               "/live/track/stop_all_clips",
}

func trackTools(tr Transport, timeout time.Duration) []Tool {
	return []Tool{
		&queryTool{
			name:      "query_track",
			desc:      "Query Track API properties for one track: arm, name, volume, mute, solo, panning, sends, routing, meters, devices, clips.",
			label:     "Track",
			addresses: trackQueries,
			indexArgs: []string{"track_id"},
			tr:        tr,
			timeout:   timeout,
		},
		&controlTool{
			name:      "control_track",
			desc:      "Execute Track API commands for one track: arm/mute/solo, volume, panning, sends, naming, routing, stop clips.",
			label:     "Track",
			addresses: trackCommands,
			indexArgs: []string{"track_id"},
			tr:        tr,
			timeout:   timeout,
		},
	}
}
