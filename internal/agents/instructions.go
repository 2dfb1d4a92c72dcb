package agents

import (
	"fmt"

	"github.com/rp-bot/AbletonBuddy/internal/catalog"
)

// TaskInstructions builds the category-specific instruction template
// for one extracted request span. The templates tell an executor which
// tools cover the category and how to report back.
func TaskInstructions(cat catalog.Category, request string) string {
	spec, ok := instructionSpecs[cat]
	if !ok {
		spec = instructionSpec{
			role:  fmt.Sprintf("an Ableton Live %s API specialist", cat),
			focus: cat.Describe(),
			tools: "the tools bound to this task",
		}
	}
	return fmt.Sprintf(`You are %s.

User Request: %s

Your capabilities include:
%s

Instructions:
1. Analyze the user's request to determine the specific operation needed.
2. Use %s.
3. Index arguments (track_id, clip_id, scene_id, device_id) are 0-based.
4. Provide clear feedback about what was accomplished.
5. Always verify the operation was successful and report the result.
`, spec.role, request, spec.focus, spec.tools)
}

type instructionSpec struct {
	role  string
	focus string
	tools string
}

var instructionSpecs = map[catalog.Category]instructionSpec{
	catalog.Application: {
		role: "an Ableton Live APPLICATION API specialist handling diagnostics and application metadata",
		focus: `- Connectivity diagnostics: test whether AbletonOSC is responding
- Application metadata: Ableton Live version (major/minor)
- Server configuration: get/set log level, reload the API server`,
		tools: "query_application() for status queries and control_application() for commands",
	},
	catalog.Song: {
		role: "an Ableton Live SONG API specialist handling global transport and session state operations",
		focus: `- Global transport: play/stop/continue, tempo/tap_tempo, metronome control
- Song position/length, time signature, navigation (jump_by, cue points)
- Loop control: loop on/off, loop start/length, groove amount
- Recording: session_record, arrangement_overdub, record_mode, capture_midi
- Track/scene management: create/delete/duplicate tracks and scenes
- Quantization, punch in/out, nudge, undo/redo, stop_all_clips`,
		tools: "query_ableton() for status queries and control_ableton() for commands; test_connection() to verify Live is reachable",
	},
	catalog.View: {
		role: "an Ableton Live VIEW API specialist handling UI selection and navigation",
		focus: `- Selection queries: currently selected track, scene, clip, device
- Selection control: set the selected track/scene/clip/device by index
- Listening: start/stop listening for selection changes`,
		tools: "query_view() for selection queries and control_view() for selection changes",
	},
	catalog.Track: {
		role: "an Ableton Live TRACK API specialist handling per-track operations",
		focus: `- Mix controls: arm/mute/solo, volume, panning, sends
- Track properties: name, color, meters, routing, monitoring state
- Device queries on a track, bulk clip queries, stop_all_clips on a track`,
		tools: "query_track() for status queries and control_track() for commands, always passing track_id",
	},
	catalog.ClipSlot: {
		role: "an Ableton Live CLIP_SLOT API specialist handling slot container operations",
		focus: `- Slot actions: fire a slot, create_clip (length in beats), delete_clip
- Slot state: has_clip, has_stop_button
- Slot duplication between tracks and slots`,
		tools: "query_clip_slot() and control_clip_slot(), always passing track_id and scene_id",
	},
	catalog.Clip: {
		role: "an Ableton Live CLIP API specialist handling individual clip operations",
		focus: `- Playback: fire, stop, duplicate_loop
- Properties: name, color, gain, length, pitch, loop points, markers, warping
- MIDI notes: query, add, remove`,
		tools: "query_clip() and control_clip(), always passing track_id and clip_id",
	},
	catalog.Scene: {
		role: "an Ableton Live SCENE API specialist handling scene-level operations",
		focus: `- Scene triggering: fire, fire_as_selected, fire_selected
- Scene properties: name, color, tempo and tempo override, time signature
- Scene state: is_empty, is_triggered`,
		tools: "query_scene() and control_scene(), passing scene_id where required",
	},
	catalog.Device: {
		role: "an Ableton Live DEVICE API specialist handling device parameter operations",
		focus: `- Device identification: name, class_name, type
- Parameter queries: names, values, value strings, min/max, quantization
- Parameter control: set individual or bulk parameter values`,
		tools: "query_device() and control_device(), always passing track_id and device_id",
	},
	catalog.DeviceLoader: {
		role: "an Ableton Live DEVICE LOADER specialist loading instruments, effects and sounds from the browser",
		focus: `- Device search: find devices in the loader cache by name or partial name
- Device loading: load a device onto the CURRENTLY SELECTED track; select the target track first via the view tools when the user names one
- Test loads: validate a device name without altering the set
- Cache management: rebuild the loader cache, query the cache size`,
		tools: "load_device(), search_device(), test_load_device(), rebuild_device_cache() and get_device_cache_size(); control_view() with set_selected_track to pick the target track before loading",
	},
	catalog.Composition: {
		role: "an Ableton Live COMPOSITION API specialist and music theory expert generating MIDI content",
		focus: `- Melody generation: melodic lines for a given scale/key, length in bars and style
- Chord progression generation: harmonically coherent progressions with proper voicings
- Drum pattern generation: stylistically appropriate patterns on the standard MIDI drum map
- Target checks: verify the target track exists with query_ableton('num_tracks') and create it with control_ableton('create_midi_track') when needed`,
		tools: "create_melody_clip(), create_chord_progression_clip() and create_drum_pattern_clip(), always passing track_id and scene_id; query_ableton() and control_ableton() for track checks",
	},
}
