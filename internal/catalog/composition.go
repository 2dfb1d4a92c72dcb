package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// midiNote is one note event written into a clip: pitch is a MIDI note
// number, start and duration are in beats.
type midiNote struct {
	pitch    int
	start    float64
	duration float64
	velocity int
}

// noteNumbers maps note names onto MIDI numbers around middle C (C4 = 60).
var noteNumbers = map[string]int{
	"c": 60, "c#": 61, "db": 61, "d": 62, "d#": 63, "eb": 63,
	"e": 64, "f": 65, "f#": 66, "gb": 66, "g": 67, "g#": 68,
	"ab": 68, "a": 69, "a#": 70, "bb": 70, "b": 71,
}

// parseScaleKey splits "C major" / "a minor" into a root MIDI note and a
// mode. Missing or unknown parts default to C major.
func parseScaleKey(scaleKey string) (int, string) {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(scaleKey)))
	root := "c"
	mode := "major"
	if len(parts) > 0 {
		root = parts[0]
	}
	if len(parts) > 1 && parts[1] == "minor" {
		mode = "minor"
	}
	n, ok := noteNumbers[root]
	if !ok {
		n = 60
	}
	return n, mode
}

func scaleNotes(root int, mode string) []int {
	intervals := []int{0, 2, 4, 5, 7, 9, 11}
	if mode == "minor" {
		intervals = []int{0, 2, 3, 5, 7, 8, 10}
	}
	notes := make([]int, len(intervals))
	for i, iv := range intervals {
		notes[i] = root + iv
	}
	return notes
}

// chordProgression is I-IV-V-vi in major, i-iv-v-VI in minor, repeated to
// fill lengthBars. One triad per bar.
func chordProgression(root int, mode string, lengthBars int) [][]int {
	s := scaleNotes(root, mode)
	chords := [][]int{
		{s[0], s[2], s[4]},
		{s[3], s[5], s[0]},
		{s[4], s[6], s[1]},
		{s[5], s[0], s[2]},
	}
	out := make([][]int, lengthBars)
	for i := range out {
		out[i] = chords[i%len(chords)]
	}
	return out
}

// melodyNotes walks the scale in eighth notes.
func melodyNotes(scaleKey string, lengthBars, beatsPerBar int) []midiNote {
	root, mode := parseScaleKey(scaleKey)
	scale := scaleNotes(root, mode)
	var notes []midiNote
	beat := 0.0
	for i := 0; i < lengthBars*beatsPerBar; i++ {
		notes = append(notes, midiNote{
			pitch:    scale[i%len(scale)],
			start:    beat,
			duration: 0.5,
			velocity: 80,
		})
		beat += 0.5
	}
	return notes
}

// chordNotes stacks one triad per bar, held for the whole bar.
func chordNotes(scaleKey string, lengthBars, beatsPerBar int) []midiNote {
	root, mode := parseScaleKey(scaleKey)
	var notes []midiNote
	for i, chord := range chordProgression(root, mode, lengthBars) {
		start := float64(i * beatsPerBar)
		for _, pitch := range chord {
			notes = append(notes, midiNote{
				pitch:    pitch,
				start:    start,
				duration: float64(beatsPerBar),
				velocity: 80,
			})
		}
	}
	return notes
}

// drumNotes is a standard 4/4 pattern on the General MIDI drum map:
// kick (36) on 1 and 3, snare (38) on 2 and 4, closed hihat (42) on every
// beat.
func drumNotes(lengthBars, beatsPerBar int) []midiNote {
	var notes []midiNote
	for bar := 0; bar < lengthBars; bar++ {
		base := float64(bar * beatsPerBar)
		notes = append(notes,
			midiNote{pitch: 36, start: base, duration: 0.1, velocity: 90},
			midiNote{pitch: 36, start: base + 2, duration: 0.1, velocity: 90},
			midiNote{pitch: 38, start: base + 1, duration: 0.1, velocity: 85},
			midiNote{pitch: 38, start: base + 3, duration: 0.1, velocity: 85},
		)
		for beat := 0; beat < beatsPerBar; beat++ {
			notes = append(notes, midiNote{pitch: 42, start: base + float64(beat), duration: 0.1, velocity: 70})
		}
	}
	return notes
}

type compositionKind int

const (
	melodyClip compositionKind = iota
	chordClip
	drumClip
)

// compositionTool creates a clip in a slot and fills it with generated
// MIDI notes: one create_clip call followed by one add/notes call.
type compositionTool struct {
	kind    compositionKind
	tr      Transport
	timeout time.Duration
}

func (t *compositionTool) Name() string {
	switch t.kind {
	case chordClip:
		return "create_chord_progression_clip"
	case drumClip:
		return "create_drum_pattern_clip"
	default:
		return "create_melody_clip"
	}
}

func (t *compositionTool) Description() string {
	switch t.kind {
	case chordClip:
		return "Create a MIDI clip holding a chord progression in the given key, at the given track and slot."
	case drumClip:
		return "Create a MIDI clip holding a drum pattern, at the given track and slot."
	default:
		return "Create a MIDI clip holding a melody in the given key, at the given track and slot."
	}
}

func (t *compositionTool) Parameters() json.RawMessage {
	props := map[string]any{
		"track_id":    map[string]any{"type": "integer", "description": "track_id (0-based)"},
		"scene_id":    map[string]any{"type": "integer", "description": "scene_id, the slot row (0-based)"},
		"length_bars": map[string]any{"type": "integer", "description": "Clip length in bars (typically 1-16)"},
		"style": map[string]any{
			"type":        "string",
			"description": "Musical style (e.g. 'jazz', 'pop', 'rock', 'hip-hop')",
		},
		"beats_per_bar": map[string]any{"type": "integer", "description": "Beats per bar, default 4"},
	}
	required := []string{"track_id", "scene_id", "length_bars"}
	if t.kind != drumClip {
		props["scale_key"] = map[string]any{
			"type":        "string",
			"description": "Musical key and scale (e.g. 'C major', 'A minor')",
		}
		required = append(required, "scale_key")
	}
	schema, _ := json.Marshal(map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	})
	return schema
}

func (t *compositionTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("parse args: %w", err)
	}
	track, ok := intArg(args, "track_id")
	if !ok {
		return "track_id is required and must be an integer", nil
	}
	scene, ok := intArg(args, "scene_id")
	if !ok {
		return "scene_id is required and must be an integer", nil
	}
	bars, ok := intArg(args, "length_bars")
	if !ok || bars < 1 {
		return "length_bars is required and must be a positive integer", nil
	}
	beatsPerBar, ok := intArg(args, "beats_per_bar")
	if !ok || beatsPerBar < 1 {
		beatsPerBar = 4
	}
	scaleKey := stringArg(args, "scale_key")
	if scaleKey == "" {
		scaleKey = "C major"
	}
	style := stringArg(args, "style")
	if style == "" {
		style = "pop"
	}

	clipBeats := bars * beatsPerBar
	result, err := t.tr.SendAndWait("/live/clip_slot/create_clip", []any{track, scene, clipBeats}, t.timeout)
	if err != nil {
		return fmt.Sprintf("Failed to create clip: %v", err), nil
	}
	if s, isStr := result.(string); isStr && strings.Contains(strings.ToLower(s), "error") {
		return fmt.Sprintf("Failed to create clip: %s", s), nil
	}

	var notes []midiNote
	var label string
	switch t.kind {
	case chordClip:
		notes = chordNotes(scaleKey, bars, beatsPerBar)
		label = "chord progression"
	case drumClip:
		notes = drumNotes(bars, beatsPerBar)
		label = "drum pattern"
	default:
		notes = melodyNotes(scaleKey, bars, beatsPerBar)
		label = "melody"
	}

	wire := []any{track, scene}
	for _, n := range notes {
		wire = append(wire, n.pitch, n.start, n.duration, n.velocity, false)
	}
	if _, err := t.tr.SendAndWait("/live/clip/add/notes", wire, t.timeout); err != nil {
		return fmt.Sprintf("Created clip but failed to add notes: %v", err), nil
	}

	if t.kind == drumClip {
		return fmt.Sprintf(
			"Successfully created %s clip on track %d, slot %d. Generated %d notes in %s style. Clip length: %d bars (%d beats).",
			label, track, scene, len(notes), style, bars, clipBeats), nil
	}
	return fmt.Sprintf(
		"Successfully created %s clip on track %d, slot %d. Generated %d notes in %s (%s). Clip length: %d bars (%d beats).",
		label, track, scene, len(notes), scaleKey, style, bars, clipBeats), nil
}

// compositionTools also carries the Song query/control pair so a task can
// verify or create the target track before writing notes.
func compositionTools(tr Transport, timeout time.Duration) []Tool {
	return []Tool{
		&compositionTool{kind: melodyClip, tr: tr, timeout: timeout},
		&compositionTool{kind: chordClip, tr: tr, timeout: timeout},
		&compositionTool{kind: drumClip, tr: tr, timeout: timeout},
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
	}
}
