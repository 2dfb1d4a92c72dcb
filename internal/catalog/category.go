// Package catalog maps the closed set of Ableton Live API categories onto
// transport-backed tools. Every category has a fixed tool set resolved
// through an exhaustive lookup table; there is no runtime string dispatch.
package catalog

import "fmt"

// Category identifies one area of the AbletonOSC surface.
type Category int

const (
	Application Category = iota
	Song
	View
	Track
	ClipSlot
	Clip
	Scene
	Device
	DeviceLoader
	Composition
)

var categoryNames = map[Category]string{
	Application:  "APPLICATION",
	Song:         "SONG",
	View:         "VIEW",
	Track:        "TRACK",
	ClipSlot:     "CLIP_SLOT",
	Clip:         "CLIP",
	Scene:        "SCENE",
	Device:       "DEVICE",
	DeviceLoader: "DEVICE_LOADER",
	Composition:  "COMPOSITION",
}

// Categories returns all categories in canonical order.
func Categories() []Category {
	return []Category{Application, Song, View, Track, ClipSlot, Clip, Scene, Device, DeviceLoader, Composition}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Parse resolves a category label. Unknown labels are an error; the set is
// closed.
func Parse(label string) (Category, error) {
	for cat, name := range categoryNames {
		if name == label {
			return cat, nil
		}
	}
	return 0, fmt.Errorf("unknown category: %q", label)
}

// Describe returns the one-line focus of a category, used in classification
// prompts and operation documentation.
func (c Category) Describe() string {
	switch c {
	case Application:
		return "Control and query application-level state: startup/errors, logging, and Live version information."
	case Song:
		return "Global transport and session control: play/stop/continue, tempo, metronome, position, time signature, loop, recording, undo/redo, track/scene management."
	case View:
		return "User interface and selection control: selected track/scene/clip/device."
	case Track:
		return "Per-track control and inspection: volume, panning, sends, mute/solo/arm, devices, meters and clip lists."
	case ClipSlot:
		return "Clip container operations: create/delete empty clips, query whether a slot has a clip. Clips with musical content belong to the composition category."
	case Clip:
		return "Individual clip control: playback, looping, notes, length and clip properties."
	case Scene:
		return "Scene-level actions: create/duplicate/delete/trigger scenes and query scene properties."
	case Device:
		return "Instrument and effect control: device lists, parameters, types and per-device queries."
	case DeviceLoader:
		return "Browser-powered search and loading of instruments/effects/sounds onto the selected track, plus loader cache management."
	case Composition:
		return "MIDI content generation: musically coherent melodies, chord progressions and drum patterns written into clips."
	}
	return ""
}
