package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rp-bot/AbletonBuddy/internal/catalog"
	"github.com/rp-bot/AbletonBuddy/internal/types"
)

// Rules is a deterministic Interpreter and Executor covering a
// practical subset of commands. It needs no language model, which makes
// it the default when no API key is configured and keeps simulation
// runs reproducible.
type Rules struct{}

func NewRules() *Rules { return &Rules{} }

var _ Interpreter = (*Rules)(nil)
var _ Executor = (*Rules)(nil)

// incomplete commands that are missing a required value or identifier
var incompleteChecks = []struct {
	applies func(lower string, hasNumber bool) bool
	need    string
}{
	{
		applies: func(lower string, hasNumber bool) bool {
			return strings.Contains(lower, "tempo") && !hasNumber &&
				!strings.HasPrefix(lower, "what") && !strings.HasPrefix(lower, "get") &&
				!strings.HasPrefix(lower, "show")
		},
		need: "A tempo change needs a BPM value (e.g. 'set tempo to 120').",
	},
	{
		applies: func(lower string, hasNumber bool) bool {
			for _, verb := range []string{"mute", "unmute", "solo", "unsolo", "arm", "disarm"} {
				if strings.Contains(lower, verb+" track") && !hasNumber {
					return true
				}
			}
			return false
		},
		need: "Which track? Please include a track number (e.g. 'mute track 2').",
	},
	{
		applies: func(lower string, hasNumber bool) bool {
			return (strings.Contains(lower, "set volume") || strings.Contains(lower, "set pan") ||
				strings.Contains(lower, "set send")) && !hasNumber
		},
		need: "Which track and what value? (e.g. 'set track 1 volume to 0.8').",
	},
	{
		applies: func(lower string, hasNumber bool) bool {
			return (strings.Contains(lower, "launch scene") || strings.Contains(lower, "fire scene")) && !hasNumber
		},
		need: "Which scene? Please include a scene number (e.g. 'launch scene 3').",
	},
	{
		applies: func(lower string, hasNumber bool) bool {
			return strings.Contains(lower, "create clip") && !hasNumber
		},
		need: "Which track and slot should the clip go in? (e.g. 'create clip in track 2 slot 1').",
	},
	{
		applies: func(lower string, _ bool) bool {
			return lower == "play" || lower == "stop" || lower == "record"
		},
		need: "What should I act on? A track, a clip, a scene, or the whole song?",
	},
}

func (r *Rules) Disambiguate(_ context.Context, input string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	hasNumber := strings.ContainsAny(lower, "0123456789")
	for _, check := range incompleteChecks {
		if check.applies(lower, hasNumber) {
			return fmt.Sprintf("%s %s Original: %s", ClarificationPrefix, check.need, input), nil
		}
	}
	return input, nil
}

var categoryKeywords = map[catalog.Category][]string{
	catalog.Application: {"connection", "connected", "abletonosc", "live version", "log level", "reload"},
	catalog.Song: {
		"tempo", "bpm", "playback", "start playing", "stop playing", "metronome",
		"record", "loop", "undo", "redo", "quantiz", "cue", "stop all clips",
		"create track", "create midi track", "create audio track", "delete track",
		"duplicate track", "create scene", "delete scene", "duplicate scene",
	},
	catalog.View:         {"select", "selected", "focus"},
	catalog.Track:        {"track"},
	catalog.ClipSlot:     {"slot", "create clip", "empty clip"},
	catalog.Clip:         {"clip"},
	catalog.Scene:        {"scene"},
	catalog.Device:       {"device", "parameter", "reverb", "cutoff", "filter", "effect"},
	catalog.DeviceLoader: {"load ", "search for", "search device", "browser", "cache"},
	catalog.Composition:  {"melody", "chord", "drum", "compose"},
}

func (r *Rules) Classify(_ context.Context, input string) ([]catalog.Category, error) {
	lower := strings.ToLower(input)
	var cats []catalog.Category
	for _, cat := range catalog.Categories() {
		if matchesCategory(lower, cat) {
			cats = append(cats, cat)
		}
	}
	if len(cats) == 0 {
		// global session control is the broadest fallback
		cats = []catalog.Category{catalog.Song}
	}
	return cats, nil
}

func matchesCategory(lower string, cat catalog.Category) bool {
	for _, kw := range categoryKeywords[cat] {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (r *Rules) Extract(_ context.Context, input string, categories []catalog.Category) (map[catalog.Category][]string, error) {
	out := make(map[catalog.Category][]string, len(categories))
	if len(categories) == 1 {
		out[categories[0]] = []string{input}
		return out, nil
	}

	clauses := splitClauses(input)
	for _, cat := range categories {
		var spans []string
		for _, clause := range clauses {
			if matchesCategory(strings.ToLower(clause), cat) {
				spans = append(spans, clause)
			}
		}
		out[cat] = spans
	}
	return out, nil
}

func splitClauses(input string) []string {
	s := input
	for _, sep := range []string{", then ", " then ", "; ", " and "} {
		s = strings.ReplaceAll(s, sep, "\n")
	}
	var clauses []string
	for _, c := range strings.Split(s, "\n") {
		if c = strings.TrimSpace(c); c != "" {
			clauses = append(clauses, c)
		}
	}
	return clauses
}

func (r *Rules) Summarize(_ context.Context, history []*types.Message) (string, error) {
	var request string
	var outcomes []string
	for _, m := range history {
		switch m.Role {
		case types.RoleUser:
			request = m.Content
		case types.RoleStatus:
			if strings.HasPrefix(m.Content, "Task ") {
				outcomes = append(outcomes, m.Content)
			}
		}
	}

	var b strings.Builder
	b.WriteString("Here's what I did:\n")
	if request != "" {
		fmt.Fprintf(&b, "• You asked: %s\n", request)
	}
	if len(outcomes) == 0 {
		b.WriteString("• I didn't run any commands for this request.\n")
	}
	for _, o := range outcomes {
		fmt.Fprintf(&b, "• %s\n", o)
	}
	b.WriteString("\nDo you need me to do anything else?")
	return b.String(), nil
}

const maxTitleRunes = 40

func (r *Rules) Title(_ context.Context, firstMessage string) (string, error) {
	title := strings.TrimSpace(firstMessage)
	if runes := []rune(title); len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes]) + "..."
	}
	if title == "" {
		title = "New conversation"
	}
	return title, nil
}

// ExecuteTask maps the extracted span onto one tool invocation. Spans
// that match no rule are reported as skipped, not failed.
func (r *Rules) ExecuteTask(ctx context.Context, request, _ string, tools []catalog.Tool) (string, bool, error) {
	toolName, args, ok := ruleCommand(request)
	if !ok {
		return fmt.Sprintf("I couldn't map %q to a known command.", request), true, nil
	}

	tool := findTool(tools, toolName)
	if tool == nil {
		return fmt.Sprintf("The %s tool is not available for this task.", toolName), true, nil
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return "", false, fmt.Errorf("encode args: %w", err)
	}
	result, err := tool.Execute(ctx, raw)
	if err != nil {
		return "", false, fmt.Errorf("execute %s: %w", toolName, err)
	}
	return result, false, nil
}

func findTool(tools []catalog.Tool, name string) catalog.Tool {
	for _, t := range tools {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// ruleCommand recognizes a small fixed vocabulary of commands.
func ruleCommand(request string) (string, map[string]any, bool) {
	lower := strings.ToLower(strings.TrimSpace(request))
	num, hasNum := firstNumber(lower)

	isQuery := false
	for _, p := range []string{"what", "get ", "show ", "is ", "how "} {
		if strings.HasPrefix(lower, p) {
			isQuery = true
			break
		}
	}

	switch {
	case strings.Contains(lower, "test") && strings.Contains(lower, "connection"),
		strings.Contains(lower, "connected to ableton"):
		return "test_connection", map[string]any{}, true

	case strings.Contains(lower, "tempo") && isQuery:
		return "query_ableton", map[string]any{"query_type": "tempo"}, true

	case strings.Contains(lower, "tempo") && hasNum:
		return "control_ableton", map[string]any{"command_type": "set_tempo", "value": num}, true

	case strings.Contains(lower, "stop all clips"):
		return "control_ableton", map[string]any{"command_type": "stop_all_clips"}, true

	case strings.Contains(lower, "start playing"), strings.Contains(lower, "start playback"),
		lower == "play the song", strings.Contains(lower, "play the session"):
		return "control_ableton", map[string]any{"command_type": "start_playing"}, true

	case strings.Contains(lower, "stop playing"), strings.Contains(lower, "stop playback"):
		return "control_ableton", map[string]any{"command_type": "stop_playing"}, true

	case strings.Contains(lower, "metronome"):
		value := "1"
		if strings.Contains(lower, "off") || strings.Contains(lower, "disable") {
			value = "0"
		}
		return "control_ableton", map[string]any{"command_type": "set_metronome", "value": value}, true

	// Negated forms first: "unmute track" contains "mute track".
	case strings.Contains(lower, "unmute track") && hasNum:
		return "control_track", map[string]any{"command_type": "set_mute", "track_id": num, "value": "0"}, true

	case strings.Contains(lower, "mute track") && hasNum:
		return "control_track", map[string]any{"command_type": "set_mute", "track_id": num, "value": "1"}, true

	case strings.Contains(lower, "unsolo track") && hasNum:
		return "control_track", map[string]any{"command_type": "set_solo", "track_id": num, "value": "0"}, true

	case strings.Contains(lower, "solo track") && hasNum:
		return "control_track", map[string]any{"command_type": "set_solo", "track_id": num, "value": "1"}, true

	case (strings.Contains(lower, "disarm track") || strings.Contains(lower, "unarm track")) && hasNum:
		return "control_track", map[string]any{"command_type": "set_arm", "track_id": num, "value": "0"}, true

	case strings.Contains(lower, "arm track") && hasNum:
		return "control_track", map[string]any{"command_type": "set_arm", "track_id": num, "value": "1"}, true

	case strings.Contains(lower, "volume") && strings.Contains(lower, "track"):
		track, value, ok := indexAndValue(lower)
		if !ok {
			return "", nil, false
		}
		return "control_track", map[string]any{"command_type": "set_volume", "track_id": track, "value": value}, true

	case (strings.Contains(lower, "launch scene") || strings.Contains(lower, "fire scene") ||
		strings.Contains(lower, "trigger scene")) && hasNum:
		return "control_scene", map[string]any{"command_type": "fire", "scene_id": num}, true

	// Loader verbs first: a load request may name a device containing a
	// composition word ("load a melody sampler").
	case strings.HasPrefix(lower, "load "):
		return "load_device", map[string]any{"device_name": deviceName(lower[len("load "):])}, true

	case strings.HasPrefix(lower, "search for "):
		return "search_device", map[string]any{"device_name": deviceName(lower[len("search for "):])}, true

	case strings.Contains(lower, "melody"):
		return "create_melody_clip", compositionArgs(lower), true

	case strings.Contains(lower, "chord"):
		return "create_chord_progression_clip", compositionArgs(lower), true

	case strings.Contains(lower, "drum"):
		return "create_drum_pattern_clip", compositionArgs(lower), true

	case strings.HasPrefix(lower, "undo"):
		return "control_ableton", map[string]any{"command_type": "undo"}, true

	case strings.HasPrefix(lower, "redo"):
		return "control_ableton", map[string]any{"command_type": "redo"}, true
	}

	return "", nil, false
}

// firstNumber returns the first integer or decimal literal in s.
func firstNumber(s string) (string, bool) {
	start := -1
	for i, c := range s {
		isDigit := c >= '0' && c <= '9'
		if start < 0 {
			if isDigit {
				start = i
			}
			continue
		}
		if !isDigit && c != '.' {
			return s[start:i], true
		}
	}
	if start >= 0 {
		return s[start:], true
	}
	return "", false
}

// compositionArgs pulls target and length out of phrasings like
// "create a jazz melody in track 2 slot 0, 4 bars long". Unstated parts
// fall back to track 0, slot 0, 4 bars; scale and style default inside
// the tool.
func compositionArgs(lower string) map[string]any {
	args := map[string]any{"track_id": "0", "scene_id": "0", "length_bars": "4"}
	if n, ok := numberAfter(lower, "track "); ok {
		args["track_id"] = n
	}
	if n, ok := numberAfter(lower, "slot "); ok {
		args["scene_id"] = n
	}
	if idx := strings.Index(lower, " bar"); idx >= 0 {
		if n, ok := lastNumber(lower[:idx]); ok {
			args["length_bars"] = n
		}
	}
	if key, ok := scaleKeyIn(lower); ok {
		args["scale_key"] = key
	}
	return args
}

func numberAfter(s, word string) (string, bool) {
	idx := strings.Index(s, word)
	if idx < 0 {
		return "", false
	}
	return firstNumber(s[idx+len(word):])
}

func lastNumber(s string) (string, bool) {
	var last string
	rest := s
	for {
		n, ok := firstNumber(rest)
		if !ok {
			break
		}
		last = n
		rest = rest[strings.Index(rest, n)+len(n):]
	}
	return last, last != ""
}

// scaleKeyIn finds "<note> major|minor" pairs like "c major" or "f# minor".
func scaleKeyIn(lower string) (string, bool) {
	fields := strings.Fields(lower)
	for i := 0; i+1 < len(fields); i++ {
		mode := strings.TrimRight(fields[i+1], ".,!?")
		if mode != "major" && mode != "minor" {
			continue
		}
		note := fields[i]
		if len(note) > 2 || note[0] < 'a' || note[0] > 'g' {
			continue
		}
		return note + " " + mode, true
	}
	return "", false
}

// deviceName strips leading articles from the phrase after a load/search
// verb.
func deviceName(phrase string) string {
	phrase = strings.TrimSpace(phrase)
	for _, article := range []string{"a ", "an ", "the "} {
		if strings.HasPrefix(phrase, article) {
			phrase = phrase[len(article):]
			break
		}
	}
	return strings.TrimRight(strings.TrimSpace(phrase), ".,!?")
}

// indexAndValue pulls the track index and the trailing value out of
// phrasings like "set track 1 volume to 0.8".
func indexAndValue(s string) (string, string, bool) {
	first, ok := firstNumber(s)
	if !ok {
		return "", "", false
	}
	rest := s[strings.Index(s, first)+len(first):]
	second, ok := firstNumber(rest)
	if !ok {
		return "", "", false
	}
	return first, second, true
}
