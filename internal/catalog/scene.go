package catalog

import "time"

var sceneQueries = map[string]string{
	"name":                         "/live/scene/get/name",
	"color":                        "/live/scene/get/color",
	"color_index":                  "/live/scene/get/color_index",
	"is_empty":                     "/live/scene/get/is_empty",
	"is_triggered":                 "/live/scene/get/is_triggered",
	"tempo":                        "/live/scene/get/tempo",
	"tempo_enabled":                "/live/scene/get/tempo_enabled",
	"time_signature_numerator":     "/live/scene/get/time_signature_numerator",
	"time_signature_denominator":   "/live/scene/get/time_signature_denominator",
	"time_signature_enabled":       "/live/scene/get/time_signature_enabled",
}

var sceneCommands = map[string]string{
	"fire":                           "/live/scene/fire",
	"fire_as_selected":               "/live/scene/fire_as_selected",
	"fire_selected":                  "/live/scene/fire_selected",
	"set_name":                       "/live/scene/set/name",
	"set_color":                      "/live/scene/set/color",
	"set_color_index":                "/live/scene/set/color_index",
	"set_tempo":                      "/live/scene/set/tempo",
	"set_tempo_enabled":              "/live/scene/set/tempo_enabled",
	"set_time_signature_numerator":   "/live/scene/set/time_signature_numerator",
	"set_time_signature_denominator": "/live/scene/set/time_signature_denominator",
	"set_time_signature_enabled":     "/live/scene/set/time_signature_enabled",
}

func sceneTools(tr Transport, timeout time.Duration) []Tool {
	return []Tool{
		&queryTool{
			name:      "query_scene",
			desc:      "Query Scene API properties for one scene: name, color, trigger state, tempo and time signature.",
			label:     "Scene",
			addresses: sceneQueries,
			indexArgs: []string{"scene_id"},
			tr:        tr,
			timeout:   timeout,
		},
		&controlTool{
			name:      "control_scene",
			desc:      "Execute Scene API commands for one scene: fire, rename, color, tempo and time signature.",
			label:     "Scene",
			addresses: sceneCommands,
			indexArgs: []string{"scene_id"},
			tr:        tr,
			timeout:   timeout,
		},
	}
}
