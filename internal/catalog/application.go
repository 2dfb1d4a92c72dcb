package catalog

import "time"

var applicationQueries = map[string]string{
	"version":   "/live/application/get/version",
	"log_level": "/live/api/get/log_level",
	"test":      "/live/test",
}

var applicationCommands = map[string]string{
	"set_log_level": "/live/api/set/log_level",
	"reload":        "/live/api/reload",
}

func applicationTools(tr Transport, timeout time.Duration) []Tool {
	return []Tool{
		&queryTool{
			name:      "query_application",
			desc:      "Query Application API state: Live version, API log level, connectivity test.",
			label:     "Application",
			addresses: applicationQueries,
			tr:        tr,
			timeout:   timeout,
		},
		&controlTool{
			name:      "control_application",
			desc:      "Execute Application API commands: change the API log level, reload the API.",
			label:     "Application",
			addresses: applicationCommands,
			tr:        tr,
			timeout:   timeout,
		},
		&connectionTool{tr: tr, timeout: timeout},
	}
}
