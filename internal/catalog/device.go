package catalog

import "time"

var deviceQueries = map[string]string{
	"name":                    "/live/device/get/name",
	"class_name":              "/live/device/get/class_name",
	"type":                    "/live/device/get/type",
	"num_parameters":          "/live/device/get/num_parameters",
	"parameters_name":         "/live/device/get/parameters/name",
	"parameters_value":        "/live/device/get/parameters/value",
	"parameters_min":          "/live/device/get/parameters/min",
	"parameters_max":          "/live/device/get/parameters/max",
	"parameters_is_quantized": "/live/device/get/parameters/is_quantized",
	"parameter_value":         "/live/device/get/parameter/value",
	"parameter_value_string":  "/live/device/get/parameter/value_string",
}

var deviceCommands = map[string]string{
	"set_parameter_value":  "/live/device/set/parameter/value",
	"set_parameters_value": "/live/device/set/parameters/value",
}

func deviceTools(tr Transport, timeout time.Duration) []Tool {
	return []Tool{
		&queryTool{
			name:      "query_device",
			desc:      "Query Device API properties for one device: name, type, parameter names/values/ranges.",
			label:     "Device",
			addresses: deviceQueries,
			indexArgs: []string{"track_id", "device_id"},
			tr:        tr,
			timeout:   timeout,
		},
		&controlTool{
			name:      "control_device",
			desc:      "Execute Device API commands for one device: set single or bulk parameter values.",
			label:     "Device",
			addresses: deviceCommands,
			indexArgs: []string{"track_id", "device_id"},
			tr:        tr,
			timeout:   timeout,
		},
	}
}
