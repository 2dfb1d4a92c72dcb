package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
	HTTP     struct {
		Addr           string   `json:"addr"`
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"http"`
	OSC struct {
		Host        string `json:"host"`
		SendPort    int    `json:"send_port"`
		ReceivePort int    `json:"receive_port"`
		Live        bool   `json:"live"`
		TimeoutMS   int    `json:"timeout_ms"`
	} `json:"osc"`
	// Interpreter selects the language-model boundary implementation:
	// "rules" (deterministic, no network), "llm", or "auto" (llm when an
	// API key is configured).
	Interpreter string `json:"interpreter"`
	LLM         struct {
		BaseURL          string  `json:"base_url"`
		APIKey           string  `json:"api_key"`
		Model            string  `json:"model"`
		MaxTokens        int     `json:"max_tokens"`
		Temperature      float32 `json:"temperature"`
		MaxContextTokens int     `json:"max_context_tokens"`
		OutputReserve    int     `json:"output_reserve"`
		MaxToolRounds    int     `json:"max_tool_rounds"`
	} `json:"llm"`
	Telegram struct {
		Token string `json:"token"`
	} `json:"telegram"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:  filepath.Join(os.Getenv("HOME"), ".abletonbuddy"),
		LogLevel: "info",
	}
	cfg.HTTP.Addr = ":8000"
	cfg.HTTP.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	cfg.OSC.Host = "127.0.0.1"
	cfg.OSC.SendPort = 11000
	cfg.OSC.ReceivePort = 11001
	cfg.OSC.TimeoutMS = 2000
	cfg.Interpreter = "auto"
	cfg.LLM.BaseURL = "https://api.openai.com/v1"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.LLM.MaxTokens = 2000
	cfg.LLM.Temperature = 0.2
	cfg.LLM.MaxContextTokens = 128000
	cfg.LLM.OutputReserve = 4096
	cfg.LLM.MaxToolRounds = 10

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if host := os.Getenv("ABLETON_OSC_HOST"); host != "" {
		cfg.OSC.Host = host
	}
	if port := os.Getenv("ABLETON_OSC_SEND_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.OSC.SendPort = n
		}
	}
	if port := os.Getenv("ABLETON_OSC_RECEIVE_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.OSC.ReceivePort = n
		}
	}
	if live := os.Getenv("ABLETON_OSC_LIVE"); live != "" {
		cfg.OSC.Live = live == "1" || live == "true"
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		cfg.Telegram.Token = tgToken
	}

	return cfg, nil
}

// UseLLM reports whether the LLM-backed interpreter should be wired.
func (c *Config) UseLLM() bool {
	switch c.Interpreter {
	case "llm":
		return true
	case "rules":
		return false
	}
	return c.LLM.APIKey != ""
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}
