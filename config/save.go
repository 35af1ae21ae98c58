package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// defaultConfigPath is read at startup when -config is not given
var defaultConfigPath = "config/research-agent.json"

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if path := os.Getenv("RESEARCH_AGENT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// SaveConfig writes the configuration as indented JSON, creating the directory if needed.
// Credentials are stripped so the file can be committed.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	redacted := *config
	redacted.Search.TavilyAPIKey = ""
	redacted.Search.SerpAPIKey = ""
	redacted.Search.BraveAPIKey = ""
	redacted.LLM.HuggingFaceKey = ""
	redacted.LLM.OpenAIKey = ""

	data, err := json.MarshalIndent(&redacted, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
