package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Novelstate Configuration

llm:
  provider: gemini
  model: gemini-2.0-flash
  # api_key: your-api-key (or set GEMINI_API_KEY env var)

embedder:
  provider: openai
  model: text-embedding-3-small
  # api_key: your-api-key (or set OPENAI_API_KEY env var)

qdrant:
  host: localhost
  port: 6334
  collection: novelstate_entities
  # api_key: your-api-key (for Qdrant Cloud)

# drive:
#   credentials_file: ~/.novelstate/credentials.json
#   token_file: ~/.novelstate/token.json

fetcher:
  user_agent: novelstate/0.1
  timeout_seconds: 30
`

// WriteDefault creates the .novelstate directory and writes a default
// config file.
func WriteDefault(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	configFile := filepath.Join(configDir, DefaultConfigFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
