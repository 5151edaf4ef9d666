// Package config provides configuration loading and management for
// debateclub.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete debateclub configuration
type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Debate   DebateConfig   `yaml:"debate"`
	Server   ServerConfig   `yaml:"server"`
	NATS     NATSConfig     `yaml:"nats"`
	Research ResearchConfig `yaml:"research"`
}

// ModelConfig configures the LLM endpoint
type ModelConfig struct {
	// Provider is the LLM provider name (ollama, openai, openrouter, anthropic)
	Provider string `yaml:"provider"`
	// Name is the model to use (e.g., "qwen2.5:32b")
	Name string `yaml:"name"`
	// Endpoint is the provider API endpoint
	Endpoint string `yaml:"endpoint"`
	// Temperature controls randomness (0.0-1.0)
	Temperature float64 `yaml:"temperature"`
	// MaxTokens bounds each completion (0 = provider default)
	MaxTokens int `yaml:"max_tokens"`
}

// DebateConfig configures debate runs
type DebateConfig struct {
	// MaxRounds is the default number of argument rounds
	MaxRounds int `yaml:"max_rounds"`
	// Timeout is the wall-clock deadline for a full debate run
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	// Address is the listen address (host:port)
	Address string `yaml:"address"`
	// APIPrefix is the path prefix for the debate API
	APIPrefix string `yaml:"api_prefix"`
}

// NATSConfig configures the optional persistence backend
type NATSConfig struct {
	// URL is the NATS server URL (empty = persistence disabled)
	URL string `yaml:"url"`
}

// ResearchConfig configures background topic research
type ResearchConfig struct {
	// Source selects the research backend ("wikipedia" or "none")
	Source string `yaml:"source"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:    "ollama",
			Name:        "qwen2.5:32b",
			Endpoint:    "http://localhost:11434",
			Temperature: 0.7,
		},
		Debate: DebateConfig{
			MaxRounds: 3,
			Timeout:   600 * time.Second,
		},
		Server: ServerConfig{
			Address:   ":8080",
			APIPrefix: "api",
		},
		NATS: NATSConfig{
			URL: "",
		},
		Research: ResearchConfig{
			Source: "wikipedia",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Model.Provider == "" {
		return fmt.Errorf("model.provider is required")
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name is required")
	}
	if c.Model.Endpoint == "" {
		return fmt.Errorf("model.endpoint is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	if c.Debate.MaxRounds < 1 {
		return fmt.Errorf("debate.max_rounds must be at least 1")
	}
	if c.Debate.Timeout <= 0 {
		return fmt.Errorf("debate.timeout must be positive")
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	switch c.Research.Source {
	case "wikipedia", "none":
	default:
		return fmt.Errorf("research.source must be wikipedia or none")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Model
	if other.Model.Provider != "" {
		c.Model.Provider = other.Model.Provider
	}
	if other.Model.Name != "" {
		c.Model.Name = other.Model.Name
	}
	if other.Model.Endpoint != "" {
		c.Model.Endpoint = other.Model.Endpoint
	}
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.MaxTokens != 0 {
		c.Model.MaxTokens = other.Model.MaxTokens
	}

	// Debate
	if other.Debate.MaxRounds != 0 {
		c.Debate.MaxRounds = other.Debate.MaxRounds
	}
	if other.Debate.Timeout != 0 {
		c.Debate.Timeout = other.Debate.Timeout
	}

	// Server
	if other.Server.Address != "" {
		c.Server.Address = other.Server.Address
	}
	if other.Server.APIPrefix != "" {
		c.Server.APIPrefix = other.Server.APIPrefix
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}

	// Research
	if other.Research.Source != "" {
		c.Research.Source = other.Research.Source
	}
}
