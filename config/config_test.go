package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.Provider != "ollama" {
		t.Errorf("expected default provider ollama, got %s", cfg.Model.Provider)
	}
	if cfg.Model.Endpoint != "http://localhost:11434" {
		t.Errorf("expected default endpoint http://localhost:11434, got %s", cfg.Model.Endpoint)
	}
	if cfg.Debate.MaxRounds != 3 {
		t.Errorf("expected default max rounds 3, got %d", cfg.Debate.MaxRounds)
	}
	if cfg.Debate.Timeout != 600*time.Second {
		t.Errorf("expected default timeout 600s, got %s", cfg.Debate.Timeout)
	}
	if cfg.Research.Source != "wikipedia" {
		t.Errorf("expected default research source wikipedia, got %s", cfg.Research.Source)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing provider",
			modify:  func(c *Config) { c.Model.Provider = "" },
			wantErr: true,
		},
		{
			name:    "missing model name",
			modify:  func(c *Config) { c.Model.Name = "" },
			wantErr: true,
		},
		{
			name:    "missing endpoint",
			modify:  func(c *Config) { c.Model.Endpoint = "" },
			wantErr: true,
		},
		{
			name:    "temperature too low",
			modify:  func(c *Config) { c.Model.Temperature = -0.1 },
			wantErr: true,
		},
		{
			name:    "temperature too high",
			modify:  func(c *Config) { c.Model.Temperature = 1.1 },
			wantErr: true,
		},
		{
			name:    "zero rounds",
			modify:  func(c *Config) { c.Debate.MaxRounds = 0 },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Debate.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "unknown research source",
			modify:  func(c *Config) { c.Research.Source = "crystal-ball" },
			wantErr: true,
		},
		{
			name:    "research disabled",
			modify:  func(c *Config) { c.Research.Source = "none" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debateclub.yaml")

	content := []byte(`
model:
  provider: anthropic
  name: claude-sonnet
  endpoint: https://api.anthropic.com
debate:
  max_rounds: 5
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Model.Provider != "anthropic" {
		t.Errorf("expected provider anthropic, got %s", cfg.Model.Provider)
	}
	if cfg.Debate.MaxRounds != 5 {
		t.Errorf("expected max rounds 5, got %d", cfg.Debate.MaxRounds)
	}
	// Unset fields keep defaults
	if cfg.Server.Address != ":8080" {
		t.Errorf("expected default address :8080, got %s", cfg.Server.Address)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debateclub.yaml")

	cfg := DefaultConfig()
	cfg.Model.Name = "llama3:70b"
	cfg.NATS.URL = "nats://localhost:4222"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Model.Name != "llama3:70b" {
		t.Errorf("expected model llama3:70b, got %s", loaded.Model.Name)
	}
	if loaded.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected NATS URL to round-trip, got %s", loaded.NATS.URL)
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	other := &Config{}
	other.Model.Name = "override"
	other.Debate.MaxRounds = 1

	base.Merge(other)

	if base.Model.Name != "override" {
		t.Errorf("expected merged model override, got %s", base.Model.Name)
	}
	if base.Debate.MaxRounds != 1 {
		t.Errorf("expected merged max rounds 1, got %d", base.Debate.MaxRounds)
	}
	// Untouched fields survive
	if base.Model.Provider != "ollama" {
		t.Errorf("expected provider ollama after merge, got %s", base.Model.Provider)
	}

	base.Merge(nil)
	if base.Model.Name != "override" {
		t.Error("merging nil should be a no-op")
	}
}
