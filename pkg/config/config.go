package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Agents    AgentsConfig    `json:"agents"`
	Providers ProvidersConfig `json:"providers"`
	Memory    MemoryConfig    `json:"memory"`
	Guard     GuardConfig     `json:"guard"`
	mu        sync.RWMutex
}

type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults"`
}

type AgentDefaults struct {
	Model          string `json:"model" env:"RANGERS_AGENTS_DEFAULTS_MODEL"`
	MaxTokens      int    `json:"max_tokens" env:"RANGERS_AGENTS_DEFAULTS_MAX_TOKENS"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"RANGERS_AGENTS_DEFAULTS_TIMEOUT_SECONDS"`
	HistoryWindow  int    `json:"history_window" env:"RANGERS_AGENTS_DEFAULTS_HISTORY_WINDOW"`
	HistoryCap     int    `json:"history_cap" env:"RANGERS_AGENTS_DEFAULTS_HISTORY_CAP"`
}

type ProvidersConfig struct {
	Anthropic ProviderConfig `json:"anthropic"`
}

type ProviderConfig struct {
	APIKey     string `json:"api_key" env:"RANGERS_PROVIDERS_ANTHROPIC_API_KEY"`
	APIBase    string `json:"api_base" env:"RANGERS_PROVIDERS_ANTHROPIC_API_BASE"`
	APIVersion string `json:"api_version" env:"RANGERS_PROVIDERS_ANTHROPIC_API_VERSION"`
	Proxy      string `json:"proxy,omitempty" env:"RANGERS_PROVIDERS_ANTHROPIC_PROXY"`
}

type MemoryConfig struct {
	Path              string `json:"path" env:"RANGERS_MEMORY_PATH"`
	QueueSize         int    `json:"queue_size" env:"RANGERS_MEMORY_QUEUE_SIZE"`
	MessageRetention  int    `json:"message_retention_days" env:"RANGERS_MEMORY_MESSAGE_RETENTION_DAYS"`
	ArtifactRetention int    `json:"artifact_retention_days" env:"RANGERS_MEMORY_ARTIFACT_RETENTION_DAYS"`
	SweepSchedule     string `json:"sweep_schedule" env:"RANGERS_MEMORY_SWEEP_SCHEDULE"`
	MaxBrandsPerUser  int    `json:"max_brands_per_user" env:"RANGERS_MEMORY_MAX_BRANDS_PER_USER"`
}

type GuardConfig struct {
	Enabled     bool `json:"enabled" env:"RANGERS_GUARD_ENABLED"`
	MaxAppended int  `json:"max_appended_notes" env:"RANGERS_GUARD_MAX_APPENDED_NOTES"`
}

func DefaultConfig() *Config {
	return &Config{
		Agents: AgentsConfig{
			Defaults: AgentDefaults{
				Model:          "claude-haiku-4-5-20251001",
				MaxTokens:      4096,
				TimeoutSeconds: 30,
				HistoryWindow:  10,
				HistoryCap:     20,
			},
		},
		Providers: ProvidersConfig{
			Anthropic: ProviderConfig{
				APIBase:    "https://api.anthropic.com/v1",
				APIVersion: "2023-06-01",
			},
		},
		Memory: MemoryConfig{
			Path:              "~/.rangers/state/rangers.db",
			QueueSize:         100,
			MessageRetention:  90,
			ArtifactRetention: 365,
			SweepSchedule:     "0 * * * *",
			MaxBrandsPerUser:  3,
		},
		Guard: GuardConfig{
			Enabled:     true,
			MaxAppended: 2,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Env overrides still apply when no config file exists yet.
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) MemoryPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return expandHome(c.Memory.Path)
}

func (c *Config) GetAPIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Providers.Anthropic.APIKey
}

func (c *Config) GetAPIBase() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Providers.Anthropic.APIBase != "" {
		return c.Providers.Anthropic.APIBase
	}
	return "https://api.anthropic.com/v1"
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
