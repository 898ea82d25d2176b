package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the converge configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Backend BackendConfig `mapstructure:"backend"`
	Claude  ClaudeConfig  `mapstructure:"claude"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	KiloCode KiloCodeConfig `mapstructure:"kilocode"`
}

// EngineConfig holds the Decision Engine and Stability Tracker tunables,
// per spec §6.
type EngineConfig struct {
	MaxRounds           int     `mapstructure:"max_rounds"`
	StabilityThreshold  float64 `mapstructure:"stability_threshold"`
	GoalDivergenceLimit int     `mapstructure:"goal_divergence_limit"`
}

// BackendConfig selects which llmhost adapter answers callModel.
type BackendConfig struct {
	Name  string `mapstructure:"name"`
	Model string `mapstructure:"model"`
}

// ClaudeConfig contains Claude CLI backend settings.
type ClaudeConfig struct {
	Binary       string   `mapstructure:"binary"`
	AllowedTools []string `mapstructure:"allowed_tools"`
}

// OpenAIConfig contains OpenAI HTTP backend settings.
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// KiloCodeConfig contains the KiloCode CLI backend settings.
type KiloCodeConfig struct {
	Binary string `mapstructure:"binary"`
	APIKey string `mapstructure:"api_key"`
}

// Load reads config from <workspaceDir>/.converge/config.yaml, falling back
// to DefaultConfig when the file does not exist.
func Load(workspaceDir string) (*Config, error) {
	configPath := filepath.Join(workspaceDir, ".converge", "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns a config with the defaults named in spec §6.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxRounds:           3,
			StabilityThreshold:  0.85,
			GoalDivergenceLimit: 2,
		},
		Backend: BackendConfig{
			Name:  "claude",
			Model: "sonnet",
		},
		Claude: ClaudeConfig{
			Binary: "claude",
			AllowedTools: []string{
				"Read", "Write", "Edit", "Bash", "Glob", "Grep",
			},
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o",
		},
		KiloCode: KiloCodeConfig{
			Binary: "kilocode",
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Engine.MaxRounds == 0 {
		cfg.Engine.MaxRounds = defaults.Engine.MaxRounds
	}
	if cfg.Engine.StabilityThreshold == 0 {
		cfg.Engine.StabilityThreshold = defaults.Engine.StabilityThreshold
	}
	if cfg.Engine.GoalDivergenceLimit == 0 {
		cfg.Engine.GoalDivergenceLimit = defaults.Engine.GoalDivergenceLimit
	}
	if cfg.Backend.Name == "" {
		cfg.Backend.Name = defaults.Backend.Name
	}
	if cfg.Backend.Model == "" {
		cfg.Backend.Model = defaults.Backend.Model
	}
	if cfg.Claude.Binary == "" {
		cfg.Claude.Binary = defaults.Claude.Binary
	}
	if len(cfg.Claude.AllowedTools) == 0 {
		cfg.Claude.AllowedTools = defaults.Claude.AllowedTools
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = defaults.OpenAI.Model
	}
	if cfg.KiloCode.Binary == "" {
		cfg.KiloCode.Binary = defaults.KiloCode.Binary
	}
}
