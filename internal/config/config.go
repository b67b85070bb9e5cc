package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ConfigFile = ".reviewlens/config.json"
)

type Config struct {
	BotSettings      BotSettings      `json:"bot_settings"`
	AnalysisSettings AnalysisSettings `json:"analysis_settings"`
	PriorityRules    PriorityRules    `json:"priority_rules"`
	OutputSettings   OutputSettings   `json:"output_settings"`
}

type BotSettings struct {
	BotLogin         string `json:"bot_login"`         // Review bot account, matched exactly or as "login[bot]"
	ResolutionMarker string `json:"resolution_marker"` // Sentinel string that marks a thread resolved
}

type AnalysisSettings struct {
	ClassifierStrategy   string `json:"classifier_strategy"`    // "rule_based" or "statistical"
	MinDescriptionLength int    `json:"min_description_length"` // Items with shorter descriptions are dropped
	StreamingEnabled     bool   `json:"streaming_enabled"`      // Batched parallel parsing for large comment sets
	BatchSize            int    `json:"batch_size"`             // Comments per batch in streaming mode
	WorkerCount          int    `json:"worker_count"`           // Parallel workers per batch (bounded at 4)
	MemoryThresholdMB    int    `json:"memory_threshold_mb"`    // Heap size that triggers compaction between batches
	VerboseMode          bool   `json:"verbose_mode"`           // Enable debug-level logging
}

// PriorityRules maps keyword lists to priority levels for the rule-based
// scorer.
type PriorityRules struct {
	Critical []string `json:"critical"`
	High     []string `json:"high"`
	Medium   []string `json:"medium"`
	Low      []string `json:"low"`
}

type OutputSettings struct {
	Format string `json:"format"` // "markdown", "json", "yaml", "text", or "prompt"
	Color  string `json:"color"`  // "auto", "always", or "never"
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		BotSettings: BotSettings{
			BotLogin:         "coderabbitai",
			ResolutionMarker: "🔒 CODERABBIT_RESOLVED 🔒",
		},
		AnalysisSettings: AnalysisSettings{
			ClassifierStrategy:   "rule_based",
			MinDescriptionLength: 5,
			StreamingEnabled:     false,
			BatchSize:            100,
			WorkerCount:          4,
			MemoryThresholdMB:    512,
			VerboseMode:          false,
		},
		PriorityRules: PriorityRules{
			Critical: []string{"security", "vulnerability", "injection", "data exposure", "crash", "panic"},
			High:     []string{"race condition", "deadlock", "memory leak", "performance", "nil pointer", "bug"},
			Medium:   []string{"error handling", "validation", "edge case", "refactor", "logic"},
			Low:      []string{"style", "naming", "typo", "comment", "formatting"},
		},
		OutputSettings: OutputSettings{
			Format: "markdown",
			Color:  "auto",
		},
	}
}

// Load reads the config file, merging it over defaults. A missing file is
// not an error: defaults apply.
func Load() (*Config, error) {
	return LoadFrom(ConfigFile)
}

// LoadFrom reads a config file from an explicit path, merging it over
// defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	defaults := defaultConfig()

	if c.BotSettings.BotLogin == "" {
		c.BotSettings.BotLogin = defaults.BotSettings.BotLogin
	}
	if c.BotSettings.ResolutionMarker == "" {
		c.BotSettings.ResolutionMarker = defaults.BotSettings.ResolutionMarker
	}
	if c.AnalysisSettings.ClassifierStrategy == "" {
		c.AnalysisSettings.ClassifierStrategy = defaults.AnalysisSettings.ClassifierStrategy
	}
	if c.AnalysisSettings.MinDescriptionLength == 0 {
		c.AnalysisSettings.MinDescriptionLength = defaults.AnalysisSettings.MinDescriptionLength
	}
	if c.AnalysisSettings.BatchSize == 0 {
		c.AnalysisSettings.BatchSize = defaults.AnalysisSettings.BatchSize
	}
	if c.AnalysisSettings.WorkerCount == 0 {
		c.AnalysisSettings.WorkerCount = defaults.AnalysisSettings.WorkerCount
	}
	if c.AnalysisSettings.MemoryThresholdMB == 0 {
		c.AnalysisSettings.MemoryThresholdMB = defaults.AnalysisSettings.MemoryThresholdMB
	}
	if c.OutputSettings.Format == "" {
		c.OutputSettings.Format = defaults.OutputSettings.Format
	}
	if c.OutputSettings.Color == "" {
		c.OutputSettings.Color = defaults.OutputSettings.Color
	}
}

// Save writes the config to its default location, creating the directory if
// needed.
func (c *Config) Save() error {
	return c.SaveTo(ConfigFile)
}

// SaveTo writes the config to an explicit path.
func (c *Config) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
