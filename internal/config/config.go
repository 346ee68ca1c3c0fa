// Package config provides configuration loading and structs for the
// certify server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Agents    AgentsConfig    `yaml:"agents"`
	LLM       LLMConfig       `yaml:"llm"`
	Intent    IntentConfig    `yaml:"intent"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the report database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// KnowledgeConfig holds guidance index settings. When GuidanceDir is empty
// the citation index is disabled.
type KnowledgeConfig struct {
	IndexPath    string `yaml:"index_path"`
	GuidanceDir  string `yaml:"guidance_dir"`
	MaxCitations int    `yaml:"max_citations"`
}

// AgentsConfig holds specialist agent endpoints.
type AgentsConfig struct {
	DesignerURL      string `yaml:"designer_url"`
	CostEngineerURL  string `yaml:"cost_engineer_url"`
	InstallerURL     string `yaml:"installer_url"`
	CommissioningURL string `yaml:"commissioning_url"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
}

// LLMConfig holds the merge-model settings. An empty APIKey falls back to
// the OPENAI_API_KEY environment variable.
type LLMConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// IntentConfig holds the keyword-list file path. Empty means built-in lists.
type IntentConfig struct {
	KeywordsPath string `yaml:"keywords_path"`
}

// Load reads and parses the config file at path, expands paths, and
// applies defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Knowledge.IndexPath = expandPath(cfg.Knowledge.IndexPath, configDir)
	if cfg.Knowledge.GuidanceDir != "" {
		cfg.Knowledge.GuidanceDir = expandPath(cfg.Knowledge.GuidanceDir, configDir)
	}
	if cfg.Intent.KeywordsPath != "" {
		cfg.Intent.KeywordsPath = expandPath(cfg.Intent.KeywordsPath, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
