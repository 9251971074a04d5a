package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPageSize is the number of search results per page.
const DefaultPageSize = 8

// Config holds CLI configuration stored at ~/.annotator/config.
type Config struct {
	APIKey               string `yaml:"api_key"`
	BaseURL              string `yaml:"base_url,omitempty"`
	WebURL               string `yaml:"web_url,omitempty"`
	Username             string `yaml:"username"`
	Project              string `yaml:"project"`
	Theme                string `yaml:"theme,omitempty"`
	VimKeys              bool   `yaml:"vim_keys"`
	PageSize             int    `yaml:"page_size,omitempty"`
	LogFile              string `yaml:"log_file,omitempty"`
	MetricsAddr          string `yaml:"metrics_addr,omitempty"`
	DefaultRepository    string `yaml:"default_repository,omitempty"`
	DefaultKnowledgeBase string `yaml:"default_knowledge_base,omitempty"`
}

// Dir returns the config directory. ANNOTATOR_HOME overrides ~/.annotator.
func Dir() string {
	if dir := strings.TrimSpace(os.Getenv("ANNOTATOR_HOME")); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".annotator")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config missing api_key")
	}
	if cfg.Project == "" {
		return nil, fmt.Errorf("config missing project")
	}

	return &cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}

// ResultsPerPage returns the configured page size, falling back to the default.
func (c *Config) ResultsPerPage() int {
	if c == nil || c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// LogPath returns the configured log file, defaulting to annotator.log in Dir.
func (c *Config) LogPath() string {
	if c != nil && strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile
	}
	return filepath.Join(Dir(), "annotator.log")
}
