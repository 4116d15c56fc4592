// Package cliconfig loads and manages the hogdriver CLI configuration file
// stored at ~/.hogdriver/config.yaml.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hogdriver-ai/hogdriver/posthog"
)

// DefaultConfigDir is the directory under the user's home for CLI state.
const DefaultConfigDir = ".hogdriver"

// DefaultConfigFile is the config file name within the config directory.
const DefaultConfigFile = "config.yaml"

// Profile is one named set of PostHog connection settings.
type Profile struct {
	APIURL        string `yaml:"api_url,omitempty"`
	ProjectID     string `yaml:"project_id,omitempty"`
	APIKey        string `yaml:"personal_api_key,omitempty"`
	ProjectAPIKey string `yaml:"project_api_key,omitempty"`
	GeminiAPIKey  string `yaml:"gemini_api_key,omitempty"`
	GeminiModel   string `yaml:"gemini_model,omitempty"`
}

// Config represents the contents of ~/.hogdriver/config.yaml.
type Config struct {
	// DefaultProfile names the profile used when --profile is not given.
	DefaultProfile string             `yaml:"default_profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// configDir returns the path to the config directory.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir), nil
}

// configPath returns the full path to the config file.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// Load reads the config from ~/.hogdriver/config.yaml.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = "default"
	}

	return &cfg, nil
}

// Save writes the config to ~/.hogdriver/config.yaml.
func Save(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// The file holds API keys; keep it owner-only.
	return os.WriteFile(path, data, 0o600)
}

// Profile returns the named profile, or the default profile for an empty
// name. A missing profile is not an error: env vars may supply everything.
func (c *Config) Profile(name string) Profile {
	if name == "" {
		name = c.DefaultProfile
	}
	return c.Profiles[name]
}

// DriverConfig converts a profile to the driver's Config. Empty fields stay
// empty so the driver's env fallback applies.
func (p Profile) DriverConfig() posthog.Config {
	return posthog.Config{
		APIURL:        p.APIURL,
		APIKey:        p.APIKey,
		ProjectID:     p.ProjectID,
		ProjectAPIKey: p.ProjectAPIKey,
	}
}

func defaultConfig() *Config {
	return &Config{
		DefaultProfile: "default",
		Profiles:       make(map[string]Profile),
	}
}
