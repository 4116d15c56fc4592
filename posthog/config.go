package posthog

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIURL is the PostHog US cloud endpoint, used when no URL is
// configured.
const DefaultAPIURL = "https://us.posthog.com"

// Defaults for the request executor.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

// Config holds client configuration. Zero-value fields are filled from the
// environment (and an optional .env file) at construction; explicitly set
// fields always win. The config is copied into the client and never read
// again, so mutating it after NewClient has no effect.
type Config struct {
	// APIURL is the base URL of the PostHog instance, e.g.
	// https://us.posthog.com. The capture host is derived from it.
	APIURL string `mapstructure:"POSTHOG_API_URL"`
	// APIKey is the personal API key sent as a Bearer token on analytics
	// API calls. Required.
	APIKey string `mapstructure:"POSTHOG_PERSONAL_API_KEY"`
	// ProjectID scopes all /api/projects/{id}/ endpoints. Required.
	ProjectID string `mapstructure:"POSTHOG_PROJECT_ID"`
	// ProjectAPIKey is the project (write) key used for event capture and
	// flag evaluation. Optional; capture operations fail without it.
	ProjectAPIKey string `mapstructure:"POSTHOG_PROJECT_API_KEY"`
	// Timeout is the per-attempt request timeout. Defaults to 30s.
	Timeout time.Duration
	// MaxRetries is the total attempt budget for retryable failures.
	// Defaults to 3.
	MaxRetries int
}

// loadEnv reads PostHog settings from the environment via Viper, honoring an
// optional .env file in the working directory. A missing .env is not an
// error. Real env vars override .env values.
func loadEnv() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("POSTHOG_API_URL", DefaultAPIURL)
	v.SetDefault("POSTHOG_PERSONAL_API_KEY", "")
	v.SetDefault("POSTHOG_PROJECT_ID", "")
	v.SetDefault("POSTHOG_PROJECT_API_KEY", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, wrapError(KindAPI, err, "loading environment config")
	}
	return cfg, nil
}

// resolve fills zero-value fields of c from env, applies defaults, and
// validates required credentials.
func (c Config) resolve() (Config, error) {
	env, err := loadEnv()
	if err != nil {
		return Config{}, err
	}

	if c.APIURL == "" {
		c.APIURL = env.APIURL
	}
	if c.APIKey == "" {
		c.APIKey = env.APIKey
	}
	if c.ProjectID == "" {
		c.ProjectID = env.ProjectID
	}
	if c.ProjectAPIKey == "" {
		c.ProjectAPIKey = env.ProjectAPIKey
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}

	if c.APIKey == "" {
		return Config{}, newError(KindAuthentication,
			"personal API key required: set POSTHOG_PERSONAL_API_KEY or pass Config.APIKey")
	}
	if c.ProjectID == "" {
		return Config{}, newError(KindAPI,
			"project ID required: set POSTHOG_PROJECT_ID or pass Config.ProjectID")
	}

	return c, nil
}

// captureHost derives the ingestion host from the API URL by rewriting the
// first "posthog.com" occurrence to "i.posthog.com", turning
// https://us.posthog.com into https://us.i.posthog.com. Self-hosted URLs
// without that suffix pass through unchanged.
func captureHost(apiURL string) string {
	return strings.Replace(apiURL, "posthog.com", "i.posthog.com", 1)
}
