package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the podgenius service.
// Environment variables are parsed from the PODGENIUS_ prefix,
// e.g. PODGENIUS_HTTP_PORT, PODGENIUS_EXA_API_KEY.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// User record store: file | sqlite | postgres
	StoreDriver string `envconfig:"STORE_DRIVER" default:"file"`
	DataDir     string `envconfig:"DATA_DIR" default:"./data"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Research provider (Exa)
	ExaAPIKey  string `envconfig:"EXA_API_KEY" default:""`
	ExaBaseURL string `envconfig:"EXA_BASE_URL" default:"https://api.exa.ai"`

	// Script / narration provider (OpenAI)
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`

	// Google OAuth (Gmail / Calendar connect flow)
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID" default:""`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET" default:""`
	GoogleRedirectURI  string `envconfig:"GOOGLE_REDIRECT_URI" default:""`

	// Pre-provisioned YouTube upload credentials
	YouTubeAccessToken  string `envconfig:"YOUTUBE_ACCESS_TOKEN" default:""`
	YouTubeRefreshToken string `envconfig:"YOUTUBE_REFRESH_TOKEN" default:""`
	YouTubeTokenExpiry  string `envconfig:"YOUTUBE_TOKEN_EXPIRY" default:""`

	// Public base URL used to resolve the placeholder cover image
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:3000"`

	// Health monitoring
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates the store driver and derives driver-specific paths.
func (c *Config) ResolveDefaults() error {
	if c.StoreDriver == "" || c.StoreDriver == "auto" {
		c.StoreDriver = "file"
	}

	allowed := map[string]bool{"file": true, "sqlite": true, "postgres": true}
	if !allowed[c.StoreDriver] {
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}

	if c.StoreDriver == "sqlite" && c.SQLitePath == "" {
		c.SQLitePath = c.DataDir + "/podgenius.db"
	}
	if c.StoreDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
	}
	return nil
}

// New creates a Config by parsing PODGENIUS_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PODGENIUS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewForTesting returns a config suitable for unit tests: file store under a
// caller-supplied directory, no provider keys.
func NewForTesting(dataDir string) *Config {
	cfg := &Config{
		HTTPPort:                  8080,
		StoreDriver:               "file",
		DataDir:                   dataDir,
		ExaBaseURL:                "https://api.exa.ai",
		OpenAIBaseURL:             "https://api.openai.com",
		PublicBaseURL:             "http://localhost:3000",
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 2,
	}
	return cfg
}

// GetHTTPAddr returns the HTTP server bind address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
