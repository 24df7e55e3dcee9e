package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/ai-stats/ai-stats-go/core/client"
	"github.com/ai-stats/ai-stats-go/core/cost"
	"github.com/ai-stats/ai-stats-go/core/devtools"
	"github.com/ai-stats/ai-stats-go/core/transport"
)

// DotEnvFile is loaded from the working directory by Load. Variables already
// present in the environment are left alone.
const DotEnvFile = ".env"

// Config holds everything needed to build a client.
type Config struct {
	APIKey  string        `yaml:"-" env:"AI_STATS_API_KEY"` // Secret - not in YAML
	BaseURL string        `yaml:"base_url" env:"AI_STATS_BASE_URL" env-default:"https://api.phaseo.app/v1"`
	Timeout time.Duration `yaml:"timeout" env:"AI_STATS_TIMEOUT"`

	Devtools DevtoolsConfig `yaml:"devtools"`
}

// DevtoolsConfig mirrors devtools.Config. AI_STATS_DEVTOOLS and
// AI_STATS_DEVTOOLS_DIR are applied later by the recorder itself.
type DevtoolsConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Directory      string `yaml:"directory"`
	CaptureHeaders bool   `yaml:"capture_headers" env:"AI_STATS_DEVTOOLS_HEADERS"`
	// SaveAssets defaults to true when omitted.
	SaveAssets *bool `yaml:"save_assets"`
	// PricingFile is a JSON cost.Table used to estimate per-entry cost.
	PricingFile string `yaml:"pricing_file" env:"AI_STATS_PRICING_FILE"`

	pricing cost.Table
}

// Load reads DotEnvFile, then path (skipped when empty or missing), then the
// environment. Environment variables override YAML values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}
	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout %s", cfg.Timeout)
	}
	if cfg.Devtools.PricingFile != "" {
		table, err := cost.LoadTable(cfg.Devtools.PricingFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load pricing: %w", err)
		}
		cfg.Devtools.pricing = table
	}
	return cfg, nil
}

// DevtoolsSettings converts the devtools section for devtools.New.
func (c *Config) DevtoolsSettings() devtools.Config {
	out := devtools.DefaultConfig()
	out.Enabled = c.Devtools.Enabled
	out.Directory = c.Devtools.Directory
	out.CaptureHeaders = c.Devtools.CaptureHeaders
	if c.Devtools.SaveAssets != nil {
		out.SaveAssets = *c.Devtools.SaveAssets
	}
	out.Pricing = c.Devtools.pricing
	return out
}

// ClientOptions turns the settings into client options. The API key is not
// an option; pass it to client.New or use NewClient.
func (c *Config) ClientOptions() []client.Option {
	opts := []client.Option{client.WithDevtools(c.DevtoolsSettings())}
	if c.BaseURL != "" && c.BaseURL != transport.DefaultBaseURL {
		opts = append(opts, client.WithBaseURL(c.BaseURL))
	}
	if c.Timeout > 0 {
		opts = append(opts, client.WithTimeout(c.Timeout))
	}
	return opts
}

// NewClient builds a client from the settings. Options in extra are applied
// after the configured ones.
func (c *Config) NewClient(extra ...client.Option) (*client.Client, error) {
	return client.New(c.APIKey, append(c.ClientOptions(), extra...)...)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
