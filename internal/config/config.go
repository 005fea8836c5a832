package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/Danishh07/paydesk/internal/model"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Feed is an RSS/Atom source mixed into the mediator's article set.
type Feed struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// ProviderConfig points at the upstream content API. The key never
// leaves the server process; browser clients go through the mediated
// endpoint instead.
type ProviderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	NewsQuery string `yaml:"news_query"`
	BlogQuery string `yaml:"blog_query"`
}

// ServerConfig holds the dashboard/mediator HTTP settings.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MediatedURL string `yaml:"mediated_url"`
}

type Config struct {
	RefreshInterval string           `yaml:"refresh_interval"`
	Retention       string           `yaml:"retention"`
	Rates           model.PayoutRate `yaml:"rates"`
	Provider        ProviderConfig   `yaml:"provider"`
	Server          ServerConfig     `yaml:"server"`
	Feeds           []Feed           `yaml:"feeds"`
}

// APIKey returns the resolved provider key (env var wins over config).
func (c *Config) APIKey() string {
	if key := os.Getenv("PAYDESK_API_KEY"); key != "" {
		return key
	}
	return c.Provider.APIKey
}

func (c *Config) RefreshDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return 90 * 24 * time.Hour
	}
	// Support "Nd" day syntax
	if len(c.Retention) > 1 && c.Retention[len(c.Retention)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(c.Retention, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return 90 * 24 * time.Hour
	}
	return d
}

// EnabledFeeds filters the feed list to the active ones.
func (c *Config) EnabledFeeds() []Feed {
	var out []Feed
	for _, f := range c.Feeds {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "paydesk", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "paydesk", "paydesk.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if !cfg.Rates.Valid() {
		return fmt.Errorf("rates: news_rate and blog_rate must be non-negative")
	}
	if cfg.Provider.BaseURL != "" {
		if err := validateURL("provider.base_url", cfg.Provider.BaseURL); err != nil {
			return err
		}
	}
	if cfg.Server.MediatedURL != "" {
		if err := validateURL("server.mediated_url", cfg.Server.MediatedURL); err != nil {
			return err
		}
	}
	for i, f := range cfg.Feeds {
		if f.Name == "" {
			return fmt.Errorf("feed %d: name is required", i)
		}
		if f.URL == "" {
			return fmt.Errorf("feed %q: url is required", f.Name)
		}
		if err := validateURL(fmt.Sprintf("feed %q url", f.Name), f.URL); err != nil {
			return err
		}
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: scheme must be http or https, got %q", field, u.Scheme)
	}
	return nil
}
