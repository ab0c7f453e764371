package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default provider endpoints. Every endpoint can be overridden in the config,
// which also lets tests point tools at local servers.
const (
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	defaultCryptoURL   = "https://api.coingecko.com/api/v3/simple/price"
	defaultFiatURL     = "https://api.exchangerate.host/latest"
)

// defaultTimeout bounds each tool invocation when the config does not set one.
const defaultTimeout = 15 * time.Second

// Config is the top-level engine configuration.
type Config struct {
	Timeout string        `yaml:"timeout"` // Per-call deadline as a duration string (e.g. "15s").
	Search  SearchConfig  `yaml:"search"`
	Weather WeatherConfig `yaml:"weather"`
	Rates   RatesConfig   `yaml:"rates"`
	Files   FilesConfig   `yaml:"files"`
	Memory  MemoryConfig  `yaml:"memory"`
	QR      QRConfig      `yaml:"qr"`
}

// SearchConfig holds the text-search provider settings.
type SearchConfig struct {
	BaseURL string `yaml:"base_url"`
}

// WeatherConfig holds the geocoding and forecast provider settings.
type WeatherConfig struct {
	GeocodeURL  string `yaml:"geocode_url"`
	ForecastURL string `yaml:"forecast_url"`
}

// RatesConfig holds the crypto and fiat price provider settings.
type RatesConfig struct {
	CryptoURL string `yaml:"crypto_url"`
	FiatURL   string `yaml:"fiat_url"`
}

// FilesConfig holds the file tool settings.
type FilesConfig struct {
	Root string `yaml:"root"`
}

// MemoryConfig holds the note store settings.
type MemoryConfig struct {
	Dir string `yaml:"dir"`
}

// QRConfig holds the QR code output settings.
type QRConfig struct {
	Dir string `yaml:"dir"`
}

// LoadConfig reads a YAML file and returns a Config. Environment variables
// referenced as ${VAR} or $VAR in the YAML are expanded before parsing, so
// secrets and machine-specific paths can live in the environment.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// withDefaults returns a copy of the config with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.Weather.GeocodeURL == "" {
		c.Weather.GeocodeURL = defaultGeocodeURL
	}
	if c.Weather.ForecastURL == "" {
		c.Weather.ForecastURL = defaultForecastURL
	}
	if c.Rates.CryptoURL == "" {
		c.Rates.CryptoURL = defaultCryptoURL
	}
	if c.Rates.FiatURL == "" {
		c.Rates.FiatURL = defaultFiatURL
	}
	if c.Files.Root == "" {
		c.Files.Root = "."
	}
	if c.Memory.Dir == "" {
		c.Memory.Dir = ".multitool/memory"
	}
	if c.QR.Dir == "" {
		c.QR.Dir = ".multitool/qr"
	}

	return c
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Search.BaseURL == "" {
		return fmt.Errorf("engine: config: search.base_url is required")
	}

	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("engine: config: invalid timeout %q: %w", c.Timeout, err)
		}
	}

	return nil
}

// timeout returns the configured per-call deadline.
func (c Config) timeout() time.Duration {
	if c.Timeout == "" {
		return defaultTimeout
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return defaultTimeout
	}

	return d
}
