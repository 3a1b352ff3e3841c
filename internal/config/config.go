package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	MailerLite MailerLiteConfig `yaml:"mailerlite"`
	Auth       AuthConfig       `yaml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GetHost returns the configured host, defaulting to localhost
func (c ServerConfig) GetHost() string {
	if c.Host == "" {
		return "localhost"
	}
	return c.Host
}

// MailerLiteConfig holds MailerLite API configuration. The default API key
// serves country-less operations (groups, group listings, create); the
// per-country keys scope subscriber lookups to one tenant each.
type MailerLiteConfig struct {
	BaseURL        string            `yaml:"base_url"`
	APIKey         string            `yaml:"api_key"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	CountryKeys    map[string]string `yaml:"country_keys"`
}

// Timeout returns the configured timeout as a duration
func (c MailerLiteConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AuthConfig holds the optional API bearer token. When empty, the JSON API
// is open (local/dev); when set, every /api route requires it.
type AuthConfig struct {
	APIToken string `yaml:"api_token"`
}

// SupportedCountries is the fixed set of country tenants.
var SupportedCountries = []string{"IRELAND", "BRITAIN", "AUSTRALIA", "AMERICA", "CANADA"}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.MailerLite.BaseURL == "" {
		c.MailerLite.BaseURL = "https://api.mailerlite.com/api/v2/"
	}
	if c.MailerLite.TimeoutSeconds == 0 {
		c.MailerLite.TimeoutSeconds = 30
	}
	if c.MailerLite.CountryKeys == nil {
		c.MailerLite.CountryKeys = map[string]string{}
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so keys can live in .env locally and in real env vars in deployment.
// A missing config file is not fatal; env vars alone can configure the app.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = &Config{}
		cfg.applyDefaults()
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MAILERLITE_BASE_URL"); v != "" {
		cfg.MailerLite.BaseURL = v
	}
	if v := os.Getenv("MAILERLITE_API_KEY"); v != "" {
		cfg.MailerLite.APIKey = v
	}
	for _, country := range SupportedCountries {
		if v := os.Getenv("MAILERLITE_API_KEY_" + country); v != "" {
			cfg.MailerLite.CountryKeys[strings.ToLower(country)] = v
		}
	}
	if v := os.Getenv("PORTAL_API_TOKEN"); v != "" {
		cfg.Auth.APIToken = v
	}

	return cfg, nil
}

// CountryKey returns the API key configured for a country (lowercased
// lookup) or the empty string when none is set.
func (c MailerLiteConfig) CountryKey(country string) string {
	return c.CountryKeys[strings.ToLower(country)]
}
