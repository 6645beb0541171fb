// Package config loads the service configuration: the identity this
// service presents to external providers and the record store
// connection.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	Crossref    CrossrefConfig    `yaml:"crossref"`
	OpenLibrary OpenLibraryConfig `yaml:"openlibrary"`
	Store       StoreConfig       `yaml:"store"`
}

// ServiceConfig identifies this deployment. The values feed the
// etiquette presented to external bibliographic providers.
type ServiceConfig struct {
	// Name identifies the service in outbound requests.
	Name string `yaml:"name"`
	// Version is the deployed service version.
	Version string `yaml:"version"`
	// URL is the public URL of this deployment.
	URL string `yaml:"url"`
	// Email is the operator contact address.
	Email string `yaml:"email"`
}

// CrossrefConfig configures the Crossref client.
type CrossrefConfig struct {
	// APIBase is the Crossref REST API root.
	APIBase string `yaml:"api_base"`
	// Timeout bounds one API call.
	Timeout time.Duration `yaml:"timeout"`
}

// OpenLibraryConfig configures the OpenLibrary client.
type OpenLibraryConfig struct {
	// APIBase is the OpenLibrary API root.
	APIBase string `yaml:"api_base"`
	// Timeout bounds one API call.
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig configures the physical-record store.
type StoreConfig struct {
	// DSN is the PostgreSQL connection string. Empty means no store.
	DSN string `yaml:"dsn"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:    "bibcompose",
			Version: "dev",
		},
		Crossref: CrossrefConfig{
			APIBase: "https://api.crossref.org",
			Timeout: 10 * time.Second,
		},
		OpenLibrary: OpenLibraryConfig{
			APIBase: "https://openlibrary.org",
			Timeout: 10 * time.Second,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return fmt.Errorf("service.name is required")
	}
	if c.Crossref.APIBase == "" {
		return fmt.Errorf("crossref.api_base is required")
	}
	if c.Crossref.Timeout <= 0 {
		return fmt.Errorf("crossref.timeout must be positive")
	}
	if c.OpenLibrary.APIBase == "" {
		return fmt.Errorf("openlibrary.api_base is required")
	}
	if c.OpenLibrary.Timeout <= 0 {
		return fmt.Errorf("openlibrary.timeout must be positive")
	}
	return nil
}

// LoadFromFile reads a YAML configuration file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Load layers defaults, the optional YAML file at path, and environment
// overrides, in increasing precedence, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BIBCOMPOSE_SERVICE_NAME"); v != "" {
		c.Service.Name = v
	}
	if v := os.Getenv("BIBCOMPOSE_SERVICE_EMAIL"); v != "" {
		c.Service.Email = v
	}
	if v := os.Getenv("BIBCOMPOSE_CROSSREF_API_BASE"); v != "" {
		c.Crossref.APIBase = v
	}
	if v := os.Getenv("BIBCOMPOSE_OPENLIBRARY_API_BASE"); v != "" {
		c.OpenLibrary.APIBase = v
	}
	if v := os.Getenv("BIBCOMPOSE_STORE_DSN"); v != "" {
		c.Store.DSN = v
	}
}
