// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "DOCREDACT_"

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	NER     NERConfig     `yaml:"ner"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	PDF     PDFConfig     `yaml:"pdf"`

	// Default settings applied when a request or command names none
	Defaults struct {
		Settings []string `yaml:"settings"`
	} `yaml:"defaults"`

	// Named settings presets selectable from the CLI
	Profiles map[string]Profile `yaml:"profiles"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	RateLimit       struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// NERConfig points at the optional name-recognition sidecar. An empty URL
// selects the regex name strategy.
type NERConfig struct {
	URL              string        `yaml:"url"`
	Timeout          time.Duration `yaml:"timeout"`
	Retries          int           `yaml:"retries"`
	BreakerThreshold int           `yaml:"breaker_threshold"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout"`
	HealthInterval   time.Duration `yaml:"health_interval"`
}

// LoggingConfig selects log level and output format
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // auto, console or json
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// PDFConfig holds extraction and rendering settings
type PDFConfig struct {
	Validate     bool `yaml:"validate"`
	MaxPages     int  `yaml:"max_pages"`
	SkipBadPages bool `yaml:"skip_bad_pages"`
	FontSize     int  `yaml:"font_size"`
	MaxLineChars int  `yaml:"max_line_chars"`
}

// Profile is a named list of enabled settings
type Profile struct {
	Description string   `yaml:"description"`
	Settings    []string `yaml:"settings"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    32 << 20,
		},
		NER: NERConfig{
			Timeout:          10 * time.Second,
			Retries:          2,
			BreakerThreshold: 5,
			BreakerTimeout:   15 * time.Second,
			HealthInterval:   30 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "auto"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		PDF:     PDFConfig{SkipBadPages: true, FontSize: 10, MaxLineChars: 90},
		Profiles: map[string]Profile{
			"contact": {
				Description: "Emails and phone numbers only",
				Settings:    []string{"emails", "phones"},
			},
		},
	}
	cfg.Server.RateLimit.RPS = 20
	cfg.Server.RateLimit.Burst = 40
	cfg.Defaults.Settings = []string{"emails", "phones", "addresses", "names"}
	return cfg
}

// LoadConfig loads configuration from the specified file path, then applies
// .env and DOCREDACT_* environment overrides. An empty path skips the file.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(filepath.Clean(configPath))
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Best-effort: a missing .env is normal
	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads configFile (or searches standard locations when
// it is empty). On failure it returns the defaults together with the error
// so the caller can log it.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// FindConfigFile looks in the current directory, then in the user config
// directory. It returns "" when nothing is found.
func FindConfigFile() string {
	for _, name := range []string{"docredact.yaml", "docredact.yml", ".docredact.yaml"} {
		if fileExists(name) {
			return name
		}
	}

	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, "docredact", name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

type lookupFunc func(string) (string, bool)

// applyEnv overrides fields from DOCREDACT_* variables.
func (c *Config) applyEnv(lookup lookupFunc) error {
	env := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := env("ADDR"); ok {
		c.Server.Addr = v
	} else if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		c.Server.Addr = ":" + strings.TrimSpace(v)
	}
	if v, ok := env("NER_URL"); ok {
		c.NER.URL = strings.TrimRight(v, "/")
	}
	if v, ok := env("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := env("LOG_FORMAT"); ok {
		c.Logging.Format = v
	}

	durations := map[string]*time.Duration{
		"NER_TIMEOUT":     &c.NER.Timeout,
		"READ_TIMEOUT":    &c.Server.ReadTimeout,
		"WRITE_TIMEOUT":   &c.Server.WriteTimeout,
		"HEALTH_INTERVAL": &c.NER.HealthInterval,
	}
	for name, dst := range durations {
		if v, ok := env(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = d
		}
	}

	bools := map[string]*bool{
		"METRICS_ENABLED": &c.Metrics.Enabled,
		"PDF_VALIDATE":    &c.PDF.Validate,
	}
	for name, dst := range bools {
		if v, ok := env(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = b
		}
	}

	if v, ok := env("RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT_RPS: %w", EnvPrefix, err)
		}
		c.Server.RateLimit.RPS = f
	}
	if v, ok := env("MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_BODY_BYTES: %w", EnvPrefix, err)
		}
		c.Server.MaxBodyBytes = n
	}
	return nil
}

var (
	validLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"auto": true, "console": true, "json": true}
	validKeys    = map[string]bool{"emails": true, "phones": true, "addresses": true, "names": true, "all": true}
)

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Server.RateLimit.RPS < 0 || c.Server.RateLimit.Burst < 0 {
		return fmt.Errorf("server.rate_limit values must not be negative")
	}
	if c.Server.RateLimit.RPS > 0 && c.Server.RateLimit.Burst == 0 {
		return fmt.Errorf("server.rate_limit.burst must be set when rps is")
	}

	if c.NER.URL != "" && !strings.HasPrefix(c.NER.URL, "http://") && !strings.HasPrefix(c.NER.URL, "https://") {
		return fmt.Errorf("ner.url must be an http(s) URL, got %q", c.NER.URL)
	}
	if c.NER.Timeout <= 0 {
		return fmt.Errorf("ner.timeout must be positive")
	}
	if c.NER.Retries < 0 {
		return fmt.Errorf("ner.retries must not be negative")
	}
	if c.NER.HealthInterval <= 0 {
		return fmt.Errorf("ner.health_interval must be positive")
	}

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level)
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format %q is not one of auto, console, json", c.Logging.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	if c.PDF.MaxPages < 0 {
		return fmt.Errorf("pdf.max_pages must not be negative")
	}
	if c.PDF.FontSize <= 0 || c.PDF.MaxLineChars <= 0 {
		return fmt.Errorf("pdf.font_size and pdf.max_line_chars must be positive")
	}

	if err := validateSettings("defaults.settings", c.Defaults.Settings); err != nil {
		return err
	}
	for name, p := range c.Profiles {
		if err := validateSettings("profiles."+name+".settings", p.Settings); err != nil {
			return err
		}
	}
	return nil
}

func validateSettings(field string, keys []string) error {
	for _, k := range keys {
		if !validKeys[strings.ToLower(strings.TrimSpace(k))] {
			return fmt.Errorf("%s: unknown setting %q", field, k)
		}
	}
	return nil
}

// ListProfiles returns the profile names in sorted order
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProfile returns the named profile or nil
func (c *Config) GetProfile(name string) *Profile {
	if p, ok := c.Profiles[name]; ok {
		return &p
	}
	return nil
}
