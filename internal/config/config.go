// ABOUTME: Configuration loading and parsing for the push notifier
// ABOUTME: Supports YAML files with environment variable expansion and env overrides

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAllowedIPs is the fixed allow-list of UltraDNS egress addresses used
// when IP filtering is enabled and no override is configured.
var DefaultAllowedIPs = []string{
	"52.87.134.132",
	"52.201.155.120",
	"52.201.103.62",
	"52.201.155.234",
	"52.10.123.90",
	"52.10.63.3",
	"52.39.68.132",
}

// Config represents the complete push-notifier configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Security SecurityConfig `yaml:"security"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SecurityConfig holds access-gate configuration
type SecurityConfig struct {
	// FilterIPs enables the source IP allow-list on platform callback routes.
	FilterIPs bool `yaml:"filter_ips"`

	// AllowedIPs overrides the built-in UltraDNS egress address list.
	AllowedIPs []string `yaml:"allowed_ips"`

	// DisableGUI tells the frontend not to expose the setup UI.
	DisableGUI bool `yaml:"disable_gui"`
}

// DispatchConfig holds outbound delivery configuration
type DispatchConfig struct {
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns the configuration used when no config file is present.
// FILTER_IPS and DISABLE_GUI environment variables are still honored.
func Default() *Config {
	cfg := &Config{
		Server:   ServerConfig{HTTPAddr: ":8087"},
		Database: DatabaseConfig{Path: "data/data.db"},
		Dispatch: DispatchConfig{Timeout: 10 * time.Second},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return cfg
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.parseDurations(); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnvOverrides honors the flat environment switches the original
// deployment tooling sets, regardless of config file contents.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FILTER_IPS"); v != "" {
		c.Security.FilterIPs = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("DISABLE_GUI"); v != "" {
		c.Security.DisableGUI = strings.EqualFold(v, "true")
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8087"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/data.db"
	}
	if len(c.Security.AllowedIPs) == 0 {
		c.Security.AllowedIPs = DefaultAllowedIPs
	}
	if c.Dispatch.Timeout == 0 {
		c.Dispatch.Timeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Dispatch.Timeout < 0 {
		return fmt.Errorf("dispatch.timeout must not be negative")
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func (c *Config) parseDurations() error {
	if c.Dispatch.TimeoutRaw != "" {
		timeout, err := time.ParseDuration(c.Dispatch.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing dispatch.timeout %q: %w", c.Dispatch.TimeoutRaw, err)
		}
		c.Dispatch.Timeout = timeout
	}
	return nil
}
