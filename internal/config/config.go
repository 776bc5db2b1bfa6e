package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a ledger directory.
const FileName = "ledger.yaml"

// Store drivers.
const (
	DriverCSV  = "csv"
	DriverBolt = "bolt"
)

// Config represents the top-level ledger.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Currency CurrencyConfig `yaml:"currency"`
	Store    StoreConfig    `yaml:"store"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name    string `yaml:"name"`
	Profile string `yaml:"profile"` // default chart profile, e.g. "freight"
}

// CurrencyConfig controls how amounts are rendered.
type CurrencyConfig struct {
	Code            string `yaml:"code"`
	ReportDecimals  int    `yaml:"report_decimals"`
	SummaryDecimals int    `yaml:"summary_decimals"`
}

// StoreConfig selects the account store. Path is relative to the ledger
// directory unless absolute.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig sets the structured log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a ledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:    businessName,
			Profile: "freight",
		},
		Currency: CurrencyConfig{
			Code:            "EGP",
			ReportDecimals:  2,
			SummaryDecimals: 0,
		},
		Store: StoreConfig{
			Driver: DriverCSV,
			Path:   ".",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Ledger",
			AuthorEmail: "ledger@cleared.dev",
		},
	}
}

// Validate checks values that Load cannot.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverCSV, DriverBolt:
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	if c.Currency.Code == "" {
		return fmt.Errorf("currency.code is required")
	}
	if c.Currency.ReportDecimals < 0 || c.Currency.SummaryDecimals < 0 {
		return fmt.Errorf("currency decimals must not be negative")
	}
	return nil
}

// LoadEnv loads a .env file into the process environment. An empty path
// tries ./.env and ignores a missing file; a malformed one is still an error.
func LoadEnv(path string) error {
	if path == "" {
		err := godotenv.Load()
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading .env: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from LEDGER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("LEDGER_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("LEDGER_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("LEDGER_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LEDGER_CURRENCY"); v != "" {
		c.Currency.Code = v
	}
	if v := os.Getenv("LEDGER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LEDGER_GIT_AUTO_COMMIT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LEDGER_GIT_AUTO_COMMIT: %w", err)
		}
		c.Git.AutoCommit = b
	}
	return nil
}
