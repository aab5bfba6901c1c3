// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/planner/db"
)

// DefaultSQLiteURL is used when the sqlite dialect is selected without a URL.
const DefaultSQLiteURL = "file:planner.db"

type Config struct {
	Port         int    `yaml:"port" envconfig:"PORT"`
	DatabaseURL  string `yaml:"database_url" envconfig:"DATABASE_URL"`
	DatabaseType string `yaml:"database_type" envconfig:"DATABASE_TYPE"`
	TokenSecret  string `yaml:"token_secret" envconfig:"TOKEN_SECRET"`
	LogLevel     string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat    string `yaml:"log_format" envconfig:"LOG_FORMAT"`
	ConfigFile   string `yaml:"-" envconfig:"CONFIG_FILE"`
}

// overlay copies the non-zero fields of src onto c.
func (c *Config) overlay(src Config) {
	if src.Port != 0 {
		c.Port = src.Port
	}
	if src.DatabaseURL != "" {
		c.DatabaseURL = src.DatabaseURL
	}
	if src.DatabaseType != "" {
		c.DatabaseType = src.DatabaseType
	}
	if src.TokenSecret != "" {
		c.TokenSecret = src.TokenSecret
	}
	if src.LogLevel != "" {
		c.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		c.LogFormat = src.LogFormat
	}
	if src.ConfigFile != "" {
		c.ConfigFile = src.ConfigFile
	}
}

// ParseFlags resolves the configuration. CLI flags win over environment
// variables, which win over the YAML config file, which wins over defaults.
// A .env file in the working directory is loaded first when present.
func ParseFlags(args []string) (Config, error) {
	var cli Config

	fs := flag.NewFlagSet("planner", flag.ContinueOnError)

	fs.IntVar(&cli.Port, "p", 0, "Server port")
	fs.StringVar(&cli.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cli.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cli.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cli.LogFormat, "log-format", "", "Log format (text or json)")
	fs.StringVar(&cli.ConfigFile, "c", "", "YAML config file")

	// Prefer env for secrets, but allow CLI for dev
	fs.StringVar(&cli.TokenSecret, "token-secret", "", "Token signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	cfg := Config{
		Port:      3318,
		LogLevel:  "info",
		LogFormat: "text",
	}

	path := cli.ConfigFile
	if path == "" {
		path = env.ConfigFile
	}
	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg.overlay(file)
		cfg.ConfigFile = path
	}

	cfg.overlay(env)
	cfg.overlay(cli)

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return Config{}, err
	}
	cfg.DatabaseType = string(dialect)

	if cfg.DatabaseURL == "" {
		if dialect != db.SQLite {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLiteURL
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	// Secrets - MUST be provided
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("TOKEN_SECRET required")
	}

	return cfg, nil
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}
