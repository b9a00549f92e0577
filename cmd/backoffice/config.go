package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/backoffice/internal/model"
)

const (
	defaultBindHost   = "127.0.0.1"
	defaultAPIPort    = 3000
	defaultMenuWidth  = 160
	defaultLogLevel   = "info"
	maxRecordsPerKind = 100_000
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	APIEnabled   bool              `mapstructure:"api-enabled"`
	APIPort      int               `mapstructure:"api-port"`
	APIAddr      string            `mapstructure:"api-addr"`
	Seed         int64             `mapstructure:"seed"`
	RecordCount  int               `mapstructure:"record-count"`
	PageSize     int               `mapstructure:"page-size"`
	MenuWidth    int               `mapstructure:"menu-width"`
	DBPath       string            `mapstructure:"db-path"`
	QueryTimeout time.Duration     `mapstructure:"query-timeout"`
	LogLevel     string            `mapstructure:"log-level"`
	Sessions     map[string]string `mapstructure:"sessions"`
	SessionTTL   time.Duration     `mapstructure:"session-ttl"`
	ConfigPath   string            `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BACKOFFICE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("seed", model.DefaultSeed)
	v.SetDefault("record-count", model.DefaultRecordCount)
	v.SetDefault("page-size", model.DefaultPageSize)
	v.SetDefault("menu-width", defaultMenuWidth)
	v.SetDefault("db-path", "")
	v.SetDefault("query-timeout", model.DefaultQueryTimeout)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("session-ttl", model.DefaultSessionTTL)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "backoffice", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		cfg.ConfigPath = ""
	}

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.RecordCount < 0 || cfg.RecordCount > maxRecordsPerKind {
		return cfg, fmt.Errorf("invalid record-count: %d", cfg.RecordCount)
	}
	if cfg.PageSize <= 0 {
		return cfg, fmt.Errorf("invalid page-size: %d", cfg.PageSize)
	}
	for token, role := range cfg.Sessions {
		if !model.ValidRole(role) {
			return cfg, fmt.Errorf("session %q has unknown role %q", token, role)
		}
	}

	// Expand ~ in db-path
	if strings.HasPrefix(cfg.DBPath, "~/") {
		cfg.DBPath = filepath.Join(home, cfg.DBPath[2:])
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
