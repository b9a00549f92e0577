package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/backoffice/internal/model"
)

// cliConfig holds only console-relevant configuration.
type cliConfig struct {
	Seed               int64             `mapstructure:"seed"`
	RecordCount        int               `mapstructure:"record-count"`
	PageSize           int               `mapstructure:"page-size"`
	DBPath             string            `mapstructure:"db-path"`
	QueryTimeout       time.Duration     `mapstructure:"query-timeout"`
	LogLevel           string            `mapstructure:"log-level"`
	Sessions           map[string]string `mapstructure:"sessions"`
	SessionTTL         time.Duration     `mapstructure:"session-ttl"`
	Token              string            `mapstructure:"token"`
	Role               string            `mapstructure:"role"`
	Operator           string            `mapstructure:"operator"`
	ReverseScrollWheel bool              `mapstructure:"reverse-scroll-wheel"`
	MenuWidth          int               `mapstructure:"menu-width"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BACKOFFICE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("seed", model.DefaultSeed)
	v.SetDefault("record-count", model.DefaultRecordCount)
	v.SetDefault("page-size", model.DefaultPageSize)
	v.SetDefault("db-path", "")
	v.SetDefault("query-timeout", model.DefaultQueryTimeout)
	v.SetDefault("log-level", "info")
	v.SetDefault("session-ttl", model.DefaultSessionTTL)
	v.SetDefault("token", "")
	v.SetDefault("role", model.RoleAdmin)
	v.SetDefault("operator", os.Getenv("USER"))
	v.SetDefault("reverse-scroll-wheel", false)
	v.SetDefault("menu-width", 22)

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

	if cfg.PageSize <= 0 {
		return cfg, fmt.Errorf("invalid page-size: %d", cfg.PageSize)
	}
	if cfg.Token == "" && !model.ValidRole(cfg.Role) {
		return cfg, fmt.Errorf("invalid role: %q", cfg.Role)
	}
	if strings.HasPrefix(cfg.DBPath, "~/") {
		cfg.DBPath = filepath.Join(home, cfg.DBPath[2:])
	}
	return cfg, nil
}
