package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var configPath string
	var showVersion, printConfig bool

	fs := flag.NewFlagSet("backoffice", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/backoffice/config.yml)")
	fs.BoolVar(&showVersion, "version", false, "print version and dataset information")
	fs.BoolVar(&printConfig, "print-config", false, "print the effective configuration and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(configPath)
	if showVersion {
		writeVersion(stdout, cfg, err)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if printConfig {
		if err := encodeConfig(stdout, cfg); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := runServer(cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// writeVersion prints build metadata and the dataset this configuration
// would serve. A config error is reported inline; build info still prints.
func writeVersion(w io.Writer, cfg appConfig, cfgErr error) {
	fmt.Fprintf(w, "Backoffice - Admin API Service\n")
	fmt.Fprintf(w, "  Version:    %s\n", version)
	fmt.Fprintf(w, "  Commit:     %s\n", commit)
	fmt.Fprintf(w, "  Built:      %s\n", buildTime)
	fmt.Fprintf(w, "  Go version: %s\n", goVersion)
	if cfgErr != nil {
		fmt.Fprintf(w, "  Config:     invalid (%v)\n", cfgErr)
		return
	}
	fmt.Fprintf(w, "  Dataset:    seed %d, %d records per table\n", cfg.Seed, cfg.RecordCount)
	store := "in-memory"
	if cfg.DBPath != "" {
		store = cfg.DBPath
	}
	fmt.Fprintf(w, "  Store:      %s\n", store)
}

// printedConfig is the YAML shape of -print-config. Session tokens are
// masked; only their roles are shown.
type printedConfig struct {
	APIEnabled   bool              `yaml:"api-enabled"`
	APIAddr      string            `yaml:"api-addr"`
	Seed         int64             `yaml:"seed"`
	RecordCount  int               `yaml:"record-count"`
	PageSize     int               `yaml:"page-size"`
	MenuWidth    int               `yaml:"menu-width"`
	DBPath       string            `yaml:"db-path"`
	QueryTimeout string            `yaml:"query-timeout"`
	LogLevel     string            `yaml:"log-level"`
	SessionTTL   string            `yaml:"session-ttl"`
	Sessions     map[string]string `yaml:"sessions,omitempty"`
	ConfigPath   string            `yaml:"config-file,omitempty"`
}

func encodeConfig(w io.Writer, cfg appConfig) error {
	out := printedConfig{
		APIEnabled:   cfg.APIEnabled,
		APIAddr:      cfg.APIAddr,
		Seed:         cfg.Seed,
		RecordCount:  cfg.RecordCount,
		PageSize:     cfg.PageSize,
		MenuWidth:    cfg.MenuWidth,
		DBPath:       cfg.DBPath,
		QueryTimeout: cfg.QueryTimeout.String(),
		LogLevel:     cfg.LogLevel,
		SessionTTL:   cfg.SessionTTL.String(),
		ConfigPath:   cfg.ConfigPath,
	}
	if len(cfg.Sessions) > 0 {
		tokens := make([]string, 0, len(cfg.Sessions))
		for tok := range cfg.Sessions {
			tokens = append(tokens, tok)
		}
		sort.Strings(tokens)
		out.Sessions = make(map[string]string, len(tokens))
		for i, tok := range tokens {
			out.Sessions[maskToken(tok, i)] = cfg.Sessions[tok]
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// maskToken keeps a short prefix so operators can tell tokens apart.
func maskToken(tok string, i int) string {
	if len(tok) > 4 {
		return fmt.Sprintf("%s****#%d", tok[:4], i+1)
	}
	return fmt.Sprintf("****#%d", i+1)
}
