package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tinytelemetry/backoffice/internal/auth"
	"github.com/tinytelemetry/backoffice/internal/duckdb"
	"github.com/tinytelemetry/backoffice/internal/logging"
	"github.com/tinytelemetry/backoffice/internal/mockdata"
	"github.com/tinytelemetry/backoffice/internal/screens"
	"github.com/tinytelemetry/backoffice/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var token string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/backoffice/config.yml)")
	flag.StringVar(&token, "token", "", "session token to sign in with (overrides config)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Backoffice CLI - Admin Console\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if token != "" {
		cfg.Token = token
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	// The console owns the terminal, so logs never fall back to it.
	cleanupLogger := logging.Configure("backoffice", cfg.LogLevel, io.Discard)
	defer cleanupLogger()

	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	counts, err := store.Counts()
	if err != nil {
		return fmt.Errorf("reading record counts: %w", err)
	}
	empty := true
	for _, c := range counts {
		empty = empty && c == 0
	}
	if empty {
		if err := store.Seed(mockdata.NewDataset(cfg.Seed, cfg.RecordCount)); err != nil {
			return fmt.Errorf("failed to seed records: %w", err)
		}
	}

	sessions := auth.NewSessionStore(cfg.SessionTTL)
	sessions.GrantAll(cfg.Sessions)
	if cfg.Token == "" {
		// No token: sign in locally with the configured role.
		cfg.Token = uuid.NewString()
		sessions.Grant(cfg.Token, cfg.Role)
	}
	guard := sessions.Guard(cfg.Token)
	if !guard.IsAuthenticated() {
		log.Warn().Msg("console started without a valid session")
	}

	catalog := screens.NewCatalog(screens.Deps{Store: store, Operator: cfg.Operator})
	app, err := tui.NewConsole(catalog, guard, tui.TableOptions{
		PageSize:           cfg.PageSize,
		MenuWidth:          cfg.MenuWidth,
		ReverseScrollWheel: cfg.ReverseScrollWheel,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
