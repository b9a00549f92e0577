package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tinytelemetry/backoffice/internal/auth"
	"github.com/tinytelemetry/backoffice/internal/duckdb"
	"github.com/tinytelemetry/backoffice/internal/httpserver"
	"github.com/tinytelemetry/backoffice/internal/logging"
	"github.com/tinytelemetry/backoffice/internal/mockdata"
	"github.com/tinytelemetry/backoffice/internal/model"
	"github.com/tinytelemetry/backoffice/internal/screens"
	"golang.org/x/sync/errgroup"
)

// runServer serves the back-office API over a seeded record store until
// interrupted.
func runServer(cfg appConfig) error {
	cleanupLogger := logging.Configure("backoffice", cfg.LogLevel, logging.Console())
	defer cleanupLogger()

	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	seeded, err := seedIfEmpty(store, cfg.Seed, cfg.RecordCount)
	if err != nil {
		return fmt.Errorf("failed to seed records: %w", err)
	}

	sessions := auth.NewSessionStore(cfg.SessionTTL)
	sessions.GrantAll(cfg.Sessions)
	devToken := ""
	if len(cfg.Sessions) == 0 {
		devToken = uuid.NewString()
		sessions.Grant(devToken, model.RoleAdmin)
		log.Warn().Msg("no sessions configured, issued a one-off admin token")
	}

	catalog := screens.NewCatalog(screens.Deps{Store: store, Operator: "api"})

	var apiServer *httpserver.Server
	if cfg.APIEnabled {
		apiServer = httpserver.NewServer(cfg.APIAddr, catalog, sessions)
		apiServer.PageSize = cfg.PageSize
		apiServer.Geometry.Width = cfg.MenuWidth
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
	}

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg, seeded, devToken)

	g, gctx := errgroup.WithContext(ctx)

	if apiServer != nil {
		g.Go(func() error {
			<-gctx.Done()
			return apiServer.Stop()
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server: errgroup exited with error")
	}

	// If we reach here, graceful shutdown succeeded within the deadline.
	signal.Stop(sigCh)
	return nil
}

// seedIfEmpty fills an empty store with the generated dataset and reports
// whether it did.
func seedIfEmpty(store *duckdb.Store, seed int64, n int) (bool, error) {
	counts, err := store.Counts()
	if err != nil {
		return false, err
	}
	for _, c := range counts {
		if c > 0 {
			return false, nil
		}
	}
	if err := store.Seed(mockdata.NewDataset(seed, n)); err != nil {
		return false, err
	}
	log.Info().Int64("seed", seed).Int("records", n).Msg("seeded record store")
	return true, nil
}

func printStartupBanner(cfg appConfig, seeded bool, devToken string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔╗ ╔═╗╔═╗╦╔═╔═╗╔═╗╔═╗╦╔═╗╔═╗
    ╠╩╗╠═╣║  ╠╩╗║ ║╠╣ ╠╣ ║║  ║╣
    ╚═╝╩ ╩╚═╝╩ ╩╚═╝╚  ╚  ╩╚═╝╚═╝`)

	separator := dim.Render("    ─────────────────────────────────")

	lines := []string{"", logo, "    " + dim.Render("v"+version), "", separator, ""}

	lines = append(lines, bold.Render("    Gateway"), "")
	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Storage"), "")
	storage := "in-memory"
	if cfg.DBPath != "" {
		storage = shortenPath(cfg.DBPath)
	}
	lines = append(lines, fmt.Sprintf("    %s  Storage        %s", check, dim.Render(storage)))
	if seeded {
		lines = append(lines, fmt.Sprintf("    %s  Seed           %s", check, dim.Render(fmt.Sprintf("%d (%d records per screen)", cfg.Seed, cfg.RecordCount))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Seed           %s", dot, dim.Render("existing records kept")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Sessions"), "")
	if devToken != "" {
		lines = append(lines, fmt.Sprintf("    %s  Admin token    %s", check, yellow.Render(devToken)))
	} else {
		roles := make([]string, 0, len(cfg.Sessions))
		for _, role := range cfg.Sessions {
			roles = append(roles, role)
		}
		sort.Strings(roles)
		lines = append(lines, fmt.Sprintf("    %s  Configured     %s", check, dim.Render(strings.Join(roles, ", "))))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
