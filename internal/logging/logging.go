// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dir returns the directory runtime logs are written to.
func Dir(home, app string) string {
	return filepath.Join(home, ".local", "state", app)
}

// Configure points the global logger at ~/.local/state/<app>/<app>.log and
// sets the level. When the file cannot be opened it logs to fallback instead;
// pass io.Discard when the process owns the terminal. The returned func
// closes the file.
func Configure(app, level string, fallback io.Writer) func() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(ParseLevel(level))

	f, err := open(app)
	if err != nil {
		if fallback == nil {
			fallback = io.Discard
		}
		useWriter(fallback)
		log.Warn().Err(err).Msg("runtime log file unavailable, using fallback writer")
		return func() {}
	}

	useWriter(f)
	return func() {
		_ = f.Close()
	}
}

// Console returns a human-readable writer on stderr.
func Console() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
}

func open(app string) (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := Dir(home, app)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, app+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func useWriter(w io.Writer) {
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
