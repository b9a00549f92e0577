// Package migrate applies the embedded, versioned record-store schema.
package migrate

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Runner applies versioned SQL migrations to a DuckDB database.
type Runner struct{ db *sql.DB }

// NewRunner creates a migration runner for the given database connection.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// Migration is one embedded schema step. Files are named NNN_name.sql.
type Migration struct {
	Version int
	Name    string
	sql     string
}

// Migrations returns the embedded migrations ordered by version.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}

	var migs []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			continue
		}
		ver, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("parsing version from %s: %w", e.Name(), err)
		}
		data, err := migrations.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		migs = append(migs, Migration{Version: ver, Name: e.Name(), sql: string(data)})
	}

	slices.SortFunc(migs, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d (%s, %s)", migs[i].Version, migs[i-1].Name, migs[i].Name)
		}
	}
	return migs, nil
}

func (r *Runner) bootstrap(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       VARCHAR NOT NULL,
		applied_at TIMESTAMP DEFAULT current_timestamp
	)`)
	return err
}

func (r *Runner) appliedVersion(ctx context.Context) (int, error) {
	var v sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, err
	}
	if !v.Valid {
		return 0, nil
	}
	return int(v.Int64), nil
}

// Run applies all pending migrations in order.
func (r *Runner) Run() error {
	return r.RunContext(context.Background())
}

// RunContext applies all pending migrations in order. Each migration runs in
// its own transaction and is recorded in schema_migrations.
func (r *Runner) RunContext(ctx context.Context) error {
	if err := r.bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap schema_migrations: %w", err)
	}

	migs, err := Migrations()
	if err != nil {
		return err
	}

	current, err := r.appliedVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading applied version: %w", err)
	}

	for _, m := range migs {
		if m.Version <= current {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return err
		}
		log.Debug().Int("version", m.Version).Str("name", m.Name).Msg("migration applied")
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for %s: %w", m.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("executing %s: %w", m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return fmt.Errorf("recording %s: %w", m.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", m.Name, err)
	}
	return nil
}

// Status returns the applied version and the number of pending migrations.
func (r *Runner) Status() (current int, pending int, err error) {
	ctx := context.Background()
	if err = r.bootstrap(ctx); err != nil {
		return 0, 0, fmt.Errorf("bootstrap schema_migrations: %w", err)
	}

	current, err = r.appliedVersion(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading applied version: %w", err)
	}

	migs, err := Migrations()
	if err != nil {
		return 0, 0, err
	}
	for _, m := range migs {
		if m.Version > current {
			pending++
		}
	}
	return current, pending, nil
}
