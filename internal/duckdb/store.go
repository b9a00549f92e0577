// Package duckdb stores back-office records in an embedded DuckDB database.
// Records of every kind share one table keyed by (kind, id) and keep their
// insertion order.
package duckdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/tinytelemetry/backoffice/internal/duckdb/migrate"
	"github.com/tinytelemetry/backoffice/internal/model"
)

// Store manages the DuckDB database connection and provides record access.
type Store struct {
	db           *sql.DB
	mu           sync.RWMutex
	dbPath       string
	QueryTimeout time.Duration
}

var _ model.RecordStore = (*Store)(nil)

// NewStore opens or creates a DuckDB database.
// If dbPath is empty, an in-memory database is used.
// An optional queryTimeout can be passed; it defaults to 30s.
func NewStore(dbPath string, queryTimeout ...time.Duration) (*Store, error) {
	dsn := ""
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, err
		}
		dsn = dbPath
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, err
	}

	if err := migrate.NewRunner(db).Run(); err != nil {
		db.Close()
		return nil, err
	}

	qt := model.DefaultQueryTimeout
	if len(queryTimeout) > 0 && queryTimeout[0] > 0 {
		qt = queryTimeout[0]
	}

	return &Store{
		db:           db,
		dbPath:       dbPath,
		QueryTimeout: qt,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InMemory reports whether the store has no backing file.
func (s *Store) InMemory() bool {
	return s.dbPath == ""
}

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}
