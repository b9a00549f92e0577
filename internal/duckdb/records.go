package duckdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tinytelemetry/backoffice/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// execer is the query surface shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Put inserts a record, or replaces the payload of an existing one while
// keeping its position.
func (s *Store) Put(kind model.Kind, id string, record any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	return putRecord(ctx, s.db, kind, id, record)
}

// Get decodes the record with the given id into dst.
func (s *Store) Get(kind model.Kind, id string, dst any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	return getRecord(ctx, s.db, kind, id, dst)
}

// Delete removes a record.
func (s *Store) Delete(kind model.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	return deleteRecord(ctx, s.db, kind, id)
}

// Update runs fn inside one transaction while holding the write lock, so a
// read-modify-write across records is atomic. Any error from fn rolls every
// change back.
func (s *Store) Update(fn func(tx model.RecordTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&recordTx{ctx: ctx, tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// recordTx scopes record access to one open transaction.
type recordTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *recordTx) Get(kind model.Kind, id string, dst any) error {
	return getRecord(t.ctx, t.tx, kind, id, dst)
}

func (t *recordTx) Put(kind model.Kind, id string, record any) error {
	return putRecord(t.ctx, t.tx, kind, id, record)
}

func (t *recordTx) Delete(kind model.Kind, id string) error {
	return deleteRecord(t.ctx, t.tx, kind, id)
}

func putRecord(ctx context.Context, q execer, kind model.Kind, id string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding %s %s: %w", kind, id, err)
	}

	res, err := q.ExecContext(ctx,
		"UPDATE records SET payload = ?, updated_at = current_timestamp WHERE kind = ? AND id = ?",
		string(payload), string(kind), id)
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", kind, id, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO records (kind, id, position, payload)
		 SELECT ?, ?, COALESCE(MAX(position), -1) + 1, ? FROM records WHERE kind = ?`,
		string(kind), id, string(payload), string(kind))
	if err != nil {
		return fmt.Errorf("inserting %s %s: %w", kind, id, err)
	}
	return nil
}

func getRecord(ctx context.Context, q execer, kind model.Kind, id string, dst any) error {
	var payload string
	err := q.QueryRowContext(ctx,
		"SELECT payload FROM records WHERE kind = ? AND id = ?", string(kind), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(payload), dst)
}

func deleteRecord(ctx context.Context, q execer, kind model.Kind, id string) error {
	res, err := q.ExecContext(ctx, "DELETE FROM records WHERE kind = ? AND id = ?", string(kind), id)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", kind, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

// Scan calls fn with every payload of the given kind in insertion order.
func (s *Store) Scan(kind model.Kind, fn func(payload []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM records WHERE kind = ? ORDER BY position", string(kind))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return err
		}
		if err := fn([]byte(payload)); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Counts returns the number of stored records per kind. Kinds without
// records are reported as zero.
func (s *Store) Counts() (map[model.Kind]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM records GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Kind]int64, len(model.Kinds))
	for _, k := range model.Kinds {
		counts[k] = 0
	}
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[model.Kind(kind)] = n
	}
	return counts, rows.Err()
}

// List decodes every record of a kind in insertion order.
func List[T any](r model.RecordReader, kind model.Kind) ([]T, error) {
	var out []T
	err := r.Scan(kind, func(payload []byte) error {
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return fmt.Errorf("decoding %s: %w", kind, err)
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Source reads one kind of record from a store.
type Source[T any] struct {
	reader model.RecordReader
	kind   model.Kind
}

// NewSource returns a Source for kind.
func NewSource[T any](r model.RecordReader, kind model.Kind) *Source[T] {
	return &Source[T]{reader: r, kind: kind}
}

// Records returns every record of the source's kind.
func (s *Source[T]) Records() ([]T, error) {
	return List[T](s.reader, s.kind)
}

// Kind returns the kind the source reads.
func (s *Source[T]) Kind() model.Kind { return s.kind }
