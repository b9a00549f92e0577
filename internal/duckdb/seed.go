package duckdb

import (
	"encoding/json"
	"fmt"

	"github.com/tinytelemetry/backoffice/internal/model"
)

type seedRow struct {
	id     string
	record any
}

func rowsOf[T any](records []T, id func(T) string) []seedRow {
	out := make([]seedRow, len(records))
	for i, r := range records {
		out[i] = seedRow{id: id(r), record: r}
	}
	return out
}

// Seed replaces the contents of every table with the dataset in a single
// transaction.
func (s *Store) Seed(ds model.Dataset) error {
	tables := map[model.Kind][]seedRow{
		model.KindUsers:              rowsOf(ds.Users, func(r model.User) string { return r.ID }),
		model.KindTrades:             rowsOf(ds.Trades, func(r model.Trade) string { return r.ID }),
		model.KindCardTransactions:   rowsOf(ds.CardTransactions, func(r model.CardTransaction) string { return r.ID }),
		model.KindKYC:                rowsOf(ds.KYCApplications, func(r model.KYCApplication) string { return r.ID }),
		model.KindSignals:            rowsOf(ds.Signals, func(r model.Signal) string { return r.ID }),
		model.KindWithdrawalSettings: rowsOf(ds.WithdrawalSettings, func(r model.WithdrawalSetting) string { return r.ID }),
		model.KindWalletAdjustments:  rowsOf(ds.WalletAdjustments, func(r model.WalletAdjustment) string { return r.ID }),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO records (kind, id, position, payload) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, kind := range model.Kinds {
		for pos, row := range tables[kind] {
			payload, err := json.Marshal(row.record)
			if err != nil {
				return fmt.Errorf("encoding %s %s: %w", kind, row.id, err)
			}
			if _, err := stmt.ExecContext(ctx, string(kind), row.id, pos, string(payload)); err != nil {
				return fmt.Errorf("inserting %s %s: %w", kind, row.id, err)
			}
		}
	}

	return tx.Commit()
}
