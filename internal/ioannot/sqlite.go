package ioannot

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnexpr/pkg/annot"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS symbols (
	key_type  TEXT NOT NULL,
	accession TEXT NOT NULL,
	symbol    TEXT NOT NULL,
	gene_id   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (key_type, accession)
)`

type sqliteStore struct {
	db        *sql.DB
	path      string
	batchSize int
}

// NewSQLite opens (and creates when missing) an annotation database file.
func NewSQLite(path string, batchSize int) (annot.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, OpenError(path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	if _, err = db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}
	return &sqliteStore{db: db, path: path, batchSize: batchSize}, nil
}

// Symbols implements annot.Lookup.
func (s *sqliteStore) Symbols(
	ctx context.Context,
	keyType string,
	accessions []string,
) (map[string]string, error) {
	if s.db == nil {
		return nil, NotConnectedError()
	}

	res := make(map[string]string)
	for _, batch := range annot.Batches(accessions, s.batchSize) {
		q := `SELECT accession, symbol FROM symbols
  WHERE key_type = ? AND accession IN (?` +
			strings.Repeat(", ?", len(batch)-1) + `)`
		args := make([]any, 0, len(batch)+1)
		args = append(args, keyType)
		for _, v := range batch {
			args = append(args, v)
		}

		if err := s.scanSymbols(ctx, q, args, res); err != nil {
			return nil, QueryError(keyType, err)
		}
	}
	return res, nil
}

func (s *sqliteStore) scanSymbols(
	ctx context.Context,
	q string,
	args []any,
	res map[string]string,
) error {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var acc, sym string
		if err = rows.Scan(&acc, &sym); err != nil {
			return err
		}
		res[acc] = sym
	}
	return rows.Err()
}

// Import implements annot.Store.
func (s *sqliteStore) Import(
	ctx context.Context,
	keyType string,
	recs []annot.Record,
) (int, error) {
	if s.db == nil {
		return 0, NotConnectedError()
	}
	recs = annot.CleanRecords(recs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, ImportError(s.path, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO symbols
  (key_type, accession, symbol, gene_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, ImportError(s.path, err)
	}
	defer stmt.Close()

	for _, v := range recs {
		_, err = stmt.ExecContext(ctx, keyType, v.Accession, v.Symbol, v.GeneID)
		if err != nil {
			return 0, ImportError(s.path, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, ImportError(s.path, err)
	}
	return len(recs), nil
}

// Count implements annot.Store.
func (s *sqliteStore) Count(ctx context.Context, keyType string) (int, error) {
	if s.db == nil {
		return 0, NotConnectedError()
	}
	var res int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM symbols WHERE key_type = ?`, keyType,
	).Scan(&res)
	if err != nil {
		return 0, QueryError(keyType, err)
	}
	return res, nil
}

// Close implements annot.Store.
func (s *sqliteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
