package ioannot

import (
	"context"
	"fmt"

	"github.com/gnames/gnexpr/pkg/annot"
	"github.com/gnames/gnexpr/pkg/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS symbols (
	key_type  VARCHAR(50)  NOT NULL,
	accession VARCHAR(100) NOT NULL,
	symbol    VARCHAR(255) NOT NULL,
	gene_id   VARCHAR(50)  NOT NULL DEFAULT '',
	PRIMARY KEY (key_type, accession)
)`

type pgStore struct {
	pool      *pgxpool.Pool
	batchSize int
}

// NewPostgres connects to PostgreSQL and makes sure the symbols table
// exists.
func NewPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
	batchSize int,
) (annot.Store, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}
	if _, err = pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	return &pgStore{pool: pool, batchSize: batchSize}, nil
}

// Symbols implements annot.Lookup.
func (p *pgStore) Symbols(
	ctx context.Context,
	keyType string,
	accessions []string,
) (map[string]string, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}

	q := `SELECT accession, symbol FROM symbols
  WHERE key_type = $1 AND accession = ANY($2)`
	res := make(map[string]string)
	for _, batch := range annot.Batches(accessions, p.batchSize) {
		rows, err := p.pool.Query(ctx, q, keyType, batch)
		if err != nil {
			return nil, QueryError(keyType, err)
		}
		for rows.Next() {
			var acc, sym string
			if err = rows.Scan(&acc, &sym); err != nil {
				rows.Close()
				return nil, QueryError(keyType, err)
			}
			res[acc] = sym
		}
		rows.Close()
		if err = rows.Err(); err != nil {
			return nil, QueryError(keyType, err)
		}
	}
	return res, nil
}

// Import implements annot.Store. Existing records of the same accessions
// are replaced.
func (p *pgStore) Import(
	ctx context.Context,
	keyType string,
	recs []annot.Record,
) (int, error) {
	if p.pool == nil {
		return 0, NotConnectedError()
	}
	recs = annot.CleanRecords(recs)
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, ImportError("postgres", err)
	}
	defer tx.Rollback(ctx)

	accs := make([]string, len(recs))
	rows := make([][]any, len(recs))
	for i, v := range recs {
		accs[i] = v.Accession
		rows[i] = []any{keyType, v.Accession, v.Symbol, v.GeneID}
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM symbols WHERE key_type = $1 AND accession = ANY($2)`,
		keyType, accs,
	)
	if err != nil {
		return 0, ImportError("postgres", err)
	}

	count, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"symbols"},
		[]string{"key_type", "accession", "symbol", "gene_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, ImportError("postgres", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, ImportError("postgres", err)
	}
	return int(count), nil
}

// Count implements annot.Store.
func (p *pgStore) Count(ctx context.Context, keyType string) (int, error) {
	if p.pool == nil {
		return 0, NotConnectedError()
	}
	var res int
	err := p.pool.QueryRow(ctx,
		`SELECT count(*) FROM symbols WHERE key_type = $1`, keyType,
	).Scan(&res)
	if err != nil {
		return 0, QueryError(keyType, err)
	}
	return res, nil
}

// Close implements annot.Store.
func (p *pgStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}
