// Package ioannot implements persistent identifier-to-symbol tables for
// probe annotation: an SQLite file in the local data directory, or a
// PostgreSQL table.
package ioannot

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/pkg/annot"
	"github.com/gnames/gnexpr/pkg/config"
	"github.com/gocarina/gocsv"
)

// Source names of annot.Store implementations.
const (
	SourceSQLite     = "sqlite"
	SourcePostgres   = "postgres"
	SourceAssignment = "assignment"
)

// Open returns the store configured by annotation.source. The
// "assignment" source has no store, it is built from the platform table
// of a series.
func Open(ctx context.Context, cfg *config.Config) (annot.Store, error) {
	switch cfg.Annotation.Source {
	case SourceSQLite:
		path := config.AnnotationDBPath(cfg.HomeDir)
		slog.Info("Opening annotation database", "path", path)
		return NewSQLite(path, cfg.Annotation.BatchSize)
	case SourcePostgres:
		slog.Info("Connecting to annotation database",
			"host", cfg.Database.Host, "database", cfg.Database.Database)
		return NewPostgres(ctx, &cfg.Database, cfg.Annotation.BatchSize)
	}
	return nil, SourceError(cfg.Annotation.Source)
}

// ReadRecords reads a tab-separated table with a header line. Columns
// "accession" and "symbol" are required, "gene_id" is optional, other
// columns are ignored.
func ReadRecords(r io.Reader, name string) ([]annot.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.Comment = '#'

	var res []annot.Record
	if err := gocsv.UnmarshalCSV(cr, &res); err != nil {
		return nil, ImportError(name, err)
	}
	return res, nil
}

// Import reads records from r and stores them under keyType.
func Import(
	ctx context.Context,
	store annot.Store,
	r io.Reader,
	name, keyType string,
) (int, error) {
	recs, err := ReadRecords(r, name)
	if err != nil {
		return 0, err
	}
	num, err := store.Import(ctx, keyType, recs)
	if err != nil {
		return 0, err
	}
	slog.Info("Imported annotation records",
		"file", name, "key_type", keyType,
		"read", len(recs), "stored", num)
	return num, nil
}

// ImportFile imports a tab-separated file into the store. With progress
// enabled, reading of the file is shown as a progress bar.
func ImportFile(
	ctx context.Context,
	store annot.Store,
	path, keyType string,
	withProgress bool,
) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, ImportError(path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if withProgress {
		var size int64
		if fi, err := f.Stat(); err == nil {
			size = fi.Size()
		}
		bar := pb.Full.Start64(size)
		bar.Set(pb.Bytes, true)
		bar.Set(pb.CleanOnFinish, true)
		bar.Set("prefix", filepath.Base(path)+" ")
		r = bar.NewProxyReader(f)
		defer bar.Finish()
	}

	num, err := Import(ctx, store, r, path, keyType)
	if err != nil {
		return 0, err
	}

	total, err := store.Count(ctx, keyType)
	if err != nil {
		return num, err
	}
	msg := fmt.Sprintf(
		"Imported <em>%s</em> %s records, the table has <em>%s</em> of them",
		humanize.Comma(int64(num)), keyType, humanize.Comma(int64(total)),
	)
	gn.Info(msg)
	return num, nil
}
