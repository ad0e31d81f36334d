package ioannot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/internal/ioannot"
	"github.com/gnames/gnexpr/internal/iotesting"
	"github.com/gnames/gnexpr/pkg/annot"
	"github.com/gnames/gnexpr/pkg/config"
	"github.com/gnames/gnexpr/pkg/errcode"
	"github.com/gnames/gnexpr/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const symbolsTSV = `# RefSeq to MGI symbols
accession	symbol	gene_id	source
NM_008866	Lypla1	18777	mgi
NM_175370	Tcea1	21399	mgi
NM_011283	Rp1	19888	mgi
NM_001	""	0	mgi
`

func TestReadRecords(t *testing.T) {
	recs, err := ioannot.ReadRecords(strings.NewReader(symbolsTSV), "test.tsv")
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, annot.Record{
		Accession: "NM_008866", Symbol: "Lypla1", GeneID: "18777",
	}, recs[0])

	_, err = ioannot.ReadRecords(strings.NewReader(""), "empty.tsv")
	assert.Error(t, err)
}

func storeTests(t *testing.T, store annot.Store) {
	ctx := context.Background()

	num, err := ioannot.Import(ctx, store, strings.NewReader(symbolsTSV),
		"test.tsv", "REFSEQ")
	require.NoError(t, err)
	assert.Equal(t, 3, num, "record without symbol is dropped")

	count, err := store.Count(ctx, "REFSEQ")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	res, err := store.Symbols(ctx, "REFSEQ",
		[]string{"NM_008866", "NM_175370", "NM_999999"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"NM_008866": "Lypla1",
		"NM_175370": "Tcea1",
	}, res)

	res, err = store.Symbols(ctx, "ENSEMBL", []string{"NM_008866"})
	require.NoError(t, err)
	assert.Empty(t, res, "key type separates records")

	// replace existing accession
	num, err = store.Import(ctx, "REFSEQ", []annot.Record{
		{Accession: "NM_008866", Symbol: "Lypla1new"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, num)
	res, err = store.Symbols(ctx, "REFSEQ", []string{"NM_008866"})
	require.NoError(t, err)
	assert.Equal(t, "Lypla1new", res["NM_008866"])

	count, err = store.Count(ctx, "REFSEQ")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// store works as annot.Lookup
	probes := []*expr.Probe{
		{ID: "1", Accessions: "BC1,NM_175370"},
		{ID: "2", Accessions: "NM_011283"},
		{ID: "3", Accessions: "XM_1"},
	}
	st, err := annot.Annotate(ctx, probes, store, "REFSEQ", "NM")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Symbols)
	assert.Equal(t, "Tcea1", probes[0].Symbol)
	assert.Equal(t, "Rp1", probes[1].Symbol)
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "annotation.sqlite")
	store, err := ioannot.NewSQLite(path, 2)
	require.NoError(t, err)
	defer store.Close()

	storeTests(t, store)
	assert.FileExists(t, path)

	require.NoError(t, store.Close())
	_, err = store.Symbols(context.Background(), "REFSEQ", []string{"NM_1"})
	assert.Error(t, err)
}

func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotation.sqlite")
	store, err := ioannot.NewSQLite(path, 500)
	require.NoError(t, err)
	_, err = store.Import(context.Background(), "REFSEQ", []annot.Record{
		{Accession: "NM_1", Symbol: "Cd19"},
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = ioannot.NewSQLite(path, 500)
	require.NoError(t, err)
	defer store.Close()
	res, err := store.Symbols(context.Background(), "REFSEQ", []string{"NM_1"})
	require.NoError(t, err)
	assert.Equal(t, "Cd19", res["NM_1"])
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "symbols.tsv")
	require.NoError(t, os.WriteFile(path, []byte(symbolsTSV), 0o644))

	store, err := ioannot.NewSQLite(filepath.Join(dir, "a.sqlite"), 500)
	require.NoError(t, err)
	defer store.Close()

	num, err := ioannot.ImportFile(context.Background(), store, path, "REFSEQ", false)
	require.NoError(t, err)
	assert.Equal(t, 3, num)

	_, err = ioannot.ImportFile(context.Background(), store,
		filepath.Join(dir, "none.tsv"), "REFSEQ", false)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.AnnotImportError, gnErr.Code)
}

func TestOpen(t *testing.T) {
	cfg := iotesting.Config(t)
	store, err := ioannot.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()
	assert.FileExists(t, config.AnnotationDBPath(cfg.HomeDir))

	cfg = iotesting.Config(t, config.OptAnnotationSource(ioannot.SourceAssignment))
	_, err = ioannot.Open(context.Background(), cfg)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.AnnotSourceError, gnErr.Code)
}

func TestPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test")
	}
	cfg := iotesting.Config(t)
	ctx := context.Background()
	store, err := ioannot.NewPostgres(ctx, &cfg.Database, 2)
	if err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	defer store.Close()

	count, err := store.Count(ctx, "REFSEQ")
	require.NoError(t, err)
	if count > 0 {
		t.Skip("test database already has REFSEQ records")
	}

	storeTests(t, store)
}
