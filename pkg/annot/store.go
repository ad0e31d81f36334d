package annot

import (
	"context"
	"strings"
)

// Record is one row of an identifier-to-symbol table.
type Record struct {
	Accession string `csv:"accession"`
	Symbol    string `csv:"symbol"`
	GeneID    string `csv:"gene_id"`
}

// Store is a persistent Lookup that can be filled with records.
type Store interface {
	Lookup

	// Import inserts or replaces records of a key type and returns the
	// number of stored records.
	Import(ctx context.Context, keyType string, recs []Record) (int, error)

	// Count returns the number of records of a key type.
	Count(ctx context.Context, keyType string) (int, error)

	// Close releases resources of the store.
	Close() error
}

// CleanRecords trims fields, drops records without accession or symbol
// and keeps the last record of a repeated accession.
func CleanRecords(recs []Record) []Record {
	idx := make(map[string]int)
	res := make([]Record, 0, len(recs))
	for _, v := range recs {
		v.Accession = strings.TrimSpace(v.Accession)
		v.Symbol = strings.TrimSpace(v.Symbol)
		v.GeneID = strings.TrimSpace(v.GeneID)
		if v.Accession == "" || v.Symbol == "" {
			continue
		}
		if i, ok := idx[v.Accession]; ok {
			res[i] = v
			continue
		}
		idx[v.Accession] = len(res)
		res = append(res, v)
	}
	return res
}

// Batches splits accessions into chunks of at most size elements.
func Batches(accs []string, size int) [][]string {
	if size <= 0 {
		size = len(accs)
	}
	var res [][]string
	for i := 0; i < len(accs); i += size {
		res = append(res, accs[i:min(i+size, len(accs))])
	}
	return res
}
