// Package annot resolves probes of an expression platform to gene symbols.
//
// Resolution is done in two steps. First, every probe gets an accession:
// the first token of its comma-separated accession list that contains a
// pattern (for example "NM" for RefSeq mRNA). Second, all resolved
// accessions are sent to a Lookup in one batch and the returned symbols are
// attached to probes. A probe without a matching token, or with an
// accession unknown to the Lookup, keeps empty values. That is a normal
// outcome, not an error.
package annot

import (
	"context"
	"slices"
	"strings"

	"github.com/gnames/gnexpr/pkg/expr"
)

// Lookup maps accessions to gene symbols.
type Lookup interface {
	// Symbols returns symbols for the given accessions of a key type
	// (e.g. "REFSEQ"). Accessions without a symbol are absent from the
	// result.
	Symbols(
		ctx context.Context,
		keyType string,
		accessions []string,
	) (map[string]string, error)
}

// Stats summarizes an annotation run.
type Stats struct {
	// Probes is the total number of probes.
	Probes int
	// Resolved is the number of probes with an accession.
	Resolved int
	// Symbols is the number of probes with a gene symbol.
	Symbols int
	// Unique is the number of distinct accessions sent to the lookup.
	Unique int
}

// ResolveAccession returns the first comma-separated token of field that
// contains pattern, or an empty string. Matching is a case-sensitive
// substring test; surrounding spaces of tokens are removed.
func ResolveAccession(field, pattern string) string {
	if field == "" || pattern == "" {
		return ""
	}
	for tok := range strings.SplitSeq(field, ",") {
		tok = strings.TrimSpace(tok)
		if strings.Contains(tok, pattern) {
			return tok
		}
	}
	return ""
}

// ResolveAccessions sets Accession of every probe from its accession list.
// It returns distinct resolved accessions, sorted.
func ResolveAccessions(probes []*expr.Probe, pattern string) []string {
	set := make(map[string]struct{})
	for _, p := range probes {
		p.Accession = ResolveAccession(p.Accessions, pattern)
		if p.Accession != "" {
			set[p.Accession] = struct{}{}
		}
	}
	res := make([]string, 0, len(set))
	for k := range set {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// Annotate resolves accessions of probes, queries the lookup once with all
// of them and attaches symbols. Several probes may share an accession and
// therefore a symbol.
func Annotate(
	ctx context.Context,
	probes []*expr.Probe,
	lookup Lookup,
	keyType, pattern string,
) (Stats, error) {
	accs := ResolveAccessions(probes, pattern)
	res := Stats{Probes: len(probes), Unique: len(accs)}

	var symbols map[string]string
	if len(accs) > 0 {
		var err error
		symbols, err = lookup.Symbols(ctx, keyType, accs)
		if err != nil {
			return res, err
		}
	}

	for _, p := range probes {
		p.Symbol = ""
		if p.Accession == "" {
			continue
		}
		res.Resolved++
		if sym, ok := symbols[p.Accession]; ok && sym != "" {
			p.Symbol = sym
			res.Symbols++
		}
	}
	return res, nil
}
