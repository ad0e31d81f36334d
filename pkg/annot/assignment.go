package annot

import (
	"context"
	"strings"

	"github.com/gnames/gnexpr/pkg/expr"
)

// Assignment is one record of a platform gene_assignment field.
type Assignment struct {
	Accession   string
	Symbol      string
	Description string
	Location    string
	GeneID      string
}

// ParseGeneAssignment parses the gene_assignment text used by Affymetrix
// Gene ST platforms:
//
//	NM_008866 // Lypla1 // lysophospholipase 1 // 1 A1 // 18777 /// ...
//
// Records are separated by "///", fields by "//". Empty values and "---"
// give no records.
func ParseGeneAssignment(field string) []Assignment {
	field = strings.TrimSpace(field)
	if field == "" || field == "---" {
		return nil
	}

	var res []Assignment
	for rec := range strings.SplitSeq(field, "///") {
		parts := strings.Split(rec, "//")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 || parts[0] == "" || parts[0] == "---" {
			continue
		}
		a := Assignment{Accession: parts[0], Symbol: parts[1]}
		if len(parts) > 2 {
			a.Description = parts[2]
		}
		if len(parts) > 3 {
			a.Location = parts[3]
		}
		if len(parts) > 4 {
			a.GeneID = parts[4]
		}
		if a.Symbol == "---" {
			a.Symbol = ""
		}
		res = append(res, a)
	}
	return res
}

// AssignmentLookup is a Lookup built from gene_assignment fields of the
// platform itself. It ignores the key type: platform accessions are
// whatever the platform provides.
type AssignmentLookup struct {
	data map[string]string
}

// NewAssignmentLookup collects accession to symbol pairs from the
// gene_assignment fields of probes. The first symbol seen for an
// accession wins.
func NewAssignmentLookup(probes []*expr.Probe) *AssignmentLookup {
	res := &AssignmentLookup{data: make(map[string]string)}
	for _, p := range probes {
		for _, a := range ParseGeneAssignment(p.GeneAssignment) {
			if a.Symbol == "" {
				continue
			}
			if _, ok := res.data[a.Accession]; !ok {
				res.data[a.Accession] = a.Symbol
			}
		}
	}
	return res
}

// Len returns the number of known accessions.
func (l *AssignmentLookup) Len() int {
	return len(l.data)
}

// Symbols implements Lookup.
func (l *AssignmentLookup) Symbols(
	_ context.Context,
	_ string,
	accessions []string,
) (map[string]string, error) {
	res := make(map[string]string)
	for _, v := range accessions {
		if sym, ok := l.data[v]; ok {
			res[v] = sym
		}
	}
	return res, nil
}
