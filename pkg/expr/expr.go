// Package expr holds the in-memory model of an expression series: a numeric
// matrix of probes by samples and the two metadata tables that describe its
// rows and columns.
//
// The three tables are linked by identifiers. Row identifiers of the matrix
// are probe IDs in the same order as Series.Probes, column identifiers are
// sample IDs in the same order as Series.Samples. Every operation of this
// package keeps that alignment.
package expr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sample is one column of the expression matrix.
type Sample struct {
	// ID is the repository accession of the sample (GSM).
	ID string
	// Title is a free-text title, e.g. "B.Fo.Sp#1".
	Title string
	// Population is derived from Title by AddPopulations.
	Population string
	// Characteristics are "key: value" pairs provided by the submitter.
	Characteristics map[string]string
}

// Probe is one row of the expression matrix.
type Probe struct {
	// ID is the probe (or probe set) identifier of the platform.
	ID string
	// Accessions is the raw comma-separated accession list (GB_LIST).
	Accessions string
	// GeneAssignment is the raw gene assignment text of the platform.
	GeneAssignment string
	// Accession is the resolved accession, empty when nothing matched.
	Accession string
	// Symbol is the resolved gene symbol, empty when unknown.
	Symbol string
}

// Label returns the symbol of the probe, or its ID when symbol is unknown.
func (p *Probe) Label() string {
	if p.Symbol != "" {
		return p.Symbol
	}
	return p.ID
}

// Matrix is a probes-by-samples numeric matrix with row and column
// identifiers. Values is nil when the matrix has no rows or no columns.
type Matrix struct {
	Values    *mat.Dense
	ProbeIDs  []string
	SampleIDs []string
}

// NewMatrix creates a matrix from row-major values. Identifiers must be
// unique and the number of values must equal rows times columns.
func NewMatrix(
	probeIDs, sampleIDs []string,
	values []float64,
) (*Matrix, error) {
	r, c := len(probeIDs), len(sampleIDs)
	if len(values) != r*c {
		return nil, fmt.Errorf(
			"matrix of %d probes and %d samples needs %d values, got %d",
			r, c, r*c, len(values),
		)
	}
	if err := checkUnique("probe", probeIDs); err != nil {
		return nil, err
	}
	if err := checkUnique("sample", sampleIDs); err != nil {
		return nil, err
	}

	res := &Matrix{ProbeIDs: probeIDs, SampleIDs: sampleIDs}
	if r > 0 && c > 0 {
		res.Values = mat.NewDense(r, c, values)
	}
	return res, nil
}

// Dims returns the number of probes and samples.
func (m *Matrix) Dims() (int, int) {
	return len(m.ProbeIDs), len(m.SampleIDs)
}

// Row returns a copy of the expression values of the i-th probe.
func (m *Matrix) Row(i int) []float64 {
	_, c := m.Dims()
	res := make([]float64, c)
	if m.Values != nil {
		mat.Row(res, i, m.Values)
	}
	return res
}

// At returns the value of probe i in sample j.
func (m *Matrix) At(i, j int) float64 {
	return m.Values.At(i, j)
}

// Columns returns a new matrix that contains only the given columns in the
// given order.
func (m *Matrix) Columns(idx []int) *Matrix {
	r, _ := m.Dims()
	ids := make([]string, len(idx))
	for i, j := range idx {
		ids[i] = m.SampleIDs[j]
	}
	res := &Matrix{ProbeIDs: m.ProbeIDs, SampleIDs: ids}
	if r == 0 || len(idx) == 0 {
		return res
	}

	res.Values = mat.NewDense(r, len(idx), nil)
	col := make([]float64, r)
	for i, j := range idx {
		mat.Col(col, j, m.Values)
		res.Values.SetCol(i, col)
	}
	return res
}

// Log replaces every value with its natural logarithm. Values are not
// checked: zero becomes -Inf and negative numbers become NaN.
func (m *Matrix) Log() {
	if m.Values == nil {
		return
	}
	m.Values.Apply(func(_, _ int, v float64) float64 {
		return math.Log(v)
	}, m.Values)
}

func checkUnique(kind string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			return fmt.Errorf("duplicate %s id '%s'", kind, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}
