package dea

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/gnames/gnexpr/pkg/expr"
)

// Sort keys of TopTable.
const (
	SortP       = "p"
	SortLogFC   = "logFC"
	SortT       = "t"
	SortAveExpr = "AveExpr"
	SortNone    = "none"
)

// SortKeys lists accepted sort keys.
var SortKeys = []string{SortP, SortLogFC, SortT, SortAveExpr, SortNone}

// Row is one probe of a top table.
type Row struct {
	ProbeID   string  `csv:"ProbeID" yaml:"probe_id"`
	Accession string  `csv:"Accession" yaml:"accession"`
	Symbol    string  `csv:"Symbol" yaml:"symbol"`
	LogFC     float64 `csv:"logFC" yaml:"log_fc"`
	AveExpr   float64 `csv:"AveExpr" yaml:"ave_expr"`
	// SE is the standard error from the probe's own residual variance.
	SE float64 `csv:"SE" yaml:"se"`
	// ModSE is the standard error from the moderated variance.
	ModSE     float64 `csv:"ModSE" yaml:"mod_se"`
	T         float64 `csv:"t" yaml:"t"`
	PValue    float64 `csv:"P.Value" yaml:"p_value"`
	AdjPValue float64 `csv:"adj.P.Val" yaml:"adj_p_value"`
}

// Label returns the symbol, or the probe ID when symbol is empty.
func (r Row) Label() string {
	if r.Symbol != "" {
		return r.Symbol
	}
	return r.ProbeID
}

// TopTableOptions control ranking and filtering of TopTable.
type TopTableOptions struct {
	// Coef is the design column to report, CoefTest by default.
	Coef int
	// Number limits the number of rows; zero or less returns all rows.
	Number int
	// AdjustMethod is one of AdjustMethods.
	AdjustMethod string
	// SortBy is one of SortKeys.
	SortBy string
	// PValue keeps rows with adjusted p-value at or below it. Values of 1
	// or more keep everything.
	PValue float64
	// LFC keeps rows with |logFC| at or above it.
	LFC float64
}

// DefaultTopTableOptions returns options that rank all probes of the test
// coefficient by p-value with BH adjustment.
func DefaultTopTableOptions() TopTableOptions {
	return TopTableOptions{
		Coef:         CoefTest,
		AdjustMethod: AdjustBH,
		SortBy:       SortP,
		PValue:       1,
	}
}

// TopTable ranks probes of a moderated fit. Adjustment is computed over
// all probes, then rows are filtered by PValue and LFC, sorted by SortBy
// (NaN values last) and cut to Number. Probes must be aligned with the
// rows of the fit.
func TopTable(f *Fit, probes []*expr.Probe, opts TopTableOptions) ([]Row, error) {
	if !f.Moderated() {
		return nil, errors.New("fit is not moderated, run EBayes first")
	}
	g, p := f.Dims()
	if len(probes) != g {
		return nil, fmt.Errorf("fit has %d probes, metadata has %d", g, len(probes))
	}
	if opts.Coef < 0 || opts.Coef >= p {
		return nil, fmt.Errorf("coefficient %d is out of range [0, %d)", opts.Coef, p)
	}
	if !slices.Contains(SortKeys, opts.SortBy) {
		return nil, fmt.Errorf("unknown sort key '%s'", opts.SortBy)
	}

	pv := make([]float64, g)
	for i := range g {
		pv[i] = f.PValue.At(i, opts.Coef)
	}
	adj, err := Adjust(pv, opts.AdjustMethod)
	if err != nil {
		return nil, err
	}

	res := make([]Row, 0, g)
	for i, pr := range probes {
		su := f.StdevUnscaled.At(i, opts.Coef)
		row := Row{
			ProbeID:   pr.ID,
			Accession: pr.Accession,
			Symbol:    pr.Symbol,
			LogFC:     f.Coefficients.At(i, opts.Coef),
			AveExpr:   f.AveExpr[i],
			SE:        su * f.Sigma[i],
			ModSE:     su * math.Sqrt(f.S2Post[i]),
			T:         f.T.At(i, opts.Coef),
			PValue:    pv[i],
			AdjPValue: adj[i],
		}
		if opts.PValue < 1 && !(row.AdjPValue <= opts.PValue) {
			continue
		}
		if opts.LFC > 0 && !(math.Abs(row.LogFC) >= opts.LFC) {
			continue
		}
		res = append(res, row)
	}

	sortRows(res, opts.SortBy)
	if opts.Number > 0 && len(res) > opts.Number {
		res = res[:opts.Number]
	}
	return res, nil
}

func sortRows(rows []Row, key string) {
	var val func(Row) float64
	asc := false
	switch key {
	case SortP:
		val, asc = func(r Row) float64 { return r.PValue }, true
	case SortLogFC:
		val = func(r Row) float64 { return math.Abs(r.LogFC) }
	case SortT:
		val = func(r Row) float64 { return math.Abs(r.T) }
	case SortAveExpr:
		val = func(r Row) float64 { return r.AveExpr }
	default:
		return
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		va, vb := val(a), val(b)
		na, nb := math.IsNaN(va), math.IsNaN(vb)
		switch {
		case na && nb:
			return 0
		case na:
			return 1
		case nb:
			return -1
		case asc:
			return cmp.Compare(va, vb)
		default:
			return cmp.Compare(vb, va)
		}
	})
}

// LookupSymbol returns all rows whose symbol equals symbol. Rows without a
// symbol never match, so an empty query returns nothing.
func LookupSymbol(rows []Row, symbol string) []Row {
	if symbol == "" {
		return nil
	}
	var res []Row
	for _, v := range rows {
		if v.Symbol != "" && v.Symbol == symbol {
			res = append(res, v)
		}
	}
	return res
}
