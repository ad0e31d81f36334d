package dea

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Adjustment methods for multiple testing.
const (
	AdjustBH         = "BH"
	AdjustFDR        = "fdr"
	AdjustBY         = "BY"
	AdjustHolm       = "holm"
	AdjustBonferroni = "bonferroni"
	AdjustNone       = "none"
)

// AdjustMethods lists accepted adjustment method names.
var AdjustMethods = []string{
	AdjustBH, AdjustFDR, AdjustBY, AdjustHolm, AdjustBonferroni, AdjustNone,
}

// Adjust returns p-values adjusted for multiple comparisons. NaN p-values
// are not counted as tests and stay NaN. "fdr" is an alias of "BH".
func Adjust(p []float64, method string) ([]float64, error) {
	res := make([]float64, len(p))
	idx := make([]int, 0, len(p))
	for i, v := range p {
		res[i] = math.NaN()
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	n := float64(len(idx))

	switch method {
	case AdjustNone:
		copy(res, p)
		return res, nil
	case AdjustBonferroni:
		for _, i := range idx {
			res[i] = math.Min(1, n*p[i])
		}
		return res, nil
	case AdjustHolm:
		sortByP(idx, p, false)
		var cmax float64
		for k, i := range idx {
			cmax = math.Max(cmax, (n-float64(k))*p[i])
			res[i] = math.Min(1, cmax)
		}
		return res, nil
	case AdjustBH, AdjustFDR, AdjustBY:
		q := 1.0
		if method == AdjustBY {
			q = 0
			for k := 1; k <= len(idx); k++ {
				q += 1 / float64(k)
			}
		}
		sortByP(idx, p, true)
		cmin := math.Inf(1)
		for k, i := range idx {
			rank := n - float64(k)
			cmin = math.Min(cmin, q*n/rank*p[i])
			res[i] = math.Min(1, cmin)
		}
		return res, nil
	}
	return nil, fmt.Errorf("unknown p-value adjustment method '%s'", method)
}

// sortByP sorts indices by p-values, stable for ties.
func sortByP(idx []int, p []float64, desc bool) {
	slices.SortStableFunc(idx, func(a, b int) int {
		if desc {
			return cmp.Compare(p[b], p[a])
		}
		return cmp.Compare(p[a], p[b])
	})
}
