// Package dea finds differentially expressed probes between two sample
// populations.
//
// The workflow is: Design builds a two-column design matrix (intercept and
// an indicator of the test population), LmFit fits ordinary least squares
// for every probe, EBayes moderates residual variances toward a common
// prior and computes moderated t-statistics with p-values, and TopTable
// ranks and filters probes after multiple-testing adjustment.
package dea

import (
	"fmt"

	"github.com/gnames/gnexpr/pkg/expr"
	"gonum.org/v1/gonum/mat"
)

// Design column indices.
const (
	// CoefIntercept is the mean of the reference population.
	CoefIntercept = iota
	// CoefTest is the difference test minus reference.
	CoefTest
)

// Design returns an n x 2 design matrix for samples: the first column is
// all ones, the second is 1 for samples of g.Test and 0 for samples of
// g.Reference. The order of labels comes from g, never from sorting.
// Samples of any other population, or a population without samples, are
// errors.
func Design(samples []*expr.Sample, g expr.Groups) (*mat.Dense, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	var refNum, testNum int
	data := make([]float64, 0, 2*len(samples))
	for _, v := range samples {
		switch v.Population {
		case g.Reference:
			refNum++
			data = append(data, 1, 0)
		case g.Test:
			testNum++
			data = append(data, 1, 1)
		default:
			return nil, fmt.Errorf(
				"sample %s belongs to population '%s', expected '%s' or '%s'",
				v.ID, v.Population, g.Reference, g.Test,
			)
		}
	}

	if refNum == 0 {
		return nil, fmt.Errorf("no samples in reference population '%s'",
			g.Reference)
	}
	if testNum == 0 {
		return nil, fmt.Errorf("no samples in test population '%s'", g.Test)
	}

	return mat.NewDense(len(samples), 2, data), nil
}
