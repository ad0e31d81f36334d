package dea

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNoResidualDF is returned by EBayes when no probe has residual degrees
// of freedom, so no variance can be estimated.
var ErrNoResidualDF = errors.New("no residual degrees of freedom in linear model fits")

// EBayes moderates residual variances of a fit toward a common prior and
// computes moderated t-statistics and their p-values for every
// coefficient. The prior is a scaled inverse chi-square distribution fitted
// to log-variances by the method of moments. The fit is modified in place.
func EBayes(f *Fit) error {
	g, p := f.Dims()

	variances := make([]float64, g)
	for i, s := range f.Sigma {
		variances[i] = s * s
	}

	s20, df0, err := fitFDist(variances, f.DFResidual)
	if err != nil {
		return err
	}
	f.S2Prior, f.DFPrior = s20, df0
	f.S2Post = squeezeVar(variances, f.DFResidual, s20, df0)

	var dfPooled float64
	for _, v := range f.DFResidual {
		dfPooled += v
	}

	f.DFTotal = make([]float64, g)
	f.T = mat.NewDense(g, p, nil)
	f.PValue = mat.NewDense(g, p, nil)
	for i := range g {
		df := math.Min(f.DFResidual[i]+df0, dfPooled)
		f.DFTotal[i] = df
		s := math.Sqrt(f.S2Post[i])
		for j := range p {
			t := f.Coefficients.At(i, j) / (f.StdevUnscaled.At(i, j) * s)
			f.T.Set(i, j, t)
			f.PValue.Set(i, j, pValue(t, df))
		}
	}
	return nil
}

// pValue returns the two-sided p-value of t with df degrees of freedom.
func pValue(t, df float64) float64 {
	if math.IsNaN(t) || math.IsNaN(df) || df <= 0 {
		return math.NaN()
	}
	if math.IsInf(df, 1) {
		return 2 * distuv.UnitNormal.CDF(-math.Abs(t))
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(t))
}

// fitFDist estimates the scale s20 and degrees of freedom df2 of a scaled
// F-distribution with df1 and df2 degrees of freedom, given sample
// variances x. Only finite variances with positive df1 contribute.
// Homogeneous variances give df2 = +Inf.
func fitFDist(x, df1 []float64) (float64, float64, error) {
	var xs, dfs []float64
	for i, v := range x {
		d := df1[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 1e-15 {
			continue
		}
		xs = append(xs, math.Max(v, 0))
		dfs = append(dfs, d)
	}

	switch len(xs) {
	case 0:
		return math.NaN(), math.NaN(), ErrNoResidualDF
	case 1:
		return xs[0], 0, nil
	}

	// avoid zero variances
	m := median(xs)
	if m == 0 {
		m = 1
	}
	for i := range xs {
		xs[i] = math.Max(xs[i], 1e-5*m)
	}

	e := make([]float64, len(xs))
	tri := make([]float64, len(xs))
	for i, v := range xs {
		h := dfs[i] / 2
		e[i] = math.Log(v) - mathext.Digamma(h) + math.Log(h)
		tri[i] = trigamma(h)
	}
	emean, evar := stat.MeanVariance(e, nil)
	evar -= stat.Mean(tri, nil)

	if evar > 0 {
		df2 := 2 * trigammaInverse(evar)
		s20 := math.Exp(emean + mathext.Digamma(df2/2) - math.Log(df2/2))
		return s20, df2, nil
	}
	return stat.Mean(xs, nil), math.Inf(1), nil
}

// squeezeVar returns posterior variances: weighted averages of sample
// variances and the prior s20 with weights df and df0. Variances without
// degrees of freedom take the prior value.
func squeezeVar(variances, df []float64, s20, df0 float64) []float64 {
	res := make([]float64, len(variances))
	for i, v := range variances {
		d := df[i]
		switch {
		case math.IsInf(df0, 1):
			res[i] = s20
		case d <= 0 || math.IsNaN(v) || math.IsInf(v, 0):
			res[i] = s20
		default:
			res[i] = (d*v + df0*s20) / (d + df0)
		}
	}
	return res
}

func median(xs []float64) float64 {
	s := slices.Clone(xs)
	slices.Sort(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
