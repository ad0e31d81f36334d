package dea

import (
	"context"
	"fmt"
	"math"

	"github.com/gnames/gnexpr/pkg/expr"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Fit holds per-probe linear model results. Rows of matrices are probes,
// columns are coefficients of the design. Moderated fields are filled by
// EBayes.
type Fit struct {
	// Design is the n x p design matrix used for fitting.
	Design *mat.Dense
	// Coefficients are OLS estimates, g x p.
	Coefficients *mat.Dense
	// StdevUnscaled are square roots of diagonals of (X'X)^-1, g x p.
	// Multiplied by a residual standard deviation they give standard
	// errors of coefficients.
	StdevUnscaled *mat.Dense
	// Sigma is the residual standard deviation of every probe. It is NaN
	// when there are no residual degrees of freedom.
	Sigma []float64
	// DFResidual is the number of residual degrees of freedom.
	DFResidual []float64
	// AveExpr is the mean of finite values of every probe.
	AveExpr []float64

	// DFPrior is the prior degrees of freedom of the variance
	// distribution. It may be +Inf when variances are homogeneous.
	DFPrior float64
	// S2Prior is the prior (location) variance.
	S2Prior float64
	// S2Post are posterior (moderated) variances.
	S2Post []float64
	// T are moderated t-statistics, g x p.
	T *mat.Dense
	// DFTotal are degrees of freedom of moderated t-statistics.
	DFTotal []float64
	// PValue are two-sided p-values of moderated t-statistics, g x p.
	PValue *mat.Dense
}

// Dims returns number of probes and coefficients.
func (f *Fit) Dims() (int, int) {
	return f.Coefficients.Dims()
}

// Moderated reports whether EBayes was applied.
func (f *Fit) Moderated() bool {
	return f.T != nil
}

// LmFit fits y = X b + e by ordinary least squares for every row of m.
// Rows are split into chunks that are fitted concurrently by up to jobs
// goroutines. Non-finite values of a row are dropped and the row is fitted
// on the remaining samples; a row that cannot be estimated gets NaN
// coefficients and zero degrees of freedom.
func LmFit(
	ctx context.Context,
	m *expr.Matrix,
	design *mat.Dense,
	jobs int,
) (*Fit, error) {
	g, n := m.Dims()
	if g == 0 || n == 0 {
		return nil, fmt.Errorf("cannot fit %d probes by %d samples", g, n)
	}
	dn, p := design.Dims()
	if dn != n {
		return nil, fmt.Errorf("design has %d rows, expression matrix has %d samples",
			dn, n)
	}
	if _, err := newOLS(design); err != nil {
		return nil, fmt.Errorf("design matrix is not of full rank: %w", err)
	}

	res := &Fit{
		Design:        design,
		Coefficients:  mat.NewDense(g, p, nil),
		StdevUnscaled: mat.NewDense(g, p, nil),
		Sigma:         make([]float64, g),
		DFResidual:    make([]float64, g),
		AveExpr:       make([]float64, g),
	}

	if jobs < 1 {
		jobs = 1
	}
	chunk := (g + jobs - 1) / jobs

	eg, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < g; lo += chunk {
		hi := min(lo+chunk, g)
		eg.Go(func() error {
			return res.fitRows(ctx, m, lo, hi)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// fitRows fits rows [lo, hi). Each call owns its rows of the result, so
// concurrent calls do not overlap.
func (f *Fit) fitRows(ctx context.Context, m *expr.Matrix, lo, hi int) error {
	full, err := newOLS(f.Design)
	if err != nil {
		return err
	}
	n, p := f.Design.Dims()

	var complete []int
	var ys []float64
	for i := lo; i < hi; i++ {
		if (i-lo)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		y := m.Row(i)
		f.AveExpr[i] = finiteMean(y)
		if allFinite(y) {
			complete = append(complete, i)
			ys = append(ys, y...)
			continue
		}
		f.fitPartial(i, y)
	}

	if len(complete) == 0 {
		return nil
	}

	// ys holds complete rows one after another; as a k x n matrix its
	// transpose is the n x k right-hand side.
	yt := mat.NewDense(len(complete), n, ys)
	var b mat.Dense
	if err := full.qr.SolveTo(&b, false, yt.T()); err != nil {
		return fmt.Errorf("least squares solution failed: %w", err)
	}
	var fitted mat.Dense
	fitted.Mul(f.Design, &b)

	df := float64(n - p)
	for k, i := range complete {
		var rss float64
		for s := range n {
			r := yt.At(k, s) - fitted.At(s, k)
			rss += r * r
		}
		for j := range p {
			f.Coefficients.Set(i, j, b.At(j, k))
			f.StdevUnscaled.Set(i, j, full.stdev[j])
		}
		f.DFResidual[i] = df
		f.Sigma[i] = sigma(rss, df)
	}
	return nil
}

// fitPartial fits one row using only its finite observations.
func (f *Fit) fitPartial(i int, y []float64) {
	n, p := f.Design.Dims()
	var rows []int
	for s := range n {
		if !math.IsNaN(y[s]) && !math.IsInf(y[s], 0) {
			rows = append(rows, s)
		}
	}

	x := mat.NewDense(max(len(rows), 1), p, nil)
	ys := mat.NewDense(max(len(rows), 1), 1, nil)
	for k, s := range rows {
		x.SetRow(k, mat.Row(nil, s, f.Design))
		ys.Set(k, 0, y[s])
	}

	o, err := newOLS(x)
	if len(rows) < p || err != nil {
		f.setNaN(i)
		return
	}
	var b mat.Dense
	if err := o.qr.SolveTo(&b, false, ys); err != nil {
		f.setNaN(i)
		return
	}

	var rss float64
	for k := range rows {
		var fit float64
		for j := range p {
			fit += x.At(k, j) * b.At(j, 0)
		}
		r := ys.At(k, 0) - fit
		rss += r * r
	}
	df := float64(len(rows) - p)
	for j := range p {
		f.Coefficients.Set(i, j, b.At(j, 0))
		f.StdevUnscaled.Set(i, j, o.stdev[j])
	}
	f.DFResidual[i] = df
	f.Sigma[i] = sigma(rss, df)
}

func (f *Fit) setNaN(i int) {
	_, p := f.Design.Dims()
	for j := range p {
		f.Coefficients.Set(i, j, math.NaN())
		f.StdevUnscaled.Set(i, j, math.NaN())
	}
	f.Sigma[i] = math.NaN()
	f.DFResidual[i] = 0
}

// ols keeps the QR factorization of a design and the unscaled standard
// deviations of its coefficients.
type ols struct {
	qr    mat.QR
	stdev []float64
}

func newOLS(x *mat.Dense) (*ols, error) {
	n, p := x.Dims()
	if n < p {
		return nil, fmt.Errorf("%d observations for %d coefficients", n, p)
	}

	var xtx, cov mat.Dense
	xtx.Mul(x.T(), x)
	if err := cov.Inverse(&xtx); err != nil {
		return nil, err
	}

	res := &ols{stdev: make([]float64, p)}
	for j := range p {
		res.stdev[j] = math.Sqrt(cov.At(j, j))
	}
	res.qr.Factorize(x)
	return res, nil
}

func sigma(rss, df float64) float64 {
	if df <= 0 {
		return math.NaN()
	}
	return math.Sqrt(rss / df)
}

func allFinite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteMean(xs []float64) float64 {
	var sum float64
	var n int
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
