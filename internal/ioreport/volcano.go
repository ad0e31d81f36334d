package ioreport

import (
	"cmp"
	"io"
	"math"
	"slices"

	"github.com/gnames/gnexpr/pkg/dea"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// VolcanoOptions control the volcano plot.
type VolcanoOptions struct {
	// PValue is the adjusted p-value threshold of significance.
	PValue float64
	// LFC is the minimal absolute log fold change of significance.
	LFC float64
	// Labels is the number of most significant points labeled by symbol.
	Labels int
	// Title is drawn above the plot.
	Title string
}

// Volcano draws log fold change against -log10 of raw p-value for all
// rows. Significant rows are red, the Labels most significant rows get
// their symbol (or probe ID) as a label.
func Volcano(w io.Writer, rows []dea.Row, opts VolcanoOptions) error {
	var xs, ys, sigX, sigY []float64
	var pts []dea.Row
	maxX, maxY := 0.0, 0.0
	for _, r := range rows {
		if math.IsNaN(r.LogFC) || math.IsNaN(r.PValue) {
			continue
		}
		y := negLog10(r.PValue)
		maxX = math.Max(maxX, math.Abs(r.LogFC))
		maxY = math.Max(maxY, y)
		if significant(r, opts) {
			sigX = append(sigX, r.LogFC)
			sigY = append(sigY, y)
		} else {
			xs = append(xs, r.LogFC)
			ys = append(ys, y)
		}
		pts = append(pts, r)
	}
	if len(pts) == 0 {
		return EmptyError("volcano")
	}

	series := make([]chart.Series, 0, 3)
	if len(xs) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "not significant",
			Style:   dotStyle(drawing.ColorFromHex("9e9e9e")),
			XValues: xs,
			YValues: ys,
		})
	}
	if len(sigX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "significant",
			Style:   dotStyle(drawing.ColorFromHex("b2182b")),
			XValues: sigX,
			YValues: sigY,
		})
	}
	if ann := annotations(pts, opts.Labels); len(ann) > 0 {
		series = append(series, chart.AnnotationSeries{Annotations: ann})
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  900,
		Height: 700,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "log fold change",
			Range: &chart.ContinuousRange{Min: -maxX - 0.5, Max: maxX + 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "-log10(p-value)",
			Range: &chart.ContinuousRange{Min: 0, Max: maxY*1.1 + 0.5},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return PlotError("volcano", err)
	}
	return nil
}

func dotStyle(c drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    c,
	}
}

func significant(r dea.Row, opts VolcanoOptions) bool {
	return r.AdjPValue <= opts.PValue && math.Abs(r.LogFC) >= opts.LFC
}

// annotations labels n rows with the smallest p-values.
func annotations(rows []dea.Row, n int) []chart.Value2 {
	if n <= 0 {
		return nil
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b dea.Row) int {
		return cmp.Compare(a.PValue, b.PValue)
	})
	sorted = sorted[:min(n, len(sorted))]

	res := make([]chart.Value2, len(sorted))
	for i, r := range sorted {
		res[i] = chart.Value2{
			XValue: r.LogFC,
			YValue: negLog10(r.PValue),
			Label:  r.Label(),
		}
	}
	return res
}

// negLog10 returns -log10(p), p = 0 is capped at the smallest positive
// float.
func negLog10(p float64) float64 {
	return -math.Log10(math.Max(p, math.SmallestNonzeroFloat64))
}
