package ioreport

import (
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/gnames/gnexpr/pkg/dea"
	"github.com/gnames/gnexpr/pkg/expr"
	"gonum.org/v1/gonum/stat"
)

const (
	cellWidth   = 28.0
	cellHeight  = 14.0
	labelWidth  = 130.0
	headerSize  = 110.0
	legendWidth = 70.0
	margin      = 10.0
	zLimit      = 3.0
)

// HeatmapOptions control the heatmap.
type HeatmapOptions struct {
	// MaxRows limits the number of drawn rows, zero means no limit.
	MaxRows int
}

// Heatmap draws expression values of the probes of rows across all samples
// of the series. Values are centered and scaled per row, so colors show
// relative expression: blue is low, red is high. Columns are labeled by
// population, rows by symbol or probe ID.
func Heatmap(
	w io.Writer,
	s *expr.Series,
	rows []dea.Row,
	opts HeatmapOptions,
) error {
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		rows = rows[:opts.MaxRows]
	}
	if len(rows) == 0 || len(s.Samples) == 0 {
		return EmptyError("heatmap")
	}

	idx := make(map[string]int, len(s.Probes))
	for i, p := range s.Probes {
		idx[p.ID] = i
	}

	nCol := len(s.Samples)
	width := margin + labelWidth + float64(nCol)*cellWidth + legendWidth + margin
	height := margin + headerSize + float64(len(rows))*cellHeight + margin
	dc := gg.NewContext(int(width), int(height))
	dc.SetColor(color.White)
	dc.Clear()

	x0 := margin + labelWidth
	y0 := margin + headerSize

	dc.SetColor(color.Black)
	for j, label := range s.Labels() {
		x := x0 + (float64(j)+0.5)*cellWidth
		if label == "" {
			label = s.Samples[j].ID
		}
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), x, y0-4)
		dc.DrawStringAnchored(label, x, y0-4, 0, 0.5)
		dc.Pop()
	}

	for i, r := range rows {
		y := y0 + float64(i)*cellHeight
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(r.Label(), x0-4, y+cellHeight/2, 1, 0.5)

		pi, ok := idx[r.ProbeID]
		if !ok {
			continue
		}
		z := zScores(s.Matrix.Row(pi))
		for j, v := range z {
			dc.DrawRectangle(x0+float64(j)*cellWidth, y, cellWidth, cellHeight)
			dc.SetColor(divergingColor(v))
			dc.Fill()
		}
	}

	drawLegend(dc, x0+float64(nCol)*cellWidth+margin*2, y0)
	if err := dc.EncodePNG(w); err != nil {
		return PlotError("heatmap", err)
	}
	return nil
}

func drawLegend(dc *gg.Context, x, y float64) {
	const steps = 60
	const h = 2.0
	for k := range steps {
		z := zLimit - 2*zLimit*float64(k)/float64(steps-1)
		dc.DrawRectangle(x, y+float64(k)*h, 12, h)
		dc.SetColor(divergingColor(z))
		dc.Fill()
	}
	dc.SetColor(color.Black)
	dc.DrawStringAnchored("high", x+16, y, 0, 0.8)
	dc.DrawStringAnchored("low", x+16, y+steps*h, 0, 0)
}

// zScores centers and scales finite values. NaN stays NaN, a constant row
// gives zeros.
func zScores(xs []float64) []float64 {
	var fin []float64
	for _, v := range xs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			fin = append(fin, v)
		}
	}
	res := make([]float64, len(xs))
	if len(fin) == 0 {
		for i := range res {
			res[i] = math.NaN()
		}
		return res
	}

	mean, sd := stat.MeanStdDev(fin, nil)
	for i, v := range xs {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			res[i] = math.NaN()
		case sd == 0 || math.IsNaN(sd):
			res[i] = 0
		default:
			res[i] = (v - mean) / sd
		}
	}
	return res
}

// divergingColor maps z in [-zLimit, zLimit] to blue, white and red.
// NaN is gray.
func divergingColor(z float64) color.Color {
	if math.IsNaN(z) {
		return color.RGBA{R: 190, G: 190, B: 190, A: 255}
	}
	t := math.Max(-1, math.Min(1, z/zLimit))
	blue := color.RGBA{R: 33, G: 102, B: 172, A: 255}
	red := color.RGBA{R: 178, G: 24, B: 43, A: 255}
	white := color.RGBA{R: 247, G: 247, B: 247, A: 255}
	if t < 0 {
		return mix(white, blue, -t)
	}
	return mix(white, red, t)
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	f := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: f(a.R, b.R), G: f(a.G, b.G), B: f(a.B, b.B), A: 255}
}
