package iopipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/internal/ioreport"
	gnexpr "github.com/gnames/gnexpr/pkg"
	"github.com/gnames/gnexpr/pkg/dea"
	"github.com/gnames/gnexpr/pkg/errcode"
	"github.com/gnames/gnexpr/pkg/expr"
	"github.com/gnames/gnexpr/pkg/pipeline"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
)

// Suffixes of report files.
const (
	tableExt   = ".tsv"
	summaryExt = ".yaml"
	heatmapExt = ".heatmap.png"
	volcanoExt = ".volcano.png"
)

func (p *pipe) report(
	res *pipeline.Result,
	g expr.Groups,
	startTime time.Time,
) error {
	start := stage(5, "Writing reports to <em>%s</em>", p.cfg.Report.OutputDir)
	rcfg := p.cfg.Report

	opts := dea.TopTableOptions{
		Coef:         dea.CoefTest,
		AdjustMethod: rcfg.AdjustMethod,
		SortBy:       rcfg.SortBy,
		PValue:       1,
	}
	var err error
	if res.Table, err = dea.TopTable(res.Fit, res.Series.Probes, opts); err != nil {
		return RankError(err)
	}

	opts.PValue, opts.LFC, opts.Number = rcfg.PValue, rcfg.LFC, rcfg.TopNumber
	if res.Top, err = dea.TopTable(res.Fit, res.Series.Probes, opts); err != nil {
		return RankError(err)
	}

	// significant probes by p-value for the heatmap
	opts.SortBy, opts.Number = dea.SortP, 0
	sig, err := dea.TopTable(res.Fit, res.Series.Probes, opts)
	if err != nil {
		return RankError(err)
	}

	res.Genes = lookupGenes(res.Table, rcfg.Genes)
	res.Summary = p.summary(res, g, len(sig))

	if err = os.MkdirAll(rcfg.OutputDir, 0o755); err != nil {
		return OutputError(rcfg.OutputDir, err)
	}
	base := filepath.Join(rcfg.OutputDir, reportName(res.Series.Accession, g))

	err = p.writeFile(res, base+tableExt, func(w io.Writer) error {
		return ioreport.WriteTable(w, res.Top)
	})
	if err != nil {
		return err
	}

	err = p.writeFile(res, base+heatmapExt, func(w io.Writer) error {
		return ioreport.Heatmap(w, res.Series, sig,
			ioreport.HeatmapOptions{MaxRows: rcfg.HeatmapRows})
	})
	if err != nil {
		return err
	}

	err = p.writeFile(res, base+volcanoExt, func(w io.Writer) error {
		return ioreport.Volcano(w, res.Table, ioreport.VolcanoOptions{
			PValue: rcfg.PValue,
			LFC:    rcfg.LFC,
			Labels: rcfg.LabelsNumber,
			Title:  res.Series.Accession + ": " + g.String(),
		})
	})
	if err != nil {
		return err
	}

	res.Summary.Elapsed = gnfmt.TimeString(time.Since(startTime).Seconds())
	err = p.writeFile(res, base+summaryExt, func(w io.Writer) error {
		return ioreport.WriteSummary(w, res.Summary)
	})
	if err != nil {
		return err
	}
	stageDone(5, start)

	slog.Info("Analysis complete",
		"series", res.Series.Accession,
		"significant", len(sig),
		"files", len(res.Files),
		"duration", res.Summary.Elapsed,
	)
	gn.Info(`Analysis complete
Significant probes: <em>%s</em> of %s (%s <= %g, |logFC| >= %g)
Elapsed time: <em>%s</em>`,
		humanize.Comma(int64(len(sig))),
		humanize.Comma(int64(len(res.Table))),
		rcfg.AdjustMethod, rcfg.PValue, rcfg.LFC,
		res.Summary.Elapsed,
	)
	for _, v := range res.Files {
		gn.Info("  %s", v)
	}
	return nil
}

// writeFile creates path and fills it by fn. An empty plot is not an
// error, the file is skipped with a warning.
func (p *pipe) writeFile(
	res *pipeline.Result,
	path string,
	fn func(io.Writer) error,
) error {
	f, err := os.Create(path)
	if err != nil {
		return OutputError(path, err)
	}

	err = fn(f)
	closeErr := f.Close()

	var gnErr *gn.Error
	if errors.As(err, &gnErr) && gnErr.Code == errcode.ReportEmptyError {
		slog.Warn("Nothing to draw, skipping file", "path", path)
		gn.Warn("Nothing to draw, skipping <em>%s</em>", filepath.Base(path))
		_ = os.Remove(path)
		return nil
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	if closeErr != nil {
		return OutputError(path, closeErr)
	}

	slog.Info("Wrote report file", "path", path)
	res.Files = append(res.Files, path)
	return nil
}

func (p *pipe) summary(
	res *pipeline.Result,
	g expr.Groups,
	significant int,
) *pipeline.Summary {
	var refNum, testNum int
	for _, v := range res.Series.Samples {
		switch v.Population {
		case g.Reference:
			refNum++
		case g.Test:
			testNum++
		}
	}

	acfg, rcfg := p.cfg.Annotation, p.cfg.Report
	id := gnuuid.New(
		strings.Join([]string{res.Series.Accession, g.Reference, g.Test}, "|"),
	)

	return &pipeline.Summary{
		ID:        id.String(),
		Version:   gnexpr.Version,
		Series:    res.Series.Accession,
		Platform:  res.Series.Platform,
		Title:     res.Series.Title,
		Reference: pipeline.Group{Label: g.Reference, Samples: refNum},
		Test:      pipeline.Group{Label: g.Test, Samples: testNum},
		Probes:    len(res.Series.Probes),
		Annotation: pipeline.AnnotationSummary{
			Source:   acfg.Source,
			KeyType:  acfg.KeyType,
			Pattern:  acfg.Pattern,
			Resolved: res.Annotation.Resolved,
			Symbols:  res.Annotation.Symbols,
		},
		Prior: pipeline.PriorSummary{
			DF:       res.Fit.DFPrior,
			Variance: res.Fit.S2Prior,
		},
		Thresholds: pipeline.Thresholds{
			AdjustMethod: rcfg.AdjustMethod,
			SortBy:       rcfg.SortBy,
			PValue:       rcfg.PValue,
			LFC:          rcfg.LFC,
			Number:       rcfg.TopNumber,
		},
		Significant: significant,
		Top:         res.Top,
		Genes:       res.Genes,
		Date:        time.Now().Format(time.RFC3339),
	}
}

// lookupGenes finds rows of every symbol. Symbols without rows are kept
// with an empty slice, so they are visible in the summary.
func lookupGenes(rows []dea.Row, genes []string) map[string][]dea.Row {
	if len(genes) == 0 {
		return nil
	}
	res := make(map[string][]dea.Row, len(genes))
	for _, v := range genes {
		found := dea.LookupSymbol(rows, v)
		res[v] = found
		if len(found) == 0 {
			gn.Warn("Gene <em>%s</em> is not found", v)
			continue
		}
		for _, r := range found {
			gn.Info("<em>%s</em> %s: logFC %.3f, adj. p-value %s",
				v, r.ProbeID, r.LogFC, formatP(r.AdjPValue))
		}
	}
	return res
}

func formatP(p float64) string {
	if math.IsNaN(p) {
		return "NA"
	}
	return fmt.Sprintf("%.3g", p)
}

// reportName returns "<GSE>_<test>_vs_<ref>" with characters unsafe for
// file names replaced.
func reportName(acc string, g expr.Groups) string {
	r := strings.NewReplacer("/", "-", "\\", "-", " ", "_", ":", "-")
	return acc + "_" + r.Replace(g.Test) + "_vs_" + r.Replace(g.Reference)
}
