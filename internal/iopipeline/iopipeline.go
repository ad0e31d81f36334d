// Package iopipeline implements pipeline.Pipeline. It retrieves a series
// through a geo.Fetcher, annotates probes from a lookup store, fits
// moderated linear models and writes report files.
package iopipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/internal/ioannot"
	"github.com/gnames/gnexpr/pkg/annot"
	"github.com/gnames/gnexpr/pkg/config"
	"github.com/gnames/gnexpr/pkg/dea"
	"github.com/gnames/gnexpr/pkg/expr"
	"github.com/gnames/gnexpr/pkg/geo"
	"github.com/gnames/gnexpr/pkg/pipeline"
	"github.com/gnames/gnfmt"
)

type pipe struct {
	cfg       *config.Config
	fetcher   geo.Fetcher
	accession string
}

// New creates a Pipeline for a series accession. Compared populations and
// report settings come from cfg.
func New(
	cfg *config.Config,
	fetcher geo.Fetcher,
	accession string,
) pipeline.Pipeline {
	return &pipe{
		cfg:       cfg,
		fetcher:   fetcher,
		accession: geo.Normalize(accession),
	}
}

// Prepare implements pipeline.Pipeline.
func (p *pipe) Prepare(
	ctx context.Context,
) (*expr.Series, annot.Stats, error) {
	s, err := p.retrieve(ctx)
	if err != nil {
		return nil, annot.Stats{}, cancelled(ctx, err)
	}
	st, err := p.annotate(ctx, s)
	if err != nil {
		return nil, annot.Stats{}, cancelled(ctx, err)
	}
	return s, st, nil
}

// cancelled replaces err by CancelledError when ctx is done, so an
// interrupted download or query is not reported as its own failure.
func cancelled(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return CancelledError(ctxErr)
	}
	return err
}

// Run implements pipeline.Pipeline.
func (p *pipe) Run(ctx context.Context) (*pipeline.Result, error) {
	startTime := time.Now()
	groups := expr.Groups{
		Reference: p.cfg.Analysis.Reference,
		Test:      p.cfg.Analysis.Test,
	}
	if err := groups.Validate(); err != nil {
		return nil, GroupsError(groups, nil, err)
	}
	slog.Info("Starting analysis",
		"series", p.accession,
		"reference", groups.Reference,
		"test", groups.Test,
	)

	full, stats, err := p.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	res := &pipeline.Result{
		Populations: full.Populations(),
		Annotation:  stats,
	}
	if err = checkGroups(groups, res.Populations); err != nil {
		return nil, err
	}

	start := stage(3, "Log-transforming expression values")
	full.LogTransform()
	stageDone(3, start)

	if err = ctx.Err(); err != nil {
		return nil, CancelledError(err)
	}

	res.Series = full.Subset(groups)
	if res.Fit, err = p.fit(ctx, res.Series, groups); err != nil {
		return nil, err
	}

	if err = p.report(res, groups, startTime); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *pipe) retrieve(ctx context.Context) (*expr.Series, error) {
	start := stage(1, "Retrieving series <em>%s</em>", p.accession)
	s, err := p.fetcher.Fetch(ctx, p.accession)
	if err != nil {
		return nil, err
	}
	s.AddPopulations(p.cfg.Analysis.Delimiter)

	r, c := s.Matrix.Dims()
	slog.Info("Retrieved series",
		"series", s.Accession,
		"platform", s.Platform,
		"probes", r,
		"samples", c,
		"populations", len(s.Populations()),
	)
	gn.Info("Series <em>%s</em> (%s): %s probes, %s samples",
		s.Accession, s.Platform,
		humanize.Comma(int64(r)), humanize.Comma(int64(c)),
	)
	stageDone(1, start)
	return s, nil
}

func (p *pipe) annotate(
	ctx context.Context,
	s *expr.Series,
) (annot.Stats, error) {
	acfg := p.cfg.Annotation
	start := stage(2, "Annotating probes from <em>%s</em> source", acfg.Source)

	var lookup annot.Lookup
	if acfg.Source == ioannot.SourceAssignment {
		al := annot.NewAssignmentLookup(s.Probes)
		slog.Info("Using gene assignments of the platform",
			"accessions", al.Len())
		lookup = al
	} else {
		store, err := ioannot.Open(ctx, p.cfg)
		if err != nil {
			return annot.Stats{}, err
		}
		defer store.Close()
		lookup = store
	}

	st, err := annot.Annotate(ctx, s.Probes, lookup, acfg.KeyType, acfg.Pattern)
	if err != nil {
		return st, err
	}

	slog.Info("Annotated probes",
		"probes", st.Probes,
		"resolved", st.Resolved,
		"unique", st.Unique,
		"symbols", st.Symbols,
	)
	if st.Resolved > 0 && st.Symbols == 0 {
		slog.Warn("No symbols were found, annotation table may be empty",
			"source", acfg.Source, "key_type", acfg.KeyType)
		gn.Warn("No gene symbols found for <em>%s</em> accessions",
			acfg.KeyType)
	}
	gn.Info("Resolved %s of %s probes to <em>%s</em> symbols",
		humanize.Comma(int64(st.Symbols)),
		humanize.Comma(int64(st.Probes)),
		acfg.KeyType,
	)
	stageDone(2, start)
	return st, nil
}

func (p *pipe) fit(
	ctx context.Context,
	s *expr.Series,
	g expr.Groups,
) (*dea.Fit, error) {
	start := stage(4, "Fitting linear models for <em>%s</em>", g.String())

	design, err := dea.Design(s.Samples, g)
	if err != nil {
		return nil, DesignError(g, err)
	}

	f, err := dea.LmFit(ctx, s.Matrix, design, p.cfg.JobsNumber)
	if err != nil {
		return nil, cancelled(ctx, FitError(err))
	}

	err = dea.EBayes(f)
	if errors.Is(err, dea.ErrNoResidualDF) {
		slog.Error("Groups have too few samples for variance estimation",
			"reference", g.Reference, "test", g.Test)
	}
	if err != nil {
		return nil, FitError(err)
	}

	slog.Info("Fitted moderated linear models",
		"probes", len(f.Sigma),
		"prior_df", f.DFPrior,
		"prior_variance", f.S2Prior,
		"jobs", p.cfg.JobsNumber,
	)
	stageDone(4, start)
	return f, nil
}

// checkGroups makes sure both compared populations have samples.
func checkGroups(g expr.Groups, pops []expr.PopulationCount) error {
	labels := make([]string, len(pops))
	for i, v := range pops {
		labels[i] = v.Label
	}
	for _, v := range []string{g.Reference, g.Test} {
		if !slices.Contains(labels, v) {
			err := fmt.Errorf("population '%s' has no samples", v)
			return GroupsError(g, labels, err)
		}
	}
	return nil
}

func stage(n int, msg string, vars ...any) time.Time {
	prefix := fmt.Sprintf("(%d/%d) ", n, pipeline.StagesNumber)
	gn.Info(prefix+msg, vars...)
	slog.Info("Starting stage", "stage", n, "of", pipeline.StagesNumber)
	return time.Now()
}

func stageDone(n int, start time.Time) {
	dur := gnfmt.TimeString(time.Since(start).Seconds())
	slog.Info("Stage complete", "stage", n, "duration", dur)
}
