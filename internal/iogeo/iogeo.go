// Package iogeo implements geo.Fetcher over the HTTPS mirror of the GEO FTP
// tree and the GEO accession query endpoint.
package iogeo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnexpr/pkg/config"
	"github.com/gnames/gnexpr/pkg/expr"
	"github.com/gnames/gnexpr/pkg/geo"
	"golang.org/x/sync/errgroup"
)

type geoFetcher struct {
	cfg      *config.Config
	client   *http.Client
	cacheDir string
}

// New creates a GEO fetcher. Downloads go to ~/.cache/gnexpr/geo.
func New(cfg *config.Config) geo.Fetcher {
	return &geoFetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Repository.Timeout) * time.Second,
		},
		cacheDir: filepath.Join(config.CacheDir(cfg.HomeDir), "geo"),
	}
}

// Fetch implements geo.Fetcher.
func (g *geoFetcher) Fetch(
	ctx context.Context,
	accession string,
) (*expr.Series, error) {
	acc := geo.Normalize(accession)
	if !geo.IsSeries(acc) {
		return nil, AccessionError(accession)
	}
	if err := clearCache(g.cacheDir); err != nil {
		return nil, err
	}

	dir, _ := geo.MatrixDir(acc)
	listURL := g.cfg.Repository.URL + "/" + dir
	names, err := g.listFiles(ctx, listURL, geo.IsSeriesMatrix)
	if err != nil {
		return nil, ListingError(listURL, err)
	}
	if len(names) == 0 {
		return nil, NoSeriesMatrixError(acc, listURL)
	}
	slog.Info("Found series matrix files", "series", acc, "files", names)

	bundles, err := g.fetchBundles(ctx, listURL, names)
	if err != nil {
		return nil, err
	}

	res, err := geo.Unwrap(bundles, g.cfg.Repository.Platform)
	if errors.Is(err, geo.ErrAmbiguousPlatform) {
		return nil, AmbiguousPlatformError(acc, geo.Platforms(bundles), err)
	}
	if err != nil {
		return nil, NoSeriesMatrixError(acc, listURL)
	}
	if res.Accession == "" {
		res.Accession = acc
	}

	if !geo.IsPlatform(res.Platform) {
		slog.Warn("Series matrix has no platform, probes stay unannotated",
			"series", acc)
		if err = res.Validate(); err != nil {
			return nil, ParseError(acc, err)
		}
		return res, nil
	}

	prog := g.newProgress("Platform " + res.Platform + ": ")
	table, err := g.fetchPlatform(ctx, res.Platform, prog)
	prog.finish()
	if err != nil {
		return nil, err
	}
	found := attachPlatform(res.Probes, table)
	slog.Info("Attached platform annotation",
		"platform", res.Platform,
		"probes", humanize.Comma(int64(len(res.Probes))),
		"annotated", humanize.Comma(int64(found)),
	)

	if err = res.Validate(); err != nil {
		return nil, ParseError(acc, err)
	}
	return res, nil
}

// fetchBundles downloads and parses series matrix files concurrently.
// Bundles keep the order of names.
func (g *geoFetcher) fetchBundles(
	ctx context.Context,
	baseURL string,
	names []string,
) ([]*expr.Series, error) {
	prog := g.newProgress("Series matrix: ")
	defer prog.finish()

	res := make([]*expr.Series, len(names))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.cfg.JobsNumber, 1))
	for i, name := range names {
		eg.Go(func() error {
			path := filepath.Join(g.cacheDir, name)
			if err := g.download(ctx, baseURL+name, path, prog); err != nil {
				return err
			}
			s, err := readSeriesMatrix(path)
			if err != nil {
				return err
			}
			r, c := s.Matrix.Dims()
			slog.Info("Parsed series matrix",
				"file", name,
				"platform", s.Platform,
				"probes", humanize.Comma(int64(r)),
				"samples", c,
			)
			res[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
