package iogeo

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnexpr/pkg/geo"
)

// Raw implements geo.Fetcher. The archive is downloaded to the cache
// directory and its regular files are extracted into dir.
func (g *geoFetcher) Raw(
	ctx context.Context,
	accession, dir string,
) ([]string, error) {
	acc := geo.Normalize(accession)
	if !geo.IsSeries(acc) {
		return nil, AccessionError(accession)
	}
	if err := clearCache(g.cacheDir); err != nil {
		return nil, err
	}

	rel, _ := geo.RawFile(acc)
	url := g.cfg.Repository.URL + "/" + rel
	tarPath := filepath.Join(g.cacheDir, filepath.Base(rel))

	prog := g.newProgress("RAW archive: ")
	err := g.download(ctx, url, tarPath, prog)
	prog.finish()
	if err != nil {
		return nil, err
	}

	res, err := extractTar(ctx, tarPath, dir)
	if err != nil {
		return nil, RawArchiveError(acc, err)
	}
	slog.Info("Extracted RAW archive",
		"series", acc, "dir", dir, "files", humanize.Comma(int64(len(res))))
	return res, nil
}

// extractTar writes regular files of a tar archive into dir and returns
// their paths. Entries that would escape dir are rejected.
func extractTar(ctx context.Context, path, dir string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err = os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var res []string
	tr := tar.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		name := filepath.Clean(hdr.Name)
		if filepath.IsAbs(name) || name == ".." ||
			strings.HasPrefix(name, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("unsafe path in archive: %s", hdr.Name)
		}
		target := filepath.Join(dir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err = os.MkdirAll(target, 0755); err != nil {
				return nil, err
			}
		case tar.TypeReg:
			if err = writeEntry(tr, target); err != nil {
				return nil, err
			}
			res = append(res, target)
		}
	}
	return res, nil
}

func writeEntry(r io.Reader, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
