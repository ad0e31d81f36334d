// Package geo describes retrieval of expression series from the Gene
// Expression Omnibus (GEO) repository: accession rules, the layout of its
// FTP tree, and the Fetcher contract implemented in internal/iogeo.
package geo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gnames/gnexpr/pkg/expr"
)

// Fetcher retrieves data of a GEO series.
type Fetcher interface {
	// Fetch downloads all series matrix files of a series with their
	// platform annotation and returns the one matching the configured
	// platform.
	Fetch(ctx context.Context, accession string) (*expr.Series, error)

	// Raw downloads the supplementary <GSE>_RAW.tar archive of a series
	// and extracts it into dir. It returns paths of extracted files.
	Raw(ctx context.Context, accession, dir string) ([]string, error)
}

var (
	// ErrNoBundles means a series has no series matrix files.
	ErrNoBundles = errors.New("series has no expression bundles")
	// ErrAmbiguousPlatform means a series has several bundles and none
	// could be selected by platform.
	ErrAmbiguousPlatform = errors.New("series has bundles for several platforms")
)

var (
	seriesRe   = regexp.MustCompile(`^GSE[1-9][0-9]*$`)
	platformRe = regexp.MustCompile(`^GPL[1-9][0-9]*$`)
)

// Normalize trims spaces and uppercases an accession.
func Normalize(acc string) string {
	return strings.ToUpper(strings.TrimSpace(acc))
}

// IsSeries reports whether acc is a series accession, e.g. "GSE15907".
func IsSeries(acc string) bool {
	return seriesRe.MatchString(acc)
}

// IsPlatform reports whether acc is a platform accession, e.g. "GPL6246".
func IsPlatform(acc string) bool {
	return platformRe.MatchString(acc)
}

// SeriesDir returns the path of a series in the GEO FTP tree relative to
// its root. Series are grouped by replacing the last three digits with
// "nnn":
//
//	GSE15907 -> series/GSE15nnn/GSE15907
//	GSE907   -> series/GSEnnn/GSE907
func SeriesDir(acc string) (string, error) {
	if !IsSeries(acc) {
		return "", fmt.Errorf("'%s' is not a GEO series accession", acc)
	}
	return "series/" + stub(acc) + "/" + acc, nil
}

// MatrixDir returns the directory with series matrix files of a series.
func MatrixDir(acc string) (string, error) {
	dir, err := SeriesDir(acc)
	if err != nil {
		return "", err
	}
	return dir + "/matrix/", nil
}

// RawFile returns the path of the supplementary RAW archive of a series.
func RawFile(acc string) (string, error) {
	dir, err := SeriesDir(acc)
	if err != nil {
		return "", err
	}
	return dir + "/suppl/" + acc + "_RAW.tar", nil
}

func stub(acc string) string {
	prefix, digits := acc[:3], acc[3:]
	if len(digits) <= 3 {
		return prefix + "nnn"
	}
	return prefix + digits[:len(digits)-3] + "nnn"
}

// IsSeriesMatrix reports whether a file name is a compressed series
// matrix, e.g. "GSE15907-GPL6246_series_matrix.txt.gz".
func IsSeriesMatrix(name string) bool {
	return strings.HasSuffix(name, "_series_matrix.txt.gz")
}

// Unwrap selects one bundle out of all bundles of a series. With an empty
// platform a single bundle is returned as is, several bundles are an
// ambiguity. With a platform the bundle on it is returned; a platform
// absent from bundles is an ambiguity even for a single bundle.
func Unwrap(bundles []*expr.Series, platform string) (*expr.Series, error) {
	if len(bundles) == 0 {
		return nil, ErrNoBundles
	}

	platform = Normalize(platform)
	if platform == "" && len(bundles) == 1 {
		return bundles[0], nil
	}
	if platform != "" {
		for _, v := range bundles {
			if v.Platform == platform {
				return v, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAmbiguousPlatform,
		strings.Join(Platforms(bundles), ", "))
}

// Platforms returns platform accessions of bundles in their order.
func Platforms(bundles []*expr.Series) []string {
	res := make([]string, len(bundles))
	for i, v := range bundles {
		res[i] = v.Platform
	}
	return res
}
