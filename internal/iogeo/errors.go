package iogeo

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/pkg/errcode"
)

func AccessionError(acc string) error {
	msg := `<em>%s</em> is not a GEO series accession

<em>How to fix:</em>
  Use an accession like GSE15907`
	vars := []any{acc}
	return &gn.Error{
		Code: errcode.GEOAccessionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid series accession '%s'", acc),
	}
}

func ListingError(url string, err error) error {
	msg := `Cannot list files at <em>%s</em>

<em>Possible causes:</em>
  - Series does not exist or is not public yet
  - Network problems`
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GEOListingError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot list %s: %w",
			fn.Name(), url, err),
	}
}

func DownloadError(url string, err error) error {
	msg := "Cannot download <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GEODownloadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot download %s: %w",
			fn.Name(), url, err),
	}
}

func NoSeriesMatrixError(acc, url string) error {
	msg := `No series matrix files for <em>%s</em> at %s`
	vars := []any{acc, url}
	return &gn.Error{
		Code: errcode.GEONoSeriesMatrixError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no series matrix files for %s", acc),
	}
}

func ParseError(file string, err error) error {
	msg := "Cannot parse <em>%s</em>"
	vars := []any{file}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GEOParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot parse %s: %w",
			fn.Name(), file, err),
	}
}

func PlatformError(platform string, err error) error {
	msg := "Cannot get annotation table of platform <em>%s</em>"
	vars := []any{platform}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GEOPlatformError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: platform %s: %w",
			fn.Name(), platform, err),
	}
}

func AmbiguousPlatformError(acc string, platforms []string, err error) error {
	msg := `Series <em>%s</em> has data for platforms: %v

<em>How to fix:</em>
  Select one of them with --platform, or omit --platform
  for a single-platform series`
	vars := []any{acc, platforms}
	return &gn.Error{
		Code: errcode.GEOAmbiguousPlatformError,
		Msg:  msg,
		Vars: vars,
		Err:  err,
	}
}

func RawArchiveError(acc string, err error) error {
	msg := "Cannot extract RAW archive of <em>%s</em>"
	vars := []any{acc}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GEORawArchiveError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: RAW archive of %s: %w",
			fn.Name(), acc, err),
	}
}

func CacheError(dir string, err error) error {
	msg := "Cannot prepare cache directory <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot clear cache: %w",
			fn.Name(), err),
	}
}
