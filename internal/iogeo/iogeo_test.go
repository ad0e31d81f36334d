package iogeo

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnexpr/internal/iotesting"
	"github.com/gnames/gnexpr/pkg/config"
	"github.com/gnames/gnexpr/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seriesMatrix = `!Series_title	"ImmGen ULI: gene expression of immune cells"
!Series_geo_accession	"GSE15907"
!Series_platform_id	"GPL6246"
!Sample_title	"B.Fo.Sp#1"	"B.Fo.Sp#2"	"T.4.Sp#1"	"T.4.Sp#2"
!Sample_geo_accession	"GSM399362"	"GSM399363"	"GSM399364"	"GSM399365"
!Sample_characteristics_ch1	"cell type: B cell"	"cell type: B cell"	"cell type: T cell"	"cell type: T cell"
!Sample_characteristics_ch1	"strain: C57BL/6J"	"strain: C57BL/6J"	"strain: C57BL/6J"	"strain: C57BL/6J"
!series_matrix_table_begin
"ID_REF"	"GSM399362"	"GSM399363"	"GSM399364"	"GSM399365"
10344614	120.5	110.1	20.3	22.8
10344616	55.2	null	54.9	56.1
10344618	8.1	7.9	8.3	8.0
!series_matrix_table_end
`

const platformTable = `^PLATFORM = GPL6246
!Platform_title = [MoGene-1_0-st] Affymetrix Mouse Gene 1.0 ST Array
!platform_table_begin
ID	GB_LIST	SPOT_ID	gene_assignment
10344614	NM_008866,BC013536	chr1:1	NM_008866 // Lypla1 // lysophospholipase 1 // 1 A1 // 18777
10344616	AK1,NM_175370	chr1:2	NM_175370 // Tcea1 // transcription elongation factor A // 1 A1 // 21399
!platform_table_end
`

func gzipped(t *testing.T, s string) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func rawTar(t *testing.T, files map[string]string) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, body := range files {
		hdr := &tar.Header{
			Name:     name,
			Mode:     0644,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

// geoServer imitates the GEO FTP mirror and the accession query endpoint.
func geoServer(t *testing.T, matrices map[string]string) *httptest.Server {
	mux := http.NewServeMux()
	var listing strings.Builder
	listing.WriteString(`<html><body><a href="../">Parent</a>`)
	for name, body := range matrices {
		listing.WriteString(`<a href="` + name + `">` + name + `</a>`)
		data := gzipped(t, body)
		mux.HandleFunc("/series/GSE15nnn/GSE15907/matrix/"+name,
			func(w http.ResponseWriter, _ *http.Request) {
				w.Write(data)
			})
	}
	listing.WriteString(`</body></html>`)

	mux.HandleFunc("/series/GSE15nnn/GSE15907/matrix/",
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/series/GSE15nnn/GSE15907/matrix/" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(listing.String()))
		})
	mux.HandleFunc("/acc.cgi", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("acc") != "GPL6246" || q.Get("targ") != "self" ||
			q.Get("view") != "data" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(platformTable))
	})
	tarData := rawTar(t, map[string]string{
		"GSM399362.CEL.gz": "cel1",
		"GSM399363.CEL.gz": "cel2",
	})
	mux.HandleFunc("/series/GSE15nnn/GSE15907/suppl/GSE15907_RAW.tar",
		func(w http.ResponseWriter, _ *http.Request) {
			w.Write(tarData)
		})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, srv *httptest.Server, opts ...config.Option) *config.Config {
	return iotesting.Config(t, append([]config.Option{
		config.OptRepositoryURL(srv.URL),
		config.OptRepositoryQueryURL(srv.URL + "/acc.cgi"),
		config.OptRepositoryTimeout(10),
	}, opts...)...)
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr), "expected gn.Error, got %v", err)
	return gnErr.Code
}

func TestParseSeriesMatrix(t *testing.T) {
	s, err := parseSeriesMatrix(strings.NewReader(seriesMatrix))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, "GSE15907", s.Accession)
	assert.Equal(t, "GPL6246", s.Platform)
	assert.Equal(t, "ImmGen ULI: gene expression of immune cells", s.Title)

	r, c := s.Matrix.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 120.5, s.Matrix.At(0, 0))
	assert.True(t, math.IsNaN(s.Matrix.At(1, 1)))

	assert.Equal(t, "B.Fo.Sp#1", s.Samples[0].Title)
	assert.Equal(t, "GSM399365", s.Samples[3].ID)
	assert.Equal(t, "T cell", s.Samples[2].Characteristics["cell type"])
	assert.Equal(t, "C57BL/6J", s.Samples[2].Characteristics["strain"])
	assert.Equal(t, "10344618", s.Probes[2].ID)
}

func TestParseSeriesMatrixErrors(t *testing.T) {
	tests := []struct {
		msg, data string
	}{
		{"no table", "!Series_title\t\"x\"\n"},
		{"not terminated", "!series_matrix_table_begin\n\"ID_REF\"\t\"GSM1\"\n1\t2\n"},
		{"no header", "!series_matrix_table_begin\n1\t2\n!series_matrix_table_end\n"},
		{"short row", "!series_matrix_table_begin\n\"ID_REF\"\t\"GSM1\"\t\"GSM2\"\n" +
			"1\t2\n!series_matrix_table_end\n"},
		{"sample mismatch", "!Sample_geo_accession\t\"GSM9\"\n" +
			"!series_matrix_table_begin\n\"ID_REF\"\t\"GSM1\"\n1\t2\n" +
			"!series_matrix_table_end\n"},
	}
	for _, v := range tests {
		_, err := parseSeriesMatrix(strings.NewReader(v.data))
		assert.Error(t, err, v.msg)
	}
}

func TestParsePlatform(t *testing.T) {
	table, err := parsePlatform(strings.NewReader(platformTable))
	require.NoError(t, err)
	assert.Len(t, table, 2)
	assert.Equal(t, "NM_008866,BC013536", table["10344614"].accessions)
	assert.Contains(t, table["10344616"].assignment, "Tcea1")

	table, err = parsePlatform(strings.NewReader("ID\tGB_ACC\n1\tNM_1\n"))
	require.NoError(t, err)
	assert.Equal(t, "NM_1", table["1"].accessions)

	_, err = parsePlatform(strings.NewReader("PROBE\tGB_LIST\n1\tNM_1\n"))
	assert.Error(t, err)

	_, err = parsePlatform(strings.NewReader("^PLATFORM = GPL1\n"))
	assert.Error(t, err)
}

func TestListFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`<a href="../">up</a>
<a href="GSE1-GPL2_series_matrix.txt.gz">a</a>
<a href='GSE1-GPL1_series_matrix.txt.gz'>b</a>
<a href="/geo/series/GSE1-GPL1_series_matrix.txt.gz">dup</a>
<a href="sub/">dir</a>
<a href="?C=N;O=D">sort</a>
<a href="readme.txt">c</a>`))
		}))
	defer srv.Close()

	g := New(testConfig(t, srv)).(*geoFetcher)
	names, err := g.listFiles(context.Background(), srv.URL,
		func(s string) bool { return strings.HasSuffix(s, "_series_matrix.txt.gz") })
	require.NoError(t, err)
	assert.Equal(t, []string{
		"GSE1-GPL1_series_matrix.txt.gz",
		"GSE1-GPL2_series_matrix.txt.gz",
	}, names)
}

func TestFetch(t *testing.T) {
	srv := geoServer(t, map[string]string{
		"GSE15907_series_matrix.txt.gz": seriesMatrix,
	})
	cfg := testConfig(t, srv)
	f := New(cfg)

	s, err := f.Fetch(context.Background(), "gse15907")
	require.NoError(t, err)
	assert.Equal(t, "GSE15907", s.Accession)
	assert.Equal(t, "GPL6246", s.Platform)
	require.Len(t, s.Probes, 3)
	assert.Equal(t, "NM_008866,BC013536", s.Probes[0].Accessions)
	assert.Contains(t, s.Probes[1].GeneAssignment, "Tcea1")
	assert.Empty(t, s.Probes[2].Accessions, "probe absent from platform")

	cached := filepath.Join(config.CacheDir(cfg.HomeDir), "geo",
		"GSE15907_series_matrix.txt.gz")
	assert.FileExists(t, cached)
}

func TestFetchSeveralPlatforms(t *testing.T) {
	other := strings.Replace(seriesMatrix, "GPL6246", "GPL1261", 1)
	srv := geoServer(t, map[string]string{
		"GSE15907-GPL6246_series_matrix.txt.gz": seriesMatrix,
		"GSE15907-GPL1261_series_matrix.txt.gz": other,
	})

	_, err := New(testConfig(t, srv)).Fetch(context.Background(), "GSE15907")
	require.Error(t, err)
	assert.Equal(t, errcode.GEOAmbiguousPlatformError, errCode(t, err))

	cfg := testConfig(t, srv, config.OptRepositoryPlatform("gpl6246"))
	s, err := New(cfg).Fetch(context.Background(), "GSE15907")
	require.NoError(t, err)
	assert.Equal(t, "GPL6246", s.Platform)
}

func TestFetchWrongPlatform(t *testing.T) {
	srv := geoServer(t, map[string]string{
		"GSE15907_series_matrix.txt.gz": seriesMatrix,
	})
	cfg := testConfig(t, srv, config.OptRepositoryPlatform("GPL1261"))
	_, err := New(cfg).Fetch(context.Background(), "GSE15907")
	assert.Equal(t, errcode.GEOAmbiguousPlatformError, errCode(t, err))
}

func TestFetchErrors(t *testing.T) {
	srv := geoServer(t, map[string]string{})
	f := New(testConfig(t, srv))

	_, err := f.Fetch(context.Background(), "GPL6246")
	assert.Equal(t, errcode.GEOAccessionError, errCode(t, err))

	_, err = f.Fetch(context.Background(), "GSE15907")
	assert.Equal(t, errcode.GEONoSeriesMatrixError, errCode(t, err))

	_, err = f.Fetch(context.Background(), "GSE1")
	assert.Equal(t, errcode.GEOListingError, errCode(t, err))

	srv = geoServer(t, map[string]string{
		"GSE15907_series_matrix.txt.gz": "!Series_title\t\"broken\"\n",
	})
	_, err = New(testConfig(t, srv)).Fetch(context.Background(), "GSE15907")
	assert.Equal(t, errcode.GEOParseError, errCode(t, err))
}

func TestRaw(t *testing.T) {
	srv := geoServer(t, map[string]string{})
	out := filepath.Join(t.TempDir(), "raw")

	files, err := New(testConfig(t, srv)).Raw(context.Background(), "GSE15907", out)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	data, err := os.ReadFile(filepath.Join(out, "GSM399363.CEL.gz"))
	require.NoError(t, err)
	assert.Equal(t, "cel2", string(data))

	_, err = New(testConfig(t, srv)).Raw(context.Background(), "GSE2", out)
	assert.Equal(t, errcode.GEODownloadError, errCode(t, err))
}

func TestExtractTarUnsafe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.tar")
	data := rawTar(t, map[string]string{"../evil.txt": "x"})
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err := extractTar(context.Background(), path, filepath.Join(dir, "out"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "evil.txt"))
}
