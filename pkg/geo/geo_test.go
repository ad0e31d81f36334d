package geo_test

import (
	"testing"

	"github.com/gnames/gnexpr/pkg/expr"
	"github.com/gnames/gnexpr/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessions(t *testing.T) {
	assert.Equal(t, "GSE15907", geo.Normalize(" gse15907 "))
	assert.True(t, geo.IsSeries("GSE15907"))
	assert.False(t, geo.IsSeries("GSE"))
	assert.False(t, geo.IsSeries("GSE0123"))
	assert.False(t, geo.IsSeries("GPL6246"))
	assert.True(t, geo.IsPlatform("GPL6246"))
	assert.False(t, geo.IsPlatform("GPL6246a"))
}

func TestSeriesDir(t *testing.T) {
	tests := []struct {
		acc, res string
		err      bool
	}{
		{"GSE15907", "series/GSE15nnn/GSE15907", false},
		{"GSE1000", "series/GSE1nnn/GSE1000", false},
		{"GSE907", "series/GSEnnn/GSE907", false},
		{"GSE1", "series/GSEnnn/GSE1", false},
		{"GPL6246", "", true},
		{"", "", true},
	}
	for _, v := range tests {
		res, err := geo.SeriesDir(v.acc)
		if v.err {
			assert.Error(t, err, v.acc)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, v.res, res, v.acc)
	}

	res, err := geo.MatrixDir("GSE15907")
	require.NoError(t, err)
	assert.Equal(t, "series/GSE15nnn/GSE15907/matrix/", res)

	res, err = geo.RawFile("GSE15907")
	require.NoError(t, err)
	assert.Equal(t, "series/GSE15nnn/GSE15907/suppl/GSE15907_RAW.tar", res)
}

func TestIsSeriesMatrix(t *testing.T) {
	assert.True(t, geo.IsSeriesMatrix("GSE15907-GPL6246_series_matrix.txt.gz"))
	assert.True(t, geo.IsSeriesMatrix("GSE15907_series_matrix.txt.gz"))
	assert.False(t, geo.IsSeriesMatrix("GSE15907_family.soft.gz"))
}

func TestUnwrap(t *testing.T) {
	a := &expr.Series{Accession: "GSE1", Platform: "GPL6246"}
	b := &expr.Series{Accession: "GSE1", Platform: "GPL1261"}

	_, err := geo.Unwrap(nil, "")
	assert.ErrorIs(t, err, geo.ErrNoBundles)

	res, err := geo.Unwrap([]*expr.Series{a}, "")
	require.NoError(t, err)
	assert.Same(t, a, res)

	res, err = geo.Unwrap([]*expr.Series{a}, "gpl6246")
	require.NoError(t, err)
	assert.Same(t, a, res)

	_, err = geo.Unwrap([]*expr.Series{a}, "GPL1")
	assert.ErrorIs(t, err, geo.ErrAmbiguousPlatform,
		"single bundle on another platform")
	assert.Contains(t, err.Error(), "GPL6246")

	res, err = geo.Unwrap([]*expr.Series{a, b}, "gpl1261")
	require.NoError(t, err)
	assert.Same(t, b, res)

	_, err = geo.Unwrap([]*expr.Series{a, b}, "")
	assert.ErrorIs(t, err, geo.ErrAmbiguousPlatform)
	assert.Contains(t, err.Error(), "GPL6246, GPL1261")

	_, err = geo.Unwrap([]*expr.Series{a, b}, "GPL1")
	assert.ErrorIs(t, err, geo.ErrAmbiguousPlatform)
}
