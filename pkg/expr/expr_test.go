package expr_test

import (
	"math"
	"testing"

	"github.com/gnames/gnexpr/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries(t *testing.T) *expr.Series {
	t.Helper()
	probes := []string{"p1", "p2", "p3"}
	samples := []string{"GSM1", "GSM2", "GSM3", "GSM4", "GSM5"}
	titles := []string{"B.GC.Sp#1", "B.Fo.Sp#1", "T.4.Sp#1", "B.GC.Sp#2",
		"B.Fo.Sp#2"}
	vals := []float64{
		1, 2, 3, 4, 5,
		10, 20, 30, 40, 50,
		0.5, 1.5, 2.5, 3.5, 4.5,
	}
	m, err := expr.NewMatrix(probes, samples, vals)
	require.NoError(t, err)

	res := &expr.Series{Accession: "GSE1", Platform: "GPL1", Matrix: m}
	for i, v := range samples {
		res.Samples = append(res.Samples,
			&expr.Sample{ID: v, Title: titles[i]})
	}
	for _, v := range probes {
		res.Probes = append(res.Probes, &expr.Probe{ID: v})
	}
	require.NoError(t, res.Validate())
	return res
}

func TestNewMatrix(t *testing.T) {
	tests := []struct {
		msg     string
		probes  []string
		samples []string
		vals    []float64
		err     bool
	}{
		{"ok", []string{"a", "b"}, []string{"s1"}, []float64{1, 2}, false},
		{"wrong size", []string{"a", "b"}, []string{"s1"}, []float64{1}, true},
		{"dup probe", []string{"a", "a"}, []string{"s1"}, []float64{1, 2}, true},
		{"dup sample", []string{"a"}, []string{"s1", "s1"}, []float64{1, 2}, true},
		{"empty", nil, []string{"s1"}, nil, false},
	}

	for _, v := range tests {
		m, err := expr.NewMatrix(v.probes, v.samples, v.vals)
		if v.err {
			assert.Error(t, err, v.msg)
			continue
		}
		require.NoError(t, err, v.msg)
		r, c := m.Dims()
		assert.Equal(t, len(v.probes), r, v.msg)
		assert.Equal(t, len(v.samples), c, v.msg)
	}
}

func TestPopulation(t *testing.T) {
	tests := []struct {
		title, delim, res string
	}{
		{"B.Fo.Sp#1", "#", "B.Fo.Sp"},
		{"B.Fo.Sp#1#x", "#", "B.Fo.Sp"},
		{"NoDelimiter", "#", "NoDelimiter"},
		{"#1", "#", ""},
		{"", "#", ""},
		{"GN.Sp_2", "_", "GN.Sp"},
		{"keep", "", "keep"},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, expr.Population(v.title, v.delim), v.title)
	}
}

func TestPopulations(t *testing.T) {
	s := testSeries(t)
	s.AddPopulations("#")

	res := s.Populations()
	assert.Equal(t, []expr.PopulationCount{
		{Label: "B.Fo.Sp", Samples: 2},
		{Label: "B.GC.Sp", Samples: 2},
		{Label: "T.4.Sp", Samples: 1},
	}, res)
}

func TestLogTransformMonotonic(t *testing.T) {
	s := testSeries(t)
	before := make([][]float64, 3)
	for i := range before {
		before[i] = s.Matrix.Row(i)
	}

	s.LogTransform()

	var all, logged []float64
	for i := range before {
		all = append(all, before[i]...)
		logged = append(logged, s.Matrix.Row(i)...)
	}
	for i := range all {
		assert.InDelta(t, math.Log(all[i]), logged[i], 1e-12)
		for j := range all {
			if all[i] < all[j] {
				assert.Less(t, logged[i], logged[j])
			}
		}
	}
}

func TestLogTransformNonPositive(t *testing.T) {
	m, err := expr.NewMatrix([]string{"p"}, []string{"a", "b", "c"},
		[]float64{0, -1, math.E})
	require.NoError(t, err)

	m.Log()
	assert.True(t, math.IsInf(m.At(0, 0), -1))
	assert.True(t, math.IsNaN(m.At(0, 1)))
	assert.InDelta(t, 1, m.At(0, 2), 1e-12)
}

func TestSubset(t *testing.T) {
	s := testSeries(t)
	s.AddPopulations("#")

	g := expr.Groups{Reference: "B.Fo.Sp", Test: "B.GC.Sp"}
	res := s.Subset(g)
	require.NoError(t, res.Validate())

	ids := make([]string, len(res.Samples))
	for i, v := range res.Samples {
		ids[i] = v.ID
	}
	assert.Equal(t, []string{"GSM2", "GSM5", "GSM1", "GSM4"}, ids)
	assert.Equal(t, ids, res.Matrix.SampleIDs)
	assert.Equal(t, []string{"B.Fo.Sp", "B.Fo.Sp", "B.GC.Sp", "B.GC.Sp"},
		res.Labels())

	// only the two requested populations survive
	for _, v := range res.Samples {
		assert.Contains(t, []string{g.Reference, g.Test}, v.Population)
	}
	assert.Equal(t, []float64{20, 50, 10, 40}, res.Matrix.Row(1))

	// probes are shared, not copied
	assert.Same(t, s.Probes[0], res.Probes[0])
	// the original is untouched
	r, c := s.Matrix.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 5, c)
}

func TestSubsetMissingGroup(t *testing.T) {
	s := testSeries(t)
	s.AddPopulations("#")

	res := s.Subset(expr.Groups{Reference: "B.Fo.Sp", Test: "NK.Sp"})
	require.NoError(t, res.Validate())
	assert.Len(t, res.Samples, 2)

	res = s.Subset(expr.Groups{Reference: "X", Test: "Y"})
	require.NoError(t, res.Validate())
	_, c := res.Matrix.Dims()
	assert.Equal(t, 0, c)
	assert.Nil(t, res.Matrix.Values)
}

func TestGroupsValidate(t *testing.T) {
	assert.NoError(t, expr.Groups{Reference: "a", Test: "b"}.Validate())
	assert.Error(t, expr.Groups{Reference: "a", Test: "a"}.Validate())
	assert.Error(t, expr.Groups{Reference: "", Test: "b"}.Validate())
	assert.Equal(t, "b vs a", expr.Groups{Reference: "a", Test: "b"}.String())
}

func TestValidateMismatch(t *testing.T) {
	s := testSeries(t)
	s.Probes[1].ID = "other"
	assert.Error(t, s.Validate())

	s = testSeries(t)
	s.Samples = s.Samples[:4]
	assert.Error(t, s.Validate())
}
