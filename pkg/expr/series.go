package expr

import (
	"fmt"
	"slices"
	"strings"
)

// Series bundles an expression matrix with its sample and probe metadata.
type Series struct {
	// Accession of the series (GSE).
	Accession string
	// Platform accession (GPL) the series was measured on.
	Platform string
	// Title of the series.
	Title string

	Matrix  *Matrix
	Samples []*Sample
	Probes  []*Probe
}

// Groups is an ordered pair of population labels. Reference is the
// baseline, Test is compared against it, so a positive effect means higher
// values in Test.
type Groups struct {
	Reference string
	Test      string
}

// Validate checks that a pair of labels is usable for a comparison.
func (g Groups) Validate() error {
	if g.Reference == "" || g.Test == "" {
		return fmt.Errorf("both reference and test populations are required")
	}
	if g.Reference == g.Test {
		return fmt.Errorf("reference and test populations are the same: '%s'",
			g.Reference)
	}
	return nil
}

// String returns "test vs reference".
func (g Groups) String() string {
	return g.Test + " vs " + g.Reference
}

// PopulationCount is a population label with its number of samples.
type PopulationCount struct {
	Label   string
	Samples int
}

// Validate checks that matrix rows and columns match probe and sample
// metadata one to one and in the same order.
func (s *Series) Validate() error {
	if s.Matrix == nil {
		return fmt.Errorf("series %s has no expression matrix", s.Accession)
	}
	r, c := s.Matrix.Dims()
	if r != len(s.Probes) {
		return fmt.Errorf("series %s: %d matrix rows but %d probes",
			s.Accession, r, len(s.Probes))
	}
	if c != len(s.Samples) {
		return fmt.Errorf("series %s: %d matrix columns but %d samples",
			s.Accession, c, len(s.Samples))
	}
	for i, p := range s.Probes {
		if p.ID != s.Matrix.ProbeIDs[i] {
			return fmt.Errorf("series %s: row %d is '%s', probe is '%s'",
				s.Accession, i, s.Matrix.ProbeIDs[i], p.ID)
		}
	}
	for i, smp := range s.Samples {
		if smp.ID != s.Matrix.SampleIDs[i] {
			return fmt.Errorf("series %s: column %d is '%s', sample is '%s'",
				s.Accession, i, s.Matrix.SampleIDs[i], smp.ID)
		}
	}
	return nil
}

// AddPopulations derives the population label of every sample from the
// first segment of its title split by delim.
func (s *Series) AddPopulations(delim string) {
	for _, v := range s.Samples {
		v.Population = Population(v.Title, delim)
	}
}

// Population returns the part of a title before the first delimiter.
// A title without the delimiter is returned unchanged.
func Population(title, delim string) string {
	if delim == "" {
		return title
	}
	res, _, _ := strings.Cut(title, delim)
	return res
}

// Populations returns distinct population labels with their sample counts,
// sorted by label.
func (s *Series) Populations() []PopulationCount {
	counts := make(map[string]int)
	for _, v := range s.Samples {
		counts[v.Population]++
	}
	res := make([]PopulationCount, 0, len(counts))
	for k, v := range counts {
		res = append(res, PopulationCount{Label: k, Samples: v})
	}
	slices.SortFunc(res, func(a, b PopulationCount) int {
		return strings.Compare(a.Label, b.Label)
	})
	return res
}

// LogTransform applies the natural logarithm to the expression matrix in
// place. Applying it twice is not detected.
func (s *Series) LogTransform() {
	s.Matrix.Log()
}

// Subset returns a series restricted to samples of the two populations.
// Reference samples come first, then test samples, each in their original
// order. Probes are shared with the receiver, samples are shared by
// pointer, the matrix is a new one. A population without samples gives no
// columns and is not an error here.
func (s *Series) Subset(g Groups) *Series {
	var ref, test []int
	for i, v := range s.Samples {
		switch v.Population {
		case g.Reference:
			ref = append(ref, i)
		case g.Test:
			test = append(test, i)
		}
	}
	idx := append(ref, test...)

	samples := make([]*Sample, len(idx))
	for i, j := range idx {
		samples[i] = s.Samples[j]
	}

	return &Series{
		Accession: s.Accession,
		Platform:  s.Platform,
		Title:     s.Title,
		Matrix:    s.Matrix.Columns(idx),
		Samples:   samples,
		Probes:    s.Probes,
	}
}

// Labels returns population labels of samples in column order.
func (s *Series) Labels() []string {
	res := make([]string, len(s.Samples))
	for i, v := range s.Samples {
		res[i] = v.Population
	}
	return res
}
