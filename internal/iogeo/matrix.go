package iogeo

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gnexpr/pkg/expr"
)

const maxLineSize = 64 * 1024 * 1024

const (
	tableBegin = "!series_matrix_table_begin"
	tableEnd   = "!series_matrix_table_end"
)

// readSeriesMatrix parses a gzipped series matrix file.
func readSeriesMatrix(path string) (*expr.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseError(path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, ParseError(path, err)
	}
	defer gz.Close()

	res, err := parseSeriesMatrix(gz)
	if err != nil {
		return nil, ParseError(path, err)
	}
	return res, nil
}

// parseSeriesMatrix reads a GEO series matrix: "!Series_" and "!Sample_"
// header lines followed by a tab-separated table of probes by samples.
// Missing values ("null", "NA" or empty cells) become NaN.
func parseSeriesMatrix(r io.Reader) (*expr.Series, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), maxLineSize)

	res := &expr.Series{}
	var titles, gsms []string
	var chars [][]string

	var inTable, seenEnd bool
	var colIDs, probeIDs []string
	var values []float64

	var lineNum int
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}

		if inTable {
			if line == tableEnd {
				inTable, seenEnd = false, true
				continue
			}
			fields := splitLine(line)
			if colIDs == nil {
				if fields[0] != "ID_REF" {
					return nil, fmt.Errorf("line %d: expected ID_REF header", lineNum)
				}
				colIDs = fields[1:]
				continue
			}
			if len(fields) != len(colIDs)+1 {
				return nil, fmt.Errorf("line %d: %d values, expected %d",
					lineNum, len(fields)-1, len(colIDs))
			}
			probeIDs = append(probeIDs, fields[0])
			for _, v := range fields[1:] {
				values = append(values, parseValue(v))
			}
			continue
		}

		if line == tableBegin {
			inTable = true
			continue
		}

		key, rest, _ := strings.Cut(line, "\t")
		fields := splitLine(rest)
		switch key {
		case "!Series_geo_accession":
			res.Accession = fields[0]
		case "!Series_title":
			res.Title = fields[0]
		case "!Series_platform_id":
			if res.Platform == "" {
				res.Platform = fields[0]
			}
		case "!Sample_title":
			titles = fields
		case "!Sample_geo_accession":
			gsms = fields
		case "!Sample_characteristics_ch1":
			chars = append(chars, fields)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if !seenEnd {
		return nil, errors.New("series matrix table is missing or not terminated")
	}
	if gsms != nil && !slices.Equal(gsms, colIDs) {
		return nil, errors.New("table columns do not match sample accessions")
	}
	if titles != nil && len(titles) != len(colIDs) {
		return nil, fmt.Errorf("%d sample titles for %d samples",
			len(titles), len(colIDs))
	}

	m, err := expr.NewMatrix(probeIDs, colIDs, values)
	if err != nil {
		return nil, err
	}
	res.Matrix = m

	res.Samples = make([]*expr.Sample, len(colIDs))
	for i, id := range colIDs {
		s := &expr.Sample{ID: id, Characteristics: make(map[string]string)}
		if titles != nil {
			s.Title = titles[i]
		}
		for _, row := range chars {
			if i >= len(row) {
				continue
			}
			k, v, ok := strings.Cut(row[i], ":")
			if !ok || strings.TrimSpace(k) == "" {
				continue
			}
			s.Characteristics[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		res.Samples[i] = s
	}

	res.Probes = make([]*expr.Probe, len(probeIDs))
	for i, id := range probeIDs {
		res.Probes[i] = &expr.Probe{ID: id}
	}
	return res, nil
}

// splitLine splits a tab-separated line and removes enclosing quotes.
func splitLine(line string) []string {
	res := strings.Split(line, "\t")
	for i, v := range res {
		res[i] = unquote(v)
	}
	return res
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func parseValue(s string) float64 {
	switch s {
	case "", "null", "NULL", "NA", "NaN":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
