package iogeo

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/gnames/gnexpr/pkg/expr"
)

// Columns of a platform table that carry accession lists, in order of
// preference.
var accessionColumns = []string{"GB_LIST", "GB_ACC"}

const assignmentColumn = "gene_assignment"

// platformRow is the probe metadata of a platform table.
type platformRow struct {
	accessions string
	assignment string
}

// platformURL returns the query URL of a platform annotation table.
func (g *geoFetcher) platformURL(platform string) string {
	q := url.Values{}
	q.Set("acc", platform)
	q.Set("targ", "self")
	q.Set("form", "text")
	q.Set("view", "data")
	return g.cfg.Repository.QueryURL + "?" + q.Encode()
}

// fetchPlatform downloads and parses the annotation table of a platform.
func (g *geoFetcher) fetchPlatform(
	ctx context.Context,
	platform string,
	prog *progress,
) (map[string]platformRow, error) {
	u := g.platformURL(platform)
	resp, err := g.get(ctx, u)
	if err != nil {
		return nil, PlatformError(platform, err)
	}
	defer resp.Body.Close()
	prog.expect(resp.ContentLength)

	var r io.Reader = resp.Body
	if prog != nil {
		r = prog.bar.NewProxyReader(resp.Body)
	}
	res, err := parsePlatform(r)
	if err != nil {
		return nil, PlatformError(platform, err)
	}
	return res, nil
}

// parsePlatform reads a SOFT platform table. Lines starting with "^", "!"
// or "#" are metadata; the first other line is the header. Reading stops
// at "!platform_table_end".
func parsePlatform(r io.Reader) (map[string]platformRow, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), maxLineSize)

	res := make(map[string]platformRow)
	idCol, accCol, asgCol := -1, -1, -1
	var header bool
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "!platform_table_end" {
			break
		}
		if line == "" || strings.ContainsAny(line[:1], "^!#") {
			continue
		}

		fields := splitLine(line)
		if !header {
			header = true
			idCol, accCol, asgCol = platformColumns(fields)
			if idCol < 0 {
				return nil, errors.New("platform table has no ID column")
			}
			continue
		}

		if idCol >= len(fields) {
			continue
		}
		var row platformRow
		if accCol >= 0 && accCol < len(fields) {
			row.accessions = fields[accCol]
		}
		if asgCol >= 0 && asgCol < len(fields) {
			row.assignment = fields[asgCol]
		}
		res[fields[idCol]] = row
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !header {
		return nil, errors.New("platform table is empty")
	}
	return res, nil
}

func platformColumns(header []string) (int, int, int) {
	idCol, accCol, asgCol := -1, -1, -1
	accRank := len(accessionColumns)
	for i, v := range header {
		switch {
		case v == "ID":
			idCol = i
		case v == assignmentColumn:
			asgCol = i
		}
		for rank, name := range accessionColumns {
			if v == name && rank < accRank {
				accCol, accRank = i, rank
			}
		}
	}
	return idCol, accCol, asgCol
}

// attachPlatform fills accession lists and gene assignments of probes.
// Probes absent from the platform table keep empty fields. It returns the
// number of probes found in the table.
func attachPlatform(probes []*expr.Probe, table map[string]platformRow) int {
	var res int
	for _, p := range probes {
		row, ok := table[p.ID]
		if !ok {
			continue
		}
		res++
		p.Accessions = row.accessions
		p.GeneAssignment = row.assignment
	}
	return res
}
