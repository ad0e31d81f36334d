package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Platform, Reference, Test, Genes).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var f float64

	s = c.Repository.URL
	if s != "" {
		res = append(res, OptRepositoryURL(s))
	}
	s = c.Repository.QueryURL
	if s != "" {
		res = append(res, OptRepositoryQueryURL(s))
	}
	i = c.Repository.Timeout
	if i > 0 {
		res = append(res, OptRepositoryTimeout(i))
	}
	if c.Repository.WithProgress != nil {
		res = append(res, OptRepositoryWithProgress(c.Repository.WithProgress))
	}

	s = c.Annotation.Source
	if s != "" {
		res = append(res, OptAnnotationSource(s))
	}
	s = c.Annotation.Pattern
	if s != "" {
		res = append(res, OptAnnotationPattern(s))
	}
	s = c.Annotation.KeyType
	if s != "" {
		res = append(res, OptAnnotationKeyType(s))
	}
	i = c.Annotation.BatchSize
	if i > 0 {
		res = append(res, OptAnnotationBatchSize(i))
	}

	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}

	s = c.Analysis.Delimiter
	if s != "" {
		res = append(res, OptAnalysisDelimiter(s))
	}

	i = c.Report.TopNumber
	if i > 0 {
		res = append(res, OptReportTopNumber(i))
	}
	f = c.Report.PValue
	if f > 0 {
		res = append(res, OptReportPValue(f))
	}
	f = c.Report.LFC
	if f > 0 {
		res = append(res, OptReportLFC(f))
	}
	s = c.Report.AdjustMethod
	if s != "" {
		res = append(res, OptReportAdjustMethod(s))
	}
	s = c.Report.SortBy
	if s != "" {
		res = append(res, OptReportSortBy(s))
	}
	i = c.Report.LabelsNumber
	if i > 0 {
		res = append(res, OptReportLabelsNumber(i))
	}
	i = c.Report.HeatmapRows
	if i > 0 {
		res = append(res, OptReportHeatmapRows(i))
	}
	s = c.Report.OutputDir
	if s != "" {
		res = append(res, OptReportOutputDir(s))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidProbability(name string, f float64) bool {
	res := f > 0 && f <= 1
	if !res {
		gn.Warn("<em>%s</em> has to be in (0, 1], ignoring %v", name, f)
	}
	return res
}

func isValidNonNegative(name string, f float64) bool {
	res := f >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %v", name, f)
	}
	return res
}

func isValidURL(name, s string) bool {
	u, err := url.Parse(s)
	res := err == nil && (u.Scheme == "http" || u.Scheme == "https") &&
		u.Host != ""
	if !res {
		gn.Warn("<em>%s</em> is not a valid http(s) URL, ignoring '%s'", name, s)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Annotation.Source": {"sqlite": s, "postgres": s, "assignment": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Report.AdjustMethod": {"BH": s, "fdr": s, "BY": s, "holm": s,
			"bonferroni": s, "none": s},
		"Report.SortBy":   {"p": s, "logFC": s, "t": s, "AveExpr": s, "none": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
