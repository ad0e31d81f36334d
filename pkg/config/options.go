package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptRepositoryURL sets the root URL of the GEO FTP tree.
func OptRepositoryURL(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "/")
	return func(c *Config) {
		if isValidURL("Repository URL", s) {
			c.Repository.URL = s
		}
	}
}

// OptRepositoryQueryURL sets the GEO accession query endpoint.
func OptRepositoryQueryURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Repository Query URL", s) {
			c.Repository.QueryURL = s
		}
	}
}

// OptRepositoryTimeout sets the download timeout in seconds.
func OptRepositoryTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Repository Timeout", i) {
			c.Repository.Timeout = i
		}
	}
}

// OptRepositoryWithProgress sets whether download progress bars are shown.
// Uses pointer to distinguish between unset (nil) and false.
func OptRepositoryWithProgress(b *bool) Option {
	return func(c *Config) {
		if b != nil {
			c.Repository.WithProgress = b
		}
	}
}

// OptRepositoryPlatform selects a platform of a multi-platform series.
// Runtime-only field - not in ToOptions().
func OptRepositoryPlatform(s string) Option {
	s = strings.ToUpper(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidString("Repository Platform", s) {
			c.Repository.Platform = s
		}
	}
}

// OptAnnotationSource sets the identifier-to-symbol lookup backend.
// Valid values: "sqlite", "postgres", "assignment".
func OptAnnotationSource(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Annotation.Source", s) {
			c.Annotation.Source = s
		}
	}
}

// OptAnnotationPattern sets the substring that selects an accession token.
// The value is case-sensitive and is not trimmed of letters.
func OptAnnotationPattern(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Annotation Pattern", s) {
			c.Annotation.Pattern = s
		}
	}
}

// OptAnnotationKeyType sets the accession type of the lookup table.
func OptAnnotationKeyType(s string) Option {
	s = strings.ToUpper(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidString("Annotation Key Type", s) {
			c.Annotation.KeyType = s
		}
	}
}

// OptAnnotationBatchSize sets the number of accessions per lookup query.
func OptAnnotationBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Annotation Batch Size", i) {
			c.Annotation.BatchSize = i
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptAnalysisDelimiter sets the sample title delimiter that separates
// the population label from the replicate suffix.
func OptAnalysisDelimiter(s string) Option {
	return func(c *Config) {
		if isValidString("Analysis Delimiter", s) {
			c.Analysis.Delimiter = s
		}
	}
}

// OptAnalysisReference sets the baseline population.
// Runtime-only field - not in ToOptions().
func OptAnalysisReference(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Reference Population", s) {
			c.Analysis.Reference = s
		}
	}
}

// OptAnalysisTest sets the population compared to the baseline.
// Runtime-only field - not in ToOptions().
func OptAnalysisTest(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Test Population", s) {
			c.Analysis.Test = s
		}
	}
}

// OptReportTopNumber sets the maximum number of rows of the ranked table.
func OptReportTopNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Report Top Number", i) {
			c.Report.TopNumber = i
		}
	}
}

// OptReportPValue sets the adjusted p-value threshold, (0, 1].
func OptReportPValue(f float64) Option {
	return func(c *Config) {
		if isValidProbability("Report P-Value", f) {
			c.Report.PValue = f
		}
	}
}

// OptReportLFC sets the minimum absolute log fold change.
func OptReportLFC(f float64) Option {
	return func(c *Config) {
		if isValidNonNegative("Report LFC", f) {
			c.Report.LFC = f
		}
	}
}

// OptReportAdjustMethod sets the multiple-testing correction method.
func OptReportAdjustMethod(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidEnum("Report.AdjustMethod", s) {
			c.Report.AdjustMethod = s
		}
	}
}

// OptReportSortBy sets the ranking key of the table.
func OptReportSortBy(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidEnum("Report.SortBy", s) {
			c.Report.SortBy = s
		}
	}
}

// OptReportLabelsNumber sets the number of labeled volcano points.
func OptReportLabelsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Report Labels Number", i) {
			c.Report.LabelsNumber = i
		}
	}
}

// OptReportHeatmapRows sets the maximum number of heatmap rows.
func OptReportHeatmapRows(i int) Option {
	return func(c *Config) {
		if isValidInt("Report Heatmap Rows", i) {
			c.Report.HeatmapRows = i
		}
	}
}

// OptReportOutputDir sets the directory for report files.
func OptReportOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Report Output Directory", s) {
			c.Report.OutputDir = s
		}
	}
}

// OptReportGenes sets gene symbols to look up in the ranked table.
// Runtime-only field - not in ToOptions().
func OptReportGenes(ss []string) Option {
	var genes []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			genes = append(genes, v)
		}
	}
	return func(c *Config) {
		if len(genes) > 0 {
			c.Report.Genes = genes
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for model fitting.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
