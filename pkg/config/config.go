// Package config provides configuration management for gnexpr.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Repository: url, query_url, timeout, with_progress
//   - Annotation: source, pattern, key_type, batch_size
//   - Database: host, port, user, password, database, ssl_mode
//   - Analysis: delimiter
//   - Report: top_number, p_value, lfc, adjust_method, sort_by,
//     labels_number, heatmap_rows, output_dir
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Repository.Platform, Analysis.Reference, Analysis.Test,
//     Report.Genes (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNEXPR_ prefix with underscores for nesting:
//
//	GNEXPR_REPOSITORY_URL=https://ftp.ncbi.nlm.nih.gov/geo
//	GNEXPR_ANNOTATION_SOURCE=sqlite
//	GNEXPR_REPORT_P_VALUE=0.05
//	GNEXPR_LOG_LEVEL=info
//	GNEXPR_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete gnexpr configuration.
type Config struct {
	// Repository contains settings of the public expression repository.
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`

	// Annotation contains settings of the probe annotation stage.
	Annotation AnnotationConfig `mapstructure:"annotation" yaml:"annotation"`

	// Database contains PostgreSQL connection settings, used only when
	// Annotation.Source is "postgres".
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Analysis contains settings of the group comparison.
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`

	// Report contains settings for ranking, filtering and plotting.
	Report ReportConfig `mapstructure:"report" yaml:"report"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for linear model
	// fitting. Default value is set according to the number of available
	// threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// RepositoryConfig describes where expression series are downloaded from.
type RepositoryConfig struct {
	// URL is the root of the GEO FTP tree served over HTTPS.
	// Series matrices are found at {URL}/series/GSEnnn/GSExxxxx/matrix/.
	URL string `mapstructure:"url" yaml:"url"`

	// QueryURL is the GEO accession query endpoint, used to download
	// platform (GPL) annotation tables.
	QueryURL string `mapstructure:"query_url" yaml:"query_url"`

	// Timeout is the HTTP client timeout in seconds for a single download.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// WithProgress shows progress bars during downloads.
	WithProgress *bool `mapstructure:"with_progress" yaml:"with_progress"`

	// Platform selects a GPL accession when a series was run on several
	// platforms. Empty means the series must have exactly one platform.
	Platform string `mapstructure:"platform" yaml:"platform"`
}

// AnnotationConfig describes how probes are resolved to gene symbols.
type AnnotationConfig struct {
	// Source is the identifier-to-symbol lookup backend.
	// Valid values: "sqlite", "postgres", "assignment".
	Source string `mapstructure:"source" yaml:"source"`

	// Pattern is the case-sensitive substring a token of the probe
	// accession list must contain to be selected. Default "NM" keeps only
	// RefSeq mRNA accessions; NR_ and XM_ tokens are not resolved.
	Pattern string `mapstructure:"pattern" yaml:"pattern"`

	// KeyType is the accession type used as a key of the lookup table.
	KeyType string `mapstructure:"key_type" yaml:"key_type"`

	// BatchSize is the number of accessions sent in one lookup query.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// AnalysisConfig contains settings of the two-group comparison.
type AnalysisConfig struct {
	// Delimiter splits a sample title; the first segment is the
	// population label (ImmGen titles look like "B.Fo.Sp#1").
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// Reference is the baseline population (intercept of the design).
	Reference string `mapstructure:"reference" yaml:"reference"`

	// Test is the population compared against the Reference.
	// Positive fold changes mean higher expression in Test.
	Test string `mapstructure:"test" yaml:"test"`
}

// ReportConfig contains settings for the output of the analysis.
type ReportConfig struct {
	// TopNumber is the maximum number of rows in the ranked table.
	TopNumber int `mapstructure:"top_number" yaml:"top_number"`

	// PValue is the adjusted p-value threshold for significance.
	PValue float64 `mapstructure:"p_value" yaml:"p_value"`

	// LFC is the minimum absolute log fold change for the ranked table.
	// Zero disables the filter.
	LFC float64 `mapstructure:"lfc" yaml:"lfc"`

	// AdjustMethod is the multiple-testing correction.
	// Valid values: "BH", "fdr", "BY", "holm", "bonferroni", "none".
	AdjustMethod string `mapstructure:"adjust_method" yaml:"adjust_method"`

	// SortBy is the ranking key: "p", "logFC", "t", "AveExpr", "none".
	SortBy string `mapstructure:"sort_by" yaml:"sort_by"`

	// LabelsNumber is how many top points of the volcano plot get a
	// gene symbol label.
	LabelsNumber int `mapstructure:"labels_number" yaml:"labels_number"`

	// HeatmapRows limits the number of significant probes in the heatmap.
	HeatmapRows int `mapstructure:"heatmap_rows" yaml:"heatmap_rows"`

	// OutputDir is where table, summary and plots are written.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Genes are symbols to look up in the full ranked table.
	Genes []string `mapstructure:"genes" yaml:"genes"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	withProgress := true
	res := &Config{
		Repository: RepositoryConfig{
			URL:          "https://ftp.ncbi.nlm.nih.gov/geo",
			QueryURL:     "https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi",
			Timeout:      600,
			WithProgress: &withProgress,
		},
		Annotation: AnnotationConfig{
			Source:    "sqlite",
			Pattern:   "NM",
			KeyType:   "REFSEQ",
			BatchSize: 500, // stays well below SQLite's host parameter limit
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "gnexpr",
			SSLMode:  "disable",
		},
		Analysis: AnalysisConfig{
			Delimiter: "#",
		},
		Report: ReportConfig{
			TopNumber:    20,
			PValue:       0.05,
			AdjustMethod: "BH",
			SortBy:       "p",
			LabelsNumber: 10,
			HeatmapRows:  50,
			OutputDir:    ".",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
