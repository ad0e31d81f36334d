// Package pipeline describes a complete analysis of an expression series:
// retrieval, annotation, log transform, differential expression and
// reporting, run in this order.
package pipeline

import (
	"context"

	"github.com/gnames/gnexpr/pkg/annot"
	"github.com/gnames/gnexpr/pkg/dea"
	"github.com/gnames/gnexpr/pkg/expr"
)

// StagesNumber is the number of stages of a complete run.
const StagesNumber = 5

// Pipeline runs the analysis.
type Pipeline interface {
	// Prepare runs retrieval and annotation only. It returns the complete
	// series with population labels and resolved symbols.
	Prepare(ctx context.Context) (*expr.Series, annot.Stats, error)

	// Run executes all stages and returns their results. Report files are
	// written as a side effect.
	Run(ctx context.Context) (*Result, error)
}

// Result keeps outputs of all stages in memory.
type Result struct {
	// Series is the retrieved, annotated and log-transformed series,
	// restricted to the compared populations.
	Series *expr.Series
	// Populations are all populations of the full series.
	Populations []expr.PopulationCount
	// Annotation summarizes symbol resolution.
	Annotation annot.Stats
	// Fit is the moderated linear model.
	Fit *dea.Fit
	// Table is the complete ranked table without filters.
	Table []dea.Row
	// Top is the ranked table after thresholds and the row limit.
	Top []dea.Row
	// Genes maps looked up symbols to their rows.
	Genes map[string][]dea.Row
	// Summary is the description of the run.
	Summary *Summary
	// Files are paths of written reports.
	Files []string
}

// Summary describes a run for humans and for reproducibility.
type Summary struct {
	ID        string `yaml:"id"`
	Version   string `yaml:"version"`
	Series    string `yaml:"series"`
	Platform  string `yaml:"platform"`
	Title     string `yaml:"title,omitempty"`
	Reference Group  `yaml:"reference"`
	Test      Group  `yaml:"test"`

	Probes     int               `yaml:"probes"`
	Annotation AnnotationSummary `yaml:"annotation"`
	Prior      PriorSummary      `yaml:"prior"`
	Thresholds Thresholds        `yaml:"thresholds"`

	// Significant is the number of probes passing thresholds.
	Significant int                  `yaml:"significant"`
	Top         []dea.Row            `yaml:"top,omitempty"`
	Genes       map[string][]dea.Row `yaml:"genes,omitempty"`

	Date    string `yaml:"date"`
	Elapsed string `yaml:"elapsed"`
}

// Group is a compared population.
type Group struct {
	Label   string `yaml:"label"`
	Samples int    `yaml:"samples"`
}

// AnnotationSummary describes symbol resolution.
type AnnotationSummary struct {
	Source   string `yaml:"source"`
	KeyType  string `yaml:"key_type"`
	Pattern  string `yaml:"pattern"`
	Resolved int    `yaml:"resolved"`
	Symbols  int    `yaml:"symbols"`
}

// PriorSummary describes the variance prior of the moderated fit.
type PriorSummary struct {
	DF       float64 `yaml:"df"`
	Variance float64 `yaml:"variance"`
}

// Thresholds are the ranking settings.
type Thresholds struct {
	AdjustMethod string  `yaml:"adjust_method"`
	SortBy       string  `yaml:"sort_by"`
	PValue       float64 `yaml:"p_value"`
	LFC          float64 `yaml:"lfc"`
	Number       int     `yaml:"number"`
}
