// Package gnexpr retrieves public gene-expression series, annotates probes
// with gene symbols and finds differentially expressed genes between two
// sample populations.
package gnexpr

var (
	// Version of gnexpr, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
