package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	ConfigWriteError
	ConfigReadError

	// Logging errors
	CreateLogFileError

	// Repository errors
	GEOAccessionError
	GEOListingError
	GEODownloadError
	GEONoSeriesMatrixError
	GEOParseError
	GEOPlatformError
	GEOAmbiguousPlatformError
	GEORawArchiveError

	// Annotation errors
	AnnotSourceError
	AnnotDBConnectionError
	AnnotDBNotConnectedError
	AnnotQueryError
	AnnotImportError

	// Analysis errors
	AnalysisGroupsError
	AnalysisDesignError
	AnalysisFitError
	AnalysisRankError

	// Report errors
	ReportTableError
	ReportSummaryError
	ReportPlotError
	ReportEmptyError
	ReportOutputError

	// Pipeline errors
	PipelineCancelledError
)
