package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// ArtifactFilter selects which artifact files are measured
type ArtifactFilter struct {
	// Contracts keeps only artifacts whose path matches one of these regexes
	Contracts []string

	// Except drops artifacts whose path matches one of these regexes
	Except []string

	// IgnoreMocks drops artifacts whose file name ends with "Mock"
	IgnoreMocks bool

	// IgnoreFile is a gitignore-style file of paths to skip
	IgnoreFile string
}

// HistoryOptions controls the size history store
type HistoryOptions struct {
	Enabled bool
	Path    string
}

// SizeRequest represents a request for a contract size report
type SizeRequest struct {
	// ArtifactsPath is the compiled artifacts directory
	ArtifactsPath string

	Filter ArtifactFilter

	// Report shape
	Sort              SortSpec
	Threshold         ThresholdConfig
	Unit              SizeUnit
	DisambiguatePaths bool

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	NoColor      bool

	History     HistoryOptions
	MetricsFile string
}

// ArtifactLoader turns artifact paths into measured entities. A failure on any
// path fails the whole load.
type ArtifactLoader interface {
	Load(ctx context.Context, paths []string) ([]Entity, error)
}

// ReportFormatter renders a report
type ReportFormatter interface {
	Write(report *Report, format OutputFormat, writer io.Writer) error
}

// HistoryStore persists sizes between runs
type HistoryStore interface {
	Previous(ctx context.Context) (PreviousSizes, error)
	Record(ctx context.Context, report *Report) error
	Close() error
}

// MetricsWriter exports a report as metrics
type MetricsWriter interface {
	WriteReport(report *Report, path string) error
}

// ProgressManager creates progress trackers for long-running steps
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks a single step
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
