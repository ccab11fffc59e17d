package app

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/ludo-technologies/contractsize/domain"
	"github.com/ludo-technologies/contractsize/internal/artifact"
	"github.com/ludo-technologies/contractsize/internal/history"
	"github.com/ludo-technologies/contractsize/internal/metrics"
	"github.com/ludo-technologies/contractsize/internal/sizer"
)

// HistoryOpener opens the size history store at path
type HistoryOpener func(path string) (domain.HistoryStore, error)

// SizeUseCase orchestrates the contract size report workflow
type SizeUseCase struct {
	loader      domain.ArtifactLoader
	formatter   domain.ReportFormatter
	openHistory HistoryOpener
	metrics     domain.MetricsWriter
	logger      *zap.Logger
}

// Execute selects and measures artifacts, renders the report and applies
// the size check.
//
// The report is always written before a *domain.ContractTooLargeError is
// returned, and that error comes back together with the report.
func (uc *SizeUseCase) Execute(ctx context.Context, req domain.SizeRequest) (*domain.Report, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	filter, err := artifact.NewFilter(req.Filter)
	if err != nil {
		return nil, err
	}
	paths, err := artifact.Select(req.ArtifactsPath, filter)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("selected artifacts",
		zap.String("root", req.ArtifactsPath),
		zap.Int("count", len(paths)),
	)
	if len(paths) == 0 {
		return nil, domain.NewNoContractsError()
	}

	entities, err := uc.loader.Load(ctx, paths)
	if err != nil {
		return nil, err
	}

	report, checkErr := sizer.BuildReport(entities, sizer.ReportOptions{
		Sort:         req.Sort,
		Threshold:    req.Threshold,
		Unit:         req.Unit,
		Disambiguate: req.DisambiguatePaths,
	})
	if report == nil {
		return nil, checkErr
	}

	if req.History.Enabled {
		if err := uc.trackHistory(ctx, req.History.Path, report); err != nil {
			return nil, err
		}
	}

	if err := uc.formatter.Write(report, req.OutputFormat, req.OutputWriter); err != nil {
		return nil, err
	}

	if req.MetricsFile != "" {
		if err := uc.metrics.WriteReport(report, req.MetricsFile); err != nil {
			if checkErr != nil {
				// keep the violation visible to callers mapping exit codes
				return report, multierror.Append(checkErr, err)
			}
			return report, err
		}
		uc.logger.Debug("wrote metrics", zap.String("path", req.MetricsFile))
	}

	if checkErr != nil {
		uc.logger.Debug("size check failed", zap.Int("violations", len(report.Violations)))
	}
	return report, checkErr
}

// trackHistory applies the previous run's sizes to report, then records it
func (uc *SizeUseCase) trackHistory(ctx context.Context, path string, report *domain.Report) error {
	store, err := uc.openHistory(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			uc.logger.Warn("failed to close history store", zap.Error(cerr))
		}
	}()

	prev, err := store.Previous(ctx)
	if err != nil {
		return err
	}
	report.ApplyPrevious(prev)
	return store.Record(ctx, report)
}

func (uc *SizeUseCase) validateRequest(req domain.SizeRequest) error {
	if req.ArtifactsPath == "" {
		return fmt.Errorf("no artifacts directory specified")
	}
	if req.OutputWriter == nil {
		return fmt.Errorf("no output writer specified")
	}
	if err := req.Sort.Validate(); err != nil {
		return err
	}
	if req.History.Enabled && req.History.Path == "" {
		return fmt.Errorf("history is enabled without a path")
	}
	return nil
}

// SizeUseCaseBuilder provides a builder pattern for creating SizeUseCase
type SizeUseCaseBuilder struct {
	loader      domain.ArtifactLoader
	formatter   domain.ReportFormatter
	openHistory HistoryOpener
	metrics     domain.MetricsWriter
	logger      *zap.Logger
}

// NewSizeUseCaseBuilder creates a new builder
func NewSizeUseCaseBuilder() *SizeUseCaseBuilder {
	return &SizeUseCaseBuilder{}
}

// WithLoader sets the artifact loader
func (b *SizeUseCaseBuilder) WithLoader(loader domain.ArtifactLoader) *SizeUseCaseBuilder {
	b.loader = loader
	return b
}

// WithFormatter sets the report formatter
func (b *SizeUseCaseBuilder) WithFormatter(formatter domain.ReportFormatter) *SizeUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithHistoryOpener replaces the SQLite history store
func (b *SizeUseCaseBuilder) WithHistoryOpener(open HistoryOpener) *SizeUseCaseBuilder {
	b.openHistory = open
	return b
}

// WithMetricsWriter replaces the Prometheus textfile writer
func (b *SizeUseCaseBuilder) WithMetricsWriter(w domain.MetricsWriter) *SizeUseCaseBuilder {
	b.metrics = w
	return b
}

// WithLogger sets the logger
func (b *SizeUseCaseBuilder) WithLogger(logger *zap.Logger) *SizeUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the SizeUseCase with the configured dependencies
func (b *SizeUseCaseBuilder) Build() (*SizeUseCase, error) {
	if b.loader == nil {
		return nil, fmt.Errorf("artifact loader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("report formatter is required")
	}

	uc := &SizeUseCase{
		loader:      b.loader,
		formatter:   b.formatter,
		openHistory: b.openHistory,
		metrics:     b.metrics,
		logger:      b.logger,
	}
	if uc.logger == nil {
		uc.logger = zap.NewNop()
	}
	if uc.metrics == nil {
		uc.metrics = metrics.NewTextfileWriter()
	}
	if uc.openHistory == nil {
		logger := uc.logger
		uc.openHistory = func(path string) (domain.HistoryStore, error) {
			return history.Open(path, logger)
		}
	}
	return uc, nil
}
