package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ludo-technologies/contractsize/domain"
	"github.com/ludo-technologies/contractsize/internal/artifact"
	"github.com/ludo-technologies/contractsize/internal/config"
	"github.com/ludo-technologies/contractsize/internal/sizer"
)

// ArtifactServiceImpl implements domain.ArtifactLoader
type ArtifactServiceImpl struct {
	performance config.PerformanceConfig
	progress    domain.ProgressManager
	logger      *zap.Logger
}

// NewArtifactService creates a loader reading artifacts in parallel
func NewArtifactService(performance config.PerformanceConfig, progress domain.ProgressManager, logger *zap.Logger) *ArtifactServiceImpl {
	if progress == nil {
		progress = &NoOpProgressManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtifactServiceImpl{
		performance: performance,
		progress:    progress,
		logger:      logger,
	}
}

// Load reads and measures every artifact. Entities come back in path order;
// any unreadable artifact fails the whole load.
func (s *ArtifactServiceImpl) Load(ctx context.Context, paths []string) ([]domain.Entity, error) {
	if len(paths) == 0 {
		return nil, domain.NewNoContractsError()
	}

	executor := NewParallelExecutorFromConfig(s.performance).WithProgress(s.progress, "Measuring contracts")
	entities, err := executor.Execute(ctx, paths, measure)
	if err != nil {
		s.logger.Debug("artifact load failed", zap.Error(err))
		return nil, err
	}

	for _, e := range entities {
		s.logger.Debug("measured contract",
			zap.String("name", e.Name),
			zap.String("artifact", e.ArtifactPath),
			zap.Int64("bytes", e.Size.Bytes()),
		)
	}
	return entities, nil
}

// measure reads one artifact file and sizes its deployed bytecode
func measure(ctx context.Context, path string) (domain.Entity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Entity{}, err
	}
	a, err := artifact.Read(path)
	if err != nil {
		return domain.Entity{}, err
	}
	e, err := sizer.MeasureEntity(artifact.ShortName(path), a.QualifiedName(), path, a.DeployedBytecode, domain.SizeUnitKibibytes)
	if err != nil {
		var de domain.DomainError
		if errors.As(err, &de) {
			de.Message += " in " + path
			return domain.Entity{}, de
		}
		return domain.Entity{}, err
	}
	return e, nil
}
