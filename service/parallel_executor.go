package service

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/contractsize/domain"
	"github.com/ludo-technologies/contractsize/internal/config"
)

const (
	// DefaultMaxConcurrency applies when the configured limit is not positive
	DefaultMaxConcurrency = 4
	DefaultTimeout        = time.Minute
)

// MeasureFunc sizes the artifact at path
type MeasureFunc func(ctx context.Context, path string) (domain.Entity, error)

// ArtifactError ties a load failure to its artifact
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// ParallelExecutorImpl measures artifacts with bounded concurrency
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	description    string
}

// NewParallelExecutor uses one worker per CPU and the default timeout
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
	}
}

// NewParallelExecutorFromConfig reads the worker limit and timeout from the
// performance section, falling back to defaults for non-positive values
func NewParallelExecutorFromConfig(cfg config.PerformanceConfig) *ParallelExecutorImpl {
	e := &ParallelExecutorImpl{
		maxConcurrency: cfg.MaxGoroutines,
		timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
	if e.maxConcurrency <= 0 {
		e.maxConcurrency = DefaultMaxConcurrency
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	return e
}

// WithProgress reports each measured artifact to pm under description
func (e *ParallelExecutorImpl) WithProgress(pm domain.ProgressManager, description string) *ParallelExecutorImpl {
	e.progress = pm
	e.description = description
	return e
}

// Execute measures every path and returns the entities in path order.
// All failures are collected; a lone failure is returned unwrapped so its
// domain code survives.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, paths []string, measure MeasureFunc) ([]domain.Entity, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		task = e.progress.StartTask(e.description, len(paths))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)

	entities := make([]domain.Entity, len(paths))
	errs := make([]error, len(paths))
	for i, path := range paths {
		i, path := i, path // per-iteration copies; go directive is below 1.22
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			task.Describe(filepath.Base(path))
			entities[i], errs[i] = measure(gCtx, path)
			task.Increment(1)
			// nil keeps the group running so every failure is reported
			return nil
		})
	}
	_ = g.Wait()

	var failed *multierror.Error
	var first error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		failed = multierror.Append(failed, &ArtifactError{Path: paths[i], Err: err})
	}
	switch {
	case failed == nil:
		return entities, nil
	case failed.Len() == 1:
		return nil, first
	default:
		return nil, failed
	}
}
