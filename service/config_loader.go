package service

import (
	"io"

	"github.com/ludo-technologies/contractsize/domain"
	"github.com/ludo-technologies/contractsize/internal/config"
)

// ConfigOverrides carries command line values. Nil fields leave the
// configuration file value untouched.
type ConfigOverrides struct {
	ArtifactsDir      *string
	Sort              *string
	CheckMaxSize      *string
	Contracts         []string
	Except            []string
	IgnoreMocks       *bool
	DisambiguatePaths *bool
	SizeInBytes       *bool
	IgnoreFile        *string

	Format  *string
	NoColor *bool

	History     *bool
	HistoryPath *string
	MetricsFile *string
}

// ConfigurationLoaderImpl resolves configuration files and flags into a
// SizeRequest
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads the explicit config file, or discovers one from
// targetPath upward when configPath is empty
func (c *ConfigurationLoaderImpl) LoadConfig(configPath, targetPath string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(configPath, targetPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// MergeConfig applies command line overrides on top of cfg and validates
// the result
func (c *ConfigurationLoaderImpl) MergeConfig(cfg *config.Config, o ConfigOverrides) (*config.Config, error) {
	merged := *cfg
	cs := &merged.ContractSize

	if o.ArtifactsDir != nil && *o.ArtifactsDir != "" {
		cs.ArtifactsDir = *o.ArtifactsDir
	}
	if o.Sort != nil {
		cs.Sort = *o.Sort
		// An explicit sort always replaces the legacy switch
		cs.AlphaSort = false
	}
	if o.CheckMaxSize != nil {
		cs.CheckMaxSize = *o.CheckMaxSize
	}
	if o.Contracts != nil {
		cs.Contracts = o.Contracts
	}
	if o.Except != nil {
		cs.Except = o.Except
	}
	if o.IgnoreMocks != nil {
		cs.IgnoreMocks = *o.IgnoreMocks
	}
	if o.DisambiguatePaths != nil {
		cs.DisambiguatePaths = *o.DisambiguatePaths
	}
	if o.SizeInBytes != nil {
		cs.SizeInBytes = *o.SizeInBytes
	}
	if o.IgnoreFile != nil {
		cs.IgnoreFile = *o.IgnoreFile
	}

	if o.Format != nil {
		merged.Output.Format = *o.Format
	}
	if o.NoColor != nil {
		merged.Output.NoColor = *o.NoColor
	}

	if o.History != nil {
		merged.History.Enabled = *o.History
	}
	if o.HistoryPath != nil && *o.HistoryPath != "" {
		merged.History.Path = *o.HistoryPath
		merged.History.Enabled = true
	}
	if o.MetricsFile != nil {
		merged.Metrics.File = *o.MetricsFile
	}

	if err := merged.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return &merged, nil
}

// BuildRequest converts a validated Config into a SizeRequest
func (c *ConfigurationLoaderImpl) BuildRequest(cfg *config.Config, writer io.Writer) (*domain.SizeRequest, error) {
	sortSpec, err := cfg.ContractSize.SortSpec()
	if err != nil {
		return nil, err
	}
	threshold, err := cfg.ContractSize.Threshold()
	if err != nil {
		return nil, domain.NewConfigError("invalid check_max_size", err)
	}

	return &domain.SizeRequest{
		ArtifactsPath:     cfg.ContractSize.ArtifactsDir,
		Filter:            cfg.ContractSize.Filter(),
		Sort:              sortSpec,
		Threshold:         threshold,
		Unit:              cfg.ContractSize.Unit(),
		DisambiguatePaths: cfg.ContractSize.DisambiguatePaths,
		OutputFormat:      domain.OutputFormat(cfg.Output.Format),
		OutputWriter:      writer,
		NoColor:           cfg.Output.NoColor,
		History: domain.HistoryOptions{
			Enabled: cfg.History.Enabled,
			Path:    cfg.History.Path,
		},
		MetricsFile: cfg.Metrics.File,
	}, nil
}
