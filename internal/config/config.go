package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/contractsize/domain"
	"github.com/ludo-technologies/contractsize/internal/artifact"
	"github.com/ludo-technologies/contractsize/internal/constants"
	"github.com/ludo-technologies/contractsize/internal/sizer"
)

// Default settings
const (
	// DefaultSort orders contracts by size, smallest first
	DefaultSort = "size,asc"

	// DefaultMaxGoroutines bounds concurrent artifact reads
	DefaultMaxGoroutines = 8

	// DefaultTimeoutSeconds bounds the whole artifact load
	DefaultTimeoutSeconds = 60

	// DefaultLogLevel keeps the CLI quiet unless something goes wrong
	DefaultLogLevel = "warn"
)

// Config represents the main configuration structure
type Config struct {
	// ContractSize holds the report options
	ContractSize ContractSizeConfig `json:"contract_size" mapstructure:"contract_size" yaml:"contract_size"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// History holds the size history store configuration
	History HistoryConfig `json:"history" mapstructure:"history" yaml:"history"`

	// Metrics holds the metrics export configuration
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics" yaml:"metrics"`

	// Performance holds artifact loading limits
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Logging holds diagnostic logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// ContractSizeConfig holds the options that shape the size report
type ContractSizeConfig struct {
	// ArtifactsDir is the compiled artifacts directory
	ArtifactsDir string `json:"artifacts_dir" mapstructure:"artifacts_dir" yaml:"artifacts_dir"`

	// Sort is "<name|size>[,<asc|desc>]"
	Sort string `json:"sort" mapstructure:"sort" yaml:"sort"`

	// AlphaSort is the legacy switch for name,asc. Sort wins when both are set.
	AlphaSort bool `json:"alpha_sort" mapstructure:"alpha_sort" yaml:"alpha_sort"`

	// CheckMaxSize is false, true (24 KiB) or a limit in KiB
	CheckMaxSize any `json:"check_max_size" mapstructure:"check_max_size" yaml:"check_max_size"`

	// Contracts keeps only artifacts matching one of these regexes
	Contracts []string `json:"contracts" mapstructure:"contracts" yaml:"contracts"`

	// Except drops artifacts matching one of these regexes
	Except []string `json:"except" mapstructure:"except" yaml:"except"`

	IgnoreMocks       bool `json:"ignore_mocks" mapstructure:"ignore_mocks" yaml:"ignore_mocks"`
	DisambiguatePaths bool `json:"disambiguate_paths" mapstructure:"disambiguate_paths" yaml:"disambiguate_paths"`
	SizeInBytes       bool `json:"size_in_bytes" mapstructure:"size_in_bytes" yaml:"size_in_bytes"`

	// IgnoreFile is a gitignore-style list of artifact paths to skip
	IgnoreFile string `json:"ignore_file" mapstructure:"ignore_file" yaml:"ignore_file"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// NoColor disables tier colors in text output
	NoColor bool `json:"no_color" mapstructure:"no_color" yaml:"no_color"`
}

// HistoryConfig holds configuration for the size history database
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Path    string `json:"path" mapstructure:"path" yaml:"path"`
}

// MetricsConfig holds configuration for the Prometheus textfile export
type MetricsConfig struct {
	// File is the textfile path; empty disables the export
	File string `json:"file" mapstructure:"file" yaml:"file"`
}

// PerformanceConfig holds artifact loading limits
type PerformanceConfig struct {
	// MaxGoroutines bounds concurrent artifact reads (0 = default)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds the whole load (0 = default)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoggingConfig holds diagnostic logging configuration
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" mapstructure:"level" yaml:"level"`

	// Format is console or json
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ContractSize: ContractSizeConfig{
			ArtifactsDir:      constants.DefaultArtifactsDir,
			Sort:              DefaultSort,
			AlphaSort:         false,
			CheckMaxSize:      false,
			Contracts:         []string{},
			Except:            []string{},
			IgnoreMocks:       false,
			DisambiguatePaths: false,
			SizeInBytes:       false,
		},
		Output: OutputConfig{
			Format: constants.OutputFormatText,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    constants.DefaultHistoryPath,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// With no explicit path, a config file is discovered from targetPath upward.
// Environment variables prefixed with CONTRACTSIZE_ override file values.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file; an empty path
// yields the defaults with environment overrides applied
func loadConfigFromFile(configPath string) (*Config, error) {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	setDefaults(v, config)

	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	// mapstructure decodes into the dynamic type already held by an interface
	// field; a nil value keeps whatever bool, number or string the source had
	config.ContractSize.CheckMaxSize = nil

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("contract_size.artifacts_dir", c.ContractSize.ArtifactsDir)
	v.SetDefault("contract_size.sort", c.ContractSize.Sort)
	v.SetDefault("contract_size.alpha_sort", c.ContractSize.AlphaSort)
	v.SetDefault("contract_size.check_max_size", c.ContractSize.CheckMaxSize)
	v.SetDefault("contract_size.contracts", c.ContractSize.Contracts)
	v.SetDefault("contract_size.except", c.ContractSize.Except)
	v.SetDefault("contract_size.ignore_mocks", c.ContractSize.IgnoreMocks)
	v.SetDefault("contract_size.disambiguate_paths", c.ContractSize.DisambiguatePaths)
	v.SetDefault("contract_size.size_in_bytes", c.ContractSize.SizeInBytes)
	v.SetDefault("contract_size.ignore_file", c.ContractSize.IgnoreFile)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.no_color", c.Output.NoColor)
	v.SetDefault("history.enabled", c.History.Enabled)
	v.SetDefault("history.path", c.History.Path)
	v.SetDefault("metrics.file", c.Metrics.File)
	v.SetDefault("performance.max_goroutines", c.Performance.MaxGoroutines)
	v.SetDefault("performance.timeout_seconds", c.Performance.TimeoutSeconds)
	v.SetDefault("logging.level", c.Logging.Level)
	v.SetDefault("logging.format", c.Logging.Format)
}

// configCandidates lists the file names searched in each directory
var configCandidates = []string{
	"contractsize.yaml",
	"contractsize.yml",
	".contractsize.yaml",
	".contractsize.yml",
	"contractsize.json",
	".contractsize.toml",
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations
// targetPath is the artifacts directory being measured
func findDefaultConfig(targetPath string) string {
	// If targetPath is provided, search from there upward
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, configCandidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", configCandidates); config != "" {
		return config
	}

	// Check XDG config directory (Linux/Mac standard)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), configCandidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, configCandidates); config != "" {
			return config
		}
	}

	// CONTRACTSIZE_CONFIG environment variable as fallback
	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := c.ContractSize.SortSpec(); err != nil {
		result = multierror.Append(result, fmt.Errorf("contract_size.sort: %w", err))
	}

	if _, err := c.ContractSize.Threshold(); err != nil {
		result = multierror.Append(result, fmt.Errorf("contract_size.check_max_size: %w", err))
	}

	if err := artifact.CompilePatterns("contracts", c.ContractSize.Contracts); err != nil {
		result = multierror.Append(result, fmt.Errorf("contract_size.contracts: %w", err))
	}
	if err := artifact.CompilePatterns("except", c.ContractSize.Except); err != nil {
		result = multierror.Append(result, fmt.Errorf("contract_size.except: %w", err))
	}

	if strings.TrimSpace(c.ContractSize.ArtifactsDir) == "" {
		result = multierror.Append(result, fmt.Errorf("contract_size.artifacts_dir cannot be empty"))
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}
	if !validFormats[c.Output.Format] {
		result = multierror.Append(result,
			fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format))
	}

	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		result = multierror.Append(result, fmt.Errorf("history.path cannot be empty when history is enabled"))
	}

	if c.Performance.MaxGoroutines < 0 {
		result = multierror.Append(result,
			fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines))
	}
	if c.Performance.TimeoutSeconds < 0 {
		result = multierror.Append(result,
			fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds))
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result,
			fmt.Errorf("invalid logging.level '%s', must be one of: debug, info, warn, error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		result = multierror.Append(result,
			fmt.Errorf("invalid logging.format '%s', must be one of: console, json", c.Logging.Format))
	}

	return result.ErrorOrNil()
}

// SortSpec resolves the configured sort, honoring the legacy alpha_sort switch
func (c *ContractSizeConfig) SortSpec() (domain.SortSpec, error) {
	sort := strings.TrimSpace(c.Sort)
	if c.AlphaSort && (sort == "" || sort == DefaultSort) {
		sort = string(domain.SortByName) + "," + string(domain.SortAscending)
	}
	return sizer.ParseSortSpec(sort)
}

// Threshold resolves check_max_size into a threshold configuration
func (c *ContractSizeConfig) Threshold() (domain.ThresholdConfig, error) {
	return ParseCheckMaxSize(c.CheckMaxSize)
}

// Unit returns the configured display unit
func (c *ContractSizeConfig) Unit() domain.SizeUnit {
	return domain.UnitFor(c.SizeInBytes)
}

// Filter returns the artifact selection options
func (c *ContractSizeConfig) Filter() domain.ArtifactFilter {
	return domain.ArtifactFilter{
		Contracts:   c.Contracts,
		Except:      c.Except,
		IgnoreMocks: c.IgnoreMocks,
		IgnoreFile:  c.IgnoreFile,
	}
}

// ParseCheckMaxSize accepts false/true or a positive limit in KiB, as a bool,
// a number or a string. Zero disables the check.
func ParseCheckMaxSize(v any) (domain.ThresholdConfig, error) {
	cfg := domain.DefaultThresholdConfig()

	var limit float64
	switch val := v.(type) {
	case nil:
		return cfg, nil
	case bool:
		cfg.Enabled = val
		return cfg, nil
	case int:
		limit = float64(val)
	case int64:
		limit = float64(val)
	case uint64:
		limit = float64(val)
	case float64:
		limit = val
	case string:
		s := strings.TrimSpace(strings.ToLower(val))
		switch s {
		case "", "false":
			return cfg, nil
		case "true":
			cfg.Enabled = true
			return cfg, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cfg, domain.NewConfigError(fmt.Sprintf("invalid value %q (want true, false or a size in KiB)", val), nil)
		}
		limit = f
	default:
		return cfg, domain.NewConfigError(fmt.Sprintf("invalid value %v (want true, false or a size in KiB)", v), nil)
	}

	if math.IsNaN(limit) || math.IsInf(limit, 0) {
		return cfg, domain.NewConfigError(fmt.Sprintf("invalid max size %v", v), nil)
	}
	if limit < 0 {
		return cfg, domain.NewConfigError(fmt.Sprintf("max size cannot be negative, got %g", limit), nil)
	}
	if limit == 0 {
		return cfg, nil
	}
	cfg.Enabled = true
	cfg.MaxSizeKiB = limit
	return cfg, nil
}
