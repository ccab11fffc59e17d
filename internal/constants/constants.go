package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "contractsize"

	// ConfigFileName is the default config file name
	ConfigFileName = "contractsize.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "CONTRACTSIZE"
)

// Project layout defaults
const (
	// DefaultArtifactsDir is where compilers write artifacts by default
	DefaultArtifactsDir = "artifacts"

	// DefaultHistoryPath is the size history database
	DefaultHistoryPath = ".contractsize/history.db"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Exit codes
const (
	ExitOK        = 0
	ExitViolation = 1
	ExitError     = 2
)
