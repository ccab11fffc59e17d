package config

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Toolchain represents the framework that produced the artifacts
type Toolchain string

const (
	ToolchainHardhat Toolchain = "hardhat"
	ToolchainFoundry Toolchain = "foundry"
	ToolchainTruffle Toolchain = "truffle"
)

// Enforcement represents how strictly the size limit is applied
type Enforcement string

const (
	EnforcementReport  Enforcement = "report"
	EnforcementMainnet Enforcement = "mainnet"
	EnforcementStrict  Enforcement = "strict"
)

// ToolchainPreset holds artifact layout defaults for a toolchain
type ToolchainPreset struct {
	ArtifactsDir string
	Except       []string
}

// EnforcementPreset holds the check_max_size value for an enforcement level
type EnforcementPreset struct {
	CheckMaxSize any
}

// GetToolchainPresets returns presets for the supported toolchains
func GetToolchainPresets() map[Toolchain]ToolchainPreset {
	return map[Toolchain]ToolchainPreset{
		ToolchainHardhat: {
			ArtifactsDir: "artifacts",
			Except:       []string{"@openzeppelin/"},
		},
		ToolchainFoundry: {
			ArtifactsDir: "out",
			Except:       []string{`\.t\.sol/`, `\.s\.sol/`, "forge-std/"},
		},
		ToolchainTruffle: {
			ArtifactsDir: "build/contracts",
			Except:       []string{"Migrations"},
		},
	}
}

// GetEnforcementPresets returns presets for the enforcement levels
func GetEnforcementPresets() map[Enforcement]EnforcementPreset {
	return map[Enforcement]EnforcementPreset{
		EnforcementReport:  {CheckMaxSize: false},
		EnforcementMainnet: {CheckMaxSize: true},
		EnforcementStrict:  {CheckMaxSize: 20},
	}
}

// templateComments documents each key of the generated config, by dotted path
var templateComments = map[string]string{
	"contract_size":                    "Contract size report",
	"contract_size.artifacts_dir":      "Directory holding compiled contract artifacts",
	"contract_size.sort":               `Row order: "name" or "size", optionally followed by ",asc" or ",desc"`,
	"contract_size.alpha_sort":         "Legacy switch for name,asc (ignored when sort is changed)",
	"contract_size.check_max_size":     "false, true (24 KiB mainnet limit) or a custom limit in KiB",
	"contract_size.contracts":          "Only measure artifacts whose path matches one of these regexes",
	"contract_size.except":             "Skip artifacts whose path matches one of these regexes",
	"contract_size.ignore_mocks":       `Skip artifacts whose name ends with "Mock"`,
	"contract_size.disambiguate_paths": "Show <source>:<contract> instead of the bare contract name",
	"contract_size.size_in_bytes":      "Show sizes in bytes instead of KiB",
	"contract_size.ignore_file":        "gitignore-style file of artifact paths to skip (default .contractsizeignore)",
	"output":                           "Output settings",
	"output.format":                    "text, json or yaml",
	"output.no_color":                  "Disable colors in text output",
	"history":                          "Size history, used for the Change column",
	"history.path":                     "SQLite database recording every run",
	"metrics":                          "Prometheus textfile export",
	"metrics.file":                     "Path of the .prom file to write (empty disables)",
	"performance":                      "Artifact loading",
	"performance.max_goroutines":       "Concurrent artifact reads",
	"performance.timeout_seconds":      "Give up loading after this many seconds",
	"logging":                          "Diagnostic logs (stderr)",
	"logging.level":                    "debug, info, warn or error",
	"logging.format":                   "console or json",
}

const templateHeader = `# contractsize configuration
# Documentation: https://github.com/ludo-technologies/contractsize

`

// GetFullConfigTemplate renders a documented YAML config for the given presets
func GetFullConfigTemplate(toolchain Toolchain, enforcement Enforcement) (string, error) {
	cfg := DefaultConfig()

	if preset, ok := GetToolchainPresets()[toolchain]; ok {
		cfg.ContractSize.ArtifactsDir = preset.ArtifactsDir
		cfg.ContractSize.Except = preset.Except
	}
	if preset, ok := GetEnforcementPresets()[enforcement]; ok {
		cfg.ContractSize.CheckMaxSize = preset.CheckMaxSize
	}

	return renderTemplate(cfg, templateComments)
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return templateHeader + `contract_size:
  artifacts_dir: artifacts
  sort: size,asc
  check_max_size: true
`
}

func renderTemplate(cfg *Config, comments map[string]string) (string, error) {
	var root yaml.Node
	if err := root.Encode(cfg); err != nil {
		return "", err
	}
	annotate(&root, "", comments)

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// annotate attaches comments to mapping keys, walking nested mappings
func annotate(node *yaml.Node, prefix string, comments map[string]string) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}
		if c, ok := comments[path]; ok {
			key.HeadComment = c
		}
		annotate(value, path, comments)
	}
}
