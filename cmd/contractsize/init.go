package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/contractsize/internal/config"
	"github.com/ludo-technologies/contractsize/internal/constants"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a contractsize configuration file",
		Long: `Generate a documented contractsize configuration file.

By default, creates contractsize.yaml in the current directory for a Hardhat
project that fails above the 24 KiB mainnet limit. Use --interactive for a
guided setup wizard.

Examples:
  # Create contractsize.yaml in current directory
  contractsize init

  # Foundry project with a stricter limit
  contractsize init --toolchain foundry --enforcement strict

  # Overwrite existing file
  contractsize init --force

  # Generate smaller config with essential options only
  contractsize init --minimal

  # Interactive setup wizard
  contractsize init -i`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")
	cmd.Flags().String("toolchain", string(config.ToolchainHardhat),
		"Artifact layout preset: hardhat, foundry, truffle")
	cmd.Flags().String("enforcement", string(config.EnforcementMainnet),
		"Size check preset: report, mainnet, strict")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	toolchainFlag, _ := cmd.Flags().GetString("toolchain")
	enforcementFlag, _ := cmd.Flags().GetString("enforcement")

	toolchain := config.Toolchain(toolchainFlag)
	if _, ok := config.GetToolchainPresets()[toolchain]; !ok {
		return fmt.Errorf("unknown toolchain %q (valid: hardhat, foundry, truffle)", toolchainFlag)
	}
	enforcement := config.Enforcement(enforcementFlag)
	if _, ok := config.GetEnforcementPresets()[enforcement]; !ok {
		return fmt.Errorf("unknown enforcement %q (valid: report, mainnet, strict)", enforcementFlag)
	}

	if interactive {
		var err error
		toolchain, enforcement, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		var err error
		content, err = config.GetFullConfigTemplate(toolchain, enforcement)
		if err != nil {
			return fmt.Errorf("failed to render config template: %w", err)
		}
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'contractsize size' after compiling to report contract sizes.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (config.Toolchain, config.Enforcement, string, error) {
	fmt.Println()
	fmt.Println("contractsize Configuration Setup")
	fmt.Println("================================")
	fmt.Println()

	toolchains := []struct {
		Label string
		Value config.Toolchain
	}{
		{"Hardhat (artifacts/)", config.ToolchainHardhat},
		{"Foundry (out/)", config.ToolchainFoundry},
		{"Truffle (build/contracts/)", config.ToolchainTruffle},
	}

	toolchainPrompt := promptui.Select{
		Label: "Which toolchain compiles your contracts?",
		Items: toolchains,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }}",
			Inactive: "   {{ .Label | white }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	toolchainIdx, _, err := toolchainPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("toolchain selection cancelled: %w", err)
	}

	fmt.Println()

	levels := []struct {
		Label       string
		Description string
		Value       config.Enforcement
	}{
		{"Mainnet (recommended)", "Fail above the 24 KiB EIP-170 limit", config.EnforcementMainnet},
		{"Report only", "Print sizes, never fail", config.EnforcementReport},
		{"Strict", "Fail above 20 KiB to keep headroom", config.EnforcementStrict},
	}

	levelPrompt := promptui.Select{
		Label: "When should the size check fail?",
		Items: levels,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	levelIdx, _, err := levelPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("enforcement selection cancelled: %w", err)
	}

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return toolchains[toolchainIdx].Value, levels[levelIdx].Value, outputPath, nil
}
