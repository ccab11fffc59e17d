package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/contractsize/app"
	"github.com/ludo-technologies/contractsize/domain"
	"github.com/ludo-technologies/contractsize/internal/constants"
	"github.com/ludo-technologies/contractsize/service"
)

func sizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size [artifacts-dir]",
		Short: "Report deployed bytecode sizes",
		Long: `Measure the deployed bytecode of every compiled contract artifact and print
a size table with a total row.

Settings are read from contractsize.yaml (searched from the artifacts
directory upward) and CONTRACTSIZE_* environment variables. Flags override
both when given.

Exit codes:
  0 - Report printed, all contracts within the limit
  1 - One or more contracts exceed the limit (report is still printed)
  2 - Any other error

Examples:
  # Report the Hardhat artifacts directory
  contractsize size

  # Foundry output, largest first, fail above 24 KiB
  contractsize size out --sort size,desc --check-max-size

  # Custom limit, only contracts under contracts/core
  contractsize size --check-max-size=20 --contracts '^artifacts/contracts/core/'

  # Machine-readable output with size history
  contractsize size --json --history`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSize,
	}

	f := cmd.Flags()
	f.String("sort", "", "Sort order: <name|size>[,<asc|desc>] (default size,asc)")
	f.String("check-max-size", "", "Fail when a contract exceeds the limit: true, false or a limit in KiB")
	f.Lookup("check-max-size").NoOptDefVal = "true"
	f.StringArray("contracts", nil, "Only measure artifacts whose path matches this regex (repeatable)")
	f.StringArray("except", nil, "Skip artifacts whose path matches this regex (repeatable)")
	f.Bool("ignore-mocks", false, "Skip artifacts whose name ends with Mock")
	f.Bool("disambiguate-paths", false, "Show <source>:<contract> instead of the contract name")
	f.Bool("size-in-bytes", false, "Show sizes in bytes instead of KiB")
	f.String("ignore-file", "", "Gitignore-style file of artifact paths to skip (default .contractsizeignore)")
	f.StringP("format", "f", "", "Output format: text, json, yaml")
	f.Bool("json", false, "Shorthand for --format json")
	f.Bool("no-color", false, "Disable colored output")
	f.Bool("history", false, "Record sizes and show the change since the previous run")
	f.String("history-path", "", "Size history database (implies --history)")
	f.String("metrics-file", "", "Write Prometheus metrics to this textfile")
	f.StringP("config", "c", "", "Path to config file")
	f.BoolP("verbose", "v", false, "Print debug logs to stderr")

	return cmd
}

// sizeOverrides collects the flags that were set explicitly
func sizeOverrides(cmd *cobra.Command, args []string) service.ConfigOverrides {
	f := cmd.Flags()
	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetBool(name)
		return &v
	}
	array := func(name string) []string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetStringArray(name)
		return v
	}

	o := service.ConfigOverrides{
		Sort:              str("sort"),
		CheckMaxSize:      str("check-max-size"),
		Contracts:         array("contracts"),
		Except:            array("except"),
		IgnoreMocks:       boolean("ignore-mocks"),
		DisambiguatePaths: boolean("disambiguate-paths"),
		SizeInBytes:       boolean("size-in-bytes"),
		IgnoreFile:        str("ignore-file"),
		Format:            str("format"),
		NoColor:           boolean("no-color"),
		History:           boolean("history"),
		HistoryPath:       str("history-path"),
		MetricsFile:       str("metrics-file"),
	}
	if len(args) > 0 {
		o.ArtifactsDir = &args[0]
	}
	if asJSON, _ := f.GetBool("json"); asJSON {
		format := constants.OutputFormatJSON
		o.Format = &format
	}
	return o
}

func runSize(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	loader := service.NewConfigurationLoader()
	cfg, err := loader.LoadConfig(configPath, target)
	if err != nil {
		return exitErrorFor(err)
	}
	cfg, err = loader.MergeConfig(cfg, sizeOverrides(cmd, args))
	if err != nil {
		return exitErrorFor(err)
	}

	logger := newLogger(cfg.Logging, verbose)
	defer func() { _ = logger.Sync() }()

	out := cmd.OutOrStdout()
	req, err := loader.BuildRequest(cfg, out)
	if err != nil {
		return exitErrorFor(err)
	}

	pm := service.NewProgressManager(req.OutputFormat == domain.OutputFormatText)
	defer pm.Close()

	colorize := req.OutputFormat == domain.OutputFormatText &&
		!req.NoColor &&
		os.Getenv("NO_COLOR") == "" &&
		service.IsTerminal(out)

	uc, err := app.NewSizeUseCaseBuilder().
		WithLoader(service.NewArtifactService(cfg.Performance, pm, logger)).
		WithFormatter(service.NewOutputFormatterWithColor(colorize)).
		WithLogger(logger).
		Build()
	if err != nil {
		return exitErrorFor(err)
	}

	if _, err := uc.Execute(cmd.Context(), *req); err != nil {
		return exitErrorFor(err)
	}
	return nil
}
