package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ludo-technologies/contractsize/domain"
	"github.com/ludo-technologies/contractsize/internal/config"
	"github.com/ludo-technologies/contractsize/internal/constants"
	"github.com/ludo-technologies/contractsize/internal/logging"
	"github.com/ludo-technologies/contractsize/internal/version"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

// ExitError carries the process exit code for a failed command
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitErrorFor maps an error to its exit code: 1 for contracts over the
// size limit, 2 for everything else
func exitErrorFor(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	var tooLarge *domain.ContractTooLargeError
	if errors.As(err, &tooLarge) {
		return &ExitError{Code: constants.ExitViolation, Message: err.Error()}
	}
	return &ExitError{Code: constants.ExitError, Message: err.Error()}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.ToolName,
		Short: "contractsize - Solidity contract size reporter",
		Long: `contractsize reports the deployed bytecode size of compiled Solidity contracts.
It reads Hardhat, Foundry and Truffle artifacts, prints a sorted size table
and can fail when a contract exceeds the EIP-170 limit.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(sizeCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		exitErr := exitErrorFor(err)
		if exitErr.Message != "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}
}

// newLogger builds the diagnostic logger; --verbose forces debug level
func newLogger(cfg config.LoggingConfig, verbose bool) *zap.Logger {
	if verbose {
		return logging.NewVerbose()
	}
	logger, err := logging.NewLogger(logging.Config{Level: cfg.Level, Format: cfg.Format})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
