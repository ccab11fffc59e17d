package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ludo-technologies/contractsize/internal/constants"
	"github.com/ludo-technologies/contractsize/internal/history"
	"github.com/ludo-technologies/contractsize/service"
)

// runJSON is one history entry in --json output
type runJSON struct {
	ID         string `json:"id"`
	RecordedAt string `json:"recorded_at"`
	TotalBytes int64  `json:"total_bytes"`
	Violations int    `json:"violations"`
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded size runs",
		Long: `List the runs recorded by 'contractsize size --history', newest first.

Examples:
  contractsize history
  contractsize history --limit 5 --json`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", 10, "Number of runs to show")
	cmd.Flags().String("history-path", "", "Size history database (default from config)")
	cmd.Flags().Bool("json", false, "Output runs as JSON")
	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().BoolP("verbose", "v", false, "Print debug logs to stderr")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	if limit <= 0 {
		return &ExitError{Code: constants.ExitError, Message: fmt.Sprintf("--limit must be positive, got %d", limit)}
	}

	cfg, err := service.NewConfigurationLoader().LoadConfig(configPath, "")
	if err != nil {
		return exitErrorFor(err)
	}
	path := cfg.History.Path
	if cmd.Flags().Changed("history-path") {
		path, _ = cmd.Flags().GetString("history-path")
	}
	if _, err := os.Stat(path); err != nil {
		return &ExitError{Code: constants.ExitError, Message: fmt.Sprintf("no size history at %s; run 'contractsize size --history' first", path)}
	}

	logger := newLogger(cfg.Logging, verbose)
	defer func() { _ = logger.Sync() }()

	store, err := history.Open(path, logger)
	if err != nil {
		return exitErrorFor(err)
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return exitErrorFor(err)
	}

	if asJSON {
		out := make([]runJSON, 0, len(runs))
		for _, r := range runs {
			out = append(out, runJSON{
				ID:         r.ID,
				RecordedAt: r.RecordedAt.Format(time.RFC3339),
				TotalBytes: r.TotalBytes,
				Violations: r.Violations,
			})
		}
		if err := service.WriteJSON(cmd.OutOrStdout(), out); err != nil {
			return exitErrorFor(err)
		}
		return nil
	}
	return writeRunsText(cmd.OutOrStdout(), runs)
}

func writeRunsText(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	p := message.NewPrinter(language.English)
	if _, err := fmt.Fprintf(w, "%-36s  %-20s  %14s  %10s\n", "RUN", "RECORDED", "TOTAL (BYTES)", "VIOLATIONS"); err != nil {
		return err
	}
	for _, r := range runs {
		if _, err := fmt.Fprintf(w, "%-36s  %-20s  %14s  %10d\n",
			r.ID, r.RecordedAt.UTC().Format(time.RFC3339), p.Sprintf("%d", r.TotalBytes), r.Violations); err != nil {
			return err
		}
	}
	return nil
}
