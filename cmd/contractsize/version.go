package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/contractsize/internal/version"
	"github.com/ludo-technologies/contractsize/service"
)

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			asJSON, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return service.WriteJSON(out, version.GetInfo())
			case verbose:
				fmt.Fprintln(out, version.GetFullVersion())
			default:
				fmt.Fprintf(out, "contractsize version %s\n", version.GetVersion())
			}
			return nil
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	cmd.Flags().Bool("json", false, "Print version information as JSON")
	return cmd
}
