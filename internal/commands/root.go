package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/camt2csv/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "camt2csv",
		Short:   "Convert CAMT.053 bank statements to spreadsheet-ready CSV",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}
