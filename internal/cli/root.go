// Package cli provides the Cobra command structure for prhdesc.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/prhdesc/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root prhdesc command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "prhdesc",
		Short: "Explain textlint prh suggestions with their rule descriptions",
		Long: `prhdesc indexes prh rule files ("replace A with B, because R") from several
rule folders and uses the merged index to explain textlint's prh findings.

Each "A => B" message is annotated with the description of every rule that
produced it, labelled with the rule file it came from. Rule folders are
watched so that edits take effect without a restart.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newEnrichCommand())
	rootCmd.AddCommand(newIndexCommand())
	rootCmd.AddCommand(newSourcesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
