package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/prhdesc/internal/configloader"
	"github.com/yaklabco/prhdesc/internal/ui/pretty"
	"github.com/yaklabco/prhdesc/pkg/reporter"
)

type indexFlags struct {
	key         string
	format      string
	rulesFolder string
}

func newIndexCommand() *cobra.Command {
	flags := &indexFlags{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Show the merged rule description index",
		Long: `Build the description index from every rule source and print it.

Keys are listed in the order they were first seen: bundled rules, then the
user-level folder, then the custom folder. Each key lists its expected
spellings with their descriptions and source labels.

Examples:
  prhdesc index
  prhdesc index --key ウィンドウ
  prhdesc index --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.key, "key", "", "show only this key")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json")
	cmd.Flags().StringVar(&flags.rulesFolder, "rules-folder", "", "custom rule folder")

	return cmd
}

func runIndex(cmd *cobra.Command, flags *indexFlags) error {
	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	overrides := &configloader.Overrides{}
	if cmd.Flags().Changed("rules-folder") {
		overrides.RulesFolder = &flags.rulesFolder
	}

	sess, err := newSession(cmd, overrides)
	if err != nil {
		return err
	}

	ix, err := sess.buildIndex(commandContext(cmd), sess.sources())
	if err != nil {
		return err
	}

	return reporter.WriteIndex(cmd.OutOrStdout(), ix, flags.key, reporter.Options{
		Format:      format,
		Color:       sess.color,
		ShowSummary: flags.key == "",
	})
}

func newStyles(color string, w io.Writer) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(color, w))
}
