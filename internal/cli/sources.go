package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/prhdesc/internal/configloader"
	"github.com/yaklabco/prhdesc/pkg/reporter"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

func newSourcesCommand() *cobra.Command {
	var format, rulesFolder string

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the resolved rule sources",
		Long: `List the rule sources in scan order with their location, whether the
folder exists, and how many rule files (.yml, .yaml) it holds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := reporter.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("invalid format: %w", err)
			}

			overrides := &configloader.Overrides{}
			if cmd.Flags().Changed("rules-folder") {
				overrides.RulesFolder = &rulesFolder
			}

			sess, err := newSession(cmd, overrides)
			if err != nil {
				return err
			}

			srcs := sess.sources()
			files, _, err := sources.Scan(commandContext(cmd), srcs)
			if err != nil {
				return err
			}

			statuses := make([]reporter.SourceStatus, 0, len(srcs))
			for _, src := range srcs {
				statuses = append(statuses, reporter.StatusFor(src, files))
			}

			return reporter.WriteSources(cmd.OutOrStdout(), statuses, reporter.Options{
				Format: parsed,
				Color:  sess.color,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	cmd.Flags().StringVar(&rulesFolder, "rules-folder", "", "custom rule folder")

	return cmd
}
