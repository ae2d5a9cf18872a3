package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/prhdesc/internal/configloader"
	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/analysis"
	"github.com/yaklabco/prhdesc/pkg/config"
	"github.com/yaklabco/prhdesc/pkg/reporter"
	"github.com/yaklabco/prhdesc/pkg/runner"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

type lintFlags struct {
	format      string
	rulesFolder string
	ignore      []string
	extensions  []string
	jobs        int
	noContext   bool
	compact     bool
	verbose     bool
	summary     bool
	analyze     bool
	sortBy      string
	top         int
}

func newLintCommand() *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check documents and explain prh suggestions",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

const lintLongDescription = `Check documents with textlint's prh rule and print each suggestion
together with the descriptions and sources of the matching rules.

By default, checks all .txt, .md and .markdown files in the current directory
and subdirectories. Specify paths to check specific files or directories.

Examples:
  prhdesc lint                         # Check current directory
  prhdesc lint docs/                   # Check docs directory
  prhdesc lint README.md               # Check a single file
  prhdesc lint --rules-folder ~/prh    # Add a custom rule folder
  prhdesc lint --format json           # Output as JSON for CI
  prhdesc lint --analyze --top 10      # Which rules fire most often`

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json")
	cmd.Flags().StringVar(&flags.rulesFolder, "rules-folder", "", "custom rule folder")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "document extensions to check (default .txt,.md,.markdown)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "also list skipped documents")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a summary block after the results")
	cmd.Flags().BoolVar(&flags.analyze, "analyze", false, "print suggestion counts per key instead of each suggestion")
	cmd.Flags().StringVar(&flags.sortBy, "sort", "count", "order of --analyze output: count, alpha")
	cmd.Flags().IntVar(&flags.top, "top", 0, "limit --analyze output to the N most frequent keys")
}

// overrides returns the configuration values set explicitly on the command line.
func (f *lintFlags) overrides(cmd *cobra.Command) (*configloader.Overrides, error) {
	o := &configloader.Overrides{}
	if cmd.Flags().Changed("rules-folder") {
		o.RulesFolder = &f.rulesFolder
	}
	if cmd.Flags().Changed("ignore") {
		o.Ignore = f.ignore
	}
	if cmd.Flags().Changed("jobs") {
		o.Jobs = &f.jobs
	}
	if cmd.Flags().Changed("format") {
		format, err := config.ParseOutputFormat(f.format)
		if err != nil {
			return nil, fmt.Errorf("invalid format: %w", err)
		}
		o.Format = &format
	}
	return o, nil
}

func runLint(cmd *cobra.Command, args []string, flags *lintFlags) error {
	ctx := commandContext(cmd)

	overrides, err := flags.overrides(cmd)
	if err != nil {
		return err
	}

	sess, err := newSession(cmd, overrides)
	if err != nil {
		return err
	}
	cfg := sess.cfg

	srcs := sess.sources()
	p := sess.newPipeline(func() []sources.Source { return srcs }, nil)

	ix, err := sess.buildIndex(ctx, srcs)
	if err != nil {
		return err
	}
	for _, folder := range ix.Report().MissingFolders {
		sess.logger.Debug("rule folder missing", logging.FieldFolder, folder)
	}
	p.holder.Store(ix)

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   sess.workDir,
		Extensions:   flags.extensions,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Config:       cfg,
	}

	sess.logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(p.checker).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("check run failed"), err)
	}

	sess.logger.Debug("check run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChecked, result.Stats.FilesChecked,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	if flags.analyze {
		sortBy := analysis.SortField(flags.sortBy)
		if !sortBy.IsValid() {
			return fmt.Errorf("invalid sort %q: must be count or alpha", flags.sortBy)
		}
		report := analysis.Analyze(result, analysis.Options{SortBy: sortBy, Top: flags.top, WorkingDir: sess.workDir})
		if err := reporter.WriteAnalysis(cmd.OutOrStdout(), report, reporter.Options{
			Format:      format,
			Color:       sess.color,
			ShowSummary: true,
			Compact:     flags.compact,
		}); err != nil {
			return fmt.Errorf("report analysis: %w", err)
		}
		return lintExit(result)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       sess.color,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if flags.summary && format != reporter.FormatJSON {
		styles := newStyles(sess.color, cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), styles.FormatSummary(result.Stats))
	}

	return lintExit(result)
}

func lintExit(result *runner.Result) error {
	switch ExitCodeFromResult(result) {
	case ExitCheckFailed:
		return ErrChecksFailed
	case ExitIssues:
		return ErrLintIssuesFound
	default:
		return nil
	}
}
