package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/prhdesc/internal/configloader"
	"github.com/yaklabco/prhdesc/pkg/engine"
	"github.com/yaklabco/prhdesc/pkg/enrich"
	"github.com/yaklabco/prhdesc/pkg/index"
)

type enrichFlags struct {
	format      string
	rulesFolder string
}

// enrichedMessage is a textlint message with the enriched text.
type enrichedMessage struct {
	engine.Finding
	Original string       `json:"originalMessage"`
	Match    enrich.Match `json:"match"`
	Key      string       `json:"key,omitempty"`
}

type enrichedFile struct {
	FilePath string            `json:"filePath"`
	Messages []enrichedMessage `json:"messages"`
}

func newEnrichCommand() *cobra.Command {
	flags := &enrichFlags{}

	cmd := &cobra.Command{
		Use:   "enrich [report.json|-]",
		Short: "Enrich an existing textlint JSON report",
		Long: `Read a report produced by "textlint --format json" and rewrite every
"A => B" message with the descriptions and sources of the matching rules.

The report is read from the named file, or from standard input when the
argument is "-" or omitted.

Examples:
  textlint --format json doc.txt | prhdesc enrich
  prhdesc enrich report.json --format text`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "json", "output format: json, text")
	cmd.Flags().StringVar(&flags.rulesFolder, "rules-folder", "", "custom rule folder")

	return cmd
}

func runEnrich(cmd *cobra.Command, args []string, flags *enrichFlags) error {
	if flags.format != "json" && flags.format != "text" {
		return fmt.Errorf("invalid format %q: must be json or text", flags.format)
	}

	overrides := &configloader.Overrides{}
	if cmd.Flags().Changed("rules-folder") {
		overrides.RulesFolder = &flags.rulesFolder
	}

	sess, err := newSession(cmd, overrides)
	if err != nil {
		return err
	}

	results, err := readReport(cmd, args)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	ix, err := sess.buildIndex(ctx, sess.sources())
	if err != nil {
		return err
	}
	enricher := enrich.New(index.NewHolder(ix), enrich.Options{Logger: sess.logger})

	out := enrichResults(enricher, results)

	w := cmd.OutOrStdout()
	if flags.format == "text" {
		for _, file := range out {
			for _, msg := range file.Messages {
				fmt.Fprintf(w, "%s:%d:%d: %s\n", file.FilePath, msg.Line, msg.Column, msg.Message)
			}
		}
		return nil
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func readReport(cmd *cobra.Command, args []string) ([]engine.FileResult, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("open report: %w", err)
		}
		defer f.Close()
		r = f
	}
	return engine.ParseResults(r)
}

func enrichResults(enricher *enrich.Enricher, results []engine.FileResult) []enrichedFile {
	out := make([]enrichedFile, 0, len(results))
	for _, file := range results {
		ef := enrichedFile{FilePath: file.FilePath, Messages: make([]enrichedMessage, 0, len(file.Messages))}
		for _, finding := range file.Messages {
			res := enricher.Enrich(finding.Message)
			msg := enrichedMessage{
				Finding:  finding,
				Original: finding.Message,
				Match:    res.Match,
				Key:      res.Key,
			}
			msg.Message = res.Message
			ef.Messages = append(ef.Messages, msg)
		}
		out = append(out, ef)
	}
	return out
}
