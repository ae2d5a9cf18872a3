package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/prhdesc/internal/configloader"
	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/config"
	"github.com/yaklabco/prhdesc/pkg/fsutil"
)

const configFilePermissions = 0o644

type initFlags struct {
	force       bool
	format      string
	output      string
	rulesFolder string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a prhdesc configuration file",
		Long: `Create a documented .prhdesc.yml in the current directory.

A JSON file can be generated instead; it is read through --config.

Examples:
  prhdesc init                            Create .prhdesc.yml
  prhdesc init --rules-folder ~/prh       Pre-fill the custom rule folder
  prhdesc init --format json -o prh.json  Write JSON to a custom path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file without asking")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "file format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default .prhdesc.yml or prhdesc.json)")
	cmd.Flags().StringVar(&flags.rulesFolder, "rules-folder", "", "custom rule folder to write into the file")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("invalid format %q: must be yaml or json", flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.ProjectConfigFiles[0]
		if flags.format == "json" {
			outputPath = "prhdesc.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !isInteractive(cmd.InOrStdin()) {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("%s exists. Overwrite? [y/N] ", outputPath))
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("left existing file untouched", logging.FieldPath, outputPath)
			return nil
		}
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Format:      flags.format,
		RulesFolder: flags.rulesFolder,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	written, err := fsutil.WriteAtomicIfChanged(commandContext(cmd), absPath, content, configFilePermissions)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if !written {
		logger.Info("configuration file already up to date", logging.FieldPath, outputPath)
		return nil
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'prhdesc sources' to see which rule folders are used")

	return nil
}

// isInteractive reports whether r is a terminal the user can answer from.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
