// Package engine runs the external lint engine and decodes its findings.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/fsutil"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

// ErrInvocation is returned when the engine cannot be run or its output
// cannot be understood.
var ErrInvocation = errors.New("lint engine invocation failed")

// configFileName is the name of the generated engine configuration.
const configFileName = ".textlintrc.json"

// Exit statuses of textlint.
const (
	exitClean    = 0
	exitFindings = 1
)

// Engine lints one document against a set of rule files.
type Engine interface {
	Lint(ctx context.Context, docPath string, rules []sources.RuleFile) ([]Finding, error)
}

// Options configures the textlint adapter.
type Options struct {
	// Command is the textlint executable. Defaults to "textlint".
	Command string

	// Args are passed before the generated arguments.
	Args []string

	// Timeout bounds one invocation. Zero means no limit beyond ctx.
	Timeout time.Duration

	// Logger receives invocation details. Nil uses the package default.
	Logger *log.Logger
}

// Textlint runs textlint with the prh rule as a subprocess.
type Textlint struct {
	opts   Options
	logger *log.Logger
}

// NewTextlint creates a textlint adapter.
func NewTextlint(opts Options) *Textlint {
	if opts.Command == "" {
		opts.Command = "textlint"
	}
	return &Textlint{opts: opts, logger: logging.OrDefault(opts.Logger)}
}

// textlintConfig is the generated .textlintrc.json.
type textlintConfig struct {
	Rules map[string]prhOptions `json:"rules"`
}

type prhOptions struct {
	RulePaths []string `json:"rulePaths"`
}

// Lint runs textlint on docPath with rules as the prh rule paths.
//
// textlint only reads its configuration from a file, so the configuration
// and any embedded rule files are written to a temporary directory that is
// removed before Lint returns.
func (t *Textlint) Lint(ctx context.Context, docPath string, rules []sources.RuleFile) ([]Finding, error) {
	workDir, err := os.MkdirTemp("", "prhdesc-")
	if err != nil {
		return nil, fmt.Errorf("%w: create work dir: %w", ErrInvocation, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			t.logger.Warn("removing engine work dir", logging.FieldPath, workDir, logging.FieldError, rmErr)
		}
	}()

	configPath, err := writeConfig(ctx, workDir, rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvocation, err)
	}

	if t.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}

	args := append([]string{}, t.opts.Args...)
	args = append(args, "--format", "json", "--no-color", "--config", configPath, docPath)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.opts.Command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.logger.Debug("running lint engine",
		logging.FieldCommand, t.opts.Command,
		logging.FieldPath, docPath,
		logging.FieldRules, len(rules),
	)

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) || exitErr.ExitCode() != exitFindings || ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w%s", ErrInvocation, t.opts.Command, runErr, stderrDetail(&stderr))
		}
	}

	results, err := ParseResults(&stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w%s", ErrInvocation, err, stderrDetail(&stderr))
	}

	return findingsFor(results, docPath), nil
}

// findingsFor returns the messages reported for docPath. textlint prints
// absolute paths; a single result is accepted whatever its path.
func findingsFor(results []FileResult, docPath string) []Finding {
	if len(results) == 1 {
		return results[0].Messages
	}
	want, err := filepath.Abs(docPath)
	if err != nil {
		want = docPath
	}
	for _, r := range results {
		if filepath.Clean(r.FilePath) == want {
			return r.Messages
		}
	}
	return nil
}

// writeConfig writes the engine configuration into dir, copying embedded rule
// files next to it, and returns the configuration path.
func writeConfig(ctx context.Context, dir string, rules []sources.RuleFile) (string, error) {
	rulePaths := make([]string, 0, len(rules))
	for i, rule := range rules {
		if path := rule.Path(); path != "" {
			rulePaths = append(rulePaths, path)
			continue
		}

		content, err := rule.Read()
		if err != nil {
			return "", err
		}
		path := filepath.Join(dir, fmt.Sprintf("%02d-%s", i, rule.Name))
		if err := fsutil.WriteAtomic(ctx, path, content, 0o600); err != nil {
			return "", fmt.Errorf("materialize %s: %w", rule.Name, err)
		}
		rulePaths = append(rulePaths, path)
	}

	data, err := json.MarshalIndent(textlintConfig{
		Rules: map[string]prhOptions{"prh": {RulePaths: rulePaths}},
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode engine config: %w", err)
	}

	configPath := filepath.Join(dir, configFileName)
	if err := fsutil.WriteAtomic(ctx, configPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write engine config: %w", err)
	}
	return configPath, nil
}

func stderrDetail(stderr *bytes.Buffer) string {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return ""
	}
	return ": " + msg
}
