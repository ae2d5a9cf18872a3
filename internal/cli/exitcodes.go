package cli

import (
	"errors"

	"github.com/yaklabco/prhdesc/pkg/runner"
)

// Exit codes for prhdesc.
const (
	// ExitSuccess indicates successful execution with no suggestions.
	ExitSuccess = 0

	// ExitIssues indicates the check completed and produced suggestions.
	ExitIssues = 1

	// ExitCheckFailed indicates at least one document could not be checked.
	ExitCheckFailed = 2

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70
)

var (
	// ErrLintIssuesFound is returned when suggestions were reported.
	ErrLintIssuesFound = errors.New("suggestions found")

	// ErrChecksFailed is returned when a document could not be checked.
	ErrChecksFailed = errors.New("some documents could not be checked")

	// ErrConfig marks configuration loading failures.
	ErrConfig = errors.New("failed to load configuration")
)

// ExitCodeFromResult determines the exit code of a lint run.
// Failures outrank suggestions.
func ExitCodeFromResult(result *runner.Result) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasFailures():
		return ExitCheckFailed
	case result.HasIssues():
		return ExitIssues
	default:
		return ExitSuccess
	}
}

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitIssues
	case errors.Is(err, ErrChecksFailed):
		return ExitCheckFailed
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitInternalError
	}
}

// IsSignal reports whether err only carries an exit status and needs no log line.
func IsSignal(err error) bool {
	return errors.Is(err, ErrLintIssuesFound) || errors.Is(err, ErrChecksFailed)
}
