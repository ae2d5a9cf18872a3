// Package runner checks many documents concurrently.
package runner

import "github.com/yaklabco/prhdesc/pkg/config"

// Options controls discovery and checking.
type Options struct {
	// Paths are the user-specified files or directories to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// to match globs. If empty, the process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered documents. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths, relative to WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files or directories. These merge ignore
	// rules from config and CLI (--ignore).
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Config gates documents by language through enabled_file_types.
	// Nil enables every language.
	Config *config.Config
}

// DefaultExtensions returns the document extensions textlint reads out of the box.
func DefaultExtensions() []string {
	return []string{".txt", ".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
