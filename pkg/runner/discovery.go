package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds documents matching opts. It returns a deterministically
// sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	f, err := newFilter(workDir, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if f.matchFile(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := walkDirectory(ctx, absPath, f, opts.FollowSymlinks)
		if err != nil {
			return nil, err
		}
		for _, path := range discovered {
			add(path)
		}
	}

	slices.Sort(files)
	return files, nil
}

// NewMatcher returns a predicate reporting whether an absolute path is a
// document Discover would return for opts.
func NewMatcher(opts Options) (func(path string) bool, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	f, err := newFilter(workDir, opts)
	if err != nil {
		return nil, err
	}
	return f.matchFile, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walkDirectory walks root and returns matching documents. Hidden files and
// directories are skipped.
func walkDirectory(ctx context.Context, root string, f *filter, followSymlinks bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if path != root && f.excludedDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(realPath)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !followSymlinks {
					return nil
				}
				sub, err := walkDirectory(ctx, realPath, f, followSymlinks)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if f.matchFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// filter decides which paths are documents.
type filter struct {
	workDir    string
	extensions []string
	include    []glob.Glob
	exclude    []glob.Glob
}

func newFilter(workDir string, opts Options) (*filter, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	extensions := make([]string, 0, len(opts.effectiveExtensions()))
	for _, ext := range opts.effectiveExtensions() {
		extensions = append(extensions, strings.ToLower(ext))
	}

	return &filter{
		workDir:    workDir,
		extensions: extensions,
		include:    include,
		exclude:    exclude,
	}, nil
}

// compileGlobs compiles patterns with "/" as separator. A leading "**/" also
// matches at the top level.
func compileGlobs(patterns []string) ([]glob.Glob, error) {
	var out []glob.Glob
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		variants := []string{pattern}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, rest)
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
			}
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *filter) rel(path string) string {
	rel, err := filepath.Rel(f.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// matchFile reports whether path is a document to check.
func (f *filter) matchFile(path string) bool {
	if !slices.Contains(f.extensions, strings.ToLower(filepath.Ext(path))) {
		return false
	}
	rel := f.rel(path)
	if matchAny(f.exclude, rel) {
		return false
	}
	if len(f.include) > 0 && !matchAny(f.include, rel) {
		return false
	}
	return true
}

// excludedDir reports whether a directory is excluded as a whole.
func (f *filter) excludedDir(path string) bool {
	rel := f.rel(path)
	return matchAny(f.exclude, rel) || matchAny(f.exclude, rel+"/")
}

// matchAny matches rel, or its base name, against globs.
func matchAny(globs []glob.Glob, rel string) bool {
	base := filepath.Base(rel)
	for _, g := range globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}
