package index

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/prhdesc/internal/logging"
	"github.com/yaklabco/prhdesc/pkg/rulefile"
	"github.com/yaklabco/prhdesc/pkg/sources"
)

// Builder scans rule sources and folds their entries into a new Index.
type Builder struct {
	logger   *log.Logger
	fallback *sources.Source
}

// NewBuilder creates a Builder. A nil logger uses the package default.
func NewBuilder(logger *log.Logger) *Builder {
	return &Builder{logger: logger}
}

// WithFallback sets a source that is scanned when the built sources hold no
// rule file. It should match the checker's fallback, so that findings raised
// by those rules can be explained.
func (b *Builder) WithFallback(src *sources.Source) *Builder {
	b.fallback = src
	return b
}

// Build scans srcs and returns a fresh Index.
//
// Entries arrive in source order, then file-name order within a folder, then
// in-file order. Unreadable folders and malformed files are logged and
// counted in the report; they never abort the build. Only cancellation of
// ctx returns an error.
func (b *Builder) Build(ctx context.Context, srcs []sources.Source) (*Index, error) {
	logger := logging.OrDefault(b.logger)

	files, scan, err := sources.Scan(ctx, srcs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 && b.fallback != nil {
		fallbackFiles, fallbackScan, err := sources.Scan(ctx, []sources.Source{*b.fallback})
		if err != nil {
			return nil, err
		}
		if len(fallbackFiles) > 0 {
			logger.Debug("using fallback rules", logging.FieldSource, b.fallback.Location())
			files = fallbackFiles
			scan.Folders += fallbackScan.Folders
			scan.Files += fallbackScan.Files
		}
	}

	report := Report{
		Folders: scan.Folders,
		Files:   scan.Files,
	}
	for _, src := range scan.Missing {
		report.MissingFolders = append(report.MissingFolders, src.Location())
		logger.Warn("rule folder not found",
			logging.FieldSource, string(src.Identity),
			logging.FieldFolder, src.Location(),
		)
	}

	acc := newAccumulator()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build cancelled: %w", err)
		}

		entries, ok := b.parseFile(logger, file)
		if !ok {
			report.FailedFiles++
			continue
		}
		acc.add(entries)
	}

	ix := acc.finish(report)
	logger.Debug("rule index built",
		logging.FieldFolders, ix.report.Folders,
		logging.FieldFiles, ix.report.Files,
		logging.FieldFailedFiles, ix.report.FailedFiles,
		logging.FieldKeys, ix.report.Keys,
		logging.FieldEntries, ix.report.Entries,
	)
	return ix, nil
}

func (b *Builder) parseFile(logger *log.Logger, file sources.RuleFile) ([]rulefile.Entry, bool) {
	path := file.Path()
	if path == "" {
		path = file.Name
	}

	content, err := file.Read()
	if err != nil {
		logger.Warn("cannot read rule file", logging.FieldPath, path, logging.FieldError, err)
		return nil, false
	}

	result, err := rulefile.Parse(content, file.Label)
	if err != nil {
		logger.Warn("skipping rule file", logging.FieldPath, path, logging.FieldError, err)
		return nil, false
	}
	if result.Skipped > 0 {
		logger.Debug("skipped unrecognised rules",
			logging.FieldPath, path,
			logging.FieldRules, result.Skipped,
		)
	}
	return result.Entries, true
}

// FromEntries builds an Index directly from entries, bypassing any scan.
func FromEntries(entries []rulefile.Entry) *Index {
	acc := newAccumulator()
	acc.add(entries)
	return acc.finish(Report{})
}
