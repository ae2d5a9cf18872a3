package sources

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// RuleFile is one rule file found inside a source.
type RuleFile struct {
	// Source is the source the file belongs to.
	Source Source

	// Name is the file name within the source folder.
	Name string

	// Label is the provenance label attached to every entry from this file.
	Label string
}

// Path returns the file's on-disk path, or "" for embedded files.
func (f RuleFile) Path() string {
	if f.Source.Dir == "" {
		return ""
	}
	return filepath.Join(f.Source.Dir, f.Name)
}

// Read returns the raw file content.
func (f RuleFile) Read() ([]byte, error) {
	fsys := f.Source.FS()
	if fsys == nil {
		return nil, fmt.Errorf("read %s: source has no filesystem", f.Name)
	}
	data, err := fs.ReadFile(fsys, f.Name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

// ScanReport summarises a Scan.
type ScanReport struct {
	// Folders is the number of sources that were listed.
	Folders int

	// Missing holds the sources that could not be listed.
	Missing []Source

	// Files is the number of rule files found.
	Files int
}

// IsRuleFile reports whether name has a rule-file extension (.yml or .yaml).
func IsRuleFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return true
	default:
		return false
	}
}

// LabelFor returns the provenance label for a file named name in src.
// The bundled source has a fixed label; other sources are labelled per file.
func LabelFor(src Source, name string) string {
	if src.Identity == IdentityDefault {
		return BundledLabel
	}
	return name
}

// Scan lists the rule files of every source in order: source order, then
// directory-listing order (sorted by name). Sources that cannot be listed are
// reported as missing rather than failing the scan. Only ctx cancellation
// returns an error.
func Scan(ctx context.Context, srcs []Source) ([]RuleFile, ScanReport, error) {
	var (
		files  []RuleFile
		report ScanReport
	)

	for _, src := range srcs {
		select {
		case <-ctx.Done():
			return nil, report, fmt.Errorf("scan cancelled: %w", ctx.Err())
		default:
		}

		if !src.Exists() {
			report.Missing = append(report.Missing, src)
			continue
		}

		entries, err := fs.ReadDir(src.FS(), ".")
		if err != nil {
			report.Missing = append(report.Missing, src)
			continue
		}

		report.Folders++
		for _, entry := range entries {
			if entry.IsDir() || !IsRuleFile(entry.Name()) {
				continue
			}
			files = append(files, RuleFile{
				Source: src,
				Name:   entry.Name(),
				Label:  LabelFor(src, entry.Name()),
			})
		}
	}

	report.Files = len(files)
	return files, report, nil
}
