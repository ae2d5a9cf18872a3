// Package analysis summarizes which rules fire across a check run.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"

	"github.com/yaklabco/prhdesc/pkg/check"
	"github.com/yaklabco/prhdesc/pkg/enrich"
	"github.com/yaklabco/prhdesc/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// tally counts occurrences per name and the set of paths each one occurs in.
type tally struct {
	counts map[string]int
	paths  map[string]map[string]struct{}
}

func newTally() *tally {
	return &tally{counts: make(map[string]int), paths: make(map[string]map[string]struct{})}
}

func (t *tally) add(name, path string) {
	t.counts[name]++
	if t.paths[name] == nil {
		t.paths[name] = make(map[string]struct{})
	}
	t.paths[name][path] = struct{}{}
}

func (t *tally) build() []KeyAnalysis {
	out := make([]KeyAnalysis, 0, len(t.counts))
	for name, count := range t.counts {
		out = append(out, KeyAnalysis{Key: name, Count: count, Files: sortedSet(t.paths[name])})
	}
	return out
}

// Analyze computes the per-key and per-file views of result in one pass.
// Documents that were skipped, failed or disabled count as files but carry
// no suggestions.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Version: ReportVersion, ByKey: []KeyAnalysis{}, ByFile: []FileAnalysis{}}
	if result == nil {
		return report
	}

	keys := newTally()
	unexplained := newTally()

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Check.Outcome != check.OutcomeChecked || len(file.Check.Diagnostics) == 0 {
			continue
		}
		report.Totals.FilesWithIssues++

		path := relativePath(file.Path, opts.WorkingDir)
		fa := FileAnalysis{Path: path}
		fileKeys := make(map[string]struct{})

		for _, diag := range file.Check.Diagnostics {
			report.Totals.Suggestions++
			fa.Count++

			switch diag.Match {
			case enrich.MatchExact:
				report.Totals.Exact++
			case enrich.MatchPattern:
				report.Totals.Pattern++
			default:
				report.Totals.Unexplained++
				original, _, ok := enrich.Split(diag.Raw)
				if !ok {
					original = diag.Raw
				}
				unexplained.add(original, path)
				continue
			}

			keys.add(diag.Key, path)
			fileKeys[diag.Key] = struct{}{}
		}

		fa.Keys = sortedSet(fileKeys)
		report.ByFile = append(report.ByFile, fa)
	}

	report.ByKey = keys.build()
	sortKeys(report.ByKey, opts.SortBy)
	if opts.Top > 0 && len(report.ByKey) > opts.Top {
		report.ByKey = report.ByKey[:opts.Top]
	}

	report.Unexplained = unexplained.build()
	sortKeys(report.Unexplained, SortByCount)

	slices.SortFunc(report.ByFile, func(a, b FileAnalysis) int {
		if opts.SortBy == SortByCount {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Path, b.Path)
	})

	return report
}

func sortKeys(keys []KeyAnalysis, sortBy SortField) {
	slices.SortFunc(keys, func(a, b KeyAnalysis) int {
		if sortBy == SortByCount {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Key, b.Key)
	})
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for item := range set {
		out = append(out, item)
	}
	slices.Sort(out)
	return out
}

// relativePath makes absPath relative to workDir when possible.
func relativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	rel, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return rel
}
