package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by suggestion count, highest first.
	SortByCount SortField = "count"
	// SortByAlpha sorts by key or path.
	SortByAlpha SortField = "alpha"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	return s == SortByCount || s == SortByAlpha
}

// Options configures Analyze.
type Options struct {
	// SortBy orders ByKey and ByFile. Ties fall back to alphabetical order.
	SortBy SortField

	// Top keeps only the first N keys after sorting. Zero keeps all.
	Top int

	// WorkingDir is the directory paths are made relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options sorted by count with no limit.
func DefaultOptions() Options {
	return Options{SortBy: SortByCount}
}
