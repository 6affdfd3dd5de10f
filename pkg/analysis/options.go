package analysis

// SortField orders the per-document and per-rule views.
type SortField string

const (
	// SortByCount puts the entries with the most diagnostics first.
	SortByCount SortField = "count"
	// SortByName orders entries by path or rule ID.
	SortByName SortField = "name"
	// SortByBlocking puts entries that block the session first, then orders
	// by errors and warnings.
	SortByBlocking SortField = "blocking"
)

// IsValid reports whether s is a known sort field.
func (s SortField) IsValid() bool {
	return s == SortByCount || s == SortByName || s == SortByBlocking
}

// Options selects the views Analyze builds.
type Options struct {
	IncludeDiagnostics bool // flat diagnostic and applicable lists
	IncludeEdits       bool
	IncludeByFile      bool
	IncludeByRule      bool

	SortBy SortField
	// SortDesc reverses SortByCount; the other orders ignore it.
	SortDesc bool

	// WorkingDir makes absolute paths relative when set.
	WorkingDir string
}

// DefaultOptions builds every view, busiest entries first.
func DefaultOptions() Options {
	return Options{
		IncludeDiagnostics: true,
		IncludeEdits:       true,
		IncludeByFile:      true,
		IncludeByRule:      true,
		SortBy:             SortByCount,
		SortDesc:           true,
	}
}
