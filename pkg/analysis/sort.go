package analysis

import (
	"cmp"
	"slices"
)

// rank is the sortable part of a FileAnalysis or RuleAnalysis.
type rank struct {
	key      string
	issues   int
	errors   int
	warnings int
	blocking bool
}

func (a *FileAnalysis) rank() rank {
	return rank{key: a.Path, issues: a.Issues, errors: a.Errors, warnings: a.Warnings, blocking: a.Blocked}
}

// A rule blocks when it reported an error its capabilities could not lift.
func (a *RuleAnalysis) rank() rank {
	return rank{key: a.RuleID, issues: a.Issues, errors: a.Errors, warnings: a.Warnings, blocking: a.Errors > 0 && !a.Gated}
}

func compareRanks(left, right rank, sortBy SortField, desc bool) int {
	switch sortBy {
	case SortByName:
		return cmp.Compare(left.key, right.key)
	case SortByBlocking:
		return cmp.Or(
			compareBool(right.blocking, left.blocking),
			cmp.Compare(right.errors, left.errors),
			cmp.Compare(right.warnings, left.warnings),
			cmp.Compare(right.issues, left.issues),
			cmp.Compare(left.key, right.key),
		)
	default:
		byCount := cmp.Compare(left.issues, right.issues)
		if desc {
			byCount = -byCount
		}
		return cmp.Or(byCount, cmp.Compare(left.key, right.key))
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func sortRuleAnalysis(rules []RuleAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(rules, func(left, right RuleAnalysis) int {
		return compareRanks(left.rank(), right.rank(), sortBy, desc)
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		return compareRanks(left.rank(), right.rank(), sortBy, desc)
	})
}
