// Package runner analyzes many documents concurrently and aggregates their
// outcomes.
package runner

import "github.com/yaklabco/encheck/pkg/config"

// Options controls a run.
type Options struct {
	// Jobs bounds the number of documents analyzed at once.
	// 0 or negative means config.Workers().
	Jobs int

	// SkipNonCSharp skips documents that are not C# instead of failing
	// them with a parse error.
	SkipNonCSharp bool

	// CheckStale re-reads on-disk sources after analysis and marks outcomes
	// whose files changed meanwhile.
	CheckStale bool

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DiscoverOptions controls directory pairing.
type DiscoverOptions struct {
	// Include and Exclude are doublestar patterns over slash-separated
	// paths relative to the paired roots. Empty Include means "**/*.cs".
	Include []string
	Exclude []string
}

// DefaultInclude is the include pattern used when none is configured.
const DefaultInclude = "**/*.cs"

func (o DiscoverOptions) effectiveInclude() []string {
	if len(o.Include) == 0 {
		return []string{DefaultInclude}
	}
	return o.Include
}

func (o Options) jobs(documents int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = o.Config.Workers()
	}
	return max(1, min(jobs, documents))
}
