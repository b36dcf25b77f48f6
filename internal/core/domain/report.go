package domain

import (
	"slices"
	"time"
)

// BuildReport summarizes the outcome of one scheduler run.
type BuildReport struct {
	// RunID uniquely identifies the run in logs, spans and metrics.
	RunID string
	// Total is the number of commands submitted.
	Total int
	// Executed lists commands whose action ran and succeeded.
	Executed []string
	// Failed lists commands whose action ran and failed.
	Failed []string
	// Cascaded lists commands marked failed because a producer failed. Their action never ran.
	Cascaded []string
	// Expunged lists commands pruned as up to date.
	Expunged []string
	// Abandoned lists commands left unscheduled after fail-fast or cancellation.
	Abandoned []string
	// Duration is the wall time of the run.
	Duration time.Duration
}

// OK reports whether everything that needed to run succeeded.
func (r *BuildReport) OK() bool {
	return len(r.Failed) == 0 && len(r.Cascaded) == 0 && len(r.Abandoned) == 0
}

// Sort orders every list alphabetically, for stable output regardless of worker interleaving.
func (r *BuildReport) Sort() {
	slices.Sort(r.Executed)
	slices.Sort(r.Failed)
	slices.Sort(r.Cascaded)
	slices.Sort(r.Expunged)
	slices.Sort(r.Abandoned)
}
