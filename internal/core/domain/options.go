package domain

// BuildOptions controls one run of the scheduler.
type BuildOptions struct {
	// Jobs is the number of commands executed concurrently. 1 means synchronous execution.
	Jobs int
	// FailFast stops dispatching new commands after the first failure.
	FailFast bool
	// Force disables incremental pruning: every command runs.
	Force bool
}

// DefaultJobs is the job count used when nothing else is configured.
const DefaultJobs = 1

// Normalize returns a copy of o with out-of-range values replaced by defaults.
func (o BuildOptions) Normalize() BuildOptions {
	if o.Jobs < 1 {
		o.Jobs = DefaultJobs
	}
	return o
}
