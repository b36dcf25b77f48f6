package scheduler

import (
	"context"
	"sync"

	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/zerr"
)

// runState is owned by the goroutine calling Run. Workers never touch it:
// they receive commands on work and reply on results.
type runState struct {
	s      *Scheduler
	plan   *plan
	opts   domain.BuildOptions
	report *domain.BuildReport

	ready  []*commandInfo
	active int
	failed bool
	fatal  error
}

func newRunState(s *Scheduler, pl *plan, opts domain.BuildOptions, report *domain.BuildReport) *runState {
	ready := make([]*commandInfo, len(pl.ready))
	copy(ready, pl.ready)
	return &runState{
		s:      s,
		plan:   pl,
		opts:   opts,
		report: report,
		ready:  ready,
	}
}

// stopping reports whether no new command may be dispatched.
func (st *runState) stopping(ctx context.Context) bool {
	return st.fatal != nil || (st.failed && st.opts.FailFast) || ctx.Err() != nil
}

func (st *runState) pop() *commandInfo {
	ci := st.ready[0]
	st.ready[0] = nil
	st.ready = st.ready[1:]
	ci.status = domain.StatusRunning
	return ci
}

// runSequential executes ready commands one by one on the calling goroutine.
func (st *runState) runSequential(ctx context.Context) error {
	for len(st.ready) > 0 && !st.stopping(ctx) {
		st.handleResult(st.s.execute(ctx, st.pop()))
	}
	return st.err(ctx)
}

// runParallel dispatches ready commands to a pool of opts.Jobs workers.
func (st *runState) runParallel(ctx context.Context) error {
	jobs := st.opts.Jobs
	work := make(chan *commandInfo, jobs)
	results := make(chan result, jobs)

	var wg sync.WaitGroup
	for range jobs {
		wg.Go(func() {
			for ci := range work {
				results <- st.s.execute(ctx, ci)
			}
		})
	}
	defer func() {
		close(work)
		wg.Wait()
	}()

	for {
		for !st.stopping(ctx) && st.active < jobs && len(st.ready) > 0 {
			st.active++
			work <- st.pop()
		}
		if st.active == 0 {
			break
		}
		res := <-results
		st.active--
		st.handleResult(res)
	}

	return st.err(ctx)
}

func (st *runState) err(ctx context.Context) error {
	if st.fatal != nil {
		return st.fatal
	}
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, "build interrupted")
	}
	return nil
}

// handleResult applies the state transition of a finished command.
func (st *runState) handleResult(res result) {
	ci := res.ci

	if res.fatal != nil {
		ci.status = domain.StatusFailed
		st.report.Failed = append(st.report.Failed, ci.desc)
		if st.fatal == nil {
			st.fatal = res.fatal
		}
		return
	}

	if res.err != nil {
		ci.status = domain.StatusFailed
		st.failed = true
		st.report.Failed = append(st.report.Failed, ci.desc)
		st.s.metrics.CommandFinished(domain.StatusFailed, res.duration)
		st.s.logger.Debug("command failed", "command", ci.desc, "error", res.err.Error())
		st.cascade(ci)
		return
	}

	ci.status = domain.StatusDone
	st.report.Executed = append(st.report.Executed, ci.desc)
	st.s.metrics.CommandFinished(domain.StatusDone, res.duration)

	for _, c := range ci.consumers {
		if c.status != domain.StatusPending {
			continue
		}
		delete(c.deps, ci)
		if len(c.deps) == 0 {
			c.status = domain.StatusReady
			st.ready = append(st.ready, c)
		}
	}
}

// cascade marks every transitive consumer of a failed command as failed without running it.
func (st *runState) cascade(failed *commandInfo) {
	stack := []*commandInfo{failed}
	for len(stack) > 0 {
		ci := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range ci.consumers {
			if c.status != domain.StatusPending {
				continue
			}
			c.status = domain.StatusFailed
			st.report.Cascaded = append(st.report.Cascaded, c.desc)
			st.s.logger.Debug("command skipped", "command", c.desc, "failed_producer", failed.desc)
			stack = append(stack, c)
		}
	}
}

// collectAbandoned records commands left unscheduled by fail-fast or cancellation.
func (st *runState) collectAbandoned() {
	for _, ci := range st.plan.order {
		if !ci.status.IsTerminal() {
			st.report.Abandoned = append(st.report.Abandoned, ci.desc)
		}
	}
}
