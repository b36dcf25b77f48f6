// Package scheduler derives the dependency graph of a command set, prunes
// up-to-date commands and executes the rest in dependency order.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

// Scheduler manages the execution of compilation commands.
type Scheduler struct {
	fs      ports.FileSystem
	tracer  ports.Tracer
	logger  ports.Logger
	metrics ports.MetricsRecorder
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	fs ports.FileSystem,
	tracer ports.Tracer,
	logger ports.Logger,
	metrics ports.MetricsRecorder,
) *Scheduler {
	return &Scheduler{
		fs:      fs,
		tracer:  tracer,
		logger:  logger,
		metrics: metrics,
	}
}

// PlannedCommand describes the decision taken for one command without running it.
type PlannedCommand struct {
	Description  string
	Run          bool
	Reason       Reason
	NewestInput  string
	NewestOutput string
}

// Plan prepares the commands and reports which of them a build would execute.
// Nothing is executed.
func (s *Scheduler) Plan(commands []ports.Command, force bool) ([]PlannedCommand, error) {
	pl, err := s.planner().build(commands, force)
	if err != nil {
		return nil, err
	}
	planned := make([]PlannedCommand, 0, len(pl.order))
	for _, ci := range pl.order {
		planned = append(planned, PlannedCommand{
			Description:  ci.desc,
			Run:          ci.mustExecute,
			Reason:       ci.reason,
			NewestInput:  ci.newestInput,
			NewestOutput: ci.newestOutput,
		})
	}
	return planned, nil
}

// Run executes every stale command, producers before consumers.
//
// Build failures are reported through the returned report, whose OK method is
// the overall result. The error is non-nil only for internal errors (see
// domain.IsInternal) and cancellation; the report is still returned.
func (s *Scheduler) Run(
	ctx context.Context,
	commands []ports.Command,
	opts domain.BuildOptions,
) (*domain.BuildReport, error) {
	opts = opts.Normalize()
	start := time.Now()
	report := &domain.BuildReport{
		RunID: uuid.NewString(),
		Total: len(commands),
	}

	pl, err := s.planner().build(commands, opts.Force)
	if err != nil {
		return report, err
	}
	report.Expunged = pl.expungedNames()

	scheduled := pl.scheduledNames()
	s.tracer.EmitPlan(ctx, scheduled, report.Expunged)
	s.logger.Debug("build planned",
		"run_id", report.RunID,
		"scheduled", len(scheduled),
		"expunged", len(report.Expunged),
		"jobs", opts.Jobs,
	)

	state := newRunState(s, pl, opts, report)
	if opts.Jobs == 1 {
		err = state.runSequential(ctx)
	} else {
		err = state.runParallel(ctx)
	}
	state.collectAbandoned()

	report.Duration = time.Since(start)
	report.Sort()
	s.metrics.BuildFinished(report)

	return report, err
}

func (s *Scheduler) planner() *planner {
	return &planner{fs: s.fs, logger: s.logger}
}

type result struct {
	ci       *commandInfo
	err      error
	fatal    error
	duration time.Duration
}

// execute runs one command inside a span. A panic is recovered into a fatal result.
func (s *Scheduler) execute(ctx context.Context, ci *commandInfo) (res result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := zerr.With(zerr.Wrap(domain.ErrWorkerPanic, fmt.Sprint(r)), "command", ci.desc)
			res = result{ci: ci, fatal: domain.Internal(zerr.WithStack(err)), duration: time.Since(start)}
		}
	}()

	ctx, span := s.tracer.Start(ctx, ci.desc,
		ports.WithAttribute(ports.AttrCommandForced, ci.cmd.ForceExec()),
		ports.WithAttribute(ports.AttrCommandReason, string(ci.reason)),
	)
	defer span.End()

	err := ci.cmd.Exec(ports.ContextWithOutput(ctx, span))
	if err != nil {
		span.RecordError(err)
	}
	return result{ci: ci, err: err, duration: time.Since(start)}
}
