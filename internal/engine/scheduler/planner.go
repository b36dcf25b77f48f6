package scheduler

import (
	"errors"

	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

// plan is the pruned command graph of one run.
type plan struct {
	graph *domain.Graph
	// infos is indexed by domain.NodeID.
	infos []*commandInfo
	// order lists infos with producers before consumers.
	order    []*commandInfo
	ready    []*commandInfo
	expunged []*commandInfo
}

// planner derives the dependency graph from declared files and prunes
// commands whose outputs are up to date.
type planner struct {
	fs     ports.FileSystem
	logger ports.Logger
}

func (p *planner) build(commands []ports.Command, force bool) (*plan, error) {
	graph := domain.NewGraph()
	infos := make([]*commandInfo, 0, len(commands))

	for _, cmd := range commands {
		if err := cmd.Prepare(); err != nil {
			err = zerr.With(err, "command", cmd.Description())
			return nil, domain.Internal(errors.Join(domain.ErrPrepareFailed, err))
		}
		id, err := graph.AddNode(cmd.Description(), cmd.InputFiles(), cmd.OutputFiles())
		if err != nil {
			return nil, domain.Internal(err)
		}
		infos = append(infos, newCommandInfo(id, cmd))
	}

	o := newOracle(p.fs, graph, infos)

	for id, file := range graph.UnproducedInputs() {
		st, err := o.stat(file)
		if err != nil {
			return nil, err
		}
		if !st.exists {
			err := zerr.With(zerr.Wrap(domain.ErrMissingInput, "cannot schedule command"), "file", file.String())
			return nil, domain.Internal(zerr.With(err, "command", infos[id].desc))
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, domain.Internal(err)
	}

	pl := &plan{graph: graph, infos: infos}
	for id := range graph.Walk() {
		pl.order = append(pl.order, infos[id])
	}
	for _, ci := range infos {
		for _, dep := range graph.Dependencies(ci.id) {
			ci.deps[infos[dep]] = struct{}{}
		}
		for _, c := range graph.Dependents(ci.id) {
			ci.consumers = append(ci.consumers, infos[c])
		}
	}

	if force {
		for _, ci := range pl.order {
			ci.markExecute(ReasonForced)
		}
	} else if err := p.markStale(o, pl); err != nil {
		return nil, err
	}

	p.prune(pl)
	return pl, nil
}

// markStale computes timestamps, applies the rebuild rule, and propagates the
// result along the graph.
func (p *planner) markStale(o *oracle, pl *plan) error {
	var work []*commandInfo
	for _, ci := range pl.order {
		if _, err := o.outputTimestamp(ci); err != nil {
			return err
		}
		if _, err := o.inputTimestamp(ci); err != nil {
			return err
		}
		if stale, reason := isStale(ci); stale {
			ci.markExecute(reason)
			work = append(work, ci)
			p.logger.Debug("command is stale",
				"command", ci.desc,
				"reason", string(reason),
				"input", ci.newestInput,
				"input_time", ci.inputTS.String(),
				"output", ci.newestOutput,
				"output_time", ci.outputTS.String(),
			)
		}
	}

	// Forward to every consumer, backward to producers of missing inputs.
	for len(work) > 0 {
		ci := work[len(work)-1]
		work = work[:len(work)-1]

		for _, c := range ci.consumers {
			if c.markExecute(ReasonUpstream) {
				p.logger.Debug("command is stale", "command", c.desc, "reason", string(ReasonUpstream), "producer", ci.desc)
				work = append(work, c)
			}
		}

		for _, in := range pl.graph.Inputs(ci.id) {
			st, err := o.stat(in)
			if err != nil {
				return err
			}
			if st.exists {
				continue
			}
			producer, ok := pl.graph.Producer(in)
			if !ok {
				continue
			}
			if pc := pl.infos[producer]; pc.markExecute(ReasonMissingIntermediate) {
				p.logger.Debug("command is stale", "command", pc.desc, "reason", string(ReasonMissingIntermediate), "file", in.String())
				work = append(work, pc)
			}
		}
	}
	return nil
}

// prune expunges commands that need not run and computes the initial ready queue.
func (p *planner) prune(pl *plan) {
	for _, ci := range pl.order {
		if !ci.mustExecute {
			ci.status = domain.StatusExpunged
			ci.reason = ReasonUpToDate
			pl.expunged = append(pl.expunged, ci)
			p.logger.Debug("command is up to date", "command", ci.desc)
		}
	}

	for _, ci := range pl.order {
		if !ci.mustExecute {
			continue
		}
		for dep := range ci.deps {
			if !dep.mustExecute {
				delete(ci.deps, dep)
			}
		}
		kept := ci.consumers[:0]
		for _, c := range ci.consumers {
			if c.mustExecute {
				kept = append(kept, c)
			}
		}
		ci.consumers = kept

		if len(ci.deps) == 0 {
			ci.status = domain.StatusReady
			pl.ready = append(pl.ready, ci)
		}
	}
}

func (pl *plan) scheduledNames() []string {
	names := make([]string, 0, len(pl.order)-len(pl.expunged))
	for _, ci := range pl.order {
		if ci.mustExecute {
			names = append(names, ci.desc)
		}
	}
	return names
}

func (pl *plan) expungedNames() []string {
	names := make([]string, 0, len(pl.expunged))
	for _, ci := range pl.expunged {
		names = append(names, ci.desc)
	}
	return names
}
