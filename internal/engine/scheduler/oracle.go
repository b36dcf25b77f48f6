package scheduler

import (
	"errors"
	"time"

	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

type fileStat struct {
	mtime  time.Time
	exists bool
}

// oracle infers logical modification times of files and commands, including
// files that do not exist yet but will be produced during the run.
// All memoized state lives in the run's commandInfos and in the stat cache.
type oracle struct {
	fs    ports.FileSystem
	graph *domain.Graph
	infos []*commandInfo
	stats map[domain.InternedString]fileStat
}

func newOracle(fs ports.FileSystem, graph *domain.Graph, infos []*commandInfo) *oracle {
	return &oracle{
		fs:    fs,
		graph: graph,
		infos: infos,
		stats: make(map[domain.InternedString]fileStat),
	}
}

// stat returns the cached existence and mtime of file.
func (o *oracle) stat(file domain.InternedString) (fileStat, error) {
	if st, ok := o.stats[file]; ok {
		return st, nil
	}
	mtime, exists, err := o.fs.ModTime(file.String())
	if err != nil {
		err = zerr.With(err, "file", file.String())
		return fileStat{}, domain.Internal(errors.Join(domain.ErrStatFailed, err))
	}
	st := fileStat{mtime: mtime, exists: exists}
	o.stats[file] = st
	return st, nil
}

// outputTimestamp returns the logical age of a command's outputs.
// A missing output dominates: the command must regenerate it.
func (o *oracle) outputTimestamp(ci *commandInfo) (domain.Timestamp, error) {
	if ci.outputTS.IsKnown() {
		return ci.outputTS, nil
	}
	if ci.cmd.ForceExec() {
		ci.outputTS = domain.Missing()
		return ci.outputTS, nil
	}
	if ci.visiting {
		err := zerr.With(zerr.Wrap(domain.ErrDependencyCycle, "timestamp inference re-entered"), "command", ci.desc)
		return domain.Timestamp{}, domain.Internal(err)
	}
	ci.visiting = true
	defer func() { ci.visiting = false }()

	ts := domain.Timestamp{}
	for _, out := range o.graph.Outputs(ci.id) {
		fts, err := o.outputFileTimestamp(out)
		if err != nil {
			return domain.Timestamp{}, err
		}
		if fts.IsMissing() {
			ts = fts
			ci.newestOutput = out.String()
			break
		}
		if !ts.IsKnown() || fts.After(ts) {
			ts = fts
			ci.newestOutput = out.String()
		}
	}
	if !ts.IsKnown() {
		ts = domain.Missing()
	}
	ci.outputTS = ts
	return ts, nil
}

// outputFileTimestamp returns the on-disk mtime of file, or when it does not
// exist, the output timestamp of the commands consuming it.
func (o *oracle) outputFileTimestamp(file domain.InternedString) (domain.Timestamp, error) {
	st, err := o.stat(file)
	if err != nil {
		return domain.Timestamp{}, err
	}
	if st.exists {
		return domain.At(st.mtime), nil
	}

	consumers := o.graph.Consumers(file)
	if len(consumers) == 0 {
		return domain.Missing(), nil
	}

	ts := domain.Timestamp{}
	for _, id := range consumers {
		cts, err := o.outputTimestamp(o.infos[id])
		if err != nil {
			return domain.Timestamp{}, err
		}
		if cts.IsMissing() {
			return cts, nil
		}
		ts = domain.MaxTimestamp(ts, cts)
	}
	return ts, nil
}

// inputTimestamp returns the newest logical time among a command's inputs.
func (o *oracle) inputTimestamp(ci *commandInfo) (domain.Timestamp, error) {
	if ci.inputTS.IsKnown() {
		return ci.inputTS, nil
	}
	if ci.cmd.ForceExec() {
		ci.inputTS = domain.Forced()
		return ci.inputTS, nil
	}

	ts := domain.Timestamp{}
	for _, in := range o.graph.Inputs(ci.id) {
		fts, err := o.inputFileTimestamp(in)
		if err != nil {
			return domain.Timestamp{}, err
		}
		if !ts.IsKnown() || fts.After(ts) {
			ts = fts
			ci.newestInput = in.String()
		}
	}
	if !ts.IsKnown() {
		ts = domain.Missing()
	}
	ci.inputTS = ts
	return ts, nil
}

// inputFileTimestamp returns the on-disk mtime of file, or the output
// timestamp of its producer when it does not exist yet.
func (o *oracle) inputFileTimestamp(file domain.InternedString) (domain.Timestamp, error) {
	st, err := o.stat(file)
	if err != nil {
		return domain.Timestamp{}, err
	}
	if st.exists {
		return domain.At(st.mtime), nil
	}
	producer, ok := o.graph.Producer(file)
	if !ok {
		return domain.Missing(), nil
	}
	return o.outputTimestamp(o.infos[producer])
}

// isStale applies the rebuild rule to a command whose timestamps are computed.
func isStale(ci *commandInfo) (bool, Reason) {
	switch {
	case ci.cmd.ForceExec():
		return true, ReasonForced
	case ci.outputTS.IsMissing():
		return true, ReasonMissingOutput
	case ci.inputTS.After(ci.outputTS):
		return true, ReasonInputNewer
	default:
		return false, ReasonUpToDate
	}
}
