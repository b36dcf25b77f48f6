package scheduler

import (
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
)

// Reason explains why a command is scheduled or pruned.
type Reason string

const (
	// ReasonUpToDate means every output is newer than every input.
	ReasonUpToDate Reason = "up to date"
	// ReasonForced means the command, or the whole build, is forced.
	ReasonForced Reason = "forced"
	// ReasonMissingOutput means an output neither exists nor can be inferred.
	ReasonMissingOutput Reason = "missing output"
	// ReasonInputNewer means an input is newer than an output.
	ReasonInputNewer Reason = "input newer"
	// ReasonUpstream means a producer of one of the inputs will run.
	ReasonUpstream Reason = "upstream"
	// ReasonMissingIntermediate means a consumer needs an output that no longer exists.
	ReasonMissingIntermediate Reason = "missing intermediate"
)

// commandInfo wraps one command for the duration of a single run.
type commandInfo struct {
	id   domain.NodeID
	cmd  ports.Command
	desc string

	// deps only shrinks. The info becomes ready when it is empty.
	deps      map[*commandInfo]struct{}
	consumers []*commandInfo

	inputTS      domain.Timestamp
	outputTS     domain.Timestamp
	newestInput  string
	newestOutput string
	// visiting guards the output timestamp recursion.
	visiting bool

	mustExecute bool
	reason      Reason
	status      domain.CommandStatus
}

func newCommandInfo(id domain.NodeID, cmd ports.Command) *commandInfo {
	return &commandInfo{
		id:     id,
		cmd:    cmd,
		desc:   cmd.Description(),
		deps:   make(map[*commandInfo]struct{}),
		status: domain.StatusPending,
	}
}

func (ci *commandInfo) markExecute(reason Reason) bool {
	if ci.mustExecute {
		return false
	}
	ci.mustExecute = true
	ci.reason = reason
	return true
}
