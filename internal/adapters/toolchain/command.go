// Package toolchain builds gcc-style compilation commands from a manifest.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/mindc/internal/adapters/depfile"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

// Kind is the toolchain step a Command performs.
type Kind uint8

const (
	// KindPreprocess runs the C preprocessor.
	KindPreprocess Kind = iota
	// KindCompile compiles a C or preprocessed source into an object.
	KindCompile
	// KindAssemble assembles a .s or .S source into an object.
	KindAssemble
	// KindArchive bundles objects into a static library.
	KindArchive
	// KindLink links objects and archives into an executable.
	KindLink
)

// prefix returns the description prefix of the step.
func (k Kind) prefix() string {
	switch k {
	case KindPreprocess:
		return "CPP"
	case KindCompile:
		return "GCC"
	case KindAssemble:
		return "AS "
	case KindArchive:
		return "AR "
	default:
		return "LD "
	}
}

// deps groups the adapters every command talks to.
type deps struct {
	runner   ports.ProcessRunner
	hasher   ports.Hasher
	store    ports.SignatureStore
	fs       ports.FileSystem
	verifier ports.Verifier
	logger   ports.Logger
}

// Command is one toolchain invocation. All paths are absolute.
type Command struct {
	deps

	kind   Kind
	tool   string
	root   string
	inputs []string
	// archives are linked after every object.
	archives []string
	output   string
	depFile  string
	flags    []string
	script   string

	implicit    []string
	forced      bool
	fingerprint string
}

var _ ports.Command = (*Command)(nil)

// Kind returns the step the command performs.
func (c *Command) Kind() Kind {
	return c.kind
}

// Args returns the full command line.
func (c *Command) Args() []string {
	argv := []string{c.tool}
	switch c.kind {
	case KindPreprocess:
		argv = append(argv, "-E")
		argv = append(argv, c.flags...)
		argv = append(argv, c.depArgs()...)
		argv = append(argv, "-o", c.output)
		argv = append(argv, c.inputs...)
	case KindCompile, KindAssemble:
		argv = append(argv, "-c")
		argv = append(argv, c.flags...)
		argv = append(argv, c.depArgs()...)
		argv = append(argv, "-o", c.output)
		argv = append(argv, c.inputs...)
	case KindArchive:
		argv = append(argv, "rcs", c.output)
		argv = append(argv, c.inputs...)
	case KindLink:
		argv = append(argv, "-o", c.output)
		argv = append(argv, c.inputs...)
		argv = append(argv, c.archives...)
		if c.script != "" {
			argv = append(argv, "-T", c.script)
		}
		argv = append(argv, c.flags...)
	}
	return argv
}

func (c *Command) depArgs() []string {
	if c.depFile == "" {
		return nil
	}
	return []string{"-MMD", "-MF", c.depFile, "-MT", c.output}
}

// Description names the step and its output relative to the project root.
func (c *Command) Description() string {
	rel, err := filepath.Rel(c.root, c.output)
	if err != nil {
		rel = c.output
	}
	return c.kind.prefix() + ": " + filepath.ToSlash(rel)
}

// Prepare reads the dependency file and the recorded signature. A command
// whose dependency file cannot be read, or whose command line changed since
// the output was produced, is forced.
func (c *Command) Prepare() error {
	c.fingerprint = c.hasher.HashArgs(c.Args())
	c.implicit = nil
	c.forced = false

	if c.depFile != "" {
		prereqs, err := depfile.ReadFile(c.fs, c.root, c.depFile, c.output)
		switch {
		case err == nil:
			for _, p := range prereqs {
				if !slices.Contains(c.inputs, p) && !slices.Contains(c.implicit, p) {
					c.implicit = append(c.implicit, p)
				}
			}
		case depfile.IsNotExist(err):
			c.force("no dependency file")
		default:
			c.force("unreadable dependency file", "error", err.Error())
		}
	}

	sig, err := c.store.Get(c.root, c.output)
	switch {
	case err != nil:
		c.force("unreadable signature", "error", err.Error())
	case sig != nil && sig.Fingerprint != c.fingerprint:
		c.force("command line changed", "previous", sig.Fingerprint, "current", c.fingerprint)
	}
	return nil
}

func (c *Command) force(reason string, args ...any) {
	if c.forced {
		return
	}
	c.forced = true
	c.logger.Debug("forcing command", append([]any{"command", c.Description(), "reason", reason}, args...)...)
}

// InputFiles returns the declared inputs followed by those read from the dependency file.
func (c *Command) InputFiles() []string {
	files := make([]string, 0, len(c.inputs)+len(c.archives)+len(c.implicit)+1)
	files = append(files, c.inputs...)
	files = append(files, c.archives...)
	if c.script != "" {
		files = append(files, c.script)
	}
	return append(files, c.implicit...)
}

// OutputFiles returns the produced file.
func (c *Command) OutputFiles() []string {
	return []string{c.output}
}

// ForceExec reports whether Prepare decided the command must run.
func (c *Command) ForceExec() bool {
	return c.forced
}

// Exec runs the tool. Output of a successful step is kept in the span and
// reported as a warning.
func (c *Command) Exec(ctx context.Context) error {
	for _, dir := range c.outputDirs() {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return errors.Join(domain.ErrCommandFailed, zerr.With(zerr.Wrap(err, "failed to create output directory"), "command", c.Description()))
		}
	}
	if c.kind == KindArchive {
		// ar appends to an existing archive.
		if err := os.Remove(c.output); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Join(domain.ErrCommandFailed, zerr.With(zerr.Wrap(err, "failed to remove stale archive"), "command", c.Description()))
		}
	}

	var diag bytes.Buffer
	out := io.MultiWriter(ports.OutputFromContext(ctx), &diag)
	if err := c.runner.Run(ctx, c.Args(), c.root, out); err != nil {
		return errors.Join(domain.ErrCommandFailed, zerr.With(err, "command", c.Description()))
	}

	missing, err := c.verifier.MissingOutputs(c.root, c.OutputFiles())
	if err != nil {
		return errors.Join(domain.ErrCommandFailed, zerr.With(err, "command", c.Description()))
	}
	if len(missing) > 0 {
		err := zerr.With(zerr.Wrap(domain.ErrCommandFailed, "output was not produced"), "command", c.Description())
		return zerr.With(err, "missing", strings.Join(missing, ", "))
	}

	if diag.Len() > 0 {
		c.logger.Warn(fmt.Sprintf("%s produced diagnostics", c.Description()))
	}

	sig := domain.Signature{Output: c.output, Fingerprint: c.fingerprint, Timestamp: time.Now()}
	if err := c.store.Put(c.root, sig); err != nil {
		c.logger.Warn(fmt.Sprintf("failed to record signature of %s: %v", c.Description(), err))
	}
	return nil
}

func (c *Command) outputDirs() []string {
	dirs := []string{filepath.Dir(c.output)}
	if c.depFile != "" && filepath.Dir(c.depFile) != dirs[0] {
		dirs = append(dirs, filepath.Dir(c.depFile))
	}
	return dirs
}
