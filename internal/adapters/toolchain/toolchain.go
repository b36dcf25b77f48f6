package toolchain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

// ObjDirName is the directory below the build directory holding per-target objects.
const ObjDirName = "obj"

var _ ports.CommandFactory = (*Toolchain)(nil)

// Toolchain implements ports.CommandFactory for gcc-compatible tools.
type Toolchain struct {
	deps
	overrides domain.ToolSettings
}

// New creates a new Toolchain.
func New(
	runner ports.ProcessRunner,
	hasher ports.Hasher,
	store ports.SignatureStore,
	fs ports.FileSystem,
	verifier ports.Verifier,
	logger ports.Logger,
) *Toolchain {
	return &Toolchain{deps: deps{
		runner:   runner,
		hasher:   hasher,
		store:    store,
		fs:       fs,
		verifier: verifier,
		logger:   logger,
	}}
}

// WithOverrides returns a copy of the toolchain whose compiler and linker
// replace those of the manifest when set.
func (t *Toolchain) WithOverrides(ts domain.ToolSettings) ports.CommandFactory {
	cp := *t
	cp.overrides = ts
	return &cp
}

// Commands builds the command set of every target of m.
// Objects live under <build>/obj/<target>/, mirroring source paths.
func (t *Toolchain) Commands(m *domain.Manifest) ([]ports.Command, error) {
	tc := t.resolveTools(m.Toolchain)

	var cmds []ports.Command
	for i := range m.Targets {
		target := &m.Targets[i]
		targetCmds, err := t.targetCommands(m, tc, target)
		if err != nil {
			return nil, zerr.With(err, "target", target.Name)
		}
		cmds = append(cmds, targetCmds...)
	}
	return cmds, nil
}

func (t *Toolchain) resolveTools(tc domain.Toolchain) domain.Toolchain {
	def := domain.DefaultToolchain()
	if tc.CC == "" {
		tc.CC = def.CC
	}
	if tc.AS == "" {
		tc.AS = tc.CC
	}
	if tc.LD == "" {
		tc.LD = tc.CC
	}
	if tc.AR == "" {
		tc.AR = def.AR
	}
	if t.overrides.CC != "" {
		tc.CC = t.overrides.CC
		tc.AS = t.overrides.CC
	}
	if t.overrides.LD != "" {
		tc.LD = t.overrides.LD
	}
	return tc
}

func (t *Toolchain) targetCommands(m *domain.Manifest, tc domain.Toolchain, target *domain.Target) ([]ports.Command, error) {
	if len(target.Sources) == 0 {
		return nil, zerr.Wrap(domain.ErrNoSources, "cannot build target")
	}

	objDir := filepath.Join(m.Root, m.BuildDir, ObjDirName, target.Name)
	cppFlags := t.preprocessorFlags(m.Root, target)

	var cmds []ports.Command
	objects := make([]string, 0, len(target.Sources))
	for _, src := range target.Sources {
		in := filepath.Join(m.Root, filepath.FromSlash(src))
		base := filepath.Join(objDir, strings.TrimSuffix(filepath.FromSlash(src), filepath.Ext(src)))
		obj := base + ".o"

		switch filepath.Ext(src) {
		case ".c":
			if tc.Preprocess {
				pre := base + ".i"
				cmds = append(cmds,
					t.newCommand(m.Root, KindPreprocess, tc.CC, []string{in}, pre, pre+domain.DepFileExt,
						concat(tc.CPPFlags, cppFlags)),
					t.newCommand(m.Root, KindCompile, tc.CC, []string{pre}, obj, "",
						concat(tc.CFlags, target.CFlags)),
				)
			} else {
				cmds = append(cmds, t.newCommand(m.Root, KindCompile, tc.CC, []string{in}, obj, obj+domain.DepFileExt,
					concat(tc.CFlags, tc.CPPFlags, cppFlags, target.CFlags)))
			}
		case ".S":
			cmds = append(cmds, t.newCommand(m.Root, KindAssemble, tc.AS, []string{in}, obj, obj+domain.DepFileExt,
				concat(tc.ASFlags, cppFlags)))
		case ".s":
			cmds = append(cmds, t.newCommand(m.Root, KindAssemble, tc.AS, []string{in}, obj, "", tc.ASFlags))
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedSource, "no rule for source extension"), "source", src)
		}
		objects = append(objects, obj)
	}

	artifact := filepath.Join(m.Root, m.BuildDir, target.ArtifactName())
	if target.Kind == domain.KindLibrary {
		return append(cmds, t.newCommand(m.Root, KindArchive, tc.AR, objects, artifact, "", nil)), nil
	}

	link := t.newCommand(m.Root, KindLink, tc.LD, objects, artifact, "", concat(tc.LDFlags, target.LDFlags))
	for _, name := range target.Link {
		lib, ok := m.Target(name)
		if !ok || lib.Kind != domain.KindLibrary {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownTarget, "cannot link library"), "link", name)
		}
		link.archives = append(link.archives, filepath.Join(m.Root, m.BuildDir, lib.ArtifactName()))
	}
	if tc.LinkerScript != "" {
		link.script = filepath.Join(m.Root, filepath.FromSlash(tc.LinkerScript))
	}
	return append(cmds, link), nil
}

func (t *Toolchain) newCommand(root string, kind Kind, tool string, inputs []string, output, depFile string, flags []string) *Command {
	return &Command{
		deps:    t.deps,
		kind:    kind,
		tool:    tool,
		root:    root,
		inputs:  inputs,
		output:  output,
		depFile: depFile,
		flags:   flags,
	}
}

// preprocessorFlags turns include directories and defines into -I and -D flags.
func (t *Toolchain) preprocessorFlags(root string, target *domain.Target) []string {
	flags := make([]string, 0, len(target.Includes)+len(target.Defines))
	for _, inc := range target.Includes {
		flags = append(flags, "-I"+filepath.Join(root, filepath.FromSlash(inc)))
	}
	for _, def := range target.Defines {
		flags = append(flags, "-D"+def)
	}
	return flags
}

func concat(parts ...[]string) []string {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]string, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
