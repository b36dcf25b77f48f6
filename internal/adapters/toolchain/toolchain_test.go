package toolchain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindc/internal/adapters/fs"
	"go.trai.ch/mindc/internal/adapters/toolchain"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/mindc/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type harness struct {
	runner *mocks.MockProcessRunner
	store  *mocks.MockSignatureStore
	logger *mocks.MockLogger
	tc     *toolchain.Toolchain
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		runner: mocks.NewMockProcessRunner(ctrl),
		store:  mocks.NewMockSignatureStore(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	h.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	h.tc = toolchain.New(h.runner, fs.NewHasher(), h.store, fs.NewFileSystem(), fs.NewVerifier(), h.logger)
	return h
}

func firmware(root string) *domain.Manifest {
	return &domain.Manifest{
		Root:     root,
		BuildDir: "build",
		Toolchain: domain.Toolchain{
			CC:           "arm-none-eabi-gcc",
			CFlags:       []string{"-O2"},
			CPPFlags:     []string{"-nostdinc"},
			ASFlags:      []string{"-mthumb"},
			LDFlags:      []string{"-nostdlib"},
			LinkerScript: "board.ld",
			Preprocess:   true,
		},
		Targets: []domain.Target{
			{
				Name:     "util",
				Kind:     domain.KindLibrary,
				Sources:  []string{"lib/util.c", "lib/memcpy.s"},
				Includes: []string{"include"},
			},
			{
				Name:     "app",
				Kind:     domain.KindExecutable,
				Sources:  []string{"src/main.c", "src/boot.S"},
				Includes: []string{"include"},
				Defines:  []string{"BOARD=2"},
				CFlags:   []string{"-Wall"},
				Link:     []string{"util"},
			},
		},
	}
}

func descriptions(cmds []ports.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Description()
	}
	return out
}

func byDescription(t *testing.T, cmds []ports.Command, desc string) *toolchain.Command {
	t.Helper()
	for _, c := range cmds {
		if c.Description() == desc {
			cmd, ok := c.(*toolchain.Command)
			require.True(t, ok)
			return cmd
		}
	}
	t.Fatalf("no command %q", desc)
	return nil
}

func TestToolchain_Commands(t *testing.T) {
	root := t.TempDir()
	h := newHarness(t)

	cmds, err := h.tc.Commands(firmware(root))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"CPP: build/obj/util/lib/util.i",
		"GCC: build/obj/util/lib/util.o",
		"AS : build/obj/util/lib/memcpy.o",
		"AR : build/libutil.a",
		"CPP: build/obj/app/src/main.i",
		"GCC: build/obj/app/src/main.o",
		"AS : build/obj/app/src/boot.o",
		"LD : build/app",
	}, descriptions(cmds))

	p := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }

	pre := byDescription(t, cmds, "CPP: build/obj/app/src/main.i")
	assert.Equal(t, toolchain.KindPreprocess, pre.Kind())
	assert.Equal(t, []string{
		"arm-none-eabi-gcc", "-E", "-nostdinc", "-I" + p("include"), "-DBOARD=2",
		"-MMD", "-MF", p("build/obj/app/src/main.i.d"), "-MT", p("build/obj/app/src/main.i"),
		"-o", p("build/obj/app/src/main.i"), p("src/main.c"),
	}, pre.Args())

	cc := byDescription(t, cmds, "GCC: build/obj/app/src/main.o")
	assert.Equal(t, []string{
		"arm-none-eabi-gcc", "-c", "-O2", "-Wall",
		"-o", p("build/obj/app/src/main.o"), p("build/obj/app/src/main.i"),
	}, cc.Args())
	assert.Equal(t, []string{p("build/obj/app/src/main.i")}, cc.InputFiles())

	as := byDescription(t, cmds, "AS : build/obj/app/src/boot.o")
	assert.Equal(t, []string{
		"arm-none-eabi-gcc", "-c", "-mthumb", "-I" + p("include"), "-DBOARD=2",
		"-MMD", "-MF", p("build/obj/app/src/boot.o.d"), "-MT", p("build/obj/app/src/boot.o"),
		"-o", p("build/obj/app/src/boot.o"), p("src/boot.S"),
	}, as.Args())

	plain := byDescription(t, cmds, "AS : build/obj/util/lib/memcpy.o")
	assert.NotContains(t, plain.Args(), "-MMD")

	ar := byDescription(t, cmds, "AR : build/libutil.a")
	assert.Equal(t, []string{
		"ar", "rcs", p("build/libutil.a"), p("build/obj/util/lib/util.o"), p("build/obj/util/lib/memcpy.o"),
	}, ar.Args())

	ld := byDescription(t, cmds, "LD : build/app")
	assert.Equal(t, []string{
		"arm-none-eabi-gcc", "-o", p("build/app"),
		p("build/obj/app/src/main.o"), p("build/obj/app/src/boot.o"),
		p("build/libutil.a"),
		"-T", p("board.ld"),
		"-nostdlib",
	}, ld.Args())
	assert.Equal(t, []string{
		p("build/obj/app/src/main.o"), p("build/obj/app/src/boot.o"), p("build/libutil.a"), p("board.ld"),
	}, ld.InputFiles())
	assert.Equal(t, []string{p("build/app")}, ld.OutputFiles())
}

func TestToolchain_Commands_WithoutPreprocessStep(t *testing.T) {
	root := t.TempDir()
	h := newHarness(t)
	m := &domain.Manifest{
		Root:      root,
		BuildDir:  "out",
		Toolchain: domain.Toolchain{CPPFlags: []string{"-DNDEBUG"}},
		Targets:   []domain.Target{{Name: "hello", Kind: domain.KindExecutable, Sources: []string{"hello.c"}}},
	}

	cmds, err := h.tc.Commands(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"GCC: out/obj/hello/hello.o", "LD : out/hello"}, descriptions(cmds))

	cc := byDescription(t, cmds, "GCC: out/obj/hello/hello.o")
	obj := filepath.Join(root, "out", "obj", "hello", "hello.o")
	assert.Equal(t, []string{
		"gcc", "-c", "-DNDEBUG", "-MMD", "-MF", obj + ".d", "-MT", obj,
		"-o", obj, filepath.Join(root, "hello.c"),
	}, cc.Args())
}

func TestToolchain_Commands_Overrides(t *testing.T) {
	root := t.TempDir()
	h := newHarness(t)
	tc := h.tc.WithOverrides(domain.ToolSettings{CC: "clang", LD: "ld.lld"})

	m := firmware(root)
	m.Targets = m.Targets[:1]
	m.Targets[0].Kind = domain.KindExecutable

	cmds, err := tc.Commands(m)
	require.NoError(t, err)
	assert.Equal(t, "clang", byDescription(t, cmds, "GCC: build/obj/util/lib/util.o").Args()[0])
	assert.Equal(t, "clang", byDescription(t, cmds, "AS : build/obj/util/lib/memcpy.o").Args()[0])
	assert.Equal(t, "ld.lld", byDescription(t, cmds, "LD : build/util").Args()[0])
}

func TestToolchain_Commands_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target domain.Target
		want   error
	}{
		{"no sources", domain.Target{Name: "x"}, domain.ErrNoSources},
		{"unsupported source", domain.Target{Name: "x", Sources: []string{"main.cpp"}}, domain.ErrUnsupportedSource},
		{"unknown link", domain.Target{Name: "x", Sources: []string{"main.c"}, Link: []string{"nope"}}, domain.ErrUnknownTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			m := &domain.Manifest{Root: t.TempDir(), BuildDir: "build", Targets: []domain.Target{tt.target}}
			_, err := h.tc.Commands(m)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
