package depfile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindc/internal/adapters/depfile"
	"go.trai.ch/mindc/internal/adapters/fs"
	"go.trai.ch/mindc/internal/core/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  depfile.Rules
	}{
		{
			name:  "gcc output",
			input: "build/a.o: src/a.c include/a.h \\\n include/common.h\n",
			want:  depfile.Rules{"build/a.o": {"src/a.c", "include/a.h", "include/common.h"}},
		},
		{
			name:  "spaced separator",
			input: "a.o : a.c \\\n    b.h\n\n",
			want:  depfile.Rules{"a.o": {"a.c", "b.h"}},
		},
		{
			name:  "escaped space and dollar",
			input: "out.o: my\\ dir/a.c cost$$.h\n",
			want:  depfile.Rules{"out.o": {"my dir/a.c", "cost$.h"}},
		},
		{
			name:  "phony targets from -MP",
			input: "a.o: a.c a.h\n\na.h:\n",
			want:  depfile.Rules{"a.o": {"a.c", "a.h"}, "a.h": nil},
		},
		{
			name:  "rules accumulate",
			input: "a.o: a.c\na.o: extra.h\n",
			want:  depfile.Rules{"a.o": {"a.c", "extra.h"}},
		},
		{
			name:  "drive letter is not a separator",
			input: "C:\\out\\a.o: C:\\src\\a.c\n",
			want:  depfile.Rules{"C:\\out\\a.o": {"C:\\src\\a.c"}},
		},
		{
			name:  "comments and blank lines",
			input: "# generated\n\na.o: a.c\n",
			want:  depfile.Rules{"a.o": {"a.c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := depfile.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rules)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := depfile.Parse(strings.NewReader("a.o: a.c\nthis is not a rule\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDepFileParse)
}

func TestWrite_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, depfile.Write(&buf, "build/a b.o", []string{"a.c", "x$.h", "y.h"}))
	assert.Equal(t, "build/a\\ b.o : a.c \\\n    x$$.h \\\n    y.h\n\n", buf.String())

	rules, err := depfile.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, depfile.Rules{"build/a b.o": {"a.c", "x$.h", "y.h"}}, rules)
}

func TestRules_Lookup(t *testing.T) {
	rules := depfile.Rules{
		"build/a.o": {"a.c"},
		"b.o":       {"b.c"},
	}

	deps, ok := rules.Lookup("build/a.o")
	require.True(t, ok)
	assert.Equal(t, []string{"a.c"}, deps)

	deps, ok = rules.Lookup("build/obj/b.o")
	require.True(t, ok, "falls back to the base name")
	assert.Equal(t, []string{"b.c"}, deps)

	_, ok = rules.Lookup("c.o")
	assert.False(t, ok)

	single := depfile.Rules{"whatever.o": {"x.c"}}
	deps, ok = single.Lookup("c.o")
	require.True(t, ok, "a single rule describes the target")
	assert.Equal(t, []string{"x.c"}, deps)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.c")
	hdr := filepath.Join(dir, "a.h")
	gone := filepath.Join(dir, "removed.h")
	require.NoError(t, os.WriteFile(src, nil, 0o600))
	require.NoError(t, os.WriteFile(hdr, nil, 0o600))

	obj := filepath.Join(dir, "a.o")
	dep := filepath.Join(dir, "a.d")
	f, err := os.Create(dep)
	require.NoError(t, err)
	require.NoError(t, depfile.Write(f, obj, []string{src, "a.h", gone}))
	require.NoError(t, f.Close())

	deps, err := depfile.ReadFile(fs.NewFileSystem(), dir, dep, obj)
	require.NoError(t, err)
	assert.Equal(t, []string{src, hdr}, deps, "relative prerequisites resolve against root")
}

func TestReadFile_Missing(t *testing.T) {
	_, err := depfile.ReadFile(fs.NewFileSystem(), t.TempDir(), filepath.Join(t.TempDir(), "none.d"), "a.o")
	require.Error(t, err)
	assert.True(t, depfile.IsNotExist(err))
}

func TestReadFile_NoRule(t *testing.T) {
	dir := t.TempDir()
	dep := filepath.Join(dir, "a.d")
	require.NoError(t, os.WriteFile(dep, []byte("x.o: x.c\ny.o: y.c\n"), 0o600))

	_, err := depfile.ReadFile(fs.NewFileSystem(), dir, dep, "a.o")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDepFileParse)
	assert.False(t, depfile.IsNotExist(err))
}
