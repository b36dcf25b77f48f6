package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindc/internal/adapters/fs"
)

func TestVerifier_MissingOutputs(t *testing.T) {
	tmpDir := t.TempDir()
	verifier := fs.NewVerifier()

	mustCreateFile(t, tmpDir, "out1.o")
	abs := mustCreateFile(t, tmpDir, "out2.o")
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "dir.o"), 0o750))
	nested := filepath.Join(tmpDir, "nope", "x.o")

	tests := []struct {
		name    string
		outputs []string
		missing []string
	}{
		{name: "all present", outputs: []string{"out1.o", abs}, missing: nil},
		{name: "one missing", outputs: []string{"out1.o", "missing.o"}, missing: []string{"missing.o"}},
		{name: "missing parent", outputs: []string{nested, "out1.o"}, missing: []string{nested}},
		{name: "directory", outputs: []string{"dir.o"}, missing: []string{"dir.o"}},
		{name: "none declared", outputs: nil, missing: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, err := verifier.MissingOutputs(tmpDir, tt.outputs)
			require.NoError(t, err)
			assert.Equal(t, tt.missing, missing)
		})
	}
}
