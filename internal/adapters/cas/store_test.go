package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindc/internal/adapters/cas"
	"go.trai.ch/mindc/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	store := cas.NewStore()

	sig := domain.Signature{
		Output:      "build/obj/main.o",
		Fingerprint: "0123456789abcdef",
		Timestamp:   time.Now().UTC().Truncate(time.Second),
	}

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, store.Put(tmpDir, sig))

		got, err := store.Get(tmpDir, "build/obj/main.o")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, sig, *got)

		// Equivalent spellings share the record.
		got, err = store.Get(tmpDir, "build/obj/../obj/main.o")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, sig.Fingerprint, got.Fingerprint)
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		got, err := store.Get(tmpDir, "build/obj/missing.o")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStore_Overwrite(t *testing.T) {
	tmpDir := t.TempDir()
	store := cas.NewStore()

	require.NoError(t, store.Put(tmpDir, domain.Signature{Output: "a.o", Fingerprint: "old"}))
	require.NoError(t, store.Put(tmpDir, domain.Signature{Output: "a.o", Fingerprint: "new"}))

	got, err := store.Get(tmpDir, "a.o")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Fingerprint)

	entries, err := os.ReadDir(filepath.Join(tmpDir, domain.DefaultStorePath()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file is left behind")
}

func TestStore_GetCorrupt(t *testing.T) {
	tmpDir := t.TempDir()
	store := cas.NewStore()
	require.NoError(t, store.Put(tmpDir, domain.Signature{Output: "a.o"}))

	storeDir := filepath.Join(tmpDir, domain.DefaultStorePath())
	entries, err := os.ReadDir(storeDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	//nolint:gosec // test file
	require.NoError(t, os.WriteFile(filepath.Join(storeDir, entries[0].Name()), []byte("{ invalid json"), 0o600))

	_, err = store.Get(tmpDir, "a.o")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnmarshalFailed)
}

func TestStore_PutCreateFailed(t *testing.T) {
	tmpDir := t.TempDir()
	// A regular file where the .mind directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, domain.MindDirName), nil, 0o600))

	err := cas.NewStore().Put(tmpDir, domain.Signature{Output: "a.o"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreCreateFailed)
}
