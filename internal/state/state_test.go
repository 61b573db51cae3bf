package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsEmptyMap(t *testing.T) {
	m := Load(filepath.Join(t.TempDir(), "state.json"))
	require.NotNil(t, m)
	assert.Empty(t, m)
}

func TestLoad_CorruptFileYieldsEmptyMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	m := Load(path)
	require.NotNil(t, m)
	assert.Empty(t, m)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	m := Map{
		"https://github.com/acme/widgets.git": "aaaa1111",
		"https://gitlab.com/acme/gears.git":   "bbbb2222",
	}

	require.NoError(t, Save(m, path))
	assert.Equal(t, m, Load(path))
}

func TestSave_ReplacesPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, Save(Map{"repo": "old"}, path))
	require.NoError(t, Save(Map{"repo": "new"}, path))

	assert.Equal(t, Map{"repo": "new"}, Load(path))

	// No temp files should survive the rename.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestSave_FailsOnMissingDirectory(t *testing.T) {
	err := Save(Map{"repo": "id"}, filepath.Join(t.TempDir(), "missing", "state.json"))
	require.Error(t, err)
}
