package lib

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muveraai/conclave/archive"
)

func TestOpenArchive(t *testing.T) {
	dir, err := ioutil.TempDir("", "vcadmin")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	old := ConfigPath
	defer func() { ConfigPath = old }()
	ConfigPath = filepath.Join(dir, "sub")

	require.Equal(t, filepath.Join(ConfigPath, "runs.db"), ArchivePath())

	// The config directory is created on demand.
	ar, err := OpenArchive()
	require.NoError(t, err)
	rec, err := ar.Store(archive.Record{Scenario: "standard"})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	require.NoError(t, ar.Close())

	ar, err = OpenArchive()
	require.NoError(t, err)
	got, err := ar.Latest()
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	require.NoError(t, ar.Close())
}
