package lib

import (
	"os"
	"path/filepath"

	"golang.org/x/xerrors"

	"github.com/muveraai/conclave/archive"
)

// ConfigPath points to where the files will be stored by default.
var ConfigPath = "."

// ArchivePath returns the location of the run archive inside the
// ConfigPath.
func ArchivePath() string {
	return filepath.Join(ConfigPath, "runs.db")
}

// OpenArchive opens the run archive, creating the ConfigPath directory if
// needed. The caller must Close it.
func OpenArchive() (*archive.Archive, error) {
	if err := os.MkdirAll(ConfigPath, 0755); err != nil {
		return nil, xerrors.Errorf("couldn't create config directory: %v", err)
	}
	return archive.Open(ArchivePath())
}
