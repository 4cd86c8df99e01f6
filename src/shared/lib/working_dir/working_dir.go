package working_dir

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// WorkingDir is an absolute directory that a job family can scribble in.
// Temp artifacts go under TempDir so they can be swept separately.
func NewWorkingDir(dirStr string) (WorkingDir, error) {
	absDir, err := filepath.Abs(dirStr)
	if err != nil {
		return WorkingDir{}, errors.Wrap(err, "Failed to convert working dir to absolute format")
	}

	workingDir := WorkingDir{root: absDir}

	if err := os.MkdirAll(workingDir.TempDir(), os.ModePerm); err != nil {
		return WorkingDir{}, errors.Wrap(err, "Failed to create working dir")
	}

	return workingDir, nil
}

type WorkingDir struct {
	root string
}

func (w WorkingDir) Root() string {
	return w.root
}

func (w WorkingDir) TempDir() string {
	return filepath.Join(w.root, "tmp")
}
