package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/executor"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/working_dir"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

var _ Engine = SpleeterEngine{}

func NewSpleeterEngine(workingDirStr string, spleeterBinPath string, executor executor.Executor) (SpleeterEngine, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return SpleeterEngine{}, errors.Wrap(err, "Failed to convert working dir to absolute format")
	}

	return SpleeterEngine{
		workingDir:      workingDir,
		spleeterBinPath: spleeterBinPath,
		executor:        executor,
	}, nil
}

type SpleeterEngine struct {
	workingDir      working_dir.WorkingDir
	spleeterBinPath string
	executor        executor.Executor
}

func (s SpleeterEngine) SplitFile(ctx context.Context, sourcePath string, stemOutputDir string, model stementity.Model) (StemFilePaths, error) {
	absSourcePath, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot convert source path to absolute format")
	}

	absStemOutputDir, err := filepath.Abs(stemOutputDir)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot convert destination path to absolute format")
	}

	// splitting is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "Context cancelled before splitting could happen")
	}

	if err := s.runSpleeter(ctx, absSourcePath, absStemOutputDir, model); err != nil {
		return nil, errors.Wrap(err, "Failed to execute spleeter")
	}

	return collectStemFilePaths(absStemOutputDir)
}

func (s SpleeterEngine) runSpleeter(ctx context.Context, sourcePath string, destPath string, model stementity.Model) error {
	logger := log.WithFields(log.Fields{
		"sourcePath": sourcePath,
		"destPath":   destPath,
		"model":      model.ID,
		"workingDir": s.workingDir,
	})

	logger.Info("Running spleeter command")

	args := []string{"separate", "-p", model.EngineParam, "-o", destPath, "-c", "wav", "-f", "{instrument}.wav", sourcePath}

	cmd := s.executor.Command(ctx, s.spleeterBinPath, args...)
	cmd.SetDir(s.workingDir.Root())

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "Spleeter run was cancelled")
		}

		return errors.Wrap(err,
			fmt.Sprintf("Error occurred while running spleeter: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished spleeter command")

	return nil
}

func collectStemFilePaths(dir string) (StemFilePaths, error) {
	logger := log.WithFields(log.Fields{
		"dir": dir,
	})

	logger.Info("Reading directory to collect file paths")
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "Error reading output directory")
	}

	if len(dirEntries) == 0 {
		return nil, errors.New("No files in output directory")
	}

	outputs := StemFilePaths{}

	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}

		fileName := dirEntry.Name()
		filePath, err := filepath.Abs(filepath.Join(dir, fileName))
		if err != nil {
			return nil, errors.Wrap(err, "Failed to convert file path to absolute format")
		}

		stemName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		outputs[stemName] = filePath
	}

	return outputs, nil
}
