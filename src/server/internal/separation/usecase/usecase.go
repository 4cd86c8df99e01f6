package separationusecase

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/engine"
	separationerrors "github.com/veedubyou/stem-lab-be/src/server/internal/separation/errors"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/transcode"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/working_dir"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

const (
	inputFileName    = "input"
	waveformFileName = "waveform.wav"
	stemsDirName     = "stems"
)

var riffHeader = []byte("RIFF")

type Config struct {
	WorkingDirPath string
	Timeout        time.Duration
}

// Usecase runs one separation job end to end: normalize the upload,
// run the engine under a deadline, and read the stems back as one
// complete set. Every temp artifact lives in a job-private dir that is
// removed on all exit paths, so failed or cancelled jobs leave nothing
// behind.
type Usecase struct {
	transcoder transcode.Transcoder
	engine     engine.Engine
	workingDir working_dir.WorkingDir
	timeout    time.Duration
}

func NewUsecase(transcoder transcode.Transcoder, separationEngine engine.Engine, config Config) (Usecase, error) {
	workingDir, err := working_dir.NewWorkingDir(config.WorkingDirPath)
	if err != nil {
		return Usecase{}, errors.Wrap(err, "Failed to create the separation working dir")
	}

	return Usecase{
		transcoder: transcoder,
		engine:     separationEngine,
		workingDir: workingDir,
		timeout:    config.Timeout,
	}, nil
}

func (u Usecase) Separate(ctx context.Context, mediaBytes []byte, declaredContentType string, modelID string) (stementity.StemSet, *api.Error) {
	model, err := stementity.LookupModel(modelID)
	if err != nil {
		return stementity.StemSet{}, api.CommitError(err,
			separationerrors.InvalidModelCode,
			"The requested separation model is not recognized")
	}

	if len(mediaBytes) == 0 {
		return stementity.StemSet{}, api.CommitError(
			errors.New("The media payload is empty"),
			separationerrors.BadMediaDataCode,
			"The upload contained no media data")
	}

	jobDir, cleanUpJobDir, err := u.makeJobDir()
	if err != nil {
		return stementity.StemSet{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown error: Failed to prepare the separation job")
	}

	defer cleanUpJobDir()

	waveformPath, apiErr := u.normalizeInput(ctx, jobDir, mediaBytes, declaredContentType)
	if apiErr != nil {
		return stementity.StemSet{}, api.WrapError(apiErr, "Failed to normalize the uploaded media")
	}

	stemPaths, apiErr := u.runEngine(ctx, waveformPath, filepath.Join(jobDir, stemsDirName), model)
	if apiErr != nil {
		return stementity.StemSet{}, api.WrapError(apiErr, "Failed to run the separation engine")
	}

	stemSet, apiErr := collectStemSet(model, stemPaths)
	if apiErr != nil {
		return stementity.StemSet{}, api.WrapError(apiErr, "Failed to assemble the stem set")
	}

	return stemSet, nil
}

func (u Usecase) normalizeInput(ctx context.Context, jobDir string, mediaBytes []byte, declaredContentType string) (string, *api.Error) {
	inputPath := filepath.Join(jobDir, inputFileName)
	if err := os.WriteFile(inputPath, mediaBytes, 0o644); err != nil {
		return "", api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown error: Failed to stage the uploaded media")
	}

	if isWaveform(mediaBytes, declaredContentType) {
		return inputPath, nil
	}

	log.WithField("content_type", declaredContentType).
		Info("Upload is not a waveform, extracting audio")

	waveformPath := filepath.Join(jobDir, waveformFileName)
	if err := u.transcoder.ExtractWaveform(ctx, inputPath, waveformPath); err != nil {
		return "", api.CommitError(err,
			separationerrors.UnsupportedMediaCode,
			"Could not extract audio from the uploaded media")
	}

	return waveformPath, nil
}

func (u Usecase) runEngine(ctx context.Context, waveformPath string, stemsDir string, model stementity.Model) (engine.StemFilePaths, *api.Error) {
	engineCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	stemPaths, err := u.engine.SplitFile(engineCtx, waveformPath, stemsDir, model)
	if err != nil {
		err = errors.Wrap(err, "Engine failed to split the waveform")

		if errors.Is(engineCtx.Err(), context.DeadlineExceeded) {
			return nil, api.CommitError(err,
				separationerrors.SeparationTimeoutCode,
				"Separation took too long and was cancelled")
		}

		return nil, api.CommitError(err,
			separationerrors.InferenceFailedCode,
			"The separation engine failed to process this track")
	}

	return stemPaths, nil
}

// collectStemSet enforces the all-or-nothing contract: every stem the
// model names must come back from the engine with audio in it.
func collectStemSet(model stementity.Model, stemPaths engine.StemFilePaths) (stementity.StemSet, *api.Error) {
	stemSet := stementity.StemSet{ModelID: model.ID}

	for _, stemName := range model.StemNames {
		stemPath, ok := stemPaths[stemName]
		if !ok {
			return stementity.StemSet{}, api.CommitError(
				errors.Errorf("Engine did not produce the %s stem", stemName),
				separationerrors.InferenceFailedCode,
				"The separation engine returned an incomplete result")
		}

		data, err := os.ReadFile(stemPath)
		if err != nil {
			return stementity.StemSet{}, api.CommitError(
				errors.Wrapf(err, "Failed to read the %s stem output", stemName),
				separationerrors.InferenceFailedCode,
				"The separation engine returned an unreadable result")
		}

		if len(data) == 0 {
			return stementity.StemSet{}, api.CommitError(
				errors.Errorf("The %s stem output is empty", stemName),
				separationerrors.InferenceFailedCode,
				"The separation engine returned an empty stem")
		}

		stemSet.Stems = append(stemSet.Stems, stementity.Stem{
			Name:        stemName,
			ContentType: stementity.WAVContentType,
			Data:        data,
		})
	}

	return stemSet, nil
}

func (u Usecase) makeJobDir() (string, func(), error) {
	jobDir, err := os.MkdirTemp(u.workingDir.TempDir(), "separate-*")
	if err != nil {
		return "", nil, errors.Wrap(err, "Failed to create a temp dir for the separation job")
	}

	return jobDir, func() { _ = os.RemoveAll(jobDir) }, nil
}

func isWaveform(mediaBytes []byte, declaredContentType string) bool {
	switch declaredContentType {
	case "audio/wav", "audio/wave", "audio/x-wav":
		return true
	}

	return bytes.HasPrefix(mediaBytes, riffHeader)
}
