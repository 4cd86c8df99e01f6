package transcode

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/executor"
)

var _ Transcoder = FFmpegTranscoder{}

func NewFFmpegTranscoder(ffmpegBinPath string, executor executor.Executor) FFmpegTranscoder {
	return FFmpegTranscoder{
		ffmpegBinPath: ffmpegBinPath,
		executor:      executor,
	}
}

type FFmpegTranscoder struct {
	ffmpegBinPath string
	executor      executor.Executor
}

// ExtractWaveform decodes whatever container the upload came in and
// writes a stereo 44.1kHz WAV to destPath.
func (f FFmpegTranscoder) ExtractWaveform(ctx context.Context, sourcePath string, destPath string) error {
	logger := log.WithFields(log.Fields{
		"sourcePath": sourcePath,
		"destPath":   destPath,
	})

	args := []string{"-i", sourcePath, "-ac", "2", "-ar", "44100", "-f", "wav", "-y", destPath}

	logger.Info("Running ffmpeg command")

	cmd := f.executor.Command(ctx, f.ffmpegBinPath, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrap(err,
			fmt.Sprintf("Error occurred while running ffmpeg: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished ffmpeg command")

	return nil
}
