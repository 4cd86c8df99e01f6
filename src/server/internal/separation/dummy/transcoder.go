package dummy

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/transcode"
)

var _ transcode.Transcoder = &Transcoder{}

func NewDummyTranscoder() *Transcoder {
	return &Transcoder{}
}

// Transcoder pretends to extract audio by prefixing the source bytes
// with a RIFF header.
type Transcoder struct {
	Unavailable bool
	CallCount   int
}

func (t *Transcoder) ExtractWaveform(ctx context.Context, sourcePath string, destPath string) error {
	t.CallCount++

	if t.Unavailable {
		return TranscodeFailure
	}

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Wrap(err, "Failed to read the source file")
	}

	waveformData := append([]byte("RIFF"), sourceData...)
	if err := os.WriteFile(destPath, waveformData, 0o644); err != nil {
		return errors.Wrap(err, "Failed to write the waveform file")
	}

	return nil
}
