package transcode

import (
	"context"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Transcoder turns arbitrary uploaded media into a waveform file that
// the separation engine can consume.
//
//counterfeiter:generate . Transcoder
type Transcoder interface {
	ExtractWaveform(ctx context.Context, sourcePath string, destPath string) error
}
