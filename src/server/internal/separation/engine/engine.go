package engine

import (
	"context"

	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

type StemFilePaths = map[string]string

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Engine is the separation capability: given a waveform file and a
// model, it produces one output file per stem. Implementations must
// honor ctx cancellation as best they can - inference is the longest
// running operation in the system.
//
//counterfeiter:generate . Engine
type Engine interface {
	SplitFile(ctx context.Context, sourcePath string, stemOutputDir string, model stementity.Model) (StemFilePaths, error)
}
