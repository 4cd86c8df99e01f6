package dummy

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/engine"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

var _ engine.Engine = &Engine{}

func NewDummyEngine() *Engine {
	return &Engine{}
}

// Engine mimics a real splitter by writing one file per stem whose
// contents are the source bytes suffixed with the stem name.
type Engine struct {
	Unavailable bool
	Delay       time.Duration
	CallCount   int
	mutex       sync.Mutex
}

func (e *Engine) SplitFile(ctx context.Context, sourcePath string, stemOutputDir string, model stementity.Model) (engine.StemFilePaths, error) {
	e.mutex.Lock()
	e.CallCount++
	e.mutex.Unlock()

	if e.Unavailable {
		return nil, EngineFailure
	}

	if e.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.Delay):
		}
	}

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read the source file")
	}

	if err := os.MkdirAll(stemOutputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "Failed to create the stem output dir")
	}

	stemPaths := engine.StemFilePaths{}
	for _, stemName := range model.StemNames {
		stemPath := filepath.Join(stemOutputDir, stemName+".wav")
		stemData := append(append([]byte{}, sourceData...), []byte("-"+stemName)...)

		if err := os.WriteFile(stemPath, stemData, 0o644); err != nil {
			return nil, errors.Wrap(err, "Failed to write a stem file")
		}

		stemPaths[stemName] = stemPath
	}

	return stemPaths, nil
}
