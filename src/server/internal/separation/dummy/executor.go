package dummy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/executor"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

var _ executor.Executor = &SpleeterExecutor{}

func NewDummySpleeterExecutor() *SpleeterExecutor {
	return &SpleeterExecutor{}
}

// SpleeterExecutor mimics the spleeter CLI contract: it parses the
// args the engine would pass to the real binary and writes one wav
// file per stem to the output dir.
type SpleeterExecutor struct {
	Unavailable bool
}

func (s *SpleeterExecutor) Command(ctx context.Context, name string, arg ...string) executor.Command {
	return &spleeterCommand{
		ctx:         ctx,
		args:        arg,
		unavailable: s.Unavailable,
	}
}

type spleeterCommand struct {
	ctx         context.Context
	args        []string
	dir         string
	unavailable bool
}

func (s *spleeterCommand) SetDir(dir string) {
	s.dir = dir
}

func (s *spleeterCommand) CombinedOutput() ([]byte, error) {
	if s.unavailable {
		return []byte("spleeter blew up"), errors.New("exit status 1")
	}

	if err := s.ctx.Err(); err != nil {
		return nil, err
	}

	engineParam, destPath, sourcePath, err := parseSpleeterArgs(s.args)
	if err != nil {
		return nil, err
	}

	model, err := modelForEngineParam(engineParam)
	if err != nil {
		return nil, err
	}

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return []byte("source file missing"), err
	}

	if err := os.MkdirAll(destPath, 0o755); err != nil {
		return nil, err
	}

	for _, stemName := range model.StemNames {
		stemData := append(append([]byte{}, sourceData...), []byte("-"+stemName)...)
		stemPath := filepath.Join(destPath, stemName+".wav")
		if err := os.WriteFile(stemPath, stemData, 0o644); err != nil {
			return nil, err
		}
	}

	return []byte("split ok"), nil
}

func parseSpleeterArgs(args []string) (engineParam string, destPath string, sourcePath string, err error) {
	if len(args) == 0 || args[0] != "separate" {
		return "", "", "", errors.New("Expected a separate subcommand")
	}

	for i := 1; i < len(args)-1; i++ {
		switch args[i] {
		case "-p":
			engineParam = args[i+1]
		case "-o":
			destPath = args[i+1]
		}
	}

	sourcePath = args[len(args)-1]

	if engineParam == "" || destPath == "" || sourcePath == "" {
		return "", "", "", errors.New("Missing expected spleeter args")
	}

	return engineParam, destPath, sourcePath, nil
}

func modelForEngineParam(engineParam string) (stementity.Model, error) {
	for _, modelID := range stementity.AllModelIDs() {
		model, err := stementity.LookupModel(modelID)
		if err != nil {
			return stementity.Model{}, err
		}

		if model.EngineParam == engineParam {
			return model, nil
		}
	}

	return stementity.Model{}, errors.Errorf("No model matches engine param %s", engineParam)
}
