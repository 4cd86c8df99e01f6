package stementity

import (
	"github.com/cockroachdb/errors"
)

const DefaultModelID = "spleeter:4stems"

// Model selects a separation configuration and pins down the exact
// stem names that configuration produces. The stem list is fixed per
// model: a result missing any of these names is treated as a failed job.
type Model struct {
	ID          string
	EngineParam string
	StemNames   []string
}

var modelRegistry = map[string]Model{
	"spleeter:2stems": {
		ID:          "spleeter:2stems",
		EngineParam: "spleeter:2stems-16kHz",
		StemNames:   []string{"vocals", "accompaniment"},
	},
	"spleeter:4stems": {
		ID:          "spleeter:4stems",
		EngineParam: "spleeter:4stems-16kHz",
		StemNames:   []string{"vocals", "drums", "bass", "other"},
	},
	"spleeter:5stems": {
		ID:          "spleeter:5stems",
		EngineParam: "spleeter:5stems-16kHz",
		StemNames:   []string{"vocals", "drums", "bass", "piano", "other"},
	},
}

func LookupModel(modelID string) (Model, error) {
	model, ok := modelRegistry[modelID]
	if !ok {
		return Model{}, errors.Errorf("Model ID %s is not in the allow list", modelID)
	}

	return model, nil
}

// InferModelForStems finds the model whose stem list matches the given
// names exactly, regardless of order. Stem name sets are distinct
// across models so at most one can match.
func InferModelForStems(stemNames []string) (Model, error) {
	for _, model := range modelRegistry {
		if sameStemNames(model.StemNames, stemNames) {
			return model, nil
		}
	}

	return Model{}, errors.Errorf("No model produces this set of stems: %v", stemNames)
}

func sameStemNames(modelStems []string, stemNames []string) bool {
	if len(modelStems) != len(stemNames) {
		return false
	}

	nameSet := make(map[string]bool, len(stemNames))
	for _, name := range stemNames {
		nameSet[name] = true
	}

	for _, name := range modelStems {
		if !nameSet[name] {
			return false
		}
	}

	return true
}

func AllModelIDs() []string {
	ids := make([]string, 0, len(modelRegistry))
	for id := range modelRegistry {
		ids = append(ids, id)
	}

	return ids
}
