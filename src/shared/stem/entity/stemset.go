package stementity

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

const WAVContentType = "audio/wav"

type Stem struct {
	Name        string
	ContentType string
	Data        []byte
}

// StemSet is the all-or-nothing result of one separation job.
// Stems keeps the model's stem order so that persisted sessions
// and bundles stay deterministic.
type StemSet struct {
	ModelID string
	Stems   []Stem
}

func (s StemSet) Get(stemName string) (Stem, bool) {
	for _, stem := range s.Stems {
		if stem.Name == stemName {
			return stem, true
		}
	}

	return Stem{}, false
}

// Validate enforces the full-set invariant: every stem the model names
// must be present with non-empty data.
func (s StemSet) Validate() error {
	model, err := LookupModel(s.ModelID)
	if err != nil {
		return errors.Wrap(err, "Stem set has an unrecognized model")
	}

	if len(s.Stems) != len(model.StemNames) {
		return errors.Errorf("Expected %d stems for model %s but have %d",
			len(model.StemNames), s.ModelID, len(s.Stems))
	}

	for _, stemName := range model.StemNames {
		stem, ok := s.Get(stemName)
		if !ok {
			return errors.Errorf("Stem %s is missing from the set", stemName)
		}

		if len(stem.Data) == 0 {
			return errors.Errorf("Stem %s has no audio data", stemName)
		}
	}

	return nil
}

// EncodeDataURL renders a stem the way the frontend consumes it:
// data:<content type>;base64,<payload>.
func (s Stem) EncodeDataURL() string {
	encoded := base64.StdEncoding.EncodeToString(s.Data)
	return fmt.Sprintf("data:%s;base64,%s", s.ContentType, encoded)
}

// DecodeDataURL accepts both full data URLs and bare base64 payloads,
// matching what clients historically sent.
func DecodeDataURL(value string) (contentType string, data []byte, err error) {
	value = strings.TrimSpace(value)
	contentType = WAVContentType

	if strings.HasPrefix(value, "data:") {
		header, base64Part, found := strings.Cut(value, ",")
		if !found {
			return "", nil, errors.New("Data URL has no payload separator")
		}

		if !strings.Contains(header, ";base64") {
			return "", nil, errors.New("Data URL is not base64 encoded")
		}

		headerType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		if headerType != "" {
			contentType = headerType
		}

		value = base64Part
	}

	data, err = base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", nil, errors.Wrap(err, "Failed to decode base64 payload")
	}

	return contentType, data, nil
}
