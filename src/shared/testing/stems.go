package testing

import (
	. "github.com/onsi/gomega"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

// FakeWAVBytes produces a payload that passes waveform sniffing
// without being real audio.
func FakeWAVBytes(seed string) []byte {
	return []byte("RIFF-fake-wav-" + seed)
}

func MakeStemSet(modelID string) stementity.StemSet {
	model := ExpectSuccess(stementity.LookupModel(modelID))

	stemSet := stementity.StemSet{ModelID: model.ID}
	for _, stemName := range model.StemNames {
		stemSet.Stems = append(stemSet.Stems, stementity.Stem{
			Name:        stemName,
			ContentType: stementity.WAVContentType,
			Data:        FakeWAVBytes(stemName),
		})
	}

	ExpectWithOffset(1, stemSet.Validate()).To(Succeed())
	return stemSet
}

func StemDataURLs(stemSet stementity.StemSet) map[string]string {
	dataURLs := map[string]string{}
	for _, stem := range stemSet.Stems {
		dataURLs[stem.Name] = stem.EncodeDataURL()
	}

	return dataURLs
}
