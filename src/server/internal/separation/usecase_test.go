package separation_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/dummy"
	separationerrors "github.com/veedubyou/stem-lab-be/src/server/internal/separation/errors"
	separationusecase "github.com/veedubyou/stem-lab-be/src/server/internal/separation/usecase"
	testlib "github.com/veedubyou/stem-lab-be/src/shared/testing"
)

var _ = Describe("Separation usecase", func() {
	var (
		workingDirPath  string
		dummyEngine     *dummy.Engine
		dummyTranscoder *dummy.Transcoder
		usecase         separationusecase.Usecase

		mediaBytes  []byte
		contentType string
		modelID     string
	)

	expectNoLeftoverTempDirs := func() {
		tempEntries, err := os.ReadDir(filepath.Join(workingDirPath, "tmp"))
		Expect(err).NotTo(HaveOccurred())
		Expect(tempEntries).To(BeEmpty())
	}

	BeforeEach(func() {
		var err error
		workingDirPath, err = os.MkdirTemp("", "separation-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(workingDirPath)
		})

		dummyEngine = dummy.NewDummyEngine()
		dummyTranscoder = dummy.NewDummyTranscoder()

		usecase, err = separationusecase.NewUsecase(dummyTranscoder, dummyEngine, separationusecase.Config{
			WorkingDirPath: workingDirPath,
			Timeout:        time.Minute,
		})
		Expect(err).NotTo(HaveOccurred())

		mediaBytes = testlib.FakeWAVBytes("upload")
		contentType = "audio/wav"
		modelID = "spleeter:4stems"
	})

	Describe("Happy path with a waveform upload", func() {
		It("returns a complete stem set in model order", func() {
			stemSet, apiErr := usecase.Separate(context.Background(), mediaBytes, contentType, modelID)
			Expect(apiErr).To(BeNil())

			Expect(stemSet.ModelID).To(Equal("spleeter:4stems"))
			Expect(stemSet.Stems).To(HaveLen(4))
			Expect(stemSet.Validate()).To(Succeed())

			stemNames := []string{}
			for _, stem := range stemSet.Stems {
				stemNames = append(stemNames, stem.Name)
			}
			Expect(stemNames).To(Equal([]string{"vocals", "drums", "bass", "other"}))

			vocals, ok := stemSet.Get("vocals")
			Expect(ok).To(BeTrue())
			Expect(vocals.Data).To(Equal(append(append([]byte{}, mediaBytes...), []byte("-vocals")...)))
		})

		It("does not transcode waveform uploads", func() {
			_, apiErr := usecase.Separate(context.Background(), mediaBytes, contentType, modelID)
			Expect(apiErr).To(BeNil())
			Expect(dummyTranscoder.CallCount).To(BeZero())
		})

		It("cleans up its temp dirs", func() {
			_, apiErr := usecase.Separate(context.Background(), mediaBytes, contentType, modelID)
			Expect(apiErr).To(BeNil())
			expectNoLeftoverTempDirs()
		})
	})

	Describe("Uploads that need audio extraction", func() {
		BeforeEach(func() {
			mediaBytes = []byte("some-video-container-data")
			contentType = "video/mp4"
		})

		It("transcodes before splitting", func() {
			stemSet, apiErr := usecase.Separate(context.Background(), mediaBytes, contentType, modelID)
			Expect(apiErr).To(BeNil())
			Expect(dummyTranscoder.CallCount).To(Equal(1))

			// the dummy transcoder prefixes a RIFF header onto the source
			expectedWaveform := append([]byte("RIFF"), mediaBytes...)
			vocals, ok := stemSet.Get("vocals")
			Expect(ok).To(BeTrue())
			Expect(vocals.Data).To(Equal(append(append([]byte{}, expectedWaveform...), []byte("-vocals")...)))
		})

		It("reports unsupported media when extraction fails", func() {
			dummyTranscoder.Unavailable = true

			_, apiErr := usecase.Separate(context.Background(), mediaBytes, contentType, modelID)
			Expect(apiErr).NotTo(BeNil())
			Expect(apiErr.ErrorCode).To(Equal(separationerrors.UnsupportedMediaCode))
			Expect(dummyEngine.CallCount).To(BeZero())
			expectNoLeftoverTempDirs()
		})
	})

	Describe("Bad requests", func() {
		It("rejects an unknown model without touching any collaborator", func() {
			_, apiErr := usecase.Separate(context.Background(), mediaBytes, contentType, "spleeter:42stems")
			Expect(apiErr).NotTo(BeNil())
			Expect(apiErr.ErrorCode).To(Equal(separationerrors.InvalidModelCode))
			Expect(dummyEngine.CallCount).To(BeZero())
			Expect(dummyTranscoder.CallCount).To(BeZero())
		})

		It("rejects an empty upload", func() {
			_, apiErr := usecase.Separate(context.Background(), nil, contentType, modelID)
			Expect(apiErr).NotTo(BeNil())
			Expect(apiErr.ErrorCode).To(Equal(separationerrors.BadMediaDataCode))
			Expect(dummyEngine.CallCount).To(BeZero())
		})
	})

	Describe("Engine failures", func() {
		It("reports inference failure when the engine errors", func() {
			dummyEngine.Unavailable = true

			_, apiErr := usecase.Separate(context.Background(), mediaBytes, contentType, modelID)
			Expect(apiErr).NotTo(BeNil())
			Expect(apiErr.ErrorCode).To(Equal(separationerrors.InferenceFailedCode))
			expectNoLeftoverTempDirs()
		})

		It("reports a timeout when the engine runs too long", func() {
			dummyEngine.Delay = 10 * time.Second

			var err error
			usecase, err = separationusecase.NewUsecase(dummyTranscoder, dummyEngine, separationusecase.Config{
				WorkingDirPath: workingDirPath,
				Timeout:        50 * time.Millisecond,
			})
			Expect(err).NotTo(HaveOccurred())

			_, apiErr := usecase.Separate(context.Background(), mediaBytes, contentType, modelID)
			Expect(apiErr).NotTo(BeNil())
			Expect(apiErr.ErrorCode).To(Equal(separationerrors.SeparationTimeoutCode))
			expectNoLeftoverTempDirs()
		})
	})
})
