package separation_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/dummy"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/engine"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

var _ = Describe("SpleeterEngine", func() {
	var (
		workingDirPath string
		sourcePath     string
		stemOutputDir  string
		sourceData     []byte

		dummyExecutor  *dummy.SpleeterExecutor
		spleeterEngine engine.SpleeterEngine
		model          stementity.Model
	)

	BeforeEach(func() {
		var err error
		workingDirPath, err = os.MkdirTemp("", "spleeter-engine-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(workingDirPath)
		})

		sourceData = []byte("cool_jamz")
		sourcePath = filepath.Join(workingDirPath, "input.wav")
		Expect(os.WriteFile(sourcePath, sourceData, 0o644)).To(Succeed())

		stemOutputDir = filepath.Join(workingDirPath, "stems")

		dummyExecutor = dummy.NewDummySpleeterExecutor()
		spleeterEngine, err = engine.NewSpleeterEngine(workingDirPath, "/somewhere/spleeter", dummyExecutor)
		Expect(err).NotTo(HaveOccurred())

		model, err = stementity.LookupModel("spleeter:4stems")
		Expect(err).NotTo(HaveOccurred())
	})

	It("collects one output path per stem", func() {
		stemPaths, err := spleeterEngine.SplitFile(context.Background(), sourcePath, stemOutputDir, model)
		Expect(err).NotTo(HaveOccurred())
		Expect(stemPaths).To(HaveLen(4))

		for _, stemName := range model.StemNames {
			stemPath, ok := stemPaths[stemName]
			Expect(ok).To(BeTrue())

			stemData, err := os.ReadFile(stemPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(stemData).To(Equal(append(append([]byte{}, sourceData...), []byte("-"+stemName)...)))
		}
	})

	It("fails when the binary errors", func() {
		dummyExecutor.Unavailable = true

		_, err := spleeterEngine.SplitFile(context.Background(), sourcePath, stemOutputDir, model)
		Expect(err).To(HaveOccurred())
	})

	It("halts before running if the context is already cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := spleeterEngine.SplitFile(ctx, sourcePath, stemOutputDir, model)
		Expect(err).To(HaveOccurred())
	})
})
