package librarystorage_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/stem-lab-be/src/shared/config"
	librarystorage "github.com/veedubyou/stem-lab-be/src/shared/library/storage"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
	testlib "github.com/veedubyou/stem-lab-be/src/shared/testing"
)

var _ = Describe("WriteBundle", func() {
	var (
		rootPath string
		store    librarystorage.DiskStore
		stemSet  stementity.StemSet
	)

	BeforeEach(func() {
		var err error
		rootPath, err = os.MkdirTemp("", "library-bundle-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(rootPath)
		})

		store, err = librarystorage.NewDiskStore(config.Library{RootPath: rootPath})
		Expect(err).NotTo(HaveOccurred())

		stemSet = testlib.MakeStemSet("spleeter:2stems")
	})

	It("produces a zip with one entry per stem", func() {
		created, err := store.CreateSession(context.Background(), "Bundled", stemSet)
		Expect(err).NotTo(HaveOccurred())

		buf := &bytes.Buffer{}
		Expect(store.WriteBundle(context.Background(), created.ID, buf)).To(Succeed())

		zipReader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		Expect(err).NotTo(HaveOccurred())
		Expect(zipReader.File).To(HaveLen(2))

		entryContents := map[string][]byte{}
		for _, entry := range zipReader.File {
			entryFile, err := entry.Open()
			Expect(err).NotTo(HaveOccurred())

			contents, err := io.ReadAll(entryFile)
			Expect(err).NotTo(HaveOccurred())
			Expect(entryFile.Close()).To(Succeed())

			entryContents[entry.Name] = contents
		}

		vocals, _ := stemSet.Get("vocals")
		accompaniment, _ := stemSet.Get("accompaniment")
		Expect(entryContents).To(HaveKeyWithValue("vocals.wav", vocals.Data))
		Expect(entryContents).To(HaveKeyWithValue("accompaniment.wav", accompaniment.Data))
	})

	It("does not include the metadata record in the bundle", func() {
		created, err := store.CreateSession(context.Background(), "Bundled", stemSet)
		Expect(err).NotTo(HaveOccurred())

		buf := &bytes.Buffer{}
		Expect(store.WriteBundle(context.Background(), created.ID, buf)).To(Succeed())

		zipReader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		Expect(err).NotTo(HaveOccurred())

		for _, entry := range zipReader.File {
			Expect(entry.Name).NotTo(Equal("meta.json"))
		}
	})

	It("reports a session with a missing stem file as not found", func() {
		created, err := store.CreateSession(context.Background(), "Damaged", stemSet)
		Expect(err).NotTo(HaveOccurred())

		Expect(os.Remove(filepath.Join(rootPath, created.ID, "vocals.wav"))).To(Succeed())

		buf := &bytes.Buffer{}
		err = store.WriteBundle(context.Background(), created.ID, buf)
		Expect(err).To(HaveOccurred())
		Expect(markers.Is(err, librarystorage.SessionNotFoundMark)).To(BeTrue())
	})

	It("fails without writing anything for an unknown session", func() {
		buf := &bytes.Buffer{}
		err := store.WriteBundle(context.Background(), "no-such-session", buf)

		Expect(err).To(HaveOccurred())
		Expect(markers.Is(err, librarystorage.SessionNotFoundMark)).To(BeTrue())
		Expect(buf.Len()).To(BeZero())
	})

	It("stops streaming when the context is cancelled", func() {
		created, err := store.CreateSession(context.Background(), "Bundled", stemSet)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		buf := &bytes.Buffer{}
		err = store.WriteBundle(ctx, created.ID, buf)
		Expect(err).To(HaveOccurred())
	})
})
