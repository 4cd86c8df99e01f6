package librarystorage_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/stem-lab-be/src/shared/config"
	libraryentity "github.com/veedubyou/stem-lab-be/src/shared/library/entity"
	librarystorage "github.com/veedubyou/stem-lab-be/src/shared/library/storage"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
	testlib "github.com/veedubyou/stem-lab-be/src/shared/testing"
)

var _ = Describe("DiskStore", func() {
	var (
		rootPath string
		store    librarystorage.DiskStore
		stemSet  stementity.StemSet
	)

	BeforeEach(func() {
		var err error
		rootPath, err = os.MkdirTemp("", "library-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(rootPath)
		})

		store, err = librarystorage.NewDiskStore(config.Library{RootPath: rootPath})
		Expect(err).NotTo(HaveOccurred())

		stemSet = testlib.MakeStemSet("spleeter:4stems")
	})

	Describe("CreateSession", func() {
		It("round trips the session through GetSession", func() {
			created, err := store.CreateSession(context.Background(), "My Song", stemSet)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeEmpty())
			Expect(created.Title).To(Equal("My Song"))
			Expect(created.Model).To(Equal("spleeter:4stems"))
			Expect(created.Bundle).To(Equal(libraryentity.BundlePath(created.ID)))

			fetched, fetchedStems, err := store.GetSession(context.Background(), created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.ID).To(Equal(created.ID))
			Expect(fetched.Title).To(Equal("My Song"))
			Expect(fetchedStems.ModelID).To(Equal("spleeter:4stems"))
			Expect(fetchedStems.Stems).To(HaveLen(4))

			for i, stem := range stemSet.Stems {
				Expect(fetchedStems.Stems[i].Name).To(Equal(stem.Name))
				Expect(fetchedStems.Stems[i].Data).To(Equal(stem.Data))
			}
		})

		It("defaults the title when none is given", func() {
			created, err := store.CreateSession(context.Background(), "", stemSet)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Title).To(Equal(libraryentity.DefaultTitle))
		})

		It("keeps the stems in model order", func() {
			created, err := store.CreateSession(context.Background(), "Ordered", stemSet)
			Expect(err).NotTo(HaveOccurred())

			stemNames := []string{}
			for _, entry := range created.Stems {
				stemNames = append(stemNames, entry.Name)
			}

			Expect(stemNames).To(Equal([]string{"vocals", "drums", "bass", "other"}))
		})

		It("creates a new session every time the same stems are saved", func() {
			first, err := store.CreateSession(context.Background(), "Take 1", stemSet)
			Expect(err).NotTo(HaveOccurred())

			second, err := store.CreateSession(context.Background(), "Take 2", stemSet)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.ID).NotTo(Equal(first.ID))

			sessions, err := store.ListSessions(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(2))
		})

		It("rejects an incomplete stem set", func() {
			stemSet.Stems = stemSet.Stems[:2]

			_, err := store.CreateSession(context.Background(), "Broken", stemSet)
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, librarystorage.BadStemDataMark)).To(BeTrue())
		})

		It("rejects a stem set with an unknown model", func() {
			stemSet.ModelID = "spleeter:42stems"

			_, err := store.CreateSession(context.Background(), "Broken", stemSet)
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, librarystorage.BadStemDataMark)).To(BeTrue())
		})
	})

	Describe("ListSessions", func() {
		It("returns an empty list for an empty library", func() {
			sessions, err := store.ListSessions(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(BeEmpty())
		})

		It("lists newest sessions first", func() {
			first, err := store.CreateSession(context.Background(), "First", stemSet)
			Expect(err).NotTo(HaveOccurred())

			// session timestamps come from the wall clock
			time.Sleep(10 * time.Millisecond)

			second, err := store.CreateSession(context.Background(), "Second", stemSet)
			Expect(err).NotTo(HaveOccurred())

			sessions, err := store.ListSessions(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(2))
			Expect(sessions[0].ID).To(Equal(second.ID))
			Expect(sessions[1].ID).To(Equal(first.ID))
		})

		It("does not list sessions that are still staged", func() {
			stagedPath := filepath.Join(rootPath, ".staging", "half-written-session")
			Expect(os.MkdirAll(stagedPath, os.ModePerm)).To(Succeed())

			sessions, err := store.ListSessions(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(BeEmpty())
		})

		It("skips directories without a metadata record", func() {
			strayPath := filepath.Join(rootPath, "not-a-session")
			Expect(os.MkdirAll(strayPath, os.ModePerm)).To(Succeed())

			created, err := store.CreateSession(context.Background(), "Real", stemSet)
			Expect(err).NotTo(HaveOccurred())

			sessions, err := store.ListSessions(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(1))
			Expect(sessions[0].ID).To(Equal(created.ID))
		})
	})

	Describe("Concurrent publishing", func() {
		It("never exposes a session with fewer stems than it will have", func() {
			const sessionCount = 8

			var writers sync.WaitGroup
			writers.Add(sessionCount)

			for i := 0; i < sessionCount; i++ {
				go func() {
					defer GinkgoRecover()
					defer writers.Done()

					_, err := store.CreateSession(context.Background(), "Concurrent", stemSet)
					Expect(err).NotTo(HaveOccurred())
				}()
			}

			writersDone := make(chan struct{})
			go func() {
				writers.Wait()
				close(writersDone)
			}()

			// every session a reader can see must already be complete,
			// no matter how the reads interleave with the writers
			observeCompleteSessions := func() {
				sessions, err := store.ListSessions(context.Background())
				Expect(err).NotTo(HaveOccurred())

				for _, session := range sessions {
					Expect(session.Stems).To(HaveLen(4))

					_, fetchedStems, err := store.GetSession(context.Background(), session.ID)
					Expect(err).NotTo(HaveOccurred())
					Expect(fetchedStems.Validate()).To(Succeed())
				}
			}

			for {
				select {
				case <-writersDone:
					observeCompleteSessions()

					sessions, err := store.ListSessions(context.Background())
					Expect(err).NotTo(HaveOccurred())
					Expect(sessions).To(HaveLen(sessionCount))
					return
				default:
					observeCompleteSessions()
				}
			}
		})
	})

	Describe("GetSession", func() {
		It("reports a missing session as not found", func() {
			_, _, err := store.GetSession(context.Background(), "no-such-session")
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, librarystorage.SessionNotFoundMark)).To(BeTrue())
		})

		It("reports a session with a missing stem file as not found", func() {
			created, err := store.CreateSession(context.Background(), "Damaged", stemSet)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.Remove(filepath.Join(rootPath, created.ID, "vocals.wav"))).To(Succeed())

			_, _, err = store.GetSession(context.Background(), created.ID)
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, librarystorage.SessionNotFoundMark)).To(BeTrue())
		})
	})
})
