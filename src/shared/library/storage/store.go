package librarystorage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/veedubyou/stem-lab-be/src/shared/config"
	libraryentity "github.com/veedubyou/stem-lab-be/src/shared/library/entity"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/errors/mark"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

const (
	metaFileName   = "meta.json"
	stagingDirName = ".staging"
)

var stemFileExtensions = map[string]string{
	"audio/wav":  "wav",
	"audio/wave": "wav",
	"audio/mpeg": "mp3",
}

var _ libraryentity.Store = DiskStore{}

// DiskStore keeps one directory per session under the library root.
// A session is written in full under <root>/.staging/<id> and then
// published with a single rename, so readers either see a complete
// session directory or none at all. No in-process locking is needed.
type DiskStore struct {
	rootPath string
}

func NewDiskStore(libraryConfig config.Library) (DiskStore, error) {
	rootPath, err := filepath.Abs(libraryConfig.RootPath)
	if err != nil {
		return DiskStore{}, errors.Wrap(err, "Failed to convert library root to absolute format")
	}

	if err := os.MkdirAll(filepath.Join(rootPath, stagingDirName), os.ModePerm); err != nil {
		return DiskStore{}, errors.Wrap(err, "Failed to create the library root dir")
	}

	return DiskStore{rootPath: rootPath}, nil
}

func (d DiskStore) CreateSession(ctx context.Context, title string, stemSet stementity.StemSet) (libraryentity.Session, error) {
	if err := stemSet.Validate(); err != nil {
		return libraryentity.Session{}, mark.Wrap(err, BadStemDataMark, "Refusing to persist an incomplete stem set")
	}

	if title == "" {
		title = libraryentity.DefaultTitle
	}

	sessionID := newSessionID()
	stagingPath := filepath.Join(d.rootPath, stagingDirName, sessionID)

	if err := os.MkdirAll(stagingPath, os.ModePerm); err != nil {
		return libraryentity.Session{}, mark.Wrap(err, DefaultErrorMark, "Failed to create the session staging dir")
	}

	session, err := d.writeSessionContents(stagingPath, sessionID, title, stemSet)
	if err != nil {
		_ = os.RemoveAll(stagingPath)
		return libraryentity.Session{}, errors.Wrap(err, "Failed to write out the session contents")
	}

	// the one atomic publish step - before this, the session is
	// invisible to every reader; after it, it's complete
	if err := os.Rename(stagingPath, d.sessionPath(sessionID)); err != nil {
		_ = os.RemoveAll(stagingPath)
		return libraryentity.Session{}, mark.Wrap(err, DefaultErrorMark, "Failed to publish the session dir")
	}

	log.WithField("session_id", sessionID).Info("Published new library session")

	return session, nil
}

func (d DiskStore) ListSessions(ctx context.Context) ([]libraryentity.Session, error) {
	dirEntries, err := os.ReadDir(d.rootPath)
	if err != nil {
		return nil, mark.Wrap(err, DefaultErrorMark, "Failed to read the library root dir")
	}

	sessions := []libraryentity.Session{}

	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() || dirEntry.Name() == stagingDirName {
			continue
		}

		session, err := d.readMeta(dirEntry.Name())
		if err != nil {
			// a session dir without a readable meta record was never
			// fully published - skip it rather than fail the listing
			log.WithField("session_dir", dirEntry.Name()).
				Warn("Skipping session dir with unreadable metadata")
			continue
		}

		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
		}

		return sessions[i].ID > sessions[j].ID
	})

	return sessions, nil
}

func (d DiskStore) GetSession(ctx context.Context, sessionID string) (libraryentity.Session, stementity.StemSet, error) {
	session, err := d.readMeta(sessionID)
	if err != nil {
		return libraryentity.Session{}, stementity.StemSet{},
			errors.Wrap(err, "Failed to read the session metadata")
	}

	stemSet := stementity.StemSet{ModelID: session.Model, Stems: nil}

	for _, stemEntry := range session.Stems {
		stemPath := filepath.Join(d.sessionPath(sessionID), stemEntry.FileName)
		data, err := os.ReadFile(stemPath)
		if err != nil {
			if os.IsNotExist(err) {
				return libraryentity.Session{}, stementity.StemSet{},
					mark.Wrap(err, SessionNotFoundMark, "Session is missing a stem file")
			}

			return libraryentity.Session{}, stementity.StemSet{},
				mark.Wrap(err, DefaultErrorMark, "Failed to read a session stem file")
		}

		stemSet.Stems = append(stemSet.Stems, stementity.Stem{
			Name:        stemEntry.Name,
			ContentType: stemEntry.ContentType,
			Data:        data,
		})
	}

	return session, stemSet, nil
}

func (d DiskStore) sessionPath(sessionID string) string {
	return filepath.Join(d.rootPath, sessionID)
}

func (d DiskStore) readMeta(sessionID string) (libraryentity.Session, error) {
	metaPath := filepath.Join(d.sessionPath(sessionID), metaFileName)

	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return libraryentity.Session{}, mark.Wrap(err, SessionNotFoundMark, "Session does not exist")
		}

		return libraryentity.Session{}, mark.Wrap(err, DefaultErrorMark, "Failed to read the session metadata record")
	}

	session := libraryentity.Session{}
	if err := json.Unmarshal(metaBytes, &session); err != nil {
		return libraryentity.Session{}, mark.Wrap(err, DefaultErrorMark, "Failed to unmarshal the session metadata record")
	}

	return session, nil
}

func (d DiskStore) writeSessionContents(dirPath string, sessionID string, title string, stemSet stementity.StemSet) (libraryentity.Session, error) {
	session := libraryentity.Session{
		ID:        sessionID,
		Title:     title,
		Model:     stemSet.ModelID,
		CreatedAt: time.Now().UTC(),
		Stems:     nil,
		Bundle:    libraryentity.BundlePath(sessionID),
	}

	for _, stem := range stemSet.Stems {
		fileName := stem.Name + "." + stemFileExtension(stem.ContentType)

		if err := os.WriteFile(filepath.Join(dirPath, fileName), stem.Data, 0o644); err != nil {
			return libraryentity.Session{}, mark.Wrap(err, DefaultErrorMark, "Failed to write a stem file")
		}

		session.Stems = append(session.Stems, libraryentity.StemEntry{
			Name:        stem.Name,
			FileName:    fileName,
			Size:        int64(len(stem.Data)),
			ContentType: stem.ContentType,
		})
	}

	metaBytes, err := json.Marshal(session)
	if err != nil {
		return libraryentity.Session{}, mark.Wrap(err, DefaultErrorMark, "Failed to marshal the session metadata record")
	}

	if err := os.WriteFile(filepath.Join(dirPath, metaFileName), metaBytes, 0o644); err != nil {
		return libraryentity.Session{}, mark.Wrap(err, DefaultErrorMark, "Failed to write the session metadata record")
	}

	return session, nil
}

func stemFileExtension(contentType string) string {
	if ext, ok := stemFileExtensions[contentType]; ok {
		return ext
	}

	return "wav"
}

func newSessionID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
