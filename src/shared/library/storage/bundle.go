package librarystorage

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/errors/mark"
)

// WriteBundle streams a zip of the session's stems into w, one file at
// a time so memory stays bounded by a copy buffer rather than the whole
// session. A failure after the first entry leaves the caller with a
// truncated stream, which it must treat as a failed download.
func (d DiskStore) WriteBundle(ctx context.Context, sessionID string, w io.Writer) error {
	session, err := d.readMeta(sessionID)
	if err != nil {
		return errors.Wrap(err, "Can't bundle a session without its metadata")
	}

	zipWriter := zip.NewWriter(w)

	for _, stemEntry := range session.Stems {
		if err := ctx.Err(); err != nil {
			return mark.Wrap(err, DefaultErrorMark, "Bundle streaming was cancelled")
		}

		if err := d.writeBundleEntry(zipWriter, sessionID, stemEntry.FileName); err != nil {
			return errors.Wrap(err, "Failed to stream a stem into the bundle")
		}
	}

	if err := zipWriter.Close(); err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to finalize the bundle archive")
	}

	return nil
}

func (d DiskStore) writeBundleEntry(zipWriter *zip.Writer, sessionID string, fileName string) error {
	stemFile, err := os.Open(filepath.Join(d.sessionPath(sessionID), fileName))
	if err != nil {
		// a session missing one of its stem files was never fully
		// published, the same not found condition GetSession reports
		if os.IsNotExist(err) {
			return mark.Wrap(err, SessionNotFoundMark, "Session is missing a stem file")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to open the stem file")
	}

	defer stemFile.Close()

	entryWriter, err := zipWriter.Create(fileName)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to create the bundle entry")
	}

	if _, err := io.Copy(entryWriter, stemFile); err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to copy the stem file into the bundle")
	}

	return nil
}
