package libraryentity

import (
	"fmt"
	"time"
)

const DefaultTitle = "Session"

type StemEntry struct {
	Name        string `json:"name"`
	FileName    string `json:"file_name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Session is the durable record of one persisted stem set.
// It is immutable once published: re-saving the same stems makes
// a new session with a new ID.
type Session struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Model     string      `json:"model"`
	CreatedAt time.Time   `json:"created_at"`
	Stems     []StemEntry `json:"stems"`
	Bundle    string      `json:"bundle"`
}

func BundlePath(sessionID string) string {
	return fmt.Sprintf("/api/library/%s/bundle", sessionID)
}
