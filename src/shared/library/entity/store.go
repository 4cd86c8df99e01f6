package libraryentity

import (
	"context"
	"io"

	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

type Store interface {
	CreateSession(ctx context.Context, title string, stemSet stementity.StemSet) (Session, error)
	ListSessions(ctx context.Context) ([]Session, error)
	GetSession(ctx context.Context, sessionID string) (Session, stementity.StemSet, error)
	WriteBundle(ctx context.Context, sessionID string, w io.Writer) error
}
