package libraryusecase

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"
	libraryerrors "github.com/veedubyou/stem-lab-be/src/server/internal/library/errors"
	libraryentity "github.com/veedubyou/stem-lab-be/src/shared/library/entity"
	librarystorage "github.com/veedubyou/stem-lab-be/src/shared/library/storage"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

type Usecase struct {
	db libraryentity.Store
}

func NewUsecase(db libraryentity.Store) Usecase {
	return Usecase{
		db: db,
	}
}

// CreateSession persists one set of stems as a new library session.
// The stems arrive as data URLs keyed by stem name. If no model ID is
// given, the model is inferred from the stem names - the caller must
// have provided the complete output of some known model either way.
func (u Usecase) CreateSession(ctx context.Context, title string, modelID string, stems map[string]string) (libraryentity.Session, *api.Error) {
	stemSet, apiErr := assembleStemSet(modelID, stems)
	if apiErr != nil {
		return libraryentity.Session{}, api.WrapError(apiErr, "Failed to assemble the stem set from the request")
	}

	session, err := u.db.CreateSession(ctx, title, stemSet)
	if err != nil {
		err = errors.Wrap(err, "Failed to create session in the library")
		switch {
		case markers.Is(err, librarystorage.BadStemDataMark):
			return libraryentity.Session{}, api.CommitError(err,
				libraryerrors.BadStemDataCode,
				"The stem data provided does not form a complete set")
		case markers.Is(err, librarystorage.DefaultErrorMark):
			fallthrough
		default:
			return libraryentity.Session{}, api.CommitError(err,
				libraryerrors.StorageFailureCode,
				"Failed to save the session to the library")
		}
	}

	return session, nil
}

func (u Usecase) ListSessions(ctx context.Context) ([]libraryentity.Session, *api.Error) {
	sessions, err := u.db.ListSessions(ctx)
	if err != nil {
		err = errors.Wrap(err, "Failed to list library sessions")
		return nil, api.CommitError(err,
			libraryerrors.StorageFailureCode,
			"Failed to read the session library")
	}

	return sessions, nil
}

func (u Usecase) GetSession(ctx context.Context, sessionID string) (libraryentity.Session, stementity.StemSet, *api.Error) {
	session, stemSet, err := u.db.GetSession(ctx, sessionID)
	if err != nil {
		err = errors.Wrap(err, "Failed to get session from the library")
		switch {
		case markers.Is(err, librarystorage.SessionNotFoundMark):
			return libraryentity.Session{}, stementity.StemSet{}, api.CommitError(err,
				libraryerrors.SessionNotFoundCode,
				"This session doesn't exist in the library")
		case markers.Is(err, librarystorage.DefaultErrorMark):
			fallthrough
		default:
			return libraryentity.Session{}, stementity.StemSet{}, api.CommitError(err,
				libraryerrors.StorageFailureCode,
				"Failed to load the session from the library")
		}
	}

	return session, stemSet, nil
}

// WriteBundle streams the session's stems as a zip archive. The store
// resolves the session before any archive bytes are written, so a not
// found error here still arrives on an uncommitted response.
func (u Usecase) WriteBundle(ctx context.Context, sessionID string, w io.Writer) *api.Error {
	err := u.db.WriteBundle(ctx, sessionID, w)
	if err != nil {
		err = errors.Wrap(err, "Failed to write the session bundle")
		switch {
		case markers.Is(err, librarystorage.SessionNotFoundMark):
			return api.CommitError(err,
				libraryerrors.SessionNotFoundCode,
				"This session doesn't exist in the library")
		case markers.Is(err, librarystorage.DefaultErrorMark):
			fallthrough
		default:
			return api.CommitError(err,
				libraryerrors.StorageFailureCode,
				"Failed to bundle the session stems")
		}
	}

	return nil
}

func assembleStemSet(modelID string, stems map[string]string) (stementity.StemSet, *api.Error) {
	model, apiErr := resolveModel(modelID, stems)
	if apiErr != nil {
		return stementity.StemSet{}, apiErr
	}

	stemSet := stementity.StemSet{ModelID: model.ID}

	for _, stemName := range model.StemNames {
		encodedData, ok := stems[stemName]
		if !ok {
			return stementity.StemSet{}, api.CommitError(
				errors.Errorf("The %s stem is missing for model %s", stemName, model.ID),
				libraryerrors.BadStemDataCode,
				"The stem data provided does not form a complete set")
		}

		contentType, data, err := stementity.DecodeDataURL(encodedData)
		if err != nil {
			return stementity.StemSet{}, api.CommitError(
				errors.Wrapf(err, "Failed to decode the %s stem data", stemName),
				libraryerrors.BadStemDataCode,
				"The stem audio data could not be decoded")
		}

		stemSet.Stems = append(stemSet.Stems, stementity.Stem{
			Name:        stemName,
			ContentType: contentType,
			Data:        data,
		})
	}

	return stemSet, nil
}

func resolveModel(modelID string, stems map[string]string) (stementity.Model, *api.Error) {
	if modelID != "" {
		model, err := stementity.LookupModel(modelID)
		if err != nil {
			return stementity.Model{}, api.CommitError(err,
				libraryerrors.BadStemDataCode,
				"The session names a separation model that is not recognized")
		}

		return model, nil
	}

	stemNames := make([]string, 0, len(stems))
	for stemName := range stems {
		stemNames = append(stemNames, stemName)
	}

	model, err := stementity.InferModelForStems(stemNames)
	if err != nil {
		return stementity.Model{}, api.CommitError(err,
			libraryerrors.BadStemDataCode,
			"The stems provided don't match any known separation model")
	}

	return model, nil
}
