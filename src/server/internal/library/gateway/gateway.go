package librarygateway

import (
	"fmt"
	"net/http"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/gateway"
	"github.com/veedubyou/stem-lab-be/src/server/internal/lib/request"
	libraryerrors "github.com/veedubyou/stem-lab-be/src/server/internal/library/errors"
	libraryusecase "github.com/veedubyou/stem-lab-be/src/server/internal/library/usecase"
	libraryentity "github.com/veedubyou/stem-lab-be/src/shared/library/entity"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

type CreateSessionRequest struct {
	Title string            `json:"title"`
	Model string            `json:"model"`
	Stems map[string]string `json:"stems"`
}

type ListSessionsResponse struct {
	Items []libraryentity.Session `json:"items"`
}

type SessionDetailResponse struct {
	libraryentity.Session
	StemData map[string]string `json:"stem_data"`
}

type Gateway struct {
	usecase libraryusecase.Usecase
}

func NewGateway(usecase libraryusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) CreateSession(c echo.Context) error {
	ctx := request.Context(c)

	createRequest := CreateSessionRequest{}
	err := c.Bind(&createRequest)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to session creation object")
		apiErr := api.CommitError(err,
			libraryerrors.BadStemDataCode,
			"The session data received was malformed")
		return gateway.ErrorResponse(c, apiErr)
	}

	session, apiErr := g.usecase.CreateSession(ctx, createRequest.Title, createRequest.Model, createRequest.Stems)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to create the session")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusCreated, session)
}

func (g Gateway) ListSessions(c echo.Context) error {
	ctx := request.Context(c)

	sessions, apiErr := g.usecase.ListSessions(ctx)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to list the sessions")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, ListSessionsResponse{Items: sessions})
}

func (g Gateway) GetSession(c echo.Context, sessionID string) error {
	ctx := request.Context(c)

	session, stemSet, apiErr := g.usecase.GetSession(ctx, sessionID)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to get the session")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, makeSessionDetailResponse(session, stemSet))
}

func (g Gateway) GetSessionBundle(c echo.Context, sessionID string) error {
	ctx := request.Context(c)

	response := c.Response()
	response.Header().Set(echo.HeaderContentType, "application/zip")
	response.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.zip"`, sessionID))

	apiErr := g.usecase.WriteBundle(ctx, sessionID, response)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to stream the session bundle")

		// once archive bytes have gone out the status can't be taken back,
		// all that's left to do is log and cut the connection short
		if response.Committed {
			log.WithField("session_id", sessionID).
				WithError(apiErr).
				Error("Bundle streaming failed after the response was committed")
			return apiErr
		}

		// the headers above are only staged until the first write,
		// so an early failure can still produce a proper JSON error
		response.Header().Del(echo.HeaderContentDisposition)
		response.Header().Del(echo.HeaderContentType)
		return gateway.ErrorResponse(c, apiErr)
	}

	return nil
}

func makeSessionDetailResponse(session libraryentity.Session, stemSet stementity.StemSet) SessionDetailResponse {
	stemData := map[string]string{}
	for _, stem := range stemSet.Stems {
		stemData[stem.Name] = stem.EncodeDataURL()
	}

	return SessionDetailResponse{
		Session:  session,
		StemData: stemData,
	}
}
