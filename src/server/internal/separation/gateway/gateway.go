package separationgateway

import (
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/gateway"
	"github.com/veedubyou/stem-lab-be/src/server/internal/lib/request"
	separationerrors "github.com/veedubyou/stem-lab-be/src/server/internal/separation/errors"
	separationusecase "github.com/veedubyou/stem-lab-be/src/server/internal/separation/usecase"
	stementity "github.com/veedubyou/stem-lab-be/src/shared/stem/entity"
)

const mediaFormField = "file"
const modelFormField = "model"

type SeparateResponse struct {
	Model string            `json:"model"`
	Stems map[string]string `json:"stems"`
}

type Gateway struct {
	usecase separationusecase.Usecase
}

func NewGateway(usecase separationusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) Separate(c echo.Context) error {
	ctx := request.Context(c)

	mediaBytes, contentType, apiErr := readMediaUpload(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	modelID := c.FormValue(modelFormField)
	if modelID == "" {
		modelID = stementity.DefaultModelID
	}

	stemSet, apiErr := g.usecase.Separate(ctx, mediaBytes, contentType, modelID)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to separate the uploaded media")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, makeSeparateResponse(stemSet))
}

func readMediaUpload(c echo.Context) ([]byte, string, *api.Error) {
	fileHeader, err := c.FormFile(mediaFormField)
	if err != nil {
		err = errors.Wrap(err, "Failed to read the media form field")
		return nil, "", api.CommitError(err,
			separationerrors.BadMediaDataCode,
			"The request did not contain a media file upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		err = errors.Wrap(err, "Failed to open the uploaded media file")
		return nil, "", api.CommitError(err,
			separationerrors.BadMediaDataCode,
			"The uploaded media file could not be read")
	}

	defer file.Close()

	mediaBytes, err := io.ReadAll(file)
	if err != nil {
		err = errors.Wrap(err, "Failed to read the uploaded media file")
		return nil, "", api.CommitError(err,
			separationerrors.BadMediaDataCode,
			"The uploaded media file could not be read")
	}

	return mediaBytes, fileHeader.Header.Get("Content-Type"), nil
}

func makeSeparateResponse(stemSet stementity.StemSet) SeparateResponse {
	stems := map[string]string{}
	for _, stem := range stemSet.Stems {
		stems[stem.Name] = stem.EncodeDataURL()
	}

	return SeparateResponse{
		Model: stemSet.ModelID,
		Stems: stems,
	}
}
