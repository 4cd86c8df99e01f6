package gateway

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-lab-be/src/server/api_error"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/auth"
	libraryerrors "github.com/veedubyou/stem-lab-be/src/server/internal/library/errors"
	separationerrors "github.com/veedubyou/stem-lab-be/src/server/internal/separation/errors"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:                    http.StatusInternalServerError,
	auth.BadAuthDataCode:                    http.StatusBadRequest,
	auth.CodeNotRequestedCode:               http.StatusBadRequest,
	auth.CodeExpiredCode:                    http.StatusBadRequest,
	auth.InvalidCodeCode:                    http.StatusBadRequest,
	separationerrors.InvalidModelCode:       http.StatusBadRequest,
	separationerrors.BadMediaDataCode:       http.StatusBadRequest,
	separationerrors.UnsupportedMediaCode:   http.StatusBadRequest,
	separationerrors.SeparationTimeoutCode:  http.StatusGatewayTimeout,
	separationerrors.InferenceFailedCode:    http.StatusInternalServerError,
	libraryerrors.SessionNotFoundCode:       http.StatusNotFound,
	libraryerrors.BadStemDataCode:           http.StatusBadRequest,
	libraryerrors.StorageFailureCode:        http.StatusInternalServerError,
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	return c.JSON(statusCode, api_error.JSONAPIError{
		Code:         string(err.ErrorCode),
		Msg:          err.UserMessage,
		ErrorDetails: err.Error(),
	})
}
