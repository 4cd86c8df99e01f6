package accountgateway

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	accountusecase "github.com/veedubyou/stem-lab-be/src/server/internal/account/usecase"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/auth"
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/gateway"
	"github.com/veedubyou/stem-lab-be/src/server/internal/lib/request"
)

type RequestCodeRequest struct {
	Email string `json:"email"`
}

type RequestCodeResponse struct {
	OK bool `json:"ok"`
}

type VerifyRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type Gateway struct {
	usecase *accountusecase.Usecase
}

func NewGateway(usecase *accountusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) RequestCode(c echo.Context) error {
	ctx := request.Context(c)

	codeRequest := RequestCodeRequest{}
	err := c.Bind(&codeRequest)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to code request object")
		apiErr := api.CommitError(err,
			auth.BadAuthDataCode,
			"The code request received was malformed")
		return gateway.ErrorResponse(c, apiErr)
	}

	apiErr := g.usecase.RequestCode(ctx, codeRequest.Email)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to request a verification code")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, RequestCodeResponse{OK: true})
}

func (g Gateway) Verify(c echo.Context) error {
	ctx := request.Context(c)

	verifyRequest := VerifyRequest{}
	err := c.Bind(&verifyRequest)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to verify object")
		apiErr := api.CommitError(err,
			auth.BadAuthDataCode,
			"The verification request received was malformed")
		return gateway.ErrorResponse(c, apiErr)
	}

	account, apiErr := g.usecase.Verify(ctx,
		verifyRequest.Email,
		verifyRequest.Code,
		verifyRequest.Password,
		verifyRequest.Name)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to verify the account")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, account)
}
