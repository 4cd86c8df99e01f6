package verification_email

import (
	"encoding/json"

	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/email"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "verification_email"
const ErrorMessage string = "Failed to deliver the verification email"

//counterfeiter:generate . VerificationEmailJobHandler
type VerificationEmailJobHandler interface {
	HandleVerificationEmailJob(message []byte) (JobParams, error)
}

type JobParams struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func NewJobHandler(sender email.Sender) JobHandler {
	return JobHandler{
		sender: sender,
	}
}

type JobHandler struct {
	sender email.Sender
}

func (d JobHandler) HandleVerificationEmailJob(message []byte) (JobParams, error) {
	params, err := unmarshalMessage(message)
	if err != nil {
		return JobParams{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errCtx := cerr.Field("email", params.Email)

	err = d.sender.SendVerificationCode(params.Email, params.Code)
	if err != nil {
		return JobParams{}, errCtx.Wrap(err).Error("Failed to send the verification code")
	}

	return params, nil
}

func unmarshalMessage(message []byte) (JobParams, error) {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return JobParams{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errCtx := cerr.Field("job_params", params)

	if params.Email == "" {
		return JobParams{}, errCtx.Error("Missing email address")
	}

	if params.Code == "" {
		return JobParams{}, errCtx.Error("Missing verification code")
	}

	return params, nil
}
