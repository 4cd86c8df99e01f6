package job_router

import (
	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/jobs/verification_email"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/lib/cerr"
)

// JobRouter dispatches queue messages to the handler registered for
// their message type. Unknown types are rejected so they end up dead
// lettered rather than silently swallowed.
type JobRouter struct {
	verificationEmailHandler verification_email.VerificationEmailJobHandler
}

func NewJobRouter(
	verificationEmailHandler verification_email.VerificationEmailJobHandler,
) JobRouter {
	return JobRouter{
		verificationEmailHandler: verificationEmailHandler,
	}
}

func (j JobRouter) HandleMessage(message amqp091.Delivery) error {
	switch message.Type {
	case verification_email.JobType:
		return j.handleVerificationEmailJob(message)
	default:
		return cerr.Field("message_type", message.Type).
			Error("Unrecognized message type")
	}
}

func (j JobRouter) handleVerificationEmailJob(message amqp091.Delivery) error {
	params, err := j.verificationEmailHandler.HandleVerificationEmailJob(message.Body)
	if err != nil {
		return cerr.Field("job_params", params).
			Wrap(err).Error(verification_email.ErrorMessage)
	}

	log.WithField("email", params.Email).
		Info("Verification email delivered")

	return nil
}
