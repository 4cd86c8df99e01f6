package dummy

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/email"
)

var SendFailure = errors.New("dummy send failure")

var _ email.Sender = &EmailSender{}

func NewDummyEmailSender() *EmailSender {
	return &EmailSender{}
}

type SentEmail struct {
	Recipient string
	Code      string
}

type EmailSender struct {
	Unavailable bool
	Sent        []SentEmail
	mutex       sync.Mutex
}

func (e *EmailSender) SendVerificationCode(recipient string, code string) error {
	if e.Unavailable {
		return SendFailure
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.Sent = append(e.Sent, SentEmail{
		Recipient: recipient,
		Code:      code,
	})

	return nil
}
