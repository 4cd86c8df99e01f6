package email

import (
	"fmt"
	"net/smtp"

	"github.com/apex/log"
	"github.com/veedubyou/stem-lab-be/src/shared/config"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . Sender
type Sender interface {
	SendVerificationCode(recipient string, code string) error
}

func NewSender(smtpConfig config.SMTP) Sender {
	switch t := smtpConfig.(type) {
	case config.RemoteSMTP:
		return SMTPSender{config: t}
	case config.NoSMTP:
		return LogSender{}
	default:
		panic("Unexpected SMTP config type")
	}
}

var _ Sender = SMTPSender{}

type SMTPSender struct {
	config config.RemoteSMTP
}

func (s SMTPSender) SendVerificationCode(recipient string, code string) error {
	body := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: Your verification code\r\n"+
		"\r\n"+
		"Your verification code is %s\r\n"+
		"It expires in 10 minutes.\r\n",
		s.config.FromAddr, recipient, code)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)

	err := smtp.SendMail(addr, auth, s.config.FromAddr, []string{recipient}, []byte(body))
	if err != nil {
		return cerr.Field("recipient", recipient).
			Wrap(err).Error("Failed to send mail through the SMTP relay")
	}

	return nil
}

var _ Sender = LogSender{}

// LogSender stands in when no SMTP relay is configured, which is the
// normal state for local development.
type LogSender struct{}

func (l LogSender) SendVerificationCode(recipient string, code string) error {
	log.WithField("recipient", recipient).
		WithField("code", code).
		Info("No SMTP relay configured, verification code logged")

	return nil
}
