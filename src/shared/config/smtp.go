package config

type SMTP interface {
	SMTPConfig()
}

var _ SMTP = RemoteSMTP{}

type RemoteSMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	FromAddr string
}

func (r RemoteSMTP) SMTPConfig() {}

var _ SMTP = NoSMTP{}

// NoSMTP makes the worker log verification codes instead of mailing them.
type NoSMTP struct{}

func (n NoSMTP) SMTPConfig() {}
