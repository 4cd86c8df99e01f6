package main

import (
	"strconv"

	"github.com/veedubyou/stem-lab-be/src/shared/config"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/env"
	"github.com/veedubyou/stem-lab-be/src/shared/values/dev"
	"github.com/veedubyou/stem-lab-be/src/shared/values/envvar"
	"github.com/veedubyou/stem-lab-be/src/worker/application"
)

func main() {
	var appConfig application.Config

	switch env.Get() {
	case env.Production:
		appConfig = application.Config{
			RabbitMQURL:       envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName: envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			SMTPConfig:        smtpConfig(),
		}

	case env.Development:
		appConfig = application.Config{
			RabbitMQURL:       dev.RabbitMQHost,
			RabbitMQQueueName: dev.RabbitMQQueueName,
			SMTPConfig:        config.NoSMTP{},
		}

	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		panic(err)
	}
}

func smtpConfig() config.SMTP {
	// an unset SMTP host downgrades delivery to log output,
	// the rest of the worker runs as usual
	host := envvar.GetOrDefault(envvar.SMTP_HOST, "")
	if host == "" {
		return config.NoSMTP{}
	}

	port, err := strconv.Atoi(envvar.GetOrDefault(envvar.SMTP_PORT, "587"))
	if err != nil {
		panic("SMTP port is not a number")
	}

	return config.RemoteSMTP{
		Host:     host,
		Port:     port,
		User:     envvar.MustGet(envvar.SMTP_USER),
		Password: envvar.MustGet(envvar.SMTP_PASS),
		FromAddr: envvar.MustGet(envvar.SMTP_FROM_ADDR),
	}
}
