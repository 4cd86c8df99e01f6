package application

import (
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-lab-be/src/shared/config"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/email"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/jobs/job_router"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/jobs/verification_email"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/application/worker"
	"github.com/veedubyou/stem-lab-be/src/worker/internal/lib/cerr"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	worker worker.QueueWorker
}

type Config struct {
	RabbitMQURL       string
	RabbitMQQueueName string
	SMTPConfig        config.SMTP
}

func NewApp(config Config) App {
	consumerConn := must(amqp091.Dial(config.RabbitMQURL))

	return App{
		worker: newWorker(config, consumerConn),
	}
}

func (a *App) Start() error {
	err := a.worker.Start()
	if err != nil {
		return cerr.Wrap(err).Error("Failed to start worker")
	}

	return nil
}

func (a *App) Stop() {
	a.worker.Stop()
}

func newWorker(config Config, consumerConn *amqp091.Connection) worker.QueueWorker {
	queueWorker := must(worker.NewQueueWorkerFromConnection(
		consumerConn,
		config.RabbitMQQueueName,
		newJobRouter(config)))

	return queueWorker
}

func newJobRouter(config Config) job_router.JobRouter {
	return job_router.NewJobRouter(
		newVerificationEmailJobHandler(config))
}

func newVerificationEmailJobHandler(config Config) verification_email.JobHandler {
	return verification_email.NewJobHandler(email.NewSender(config.SMTPConfig))
}
