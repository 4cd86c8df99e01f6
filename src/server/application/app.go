package application

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cockroachdb/errors"
	"github.com/guregu/dynamo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rabbitmq/amqp091-go"
	accountgateway "github.com/veedubyou/stem-lab-be/src/server/internal/account/gateway"
	accountstorage "github.com/veedubyou/stem-lab-be/src/server/internal/account/storage"
	accountusecase "github.com/veedubyou/stem-lab-be/src/server/internal/account/usecase"
	librarygateway "github.com/veedubyou/stem-lab-be/src/server/internal/library/gateway"
	libraryusecase "github.com/veedubyou/stem-lab-be/src/server/internal/library/usecase"
	separationgateway "github.com/veedubyou/stem-lab-be/src/server/internal/separation/gateway"
	separationusecase "github.com/veedubyou/stem-lab-be/src/server/internal/separation/usecase"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/engine"
	"github.com/veedubyou/stem-lab-be/src/server/internal/separation/transcode"
	"github.com/veedubyou/stem-lab-be/src/shared/config"
	dynamolib "github.com/veedubyou/stem-lab-be/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/executor"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/rabbitmq"
	librarystorage "github.com/veedubyou/stem-lab-be/src/shared/library/storage"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
)

type App struct {
	echo *echo.Echo
	port string
}

type Config struct {
	DynamoConfig       config.Dynamo
	RabbitMQURL        string
	RabbitMQQueueName  string
	LibraryConfig      config.Library
	SeparationConfig   config.Separation
	CORSAllowedOrigins []string
	Port               string
	Log                bool
}

func NewApp(config Config) App {
	e := echo.New()

	if config.Log {
		e.Use(middleware.Logger())
	}

	corsMiddleware := makeCorsMiddleware(config)

	handleRoute := func(method HTTPMethod, path string, handlerFunc echo.HandlerFunc) {
		params := func() (string, echo.HandlerFunc, echo.MiddlewareFunc) {
			return path, handlerFunc, corsMiddleware
		}

		e.OPTIONS(params())

		switch method {
		case GET:
			e.GET(params())
		case POST:
			e.POST(params())
		case PUT:
			e.PUT(params())
		case DELETE:
			e.DELETE(params())
		default:
			panic("unhandled http method!")
		}
	}

	dynamoDB := makeDynamoDB(config.DynamoConfig)
	rabbitmqPublisher := makeRabbitMQPublisher(config)

	separationGateway := makeSeparationGateway(config)
	libraryGateway := makeLibraryGateway(config)
	accountGateway := makeAccountGateway(dynamoDB, rabbitmqPublisher)

	// health check
	handleRoute(GET, "/health-check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// separation route
	handleRoute(POST, "/api/separate", separationGateway.Separate)

	// library routes
	handleRoute(POST, "/api/library", libraryGateway.CreateSession)
	handleRoute(GET, "/api/library", libraryGateway.ListSessions)
	handleRoute(GET, "/api/library/:id", func(c echo.Context) error {
		sessionID := c.Param("id")
		return libraryGateway.GetSession(c, sessionID)
	})
	handleRoute(GET, "/api/library/:id/bundle", func(c echo.Context) error {
		sessionID := c.Param("id")
		return libraryGateway.GetSessionBundle(c, sessionID)
	})

	// auth routes
	handleRoute(POST, "/api/auth/request-code", accountGateway.RequestCode)
	handleRoute(POST, "/api/auth/verify", accountGateway.Verify)

	return App{
		echo: e,
		port: config.Port,
	}
}

func (a *App) Start() error {
	err := a.echo.Start(a.port)
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "Couldn't start echo server")
	}

	return nil
}

func (a *App) Stop() error {
	err := a.echo.Close()
	if err != nil {
		return errors.Wrap(err, "Failed to stop echo server")
	}

	return nil
}

func makeCorsMiddleware(config Config) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	})
}

func makeRabbitMQPublisher(config Config) *rabbitmq.QueuePublisher {
	conn, err := amqp091.Dial(config.RabbitMQURL)
	if err != nil {
		panic(errors.Wrap(err, "Failed to dial rabbitMQ url"))
	}

	publisher, err := rabbitmq.NewQueuePublisher(conn, config.RabbitMQQueueName)
	if err != nil {
		panic(errors.Wrap(err, "Failed to create rabbitMQ publisher"))
	}

	return publisher
}

func makeDynamoDB(dynamoConfig config.Dynamo) dynamolib.DynamoDBWrapper {
	dbSession := session.Must(session.NewSession())

	var dbConfig *aws.Config

	switch t := dynamoConfig.(type) {
	case config.ProdDynamo:
		dbConfig = aws.NewConfig().
			WithCredentials(credentials.NewStaticCredentials(
				t.AccessKeyID,
				t.SecretAccessKey,
				"",
			)).
			WithRegion(t.Region)

	case config.LocalDynamo:
		dbConfig = aws.NewConfig().
			WithCredentials(credentials.NewStaticCredentials(
				t.AccessKeyID,
				t.SecretAccessKey,
				"",
			)).
			WithRegion(t.Region).
			WithEndpoint(t.Host)

	default:
		panic("Unexpected dynamo config type")
	}

	db := dynamo.New(dbSession, dbConfig)
	return dynamolib.NewDynamoDBWrapper(db)
}

func makeSeparationGateway(config Config) separationgateway.Gateway {
	ffmpegTranscoder := transcode.NewFFmpegTranscoder(
		config.SeparationConfig.FFmpegBinPath,
		executor.BinaryFileExecutor{})

	spleeterEngine, err := engine.NewSpleeterEngine(
		config.SeparationConfig.WorkingDirPath,
		config.SeparationConfig.SpleeterBinPath,
		executor.BinaryFileExecutor{})
	if err != nil {
		panic(errors.Wrap(err, "Failed to create the spleeter engine"))
	}

	separationUsecase, err := separationusecase.NewUsecase(
		ffmpegTranscoder,
		spleeterEngine,
		separationusecase.Config{
			WorkingDirPath: config.SeparationConfig.WorkingDirPath,
			Timeout:        time.Duration(config.SeparationConfig.TimeoutSeconds) * time.Second,
		})
	if err != nil {
		panic(errors.Wrap(err, "Failed to create the separation usecase"))
	}

	return separationgateway.NewGateway(separationUsecase)
}

func makeLibraryGateway(config Config) librarygateway.Gateway {
	libraryStore, err := librarystorage.NewDiskStore(config.LibraryConfig)
	if err != nil {
		panic(errors.Wrap(err, "Failed to create the library store"))
	}

	libraryUsecase := libraryusecase.NewUsecase(libraryStore)
	return librarygateway.NewGateway(libraryUsecase)
}

func makeAccountGateway(dynamoDB dynamolib.DynamoDBWrapper, publisher *rabbitmq.QueuePublisher) accountgateway.Gateway {
	accountDB := accountstorage.NewDB(dynamoDB)
	accountUsecase := accountusecase.NewUsecase(accountDB, publisher, nil)
	return accountgateway.NewGateway(accountUsecase)
}
