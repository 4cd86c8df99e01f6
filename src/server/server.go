package main

import (
	"path"
	"strings"

	"github.com/veedubyou/stem-lab-be/src/server/application"
	"github.com/veedubyou/stem-lab-be/src/shared/config"
	"github.com/veedubyou/stem-lab-be/src/shared/config/local"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/env"
	"github.com/veedubyou/stem-lab-be/src/shared/values/dev"
	"github.com/veedubyou/stem-lab-be/src/shared/values/envvar"
	"github.com/veedubyou/stem-lab-be/src/shared/values/prod"
)

const separationTimeoutSeconds = 600

func main() {
	var appConfig application.Config

	switch env.Get() {
	case env.Production:
		commaSeparatedOrigins := envvar.MustGet("ALLOWED_FE_ORIGINS")
		allowedOrigins := strings.Split(commaSeparatedOrigins, ",")

		appConfig = application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          prod.DynamoDBRegion,
			},
			RabbitMQURL:       envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName: envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			LibraryConfig: config.Library{
				RootPath: envvar.MustGet(envvar.LIBRARY_ROOT_PATH),
			},
			SeparationConfig: config.Separation{
				FFmpegBinPath:   envvar.MustGet(envvar.FFMPEG_BIN_PATH),
				SpleeterBinPath: envvar.MustGet(envvar.SPLEETER_BIN_PATH),
				WorkingDirPath:  envvar.MustGet(envvar.SPLEETER_WORKING_DIR_PATH),
				TimeoutSeconds:  separationTimeoutSeconds,
			},
			CORSAllowedOrigins: allowedOrigins,
			Port:               ":5000",
			Log:                true,
		}
	case env.Development:
		appConfig = application.Config{
			DynamoConfig:      dev.DynamoConfig,
			RabbitMQURL:       dev.RabbitMQHost,
			RabbitMQQueueName: dev.RabbitMQQueueName,
			LibraryConfig: config.Library{
				RootPath: path.Join(local.ProjectRoot(), dev.LibraryDirName),
			},
			SeparationConfig: config.Separation{
				FFmpegBinPath:   config.FFmpegPath(),
				SpleeterBinPath: config.SpleeterPath(),
				WorkingDirPath:  path.Join(local.ProjectRoot(), "/src/server/wd/spleeter"),
				TimeoutSeconds:  separationTimeoutSeconds,
			},
			CORSAllowedOrigins: []string{"*"},
			Port:               ":5000",
			Log:                true,
		}

	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		panic(err)
	}
}
