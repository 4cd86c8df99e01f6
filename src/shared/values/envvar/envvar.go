package envvar

import (
	"fmt"
	"os"
)

const (
	AWS_ACCESS_KEY_ID     = "AWS_ACCESS_KEY_ID"
	AWS_SECRET_ACCESS_KEY = "AWS_SECRET_ACCESS_KEY"

	RABBITMQ_URL        = "RABBITMQ_URL"
	RABBITMQ_QUEUE_NAME = "RABBITMQ_QUEUE_NAME"

	LIBRARY_ROOT_PATH = "LIBRARY_ROOT_PATH"

	FFMPEG_BIN_PATH           = "FFMPEG_BIN_PATH"
	SPLEETER_BIN_PATH         = "SPLEETER_BIN_PATH"
	SPLEETER_WORKING_DIR_PATH = "SPLEETER_WORKING_DIR_PATH"

	SMTP_HOST      = "SMTP_HOST"
	SMTP_PORT      = "SMTP_PORT"
	SMTP_USER      = "SMTP_USER"
	SMTP_PASS      = "SMTP_PASS"
	SMTP_FROM_ADDR = "SMTP_FROM_ADDR"
)

func MustGet(key string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet {
		panic(fmt.Sprintf("No env variable found for key %s", key))
	}

	if val == "" {
		panic(fmt.Sprintf("Env variable is empty for key %s", key))
	}

	return val
}

func GetOrDefault(key string, defaultVal string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet || val == "" {
		return defaultVal
	}

	return val
}
