package separationerrors

import (
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"
)

const (
	InvalidModelCode      = api.ErrorCode("invalid_model")
	BadMediaDataCode      = api.ErrorCode("bad_media_data")
	UnsupportedMediaCode  = api.ErrorCode("unsupported_media")
	SeparationTimeoutCode = api.ErrorCode("separation_timeout")
	InferenceFailedCode   = api.ErrorCode("inference_failed")
)
