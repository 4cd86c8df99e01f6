package libraryerrors

import (
	"github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"
)

const (
	SessionNotFoundCode = api.ErrorCode("session_not_found")
	BadStemDataCode     = api.ErrorCode("bad_stem_data")
	StorageFailureCode  = api.ErrorCode("storage_failure")
)
