package auth

import "github.com/veedubyou/stem-lab-be/src/server/internal/errors/api"

var (
	BadAuthDataCode      = api.ErrorCode("bad_auth_data")
	CodeNotRequestedCode = api.ErrorCode("verification_code_not_requested")
	CodeExpiredCode      = api.ErrorCode("verification_code_expired")
	InvalidCodeCode      = api.ErrorCode("invalid_verification_code")
)
