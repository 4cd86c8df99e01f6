package accountstorage

import "github.com/cockroachdb/errors"

var (
	AccountNotFoundMark = errors.New("Account not found")
	BadAccountDataMark  = errors.New("Account data is malformed")
	DefaultErrorMark    = errors.New("Default account storage error")
)
