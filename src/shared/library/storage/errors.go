package librarystorage

import "github.com/cockroachdb/errors"

var (
	SessionNotFoundMark = errors.New("session_not_found")
	BadStemDataMark     = errors.New("bad_stem_data")
	DefaultErrorMark    = errors.New("default_error")
)
