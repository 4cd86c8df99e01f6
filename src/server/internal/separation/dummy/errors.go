package dummy

import "github.com/cockroachdb/errors"

var EngineFailure = errors.New("dummy engine failure")
var TranscodeFailure = errors.New("dummy transcode failure")
