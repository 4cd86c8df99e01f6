package mark

import "github.com/cockroachdb/errors"

// Wrap attaches a marking error so that callers can branch on
// markers.Is without depending on the concrete error value.
func Wrap(err error, markingError error, msg string) error {
	markedErr := errors.Mark(err, markingError)
	return errors.Wrap(markedErr, msg)
}

func Message(markingError error, msg string) error {
	err := errors.New(msg)
	return errors.Mark(err, markingError)
}
