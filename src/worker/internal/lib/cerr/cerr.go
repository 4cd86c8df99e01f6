package cerr

import (
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

func Field(key string, value any) ErrorContext {
	return ErrorContext{}.Field(key, value)
}

func Wrap(err error) ErrorContext {
	return ErrorContext{}.Wrap(err)
}

func Error(msg string) error {
	return ErrorContext{}.Error(msg)
}

// ErrorContext accumulates structured fields before the error is
// finalized. The fields travel with the error so that Log can report
// them at the top of the handler instead of at every wrap site.
type ErrorContext struct {
	fields     map[string]any
	wrappedErr error
}

func (e ErrorContext) Field(key string, value any) ErrorContext {
	fields := map[string]any{}
	for k, v := range e.fields {
		fields[k] = v
	}

	fields[key] = value

	return ErrorContext{
		fields:     fields,
		wrappedErr: e.wrappedErr,
	}
}

func (e ErrorContext) Wrap(err error) ErrorContext {
	return ErrorContext{
		fields:     e.fields,
		wrappedErr: err,
	}
}

func (e ErrorContext) Error(msg string) error {
	var err error
	if e.wrappedErr != nil {
		err = errors.Wrap(e.wrappedErr, msg)
	} else {
		err = errors.New(msg)
	}

	if len(e.fields) == 0 {
		return err
	}

	return fieldedError{
		err:    err,
		fields: e.fields,
	}
}

type fieldedError struct {
	err    error
	fields map[string]any
}

func (f fieldedError) Error() string {
	return f.err.Error()
}

func (f fieldedError) Unwrap() error {
	return f.err
}

func (f fieldedError) Cause() error {
	return f.err
}

// Log reports the error with every field collected along the chain.
func Log(err error) {
	fields := log.Fields{}

	for unwrapped := err; unwrapped != nil; unwrapped = errors.UnwrapOnce(unwrapped) {
		if fielded, ok := unwrapped.(fieldedError); ok {
			for k, v := range fielded.fields {
				if _, collected := fields[k]; !collected {
					fields[k] = v
				}
			}
		}
	}

	log.WithFields(fields).Error(err.Error())
}
