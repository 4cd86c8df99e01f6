package dynamolib

import (
	"strings"

	"github.com/pkg/errors"
)

// ValidateStringField guards writes against persisting records that
// are missing a required string attribute.
func ValidateStringField(value string, key string) error {
	if strings.TrimSpace(value) == "" {
		return errors.Errorf("No value was set for the %s field", key)
	}

	return nil
}
