package allocator

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a room configuration that cannot be allocated against. It is
// always returned before any subject is placed.
type ConfigurationError struct {
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrConfiguration, e.Reason)
}

func (e ConfigurationError) Is(err error) bool {
	return err == ErrConfiguration
}

func configurationError(format string, args ...any) error {
	return ConfigurationError{
		Reason: fmt.Sprintf(format, args...),
	}
}
