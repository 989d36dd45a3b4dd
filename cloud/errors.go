package cloud

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is wrapped by every *ConfigurationError.
	ErrConfiguration = errors.New("cloud: invalid configuration")
	// ErrInconsistent indicates a cloud failing one of its structural checks.
	ErrInconsistent = errors.New("cloud: inconsistent node cloud")
)

// ConfigurationError reports a Config value that cannot produce a cloud.
// It is returned before any construction stage runs.
type ConfigurationError struct {
	Field  string // Config field at fault
	Value  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s=%d: %s", ErrConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
