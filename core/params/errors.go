package params

import "fmt"

// ConfigurationError reports malformed or inconsistent input detected before
// any variable or constraint is built. It is never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// Errorf builds a ConfigurationError for the given field.
func Errorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
