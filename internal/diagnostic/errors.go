package diagnostic

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an annotation that cannot drive generation:
// a self-referential target, a missing required descriptor field or an
// unparsable value. It is fatal for the unit it belongs to.
type ConfigurationError struct {
	// Element is the qualified name of the annotated type or member.
	Element string
	// Field is the offending annotation key, if any.
	Field string
	// Reason describes the problem.
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration of %s: %s: %s", e.Element, e.Field, e.Reason)
	}

	return fmt.Sprintf("configuration of %s: %s", e.Element, e.Reason)
}

// PersistenceError reports a generated artifact that could not be read,
// created or written.
type PersistenceError struct {
	Artifact string
	Op       string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Artifact, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsConfiguration reports whether err wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsPersistence reports whether err wraps a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// ErrorCode classifies err by the error codes of failed units.
func ErrorCode(err error) string {
	switch {
	case IsConfiguration(err):
		return CodeConfiguration
	case IsPersistence(err):
		return CodePersistence
	default:
		return CodeUnitFailed
	}
}
