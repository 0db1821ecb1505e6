package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTransient     = errors.New("transient failure")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrUnsupported   = errors.New("unsupported")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the failure may succeed on a later run without
// any change to configuration or catalog data.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrUnsupported):
		return false
	default:
		return true
	}
}

// Hint returns a short operator-facing next step for a classified error.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "check reelsync config and credentials"
	case errors.Is(err, ErrValidation):
		return "fix the catalog entry and rerun"
	case errors.Is(err, ErrNotFound):
		return "verify the identifier exists"
	case errors.Is(err, ErrUnsupported):
		return "run on a supported platform"
	default:
		return "retry later; the provider may be unavailable"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
