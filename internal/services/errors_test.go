package services_test

import (
	"errors"
	"strings"
	"testing"

	"reelsync/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "tmdb", "search", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"tmdb", "search", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestRetryableClassification(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "identification", "resolve", "bad reference", nil)
	if services.Retryable(validationErr) {
		t.Fatal("expected validation error to be terminal")
	}
	unsupported := services.Wrap(services.ErrUnsupported, "server", "open", "no opener", nil)
	if services.Retryable(unsupported) {
		t.Fatal("expected unsupported error to be terminal")
	}
	transientErr := services.Wrap(services.ErrTransient, "notion", "query", "timeout", errors.New("io"))
	if !services.Retryable(transientErr) {
		t.Fatal("expected transient error to be retryable")
	}
	if services.Retryable(nil) {
		t.Fatal("nil error is not retryable")
	}
}

func TestHintMentionsConfigForConfigurationErrors(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "config", "validate", "missing token", nil)
	if hint := services.Hint(err); !strings.Contains(hint, "config") {
		t.Fatalf("unexpected hint %q", hint)
	}
}
