package services_test

import (
	"context"
	"testing"

	"reelsync/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPageID(ctx, "page-1")
	ctx = services.WithRunID(ctx, "run-9")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.PageIDFromContext(ctx); !ok || id != "page-1" {
		t.Fatalf("unexpected page id: %v %v", id, ok)
	}
	if run, ok := services.RunIDFromContext(ctx); !ok || run != "run-9" {
		t.Fatalf("unexpected run id: %v %v", run, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPageID(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.PageIDFromContext(ctx); ok {
		t.Fatal("expected no page id")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id")
	}
}
