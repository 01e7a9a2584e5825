package services_test

import (
	"context"
	"testing"

	"filmdesk/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithWorkID(ctx, "123")
	ctx = services.WithFormMode(ctx, "edit")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.WorkIDFromContext(ctx); !ok || id != "123" {
		t.Fatalf("unexpected work id: %v %v", id, ok)
	}
	if mode, ok := services.FormModeFromContext(ctx); !ok || mode != "edit" {
		t.Fatalf("unexpected form mode: %v %v", mode, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithFormMode(ctx, "")
	ctx = services.WithWorkID(ctx, "")
	if _, ok := services.FormModeFromContext(ctx); ok {
		t.Fatal("expected no form mode value")
	}
	if _, ok := services.WorkIDFromContext(ctx); ok {
		t.Fatal("expected no work id value")
	}
}
