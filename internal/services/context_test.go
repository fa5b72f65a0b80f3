package services_test

import (
	"context"
	"testing"

	"gravbot/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithOrigin(ctx, "cli")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if origin, ok := services.OriginFromContext(ctx); !ok || origin != "cli" {
		t.Fatalf("unexpected origin: %v %v", origin, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "")
	ctx = services.WithOrigin(ctx, "")
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id for blank value")
	}
	if _, ok := services.OriginFromContext(ctx); ok {
		t.Fatal("expected no origin for blank value")
	}
}
