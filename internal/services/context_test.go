package services_test

import (
	"context"
	"testing"

	"promptkit/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAttempt(ctx, 3)
	ctx = services.WithTier(ctx, "advanced")
	ctx = services.WithRequestID(ctx, "req-123")

	if attempt, ok := services.AttemptFromContext(ctx); !ok || attempt != 3 {
		t.Fatalf("unexpected attempt: %v %v", attempt, ok)
	}
	if tier, ok := services.TierFromContext(ctx); !ok || tier != "advanced" {
		t.Fatalf("unexpected tier: %v %v", tier, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithTier(ctx, "")
	ctx = services.WithAttempt(ctx, 0)
	if _, ok := services.TierFromContext(ctx); ok {
		t.Fatal("expected no tier value")
	}
	if _, ok := services.AttemptFromContext(ctx); ok {
		t.Fatal("expected no attempt value")
	}
}
