package services_test

import (
	"context"
	"testing"

	"curator/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithFile(ctx, "Breathless (1960).mkv")
	ctx = services.WithStage(ctx, "core_director")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if name, ok := services.FileFromContext(ctx); !ok || name != "Breathless (1960).mkv" {
		t.Fatalf("unexpected file: %v %v", name, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "core_director" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithFile(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.FileFromContext(ctx); ok {
		t.Fatal("expected no file value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
