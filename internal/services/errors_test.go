package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"curator/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "tmdb", "search", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"tmdb", "search", "failed"} {
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
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestFatalAndSoftClassification(t *testing.T) {
	configErr := services.Wrap(services.ErrConfiguration, "curated", "load whitelist", "missing", nil)
	if !services.IsFatal(configErr) {
		t.Fatal("expected configuration error to be fatal")
	}
	if services.IsSoft(configErr) {
		t.Fatal("configuration error must not be soft")
	}

	timeoutErr := fmt.Errorf("lookup: %w", services.Wrap(services.ErrTimeout, "omdb", "search", "deadline", nil))
	if services.IsFatal(timeoutErr) {
		t.Fatal("timeout must not be fatal")
	}
	if !services.IsSoft(timeoutErr) {
		t.Fatal("expected timeout to be soft")
	}
	if services.IsSoft(nil) {
		t.Fatal("nil error is not soft")
	}
}
