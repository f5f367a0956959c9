package services_test

import (
	"errors"
	"testing"

	"thanos/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("boom")
	err := services.Wrap(services.ErrNotFound, "undo", "load organization", "organization missing", cause)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient fallback, got %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapBuildsDetail(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "organizing", "move file", "destination unavailable", nil)
	want := "validation error: organizing: move file: destination unavailable"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
