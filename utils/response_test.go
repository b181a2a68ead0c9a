package utils

import (
	"errors"
	"testing"
)

func TestNewErrorResponse(t *testing.T) {
	err := errors.New("pq: connection refused")

	if got := NewErrorResponse(500, "Failed to fetch doctors", err); got.Error != "internal error" {
		t.Errorf("expected server error detail to be hidden, got %q", got.Error)
	}
	got := NewErrorResponse(404, "Doctor not found", errors.New("record not found"))
	if got.Error != "record not found" || got.Status != 404 || got.Message != "Doctor not found" {
		t.Errorf("unexpected response %+v", got)
	}
}
