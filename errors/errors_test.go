package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Internal("Store.Find", cause, "Failed to query recipe")

	if err.Code != http.StatusInternalServerError {
		t.Errorf("Code = %d, want %d", err.Code, http.StatusInternalServerError)
	}
	if got := err.Error(); got != "Failed to query recipe: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := NotFound("Store.Find", nil, "Recipe not found")
	if !IsNotFound(notFound) {
		t.Error("IsNotFound() = false for a not-found error")
	}

	wrapped := fmt.Errorf("outer: %w", notFound)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound() = false for a wrapped not-found error")
	}

	if IsNotFound(Internal("Store.Find", nil, "boom")) {
		t.Error("IsNotFound() = true for an internal error")
	}
	if IsNotFound(stderrors.New("plain")) {
		t.Error("IsNotFound() = true for a plain error")
	}
}

func TestConstructorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"invalid input", InvalidInput("op", nil, "bad"), http.StatusBadRequest},
		{"not found", NotFound("op", nil, "missing"), http.StatusNotFound},
		{"internal", Internal("op", nil, "boom"), http.StatusInternalServerError},
		{"rate limit", RateLimitExceeded("op"), http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.want {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.want)
			}
		})
	}
}
