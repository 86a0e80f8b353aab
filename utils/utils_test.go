package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halioti2/recipe-loop-mvp/errors"
)

func TestRespondWithJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondWithJSON(rr, http.StatusOK, map[string]int{"count": 3})

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]int
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["count"] != 3 {
		t.Errorf("body = %v", body)
	}
}

func TestRespondWithErrorAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondWithError(rr, errors.NotFound("op", nil, "Recipe not found"))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "Recipe not found" {
		t.Errorf("body = %v", body)
	}
}

func TestRespondWithErrorHidesInternals(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondWithError(rr, fmt.Errorf("sqlite disk io failure at offset 42"))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" || body["error"] == "sqlite disk io failure at offset 42" {
		t.Errorf("internal detail leaked or missing message: %v", body)
	}
}
