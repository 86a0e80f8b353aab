package utils

import (
	"encoding/json"
	"net/http"

	stderrors "errors"

	"github.com/sirupsen/logrus"

	"github.com/halioti2/recipe-loop-mvp/errors"
)

// RespondWithJSON writes payload as a JSON response.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
	}
}

// RespondWithError maps an error to a JSON error body. AppError codes
// pass through; anything else is reported as an internal error without
// leaking the underlying message.
func RespondWithError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		RespondWithJSON(w, appErr.Code, map[string]string{"error": appErr.Message})
		return
	}
	RespondWithJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "An error occurred while processing your request. Please try again later.",
	})
}
