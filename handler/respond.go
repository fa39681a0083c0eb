package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sjdportal/models"
)

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondWithJSON(w, statusCode, models.ErrorResponse{
		Error:   errorType,
		Message: message,
		Code:    statusCode,
	})
}

// respondDomainError maps the domain error taxonomy to HTTP status codes.
// Everything here is recoverable by the caller; Conflict asks for a retry.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, models.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, models.ErrTerminalState):
		respondWithError(w, http.StatusConflict, "Terminal state", err.Error())
	case errors.Is(err, models.ErrInvalidTarget):
		respondWithError(w, http.StatusUnprocessableEntity, "Invalid target", err.Error())
	case errors.Is(err, models.ErrUnsupportedFileType):
		respondWithError(w, http.StatusUnsupportedMediaType, "Unsupported file type", err.Error())
	case errors.Is(err, models.ErrConflict):
		respondWithError(w, http.StatusConflict, "Conflict", err.Error()+" (retry the request)")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
