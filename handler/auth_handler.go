package handler

import (
	"encoding/json"
	"net/http"
	"sjdportal/models"
	"sjdportal/service"

	"github.com/go-playground/validator/v10"
)

// AuthHandler issues bearer tokens for portal accounts
type AuthHandler struct {
	service  *service.AuthService
	validate *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc, validate: validator.New()}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	response, err := h.service.Login(&req)
	if err != nil {
		// Uniform 401 for bad email or bad password.
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}
