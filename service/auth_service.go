package service

import (
	"fmt"
	"sjdportal/models"
	"sjdportal/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService issues bearer tokens for the portal's account roles. Session
// handling and role-based routing live in the frontend; this only turns
// credentials into a signed actor identity.
type AuthService struct {
	accounts     AccountStore
	jwtSecret    []byte
	expiresHours int
}

// NewAuthService creates a new auth service
func NewAuthService(accounts AccountStore, jwtSecret string, expiresHours int) *AuthService {
	return &AuthService{
		accounts:     accounts,
		jwtSecret:    []byte(jwtSecret),
		expiresHours: expiresHours,
	}
}

// Login verifies credentials and returns a token carrying the actor role and
// account id. Unknown email and wrong password return the same error.
func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	account, err := s.accounts.GetByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrForbidden)
	}

	token, err := utils.GenerateJWT(account.AccountID, string(account.Role), s.jwtSecret, s.expiresHours)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.LoginResponse{
		Token: token,
		Role:  string(account.Role),
		ID:    account.AccountID,
		Name:  account.Name,
	}, nil
}
