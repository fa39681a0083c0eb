package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT signs a token carrying the actor's account id and role.
func GenerateJWT(accountID int64, role string, secret []byte, expiresInHours int) (string, error) {
	expiresAt := time.Now().Add(time.Duration(expiresInHours) * time.Hour)

	claims := jwt.MapClaims{
		"account_id": accountID,
		"role":       role,
		"exp":        expiresAt.Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
