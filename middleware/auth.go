package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sjdportal/models"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and injects the acting account
// (role + id) into the request context.
type AuthMiddleware struct {
	jwtSecret []byte
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: []byte(jwtSecret)}
}

// contextKey avoids collisions with other packages' context values.
type contextKey string

const actorKey contextKey = "actor"

// RequireAuth validates the JWT and stores the actor in context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthorized(w, "Invalid authorization format. Expected: Bearer <token>")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondUnauthorized(w, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondUnauthorized(w, "Invalid token claims")
			return
		}

		idVal, ok := claims["account_id"].(float64)
		if !ok {
			respondUnauthorized(w, "Token missing account id")
			return
		}
		roleVal, ok := claims["role"].(string)
		if !ok {
			respondUnauthorized(w, "Token missing role")
			return
		}

		actor := models.Actor{Role: models.ActorRole(roleVal), ID: int64(idVal)}
		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles wraps RequireAuth and additionally rejects actors whose role
// is not in the allowed set.
func (m *AuthMiddleware) RequireRoles(roles ...models.ActorRole) func(http.Handler) http.Handler {
	allowed := make(map[models.ActorRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := GetActor(r)
			if err != nil || !allowed[actor.Role] {
				respondWithStatus(w, http.StatusForbidden, "Forbidden", "Insufficient role for this endpoint")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// GetActor extracts the authenticated actor from the request context.
func GetActor(r *http.Request) (models.Actor, error) {
	actor, ok := r.Context().Value(actorKey).(models.Actor)
	if !ok {
		return models.Actor{}, fmt.Errorf("actor not found in context - authentication required")
	}
	return actor, nil
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithStatus(w, http.StatusUnauthorized, "Unauthorized", message)
}

func respondWithStatus(w http.ResponseWriter, code int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:   errorType,
		Message: message,
		Code:    code,
	})
}
