package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdrrmo/respond/internal/shared/config"
	"github.com/mdrrmo/respond/internal/shared/types"
)

type contextKey string

const (
	ActorContextKey contextKey = "actor"
)

// Claims extends JWT claims with platform-specific data
type Claims struct {
	jwt.RegisteredClaims
	Role         string `json:"role"`
	BarangayName string `json:"barangay_name,omitempty"`
	Municipality string `json:"municipality,omitempty"`
}

// Middleware creates JWT authentication middleware
func Middleware(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			tokenString := parts[1]

			// Parse and validate token
			token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			})

			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(*Claims)
			if !ok || !token.Valid {
				writeError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			// Build actor from claims
			actor := &Actor{
				ID:           types.ID(claims.Subject),
				Role:         Role(claims.Role),
				BarangayName: claims.BarangayName,
				Municipality: claims.Municipality,
			}

			// Add actor to context
			ctx := context.WithValue(r.Context(), ActorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor extracts the actor from request context
func GetActor(ctx context.Context) *Actor {
	actor, ok := ctx.Value(ActorContextKey).(*Actor)
	if !ok {
		return nil
	}
	return actor
}

// RequireRoles creates middleware that requires one of the given roles
func RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := GetActor(r.Context())
			if actor == nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			allowed := false
			for _, role := range roles {
				if actor.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
