package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-erp-gateway/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores the validated bearer-token claims
	ContextKeyClaims ContextKey = "claims"
)

// RequireAuth is middleware that validates the application bearer token and
// puts its claims - including the backend session token - on the request
// context. Authorization failures surface as 401 so callers know to prompt
// re-authentication.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeUnauthorized(w, "invalid Authorization header format")
				return
			}

			claims, err := s.tokens.Validate(parts[1])
			if err != nil {
				writeUnauthorized(w, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// requestClaims returns the validated claims placed by RequireAuth.
func requestClaims(r *http.Request) *token.Claims {
	claims, _ := r.Context().Value(ContextKeyClaims).(*token.Claims)
	return claims
}

// requestSession returns the backend session token of the calling user.
func requestSession(r *http.Request) string {
	if claims := requestClaims(r); claims != nil {
		return claims.BackendSession
	}
	return ""
}
