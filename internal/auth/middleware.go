package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Middleware creates an HTTP middleware that extracts and injects authentication context.
// This middleware:
// 1. Extracts the Authorization header
// 2. Parses the bearer token
// 3. Looks up the organization context from the database
// 4. Injects the organization context into the request
//
// If any step fails (missing token, unknown token), the request proceeds
// without auth context. Handlers should check for context availability.
//
// This design allows:
// - Public endpoints (no auth required)
// - Protected endpoints (check for context)
// - Optional auth endpoints (use context if available)
func Middleware(authService *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract Authorization header
			authHeader := r.Header.Get("Authorization")

			// If no Authorization header, continue without auth context
			if authHeader == "" {
				slog.Debug("no authorization header provided")
				next.ServeHTTP(w, r)
				return
			}

			token := extractBearerToken(authHeader)
			if token == "" {
				slog.Warn("malformed authorization header",
					"auth_header_length", len(authHeader),
				)
				next.ServeHTTP(w, r)
				return
			}

			// Get organization context from database
			orgCtx, err := authService.GetOrganizationByToken(token)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					slog.Info("unknown API token, continuing without auth context")
				} else {
					slog.Warn("failed to get organization context from database",
						"error", err,
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			// Wrap the organization context in AuthContext
			authCtx := &AuthContext{
				OrganizationContext: orgCtx,
			}

			// Inject auth context into request context
			ctx := context.WithValue(r.Context(), AuthContextKey, authCtx)
			r = r.WithContext(ctx)

			slog.Debug("auth context injected successfully",
				"organization_id", orgCtx.OrganizationID,
			)

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken returns the token portion of a "Bearer <token>" header.
// A bare token without the Bearer prefix is also accepted.
func extractBearerToken(authHeader string) string {
	if token, found := strings.CutPrefix(authHeader, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(authHeader)
}
