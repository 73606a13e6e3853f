package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/internal/shared/response"
	"kodiboard-backend/pkg/logger"
	"kodiboard-backend/pkg/token"
)

const scopeKey = "authScope"

// ProfileEnsurer materializes a profile row for a verified identity. Implemented
// by the profile service; kept as a local interface so middleware doesn't pull
// in the domain package.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, userID uuid.UUID, claims *token.Claims) error
}

// RequireAuth verifies the bearer credential and hard-fails with 401 when it
// is missing, expired, or invalid. On success the caller's scope is bound to
// the request context and the profile is (idempotently) materialized.
func RequireAuth(verifier *token.Verifier, profiles ProfileEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, err := resolveScope(c, verifier, profiles)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				response.Unauthorized(c, "Token expired.")
			} else {
				response.Unauthorized(c, "Invalid token.")
			}
			c.Abort()
			return
		}
		if scope.UserID == uuid.Nil {
			response.Unauthorized(c, "Missing bearer token.")
			c.Abort()
			return
		}

		c.Set(scopeKey, scope)
		c.Next()
	}
}

// OptionalAuth resolves the caller's scope when a credential is present but
// treats verification failure and absence alike as anonymous. Used by public
// read endpoints.
func OptionalAuth(verifier *token.Verifier, profiles ProfileEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, err := resolveScope(c, verifier, profiles)
		if err != nil {
			scope = database.Anonymous()
		}

		c.Set(scopeKey, scope)
		c.Next()
	}
}

// CurrentScope returns the access scope bound to the request, anonymous if the
// auth middleware never ran.
func CurrentScope(c *gin.Context) database.Scope {
	if v, ok := c.Get(scopeKey); ok {
		if scope, ok := v.(database.Scope); ok {
			return scope
		}
	}
	return database.Anonymous()
}

func resolveScope(c *gin.Context, verifier *token.Verifier, profiles ProfileEnsurer) (database.Scope, error) {
	raw, ok := bearerToken(c)
	if !ok {
		return database.Anonymous(), nil
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		return database.Anonymous(), err
	}

	userID, parseErr := uuid.Parse(claims.Subject)
	if parseErr != nil {
		return database.Anonymous(), token.ErrTokenInvalid
	}

	// Every successful verification upserts the profile so first logins get a
	// row before any handler runs. Failure here is logged, not fatal: the
	// identity is already proven.
	if err := profiles.EnsureProfile(c.Request.Context(), userID, claims); err != nil {
		logger.Error("failed to ensure profile", err)
	}

	return database.UserScope(userID, claims.Role), nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
