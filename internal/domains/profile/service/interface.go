package service

import (
	"context"

	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/profile/model"
	"kodiboard-backend/pkg/token"
)

// Service is the profile business surface.
type Service interface {
	// EnsureProfile idempotently materializes a profile for a verified
	// identity, deriving handle and display data from the claims. Existing
	// non-empty fields are never overwritten.
	EnsureProfile(ctx context.Context, userID uuid.UUID, claims *token.Claims) error

	// GetProfile returns the profile DTO, or a placeholder with the requested
	// id when no row exists. Runs under service scope: profile lookups must
	// work across ownership boundaries.
	GetProfile(ctx context.Context, id uuid.UUID) (*model.ProfileDTO, error)

	// Lookup batch-fetches profile DTOs for decorating other owners' content.
	Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.ProfileDTO, error)
}
