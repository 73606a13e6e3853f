package repository

import (
	"context"

	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/profile/model"
	"kodiboard-backend/internal/infrastructure/database"
)

// ProfileRepository is the profile data-access surface. Every method takes the
// Querier the session binder scoped for this request.
type ProfileRepository interface {
	// Upsert inserts the profile or fills previously-empty fields. Existing
	// non-empty handle/display_name/avatar_url values are preserved.
	Upsert(ctx context.Context, q database.Querier, profile *model.Profile) error

	// GetByID returns the profile or model.ErrProfileNotFound.
	GetByID(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Profile, error)

	// GetByIDs batch-fetches profiles keyed by id; absent ids are simply
	// missing from the map.
	GetByIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]*model.Profile, error)
}
