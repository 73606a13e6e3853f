package repository

import (
	"context"

	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/sound/model"
	"kodiboard-backend/internal/infrastructure/database"
)

// SoundRepository is the sound data-access surface.
type SoundRepository interface {
	Insert(ctx context.Context, q database.Querier, sound *model.Sound) error

	// Search returns sounds matching the filters with their tag displays
	// aggregated, newest first. Visibility is enforced by row security, not
	// here.
	Search(ctx context.Context, q database.Querier, params model.SearchParams) ([]*model.Sound, error)

	// Get returns the sound row (without tags) or model.ErrSoundNotFound.
	Get(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Sound, error)

	// UpdateMeta applies a partial update; nil fields keep their value.
	UpdateMeta(ctx context.Context, q database.Querier, id uuid.UUID, name, privacy *string) error

	Delete(ctx context.Context, q database.Querier, id uuid.UUID) error

	// ExistingIDs reports which of the given ids have a sounds row. Used by
	// the orphan-blob sweep.
	ExistingIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}
