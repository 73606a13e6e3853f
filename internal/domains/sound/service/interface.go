package service

import (
	"context"

	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/sound/model"
	"kodiboard-backend/internal/infrastructure/database"
)

// Service is the sound business surface.
type Service interface {
	// Search lists sounds visible to the scope, with fresh signed URLs and
	// creator decoration.
	Search(ctx context.Context, scope database.Scope, params model.SearchParams) ([]model.SoundDTO, error)

	// Create uploads the bytes to object storage and then inserts the row.
	// A storage failure never leaves an orphaned row; a post-upload database
	// failure can leave an orphaned blob (reclaimed by the maintenance sweep).
	Create(ctx context.Context, scope database.Scope, input model.CreateSoundInput) (*model.SoundDTO, error)

	// Update partially updates metadata; a provided tags string replaces the
	// association set.
	Update(ctx context.Context, scope database.Scope, id uuid.UUID, req model.UpdateSoundRequest) error

	// Delete removes the row and then the backing blob. The two deletions are
	// not transactional: a storage failure after commit surfaces as an
	// upstream error while the row stays deleted.
	Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error

	// Decorate maps raw rows to DTOs: per-read signed URLs plus batch creator
	// lookup. Shared with the playlist service.
	Decorate(ctx context.Context, sounds []*model.Sound) ([]model.SoundDTO, error)
}

// ObjectStore is the slice of the storage adapter this service needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	SignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// SessionDB is the slice of the session binder this service needs.
type SessionDB interface {
	WithUserScope(ctx context.Context, scope database.Scope, fn func(q database.Querier) error) error
}
