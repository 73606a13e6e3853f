package service

import (
	"context"

	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/playlist/model"
	"kodiboard-backend/internal/infrastructure/database"
)

// Service is the playlist business surface.
type Service interface {
	// List returns playlists visible to the scope, newest first, with member
	// counts and creator decoration.
	List(ctx context.Context, scope database.Scope) ([]model.PlaylistDTO, error)

	// ListByOwner returns one creator's visible playlists.
	ListByOwner(ctx context.Context, scope database.Scope, ownerID uuid.UUID) ([]model.PlaylistDTO, error)

	// Create inserts a playlist and mints its share token. The plaintext token
	// is in the returned DTO and is not recoverable afterwards.
	Create(ctx context.Context, scope database.Scope, req model.CreatePlaylistRequest) (*model.PlaylistDTO, error)

	// Get returns the playlist with its ordered member sounds.
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*model.PlaylistDetail, error)

	// Update partially updates playlist metadata.
	Update(ctx context.Context, scope database.Scope, id uuid.UUID, req model.UpdatePlaylistRequest) (*model.PlaylistDTO, error)

	// RotateShareToken replaces the share token, invalidating every link
	// minted before. Returns the new plaintext token.
	RotateShareToken(ctx context.Context, scope database.Scope, id uuid.UUID) (string, error)

	// GetByShareToken resolves a share link without any caller identity. Only
	// link_only playlists resolve; anything else is ErrShareLinkNotFound.
	GetByShareToken(ctx context.Context, plaintext string) (*model.PlaylistDetail, error)

	// AddSound appends a sound at the end of the playlist; duplicates are
	// no-ops.
	AddSound(ctx context.Context, scope database.Scope, playlistID, soundID uuid.UUID) error

	// RemoveSound drops a membership; absent memberships are no-ops.
	RemoveSound(ctx context.Context, scope database.Scope, playlistID, soundID uuid.UUID) error

	// Reorder assigns positions 1..n to the listed sounds in order. Listed
	// non-members are skipped; unlisted members keep their old position.
	Reorder(ctx context.Context, scope database.Scope, playlistID uuid.UUID, soundIDs []uuid.UUID) error
}

// SessionDB is the slice of the session binder this service needs. Share-link
// resolution bypasses row security, so both scopes are required.
type SessionDB interface {
	WithUserScope(ctx context.Context, scope database.Scope, fn func(q database.Querier) error) error
	WithServiceScope(ctx context.Context, fn func(q database.Querier) error) error
}
