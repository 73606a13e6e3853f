package repository

import (
	"context"

	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/playlist/model"
	soundModel "kodiboard-backend/internal/domains/sound/model"
	"kodiboard-backend/internal/infrastructure/database"
)

// PlaylistRepository is the playlist data-access surface, including the
// membership join. Visibility is enforced by row security under the Querier's
// scope.
type PlaylistRepository interface {
	List(ctx context.Context, q database.Querier) ([]*model.Playlist, error)
	ListByOwner(ctx context.Context, q database.Querier, ownerID uuid.UUID) ([]*model.Playlist, error)

	Insert(ctx context.Context, q database.Querier, playlist *model.Playlist) error

	// Get returns the playlist or model.ErrPlaylistNotFound.
	Get(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Playlist, error)

	// Update applies a partial update and returns the updated row, or
	// model.ErrPlaylistNotFound.
	Update(ctx context.Context, q database.Querier, id uuid.UUID, name, description, privacy *string) (*model.Playlist, error)

	// SetShareTokenHash overwrites the share-token digest, killing any
	// previously issued token. Returns model.ErrPlaylistNotFound if absent.
	SetShareTokenHash(ctx context.Context, q database.Querier, id uuid.UUID, hash string) error

	// GetByShareTokenHash resolves a playlist by digest, only while its
	// privacy is exactly link_only; model.ErrShareLinkNotFound otherwise.
	GetByShareTokenHash(ctx context.Context, q database.Querier, hash string) (*model.Playlist, error)

	// ListSounds returns member sounds ordered by position ascending (nulls
	// last), then newest first, with tag displays aggregated.
	ListSounds(ctx context.Context, q database.Querier, playlistID uuid.UUID) ([]*soundModel.Sound, error)

	// AddSound appends at position max+1; duplicate membership is a no-op.
	AddSound(ctx context.Context, q database.Querier, playlistID, soundID uuid.UUID) error

	// RemoveSound deletes the membership; absent membership is a no-op.
	RemoveSound(ctx context.Context, q database.Querier, playlistID, soundID uuid.UUID) error

	// SetPosition rewrites one membership's position; non-members are no-ops.
	SetPosition(ctx context.Context, q database.Querier, playlistID, soundID uuid.UUID, position int) error
}
