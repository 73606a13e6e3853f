package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"kodiboard-backend/internal/domains/playlist/model"
	soundModel "kodiboard-backend/internal/domains/sound/model"
	"kodiboard-backend/internal/infrastructure/database"
)

type postgresPlaylistRepository struct{}

func NewPostgresPlaylistRepository() PlaylistRepository {
	return &postgresPlaylistRepository{}
}

// =====================================================
// LIST
// =====================================================

const listColumns = `
	SELECT p.id,
	       p.owner_id,
	       p.name,
	       p.description,
	       p.privacy,
	       p.created_at,
	       COUNT(ps.sound_id) AS sound_count
	FROM playlists p
	LEFT JOIN playlist_sounds ps ON ps.playlist_id = p.id
`

func (r *postgresPlaylistRepository) List(ctx context.Context, q database.Querier) ([]*model.Playlist, error) {
	query := listColumns + `
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	return scanPlaylists(rows)
}

func (r *postgresPlaylistRepository) ListByOwner(ctx context.Context, q database.Querier, ownerID uuid.UUID) ([]*model.Playlist, error) {
	query := listColumns + `
		WHERE p.owner_id = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`

	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists by owner: %w", err)
	}
	defer rows.Close()

	return scanPlaylists(rows)
}

func scanPlaylists(rows pgx.Rows) ([]*model.Playlist, error) {
	var playlists []*model.Playlist
	for rows.Next() {
		p := &model.Playlist{}
		if err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.Name,
			&p.Description,
			&p.Privacy,
			&p.CreatedAt,
			&p.SoundCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlists: %w", err)
	}

	return playlists, nil
}

// =====================================================
// INSERT / GET / UPDATE
// =====================================================

func (r *postgresPlaylistRepository) Insert(ctx context.Context, q database.Querier, playlist *model.Playlist) error {
	query := `
		INSERT INTO playlists (id, owner_id, name, description, privacy, share_token_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		playlist.ID,
		playlist.OwnerID,
		playlist.Name,
		playlist.Description,
		playlist.Privacy,
		playlist.ShareTokenHash,
	).Scan(&playlist.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

func (r *postgresPlaylistRepository) Get(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Playlist, error) {
	query := `
		SELECT id, owner_id, name, description, privacy, created_at
		FROM playlists
		WHERE id = $1
	`

	p := &model.Playlist{}
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Description,
		&p.Privacy,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	return p, nil
}

func (r *postgresPlaylistRepository) Update(ctx context.Context, q database.Querier, id uuid.UUID, name, description, privacy *string) (*model.Playlist, error) {
	query := `
		UPDATE playlists
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    privacy = COALESCE($3, privacy)
		WHERE id = $4
		RETURNING id, owner_id, name, description, privacy, created_at
	`

	p := &model.Playlist{}
	err := q.QueryRow(ctx, query, name, description, privacy, id).Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Description,
		&p.Privacy,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	return p, nil
}

// =====================================================
// SHARE TOKEN
// =====================================================

func (r *postgresPlaylistRepository) SetShareTokenHash(ctx context.Context, q database.Querier, id uuid.UUID, hash string) error {
	query := `
		UPDATE playlists
		SET share_token_hash = $1
		WHERE id = $2
		RETURNING id
	`

	var updated uuid.UUID
	if err := q.QueryRow(ctx, query, hash, id).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrPlaylistNotFound
		}
		return fmt.Errorf("failed to rotate share token: %w", err)
	}

	return nil
}

func (r *postgresPlaylistRepository) GetByShareTokenHash(ctx context.Context, q database.Querier, hash string) (*model.Playlist, error) {
	query := `
		SELECT id, owner_id, name, description, privacy, created_at
		FROM playlists
		WHERE share_token_hash = $1
		  AND privacy = 'link_only'
	`

	p := &model.Playlist{}
	err := q.QueryRow(ctx, query, hash).Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Description,
		&p.Privacy,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrShareLinkNotFound
		}
		return nil, fmt.Errorf("failed to resolve share link: %w", err)
	}

	return p, nil
}

// =====================================================
// MEMBERSHIP
// =====================================================

func (r *postgresPlaylistRepository) ListSounds(ctx context.Context, q database.Querier, playlistID uuid.UUID) ([]*soundModel.Sound, error) {
	query := `
		SELECT s.id,
		       s.owner_id,
		       s.name,
		       s.storage_path,
		       s.privacy,
		       s.duration_seconds,
		       s.created_at,
		       COALESCE(array_agg(t.display) FILTER (WHERE t.id IS NOT NULL), '{}') AS tags
		FROM playlist_sounds ps
		JOIN sounds s ON s.id = ps.sound_id
		LEFT JOIN sound_tags st ON st.sound_id = s.id
		LEFT JOIN tags t ON t.id = st.tag_id
		WHERE ps.playlist_id = $1
		GROUP BY s.id, ps.position
		ORDER BY ps.position ASC NULLS LAST, s.created_at DESC
	`

	rows, err := q.Query(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist sounds: %w", err)
	}
	defer rows.Close()

	var sounds []*soundModel.Sound
	for rows.Next() {
		sound := &soundModel.Sound{}
		var tags []string
		if err := rows.Scan(
			&sound.ID,
			&sound.OwnerID,
			&sound.Name,
			&sound.StoragePath,
			&sound.Privacy,
			&sound.DurationSeconds,
			&sound.CreatedAt,
			pq.Array(&tags),
		); err != nil {
			return nil, fmt.Errorf("failed to scan playlist sound: %w", err)
		}
		sound.Tags = tags
		sounds = append(sounds, sound)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist sounds: %w", err)
	}

	return sounds, nil
}

func (r *postgresPlaylistRepository) AddSound(ctx context.Context, q database.Querier, playlistID, soundID uuid.UUID) error {
	// Position is assigned as current max + 1 in the same statement so two
	// concurrent appends cannot race to the same slot outside the insert.
	query := `
		INSERT INTO playlist_sounds (playlist_id, sound_id, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1
		FROM playlist_sounds
		WHERE playlist_id = $1
		ON CONFLICT DO NOTHING
	`

	if _, err := q.Exec(ctx, query, playlistID, soundID); err != nil {
		return fmt.Errorf("failed to add sound to playlist: %w", err)
	}
	return nil
}

func (r *postgresPlaylistRepository) RemoveSound(ctx context.Context, q database.Querier, playlistID, soundID uuid.UUID) error {
	query := `DELETE FROM playlist_sounds WHERE playlist_id = $1 AND sound_id = $2`

	if _, err := q.Exec(ctx, query, playlistID, soundID); err != nil {
		return fmt.Errorf("failed to remove sound from playlist: %w", err)
	}
	return nil
}

func (r *postgresPlaylistRepository) SetPosition(ctx context.Context, q database.Querier, playlistID, soundID uuid.UUID, position int) error {
	query := `
		UPDATE playlist_sounds
		SET position = $1
		WHERE playlist_id = $2 AND sound_id = $3
	`

	if _, err := q.Exec(ctx, query, position, playlistID, soundID); err != nil {
		return fmt.Errorf("failed to set playlist position: %w", err)
	}
	return nil
}
