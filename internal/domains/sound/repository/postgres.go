package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"kodiboard-backend/internal/domains/sound/model"
	"kodiboard-backend/internal/infrastructure/database"
)

type postgresSoundRepository struct{}

func NewPostgresSoundRepository() SoundRepository {
	return &postgresSoundRepository{}
}

// =====================================================
// INSERT
// =====================================================

func (r *postgresSoundRepository) Insert(ctx context.Context, q database.Querier, sound *model.Sound) error {
	query := `
		INSERT INTO sounds (id, owner_id, name, description, storage_path, size_bytes, format, privacy)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		sound.ID,
		sound.OwnerID,
		sound.Name,
		sound.Description,
		sound.StoragePath,
		sound.SizeBytes,
		sound.Format,
		sound.Privacy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sound: %w", err)
	}

	return nil
}

// =====================================================
// SEARCH
// =====================================================

func (r *postgresSoundRepository) Search(ctx context.Context, q database.Querier, params model.SearchParams) ([]*model.Sound, error) {
	query := `
		SELECT s.id,
		       s.owner_id,
		       s.name,
		       s.storage_path,
		       s.privacy,
		       s.duration_seconds,
		       s.created_at,
		       COALESCE(array_agg(t.display) FILTER (WHERE t.id IS NOT NULL), '{}') AS tags
		FROM sounds s
		LEFT JOIN sound_tags st ON st.sound_id = s.id
		LEFT JOIN tags t ON t.id = st.tag_id
		WHERE ($1::text IS NULL OR s.name ILIKE $1 OR t.display ILIKE $1)
		  AND ($2::text IS NULL OR t.slug = $2)
		  AND ($3::uuid IS NULL OR s.owner_id = $3)
		GROUP BY s.id
		ORDER BY s.created_at DESC
	`

	var pattern, tagSlug *string
	if needle := strings.TrimSpace(params.Query); needle != "" {
		p := "%" + needle + "%"
		pattern = &p
	}
	if params.TagSlug != "" {
		tagSlug = &params.TagSlug
	}
	var owner *uuid.UUID
	if params.OwnerID != uuid.Nil {
		owner = &params.OwnerID
	}

	rows, err := q.Query(ctx, query, pattern, tagSlug, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to search sounds: %w", err)
	}
	defer rows.Close()

	return scanSounds(rows)
}

func scanSounds(rows pgx.Rows) ([]*model.Sound, error) {
	var sounds []*model.Sound
	for rows.Next() {
		sound := &model.Sound{}
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
			return nil, fmt.Errorf("failed to scan sound: %w", err)
		}
		sound.Tags = tags
		sounds = append(sounds, sound)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sounds: %w", err)
	}

	return sounds, nil
}

// =====================================================
// GET
// =====================================================

func (r *postgresSoundRepository) Get(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Sound, error) {
	query := `
		SELECT id, owner_id, name, description, storage_path, size_bytes, format, privacy, duration_seconds, created_at
		FROM sounds
		WHERE id = $1
	`

	sound := &model.Sound{}
	err := q.QueryRow(ctx, query, id).Scan(
		&sound.ID,
		&sound.OwnerID,
		&sound.Name,
		&sound.Description,
		&sound.StoragePath,
		&sound.SizeBytes,
		&sound.Format,
		&sound.Privacy,
		&sound.DurationSeconds,
		&sound.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSoundNotFound
		}
		return nil, fmt.Errorf("failed to get sound: %w", err)
	}

	return sound, nil
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (r *postgresSoundRepository) UpdateMeta(ctx context.Context, q database.Querier, id uuid.UUID, name, privacy *string) error {
	query := `
		UPDATE sounds
		SET name = COALESCE($1, name),
		    privacy = COALESCE($2, privacy)
		WHERE id = $3
	`

	if _, err := q.Exec(ctx, query, name, privacy, id); err != nil {
		return fmt.Errorf("failed to update sound: %w", err)
	}
	return nil
}

func (r *postgresSoundRepository) Delete(ctx context.Context, q database.Querier, id uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM sounds WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete sound: %w", err)
	}
	return nil
}

// =====================================================
// BATCH EXISTENCE (orphan sweep)
// =====================================================

func (r *postgresSoundRepository) ExistingIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool)
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := q.Query(ctx, `SELECT id FROM sounds WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check sound ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sound id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sound ids: %w", err)
	}

	return result, nil
}
