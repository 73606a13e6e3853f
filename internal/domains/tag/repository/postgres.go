package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/internal/shared/utils"
)

// TagRepository manages tags and their sound associations.
type TagRepository interface {
	// Ensure upserts each raw tag by its derived slug (display text updated to
	// the latest casing) and returns the tag ids. Raw strings that slugify to
	// nothing are skipped.
	Ensure(ctx context.Context, q database.Querier, tags []string) ([]uuid.UUID, error)

	// Attach ensures the tags and associates them with the sound. Duplicate
	// associations are silent no-ops.
	Attach(ctx context.Context, q database.Querier, soundID uuid.UUID, tags []string) error

	// ClearForSound removes every association for a sound (tags themselves
	// are never deleted).
	ClearForSound(ctx context.Context, q database.Querier, soundID uuid.UUID) error
}

type postgresTagRepository struct{}

func NewPostgresTagRepository() TagRepository {
	return &postgresTagRepository{}
}

func (r *postgresTagRepository) Ensure(ctx context.Context, q database.Querier, tags []string) ([]uuid.UUID, error) {
	query := `
		INSERT INTO tags (slug, display)
		VALUES ($1, $2)
		ON CONFLICT (slug)
		DO UPDATE SET display = EXCLUDED.display
		RETURNING id
	`

	var ids []uuid.UUID
	for _, tag := range tags {
		slug := utils.Slugify(tag)
		if slug == "" {
			continue
		}

		var id uuid.UUID
		if err := q.QueryRow(ctx, query, slug, tag).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to ensure tag %q: %w", slug, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *postgresTagRepository) Attach(ctx context.Context, q database.Querier, soundID uuid.UUID, tags []string) error {
	ids, err := r.Ensure(ctx, q, tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sound_tags (sound_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	for _, tagID := range ids {
		if _, err := q.Exec(ctx, query, soundID, tagID); err != nil {
			return fmt.Errorf("failed to attach tag: %w", err)
		}
	}

	return nil
}

func (r *postgresTagRepository) ClearForSound(ctx context.Context, q database.Querier, soundID uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM sound_tags WHERE sound_id = $1`, soundID); err != nil {
		return fmt.Errorf("failed to clear sound tags: %w", err)
	}
	return nil
}
