package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"kodiboard-backend/internal/domains/profile/model"
	"kodiboard-backend/internal/infrastructure/database"
)

type postgresProfileRepository struct{}

func NewPostgresProfileRepository() ProfileRepository {
	return &postgresProfileRepository{}
}

// =====================================================
// UPSERT (fill-only)
// =====================================================

func (r *postgresProfileRepository) Upsert(ctx context.Context, q database.Querier, profile *model.Profile) error {
	// COALESCE(NULLIF(existing, ''), new) keeps any non-empty value already
	// present; concurrent first-logins for the same identity both land on the
	// same row via ON CONFLICT (id).
	query := `
		INSERT INTO profiles (id, handle, display_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET handle = COALESCE(profiles.handle, EXCLUDED.handle),
		    display_name = COALESCE(NULLIF(profiles.display_name, ''), EXCLUDED.display_name),
		    avatar_url = COALESCE(NULLIF(profiles.avatar_url, ''), EXCLUDED.avatar_url)
	`

	_, err := q.Exec(ctx, query,
		profile.ID,
		profile.Handle,
		profile.DisplayName,
		profile.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresProfileRepository) GetByID(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT id, handle, display_name, avatar_url
		FROM profiles
		WHERE id = $1
	`

	profile := &model.Profile{}
	err := q.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Handle,
		&profile.DisplayName,
		&profile.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// =====================================================
// BATCH GET
// =====================================================

func (r *postgresProfileRepository) GetByIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]*model.Profile, error) {
	result := make(map[uuid.UUID]*model.Profile)
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id, handle, display_name, avatar_url
		FROM profiles
		WHERE id = ANY($1)
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to batch get profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		profile := &model.Profile{}
		if err := rows.Scan(
			&profile.ID,
			&profile.Handle,
			&profile.DisplayName,
			&profile.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		result[profile.ID] = profile
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return result, nil
}
