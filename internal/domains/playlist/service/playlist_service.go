package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/playlist/model"
	"kodiboard-backend/internal/domains/playlist/repository"
	profileService "kodiboard-backend/internal/domains/profile/service"
	soundModel "kodiboard-backend/internal/domains/sound/model"
	soundRepository "kodiboard-backend/internal/domains/sound/repository"
	soundService "kodiboard-backend/internal/domains/sound/service"
	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/pkg/logger"
)

// =============================================================================
// PLAYLIST SERVICE
// =============================================================================

type playlistService struct {
	db        SessionDB
	playlists repository.PlaylistRepository
	soundRows soundRepository.SoundRepository
	sounds    soundService.Service
	profiles  profileService.Service
	salt      string
}

// NewPlaylistService creates the playlist service. The salt keys the
// share-token digest and must stay stable across deploys, or every issued
// link dies.
func NewPlaylistService(
	db SessionDB,
	playlists repository.PlaylistRepository,
	soundRows soundRepository.SoundRepository,
	sounds soundService.Service,
	profiles profileService.Service,
	salt string,
) Service {
	return &playlistService{
		db:        db,
		playlists: playlists,
		soundRows: soundRows,
		sounds:    sounds,
		profiles:  profiles,
		salt:      salt,
	}
}

func (s *playlistService) List(ctx context.Context, scope database.Scope) ([]model.PlaylistDTO, error) {
	var rows []*model.Playlist
	err := s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		var err error
		rows, err = s.playlists.List(ctx, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	return s.decorate(ctx, rows)
}

func (s *playlistService) ListByOwner(ctx context.Context, scope database.Scope, ownerID uuid.UUID) ([]model.PlaylistDTO, error) {
	var rows []*model.Playlist
	err := s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		var err error
		rows, err = s.playlists.ListByOwner(ctx, q, ownerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists by owner: %w", err)
	}

	return s.decorate(ctx, rows)
}

func (s *playlistService) Create(ctx context.Context, scope database.Scope, req model.CreatePlaylistRequest) (*model.PlaylistDTO, error) {
	plaintext, err := NewShareToken()
	if err != nil {
		return nil, err
	}

	playlist := &model.Playlist{
		ID:             uuid.New(),
		OwnerID:        scope.UserID,
		Name:           req.Name,
		Description:    req.Description,
		Privacy:        soundModel.NormalizePrivacy(req.Privacy),
		ShareTokenHash: HashShareToken(s.salt, plaintext),
	}

	err = s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		return s.playlists.Insert(ctx, q, playlist)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	logger.Info("Playlist created", map[string]interface{}{
		"playlist_id": playlist.ID.String(),
		"owner_id":    playlist.OwnerID.String(),
	})

	dto := playlist.ToDTO()
	dto.ShareToken = plaintext // returned exactly once
	return &dto, nil
}

func (s *playlistService) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*model.PlaylistDetail, error) {
	var (
		playlist *model.Playlist
		members  []*soundModel.Sound
	)
	err := s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		var err error
		if playlist, err = s.playlists.Get(ctx, q, id); err != nil {
			return err
		}
		members, err = s.playlists.ListSounds(ctx, q, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.detail(ctx, playlist, members)
}

func (s *playlistService) Update(ctx context.Context, scope database.Scope, id uuid.UUID, req model.UpdatePlaylistRequest) (*model.PlaylistDTO, error) {
	privacy := req.Privacy
	if privacy != nil {
		normalized := soundModel.NormalizePrivacy(*privacy)
		privacy = &normalized
	}

	var updated *model.Playlist
	err := s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		var err error
		updated, err = s.playlists.Update(ctx, q, id, req.Name, req.Description, privacy)
		return err
	})
	if err != nil {
		return nil, err
	}

	dto := updated.ToDTO()
	return &dto, nil
}

func (s *playlistService) RotateShareToken(ctx context.Context, scope database.Scope, id uuid.UUID) (string, error) {
	plaintext, err := NewShareToken()
	if err != nil {
		return "", err
	}

	err = s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		return s.playlists.SetShareTokenHash(ctx, q, id, HashShareToken(s.salt, plaintext))
	})
	if err != nil {
		return "", err
	}

	logger.Info("Share token rotated", map[string]interface{}{"playlist_id": id.String()})
	return plaintext, nil
}

// GetByShareToken runs under service scope: a share link is its own
// capability, so the lookup must not depend on who (if anyone) is calling.
func (s *playlistService) GetByShareToken(ctx context.Context, plaintext string) (*model.PlaylistDetail, error) {
	hash := HashShareToken(s.salt, plaintext)

	var (
		playlist *model.Playlist
		members  []*soundModel.Sound
	)
	err := s.db.WithServiceScope(ctx, func(q database.Querier) error {
		var err error
		if playlist, err = s.playlists.GetByShareTokenHash(ctx, q, hash); err != nil {
			return err
		}
		members, err = s.playlists.ListSounds(ctx, q, playlist.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.detail(ctx, playlist, members)
}

func (s *playlistService) AddSound(ctx context.Context, scope database.Scope, playlistID, soundID uuid.UUID) error {
	return s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		// Distinguish "playlist missing" from "sound missing" before the
		// insert, so the handler can 404 with the right message.
		if _, err := s.playlists.Get(ctx, q, playlistID); err != nil {
			return err
		}
		if _, err := s.soundRows.Get(ctx, q, soundID); err != nil {
			return err
		}
		return s.playlists.AddSound(ctx, q, playlistID, soundID)
	})
}

func (s *playlistService) RemoveSound(ctx context.Context, scope database.Scope, playlistID, soundID uuid.UUID) error {
	return s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		if _, err := s.playlists.Get(ctx, q, playlistID); err != nil {
			return err
		}
		return s.playlists.RemoveSound(ctx, q, playlistID, soundID)
	})
}

func (s *playlistService) Reorder(ctx context.Context, scope database.Scope, playlistID uuid.UUID, soundIDs []uuid.UUID) error {
	return s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		if _, err := s.playlists.Get(ctx, q, playlistID); err != nil {
			return err
		}
		for i, soundID := range soundIDs {
			if err := s.playlists.SetPosition(ctx, q, playlistID, soundID, i+1); err != nil {
				return fmt.Errorf("failed to reorder playlist: %w", err)
			}
		}
		return nil
	})
}

// =============================================================================
// DECORATION
// =============================================================================

// decorate attaches creator profiles to a batch of playlist rows.
func (s *playlistService) decorate(ctx context.Context, rows []*model.Playlist) ([]model.PlaylistDTO, error) {
	ownerIDs := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		if !seen[row.OwnerID] {
			seen[row.OwnerID] = true
			ownerIDs = append(ownerIDs, row.OwnerID)
		}
	}

	creators, err := s.profiles.Lookup(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]model.PlaylistDTO, 0, len(rows))
	for _, row := range rows {
		dto := row.ToDTO()
		dto.Creator = creators[row.OwnerID]
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// detail assembles the full playlist view: decorated header plus member
// sounds with fresh signed URLs.
func (s *playlistService) detail(ctx context.Context, playlist *model.Playlist, members []*soundModel.Sound) (*model.PlaylistDetail, error) {
	dtos, err := s.decorate(ctx, []*model.Playlist{playlist})
	if err != nil {
		return nil, err
	}

	soundDTOs, err := s.sounds.Decorate(ctx, members)
	if err != nil {
		return nil, err
	}

	header := dtos[0]
	header.SoundCount = len(soundDTOs)
	return &model.PlaylistDetail{
		Playlist: header,
		Sounds:   soundDTOs,
	}, nil
}
