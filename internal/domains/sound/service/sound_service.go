package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	profileModel "kodiboard-backend/internal/domains/profile/model"
	profileService "kodiboard-backend/internal/domains/profile/service"
	"kodiboard-backend/internal/domains/sound/model"
	"kodiboard-backend/internal/domains/sound/repository"
	tagRepository "kodiboard-backend/internal/domains/tag/repository"
	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/internal/shared/utils"
)

type soundService struct {
	db       SessionDB
	sounds   repository.SoundRepository
	tags     tagRepository.TagRepository
	store    ObjectStore
	profiles profileService.Service
}

func NewSoundService(
	db SessionDB,
	sounds repository.SoundRepository,
	tags tagRepository.TagRepository,
	store ObjectStore,
	profiles profileService.Service,
) Service {
	return &soundService{
		db:       db,
		sounds:   sounds,
		tags:     tags,
		store:    store,
		profiles: profiles,
	}
}

// =====================================================
// SEARCH
// =====================================================

func (s *soundService) Search(ctx context.Context, scope database.Scope, params model.SearchParams) ([]model.SoundDTO, error) {
	var rows []*model.Sound

	err := s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		var err error
		rows, err = s.sounds.Search(ctx, q, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.Decorate(ctx, rows)
}

// =====================================================
// CREATE (upload-then-insert)
// =====================================================

func (s *soundService) Create(ctx context.Context, scope database.Scope, input model.CreateSoundInput) (*model.SoundDTO, error) {
	// Step 1: Resolve the display name; the filename is the fallback.
	displayName := strings.TrimSpace(input.Name)
	if displayName == "" {
		displayName = input.FileName
	}
	if displayName == "" {
		return nil, model.ErrNameRequired
	}

	// Step 2: Build the storage key, namespaced by owner and a fresh id.
	soundID := uuid.New()
	fileName := input.FileName
	if fileName == "" {
		fileName = displayName
	}
	storagePath := fmt.Sprintf("%s/%s/%s", scope.UserID, soundID, utils.SafeFileName(fileName))

	// Step 3: Upload BEFORE the insert, so a storage failure never leaves an
	// orphaned row. The inverse failure (insert fails after upload) can
	// orphan a blob; the maintenance sweep reclaims those.
	if err := s.store.Upload(ctx, storagePath, input.Data, input.ContentType); err != nil {
		return nil, model.NewUpstreamError("Storage upload failed.", err)
	}

	privacy := model.NormalizePrivacy(input.Privacy)
	tagList := utils.NormalizeTags(input.Tags)

	sound := &model.Sound{
		ID:          soundID,
		OwnerID:     scope.UserID,
		Name:        displayName,
		Description: optional(input.Description),
		StoragePath: storagePath,
		SizeBytes:   int64(len(input.Data)),
		Format:      optional(input.ContentType),
		Privacy:     privacy,
	}

	// Step 4: Insert row + tag associations under the caller's scope.
	err := s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		if err := s.sounds.Insert(ctx, q, sound); err != nil {
			return err
		}
		return s.tags.Attach(ctx, q, soundID, tagList)
	})
	if err != nil {
		return nil, err
	}

	// Step 5: Assemble the response with a fresh signed URL.
	signedURL, err := s.store.SignedURL(ctx, storagePath)
	if err != nil {
		return nil, model.NewUpstreamError("Failed to sign storage URL.", err)
	}

	creators, err := s.profiles.Lookup(ctx, []uuid.UUID{scope.UserID})
	if err != nil {
		return nil, err
	}

	dto := mapSoundDTO(sound, signedURL, creators[scope.UserID])
	dto.Tags = tagList
	return &dto, nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *soundService) Update(ctx context.Context, scope database.Scope, id uuid.UUID, req model.UpdateSoundRequest) error {
	var privacy *string
	if req.Privacy != nil {
		p := model.NormalizePrivacy(*req.Privacy)
		privacy = &p
	}

	return s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		// Existence check doubles as the RLS visibility check.
		if _, err := s.sounds.Get(ctx, q, id); err != nil {
			return err
		}

		if err := s.sounds.UpdateMeta(ctx, q, id, req.Name, privacy); err != nil {
			return err
		}

		if req.Tags != nil {
			if err := s.tags.ClearForSound(ctx, q, id); err != nil {
				return err
			}
			return s.tags.Attach(ctx, q, id, utils.NormalizeTags(*req.Tags))
		}
		return nil
	})
}

// =====================================================
// DELETE (row first, then blob)
// =====================================================

func (s *soundService) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	var storagePath string

	err := s.db.WithUserScope(ctx, scope, func(q database.Querier) error {
		sound, err := s.sounds.Get(ctx, q, id)
		if err != nil {
			return err
		}
		storagePath = sound.StoragePath
		return s.sounds.Delete(ctx, q, id)
	})
	if err != nil {
		return err
	}

	// The row is gone; a failure here leaves an orphaned blob for the sweep.
	if err := s.store.Delete(ctx, storagePath); err != nil {
		return model.NewUpstreamError("Storage delete failed.", err)
	}
	return nil
}

// =====================================================
// DECORATION
// =====================================================

func (s *soundService) Decorate(ctx context.Context, sounds []*model.Sound) ([]model.SoundDTO, error) {
	ownerIDs := make([]uuid.UUID, 0, len(sounds))
	for _, sound := range sounds {
		ownerIDs = append(ownerIDs, sound.OwnerID)
	}

	creators, err := s.profiles.Lookup(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]model.SoundDTO, 0, len(sounds))
	for _, sound := range sounds {
		signedURL, err := s.store.SignedURL(ctx, sound.StoragePath)
		if err != nil {
			return nil, model.NewUpstreamError("Failed to sign storage URL.", err)
		}
		dtos = append(dtos, mapSoundDTO(sound, signedURL, creators[sound.OwnerID]))
	}

	return dtos, nil
}

func mapSoundDTO(sound *model.Sound, signedURL string, creator *profileModel.ProfileDTO) model.SoundDTO {
	tags := sound.Tags
	if tags == nil {
		tags = []string{}
	}

	var createdAt *string
	if sound.CreatedAt != nil {
		formatted := sound.CreatedAt.Format(time.RFC3339)
		createdAt = &formatted
	}

	return model.SoundDTO{
		ID:              sound.ID.String(),
		Name:            sound.Name,
		URL:             signedURL,
		Tags:            tags,
		Privacy:         sound.Privacy,
		DurationSeconds: sound.DurationSeconds,
		CreatedAt:       createdAt,
		OwnerID:         sound.OwnerID.String(),
		Creator:         creator,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
