package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kodiboard-backend/internal/domains/profile/model"
	"kodiboard-backend/internal/domains/profile/repository"
	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/internal/shared/utils"
	"kodiboard-backend/pkg/token"
)

// SessionDB is the slice of the session binder this service uses.
type SessionDB interface {
	WithServiceScope(ctx context.Context, fn func(q database.Querier) error) error
}

type profileService struct {
	db          SessionDB
	profileRepo repository.ProfileRepository
}

func NewProfileService(db SessionDB, profileRepo repository.ProfileRepository) Service {
	return &profileService{
		db:          db,
		profileRepo: profileRepo,
	}
}

// =====================================================
// ENSURE PROFILE
// =====================================================

func (s *profileService) EnsureProfile(ctx context.Context, userID uuid.UUID, claims *token.Claims) error {
	displayName, avatarURL := displayDataFromClaims(claims)
	handle := DeriveHandle(userID, displayName, claims.EmailAddress())

	profile := &model.Profile{
		ID:          userID,
		Handle:      &handle,
		DisplayName: optional(displayName),
		AvatarURL:   optional(avatarURL),
	}

	// Service scope: the row may not be visible to the caller yet (it does not
	// exist), and the upsert must run regardless of row policies.
	return s.db.WithServiceScope(ctx, func(q database.Querier) error {
		if err := s.profileRepo.Upsert(ctx, q, profile); err != nil {
			return fmt.Errorf("failed to ensure profile: %w", err)
		}
		return nil
	})
}

// DeriveHandle builds a URL-safe handle from the best available display data,
// suffixed with the first six characters of the subject id so two distinct
// identities can never collide.
func DeriveHandle(userID uuid.UUID, displayName, email string) string {
	base := displayName
	if base == "" && email != "" {
		base = emailLocalPart(email)
	}

	slug := utils.Slugify(base)
	if slug == "" {
		slug = "creator"
	}

	return slug + "-" + userID.String()[:6]
}

// displayDataFromClaims picks display name and avatar from the identity
// provider's metadata, in preference order.
func displayDataFromClaims(claims *token.Claims) (displayName, avatarURL string) {
	for _, key := range []string{"full_name", "name", "preferred_username", "user_name"} {
		if v := claims.MetaString(key); v != "" {
			displayName = v
			break
		}
	}
	if displayName == "" {
		if email := claims.EmailAddress(); email != "" {
			displayName = emailLocalPart(email)
		}
	}

	avatarURL = claims.MetaString("avatar_url")
	if avatarURL == "" {
		avatarURL = claims.MetaString("picture")
	}

	return displayName, avatarURL
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// =====================================================
// LOOKUPS (service scope)
// =====================================================

func (s *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*model.ProfileDTO, error) {
	var dto *model.ProfileDTO

	err := s.db.WithServiceScope(ctx, func(q database.Querier) error {
		profile, err := s.profileRepo.GetByID(ctx, q, id)
		if err != nil {
			return err
		}
		dto = profile.ToDTO()
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return model.PlaceholderDTO(id), nil
		}
		return nil, err
	}

	return dto, nil
}

func (s *profileService) Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.ProfileDTO, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if id != uuid.Nil && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	result := make(map[uuid.UUID]*model.ProfileDTO)
	if len(unique) == 0 {
		return result, nil
	}

	err := s.db.WithServiceScope(ctx, func(q database.Querier) error {
		profiles, err := s.profileRepo.GetByIDs(ctx, q, unique)
		if err != nil {
			return err
		}
		for id, p := range profiles {
			result[id] = p.ToDTO()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
