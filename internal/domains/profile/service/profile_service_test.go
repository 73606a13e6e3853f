package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodiboard-backend/internal/domains/profile/model"
	"kodiboard-backend/internal/domains/profile/repository"
	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/pkg/token"
)

func TestDeriveHandle(t *testing.T) {
	userID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")

	tests := []struct {
		name        string
		displayName string
		email       string
		want        string
	}{
		{"from display name", "Alex Example", "", "alex-example-a1b2c3"},
		{"from email local part", "", "alex.example@mail.com", "alex-example-a1b2c3"},
		{"fallback when nothing usable", "", "", "creator-a1b2c3"},
		{"junk-only display name", "!!!", "", "creator-a1b2c3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveHandle(userID, tt.displayName, tt.email))
		})
	}
}

// Two distinct identities never derive the same handle, even with identical
// display data: the subject-id suffix disambiguates.
func TestDeriveHandleDistinctIdentities(t *testing.T) {
	a := DeriveHandle(uuid.New(), "Same Name", "")
	b := DeriveHandle(uuid.New(), "Same Name", "")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "same-name-"))
	assert.True(t, strings.HasPrefix(b, "same-name-"))
}

func TestDisplayDataFromClaims(t *testing.T) {
	tests := []struct {
		name       string
		claims     *token.Claims
		wantName   string
		wantAvatar string
	}{
		{
			name: "full_name wins",
			claims: &token.Claims{UserMetadata: map[string]interface{}{
				"full_name": "Full Name",
				"name":      "Short Name",
			}},
			wantName: "Full Name",
		},
		{
			name: "name over usernames",
			claims: &token.Claims{UserMetadata: map[string]interface{}{
				"name":      "Short Name",
				"user_name": "shortie",
			}},
			wantName: "Short Name",
		},
		{
			name:     "email local part last",
			claims:   &token.Claims{Email: "alex@example.com"},
			wantName: "alex",
		},
		{
			name: "picture fallback for avatar",
			claims: &token.Claims{UserMetadata: map[string]interface{}{
				"picture": "https://cdn.example.com/a.png",
			}},
			wantAvatar: "https://cdn.example.com/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotAvatar := displayDataFromClaims(tt.claims)
			assert.Equal(t, tt.wantName, gotName)
			assert.Equal(t, tt.wantAvatar, gotAvatar)
		})
	}
}

// =====================================================
// FAKES
// =====================================================

// fakeSessionDB hands the callback a nil Querier; the fake repos ignore it.
type fakeSessionDB struct{}

func (fakeSessionDB) WithServiceScope(ctx context.Context, fn func(q database.Querier) error) error {
	return fn(nil)
}

type fakeProfileRepo struct {
	upserts  []*model.Profile
	profiles map[uuid.UUID]*model.Profile
}

var _ repository.ProfileRepository = (*fakeProfileRepo)(nil)

// Upsert mirrors the fill-only merge the real statement performs: existing
// non-empty values win over the incoming ones.
func (f *fakeProfileRepo) Upsert(ctx context.Context, q database.Querier, p *model.Profile) error {
	f.upserts = append(f.upserts, p)
	if f.profiles == nil {
		f.profiles = map[uuid.UUID]*model.Profile{}
	}
	existing, ok := f.profiles[p.ID]
	if !ok {
		stored := *p
		f.profiles[p.ID] = &stored
		return nil
	}
	if existing.Handle == nil {
		existing.Handle = p.Handle
	}
	if existing.DisplayName == nil || *existing.DisplayName == "" {
		existing.DisplayName = p.DisplayName
	}
	if existing.AvatarURL == nil || *existing.AvatarURL == "" {
		existing.AvatarURL = p.AvatarURL
	}
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, model.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetByIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]*model.Profile, error) {
	result := make(map[uuid.UUID]*model.Profile)
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func TestEnsureProfileUpsertsDerivedData(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := NewProfileService(fakeSessionDB{}, repo)

	userID := uuid.New()
	claims := &token.Claims{
		Email: "alex@example.com",
		UserMetadata: map[string]interface{}{
			"full_name":  "Alex Example",
			"avatar_url": "https://cdn.example.com/alex.png",
		},
	}

	require.NoError(t, svc.EnsureProfile(context.Background(), userID, claims))
	require.Len(t, repo.upserts, 1)

	got := repo.upserts[0]
	assert.Equal(t, userID, got.ID)
	require.NotNil(t, got.Handle)
	assert.Equal(t, "alex-example-"+userID.String()[:6], *got.Handle)
	require.NotNil(t, got.DisplayName)
	assert.Equal(t, "Alex Example", *got.DisplayName)
	require.NotNil(t, got.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/alex.png", *got.AvatarURL)
}

// Re-authenticating with different claims fills gaps but never rewrites what
// a profile already carries.
func TestEnsureProfileKeepsExistingDisplayData(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := NewProfileService(fakeSessionDB{}, repo)

	userID := uuid.New()
	first := &token.Claims{UserMetadata: map[string]interface{}{
		"full_name": "Original Name",
	}}
	require.NoError(t, svc.EnsureProfile(context.Background(), userID, first))

	second := &token.Claims{UserMetadata: map[string]interface{}{
		"full_name":  "Renamed Elsewhere",
		"avatar_url": "https://cdn.example.com/late.png",
	}}
	require.NoError(t, svc.EnsureProfile(context.Background(), userID, second))

	stored := repo.profiles[userID]
	require.NotNil(t, stored)
	require.NotNil(t, stored.DisplayName)
	assert.Equal(t, "Original Name", *stored.DisplayName)
	// The avatar slot was empty, so the second login fills it.
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/late.png", *stored.AvatarURL)
}

func TestGetProfilePlaceholderWhenAbsent(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[uuid.UUID]*model.Profile{}}
	svc := NewProfileService(fakeSessionDB{}, repo)

	id := uuid.New()
	dto, err := svc.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), dto.ID)
	assert.Nil(t, dto.Handle)
}
