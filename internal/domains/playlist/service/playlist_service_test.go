package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodiboard-backend/internal/domains/playlist/model"
	"kodiboard-backend/internal/domains/playlist/repository"
	profileModel "kodiboard-backend/internal/domains/profile/model"
	soundModel "kodiboard-backend/internal/domains/sound/model"
	soundRepository "kodiboard-backend/internal/domains/sound/repository"
	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/pkg/token"
)

const testSalt = "unit-test-salt"

// =====================================================
// SHARE TOKEN PRIMITIVES
// =====================================================

func TestNewShareToken(t *testing.T) {
	a, err := NewShareToken()
	require.NoError(t, err)
	b, err := NewShareToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 22) // 16 bytes, base64 raw-url
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}

func TestHashShareToken(t *testing.T) {
	digest := HashShareToken(testSalt, "some-token")

	assert.Equal(t, digest, HashShareToken(testSalt, "some-token"))
	assert.NotEqual(t, digest, HashShareToken("other-salt", "some-token"))
	assert.NotEqual(t, digest, HashShareToken(testSalt, "other-token"))
	assert.Len(t, digest, 64) // hex-encoded sha256
}

// =====================================================
// SERVICE BEHAVIOR (fake repositories)
// =====================================================

func TestCreateMintsShareToken(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newTestService(repo)
	scope := database.UserScope(uuid.New(), "authenticated")

	dto, err := svc.Create(context.Background(), scope, model.CreatePlaylistRequest{Name: "Drops"})
	require.NoError(t, err)
	require.NotEmpty(t, dto.ShareToken)

	// Only the digest is persisted.
	stored := repo.playlists[uuid.MustParse(dto.ID)]
	assert.Equal(t, HashShareToken(testSalt, dto.ShareToken), stored.ShareTokenHash)
	assert.NotContains(t, stored.ShareTokenHash, dto.ShareToken)
}

func TestShareTokenResolvesOnlyWhileLinkOnly(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newTestService(repo)
	scope := database.UserScope(uuid.New(), "authenticated")

	dto, err := svc.Create(context.Background(), scope, model.CreatePlaylistRequest{
		Name:    "Drops",
		Privacy: "link_only",
	})
	require.NoError(t, err)

	detail, err := svc.GetByShareToken(context.Background(), dto.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, detail.Playlist.ID)

	// Flip to private: the same token must stop resolving.
	privacy := "private"
	_, err = svc.Update(context.Background(), scope, uuid.MustParse(dto.ID), model.UpdatePlaylistRequest{Privacy: &privacy})
	require.NoError(t, err)

	_, err = svc.GetByShareToken(context.Background(), dto.ShareToken)
	assert.ErrorIs(t, err, model.ErrShareLinkNotFound)
}

func TestRotateInvalidatesOldToken(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newTestService(repo)
	scope := database.UserScope(uuid.New(), "authenticated")

	dto, err := svc.Create(context.Background(), scope, model.CreatePlaylistRequest{
		Name:    "Drops",
		Privacy: "link_only",
	})
	require.NoError(t, err)
	oldToken := dto.ShareToken

	newToken, err := svc.RotateShareToken(context.Background(), scope, uuid.MustParse(dto.ID))
	require.NoError(t, err)
	require.NotEqual(t, oldToken, newToken)

	_, err = svc.GetByShareToken(context.Background(), oldToken)
	assert.ErrorIs(t, err, model.ErrShareLinkNotFound)

	detail, err := svc.GetByShareToken(context.Background(), newToken)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, detail.Playlist.ID)
}

// Reorder assigns 1-based positions following the submitted order; members
// not listed keep their old positions.
func TestReorderPartialOrder(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newTestService(repo)
	scope := database.UserScope(uuid.New(), "authenticated")

	playlistID := uuid.New()
	repo.playlists[playlistID] = &model.Playlist{ID: playlistID, OwnerID: scope.UserID, Name: "Drops"}

	soundA, soundB, soundC := uuid.New(), uuid.New(), uuid.New()
	repo.positions[playlistID] = map[uuid.UUID]int{soundA: 1, soundB: 3, soundC: 2}

	err := svc.Reorder(context.Background(), scope, playlistID, []uuid.UUID{soundC, soundA})
	require.NoError(t, err)

	// C and A follow the submitted order; B was omitted and keeps position 3.
	assert.Equal(t, map[uuid.UUID]int{soundC: 1, soundA: 2, soundB: 3}, repo.positions[playlistID])
}

func TestReorderSkipsNonMembers(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newTestService(repo)
	scope := database.UserScope(uuid.New(), "authenticated")

	playlistID := uuid.New()
	repo.playlists[playlistID] = &model.Playlist{ID: playlistID, OwnerID: scope.UserID, Name: "Drops"}

	member := uuid.New()
	repo.positions[playlistID] = map[uuid.UUID]int{member: 5}

	stranger := uuid.New()
	err := svc.Reorder(context.Background(), scope, playlistID, []uuid.UUID{stranger, member})
	require.NoError(t, err)

	// The stranger got position 1 assigned to nothing; the member landed at 2.
	assert.Equal(t, map[uuid.UUID]int{member: 2}, repo.positions[playlistID])
}

func TestAddSoundChecksBothSides(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newTestService(repo)
	scope := database.UserScope(uuid.New(), "authenticated")

	err := svc.AddSound(context.Background(), scope, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, model.ErrPlaylistNotFound)

	playlistID := uuid.New()
	repo.playlists[playlistID] = &model.Playlist{ID: playlistID, OwnerID: scope.UserID, Name: "Drops"}

	err = svc.AddSound(context.Background(), scope, playlistID, uuid.New())
	assert.ErrorIs(t, err, soundModel.ErrSoundNotFound)
}

func TestAddSoundAppendsAndIgnoresDuplicates(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newTestService(repo)
	scope := database.UserScope(uuid.New(), "authenticated")

	playlistID := uuid.New()
	repo.playlists[playlistID] = &model.Playlist{ID: playlistID, OwnerID: scope.UserID, Name: "Drops"}

	soundID := uuid.New()
	repo.sounds[soundID] = &soundModel.Sound{ID: soundID, OwnerID: scope.UserID, Name: "Horn"}

	require.NoError(t, svc.AddSound(context.Background(), scope, playlistID, soundID))
	assert.Equal(t, 1, repo.positions[playlistID][soundID])

	// Duplicate add is a no-op, position untouched.
	require.NoError(t, svc.AddSound(context.Background(), scope, playlistID, soundID))
	assert.Equal(t, 1, repo.positions[playlistID][soundID])
	assert.Len(t, repo.positions[playlistID], 1)
}

// =====================================================
// FAKES
// =====================================================

func newTestService(repo *fakePlaylistRepo) Service {
	return NewPlaylistService(fakeSessionDB{}, repo, &fakeSoundRepo{sounds: repo.sounds}, fakeSoundService{}, fakeProfileService{}, testSalt)
}

type fakeSessionDB struct{}

func (fakeSessionDB) WithUserScope(ctx context.Context, scope database.Scope, fn func(q database.Querier) error) error {
	return fn(nil)
}

func (fakeSessionDB) WithServiceScope(ctx context.Context, fn func(q database.Querier) error) error {
	return fn(nil)
}

// fakePlaylistRepo is an in-memory stand-in for both the playlist and the
// sound repository.
type fakePlaylistRepo struct {
	playlists map[uuid.UUID]*model.Playlist
	sounds    map[uuid.UUID]*soundModel.Sound
	positions map[uuid.UUID]map[uuid.UUID]int
}

var _ repository.PlaylistRepository = (*fakePlaylistRepo)(nil)

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{
		playlists: make(map[uuid.UUID]*model.Playlist),
		sounds:    make(map[uuid.UUID]*soundModel.Sound),
		positions: make(map[uuid.UUID]map[uuid.UUID]int),
	}
}

func (f *fakePlaylistRepo) List(ctx context.Context, q database.Querier) ([]*model.Playlist, error) {
	var out []*model.Playlist
	for _, p := range f.playlists {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePlaylistRepo) ListByOwner(ctx context.Context, q database.Querier, ownerID uuid.UUID) ([]*model.Playlist, error) {
	var out []*model.Playlist
	for _, p := range f.playlists {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlaylistRepo) Insert(ctx context.Context, q database.Querier, playlist *model.Playlist) error {
	f.playlists[playlist.ID] = playlist
	return nil
}

func (f *fakePlaylistRepo) Get(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Playlist, error) {
	if p, ok := f.playlists[id]; ok {
		return p, nil
	}
	return nil, model.ErrPlaylistNotFound
}

func (f *fakePlaylistRepo) Update(ctx context.Context, q database.Querier, id uuid.UUID, name, description, privacy *string) (*model.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return nil, model.ErrPlaylistNotFound
	}
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = description
	}
	if privacy != nil {
		p.Privacy = *privacy
	}
	return p, nil
}

func (f *fakePlaylistRepo) SetShareTokenHash(ctx context.Context, q database.Querier, id uuid.UUID, hash string) error {
	p, ok := f.playlists[id]
	if !ok {
		return model.ErrPlaylistNotFound
	}
	p.ShareTokenHash = hash
	return nil
}

func (f *fakePlaylistRepo) GetByShareTokenHash(ctx context.Context, q database.Querier, hash string) (*model.Playlist, error) {
	for _, p := range f.playlists {
		if p.ShareTokenHash == hash && p.Privacy == soundModel.PrivacyLinkOnly {
			return p, nil
		}
	}
	return nil, model.ErrShareLinkNotFound
}

func (f *fakePlaylistRepo) ListSounds(ctx context.Context, q database.Querier, playlistID uuid.UUID) ([]*soundModel.Sound, error) {
	var out []*soundModel.Sound
	for soundID := range f.positions[playlistID] {
		if s, ok := f.sounds[soundID]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakePlaylistRepo) AddSound(ctx context.Context, q database.Querier, playlistID, soundID uuid.UUID) error {
	members := f.positions[playlistID]
	if members == nil {
		members = make(map[uuid.UUID]int)
		f.positions[playlistID] = members
	}
	if _, exists := members[soundID]; exists {
		return nil
	}
	max := 0
	for _, pos := range members {
		if pos > max {
			max = pos
		}
	}
	members[soundID] = max + 1
	return nil
}

func (f *fakePlaylistRepo) RemoveSound(ctx context.Context, q database.Querier, playlistID, soundID uuid.UUID) error {
	delete(f.positions[playlistID], soundID)
	return nil
}

func (f *fakePlaylistRepo) SetPosition(ctx context.Context, q database.Querier, playlistID, soundID uuid.UUID, position int) error {
	if members, ok := f.positions[playlistID]; ok {
		if _, member := members[soundID]; member {
			members[soundID] = position
		}
	}
	return nil
}

// fakeSoundRepo shares the sound map with fakePlaylistRepo; AddSound uses it
// for existence checks.
type fakeSoundRepo struct {
	sounds map[uuid.UUID]*soundModel.Sound
}

var _ soundRepository.SoundRepository = (*fakeSoundRepo)(nil)

func (f *fakeSoundRepo) Insert(ctx context.Context, q database.Querier, sound *soundModel.Sound) error {
	f.sounds[sound.ID] = sound
	return nil
}

func (f *fakeSoundRepo) Search(ctx context.Context, q database.Querier, params soundModel.SearchParams) ([]*soundModel.Sound, error) {
	return nil, nil
}

func (f *fakeSoundRepo) Get(ctx context.Context, q database.Querier, id uuid.UUID) (*soundModel.Sound, error) {
	if s, ok := f.sounds[id]; ok {
		return s, nil
	}
	return nil, soundModel.ErrSoundNotFound
}

func (f *fakeSoundRepo) UpdateMeta(ctx context.Context, q database.Querier, id uuid.UUID, name, privacy *string) error {
	return nil
}

func (f *fakeSoundRepo) Delete(ctx context.Context, q database.Querier, id uuid.UUID) error {
	delete(f.sounds, id)
	return nil
}

func (f *fakeSoundRepo) ExistingIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if _, ok := f.sounds[id]; ok {
			result[id] = true
		}
	}
	return result, nil
}

type fakeSoundService struct{}

func (fakeSoundService) Search(ctx context.Context, scope database.Scope, params soundModel.SearchParams) ([]soundModel.SoundDTO, error) {
	return nil, nil
}

func (fakeSoundService) Create(ctx context.Context, scope database.Scope, input soundModel.CreateSoundInput) (*soundModel.SoundDTO, error) {
	return nil, nil
}

func (fakeSoundService) Update(ctx context.Context, scope database.Scope, id uuid.UUID, req soundModel.UpdateSoundRequest) error {
	return nil
}

func (fakeSoundService) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	return nil
}

func (fakeSoundService) Decorate(ctx context.Context, sounds []*soundModel.Sound) ([]soundModel.SoundDTO, error) {
	dtos := make([]soundModel.SoundDTO, 0, len(sounds))
	for _, s := range sounds {
		dtos = append(dtos, soundModel.SoundDTO{ID: s.ID.String(), Name: s.Name})
	}
	return dtos, nil
}

type fakeProfileService struct{}

func (fakeProfileService) EnsureProfile(ctx context.Context, userID uuid.UUID, claims *token.Claims) error {
	return nil
}

func (fakeProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*profileModel.ProfileDTO, error) {
	return profileModel.PlaceholderDTO(id), nil
}

func (fakeProfileService) Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*profileModel.ProfileDTO, error) {
	result := make(map[uuid.UUID]*profileModel.ProfileDTO)
	for _, id := range ids {
		result[id] = profileModel.PlaceholderDTO(id)
	}
	return result, nil
}
