package job

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodiboard-backend/internal/domains/sound/model"
	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/internal/infrastructure/storage"
)

func TestOrphanSweep(t *testing.T) {
	owner := uuid.New()
	liveSound := uuid.New()
	deadSound := uuid.New()
	freshOrphan := uuid.New()

	store := &fakeBlobStore{objects: []storage.Object{
		// Blob with a row: kept.
		{Key: key(owner, liveSound), LastModified: time.Now().Add(-2 * time.Hour)},
		// Blob without a row, old enough: reclaimed.
		{Key: key(owner, deadSound), LastModified: time.Now().Add(-2 * time.Hour)},
		// Blob without a row but inside the grace window: kept, the row may
		// still be on its way.
		{Key: key(owner, freshOrphan), LastModified: time.Now().Add(-5 * time.Minute)},
		// Key that doesn't follow the layout: left alone.
		{Key: "stray-file.bin", LastModified: time.Now().Add(-48 * time.Hour)},
	}}

	repo := &fakeSoundRepo{existing: map[uuid.UUID]bool{liveSound: true}}
	handler := NewOrphanSweepHandler(fakeSessionDB{}, repo, store)

	err := handler.ProcessTask(context.Background(), asynq.NewTask("maintenance:sweep_orphan_blobs", nil))
	require.NoError(t, err)

	assert.Equal(t, []string{key(owner, deadSound)}, store.deleted)
}

func TestOrphanSweepNothingToDo(t *testing.T) {
	store := &fakeBlobStore{}
	handler := NewOrphanSweepHandler(fakeSessionDB{}, &fakeSoundRepo{}, store)

	err := handler.ProcessTask(context.Background(), asynq.NewTask("maintenance:sweep_orphan_blobs", nil))
	require.NoError(t, err)
	assert.Empty(t, store.deleted)
}

func key(owner, soundID uuid.UUID) string {
	return owner.String() + "/" + soundID.String() + "/sound.mp3"
}

// =====================================================
// FAKES
// =====================================================

type fakeSessionDB struct{}

func (fakeSessionDB) WithServiceScope(ctx context.Context, fn func(q database.Querier) error) error {
	return fn(nil)
}

type fakeBlobStore struct {
	objects []storage.Object
	deleted []string
}

func (f *fakeBlobStore) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	return f.objects, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

// fakeSoundRepo only implements the sweep's slice of the repository.
type fakeSoundRepo struct {
	existing map[uuid.UUID]bool
}

func (f *fakeSoundRepo) Insert(ctx context.Context, q database.Querier, sound *model.Sound) error {
	return nil
}

func (f *fakeSoundRepo) Search(ctx context.Context, q database.Querier, params model.SearchParams) ([]*model.Sound, error) {
	return nil, nil
}

func (f *fakeSoundRepo) Get(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Sound, error) {
	return nil, model.ErrSoundNotFound
}

func (f *fakeSoundRepo) UpdateMeta(ctx context.Context, q database.Querier, id uuid.UUID, name, privacy *string) error {
	return nil
}

func (f *fakeSoundRepo) Delete(ctx context.Context, q database.Querier, id uuid.UUID) error {
	return nil
}

func (f *fakeSoundRepo) ExistingIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if f.existing[id] {
			result[id] = true
		}
	}
	return result, nil
}
