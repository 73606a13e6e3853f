package job

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"kodiboard-backend/internal/domains/sound/repository"
	"kodiboard-backend/internal/infrastructure/database"
	"kodiboard-backend/internal/infrastructure/storage"
	"kodiboard-backend/pkg/logger"
)

// OrphanSweepPayload is the (currently empty) task payload.
type OrphanSweepPayload struct{}

// orphanGrace shields in-flight uploads: a blob is written before its row is
// inserted, so a blob younger than this may simply not have a row yet.
const orphanGrace = time.Hour

// BlobStore is the slice of the storage adapter the sweep needs.
type BlobStore interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// SessionDB is the slice of the session binder the sweep needs. The sweep owns
// no identity; it reads across all owners under service scope.
type SessionDB interface {
	WithServiceScope(ctx context.Context, fn func(q database.Querier) error) error
}

// OrphanSweepHandler reclaims blobs whose sounds row is gone: the debris left
// by a database failure after a successful upload.
type OrphanSweepHandler struct {
	db     SessionDB
	sounds repository.SoundRepository
	store  BlobStore
}

func NewOrphanSweepHandler(db SessionDB, sounds repository.SoundRepository, store BlobStore) *OrphanSweepHandler {
	return &OrphanSweepHandler{
		db:     db,
		sounds: sounds,
		store:  store,
	}
}

// ProcessTask lists every stored blob, checks which sound ids still have a
// row, and deletes the rest. Keys follow {owner_id}/{sound_id}/{file}; keys
// that don't parse are left alone.
func (h *OrphanSweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	objects, err := h.store.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list storage objects: %w", err)
	}

	// Group candidate keys by the sound id embedded in them.
	candidates := make(map[uuid.UUID][]string)
	for _, obj := range objects {
		if time.Since(obj.LastModified) < orphanGrace {
			continue
		}

		parts := strings.SplitN(obj.Key, "/", 3)
		if len(parts) < 3 {
			continue
		}
		soundID, err := uuid.Parse(parts[1])
		if err != nil {
			continue
		}
		candidates[soundID] = append(candidates[soundID], obj.Key)
	}

	if len(candidates) == 0 {
		logger.Info("Orphan blob sweep: nothing to check", map[string]interface{}{
			"objects_scanned": len(objects),
		})
		return nil
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}

	var existing map[uuid.UUID]bool
	err = h.db.WithServiceScope(ctx, func(q database.Querier) error {
		var err error
		existing, err = h.sounds.ExistingIDs(ctx, q, ids)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to check sound rows: %w", err)
	}

	removed := 0
	for id, keys := range candidates {
		if existing[id] {
			continue
		}
		for _, key := range keys {
			if err := h.store.Delete(ctx, key); err != nil {
				// Keep sweeping; the next run picks this one up again.
				logger.Error("Failed to delete orphan blob", err)
				continue
			}
			removed++
		}
	}

	logger.Info("Orphan blob sweep complete", map[string]interface{}{
		"objects_scanned": len(objects),
		"blobs_removed":   removed,
	})
	return nil
}
