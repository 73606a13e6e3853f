package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"kodiboard-backend/internal/domains/sound/job"
	"kodiboard-backend/internal/shared"
	"kodiboard-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerOrphanBlobSweepJob()
}

// ================================================
// JOB: Sweep Orphan Blobs (Daily at 3 AM UTC)
// ================================================
// Uploads commit the blob before the row, so a crash in between leaves a
// blob with no row. Off-peak daily is plenty for that rate of debris.
func (s *Scheduler) registerOrphanBlobSweepJob() error {
	payload, err := json.Marshal(job.OrphanSweepPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepOrphanBlobs, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *", // Daily at 3 AM
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register SweepOrphanBlobs job", err)
		return err
	}

	logger.Info("✓ Registered SweepOrphanBlobs: daily at 3 AM UTC", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
