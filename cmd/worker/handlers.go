package main

import (
	"github.com/hibiken/asynq"

	soundJob "kodiboard-backend/internal/domains/sound/job"
	"kodiboard-backend/internal/shared"
	"kodiboard-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	orphanSweep *soundJob.OrphanSweepHandler
}

// initializeHandlers creates all job handlers with their dependencies.
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		orphanSweep: soundJob.NewOrphanSweepHandler(c.DB, c.SoundRepo, c.Storage),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSweepOrphanBlobs, h.orphanSweep.ProcessTask)
}
