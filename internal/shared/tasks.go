package shared

// Task type names shared between the scheduler and the worker mux.
const (
	TypeSweepOrphanBlobs = "maintenance:sweep_orphan_blobs"
)

// Queue names.
const (
	QueueMaintenance = "maintenance"
)
