package dto

import "time"

// SyncJobResponse acknowledges an enqueued course sync.
type SyncJobResponse struct {
	JobID      string    `json:"job_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
