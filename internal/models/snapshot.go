package models

import "time"

// Snapshot is an automatically created recovery copy of a project's state.
// Snapshots are immutable once written and pruned oldest-first; only the
// most recent few per project are retained.
type Snapshot struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	State     *State    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}
