package models

import "time"

// SaveState is the auto-save status machine's current phase.
type SaveState string

const (
	SaveIdle   SaveState = "idle"
	SaveSaving SaveState = "saving"
	SaveSaved  SaveState = "saved"
	SaveError  SaveState = "error"
)

// AutoSaveStatus is the transient, in-memory save indicator shown to the
// user. Dirty is tracked independently of State: it goes false only after
// a save that covered the latest edits.
type AutoSaveStatus struct {
	State       SaveState  `json:"state"`
	Dirty       bool       `json:"dirty"`
	LastSavedAt *time.Time `json:"last_saved_at,omitempty"`
	Err         string     `json:"error,omitempty"`
}
