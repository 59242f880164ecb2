// Package models defines the persistent record types for tokenvault:
// projects, their working state, auto-save snapshots, manual versions,
// and stored assets.
package models

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Project is the top-level durable entity. Its State is persisted as an
// opaque JSON blob; Stats are recomputed from State on every save.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	State       *State     `json:"state"`
	Stats       Stats      `json:"stats"`
	Tags        []string   `json:"tags,omitempty"`
	Color       string     `json:"color,omitempty"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
	SchemaVer   int        `json:"schema_version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	AccessedAt  time.Time  `json:"accessed_at"`
}

// Stats summarizes a project state for list views.
type Stats struct {
	Characters int `json:"characters"`
	Tokens     int `json:"tokens"`
	Icons      int `json:"icons"`
}

// Thumbnail describes a rendered preview image for a project.
type Thumbnail struct {
	ContentHash string `json:"content_hash"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// ShortID returns a shortened record ID for display (first 8 characters).
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// NewID generates a lexically time-ordered unique record ID.
func NewID() string {
	return ulid.Make().String()
}
