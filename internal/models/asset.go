package models

import "time"

// AssetKind distinguishes the stored asset tables' record families.
type AssetKind string

const (
	AssetIcon   AssetKind = "icon"
	AssetUpload AssetKind = "upload"
)

// Asset is the metadata row for a stored binary (custom icon or generic
// upload). The payload bytes live in the blob store keyed by ContentHash;
// deleting the owning project removes the row and releases the blob ref.
type Asset struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Kind        AssetKind `json:"kind"`
	CharacterID string    `json:"character_id,omitempty"`
	Name        string    `json:"name,omitempty"`
	MimeType    string    `json:"mime_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
}
