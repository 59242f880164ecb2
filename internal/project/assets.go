package project

import (
	"time"

	"github.com/example/tokenvault/internal/blob"
	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
	"github.com/example/tokenvault/internal/store"
)

// AddAsset stores asset payload bytes in the blob store and records the
// metadata row. Identical payloads across projects share one blob copy.
func (s *Service) AddAsset(projectID string, kind models.AssetKind, characterID, name, mimeType string, data []byte) (*models.Asset, error) {
	if len(data) == 0 {
		return nil, verrors.NewInvalidRequest("asset payload must not be empty")
	}
	if _, err := s.store.GetProject(projectID); err != nil {
		return nil, err
	}

	hash, err := s.blobs.Put(data)
	if err != nil {
		return nil, verrors.NewSaveFailed(err)
	}
	a := &models.Asset{
		ID:          models.NewID(),
		ProjectID:   projectID,
		Kind:        kind,
		CharacterID: characterID,
		Name:        name,
		MimeType:    mimeType,
		SizeBytes:   int64(len(data)),
		ContentHash: hash,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertAsset(a); err != nil {
		_ = s.blobs.Release(hash)
		return nil, err
	}
	return a, nil
}

// ListAssets lists a project's asset rows, optionally filtered by kind.
func (s *Service) ListAssets(projectID string, kind models.AssetKind) ([]*models.Asset, error) {
	return s.store.ListAssets(projectID, kind)
}

// AssetData returns an asset's payload bytes.
func (s *Service) AssetData(assetID string) ([]byte, error) {
	a, err := s.store.GetAsset(assetID)
	if err != nil {
		return nil, err
	}
	data, err := s.blobs.Get(a.ContentHash)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, verrors.NewNotFound("blob", a.ContentHash)
	}
	return data, nil
}

// DeleteAsset removes an asset row and releases its blob reference.
func (s *Service) DeleteAsset(assetID string) error {
	hash, err := s.store.DeleteAsset(assetID)
	if err != nil {
		return err
	}
	return s.blobs.Release(hash)
}

// SweepBlobs removes blob entries no asset row references. Asset rows
// are the authoritative metadata; this backs up the refcounting when a
// crash lands between a cascade commit and its blob releases.
func (s *Service) SweepBlobs() (int, error) {
	projects, err := s.store.ListProjects(store.ListOptions{})
	if err != nil {
		return 0, err
	}
	live := make(map[string]bool)
	for _, p := range projects {
		assets, err := s.store.ListAssets(p.ID, "")
		if err != nil {
			return 0, err
		}
		for _, a := range assets {
			live[a.ContentHash] = true
		}
	}
	return s.blobs.Sweep(live)
}

// BlobHash exposes the content hashing used for asset payloads, so
// callers can dedup-check before uploading.
func BlobHash(data []byte) string {
	return blob.Hash(data)
}
