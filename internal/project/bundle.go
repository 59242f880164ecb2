package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
)

// bundleFormatVersion identifies the export bundle layout.
const bundleFormatVersion = 1

// Bundle is the portable export form of one project: the project row, its
// versions, and its assets with inlined payload bytes. Snapshots are
// recovery data and stay local.
type Bundle struct {
	FormatVersion int               `json:"format_version"`
	ExportedAt    time.Time         `json:"exported_at"`
	Project       *models.Project   `json:"project"`
	Versions      []*models.Version `json:"versions,omitempty"`
	Assets        []BundleAsset     `json:"assets,omitempty"`
}

// BundleAsset carries an asset row plus its payload bytes (base64 in the
// JSON form).
type BundleAsset struct {
	Asset *models.Asset `json:"asset"`
	Data  []byte        `json:"data"`
}

// ExportProject writes a project bundle to path.
func (s *Service) ExportProject(projectID, path string) error {
	p, err := s.store.GetProject(projectID)
	if err != nil {
		return err
	}
	versions, err := s.store.ListVersions(projectID)
	if err != nil {
		return err
	}
	assets, err := s.store.ListAssets(projectID, "")
	if err != nil {
		return err
	}

	bundle := Bundle{
		FormatVersion: bundleFormatVersion,
		ExportedAt:    time.Now().UTC(),
		Project:       p,
		Versions:      versions,
	}
	for _, a := range assets {
		data, err := s.blobs.Get(a.ContentHash)
		if err != nil {
			return err
		}
		bundle.Assets = append(bundle.Assets, BundleAsset{Asset: a, Data: data})
	}

	out, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize bundle: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	return nil
}

// ImportProject reads a bundle from path and creates a new project from
// it, with fresh ids throughout; version and asset history are carried
// over, snapshots are not.
func (s *Service) ImportProject(path string) (*models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, verrors.NewInvalidRequest(fmt.Sprintf("not a valid bundle: %v", err))
	}
	if bundle.FormatVersion != bundleFormatVersion {
		return nil, verrors.NewInvalidRequest(
			fmt.Sprintf("unsupported bundle format version %d", bundle.FormatVersion))
	}
	if bundle.Project == nil {
		return nil, verrors.NewInvalidRequest("bundle has no project")
	}

	p, err := s.CreateProject(bundle.Project.Name, bundle.Project.Description, bundle.Project.State)
	if err != nil {
		return nil, err
	}
	if bundle.Project.Notes != "" || len(bundle.Project.Tags) > 0 || bundle.Project.Color != "" {
		notes, color := bundle.Project.Notes, bundle.Project.Color
		tags := bundle.Project.Tags
		p, err = s.UpdateProject(p.ID, Update{Notes: &notes, Tags: &tags, Color: &color})
		if err != nil {
			return nil, err
		}
	}

	for _, v := range bundle.Versions {
		nv := *v
		nv.ID = models.NewID()
		nv.ProjectID = p.ID
		if err := s.store.InsertVersion(&nv); err != nil {
			return nil, err
		}
	}

	for _, ba := range bundle.Assets {
		if ba.Asset == nil || len(ba.Data) == 0 {
			continue
		}
		if _, err := s.AddAsset(p.ID, ba.Asset.Kind, ba.Asset.CharacterID,
			ba.Asset.Name, ba.Asset.MimeType, ba.Data); err != nil {
			return nil, err
		}
	}
	return p, nil
}
