// Package project implements the service facade that the rest of the
// application calls: project CRUD, restore, duplication, asset handling,
// export/import, and auto-save session wiring.
package project

import (
	"sync"
	"time"

	"github.com/example/tokenvault/internal/blob"
	"github.com/example/tokenvault/internal/config"
	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
	"github.com/example/tokenvault/internal/store"
	"github.com/example/tokenvault/internal/version"
)

// Service is the single entry point for project persistence.
type Service struct {
	cfg      *config.Config
	store    *store.Store
	blobs    *blob.Store
	versions *version.Manager

	// One-shot initial-load gate. Concurrent callers coordinate through
	// the state enum instead of racing duplicate loads.
	initMu    sync.Mutex
	initState loadState
	initDone  chan struct{}
	initList  []*models.Project
	initErr   error
}

type loadState int

const (
	loadNotStarted loadState = iota
	loadInFlight
	loadDone
)

// Open opens the vault's stores and returns the service.
func Open(cfg *config.Config) (*Service, error) {
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	blobs, err := blob.Open(cfg.BlobPath())
	if err != nil {
		st.Close()
		return nil, verrors.NewStorageUnavailable(err)
	}
	return &Service{
		cfg:      cfg,
		store:    st,
		blobs:    blobs,
		versions: version.NewManager(st),
		initDone: make(chan struct{}),
	}, nil
}

// Close releases the underlying stores.
func (s *Service) Close() {
	if s.store != nil {
		s.store.Close()
	}
	if s.blobs != nil {
		s.blobs.Close()
	}
}

// Store exposes the underlying store for read-side collaborators.
func (s *Service) Store() *store.Store {
	return s.store
}

// Versions exposes the version manager.
func (s *Service) Versions() *version.Manager {
	return s.versions
}

// Config returns the vault configuration in effect.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// EnsureLoaded performs the initial project-list load exactly once.
// Concurrent callers wait for the in-flight load; a failed load resets
// the gate so a later call can retry.
func (s *Service) EnsureLoaded() ([]*models.Project, error) {
	s.initMu.Lock()
	switch s.initState {
	case loadDone:
		list, err := s.initList, s.initErr
		s.initMu.Unlock()
		return list, err
	case loadInFlight:
		done := s.initDone
		s.initMu.Unlock()
		<-done
		s.initMu.Lock()
		list, err := s.initList, s.initErr
		s.initMu.Unlock()
		return list, err
	}
	s.initState = loadInFlight
	done := s.initDone
	s.initMu.Unlock()

	list, err := s.ListProjects(store.ListOptions{})

	s.initMu.Lock()
	s.initList, s.initErr = list, err
	if err != nil {
		// Allow retry on the next call.
		s.initState = loadNotStarted
		s.initDone = make(chan struct{})
	} else {
		s.initState = loadDone
	}
	close(done)
	s.initMu.Unlock()
	return list, err
}

// CreateProject stores a new project whose initial state is a deep copy
// of the supplied working state.
func (s *Service) CreateProject(name, description string, state *models.State) (*models.Project, error) {
	if name == "" {
		return nil, verrors.NewInvalidRequest("project name must not be empty")
	}
	st := state.Clone()
	if st == nil {
		st = &models.State{}
	}
	now := time.Now().UTC()
	p := &models.Project{
		ID:          models.NewID(),
		Name:        name,
		Description: description,
		State:       st,
		Stats:       st.ComputeStats(),
		SchemaVer:   1,
		CreatedAt:   now,
		UpdatedAt:   now,
		AccessedAt:  now,
	}
	if err := s.store.InsertProject(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject loads a project with its full state and records the access.
func (s *Service) GetProject(id string) (*models.Project, error) {
	p, err := s.store.GetProject(id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.store.TouchAccessed(id, now); err == nil {
		p.AccessedAt = now
	}
	return p, nil
}

// ListProjects lists project rows (without state payloads).
func (s *Service) ListProjects(opts store.ListOptions) ([]*models.Project, error) {
	return s.store.ListProjects(opts)
}

// Update describes a partial project update. Supplied fields replace the
// stored value wholesale; in particular State is never deep-merged, the
// caller supplies the fully merged object.
type Update struct {
	Name        *string
	Description *string
	Notes       *string
	State       *models.State
	Tags        *[]string
	Color       *string
	Thumbnail   **models.Thumbnail
}

// UpdateProject applies an Update and bumps the modification time.
func (s *Service) UpdateProject(id string, u Update) (*models.Project, error) {
	p, err := s.store.GetProject(id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		if *u.Name == "" {
			return nil, verrors.NewInvalidRequest("project name must not be empty")
		}
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	if u.State != nil {
		p.State = u.State.Clone()
		p.Stats = p.State.ComputeStats()
	}
	if u.Tags != nil {
		p.Tags = *u.Tags
	}
	if u.Color != nil {
		p.Color = *u.Color
	}
	if u.Thumbnail != nil {
		p.Thumbnail = *u.Thumbnail
	}
	now := time.Now().UTC()
	p.UpdatedAt = now
	p.AccessedAt = now
	if err := s.store.UpdateProject(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject cascade-deletes a project and all of its snapshots,
// versions, and assets, then releases the deleted assets' blob
// references. The relational rows are removed atomically; blob bytes are
// secondary data released after the commit.
func (s *Service) DeleteProject(id string) error {
	hashes, err := s.store.DeleteProjectCascade(id)
	if err != nil {
		return err
	}
	for _, h := range hashes {
		_ = s.blobs.Release(h)
	}
	return nil
}

// DuplicateProject creates a new project whose initial state is a deep
// copy of the source's current state, with fresh id and timestamps.
func (s *Service) DuplicateProject(id string) (*models.Project, error) {
	src, err := s.store.GetProject(id)
	if err != nil {
		return nil, err
	}
	copyName := src.Name + " (copy)"
	dup, err := s.CreateProject(copyName, src.Description, src.State)
	if err != nil {
		return nil, err
	}

	// Duplicate asset rows so the copy owns its references; the blob
	// bytes are shared via refcount.
	assets, err := s.store.ListAssets(id, "")
	if err != nil {
		return nil, err
	}
	for _, a := range assets {
		if err := s.blobs.Retain(a.ContentHash); err != nil {
			return nil, verrors.NewSaveFailed(err)
		}
		na := *a
		na.ID = models.NewID()
		na.ProjectID = dup.ID
		na.CreatedAt = time.Now().UTC()
		if err := s.store.InsertAsset(&na); err != nil {
			_ = s.blobs.Release(a.ContentHash)
			return nil, err
		}
	}
	return dup, nil
}

// RestoreFromVersion overwrites the project's current state with the
// version's captured state. The version itself is untouched.
func (s *Service) RestoreFromVersion(projectID, versionID string) (*models.Project, error) {
	v, err := s.store.GetVersion(versionID)
	if err != nil {
		return nil, err
	}
	if v.ProjectID != projectID {
		return nil, verrors.NewInvalidRequest("version does not belong to this project")
	}
	return s.applyRestore(projectID, v.State)
}

// RestoreFromSnapshot overwrites the project's current state with the
// snapshot's captured state. The snapshot itself is untouched.
func (s *Service) RestoreFromSnapshot(projectID, snapshotID string) (*models.Project, error) {
	snap, err := s.store.GetSnapshot(snapshotID)
	if err != nil {
		return nil, err
	}
	if snap.ProjectID != projectID {
		return nil, verrors.NewInvalidRequest("snapshot does not belong to this project")
	}
	return s.applyRestore(projectID, snap.State)
}

func (s *Service) applyRestore(projectID string, state *models.State) (*models.Project, error) {
	p, err := s.store.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	p.State = state.Clone()
	p.Stats = p.State.ComputeStats()
	now := time.Now().UTC()
	p.UpdatedAt = now
	p.AccessedAt = now
	if err := s.store.UpdateProject(p); err != nil {
		return nil, err
	}
	return p, nil
}
