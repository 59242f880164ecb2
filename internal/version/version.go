// Package version implements manual semantic-versioned checkpoints:
// parsing version strings, creating and listing versions, and suggesting
// the next version number.
package version

import (
	"regexp"
	"strconv"
	"time"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
	"github.com/example/tokenvault/internal/store"
)

// semverPattern accepts major.minor with an optional patch. No leading
// "v", no wildcards.
var semverPattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?$`)

// Parse parses a user-supplied version string. Patch defaults to 0 when
// omitted.
func Parse(input string) (models.SemVer, error) {
	m := semverPattern.FindStringSubmatch(input)
	if m == nil {
		return models.SemVer{}, verrors.NewInvalidVersion(input)
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return models.SemVer{}, verrors.NewInvalidVersion(input)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return models.SemVer{}, verrors.NewInvalidVersion(input)
	}
	patch := 0
	if m[3] != "" {
		patch, err = strconv.Atoi(m[3])
		if err != nil {
			return models.SemVer{}, verrors.NewInvalidVersion(input)
		}
	}
	return models.SemVer{Major: major, Minor: minor, Patch: patch}, nil
}

// Manager creates and queries versions through the local store.
type Manager struct {
	store *store.Store
}

// NewManager returns a version manager backed by the given store.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// Create parses versionString and writes a new version row capturing a
// deep copy of state. Duplicate (major, minor, patch) triplets for the
// same project are allowed; use Exists to warn the user first.
func (m *Manager) Create(projectID, versionString string, state *models.State, notes string, tags []string) (*models.Version, error) {
	sv, err := Parse(versionString)
	if err != nil {
		return nil, err
	}

	v := &models.Version{
		ID:        models.NewID(),
		ProjectID: projectID,
		SemVer:    sv,
		Version:   sv.String(),
		State:     state.Clone(),
		Notes:     notes,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.InsertVersion(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Get retrieves a version by ID.
func (m *Manager) Get(versionID string) (*models.Version, error) {
	return m.store.GetVersion(versionID)
}

// List returns a project's versions newest-first by creation time.
func (m *Manager) List(projectID string) ([]*models.Version, error) {
	return m.store.ListVersions(projectID)
}

// History returns a project's versions in descending semantic order, the
// ordering used for history display.
func (m *Manager) History(projectID string) ([]*models.Version, error) {
	return m.store.ListVersionsBySemVer(projectID)
}

// Latest returns the highest semantic version, or nil if none exist.
func (m *Manager) Latest(projectID string) (*models.Version, error) {
	return m.store.LatestVersion(projectID)
}

// Delete removes a single version.
func (m *Manager) Delete(versionID string) error {
	return m.store.DeleteVersion(versionID)
}

// Exists reports whether the project already has a version with the same
// triplet.
func (m *Manager) Exists(projectID string, sv models.SemVer) (bool, error) {
	versions, err := m.store.ListVersionsBySemVer(projectID)
	if err != nil {
		return false, err
	}
	for _, v := range versions {
		if v.SemVer.Compare(sv) == 0 {
			return true, nil
		}
	}
	return false, nil
}

// SuggestNext proposes the next version string: "1.0.0" when the project
// has no versions, otherwise the latest triplet bumped by inc with
// lower-order components reset to zero.
func (m *Manager) SuggestNext(projectID string, inc models.Increment) (string, error) {
	latest, err := m.store.LatestVersion(projectID)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return models.SemVer{Major: 1}.String(), nil
	}
	return latest.SemVer.Bump(inc).String(), nil
}
