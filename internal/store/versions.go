package store

import (
	"database/sql"
	"fmt"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
)

const versionColumns = `id, project_id, major, minor, patch, version, state, notes,
	tags_json, is_published, download_count, network_id, created_at`

// InsertVersion stores a new manual version row. Duplicate semver triplets
// per project are allowed; callers decide whether to warn first.
func (s *Store) InsertVersion(v *models.Version) error {
	state, err := marshalState(v.State)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	tagsJSON, err := marshalOptional(v.Tags)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	_, err = s.db.Exec(`
		INSERT INTO versions (`+versionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.ProjectID, v.SemVer.Major, v.SemVer.Minor, v.SemVer.Patch,
		v.Version, state, nullString(v.Notes), tagsJSON,
		v.IsPublished, v.DownloadCount, nullString(v.NetworkID),
		millis(v.CreatedAt))
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	return nil
}

// GetVersion retrieves a version by ID.
func (s *Store) GetVersion(id string) (*models.Version, error) {
	row := s.db.QueryRow(`SELECT `+versionColumns+` FROM versions WHERE id = ?`, id)
	v, err := scanVersion(row.Scan)
	if err == sql.ErrNoRows {
		return nil, verrors.NewNotFound("version", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load version: %w", err)
	}
	return v, nil
}

// ListVersions returns all versions for a project, newest first by
// creation time.
func (s *Store) ListVersions(projectID string) ([]*models.Version, error) {
	return s.queryVersions(`
		SELECT `+versionColumns+`
		FROM versions
		WHERE project_id = ?
		ORDER BY created_at DESC, id DESC
	`, projectID)
}

// ListVersionsBySemVer returns a project's versions in descending
// (major, minor, patch) order, served by the compound semver index.
func (s *Store) ListVersionsBySemVer(projectID string) ([]*models.Version, error) {
	return s.queryVersions(`
		SELECT `+versionColumns+`
		FROM versions
		WHERE project_id = ?
		ORDER BY major DESC, minor DESC, patch DESC
	`, projectID)
}

// LatestVersion returns the highest semantic version for a project, or
// nil if none exist.
func (s *Store) LatestVersion(projectID string) (*models.Version, error) {
	row := s.db.QueryRow(`
		SELECT `+versionColumns+`
		FROM versions
		WHERE project_id = ?
		ORDER BY major DESC, minor DESC, patch DESC
		LIMIT 1
	`, projectID)
	v, err := scanVersion(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteVersion removes a single version row. Versions own no children,
// so there is no cascade.
func (s *Store) DeleteVersion(id string) error {
	result, err := s.db.Exec(`DELETE FROM versions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return verrors.NewNotFound("version", id)
	}
	return nil
}

// CountVersions returns the number of versions stored for a project.
func (s *Store) CountVersions(projectID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM versions WHERE project_id = ?`, projectID).Scan(&count)
	return count, err
}

func (s *Store) queryVersions(query string, args ...any) ([]*models.Version, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*models.Version
	for rows.Next() {
		v, err := scanVersion(rows.Scan)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func scanVersion(scan func(...any) error) (*models.Version, error) {
	var (
		v                  models.Version
		state              string
		notes, networkID   sql.NullString
		tagsJSON           sql.NullString
		created            int64
	)
	err := scan(&v.ID, &v.ProjectID, &v.SemVer.Major, &v.SemVer.Minor, &v.SemVer.Patch,
		&v.Version, &state, &notes, &tagsJSON,
		&v.IsPublished, &v.DownloadCount, &networkID, &created)
	if err != nil {
		return nil, err
	}
	v.Notes = notes.String
	v.NetworkID = networkID.String
	if err := unmarshalOptional(tagsJSON, &v.Tags); err != nil {
		return nil, err
	}
	st, err := unmarshalState(state)
	if err != nil {
		return nil, err
	}
	v.State = st
	v.CreatedAt = fromMillis(created)
	return &v, nil
}
