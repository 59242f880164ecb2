package store

import (
	"database/sql"
	"fmt"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
)

// InsertSnapshot stores a new auto-save snapshot.
func (s *Store) InsertSnapshot(snap *models.Snapshot) error {
	state, err := marshalState(snap.State)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (id, project_id, state, created_at)
		VALUES (?, ?, ?, ?)
	`, snap.ID, snap.ProjectID, state, millis(snap.CreatedAt))
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot by ID.
func (s *Store) GetSnapshot(id string) (*models.Snapshot, error) {
	var (
		snap    models.Snapshot
		state   string
		created int64
	)
	err := s.db.QueryRow(`
		SELECT id, project_id, state, created_at FROM snapshots WHERE id = ?
	`, id).Scan(&snap.ID, &snap.ProjectID, &state, &created)
	if err == sql.ErrNoRows {
		return nil, verrors.NewNotFound("snapshot", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	st, err := unmarshalState(state)
	if err != nil {
		return nil, err
	}
	snap.State = st
	snap.CreatedAt = fromMillis(created)
	return &snap, nil
}

// ListSnapshots returns all snapshots for a project, newest first. ULID
// ids break ties between same-millisecond writes.
func (s *Store) ListSnapshots(projectID string) ([]*models.Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, state, created_at
		FROM snapshots
		WHERE project_id = ?
		ORDER BY created_at DESC, id DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*models.Snapshot
	for rows.Next() {
		var (
			snap    models.Snapshot
			state   string
			created int64
		)
		if err := rows.Scan(&snap.ID, &snap.ProjectID, &state, &created); err != nil {
			return nil, err
		}
		st, err := unmarshalState(state)
		if err != nil {
			return nil, err
		}
		snap.State = st
		snap.CreatedAt = fromMillis(created)
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}

// CountSnapshots returns the number of snapshots stored for a project.
func (s *Store) CountSnapshots(projectID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE project_id = ?`, projectID).Scan(&count)
	return count, err
}

// PruneSnapshots deletes all but the keep most-recent snapshots for a
// project. The subquery selects survivors by (created_at, id) descending,
// so a snapshot written immediately before the prune is never a victim.
func (s *Store) PruneSnapshots(projectID string, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	result, err := s.db.Exec(`
		DELETE FROM snapshots
		WHERE project_id = ? AND id NOT IN (
			SELECT id FROM snapshots
			WHERE project_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`, projectID, projectID, keep)
	if err != nil {
		return 0, err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// DeleteSnapshot removes a single snapshot.
func (s *Store) DeleteSnapshot(id string) error {
	result, err := s.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return verrors.NewNotFound("snapshot", id)
	}
	return nil
}
