package store

import (
	"database/sql"
	"fmt"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
)

const assetColumns = `id, project_id, kind, character_id, name, mime_type,
	size_bytes, content_hash, created_at`

// InsertAsset stores a new asset metadata row. The payload bytes are the
// blob store's concern; only the content hash is recorded here.
func (s *Store) InsertAsset(a *models.Asset) error {
	_, err := s.db.Exec(`
		INSERT INTO assets (`+assetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.ProjectID, string(a.Kind), nullString(a.CharacterID),
		nullString(a.Name), nullString(a.MimeType),
		a.SizeBytes, a.ContentHash, millis(a.CreatedAt))
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	return nil
}

// GetAsset retrieves an asset by ID.
func (s *Store) GetAsset(id string) (*models.Asset, error) {
	row := s.db.QueryRow(`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	a, err := scanAsset(row.Scan)
	if err == sql.ErrNoRows {
		return nil, verrors.NewNotFound("asset", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}
	return a, nil
}

// ListAssets returns a project's assets of the given kind, served by the
// (kind, project_id) index. An empty kind returns all of them.
func (s *Store) ListAssets(projectID string, kind models.AssetKind) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE kind = ? AND project_id = ?`
	args := []any{string(kind), projectID}
	if kind == "" {
		query = `SELECT ` + assetColumns + ` FROM assets WHERE project_id = ?`
		args = []any{projectID}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// FindAssetsByHash returns all asset rows referencing a content hash,
// across projects. Used for dedup checks before blob uploads.
func (s *Store) FindAssetsByHash(contentHash string) ([]*models.Asset, error) {
	rows, err := s.db.Query(`SELECT `+assetColumns+` FROM assets WHERE content_hash = ?`, contentHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// DeleteAsset removes a single asset row and returns its content hash so
// the caller can release the blob reference.
func (s *Store) DeleteAsset(id string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT content_hash FROM assets WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", verrors.NewNotFound("asset", id)
	}
	if err != nil {
		return "", err
	}
	if _, err := s.db.Exec(`DELETE FROM assets WHERE id = ?`, id); err != nil {
		return "", err
	}
	return hash, nil
}

// DeleteProjectCascade transactionally removes a project and every
// snapshot, version, and asset row referencing it. It returns the content
// hashes of the removed assets; the caller releases those blob references
// after the commit (blob bytes are secondary, refcounted data).
func (s *Store) DeleteProjectCascade(projectID string) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, verrors.NewStorageUnavailable(err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT 1 FROM projects WHERE id = ?`, projectID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, verrors.NewNotFound("project", projectID)
	}
	if err != nil {
		return nil, err
	}

	// Collect asset hashes inside the transaction so the returned set
	// matches exactly the rows being deleted.
	rows, err := tx.Query(`SELECT content_hash FROM assets WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, err
	}
	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			rows.Close()
			return nil, err
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, stmt := range []string{
		`DELETE FROM assets WHERE project_id = ?`,
		`DELETE FROM versions WHERE project_id = ?`,
		`DELETE FROM snapshots WHERE project_id = ?`,
		`DELETE FROM projects WHERE id = ?`,
	} {
		if _, err := tx.Exec(stmt, projectID); err != nil {
			return nil, fmt.Errorf("cascade delete failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("cascade delete failed: %w", err)
	}
	return hashes, nil
}

func scanAsset(scan func(...any) error) (*models.Asset, error) {
	var (
		a                        models.Asset
		kind                     string
		charID, name, mime       sql.NullString
		created                  int64
	)
	err := scan(&a.ID, &a.ProjectID, &kind, &charID, &name, &mime,
		&a.SizeBytes, &a.ContentHash, &created)
	if err != nil {
		return nil, err
	}
	a.Kind = models.AssetKind(kind)
	a.CharacterID = charID.String
	a.Name = name.String
	a.MimeType = mime.String
	a.CreatedAt = fromMillis(created)
	return &a, nil
}
