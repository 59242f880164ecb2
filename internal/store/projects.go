package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
)

// ListOptions controls project listing.
type ListOptions struct {
	// Sort is one of "updated" (default), "created", "accessed", "name".
	Sort string
	// NameFilter keeps only projects whose name contains the substring
	// (case-insensitive).
	NameFilter string
	Limit      int
	Offset     int
}

const projectColumns = `id, name, description, notes, state, schema_version,
	stats_characters, stats_tokens, stats_icons,
	tags_json, color, thumbnail_json,
	created_at, updated_at, accessed_at`

// InsertProject stores a new project row.
func (s *Store) InsertProject(p *models.Project) error {
	state, err := marshalState(p.State)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	tagsJSON, err := marshalOptional(p.Tags)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	thumbJSON, err := marshalOptional(p.Thumbnail)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}

	_, err = s.db.Exec(`
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, nullString(p.Description), nullString(p.Notes), state, p.SchemaVer,
		p.Stats.Characters, p.Stats.Tokens, p.Stats.Icons,
		tagsJSON, nullString(p.Color), thumbJSON,
		millis(p.CreatedAt), millis(p.UpdatedAt), millis(p.AccessedAt))
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	return nil
}

// GetProject retrieves a project by ID, including its full state.
func (s *Store) GetProject(id string) (*models.Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, verrors.NewNotFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return p, nil
}

// UpdateProject replaces the mutable fields of an existing project row.
// updated_at is clamped so it never moves backwards.
func (s *Store) UpdateProject(p *models.Project) error {
	state, err := marshalState(p.State)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	tagsJSON, err := marshalOptional(p.Tags)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	thumbJSON, err := marshalOptional(p.Thumbnail)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}

	result, err := s.db.Exec(`
		UPDATE projects
		SET name = ?, description = ?, notes = ?, state = ?, schema_version = ?,
			stats_characters = ?, stats_tokens = ?, stats_icons = ?,
			tags_json = ?, color = ?, thumbnail_json = ?,
			updated_at = MAX(updated_at, ?), accessed_at = ?
		WHERE id = ?
	`, p.Name, nullString(p.Description), nullString(p.Notes), state, p.SchemaVer,
		p.Stats.Characters, p.Stats.Tokens, p.Stats.Icons,
		tagsJSON, nullString(p.Color), thumbJSON,
		millis(p.UpdatedAt), millis(p.AccessedAt), p.ID)
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return verrors.NewSaveFailed(err)
	}
	if affected == 0 {
		return verrors.NewNotFound("project", p.ID)
	}
	return nil
}

// TouchAccessed records that a project was opened.
func (s *Store) TouchAccessed(id string, at time.Time) error {
	_, err := s.db.Exec(`UPDATE projects SET accessed_at = ? WHERE id = ?`, millis(at), id)
	return err
}

// ListProjects returns project rows ordered and filtered per opts. State
// payloads are not loaded for listings; use GetProject for the full row.
func (s *Store) ListProjects(opts ListOptions) ([]*models.Project, error) {
	order := "updated_at DESC"
	switch opts.Sort {
	case "created":
		order = "created_at DESC"
	case "accessed":
		order = "accessed_at DESC"
	case "name":
		order = "name COLLATE NOCASE ASC"
	}

	query := `SELECT id, name, description, notes, schema_version,
		stats_characters, stats_tokens, stats_icons,
		tags_json, color, thumbnail_json,
		created_at, updated_at, accessed_at
		FROM projects`
	args := []any{}
	if opts.NameFilter != "" {
		query += ` WHERE name LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(opts.NameFilter)+"%")
	}
	query += " ORDER BY " + order
	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var (
			p                       models.Project
			desc, notes, color      sql.NullString
			tagsJSON, thumbJSON     sql.NullString
			created, updated, accessed int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &desc, &notes, &p.SchemaVer,
			&p.Stats.Characters, &p.Stats.Tokens, &p.Stats.Icons,
			&tagsJSON, &color, &thumbJSON,
			&created, &updated, &accessed); err != nil {
			return nil, err
		}
		p.Description = desc.String
		p.Notes = notes.String
		p.Color = color.String
		if err := unmarshalOptional(tagsJSON, &p.Tags); err != nil {
			return nil, err
		}
		if err := unmarshalOptional(thumbJSON, &p.Thumbnail); err != nil {
			return nil, err
		}
		p.CreatedAt = fromMillis(created)
		p.UpdatedAt = fromMillis(updated)
		p.AccessedAt = fromMillis(accessed)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// CountProjects returns the total number of project rows.
func (s *Store) CountProjects() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}

func scanProject(row *sql.Row) (*models.Project, error) {
	var (
		p                          models.Project
		desc, notes, color         sql.NullString
		tagsJSON, thumbJSON        sql.NullString
		state                      string
		created, updated, accessed int64
	)
	err := row.Scan(&p.ID, &p.Name, &desc, &notes, &state, &p.SchemaVer,
		&p.Stats.Characters, &p.Stats.Tokens, &p.Stats.Icons,
		&tagsJSON, &color, &thumbJSON,
		&created, &updated, &accessed)
	if err != nil {
		return nil, err
	}
	p.Description = desc.String
	p.Notes = notes.String
	p.Color = color.String
	if err := unmarshalOptional(tagsJSON, &p.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalOptional(thumbJSON, &p.Thumbnail); err != nil {
		return nil, err
	}
	st, err := unmarshalState(state)
	if err != nil {
		return nil, err
	}
	p.State = st
	p.CreatedAt = fromMillis(created)
	p.UpdatedAt = fromMillis(updated)
	p.AccessedAt = fromMillis(accessed)
	return &p, nil
}

// marshalState serializes a project state to its opaque JSON column form.
func marshalState(st *models.State) (string, error) {
	if st == nil {
		st = &models.State{}
	}
	data, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("failed to serialize state: %w", err)
	}
	return string(data), nil
}

func unmarshalState(data string) (*models.State, error) {
	var st models.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("failed to parse stored state: %w", err)
	}
	return &st, nil
}

func marshalOptional(v any) (sql.NullString, error) {
	if isNilish(v) {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalOptional(ns sql.NullString, out any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), out)
}

func isNilish(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case []string:
		return len(t) == 0
	case *models.Thumbnail:
		return t == nil
	}
	return false
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
