package version

import (
	"path/filepath"
	"testing"
	"time"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
	"github.com/example/tokenvault/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewManager(st), st
}

func newTestProject(t *testing.T, st *store.Store) *models.Project {
	t.Helper()
	now := time.Now().UTC()
	state := &models.State{
		Characters: []models.Character{{ID: "imp", Name: "Imp"}},
	}
	p := &models.Project{
		ID:         models.NewID(),
		Name:       "test project",
		State:      state,
		Stats:      state.ComputeStats(),
		SchemaVer:  1,
		CreatedAt:  now,
		UpdatedAt:  now,
		AccessedAt: now,
	}
	require.NoError(t, st.InsertProject(p))
	return p
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    models.SemVer
		wantErr bool
	}{
		{"1.0.0", models.SemVer{Major: 1}, false},
		{"2.3", models.SemVer{Major: 2, Minor: 3}, false},
		{"0.0.1", models.SemVer{Patch: 1}, false},
		{"10.20.30", models.SemVer{Major: 10, Minor: 20, Patch: 30}, false},
		{"v1.0", models.SemVer{}, true},
		{"1", models.SemVer{}, true},
		{"1.x", models.SemVer{}, true},
		{"1.0.0.0", models.SemVer{}, true},
		{"1.0-beta", models.SemVer{}, true},
		{"", models.SemVer{}, true},
	}
	for _, tt := range tests {
		sv, err := Parse(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.input)
			assert.True(t, verrors.Is(err, verrors.ErrInvalidVersion), "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, sv, "input %q", tt.input)
	}
}

func TestCreate_CapturesDeepCopy(t *testing.T) {
	m, st := newTestManager(t)
	p := newTestProject(t, st)

	v, err := m.Create(p.ID, "1.0", p.State, "initial", []string{"release"})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v.Version)
	assert.Equal(t, "initial", v.Notes)

	// Mutating the live state must not leak into the stored version.
	p.State.Characters[0].Name = "Mutated"

	got, err := m.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Imp", got.State.Characters[0].Name)
}

func TestCreate_InvalidVersion(t *testing.T) {
	m, st := newTestManager(t)
	p := newTestProject(t, st)

	_, err := m.Create(p.ID, "not-a-version", p.State, "", nil)
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.ErrInvalidVersion))
}

func TestHistory_SemanticOrder(t *testing.T) {
	m, st := newTestManager(t)
	p := newTestProject(t, st)

	for _, s := range []string{"1.2", "1.10", "0.9.9"} {
		_, err := m.Create(p.ID, s, p.State, "", nil)
		require.NoError(t, err)
	}

	history, err := m.History(p.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "1.10.0", history[0].Version)
	assert.Equal(t, "1.2.0", history[1].Version)
	assert.Equal(t, "0.9.9", history[2].Version)
}

func TestExists(t *testing.T) {
	m, st := newTestManager(t)
	p := newTestProject(t, st)

	_, err := m.Create(p.ID, "1.0", p.State, "", nil)
	require.NoError(t, err)

	exists, err := m.Exists(p.ID, models.SemVer{Major: 1})
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = m.Exists(p.ID, models.SemVer{Major: 2})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSuggestNext(t *testing.T) {
	m, st := newTestManager(t)
	p := newTestProject(t, st)

	// No versions yet: the starting point is always 1.0.0.
	next, err := m.SuggestNext(p.ID, models.IncrementPatch)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", next)

	_, err = m.Create(p.ID, "1.2.3", p.State, "", nil)
	require.NoError(t, err)

	tests := []struct {
		inc  models.Increment
		want string
	}{
		{models.IncrementPatch, "1.2.4"},
		{models.IncrementMinor, "1.3.0"},
		{models.IncrementMajor, "2.0.0"},
	}
	for _, tt := range tests {
		next, err := m.SuggestNext(p.ID, tt.inc)
		require.NoError(t, err)
		assert.Equal(t, tt.want, next)
	}
}

func TestDelete(t *testing.T) {
	m, st := newTestManager(t)
	p := newTestProject(t, st)

	v, err := m.Create(p.ID, "1.0", p.State, "", nil)
	require.NoError(t, err)

	require.NoError(t, m.Delete(v.ID))

	_, err = m.Get(v.ID)
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.ErrNotFound))

	err = m.Delete(v.ID)
	assert.True(t, verrors.Is(err, verrors.ErrNotFound))
}
