package project

import (
	"os"
	"path/filepath"
	"testing"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreateProject("exported", "a script", testState())
	require.NoError(t, err)
	notes := "shared notes"
	tags := []string{"tb"}
	_, err = svc.UpdateProject(p.ID, Update{Notes: &notes, Tags: &tags})
	require.NoError(t, err)

	_, err = svc.Versions().Create(p.ID, "1.0", p.State, "first", nil)
	require.NoError(t, err)
	_, err = svc.AddAsset(p.ID, models.AssetIcon, "imp", "imp.png", "image/png", []byte("icon data"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, svc.ExportProject(p.ID, path))

	imported, err := svc.ImportProject(path)
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, imported.ID)
	assert.Equal(t, "exported", imported.Name)
	assert.Equal(t, "a script", imported.Description)
	assert.Equal(t, "shared notes", imported.Notes)
	assert.Equal(t, []string{"tb"}, imported.Tags)

	got, err := svc.GetProject(imported.ID)
	require.NoError(t, err)
	assert.Equal(t, "Imp", got.State.Characters[0].Name)

	versions, err := svc.Versions().List(imported.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "1.0.0", versions[0].Version)

	assets, err := svc.ListAssets(imported.ID, "")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	data, err := svc.AssetData(assets[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("icon data"), data)

	// Snapshots are local recovery data and never travel in bundles.
	count, err := svc.Store().CountSnapshots(imported.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestImport_InvalidFile(t *testing.T) {
	svc := newTestService(t)

	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := svc.ImportProject(path)
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.ErrInvalidRequest))
}

func TestImport_UnsupportedFormatVersion(t *testing.T) {
	svc := newTestService(t)

	path := filepath.Join(t.TempDir(), "future.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format_version": 99}`), 0600))

	_, err := svc.ImportProject(path)
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.ErrInvalidRequest))
}

func TestImport_MissingFile(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ImportProject(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
