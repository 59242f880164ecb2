package store

import (
	"testing"
	"time"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertAsset(t *testing.T, st *Store, projectID string, kind models.AssetKind, hash string) *models.Asset {
	t.Helper()
	a := &models.Asset{
		ID:          models.NewID(),
		ProjectID:   projectID,
		Kind:        kind,
		Name:        "icon.png",
		MimeType:    "image/png",
		SizeBytes:   42,
		ContentHash: hash,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, st.InsertAsset(a))
	return a
}

func TestAsset_InsertAndGet(t *testing.T) {
	st := newTestStore(t)
	p := sampleProject("assets")
	require.NoError(t, st.InsertProject(p))

	a := insertAsset(t, st, p.ID, models.AssetIcon, "hash-a")

	got, err := st.GetAsset(a.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ProjectID)
	assert.Equal(t, models.AssetIcon, got.Kind)
	assert.Equal(t, "icon.png", got.Name)
	assert.Equal(t, int64(42), got.SizeBytes)
	assert.Equal(t, "hash-a", got.ContentHash)
}

func TestAsset_ListByKind(t *testing.T) {
	st := newTestStore(t)
	p := sampleProject("kinds")
	require.NoError(t, st.InsertProject(p))

	insertAsset(t, st, p.ID, models.AssetIcon, "h1")
	insertAsset(t, st, p.ID, models.AssetIcon, "h2")
	insertAsset(t, st, p.ID, models.AssetUpload, "h3")

	icons, err := st.ListAssets(p.ID, models.AssetIcon)
	require.NoError(t, err)
	assert.Len(t, icons, 2)

	all, err := st.ListAssets(p.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAsset_FindByHash(t *testing.T) {
	st := newTestStore(t)
	p1 := sampleProject("h1")
	p2 := sampleProject("h2")
	require.NoError(t, st.InsertProject(p1))
	require.NoError(t, st.InsertProject(p2))

	insertAsset(t, st, p1.ID, models.AssetIcon, "shared")
	insertAsset(t, st, p2.ID, models.AssetIcon, "shared")
	insertAsset(t, st, p1.ID, models.AssetIcon, "unique")

	found, err := st.FindAssetsByHash("shared")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestAsset_DeleteReturnsHash(t *testing.T) {
	st := newTestStore(t)
	p := sampleProject("adel")
	require.NoError(t, st.InsertProject(p))
	a := insertAsset(t, st, p.ID, models.AssetUpload, "gone")

	hash, err := st.DeleteAsset(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "gone", hash)

	_, err = st.DeleteAsset(a.ID)
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.ErrNotFound))
}

// ==================== Cascade Tests ====================

func TestCascade_RemovesAllChildRows(t *testing.T) {
	st := newTestStore(t)
	p := sampleProject("doomed")
	require.NoError(t, st.InsertProject(p))

	now := time.Now().UTC()
	insertSnapshotAt(t, st, p.ID, now)
	insertSnapshotAt(t, st, p.ID, now.Add(time.Second))
	insertVersion(t, st, p.ID, models.SemVer{Major: 1}, now)
	insertAsset(t, st, p.ID, models.AssetIcon, "blob-1")
	insertAsset(t, st, p.ID, models.AssetUpload, "blob-2")

	hashes, err := st.DeleteProjectCascade(p.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"blob-1", "blob-2"}, hashes)

	_, err = st.GetProject(p.ID)
	assert.True(t, verrors.Is(err, verrors.ErrNotFound))

	snaps, err := st.ListSnapshots(p.ID)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	versions, err := st.ListVersions(p.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	assets, err := st.ListAssets(p.ID, "")
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestCascade_LeavesOtherProjectsAlone(t *testing.T) {
	st := newTestStore(t)
	doomed := sampleProject("doomed")
	kept := sampleProject("kept")
	require.NoError(t, st.InsertProject(doomed))
	require.NoError(t, st.InsertProject(kept))

	now := time.Now().UTC()
	insertSnapshotAt(t, st, kept.ID, now)
	insertVersion(t, st, kept.ID, models.SemVer{Major: 1}, now)
	insertAsset(t, st, kept.ID, models.AssetIcon, "kept-blob")

	_, err := st.DeleteProjectCascade(doomed.ID)
	require.NoError(t, err)

	_, err = st.GetProject(kept.ID)
	require.NoError(t, err)
	count, err := st.CountSnapshots(kept.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCascade_MissingProject(t *testing.T) {
	st := newTestStore(t)

	_, err := st.DeleteProjectCascade("nope")
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.ErrNotFound))
}
