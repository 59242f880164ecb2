package project

import (
	"testing"

	verrors "github.com/example/tokenvault/internal/errors"
	"github.com/example/tokenvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAsset_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreateProject("with assets", "", testState())
	require.NoError(t, err)

	payload := []byte("png bytes")
	a, err := svc.AddAsset(p.ID, models.AssetIcon, "imp", "imp.png", "image/png", payload)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), a.SizeBytes)
	assert.Equal(t, BlobHash(payload), a.ContentHash)

	data, err := svc.AssetData(a.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestAddAsset_EmptyPayload(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreateProject("empty asset", "", testState())
	require.NoError(t, err)

	_, err = svc.AddAsset(p.ID, models.AssetIcon, "", "x.png", "image/png", nil)
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.ErrInvalidRequest))
}

func TestAddAsset_MissingProject(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddAsset("nope", models.AssetIcon, "", "x.png", "image/png", []byte("data"))
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.ErrNotFound))
}

func TestAddAsset_IdenticalPayloadsShareBlob(t *testing.T) {
	svc := newTestService(t)

	p1, err := svc.CreateProject("p1", "", testState())
	require.NoError(t, err)
	p2, err := svc.CreateProject("p2", "", testState())
	require.NoError(t, err)

	payload := []byte("same bytes")
	a1, err := svc.AddAsset(p1.ID, models.AssetIcon, "", "a.png", "image/png", payload)
	require.NoError(t, err)
	a2, err := svc.AddAsset(p2.ID, models.AssetIcon, "", "b.png", "image/png", payload)
	require.NoError(t, err)
	assert.Equal(t, a1.ContentHash, a2.ContentHash)

	count, err := svc.blobs.RefCount(a1.ContentHash)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Removing one reference keeps the other project's copy readable.
	require.NoError(t, svc.DeleteAsset(a1.ID))
	data, err := svc.AssetData(a2.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestSweepBlobs(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreateProject("swept", "", testState())
	require.NoError(t, err)
	a, err := svc.AddAsset(p.ID, models.AssetUpload, "", "keep.bin", "application/octet-stream", []byte("keep"))
	require.NoError(t, err)

	// An orphan blob with no asset row, as left behind by a crash between
	// a cascade commit and its blob releases.
	orphan, err := svc.blobs.Put([]byte("orphan"))
	require.NoError(t, err)

	removed, err := svc.SweepBlobs()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	data, err := svc.AssetData(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), data)

	gone, err := svc.blobs.Get(orphan)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
