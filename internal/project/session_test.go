package project

import (
	"testing"

	"github.com/example/tokenvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_SaveNowPersistsRowAndSnapshot(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreateProject("session", "", testState())
	require.NoError(t, err)

	sess, err := svc.OpenSession(p.ID)
	require.NoError(t, err)
	defer sess.Close()

	st := testState()
	st.Characters[0].Ability = "Each night, choose a player: they die."
	sess.SetState(st)
	require.NoError(t, sess.SaveNow())

	status := sess.Status()
	assert.Equal(t, models.SaveSaved, status.State)
	assert.False(t, status.Dirty)
	require.NotNil(t, status.LastSavedAt)

	got, err := svc.GetProject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Each night, choose a player: they die.", got.State.Characters[0].Ability)

	snaps, err := svc.Store().ListSnapshots(p.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "Each night, choose a player: they die.", snaps[0].State.Characters[0].Ability)
}

func TestSession_SnapshotsPrunedToKeepLimit(t *testing.T) {
	svc := newTestService(t) // SnapshotKeep is 3

	p, err := svc.CreateProject("pruned", "", testState())
	require.NoError(t, err)

	sess, err := svc.OpenSession(p.ID)
	require.NoError(t, err)
	defer sess.Close()

	for i := 0; i < 5; i++ {
		st := testState()
		st.ScriptMeta.Author = string(rune('a' + i))
		sess.SetState(st)
		require.NoError(t, sess.SaveNow())
	}

	count, err := svc.Store().CountSnapshots(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// The retained snapshots are the newest ones.
	snaps, err := svc.Store().ListSnapshots(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "e", snaps[0].State.ScriptMeta.Author)
	assert.Equal(t, "c", snaps[2].State.ScriptMeta.Author)
}

func TestSession_RestoreFromSnapshot(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreateProject("restore", "", testState())
	require.NoError(t, err)

	sess, err := svc.OpenSession(p.ID)
	require.NoError(t, err)
	defer sess.Close()

	// Save the Imp state, then move to a Poisoner state.
	require.NoError(t, sess.SaveNow())
	snaps, err := svc.Store().ListSnapshots(p.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	impSnapshot := snaps[0]

	st := testState()
	st.Characters[0] = models.Character{ID: "poisoner", Name: "Poisoner", Team: "minion"}
	sess.SetState(st)
	require.NoError(t, sess.SaveNow())

	got, err := svc.GetProject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Poisoner", got.State.Characters[0].Name)

	// Restore the earlier snapshot; working state and stored row roll back.
	require.NoError(t, sess.RestoreFromSnapshot(impSnapshot.ID))
	assert.Equal(t, "Imp", sess.State().Characters[0].Name)

	got, err = svc.GetProject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Imp", got.State.Characters[0].Name)

	// The snapshot itself survives the restore.
	_, err = svc.Store().GetSnapshot(impSnapshot.ID)
	require.NoError(t, err)
}

func TestSession_RestoreFromVersion(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreateProject("restorev", "", testState())
	require.NoError(t, err)
	v, err := svc.Versions().Create(p.ID, "1.0", p.State, "checkpoint", nil)
	require.NoError(t, err)

	sess, err := svc.OpenSession(p.ID)
	require.NoError(t, err)
	defer sess.Close()

	st := testState()
	st.Characters[0].Name = "Changed"
	sess.SetState(st)
	require.NoError(t, sess.SaveNow())

	require.NoError(t, sess.RestoreFromVersion(v.ID))
	assert.Equal(t, "Imp", sess.State().Characters[0].Name)
}

func TestSession_StateIsolation(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreateProject("isolated", "", testState())
	require.NoError(t, err)

	sess, err := svc.OpenSession(p.ID)
	require.NoError(t, err)
	defer sess.Close()

	// Mutating the state passed to SetState after the call must not affect
	// the session's working copy.
	st := testState()
	sess.SetState(st)
	st.Characters[0].Name = "Mutated"
	assert.Equal(t, "Imp", sess.State().Characters[0].Name)
}

func TestOpenSession_MissingProject(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.OpenSession("nope")
	require.Error(t, err)
}
