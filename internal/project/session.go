package project

import (
	"sync"
	"time"

	"github.com/example/tokenvault/internal/autosave"
	"github.com/example/tokenvault/internal/models"
)

// Session is an editing session for one active project. It holds the
// in-memory working state and an auto-save orchestrator bound to it; at
// most one save is physically executing per session at any instant.
type Session struct {
	svc  *Service
	auto *autosave.Orchestrator

	mu      sync.Mutex
	project *models.Project
	state   *models.State
}

// OpenSession loads the project and starts its auto-save orchestrator.
// Close the session before opening another for a different project.
func (s *Service) OpenSession(projectID string) (*Session, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		svc:     s,
		project: p,
		state:   p.State.Clone(),
		auto:    autosave.New(time.Duration(s.cfg.DebounceMillis) * time.Millisecond),
	}
	sess.auto.Bind(sess.persist)
	return sess, nil
}

// ProjectID returns the owning project's id.
func (sess *Session) ProjectID() string {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.project.ID
}

// State returns the current working state.
func (sess *Session) State() *models.State {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state
}

// SetState replaces the working state and marks the session dirty,
// scheduling a debounced auto-save.
func (sess *Session) SetState(st *models.State) {
	sess.mu.Lock()
	sess.state = st.Clone()
	sess.mu.Unlock()
	sess.auto.MarkDirty()
}

// MarkDirty schedules a debounced save of the current working state.
func (sess *Session) MarkDirty() {
	sess.auto.MarkDirty()
}

// SaveNow performs an immediate save, coalescing with any in-flight one.
func (sess *Session) SaveNow() error {
	return sess.auto.SaveNow()
}

// Status returns the auto-save status for display.
func (sess *Session) Status() models.AutoSaveStatus {
	return sess.auto.Status()
}

// RestoreFromSnapshot applies a historical snapshot to the live project.
// Pending and in-flight auto-saves are suppressed for the duration so a
// stale save cannot overwrite the restored state.
func (sess *Session) RestoreFromSnapshot(snapshotID string) error {
	sess.auto.Suspend()
	defer sess.auto.Resume()

	p, err := sess.svc.RestoreFromSnapshot(sess.ProjectID(), snapshotID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	sess.project = p
	sess.state = p.State.Clone()
	sess.mu.Unlock()
	return nil
}

// RestoreFromVersion applies a version's state to the live project, with
// the same auto-save suppression as RestoreFromSnapshot.
func (sess *Session) RestoreFromVersion(versionID string) error {
	sess.auto.Suspend()
	defer sess.auto.Resume()

	p, err := sess.svc.RestoreFromVersion(sess.ProjectID(), versionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	sess.project = p
	sess.state = p.State.Clone()
	sess.mu.Unlock()
	return nil
}

// Close cancels pending auto-save work. The in-memory state is not
// flushed; call SaveNow first if the latest edits must be durable.
func (sess *Session) Close() {
	sess.auto.Close()
}

// persist is the bound save operation: write the project row, append a
// snapshot, prune old snapshots. The project row write comes first so a
// failure between the steps can only lose secondary recovery data.
func (sess *Session) persist() error {
	sess.mu.Lock()
	st := sess.state.Clone()
	p := sess.project
	sess.mu.Unlock()

	now := time.Now().UTC()
	p.State = st
	p.Stats = st.ComputeStats()
	p.UpdatedAt = now
	p.AccessedAt = now
	if err := sess.svc.store.UpdateProject(p); err != nil {
		return err
	}

	snap := &models.Snapshot{
		ID:        models.NewID(),
		ProjectID: p.ID,
		State:     st,
		CreatedAt: now,
	}
	if err := sess.svc.store.InsertSnapshot(snap); err != nil {
		return err
	}
	_, err := sess.svc.store.PruneSnapshots(p.ID, sess.svc.cfg.SnapshotKeep)
	return err
}
