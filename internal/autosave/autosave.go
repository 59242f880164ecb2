// Package autosave keeps a durable snapshot of the active project's
// working state reasonably fresh without excessive write volume, and
// exposes a status signal for display.
//
// The orchestrator owns dirty tracking, the debounce timer, and the
// single-flight rule; the actual persistence is a bound save operation
// supplied by the project service, re-bound whenever its dependencies
// change. Callers always invoke the latest bound operation.
package autosave

import (
	"sync"
	"time"

	"github.com/example/tokenvault/internal/models"
)

// SaveFunc performs one save of the current working state: persist the
// project record, write a snapshot, prune old snapshots.
type SaveFunc func() error

// Orchestrator debounces dirty notifications into single-flight saves.
type Orchestrator struct {
	debounce time.Duration

	mu        sync.Mutex
	saveFn    SaveFunc
	timer     *time.Timer
	dirty     bool
	gen       uint64 // edit generation; a save clears dirty only if it covered the latest
	saving    bool
	saveDone  chan struct{}
	suspended bool
	closed    bool
	status    models.AutoSaveStatus
}

// New creates an orchestrator with the given debounce interval.
func New(debounce time.Duration) *Orchestrator {
	return &Orchestrator{
		debounce: debounce,
		status:   models.AutoSaveStatus{State: models.SaveIdle},
	}
}

// Bind sets the current save operation. The previous binding is dropped;
// any save that fires afterwards uses the new one.
func (o *Orchestrator) Bind(fn SaveFunc) {
	o.mu.Lock()
	o.saveFn = fn
	o.mu.Unlock()
}

// MarkDirty records a state mutation and starts or resets the debounce
// timer.
func (o *Orchestrator) MarkDirty() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.dirty = true
	o.gen++
	o.status.Dirty = true
	if o.suspended {
		return
	}
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, func() {
		_ = o.runSave(false)
	})
}

// SaveNow bypasses the debounce timer and performs an immediate save
// attempt. Safe to call while a debounced save is in flight: it waits for
// the in-flight save, then saves again only if newer edits arrived.
func (o *Orchestrator) SaveNow() error {
	o.mu.Lock()
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.mu.Unlock()
	return o.runSave(true)
}

// Status returns a copy of the current save status.
func (o *Orchestrator) Status() models.AutoSaveStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// ClearError dismisses a displayed save error, returning the status to
// idle. The dirty flag is untouched.
func (o *Orchestrator) ClearError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.State == models.SaveError {
		o.status.State = models.SaveIdle
		o.status.Err = ""
	}
}

// Suspend cancels any pending debounce timer and waits out an in-flight
// save. Used immediately before a restore so a stale save cannot
// overwrite the just-restored state; call Resume afterwards.
func (o *Orchestrator) Suspend() {
	o.mu.Lock()
	o.suspended = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	for o.saving {
		done := o.saveDone
		o.mu.Unlock()
		<-done
		o.mu.Lock()
	}
	o.mu.Unlock()
}

// Resume re-enables auto-save after a Suspend. Pending dirty state
// restarts the debounce timer.
func (o *Orchestrator) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || !o.suspended {
		return
	}
	o.suspended = false
	if o.dirty {
		o.timer = time.AfterFunc(o.debounce, func() {
			_ = o.runSave(false)
		})
	}
}

// Close cancels pending work permanently. Used when the owning project
// changes so a late timer cannot write a snapshot against the wrong
// project.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

// runSave enforces single-flight and drives the status machine. For
// explicit saves (wait=true) a concurrent in-flight save is waited out
// and the save re-run only if still dirty; debounce fires coalesce into
// the in-flight save instead.
func (o *Orchestrator) runSave(wait bool) error {
	o.mu.Lock()
	if o.closed || o.suspended {
		o.mu.Unlock()
		return nil
	}
	for o.saving {
		if !wait {
			o.mu.Unlock()
			return nil
		}
		done := o.saveDone
		o.mu.Unlock()
		<-done
		o.mu.Lock()
		if o.closed || o.suspended {
			o.mu.Unlock()
			return nil
		}
		if !o.dirty {
			// The in-flight save already covered the latest state.
			o.mu.Unlock()
			return nil
		}
	}

	gen := o.gen
	fn := o.saveFn
	o.saving = true
	o.saveDone = make(chan struct{})
	o.status.State = models.SaveSaving
	o.mu.Unlock()

	var err error
	if fn != nil {
		err = fn()
	}

	o.mu.Lock()
	o.saving = false
	close(o.saveDone)
	if err != nil {
		o.status.State = models.SaveError
		o.status.Err = err.Error()
	} else {
		now := time.Now().UTC()
		o.status.State = models.SaveSaved
		o.status.LastSavedAt = &now
		o.status.Err = ""
		if o.gen == gen {
			o.dirty = false
			o.status.Dirty = false
		} else if !o.closed && !o.suspended {
			// Edits arrived while the save ran and any debounce fire that
			// landed during it coalesced away. Reschedule so the uncovered
			// edits still reach disk without further user action.
			if o.timer != nil {
				o.timer.Stop()
			}
			o.timer = time.AfterFunc(o.debounce, func() {
				_ = o.runSave(false)
			})
		}
	}
	o.mu.Unlock()
	return err
}
