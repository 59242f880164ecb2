package autosave

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/tokenvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 30 * time.Millisecond

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func TestMarkDirty_DebouncedSingleSave(t *testing.T) {
	o := New(testDebounce)
	defer o.Close()

	var saves atomic.Int64
	o.Bind(func() error {
		saves.Add(1)
		return nil
	})

	// A burst of edits coalesces into one save.
	o.MarkDirty()
	o.MarkDirty()
	o.MarkDirty()
	assert.True(t, o.Status().Dirty)

	waitFor(t, func() bool { return saves.Load() == 1 }, "debounced save")
	waitFor(t, func() bool { return o.Status().State == models.SaveSaved }, "saved status")

	status := o.Status()
	assert.False(t, status.Dirty)
	require.NotNil(t, status.LastSavedAt)

	// No further saves without new edits.
	time.Sleep(3 * testDebounce)
	assert.Equal(t, int64(1), saves.Load())
}

func TestMarkDirty_ResetsTimer(t *testing.T) {
	o := New(50 * time.Millisecond)
	defer o.Close()

	var saves atomic.Int64
	o.Bind(func() error {
		saves.Add(1)
		return nil
	})

	// Keep editing faster than the debounce interval; nothing may fire yet.
	for i := 0; i < 4; i++ {
		o.MarkDirty()
		time.Sleep(20 * time.Millisecond)
	}
	assert.Equal(t, int64(0), saves.Load())

	waitFor(t, func() bool { return saves.Load() == 1 }, "save after edits stop")
}

func TestSaveNow_Immediate(t *testing.T) {
	o := New(time.Hour) // debounce would never fire on its own
	defer o.Close()

	var saves atomic.Int64
	o.Bind(func() error {
		saves.Add(1)
		return nil
	})

	o.MarkDirty()
	require.NoError(t, o.SaveNow())
	assert.Equal(t, int64(1), saves.Load())

	status := o.Status()
	assert.Equal(t, models.SaveSaved, status.State)
	assert.False(t, status.Dirty)
}

func TestSave_ErrorKeepsDirty(t *testing.T) {
	o := New(time.Hour)
	defer o.Close()

	o.Bind(func() error { return errors.New("disk full") })
	o.MarkDirty()

	err := o.SaveNow()
	require.Error(t, err)

	status := o.Status()
	assert.Equal(t, models.SaveError, status.State)
	assert.Contains(t, status.Err, "disk full")
	// Failed saves leave the edits pending.
	assert.True(t, status.Dirty)

	o.ClearError()
	status = o.Status()
	assert.Equal(t, models.SaveIdle, status.State)
	assert.Empty(t, status.Err)
	assert.True(t, status.Dirty)
}

func TestSave_DirtyDuringSaveStaysDirty(t *testing.T) {
	o := New(time.Hour)
	defer o.Close()

	block := make(chan struct{})
	var saves atomic.Int64
	o.Bind(func() error {
		saves.Add(1)
		<-block
		return nil
	})

	o.MarkDirty()
	done := make(chan error, 1)
	go func() { done <- o.SaveNow() }()
	waitFor(t, func() bool { return o.Status().State == models.SaveSaving }, "save start")

	// An edit arriving while the save runs is not covered by it.
	o.MarkDirty()
	close(block)
	require.NoError(t, <-done)

	status := o.Status()
	assert.Equal(t, models.SaveSaved, status.State)
	assert.True(t, status.Dirty)

	// The next explicit save picks up the uncovered edit.
	require.NoError(t, o.SaveNow())
	assert.Equal(t, int64(2), saves.Load())
	assert.False(t, o.Status().Dirty)
}

func TestMarkDirty_DuringSaveReschedules(t *testing.T) {
	o := New(testDebounce)
	defer o.Close()

	block := make(chan struct{})
	var saves atomic.Int64
	o.Bind(func() error {
		if saves.Add(1) == 1 {
			<-block
		}
		return nil
	})

	o.MarkDirty()
	waitFor(t, func() bool { return o.Status().State == models.SaveSaving }, "first save start")

	// Edit while the save runs. Its debounce fires into the in-flight save
	// and must not be lost with it.
	o.MarkDirty()
	time.Sleep(3 * testDebounce)
	close(block)

	// The uncovered edit is saved without any further notification.
	waitFor(t, func() bool { return saves.Load() == 2 }, "follow-up save")
	waitFor(t, func() bool { return !o.Status().Dirty }, "dirty cleared")
	assert.Equal(t, models.SaveSaved, o.Status().State)
}

func TestSaveNow_CoalescesWithInFlight(t *testing.T) {
	o := New(time.Hour)
	defer o.Close()

	block := make(chan struct{})
	var saves atomic.Int64
	o.Bind(func() error {
		saves.Add(1)
		<-block
		return nil
	})

	o.MarkDirty()
	first := make(chan error, 1)
	go func() { first <- o.SaveNow() }()
	waitFor(t, func() bool { return o.Status().State == models.SaveSaving }, "save start")

	// A second explicit save with no new edits waits out the in-flight one
	// and then has nothing to do.
	second := make(chan error, 1)
	go func() { second <- o.SaveNow() }()

	time.Sleep(20 * time.Millisecond)
	close(block)
	require.NoError(t, <-first)
	require.NoError(t, <-second)
	assert.Equal(t, int64(1), saves.Load())
}

func TestSuspend_CancelsPendingSave(t *testing.T) {
	o := New(testDebounce)
	defer o.Close()

	var saves atomic.Int64
	o.Bind(func() error {
		saves.Add(1)
		return nil
	})

	o.MarkDirty()
	o.Suspend()

	time.Sleep(3 * testDebounce)
	assert.Equal(t, int64(0), saves.Load())

	// Resume restarts the debounce for the still-pending edits.
	o.Resume()
	waitFor(t, func() bool { return saves.Load() == 1 }, "save after resume")
}

func TestSuspend_WaitsOutInFlightSave(t *testing.T) {
	o := New(time.Hour)
	defer o.Close()

	block := make(chan struct{})
	o.Bind(func() error {
		<-block
		return nil
	})

	o.MarkDirty()
	go func() { _ = o.SaveNow() }()
	waitFor(t, func() bool { return o.Status().State == models.SaveSaving }, "save start")

	suspended := make(chan struct{})
	go func() {
		o.Suspend()
		close(suspended)
	}()

	select {
	case <-suspended:
		t.Fatal("Suspend returned while a save was in flight")
	case <-time.After(30 * time.Millisecond):
	}

	close(block)
	select {
	case <-suspended:
	case <-time.After(2 * time.Second):
		t.Fatal("Suspend did not return after the save finished")
	}
}

func TestClose_DropsPendingWork(t *testing.T) {
	o := New(testDebounce)

	var saves atomic.Int64
	o.Bind(func() error {
		saves.Add(1)
		return nil
	})

	o.MarkDirty()
	o.Close()

	time.Sleep(3 * testDebounce)
	assert.Equal(t, int64(0), saves.Load())

	// Post-close notifications are ignored.
	o.MarkDirty()
	time.Sleep(2 * testDebounce)
	assert.Equal(t, int64(0), saves.Load())
}

func TestSaveNow_NoBinding(t *testing.T) {
	o := New(testDebounce)
	defer o.Close()

	// A save with nothing bound is a successful no-op.
	require.NoError(t, o.SaveNow())
	assert.Equal(t, models.SaveSaved, o.Status().State)
}
