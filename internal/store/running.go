package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sadopc/tempo/internal/storage"
)

const runningFile = "running-timer.json"

// runningSlot persists the sole in-progress entry at a fixed path,
// independent of the monthly logs. The slot holds at most one entry and
// that entry always has Running set; stopping a timer clears the slot in
// the same operation that upserts the finalized row.
type runningSlot struct {
	files storage.Adapter
	log   *slog.Logger
}

// Read returns the persisted running entry, or nil when the slot is
// empty or unreadable.
func (r *runningSlot) Read() *TimeEntry {
	exists, err := r.files.Exists(runningFile)
	if err != nil || !exists {
		if err != nil {
			r.log.Error("checking running-timer slot", "err", err)
		}
		return nil
	}
	content, err := r.files.Read(runningFile)
	if err != nil {
		r.log.Error("reading running-timer slot", "err", err)
		return nil
	}
	var e TimeEntry
	if err := json.Unmarshal([]byte(content), &e); err != nil {
		r.log.Error("parsing running-timer slot", "err", err)
		return nil
	}
	e.Running = true
	// Slots are hand-editable; re-derive the invariants a stray editor
	// can break, the same way decode does for monthly rows.
	e.StartTime = truncateToSecond(e.StartTime)
	e.ID = EntryID(e.Start())
	return &e
}

// Write persists e as the current running entry.
func (r *runningSlot) Write(e *TimeEntry) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal running entry: %w", err)
	}
	if err := r.files.Write(runningFile, string(data)); err != nil {
		return fmt.Errorf("write running-timer slot: %w", err)
	}
	return nil
}

// Clear removes the slot record entirely. An already-empty slot is a
// no-op.
func (r *runningSlot) Clear() error {
	err := r.files.Delete(runningFile)
	if err != nil && !storage.IsNotExist(err) {
		return fmt.Errorf("clear running-timer slot: %w", err)
	}
	return nil
}
