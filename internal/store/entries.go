package store

import (
	"fmt"
	"time"
)

// All returns a defensive copy of the cached entries, sorted ascending
// by start time.
func (s *Store) All() []TimeEntry {
	out := make([]TimeEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get looks an entry up by id, checking memory first and falling back to
// re-reading the monthly file the id's timestamp points at. The fallback
// covers entries never loaded into memory.
func (s *Store) Get(id string) (TimeEntry, bool) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return s.entries[i], true
		}
	}
	return s.fromDisk(id)
}

func (s *Store) fromDisk(id string) (TimeEntry, bool) {
	start, ok := parseEntryID(id)
	if !ok {
		return TimeEntry{}, false
	}
	for _, e := range s.months.ReadMonth(start.Year(), start.Month()) {
		if e.ID == id {
			return e, true
		}
	}
	return TimeEntry{}, false
}

// Add persists a finalized entry and inserts it into the cache. The
// start time is truncated to whole seconds and the id derived from it,
// so what comes back from the monthly log is what went in.
func (s *Store) Add(e TimeEntry) error {
	e.StartTime = truncateToSecond(e.StartTime)
	e.ID = EntryID(e.Start())
	if err := s.months.Upsert(&e); err != nil {
		return fmt.Errorf("add entry: %w", err)
	}
	s.replaceOrAppend(e)
	return nil
}

// Update merges the non-nil fields of upd into the entry with the given
// id and re-persists it. An entry recovered from disk rather than memory
// is inserted into the cache for consistency going forward. Editing the
// start time changes the derived id, so the old row is removed first.
func (s *Store) Update(id string, upd EntryUpdate) (TimeEntry, error) {
	e, ok := s.Get(id)
	if !ok {
		return TimeEntry{}, fmt.Errorf("update entry: no entry with id %s", id)
	}

	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Memo != nil {
		e.Memo = *upd.Memo
	}
	if upd.EndTime != nil {
		e.EndTime = upd.EndTime
	}
	if upd.Duration != nil {
		e.Duration = *upd.Duration
	}
	if upd.StartTime != nil {
		if start := truncateToSecond(*upd.StartTime); start != e.StartTime {
			if err := s.months.Delete(e.ID); err != nil {
				return TimeEntry{}, fmt.Errorf("update entry: %w", err)
			}
			e.StartTime = start
			e.ID = EntryID(e.Start())
		}
	}

	if e.Running {
		if err := s.running.Write(&e); err != nil {
			return TimeEntry{}, fmt.Errorf("update entry: %w", err)
		}
	} else if err := s.months.Upsert(&e); err != nil {
		return TimeEntry{}, fmt.Errorf("update entry: %w", err)
	}

	s.removeFromCache(id)
	s.replaceOrAppend(e)
	return e, nil
}

// Remove deletes an entry from memory and from durable storage. Removing
// the running entry clears the slot instead of touching a monthly file.
// An unknown id still attempts durable removal and is not an error.
func (s *Store) Remove(id string) error {
	running := s.Running()
	s.removeFromCache(id)

	if running != nil && running.ID == id {
		return s.running.Clear()
	}
	if err := s.months.Delete(id); err != nil {
		return fmt.Errorf("remove entry: %w", err)
	}
	return nil
}

// Running returns a copy of the in-progress entry, or nil. By the
// single-active-timer invariant there is at most one.
func (s *Store) Running() *TimeEntry {
	for i := range s.entries {
		if s.entries[i].Running {
			e := s.entries[i]
			return &e
		}
	}
	return nil
}

// StartTimer begins tracking a new entry. A timer already running is
// stopped and finalized first, never reported as an error.
func (s *Store) StartTimer(category, memo string) (TimeEntry, error) {
	if s.Running() != nil {
		if _, err := s.StopTimer(); err != nil {
			return TimeEntry{}, err
		}
	}

	// Whole-second start: the row format has no sub-second precision.
	now := time.Now().Truncate(time.Second)
	e := TimeEntry{
		ID:        EntryID(now),
		StartTime: now.UnixMilli(),
		Category:  category,
		Memo:      memo,
		Running:   true,
	}
	if err := s.running.Write(&e); err != nil {
		return TimeEntry{}, fmt.Errorf("start timer: %w", err)
	}
	s.replaceOrAppend(e)
	return e, nil
}

// StopTimer finalizes the running entry: the live elapsed time becomes
// the persisted duration, the row goes to its monthly log, and the slot
// is cleared. A no-op returning nil when nothing is running.
func (s *Store) StopTimer() (*TimeEntry, error) {
	e := s.Running()
	if e == nil {
		return nil, nil
	}

	now := time.Now()
	e.Duration = LiveDuration(e.StartTime, e.Duration, now)
	millis := now.UnixMilli()
	e.EndTime = &millis
	e.Running = false

	if err := s.months.Upsert(e); err != nil {
		return nil, fmt.Errorf("stop timer: %w", err)
	}
	if err := s.running.Clear(); err != nil {
		return nil, fmt.Errorf("stop timer: %w", err)
	}

	s.removeFromCache(e.ID)
	s.replaceOrAppend(*e)
	return e, nil
}

// CancelTimer discards the running entry entirely, leaving no durable
// trace. A no-op when nothing is running.
func (s *Store) CancelTimer() error {
	e := s.Running()
	if e == nil {
		return nil
	}
	if err := s.running.Clear(); err != nil {
		return fmt.Errorf("cancel timer: %w", err)
	}
	s.removeFromCache(e.ID)
	return nil
}

func (s *Store) replaceOrAppend(e TimeEntry) {
	for i := range s.entries {
		if s.entries[i].ID == e.ID {
			s.entries[i] = e
			s.sortEntries()
			return
		}
	}
	s.entries = append(s.entries, e)
	s.sortEntries()
}

func (s *Store) removeFromCache(id string) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}
